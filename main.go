package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/orgvault/orgvault/handlers"
	"github.com/orgvault/orgvault/internal/bridge"
	"github.com/orgvault/orgvault/internal/config"
	"github.com/orgvault/orgvault/internal/database"
	"github.com/orgvault/orgvault/internal/identity"
	"github.com/orgvault/orgvault/internal/models"
	"github.com/orgvault/orgvault/internal/provider"
	"github.com/orgvault/orgvault/internal/secrets"
	"github.com/orgvault/orgvault/internal/websession"
	"github.com/orgvault/orgvault/pkg/logger"
	"github.com/orgvault/orgvault/pkg/metrics"
	"github.com/orgvault/orgvault/pkg/middleware"
)

var startTime = time.Now()

// sessionResolver adapts websession.Service to the auth middleware.
type sessionResolver struct {
	svc *websession.Service
}

func (r sessionResolver) Resolve(ctx context.Context, token string) (models.Principal, error) {
	s, err := r.svc.Validate(ctx, token)
	if err != nil {
		return models.Principal{}, err
	}
	if s == nil {
		return models.Principal{}, fmt.Errorf("session not found")
	}
	return s.Principal(), nil
}

func main() {
	// logging is controlled with LOG_LEVEL env: debug|info|warn|error|fatal
	logger.Init(os.Getenv("LOG_LEVEL"))
	logger.Debugf("startup: LOG_LEVEL=%s", logger.LevelString())

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: provider=%s mongo=%v redis=%v", cfg.OAuth.Provider, cfg.MongoDB.URI != "", cfg.Redis.Host != "")

	ctx := context.Background()

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	// Lightweight CORS middleware for dev/test: set common headers and respond to OPTIONS.
	// (Keep this intentionally simple — production should use a stricter policy.)
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Length")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(200)
			return
		}
		c.Next()
	})

	// Connect to Redis early so the rate-limiter and session store can use it
	var redisClient *redis.Client
	if cfg.Redis.Host != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s:%s): %v", cfg.Redis.Host, cfg.Redis.Port, err)
			redisClient = nil
		} else {
			logger.Infof("connected to Redis at %s:%s", cfg.Redis.Host, cfg.Redis.Port)
		}
	}

	// Identity provider adapter (GitHub by default, generic OIDC when configured)
	idp, err := provider.New(ctx, cfg.OAuth)
	if err != nil {
		logger.Fatalf("failed to initialize identity provider %q: %v", cfg.OAuth.Provider, err)
	}

	// MongoDB-backed stores with retry/backoff to tolerate startup races
	var mongoClient *mongo.Client
	var dir *identity.Service
	var secretSvc *secrets.Service
	if cfg.MongoDB.URI != "" {
		const maxAttempts = 5
		backoff := time.Second
		var errConn error
		for attempt := 1; attempt <= maxAttempts; attempt++ {
			mongoClient, errConn = database.ConnectMongo(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout)
			if errConn == nil {
				break
			}
			logger.Warnf("attempt %d/%d: failed to connect to MongoDB: %v", attempt, maxAttempts, errConn)
			if attempt < maxAttempts {
				time.Sleep(backoff)
				backoff *= 2
			}
		}
		if errConn != nil {
			logger.Fatalf("could not connect to MongoDB after %d attempts: %v", maxAttempts, errConn)
		}
		defer func() { _ = mongoClient.Disconnect(ctx) }()

		db := mongoClient.Database(cfg.MongoDB.Database)
		users := identity.NewMongoUserRepository(db.Collection("users"))
		orgs := identity.NewMongoOrgRepository(db.Collection("organizations"), db.Collection("teams"))
		dir = identity.NewService(users, orgs, cfg.OAuth.DefaultOrg)
		secretSvc = secrets.NewService(secrets.NewMongoRepository(db.Collection("secrets")), users, orgs)
	} else {
		// in-memory stores for local development without a database
		logger.Warn("MONGODB_URI not set; using volatile in-memory stores")
		users := identity.NewMemoryUserRepository()
		orgs := identity.NewMemoryOrgRepository()
		dir = identity.NewService(users, orgs, cfg.OAuth.DefaultOrg)
		secretSvc = secrets.NewService(secrets.NewMemoryRepository(), users, orgs)
	}

	if _, err := dir.EnsureDefaultOrg(ctx); err != nil {
		logger.Fatalf("failed to ensure default organization: %v", err)
	}

	// Browser sessions: Redis when available, otherwise Mongo
	var sessionRepo websession.Repository
	switch {
	case redisClient != nil:
		sessionRepo = websession.NewRedisRepository(redisClient, "websession:")
		logger.Infof("using Redis for browser session storage")
	case mongoClient != nil:
		sessionRepo = websession.NewMongoRepository(mongoClient.Database(cfg.MongoDB.Database).Collection("sessions"))
	default:
		logger.Fatalf("no session store available: configure REDIS_HOST or MONGODB_URI")
	}
	sessionSvc := websession.NewService(sessionRepo)

	// CLI bridge token broker with background expiry sweep
	broker := bridge.NewBroker(cfg.Bridge.TokenTTL)
	broker.Start(ctx, cfg.Bridge.SweepInterval)

	// Auth must run before the rate limiter so authenticated requests are
	// limited per principal instead of per IP.
	r.Use(middleware.Auth(broker, sessionResolver{svc: sessionSvc}))

	// Optional global rate limiter (per-user when authenticated, otherwise per-IP)
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && redisClient != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimitMiddleware(redisClient, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	r.GET("/ready", func(c *gin.Context) {
		ready := true
		deps := map[string]bool{}

		deps["mongodb"] = mongoClient == nil || mongoClient.Ping(c.Request.Context(), nil) == nil
		if !deps["mongodb"] {
			ready = false
		}
		deps["redis"] = redisClient == nil || redisClient.Ping(c.Request.Context()).Err() == nil
		if !deps["redis"] {
			ready = false
		}

		status := http.StatusOK
		state := "ready"
		if !ready {
			status = http.StatusServiceUnavailable
			state = "not_ready"
		}
		c.JSON(status, gin.H{"status": state, "deps": deps, "uptime": time.Since(startTime).String()})
	})

	handlers.NewAuthHandler(cfg, idp, dir, broker, sessionSvc).Register(r)
	handlers.NewSecretsHandler(secretSvc).Register(r)
	handlers.RegisterSwagger(r)

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	logger.Infof("starting orgvault on %s", addr)

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	if err := srv.ListenAndServe(); err != nil {
		logger.Fatalf("server failed: %v", err)
	}
}
