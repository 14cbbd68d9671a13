package bridge

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"sync"
	"time"

	"github.com/orgvault/orgvault/internal/models"
	"github.com/orgvault/orgvault/pkg/metrics"
)

// ErrTokenNotFound is returned when a bridge token is unknown or expired.
// Callers cannot distinguish the two cases on purpose.
var ErrTokenNotFound = errors.New("token not found or expired")

// entry is one issued bridge token. Tokens are never mutated after issuance;
// they either get resolved or reaped.
type entry struct {
	principal models.Principal
	issuedAt  time.Time
}

// Broker bridges a browser-completed login to a CLI process. It issues
// short-lived opaque tokens and resolves them back to the principal they were
// issued for. Tokens stay resolvable until their TTL passes (resolution does
// not consume them), then become permanently unresolvable.
//
// The token map is the only shared mutable state in the service core; all
// access goes through the mutex and nothing is held across I/O.
type Broker struct {
	mu     sync.Mutex
	tokens map[string]entry
	ttl    time.Duration
	now    func() time.Time
}

// NewBroker creates a broker with the given token TTL. A non-positive ttl
// falls back to 10 minutes.
func NewBroker(ttl time.Duration) *Broker {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &Broker{
		tokens: make(map[string]entry),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue generates a new opaque token for the principal and stores it. The
// token is 24 random bytes hex-encoded, so collisions are not a practical
// concern and guessing is infeasible.
func (b *Broker) Issue(p models.Principal) (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	token := hex.EncodeToString(buf)

	b.mu.Lock()
	b.tokens[token] = entry{principal: p, issuedAt: b.now()}
	b.mu.Unlock()

	metrics.BridgeTokensIssued.Inc()
	return token, nil
}

// Resolve returns the principal a live token was issued for. Expired entries
// are reaped on access so an expired token behaves exactly like one that
// never existed.
func (b *Broker) Resolve(token string) (models.Principal, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	e, ok := b.tokens[token]
	if !ok {
		return models.Principal{}, ErrTokenNotFound
	}
	if b.now().Sub(e.issuedAt) > b.ttl {
		delete(b.tokens, token)
		metrics.BridgeTokensExpired.Inc()
		return models.Principal{}, ErrTokenNotFound
	}
	metrics.BridgeTokensResolved.Inc()
	return e.principal, nil
}

// Start runs a periodic sweep that reclaims expired tokens until ctx is
// canceled. Lazy reaping in Resolve already keeps behavior correct; the sweep
// bounds memory for tokens that are never looked up again.
func (b *Broker) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				b.sweep()
			}
		}
	}()
}

func (b *Broker) sweep() {
	b.mu.Lock()
	defer b.mu.Unlock()
	now := b.now()
	for token, e := range b.tokens {
		if now.Sub(e.issuedAt) > b.ttl {
			delete(b.tokens, token)
			metrics.BridgeTokensExpired.Inc()
		}
	}
}

// Len reports the number of live entries (expired-but-unswept included).
func (b *Broker) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.tokens)
}
