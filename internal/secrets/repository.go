package secrets

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/orgvault/orgvault/internal/models"
)

// Repository defines persistence operations for secrets. There is no update
// or delete on the core surface; records are append-only.
type Repository interface {
	Create(ctx context.Context, secret *models.Secret) (*models.Secret, error)
	ListByOrg(ctx context.Context, orgID string) ([]models.Secret, error)
	GetByID(ctx context.Context, id string) (*models.Secret, error)
	AddUserGrant(ctx context.Context, secretID, userID string) error
	AddTeamGrant(ctx context.Context, secretID, teamID string) error
}

// MongoRepository implements Repository using a Mongo collection. Grants are
// adjacency sets on the secret document, kept duplicate-free with $addToSet.
type MongoRepository struct {
	col *mongo.Collection
}

func NewMongoRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Create(ctx context.Context, secret *models.Secret) (*models.Secret, error) {
	now := time.Now().UTC()
	secret.CreatedAt = now
	secret.UpdatedAt = now
	res, err := r.col.InsertOne(ctx, bson.M{
		"key":            secret.Key,
		"value":          secret.Value,
		"organizationId": secret.OrganizationID,
		"createdAt":      secret.CreatedAt,
		"updatedAt":      secret.UpdatedAt,
	})
	if err != nil {
		return nil, err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		secret.ID = oid.Hex()
	}
	return secret, nil
}

func (r *MongoRepository) ListByOrg(ctx context.Context, orgID string) ([]models.Secret, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{"organizationId": orgID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []models.Secret{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *MongoRepository) GetByID(ctx context.Context, id string) (*models.Secret, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	var secret models.Secret
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&secret); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &secret, nil
}

func (r *MongoRepository) AddUserGrant(ctx context.Context, secretID, userID string) error {
	return r.addGrant(ctx, secretID, "grantedUserIds", userID)
}

func (r *MongoRepository) AddTeamGrant(ctx context.Context, secretID, teamID string) error {
	return r.addGrant(ctx, secretID, "grantedTeamIds", teamID)
}

func (r *MongoRepository) addGrant(ctx context.Context, secretID, field, value string) error {
	oid, err := primitive.ObjectIDFromHex(secretID)
	if err != nil {
		return ErrNotFound
	}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$addToSet": bson.M{field: value},
		"$set":      bson.M{"updatedAt": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
