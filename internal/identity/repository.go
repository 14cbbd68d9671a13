package identity

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/orgvault/orgvault/internal/models"
)

// ErrNotFound is returned when a directory record does not exist.
var ErrNotFound = errors.New("record not found")

// UserRepository defines persistence operations for users
type UserRepository interface {
	// UpsertByProviderID creates the user if absent, otherwise refreshes the
	// mutable fields (username, provider access token). The organization id
	// is only written on creation; it never changes afterwards.
	UpsertByProviderID(ctx context.Context, u *models.User) (*models.User, error)
	GetByProviderID(ctx context.Context, providerID string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// OrgRepository defines persistence operations for organizations and teams
type OrgRepository interface {
	FindOrCreateByName(ctx context.Context, name string) (*models.Organization, error)
	GetByID(ctx context.Context, id string) (*models.Organization, error)
	CreateTeam(ctx context.Context, team *models.Team) (*models.Team, error)
	GetTeam(ctx context.Context, id string) (*models.Team, error)
	AddTeamMember(ctx context.Context, teamID, userID string) error
}

// MongoUserRepository implements UserRepository using MongoDB
type MongoUserRepository struct {
	col *mongo.Collection
}

func NewMongoUserRepository(col *mongo.Collection) *MongoUserRepository {
	return &MongoUserRepository{col: col}
}

func (r *MongoUserRepository) UpsertByProviderID(ctx context.Context, u *models.User) (*models.User, error) {
	now := time.Now().UTC()

	filter := bson.M{"providerId": u.ProviderID}
	update := bson.M{
		"$set": bson.M{
			"username":    u.Username,
			"accessToken": u.AccessToken,
			"updatedAt":   now,
		},
		"$setOnInsert": bson.M{
			"providerId":     u.ProviderID,
			"organizationId": u.OrganizationID,
			"createdAt":      now,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var updated models.User
	if err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *MongoUserRepository) GetByProviderID(ctx context.Context, providerID string) (*models.User, error) {
	var u models.User
	if err := r.col.FindOne(ctx, bson.M{"providerId": providerID}).Decode(&u); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *MongoUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	var u models.User
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&u); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// MongoOrgRepository implements OrgRepository using MongoDB. Organizations and
// teams live in separate collections.
type MongoOrgRepository struct {
	orgs  *mongo.Collection
	teams *mongo.Collection
}

func NewMongoOrgRepository(orgs, teams *mongo.Collection) *MongoOrgRepository {
	return &MongoOrgRepository{orgs: orgs, teams: teams}
}

func (r *MongoOrgRepository) FindOrCreateByName(ctx context.Context, name string) (*models.Organization, error) {
	now := time.Now().UTC()
	filter := bson.M{"name": name}
	update := bson.M{
		"$setOnInsert": bson.M{
			"name":      name,
			"createdAt": now,
			"updatedAt": now,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var org models.Organization
	if err := r.orgs.FindOneAndUpdate(ctx, filter, update, opts).Decode(&org); err != nil {
		return nil, err
	}
	return &org, nil
}

func (r *MongoOrgRepository) GetByID(ctx context.Context, id string) (*models.Organization, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	var org models.Organization
	if err := r.orgs.FindOne(ctx, bson.M{"_id": oid}).Decode(&org); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &org, nil
}

func (r *MongoOrgRepository) CreateTeam(ctx context.Context, team *models.Team) (*models.Team, error) {
	now := time.Now().UTC()
	team.CreatedAt = now
	team.UpdatedAt = now
	res, err := r.teams.InsertOne(ctx, bson.M{
		"name":           team.Name,
		"organizationId": team.OrganizationID,
		"memberIds":      team.MemberIDs,
		"createdAt":      team.CreatedAt,
		"updatedAt":      team.UpdatedAt,
	})
	if err != nil {
		return nil, err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		team.ID = oid.Hex()
	}
	return team, nil
}

func (r *MongoOrgRepository) GetTeam(ctx context.Context, id string) (*models.Team, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	var team models.Team
	if err := r.teams.FindOne(ctx, bson.M{"_id": oid}).Decode(&team); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &team, nil
}

func (r *MongoOrgRepository) AddTeamMember(ctx context.Context, teamID, userID string) error {
	oid, err := primitive.ObjectIDFromHex(teamID)
	if err != nil {
		return ErrNotFound
	}
	res, err := r.teams.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$addToSet": bson.M{"memberIds": userID},
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
