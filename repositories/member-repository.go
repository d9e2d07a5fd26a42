package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/gurkanusta/WorkNest/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MemberRepository struct {
	collection *mongo.Collection
}

func NewMemberRepository(collection *mongo.Collection) *MemberRepository {
	return &MemberRepository{collection: collection}
}

// EnsureIndexes creates the unique index on (projectId, userId). Correctness
// under concurrent duplicate invites relies on this index rejecting the
// second insert.
func (r *MemberRepository) EnsureIndexes(ctx context.Context) error {
	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "projectId", Value: 1}, {Key: "userId", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := r.collection.Indexes().CreateOne(ctx, indexModel); err != nil {
		return fmt.Errorf("failed to create unique index on project members: %w", err)
	}
	return nil
}

func (r *MemberRepository) Create(ctx context.Context, member *models.ProjectMember) error {
	result, err := r.collection.InsertOne(ctx, member)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("failed to add project member: %w", err)
	}
	member.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *MemberRepository) Find(ctx context.Context, projectID, userID primitive.ObjectID) (models.ProjectMember, error) {
	var member models.ProjectMember
	err := r.collection.FindOne(ctx, bson.M{"projectId": projectID, "userId": userID}).Decode(&member)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.ProjectMember{}, ErrNotFound
		}
		return models.ProjectMember{}, fmt.Errorf("failed to fetch project member: %w", err)
	}
	return member, nil
}

func (r *MemberRepository) FindByUser(ctx context.Context, userID primitive.ObjectID) ([]models.ProjectMember, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch memberships: %w", err)
	}
	defer cursor.Close(ctx)

	var members []models.ProjectMember
	if err := cursor.All(ctx, &members); err != nil {
		return nil, fmt.Errorf("failed to decode memberships: %w", err)
	}
	return members, nil
}

func (r *MemberRepository) FindByProject(ctx context.Context, projectID primitive.ObjectID) ([]models.ProjectMember, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"projectId": projectID})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch project members: %w", err)
	}
	defer cursor.Close(ctx)

	var members []models.ProjectMember
	if err := cursor.All(ctx, &members); err != nil {
		return nil, fmt.Errorf("failed to decode project members: %w", err)
	}
	return members, nil
}
