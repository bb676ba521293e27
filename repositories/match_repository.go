package repositories

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Dosada05/scoreboard-system/models"
)

var (
	ErrMatchNotFound = errors.New("match not found")

	// ErrMatchVersionConflict — оптимистическая проверка версии не прошла:
	// кто-то успел зафиксировать другое обновление первым.
	ErrMatchVersionConflict = errors.New("match was modified concurrently")
)

type MatchRepository interface {
	Create(ctx context.Context, match *models.Match) error
	GetByID(ctx context.Context, id string) (*models.Match, error)
	List(ctx context.Context) ([]*models.Match, error)
	ListByStatus(ctx context.Context, statuses ...models.MatchStatus) ([]*models.Match, error)
	ListCompletedBySport(ctx context.Context, sport models.SportType) ([]*models.Match, error)
	ReplaceVersioned(ctx context.Context, match *models.Match, expectedVersion int64) error
}

type mongoMatchRepository struct {
	col *mongo.Collection
}

func NewMongoMatchRepository(db *mongo.Database) MatchRepository {
	return &mongoMatchRepository{col: db.Collection("matches")}
}

func (r *mongoMatchRepository) Create(ctx context.Context, match *models.Match) error {
	if match.ID == "" {
		match.ID = primitive.NewObjectID().Hex()
	}
	if _, err := r.col.InsertOne(ctx, match); err != nil {
		return fmt.Errorf("failed to insert match: %w", err)
	}
	return nil
}

func (r *mongoMatchRepository) GetByID(ctx context.Context, id string) (*models.Match, error) {
	var match models.Match
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&match)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to fetch match %s: %w", id, err)
	}
	return &match, nil
}

func (r *mongoMatchRepository) List(ctx context.Context) ([]*models.Match, error) {
	return r.list(ctx, bson.M{})
}

func (r *mongoMatchRepository) ListByStatus(ctx context.Context, statuses ...models.MatchStatus) ([]*models.Match, error) {
	return r.list(ctx, bson.M{"status": bson.M{"$in": statuses}})
}

func (r *mongoMatchRepository) ListCompletedBySport(ctx context.Context, sport models.SportType) ([]*models.Match, error) {
	return r.list(ctx, bson.M{"sport": sport, "status": models.StatusCompleted})
}

func (r *mongoMatchRepository) list(ctx context.Context, filter bson.M) ([]*models.Match, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}
	defer cur.Close(ctx)

	matches := make([]*models.Match, 0)
	for cur.Next(ctx) {
		var m models.Match
		if err := cur.Decode(&m); err != nil {
			return nil, fmt.Errorf("failed to decode match document: %w", err)
		}
		matches = append(matches, &m)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("error during match cursor iteration: %w", err)
	}
	return matches, nil
}

// ReplaceVersioned заменяет документ целиком при условии, что его версия в
// базе всё ещё expectedVersion. This is the atomic load-modify-store the
// update service relies on: two concurrent updates against the same version
// cannot both match the filter, so one of them always loses cleanly.
func (r *mongoMatchRepository) ReplaceVersioned(ctx context.Context, match *models.Match, expectedVersion int64) error {
	match.Version = expectedVersion + 1

	res, err := r.col.ReplaceOne(ctx,
		bson.M{"_id": match.ID, "version": expectedVersion},
		match,
	)
	if err != nil {
		match.Version = expectedVersion
		return fmt.Errorf("failed to replace match %s: %w", match.ID, err)
	}
	if res.MatchedCount == 0 {
		match.Version = expectedVersion
		// Отличаем удалённый матч от проигранной гонки версий.
		n, countErr := r.col.CountDocuments(ctx, bson.M{"_id": match.ID})
		if countErr != nil {
			return fmt.Errorf("failed to check match %s existence: %w", match.ID, countErr)
		}
		if n == 0 {
			return ErrMatchNotFound
		}
		return ErrMatchVersionConflict
	}
	return nil
}
