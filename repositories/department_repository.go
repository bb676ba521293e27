package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Dosada05/scoreboard-system/models"
)

var ErrDepartmentNotFound = errors.New("department not found")

// DepartmentRepository — тонкая читающая сторона справочника подразделений.
// Полный CRUD живёт во внешней админке; здесь только то, что нужно матчам.
type DepartmentRepository interface {
	GetByID(ctx context.Context, id string) (*models.Department, error)
	List(ctx context.Context) ([]*models.Department, error)
	// LoadOrCreate возвращает существующее подразделение либо заводит
	// запись с данным ID при первом упоминании.
	LoadOrCreate(ctx context.Context, id, name string) (*models.Department, error)
}

type mongoDepartmentRepository struct {
	col *mongo.Collection
}

func NewMongoDepartmentRepository(db *mongo.Database) DepartmentRepository {
	return &mongoDepartmentRepository{col: db.Collection("departments")}
}

func (r *mongoDepartmentRepository) GetByID(ctx context.Context, id string) (*models.Department, error) {
	var dep models.Department
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&dep)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrDepartmentNotFound
		}
		return nil, fmt.Errorf("failed to fetch department %s: %w", id, err)
	}
	return &dep, nil
}

func (r *mongoDepartmentRepository) List(ctx context.Context) ([]*models.Department, error) {
	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query departments: %w", err)
	}
	defer cur.Close(ctx)

	deps := make([]*models.Department, 0)
	for cur.Next(ctx) {
		var d models.Department
		if err := cur.Decode(&d); err != nil {
			return nil, fmt.Errorf("failed to decode department document: %w", err)
		}
		deps = append(deps, &d)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("error during department cursor iteration: %w", err)
	}
	return deps, nil
}

func (r *mongoDepartmentRepository) LoadOrCreate(ctx context.Context, id, name string) (*models.Department, error) {
	now := time.Now().UTC()
	update := bson.M{
		"$setOnInsert": bson.M{"name": name, "created_at": now},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var dep models.Department
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&dep); err != nil {
		return nil, fmt.Errorf("failed to load or create department %s: %w", id, err)
	}
	return &dep, nil
}
