package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	dmn "github.com/beka-birhanu/vinom-pathfinder/domain"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	writeTimeout = time.Second
	readTimeout  = 2 * time.Second
)

var (
	ErrNotFound = dmn.ErrRunNotFound
)

// RunRepo handles the persistence of solved runs.
type RunRepo struct {
	collection *mongo.Collection
}

// NewRunRepo creates a new RunRepo with the given MongoDB client, database name, and collection name.
func NewRunRepo(client *mongo.Client, dbName, collectionName string) *RunRepo {
	return NewRunRepoFromCollection(client.Database(dbName).Collection(collectionName))
}

// NewRunRepoFromCollection wraps an already resolved collection.
func NewRunRepoFromCollection(collection *mongo.Collection) *RunRepo {
	return &RunRepo{
		collection: collection,
	}
}

// EnsureIndexes creates the index Recent sorts on.
func (r *RunRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "createdAt", Value: -1}},
	})
	return err
}

// Save inserts or updates a run in the repository.
// If the run already exists, it updates the existing record.
// If the run does not exist, it adds a new record.
func (r *RunRepo) Save(ctx context.Context, run *dmn.Run) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	filter := bson.M{"_id": run.ID}
	update := bson.M{
		"$set": bson.M{
			"rows":       run.Rows,
			"cols":       run.Cols,
			"seed":       run.Seed,
			"rollouts":   run.Rollouts,
			"moves":      run.Moves,
			"finished":   run.Finished,
			"stuck":      run.Stuck,
			"path":       run.Path,
			"durationMs": run.DurationMS,
			"createdAt":  run.CreatedAt,
			"updatedAt":  time.Now(),
		},
	}

	opts := options.Update().SetUpsert(true)
	if _, err := r.collection.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("saving run %s: %w", run.ID, err)
	}

	return nil
}

// ByID retrieves a run by its ID.
// Returns ErrNotFound if the run does not exist.
func (r *RunRepo) ByID(ctx context.Context, id uuid.UUID) (*dmn.Run, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	filter := bson.M{"_id": id}
	var run dmn.Run
	if err := r.collection.FindOne(ctx, filter).Decode(&run); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("finding run %s: %w", id, err)
	}
	return &run, nil
}

// Recent returns up to limit runs, newest first.
func (r *RunRepo) Recent(ctx context.Context, limit int64) ([]*dmn.Run, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(limit)
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer cursor.Close(ctx)

	runs := []*dmn.Run{}
	if err := cursor.All(ctx, &runs); err != nil {
		return nil, fmt.Errorf("decoding runs: %w", err)
	}
	return runs, nil
}
