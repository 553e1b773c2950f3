package repo

import (
	"context"
	"testing"
	"time"

	dmn "github.com/beka-birhanu/vinom-pathfinder/domain"
	"github.com/beka-birhanu/vinom-pathfinder/maze"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func runDoc(id uuid.UUID, moves int, createdAt time.Time) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "rows", Value: 5},
		{Key: "cols", Value: 5},
		{Key: "seed", Value: int64(3)},
		{Key: "moves", Value: moves},
		{Key: "finished", Value: true},
		{Key: "path", Value: bson.A{bson.D{{Key: "x", Value: 0}, {Key: "y", Value: 1}}}},
		{Key: "createdAt", Value: createdAt},
	}
}

func TestRunRepo(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("save", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		r := NewRunRepoFromCollection(mt.Coll)

		err := r.Save(ctx, &dmn.Run{ID: uuid.New(), Rows: 5, Cols: 5, Moves: 4, Finished: true})
		assert.NoError(mt, err)
	})

	mt.Run("save failure", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))
		r := NewRunRepoFromCollection(mt.Coll)

		err := r.Save(ctx, &dmn.Run{ID: uuid.New()})
		assert.Error(mt, err)
	})

	mt.Run("by id", func(mt *mtest.T) {
		id := uuid.New()
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, runDoc(id, 7, time.Now())))
		r := NewRunRepoFromCollection(mt.Coll)

		run, err := r.ByID(ctx, id)
		require.NoError(mt, err)
		assert.Equal(mt, id, run.ID)
		assert.Equal(mt, 7, run.Moves)
		assert.True(mt, run.Finished)
		assert.Equal(mt, []maze.Position{{X: 0, Y: 1}}, run.Path)
	})

	mt.Run("by id missing", func(mt *mtest.T) {
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))
		r := NewRunRepoFromCollection(mt.Coll)

		_, err := r.ByID(ctx, uuid.New())
		assert.ErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("recent", func(mt *mtest.T) {
		first, second := uuid.New(), uuid.New()
		now := time.Now()
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			runDoc(first, 3, now),
			runDoc(second, 9, now.Add(-time.Minute)),
		))
		r := NewRunRepoFromCollection(mt.Coll)

		runs, err := r.Recent(ctx, 2)
		require.NoError(mt, err)
		require.Len(mt, runs, 2)
		assert.Equal(mt, first, runs[0].ID)
		assert.Equal(mt, second, runs[1].ID)
	})
}
