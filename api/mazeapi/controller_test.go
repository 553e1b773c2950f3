package mazeapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/beka-birhanu/vinom-pathfinder/api"
	api_i "github.com/beka-birhanu/vinom-pathfinder/api/i"
	dmn "github.com/beka-birhanu/vinom-pathfinder/domain"
	"github.com/beka-birhanu/vinom-pathfinder/maze"
	"github.com/beka-birhanu/vinom-pathfinder/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixture = "#E##\n#  #\n# ##\n#X##"

type fakeSolver struct {
	grid      *maze.Grid
	genErr    error
	solveErr  error
	lastSolve dmn.SolveRequest
	runs      map[uuid.UUID]*dmn.Run
	noStore   bool
}

func newFakeSolver(t *testing.T) *fakeSolver {
	t.Helper()
	grid, err := maze.ParseGrid(fixture)
	require.NoError(t, err)
	return &fakeSolver{grid: grid, runs: map[uuid.UUID]*dmn.Run{}}
}

func (f *fakeSolver) Generate(rows, cols int, seed int64) (*maze.Grid, int64, error) {
	if f.genErr != nil {
		return nil, seed, f.genErr
	}
	if seed == 0 {
		seed = 99
	}
	return f.grid, seed, nil
}

func (f *fakeSolver) Solve(_ context.Context, req dmn.SolveRequest) (*dmn.Run, *maze.Grid, error) {
	f.lastSolve = req
	if f.genErr != nil {
		return nil, nil, f.genErr
	}
	run := &dmn.Run{ID: uuid.New(), Rows: 4, Cols: 4, Seed: req.Seed, Moves: 1, Stuck: true,
		Path: []maze.Position{{X: 0, Y: 1}, {X: -1, Y: 1}}}
	f.runs[run.ID] = run
	return run, f.grid, f.solveErr
}

func (f *fakeSolver) Run(_ context.Context, id uuid.UUID) (*dmn.Run, error) {
	if f.noStore {
		return nil, service.ErrNoRunStore
	}
	run, ok := f.runs[id]
	if !ok {
		return nil, dmn.ErrRunNotFound
	}
	return run, nil
}

func (f *fakeSolver) Recent(_ context.Context, limit int64) ([]*dmn.Run, error) {
	if f.noStore {
		return nil, service.ErrNoRunStore
	}
	runs := []*dmn.Run{}
	for _, run := range f.runs {
		if int64(len(runs)) < limit {
			runs = append(runs, run)
		}
	}
	return runs, nil
}

func (f *fakeSolver) Leaders(ctx context.Context, rows, cols int, limit int64) ([]*dmn.Run, error) {
	if rows != 4 || cols != 4 {
		return []*dmn.Run{}, nil
	}
	return f.Recent(ctx, limit)
}

func newTestServer(t *testing.T, solver *fakeSolver) http.Handler {
	t.Helper()
	controller, err := NewMazeController(solver)
	require.NoError(t, err)
	return api.NewRouter(api.Config{
		BaseURL:     "/api",
		Mode:        gin.TestMode,
		Controllers: []api_i.Controller{controller},
	}).Handler()
}

func do(t *testing.T, h http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestNewMazeController(t *testing.T) {
	_, err := NewMazeController(nil)
	assert.Error(t, err)
}

func TestGenerateMaze(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		h := newTestServer(t, newFakeSolver(t))
		rec := do(t, h, http.MethodGet, "/api/v1/mazes?rows=4&cols=4", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp MazeResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, int64(99), resp.Seed)
		assert.Equal(t, maze.Position{X: 0, Y: 1}, resp.Entrance)
		assert.Equal(t, maze.Position{X: 3, Y: 1}, resp.Exit)
		assert.Equal(t, []string{"#E##", "#  #", "# ##", "#X##"}, resp.Layout)
	})

	t.Run("too small", func(t *testing.T) {
		h := newTestServer(t, newFakeSolver(t))
		rec := do(t, h, http.MethodGet, "/api/v1/mazes?rows=2", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("ungeneratable", func(t *testing.T) {
		solver := newFakeSolver(t)
		solver.genErr = fmt.Errorf("wrap: %w", maze.ErrUngeneratableMaze)
		rec := do(t, newTestServer(t, solver), http.MethodGet, "/api/v1/mazes?seed=5", nil)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}

func TestSolveMaze(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		solver := newFakeSolver(t)
		h := newTestServer(t, solver)

		rec := do(t, h, http.MethodPost, "/api/v1/solves", SolveRequest{Rows: 4, Cols: 4, Seed: 7, Rollouts: 30})
		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, 30, solver.lastSolve.Rollouts)
		assert.Equal(t, int64(7), solver.lastSolve.Seed)

		var resp SolveResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 1, resp.Run.Moves)
		assert.True(t, resp.Run.Stuck)
		assert.Len(t, resp.Layout, 4)
	})

	t.Run("bad body", func(t *testing.T) {
		h := newTestServer(t, newFakeSolver(t))
		rec := do(t, h, http.MethodPost, "/api/v1/solves", SolveRequest{Rollouts: -3})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid size", func(t *testing.T) {
		solver := newFakeSolver(t)
		solver.genErr = maze.ErrInvalidSize
		rec := do(t, newTestServer(t, solver), http.MethodPost, "/api/v1/solves", SolveRequest{})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("recording failed", func(t *testing.T) {
		solver := newFakeSolver(t)
		solver.solveErr = fmt.Errorf("saving run: boom")
		rec := do(t, newTestServer(t, solver), http.MethodPost, "/api/v1/solves", SolveRequest{})
		assert.Equal(t, http.StatusAccepted, rec.Code)
	})
}

func TestRunLookups(t *testing.T) {
	solver := newFakeSolver(t)
	h := newTestServer(t, solver)
	rec := do(t, h, http.MethodPost, "/api/v1/solves", SolveRequest{})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created SolveResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	t.Run("by id", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/v1/solves/"+created.Run.ID.String(), nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var run dmn.Run
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &run))
		assert.Equal(t, created.Run.ID, run.ID)
		assert.Equal(t, created.Run.Path, run.Path)
	})

	t.Run("unknown id", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/v1/solves/"+uuid.NewString(), nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("malformed id", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/v1/solves/nope", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("recent", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/v1/solves?limit=5", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var runs []dmn.Run
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &runs))
		assert.Len(t, runs, 1)
	})

	t.Run("leaderboard", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/v1/leaderboard?rows=4&cols=4", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var runs []dmn.Run
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &runs))
		assert.Len(t, runs, 1)
	})

	t.Run("leaderboard needs a size", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/v1/leaderboard", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("no store", func(t *testing.T) {
		solver := newFakeSolver(t)
		solver.noStore = true
		rec := do(t, newTestServer(t, solver), http.MethodGet, "/api/v1/solves", nil)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}
