package mazeapi

import (
	"errors"
	"net/http"

	dmn "github.com/beka-birhanu/vinom-pathfinder/domain"
	"github.com/beka-birhanu/vinom-pathfinder/maze"
	"github.com/beka-birhanu/vinom-pathfinder/service"
	"github.com/beka-birhanu/vinom-pathfinder/service/i"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const defaultListLimit = 10

// MazeController serves maze generation, solving and the leaderboard.
type MazeController struct {
	solver i.Solver
}

// NewMazeController initializes a MazeController.
func NewMazeController(solver i.Solver) (*MazeController, error) {
	if solver == nil {
		return nil, errors.New("maze controller: nil solver")
	}
	return &MazeController{solver: solver}, nil
}

// RegisterPublic registers public routes.
func (mc *MazeController) RegisterPublic(route *gin.RouterGroup) {
	route.GET("/mazes", mc.generate)
	solves := route.Group("/solves")
	{
		solves.POST("", mc.solve)
		solves.GET("", mc.recent)
		solves.GET("/:ID", mc.run)
	}
	route.GET("/leaderboard", mc.leaderboard)
}

// generate returns a fresh maze.
func (mc *MazeController) generate(ctx *gin.Context) {
	var query MazeQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if query.Rows == 0 {
		query.Rows = 10
	}
	if query.Cols == 0 {
		query.Cols = 10
	}

	grid, seed, err := mc.solver.Generate(query.Rows, query.Cols, query.Seed)
	if err != nil {
		ctx.JSON(statusOf(err), gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, newMazeResponse(grid, seed))
}

// solve generates a maze and runs the agent on it.
func (mc *MazeController) solve(ctx *gin.Context) {
	var request SolveRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	run, grid, err := mc.solver.Solve(ctx.Request.Context(), dmn.SolveRequest{
		Rows:     request.Rows,
		Cols:     request.Cols,
		Seed:     request.Seed,
		Rollouts: request.Rollouts,
		MaxMoves: request.MaxMoves,
	})
	if err != nil && run == nil {
		ctx.JSON(statusOf(err), gin.H{"error": err.Error()})
		return
	}

	// The run happened even when recording it failed.
	response := &SolveResponse{Run: run, Layout: layout(grid)}
	if err != nil {
		ctx.JSON(http.StatusAccepted, response)
		return
	}
	ctx.JSON(http.StatusCreated, response)
}

// run retrieves a stored run.
func (mc *MazeController) run(ctx *gin.Context) {
	ID, err := uuid.Parse(ctx.Params.ByName("ID"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid run id"})
		return
	}

	run, err := mc.solver.Run(ctx.Request.Context(), ID)
	if err != nil {
		ctx.JSON(statusOf(err), gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, run)
}

// recent lists the newest runs.
func (mc *MazeController) recent(ctx *gin.Context) {
	var query ListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if query.Limit == 0 {
		query.Limit = defaultListLimit
	}

	runs, err := mc.solver.Recent(ctx.Request.Context(), query.Limit)
	if err != nil {
		ctx.JSON(statusOf(err), gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, runs)
}

// leaderboard lists the shortest finished runs of one maze size.
func (mc *MazeController) leaderboard(ctx *gin.Context) {
	var query LeaderboardQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if query.Limit == 0 {
		query.Limit = defaultListLimit
	}

	runs, err := mc.solver.Leaders(ctx.Request.Context(), query.Rows, query.Cols, query.Limit)
	if err != nil {
		ctx.JSON(statusOf(err), gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, runs)
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, maze.ErrInvalidSize):
		return http.StatusBadRequest
	case errors.Is(err, maze.ErrUngeneratableMaze):
		return http.StatusUnprocessableEntity
	case errors.Is(err, dmn.ErrRunNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrNoRunStore):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
