// Package mazeapi exposes maze generation and solving over HTTP.
package mazeapi

import (
	"strings"

	dmn "github.com/beka-birhanu/vinom-pathfinder/domain"
	"github.com/beka-birhanu/vinom-pathfinder/maze"
)

// MazeQuery selects the maze to generate.
type MazeQuery struct {
	Rows int   `form:"rows" binding:"omitempty,min=3,max=201"`
	Cols int   `form:"cols" binding:"omitempty,min=3,max=201"`
	Seed int64 `form:"seed"`
}

// MazeResponse is a generated maze, one string per row.
type MazeResponse struct {
	Rows     int           `json:"rows"`
	Cols     int           `json:"cols"`
	Seed     int64         `json:"seed"`
	Entrance maze.Position `json:"entrance"`
	Exit     maze.Position `json:"exit"`
	Layout   []string      `json:"layout"`
}

// SolveRequest asks for a maze to be generated and solved.
type SolveRequest struct {
	Rows     int   `json:"rows" binding:"omitempty,min=3,max=101"`
	Cols     int   `json:"cols" binding:"omitempty,min=3,max=101"`
	Seed     int64 `json:"seed"`
	Rollouts int   `json:"rollouts" binding:"omitempty,min=1,max=10000"`
	MaxMoves int   `json:"max_moves" binding:"omitempty,min=1"`
}

// SolveResponse is the recorded run together with the maze as the agent left it.
type SolveResponse struct {
	Run    *dmn.Run `json:"run"`
	Layout []string `json:"layout"`
}

// ListQuery bounds list endpoints.
type ListQuery struct {
	Limit int64 `form:"limit" binding:"omitempty,min=1,max=100"`
}

// LeaderboardQuery selects a maze size and how many runs to return.
type LeaderboardQuery struct {
	Rows  int   `form:"rows" binding:"required,min=3"`
	Cols  int   `form:"cols" binding:"required,min=3"`
	Limit int64 `form:"limit" binding:"omitempty,min=1,max=100"`
}

func layout(grid *maze.Grid) []string {
	return strings.Split(grid.String(), "\n")
}

func newMazeResponse(grid *maze.Grid, seed int64) *MazeResponse {
	return &MazeResponse{
		Rows:     grid.Rows(),
		Cols:     grid.Cols(),
		Seed:     seed,
		Entrance: grid.Entrance(),
		Exit:     grid.Exit(),
		Layout:   layout(grid),
	}
}
