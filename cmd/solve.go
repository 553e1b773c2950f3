package cmd

import (
	"fmt"
	"io"

	"github.com/beka-birhanu/vinom-pathfinder/config"
	dmn "github.com/beka-birhanu/vinom-pathfinder/domain"
	"github.com/beka-birhanu/vinom-pathfinder/maze"
	"github.com/beka-birhanu/vinom-pathfinder/service"
	"github.com/spf13/cobra"
)

func newSolveCmd(a *app) *cobra.Command {
	var render bool

	solveCmd := &cobra.Command{
		Use:   "solve",
		Short: "Generate a maze and let the agent walk it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			solverLogger, err := a.componentLogger(cmd, "SOLVER", config.ColorCyan)
			if err != nil {
				return err
			}
			solver, err := service.NewSolver(solverLogger, service.SolverDeps{}, &service.SolverOptions{
				ExplorationWeight:  a.cfg.ExplorationWeight,
				MaxSimulationSteps: a.cfg.MaxSimulationSteps,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			req := dmn.SolveRequest{
				Rows:     a.cfg.Rows,
				Cols:     a.cfg.Cols,
				Seed:     a.cfg.Seed,
				Rollouts: a.cfg.Rollouts,
				MaxMoves: a.cfg.MaxMoves,
			}
			if render {
				req.OnMove = func(grid *maze.Grid, at maze.Position) {
					fmt.Fprintf(out, "move to %s\n%s\n\n", at, grid)
				}
			}

			run, grid, err := solver.Solve(cmd.Context(), req)
			if err != nil {
				return err
			}
			return printRun(out, run, grid)
		},
	}

	flags := solveCmd.Flags()
	flags.BoolVar(&render, "render", false, "print the maze after every move")
	flags.Int("rollouts", 50, "rollouts before every move")
	flags.Int("max-moves", 0, "moves allowed, 0 means rows*cols")
	flags.Float64("exploration-weight", 1.0, "UCT exploration constant")
	flags.Int("max-simulation-steps", 10_000, "bound on one random simulation")
	for key, name := range map[string]string{
		"rollouts":             "rollouts",
		"max_moves":            "max-moves",
		"exploration_weight":   "exploration-weight",
		"max_simulation_steps": "max-simulation-steps",
	} {
		_ = a.v.BindPFlag(key, flags.Lookup(name))
	}

	return solveCmd
}

func printRun(w io.Writer, run *dmn.Run, grid *maze.Grid) error {
	outcome := "stopped at the move limit"
	switch {
	case run.Finished:
		outcome = "reached the exit"
	case run.Stuck:
		outcome = "got stuck"
	}

	_, err := fmt.Fprintf(w, "%s\n\nrun %s: %s after %d moves (seed %d, %d ms)\n",
		grid, run.ID, outcome, run.Moves, run.Seed, run.DurationMS)
	return err
}
