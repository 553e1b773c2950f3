package cmd

import (
	"fmt"

	"github.com/beka-birhanu/vinom-pathfinder/config"
	"github.com/beka-birhanu/vinom-pathfinder/service"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newGenerateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Print a freshly generated maze",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			solverLogger, err := a.componentLogger(cmd, "SOLVER", config.ColorCyan)
			if err != nil {
				return err
			}
			solver, err := service.NewSolver(solverLogger, service.SolverDeps{}, nil)
			if err != nil {
				return err
			}

			grid, seed, err := solver.Generate(a.cfg.Rows, a.cfg.Cols, a.cfg.Seed)
			if err != nil {
				return err
			}

			a.logger.Info("Maze generated", zap.Int("rows", grid.Rows()), zap.Int("cols", grid.Cols()), zap.Int64("seed", seed))
			_, err = fmt.Fprintln(cmd.OutOrStdout(), grid.String())
			return err
		},
	}
}
