package cmd

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/beka-birhanu/vinom-pathfinder/config"
	dmn "github.com/beka-birhanu/vinom-pathfinder/domain"
	"github.com/beka-birhanu/vinom-pathfinder/logger"
	"github.com/beka-birhanu/vinom-pathfinder/maze"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func generatableSeed(t *testing.T, rows, cols int) int64 {
	t.Helper()
	for seed := int64(1); seed < 500; seed++ {
		if _, err := maze.Generate(rows, cols, seed); err == nil {
			return seed
		}
	}
	t.Fatalf("no seed generates a %dx%d maze", rows, cols)
	return 0
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, Version)
}

func TestGenerateCmd(t *testing.T) {
	seed := generatableSeed(t, 7, 9)
	want, err := maze.Generate(7, 9, seed)
	require.NoError(t, err)

	out, _, err := execute(t, "generate", "--rows", "7", "--cols", "9", "--seed", strconv.FormatInt(seed, 10))
	require.NoError(t, err)
	assert.Equal(t, want.String()+"\n", out)
}

func TestGenerateCmdFromEnv(t *testing.T) {
	seed := generatableSeed(t, 5, 5)
	t.Setenv("MAZE_ROWS", "5")
	t.Setenv("MAZE_COLS", "5")
	t.Setenv("MAZE_SEED", strconv.FormatInt(seed, 10))

	want, err := maze.Generate(5, 5, seed)
	require.NoError(t, err)

	out, _, err := execute(t, "generate")
	require.NoError(t, err)
	assert.Equal(t, want.String()+"\n", out)
}

func TestGenerateCmdInvalidSize(t *testing.T) {
	_, _, err := execute(t, "generate", "--rows", "2")
	assert.ErrorIs(t, err, maze.ErrInvalidSize)
}

func TestSolveCmd(t *testing.T) {
	seed := strconv.FormatInt(generatableSeed(t, 6, 6), 10)

	t.Run("summary", func(t *testing.T) {
		out, _, err := execute(t, "solve", "--rows", "6", "--cols", "6", "--seed", seed, "--rollouts", "10")
		require.NoError(t, err)
		assert.Contains(t, out, "after")
		assert.Contains(t, out, "seed "+seed)
	})

	t.Run("render", func(t *testing.T) {
		out, _, err := execute(t, "solve", "--rows", "6", "--cols", "6", "--seed", seed, "--rollouts", "10", "--render")
		require.NoError(t, err)
		assert.Contains(t, out, "move to (")
	})

	t.Run("rejects zero rollouts", func(t *testing.T) {
		_, _, err := execute(t, "solve", "--seed", seed, "--rollouts", "0")
		assert.Error(t, err)
	})
}

func TestConfigFile(t *testing.T) {
	seed := generatableSeed(t, 5, 7)
	path := filepath.Join(t.TempDir(), "pathfinder.yaml")
	content := "rows: 5\ncols: 7\nseed: " + strconv.FormatInt(seed, 10) + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	want, err := maze.Generate(5, 7, seed)
	require.NoError(t, err)

	out, _, err := execute(t, "--config", path, "generate")
	require.NoError(t, err)
	assert.Equal(t, want.String()+"\n", out)

	_, _, err = execute(t, "--config", filepath.Join(t.TempDir(), "broken.yaml"), "generate")
	assert.Error(t, err)
}

func TestServeTelemetry(t *testing.T) {
	tp, mp := otel.GetTracerProvider(), otel.GetMeterProvider()
	t.Cleanup(func() {
		otel.SetTracerProvider(tp)
		otel.SetMeterProvider(mp)
	})

	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	s := &server{
		app: &app{cfg: config.Config{TelemetryExporter: "stdout", LogLevel: "info"}, logger: logger.Nop()},
		cmd: cmd,
	}

	ctx := context.Background()
	require.NoError(t, s.initTelemetry(ctx))
	require.NoError(t, s.initSolver(ctx))
	assert.Same(t, s.telemetry.Tracer, otel.GetTracerProvider())

	_, _, err := s.solver.Solve(ctx, dmn.SolveRequest{Rows: 1, Cols: 1, Seed: 1})
	require.ErrorIs(t, err, maze.ErrInvalidSize)

	s.close()
	assert.Contains(t, out.String(), "solver.solve")
}
