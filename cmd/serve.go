package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/beka-birhanu/vinom-pathfinder/api"
	api_i "github.com/beka-birhanu/vinom-pathfinder/api/i"
	"github.com/beka-birhanu/vinom-pathfinder/api/mazeapi"
	"github.com/beka-birhanu/vinom-pathfinder/config"
	"github.com/beka-birhanu/vinom-pathfinder/infrastruture/repo"
	"github.com/beka-birhanu/vinom-pathfinder/infrastruture/sortedstorage"
	"github.com/beka-birhanu/vinom-pathfinder/service"
	"github.com/beka-birhanu/vinom-pathfinder/telemetry"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const (
	connectTimeout = 10 * time.Second
	runsCollection = "runs"
	leaderboardTTL = 0 // seconds, ranked runs never expire
	otelScope      = "github.com/beka-birhanu/vinom-pathfinder"
)

// server holds the dependencies of the serve command.
type server struct {
	app         *app
	cmd         *cobra.Command
	telemetry   *telemetry.Providers
	mongoClient *mongo.Client
	redisClient *redis.Client
	runRepo     *repo.RunRepo
	leaderboard *service.Leaderboard
	solver      *service.Solver
	controller  api_i.Controller
	router      *api.Router
}

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve maze generation and solving over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			s := &server{app: a, cmd: cmd}
			defer s.close()
			if err := s.init(ctx); err != nil {
				return err
			}

			a.logger.Info("Serving", zap.String("addr", a.cfg.RESTAddr()))
			if err := s.router.Serve(ctx); err != nil {
				a.logger.Error("Starting server", zap.Error(err))
				return err
			}
			a.logger.Info("Server stopped")
			return nil
		},
	}
}

func (s *server) init(ctx context.Context) error {
	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	for _, step := range []func(context.Context) error{
		s.initTelemetry,
		s.initMongo,
		s.initRunRepo,
		s.initRedis,
		s.initLeaderboard,
		s.initSolver,
		s.initMazeController,
		s.initRouter,
	} {
		if err := step(connectCtx); err != nil {
			return err
		}
	}
	return nil
}

func (s *server) initTelemetry(ctx context.Context) error {
	var err error
	s.telemetry, err = telemetry.Setup(ctx, telemetry.Options{
		Exporter: s.app.cfg.TelemetryExporter,
		Writer:   s.cmd.OutOrStdout(),
	})
	if err != nil {
		return fmt.Errorf("setting up telemetry: %w", err)
	}
	s.app.logger.Info("Telemetry initialized", zap.String("exporter", s.app.cfg.TelemetryExporter))
	return nil
}

func (s *server) initMongo(ctx context.Context) error {
	var err error
	s.mongoClient, err = mongo.Connect(ctx, options.Client().ApplyURI(s.app.cfg.MongoURI()))
	if err != nil {
		return fmt.Errorf("connecting to MongoDB: %w", err)
	}
	if err = s.mongoClient.Ping(ctx, nil); err != nil {
		return fmt.Errorf("MongoDB ping failed: %w", err)
	}
	s.app.logger.Info("Connected to MongoDB")
	return nil
}

func (s *server) initRunRepo(ctx context.Context) error {
	s.runRepo = repo.NewRunRepo(s.mongoClient, s.app.cfg.DBName, runsCollection)
	if err := s.runRepo.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("creating run indexes: %w", err)
	}
	s.app.logger.Info("Run repository initialized")
	return nil
}

func (s *server) initRedis(ctx context.Context) error {
	s.redisClient = redis.NewClient(&redis.Options{
		Addr:     s.app.cfg.RedisAddr,
		Password: s.app.cfg.RedisPassword,
	})
	if err := s.redisClient.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	s.app.logger.Info("Connected to Redis")
	return nil
}

func (s *server) initLeaderboard(context.Context) error {
	boardLogger, err := s.app.componentLogger(s.cmd, "LEADERBOARD", config.ColorMagenta)
	if err != nil {
		return fmt.Errorf("creating leaderboard logger: %w", err)
	}

	sortedSet, err := sortedstorage.NewRedisSortedSet(s.redisClient, leaderboardTTL)
	if err != nil {
		return fmt.Errorf("creating sorted set: %w", err)
	}

	s.leaderboard, err = service.NewLeaderboard(sortedSet, boardLogger, &service.LeaderboardOptions{
		Capacity: s.app.cfg.LeaderboardSize,
	})
	if err != nil {
		return fmt.Errorf("creating leaderboard: %w", err)
	}
	s.app.logger.Info("Leaderboard initialized")
	return nil
}

func (s *server) initSolver(context.Context) error {
	solverLogger, err := s.app.componentLogger(s.cmd, "SOLVER", config.ColorCyan)
	if err != nil {
		return fmt.Errorf("creating solver logger: %w", err)
	}

	s.solver, err = service.NewSolver(solverLogger, service.SolverDeps{
		Runs:        s.runRepo,
		Leaderboard: s.leaderboard,
		Meter:       s.telemetry.Meter.Meter(otelScope),
		Tracer:      s.telemetry.Tracer.Tracer(otelScope),
	}, &service.SolverOptions{
		Rows:               s.app.cfg.Rows,
		Cols:               s.app.cfg.Cols,
		Rollouts:           s.app.cfg.Rollouts,
		MaxMoves:           s.app.cfg.MaxMoves,
		ExplorationWeight:  s.app.cfg.ExplorationWeight,
		MaxSimulationSteps: s.app.cfg.MaxSimulationSteps,
	})
	if err != nil {
		return fmt.Errorf("creating solver: %w", err)
	}
	s.app.logger.Info("Solver initialized")
	return nil
}

func (s *server) initMazeController(context.Context) error {
	var err error
	s.controller, err = mazeapi.NewMazeController(s.solver)
	if err != nil {
		return fmt.Errorf("creating maze controller: %w", err)
	}
	s.app.logger.Info("Maze controller initialized")
	return nil
}

func (s *server) initRouter(context.Context) error {
	s.router = api.NewRouter(api.Config{
		Addr:        s.app.cfg.RESTAddr(),
		BaseURL:     "/api",
		Mode:        s.app.cfg.GinMode,
		Controllers: []api_i.Controller{s.controller},
	})
	s.app.logger.Info("Router initialized")
	return nil
}

func (s *server) close() {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	if s.redisClient != nil {
		_ = s.redisClient.Close()
	}
	if s.mongoClient != nil {
		_ = s.mongoClient.Disconnect(ctx)
	}
	if s.telemetry != nil {
		if err := s.telemetry.Shutdown(ctx); err != nil {
			s.app.logger.Warning("Telemetry shutdown failed", zap.Error(err))
		}
	}
	_ = s.app.logger.Sync()
}
