package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/san-kum/geodesim/internal/config"
	"github.com/san-kum/geodesim/internal/observability"
	"github.com/san-kum/geodesim/internal/storage"
	"github.com/san-kum/geodesim/internal/surface"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configFile string
	levelFile  string
	dataDir    string
	logLevel   string
)

// session is the state shared by every subcommand: the app config, the
// active level and the holder owning its mass field.
type session struct {
	cfg    *config.Config
	level  *config.Level
	fields *surface.Holder
	logger *zap.Logger
}

var sess *session

func main() {
	rootCmd := &cobra.Command{
		Use:          "geodesim",
		Short:        "geodesic trajectories on a mass height field",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSession(cmd)
			if err != nil {
				return err
			}
			sess = s
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			observability.Sync()
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "app config file (yaml)")
	rootCmd.PersistentFlags().StringVar(&levelFile, "level", "", "level file (yaml); default is the built-in level")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "", "data directory (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (overrides config)")

	rootCmd.AddCommand(
		newTraceCmd(),
		newCompareCmd(),
		newPreviewCmd(),
		newProbeCmd(),
		newSolveCmd(),
		newRunsCmd(),
		newPlotCmd(),
		newExportCSVCmd(),
		newExportJSONCmd(),
		newSVGCmd(),
		newPNGCmd(),
		newLevelCmd(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func loadSession(cmd *cobra.Command) (*session, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("data") {
		cfg.DataDir = dataDir
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Logger.Level = logLevel
	}

	observability.InitializeLogger(cfg.Logger)
	logger := observability.GetLogger()

	lvl := config.DefaultLevel()
	if levelFile != "" {
		if lvl, err = config.LoadLevel(levelFile); err != nil {
			return nil, fmt.Errorf("loading level %s: %w", levelFile, err)
		}
		logger.Debug("level loaded", zap.String("path", levelFile), zap.Int("masses", len(lvl.Masses)))
	}

	return &session{
		cfg:    cfg,
		level:  lvl,
		fields: surface.NewHolder(lvl.Masses...),
		logger: logger,
	}, nil
}

func (s *session) store() (*storage.Store, error) {
	st := storage.New(s.cfg.DataDir)
	if err := st.Init(); err != nil {
		return nil, err
	}
	return st, nil
}
