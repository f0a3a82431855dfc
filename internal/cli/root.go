// Package cli is the coach command tree.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"fitness-coach/internal/config"
	"fitness-coach/internal/observability"
	"fitness-coach/internal/plan"
	"fitness-coach/internal/render"
	"fitness-coach/internal/store"
)

// app carries the state shared by the commands of one invocation.
type app struct {
	cfgFile  string
	logLevel string
	date     string

	cfg    *config.Config
	logger *zap.Logger
}

// Execute runs the root command with a signal-aware context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := NewRootCmd().ExecuteContext(ctx)
	stop()
	observability.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// NewRootCmd builds a fresh command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "coach",
		Short:         "Adaptive training plans from your health and activity data",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	root.SetVersionTemplate(`{{printf "coach %s\n" .Version}}`)

	pf := root.PersistentFlags()
	pf.StringVarP(&a.cfgFile, "config", "c", "", "config file (default is ~/.coach/config.json)")
	pf.StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.StringVar(&a.date, "date", "", "plan as of this date (YYYY-MM-DD, default today)")

	root.AddCommand(
		newPlanCmd(a),
		newAnalyzeCmd(a),
		newProjectCmd(a),
		newPreviewCmd(a),
		newImportCmd(a),
		newSyncCmd(a),
		newAuthCmd(a),
		newBatchCmd(a),
		newHistoryCmd(a),
		newGoalCmd(a),
		newRulesCmd(a),
		newInitCmd(a),
		newVersionCmd(),
	)
	return root
}

// setup loads the configuration and initializes logging.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.cfgFile)
	if errors.Is(err, config.ErrNoConfig) {
		return fmt.Errorf("%w (run 'coach init' to create one)", err)
	}
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if a.logLevel != "" {
		cfg.Logger.Level = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	a.cfg = cfg

	observability.Initialize(cfg.Logger, zapcore.AddSync(cmd.ErrOrStderr()))
	a.logger = observability.Named("cli")
	a.logger.Debug("config loaded", zap.String("command", cmd.Name()), zap.String("store", cfg.Store.Path))
	return nil
}

// now returns the planning time, honoring --date.
func (a *app) now() (time.Time, error) {
	if a.date == "" {
		return time.Now().UTC(), nil
	}
	d, err := time.Parse(time.DateOnly, a.date)
	if err != nil {
		return time.Time{}, fmt.Errorf("--date: %w", err)
	}
	return d, nil
}

func (a *app) openStore() (*store.DB, error) {
	db, err := store.Open(a.cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return db, nil
}

func (a *app) renderer() *render.Renderer {
	return render.New(a.cfg.Display)
}

// goal resolves the active goal: the stored goal first, then the config
// file goal.
func (a *app) goal(ctx context.Context, db *store.DB) (plan.Goal, error) {
	if db != nil {
		g, err := db.GetGoal(ctx)
		if err == nil {
			return g, nil
		}
		if !errors.Is(err, store.ErrNoGoal) {
			return plan.Goal{}, err
		}
	}
	if a.cfg.Goal.IsSet() {
		return a.cfg.Goal.Goal()
	}
	return plan.Goal{}, fmt.Errorf("%w (run 'coach goal set' or add a goal section to the config)", store.ErrNoGoal)
}

// writeJSON writes v indented.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printBlock(w io.Writer, s string) {
	fmt.Fprintln(w, strings.TrimRight(s, "\n"))
}
