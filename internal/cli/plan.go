package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"fitness-coach/internal/observability"
	"fitness-coach/internal/plan"
	"fitness-coach/internal/service"
	"fitness-coach/internal/store"
	"fitness-coach/internal/telemetry"
	"fitness-coach/internal/tui"
)

// readSnapshot decodes a telemetry snapshot file.
func readSnapshot(path string) (telemetry.Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return telemetry.Snapshot{}, err
	}
	defer f.Close()

	var snap telemetry.Snapshot
	if err := json.NewDecoder(f).Decode(&snap); err != nil {
		return telemetry.Snapshot{}, fmt.Errorf("decoding %s: %w", path, err)
	}
	return snap, nil
}

type planFlags struct {
	snapshot string
	dryRun   bool
	asJSON   bool
}

func (f *planFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.snapshot, "snapshot", "", "read telemetry from a snapshot file instead of the database")
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "do not record the plan in the history")
	cmd.Flags().BoolVar(&f.asJSON, "json", false, "print the report as JSON")
}

// buildReport builds the plan from a snapshot file or from the database.
// Only database runs without --dry-run are recorded.
func (a *app) buildReport(cmd *cobra.Command, f planFlags) (*service.Report, error) {
	ctx := cmd.Context()
	now, err := a.now()
	if err != nil {
		return nil, err
	}
	svc := service.NewPlanService(a.cfg, observability.Named("plan"))

	if f.snapshot != "" {
		snap, err := readSnapshot(f.snapshot)
		if err != nil {
			return nil, err
		}
		goal, err := a.goal(ctx, nil)
		if err != nil {
			return nil, err
		}
		return svc.Build(ctx, snap, goal, now)
	}

	db, err := a.openStore()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	if _, err := db.GetGoal(ctx); errors.Is(err, store.ErrNoGoal) && a.cfg.Goal.IsSet() {
		// seed the database with the config goal on first use
		goal, err := a.cfg.Goal.Goal()
		if err != nil {
			return nil, err
		}
		if err := db.SaveGoal(ctx, goal); err != nil {
			return nil, err
		}
		a.logger.Info("goal saved from config", zap.String("type", string(goal.Type)))
	}
	return svc.PlanFromStore(ctx, db, now, !f.dryRun)
}

func newPlanCmd(a *app) *cobra.Command {
	var f planFlags
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Generate this week's adapted training plan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := a.buildReport(cmd, f)
			if err != nil {
				return err
			}
			if f.asJSON {
				return writeJSON(cmd.OutOrStdout(), report)
			}
			printBlock(cmd.OutOrStdout(), a.renderer().Report(report))
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func newPreviewCmd(a *app) *cobra.Command {
	var f planFlags
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Browse the plan and the multi-week projection interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f.dryRun = true
			report, err := a.buildReport(cmd, f)
			if err != nil {
				return err
			}
			return tui.Run(report, a.renderer())
		},
	}
	cmd.Flags().StringVar(&f.snapshot, "snapshot", "", "read telemetry from a snapshot file instead of the database")
	return cmd
}

func newAnalyzeCmd(a *app) *cobra.Command {
	var snapshot string
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Show the readiness assessment of the recent data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			now, err := a.now()
			if err != nil {
				return err
			}

			var snap telemetry.Snapshot
			if snapshot != "" {
				if snap, err = readSnapshot(snapshot); err != nil {
					return err
				}
			} else {
				db, err := a.openStore()
				if err != nil {
					return err
				}
				defer db.Close()
				if snap, err = db.LoadSnapshot(cmd.Context(), now, service.SnapshotDays); err != nil {
					return err
				}
			}

			results := service.NewPlanService(a.cfg, nil).Analyze(snap)
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), results)
			}
			printBlock(cmd.OutOrStdout(), a.renderer().Analysis(results))
			return nil
		},
	}
	cmd.Flags().StringVar(&snapshot, "snapshot", "", "read telemetry from a snapshot file instead of the database")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the results as JSON")
	return cmd
}

func newProjectCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Preview the weekly volume from now to the goal date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			now, err := a.now()
			if err != nil {
				return err
			}
			db, err := a.openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			goal, err := a.goal(cmd.Context(), db)
			if err != nil {
				return err
			}
			goal = goal.Normalize()
			if err := goal.Validate(); err != nil {
				return err
			}

			weeks := plan.Project(goal, now)
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), weeks)
			}
			printBlock(cmd.OutOrStdout(), a.renderer().Projection(weeks))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the projection as JSON")
	return cmd
}
