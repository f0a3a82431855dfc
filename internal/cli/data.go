package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"fitness-coach/internal/adapt"
	"fitness-coach/internal/observability"
	"fitness-coach/internal/service"
	"fitness-coach/internal/store"
)

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <snapshot.json>",
		Short: "Import sleep, heart rate, daily wellness and activities from a snapshot file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			snap, err := readSnapshot(args[0])
			if err != nil {
				return err
			}

			db, err := a.openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			stats, err := db.ImportSnapshot(ctx, snap)
			if err != nil {
				return fmt.Errorf("importing %s: %w", args[0], err)
			}
			if err := db.SetSyncTime(ctx, store.KeyLastImport, time.Now()); err != nil {
				return err
			}

			a.logger.Info("snapshot imported", zap.String("file", args[0]), zap.Int("records", stats.Total()))
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %s records: %d activities, %d nights of sleep, %d heart rate days, %d daily summaries, %d VO2max readings\n",
				humanize.Comma(int64(stats.Total())), stats.Activities, stats.Sleep, stats.HeartRate, stats.Daily, stats.Vo2Max)
			return nil
		},
	}
}

func newHistoryCmd(a *app) *cobra.Command {
	var limit int
	var show string
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List previously generated plans",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			db, err := a.openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			if show != "" {
				run, err := db.GetPlanRun(ctx, show)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(append(run.Report, '\n'))
				return err
			}

			runs, err := db.ListPlanRuns(ctx, limit)
			if err != nil {
				return err
			}
			printBlock(cmd.OutOrStdout(), a.renderer().History(runs, time.Now()))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "number of plans to list")
	cmd.Flags().StringVar(&show, "show", "", "print the stored report with this id as JSON")
	return cmd
}

func newRulesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "List the adaptation rules in evaluation order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printBlock(cmd.OutOrStdout(), a.renderer().Rules(adapt.NewEngine(a.cfg.Adaptation).Rules()))
			return nil
		},
	}
}

func newBatchCmd(a *app) *cobra.Command {
	var concurrency int
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "batch <job.json|dir>...",
		Short: "Build plans for many athletes in parallel",
		Long: `Each job file holds {"athlete": ..., "goal": {...}, "snapshot": {...}}.
Directories are expanded to the *.json files they contain.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			now, err := a.now()
			if err != nil {
				return err
			}
			files, err := jobFiles(args)
			if err != nil {
				return err
			}

			jobs := make([]service.Job, 0, len(files))
			for _, path := range files {
				job, err := readJob(path, now)
				if err != nil {
					return err
				}
				jobs = append(jobs, job)
			}

			if concurrency <= 0 {
				concurrency = a.cfg.Batch.Concurrency
			}
			logger := observability.Named("batch")
			planner := service.NewBatchPlanner(service.NewPlanService(a.cfg, logger), concurrency, logger)
			reports, err := planner.Run(cmd.Context(), jobs)
			if err != nil {
				return err
			}

			if asJSON {
				out := make(map[string]*service.Report, len(jobs))
				for i, job := range jobs {
					out[job.Athlete] = reports[i]
				}
				return writeJSON(cmd.OutOrStdout(), out)
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%-20s %-14s %-11s %9s %6s %5s\n", "Athlete", "Goal", "Phase", "Miles", "Mult", "Rules")
			for i, job := range jobs {
				r := reports[i]
				fmt.Fprintf(w, "%-20s %-14s %-11s %9.1f %6.2f %5d\n", job.Athlete, r.Plan.Goal.Type, r.Plan.Summary.Phase,
					r.Plan.Summary.TotalMiles, r.Adaptations.MileageMultiplier, r.Adaptations.RulesFired)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "parallel builds (default batch.concurrency)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the reports as JSON keyed by athlete")
	return cmd
}

// jobFiles expands directories into their JSON files, sorted by name.
func jobFiles(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		matches, err := filepath.Glob(filepath.Join(arg, "*.json"))
		if err != nil {
			return nil, err
		}
		files = append(files, matches...)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no job files in %s", strings.Join(args, ", "))
	}
	return files, nil
}

func readJob(path string, now time.Time) (service.Job, error) {
	f, err := os.Open(path)
	if err != nil {
		return service.Job{}, err
	}
	defer f.Close()
	job, err := service.DecodeJob(f, now)
	if err != nil {
		return service.Job{}, fmt.Errorf("%s: %w", path, err)
	}
	return job, nil
}
