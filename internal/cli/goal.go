package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"fitness-coach/internal/config"
	"fitness-coach/internal/plan"
	"fitness-coach/internal/store"
)

func newGoalCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goal",
		Short: "Show or change the training goal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			g, err := a.goal(cmd.Context(), db)
			if err != nil {
				return err
			}
			printGoal(cmd, g.Normalize())
			return nil
		},
	}

	var gc config.GoalConfig
	set := &cobra.Command{
		Use:   "set",
		Short: "Set the training goal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := gc.Goal()
			if err != nil {
				return err
			}
			g = g.Normalize()
			if err := g.Validate(); err != nil {
				return err
			}

			db, err := a.openStore()
			if err != nil {
				return err
			}
			defer db.Close()
			if err := db.SaveGoal(cmd.Context(), g); err != nil {
				return err
			}
			printGoal(cmd, g)
			return nil
		},
	}
	f := set.Flags()
	f.StringVar(&gc.Type, "type", "", "5k, 10k, half_marathon, marathon, general_fitness, base_building or maintain")
	f.StringVar(&gc.TargetDate, "date", "", "race date (YYYY-MM-DD)")
	f.StringVar(&gc.TargetTime, "time", "", "target finish time (h:mm:ss)")
	f.Float64Var(&gc.WeeklyMileage, "mileage", 0, "current weekly mileage")
	f.StringVar(&gc.Experience, "experience", "", "beginner, intermediate or advanced")
	f.StringVar(&gc.LongRunDay, "long-run-day", "", "saturday or sunday")
	f.StringVar(&gc.Intensity, "intensity", "", "conservative, normal or aggressive")
	f.StringVar(&gc.Category, "category", "", "race or non_race (derived from --type when empty)")
	_ = set.MarkFlagRequired("type")

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove the stored goal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.openStore()
			if err != nil {
				return err
			}
			defer db.Close()
			if err := db.DeleteGoal(cmd.Context()); err != nil && !errors.Is(err, store.ErrNoGoal) {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Goal cleared.")
			return nil
		},
	}

	cmd.AddCommand(set, clearCmd)
	return cmd
}

func printGoal(cmd *cobra.Command, g plan.Goal) {
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Goal:        %s (%s)\n", g.Label(), g.Category)
	if !g.TargetDate.IsZero() {
		fmt.Fprintf(w, "Race date:   %s\n", g.TargetDate.Format(time.DateOnly))
	}
	if g.TargetTime > 0 {
		fmt.Fprintf(w, "Target time: %s\n", plan.FormatDuration(int(g.TargetTime.Seconds())))
	}
	fmt.Fprintf(w, "Mileage:     %.0f mi/week (%s, %s)\n", g.WeeklyMileage, g.Experience, g.Intensity)
	fmt.Fprintf(w, "Long run:    %s\n", g.LongRunDay)
}

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create an example config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.CreateExample()
			if err != nil {
				return fmt.Errorf("creating example config: %w", err)
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Config file: %s\n", path)
			fmt.Fprintf(w, "Database:    %s\n", filepath.Clean(a.cfg.Store.Path))
			fmt.Fprintln(w, "\nAdd your Strava API credentials to sync activities.")
			fmt.Fprintln(w, "Get them from: https://www.strava.com/settings/api")
			return nil
		},
	}
}
