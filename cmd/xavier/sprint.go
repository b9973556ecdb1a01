package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/gumruyanzh/xavier/internal/events"
	"github.com/gumruyanzh/xavier/internal/facade"
	"github.com/gumruyanzh/xavier/internal/model"
)

func newSprintCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sprint",
		Short: "Sprint planning and execution commands",
	}
	cmd.AddCommand(newSprintPlanCmd())
	cmd.AddCommand(newSprintStartCmd())
	cmd.AddCommand(newSprintRunCmd())
	cmd.AddCommand(newSprintCompleteCmd())
	cmd.AddCommand(newSprintListCmd())
	cmd.AddCommand(newSprintVelocityCmd())
	return cmd
}

func newSprintPlanCmd() *cobra.Command {
	var (
		configPath     string
		goal           string
		durationDays   int
		velocityTarget int
	)

	cmd := &cobra.Command{
		Use:   "plan <name>",
		Short: "Plan a new sprint, filling it from the Backlog by priority up to the velocity target",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := loadFacade(configPath)
			if err != nil {
				return err
			}
			sp, err := f.PlanSprint(args[0], goal, durationDays, velocityTarget)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Planned sprint %s with %d committed item(s)\n", sp.ID, len(sp.CommittedItems))
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "xavier.yaml", "path to Xavier config file")
	cmd.Flags().StringVar(&goal, "goal", "", "sprint goal")
	cmd.Flags().IntVar(&durationDays, "days", 0, "sprint duration in days (0 = config default)")
	cmd.Flags().IntVar(&velocityTarget, "velocity", 0, "velocity target in points (0 = config default)")
	return cmd
}

func newSprintStartCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "start <id>",
		Short: "Transition a Planned sprint to Active without running it",
		Long:  "Pair with `sprint run` to drive the sprint to completion (spec §6's start_sprint vs. start distinction).",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := loadFacade(configPath)
			if err != nil {
				return err
			}
			sp, err := f.StartSprint(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Sprint %s is now %s\n", sp.ID, sp.Status)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "xavier.yaml", "path to Xavier config file")
	return cmd
}

func newSprintRunCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "run <id>",
		Short: "Drive an Active sprint's frozen task set to completion",
		Long:  "Blocks until the sprint finalizes or halts; prints progress as each task is claimed and completed.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := loadFacade(configPath)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			f.Subscribe(func(e events.Event) {
				fmt.Fprintf(out, "[%s] %s\n", e.Type, e.Message)
			})
			return f.Start(context.Background(), args[0], nil)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "xavier.yaml", "path to Xavier config file")
	return cmd
}

func newSprintCompleteCmd() *cobra.Command {
	var (
		configPath    string
		retrospective string
	)

	cmd := &cobra.Command{
		Use:   "complete <id>",
		Short: "Complete a sprint, returning unfinished committed items to the Backlog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := loadFacade(configPath)
			if err != nil {
				return err
			}
			sp, err := f.CompleteSprint(args[0], retrospective)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Sprint %s completed\n", sp.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "xavier.yaml", "path to Xavier config file")
	cmd.Flags().StringVar(&retrospective, "retrospective", "", "retrospective notes")
	return cmd
}

func newSprintListCmd() *cobra.Command {
	var (
		configPath string
		status     string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List sprints",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := loadFacade(configPath)
			if err != nil {
				return err
			}
			res, err := f.List(facade.KindSprints, facade.Filter{Status: status})
			if err != nil {
				return err
			}
			sprints, _ := res.([]model.Sprint)
			out := cmd.OutOrStdout()
			if len(sprints) == 0 {
				fmt.Fprintln(out, "No sprints found.")
				return nil
			}
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tSTATUS\tCOMMITTED")
			for _, sp := range sprints {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", sp.ID, sp.Name, sp.Status, len(sp.CommittedItems))
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "xavier.yaml", "path to Xavier config file")
	cmd.Flags().StringVar(&status, "status", "", "filter by status")
	return cmd
}

func newSprintVelocityCmd() *cobra.Command {
	var (
		configPath string
		n          int
	)

	cmd := &cobra.Command{
		Use:   "velocity",
		Short: "Report average velocity over the last n completed sprints",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := loadFacade(configPath)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s points\n", humanize.Commaf(f.Velocity(n)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "xavier.yaml", "path to Xavier config file")
	cmd.Flags().IntVar(&n, "last", 3, "number of most recent completed sprints to average")
	return cmd
}
