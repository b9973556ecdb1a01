package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/gumruyanzh/xavier/internal/facade"
	"github.com/gumruyanzh/xavier/internal/model"
	"github.com/gumruyanzh/xavier/internal/scrum"
)

func newBugCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bug",
		Short: "Bug management commands",
	}
	cmd.AddCommand(newBugCreateCmd())
	cmd.AddCommand(newBugListCmd())
	return cmd
}

func newBugCreateCmd() *cobra.Command {
	var (
		configPath  string
		description string
		expected    string
		actual      string
		severity    string
		priority    string
		steps       []string
	)

	cmd := &cobra.Command{
		Use:   "create <title>",
		Short: "Report a new bug",
		Long:  "Points auto-assign from --severity when unset (spec §4.3 create_bug).",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := loadFacade(configPath)
			if err != nil {
				return err
			}
			b, err := f.CreateBug(scrum.BugFields{
				Title: args[0], Description: description, StepsToReproduce: steps,
				Expected: expected, Actual: actual, Severity: severity, Priority: priority,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created bug %s (%s points)\n", b.ID, humanize.Comma(int64(b.StoryPoints)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "xavier.yaml", "path to Xavier config file")
	cmd.Flags().StringVar(&description, "description", "", "bug description")
	cmd.Flags().StringVar(&expected, "expected", "", "expected behavior")
	cmd.Flags().StringVar(&actual, "actual", "", "actual behavior")
	cmd.Flags().StringVar(&severity, "severity", "", "Critical, High, Medium, or Low")
	cmd.Flags().StringVar(&priority, "priority", "", "priority")
	cmd.Flags().StringSliceVar(&steps, "steps", nil, "steps to reproduce")
	return cmd
}

func newBugListCmd() *cobra.Command {
	var (
		configPath string
		status     string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List bugs",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := loadFacade(configPath)
			if err != nil {
				return err
			}
			res, err := f.List(facade.KindBugs, facade.Filter{Status: status})
			if err != nil {
				return err
			}
			bugs, _ := res.([]model.Bug)
			out := cmd.OutOrStdout()
			if len(bugs) == 0 {
				fmt.Fprintln(out, "No bugs found.")
				return nil
			}
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tSTATUS\tSEVERITY\tPOINTS")
			for _, b := range bugs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", b.ID, truncate(b.Title, 40), b.Status, b.Severity, humanize.Comma(int64(b.StoryPoints)))
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "xavier.yaml", "path to Xavier config file")
	cmd.Flags().StringVar(&status, "status", "", "filter by status")
	return cmd
}
