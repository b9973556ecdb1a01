package main

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/gumruyanzh/xavier/internal/facade"
)

func newStatusCmd() *cobra.Command {
	var (
		configPath string
		watch      bool
	)

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the active sprint and SCRUM item counts by status",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := loadFacade(configPath)
			if err != nil {
				return err
			}
			if !watch {
				return runStatus(cmd, f)
			}
			for {
				fmt.Fprint(cmd.OutOrStdout(), "\033[2J\033[H")
				if err := runStatus(cmd, f); err != nil {
					return err
				}
				time.Sleep(5 * time.Second)
			}
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "xavier.yaml", "path to Xavier config file")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "refresh every 5 seconds")
	return cmd
}

func runStatus(cmd *cobra.Command, f *facade.Facade) error {
	st := f.Status()
	out := cmd.OutOrStdout()

	if st.ActiveSprint != nil {
		fmt.Fprintf(out, "Active sprint: %s (%s)\n", st.ActiveSprint.Name, st.ActiveSprint.ID)
		if st.ActiveSprint.StartDate != nil {
			fmt.Fprintf(out, "Started %s\n", humanize.Time(*st.ActiveSprint.StartDate))
		}
	} else {
		fmt.Fprintln(out, "No active sprint.")
	}
	fmt.Fprintf(out, "Velocity (last 3 sprints): %s points\n\n", humanize.Commaf(st.Velocity3))

	printCounts(out, "Stories", st.StoryCounts)
	printCounts(out, "Tasks", st.TaskCounts)
	printCounts(out, "Bugs", st.BugCounts)
	return nil
}

func printCounts(out io.Writer, label string, counts map[string]int) {
	fmt.Fprintf(out, "%s:\n", label)
	if len(counts) == 0 {
		fmt.Fprintln(out, "  (none)")
		return
	}
	for status, n := range counts {
		fmt.Fprintf(out, "  %-12s %d\n", status, n)
	}
}
