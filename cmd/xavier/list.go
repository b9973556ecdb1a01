package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gumruyanzh/xavier/internal/facade"
	"github.com/gumruyanzh/xavier/internal/model"
)

// newListCmd exposes the Kinds that have no dedicated entity subcommand
// (story/task/bug/sprint already have their own `list`): epics, roadmaps,
// and worktrees.
func newListCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "list <epics|roadmaps|worktrees>",
		Short: "List epics, roadmaps, or worktree records",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := facade.Kind(args[0])
			switch kind {
			case facade.KindEpics, facade.KindRoadmaps, facade.KindWorktrees:
			default:
				return fmt.Errorf("unknown list kind %q (want epics, roadmaps, or worktrees)", args[0])
			}
			f, err := loadFacade(configPath)
			if err != nil {
				return err
			}
			switch kind {
			case facade.KindEpics:
				res, err := f.List(kind, facade.Filter{})
				if err != nil {
					return err
				}
				return printEpics(cmd, res.([]model.Epic))
			case facade.KindRoadmaps:
				res, err := f.List(kind, facade.Filter{})
				if err != nil {
					return err
				}
				return printRoadmaps(cmd, res.([]model.Roadmap))
			case facade.KindWorktrees:
				res, err := f.List(kind, facade.Filter{})
				if err != nil {
					return err
				}
				return printWorktrees(cmd, res.([]model.WorktreeRecord))
			default:
				return fmt.Errorf("unknown list kind %q (want epics, roadmaps, or worktrees)", args[0])
			}
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "xavier.yaml", "path to Xavier config file")
	return cmd
}

func printEpics(cmd *cobra.Command, epics []model.Epic) error {
	out := cmd.OutOrStdout()
	if len(epics) == 0 {
		fmt.Fprintln(out, "No epics found.")
		return nil
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTHEME\tSTORIES")
	for _, e := range epics {
		fmt.Fprintf(w, "%s\t%s\t%d\n", e.ID, truncate(e.Theme, 40), len(e.StoryIDs))
	}
	return w.Flush()
}

func printRoadmaps(cmd *cobra.Command, roadmaps []model.Roadmap) error {
	out := cmd.OutOrStdout()
	if len(roadmaps) == 0 {
		fmt.Fprintln(out, "No roadmaps found.")
		return nil
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMILESTONES")
	for _, r := range roadmaps {
		var names []string
		for _, m := range r.Milestones {
			names = append(names, m.Name)
		}
		fmt.Fprintf(w, "%s\t%s\n", r.ID, strings.Join(names, ", "))
	}
	return w.Flush()
}

func printWorktrees(cmd *cobra.Command, recs []model.WorktreeRecord) error {
	out := cmd.OutOrStdout()
	if len(recs) == 0 {
		fmt.Fprintln(out, "No worktrees found.")
		return nil
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TASK\tAGENT\tBRANCH\tSTATUS\tPR")
	for _, wt := range recs {
		pr := wt.PRUrl
		if pr == "" {
			pr = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", wt.TaskID, wt.AgentName, wt.Branch, wt.Status, pr)
	}
	return w.Flush()
}
