package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/gumruyanzh/xavier/internal/facade"
	"github.com/gumruyanzh/xavier/internal/model"
	"github.com/gumruyanzh/xavier/internal/scrum"
)

func newStoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "story",
		Short: "Story management commands",
	}
	cmd.AddCommand(newStoryCreateCmd())
	cmd.AddCommand(newStoryListCmd())
	cmd.AddCommand(newStoryEstimateCmd())
	cmd.AddCommand(newStoryReestimateCmd())
	return cmd
}

func newStoryCreateCmd() *cobra.Command {
	var (
		configPath string
		role       string
		want       string
		benefit    string
		priority   string
		epicID     string
	)

	cmd := &cobra.Command{
		Use:   "create <title>",
		Short: "Create a new user story",
		Long:  "Creates a story in the Backlog as a role/want/benefit triple (spec §4.3 create_story).",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := loadFacade(configPath)
			if err != nil {
				return err
			}
			st, err := f.CreateStory(scrum.StoryFields{
				Title: args[0], Role: role, Want: want, Benefit: benefit,
				Priority: priority, EpicID: epicID,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created story %s\n", st.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "xavier.yaml", "path to Xavier config file")
	cmd.Flags().StringVar(&role, "role", "", "as a <role> (required)")
	cmd.Flags().StringVar(&want, "want", "", "I want <want> (required)")
	cmd.Flags().StringVar(&benefit, "benefit", "", "so that <benefit>")
	cmd.Flags().StringVar(&priority, "priority", "", "priority (Critical, High, Medium, Low)")
	cmd.Flags().StringVar(&epicID, "epic", "", "parent epic ID")
	cmd.MarkFlagRequired("role")
	cmd.MarkFlagRequired("want")
	return cmd
}

func newStoryListCmd() *cobra.Command {
	var (
		configPath string
		status     string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stories",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := loadFacade(configPath)
			if err != nil {
				return err
			}
			res, err := f.List(facade.KindStories, facade.Filter{Status: status})
			if err != nil {
				return err
			}
			stories, _ := res.([]model.Story)
			return printStories(cmd, stories)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "xavier.yaml", "path to Xavier config file")
	cmd.Flags().StringVar(&status, "status", "", "filter by status")
	return cmd
}

func printStories(cmd *cobra.Command, stories []model.Story) error {
	out := cmd.OutOrStdout()
	if len(stories) == 0 {
		fmt.Fprintln(out, "No stories found.")
		return nil
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tSTATUS\tPOINTS\tPRIORITY")
	for _, st := range stories {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", st.ID, truncate(st.Title, 40), st.Status, humanize.Comma(int64(st.StoryPoints)), st.Priority)
	}
	return w.Flush()
}

func newStoryEstimateCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "estimate [id]",
		Short: "Estimate one story, or every unestimated story if no id is given",
		Long:  "Maps to spec §6's estimate(story_id?|all).",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := loadFacade(configPath)
			if err != nil {
				return err
			}
			storyID := ""
			if len(args) == 1 {
				storyID = args[0]
			}
			estimated, err := f.Estimate(storyID)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			var lines []string
			for _, st := range estimated {
				lines = append(lines, fmt.Sprintf("%s: %s points", st.ID, humanize.Comma(int64(st.StoryPoints))))
			}
			fmt.Fprintln(out, strings.Join(lines, "\n"))
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "xavier.yaml", "path to Xavier config file")
	return cmd
}

func newStoryReestimateCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "reestimate <id>",
		Short: "Discard a story's current point value and recompute it from the auto-estimator",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := loadFacade(configPath)
			if err != nil {
				return err
			}
			st, err := f.ReestimateStory(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s points\n", st.ID, humanize.Comma(int64(st.StoryPoints)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "xavier.yaml", "path to Xavier config file")
	return cmd
}

// truncate shortens a string to maxLen, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
