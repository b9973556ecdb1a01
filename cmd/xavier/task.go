package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gumruyanzh/xavier/internal/facade"
	"github.com/gumruyanzh/xavier/internal/model"
	"github.com/gumruyanzh/xavier/internal/scrum"
)

func newTaskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Task management commands",
	}
	cmd.AddCommand(newTaskCreateCmd())
	cmd.AddCommand(newTaskListCmd())
	cmd.AddCommand(newTaskDelegateCmd())
	cmd.AddCommand(newTaskAssignCmd())
	cmd.AddCommand(newTaskSplitCmd())
	return cmd
}

func newTaskCreateCmd() *cobra.Command {
	var (
		configPath   string
		storyID      string
		description  string
		hours        float64
		dependencies []string
		priority     string
	)

	cmd := &cobra.Command{
		Use:   "create <title>",
		Short: "Create a new task under a story",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := loadFacade(configPath)
			if err != nil {
				return err
			}
			t, err := f.CreateTask(scrum.TaskFields{
				StoryID: storyID, Title: args[0], Description: description,
				EstimatedHours: hours, Dependencies: dependencies, Priority: priority,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created task %s\n", t.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "xavier.yaml", "path to Xavier config file")
	cmd.Flags().StringVar(&storyID, "story", "", "parent story ID (required)")
	cmd.Flags().StringVar(&description, "description", "", "task description")
	cmd.Flags().Float64Var(&hours, "hours", 0, "estimated hours")
	cmd.Flags().StringSliceVar(&dependencies, "depends-on", nil, "task IDs this task depends on")
	cmd.Flags().StringVar(&priority, "priority", "", "priority")
	cmd.MarkFlagRequired("story")
	return cmd
}

func newTaskListCmd() *cobra.Command {
	var (
		configPath string
		status     string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := loadFacade(configPath)
			if err != nil {
				return err
			}
			res, err := f.List(facade.KindTasks, facade.Filter{Status: status})
			if err != nil {
				return err
			}
			tasks, _ := res.([]model.Task)
			out := cmd.OutOrStdout()
			if len(tasks) == 0 {
				fmt.Fprintln(out, "No tasks found.")
				return nil
			}
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tSTATUS\tSTORY\tAGENT")
			for _, t := range tasks {
				agent := t.AssignedAgent
				if agent == "" {
					agent = "-"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", t.ID, truncate(t.Title, 40), t.Status, t.StoryID, agent)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "xavier.yaml", "path to Xavier config file")
	cmd.Flags().StringVar(&status, "status", "", "filter by status")
	return cmd
}

func newTaskDelegateCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "delegate <id>",
		Short: "Preview and persist the matcher's agent choice for a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := loadFacade(configPath)
			if err != nil {
				return err
			}
			result, err := f.Delegate(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Delegated %s to %s (%s)\n", args[0], result.AgentName, result.Reason)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "xavier.yaml", "path to Xavier config file")
	return cmd
}

func newTaskAssignCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "assign <id> <agent-name>",
		Short: "Manually assign a task to an already-registered agent",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := loadFacade(configPath)
			if err != nil {
				return err
			}
			t, err := f.AssignAgent(args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Assigned %s to %s\n", t.ID, t.AssignedAgent)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "xavier.yaml", "path to Xavier config file")
	return cmd
}

func newTaskSplitCmd() *cobra.Command {
	var (
		configPath string
		titles     []string
	)

	cmd := &cobra.Command{
		Use:   "split <id>",
		Short: "Split an oversized task into smaller tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := loadFacade(configPath)
			if err != nil {
				return err
			}
			split, err := f.SplitTask(args[0], titles)
			if err != nil {
				return err
			}
			var ids []string
			for _, t := range split {
				ids = append(ids, t.ID)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Split into: %s\n", strings.Join(ids, ", "))
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "xavier.yaml", "path to Xavier config file")
	cmd.Flags().StringSliceVar(&titles, "titles", nil, "titles for the resulting tasks (required)")
	cmd.MarkFlagRequired("titles")
	return cmd
}
