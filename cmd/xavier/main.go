// Command xavier is the thin CLI surface over internal/facade: every
// subcommand maps directly to one façade operation and does no
// orchestration of its own, per spec §6 ("a separate CLI layer maps
// commands to façade calls").
//
// Grounded on the teacher's cmd/ry: the same newRootCmd/newXCmd/runX
// split, --config flag convention, and os.Exit(execute(...)) shape
// (cmd/ry/main.go), generalized from Railyard's GORM/Dolt connection to
// Xavier's façade + repo-root wiring.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gumruyanzh/xavier/internal/config"
	"github.com/gumruyanzh/xavier/internal/facade"
)

// Version info set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "xavier",
		Short: "Xavier — SCRUM-orchestrated multi-agent coding",
		Long:  "Xavier plans sprints, delegates tasks to coding agents in isolated worktrees, and tracks SCRUM state.",
	}

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newStoryCmd())
	cmd.AddCommand(newTaskCmd())
	cmd.AddCommand(newBugCmd())
	cmd.AddCommand(newSprintCmd())
	cmd.AddCommand(newAgentCmd())
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newListCmd())
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "xavier %s (commit: %s, built: %s)\n", Version, Commit, Date)
		},
	}
}

// loadFacade opens a Facade rooted at the current working directory's
// git checkout, per configPath.
func loadFacade(configPath string) (*facade.Facade, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	repoDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("determine repo root: %w", err)
	}
	return facade.New(cfg, repoDir)
}

func execute(cmd *cobra.Command) int {
	if err := cmd.Execute(); err != nil {
		return 1
	}
	return 0
}

func main() {
	os.Exit(execute(newRootCmd()))
}
