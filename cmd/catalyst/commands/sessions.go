package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.trai.ch/catalyst/internal/core/domain"
	"go.trai.ch/catalyst/internal/ui/output"
	"go.trai.ch/catalyst/internal/ui/style"
)

func (c *CLI) newSessionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Inspect and clean up stored generation sessions",
	}
	cmd.AddCommand(c.newSessionsListCmd())
	cmd.AddCommand(c.newSessionsRmCmd())
	cmd.AddCommand(c.newSessionsPruneCmd())
	return cmd
}

func (c *CLI) newSessionsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List stored sessions, oldest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			list, err := c.app.ListSessions(cmd.Context())
			if err != nil {
				return err
			}
			return printSessions(cmd.OutOrStdout(), list)
		},
	}
}

func (c *CLI) newSessionsRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <session-id>...",
		Short: "Remove sessions and their files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, id := range args {
				if err := c.app.DeleteSession(cmd.Context(), id); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func (c *CLI) newSessionsPruneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Remove sessions older than the configured TTL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			olderThan, _ := cmd.Flags().GetDuration("older-than")
			_, err := c.app.PruneSessions(cmd.Context(), olderThan)
			return err
		},
	}
	cmd.Flags().Duration("older-than", 0, "Age threshold (defaults to storage.ttl)")
	return cmd
}

var (
	idColumn   = lipgloss.NewStyle().Width(38)
	timeColumn = lipgloss.NewStyle().Width(22)
	sizeColumn = lipgloss.NewStyle().Width(10).Align(lipgloss.Right)
)

func printSessions(w io.Writer, list []domain.Session) error {
	out := output.New(w)
	if len(list) == 0 {
		_, err := fmt.Fprintln(w, output.Paint(out, "no sessions", style.Slate))
		return err
	}

	for _, s := range list {
		icon := output.Paint(out, style.Dot, style.Green)
		if len(s.Files) == 0 {
			icon = output.Paint(out, style.Warning, style.Yellow)
		}
		line := icon + " " +
			idColumn.Render(s.ID) +
			timeColumn.Render(s.CreatedAt.UTC().Format(time.RFC3339)) +
			sizeColumn.Render(formatBytes(s.Size())) + "  " +
			output.Paint(out, fmt.Sprintf("%d file(s)", len(s.Files)), style.Slate)
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
