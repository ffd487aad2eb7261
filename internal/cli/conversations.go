package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"claudelens/internal/archive"
)

// resolveSession accepts an absolute session file path or a bare session id.
func (e *env) resolveSession(arg string) (string, error) {
	if filepath.IsAbs(arg) {
		return e.layout.ValidateSessionPath(arg)
	}
	projects, err := e.layout.ListProjectDirs()
	if err != nil {
		return "", err
	}
	for _, project := range projects {
		candidate := filepath.Join(project.Path, arg+archive.LogExt)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", errors.Wrapf(archive.ErrNotFound, "no session %s", arg)
}

func newListCmd(e *env) *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List conversations",
		Long:  "List every conversation with at least one user message, most recent first.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conversations, err := e.store.ListConversations(project)
			if err != nil {
				return err
			}
			for i := range conversations {
				c := &conversations[i]
				c.Name = e.names.GetSessionName(c.Project, c.SessionID)
			}
			return render(cmd.OutOrStdout(), e.output, conversations, func(w io.Writer) {
				for _, c := range conversations {
					title := c.Name
					if title == "" {
						title = oneLine(c.FirstMessagePreview)
					}
					fmt.Fprintf(w, "%s  %s\n", titleStyle.Render(c.SessionID), title)
					fmt.Fprintf(w, "  %s\n", dimStyle.Render(fmt.Sprintf("%s · %d messages · %s",
						archive.DecodeProjectPath(c.Project), c.MessageCount, c.Timestamp)))
				}
			})
		},
	}

	cmd.Flags().StringVarP(&project, "project", "p", "", "Only list this encoded project directory")

	return cmd
}

func newShowCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "show <session-id|path>",
		Short: "Print the messages of a conversation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := e.resolveSession(args[0])
			if err != nil {
				return err
			}
			messages, err := e.store.ReadConversation(path)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), e.output, messages, func(w io.Writer) {
				for _, m := range messages {
					fmt.Fprintf(w, "%s %s\n%s\n\n", roleLabel(m.Role), dimStyle.Render(m.Timestamp), m.Content)
				}
			})
		},
	}
}

func newSearchCmd(e *env) *cobra.Command {
	var maxResults int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search all conversations",
		Long:  "Case-insensitive substring search across every user and assistant message.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if maxResults <= 0 {
				maxResults = e.settings.SearchMaxResults
			}
			hits, err := e.store.SearchConversations(args[0], maxResults)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), e.output, hits, func(w io.Writer) {
				for _, h := range hits {
					fmt.Fprintf(w, "%s  %s\n", titleStyle.Render(archive.SessionIDFromPath(h.SessionPath)), oneLine(h.MatchedLine))
					fmt.Fprintf(w, "  %s\n", dimStyle.Render(archive.DecodeProjectPath(h.Project)+" · "+h.Timestamp))
				}
			})
		},
	}

	cmd.Flags().IntVarP(&maxResults, "max", "n", 0, "Maximum number of hits (default from settings)")

	return cmd
}

func newDeleteCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <session-id|path>",
		Short: "Delete a conversation and its attachments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := e.resolveSession(args[0])
			if errors.Is(err, archive.ErrNotFound) {
				return nil
			}
			if err != nil {
				return err
			}
			if err := e.store.DeleteConversation(path); err != nil {
				return err
			}
			project := filepath.Base(filepath.Dir(path))
			if err := e.names.SetSessionName(project, archive.SessionIDFromPath(path), ""); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", path)
			return nil
		},
	}
}

func newClearCmd(e *env) *cobra.Command {
	var project string
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every conversation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("refusing to delete conversations without --yes")
			}
			count, err := e.store.ClearAllConversations(project)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d conversations\n", count)
			return nil
		},
	}

	cmd.Flags().StringVarP(&project, "project", "p", "", "Only clear this encoded project directory")
	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm deletion")

	return cmd
}

func newRenameCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <session-id|path> [title]",
		Short: "Set or clear the title shown for a conversation",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := e.resolveSession(args[0])
			if err != nil {
				return err
			}
			title := ""
			if len(args) == 2 {
				title = args[1]
			}
			project := filepath.Base(filepath.Dir(path))
			return e.names.SetSessionName(project, archive.SessionIDFromPath(path), title)
		},
	}
}

func newAttachmentsCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "attachments <session-id|path>",
		Short: "List the files stored alongside a conversation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := e.resolveSession(args[0])
			if err != nil {
				return err
			}
			attachments, err := e.store.Attachments(path)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), e.output, attachments, func(w io.Writer) {
				for _, a := range attachments {
					fmt.Fprintf(w, "%-40s %s\n", a.Name, dimStyle.Render(humanize.Bytes(uint64(a.Size))))
				}
			})
		},
	}
}

func newHistoryCmd(e *env) *cobra.Command {
	var limit int
	var deleteTS uint64
	var clearAll bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the prompt history",
		Long:  "Show, prune or clear the prompt history Claude Code keeps in history.jsonl.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case clearAll:
				return e.store.ClearCommandHistory()
			case deleteTS != 0:
				return e.store.DeleteCommandEntry(deleteTS)
			}

			entries, err := e.store.ReadCommandHistory(limit)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), e.output, entries, func(w io.Writer) {
				for _, h := range entries {
					fmt.Fprintf(w, "%s  %s\n", dimStyle.Render(relative(int64(h.Timestamp))), oneLine(h.Display))
				}
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum number of entries (default 100)")
	cmd.Flags().Uint64Var(&deleteTS, "delete", 0, "Delete the entries with this timestamp")
	cmd.Flags().BoolVar(&clearAll, "clear", false, "Empty the prompt history")

	return cmd
}
