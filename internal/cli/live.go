package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"claudelens/internal/completions"
	"claudelens/internal/mcpserver"
	"claudelens/internal/sessions"
	"claudelens/internal/types"
	"claudelens/internal/watcher"
)

func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
}

func newActiveCmd(e *env) *cobra.Command {
	var thresholdSeconds int

	cmd := &cobra.Command{
		Use:   "active",
		Short: "List sessions written recently",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			threshold := e.settings.ActiveThreshold()
			if thresholdSeconds > 0 {
				threshold = time.Duration(thresholdSeconds) * time.Second
			}
			active, err := e.tracker.ListActiveSessions(threshold)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), e.output, active, func(w io.Writer) {
				for _, s := range active {
					fmt.Fprintf(w, "%s  %s  %s\n", titleStyle.Render(s.SessionID), s.Project, dimStyle.Render(relative(s.LastModified)))
					fmt.Fprintf(w, "  %s\n", dimStyle.Render(fmt.Sprintf("%d messages · %s · %s", s.MessageCount, s.Model, oneLine(s.LastMessagePreview))))
				}
			})
		},
	}

	cmd.Flags().IntVarP(&thresholdSeconds, "threshold", "t", 0, "Recency window in seconds (default from settings)")

	return cmd
}

func newTailCmd(e *env) *cobra.Command {
	var fromLine int
	var follow bool
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "tail <session-id|path>",
		Short: "Print messages appended to a session",
		Long:  "Print the messages after --from lines of a session. With --follow, keep polling and print new messages as they are appended.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := e.resolveSession(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			result, err := sessions.TailSession(path, fromLine)
			if err != nil {
				return err
			}
			if !follow {
				return render(out, e.output, result, func(w io.Writer) {
					printTail(w, result.Messages)
					fmt.Fprintf(w, "%s\n", dimStyle.Render(fmt.Sprintf("-- %d lines", result.TotalLines)))
				})
			}

			ctx, cancel := signalContext(cmd)
			defer cancel()

			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				if err := emitTail(out, e.output, result); err != nil {
					return err
				}
				select {
				case <-ctx.Done():
					return nil
				case <-ticker.C:
				}
				if result, err = sessions.TailSession(path, result.TotalLines); err != nil {
					return err
				}
			}
		},
	}

	cmd.Flags().IntVar(&fromLine, "from", 0, "Skip this many non-blank lines")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Keep printing new messages")
	cmd.Flags().DurationVar(&interval, "interval", time.Second, "Polling interval with --follow")

	return cmd
}

// emitTail prints one poll's worth of messages. Structured formats print one
// document per message so the stream can be consumed line by line.
func emitTail(w io.Writer, format string, result types.TailResult) error {
	if format == outputText {
		printTail(w, result.Messages)
		return nil
	}
	for _, m := range result.Messages {
		if err := render(w, format, m, nil); err != nil {
			return err
		}
	}
	return nil
}

func printTail(w io.Writer, messages []types.TailMessage) {
	for _, m := range messages {
		meta := m.Timestamp
		if m.Model != "" {
			meta += " · " + m.Model
		}
		if m.TokensIn > 0 || m.TokensOut > 0 {
			meta += fmt.Sprintf(" · %d in / %d out", m.TokensIn, m.TokensOut)
		}
		fmt.Fprintf(w, "%s %s\n%s\n\n", roleLabel(m.Role), dimStyle.Render(meta), m.Content)
	}
}

func newWatchCmd(e *env) *cobra.Command {
	var record bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print change notifications for the Claude data directory",
		Long:  "Watch the Claude data directory and print classified change events, including session-completed when a session goes quiet.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext(cmd)
			defer cancel()

			type notification struct {
				Event   string `json:"event"`
				Payload any    `json:"payload,omitempty"`
				At      string `json:"at"`
			}
			notifications := make(chan notification, 64)

			var emitter watcher.Emitter = watcher.EmitterFunc(func(event string, payload any) {
				n := notification{Event: event, Payload: payload, At: time.Now().Format(time.RFC3339)}
				select {
				case notifications <- n:
				default:
					log.Debug().Str("event", event).Msg("dropping notification, printer is behind")
				}
			})

			if record {
				store, err := completions.Open(filepath.Join(e.configDir, completions.DBFile))
				if err != nil {
					return err
				}
				defer store.Close()
				emitter = store.Recording(emitter, nil)
			}

			engine := watcher.New(emitter, watcher.Options{
				Root:              e.layout.ClaudeDir,
				Debounce:          e.settings.Debounce(),
				PollInterval:      e.settings.PollInterval(),
				CompletionTimeout: e.settings.CompletionTimeout(),
			})

			g, ctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				engine.Start(ctx)
				if !engine.Running() {
					return errors.Errorf("could not watch %s", e.layout.ClaudeDir)
				}
				<-ctx.Done()
				return nil
			})
			g.Go(func() error {
				out := cmd.OutOrStdout()
				for {
					select {
					case <-ctx.Done():
						return nil
					case n := <-notifications:
						err := render(out, e.output, n, func(w io.Writer) {
							line := eventStyle.Render(n.Event)
							if n.Payload != nil {
								line += " " + fmt.Sprint(n.Payload)
							}
							fmt.Fprintf(w, "%s %s\n", dimStyle.Render(n.At), line)
						})
						if err != nil {
							return err
						}
					}
				}
			})
			return g.Wait()
		},
	}

	cmd.Flags().BoolVar(&record, "record", false, "Also store session completions in the completion log")

	return cmd
}

func newCompletedCmd(e *env) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "completed",
		Short: "Show recently completed sessions from the completion log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := completions.Open(filepath.Join(e.configDir, completions.DBFile))
			if err != nil {
				return err
			}
			defer store.Close()

			recent, err := store.Recent(limit)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), e.output, recent, func(w io.Writer) {
				for _, c := range recent {
					fmt.Fprintf(w, "%s  %s\n", titleStyle.Render(c.SessionID), dimStyle.Render(relative(c.CompletedAt.UnixMilli())))
				}
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum number of entries (default 20)")

	return cmd
}

func newMCPCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the archive as MCP tools over stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext(cmd)
			defer cancel()

			svc := mcpserver.NewMCPService(mcpserver.Config{
				Layout:           e.layout,
				Conversations:    e.store,
				Sessions:         e.tracker,
				SearchMaxResults: e.settings.SearchMaxResults,
				ActiveThreshold:  e.settings.ActiveThreshold(),
			})
			return svc.Serve(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}
