package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/printmate/printmate/internal/model"
	"github.com/printmate/printmate/internal/recents"
	"github.com/spf13/cobra"
)

func RecentsCmd(opts *Options) *cobra.Command {
	var view, theme string
	var pageSize int

	cmd := &cobra.Command{
		Use:   "recents",
		Short: "Browse recent files grouped by month and print them",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			surface, err := surfaceOptions(view, recents.ParseTheme(theme))
			if err != nil {
				return err
			}

			api, identity, err := connect(ctx, opts)
			if err != nil {
				return err
			}
			defer func() { _ = api.Logout(ctx) }()

			s := &session{
				api:      api,
				ctrl:     recents.NewController(api, recents.WithPageSize(pageSize)),
				identity: identity,
				opts:     surface,
				out:      cmd.OutOrStdout(),
				now:      time.Now,
			}
			defer s.ctrl.Close()

			return s.run(ctx, cmd.InOrStdin())
		},
	}

	cmd.Flags().StringVar(&view, "view", "dashboard", "surface to render: dashboard or print")
	cmd.Flags().StringVar(&theme, "theme", "light", "color theme: light or dark")
	cmd.Flags().IntVar(&pageSize, "page-size", 20, "files per page")
	return cmd
}

func surfaceOptions(view string, theme recents.Theme) (recents.Options, error) {
	switch view {
	case "dashboard":
		return recents.DashboardOptions(theme), nil
	case "print":
		return recents.PrintOptions(theme), nil
	}
	return recents.Options{}, fmt.Errorf("unknown view %q (want dashboard or print)", view)
}

type printAPI interface {
	PrintFile(ctx context.Context, fileID string) (*model.PrintAck, error)
}

type session struct {
	api      printAPI
	ctrl     *recents.Controller
	identity *model.Identity
	opts     recents.Options
	out      io.Writer
	now      func() time.Time
}

// run mounts the controller and reads commands until quit or EOF.
func (s *session) run(ctx context.Context, in io.Reader) error {
	err := s.ctrl.Mount(ctx, s.identity)
	s.render(err)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(s.out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(s.out)
			return scanner.Err()
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		if done := s.handle(ctx, fields); done {
			return nil
		}
	}
}

func (s *session) handle(ctx context.Context, fields []string) bool {
	switch fields[0] {
	case "q", "quit", "exit":
		return true
	case "m", "more":
		loaded, err := s.ctrl.SentinelVisible(ctx)
		if !loaded && err == nil {
			fmt.Fprintln(s.out, "No more files to load.")
			return false
		}
		s.render(err)
	case "r", "retry":
		s.render(s.ctrl.Retry(ctx))
	case "p", "print":
		s.withCard(fields, recents.ActionPrint, func(card recents.Card) {
			ack, err := s.api.PrintFile(ctx, card.ID)
			if err != nil {
				s.notify("Print failed: " + describe(err))
				return
			}
			s.notify(ack.Message)
		})
	case "v", "preview":
		s.withCard(fields, recents.ActionPreview, func(card recents.Card) {
			link := card.PreviewURL
			if link == "" {
				link = card.URL
			}
			fmt.Fprintf(s.out, "Preview %s: %s\n", card.Name, link)
		})
	case "o", "open":
		s.withCard(fields, recents.ActionOpen, func(card recents.Card) {
			fmt.Fprintf(s.out, "Open %s: %s\n", card.Name, card.URL)
		})
	case "h", "help":
		fmt.Fprintln(s.out, "Commands: more, print N, preview N, open N, retry, quit")
	default:
		fmt.Fprintf(s.out, "Unknown command %q. Type help.\n", fields[0])
	}
	return false
}

func (s *session) withCard(fields []string, action recents.Action, fn func(recents.Card)) {
	if len(fields) < 2 {
		fmt.Fprintf(s.out, "Usage: %s N\n", action)
		return
	}
	index, err := strconv.Atoi(fields[1])
	if err != nil {
		fmt.Fprintf(s.out, "%q is not a file number.\n", fields[1])
		return
	}

	card, ok := s.section().Card(index)
	if !ok {
		fmt.Fprintf(s.out, "No file #%d.\n", index)
		return
	}
	if !card.Allows(action) {
		fmt.Fprintf(s.out, "%s is not available here.\n", action)
		return
	}
	fn(card)
}

func (s *session) section() recents.Section {
	return recents.Present(s.ctrl.Snapshot().Files, s.now(), s.opts)
}

func (s *session) notify(msg string) {
	if s.opts.Toast {
		p := paletteFor(s.opts.Theme)
		fmt.Fprintf(s.out, "%s[ %s ]%s\n", p.toast, msg, p.reset)
		return
	}
	fmt.Fprintln(s.out, msg)
}

func (s *session) render(err error) {
	state := s.ctrl.Snapshot()
	render(s.out, recents.Present(state.Files, s.now(), s.opts), state, err)
}
