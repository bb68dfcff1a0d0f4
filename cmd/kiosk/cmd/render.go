package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/printmate/printmate/internal/recents"
)

type palette struct {
	title, group, index, dim, err, toast, reset string
}

const ansiReset = "\033[0m"

var palettes = map[recents.Theme]palette{
	recents.ThemeLight: {
		title: "\033[1;34m",
		group: "\033[1;30m",
		index: "\033[34m",
		dim:   "\033[90m",
		err:   "\033[31m",
		toast: "\033[30;46m",
		reset: ansiReset,
	},
	recents.ThemeDark: {
		title: "\033[1;96m",
		group: "\033[1;97m",
		index: "\033[96m",
		dim:   "\033[37m",
		err:   "\033[91m",
		toast: "\033[30;106m",
		reset: ansiReset,
	},
}

func paletteFor(t recents.Theme) palette {
	if p, ok := palettes[t]; ok {
		return p
	}
	return palettes[recents.ThemeLight]
}

// render draws one frame of the section plus the controller's status line.
// err is the result of the last load; incremental failures keep the list visible.
func render(w io.Writer, section recents.Section, state recents.State, err error) {
	p := paletteFor(section.Theme)

	fmt.Fprintf(w, "\n%s%s%s\n", p.title, section.Title, p.reset)
	fmt.Fprintln(w, p.dim+strings.Repeat("-", len(section.Title))+p.reset)

	switch {
	case state.Status == recents.StatusFailed:
		fmt.Fprintf(w, "%sCould not load files: %s%s\n", p.err, describe(state.Err), p.reset)
		fmt.Fprintln(w, "Type retry to try again.")
		return
	case section.Empty():
		fmt.Fprintln(w, "No files uploaded yet.")
		return
	}

	for _, g := range section.Groups {
		fmt.Fprintf(w, "\n%s%s%s\n", p.group, g.Title, p.reset)
		for _, c := range g.Cards {
			fmt.Fprintf(w, "  %s%3d%s  %s  %s%s · %s · %s%s\n",
				p.index, c.Index, p.reset,
				c.Name,
				p.dim, strings.ToUpper(c.Type), c.Size, c.Uploaded, p.reset)
		}
	}

	fmt.Fprintf(w, "\n%sShowing %d of %d%s\n", p.dim, section.Count, state.Total, p.reset)
	if err != nil {
		fmt.Fprintf(w, "%sCould not load more: %s%s\n", p.err, describe(err), p.reset)
	}
	if state.HasMore {
		fmt.Fprintln(w, "Type more to load older files.")
	}
}
