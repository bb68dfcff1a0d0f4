package recents

import (
	"time"

	"github.com/printmate/printmate/internal/model"
)

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ParseTheme falls back to light for unknown values.
func ParseTheme(s string) Theme {
	if Theme(s) == ThemeDark {
		return ThemeDark
	}
	return ThemeLight
}

type Action string

const (
	ActionPreview Action = "preview"
	ActionPrint   Action = "print"
	ActionOpen    Action = "open"
)

// Options parameterize a surface: which card actions it offers and how it looks.
type Options struct {
	Title   string
	Actions []Action
	Theme   Theme
	// Toast reports print results as transient notifications instead of inline text.
	Toast bool
}

// DashboardOptions is the signed-in dashboard: files can be previewed, opened or printed.
func DashboardOptions(theme Theme) Options {
	return Options{
		Title:   "Recent Files",
		Actions: []Action{ActionPreview, ActionPrint, ActionOpen},
		Theme:   theme,
	}
}

// PrintOptions is the kiosk print screen.
func PrintOptions(theme Theme) Options {
	return Options{
		Title:   "Recent Uploads",
		Actions: []Action{ActionPreview, ActionPrint},
		Theme:   theme,
		Toast:   true,
	}
}

type Card struct {
	Index        int // 1-based position across the whole section
	ID           string
	Name         string
	Type         string
	Size         string
	Uploaded     string
	URL          string
	ThumbnailURL string
	PreviewURL   string
	Actions      []Action
}

func (c Card) Allows(a Action) bool {
	for _, have := range c.Actions {
		if have == a {
			return true
		}
	}
	return false
}

type GroupView struct {
	Title string
	Cards []Card
}

type Section struct {
	Title  string
	Theme  Theme
	Toast  bool
	Groups []GroupView
	Count  int
}

func (s Section) Empty() bool {
	return s.Count == 0
}

// Card returns the card with the given 1-based index.
func (s Section) Card(index int) (Card, bool) {
	for _, g := range s.Groups {
		for _, c := range g.Cards {
			if c.Index == index {
				return c, true
			}
		}
	}
	return Card{}, false
}

// Present groups files by month and builds the view model for one surface.
func Present(files []*model.File, now time.Time, opts Options) Section {
	section := Section{
		Title: opts.Title,
		Theme: opts.Theme,
		Toast: opts.Toast,
	}

	index := 0
	for _, g := range GroupByMonth(files, now) {
		view := GroupView{Title: g.Key}
		for _, f := range g.Files {
			index++
			size := f.Size
			if size == "" {
				size = model.FormatSize(f.SizeBytes)
			}
			view.Cards = append(view.Cards, Card{
				Index:        index,
				ID:           f.ID,
				Name:         f.Name,
				Type:         f.Type,
				Size:         size,
				Uploaded:     f.UploadedAt.In(now.Location()).Format("Jan 2, 2006"),
				URL:          f.URL,
				ThumbnailURL: f.ThumbnailURL,
				PreviewURL:   f.PreviewURL,
				Actions:      opts.Actions,
			})
		}
		section.Groups = append(section.Groups, view)
	}
	section.Count = index

	return section
}
