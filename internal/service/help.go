package service

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/printmate/printmate/internal/markdown"
	"github.com/printmate/printmate/internal/model"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed help/*.md
var helpFS embed.FS

var ErrHelpPageNotFound = errors.New("help page not found")

// HelpService serves the kiosk help pages. Pages are parsed once at startup.
type HelpService struct {
	pages  []*model.HelpPage
	bySlug map[string]*model.HelpPage
}

func NewHelpService() (*HelpService, error) {
	return newHelpService(helpFS, "help")
}

func newHelpService(fsys fs.FS, dir string) (*HelpService, error) {
	parser := markdown.NewParser()
	s := &HelpService{bySlug: map[string]*model.HelpPage{}}

	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read help pages: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}

		content, err := fs.ReadFile(fsys, path.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}

		page, err := loadHelpPage(parser, strings.TrimSuffix(entry.Name(), ".md"), content)
		if err != nil {
			return nil, fmt.Errorf("help page %s: %w", entry.Name(), err)
		}

		s.pages = append(s.pages, page)
		s.bySlug[page.Slug] = page
	}

	sort.Slice(s.pages, func(i, j int) bool {
		if s.pages[i].Order != s.pages[j].Order {
			return s.pages[i].Order < s.pages[j].Order
		}
		return s.pages[i].Title < s.pages[j].Title
	})

	return s, nil
}

func loadHelpPage(parser *markdown.Parser, slug string, content []byte) (*model.HelpPage, error) {
	html, meta, err := parser.ParseWithFrontmatter(content)
	if err != nil {
		return nil, err
	}

	page := &model.HelpPage{
		Slug:        slug,
		HTMLContent: string(html),
	}

	title, ok := meta["title"].(string)
	if ok {
		page.Title = title
	} else {
		page.Title = titleFromSlug(slug)
	}

	description, ok := meta["description"].(string)
	if ok {
		page.Description = description
	}

	switch order := meta["order"].(type) {
	case int:
		page.Order = order
	case uint64:
		page.Order = int(order)
	case float64:
		page.Order = int(order)
	}

	return page, nil
}

// Pages lists all pages (without rendered bodies) in display order.
func (s *HelpService) Pages() []*model.HelpPage {
	out := make([]*model.HelpPage, 0, len(s.pages))
	for _, p := range s.pages {
		summary := *p
		summary.HTMLContent = ""
		out = append(out, &summary)
	}
	return out
}

func (s *HelpService) Page(slug string) (*model.HelpPage, error) {
	page, ok := s.bySlug[slug]
	if !ok {
		return nil, ErrHelpPageNotFound
	}
	return page, nil
}

func titleFromSlug(slug string) string {
	words := strings.ReplaceAll(slug, "-", " ")
	return cases.Title(language.English).String(words)
}
