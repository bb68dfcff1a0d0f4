package recents

import (
	"sort"
	"time"

	"github.com/printmate/printmate/internal/model"
)

const ThisMonth = "This Month"

type Group struct {
	Key   string    // "This Month" or e.g. "November 2024"
	Month time.Time // first instant of the month, in now's location
	Files []*model.File
}

// GroupByMonth buckets files by calendar month of upload, evaluated in now's
// location. Files are newest first within a group (ties by ID descending); the
// current month comes first, then the remaining months newest first.
// The input slice is not modified.
func GroupByMonth(files []*model.File, now time.Time) []Group {
	loc := now.Location()
	current := monthStart(now, loc)

	byMonth := map[time.Time]*Group{}
	var order []*Group
	for _, f := range files {
		m := monthStart(f.UploadedAt, loc)
		g, ok := byMonth[m]
		if !ok {
			key := m.Format("January 2006")
			if m.Equal(current) {
				key = ThisMonth
			}
			g = &Group{Key: key, Month: m}
			byMonth[m] = g
			order = append(order, g)
		}
		g.Files = append(g.Files, f)
	}

	for _, g := range order {
		sort.SliceStable(g.Files, func(i, j int) bool {
			return newerFirst(g.Files[i], g.Files[j])
		})
	}

	sort.SliceStable(order, func(i, j int) bool {
		if order[i].Key == ThisMonth {
			return order[j].Key != ThisMonth
		}
		if order[j].Key == ThisMonth {
			return false
		}
		return order[i].Month.After(order[j].Month)
	})

	groups := make([]Group, 0, len(order))
	for _, g := range order {
		groups = append(groups, *g)
	}
	return groups
}

// Flatten concatenates groups back into display order.
func Flatten(groups []Group) []*model.File {
	var out []*model.File
	for _, g := range groups {
		out = append(out, g.Files...)
	}
	return out
}

func monthStart(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, loc)
}

func newerFirst(a, b *model.File) bool {
	if !a.UploadedAt.Equal(b.UploadedAt) {
		return a.UploadedAt.After(b.UploadedAt)
	}
	return a.ID > b.ID
}
