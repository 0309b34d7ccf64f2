// Package intel defines the port for fetching suggested refinery updates
// from an external intelligence source.
package intel

import (
	"context"
	"strings"

	"github.com/oskars/refinerywatch/pkg/refineries"
)

// Target identifies a refinery to research.
type Target struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Targets builds the research list for a refinery store.
func Targets(list []refineries.Refinery) []Target {
	out := make([]Target, len(list))
	for i, r := range list {
		out[i] = Target{ID: r.ID, Name: r.Name}
	}
	return out
}

// WebSource is a cited web page.
type WebSource struct {
	URI   string `json:"uri"`
	Title string `json:"title"`
}

// GroundingChunk is one citation backing a report.
type GroundingChunk struct {
	Web *WebSource `json:"web,omitempty"`
}

// Report is the result of one fetch.
type Report struct {
	Updates []refineries.Update `json:"updates"`
	Summary string              `json:"summary"`
	Sources []GroundingChunk    `json:"sources,omitempty"`
}

// Fetcher researches targets and proposes updates.
type Fetcher interface {
	Fetch(ctx context.Context, targets []Target) (*Report, error)
}

// Normalize cleans a report for use as a pending update set: blank ids
// are dropped, a later update for the same id replaces the earlier one in
// place, statuses are canonicalized and blank or "null" dates become
// absent.
func Normalize(r *Report) {
	var out []refineries.Update
	pos := make(map[string]int)
	for _, u := range r.Updates {
		u.ID = strings.TrimSpace(u.ID)
		if u.ID == "" {
			continue
		}
		u.Status = refineries.ParseStatus(string(u.Status))
		if u.LastIncidentDate != nil {
			d := strings.TrimSpace(*u.LastIncidentDate)
			if d == "" || strings.EqualFold(d, "null") {
				u.LastIncidentDate = nil
			}
		}
		if i, ok := pos[u.ID]; ok {
			out[i] = u
			continue
		}
		pos[u.ID] = len(out)
		out = append(out, u)
	}
	if out == nil {
		out = []refineries.Update{}
	}
	r.Updates = out
}
