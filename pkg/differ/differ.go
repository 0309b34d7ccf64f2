package differ

import (
	"fmt"
	"slices"
	"strings"

	"github.com/oskars/refinerywatch/pkg/refineries"
)

// Differ handles change detection between refinery lists.
type Differ interface {
	// Refineries compares two lists keyed by id. Order of Added and
	// Updated follows the updated list; Removed follows the existing list.
	Refineries(existing, updated []refineries.Refinery) *Changeset
}

type differ struct {
	ignoreFields map[string]bool
	truncateAt   int
}

// New creates a Differ.
func New(opts ...Option) Differ {
	d := &differ{
		ignoreFields: make(map[string]bool),
		truncateAt:   50,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Refineries compares two refinery lists and returns changes.
func (diff *differ) Refineries(existing, updated []refineries.Refinery) *Changeset {
	changeset := &Changeset{
		Added:   []refineries.Refinery{},
		Updated: []RefineryUpdate{},
		Removed: []refineries.Refinery{},
	}

	existingMap := make(map[string]refineries.Refinery, len(existing))
	for _, r := range existing {
		existingMap[r.ID] = r
	}
	updatedIDs := make(map[string]bool, len(updated))

	unchanged := 0
	for _, r := range updated {
		updatedIDs[r.ID] = true
		old, ok := existingMap[r.ID]
		if !ok {
			changeset.Added = append(changeset.Added, r)
			continue
		}
		if u := diff.refinery(old, r); u != nil {
			changeset.Updated = append(changeset.Updated, *u)
		} else {
			unchanged++
		}
	}

	for _, r := range existing {
		if !updatedIDs[r.ID] {
			changeset.Removed = append(changeset.Removed, r)
		}
	}

	changeset.summarize(unchanged)
	return changeset
}

func (diff *differ) refinery(existing, updated refineries.Refinery) *RefineryUpdate {
	var changes []FieldChange
	add := func(path, oldValue, newValue string) {
		if oldValue == newValue || diff.ignoreFields[path] {
			return
		}
		changes = append(changes, FieldChange{
			Path:     path,
			OldValue: truncateString(oldValue, diff.truncateAt),
			NewValue: truncateString(newValue, diff.truncateAt),
			Type:     ChangeTypeUpdate,
		})
	}

	add("name", existing.Name, updated.Name)
	add("status", string(existing.Status), string(updated.Status))
	add("description", existing.Description, updated.Description)
	add("lastIncidentDate", existing.LastIncidentDate, updated.LastIncidentDate)
	add("capacity", existing.Capacity, updated.Capacity)
	add("lat", formatCoord(existing.Lat), formatCoord(updated.Lat))
	add("lng", formatCoord(existing.Lng), formatCoord(updated.Lng))
	if !slices.Equal(existing.IncidentVideoURLs, updated.IncidentVideoURLs) {
		add("incidentVideoUrls", joinURLs(existing.IncidentVideoURLs), joinURLs(updated.IncidentVideoURLs))
	}

	if len(changes) == 0 {
		return nil
	}
	return &RefineryUpdate{
		ID:       existing.ID,
		Existing: existing,
		New:      updated,
		Changes:  changes,
	}
}

func formatCoord(v float64) string {
	return fmt.Sprintf("%.4f", v)
}

func joinURLs(urls []string) string {
	return "[" + strings.Join(urls, ", ") + "]"
}

func truncateString(s string, maxLen int) string {
	if maxLen <= 0 || len([]rune(s)) <= maxLen {
		return s
	}
	return string([]rune(s)[:maxLen]) + "..."
}
