// Package differ compares two refinery lists and describes the difference
// as a changeset of added, updated and removed refineries.
package differ

import (
	"fmt"
	"io"
	"strings"

	"github.com/oskars/refinerywatch/pkg/refineries"
)

// ChangeType represents the type of change.
type ChangeType string

const (
	// ChangeTypeAdd indicates an item was added.
	ChangeTypeAdd ChangeType = "add"
	// ChangeTypeUpdate indicates an item was updated.
	ChangeTypeUpdate ChangeType = "update"
	// ChangeTypeRemove indicates an item was removed.
	ChangeTypeRemove ChangeType = "remove"
)

// FieldChange represents a change to a single field.
type FieldChange struct {
	Path     string     `json:"path"`
	OldValue string     `json:"old_value"`
	NewValue string     `json:"new_value"`
	Type     ChangeType `json:"type"`
}

// RefineryUpdate represents an update to an existing refinery.
type RefineryUpdate struct {
	ID       string              `json:"id"`
	Existing refineries.Refinery `json:"-"`
	New      refineries.Refinery `json:"-"`
	Changes  []FieldChange       `json:"changes"`
}

// Changeset represents all changes between two refinery lists.
type Changeset struct {
	Added   []refineries.Refinery `json:"added"`
	Updated []RefineryUpdate      `json:"updated"`
	Removed []refineries.Refinery `json:"removed"`
	Summary Summary               `json:"summary"`
}

// Summary provides counts for a changeset.
type Summary struct {
	Added        int `json:"added"`
	Updated      int `json:"updated"`
	Removed      int `json:"removed"`
	Unchanged    int `json:"unchanged"`
	TotalChanges int `json:"total_changes"`
}

// HasChanges returns true if the changeset contains any changes.
func (c *Changeset) HasChanges() bool {
	return c.Summary.TotalChanges > 0
}

// IsEmpty returns true if the changeset contains no changes.
func (c *Changeset) IsEmpty() bool {
	return !c.HasChanges()
}

func (c *Changeset) summarize(unchanged int) {
	c.Summary = Summary{
		Added:        len(c.Added),
		Updated:      len(c.Updated),
		Removed:      len(c.Removed),
		Unchanged:    unchanged,
		TotalChanges: len(c.Added) + len(c.Updated) + len(c.Removed),
	}
}

// String returns a one-line summary of the changeset.
func (c *Changeset) String() string {
	if c.IsEmpty() {
		return "No changes detected"
	}

	var parts []string
	if c.Summary.Added > 0 {
		parts = append(parts, fmt.Sprintf("%d added", c.Summary.Added))
	}
	if c.Summary.Updated > 0 {
		parts = append(parts, fmt.Sprintf("%d updated", c.Summary.Updated))
	}
	if c.Summary.Removed > 0 {
		parts = append(parts, fmt.Sprintf("%d removed", c.Summary.Removed))
	}
	return fmt.Sprintf("Refineries: %s (Total: %d changes)", strings.Join(parts, ", "), c.Summary.TotalChanges)
}

// Print writes a detailed, human-readable view of the changeset to w.
func (c *Changeset) Print(w io.Writer) {
	fmt.Fprintln(w, c.String())
	if c.IsEmpty() {
		return
	}
	fmt.Fprintln(w, strings.Repeat("─", 80))

	if len(c.Added) > 0 {
		fmt.Fprintf(w, "\n➕ Added Refineries (%d):\n", len(c.Added))
		for _, r := range c.Added {
			fmt.Fprintf(w, "  • %s [%s]\n", r.ID, r.Status)
		}
	}

	if len(c.Updated) > 0 {
		fmt.Fprintf(w, "\n🔄 Updated Refineries (%d):\n", len(c.Updated))
		for _, u := range c.Updated {
			fmt.Fprintf(w, "  • %s:\n", u.ID)
			for _, change := range u.Changes {
				fmt.Fprintf(w, "    - %s: %s → %s\n", change.Path, change.OldValue, change.NewValue)
			}
		}
	}

	if len(c.Removed) > 0 {
		fmt.Fprintf(w, "\n⚠️  Removed Refineries (%d):\n", len(c.Removed))
		for _, r := range c.Removed {
			fmt.Fprintf(w, "  • %s\n", r.ID)
		}
	}
}
