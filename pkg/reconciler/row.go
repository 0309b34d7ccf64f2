package reconciler

import (
	"slices"

	"github.com/oskars/refinerywatch/pkg/refineries"
)

// ChangeType classifies a merged row.
type ChangeType string

const (
	// ChangeNew is a pending update whose id is not in the store.
	ChangeNew ChangeType = "NEW"
	// ChangeUpdated is a pending update for a stored refinery.
	ChangeUpdated ChangeType = "UPDATED"
	// ChangeExisting is a stored refinery with no pending update.
	ChangeExisting ChangeType = "EXISTING"
)

// Row is one line of the staging view.
//
// For NEW and UPDATED rows the data fields come from the pending update,
// so LastIncidentDate and IncidentVideoURLs may be nil (absent). Name is
// empty for NEW rows.
type Row struct {
	ID                string            `json:"id" yaml:"id"`
	Name              string            `json:"name,omitempty" yaml:"name,omitempty"`
	Status            refineries.Status `json:"status" yaml:"status"`
	Description       string            `json:"description" yaml:"description"`
	LastIncidentDate  *string           `json:"lastIncidentDate,omitempty" yaml:"lastIncidentDate,omitempty"`
	IncidentVideoURLs []string          `json:"incidentVideoUrls" yaml:"incidentVideoUrls"`
	ChangeType        ChangeType        `json:"changeType" yaml:"changeType"`
}

// VideoURLs returns the row's evidence list, never nil.
func (r Row) VideoURLs() []string {
	if r.IncidentVideoURLs == nil {
		return []string{}
	}
	return slices.Clone(r.IncidentVideoURLs)
}

// Update builds a pending update carrying the row's current data fields.
func (r Row) Update() refineries.Update {
	u := refineries.Update{
		ID:                r.ID,
		Status:            r.Status,
		Description:       r.Description,
		IncidentVideoURLs: r.VideoURLs(),
	}
	if r.LastIncidentDate != nil {
		u.LastIncidentDate = refineries.StringPtr(*r.LastIncidentDate)
	}
	return u
}

// Summary counts rows by change type.
type Summary struct {
	New      int `json:"new" yaml:"new"`
	Updated  int `json:"updated" yaml:"updated"`
	Existing int `json:"existing" yaml:"existing"`
	Total    int `json:"total" yaml:"total"`
}

// Summarize counts rows by change type.
func Summarize(rows []Row) Summary {
	s := Summary{Total: len(rows)}
	for _, r := range rows {
		switch r.ChangeType {
		case ChangeNew:
			s.New++
		case ChangeUpdated:
			s.Updated++
		case ChangeExisting:
			s.Existing++
		}
	}
	return s
}

// Index returns the position of the row with id, or -1.
func Index(rows []Row, id string) int {
	return slices.IndexFunc(rows, func(r Row) bool { return r.ID == id })
}
