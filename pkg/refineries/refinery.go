// Package refineries defines the tracked entities (refineries and
// pipelines), the partial updates staged against them and the small
// helpers shared by the reconciler, editor and publisher.
package refineries

import (
	"slices"
	"strings"
)

// Status is the operational state of a refinery.
type Status string

// Known statuses.
const (
	StatusOperational Status = "Operational"
	StatusDamaged     Status = "Damaged"
	StatusOffline     Status = "Offline" // significantly destroyed or completely stopped
	StatusUnknown     Status = "Unknown"
)

// Statuses lists every known status in display order.
func Statuses() []Status {
	return []Status{StatusOperational, StatusDamaged, StatusOffline, StatusUnknown}
}

// ParseStatus maps s to a Status case-insensitively. Anything unrecognized is Unknown.
func ParseStatus(s string) Status {
	for _, st := range Statuses() {
		if strings.EqualFold(strings.TrimSpace(s), string(st)) {
			return st
		}
	}
	return StatusUnknown
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	return slices.Contains(Statuses(), s)
}

func (s Status) String() string { return string(s) }

// Refinery is a tracked facility. ID is the stable join key.
//
// LastIncidentDate is kept verbatim: it may be an ISO date, a year-month or
// the literal "null" and is never parsed.
type Refinery struct {
	ID                string   `json:"id" yaml:"id"`
	Name              string   `json:"name" yaml:"name"`
	Lat               float64  `json:"lat" yaml:"lat"`
	Lng               float64  `json:"lng" yaml:"lng"`
	Status            Status   `json:"status" yaml:"status"`
	Description       string   `json:"description" yaml:"description"`
	LastIncidentDate  string   `json:"lastIncidentDate,omitempty" yaml:"lastIncidentDate,omitempty"`
	Capacity          string   `json:"capacity,omitempty" yaml:"capacity,omitempty"`
	IncidentVideoURLs []string `json:"incidentVideoUrls,omitempty" yaml:"incidentVideoUrls,omitempty"`
}

// Clone returns a copy of r that shares no slices with it.
func (r Refinery) Clone() Refinery {
	r.IncidentVideoURLs = slices.Clone(r.IncidentVideoURLs)
	return r
}

// Update is a partial refinery record keyed by ID.
//
// Status and Description are always present. A nil LastIncidentDate or a
// nil IncidentVideoURLs means the field is absent; a non-nil empty slice
// means "set the list to empty".
type Update struct {
	ID                string   `json:"id" yaml:"id"`
	Status            Status   `json:"status" yaml:"status"`
	Description       string   `json:"description" yaml:"description"`
	LastIncidentDate  *string  `json:"lastIncidentDate,omitempty" yaml:"lastIncidentDate,omitempty"`
	IncidentVideoURLs []string `json:"incidentVideoUrls" yaml:"incidentVideoUrls"`
}

// Clone returns a copy of u that shares no pointers or slices with it.
func (u Update) Clone() Update {
	if u.LastIncidentDate != nil {
		d := *u.LastIncidentDate
		u.LastIncidentDate = &d
	}
	u.IncidentVideoURLs = slices.Clone(u.IncidentVideoURLs)
	return u
}

// CloneAll copies a list of refineries.
func CloneAll(list []Refinery) []Refinery {
	if list == nil {
		return nil
	}
	out := make([]Refinery, len(list))
	for i, r := range list {
		out[i] = r.Clone()
	}
	return out
}

// CloneUpdates copies a patch set.
func CloneUpdates(list []Update) []Update {
	if list == nil {
		return nil
	}
	out := make([]Update, len(list))
	for i, u := range list {
		out[i] = u.Clone()
	}
	return out
}

// Find returns the refinery with id and its index, or -1.
func Find(list []Refinery, id string) (Refinery, int) {
	for i, r := range list {
		if r.ID == id {
			return r, i
		}
	}
	return Refinery{}, -1
}

// FindUpdate returns the index of the update for id, or -1.
func FindUpdate(updates []Update, id string) int {
	return slices.IndexFunc(updates, func(u Update) bool { return u.ID == id })
}

// StringPtr returns a pointer to a copy of s.
func StringPtr(s string) *string { return &s }

// OptionalString turns an empty string into nil.
func OptionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
