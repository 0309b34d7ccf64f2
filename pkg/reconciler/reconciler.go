// Package reconciler merges the published refinery list with the pending
// update set into the staging view.
//
// Every pending update becomes a row first, in update order, tagged UPDATED
// when its id is already published and NEW otherwise. Published refineries
// without a pending update follow in store order, tagged EXISTING. Each id
// in the union appears exactly once.
package reconciler

import (
	"slices"

	"github.com/oskars/refinerywatch/pkg/refineries"
)

// Reconcile builds the staging rows. It never fails and never modifies
// its inputs; returned rows share no slices with them.
func Reconcile(list []refineries.Refinery, updates []refineries.Update) []Row {
	byID := make(map[string]refineries.Refinery, len(list))
	for _, r := range list {
		if _, dup := byID[r.ID]; !dup {
			byID[r.ID] = r
		}
	}

	rows := make([]Row, 0, len(list)+len(updates))
	seen := make(map[string]bool, len(updates))

	for _, u := range updates {
		row := Row{
			ID:                u.ID,
			Status:            u.Status,
			Description:       u.Description,
			IncidentVideoURLs: slices.Clone(u.IncidentVideoURLs),
			ChangeType:        ChangeNew,
		}
		if u.LastIncidentDate != nil {
			row.LastIncidentDate = refineries.StringPtr(*u.LastIncidentDate)
		}
		if existing, ok := byID[u.ID]; ok {
			row.Name = existing.Name
			row.ChangeType = ChangeUpdated
		}
		rows = append(rows, row)
		seen[u.ID] = true
	}

	for _, r := range list {
		if seen[r.ID] {
			continue
		}
		seen[r.ID] = true
		rows = append(rows, Row{
			ID:                r.ID,
			Name:              r.Name,
			Status:            r.Status,
			Description:       r.Description,
			LastIncidentDate:  refineries.OptionalString(r.LastIncidentDate),
			IncidentVideoURLs: nonNil(slices.Clone(r.IncidentVideoURLs)),
			ChangeType:        ChangeExisting,
		})
	}

	return rows
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
