// Package publisher merges a pending update set into the published
// refinery list.
package publisher

import (
	"slices"

	"github.com/oskars/refinerywatch/pkg/differ"
	"github.com/oskars/refinerywatch/pkg/refineries"
)

// Result is the outcome of merging updates into a refinery list.
type Result struct {
	// Refineries is the new published list: existing refineries in their
	// original order followed by refineries created from updates, in
	// update order.
	Refineries []refineries.Refinery
	// Changeset describes how Refineries differs from the input list.
	Changeset *differ.Changeset
}

// Apply merges updates into list. Fields present in an update replace the
// refinery's; absent ones are kept. An update for an unknown id creates a
// refinery named after the id at 0,0 with no capacity. Apply never
// modifies its inputs.
func Apply(list []refineries.Refinery, updates []refineries.Update) Result {
	out := refineries.CloneAll(list)
	if out == nil {
		out = []refineries.Refinery{}
	}

	index := make(map[string]int, len(out))
	for i, r := range out {
		if _, dup := index[r.ID]; !dup {
			index[r.ID] = i
		}
	}

	var created []refineries.Refinery
	createdIndex := make(map[string]int)

	for _, u := range updates {
		if i, ok := index[u.ID]; ok {
			out[i] = merge(out[i], u)
			continue
		}
		if i, ok := createdIndex[u.ID]; ok {
			created[i] = merge(created[i], u)
			continue
		}
		createdIndex[u.ID] = len(created)
		created = append(created, synthesize(u))
	}

	out = append(out, created...)
	return Result{
		Refineries: out,
		Changeset:  differ.New(differ.WithTruncate(0)).Refineries(list, out),
	}
}

func merge(r refineries.Refinery, u refineries.Update) refineries.Refinery {
	r.Status = u.Status
	r.Description = u.Description
	if u.LastIncidentDate != nil {
		r.LastIncidentDate = *u.LastIncidentDate
	}
	if u.IncidentVideoURLs != nil {
		r.IncidentVideoURLs = slices.Clone(u.IncidentVideoURLs)
	}
	return r
}

func synthesize(u refineries.Update) refineries.Refinery {
	r := refineries.Refinery{
		ID:                u.ID,
		Name:              u.ID,
		Lat:               0,
		Lng:               0,
		Status:            u.Status,
		Description:       u.Description,
		Capacity:          "",
		IncidentVideoURLs: slices.Clone(u.IncidentVideoURLs),
	}
	if u.LastIncidentDate != nil {
		r.LastIncidentDate = *u.LastIncidentDate
	}
	return r
}
