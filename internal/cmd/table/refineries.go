package table

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/oskars/refinerywatch/internal/cmd/emoji"
	"github.com/oskars/refinerywatch/pkg/differ"
	"github.com/oskars/refinerywatch/pkg/reconciler"
	"github.com/oskars/refinerywatch/pkg/refineries"
)

const descriptionWidth = 60

// RefineriesToTableData converts refineries to table format. Wide output
// adds coordinates, capacity and the evidence count.
func RefineriesToTableData(list []refineries.Refinery, wide bool) Data {
	headers := []string{"ID", "Name", "Status", "Last Incident", "Description"}
	align := []Align{AlignLeft, AlignLeft, AlignLeft, AlignLeft, AlignLeft}
	if wide {
		headers = append(headers, "Lat", "Lng", "Capacity", "Videos")
		align = append(align, AlignRight, AlignRight, AlignLeft, AlignRight)
	}

	rows := make([][]string, 0, len(list))
	for _, r := range list {
		row := []string{
			r.ID,
			r.Name,
			StatusLabel(r.Status),
			orDash(r.LastIncidentDate),
			orDash(truncate(r.Description, descriptionWidth)),
		}
		if wide {
			row = append(row,
				strconv.FormatFloat(r.Lat, 'f', 4, 64),
				strconv.FormatFloat(r.Lng, 'f', 4, 64),
				orDash(r.Capacity),
				strconv.Itoa(len(r.IncidentVideoURLs)),
			)
		}
		rows = append(rows, row)
	}

	return Data{Headers: headers, Rows: rows, ColumnAlignment: align}
}

// RefineryDetails renders one refinery as a property/value table.
func RefineryDetails(r refineries.Refinery) Data {
	rows := [][]string{
		{"ID", r.ID},
		{"Name", r.Name},
		{"Status", StatusLabel(r.Status)},
		{"Coordinates", fmt.Sprintf("%.4f, %.4f", r.Lat, r.Lng)},
		{"Capacity", orDash(r.Capacity)},
		{"Last Incident", orDash(r.LastIncidentDate)},
		{"Description", orDash(r.Description)},
	}
	for i, u := range r.IncidentVideoURLs {
		rows = append(rows, []string{fmt.Sprintf("Video %d", i+1), u})
	}
	return Data{Headers: []string{"Property", "Value"}, Rows: rows}
}

// PipelinesToTableData converts pipelines to table format.
func PipelinesToTableData(pipelines []refineries.Pipeline) Data {
	rows := make([][]string, 0, len(pipelines))
	for _, p := range pipelines {
		rows = append(rows, []string{
			p.ID,
			p.Name,
			strings.ToUpper(string(p.Type)),
			string(p.Status),
			strconv.Itoa(len(p.Coordinates)),
		})
	}
	return Data{
		Headers:         []string{"ID", "Name", "Type", "Status", "Points"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignLeft, AlignCenter, AlignLeft, AlignRight},
	}
}

// RowsToTableData converts staging rows to table format. The first column
// is the row index that edit commands take.
func RowsToTableData(rows []reconciler.Row) Data {
	out := make([][]string, 0, len(rows))
	for i, r := range rows {
		date := "-"
		if r.LastIncidentDate != nil {
			date = orDash(*r.LastIncidentDate)
		}
		out = append(out, []string{
			strconv.Itoa(i),
			string(r.ChangeType),
			r.ID,
			orDash(r.Name),
			StatusLabel(r.Status),
			date,
			strconv.Itoa(len(r.IncidentVideoURLs)),
			orDash(truncate(r.Description, descriptionWidth)),
		})
	}
	return Data{
		Headers:         []string{"#", "Change", "ID", "Name", "Status", "Last Incident", "Videos", "Description"},
		Rows:            out,
		ColumnAlignment: []Align{AlignRight, AlignLeft, AlignLeft, AlignLeft, AlignLeft, AlignLeft, AlignRight, AlignLeft},
	}
}

// StatsToTableData renders status counts as a metric/value table.
func StatsToTableData(s refineries.Stats) Data {
	return Data{
		Headers: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Total", strconv.Itoa(s.Total)},
			{"Operational", strconv.Itoa(s.Operational)},
			{"Damaged", strconv.Itoa(s.Damaged)},
			{"Offline", strconv.Itoa(s.Offline)},
			{"Unknown", strconv.Itoa(s.Unknown)},
			{"Impact", strconv.Itoa(s.ImpactPercentage) + "%"},
		},
		ColumnAlignment: []Align{AlignLeft, AlignRight},
	}
}

// ChangesetToTableData lists one line per changed field.
func ChangesetToTableData(cs *differ.Changeset) Data {
	var rows [][]string
	if cs != nil {
		for _, r := range cs.Added {
			rows = append(rows, []string{"added", r.ID, "-", "-", string(r.Status)})
		}
		for _, u := range cs.Updated {
			for _, c := range u.Changes {
				rows = append(rows, []string{"updated", u.ID, c.Path, orDash(c.OldValue), orDash(c.NewValue)})
			}
		}
		for _, r := range cs.Removed {
			rows = append(rows, []string{"removed", r.ID, "-", string(r.Status), "-"})
		}
	}
	return Data{Headers: []string{"Change", "ID", "Field", "Old", "New"}, Rows: rows}
}

// StatusLabel prefixes a status with its symbol.
func StatusLabel(s refineries.Status) string {
	switch s {
	case refineries.StatusOperational:
		return emoji.Success + " " + string(s)
	case refineries.StatusDamaged:
		return emoji.Warning + " " + string(s)
	case refineries.StatusOffline:
		return emoji.Error + " " + string(s)
	default:
		return emoji.Unknown + " " + orDash(string(s))
	}
}
