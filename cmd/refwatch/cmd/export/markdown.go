package export

import (
	"bytes"
	"fmt"
	"strconv"

	md "github.com/nao1215/markdown"

	"github.com/oskars/refinerywatch/pkg/errors"
	"github.com/oskars/refinerywatch/pkg/refineries"
)

// statusReport renders the published list as a Markdown document with a
// summary line and one table row per refinery.
func statusReport(list []refineries.Refinery, stats refineries.Stats) ([]byte, error) {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Refinery Status").LF()
	doc.PlainTextf("%s of %d refineries damaged or offline (%d%%).",
		md.Bold(strconv.Itoa(stats.Damaged+stats.Offline)), stats.Total, stats.ImpactPercentage).LF()
	doc.BulletList(
		fmt.Sprintf("Operational: %d", stats.Operational),
		fmt.Sprintf("Damaged: %d", stats.Damaged),
		fmt.Sprintf("Offline: %d", stats.Offline),
		fmt.Sprintf("Unknown: %d", stats.Unknown),
	).LF()

	doc.H2("Refineries").LF()
	rows := make([][]string, 0, len(list))
	for _, r := range list {
		incident := r.LastIncidentDate
		if incident == "" {
			incident = "-"
		}
		rows = append(rows, []string{
			r.ID,
			r.Name,
			string(r.Status),
			incident,
			strconv.Itoa(len(r.IncidentVideoURLs)),
		})
	}
	doc.Table(md.TableSet{
		Header: []string{"ID", "Name", "Status", "Last Incident", "Videos"},
		Rows:   rows,
	})

	if err := doc.Build(); err != nil {
		return nil, errors.WrapIO("render", "markdown report", err)
	}
	return buf.Bytes(), nil
}
