package output

import (
	"io"

	"github.com/oskars/refinerywatch/internal/cmd/table"
)

// Print writes raw for structured formats and tableData otherwise, so
// json and yaml keep the domain field names.
func Print(w io.Writer, format Format, tableData table.Data, raw any) error {
	if format.Structured() {
		return NewFormatter(format).Format(w, raw)
	}
	return NewFormatter(format).Format(w, tableData)
}
