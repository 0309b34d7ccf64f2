package vcs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/oskars/refinerywatch/pkg/errors"
	"github.com/oskars/refinerywatch/pkg/refineries"
)

const header = "import { Refinery, RefineryStatus, Pipeline } from './types';\n\n"

// Render generates the constants.ts data file: the refinery list as an
// indented JSON array literal followed by the pipeline list.
func Render(list []refineries.Refinery, pipelines []refineries.Pipeline) ([]byte, error) {
	if list == nil {
		list = []refineries.Refinery{}
	}

	var data bytes.Buffer
	enc := json.NewEncoder(&data)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(list); err != nil {
		return nil, errors.WrapParse("json", "refineries", err)
	}

	var b strings.Builder
	b.WriteString(header)
	b.WriteString("export const INITIAL_REFINERIES: Refinery[] = ")
	b.Write(bytes.TrimRight(data.Bytes(), "\n"))
	b.WriteString(";\n\n")
	b.WriteString("export const MAJOR_PIPELINES: Pipeline[] = [\n")
	for i, p := range pipelines {
		writePipeline(&b, p)
		if i < len(pipelines)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString("];\n")
	return []byte(b.String()), nil
}

func writePipeline(b *strings.Builder, p refineries.Pipeline) {
	fmt.Fprintf(b, "  {\n")
	fmt.Fprintf(b, "    id: %s,\n", quote(p.ID))
	fmt.Fprintf(b, "    name: %s,\n", quote(p.Name))
	fmt.Fprintf(b, "    type: %s,\n", quote(string(p.Type)))
	fmt.Fprintf(b, "    status: %s,\n", quote(string(p.Status)))
	b.WriteString("    coordinates: [\n")
	for i, c := range p.Coordinates {
		fmt.Fprintf(b, "      [%s, %s]", number(c[0]), number(c[1]))
		if i < len(p.Coordinates)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString("    ]\n")
	b.WriteString("  }")
}

// quote renders s as a single-quoted TypeScript string.
func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `'`, `\'`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	return "'" + s + "'"
}

func number(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
