package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/satishbabariya/queryhelper/cli/internal/ui"
	"github.com/satishbabariya/queryhelper/runtime/client"
)

// Output formats accepted by --format.
const (
	formatTable    = "table"
	formatJSON     = "json"
	formatMarkdown = "markdown"
)

var formats = []string{formatTable, formatJSON, formatMarkdown}

func validFormat(format string) error {
	for _, f := range formats {
		if f == format {
			return nil
		}
	}
	return fmt.Errorf("unknown output format %q (want one of %s)", format, strings.Join(formats, ", "))
}

// render writes result to w in format.
func render(w io.Writer, result *client.Result, format string) error {
	switch format {
	case formatJSON:
		return renderJSON(w, result)

	case formatMarkdown:
		out, err := ui.RenderMarkdown(markdown(result))
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, out)
		return err

	default:
		return renderTable(w, result)
	}
}

func renderTable(w io.Writer, result *client.Result) error {
	if !result.IsRows() {
		_, err := fmt.Fprintln(w, affectedLine(result.RowsAffected))
		return err
	}

	if len(result.Rows) == 0 {
		_, err := fmt.Fprintln(w, ui.Muted("(0 rows)"))
		return err
	}

	out, err := ui.RenderTable(result.Columns, cells(result))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, out)
	return err
}

type jsonRows struct {
	Columns []string     `json:"columns"`
	Rows    []client.Row `json:"rows"`
}

type jsonAffected struct {
	RowsAffected int64 `json:"rows_affected"`
}

func renderJSON(w io.Writer, result *client.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if result.IsRows() {
		return enc.Encode(jsonRows{Columns: result.Columns, Rows: result.Rows})
	}
	return enc.Encode(jsonAffected{RowsAffected: result.RowsAffected})
}

// markdown formats result as a GitHub-flavored markdown table.
func markdown(result *client.Result) string {
	if !result.IsRows() {
		return affectedLine(result.RowsAffected) + "\n"
	}
	if len(result.Columns) == 0 {
		return "_(0 rows)_\n"
	}

	var b strings.Builder

	header := make([]string, len(result.Columns))
	rule := make([]string, len(result.Columns))
	for i, col := range result.Columns {
		header[i] = escapeMarkdown(col)
		rule[i] = "---"
	}
	b.WriteString("| " + strings.Join(header, " | ") + " |\n")
	b.WriteString("| " + strings.Join(rule, " | ") + " |\n")

	for _, row := range cells(result) {
		for i := range row {
			row[i] = escapeMarkdown(row[i])
		}
		b.WriteString("| " + strings.Join(row, " | ") + " |\n")
	}

	if len(result.Rows) == 0 {
		b.WriteString("\n_(0 rows)_\n")
	}
	return b.String()
}

func escapeMarkdown(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}

// cells converts the rows of result to strings in column order.
func cells(result *client.Result) [][]string {
	out := make([][]string, 0, len(result.Rows))
	for _, row := range result.Rows {
		line := make([]string, len(result.Columns))
		for i, col := range result.Columns {
			line[i] = cell(row[col])
		}
		out = append(out, line)
	}
	return out
}

func cell(v any) string {
	switch v := v.(type) {
	case nil:
		return "NULL"
	case time.Time:
		return v.Format(time.RFC3339)
	default:
		return fmt.Sprint(v)
	}
}

func affectedLine(n int64) string {
	if n == 1 {
		return "1 row affected"
	}
	return fmt.Sprintf("%d rows affected", n)
}
