package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"safetrack/internal/errs"
)

const (
	formatText = "text"
	formatJSON = "json"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func checkFormat(format string) (string, error) {
	switch f := strings.ToLower(strings.TrimSpace(format)); f {
	case "", formatText:
		return formatText, nil
	case formatJSON:
		return formatJSON, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (text|json)", format)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return errs.Wrap(err, "write json output")
	}
	return nil
}

// writeTable renders rows under headers; an empty rows slice prints emptyText instead.
func writeTable(w io.Writer, headers []string, rows [][]string, emptyText string) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, emptyText)
		return err
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	_, err := fmt.Fprintln(w, t.String())
	return err
}

func daysText(days *int) string {
	if days == nil {
		return ""
	}
	return fmt.Sprintf("%d", *days)
}

func idText(id uint64) string {
	return fmt.Sprintf("%d", id)
}
