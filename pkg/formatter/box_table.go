package formatter

import (
	"strings"

	"github.com/younsl/tagsched/internal/models"
)

// ChangeHeaders are the column titles of the change table in notifications
var ChangeHeaders = []string{"Action", "Type", "Id", "Tags/Details"}

// ActionLabel returns the emoji label of an action
func ActionLabel(action models.Action) string {
	switch action {
	case models.ActionStart:
		return "🟢 Start"
	case models.ActionStop:
		return "🔴 Stop"
	case models.ActionScale:
		return "⚙️ Scale"
	default:
		return string(action)
	}
}

// ChangeRows converts changes into rows matching ChangeHeaders
func ChangeRows(changes []models.Change) [][]string {
	rows := make([][]string, 0, len(changes))
	for _, c := range changes {
		rows = append(rows, []string{
			ActionLabel(c.Action),
			c.Kind.Label(),
			c.ResourceID,
			c.Extra(),
		})
	}
	return rows
}

// RenderBoxTable draws headers and rows as a +-|-bordered table, one string
// per line. Missing cells are rendered empty.
func RenderBoxTable(headers []string, rows [][]string) []string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = StringWidth(h)
	}
	for _, row := range rows {
		for i := 0; i < len(headers) && i < len(row); i++ {
			if w := StringWidth(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}

	border := func() string {
		parts := make([]string, len(widths))
		for i, w := range widths {
			parts[i] = strings.Repeat("-", w)
		}
		return "+-" + strings.Join(parts, "-+-") + "-+"
	}
	line := func(values []string) string {
		cells := make([]string, len(widths))
		for i, w := range widths {
			value := ""
			if i < len(values) {
				value = values[i]
			}
			cells[i] = PadString(value, w)
		}
		return "| " + strings.Join(cells, " | ") + " |"
	}

	lines := []string{border(), line(headers), border()}
	for _, row := range rows {
		lines = append(lines, line(row))
	}
	return append(lines, border())
}
