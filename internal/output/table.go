package output

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// WriteTable renders the open-port result as a styled terminal table,
// one row per host, when color is enabled, or a fixed-width plain
// rendering otherwise.
func WriteTable(w io.Writer, grouped map[string][]uint16, noColor bool) {
	hosts := sortedHosts(grouped)
	if len(hosts) == 0 {
		fmt.Fprintln(w, "\nNo open ports found.")
		return
	}

	var rows [][]string
	for _, host := range hosts {
		rows = append(rows, []string{host, portsColumn(grouped[host])})
	}

	fmt.Fprintln(w)

	if noColor {
		writeSimpleTable(w, rows)
		return
	}

	headers := []string{"Host", "Open Ports"}

	t := table.New().
		Headers(headers...).
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
			}
			return lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
		})

	for _, row := range rows {
		t.Row(row...)
	}

	fmt.Fprintln(w, t.Render())
}

// WriteGreppable renders one "<host> -> [p1,p2,...]" line per host,
// hosts sorted for reproducible output.
func WriteGreppable(w io.Writer, grouped map[string][]uint16) {
	for _, host := range sortedHosts(grouped) {
		fmt.Fprintf(w, "%s -> [%s]\n", host, portsColumn(grouped[host]))
	}
}

func portsColumn(ports []uint16) string {
	parts := make([]string, len(ports))
	for i, p := range ports {
		parts[i] = strconv.Itoa(int(p))
	}
	return strings.Join(parts, ",")
}

func sortedHosts(grouped map[string][]uint16) []string {
	hosts := make([]string, 0, len(grouped))
	for host := range grouped {
		hosts = append(hosts, host)
	}
	sort.Strings(hosts)
	return hosts
}

func writeSimpleTable(w io.Writer, rows [][]string) {
	headers := []string{"Host", "Open Ports"}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	for i, h := range headers {
		if i > 0 {
			fmt.Fprint(w, " | ")
		}
		fmt.Fprintf(w, "%-*s", widths[i], h)
	}
	fmt.Fprintln(w)

	for i, width := range widths {
		if i > 0 {
			fmt.Fprint(w, "-+-")
		}
		fmt.Fprint(w, strings.Repeat("-", width))
	}
	fmt.Fprintln(w)

	for _, row := range rows {
		for i, cell := range row {
			if i > 0 {
				fmt.Fprint(w, " | ")
			}
			fmt.Fprintf(w, "%-*s", widths[i], cell)
		}
		fmt.Fprintln(w)
	}
}
