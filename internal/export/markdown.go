package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/mr1hm/go-disaster-reports/internal/models"
	"github.com/mr1hm/go-disaster-reports/internal/query"
)

const maxDescriptionCell = 80

// WriteMarkdown writes a report listing with a per type summary. The
// distance column is present only when withDistance is true.
func WriteMarkdown(w io.Writer, title string, matches []query.Match, withDistance bool) error {
	md := markdown.NewMarkdown(w)

	md.H1(title)
	md.PlainText("")

	if len(matches) == 0 {
		md.PlainText("No reports found.")
		return md.Build()
	}

	writeSummary(md, matches)
	writeListing(md, matches, withDistance)

	md.PlainText("")
	md.PlainTextf("Total found: %d", len(matches))
	return md.Build()
}

func writeSummary(md *markdown.Markdown, matches []query.Match) {
	counts := make(map[models.DisasterType]int)
	for _, m := range matches {
		counts[m.Report.Type]++
	}

	md.H2("Summary")
	md.PlainText("")

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Reports by type"),
		piechart.WithShowData(true),
	)
	rows := make([][]string, 0, len(counts))
	for _, dt := range models.DisasterTypes() {
		n := counts[dt]
		if n == 0 {
			continue
		}
		rows = append(rows, []string{dt.String(), strconv.Itoa(n)})
		chart.LabelAndIntValue(dt.String(), uint64(n))
	}

	md.Table(markdown.TableSet{
		Header: []string{"Type", "Reports"},
		Rows:   rows,
	})
	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

func writeListing(md *markdown.Markdown, matches []query.Match, withDistance bool) {
	md.H2("Reports")
	md.PlainText("")

	header := []string{"#", "Date", "Type", "Description", "Location"}
	if withDistance {
		header = append(header, "Distance")
	}

	rows := make([][]string, 0, len(matches))
	for i, m := range matches {
		r := m.Report
		row := []string{
			strconv.Itoa(i + 1),
			r.DisplayTime(),
			r.Type.String(),
			cell(r.Description),
			r.Location.String(),
		}
		if withDistance {
			row = append(row, fmt.Sprintf("%.1f km", m.DistanceKm))
		}
		rows = append(rows, row)
	}

	md.Table(markdown.TableSet{
		Header: header,
		Rows:   rows,
	})
}

// cell keeps a description on one table row.
func cell(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if r := []rune(s); len(r) > maxDescriptionCell {
		s = string(r[:maxDescriptionCell-3]) + "..."
	}
	return strings.ReplaceAll(s, "|", `\|`)
}
