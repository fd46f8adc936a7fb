package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/returns"
	md "github.com/nao1215/markdown"
)

// SummaryMarkdown renders where each panel column comes from and how many
// dates it covers.
func SummaryMarkdown(p *returns.Panel) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Panel Summary")
	doc.PlainText(fmt.Sprintf("%d dates, %d columns.", p.Len(), len(p.Columns())))

	table := md.TableSet{
		Header:    []string{"Column", "Source", "Coverage", "Last Date"},
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignLeft, md.AlignRight, md.AlignLeft},
	}
	var uncovered []string
	for _, column := range p.Columns() {
		source := p.Source(column)
		if source == returns.SourceNone {
			uncovered = append(uncovered, column)
		}
		last := "-"
		if p.Coverage(column) > 0 {
			on, _ := p.Column(column).Latest()
			last = on.String()
		}
		table.Rows = append(table.Rows, []string{
			column,
			source.String(),
			fmt.Sprintf("%d/%d", p.Coverage(column), p.Len()),
			last,
		})
	}
	doc.Table(table)

	if len(uncovered) > 0 {
		doc.H2("Uncovered")
		doc.BulletList(uncovered...)
	}
	return doc.String()
}
