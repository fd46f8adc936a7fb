package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/returns"
	md "github.com/nao1215/markdown"
)

// PanelMarkdown renders the panel as a markdown document with one table row per date.
func PanelMarkdown(p *returns.Panel, precision int) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	columns := p.Columns()
	if p.Len() == 0 {
		doc.H1("Returns")
		doc.PlainText("No date with a market return.")
		return doc.String()
	}
	doc.H1(fmt.Sprintf("Returns from %s to %s", p.Range().From, p.Range().To))

	table := md.TableSet{
		Header:    append([]string{"Date"}, columns...),
		Alignment: []md.TableAlignment{md.AlignLeft},
	}
	for range columns {
		table.Alignment = append(table.Alignment, md.AlignRight)
	}
	for on, values := range p.Rows() {
		row := make([]string, 0, len(values)+1)
		row = append(row, on.String())
		for _, v := range values {
			row = append(row, cell(v, precision))
		}
		table.Rows = append(table.Rows, row)
	}
	doc.Table(table)
	return doc.String()
}
