package visualization

import (
	"io"

	"github.com/olekukonko/tablewriter"
)

// Table is a model for data.
type Table struct {
	headers []string
	data    [][]string
	footer  []string
}

// NewTable creates new model of data representation.
func NewTable(headers []string, data [][]string) *Table {
	return &Table{
		headers: headers,
		data:    data,
	}
}

// SetFooter adds a footer row. It needs the same number of columns as headers.
func (t *Table) SetFooter(footer []string) {
	t.footer = footer
}

// DrawTable draws a table with headers and data rows to given writer.
func DrawTable(w io.Writer, table *Table) error {
	output := tablewriter.NewWriter(w)
	output.SetHeader(table.headers)
	output.SetAutoFormatHeaders(false)
	output.SetAlignment(tablewriter.ALIGN_LEFT)
	output.AppendBulk(table.data)
	if len(table.footer) > 0 {
		output.SetFooter(table.footer)
	}
	output.Render()
	return nil
}
