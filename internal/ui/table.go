package ui

import (
	"fmt"
	"io"

	"github.com/pterm/pterm"
)

// PrintTable renders header and rows as a boxed table. Rows shorter than the
// header are padded with empty cells.
func PrintTable(w io.Writer, header []string, rows [][]string) {
	data := make([][]string, 0, len(rows)+1)
	data = append(data, header)

	for _, row := range rows {
		if n := len(header) - len(row); n > 0 {
			row = append(row, make([]string, n)...)
		}

		data = append(data, row)
	}

	str, err := pterm.DefaultTable.
		WithBoxed().
		WithHasHeader().
		WithData(data).
		Srender()
	if err != nil {
		pterm.Error.Printfln("Failed to output table: %s", err.Error())
		return
	}

	fmt.Fprintln(w, str)
}
