package printers

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/timeline/pkg/entry"
)

func newTable() *uitable.Table {
	tbl := uitable.New()
	tbl.Separator = "  "
	return tbl
}

// Problems prints a titled list of entries, or a check mark when empty.
func (pp *PrettyPrint) Problems(title string, entries []entry.Entry) {
	ok := color.New(color.FgGreen)
	if len(entries) == 0 {
		_, _ = ok.Fprintf(pp.Writer(), "✓ %s: none\n", title)
		return
	}
	warn := color.New(color.FgYellow, color.Bold)
	_, _ = warn.Fprintf(pp.Writer(), "⚠ %s: %d\n", title, len(entries))

	tbl := newTable()
	tbl.AddRow(Bold("ID"), Bold("Date"), Bold("Track"), Bold("Image"))
	for _, e := range entries {
		tbl.AddRow(e.ID, e.Date, e.Track, e.Image)
	}
	_, _ = fmt.Fprintln(pp.Writer(), tbl)
}
