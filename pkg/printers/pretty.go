// Package printers renders timeline data for the terminal.
package printers

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/mattn/go-isatty"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/termenv"

	"tableflip.dev/timeline/pkg/entry"
	"tableflip.dev/timeline/pkg/glyph"
	"tableflip.dev/timeline/pkg/profile"
	"tableflip.dev/timeline/pkg/stats"
	"tableflip.dev/timeline/pkg/track"
)

// DefaultWidth is the wrap width for entry content.
const DefaultWidth = 72

type PrettyPrint struct {
	ShowID bool
	// Out defaults to color.Output.
	Out io.Writer
	// Width wraps entry content; zero uses DefaultWidth.
	Width int
}

var (
	spacing = strings.Repeat(" ", len("m7x2k1qz3f9a8b7c6d5e  "))
)

// ConfigureColor disables color when f is not a terminal or NO_COLOR is
// set. It reports whether color stays on.
func ConfigureColor(f *os.File) bool {
	tty := isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	color.NoColor = termenv.EnvNoColor() || !tty
	return !color.NoColor
}

// Writer is where output goes.
func (pp *PrettyPrint) Writer() io.Writer {
	if pp.Out != nil {
		return pp.Out
	}
	return color.Output
}

func (pp *PrettyPrint) width() int {
	if pp.Width > 0 {
		return pp.Width
	}
	return DefaultWidth
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.Writer())
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)

	if pp.ShowID {
		_, _ = t.Fprint(pp.Writer(), spacing)
	}
	_, _ = t.Fprintln(pp.Writer(), title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	if pp.ShowID {
		_, _ = t.Fprint(pp.Writer(), spacing)
	}
	_, _ = t.Fprint(pp.Writer(), title)
	_, _ = c.Fprintf(pp.Writer(), " - %d", count)

	switch count {
	case 1:
		_, _ = c.Fprintln(pp.Writer(), " entry")
	default:
		_, _ = c.Fprintln(pp.Writer(), " entries")
	}
}

// Groups prints the timeline, one titled block per day.
func (pp *PrettyPrint) Groups(groups []stats.Group, now time.Time) {
	if len(groups) == 0 {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Fprint(pp.Writer(), " nothing yet\n\n")
		return
	}
	for _, g := range groups {
		label := stats.RelativeLabel(g.Date, now)
		if label == g.Date {
			label = fmt.Sprintf("%s (%s)", g.Date, stats.DaysAgo(g.Date, now))
		}
		pp.TitleWithCount(label, len(g.Entries))
		pp.Entries(g.Entries...)
	}
}

// Entries prints entries under the current title.
func (pp *PrettyPrint) Entries(entries ...entry.Entry) {
	y := color.New(color.FgHiYellow, color.Italic, color.Faint)
	f := color.New(color.Faint)
	indent := strings.Repeat(" ", len("03:04 PM  "))

	for _, e := range entries {
		if pp.ShowID {
			_, _ = y.Fprint(pp.Writer(), e.ID)
			_, _ = y.Fprint(pp.Writer(), strings.Repeat(" ", max(1, len(spacing)-len(e.ID))))
		}
		_, _ = f.Fprintf(pp.Writer(), "%s  ", e.Time)
		_, _ = fmt.Fprintln(pp.Writer(), Swatch(e.Color, e.Track))

		if e.Content != "" {
			for _, line := range strings.Split(wordwrap.String(e.Content, pp.width()), "\n") {
				pp.indent()
				_, _ = fmt.Fprintf(pp.Writer(), "%s%s\n", indent, line)
			}
		}
		if e.HasImage() {
			pp.indent()
			_, _ = f.Fprintf(pp.Writer(), "%s%s %s\n", indent, glyph.Image.Render(color.NoColor), e.Image)
		}
	}
	pp.NewLine()
}

func (pp *PrettyPrint) indent() {
	if pp.ShowID {
		_, _ = fmt.Fprint(pp.Writer(), spacing)
	}
}

// Tracks prints a table of tracks with their counts.
func (pp *PrettyPrint) Tracks(tracks []track.Track, counts []stats.TrackStats) {
	if len(tracks) == 0 {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Fprint(pp.Writer(), " no tracks, add one with `timeline track add NAME`\n")
		return
	}
	byName := make(map[string]stats.TrackStats, len(counts))
	for _, c := range counts {
		byName[c.Name] = c
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	header := []interface{}{Bold("Track"), Bold("Color"), Bold("Total"), Bold("This week")}
	if pp.ShowID {
		header = append([]interface{}{Bold("ID")}, header...)
	}
	tbl.AddRow(header...)
	for _, t := range tracks {
		c := byName[t.Name]
		row := []interface{}{Swatch(t.Color, t.Name), t.Color, c.Total, c.Weekly}
		if pp.ShowID {
			row = append([]interface{}{t.ID}, row...)
		}
		tbl.AddRow(row...)
	}
	_, _ = fmt.Fprintln(pp.Writer(), tbl)
}

// Profile prints the user identity.
func (pp *PrettyPrint) Profile(p profile.Profile, setupDone bool) {
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(Bold("Name"), p.Name)
	tbl.AddRow(Bold("Username"), "@"+p.Username)
	avatar := p.AvatarURL
	if avatar == "" {
		avatar = "none"
	}
	tbl.AddRow(Bold("Avatar"), avatar)
	tbl.AddRow(Bold("Since"), p.CreatedAt.Local().Format(entry.DateLayout))
	tbl.AddRow(Bold("Setup"), setupDone)
	if pp.ShowID {
		tbl.AddRow(Bold("ID"), p.ID)
	}
	_, _ = fmt.Fprintln(pp.Writer(), tbl)
}

// Comparison prints two entries side by side.
func (pp *PrettyPrint) Comparison(c stats.Comparison) {
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.Wrap = true
	tbl.MaxColWidth = uint(pp.width() / 2)
	tbl.AddRow("", Bold("Before"), Bold("After"))
	tbl.AddRow(Bold("Date"), c.Older.Date, c.Newer.Date)
	tbl.AddRow(Bold("Time"), c.Older.Time, c.Newer.Time)
	tbl.AddRow(Bold("Track"), Swatch(c.Older.Color, c.Older.Track), Swatch(c.Newer.Color, c.Newer.Track))
	tbl.AddRow(Bold("Content"), c.Older.Content, c.Newer.Content)
	tbl.AddRow(Bold("Image"), c.Older.Image, c.Newer.Image)
	_, _ = fmt.Fprintln(pp.Writer(), tbl)

	f := color.New(color.Faint)
	switch {
	case c.DaysApart < 0:
		_, _ = f.Fprintln(pp.Writer(), "Dates could not be compared.")
	case c.DaysApart == 1:
		_, _ = f.Fprintln(pp.Writer(), "1 day apart.")
	default:
		_, _ = f.Fprintf(pp.Writer(), "%d days apart.\n", c.DaysApart)
	}
	if !c.SameTrack {
		_, _ = f.Fprintln(pp.Writer(), "Entries are on different tracks.")
	}
}

func Bold(s string) string {
	return color.New(color.Bold).Sprint(s)
}
