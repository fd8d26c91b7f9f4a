package options

import (
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/timeline/pkg/entry"
)

const (
	layoutShort = "1/2"
)

// OnOptions
type OnOptions struct {
	OnString string

	// Now is used to fill in the year of short dates.
	Now func() time.Time
}

func AddOnArgs(cmd *cobra.Command, o *OnOptions) {
	cmd.Flags().StringVar(&o.OnString, "on", "",
		`Specify a date, example: --on="2020-02-28", --on="2/28/2020" or --on="2/28".`)
}

// GetOn parses --on. Short dates without a year use the current year, or
// last year when that would be in the future: entries record the past.
func (o *OnOptions) GetOn() (*time.Time, error) {
	if o.OnString == "" {
		return nil, nil
	}
	if t, err := entry.ParseDay(o.OnString); err == nil {
		return &t, nil
	}
	t, err := time.ParseInLocation(layoutShort, o.OnString, time.Local)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	if o.Now != nil {
		now = o.Now()
	}
	t = t.AddDate(now.Year(), 0, 0)
	if t.After(now) {
		t = t.AddDate(-1, 0, 0)
	}
	return &t, nil
}

// Date renders --on in the stored date layout, or "" when unset.
func (o *OnOptions) Date() (string, error) {
	t, err := o.GetOn()
	if err != nil || t == nil {
		return "", err
	}
	return entry.FormatDate(*t), nil
}
