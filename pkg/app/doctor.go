package app

import (
	"tableflip.dev/timeline/pkg/entry"
	"tableflip.dev/timeline/pkg/stats"
)

// Diagnosis lists data the stores accept but the user probably did not
// intend.
type Diagnosis struct {
	// Orphans are entries whose track no longer exists.
	Orphans []entry.Entry
	// MissingImages are entries whose image file is gone.
	MissingImages []entry.Entry
}

// Healthy reports whether nothing was found.
func (d Diagnosis) Healthy() bool {
	return len(d.Orphans) == 0 && len(d.MissingImages) == 0
}

// Doctor inspects the loaded stores.
func (s *Service) Doctor() Diagnosis {
	entries := s.Timeline.Items()
	d := Diagnosis{
		Orphans: stats.Orphans(entries, s.Tracks.Tracks()),
	}
	if s.Media == nil {
		return d
	}
	for _, e := range entries {
		if e.HasImage() && !s.Media.Exists(e.Image) {
			d.MissingImages = append(d.MissingImages, e)
		}
	}
	return d
}
