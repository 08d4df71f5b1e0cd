package freshness_test

import (
	"testing"
	"time"

	"github.com/okian/riskgauge/internal/domain/freshness"
	. "github.com/smartystreets/goconvey/convey"
)

func TestClassify(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	ago := func(d time.Duration) *time.Time {
		ts := now.Add(-d)
		return &ts
	}

	Convey("Given a never-saved indicator", t, func() {
		r := freshness.Classify(nil, now)
		So(r.Label, ShouldEqual, "Never")
		So(r.Band, ShouldEqual, freshness.BandNever)
		So(r.Band.Tone(), ShouldEqual, "gray-400")
	})

	Convey("Given timestamps at the label thresholds", t, func() {
		cases := []struct {
			age   time.Duration
			label string
			band  freshness.Band
		}{
			{0, "Just now", freshness.BandFresh},
			{59 * time.Second, "Just now", freshness.BandFresh},
			{time.Minute, "1m ago", freshness.BandFresh},
			{59*time.Minute + 59*time.Second, "59m ago", freshness.BandFresh},
			{time.Hour, "1h ago", freshness.BandFresh},
			{23*time.Hour + 59*time.Minute, "23h ago", freshness.BandFresh},
			{24 * time.Hour, "1d ago", freshness.BandAging},
			{71 * time.Hour, "2d ago", freshness.BandAging},
			{72 * time.Hour, "3d ago", freshness.BandStale},
			{6*24*time.Hour + 23*time.Hour, "6d ago", freshness.BandStale},
			{7 * 24 * time.Hour, "2024-06-08", freshness.BandStale},
		}
		for _, tc := range cases {
			r := freshness.Classify(ago(tc.age), now)
			So(r.Label, ShouldEqual, tc.label)
			So(r.Band, ShouldEqual, tc.band)
		}
	})

	Convey("Given a timestamp slightly in the future", t, func() {
		r := freshness.Classify(ago(-30*time.Second), now)
		So(r.Label, ShouldEqual, "Just now")
		So(r.Band, ShouldEqual, freshness.BandFresh)
	})

	Convey("Just now is always fresh", t, func() {
		for s := 0; s < 60; s++ {
			r := freshness.Classify(ago(time.Duration(s)*time.Second), now)
			So(r.Label, ShouldEqual, freshness.LabelJustNow)
			So(r.Band, ShouldEqual, freshness.BandFresh)
		}
	})
}
