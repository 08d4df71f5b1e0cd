package model_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/okian/riskgauge/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func sample() model.Categories {
	ts := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	return model.Categories{
		{Key: "price", Name: "Price Metrics", Weight: 0.25, Color: "bg-purple-500", Indicators: []model.Indicator{
			{ID: "mayer", Name: "Mayer Multiple", Value: 9.39, Weight: 0.25, Max: 100},
		}},
		{Key: "macro", Name: "Macro", Weight: 0.2, Indicators: []model.Indicator{
			{ID: "stable_dom", Name: "Stablecoin Dominance", Value: 78.18, Weight: 0.3, Max: 100, Inverted: true, LastUpdated: &ts},
		}},
	}
}

func TestCategoriesJSON(t *testing.T) {
	Convey("Given an ordered set of categories", t, func() {
		cats := sample()

		Convey("When encoded", func() {
			data, err := json.Marshal(cats)
			So(err, ShouldBeNil)

			Convey("Then keys keep the slice order", func() {
				s := string(data)
				So(s[:9], ShouldEqual, `{"price":`)
			})

			Convey("And decoding restores the same structure", func() {
				var back model.Categories
				So(json.Unmarshal(data, &back), ShouldBeNil)
				So(back, ShouldResemble, cats)
			})
		})

		Convey("When a null timestamp is encoded", func() {
			data, err := json.Marshal(cats[:1])
			So(err, ShouldBeNil)
			So(string(data), ShouldContainSubstring, `"lastUpdated":null`)
		})
	})

	Convey("Given malformed category documents", t, func() {
		cases := []struct{ name, doc string }{
			{"not an object", `[1,2]`},
			{"duplicate category", `{"a":{"indicators":[]},"a":{"indicators":[]}}`},
			{"missing indicators", `{"a":{"name":"A","weight":1}}`},
			{"indicator id absent", `{"a":{"indicators":[{"value":1}]}}`},
			{"duplicate indicator", `{"a":{"indicators":[{"id":"x"},{"id":"x"}]}}`},
			{"wrong value type", `{"a":{"indicators":[{"id":"x","value":"high"}]}}`},
		}
		for _, tc := range cases {
			Convey("Then "+tc.name+" is rejected", func() {
				var cs model.Categories
				So(json.Unmarshal([]byte(tc.doc), &cs), ShouldNotBeNil)
			})
		}
	})
}

func TestCategoriesLookup(t *testing.T) {
	Convey("Given categories", t, func() {
		cats := sample()

		Convey("Indicator finds by category and id", func() {
			ind, ok := cats.Indicator("macro", "stable_dom")
			So(ok, ShouldBeTrue)
			So(ind.Inverted, ShouldBeTrue)

			_, ok = cats.Indicator("macro", "mayer")
			So(ok, ShouldBeFalse)
			_, ok = cats.Indicator("nope", "mayer")
			So(ok, ShouldBeFalse)
		})

		Convey("Count sums all indicators", func() {
			So(cats.Count(), ShouldEqual, 2)
		})

		Convey("Clone does not share timestamps or slices", func() {
			cp := cats.Clone()
			cp[1].Indicators[0].Value = 1
			*cp[1].Indicators[0].LastUpdated = time.Time{}
			So(cats[1].Indicators[0].Value, ShouldEqual, 78.18)
			So(cats[1].Indicators[0].LastUpdated.IsZero(), ShouldBeFalse)
		})
	})
}

func TestIndicatorRecord(t *testing.T) {
	Convey("Apply overwrites only the durable fields", t, func() {
		ts := time.Now().UTC()
		ind := model.Indicator{ID: "sopr", Name: "SOPR", Value: 52.4, Weight: 0.2, Max: 100}
		out := ind.Apply(model.Record{Value: 10, Weight: 0.5, LastUpdated: &ts})
		So(out.ID, ShouldEqual, "sopr")
		So(out.Name, ShouldEqual, "SOPR")
		So(out.Max, ShouldEqual, 100.0)
		So(out.Value, ShouldEqual, 10.0)
		So(out.Weight, ShouldEqual, 0.5)
		So(out.LastUpdated.Equal(ts), ShouldBeTrue)
		So(out.Record().Value, ShouldEqual, 10.0)
	})
}
