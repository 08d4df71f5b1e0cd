package transfer_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/okian/riskgauge/internal/domain/catalog"
	"github.com/okian/riskgauge/internal/domain/transfer"
	. "github.com/smartystreets/goconvey/convey"
)

func TestExportImport(t *testing.T) {
	Convey("Given the catalog with one saved indicator", t, func() {
		cats := catalog.Default()
		saved := time.Date(2024, 5, 4, 3, 2, 1, 123000000, time.UTC)
		cats[2].Indicators[1].Value = 12.5
		cats[2].Indicators[1].LastUpdated = &saved
		now := time.Date(2024, 5, 6, 23, 0, 0, 0, time.UTC)

		Convey("When exported", func() {
			data, err := transfer.Export(cats, now)
			So(err, ShouldBeNil)

			Convey("Then the document is two-space indented with an export date", func() {
				s := string(data)
				So(strings.HasPrefix(s, "{\n  \"indicators\": {\n    \"onchain\": {"), ShouldBeTrue)
				So(s, ShouldContainSubstring, `"exportDate": "2024-05-06T23:00:00Z"`)
			})

			Convey("And parsing it reproduces the store field for field", func() {
				doc, err := transfer.Parse(data)
				So(err, ShouldBeNil)
				So(doc.Indicators, ShouldResemble, cats)
				So(doc.ExportDate.Equal(now), ShouldBeTrue)
			})
		})

		Convey("The filename carries the export day", func() {
			So(transfer.Filename(now), ShouldEqual, "crypto-risk-data-2024-05-06.json")
		})
	})
}

func TestParseErrors(t *testing.T) {
	Convey("Given bad documents", t, func() {
		Convey("Non-JSON is malformed", func() {
			_, err := transfer.Parse([]byte("not json"))
			So(errors.Is(err, transfer.ErrMalformedDocument), ShouldBeTrue)
		})

		Convey("A document without indicators is rejected", func() {
			_, err := transfer.Parse([]byte(`{"exportDate":"2024-01-01T00:00:00Z"}`))
			So(errors.Is(err, transfer.ErrMissingIndicators), ShouldBeTrue)

			_, err = transfer.Parse([]byte(`{"indicators":null}`))
			So(errors.Is(err, transfer.ErrMissingIndicators), ShouldBeTrue)
		})

		Convey("Structurally wrong indicators are malformed", func() {
			_, err := transfer.Parse([]byte(`{"indicators":[]}`))
			So(errors.Is(err, transfer.ErrMalformedDocument), ShouldBeTrue)

			_, err = transfer.Parse([]byte(`{"indicators":{"macro":{"name":"Macro"}}}`))
			So(errors.Is(err, transfer.ErrMalformedDocument), ShouldBeTrue)
		})

		Convey("A bad export date is malformed", func() {
			_, err := transfer.Parse([]byte(`{"indicators":{},"exportDate":"yesterday"}`))
			So(errors.Is(err, transfer.ErrMalformedDocument), ShouldBeTrue)
		})
	})

	Convey("Given a document written by the browser dashboard", t, func() {
		doc := `{"indicators":{"macro":{"name":"Macro","weight":0.2,"color":"bg-green-500","indicators":[
			{"id":"net_liq","name":"Net Liquidity 12M Flow","value":61.69,"weight":0.4,"min":0,"max":100,"inverted":false,"lastUpdated":"2024-02-03T04:05:06.789Z"}]}},
			"exportDate":"2024-02-03T04:06:00.000Z"}`
		got, err := transfer.Parse([]byte(doc))
		So(err, ShouldBeNil)
		So(got.Indicators, ShouldHaveLength, 1)
		ind := got.Indicators[0].Indicators[0]
		So(ind.LastUpdated, ShouldNotBeNil)
		So(ind.LastUpdated.Equal(time.Date(2024, 2, 3, 4, 5, 6, 789000000, time.UTC)), ShouldBeTrue)

		out, err := json.Marshal(got.Indicators)
		So(err, ShouldBeNil)
		So(string(out), ShouldContainSubstring, `"lastUpdated":"2024-02-03T04:05:06.789Z"`)
	})
}
