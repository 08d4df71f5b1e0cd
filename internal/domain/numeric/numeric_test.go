package numeric_test

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/okian/riskgauge/internal/domain/numeric"
	. "github.com/smartystreets/goconvey/convey"
)

func TestParse(t *testing.T) {
	Convey("Given user text", t, func() {
		Convey("Decimal numbers parse", func() {
			v, err := numeric.Parse(" 61.69 ")
			So(err, ShouldBeNil)
			So(v, ShouldEqual, 61.69)

			v, err = numeric.Parse("-3")
			So(err, ShouldBeNil)
			So(v, ShouldEqual, -3.0)
		})

		Convey("Garbage is malformed", func() {
			for _, in := range []string{"", "   ", "abc", "12abc", "NaN", "Inf", "-Infinity"} {
				_, err := numeric.Parse(in)
				So(errors.Is(err, numeric.ErrMalformedNumber), ShouldBeTrue)
			}
		})
	})
}

func TestParseJSON(t *testing.T) {
	Convey("Given JSON fragments", t, func() {
		v, err := numeric.ParseJSON(json.RawMessage(`42.5`))
		So(err, ShouldBeNil)
		So(v, ShouldEqual, 42.5)

		v, err = numeric.ParseJSON(json.RawMessage(`"7"`))
		So(err, ShouldBeNil)
		So(v, ShouldEqual, 7.0)

		for _, raw := range []string{`"x"`, `true`, `null`, `{}`, `[1]`} {
			_, err := numeric.ParseJSON(json.RawMessage(raw))
			So(errors.Is(err, numeric.ErrMalformedNumber), ShouldBeTrue)
		}
	})
}

func TestWeight(t *testing.T) {
	Convey("Weights must be finite and non-negative", t, func() {
		v, err := numeric.Weight(0)
		So(err, ShouldBeNil)
		So(v, ShouldEqual, 0.0)

		_, err = numeric.Weight(-0.1)
		So(errors.Is(err, numeric.ErrNegativeWeight), ShouldBeTrue)

		_, err = numeric.Weight(math.Inf(1))
		So(errors.Is(err, numeric.ErrMalformedNumber), ShouldBeTrue)
	})
}
