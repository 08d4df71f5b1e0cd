package catalog_test

import (
	"math"
	"testing"

	"github.com/okian/riskgauge/internal/domain/catalog"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDefault(t *testing.T) {
	Convey("Given the default catalog", t, func() {
		cats := catalog.Default()

		Convey("It has five categories in display order", func() {
			keys := make([]string, 0, len(cats))
			for _, c := range cats {
				keys = append(keys, c.Key)
			}
			So(keys, ShouldResemble, []string{"onchain", "price", "macro", "sentiment", "supply"})
			So(cats.Count(), ShouldEqual, 18)
		})

		Convey("Category weights sum to one", func() {
			sum := 0.0
			for _, c := range cats {
				sum += c.Weight
			}
			So(math.Abs(sum-1), ShouldBeLessThan, 1e-9)
		})

		Convey("Only stablecoin dominance and LTH supply are inverted", func() {
			var inverted []string
			for _, c := range cats {
				for _, ind := range c.Indicators {
					if ind.Inverted {
						inverted = append(inverted, ind.ID)
					}
					So(ind.LastUpdated, ShouldBeNil)
					So(ind.Min, ShouldEqual, 0.0)
					So(ind.Max, ShouldEqual, 100.0)
				}
			}
			So(inverted, ShouldResemble, []string{"stable_dom", "lth_supply"})
		})

		Convey("Out-of-scale defaults are kept as-is", func() {
			rsi, ok := cats.Indicator("price", "rsi")
			So(ok, ShouldBeTrue)
			So(rsi.Value, ShouldEqual, 118.33)
		})

		Convey("Each call returns an independent copy", func() {
			cats[0].Indicators[0].Value = 0
			again := catalog.Default()
			So(again[0].Indicators[0].Value, ShouldEqual, 41.11)
		})
	})
}
