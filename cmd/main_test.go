package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/okian/riskgauge/internal/config"
	"github.com/okian/riskgauge/internal/domain/numeric"
	"github.com/okian/riskgauge/pkg/metrics"
	"github.com/smartystreets/goconvey/convey"
)

func runCLI(args ...string) (string, error) {
	var out bytes.Buffer
	err := run(context.Background(), append([]string{"riskgauge"}, args...), &out)
	return out.String(), err
}

func TestCLI(t *testing.T) {
	convey.Convey("Given a bolt database in a temporary directory", t, func() {
		dir := t.TempDir()
		db := filepath.Join(dir, "risk.db")
		storage := []string{"--storage", "bolt", "--bolt-path", db, "--log-level", "error"}
		with := func(args ...string) []string {
			return append(append([]string{}, storage...), args...)
		}

		convey.Convey("When printing scores for an empty database", func() {
			out, err := runCLI(with("scores")...)

			convey.Convey("Then the default catalog scores are shown", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(out, convey.ShouldContainSubstring, "CATEGORY")
				convey.So(out, convey.ShouldContainSubstring, "Macro")
				convey.So(out, convey.ShouldContainSubstring, "35.5")
				convey.So(out, convey.ShouldContainSubstring, "Moderate")
			})
		})

		convey.Convey("When an indicator is set and saved", func() {
			out, err := runCLI(with("set", "--value", "80", "--save", "macro", "net_liq")...)
			convey.So(err, convey.ShouldBeNil)
			convey.So(out, convey.ShouldContainSubstring, "saved macro/net_liq value=80 weight=0.4")

			convey.Convey("Then a later run loads the saved value", func() {
				out, err := runCLI(with("scores", "--indicators")...)
				convey.So(err, convey.ShouldBeNil)
				convey.So(out, convey.ShouldContainSubstring, "Just now")
				// macro: (80*0.4 + 21.82*0.3 + 14.28*0.3) = 42.83
				convey.So(out, convey.ShouldContainSubstring, "42.8")
			})
		})

		convey.Convey("When an edit is not saved", func() {
			_, err := runCLI(with("set", "--value", "99", "supply", "sth_risk")...)
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then it does not survive the process", func() {
				out, err := runCLI(with("scores", "-i")...)
				convey.So(err, convey.ShouldBeNil)
				convey.So(out, convey.ShouldNotContainSubstring, "Just now")
			})
		})

		convey.Convey("When the input is malformed", func() {
			_, err := runCLI(with("set", "--value", "abc", "macro", "net_liq")...)
			convey.So(errors.Is(err, numeric.ErrMalformedNumber), convey.ShouldBeTrue)

			_, err = runCLI(with("set", "--weight", "-1", "macro", "net_liq")...)
			convey.So(errors.Is(err, numeric.ErrNegativeWeight), convey.ShouldBeTrue)

			_, err = runCLI(with("set", "macro")...)
			convey.So(err, convey.ShouldNotBeNil)
		})

		convey.Convey("When a category weight is previewed", func() {
			out, err := runCLI(with("category-weight", "macro", "0")...)
			convey.So(err, convey.ShouldBeNil)
			convey.So(out, convey.ShouldContainSubstring, "Macro")
		})

		convey.Convey("When exporting and importing", func() {
			exportPath := filepath.Join(dir, "export.json")
			_, err := runCLI(with("set", "--value", "12.5", "--save", "price", "mayer")...)
			convey.So(err, convey.ShouldBeNil)

			out, err := runCLI(with("export", "--out", exportPath)...)
			convey.So(err, convey.ShouldBeNil)
			convey.So(strings.TrimSpace(out), convey.ShouldEqual, exportPath)

			data, err := os.ReadFile(exportPath)
			convey.So(err, convey.ShouldBeNil)
			convey.So(string(data), convey.ShouldContainSubstring, `"value": 12.5`)

			convey.Convey("Then importing into a fresh database persists every indicator", func() {
				fresh := []string{"--storage", "bolt", "--bolt-path", filepath.Join(dir, "fresh.db"), "--log-level", "error"}
				out, err := runCLI(append(fresh, "import", exportPath)...)
				convey.So(err, convey.ShouldBeNil)
				convey.So(out, convey.ShouldContainSubstring, "5 categories, 18 indicators, 18 written")

				out, err = runCLI(append(fresh, "scores", "-i")...)
				convey.So(err, convey.ShouldBeNil)
				convey.So(out, convey.ShouldContainSubstring, "12.5")
			})

			convey.Convey("And exporting into a directory uses the dated file name", func() {
				out, err := runCLI(with("export", "--out", dir)...)
				convey.So(err, convey.ShouldBeNil)
				convey.So(filepath.Base(strings.TrimSpace(out)), convey.ShouldStartWith, "crypto-risk-data-")
			})
		})

		convey.Convey("When the import file is not a document", func() {
			bad := filepath.Join(dir, "bad.json")
			convey.So(os.WriteFile(bad, []byte(`[1,2,3]`), 0o600), convey.ShouldBeNil)
			_, err := runCLI(with("import", bad)...)
			convey.So(err, convey.ShouldNotBeNil)
		})
	})

	convey.Convey("Given a config file that names the metrics namespace", t, func() {
		path := filepath.Join(t.TempDir(), "riskgauge.yaml")
		convey.So(os.WriteFile(path, []byte("metrics_namespace: clitest\nmetrics_labels:\n  env: ci\n"), 0o600), convey.ShouldBeNil)
		defer metrics.Configure()

		_, err := runCLI("--config", path, "--log-level", "error", "scores")
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("Then the score gauges are published under it", func() {
			families, err := metrics.GetRegistry().Gather()
			convey.So(err, convey.ShouldBeNil)

			var names []string
			for _, f := range families {
				names = append(names, f.GetName())
			}
			convey.So(names, convey.ShouldContain, "clitest_dashboard_risk_score")
		})
	})

	convey.Convey("Given an unknown storage backend", t, func() {
		_, err := runCLI("--storage", "tape", "scores")

		convey.Convey("Then configuration validation fails", func() {
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
		})
	})
}
