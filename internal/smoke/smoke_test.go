package smoke_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/okian/riskgauge/internal/adapters/http/api"
	"github.com/okian/riskgauge/internal/adapters/kv/memory"
	service "github.com/okian/riskgauge/internal/app"
	"github.com/okian/riskgauge/internal/domain/catalog"
	"github.com/okian/riskgauge/internal/smoke"
	"github.com/okian/riskgauge/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func TestRun(t *testing.T) {
	Convey("Given a dashboard served over HTTP", t, func() {
		ctx := context.Background()
		backend := memory.New()
		svc := service.New(backend)
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		srv := httptest.NewServer(api.NewServer(svc))
		defer srv.Close()

		cfg := &smoke.Config{
			BaseURL: srv.URL,
			Edits:   25,
			Workers: 4,
			Timeout: 5 * time.Second,
		}

		Convey("When the smoke run completes without restoring", func() {
			stats, err := smoke.Run(ctx, cfg)

			Convey("Then every check passes", func() {
				So(err, ShouldBeNil)
				So(stats.RunID, ShouldNotBeBlank)
				So(stats.EditsApplied, ShouldEqual, 25)
				So(stats.SavesFailed, ShouldEqual, 0)
				So(stats.SavesSucceeded, ShouldBeGreaterThan, 0)
				So(stats.ScoresChecked, ShouldEqual, 6)
				So(stats.ImportWritten, ShouldEqual, 18)
				So(backend.Len(), ShouldEqual, 18)
			})
		})

		Convey("When the run restores the baseline", func() {
			cfg.Restore = true
			_, err := smoke.Run(ctx, cfg)

			Convey("Then the store is back to its starting state", func() {
				So(err, ShouldBeNil)
				So(svc.Snapshot(), ShouldResemble, catalog.Default())
			})
		})
	})

	Convey("Given nothing listening", t, func() {
		cfg := &smoke.Config{BaseURL: "http://127.0.0.1:1", Edits: 1, Workers: 1, Timeout: 300 * time.Millisecond}

		Convey("The run fails the health check", func() {
			_, err := smoke.Run(context.Background(), cfg)
			So(errors.Is(err, smoke.ErrUnhealthy), ShouldBeTrue)
		})
	})
}
