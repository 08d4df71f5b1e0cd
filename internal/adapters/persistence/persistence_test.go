package persistence_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/okian/riskgauge/internal/adapters/kv/memory"
	"github.com/okian/riskgauge/internal/adapters/persistence"
	"github.com/okian/riskgauge/internal/domain/model"
	"github.com/okian/riskgauge/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type failingStore struct {
	*memory.Store
	getErr error
	setErr error
}

func (f *failingStore) Get(ctx context.Context, key string) (string, bool, error) {
	if f.getErr != nil {
		return "", false, f.getErr
	}
	return f.Store.Get(ctx, key)
}

func (f *failingStore) Set(ctx context.Context, key, value string) error {
	if f.setErr != nil {
		return f.setErr
	}
	return f.Store.Set(ctx, key, value)
}

func TestKey(t *testing.T) {
	Convey("Keys combine category and indicator", t, func() {
		So(persistence.Key("macro", "net_liq"), ShouldEqual, "indicator_macro_net_liq")
	})
}

func TestSaveLoad(t *testing.T) {
	ctx := context.Background()
	fixed := time.Date(2024, 7, 1, 9, 30, 15, 500000000, time.UTC)

	Convey("Given a repository over an empty store", t, func() {
		store := memory.New()
		repo := persistence.New(store, persistence.WithClock(func() time.Time { return fixed }))

		Convey("Loading an unsaved indicator is absent", func() {
			_, ok := repo.Load(ctx, "macro", "net_liq")
			So(ok, ShouldBeFalse)
		})

		Convey("When an indicator is saved", func() {
			rec, err := repo.Save(ctx, "macro", "net_liq", 61.69, 0.4)
			So(err, ShouldBeNil)

			Convey("Then it is stamped with the save time", func() {
				So(rec.LastUpdated, ShouldNotBeNil)
				So(rec.LastUpdated.Equal(fixed), ShouldBeTrue)
			})

			Convey("And the payload uses the record field names", func() {
				raw, found, _ := store.Get(ctx, "indicator_macro_net_liq")
				So(found, ShouldBeTrue)
				So(raw, ShouldEqual, `{"value":61.69,"weight":0.4,"lastUpdated":"2024-07-01T09:30:15.5Z"}`)
			})

			Convey("And loading returns the same record", func() {
				got, ok := repo.Load(ctx, "macro", "net_liq")
				So(ok, ShouldBeTrue)
				So(got, ShouldResemble, rec)
			})
		})

		Convey("When a record is put verbatim", func() {
			So(repo.Put(ctx, "price", "rsi", model.Record{Value: 1, Weight: 2}), ShouldBeNil)

			Convey("Then a null timestamp is kept", func() {
				got, ok := repo.Load(ctx, "price", "rsi")
				So(ok, ShouldBeTrue)
				So(got.LastUpdated, ShouldBeNil)
				So(got.Value, ShouldEqual, 1.0)
			})
		})

		Convey("When the stored payload is corrupt", func() {
			for key, raw := range map[string]string{
				"indicator_a_garbage": "not json",
				"indicator_a_partial": `{"value":3}`,
				"indicator_a_types":   `{"value":"3","weight":1}`,
				"indicator_a_date":    `{"value":3,"weight":1,"lastUpdated":"soon"}`,
			} {
				So(store.Set(ctx, key, raw), ShouldBeNil)
			}

			Convey("Then every one loads as absent", func() {
				for _, id := range []string{"garbage", "partial", "types", "date"} {
					_, ok := repo.Load(ctx, "a", id)
					So(ok, ShouldBeFalse)
				}
			})
		})
	})

	Convey("Given a failing backend", t, func() {
		boom := errors.New("backend down")
		store := &failingStore{Store: memory.New(), getErr: boom, setErr: boom}
		repo := persistence.New(store)

		Convey("Save reports a write failure", func() {
			_, err := repo.Save(ctx, "macro", "net_liq", 1, 1)
			So(errors.Is(err, persistence.ErrWrite), ShouldBeTrue)
			So(store.Store.Len(), ShouldEqual, 0)
		})

		Convey("Load treats read failures as absent", func() {
			_, ok := repo.Load(ctx, "macro", "net_liq")
			So(ok, ShouldBeFalse)
		})
	})
}
