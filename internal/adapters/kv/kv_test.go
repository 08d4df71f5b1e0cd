package kv_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/okian/riskgauge/internal/adapters/kv"
)

// testStore runs the contract every backend must satisfy.
func testStore(t *testing.T, s kv.Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("missing key is absent without error", func(t *testing.T) {
		_, found, err := s.Get(ctx, "indicator_nope_nope")
		gt.NoError(t, err).Required()
		gt.Bool(t, found).False()
	})

	t.Run("set then get returns the value", func(t *testing.T) {
		gt.NoError(t, s.Set(ctx, "indicator_macro_net_liq", `{"value":61.69}`)).Required()
		v, found, err := s.Get(ctx, "indicator_macro_net_liq")
		gt.NoError(t, err).Required()
		gt.Bool(t, found).True()
		gt.Value(t, v).Equal(`{"value":61.69}`)
	})

	t.Run("set overwrites", func(t *testing.T) {
		gt.NoError(t, s.Set(ctx, "indicator_price_rsi", "a")).Required()
		gt.NoError(t, s.Set(ctx, "indicator_price_rsi", "b")).Required()
		v, _, err := s.Get(ctx, "indicator_price_rsi")
		gt.NoError(t, err).Required()
		gt.Value(t, v).Equal("b")
	})
}

func TestMemory(t *testing.T) {
	s, err := kv.Open(context.Background(), kv.Options{Backend: kv.BackendMemory})
	gt.NoError(t, err).Required()
	defer s.Close()
	testStore(t, s)
}

func TestBolt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "riskgauge.db")
	s, err := kv.Open(context.Background(), kv.Options{Backend: kv.BackendBolt, BoltPath: path})
	gt.NoError(t, err).Required()
	testStore(t, s)
	gt.NoError(t, s.Close())

	t.Run("values survive reopening", func(t *testing.T) {
		s, err := kv.Open(context.Background(), kv.Options{Backend: kv.BackendBolt, BoltPath: path})
		gt.NoError(t, err).Required()
		defer s.Close()
		v, found, err := s.Get(context.Background(), "indicator_price_rsi")
		gt.NoError(t, err).Required()
		gt.Bool(t, found).True()
		gt.Value(t, v).Equal("b")
	})
}

func TestBadger(t *testing.T) {
	dir := t.TempDir()
	s, err := kv.Open(context.Background(), kv.Options{Backend: kv.BackendBadger, BadgerPath: dir})
	gt.NoError(t, err).Required()
	defer s.Close()
	testStore(t, s)
}

func TestBadgerInMemory(t *testing.T) {
	s, err := kv.Open(context.Background(), kv.Options{Backend: kv.BackendBadger})
	gt.NoError(t, err).Required()
	defer s.Close()
	testStore(t, s)
}

func TestFirestore(t *testing.T) {
	projectID := os.Getenv("TEST_FIRESTORE_PROJECT_ID")
	if projectID == "" {
		t.Skip("TEST_FIRESTORE_PROJECT_ID is not set")
	}
	s, err := kv.Open(context.Background(), kv.Options{
		Backend:             kv.BackendFirestore,
		FirestoreProjectID:  projectID,
		FirestoreDatabaseID: os.Getenv("TEST_FIRESTORE_DATABASE_ID"),
		FirestoreCollection: "riskgauge_test",
	})
	gt.NoError(t, err).Required()
	defer s.Close()
	testStore(t, s)
}

func TestNATS(t *testing.T) {
	url := os.Getenv("TEST_NATS_URL")
	if url == "" {
		t.Skip("TEST_NATS_URL is not set")
	}
	s, err := kv.Open(context.Background(), kv.Options{Backend: kv.BackendNATS, NATSURL: url, NATSBucket: "riskgauge_test"})
	gt.NoError(t, err).Required()
	defer s.Close()
	testStore(t, s)
}

func TestOpenErrors(t *testing.T) {
	ctx := context.Background()

	_, err := kv.Open(ctx, kv.Options{Backend: "redis"})
	gt.Error(t, err).Is(kv.ErrUnknownBackend)

	_, err = kv.Open(ctx, kv.Options{Backend: kv.BackendBolt})
	gt.Error(t, err)

	_, err = kv.Open(ctx, kv.Options{Backend: kv.BackendFirestore})
	gt.Error(t, err)

	_, err = kv.Open(ctx, kv.Options{Backend: kv.BackendNATS})
	gt.Error(t, err)
}
