package inventory

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/roach88/stockroom/internal/model"
	"github.com/roach88/stockroom/internal/store"
	"github.com/roach88/stockroom/internal/testutil"
)

var testStart = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

type fixture struct {
	store    *store.Store
	catalog  *Catalog
	recorder *Recorder
	notifier *testutil.RecordingNotifier
	clock    *testutil.DeterministicClock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	st, err := store.Open(filepath.Join(t.TempDir(), "inventory.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	clock := testutil.NewDeterministicClock(testStart, time.Minute)
	notifier := &testutil.RecordingNotifier{}

	return &fixture{
		store: st,
		catalog: NewCatalog(st,
			WithClock(clock),
			WithIDGenerator(testutil.NewSequenceIDs("item")),
		),
		recorder: NewRecorder(st,
			WithClock(clock),
			WithIDGenerator(testutil.NewSequenceIDs("tx")),
			WithNotifier(notifier),
		),
		notifier: notifier,
		clock:    clock,
	}
}

func (f *fixture) mustCreate(t *testing.T, fields model.ItemFields) model.Item {
	t.Helper()
	item, err := f.catalog.Create(t.Context(), fields)
	require.NoError(t, err)
	return item
}

func notebook() model.ItemFields {
	return model.ItemFields{Name: "A4 Notebook", Category: "Paper", Quantity: 20, Price: 5.00, Threshold: 5}
}

func ptr[T any](v T) *T { return &v }
