package store

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/stockroom/internal/model"
)

func TestInsertItem_RoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := t.Context()

	item := createTestItem("item-1", "A4 Notebook", 20, 5.0, 5)
	require.NoError(t, s.InsertItem(ctx, item))

	got, err := s.ReadItem(ctx, "item-1")
	require.NoError(t, err)
	assert.Equal(t, item, got)
}

func TestInsertItem_EmptyCategoryStoredAsNull(t *testing.T) {
	s := createTestStore(t)
	ctx := t.Context()

	item := createTestItem("item-1", "Stapler", 3, 12.5, 1)
	item.Category = ""
	require.NoError(t, s.InsertItem(ctx, item))

	var isNull bool
	require.NoError(t, s.db.QueryRow(`SELECT category IS NULL FROM items WHERE id = ?`, "item-1").Scan(&isNull))
	assert.True(t, isNull)
}

func TestInsertItem_DuplicateID(t *testing.T) {
	s := createTestStore(t)
	ctx := t.Context()

	mustInsertItem(t, s, createTestItem("item-1", "A4 Notebook", 20, 5.0, 5))
	err := s.InsertItem(ctx, createTestItem("item-1", "Other", 1, 1.0, 0))
	require.Error(t, err)
	assert.True(t, IsConstraintViolation(err))
}

func TestInsertItem_CheckConstraints(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.Item)
	}{
		{"negative quantity", func(i *model.Item) { i.Quantity = -1 }},
		{"negative price", func(i *model.Item) { i.Price = -0.01 }},
		{"negative threshold", func(i *model.Item) { i.Threshold = -3 }},
		{"empty name", func(i *model.Item) { i.Name = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := createTestStore(t)
			item := createTestItem("item-1", "A4 Notebook", 20, 5.0, 5)
			tt.mutate(&item)

			err := s.InsertItem(t.Context(), item)
			require.Error(t, err)
			assert.True(t, IsConstraintViolation(err))
		})
	}
}

func TestUpdateItem_OverwritesFields(t *testing.T) {
	s := createTestStore(t)
	ctx := t.Context()

	item := createTestItem("item-1", "A4 Notebook", 20, 5.0, 5)
	item.Dirty = false
	mustInsertItem(t, s, item)

	later := testTime.Add(time.Hour)
	got, err := s.UpdateItem(ctx, "item-1", model.ItemFields{
		Name:      "A5 Notebook",
		Category:  "",
		Quantity:  7,
		Price:     3.25,
		Threshold: 2,
	}, later)
	require.NoError(t, err)

	assert.Equal(t, "A5 Notebook", got.Name)
	assert.Equal(t, "", got.Category)
	assert.Equal(t, 7, got.Quantity)
	assert.Equal(t, 3.25, got.Price)
	assert.Equal(t, 2, got.Threshold)
	assert.True(t, got.Dirty)
	assert.Equal(t, later, got.LastUpdated)
}

func TestUpdateItem_NotFound(t *testing.T) {
	s := createTestStore(t)

	_, err := s.UpdateItem(t.Context(), "missing", model.ItemFields{Name: "x"}, testTime)
	assert.ErrorIs(t, err, model.ErrItemNotFound)
}

func TestDeleteItem_TombstonesAndKeepsLedger(t *testing.T) {
	s := createTestStore(t)
	ctx := t.Context()

	mustInsertItem(t, s, createTestItem("item-1", "A4 Notebook", 20, 5.0, 5))
	_, _, err := s.ApplyAdjustment(ctx, "tx-1", model.Adjustment{ItemID: "item-1", Delta: -2}, testTime)
	require.NoError(t, err)

	require.NoError(t, s.DeleteItem(ctx, "item-1", testTime.Add(time.Minute)))

	_, err = s.ReadItem(ctx, "item-1")
	assert.ErrorIs(t, err, model.ErrItemNotFound)

	items, err := s.ListItems(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	history, err := s.ReadHistory(ctx, "item-1")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "tx-1", history[0].ID)
	assert.True(t, history[0].ItemDeleted)
	assert.Equal(t, "A4 Notebook", history[0].ItemName)
}

func TestDeleteItem_Twice(t *testing.T) {
	s := createTestStore(t)
	ctx := t.Context()

	mustInsertItem(t, s, createTestItem("item-1", "A4 Notebook", 20, 5.0, 5))
	require.NoError(t, s.DeleteItem(ctx, "item-1", testTime))

	err := s.DeleteItem(ctx, "item-1", testTime)
	assert.ErrorIs(t, err, model.ErrItemNotFound)
}

func TestHardDelete_RestrictedByLedger(t *testing.T) {
	s := createTestStore(t)
	ctx := t.Context()

	mustInsertItem(t, s, createTestItem("item-1", "A4 Notebook", 20, 5.0, 5))
	_, _, err := s.ApplyAdjustment(ctx, "tx-1", model.Adjustment{ItemID: "item-1", Delta: 4}, testTime)
	require.NoError(t, err)

	_, err = s.db.Exec(`DELETE FROM items WHERE id = ?`, "item-1")
	require.Error(t, err)
	assert.True(t, IsConstraintViolation(err))
}

func TestLedger_RejectsUnknownItem(t *testing.T) {
	s := createTestStore(t)

	_, err := s.db.Exec(`
		INSERT INTO transactions (id, item_id, delta, total_price, timestamp)
		VALUES ('tx-1', 'ghost', -1, 1.0, ?)
	`, formatTime(testTime))
	require.Error(t, err)
	assert.True(t, IsConstraintViolation(err))
}

func TestApplyAdjustment_Sale(t *testing.T) {
	s := createTestStore(t)
	ctx := t.Context()

	mustInsertItem(t, s, createTestItem("item-1", "A4 Notebook", 20, 5.0, 5))

	at := testTime.Add(time.Hour)
	item, entry, err := s.ApplyAdjustment(ctx, "tx-1", model.Adjustment{ItemID: "item-1", Delta: -18}, at)
	require.NoError(t, err)

	assert.Equal(t, 2, item.Quantity)
	assert.True(t, item.Dirty)
	assert.Equal(t, at, item.LastUpdated)

	assert.Equal(t, "tx-1", entry.ID)
	assert.Equal(t, -18, entry.Delta)
	assert.Equal(t, 90.0, entry.TotalPrice)
	assert.Equal(t, model.KindSale, entry.Kind())

	stored, err := s.ReadItem(ctx, "item-1")
	require.NoError(t, err)
	assert.Equal(t, item, stored)

	count, err := s.CountTransactions(ctx, "item-1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestApplyAdjustment_RestockWithUnitPrice(t *testing.T) {
	s := createTestStore(t)
	ctx := t.Context()

	mustInsertItem(t, s, createTestItem("item-1", "Gel Pen", 2, 1.5, 5))

	cost := 0.1
	item, entry, err := s.ApplyAdjustment(ctx, "tx-1", model.Adjustment{ItemID: "item-1", Delta: 3, UnitPrice: &cost}, testTime)
	require.NoError(t, err)

	assert.Equal(t, 5, item.Quantity)
	assert.Equal(t, 0.3, entry.TotalPrice)
	assert.Equal(t, model.KindRestock, entry.Kind())
}

func TestApplyAdjustment_InsufficientStock(t *testing.T) {
	s := createTestStore(t)
	ctx := t.Context()

	mustInsertItem(t, s, createTestItem("item-1", "A4 Notebook", 3, 5.0, 5))

	_, _, err := s.ApplyAdjustment(ctx, "tx-1", model.Adjustment{ItemID: "item-1", Delta: -4}, testTime)
	require.ErrorIs(t, err, model.ErrInsufficientStock)

	var stockErr *model.StockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, 3, stockErr.Available)
	assert.Equal(t, 4, stockErr.Requested)

	item, err := s.ReadItem(ctx, "item-1")
	require.NoError(t, err)
	assert.Equal(t, 3, item.Quantity)

	count, err := s.CountTransactions(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestApplyAdjustment_SellEntireStock(t *testing.T) {
	s := createTestStore(t)
	ctx := t.Context()

	mustInsertItem(t, s, createTestItem("item-1", "A4 Notebook", 3, 5.0, 0))

	item, _, err := s.ApplyAdjustment(ctx, "tx-1", model.Adjustment{ItemID: "item-1", Delta: -3}, testTime)
	require.NoError(t, err)
	assert.Equal(t, 0, item.Quantity)
}

func TestApplyAdjustment_ZeroDelta(t *testing.T) {
	s := createTestStore(t)
	mustInsertItem(t, s, createTestItem("item-1", "A4 Notebook", 3, 5.0, 5))

	_, _, err := s.ApplyAdjustment(t.Context(), "tx-1", model.Adjustment{ItemID: "item-1"}, testTime)
	assert.ErrorIs(t, err, model.ErrInvalidDelta)
}

func TestApplyAdjustment_DeletedItem(t *testing.T) {
	s := createTestStore(t)
	ctx := t.Context()

	mustInsertItem(t, s, createTestItem("item-1", "A4 Notebook", 3, 5.0, 5))
	require.NoError(t, s.DeleteItem(ctx, "item-1", testTime))

	_, _, err := s.ApplyAdjustment(ctx, "tx-1", model.Adjustment{ItemID: "item-1", Delta: 1}, testTime)
	assert.ErrorIs(t, err, model.ErrItemNotFound)
}

func TestApplyAdjustment_FailureBetweenStatementsRollsBack(t *testing.T) {
	s := createTestStore(t)
	ctx := t.Context()

	mustInsertItem(t, s, createTestItem("item-1", "A4 Notebook", 20, 5.0, 5))

	injected := errors.New("disk went away")
	s.beforeItemUpdate = func() error { return injected }

	_, _, err := s.ApplyAdjustment(ctx, "tx-1", model.Adjustment{ItemID: "item-1", Delta: -18}, testTime.Add(time.Hour))
	require.ErrorIs(t, err, injected)

	count, err := s.CountTransactions(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 0, count, "no orphan transaction")

	item, err := s.ReadItem(ctx, "item-1")
	require.NoError(t, err)
	assert.Equal(t, 20, item.Quantity, "no stale quantity")
	assert.Equal(t, testTime, item.LastUpdated)

	// The store stays usable after the rollback.
	s.beforeItemUpdate = nil
	item, _, err = s.ApplyAdjustment(ctx, "tx-1", model.Adjustment{ItemID: "item-1", Delta: -18}, testTime.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 2, item.Quantity)
}

func TestApplyAdjustment_DuplicateTransactionID(t *testing.T) {
	s := createTestStore(t)
	ctx := t.Context()

	mustInsertItem(t, s, createTestItem("item-1", "A4 Notebook", 20, 5.0, 5))
	_, _, err := s.ApplyAdjustment(ctx, "tx-1", model.Adjustment{ItemID: "item-1", Delta: -1}, testTime)
	require.NoError(t, err)

	_, _, err = s.ApplyAdjustment(ctx, "tx-1", model.Adjustment{ItemID: "item-1", Delta: -1}, testTime)
	require.Error(t, err)
	assert.True(t, IsConstraintViolation(err))

	item, err := s.ReadItem(ctx, "item-1")
	require.NoError(t, err)
	assert.Equal(t, 19, item.Quantity)
}
