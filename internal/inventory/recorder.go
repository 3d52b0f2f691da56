package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/roach88/stockroom/internal/model"
	"github.com/roach88/stockroom/internal/notify"
)

// LowStockTitle is the title of every low-stock alert.
const LowStockTitle = "Low Stock Alert!"

// LedgerStore is the storage surface used by Recorder.
// *store.Store satisfies it.
type LedgerStore interface {
	ApplyAdjustment(ctx context.Context, txID string, adj model.Adjustment, at time.Time) (model.Item, model.Transaction, error)
	ReadHistory(ctx context.Context, itemID string) ([]model.HistoryEntry, error)
}

// Recorder applies stock adjustments and keeps the ledger.
type Recorder struct {
	store LedgerStore
	opts  options
}

// NewRecorder creates a Recorder backed by st.
func NewRecorder(st LedgerStore, opts ...Option) *Recorder {
	return &Recorder{store: st, opts: newOptions(opts)}
}

// Receipt is the outcome of a recorded adjustment.
type Receipt struct {
	Item        model.Item        `json:"item"`
	Transaction model.Transaction `json:"transaction"`
	LowStock    bool              `json:"low_stock"`
}

// Sell records the sale of qty units. unitPrice nil uses the item's price.
func (r *Recorder) Sell(ctx context.Context, itemID string, qty int, unitPrice *float64) (Receipt, error) {
	if qty <= 0 {
		return Receipt{}, model.NewValidationError("quantity", "must be positive, got %d", qty)
	}
	return r.Adjust(ctx, model.Adjustment{ItemID: itemID, Delta: -qty, UnitPrice: unitPrice})
}

// Restock records the arrival of qty units. unitPrice nil uses the item's price.
func (r *Recorder) Restock(ctx context.Context, itemID string, qty int, unitPrice *float64) (Receipt, error) {
	if qty <= 0 {
		return Receipt{}, model.NewValidationError("quantity", "must be positive, got %d", qty)
	}
	return r.Adjust(ctx, model.Adjustment{ItemID: itemID, Delta: qty, UnitPrice: unitPrice})
}

// Adjust applies a signed stock change. Delta is units added to stock.
//
// The ledger row and the quantity update commit together or not at all.
// A sale larger than the current stock fails with model.ErrInsufficientStock
// and writes nothing. Once committed, a quantity at or below the threshold
// raises exactly one alert; a failed alert is logged and does not fail the
// adjustment.
func (r *Recorder) Adjust(ctx context.Context, adj model.Adjustment) (Receipt, error) {
	if adj.Delta == 0 {
		return Receipt{}, model.ErrInvalidDelta
	}
	if adj.UnitPrice != nil {
		if err := validatePrice("unit price", *adj.UnitPrice); err != nil {
			return Receipt{}, err
		}
	}

	txID := r.opts.ids.Generate()
	item, entry, err := r.store.ApplyAdjustment(ctx, txID, adj, r.opts.clock.Now().UTC())
	if err != nil {
		r.opts.logger.ErrorContext(ctx, "stock adjustment failed",
			"item_id", adj.ItemID,
			"delta", adj.Delta,
			"error", err,
		)
		return Receipt{}, storageError("record adjustment", err)
	}

	r.opts.logger.InfoContext(ctx, "stock adjusted",
		"item_id", item.ID,
		"transaction_id", entry.ID,
		"kind", entry.Kind(),
		"delta", entry.Delta,
		"quantity", item.Quantity,
	)

	receipt := Receipt{Item: item, Transaction: entry, LowStock: item.IsLowStock()}
	if receipt.LowStock {
		if err := r.opts.notifier.Notify(ctx, LowStockMessage(item)); err != nil {
			r.opts.logger.WarnContext(ctx, "low stock notification failed", "item_id", item.ID, "error", err)
		}
	}
	return receipt, nil
}

// History returns ledger entries newest first. An empty itemID returns
// the whole ledger; entries of deleted items are included.
func (r *Recorder) History(ctx context.Context, itemID string) ([]model.HistoryEntry, error) {
	entries, err := r.store.ReadHistory(ctx, itemID)
	if err != nil {
		r.opts.logger.ErrorContext(ctx, "load history failed", "item_id", itemID, "error", err)
		return nil, storageError("load history", err)
	}
	return entries, nil
}

// LowStockMessage builds the alert for an item that has run low.
func LowStockMessage(item model.Item) notify.Message {
	return notify.Message{
		Title: LowStockTitle,
		Body:  fmt.Sprintf("%s is down to %d units. Time to restock!", item.Name, item.Quantity),
	}
}
