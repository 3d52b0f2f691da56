package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/roach88/stockroom/internal/model"
)

// InsertItem inserts a new item row.
// The caller supplies the ID and timestamp; Dirty is stored as given.
func (s *Store) InsertItem(ctx context.Context, item model.Item) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO items
		(id, name, category, quantity, price, threshold, dirty, last_updated)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		item.ID,
		item.Name,
		nullableString(item.Category),
		item.Quantity,
		item.Price,
		item.Threshold,
		boolToInt(item.Dirty),
		formatTime(item.LastUpdated),
	)
	if err != nil {
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

// UpdateItem overwrites the mutable fields of a live item, marks it dirty and
// stamps it with at. Returns model.ErrItemNotFound if no live row matches.
func (s *Store) UpdateItem(ctx context.Context, id string, fields model.ItemFields, at time.Time) (model.Item, error) {
	result, err := s.db.ExecContext(ctx, `
		UPDATE items
		SET name = ?, category = ?, quantity = ?, price = ?, threshold = ?, dirty = 1, last_updated = ?
		WHERE id = ? AND deleted_at IS NULL
	`,
		fields.Name,
		nullableString(fields.Category),
		fields.Quantity,
		fields.Price,
		fields.Threshold,
		formatTime(at),
		id,
	)
	if err != nil {
		return model.Item{}, fmt.Errorf("update item: %w", err)
	}
	if err := expectOneRow(result, id); err != nil {
		return model.Item{}, fmt.Errorf("update item: %w", err)
	}

	return s.ReadItem(ctx, id)
}

// DeleteItem tombstones a live item. Its transactions are left in place.
// Returns model.ErrItemNotFound if no live row matches.
func (s *Store) DeleteItem(ctx context.Context, id string, at time.Time) error {
	stamp := formatTime(at)
	result, err := s.db.ExecContext(ctx, `
		UPDATE items
		SET deleted_at = ?, dirty = 1, last_updated = ?
		WHERE id = ? AND deleted_at IS NULL
	`, stamp, stamp, id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if err := expectOneRow(result, id); err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}

// ApplyAdjustment appends a ledger row and updates the item's quantity in a
// single transaction. Either both writes persist or neither does.
//
// The current quantity is read inside the transaction; a negative result is
// rejected with a *model.StockError before anything is written. The total
// price is |Delta| times adj.UnitPrice, or the item's price when nil.
func (s *Store) ApplyAdjustment(
	ctx context.Context,
	txID string,
	adj model.Adjustment,
	at time.Time,
) (model.Item, model.Transaction, error) {
	if adj.Delta == 0 {
		return model.Item{}, model.Transaction{}, model.ErrInvalidDelta
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Item{}, model.Transaction{}, fmt.Errorf("apply adjustment: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	item, err := scanItem(tx.QueryRowContext(ctx, `
		SELECT `+itemColumns+`
		FROM items
		WHERE id = ? AND deleted_at IS NULL
	`, adj.ItemID))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Item{}, model.Transaction{}, fmt.Errorf("apply adjustment: %w: %s", model.ErrItemNotFound, adj.ItemID)
	}
	if err != nil {
		return model.Item{}, model.Transaction{}, fmt.Errorf("apply adjustment: read item: %w", err)
	}

	newQty := item.Quantity + adj.Delta
	if newQty < 0 {
		return model.Item{}, model.Transaction{}, &model.StockError{
			ItemID:    item.ID,
			Available: item.Quantity,
			Requested: -adj.Delta,
		}
	}

	unitPrice := item.Price
	if adj.UnitPrice != nil {
		unitPrice = *adj.UnitPrice
	}

	entry := model.Transaction{
		ID:         txID,
		ItemID:     item.ID,
		Delta:      adj.Delta,
		TotalPrice: roundCents(float64(absInt(adj.Delta)) * unitPrice),
		Timestamp:  at.UTC(),
	}

	// Step 1: append the ledger row
	_, err = tx.ExecContext(ctx, `
		INSERT INTO transactions
		(id, item_id, delta, total_price, timestamp)
		VALUES (?, ?, ?, ?, ?)
	`,
		entry.ID,
		entry.ItemID,
		entry.Delta,
		entry.TotalPrice,
		formatTime(entry.Timestamp),
	)
	if err != nil {
		return model.Item{}, model.Transaction{}, fmt.Errorf("apply adjustment: insert transaction: %w", err)
	}

	if s.beforeItemUpdate != nil {
		if err := s.beforeItemUpdate(); err != nil {
			return model.Item{}, model.Transaction{}, fmt.Errorf("apply adjustment: %w", err)
		}
	}

	// Step 2: move the stock level and mark the item for sync
	result, err := tx.ExecContext(ctx, `
		UPDATE items
		SET quantity = ?, dirty = 1, last_updated = ?
		WHERE id = ? AND deleted_at IS NULL
	`, newQty, formatTime(at), item.ID)
	if err != nil {
		return model.Item{}, model.Transaction{}, fmt.Errorf("apply adjustment: update item: %w", err)
	}
	if err := expectOneRow(result, item.ID); err != nil {
		return model.Item{}, model.Transaction{}, fmt.Errorf("apply adjustment: update item: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return model.Item{}, model.Transaction{}, fmt.Errorf("apply adjustment: commit: %w", err)
	}

	item.Quantity = newQty
	item.Dirty = true
	item.LastUpdated = at.UTC()
	return item, entry, nil
}

// IsConstraintViolation reports whether err came from a CHECK, NOT NULL,
// UNIQUE or foreign key constraint.
func IsConstraintViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrConstraint
	}
	return false
}

func expectOneRow(result sql.Result, id string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", model.ErrItemNotFound, id)
	}
	return nil
}

func nullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// roundCents keeps ledger totals free of binary float noise (3 * 0.1).
func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
