package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/stockroom/internal/model"
)

const itemColumns = `id, name, category, quantity, price, threshold, dirty, last_updated, deleted_at`

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// ReadItem retrieves a live item by ID.
// Returns model.ErrItemNotFound if the item is missing or tombstoned.
func (s *Store) ReadItem(ctx context.Context, id string) (model.Item, error) {
	item, err := scanItem(s.db.QueryRowContext(ctx, `
		SELECT `+itemColumns+`
		FROM items
		WHERE id = ? AND deleted_at IS NULL
	`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Item{}, fmt.Errorf("read item: %w: %s", model.ErrItemNotFound, id)
	}
	if err != nil {
		return model.Item{}, fmt.Errorf("read item: %w", err)
	}
	return item, nil
}

// ListItems returns all live items ordered by name, then ID.
// Returns an empty slice (not nil) if there are none.
func (s *Store) ListItems(ctx context.Context) ([]model.Item, error) {
	return s.queryItems(ctx, `
		SELECT `+itemColumns+`
		FROM items
		WHERE deleted_at IS NULL
		ORDER BY name COLLATE NOCASE ASC, id ASC
	`)
}

// ListLowStock returns live items whose quantity is at or below threshold.
func (s *Store) ListLowStock(ctx context.Context) ([]model.Item, error) {
	return s.queryItems(ctx, `
		SELECT `+itemColumns+`
		FROM items
		WHERE deleted_at IS NULL AND quantity <= threshold
		ORDER BY quantity ASC, name COLLATE NOCASE ASC, id ASC
	`)
}

// ListDirty returns every item, live or tombstoned, still flagged for sync.
func (s *Store) ListDirty(ctx context.Context) ([]model.Item, error) {
	return s.queryItems(ctx, `
		SELECT `+itemColumns+`
		FROM items
		WHERE dirty = 1
		ORDER BY last_updated ASC, id ASC
	`)
}

func (s *Store) queryItems(ctx context.Context, query string, args ...any) ([]model.Item, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	items := []model.Item{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}
	return items, nil
}

// ReadHistory returns ledger entries joined with their item names, newest
// first. An empty itemID returns the whole ledger. Entries of tombstoned
// items are included.
func (s *Store) ReadHistory(ctx context.Context, itemID string) ([]model.HistoryEntry, error) {
	query := `
		SELECT t.id, t.item_id, t.delta, t.total_price, t.timestamp, i.name, i.deleted_at IS NOT NULL
		FROM transactions t
		JOIN items i ON t.item_id = i.id
	`
	var args []any
	if itemID != "" {
		query += ` WHERE t.item_id = ?`
		args = append(args, itemID)
	}
	query += ` ORDER BY t.timestamp DESC, t.id DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	entries := []model.HistoryEntry{}
	for rows.Next() {
		var (
			entry     model.HistoryEntry
			timestamp string
		)
		if err := rows.Scan(
			&entry.ID,
			&entry.ItemID,
			&entry.Delta,
			&entry.TotalPrice,
			&timestamp,
			&entry.ItemName,
			&entry.ItemDeleted,
		); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		if entry.Timestamp, err = parseTime(timestamp); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		entry.Kind = entry.Transaction.Kind()
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}
	return entries, nil
}

// CountTransactions returns the number of ledger rows, optionally for one item.
func (s *Store) CountTransactions(ctx context.Context, itemID string) (int, error) {
	query := `SELECT COUNT(*) FROM transactions`
	var args []any
	if itemID != "" {
		query += ` WHERE item_id = ?`
		args = append(args, itemID)
	}

	var count int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count transactions: %w", err)
	}
	return count, nil
}

func scanItem(row rowScanner) (model.Item, error) {
	var (
		item        model.Item
		category    sql.NullString
		dirty       int
		lastUpdated string
		deletedAt   sql.NullString
	)
	if err := row.Scan(
		&item.ID,
		&item.Name,
		&category,
		&item.Quantity,
		&item.Price,
		&item.Threshold,
		&dirty,
		&lastUpdated,
		&deletedAt,
	); err != nil {
		return model.Item{}, err
	}

	item.Category = category.String
	item.Dirty = dirty != 0

	var err error
	if item.LastUpdated, err = parseTime(lastUpdated); err != nil {
		return model.Item{}, err
	}
	if deletedAt.Valid {
		t, err := parseTime(deletedAt.String)
		if err != nil {
			return model.Item{}, err
		}
		item.DeletedAt = &t
	}
	return item, nil
}
