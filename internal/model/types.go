// Package model defines the inventory records shared by the store, the
// inventory services and the CLI.
//
// Sign convention: a Transaction's Delta is always the number of units added
// to stock. Sales are negative, restocks are positive, zero is never stored.
package model

import "time"

// Item is a tracked stock-keeping unit.
type Item struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Category    string     `json:"category,omitempty"`
	Quantity    int        `json:"quantity"`
	Price       float64    `json:"price"`
	Threshold   int        `json:"threshold"`
	Dirty       bool       `json:"dirty"`
	LastUpdated time.Time  `json:"last_updated"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
}

// IsLowStock reports whether the quantity is at or below the alert threshold.
func (i Item) IsLowStock() bool {
	return i.Quantity <= i.Threshold
}

// Deleted reports whether the item has been tombstoned.
func (i Item) Deleted() bool {
	return i.DeletedAt != nil
}

// Kind classifies a ledger entry.
type Kind string

const (
	KindSale    Kind = "sale"
	KindRestock Kind = "restock"
)

// Transaction is an immutable ledger entry.
type Transaction struct {
	ID         string    `json:"id"`
	ItemID     string    `json:"item_id"`
	Delta      int       `json:"delta"`
	TotalPrice float64   `json:"total_price"`
	Timestamp  time.Time `json:"timestamp"`
}

// Kind derives sale or restock from the sign of Delta.
func (t Transaction) Kind() Kind {
	if t.Delta < 0 {
		return KindSale
	}
	return KindRestock
}

// Units returns the magnitude of the stock change.
func (t Transaction) Units() int {
	if t.Delta < 0 {
		return -t.Delta
	}
	return t.Delta
}

// HistoryEntry is a transaction joined with the name of its item.
// ItemDeleted is set when the item has since been tombstoned.
type HistoryEntry struct {
	Transaction
	Kind        Kind   `json:"kind"`
	ItemName    string `json:"item_name"`
	ItemDeleted bool   `json:"item_deleted,omitempty"`
}

// Adjustment is a requested stock change.
//
// UnitPrice nil means the item's current price is used for the total.
type Adjustment struct {
	ItemID    string
	Delta     int
	UnitPrice *float64
}

// ItemFields is the mutable field set of an item, used by create and update.
type ItemFields struct {
	Name      string  `json:"name"`
	Category  string  `json:"category,omitempty"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	Threshold int     `json:"threshold"`
}
