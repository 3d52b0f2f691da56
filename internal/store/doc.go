// Package store provides SQLite-backed storage for the stockroom inventory.
//
// The database holds two tables:
//   - items: one row per stock-keeping unit, tombstoned on delete
//   - transactions: append-only ledger of stock changes
//
// # Integrity
//
//   - CHECK (quantity >= 0) backs the insufficient-stock check in ApplyAdjustment
//   - transactions.item_id references items(id) with ON DELETE RESTRICT, so a
//     delete is always a tombstone and the ledger never dangles
//   - a ledger insert and its quantity update share one SQLite transaction
//
// # Database Configuration
//
//   - WAL mode: reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON: enforce referential integrity
//
// Timestamps are stored as RFC 3339 text in UTC with nanosecond precision.
package store
