// Package inventory implements the item catalog and the stock recorder on top
// of the local store.
//
// Catalog covers create, read, update, delete and search of items. Recorder
// applies sales and restocks: each adjustment appends one ledger row and
// moves the item's quantity in a single storage transaction, then raises a
// low-stock alert when the new quantity is at or below the item's threshold.
//
// Errors fall into two groups. Validation errors (model.ErrValidation,
// model.ErrInsufficientStock, model.ErrInvalidDelta, model.ErrItemNotFound)
// are detected before anything is written. Everything else is wrapped with
// model.ErrStorage and is terminal for the call; nothing is retried.
package inventory
