package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/roach88/stockroom/internal/model"
)

// ItemStore is the storage surface used by Catalog.
// *store.Store satisfies it.
type ItemStore interface {
	InsertItem(ctx context.Context, item model.Item) error
	ReadItem(ctx context.Context, id string) (model.Item, error)
	ListItems(ctx context.Context) ([]model.Item, error)
	ListLowStock(ctx context.Context) ([]model.Item, error)
	ListDirty(ctx context.Context) ([]model.Item, error)
	UpdateItem(ctx context.Context, id string, fields model.ItemFields, at time.Time) (model.Item, error)
	DeleteItem(ctx context.Context, id string, at time.Time) error
}

// Catalog manages inventory items.
type Catalog struct {
	store ItemStore
	opts  options
}

// NewCatalog creates a Catalog backed by st.
func NewCatalog(st ItemStore, opts ...Option) *Catalog {
	return &Catalog{store: st, opts: newOptions(opts)}
}

// Create registers a new item with a fresh ID, marked dirty and stamped now.
func (c *Catalog) Create(ctx context.Context, fields model.ItemFields) (model.Item, error) {
	fields, err := validateFields(fields)
	if err != nil {
		return model.Item{}, err
	}

	item := model.Item{
		ID:          c.opts.ids.Generate(),
		Name:        fields.Name,
		Category:    fields.Category,
		Quantity:    fields.Quantity,
		Price:       fields.Price,
		Threshold:   fields.Threshold,
		Dirty:       true,
		LastUpdated: c.opts.clock.Now().UTC(),
	}

	if err := c.store.InsertItem(ctx, item); err != nil {
		c.opts.logger.ErrorContext(ctx, "add item failed", "name", item.Name, "error", err)
		return model.Item{}, storageError("create item", err)
	}

	c.opts.logger.InfoContext(ctx, "item added", "item_id", item.ID, "name", item.Name, "quantity", item.Quantity)
	return item, nil
}

// Get returns a live item. Returns model.ErrItemNotFound when absent or deleted.
func (c *Catalog) Get(ctx context.Context, id string) (model.Item, error) {
	item, err := c.store.ReadItem(ctx, id)
	if err != nil {
		return model.Item{}, storageError("get item", err)
	}
	return item, nil
}

// List returns all live items sorted by name.
func (c *Catalog) List(ctx context.Context) ([]model.Item, error) {
	items, err := c.store.ListItems(ctx)
	if err != nil {
		c.opts.logger.ErrorContext(ctx, "list items failed", "error", err)
		return nil, storageError("list items", err)
	}
	return items, nil
}

// Search returns live items whose name or category contains query,
// ignoring case. An empty query returns every item.
func (c *Catalog) Search(ctx context.Context, query string) ([]model.Item, error) {
	items, err := c.List(ctx)
	if err != nil {
		return nil, err
	}

	needle := foldText(query)
	if needle == "" {
		return items, nil
	}

	matches := []model.Item{}
	for _, item := range items {
		if strings.Contains(foldText(item.Name), needle) || strings.Contains(foldText(item.Category), needle) {
			matches = append(matches, item)
		}
	}
	return matches, nil
}

// LowStock returns live items at or below their threshold, emptiest first.
func (c *Catalog) LowStock(ctx context.Context) ([]model.Item, error) {
	items, err := c.store.ListLowStock(ctx)
	if err != nil {
		c.opts.logger.ErrorContext(ctx, "list low stock failed", "error", err)
		return nil, storageError("list low stock", err)
	}
	return items, nil
}

// Unsynced returns items whose dirty flag is still set, tombstones included.
// Nothing clears the flag yet; it marks rows for a future remote sync.
func (c *Catalog) Unsynced(ctx context.Context) ([]model.Item, error) {
	items, err := c.store.ListDirty(ctx)
	if err != nil {
		return nil, storageError("list unsynced", err)
	}
	return items, nil
}

// Update overwrites every mutable field of a live item.
// The quantity written here is a manual correction and records no transaction.
func (c *Catalog) Update(ctx context.Context, id string, fields model.ItemFields) (model.Item, error) {
	fields, err := validateFields(fields)
	if err != nil {
		return model.Item{}, err
	}

	item, err := c.store.UpdateItem(ctx, id, fields, c.opts.clock.Now().UTC())
	if err != nil {
		c.opts.logger.ErrorContext(ctx, "update item failed", "item_id", id, "error", err)
		return model.Item{}, storageError("update item", err)
	}

	c.opts.logger.InfoContext(ctx, "item updated", "item_id", id)
	return item, nil
}

// Delete removes a live item from listings. Its transactions are kept and
// remain queryable by item ID.
func (c *Catalog) Delete(ctx context.Context, id string) error {
	if err := c.store.DeleteItem(ctx, id, c.opts.clock.Now().UTC()); err != nil {
		c.opts.logger.ErrorContext(ctx, "delete item failed", "item_id", id, "error", err)
		return storageError("delete item", err)
	}
	c.opts.logger.InfoContext(ctx, "item deleted", "item_id", id)
	return nil
}
