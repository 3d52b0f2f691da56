package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/stockroom/internal/model"
)

// NewInitCommand creates the init command.
func NewInitCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create or upgrade the inventory database",
		Long: `Create the inventory database if it does not exist and bring its schema
up to date. Safe to run repeatedly; every other command does the same on
startup.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(a *app, f *OutputFormatter) error {
				version, err := a.store.SchemaVersion(cmd.Context())
				if err != nil {
					return fmt.Errorf("%w: %w", model.ErrStorage, err)
				}
				data := map[string]any{"database": a.dbPath, "schema_version": version}
				return f.Success(data, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "Database ready: %s (schema v%d)\n", a.dbPath, version)
					return err
				})
			})
		},
	}
}

// AddOptions holds flags for the add command.
type AddOptions struct {
	*RootOptions
	Category  string
	Quantity  int
	Price     float64
	Threshold int
}

// NewAddCommand creates the add command.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AddOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Register a new item",
		Long: `Register a new item. Name, quantity and price are required; the
threshold defaults to default_threshold from the config file.

Example:
  stockroom add "A4 Notebook" --category Paper --quantity 20 --price 5 --threshold 5`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(a *app, f *OutputFormatter) error {
				threshold := a.cfg.DefaultThreshold
				if cmd.Flags().Changed("threshold") {
					threshold = opts.Threshold
				}

				item, err := a.catalog.Create(cmd.Context(), model.ItemFields{
					Name:      args[0],
					Category:  opts.Category,
					Quantity:  opts.Quantity,
					Price:     opts.Price,
					Threshold: threshold,
				})
				if err != nil {
					return err
				}

				return f.Success(item, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "Added %s (%s)\n", item.Name, item.ID)
					return err
				})
			})
		},
	}

	cmd.Flags().StringVarP(&opts.Category, "category", "c", "", "item category")
	cmd.Flags().IntVarP(&opts.Quantity, "quantity", "q", 0, "units in stock (required)")
	cmd.Flags().Float64VarP(&opts.Price, "price", "p", 0, "unit price (required)")
	cmd.Flags().IntVarP(&opts.Threshold, "threshold", "t", 0, "low-stock alert level")
	_ = cmd.MarkFlagRequired("quantity")
	_ = cmd.MarkFlagRequired("price")

	return cmd
}

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	Search string
	Low    bool
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List items sorted by name",
		Long: `List items sorted by name. --search keeps items whose name or category
contains the text, ignoring case. --low keeps items at or below their
threshold.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(a *app, f *OutputFormatter) error {
				items, err := a.catalog.Search(cmd.Context(), opts.Search)
				if err != nil {
					return err
				}
				if opts.Low {
					low := []model.Item{}
					for _, item := range items {
						if item.IsLowStock() {
							low = append(low, item)
						}
					}
					items = low
				}
				return f.Success(items, f.renderItems(items, "No items found."))
			})
		},
	}

	cmd.Flags().StringVarP(&opts.Search, "search", "s", "", "filter by name or category")
	cmd.Flags().BoolVar(&opts.Low, "low", false, "only items at or below threshold")

	return cmd
}

// NewLowCommand creates the low command.
func NewLowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "low",
		Short:         "List items at or below their low-stock threshold",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(a *app, f *OutputFormatter) error {
				items, err := a.catalog.LowStock(cmd.Context())
				if err != nil {
					return err
				}
				return f.Success(items, f.renderItems(items, "Nothing is running low."))
			})
		},
	}
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "show <item-id>",
		Short:         "Show one item",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(a *app, f *OutputFormatter) error {
				item, err := a.catalog.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return f.Success(item, f.renderItem(item))
			})
		},
	}
}

// EditOptions holds flags for the edit command.
type EditOptions struct {
	*RootOptions
	Name      string
	Category  string
	Quantity  int
	Price     float64
	Threshold int
}

// NewEditCommand creates the edit command.
func NewEditCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EditOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "edit <item-id>",
		Short: "Change an item's details",
		Long: `Change an item's details. Only the flags given are changed.

Setting --quantity here is a stock correction: it is not recorded in the
transaction history. Use sell and restock for stock movements.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if !flags.Changed("name") && !flags.Changed("category") && !flags.Changed("quantity") &&
				!flags.Changed("price") && !flags.Changed("threshold") {
				return newFormatter(rootOpts, cmd).Fail(model.NewValidationError("flags", "nothing to change"))
			}

			return withApp(rootOpts, cmd, func(a *app, f *OutputFormatter) error {
				current, err := a.catalog.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}

				fields := model.ItemFields{
					Name:      current.Name,
					Category:  current.Category,
					Quantity:  current.Quantity,
					Price:     current.Price,
					Threshold: current.Threshold,
				}
				if flags.Changed("name") {
					fields.Name = opts.Name
				}
				if flags.Changed("category") {
					fields.Category = opts.Category
				}
				if flags.Changed("quantity") {
					fields.Quantity = opts.Quantity
				}
				if flags.Changed("price") {
					fields.Price = opts.Price
				}
				if flags.Changed("threshold") {
					fields.Threshold = opts.Threshold
				}

				item, err := a.catalog.Update(cmd.Context(), current.ID, fields)
				if err != nil {
					return err
				}
				return f.Success(item, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "Updated %s (%s)\n", item.Name, item.ID)
					return err
				})
			})
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "new name")
	cmd.Flags().StringVarP(&opts.Category, "category", "c", "", "new category (empty clears it)")
	cmd.Flags().IntVarP(&opts.Quantity, "quantity", "q", 0, "corrected units in stock")
	cmd.Flags().Float64VarP(&opts.Price, "price", "p", 0, "new unit price")
	cmd.Flags().IntVarP(&opts.Threshold, "threshold", "t", 0, "new low-stock alert level")

	return cmd
}

// DeleteOptions holds flags for the delete command.
type DeleteOptions struct {
	*RootOptions
	Yes bool
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DeleteOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:     "delete <item-id>",
		Aliases: []string{"rm"},
		Short:   "Remove an item",
		Long: `Remove an item from listings. Its transactions stay in the history.
Asks for confirmation unless --yes is given.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(a *app, f *OutputFormatter) error {
				item, err := a.catalog.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}

				if !opts.Yes {
					fmt.Fprintf(cmd.ErrOrStderr(), "Delete %s? This cannot be undone. [y/N] ", item.Name)
					if !confirmed(cmd.InOrStdin()) {
						return f.Success(map[string]any{"deleted": false, "id": item.ID}, func(w io.Writer) error {
							_, err := fmt.Fprintln(w, "Cancelled.")
							return err
						})
					}
				}

				if err := a.catalog.Delete(cmd.Context(), item.ID); err != nil {
					return err
				}
				return f.Success(map[string]any{"deleted": true, "id": item.ID}, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "Deleted %s (%s)\n", item.Name, item.ID)
					return err
				})
			})
		},
	}

	cmd.Flags().BoolVarP(&opts.Yes, "yes", "y", false, "skip confirmation")

	return cmd
}

func confirmed(r io.Reader) bool {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

// NewStatusCommand creates the status command.
func NewStatusCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Summarize the inventory",
		Long: `Summarize the inventory: item count, low-stock count, ledger size and
the number of items with changes not yet synced.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(a *app, f *OutputFormatter) error {
				ctx := cmd.Context()

				items, err := a.catalog.List(ctx)
				if err != nil {
					return err
				}
				low, err := a.catalog.LowStock(ctx)
				if err != nil {
					return err
				}
				unsynced, err := a.catalog.Unsynced(ctx)
				if err != nil {
					return err
				}
				transactions, err := a.store.CountTransactions(ctx, "")
				if err != nil {
					return fmt.Errorf("%w: %w", model.ErrStorage, err)
				}

				var value float64
				for _, item := range items {
					value += float64(item.Quantity) * item.Price
				}

				data := map[string]any{
					"database":     a.dbPath,
					"items":        len(items),
					"low_stock":    len(low),
					"transactions": transactions,
					"unsynced":     len(unsynced),
					"stock_value":  value,
				}
				return f.Success(data, func(w io.Writer) error {
					tw := newTable(w)
					fmt.Fprintf(tw, "Database:\t%s\n", a.dbPath)
					fmt.Fprintf(tw, "Items:\t%d (%d low)\n", len(items), len(low))
					fmt.Fprintf(tw, "Stock value:\t%s\n", f.Money(value))
					fmt.Fprintf(tw, "Transactions:\t%d\n", transactions)
					fmt.Fprintf(tw, "Unsynced:\t%d\n", len(unsynced))
					return tw.Flush()
				})
			})
		},
	}
}
