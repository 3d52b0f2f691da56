package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/stockroom/internal/inventory"
	"github.com/roach88/stockroom/internal/model"
)

// StockOptions holds flags for the sell and restock commands.
type StockOptions struct {
	*RootOptions
	Price float64
}

type adjustFunc func(r *inventory.Recorder, cmd *cobra.Command, itemID string, qty int, unitPrice *float64) (inventory.Receipt, error)

// NewSellCommand creates the sell command.
func NewSellCommand(rootOpts *RootOptions) *cobra.Command {
	return newStockCommand(rootOpts, &cobra.Command{
		Use:   "sell <item-id> <quantity>",
		Short: "Record a sale",
		Long: `Record a sale: stock goes down by quantity and a ledger entry is added,
together or not at all. A sale larger than the stock on hand is rejected.

Example:
  stockroom sell 0195c2a4-... 3
  stockroom sell 0195c2a4-... 3 --price 4.50`,
	}, func(r *inventory.Recorder, cmd *cobra.Command, itemID string, qty int, unitPrice *float64) (inventory.Receipt, error) {
		return r.Sell(cmd.Context(), itemID, qty, unitPrice)
	})
}

// NewRestockCommand creates the restock command.
func NewRestockCommand(rootOpts *RootOptions) *cobra.Command {
	return newStockCommand(rootOpts, &cobra.Command{
		Use:   "restock <item-id> <quantity>",
		Short: "Record a restock",
		Long: `Record a restock: stock goes up by quantity and a ledger entry is added,
together or not at all. --price records the unit cost paid; it defaults to
the item's price.`,
	}, func(r *inventory.Recorder, cmd *cobra.Command, itemID string, qty int, unitPrice *float64) (inventory.Receipt, error) {
		return r.Restock(cmd.Context(), itemID, qty, unitPrice)
	})
}

func newStockCommand(rootOpts *RootOptions, cmd *cobra.Command, adjust adjustFunc) *cobra.Command {
	opts := &StockOptions{RootOptions: rootOpts}

	cmd.Args = cobra.ExactArgs(2)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		qty, err := strconv.Atoi(args[1])
		if err != nil {
			return newFormatter(rootOpts, cmd).Fail(model.NewValidationError("quantity", "%q is not a whole number", args[1]))
		}

		var unitPrice *float64
		if cmd.Flags().Changed("price") {
			unitPrice = &opts.Price
		}

		return withApp(rootOpts, cmd, func(a *app, f *OutputFormatter) error {
			receipt, err := adjust(a.recorder, cmd, args[0], qty, unitPrice)
			if err != nil {
				return err
			}
			return f.Success(receipt, f.renderReceipt(receipt))
		})
	}

	cmd.Flags().Float64VarP(&opts.Price, "price", "p", 0, "unit price for this transaction (default: item price)")

	return cmd
}

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	ItemID string
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the transaction history, newest first",
		Long: `Show the transaction history, newest first. Units are signed: sales
are negative, restocks positive. Entries of deleted items are kept and
marked.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(a *app, f *OutputFormatter) error {
				entries, err := a.recorder.History(cmd.Context(), opts.ItemID)
				if err != nil {
					return err
				}
				return f.Success(entries, f.renderHistory(entries))
			})
		},
	}

	cmd.Flags().StringVarP(&opts.ItemID, "item", "i", "", "only transactions of this item")

	return cmd
}
