package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/roach88/stockroom/internal/inventory"
	"github.com/roach88/stockroom/internal/model"
)

const (
	timeFormat   = "2006-01-02 15:04"
	detailFormat = "2006-01-02 15:04:05 MST"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func stockStatus(item model.Item) string {
	if item.IsLowStock() {
		return "LOW"
	}
	return "ok"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func (f *OutputFormatter) renderItems(items []model.Item, empty string) func(io.Writer) error {
	return func(w io.Writer) error {
		if len(items) == 0 {
			_, err := fmt.Fprintln(w, empty)
			return err
		}

		tw := newTable(w)
		fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tQTY\tTHRESHOLD\tPRICE\tSTATUS")
		for _, item := range items {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%s\t%s\n",
				item.ID,
				item.Name,
				orDash(item.Category),
				item.Quantity,
				item.Threshold,
				f.Money(item.Price),
				stockStatus(item),
			)
		}
		return tw.Flush()
	}
}

func (f *OutputFormatter) renderItem(item model.Item) func(io.Writer) error {
	return func(w io.Writer) error {
		quantity := fmt.Sprintf("%d", item.Quantity)
		if item.IsLowStock() {
			quantity += " (low stock)"
		}

		tw := newTable(w)
		fmt.Fprintf(tw, "ID:\t%s\n", item.ID)
		fmt.Fprintf(tw, "Name:\t%s\n", item.Name)
		fmt.Fprintf(tw, "Category:\t%s\n", orDash(item.Category))
		fmt.Fprintf(tw, "Quantity:\t%s\n", quantity)
		fmt.Fprintf(tw, "Unit price:\t%s\n", f.Money(item.Price))
		fmt.Fprintf(tw, "Threshold:\t%d\n", item.Threshold)
		fmt.Fprintf(tw, "Last updated:\t%s\n", item.LastUpdated.UTC().Format(detailFormat))
		return tw.Flush()
	}
}

func signedUnits(delta int) string {
	if delta > 0 {
		return fmt.Sprintf("+%d", delta)
	}
	return fmt.Sprintf("%d", delta)
}

func (f *OutputFormatter) renderHistory(entries []model.HistoryEntry) func(io.Writer) error {
	return func(w io.Writer) error {
		if len(entries) == 0 {
			_, err := fmt.Fprintln(w, "No transactions yet.")
			return err
		}

		tw := newTable(w)
		fmt.Fprintln(tw, "TIME\tITEM\tKIND\tUNITS\tTOTAL\tID")
		for _, e := range entries {
			name := e.ItemName
			if e.ItemDeleted {
				name += " (deleted)"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
				e.Timestamp.UTC().Format(timeFormat),
				name,
				e.Kind,
				signedUnits(e.Delta),
				f.Money(e.TotalPrice),
				e.ID,
			)
		}
		return tw.Flush()
	}
}

func (f *OutputFormatter) renderReceipt(r inventory.Receipt) func(io.Writer) error {
	return func(w io.Writer) error {
		tx := r.Transaction
		var err error
		if tx.Kind() == model.KindSale {
			_, err = fmt.Fprintf(w, "Sold %d x %s for %s. %d left.\n",
				tx.Units(), r.Item.Name, f.Money(tx.TotalPrice), r.Item.Quantity)
		} else {
			_, err = fmt.Fprintf(w, "Restocked %d x %s for %s. %d in stock.\n",
				tx.Units(), r.Item.Name, f.Money(tx.TotalPrice), r.Item.Quantity)
		}
		return err
	}
}
