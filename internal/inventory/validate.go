package inventory

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/stockroom/internal/model"
)

// normalizeText trims surrounding space and applies NFC so that visually
// identical names compare and sort the same.
func normalizeText(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// foldText prepares s for case-insensitive matching.
func foldText(s string) string {
	return cases.Fold().String(normalizeText(s))
}

// validateFields normalizes and checks an item's field set.
// All violations are reported together.
func validateFields(f model.ItemFields) (model.ItemFields, error) {
	f.Name = normalizeText(f.Name)
	f.Category = normalizeText(f.Category)

	var errs []error
	if f.Name == "" {
		errs = append(errs, model.NewValidationError("name", "is required"))
	}
	if f.Quantity < 0 {
		errs = append(errs, model.NewValidationError("quantity", "must not be negative, got %d", f.Quantity))
	}
	if err := validatePrice("price", f.Price); err != nil {
		errs = append(errs, err)
	}
	if f.Threshold < 0 {
		errs = append(errs, model.NewValidationError("threshold", "must not be negative, got %d", f.Threshold))
	}
	return f, errors.Join(errs...)
}

func validatePrice(field string, p float64) error {
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return model.NewValidationError(field, "must be a finite number")
	}
	if p < 0 {
		return model.NewValidationError(field, "must not be negative, got %g", p)
	}
	return nil
}

// storageError marks err with model.ErrStorage unless it is one of the
// domain rejections the store reports.
func storageError(op string, err error) error {
	switch {
	case errors.Is(err, model.ErrItemNotFound),
		errors.Is(err, model.ErrInsufficientStock),
		errors.Is(err, model.ErrInvalidDelta):
		return err
	}
	return fmt.Errorf("%s: %w: %w", op, model.ErrStorage, err)
}
