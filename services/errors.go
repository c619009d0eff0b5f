package services

import (
	"fmt"
	"strings"
)

// CircularReferenceError aborts composition when a product-type attribute
// chain leads back to a product already being composed.
type CircularReferenceError struct {
	Chain []string // product id hex values, outermost first
}

func (e *CircularReferenceError) Error() string {
	return fmt.Sprintf("circular product reference: %s", strings.Join(e.Chain, " -> "))
}

// InvalidQuantityError rejects order lines with a non-positive quantity.
type InvalidQuantityError struct {
	Quantity int
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("quantity must be a positive integer, got %d", e.Quantity)
}

// OutOfRangeError reports a number attribute outside its configured bounds.
type OutOfRangeError struct {
	Attribute string
	Value     float64
	Min       *float64
	Max       *float64
}

func (e *OutOfRangeError) Error() string {
	if e.Min != nil && e.Value < *e.Min {
		return fmt.Sprintf("value %g for attribute %q is below the minimum %g", e.Value, e.Attribute, *e.Min)
	}
	if e.Max != nil && e.Value > *e.Max {
		return fmt.Sprintf("value %g for attribute %q is above the maximum %g", e.Value, e.Attribute, *e.Max)
	}
	return fmt.Sprintf("value %g for attribute %q is out of range", e.Value, e.Attribute)
}

// TooManySelectionsError rejects a multipleSelect pick beyond the
// attribute's maxSelections. Raised at selection time so the extra pick can
// be refused, never silently truncated.
type TooManySelectionsError struct {
	Attribute string
	Max       int
	Selected  int
}

func (e *TooManySelectionsError) Error() string {
	return fmt.Sprintf("attribute %q allows at most %d selections, got %d", e.Attribute, e.Max, e.Selected)
}

// MissingRequiredAttributeError lists every attribute still missing a
// selection. Collected in one pass so the caller can show a single
// consolidated message.
type MissingRequiredAttributeError struct {
	Missing []string
}

func (e *MissingRequiredAttributeError) Error() string {
	return fmt.Sprintf("missing required attributes: %s", strings.Join(e.Missing, ", "))
}
