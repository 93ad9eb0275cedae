package calculator

import (
	"errors"
	"fmt"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
)

// UnitPlaces is the number of decimal places of the minimal currency unit.
const UnitPlaces = 2

var unit = decimal.New(1, -UnitPlaces)

var (
	ErrInvalidItem = errors.New("invalid item")
	ErrInvalidTax  = errors.New("invalid tax")
)

// Item represents a single item submitted with an expense.
type Item struct {
	Name         string
	Amount       decimal.Decimal
	Participants []string
}

// PersonSplit represents the calculated split for one person.
type PersonSplit struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// SplitResult is the outcome of CalculateSplit.
type SplitResult struct {
	// Splits maps user ID to that user's share. Users whose share rounded
	// down to zero are still present.
	Splits map[string]*PersonSplit

	// Items are the item records in input order, with AssignedUserID set
	// for personal items.
	Items []models.ExpenseItem

	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// CalculateSplit computes how much each person owes for an expense.
//
// A single-participant item is charged in full to that participant. A shared
// item is divided equally among its participants, and tax is divided equally
// among everyone who appears on any item. Every equal division is done in
// whole cents: each person gets the floored share, and the leftover cents go
// one at a time to participants in ascending user ID order, so the shares
// always add back up to the divided amount.
func CalculateSplit(items []Item, tax decimal.Decimal) (*SplitResult, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: at least one item is required", ErrInvalidItem)
	}
	if tax.IsNegative() {
		return nil, fmt.Errorf("%w: tax cannot be negative (got %s)", ErrInvalidTax, tax)
	}
	if !isWholeUnits(tax) {
		return nil, fmt.Errorf("%w: tax %s is finer than %s", ErrInvalidTax, tax, unit)
	}

	result := &SplitResult{
		Splits:   make(map[string]*PersonSplit),
		Items:    make([]models.ExpenseItem, 0, len(items)),
		Subtotal: decimal.Zero,
		Tax:      tax,
	}

	for i, item := range items {
		if err := validateItem(item); err != nil {
			return nil, fmt.Errorf("item %d (%q): %w", i+1, item.Name, err)
		}

		record := models.ExpenseItem{Name: item.Name, Amount: item.Amount}
		if len(item.Participants) == 1 {
			assignee := item.Participants[0]
			record.AssignedUserID = &assignee
		}
		result.Items = append(result.Items, record)
		result.Subtotal = result.Subtotal.Add(item.Amount)

		for person, share := range divideEvenly(item.Amount, item.Participants) {
			split := result.person(person)
			split.Subtotal = split.Subtotal.Add(share)
		}
	}

	if tax.IsPositive() {
		everyone := make([]string, 0, len(result.Splits))
		for person := range result.Splits {
			everyone = append(everyone, person)
		}
		for person, share := range divideEvenly(tax, everyone) {
			result.Splits[person].Tax = share
		}
	}

	for _, split := range result.Splits {
		split.Total = split.Subtotal.Add(split.Tax)
	}
	result.Total = result.Subtotal.Add(tax)

	return result, nil
}

func (r *SplitResult) person(userID string) *PersonSplit {
	split, ok := r.Splits[userID]
	if !ok {
		split = &PersonSplit{Subtotal: decimal.Zero, Tax: decimal.Zero, Total: decimal.Zero}
		r.Splits[userID] = split
	}
	return split
}

func validateItem(item Item) error {
	if !item.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive (got %s)", ErrInvalidItem, item.Amount)
	}
	if !isWholeUnits(item.Amount) {
		return fmt.Errorf("%w: amount %s is finer than %s", ErrInvalidItem, item.Amount, unit)
	}
	if len(item.Participants) == 0 {
		return fmt.Errorf("%w: at least one participant is required", ErrInvalidItem)
	}
	seen := make(map[string]bool, len(item.Participants))
	for _, p := range item.Participants {
		if p == "" {
			return fmt.Errorf("%w: participant ID cannot be empty", ErrInvalidItem)
		}
		if seen[p] {
			return fmt.Errorf("%w: participant %s listed twice", ErrInvalidItem, p)
		}
		seen[p] = true
	}
	return nil
}

// divideEvenly splits amount into len(userIDs) whole-cent shares that sum
// exactly to amount. Leftover cents go to the lowest user IDs first.
func divideEvenly(amount decimal.Decimal, userIDs []string) map[string]decimal.Decimal {
	ordered := slices.Clone(userIDs)
	slices.Sort(ordered)

	count := decimal.NewFromInt(int64(len(ordered)))
	share, remainder := amount.QuoRem(count, UnitPlaces)
	leftover := remainder.Shift(UnitPlaces).IntPart()

	shares := make(map[string]decimal.Decimal, len(ordered))
	for i, userID := range ordered {
		s := share
		if int64(i) < leftover {
			s = s.Add(unit)
		}
		shares[userID] = s
	}
	return shares
}

func isWholeUnits(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(UnitPlaces))
}
