package calculator

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), append([]any{"want %s, got %s", want, got}, msgAndArgs...)...)
}

func sumTotals(splits map[string]*PersonSplit) decimal.Decimal {
	sum := decimal.Zero
	for _, s := range splits {
		sum = sum.Add(s.Total)
	}
	return sum
}

func TestCalculateSplit(t *testing.T) {
	tests := []struct {
		name         string
		items        []Item
		tax          string
		wantErr      error
		validateFunc func(t *testing.T, res *SplitResult)
	}{
		{
			name: "shared dish, personal drink and tax",
			items: []Item{
				{Name: "Main Dish", Amount: dec("100"), Participants: []string{"u", "f"}},
				{Name: "Drink", Amount: dec("40"), Participants: []string{"u"}},
			},
			tax: "20",
			validateFunc: func(t *testing.T, res *SplitResult) {
				// u: 50 dish + 10 tax + 40 drink, f: 50 dish + 10 tax
				assertDecimal(t, "160", res.Total)
				assertDecimal(t, "140", res.Subtotal)
				require.Len(t, res.Splits, 2)
				assertDecimal(t, "100", res.Splits["u"].Total)
				assertDecimal(t, "90", res.Splits["u"].Subtotal)
				assertDecimal(t, "10", res.Splits["u"].Tax)
				assertDecimal(t, "60", res.Splits["f"].Total)

				require.Len(t, res.Items, 2)
				assert.Equal(t, "Main Dish", res.Items[0].Name)
				assert.Nil(t, res.Items[0].AssignedUserID)
				assert.True(t, res.Items[0].Shared())
				require.NotNil(t, res.Items[1].AssignedUserID)
				assert.Equal(t, "u", *res.Items[1].AssignedUserID)
			},
		},
		{
			name:  "even two-way split without tax",
			items: []Item{{Name: "Groceries", Amount: dec("100"), Participants: []string{"u", "f"}}},
			tax:   "0",
			validateFunc: func(t *testing.T, res *SplitResult) {
				assertDecimal(t, "50", res.Splits["u"].Total)
				assertDecimal(t, "50", res.Splits["f"].Total)
				assertDecimal(t, "0", res.Splits["f"].Tax)
			},
		},
		{
			name:  "leftover cents go to lowest user IDs",
			items: []Item{{Name: "Pizza", Amount: dec("10.00"), Participants: []string{"carol", "alice", "bob"}}},
			tax:   "0",
			validateFunc: func(t *testing.T, res *SplitResult) {
				assertDecimal(t, "3.34", res.Splits["alice"].Total)
				assertDecimal(t, "3.33", res.Splits["bob"].Total)
				assertDecimal(t, "3.33", res.Splits["carol"].Total)
			},
		},
		{
			name:  "tax leftover uses the same rule",
			items: []Item{{Name: "Taxi", Amount: dec("30"), Participants: []string{"c", "b", "a"}}},
			tax:   "0.05",
			validateFunc: func(t *testing.T, res *SplitResult) {
				assertDecimal(t, "0.02", res.Splits["a"].Tax)
				assertDecimal(t, "0.02", res.Splits["b"].Tax)
				assertDecimal(t, "0.01", res.Splits["c"].Tax)
				assertDecimal(t, "30.05", sumTotals(res.Splits))
			},
		},
		{
			name: "tax pool includes personal item owners",
			items: []Item{
				{Name: "Steak", Amount: dec("30"), Participants: []string{"a"}},
				{Name: "Salad", Amount: dec("12"), Participants: []string{"b"}},
				{Name: "Wine", Amount: dec("18"), Participants: []string{"b", "c"}},
			},
			tax: "6",
			validateFunc: func(t *testing.T, res *SplitResult) {
				for _, p := range []string{"a", "b", "c"} {
					assertDecimal(t, "2", res.Splits[p].Tax, p)
				}
				assertDecimal(t, "32", res.Splits["a"].Total)
				assertDecimal(t, "23", res.Splits["b"].Total)
				assertDecimal(t, "11", res.Splits["c"].Total)
			},
		},
		{
			name:  "one cent among three leaves zero shares",
			items: []Item{{Name: "Mint", Amount: dec("0.01"), Participants: []string{"a", "b", "c"}}},
			tax:   "0",
			validateFunc: func(t *testing.T, res *SplitResult) {
				require.Len(t, res.Splits, 3)
				assertDecimal(t, "0.01", res.Splits["a"].Total)
				assert.True(t, res.Splits["b"].Total.IsZero())
				assert.True(t, res.Splits["c"].Total.IsZero())
			},
		},
		{
			name:    "no items",
			tax:     "0",
			wantErr: ErrInvalidItem,
		},
		{
			name:    "zero amount",
			items:   []Item{{Name: "Free", Amount: dec("0"), Participants: []string{"a"}}},
			tax:     "0",
			wantErr: ErrInvalidItem,
		},
		{
			name:    "negative amount",
			items:   []Item{{Name: "Refund", Amount: dec("-5"), Participants: []string{"a"}}},
			tax:     "0",
			wantErr: ErrInvalidItem,
		},
		{
			name:    "empty participants",
			items:   []Item{{Name: "Orphan", Amount: dec("5")}},
			tax:     "0",
			wantErr: ErrInvalidItem,
		},
		{
			name:    "duplicate participant",
			items:   []Item{{Name: "Pie", Amount: dec("5"), Participants: []string{"a", "a"}}},
			tax:     "0",
			wantErr: ErrInvalidItem,
		},
		{
			name:    "amount finer than a cent",
			items:   []Item{{Name: "Fuel", Amount: dec("1.005"), Participants: []string{"a"}}},
			tax:     "0",
			wantErr: ErrInvalidItem,
		},
		{
			name:    "negative tax",
			items:   []Item{{Name: "Bread", Amount: dec("5"), Participants: []string{"a"}}},
			tax:     "-1",
			wantErr: ErrInvalidTax,
		},
		{
			name:    "tax finer than a cent",
			items:   []Item{{Name: "Bread", Amount: dec("5"), Participants: []string{"a"}}},
			tax:     "0.001",
			wantErr: ErrInvalidTax,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := CalculateSplit(tt.items, dec(tt.tax))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			if tt.validateFunc != nil {
				tt.validateFunc(t, res)
			}
		})
	}
}

func TestCalculateSplit_Conservation(t *testing.T) {
	people := []string{"p1", "p2", "p3", "p4", "p5", "p6", "p7"}

	for n := 1; n <= len(people); n++ {
		for _, amount := range []string{"0.01", "0.05", "1", "9.99", "10", "100.01", "333.33", "1000.07"} {
			for _, tax := range []string{"0", "0.01", "0.10", "7.77"} {
				t.Run(fmt.Sprintf("%d-way/%s/tax %s", n, amount, tax), func(t *testing.T) {
					items := []Item{
						{Name: "shared", Amount: dec(amount), Participants: people[:n]},
						{Name: "personal", Amount: dec("1.23"), Participants: []string{people[n-1]}},
					}
					res, err := CalculateSplit(items, dec(tax))
					require.NoError(t, err)

					assert.True(t, res.Total.Equal(sumTotals(res.Splits)),
						"total %s != sum of splits %s", res.Total, sumTotals(res.Splits))
					assert.True(t, res.Total.Equal(dec(amount).Add(dec("1.23")).Add(dec(tax))))

					for userID, s := range res.Splits {
						assert.True(t, isWholeUnits(s.Total), "%s total %s", userID, s.Total)
						assert.False(t, s.Total.IsNegative())
					}
				})
			}
		}
	}
}

func TestCalculateSplit_PersonalItemIdentity(t *testing.T) {
	res, err := CalculateSplit([]Item{
		{Name: "Book", Amount: dec("24.50"), Participants: []string{"reader"}},
	}, decimal.Zero)
	require.NoError(t, err)

	require.NotNil(t, res.Items[0].AssignedUserID)
	assert.Equal(t, "reader", *res.Items[0].AssignedUserID)
	assertDecimal(t, "24.50", res.Splits["reader"].Total)
}

func TestDivideEvenly_Deterministic(t *testing.T) {
	first := divideEvenly(dec("1.00"), []string{"z", "y", "x"})
	second := divideEvenly(dec("1.00"), []string{"x", "z", "y"})
	assert.Equal(t, first, second)
	assertDecimal(t, "0.34", first["x"])
	assertDecimal(t, "0.33", first["y"])
	assertDecimal(t, "0.33", first["z"])
}
