package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
)

// Balance is one user's position across the whole ledger.
type Balance struct {
	OwedToMe decimal.Decimal // Expense shares others owe me, minus settlements I received
	IOwe     decimal.Decimal // My shares of others' expenses, minus settlements I paid
	Net      decimal.Decimal // Positive = net creditor
}

// FriendBalances breaks a user's position down by counterparty.
// Only strictly positive amounts are present.
type FriendBalances struct {
	OweMe map[string]decimal.Decimal
	IOwe  map[string]decimal.Decimal
}

// PairBalance is the position of one user against exactly one other user.
type PairBalance struct {
	OwesMe decimal.Decimal
	IOwe   decimal.Decimal
	Net    decimal.Decimal
}

// RawOwedToMe sums the splits other users owe on expenses userID paid.
func RawOwedToMe(snap *models.LedgerSnapshot, userID string) decimal.Decimal {
	sum := decimal.Zero
	for _, d := range snap.Debts {
		if d.CreditorID == userID && d.DebtorID != userID {
			sum = sum.Add(d.Amount)
		}
	}
	return sum
}

// RawIOwe sums userID's splits on expenses someone else paid.
func RawIOwe(snap *models.LedgerSnapshot, userID string) decimal.Decimal {
	sum := decimal.Zero
	for _, d := range snap.Debts {
		if d.DebtorID == userID && d.CreditorID != userID {
			sum = sum.Add(d.Amount)
		}
	}
	return sum
}

// SettledToMe sums settlements received by userID.
func SettledToMe(snap *models.LedgerSnapshot, userID string) decimal.Decimal {
	sum := decimal.Zero
	for _, s := range snap.Settlements {
		if s.PayeeID == userID {
			sum = sum.Add(s.Amount)
		}
	}
	return sum
}

// SettledByMe sums settlements paid by userID.
func SettledByMe(snap *models.LedgerSnapshot, userID string) decimal.Decimal {
	sum := decimal.Zero
	for _, s := range snap.Settlements {
		if s.PayerID == userID {
			sum = sum.Add(s.Amount)
		}
	}
	return sum
}

// Summarize computes the overall balance for userID. A user with no activity
// gets an all-zero balance.
func Summarize(snap *models.LedgerSnapshot, userID string) Balance {
	owedToMe := RawOwedToMe(snap, userID).Sub(SettledToMe(snap, userID))
	iOwe := RawIOwe(snap, userID).Sub(SettledByMe(snap, userID))
	return Balance{
		OwedToMe: owedToMe,
		IOwe:     iOwe,
		Net:      owedToMe.Sub(iOwe),
	}
}

// Friends groups userID's raw debts by counterparty and nets each group
// against the settlements exchanged in the matching direction.
//
// Counterparties whose net amount is zero or negative are left out, so an
// overpayment never shows up as a negative entry.
func Friends(snap *models.LedgerSnapshot, userID string) FriendBalances {
	oweMe := make(map[string]decimal.Decimal)
	iOwe := make(map[string]decimal.Decimal)

	for _, d := range snap.Debts {
		switch {
		case d.CreditorID == d.DebtorID:
			continue
		case d.CreditorID == userID:
			oweMe[d.DebtorID] = oweMe[d.DebtorID].Add(d.Amount)
		case d.DebtorID == userID:
			iOwe[d.CreditorID] = iOwe[d.CreditorID].Add(d.Amount)
		}
	}

	for _, s := range snap.Settlements {
		if s.PayeeID == userID {
			if owed, ok := oweMe[s.PayerID]; ok {
				oweMe[s.PayerID] = owed.Sub(s.Amount)
			}
		}
		if s.PayerID == userID {
			if owed, ok := iOwe[s.PayeeID]; ok {
				iOwe[s.PayeeID] = owed.Sub(s.Amount)
			}
		}
	}

	return FriendBalances{OweMe: keepPositive(oweMe), IOwe: keepPositive(iOwe)}
}

// Pairwise computes userID's position against friendID using only the
// expenses and settlements between the two of them.
//
// Unlike Friends, the amounts are not floored: an overpaid direction comes
// back negative so that Pairwise(a, b).Net == -Pairwise(b, a).Net always
// holds. When both directions are positive they match the Friends entries
// for the same pair.
func Pairwise(snap *models.LedgerSnapshot, userID, friendID string) PairBalance {
	if userID == friendID {
		return PairBalance{OwesMe: decimal.Zero, IOwe: decimal.Zero, Net: decimal.Zero}
	}

	owesMe := decimal.Zero
	iOwe := decimal.Zero

	for _, d := range snap.Debts {
		switch {
		case d.CreditorID == userID && d.DebtorID == friendID:
			owesMe = owesMe.Add(d.Amount)
		case d.CreditorID == friendID && d.DebtorID == userID:
			iOwe = iOwe.Add(d.Amount)
		}
	}

	for _, s := range snap.Settlements {
		switch {
		case s.PayerID == friendID && s.PayeeID == userID:
			owesMe = owesMe.Sub(s.Amount)
		case s.PayerID == userID && s.PayeeID == friendID:
			iOwe = iOwe.Sub(s.Amount)
		}
	}

	return PairBalance{OwesMe: owesMe, IOwe: iOwe, Net: owesMe.Sub(iOwe)}
}

func keepPositive(m map[string]decimal.Decimal) map[string]decimal.Decimal {
	for k, v := range m {
		if !v.IsPositive() {
			delete(m, k)
		}
	}
	return m
}
