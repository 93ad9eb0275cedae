package service

import (
	"time"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/pkg/api"
)

func userToAPI(u *models.User) api.User {
	return api.User{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		CreatedAt:   time.Unix(u.CreatedAt, 0).UTC(),
	}
}

func expenseToAPI(e *models.Expense) api.Expense {
	out := api.Expense{
		ID:          e.ID,
		Description: e.Description,
		PayerID:     e.PayerID,
		Tax:         e.Tax,
		TotalAmount: e.TotalAmount,
		CreatedAt:   time.Unix(e.CreatedAt, 0).UTC(),
		Items:       make([]api.ExpenseItem, len(e.Items)),
		Splits:      make([]api.ExpenseSplit, len(e.Splits)),
	}
	for i, item := range e.Items {
		out.Items[i] = api.ExpenseItem{ID: item.ID, Name: item.Name, Amount: item.Amount}
		if item.AssignedUserID != nil {
			out.Items[i].AssignedUserID = *item.AssignedUserID
		}
	}
	for i, split := range e.Splits {
		out.Splits[i] = api.ExpenseSplit{UserID: split.UserID, Amount: split.Amount}
	}
	return out
}

func settlementToAPI(s *models.Settlement) api.Settlement {
	out := api.Settlement{
		ID:        s.ID,
		PayerID:   s.PayerID,
		PayeeID:   s.PayeeID,
		Amount:    s.Amount,
		CreatedAt: time.Unix(s.CreatedAt, 0).UTC(),
	}
	if s.Note != nil {
		out.Note = *s.Note
	}
	return out
}

// optionalNote turns an empty wire string into "no note".
func optionalNote(note string) *string {
	if note == "" {
		return nil
	}
	return &note
}
