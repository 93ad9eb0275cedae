// Package api defines the wire messages of the splitledger RPC services.
//
// Messages are plain Go structs carried as JSON over the Connect protocol.
// Money is encoded as a decimal string ("12.50") so no precision is lost.
package api

import (
	"time"

	"github.com/shopspring/decimal"
)

// User is the public view of an account. Password hashes never leave the server.
type User struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}

type RegisterRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
}

type RegisterResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

type GetCurrentUserRequest struct{}

type GetCurrentUserResponse struct {
	User User `json:"user"`
}

type ListFriendsRequest struct{}

// ListFriendsResponse lists every other registered user.
type ListFriendsResponse struct {
	Friends []User `json:"friends"`
}

// ItemInput is one line of a new expense. An empty ParticipantIDs list
// charges the item to the payer.
type ItemInput struct {
	Name           string          `json:"name"`
	Amount         decimal.Decimal `json:"amount"`
	ParticipantIDs []string        `json:"participant_ids,omitempty"`
}

type ExpenseItem struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Amount         decimal.Decimal `json:"amount"`
	AssignedUserID string          `json:"assigned_user_id,omitempty"`
}

type ExpenseSplit struct {
	UserID string          `json:"user_id"`
	Amount decimal.Decimal `json:"amount"`
}

type Expense struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	PayerID     string          `json:"payer_id"`
	Tax         decimal.Decimal `json:"tax"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	CreatedAt   time.Time       `json:"created_at"`
	Items       []ExpenseItem   `json:"items"`
	Splits      []ExpenseSplit  `json:"splits"`
}

// CreateExpenseRequest records an expense. PayerID defaults to the caller.
type CreateExpenseRequest struct {
	Description string          `json:"description"`
	PayerID     string          `json:"payer_id,omitempty"`
	Tax         decimal.Decimal `json:"tax"`
	Items       []ItemInput     `json:"items"`
}

type CreateExpenseResponse struct {
	Expense Expense `json:"expense"`
}

type GetExpenseRequest struct {
	ExpenseID string `json:"expense_id"`
}

type GetExpenseResponse struct {
	Expense Expense `json:"expense"`
}

// ListExpensesRequest lists expenses paid by the caller.
type ListExpensesRequest struct{}

type ListExpensesResponse struct {
	Expenses []Expense `json:"expenses"`
}

type Settlement struct {
	ID        string          `json:"id"`
	PayerID   string          `json:"payer_id"`
	PayeeID   string          `json:"payee_id"`
	Amount    decimal.Decimal `json:"amount"`
	Note      string          `json:"note,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// CreateSettlementRequest records a payment from the caller to PayeeID.
type CreateSettlementRequest struct {
	PayeeID string          `json:"payee_id"`
	Amount  decimal.Decimal `json:"amount"`
	Note    string          `json:"note,omitempty"`
}

type CreateSettlementResponse struct {
	Settlement Settlement `json:"settlement"`
}

// SettleUpRequest pays PayeeID everything the caller currently owes them.
type SettleUpRequest struct {
	PayeeID string `json:"payee_id"`
	Note    string `json:"note,omitempty"`
}

type SettleUpResponse struct {
	Settlement Settlement `json:"settlement"`
}

type ListSettlementsRequest struct{}

type ListSettlementsResponse struct {
	Settlements []Settlement `json:"settlements"`
}

type GetBalanceRequest struct{}

type GetBalanceResponse struct {
	OwedToMe decimal.Decimal `json:"owed_to_me"`
	IOwe     decimal.Decimal `json:"i_owe"`
	Net      decimal.Decimal `json:"net"`
}

type GetFriendBalancesRequest struct{}

// GetFriendBalancesResponse maps friend IDs to strictly positive amounts.
type GetFriendBalancesResponse struct {
	OweMe map[string]decimal.Decimal `json:"owe_me"`
	IOwe  map[string]decimal.Decimal `json:"i_owe"`
}

type GetPairwiseBalanceRequest struct {
	FriendID string `json:"friend_id"`
}

type GetPairwiseBalanceResponse struct {
	OwesMe decimal.Decimal `json:"owes_me"`
	IOwe   decimal.Decimal `json:"i_owe"`
	Net    decimal.Decimal `json:"net"`
}

// ClearDebtsRequest deletes every split between the caller and FriendID
// without recording a settlement.
type ClearDebtsRequest struct {
	FriendID string `json:"friend_id"`
}

type ClearDebtsResponse struct {
	SplitsRemoved int64 `json:"splits_removed"`
}
