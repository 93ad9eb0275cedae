package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/middleware"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/pkg/api"
)

// UserDirectory looks up registered users.
type UserDirectory interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
}

// LedgerService implements the Connect LedgerService on top of a ledger.Engine.
// Every procedure acts on behalf of the authenticated caller.
type LedgerService struct {
	engine *ledger.Engine
	users  UserDirectory
	logger *slog.Logger
}

var _ api.LedgerServiceHandler = (*LedgerService)(nil)

// NewLedgerService creates a LedgerService.
func NewLedgerService(engine *ledger.Engine, users UserDirectory, logger *slog.Logger) *LedgerService {
	if logger == nil {
		logger = slog.Default()
	}
	return &LedgerService{engine: engine, users: users, logger: logger}
}

// CreateExpense records an expense. The payer defaults to the caller and an
// item without participants is charged to the payer alone.
func (s *LedgerService) CreateExpense(ctx context.Context, req *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error) {
	callerID, err := caller(ctx)
	if err != nil {
		return nil, err
	}

	payerID := req.Msg.PayerID
	if payerID == "" {
		payerID = callerID
	}

	in := ledger.CreateExpenseInput{
		Description: req.Msg.Description,
		PayerID:     payerID,
		Tax:         req.Msg.Tax,
		Items:       make([]ledger.ItemInput, len(req.Msg.Items)),
	}
	for i, item := range req.Msg.Items {
		participants := item.ParticipantIDs
		if len(participants) == 0 {
			participants = []string{payerID}
		}
		in.Items[i] = ledger.ItemInput{Name: item.Name, Amount: item.Amount, Participants: participants}
	}

	expense, err := s.engine.CreateExpense(ctx, in)
	if err != nil {
		s.logger.Warn("CreateExpense failed", "caller_id", callerID, "payer_id", payerID, "error", err)
		return nil, connectError(err)
	}

	return connect.NewResponse(&api.CreateExpenseResponse{Expense: expenseToAPI(expense)}), nil
}

// GetExpense returns an expense the caller paid for or has a share in.
func (s *LedgerService) GetExpense(ctx context.Context, req *connect.Request[api.GetExpenseRequest]) (*connect.Response[api.GetExpenseResponse], error) {
	callerID, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	if req.Msg.ExpenseID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("expense_id required"))
	}

	expense, err := s.engine.GetExpense(ctx, req.Msg.ExpenseID)
	if err != nil {
		return nil, connectError(err)
	}

	involved := expense.PayerID == callerID || slices.ContainsFunc(expense.Splits, func(sp models.ExpenseSplit) bool {
		return sp.UserID == callerID
	})
	if !involved {
		return nil, connect.NewError(connect.CodePermissionDenied, fmt.Errorf("you are not part of this expense"))
	}

	return connect.NewResponse(&api.GetExpenseResponse{Expense: expenseToAPI(expense)}), nil
}

// ListExpenses returns the expenses the caller paid for.
func (s *LedgerService) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	callerID, err := caller(ctx)
	if err != nil {
		return nil, err
	}

	expenses, err := s.engine.ListExpensesPaidBy(ctx, callerID)
	if err != nil {
		return nil, connectError(err)
	}

	out := make([]api.Expense, len(expenses))
	for i, e := range expenses {
		out[i] = expenseToAPI(e)
	}
	return connect.NewResponse(&api.ListExpensesResponse{Expenses: out}), nil
}

// CreateSettlement records a payment from the caller to the payee.
func (s *LedgerService) CreateSettlement(ctx context.Context, req *connect.Request[api.CreateSettlementRequest]) (*connect.Response[api.CreateSettlementResponse], error) {
	callerID, err := caller(ctx)
	if err != nil {
		return nil, err
	}

	settlement, err := s.engine.CreateSettlement(ctx, callerID, req.Msg.PayeeID, req.Msg.Amount, optionalNote(req.Msg.Note))
	if err != nil {
		s.logger.Warn("CreateSettlement failed", "caller_id", callerID, "payee_id", req.Msg.PayeeID, "error", err)
		return nil, connectError(err)
	}

	return connect.NewResponse(&api.CreateSettlementResponse{Settlement: settlementToAPI(settlement)}), nil
}

// SettleUp pays the payee everything the caller owes them.
func (s *LedgerService) SettleUp(ctx context.Context, req *connect.Request[api.SettleUpRequest]) (*connect.Response[api.SettleUpResponse], error) {
	callerID, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.requireFriend(ctx, callerID, req.Msg.PayeeID); err != nil {
		return nil, err
	}

	settlement, err := s.engine.SettleUp(ctx, callerID, req.Msg.PayeeID, optionalNote(req.Msg.Note))
	if err != nil {
		return nil, connectError(err)
	}

	return connect.NewResponse(&api.SettleUpResponse{Settlement: settlementToAPI(settlement)}), nil
}

// ListSettlements returns settlements the caller paid or received.
func (s *LedgerService) ListSettlements(ctx context.Context, req *connect.Request[api.ListSettlementsRequest]) (*connect.Response[api.ListSettlementsResponse], error) {
	callerID, err := caller(ctx)
	if err != nil {
		return nil, err
	}

	settlements, err := s.engine.ListSettlements(ctx, callerID)
	if err != nil {
		return nil, connectError(err)
	}

	out := make([]api.Settlement, len(settlements))
	for i, st := range settlements {
		out[i] = settlementToAPI(st)
	}
	return connect.NewResponse(&api.ListSettlementsResponse{Settlements: out}), nil
}

// GetBalance returns the caller's overall position.
func (s *LedgerService) GetBalance(ctx context.Context, req *connect.Request[api.GetBalanceRequest]) (*connect.Response[api.GetBalanceResponse], error) {
	callerID, err := caller(ctx)
	if err != nil {
		return nil, err
	}

	balance, err := s.engine.GetBalance(ctx, callerID)
	if err != nil {
		return nil, connectError(err)
	}

	return connect.NewResponse(&api.GetBalanceResponse{
		OwedToMe: balance.OwedToMe,
		IOwe:     balance.IOwe,
		Net:      balance.Net,
	}), nil
}

// GetFriendBalances returns who owes the caller and whom the caller owes.
func (s *LedgerService) GetFriendBalances(ctx context.Context, req *connect.Request[api.GetFriendBalancesRequest]) (*connect.Response[api.GetFriendBalancesResponse], error) {
	callerID, err := caller(ctx)
	if err != nil {
		return nil, err
	}

	friends, err := s.engine.GetFriendBalances(ctx, callerID)
	if err != nil {
		return nil, connectError(err)
	}

	return connect.NewResponse(&api.GetFriendBalancesResponse{
		OweMe: friends.OweMe,
		IOwe:  friends.IOwe,
	}), nil
}

// GetPairwiseBalance returns the caller's position against one friend.
func (s *LedgerService) GetPairwiseBalance(ctx context.Context, req *connect.Request[api.GetPairwiseBalanceRequest]) (*connect.Response[api.GetPairwiseBalanceResponse], error) {
	callerID, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.requireFriend(ctx, callerID, req.Msg.FriendID); err != nil {
		return nil, err
	}

	pair, err := s.engine.GetPairwiseBalance(ctx, callerID, req.Msg.FriendID)
	if err != nil {
		return nil, connectError(err)
	}

	return connect.NewResponse(&api.GetPairwiseBalanceResponse{
		OwesMe: pair.OwesMe,
		IOwe:   pair.IOwe,
		Net:    pair.Net,
	}), nil
}

// ClearDebts wipes every split between the caller and the friend.
func (s *LedgerService) ClearDebts(ctx context.Context, req *connect.Request[api.ClearDebtsRequest]) (*connect.Response[api.ClearDebtsResponse], error) {
	callerID, err := caller(ctx)
	if err != nil {
		return nil, err
	}

	removed, err := s.engine.ClearDebts(ctx, callerID, req.Msg.FriendID)
	if err != nil {
		return nil, connectError(err)
	}

	return connect.NewResponse(&api.ClearDebtsResponse{SplitsRemoved: removed}), nil
}

// requireFriend checks that friendID names another registered user.
func (s *LedgerService) requireFriend(ctx context.Context, callerID, friendID string) error {
	if friendID == "" {
		return connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("friend id required"))
	}
	if friendID == callerID {
		return connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("cannot compare balances with yourself"))
	}
	if _, err := s.users.GetUserByID(ctx, friendID); err != nil {
		return connectError(err)
	}
	return nil
}

func caller(ctx context.Context) (string, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return "", connect.NewError(connect.CodeUnauthenticated, errAuthRequired)
	}
	return userID, nil
}
