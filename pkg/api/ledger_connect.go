package api

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

// LedgerServiceName is the fully-qualified name of the LedgerService.
const LedgerServiceName = "splitledger.v1.LedgerService"

const (
	LedgerServiceCreateExpenseProcedure      = "/splitledger.v1.LedgerService/CreateExpense"
	LedgerServiceGetExpenseProcedure         = "/splitledger.v1.LedgerService/GetExpense"
	LedgerServiceListExpensesProcedure       = "/splitledger.v1.LedgerService/ListExpenses"
	LedgerServiceCreateSettlementProcedure   = "/splitledger.v1.LedgerService/CreateSettlement"
	LedgerServiceSettleUpProcedure           = "/splitledger.v1.LedgerService/SettleUp"
	LedgerServiceListSettlementsProcedure    = "/splitledger.v1.LedgerService/ListSettlements"
	LedgerServiceGetBalanceProcedure         = "/splitledger.v1.LedgerService/GetBalance"
	LedgerServiceGetFriendBalancesProcedure  = "/splitledger.v1.LedgerService/GetFriendBalances"
	LedgerServiceGetPairwiseBalanceProcedure = "/splitledger.v1.LedgerService/GetPairwiseBalance"
	LedgerServiceClearDebtsProcedure         = "/splitledger.v1.LedgerService/ClearDebts"
)

// LedgerServiceHandler is implemented by the server side of the LedgerService.
type LedgerServiceHandler interface {
	CreateExpense(context.Context, *connect.Request[CreateExpenseRequest]) (*connect.Response[CreateExpenseResponse], error)
	GetExpense(context.Context, *connect.Request[GetExpenseRequest]) (*connect.Response[GetExpenseResponse], error)
	ListExpenses(context.Context, *connect.Request[ListExpensesRequest]) (*connect.Response[ListExpensesResponse], error)
	CreateSettlement(context.Context, *connect.Request[CreateSettlementRequest]) (*connect.Response[CreateSettlementResponse], error)
	SettleUp(context.Context, *connect.Request[SettleUpRequest]) (*connect.Response[SettleUpResponse], error)
	ListSettlements(context.Context, *connect.Request[ListSettlementsRequest]) (*connect.Response[ListSettlementsResponse], error)
	GetBalance(context.Context, *connect.Request[GetBalanceRequest]) (*connect.Response[GetBalanceResponse], error)
	GetFriendBalances(context.Context, *connect.Request[GetFriendBalancesRequest]) (*connect.Response[GetFriendBalancesResponse], error)
	GetPairwiseBalance(context.Context, *connect.Request[GetPairwiseBalanceRequest]) (*connect.Response[GetPairwiseBalanceResponse], error)
	ClearDebts(context.Context, *connect.Request[ClearDebtsRequest]) (*connect.Response[ClearDebtsResponse], error)
}

// NewLedgerServiceHandler builds an HTTP handler for svc and returns the
// path prefix to mount it on.
func NewLedgerServiceHandler(svc LedgerServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{WithCodec()}, opts...)
	readOpts := append([]connect.HandlerOption{connect.WithIdempotency(connect.IdempotencyNoSideEffects)}, opts...)

	mux := http.NewServeMux()
	mux.Handle(LedgerServiceCreateExpenseProcedure, connect.NewUnaryHandler(LedgerServiceCreateExpenseProcedure, svc.CreateExpense, opts...))
	mux.Handle(LedgerServiceGetExpenseProcedure, connect.NewUnaryHandler(LedgerServiceGetExpenseProcedure, svc.GetExpense, readOpts...))
	mux.Handle(LedgerServiceListExpensesProcedure, connect.NewUnaryHandler(LedgerServiceListExpensesProcedure, svc.ListExpenses, readOpts...))
	mux.Handle(LedgerServiceCreateSettlementProcedure, connect.NewUnaryHandler(LedgerServiceCreateSettlementProcedure, svc.CreateSettlement, opts...))
	mux.Handle(LedgerServiceSettleUpProcedure, connect.NewUnaryHandler(LedgerServiceSettleUpProcedure, svc.SettleUp, opts...))
	mux.Handle(LedgerServiceListSettlementsProcedure, connect.NewUnaryHandler(LedgerServiceListSettlementsProcedure, svc.ListSettlements, readOpts...))
	mux.Handle(LedgerServiceGetBalanceProcedure, connect.NewUnaryHandler(LedgerServiceGetBalanceProcedure, svc.GetBalance, readOpts...))
	mux.Handle(LedgerServiceGetFriendBalancesProcedure, connect.NewUnaryHandler(LedgerServiceGetFriendBalancesProcedure, svc.GetFriendBalances, readOpts...))
	mux.Handle(LedgerServiceGetPairwiseBalanceProcedure, connect.NewUnaryHandler(LedgerServiceGetPairwiseBalanceProcedure, svc.GetPairwiseBalance, readOpts...))
	mux.Handle(LedgerServiceClearDebtsProcedure, connect.NewUnaryHandler(LedgerServiceClearDebtsProcedure, svc.ClearDebts, opts...))

	return "/" + LedgerServiceName + "/", mux
}

// LedgerServiceClient is a client for the LedgerService.
type LedgerServiceClient struct {
	createExpense      *connect.Client[CreateExpenseRequest, CreateExpenseResponse]
	getExpense         *connect.Client[GetExpenseRequest, GetExpenseResponse]
	listExpenses       *connect.Client[ListExpensesRequest, ListExpensesResponse]
	createSettlement   *connect.Client[CreateSettlementRequest, CreateSettlementResponse]
	settleUp           *connect.Client[SettleUpRequest, SettleUpResponse]
	listSettlements    *connect.Client[ListSettlementsRequest, ListSettlementsResponse]
	getBalance         *connect.Client[GetBalanceRequest, GetBalanceResponse]
	getFriendBalances  *connect.Client[GetFriendBalancesRequest, GetFriendBalancesResponse]
	getPairwiseBalance *connect.Client[GetPairwiseBalanceRequest, GetPairwiseBalanceResponse]
	clearDebts         *connect.Client[ClearDebtsRequest, ClearDebtsResponse]
}

// NewLedgerServiceClient constructs a client for the LedgerService at baseURL
// (for example, http://localhost:8080).
func NewLedgerServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *LedgerServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{WithCodec()}, opts...)
	return &LedgerServiceClient{
		createExpense:      connect.NewClient[CreateExpenseRequest, CreateExpenseResponse](httpClient, baseURL+LedgerServiceCreateExpenseProcedure, opts...),
		getExpense:         connect.NewClient[GetExpenseRequest, GetExpenseResponse](httpClient, baseURL+LedgerServiceGetExpenseProcedure, opts...),
		listExpenses:       connect.NewClient[ListExpensesRequest, ListExpensesResponse](httpClient, baseURL+LedgerServiceListExpensesProcedure, opts...),
		createSettlement:   connect.NewClient[CreateSettlementRequest, CreateSettlementResponse](httpClient, baseURL+LedgerServiceCreateSettlementProcedure, opts...),
		settleUp:           connect.NewClient[SettleUpRequest, SettleUpResponse](httpClient, baseURL+LedgerServiceSettleUpProcedure, opts...),
		listSettlements:    connect.NewClient[ListSettlementsRequest, ListSettlementsResponse](httpClient, baseURL+LedgerServiceListSettlementsProcedure, opts...),
		getBalance:         connect.NewClient[GetBalanceRequest, GetBalanceResponse](httpClient, baseURL+LedgerServiceGetBalanceProcedure, opts...),
		getFriendBalances:  connect.NewClient[GetFriendBalancesRequest, GetFriendBalancesResponse](httpClient, baseURL+LedgerServiceGetFriendBalancesProcedure, opts...),
		getPairwiseBalance: connect.NewClient[GetPairwiseBalanceRequest, GetPairwiseBalanceResponse](httpClient, baseURL+LedgerServiceGetPairwiseBalanceProcedure, opts...),
		clearDebts:         connect.NewClient[ClearDebtsRequest, ClearDebtsResponse](httpClient, baseURL+LedgerServiceClearDebtsProcedure, opts...),
	}
}

func (c *LedgerServiceClient) CreateExpense(ctx context.Context, req *connect.Request[CreateExpenseRequest]) (*connect.Response[CreateExpenseResponse], error) {
	return c.createExpense.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) GetExpense(ctx context.Context, req *connect.Request[GetExpenseRequest]) (*connect.Response[GetExpenseResponse], error) {
	return c.getExpense.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) ListExpenses(ctx context.Context, req *connect.Request[ListExpensesRequest]) (*connect.Response[ListExpensesResponse], error) {
	return c.listExpenses.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) CreateSettlement(ctx context.Context, req *connect.Request[CreateSettlementRequest]) (*connect.Response[CreateSettlementResponse], error) {
	return c.createSettlement.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) SettleUp(ctx context.Context, req *connect.Request[SettleUpRequest]) (*connect.Response[SettleUpResponse], error) {
	return c.settleUp.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) ListSettlements(ctx context.Context, req *connect.Request[ListSettlementsRequest]) (*connect.Response[ListSettlementsResponse], error) {
	return c.listSettlements.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) GetBalance(ctx context.Context, req *connect.Request[GetBalanceRequest]) (*connect.Response[GetBalanceResponse], error) {
	return c.getBalance.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) GetFriendBalances(ctx context.Context, req *connect.Request[GetFriendBalancesRequest]) (*connect.Response[GetFriendBalancesResponse], error) {
	return c.getFriendBalances.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) GetPairwiseBalance(ctx context.Context, req *connect.Request[GetPairwiseBalanceRequest]) (*connect.Response[GetPairwiseBalanceResponse], error) {
	return c.getPairwiseBalance.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) ClearDebts(ctx context.Context, req *connect.Request[ClearDebtsRequest]) (*connect.Response[ClearDebtsResponse], error) {
	return c.clearDebts.CallUnary(ctx, req)
}
