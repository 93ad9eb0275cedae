package service

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/splitledger/internal/auth"
	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/metrics"
	"github.com/mmynk/splitledger/internal/middleware"
	"github.com/mmynk/splitledger/internal/storage/sqlite"
	"github.com/mmynk/splitledger/pkg/api"
)

type testEnv struct {
	authClient   *api.AuthServiceClient
	ledgerClient *api.LedgerServiceClient
}

// setupTestServer starts both services behind the production interceptors
// on a temporary SQLite database.
func setupTestServer(t *testing.T) *testEnv {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	authenticator := auth.NewPasswordAuthenticator(store, bcrypt.MinCost)
	engine := ledger.NewEngine(store, logger, metrics.New())

	mux := http.NewServeMux()
	authPath, authHandler := api.NewAuthServiceHandler(
		NewAuthService(authenticator, jwtManager, store, logger),
		connect.WithInterceptors(middleware.OptionalAuth(jwtManager)),
	)
	mux.Handle(authPath, authHandler)
	ledgerPath, ledgerHandler := api.NewLedgerServiceHandler(
		NewLedgerService(engine, store, logger),
		connect.WithInterceptors(middleware.RequireAuth(jwtManager)),
	)
	mux.Handle(ledgerPath, ledgerHandler)

	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		server.Close()
		store.Close()
	})

	return &testEnv{
		authClient:   api.NewAuthServiceClient(http.DefaultClient, server.URL),
		ledgerClient: api.NewLedgerServiceClient(http.DefaultClient, server.URL),
	}
}

type session struct {
	id    string
	token string
}

func (e *testEnv) register(t *testing.T, name string) session {
	t.Helper()
	resp, err := e.authClient.Register(context.Background(), connect.NewRequest(&api.RegisterRequest{
		Email:       name + "@example.com",
		DisplayName: name,
		Password:    "password123",
	}))
	require.NoError(t, err)
	return session{id: resp.Msg.User.ID, token: resp.Msg.Token}
}

// as builds a request carrying the session's bearer token.
func as[T any](s session, msg *T) *connect.Request[T] {
	req := connect.NewRequest(msg)
	req.Header().Set("Authorization", "Bearer "+s.token)
	return req
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertAmount(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.True(t, d(want).Equal(got), append([]any{"want %s, got %s", want, got}, msgAndArgs...)...)
}

func assertCode(t *testing.T, want connect.Code, err error) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, want, connect.CodeOf(err), err.Error())
}

func TestAuthService(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()

	alice := env.register(t, "alice")
	bob := env.register(t, "bob")

	t.Run("duplicate email", func(t *testing.T) {
		_, err := env.authClient.Register(ctx, connect.NewRequest(&api.RegisterRequest{
			Email: "ALICE@example.com", DisplayName: "Other", Password: "password123",
		}))
		assertCode(t, connect.CodeAlreadyExists, err)
	})

	t.Run("invalid registration", func(t *testing.T) {
		tests := []struct {
			name string
			req  *api.RegisterRequest
		}{
			{"weak password", &api.RegisterRequest{Email: "c@example.com", DisplayName: "C", Password: "short"}},
			{"bad email", &api.RegisterRequest{Email: "not-an-email", DisplayName: "C", Password: "password123"}},
			{"no display name", &api.RegisterRequest{Email: "c@example.com", DisplayName: " ", Password: "password123"}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := env.authClient.Register(ctx, connect.NewRequest(tt.req))
				assertCode(t, connect.CodeInvalidArgument, err)
			})
		}
	})

	t.Run("login", func(t *testing.T) {
		resp, err := env.authClient.Login(ctx, connect.NewRequest(&api.LoginRequest{
			Email: "alice@example.com", Password: "password123",
		}))
		require.NoError(t, err)
		assert.Equal(t, alice.id, resp.Msg.User.ID)
		assert.NotEmpty(t, resp.Msg.Token)

		_, err = env.authClient.Login(ctx, connect.NewRequest(&api.LoginRequest{
			Email: "alice@example.com", Password: "wrong-password",
		}))
		assertCode(t, connect.CodeUnauthenticated, err)

		_, err = env.authClient.Login(ctx, connect.NewRequest(&api.LoginRequest{Email: "alice@example.com"}))
		assertCode(t, connect.CodeInvalidArgument, err)
	})

	t.Run("current user", func(t *testing.T) {
		resp, err := env.authClient.GetCurrentUser(ctx, as(bob, &api.GetCurrentUserRequest{}))
		require.NoError(t, err)
		assert.Equal(t, bob.id, resp.Msg.User.ID)
		assert.Equal(t, "bob", resp.Msg.User.DisplayName)
		assert.False(t, resp.Msg.User.CreatedAt.IsZero())

		_, err = env.authClient.GetCurrentUser(ctx, connect.NewRequest(&api.GetCurrentUserRequest{}))
		assertCode(t, connect.CodeUnauthenticated, err)
	})

	t.Run("friends exclude caller", func(t *testing.T) {
		resp, err := env.authClient.ListFriends(ctx, as(alice, &api.ListFriendsRequest{}))
		require.NoError(t, err)
		require.Len(t, resp.Msg.Friends, 1)
		assert.Equal(t, bob.id, resp.Msg.Friends[0].ID)
	})
}

func TestLedgerService(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	client := env.ledgerClient

	alice := env.register(t, "alice")
	bob := env.register(t, "bob")
	carol := env.register(t, "carol")
	dave := env.register(t, "dave")

	_, err := client.GetBalance(ctx, connect.NewRequest(&api.GetBalanceRequest{}))
	assertCode(t, connect.CodeUnauthenticated, err)

	// Pizza is shared three ways; the wine has no participants so it falls
	// on the payer.
	created, err := client.CreateExpense(ctx, as(alice, &api.CreateExpenseRequest{
		Description: "Dinner",
		Tax:         d("0"),
		Items: []api.ItemInput{
			{Name: "Pizza", Amount: d("30"), ParticipantIDs: []string{alice.id, bob.id, carol.id}},
			{Name: "Wine", Amount: d("20")},
		},
	}))
	require.NoError(t, err)
	expense := created.Msg.Expense
	assert.Equal(t, alice.id, expense.PayerID)
	assertAmount(t, "50", expense.TotalAmount)
	require.Len(t, expense.Items, 2)
	assert.Empty(t, expense.Items[0].AssignedUserID)
	assert.Equal(t, alice.id, expense.Items[1].AssignedUserID)

	splits := make(map[string]decimal.Decimal)
	for _, sp := range expense.Splits {
		splits[sp.UserID] = sp.Amount
	}
	assertAmount(t, "30", splits[alice.id])
	assertAmount(t, "10", splits[bob.id])
	assertAmount(t, "10", splits[carol.id])

	t.Run("get expense", func(t *testing.T) {
		resp, err := client.GetExpense(ctx, as(carol, &api.GetExpenseRequest{ExpenseID: expense.ID}))
		require.NoError(t, err)
		assert.Equal(t, "Dinner", resp.Msg.Expense.Description)

		_, err = client.GetExpense(ctx, as(dave, &api.GetExpenseRequest{ExpenseID: expense.ID}))
		assertCode(t, connect.CodePermissionDenied, err)

		_, err = client.GetExpense(ctx, as(alice, &api.GetExpenseRequest{ExpenseID: "missing"}))
		assertCode(t, connect.CodeNotFound, err)
	})

	t.Run("list expenses", func(t *testing.T) {
		resp, err := client.ListExpenses(ctx, as(alice, &api.ListExpensesRequest{}))
		require.NoError(t, err)
		assert.Len(t, resp.Msg.Expenses, 1)

		resp, err = client.ListExpenses(ctx, as(bob, &api.ListExpensesRequest{}))
		require.NoError(t, err)
		assert.Empty(t, resp.Msg.Expenses)
	})

	t.Run("balances before settling", func(t *testing.T) {
		resp, err := client.GetBalance(ctx, as(alice, &api.GetBalanceRequest{}))
		require.NoError(t, err)
		assertAmount(t, "20", resp.Msg.OwedToMe)
		assertAmount(t, "0", resp.Msg.IOwe)
		assertAmount(t, "20", resp.Msg.Net)

		pair, err := client.GetPairwiseBalance(ctx, as(bob, &api.GetPairwiseBalanceRequest{FriendID: alice.id}))
		require.NoError(t, err)
		assertAmount(t, "0", pair.Msg.OwesMe)
		assertAmount(t, "10", pair.Msg.IOwe)
		assertAmount(t, "-10", pair.Msg.Net)
	})

	t.Run("settle up", func(t *testing.T) {
		resp, err := client.SettleUp(ctx, as(bob, &api.SettleUpRequest{PayeeID: alice.id, Note: "cash"}))
		require.NoError(t, err)
		assertAmount(t, "10", resp.Msg.Settlement.Amount)
		assert.Equal(t, bob.id, resp.Msg.Settlement.PayerID)
		assert.Equal(t, "cash", resp.Msg.Settlement.Note)

		_, err = client.SettleUp(ctx, as(bob, &api.SettleUpRequest{PayeeID: alice.id}))
		assertCode(t, connect.CodeFailedPrecondition, err)

		balance, err := client.GetBalance(ctx, as(bob, &api.GetBalanceRequest{}))
		require.NoError(t, err)
		assertAmount(t, "0", balance.Msg.IOwe)

		friends, err := client.GetFriendBalances(ctx, as(alice, &api.GetFriendBalancesRequest{}))
		require.NoError(t, err)
		assert.Len(t, friends.Msg.OweMe, 1)
		assertAmount(t, "10", friends.Msg.OweMe[carol.id])
		assert.Empty(t, friends.Msg.IOwe)

		list, err := client.ListSettlements(ctx, as(alice, &api.ListSettlementsRequest{}))
		require.NoError(t, err)
		assert.Len(t, list.Msg.Settlements, 1)
	})

	t.Run("manual settlement", func(t *testing.T) {
		_, err := client.CreateSettlement(ctx, as(carol, &api.CreateSettlementRequest{PayeeID: alice.id, Amount: d("0")}))
		assertCode(t, connect.CodeInvalidArgument, err)

		_, err = client.CreateSettlement(ctx, as(carol, &api.CreateSettlementRequest{PayeeID: carol.id, Amount: d("1")}))
		assertCode(t, connect.CodeInvalidArgument, err)

		_, err = client.CreateSettlement(ctx, as(carol, &api.CreateSettlementRequest{PayeeID: "nobody", Amount: d("1")}))
		assertCode(t, connect.CodeNotFound, err)

		resp, err := client.CreateSettlement(ctx, as(carol, &api.CreateSettlementRequest{PayeeID: alice.id, Amount: d("4")}))
		require.NoError(t, err)
		assertAmount(t, "4", resp.Msg.Settlement.Amount)

		pair, err := client.GetPairwiseBalance(ctx, as(alice, &api.GetPairwiseBalanceRequest{FriendID: carol.id}))
		require.NoError(t, err)
		assertAmount(t, "6", pair.Msg.OwesMe)
	})

	t.Run("clear debts", func(t *testing.T) {
		resp, err := client.ClearDebts(ctx, as(alice, &api.ClearDebtsRequest{FriendID: carol.id}))
		require.NoError(t, err)
		assert.Equal(t, int64(1), resp.Msg.SplitsRemoved)

		_, err = client.ClearDebts(ctx, as(alice, &api.ClearDebtsRequest{FriendID: "nobody"}))
		assertCode(t, connect.CodeNotFound, err)
	})

	t.Run("validation", func(t *testing.T) {
		_, err := client.CreateExpense(ctx, as(alice, &api.CreateExpenseRequest{
			Description: " ",
			Items:       []api.ItemInput{{Name: "x", Amount: d("1")}},
		}))
		assertCode(t, connect.CodeInvalidArgument, err)

		_, err = client.CreateExpense(ctx, as(alice, &api.CreateExpenseRequest{
			Description: "Taxi",
			Items:       []api.ItemInput{{Name: "ride", Amount: d("-5")}},
		}))
		assertCode(t, connect.CodeInvalidArgument, err)

		_, err = client.CreateExpense(ctx, as(alice, &api.CreateExpenseRequest{
			Description: "Taxi",
			Items:       []api.ItemInput{{Name: "ride", Amount: d("5"), ParticipantIDs: []string{"ghost"}}},
		}))
		assertCode(t, connect.CodeNotFound, err)

		_, err = client.GetPairwiseBalance(ctx, as(alice, &api.GetPairwiseBalanceRequest{FriendID: "ghost"}))
		assertCode(t, connect.CodeNotFound, err)

		_, err = client.GetPairwiseBalance(ctx, as(alice, &api.GetPairwiseBalanceRequest{FriendID: alice.id}))
		assertCode(t, connect.CodeInvalidArgument, err)
	})
}
