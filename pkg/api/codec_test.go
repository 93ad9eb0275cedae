package api

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodec(t *testing.T) {
	c := Codec{}
	assert.Equal(t, "json", c.Name())

	data, err := c.Marshal(&GetBalanceResponse{
		OwedToMe: decimal.RequireFromString("10.10"),
		IOwe:     decimal.Zero,
		Net:      decimal.RequireFromString("10.10"),
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"owed_to_me":"10.1","i_owe":"0","net":"10.1"}`, string(data))

	var req CreateSettlementRequest
	require.NoError(t, c.Unmarshal([]byte(`{"payee_id":"u1","amount":"0.30"}`), &req))
	assert.Equal(t, "u1", req.PayeeID)
	assert.True(t, req.Amount.Equal(decimal.RequireFromString("0.3")))

	// numeric JSON amounts are accepted too
	require.NoError(t, c.Unmarshal([]byte(`{"payee_id":"u1","amount":12.5}`), &req))
	assert.True(t, req.Amount.Equal(decimal.RequireFromString("12.5")))

	var empty GetBalanceRequest
	assert.NoError(t, c.Unmarshal(nil, &empty))

	assert.Error(t, c.Unmarshal([]byte(`{"amount":"abc"}`), &req))
}
