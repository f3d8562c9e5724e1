package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func TestNewAccountWelcomeGrant(t *testing.T) {
	acc := NewAccount("u1", now)

	assert.Equal(t, WelcomeGrant, acc.RemainingTokens)
	assert.Equal(t, WelcomeGrant, acc.PurchasedTokens)
	assert.Equal(t, 0, acc.UsedTokens)
	assert.Equal(t, now.AddDate(0, 0, ValidityDays), acc.ExpiryDate)
	require.Len(t, acc.Transactions, 1)
	assert.Equal(t, TxCredit, acc.Transactions[0].Type)
	require.NoError(t, acc.CheckInvariants())
}

func TestSpendDebitsBalanceAndBucket(t *testing.T) {
	acc := NewAccount("u1", now)

	require.NoError(t, acc.Spend(100, "1:1 call", "", now))

	assert.Equal(t, 400, acc.RemainingTokens)
	assert.Equal(t, 100, acc.UsedTokens)
	assert.Equal(t, 100, acc.Usage[DefaultUsageType].Used)
	assert.Equal(t, 400, acc.Usage[DefaultUsageType].Remaining)
	require.Len(t, acc.Transactions, 2)
	assert.Equal(t, TxDebit, acc.Transactions[1].Type)
	require.NoError(t, acc.CheckInvariants())
}

func TestSpendInsufficientLeavesAccountUntouched(t *testing.T) {
	acc := NewAccount("u1", now)
	require.NoError(t, acc.Spend(100, "1:1 call", "", now))

	err := acc.Spend(500, "group session", "", now)

	require.ErrorIs(t, err, ErrInsufficientBalance)
	assert.Equal(t, 400, acc.RemainingTokens)
	assert.Equal(t, 100, acc.UsedTokens)
	assert.Len(t, acc.Transactions, 2)
	require.NoError(t, acc.CheckInvariants())
}

func TestSpendRejectsNonPositiveAmount(t *testing.T) {
	acc := NewAccount("u1", now)

	assert.Error(t, acc.Spend(0, "noop", "", now))
	assert.Error(t, acc.Spend(-5, "refund?", "", now))
	assert.Equal(t, WelcomeGrant, acc.RemainingTokens)
}

func TestLazyExpiry(t *testing.T) {
	acc := NewAccount("u1", now)
	later := acc.ExpiryDate.Add(24 * time.Hour)

	assert.Equal(t, 0, acc.Balance(later))
	// Stored counters are not zeroed by an expired read.
	assert.Equal(t, WelcomeGrant, acc.RemainingTokens)

	err := acc.Spend(10, "late spend", "", later)
	require.ErrorIs(t, err, ErrExpired)
	assert.Equal(t, WelcomeGrant, acc.RemainingTokens)
}

func TestAddCreditsAndExtends(t *testing.T) {
	acc := NewAccount("u1", now)
	require.NoError(t, acc.Spend(100, "1:1 call", "", now))

	err := acc.Add(AddParams{
		Amount:       50,
		Description:  "top-up",
		PlanID:       "standard",
		PlanType:     "Standard",
		ExtendExpiry: true,
	}, now.Add(time.Hour))

	require.NoError(t, err)
	assert.Equal(t, 450, acc.RemainingTokens)
	assert.Equal(t, 550, acc.PurchasedTokens)
	assert.Equal(t, "standard", acc.PlanID)
	assert.Equal(t, now.Add(time.Hour).AddDate(0, 0, ValidityDays), acc.ExpiryDate)
	require.NoError(t, acc.CheckInvariants())
}

func TestAddOnExpiredAccountAlwaysExtends(t *testing.T) {
	acc := NewAccount("u1", now)
	later := acc.ExpiryDate.Add(48 * time.Hour)

	err := acc.Add(AddParams{Amount: 25, Description: "revive", ExtendExpiry: false}, later)

	require.NoError(t, err)
	assert.Equal(t, later.AddDate(0, 0, ValidityDays), acc.ExpiryDate)
	assert.Equal(t, WelcomeGrant+25, acc.RemainingTokens)
	assert.Equal(t, "active", acc.SubscriptionStatus)
}

func TestAddNewUsageCategory(t *testing.T) {
	acc := NewAccount("u1", now)

	require.NoError(t, acc.Add(AddParams{Amount: 30, Description: "ama pack", UsageType: "ama_sessions"}, now))
	require.NoError(t, acc.Spend(10, "ama seat", "ama_sessions", now))

	bucket := acc.Usage["ama_sessions"]
	assert.Equal(t, 30, bucket.Total)
	assert.Equal(t, 10, bucket.Used)
	assert.Equal(t, 20, bucket.Remaining)
	require.NoError(t, acc.CheckInvariants())
}

// Mirrors the documented example trace: initialize 500, spend 100, fail a
// 500 spend, then top up 50.
func TestExampleTrace(t *testing.T) {
	acc := NewAccount("u1", now)
	assert.Equal(t, 500, acc.Balance(now))

	require.NoError(t, acc.Spend(100, "1:1 call", "", now))
	assert.Equal(t, 400, acc.Balance(now))
	assert.Equal(t, 100, acc.UsedTokens)

	require.Error(t, acc.Spend(500, "too much", "", now))
	assert.Equal(t, 400, acc.Balance(now))

	require.NoError(t, acc.Add(AddParams{Amount: 50, Description: "top-up"}, now))
	assert.Equal(t, 450, acc.Balance(now))
	require.NoError(t, acc.CheckInvariants())
}

func TestInvariantHoldsAcrossMixedSequence(t *testing.T) {
	acc := NewAccount("u1", now)
	steps := []func() error{
		func() error { return acc.Spend(50, "a", "", now) },
		func() error { return acc.Add(AddParams{Amount: 200, Description: "b"}, now) },
		func() error { return acc.Spend(125, "c", "ama_sessions", now) },
		func() error { return acc.Add(AddParams{Amount: 10, Description: "d", UsageType: "ama_sessions"}, now) },
		func() error { return acc.Spend(1, "e", "", now) },
	}
	for i, step := range steps {
		require.NoError(t, step(), "step %d", i)
		require.NoError(t, acc.CheckInvariants(), "step %d", i)
	}
	assert.Equal(t, acc.PurchasedTokens-acc.UsedTokens, acc.RemainingTokens)
}
