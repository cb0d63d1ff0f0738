package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/splitmate/splitmate/internal/models"
	"github.com/splitmate/splitmate/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestUserRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	user := models.NewUser("an@example.com", "An", "hash")
	require.NoError(t, store.CreateUser(ctx, user))

	byEmail, err := store.GetUserByEmail(ctx, "an@example.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, user.ID, byEmail.ID)
	assert.Equal(t, "An", byEmail.DisplayName)

	missing, err := store.GetUserByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = store.GetUserByID(ctx, "does-not-exist")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestGroupLifecycle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	group := &models.Group{
		Name:            "Da Nang Trip",
		DefaultCurrency: "VND",
		Members:         []string{"u1", "u2"},
		CreatedBy:       "u1",
	}
	require.NoError(t, store.CreateGroup(ctx, group))
	assert.NotEmpty(t, group.ID)
	assert.NotZero(t, group.CreatedAt)

	got, err := store.GetGroup(ctx, group.ID)
	require.NoError(t, err)
	assert.Equal(t, "Da Nang Trip", got.Name)
	assert.Equal(t, "VND", got.DefaultCurrency)
	assert.Equal(t, []string{"u1", "u2"}, got.Members)

	require.NoError(t, store.AddGroupMembers(ctx, group.ID, []string{"u2", "u3"}))
	got, err = store.GetGroup(ctx, group.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"u1", "u2", "u3"}, got.Members)

	byMember, err := store.ListGroupsByMember(ctx, "u3")
	require.NoError(t, err)
	require.Len(t, byMember, 1)
	assert.Equal(t, group.ID, byMember[0].ID)

	require.NoError(t, store.DeleteGroup(ctx, group.ID))
	_, err = store.GetGroup(ctx, group.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestExpenseLifecycle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	group := &models.Group{Name: "Lunch", DefaultCurrency: "VND", Members: []string{"u1", "u2"}, CreatedBy: "u1"}
	require.NoError(t, store.CreateGroup(ctx, group))

	expense := &models.Expense{
		GroupID:     group.ID,
		PayerID:     "u1",
		Amount:      300000,
		Currency:    "VND",
		Description: "bánh mì",
		CreatedBy:   "u1",
		Shares: []models.ParticipantShare{
			{MemberID: "u1", Amount: 150000},
			{MemberID: "u2", Amount: 150000},
		},
	}
	require.NoError(t, store.CreateExpense(ctx, expense))
	assert.NotEmpty(t, expense.ID)
	assert.NotZero(t, expense.Date)

	got, err := store.GetExpense(ctx, expense.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(300000), got.Amount)
	require.Len(t, got.Shares, 2)
	assert.Equal(t, int64(300000), got.ShareTotal())

	// Edit replaces shares under the same ID.
	expense.Amount = 240000
	expense.Shares = []models.ParticipantShare{
		{MemberID: "u1", Amount: 120000},
		{MemberID: "u2", Amount: 120000},
	}
	require.NoError(t, store.UpdateExpense(ctx, expense))
	got, err = store.GetExpense(ctx, expense.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(240000), got.Amount)
	assert.Equal(t, int64(240000), got.ShareTotal())

	listed, err := store.ListExpensesByGroup(ctx, group.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, expense.ID, listed[0].ID)

	require.NoError(t, store.DeleteExpense(ctx, expense.ID))
	_, err = store.GetExpense(ctx, expense.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestExpenseSharesMustSumToAmount(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	expense := &models.Expense{
		GroupID:  "g1",
		PayerID:  "u1",
		Amount:   300000,
		Currency: "VND",
		Shares: []models.ParticipantShare{
			{MemberID: "u1", Amount: 100000},
			{MemberID: "u2", Amount: 100000},
		},
	}
	err := store.CreateExpense(ctx, expense)
	assert.ErrorIs(t, err, storage.ErrSharesMismatch)
}

func TestPaymentLifecycle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	group := &models.Group{Name: "Trip", DefaultCurrency: "VND", Members: []string{"u1", "u2"}, CreatedBy: "u1"}
	require.NoError(t, store.CreateGroup(ctx, group))

	payment := &models.Payment{
		GroupID:     group.ID,
		PayerID:     "u2",
		RecipientID: "u1",
		Amount:      100000,
		Currency:    "VND",
		Description: "momo transfer",
		CreatedBy:   "u2",
	}
	require.NoError(t, store.CreatePayment(ctx, payment))
	assert.NotEmpty(t, payment.ID)

	got, err := store.GetPayment(ctx, payment.ID)
	require.NoError(t, err)
	assert.Equal(t, "u2", got.PayerID)
	assert.Equal(t, int64(100000), got.Amount)

	listed, err := store.ListPaymentsByGroup(ctx, group.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)

	require.NoError(t, store.DeletePayment(ctx, payment.ID))
	_, err = store.GetPayment(ctx, payment.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestLatestRate(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	older := &models.ExchangeRate{
		FromCurrency:  "USD",
		ToCurrency:    "VND",
		Rate:          decimal.RequireFromString("25000"),
		EffectiveDate: 1000,
	}
	newer := &models.ExchangeRate{
		FromCurrency:  "USD",
		ToCurrency:    "VND",
		Rate:          decimal.RequireFromString("25387.5"),
		EffectiveDate: 2000,
	}
	require.NoError(t, store.CreateExchangeRate(ctx, older))
	require.NoError(t, store.CreateExchangeRate(ctx, newer))

	// A date between the two effective dates picks the older rate.
	got, err := store.LatestRate(ctx, "USD", "VND", 1500)
	require.NoError(t, err)
	assert.True(t, got.Rate.Equal(older.Rate), "got %s", got.Rate)

	// A later date picks the newer rate.
	got, err = store.LatestRate(ctx, "USD", "VND", 3000)
	require.NoError(t, err)
	assert.True(t, got.Rate.Equal(newer.Rate), "got %s", got.Rate)

	// No rate effective before the earliest.
	_, err = store.LatestRate(ctx, "USD", "VND", 500)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	// Unknown pair.
	_, err = store.LatestRate(ctx, "EUR", "VND", 3000)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	rates, err := store.ListExchangeRates(ctx)
	require.NoError(t, err)
	assert.Len(t, rates, 2)
}

func TestLatestRateSameEffectiveDate(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// Two rates for the same pair and effective date: the correction
	// recorded later must win, and repeated lookups must agree.
	first := &models.ExchangeRate{
		FromCurrency:  "USD",
		ToCurrency:    "VND",
		Rate:          decimal.RequireFromString("25000"),
		EffectiveDate: 1000,
		CreatedAt:     100,
	}
	correction := &models.ExchangeRate{
		FromCurrency:  "USD",
		ToCurrency:    "VND",
		Rate:          decimal.RequireFromString("25100"),
		EffectiveDate: 1000,
		CreatedAt:     200,
	}
	require.NoError(t, store.CreateExchangeRate(ctx, first))
	require.NoError(t, store.CreateExchangeRate(ctx, correction))

	for i := 0; i < 5; i++ {
		got, err := store.LatestRate(ctx, "USD", "VND", 1500)
		require.NoError(t, err)
		assert.Equal(t, correction.ID, got.ID)
		assert.True(t, got.Rate.Equal(correction.Rate), "got %s", got.Rate)
	}
}

func TestGetUsersByIDs(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	an := models.NewUser("an@example.com", "An", "hash")
	binh := models.NewUser("binh@example.com", "Binh", "hash")
	require.NoError(t, store.CreateUser(ctx, an))
	require.NoError(t, store.CreateUser(ctx, binh))

	users, err := store.GetUsersByIDs(ctx, []string{an.ID, binh.ID, "missing"})
	require.NoError(t, err)
	assert.Len(t, users, 2)
	assert.Equal(t, "An", users[an.ID].DisplayName)
	assert.Equal(t, "binh@example.com", users[binh.ID].Email)

	empty, err := store.GetUsersByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
