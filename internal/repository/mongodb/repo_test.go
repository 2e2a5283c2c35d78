package mongodb

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/baharkarakas/finflow-backend/internal/models"
	"github.com/baharkarakas/finflow-backend/internal/query"
	"github.com/baharkarakas/finflow-backend/internal/repository"
	"github.com/baharkarakas/finflow-backend/internal/repository/memory"
)

var now = time.Date(2025, 4, 10, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return now }

func newRepos(coll *fakeCollection) (*transactionsRepo, *accountsRepo) {
	fn := func(context.Context) (collection, error) { return coll, nil }
	return &transactionsRepo{coll: fn, now: fixedNow}, &accountsRepo{coll: fn, now: fixedNow}
}

func fixture() []models.Transaction {
	mk := func(id, user, account string, typ models.TransactionType, daysAgo int, desc, cp, cat, amount string) models.Transaction {
		return models.Transaction{
			ID: id, UserID: user, AccountID: account, Type: typ,
			Date:        now.AddDate(0, 0, -daysAgo),
			Description: desc, Counterparty: cp, Category: cat,
			Amount: decimal.RequireFromString(amount), Status: models.TxnCompleted, Currency: "USD",
		}
	}
	return []models.Transaction{
		mk("1", "u1", "acc-1", models.TxnCredit, 5, "Salary Deposit", "ABC Company", "Income", "3500"),
		mk("2", "u1", "acc-1", models.TxnDebit, 6, "Grocery Shopping", "Whole Foods", "Food", "87.45"),
		mk("3", "u1", "acc-2", models.TxnDebit, 6, "Online Purchase", "Amazon", "Shopping", "129.99"),
		mk("4", "u1", "acc-1", models.TxnDebit, 8, "Utility Bill", "Energy Provider", "Bills", "65.00"),
		mk("5", "u1", "", models.TxnDebit, 9, "Restaurant Payment", "Local Bistro", "Dining", "42.75"),
		mk("6", "u1", "acc-2", models.TxnCredit, 13, "Freelance Payment", "Client XYZ", "Income", "750"),
		mk("7", "u1", "acc-1", models.TxnDebit, 16, "Mobile Phone Bill", "Telecom Provider", "Bills", "35.99"),
		mk("8", "u1", "acc-1", models.TxnDebit, 21, "Gym Membership", "", "Health", "49.99"),
		mk("9", "u2", "acc-9", models.TxnDebit, 26, "Book Purchase", "Book Store", "Entertainment", "24.95"),
		mk("10", "u1", "acc-2", models.TxnCredit, 31, "Investment Dividend", "Investment Fund", "Investment", "125.50"),
		mk("11", "u1", "acc-1", models.TxnDebit, 36, "Transfer to Savings (monthly)", "Own Account", "Transfer", "300"),
		mk("12", "u1", "acc-1", models.TxnDebit, 400, "Car Insurance", "Insurance Co.", "Insurance", "89.75"),
	}
}

func ids(txs []models.Transaction) []string {
	out := []string{}
	for _, tx := range txs {
		out = append(out, tx.ID)
	}
	return out
}

func TestBuildFilter(t *testing.T) {
	assert.Empty(t, buildFilter(query.Criteria{Type: models.TypeAll}))

	since := now.AddDate(0, 0, -7)
	f := buildFilter(query.Criteria{
		UserID: "u1", AccountID: "acc-1", Type: models.TypeDebit, Category: "Bills",
		Since: &since, Search: "a.b(",
	})
	assert.Equal(t, "u1", f["userId"])
	assert.Equal(t, "acc-1", f["accountId"])
	assert.Equal(t, "debit", f["type"])
	assert.Equal(t, "Bills", f["category"])
	assert.Equal(t, bson.M{"$gte": since}, f["date"])

	or, ok := f["$or"].(bson.A)
	require.True(t, ok)
	require.Len(t, or, 3)
	assert.Equal(t, bson.M{"description": bson.M{"$regex": `a\.b\(`, "$options": "i"}}, or[0])
	assert.Equal(t, bson.M{"counterparty": bson.M{"$regex": `a\.b\(`, "$options": "i"}}, or[1])
	assert.Equal(t, bson.M{"category": bson.M{"$regex": `a\.b\(`, "$options": "i"}}, or[2])
}

func TestQuery_UsesNativeSortSkipLimit(t *testing.T) {
	ctx := context.Background()
	coll := &fakeCollection{}
	txs, _ := newRepos(coll)
	for _, tx := range fixture() {
		_, err := txs.Create(ctx, tx)
		require.NoError(t, err)
	}

	got, err := txs.Query(ctx, query.Criteria{UserID: "u1"}, repository.Window{Skip: 2, Limit: 3})
	require.NoError(t, err)
	assert.Equal(t, []string{"3", "4", "5"}, ids(got))

	require.NotNil(t, coll.lastFind)
	assert.Equal(t, sortNewestFirst, coll.lastFind.Sort)
	assert.EqualValues(t, 2, *coll.lastFind.Skip)
	assert.EqualValues(t, 3, *coll.lastFind.Limit)
}

func TestMatchesMemoryStore(t *testing.T) {
	ctx := context.Background()
	mem := memory.NewSet(memory.NewStore()).Transactions
	mtx, _ := newRepos(&fakeCollection{})
	for _, tx := range fixture() {
		_, err := mem.Create(ctx, tx)
		require.NoError(t, err)
		_, err = mtx.Create(ctx, tx)
		require.NoError(t, err)
	}

	queries := []models.TransactionQuery{
		{},
		{Search: "amazon"},
		{Search: "BILL"},
		{Search: "(monthly)"},
		{Type: models.TypeCredit},
		{Type: models.TypeDebit, DateRange: models.RangeMonth},
		{DateRange: models.RangeWeek},
		{DateRange: models.RangeYear, AccountID: "acc-1"},
		{AccountID: "acc-2", Search: "payment"},
		{Category: "Bills"},
		{Type: "nonsense", DateRange: "decade"},
	}
	windows := []repository.Window{{}, {Skip: 0, Limit: 5}, {Skip: 5, Limit: 5}, {Skip: 50, Limit: 5}}

	for _, scope := range []string{"u1", "u2"} {
		for _, q := range queries {
			c := query.Resolve(scope, q.Normalize(), now)
			wantN, err := mem.Count(ctx, c)
			require.NoError(t, err)
			gotN, err := mtx.Count(ctx, c)
			require.NoError(t, err)
			assert.Equal(t, wantN, gotN, "count %s %+v", scope, q)

			for _, w := range windows {
				want, err := mem.Query(ctx, c, w)
				require.NoError(t, err)
				got, err := mtx.Query(ctx, c, w)
				require.NoError(t, err)
				assert.Equal(t, ids(want), ids(got), "query %s %+v %+v", scope, q, w)
			}
		}
	}
}

func TestAmountRoundTrip(t *testing.T) {
	ctx := context.Background()
	txs, _ := newRepos(&fakeCollection{})
	for _, tx := range fixture() {
		_, err := txs.Create(ctx, tx)
		require.NoError(t, err)
	}
	got, err := txs.GetByID(ctx, "3")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, decimal.RequireFromString("129.99").Equal(got.Amount))
	assert.Equal(t, "Amazon", got.Counterparty)
	assert.True(t, got.Date.Equal(now.AddDate(0, 0, -6)))
}

func TestGetByID_MissingIsNil(t *testing.T) {
	txs, _ := newRepos(&fakeCollection{})
	got, err := txs.GetByID(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUpdateStatus(t *testing.T) {
	ctx := context.Background()
	txs, _ := newRepos(&fakeCollection{})
	created, err := txs.Create(ctx, models.Transaction{UserID: "u1", Date: now, Amount: decimal.NewFromInt(1), Type: models.TxnDebit})
	require.NoError(t, err)
	assert.Equal(t, models.TxnPending, created.Status)

	require.NoError(t, txs.UpdateStatus(ctx, created.ID, models.TxnCompleted))
	got, err := txs.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TxnCompleted, got.Status)

	assert.ErrorIs(t, txs.UpdateStatus(ctx, "missing", models.TxnFailed), repository.ErrNotFound)
}

func TestStoreErrorsPropagate(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("server selection timeout")
	txs, _ := newRepos(&fakeCollection{err: boom})

	_, err := txs.Query(ctx, query.Criteria{UserID: "u1"}, repository.Window{})
	assert.ErrorIs(t, err, boom)
	_, err = txs.Count(ctx, query.Criteria{UserID: "u1"})
	assert.ErrorIs(t, err, boom)
	_, err = txs.GetByID(ctx, "1")
	assert.ErrorIs(t, err, boom)

	unreachable := &transactionsRepo{
		coll: func(context.Context) (collection, error) { return nil, boom },
		now:  fixedNow,
	}
	_, err = unreachable.Query(ctx, query.Criteria{UserID: "u1"}, repository.Window{})
	assert.ErrorIs(t, err, boom)
}

func TestAccounts(t *testing.T) {
	ctx := context.Background()
	_, accts := newRepos(&fakeCollection{})
	rate := decimal.RequireFromString("2.5")

	a, err := accts.Create(ctx, models.Account{
		UserID: "u1", AccountNumber: "0987654321", AccountType: models.AccountSavings,
		Balance: decimal.RequireFromString("12750.50"), Currency: "USD", Status: models.AccountActive,
		Name: "Savings Account", InterestRate: &rate, CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)
	require.NotEmpty(t, a.ID)

	list, err := accts.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].InterestRate)
	assert.True(t, rate.Equal(*list[0].InterestRate))
	assert.Nil(t, list[0].MinimumBalance)

	status := models.AccountFrozen
	updated, err := accts.Update(ctx, a.ID, models.AccountUpdate{Status: &status})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, models.AccountFrozen, updated.Status)
	assert.Equal(t, "0987654321", updated.AccountNumber)

	_, err = accts.Update(ctx, "missing", models.AccountUpdate{Status: &status})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	missing, err := accts.GetByID(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestUsers(t *testing.T) {
	ctx := context.Background()
	coll := &fakeCollection{}
	users := &usersRepo{coll: func(context.Context) (collection, error) { return coll, nil }, now: fixedNow}

	created, err := users.Create(ctx, models.User{
		ID: "u1", Name: "John Doe", Email: "John.Doe@example.com", Role: models.RoleTeller,
		Address: &models.Address{Street: "123 Main St", City: "Anytown"},
	})
	require.NoError(t, err)
	assert.Equal(t, now, created.CreatedAt)

	_, err = users.Create(ctx, models.User{Name: "Other", Email: "john.doe@EXAMPLE.com"})
	assert.ErrorContains(t, err, "already registered")

	got, err := users.GetByEmail(ctx, " JOHN.DOE@example.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, models.RoleTeller, got.Role)
	assert.Equal(t, "Anytown", got.Address.City)

	name := "Johnny"
	updated, err := users.Update(ctx, "u1", models.UserUpdate{Name: &name, Address: &models.Address{City: "Elsewhere"}})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "Johnny", updated.Name)
	assert.Equal(t, "Elsewhere", updated.Address.City)
	assert.Empty(t, updated.Address.Street)
	assert.Equal(t, models.RoleTeller, updated.Role)

	_, err = users.Update(ctx, "missing", models.UserUpdate{Name: &name})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	missing, err := users.GetByID(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
