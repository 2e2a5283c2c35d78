// Package seed builds the demo dataset and loads it into any store.
package seed

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/baharkarakas/finflow-backend/internal/models"
)

// DemoUserID is stable so tokens issued for the demo user survive re-seeding.
var DemoUserID = uuid.NewSHA1(uuid.NameSpaceURL, []byte("finflow:demo:john.doe@example.com")).String()

const DefaultRandom = 50

// AdminUserID is the demo teller.
var AdminUserID = uuid.NewSHA1(uuid.NameSpaceURL, []byte("finflow:demo:admin@finflow.com")).String()

type Dataset struct {
	UserID       string
	Users        []models.User
	Accounts     []models.Account
	Transactions []models.Transaction
}

func stableID(kind string, n int) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(fmt.Sprintf("finflow:demo:%s:%d", kind, n))).String()
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func users(now time.Time) []models.User {
	return []models.User{
		{
			ID: DemoUserID, Name: "John Doe", Email: "john.doe@example.com", Role: models.RoleCustomer,
			ProfileURL: "https://randomuser.me/api/portraits/men/1.jpg", Phone: "+1 (555) 123-4567",
			Address: &models.Address{
				Street: "123 Main St", City: "Anytown", State: "CA", ZipCode: "12345", Country: "USA",
			},
			CreatedAt: now, UpdatedAt: now,
		},
		{
			ID: AdminUserID, Name: "Admin User", Email: "admin@finflow.com", Role: models.RoleTeller,
			CreatedAt: now, UpdatedAt: now,
		},
	}
}

func accounts(userID string, now time.Time) []models.Account {
	base := []models.Account{
		{
			AccountNumber: "1234567890", AccountType: models.AccountChecking, Balance: dec("5240.75"),
			Name: "Primary Checking", IsDefault: true, MinimumBalance: decPtr("100"),
		},
		{
			AccountNumber: "0987654321", AccountType: models.AccountSavings, Balance: dec("12750.50"),
			Name: "Savings Account", InterestRate: decPtr("2.5"), MinimumBalance: decPtr("500"),
		},
		{
			AccountNumber: "5678901234", AccountType: models.AccountInvestment, Balance: dec("32000.00"),
			Name: "Investment Portfolio",
		},
	}
	for i := range base {
		base[i].ID = stableID("account", i)
		base[i].UserID = userID
		base[i].Currency = "USD"
		base[i].Status = models.AccountActive
		base[i].CreatedAt, base[i].UpdatedAt = now, now
	}
	return base
}

type mock struct {
	month       time.Month
	day         int
	desc        string
	amount      string
	typ         models.TransactionType
	category    string
	counterpart string
}

var canonical = []mock{
	{time.April, 5, "Salary Deposit", "3500", models.TxnCredit, "Income", "ABC Company"},
	{time.April, 4, "Grocery Shopping", "87.45", models.TxnDebit, "Food", "Whole Foods"},
	{time.April, 3, "Online Purchase", "129.99", models.TxnDebit, "Shopping", "Amazon"},
	{time.April, 2, "Utility Bill", "65.00", models.TxnDebit, "Bills", "Energy Provider"},
	{time.April, 1, "Restaurant Payment", "42.75", models.TxnDebit, "Dining", "Local Bistro"},
	{time.March, 28, "Freelance Payment", "750", models.TxnCredit, "Income", "Client XYZ"},
	{time.March, 25, "Mobile Phone Bill", "35.99", models.TxnDebit, "Bills", "Telecom Provider"},
	{time.March, 20, "Gym Membership", "49.99", models.TxnDebit, "Health", "Fitness Club"},
	{time.March, 15, "Book Purchase", "24.95", models.TxnDebit, "Entertainment", "Book Store"},
	{time.March, 10, "Investment Dividend", "125.50", models.TxnCredit, "Investment", "Investment Fund"},
	{time.March, 5, "Transfer to Savings", "300", models.TxnDebit, "Transfer", "Own Account"},
	{time.March, 1, "Car Insurance", "89.75", models.TxnDebit, "Insurance", "Insurance Co."},
}

// Canonical returns the twelve fixed 2025 transactions, newest first.
func Canonical(userID string) []models.Transaction {
	out := make([]models.Transaction, 0, len(canonical))
	for i, m := range canonical {
		d := time.Date(2025, m.month, m.day, 0, 0, 0, 0, time.UTC)
		out = append(out, models.Transaction{
			ID:           stableID("mock", i+1),
			UserID:       userID,
			Date:         d,
			Description:  m.desc,
			Amount:       dec(m.amount),
			Type:         m.typ,
			Category:     m.category,
			Status:       models.TxnCompleted,
			Counterparty: m.counterpart,
			Currency:     "USD",
			CreatedAt:    d,
			UpdatedAt:    d,
		})
	}
	return out
}

var (
	categories = []string{"Income", "Food", "Shopping", "Bills", "Dining", "Entertainment", "Health", "Insurance", "Investment", "Transfer"}

	counterparties = []string{
		"ABC Company", "Whole Foods", "Amazon", "Energy Provider", "Local Bistro", "Client XYZ",
		"Telecom Provider", "Fitness Club", "Book Store", "Investment Fund", "Own Account",
		"Insurance Co.", "Target", "Walmart", "Netflix", "Uber", "Gas Station", "Coffee Shop",
	}

	creditDescriptions = []string{"Salary Deposit", "Freelance Payment", "Investment Return", "Refund", "Transfer Received"}
	debitDescriptions  = []string{"Purchase", "Payment", "Bill", "Subscription", "Transfer"}
)

// Random draws n transactions dated within the six months before now. The
// same seed always yields the same records.
func Random(userID string, accts []models.Account, now time.Time, n int, seed uint64) []models.Transaction {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	start := now.AddDate(0, -6, 0)
	span := now.Sub(start)

	out := make([]models.Transaction, 0, n)
	for i := 0; i < n; i++ {
		credit := rng.Float64() > 0.7
		var amount int
		var desc string
		typ := models.TxnDebit
		if credit {
			typ = models.TxnCredit
			amount = rng.IntN(3000) + 500
			desc = creditDescriptions[rng.IntN(len(creditDescriptions))]
		} else {
			amount = rng.IntN(500) + 10
			desc = debitDescriptions[rng.IntN(len(debitDescriptions))]
		}
		date := start.Add(time.Duration(rng.Int64N(int64(span)))).Truncate(time.Second).UTC()

		status := models.TxnCompleted
		if rng.Float64() > 0.9 {
			status = models.TxnPending
		}
		tx := models.Transaction{
			ID:           stableID(fmt.Sprintf("random-%d", seed), i),
			UserID:       userID,
			Date:         date,
			Description:  desc,
			Amount:       decimal.NewFromInt(int64(amount)),
			Type:         typ,
			Category:     categories[rng.IntN(len(categories))],
			Status:       status,
			Counterparty: counterparties[rng.IntN(len(counterparties))],
			Reference:    fmt.Sprintf("REF-%d", rng.IntN(1_000_000)),
			Currency:     "USD",
			CreatedAt:    date,
			UpdatedAt:    date,
		}
		if len(accts) > 0 {
			tx.AccountID = accts[rng.IntN(len(accts))].ID
		}
		out = append(out, tx)
	}
	return out
}

// Demo assembles the demo customer and teller, three accounts, the canonical transactions
// and n random ones.
func Demo(now time.Time, n int, seed uint64) Dataset {
	now = now.UTC().Truncate(time.Second)
	accts := accounts(DemoUserID, now)
	txs := append(Canonical(DemoUserID), Random(DemoUserID, accts, now, n, seed)...)
	return Dataset{UserID: DemoUserID, Users: users(now), Accounts: accts, Transactions: txs}
}
