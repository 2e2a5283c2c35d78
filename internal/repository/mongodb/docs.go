package mongodb

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/baharkarakas/finflow-backend/internal/models"
)

// transactionDoc is the stored shape. _id is assigned by the driver and only
// used as the insertion-order tiebreaker; "id" is the public identifier.
type transactionDoc struct {
	OID          primitive.ObjectID   `bson:"_id,omitempty"`
	ID           string               `bson:"id"`
	UserID       string               `bson:"userId"`
	AccountID    string               `bson:"accountId,omitempty"`
	Date         time.Time            `bson:"date"`
	Description  string               `bson:"description"`
	Amount       primitive.Decimal128 `bson:"amount"`
	Type         string               `bson:"type"`
	Category     string               `bson:"category"`
	Status       string               `bson:"status"`
	Counterparty string               `bson:"counterparty,omitempty"`
	Reference    string               `bson:"reference,omitempty"`
	Currency     string               `bson:"currency"`
	CreatedAt    time.Time            `bson:"createdAt"`
	UpdatedAt    time.Time            `bson:"updatedAt"`
}

func toTransactionDoc(tx models.Transaction) (transactionDoc, error) {
	amount, err := toDecimal128(tx.Amount)
	if err != nil {
		return transactionDoc{}, err
	}
	return transactionDoc{
		ID:           tx.ID,
		UserID:       tx.UserID,
		AccountID:    tx.AccountID,
		Date:         tx.Date.UTC(),
		Description:  tx.Description,
		Amount:       amount,
		Type:         string(tx.Type),
		Category:     tx.Category,
		Status:       string(tx.Status),
		Counterparty: tx.Counterparty,
		Reference:    tx.Reference,
		Currency:     tx.Currency,
		CreatedAt:    tx.CreatedAt.UTC(),
		UpdatedAt:    tx.UpdatedAt.UTC(),
	}, nil
}

func (d transactionDoc) model() (models.Transaction, error) {
	amount, err := fromDecimal128(d.Amount)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("transaction %s: %w", d.ID, err)
	}
	return models.Transaction{
		ID:           d.ID,
		UserID:       d.UserID,
		AccountID:    d.AccountID,
		Date:         d.Date,
		Description:  d.Description,
		Amount:       amount,
		Type:         models.TransactionType(d.Type),
		Category:     d.Category,
		Status:       models.TransactionStatus(d.Status),
		Counterparty: d.Counterparty,
		Reference:    d.Reference,
		Currency:     d.Currency,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}, nil
}

type accountDoc struct {
	ID             string                `bson:"id"`
	UserID         string                `bson:"userId"`
	AccountNumber  string                `bson:"accountNumber"`
	AccountType    string                `bson:"accountType"`
	Balance        primitive.Decimal128  `bson:"balance"`
	Currency       string                `bson:"currency"`
	Status         string                `bson:"status"`
	Name           string                `bson:"name"`
	IsDefault      bool                  `bson:"isDefault"`
	InterestRate   *primitive.Decimal128 `bson:"interestRate,omitempty"`
	MinimumBalance *primitive.Decimal128 `bson:"minimumBalance,omitempty"`
	CreatedAt      time.Time             `bson:"createdAt"`
	UpdatedAt      time.Time             `bson:"updatedAt"`
}

func toAccountDoc(a models.Account) (accountDoc, error) {
	balance, err := toDecimal128(a.Balance)
	if err != nil {
		return accountDoc{}, err
	}
	rate, err := toDecimal128Ptr(a.InterestRate)
	if err != nil {
		return accountDoc{}, err
	}
	minimum, err := toDecimal128Ptr(a.MinimumBalance)
	if err != nil {
		return accountDoc{}, err
	}
	return accountDoc{
		ID:             a.ID,
		UserID:         a.UserID,
		AccountNumber:  a.AccountNumber,
		AccountType:    string(a.AccountType),
		Balance:        balance,
		Currency:       a.Currency,
		Status:         string(a.Status),
		Name:           a.Name,
		IsDefault:      a.IsDefault,
		InterestRate:   rate,
		MinimumBalance: minimum,
		CreatedAt:      a.CreatedAt.UTC(),
		UpdatedAt:      a.UpdatedAt.UTC(),
	}, nil
}

func (d accountDoc) model() (models.Account, error) {
	balance, err := fromDecimal128(d.Balance)
	if err != nil {
		return models.Account{}, fmt.Errorf("account %s: %w", d.ID, err)
	}
	a := models.Account{
		ID:            d.ID,
		UserID:        d.UserID,
		AccountNumber: d.AccountNumber,
		AccountType:   models.AccountType(d.AccountType),
		Balance:       balance,
		Currency:      d.Currency,
		Status:        models.AccountStatus(d.Status),
		Name:          d.Name,
		IsDefault:     d.IsDefault,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
	if d.InterestRate != nil {
		v, err := fromDecimal128(*d.InterestRate)
		if err != nil {
			return models.Account{}, err
		}
		a.InterestRate = &v
	}
	if d.MinimumBalance != nil {
		v, err := fromDecimal128(*d.MinimumBalance)
		if err != nil {
			return models.Account{}, err
		}
		a.MinimumBalance = &v
	}
	return a, nil
}

func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	v, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		return primitive.Decimal128{}, fmt.Errorf("encode amount %s: %w", d, err)
	}
	return v, nil
}

func toDecimal128Ptr(d *decimal.Decimal) (*primitive.Decimal128, error) {
	if d == nil {
		return nil, nil
	}
	v, err := toDecimal128(*d)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func fromDecimal128(v primitive.Decimal128) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(v.String())
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("decode amount %q: %w", v.String(), err)
	}
	return d, nil
}
