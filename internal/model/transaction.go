package model

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType carries the sign of a transaction.
type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

// Valid reports whether t is income or expense.
func (t TransactionType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Transaction is a single dated money movement.
//
// Amount is never negative; the direction lives in Type. Category holds the
// category's name, not its ID, and is not kept in sync with the categories
// collection.
type Transaction struct {
	ID          string          `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Type        TransactionType `json:"type"`
	Date        Date            `json:"date"`
	IsRecurring bool            `json:"isRecurring,omitempty"` // informational only
}

// transactionJSON is the stored layout of a Transaction. Amount is written
// as a bare JSON number.
type transactionJSON struct {
	ID          string          `json:"id"`
	Amount      json.Number     `json:"amount"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Type        TransactionType `json:"type"`
	Date        Date            `json:"date"`
	IsRecurring bool            `json:"isRecurring,omitempty"`
}

// MarshalJSON writes the amount as a number. Decoding accepts a number or a
// quoted string.
func (t Transaction) MarshalJSON() ([]byte, error) {
	return json.Marshal(transactionJSON{
		ID:          t.ID,
		Amount:      json.Number(t.Amount.String()),
		Description: t.Description,
		Category:    t.Category,
		Type:        t.Type,
		Date:        t.Date,
		IsRecurring: t.IsRecurring,
	})
}

// IsIncome reports whether the transaction is income.
func (t Transaction) IsIncome() bool { return t.Type == TypeIncome }

// IsExpense reports whether the transaction is an expense.
func (t Transaction) IsExpense() bool { return t.Type == TypeExpense }

// NewTransaction is a transaction payload before an ID is assigned.
type NewTransaction struct {
	Amount      decimal.Decimal
	Description string
	Category    string
	Type        TransactionType
	Date        Date
	IsRecurring bool
}

// WithID builds the stored record.
func (n NewTransaction) WithID(id string) Transaction {
	return Transaction{
		ID:          id,
		Amount:      n.Amount,
		Description: n.Description,
		Category:    n.Category,
		Type:        n.Type,
		Date:        n.Date,
		IsRecurring: n.IsRecurring,
	}
}

// TransactionPatch is a partial update. Nil fields are left unchanged.
type TransactionPatch struct {
	Amount      *decimal.Decimal
	Description *string
	Category    *string
	Type        *TransactionType
	Date        *Date
	IsRecurring *bool
}

// Apply merges the patch onto t. The ID is never changed.
func (p TransactionPatch) Apply(t Transaction) Transaction {
	if p.Amount != nil {
		t.Amount = *p.Amount
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.Type != nil {
		t.Type = *p.Type
	}
	if p.Date != nil {
		t.Date = *p.Date
	}
	if p.IsRecurring != nil {
		t.IsRecurring = *p.IsRecurring
	}
	return t
}

// Empty reports whether the patch changes nothing.
func (p TransactionPatch) Empty() bool {
	return p == TransactionPatch{}
}

// BankTransaction represents a parsed bank CSV row.
type BankTransaction struct {
	Date        time.Time
	Description string
	Amount      decimal.Decimal // negative = expense, positive = income
	Type        string          // bank transaction type (ACH_DEBIT, etc.)
	Category    string          // set only by formats that carry one
}

// ToNewTransaction converts a bank row into a transaction payload. The row's
// own category wins over fallback.
func (b BankTransaction) ToNewTransaction(fallback string) NewTransaction {
	category := b.Category
	if category == "" {
		category = fallback
	}
	typ := TypeIncome
	if b.Amount.IsNegative() {
		typ = TypeExpense
	}
	return NewTransaction{
		Amount:      b.Amount.Abs(),
		Description: b.Description,
		Category:    category,
		Type:        typ,
		Date:        DateOf(b.Date),
	}
}
