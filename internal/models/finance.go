package models

import (
	"time"

	"github.com/starford/syndic/internal/apperr"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// FinanceType tells whether an entry adds to or subtracts from the balance.
type FinanceType string

const (
	FinanceIncome  FinanceType = "INCOME"
	FinanceExpense FinanceType = "EXPENSE"
)

// FinanceEntry is one income or expense line. Amount is always positive.
type FinanceEntry struct {
	ID        int64       `json:"id"`
	Title     string      `json:"title"`
	Amount    float64     `json:"amount"`
	Type      FinanceType `json:"type"`
	Category  string      `json:"category,omitempty"`
	Date      time.Time   `json:"date"`
	CreatedAt time.Time   `json:"created_at"`
}

// Validate checks the fields required to store an entry.
func (f FinanceEntry) Validate() error {
	return apperr.Invalid("finance entry", validation.ValidateStruct(&f,
		validation.Field(&f.Title, notBlank),
		validation.Field(&f.Amount, validation.Required, validation.Min(0.0).Exclusive()),
		validation.Field(&f.Type, validation.Required, validation.In(FinanceIncome, FinanceExpense)),
		validation.Field(&f.Date, validation.Required),
	))
}

// FinanceStats are the balance figures over a set of entries.
type FinanceStats struct {
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Balance float64 `json:"balance"`
}

// SumFinances reduces entries to their totals. Entries of an unknown type
// count toward neither side.
func SumFinances(entries []FinanceEntry) FinanceStats {
	var st FinanceStats
	for _, e := range entries {
		switch e.Type {
		case FinanceIncome:
			st.Income += e.Amount
		case FinanceExpense:
			st.Expense += e.Amount
		}
	}
	st.Balance = st.Income - st.Expense
	return st
}
