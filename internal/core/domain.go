package core

import (
	"errors"
	"strings"
	"time"
)

const (
	KindIncome  Kind = "Income"
	KindExpense Kind = "Expense"
)

const (
	Daily   Frequency = "daily"
	Weekly  Frequency = "weekly"
	Monthly Frequency = "monthly"
)

type (
	// Kind classifies a transaction as money in or money out.
	Kind string

	// Frequency selects the bucket granularity for periodic aggregation.
	Frequency string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Transaction is the single persisted entity: one dated income or
	// expense entry. ID is assigned by the store and never reused.
	Transaction struct {
		ID       int64
		Date     Date
		Kind     Kind
		Category string
		Amount   Money
		Notes    string
	}
)

var (
	ErrInvalidDate   = errors.New("invalid date")
	ErrInvalidKind   = errors.New("invalid kind")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrEmptyCategory = errors.New("empty category")
	ErrNotFound      = errors.New("transaction not found")
)

// Suggested categories per kind. The store accepts any label; these only
// feed the input form's selector.
var (
	ExpenseCategories = []string{"Food", "Transport", "Rent", "Utilities", "Entertainment", "Shopping", "Other"}
	IncomeCategories  = []string{"Salary", "Freelance", "Investment", "Gift", "Other"}
)

// CategoriesFor returns the suggested category list for a kind.
func CategoriesFor(k Kind) []string {
	if k == KindIncome {
		return IncomeCategories
	}
	return ExpenseCategories
}

// ParseKind validates a kind label.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.TrimSpace(s)) {
	case KindIncome:
		return KindIncome, nil
	case KindExpense:
		return KindExpense, nil
	}
	return "", ErrInvalidKind
}

func (k Kind) Validate() error {
	if k != KindIncome && k != KindExpense {
		return ErrInvalidKind
	}
	return nil
}

// ParseFrequency maps a selector value to a bucket frequency. Unknown
// values fall back to Monthly so a transient form state never breaks the
// dashboard.
func ParseFrequency(s string) Frequency {
	switch Frequency(strings.ToLower(strings.TrimSpace(s))) {
	case Daily:
		return Daily
	case Weekly:
		return Weekly
	default:
		return Monthly
	}
}

// NewDate creates a Date at midnight UTC. Dates carry no time component.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current date in UTC.
func Today() Date {
	now := time.Now().UTC()
	return NewDate(now.Year(), int(now.Month()), now.Day())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t.UTC()}, nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// String returns the wire format used in the database and CSV export.
func (d Date) String() string {
	return d.Format("2006-01-02")
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (t Transaction) Validate() error {
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if err := t.Kind.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if len(t.Category) > 100 {
		return errors.New("category too long (max 100 characters)")
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if len(t.Notes) > 500 {
		return errors.New("notes too long (max 500 characters)")
	}
	return nil
}
