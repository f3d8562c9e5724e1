// Package ledger holds the prepaid token account arithmetic. Mutations are
// pure value operations; persistence and concurrency control live with the
// caller so the invariants here stay testable without a database.
package ledger

import (
	"errors"
	"fmt"
	"time"
)

const (
	// WelcomeGrant is the token balance a fresh account starts with.
	WelcomeGrant = 500
	// ValidityDays is the default validity window for grants and top-ups.
	ValidityDays = 365

	DefaultUsageType = "mentoring_sessions"

	TxCredit = "credit"
	TxDebit  = "debit"
)

var (
	ErrNotFound            = errors.New("no token record found for this user")
	ErrExpired             = errors.New("your tokens have expired")
	ErrInsufficientBalance = errors.New("insufficient token balance")
)

// UsageBucket is a per-category sub-ledger. remaining == total - used holds
// after every mutation.
type UsageBucket struct {
	Total     int `json:"total"`
	Used      int `json:"used"`
	Remaining int `json:"remaining"`
}

// Transaction is one append-only audit entry. Entries are never rewritten.
type Transaction struct {
	Type        string    `json:"type"`
	Amount      int       `json:"amount"`
	Description string    `json:"description"`
	PlanID      string    `json:"plan_id,omitempty"`
	UsageType   string    `json:"usage_type,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// Account is one user's prepaid balance plus its audit trail.
type Account struct {
	UserID             string
	PlanID             string
	PlanType           string
	SubscriptionStatus string
	PurchasedDate      time.Time
	ExpiryDate         time.Time
	PurchasedTokens    int
	UsedTokens         int
	RemainingTokens    int
	Usage              map[string]UsageBucket
	Transactions       []Transaction
	CreatedAt          time.Time
	LastUpdated        time.Time
}

// NewAccount creates the welcome-bonus account a user receives on first use.
func NewAccount(userID string, now time.Time) Account {
	return Account{
		UserID:             userID,
		PlanID:             "welcome-bonus",
		PlanType:           "Free",
		SubscriptionStatus: "active",
		PurchasedDate:      now,
		ExpiryDate:         now.AddDate(0, 0, ValidityDays),
		PurchasedTokens:    WelcomeGrant,
		UsedTokens:         0,
		RemainingTokens:    WelcomeGrant,
		Usage: map[string]UsageBucket{
			DefaultUsageType: {Total: WelcomeGrant, Used: 0, Remaining: WelcomeGrant},
		},
		Transactions: []Transaction{{
			Type:        TxCredit,
			Amount:      WelcomeGrant,
			Description: "Welcome bonus for new user",
			Timestamp:   now,
		}},
		CreatedAt:   now,
		LastUpdated: now,
	}
}

// NewSeededAccount creates an account from a first top-up when no welcome
// account exists yet.
func NewSeededAccount(userID string, p AddParams, now time.Time) Account {
	usageType := p.UsageType
	if usageType == "" {
		usageType = DefaultUsageType
	}
	return Account{
		UserID:             userID,
		PlanID:             p.PlanID,
		PlanType:           p.PlanType,
		SubscriptionStatus: "active",
		PurchasedDate:      now,
		ExpiryDate:         now.AddDate(0, 0, ValidityDays),
		PurchasedTokens:    p.Amount,
		UsedTokens:         0,
		RemainingTokens:    p.Amount,
		Usage: map[string]UsageBucket{
			usageType: {Total: p.Amount, Used: 0, Remaining: p.Amount},
		},
		Transactions: []Transaction{{
			Type:        TxCredit,
			Amount:      p.Amount,
			Description: p.Description,
			UsageType:   usageType,
			Timestamp:   now,
		}},
		CreatedAt:   now,
		LastUpdated: now,
	}
}

// Expired reports whether the validity window has passed. Stored counters are
// never zeroed on expiry; callers clamp the read view instead.
func (a *Account) Expired(now time.Time) bool {
	return now.After(a.ExpiryDate)
}

// Balance returns the spendable balance as of now, applying lazy expiry.
func (a *Account) Balance(now time.Time) int {
	if a.Expired(now) {
		return 0
	}
	return a.RemainingTokens
}

// Spend debits amount from the account and the matching usage bucket and
// appends a debit transaction. The account value is unchanged on error.
func (a *Account) Spend(amount int, description, usageType string, now time.Time) error {
	if amount <= 0 {
		return fmt.Errorf("spend amount must be positive, got %d", amount)
	}
	if a.Expired(now) {
		return ErrExpired
	}
	if a.RemainingTokens < amount {
		return fmt.Errorf("%w: you have %d tokens but need %d", ErrInsufficientBalance, a.RemainingTokens, amount)
	}
	if usageType == "" {
		usageType = DefaultUsageType
	}

	a.RemainingTokens -= amount
	a.UsedTokens += amount

	bucket := a.usageBucket(usageType)
	bucket.Used += amount
	bucket.Remaining = bucket.Total - bucket.Used
	a.Usage[usageType] = bucket

	a.Transactions = append(a.Transactions, Transaction{
		Type:        TxDebit,
		Amount:      amount,
		Description: description,
		UsageType:   usageType,
		Timestamp:   now,
	})
	a.LastUpdated = now
	return nil
}

// AddParams describe a credit operation.
type AddParams struct {
	Amount       int
	Description  string
	PlanID       string
	PlanType     string
	UsageType    string
	ExtendExpiry bool
}

// Add credits the account, updates plan metadata, and appends a credit
// transaction. Expiry is pushed out by the validity window when requested,
// and always when the account had already lapsed.
func (a *Account) Add(p AddParams, now time.Time) error {
	if p.Amount <= 0 {
		return fmt.Errorf("add amount must be positive, got %d", p.Amount)
	}
	usageType := p.UsageType
	if usageType == "" {
		usageType = DefaultUsageType
	}

	a.RemainingTokens += p.Amount
	a.PurchasedTokens += p.Amount

	if p.ExtendExpiry || a.Expired(now) {
		a.ExpiryDate = now.AddDate(0, 0, ValidityDays)
	}

	bucket := a.usageBucket(usageType)
	bucket.Total += p.Amount
	bucket.Remaining = bucket.Total - bucket.Used
	a.Usage[usageType] = bucket

	a.SubscriptionStatus = "active"
	if p.PlanID != "" {
		a.PlanID = p.PlanID
	}
	if p.PlanType != "" {
		a.PlanType = p.PlanType
	}

	a.Transactions = append(a.Transactions, Transaction{
		Type:        TxCredit,
		Amount:      p.Amount,
		Description: p.Description,
		PlanID:      p.PlanID,
		UsageType:   usageType,
		Timestamp:   now,
	})
	a.LastUpdated = now
	return nil
}

func (a *Account) usageBucket(usageType string) UsageBucket {
	if a.Usage == nil {
		a.Usage = map[string]UsageBucket{}
	}
	if b, ok := a.Usage[usageType]; ok {
		return b
	}
	return UsageBucket{}
}

// CheckInvariants verifies the balance equations the ledger must preserve.
func (a *Account) CheckInvariants() error {
	if a.RemainingTokens != a.PurchasedTokens-a.UsedTokens {
		return fmt.Errorf("ledger: remaining %d != purchased %d - used %d",
			a.RemainingTokens, a.PurchasedTokens, a.UsedTokens)
	}
	for name, b := range a.Usage {
		if b.Remaining != b.Total-b.Used {
			return fmt.Errorf("ledger: usage[%s] remaining %d != total %d - used %d",
				name, b.Remaining, b.Total, b.Used)
		}
	}
	return nil
}
