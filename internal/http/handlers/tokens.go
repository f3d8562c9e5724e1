package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5"

	"mentorhood/internal/domain/ledger"
	"mentorhood/internal/sqlinline"
)

// casRetries bounds how often a spend/add re-reads after losing a
// compare-and-swap round to a concurrent writer.
const casRetries = 3

type tokenSpendRequest struct {
	Amount      int    `json:"amount"`
	Description string `json:"description"`
	UsageType   string `json:"usage_type"`
}

type tokenAddRequest struct {
	Amount       int    `json:"amount"`
	Description  string `json:"description"`
	PlanID       string `json:"plan_id"`
	PlanType     string `json:"plan_type"`
	UsageType    string `json:"usage_type"`
	ExtendExpiry bool   `json:"extend_expiry"`
}

func (a *App) TokensInitialize(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "user_id is required")
		return
	}

	if acct, found, err := a.loadTokenAccount(r.Context(), userID); err != nil {
		a.Logger.Error().Err(err).Msg("load token account failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load token account")
		return
	} else if found {
		a.json(w, http.StatusOK, tokenBalanceBody(acct, time.Now().UTC()))
		return
	}

	acct := ledger.NewAccount(userID, time.Now().UTC())
	usage, txns, err := marshalLedgerState(acct)
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to encode token account")
		return
	}
	if _, err := a.SQL.Exec(r.Context(), sqlinline.QInsertTokenAccount,
		acct.UserID, acct.PlanID, acct.PlanType, acct.SubscriptionStatus,
		acct.PurchasedDate, acct.ExpiryDate,
		acct.PurchasedTokens, acct.UsedTokens, acct.RemainingTokens,
		usage, txns); err != nil {
		a.Logger.Error().Err(err).Msg("insert token account failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to initialize token account")
		return
	}

	// The insert is a no-op when a concurrent initialize won, so read back
	// whatever account is now on record.
	acct2, found, err := a.loadTokenAccount(r.Context(), userID)
	if err != nil || !found {
		a.json(w, http.StatusCreated, tokenBalanceBody(acct, time.Now().UTC()))
		return
	}
	a.json(w, http.StatusCreated, tokenBalanceBody(acct2, time.Now().UTC()))
}

func (a *App) TokensBalance(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "user_id is required")
		return
	}
	acct, found, err := a.loadTokenAccount(r.Context(), userID)
	if err != nil {
		a.Logger.Error().Err(err).Msg("load token account failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load token account")
		return
	}
	if !found {
		a.error(w, http.StatusNotFound, "not_found", "no token record found for this user")
		return
	}
	a.json(w, http.StatusOK, tokenBalanceBody(acct, time.Now().UTC()))
}

func (a *App) TokensSpend(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "user_id is required")
		return
	}
	var req tokenSpendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.Amount <= 0 {
		a.error(w, http.StatusBadRequest, "bad_request", "amount must be positive")
		return
	}

	for attempt := 0; attempt < casRetries; attempt++ {
		acct, found, err := a.loadTokenAccount(r.Context(), userID)
		if err != nil {
			a.Logger.Error().Err(err).Msg("load token account failed")
			a.error(w, http.StatusInternalServerError, "internal", "failed to load token account")
			return
		}
		if !found {
			a.error(w, http.StatusNotFound, "not_found", "no token record found for this user")
			return
		}

		prevRemaining := acct.RemainingTokens
		prevTxns := len(acct.Transactions)
		now := time.Now().UTC()
		if err := acct.Spend(req.Amount, req.Description, req.UsageType, now); err != nil {
			switch {
			case errors.Is(err, ledger.ErrExpired):
				a.error(w, http.StatusBadRequest, "expired", "your tokens have expired")
			case errors.Is(err, ledger.ErrInsufficientBalance):
				a.error(w, http.StatusBadRequest, "insufficient_balance",
					fmt.Sprintf("Insufficient token balance. You have %d tokens but need %d.", prevRemaining, req.Amount))
			default:
				a.error(w, http.StatusBadRequest, "bad_request", err.Error())
			}
			return
		}

		applied, err := a.storeTokenAccount(r.Context(), acct, prevRemaining, prevTxns)
		if err != nil {
			a.Logger.Error().Err(err).Msg("store token account failed")
			a.error(w, http.StatusInternalServerError, "internal", "failed to update token account")
			return
		}
		if applied {
			a.json(w, http.StatusOK, tokenBalanceBody(acct, now))
			return
		}
	}
	a.error(w, http.StatusConflict, "conflict", "token account is seeing concurrent updates, try again")
}

func (a *App) TokensAdd(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "user_id is required")
		return
	}
	var req tokenAddRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.Amount <= 0 {
		a.error(w, http.StatusBadRequest, "bad_request", "amount must be positive")
		return
	}
	params := ledger.AddParams{
		Amount:       req.Amount,
		Description:  req.Description,
		PlanID:       req.PlanID,
		PlanType:     req.PlanType,
		UsageType:    req.UsageType,
		ExtendExpiry: req.ExtendExpiry,
	}

	for attempt := 0; attempt < casRetries; attempt++ {
		acct, found, err := a.loadTokenAccount(r.Context(), userID)
		if err != nil {
			a.Logger.Error().Err(err).Msg("load token account failed")
			a.error(w, http.StatusInternalServerError, "internal", "failed to load token account")
			return
		}
		now := time.Now().UTC()

		if !found {
			seeded := ledger.NewSeededAccount(userID, params, now)
			usage, txns, err := marshalLedgerState(seeded)
			if err != nil {
				a.error(w, http.StatusInternalServerError, "internal", "failed to encode token account")
				return
			}
			row := a.SQL.QueryRow(r.Context(), sqlinline.QInsertTokenAccount,
				seeded.UserID, seeded.PlanID, seeded.PlanType, seeded.SubscriptionStatus,
				seeded.PurchasedDate, seeded.ExpiryDate,
				seeded.PurchasedTokens, seeded.UsedTokens, seeded.RemainingTokens,
				usage, txns)
			var insertedID string
			if err := row.Scan(&insertedID); err == nil {
				a.json(w, http.StatusOK, tokenBalanceBody(seeded, now))
				return
			} else if !errors.Is(err, pgx.ErrNoRows) {
				a.Logger.Error().Err(err).Msg("insert token account failed")
				a.error(w, http.StatusInternalServerError, "internal", "failed to create token account")
				return
			}
			// A concurrent writer created the account first, retry as an
			// update against it.
			continue
		}

		prevRemaining := acct.RemainingTokens
		prevTxns := len(acct.Transactions)
		if err := acct.Add(params, now); err != nil {
			a.error(w, http.StatusBadRequest, "bad_request", err.Error())
			return
		}

		applied, err := a.storeTokenAccount(r.Context(), acct, prevRemaining, prevTxns)
		if err != nil {
			a.Logger.Error().Err(err).Msg("store token account failed")
			a.error(w, http.StatusInternalServerError, "internal", "failed to update token account")
			return
		}
		if applied {
			a.json(w, http.StatusOK, tokenBalanceBody(acct, now))
			return
		}
	}
	a.error(w, http.StatusConflict, "conflict", "token account is seeing concurrent updates, try again")
}

func (a *App) loadTokenAccount(ctx context.Context, userID string) (ledger.Account, bool, error) {
	row := a.SQL.QueryRow(ctx, sqlinline.QSelectTokenAccount, userID)
	var acct ledger.Account
	var usage, txns []byte
	err := row.Scan(&acct.UserID, &acct.PlanID, &acct.PlanType, &acct.SubscriptionStatus,
		&acct.PurchasedDate, &acct.ExpiryDate,
		&acct.PurchasedTokens, &acct.UsedTokens, &acct.RemainingTokens,
		&usage, &txns, &acct.LastUpdated)
	if errors.Is(err, pgx.ErrNoRows) {
		return ledger.Account{}, false, nil
	}
	if err != nil {
		return ledger.Account{}, false, err
	}
	if err := json.Unmarshal(usage, &acct.Usage); err != nil {
		return ledger.Account{}, false, fmt.Errorf("decode usage: %w", err)
	}
	if err := json.Unmarshal(txns, &acct.Transactions); err != nil {
		return ledger.Account{}, false, fmt.Errorf("decode transactions: %w", err)
	}
	return acct, true, nil
}

// storeTokenAccount writes the mutated account guarded by the balance the
// mutation was computed from. A false return means the guard missed and the
// caller should re-read and retry.
func (a *App) storeTokenAccount(ctx context.Context, acct ledger.Account, prevRemaining, prevTxns int) (bool, error) {
	usage, err := json.Marshal(acct.Usage)
	if err != nil {
		return false, err
	}
	newTxns, err := json.Marshal(acct.Transactions[prevTxns:])
	if err != nil {
		return false, err
	}
	row := a.SQL.QueryRow(ctx, sqlinline.QUpdateTokenAccountCAS,
		acct.UserID, acct.PlanID, acct.PlanType, acct.SubscriptionStatus,
		acct.ExpiryDate, acct.PurchasedTokens, acct.UsedTokens, acct.RemainingTokens,
		usage, newTxns, prevRemaining)
	var updatedID string
	if err := row.Scan(&updatedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func tokenBalanceBody(acct ledger.Account, now time.Time) map[string]any {
	status := acct.SubscriptionStatus
	if acct.Expired(now) {
		status = "expired"
	}
	return map[string]any{
		"status":              "success",
		"user_id":             acct.UserID,
		"plan_id":             acct.PlanID,
		"plan_type":           acct.PlanType,
		"subscription_status": status,
		"remaining_tokens":    acct.Balance(now),
		"purchased_tokens":    acct.PurchasedTokens,
		"used_tokens":         acct.UsedTokens,
		"expiry_date":         acct.ExpiryDate,
		"usage":               acct.Usage,
		"transactions":        acct.Transactions,
	}
}
