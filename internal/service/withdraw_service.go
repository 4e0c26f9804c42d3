package service

import (
	"context"
	"strings"
	"time"

	"github.com/Brownie44l1/sellerhub/internal/logging"
	"github.com/Brownie44l1/sellerhub/internal/models"
	"github.com/Brownie44l1/sellerhub/internal/money"
	"github.com/Brownie44l1/sellerhub/internal/session"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// DefaultWithdrawAccountName is sent as accountName for every withdrawal method.
const DefaultWithdrawAccountName = "Crypto Wallet"

// WithdrawForm is the raw user input. Amount stays a string so an empty field can be
// told apart from zero.
type WithdrawForm struct {
	WithdrawalAddress string
	Amount            string
	Method            string
}

// Limits is the ceiling a withdrawal is checked against.
type Limits struct {
	UserBalance         decimal.Decimal `json:"userBalance"`
	WithdrawableBalance decimal.Decimal `json:"withdrawableBalance"`
	IsRestricted        bool            `json:"isRestricted"`
}

// MaxAvailable is withdrawableBalance for restricted accounts, the user balance otherwise.
func (l Limits) MaxAvailable() decimal.Decimal {
	if l.IsRestricted {
		return l.WithdrawableBalance
	}
	return l.UserBalance
}

// WithdrawResult is returned after the API accepted a withdrawal.
type WithdrawResult struct {
	Message     string              `json:"message"`
	Fee         money.Fee           `json:"fee"`
	Transaction *models.Transaction `json:"transaction,omitempty"`
	Wallet      *WalletSnapshot     `json:"wallet,omitempty"`
}

// ==============================================
// VALIDATION
// ==============================================

// ValidateWithdraw applies the withdrawal rules in order and returns the parsed amount.
// Nothing here touches the network.
func ValidateWithdraw(form WithdrawForm, limits Limits) (decimal.Decimal, error) {
	amount, err := parseWithdrawForm(form)
	if err != nil {
		return decimal.Zero, err
	}
	if err := checkCeiling(amount, limits); err != nil {
		return decimal.Zero, err
	}
	return amount, nil
}

// parseWithdrawForm covers the rules that need no balance: required fields, a
// positive amount and the minimum.
func parseWithdrawForm(form WithdrawForm) (decimal.Decimal, error) {
	address := strings.TrimSpace(form.WithdrawalAddress)
	raw := strings.TrimSpace(form.Amount)
	method := strings.TrimSpace(form.Method)
	if address == "" || raw == "" || method == "" {
		return decimal.Zero, models.ErrMissingFields
	}

	amount, err := decimal.NewFromString(raw)
	if err != nil || !amount.IsPositive() {
		return decimal.Zero, models.ErrInvalidAmount
	}
	if amount.LessThan(money.MinWithdrawal) {
		return decimal.Zero, models.ErrBelowMinimum
	}
	return amount, nil
}

func checkCeiling(amount decimal.Decimal, limits Limits) error {
	if amount.GreaterThan(limits.MaxAvailable()) {
		return models.ErrExceedsAvailable
	}
	return nil
}

// ==============================================
// SERVICE
// ==============================================

type WithdrawService struct {
	api         WithdrawAPI
	views       *WalletViews
	sessions    ProfileRefresher
	journal     Journal
	accountName string
	newKey      func() string
	log         *logrus.Entry
}

func NewWithdrawService(api WithdrawAPI, views *WalletViews, sessions ProfileRefresher, journal Journal, accountName string) *WithdrawService {
	if accountName == "" {
		accountName = DefaultWithdrawAccountName
	}
	if journal == nil {
		journal = NopJournal{}
	}
	return &WithdrawService{
		api:         api,
		views:       views,
		sessions:    sessions,
		journal:     journal,
		accountName: accountName,
		newKey:      uuid.NewString,
		log:         logging.For("withdraw"),
	}
}

// Preview returns the fee and net amount shown before submission.
func (s *WithdrawService) Preview(amount decimal.Decimal) money.Fee {
	return money.WithdrawalFee(amount)
}

// Limits reads the balance snapshot from the client's loaded wallet view, or fetches
// it directly when the view has nothing settled yet. user.balance comes from the
// session profile when one is known.
func (s *WithdrawService) Limits(ctx context.Context, h *session.Handle) (Limits, error) {
	balances, err := s.views.Balances(ctx, h)
	if err != nil {
		return Limits{}, err
	}

	limits := Limits{
		UserBalance:         balances.UserBalance,
		WithdrawableBalance: balances.WithdrawableBalance,
		IsRestricted:        balances.IsRestricted,
	}
	if u := h.User(); u != nil {
		limits.UserBalance = u.Balance
	}
	return limits, nil
}

// Submit validates the form and files the withdrawal request. On success the profile
// and the wallet view are refreshed; failures of either are logged, not returned.
func (s *WithdrawService) Submit(ctx context.Context, h *session.Handle, form WithdrawForm) (*WithdrawResult, error) {
	startTime := time.Now()
	log := s.log.WithFields(logrus.Fields{
		"client_id": h.ClientID(),
		"method":    form.Method,
		"amount":    form.Amount,
	})
	log.Info("[WITHDRAW] Started")

	amount, err := parseWithdrawForm(form)
	if err != nil {
		log.WithError(err).Info("[WITHDRAW] Validation failed")
		return nil, err
	}

	limits, err := s.Limits(ctx, h)
	if err != nil {
		log.WithError(err).Warn("[WITHDRAW] Failed - could not read balance")
		return nil, err
	}
	if err := checkCeiling(amount, limits); err != nil {
		log.WithError(err).Info("[WITHDRAW] Validation failed")
		return nil, err
	}

	req := models.WithdrawRequest{
		Amount:        amount,
		Method:        strings.TrimSpace(form.Method),
		AccountName:   s.accountName,
		AccountNumber: strings.TrimSpace(form.WithdrawalAddress),
	}
	key := s.newKey()
	resp, err := s.api.Withdraw(ctx, h, req, key)

	fee := money.WithdrawalFee(amount)
	record(ctx, s.journal, log, h, &models.JournalEntry{
		ClientID:  h.ClientID(),
		Action:    models.JournalActionWithdrawRequested,
		Method:    strPtr(req.Method),
		Amount:    decimal.NewNullDecimal(amount),
		Reference: strPtr(key),
		Status:    journalStatus(err),
		Detail:    map[string]any{"fee": fee.Fee.StringFixed(2), "netAmount": fee.Net.StringFixed(2)},
	})
	if err != nil {
		log.WithError(err).Warn("[WITHDRAW] Failed")
		return nil, err
	}

	result := &WithdrawResult{Message: resp.Message, Fee: fee, Transaction: resp.Transaction}

	if err := syncProfile(ctx, s.sessions, h, resp.User); err != nil {
		log.WithError(err).Warn("[WITHDRAW] profile refresh failed")
	}
	if snap, err := s.views.For(h.ClientID()).Reload(ctx, h); err != nil {
		log.WithError(err).Warn("[WITHDRAW] wallet refresh failed")
	} else {
		result.Wallet = &snap
	}

	log.WithField("duration", time.Since(startTime)).Info("[WITHDRAW] Success")
	return result, nil
}
