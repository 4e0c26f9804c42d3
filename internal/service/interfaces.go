package service

import (
	"context"

	"github.com/Brownie44l1/sellerhub/internal/apiclient"
	"github.com/Brownie44l1/sellerhub/internal/models"
	"github.com/Brownie44l1/sellerhub/internal/session"
	"github.com/sirupsen/logrus"
)

// ==============================================
// API INTERFACES (for testing)
// ==============================================

type TransactionsAPI interface {
	MyTransactions(ctx context.Context, cred apiclient.Credentials, tab models.Tab, page int) (*models.TransactionPage, error)
}

type WithdrawAPI interface {
	Withdraw(ctx context.Context, cred apiclient.Credentials, req models.WithdrawRequest, idempotencyKey string) (*models.MutationResponse, error)
}

type PaymentAPI interface {
	CreateInvoice(ctx context.Context, cred apiclient.Credentials, req models.InvoiceRequest) (*models.Invoice, error)
	CreateTracker(ctx context.Context, cred apiclient.Credentials, req models.TrackerRequest) (*models.Tracker, error)
	Deposit(ctx context.Context, cred apiclient.Credentials, req models.DepositRequest) (*models.MutationResponse, error)
}

type OrderAPI interface {
	MyPurchases(ctx context.Context, cred apiclient.Credentials) ([]models.Purchase, error)
	ClaimProfit(ctx context.Context, cred apiclient.Credentials, purchaseID string) (*models.MutationResponse, error)
	ReleaseBuyerEscrow(ctx context.Context, cred apiclient.Credentials, transactionID string) (*models.MutationResponse, error)
}

type KYCAPI interface {
	SubmitKYC(ctx context.Context, cred apiclient.Credentials, sub models.KYCSubmission) (*models.KYCRecord, error)
	KYCStatus(ctx context.Context, cred apiclient.Credentials) (*models.KYCRecord, error)
}

// ProfileRefresher is the session manager's profile update path.
type ProfileRefresher interface {
	RefreshProfile(ctx context.Context, h *session.Handle) (*models.UserProfile, error)
	ApplyProfile(ctx context.Context, h *session.Handle, profile *models.UserProfile) error
}

// syncProfile stores the profile a mutation returned, or re-fetches it when the
// response carried none.
func syncProfile(ctx context.Context, sessions ProfileRefresher, h *session.Handle, returned *models.UserProfile) error {
	if sessions == nil {
		return nil
	}
	if returned != nil {
		return sessions.ApplyProfile(ctx, h, returned)
	}
	_, err := sessions.RefreshProfile(ctx, h)
	return err
}

// ==============================================
// JOURNAL
// ==============================================

// Journal records mutating calls issued upstream.
type Journal interface {
	Record(ctx context.Context, entry *models.JournalEntry) error
}

// NopJournal is used when no database is configured.
type NopJournal struct{}

func (NopJournal) Record(context.Context, *models.JournalEntry) error { return nil }

// record writes a journal entry. The journal is an audit aid; a failed write never
// fails the user's action.
func record(ctx context.Context, j Journal, log *logrus.Entry, h *session.Handle, entry *models.JournalEntry) {
	if j == nil {
		return
	}
	entry.ClientID = h.ClientID()
	if u := h.User(); u != nil && u.ID != "" {
		entry.UserID = strPtr(u.ID)
	}
	if err := j.Record(ctx, entry); err != nil {
		log.WithError(err).WithField("action", entry.Action).Warn("journal write failed")
	}
}

func journalStatus(err error) string {
	if err != nil {
		return models.JournalStatusFailed
	}
	return models.JournalStatusOK
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
