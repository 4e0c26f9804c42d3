package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Brownie44l1/sellerhub/internal/logging"
	"github.com/Brownie44l1/sellerhub/internal/models"
	"github.com/Brownie44l1/sellerhub/internal/session"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// ==============================================
// STRATEGIES
// ==============================================

// Strategy is how a deposit method is paid. The set is closed: CryptoInvoice,
// GatewayRedirect and Unsupported.
type Strategy interface {
	strategy()
}

// CryptoInvoice pays through a processor-issued crypto invoice.
type CryptoInvoice struct {
	PayCurrency string
}

// GatewayRedirect pays on the gateway's hosted page.
type GatewayRedirect struct {
	Method string
}

// Unsupported methods are listed but not payable yet.
type Unsupported struct {
	Message string
}

func (CryptoInvoice) strategy()   {}
func (GatewayRedirect) strategy() {}
func (Unsupported) strategy()     {}

var onlineStrategies = map[string]Strategy{
	"trc20":     CryptoInvoice{PayCurrency: "usdttrc20"},
	"bep20":     CryptoInvoice{PayCurrency: "usdtbsc"},
	"trx":       CryptoInvoice{PayCurrency: "trx"},
	"easypaisa": GatewayRedirect{Method: "easypaisa"},
	"jazzcash":  GatewayRedirect{Method: "jazzcash"},
	"card":      Unsupported{Message: "Card payments are not available yet. Please choose another method."},
}

// Offline methods are approved by an admin after proof of payment in support chat.
var offlineMethods = map[string]bool{
	"bank_transfer": true,
	"sadapay":       true,
	"nayapay":       true,
}

// Resolve maps a method key to its strategy. Offline methods do not resolve; they go
// through StartOffline.
func Resolve(method string) (Strategy, error) {
	key := strings.ToLower(strings.TrimSpace(method))
	if st, ok := onlineStrategies[key]; ok {
		return st, nil
	}
	if offlineMethods[key] {
		return nil, fmt.Errorf("%w: %s is an offline method", models.ErrUnknownMethod, key)
	}
	return nil, fmt.Errorf("%w: %q", models.ErrUnknownMethod, method)
}

// IsOfflineMethod reports whether method uses the manual deposit flow.
func IsOfflineMethod(method string) bool {
	return offlineMethods[strings.ToLower(strings.TrimSpace(method))]
}

// ==============================================
// OUTCOMES
// ==============================================

// OutcomeKind tells the front-end what to do next.
type OutcomeKind string

const (
	OutcomeRedirect   OutcomeKind = "redirect"
	OutcomePayAddress OutcomeKind = "pay_address"
	OutcomeNotice     OutcomeKind = "notice"
	OutcomeSupport    OutcomeKind = "support_chat"
)

// PaymentOutcome is the next step after starting a deposit. Amount and Method are
// echoed so a failed attempt can be retried as-is.
type PaymentOutcome struct {
	Kind        OutcomeKind         `json:"kind"`
	Method      string              `json:"method"`
	Amount      decimal.Decimal     `json:"amount"`
	RedirectURL string              `json:"redirectUrl,omitempty"`
	PayAddress  string              `json:"payAddress,omitempty"`
	PayAmount   decimal.NullDecimal `json:"payAmount"`
	PayCurrency string              `json:"payCurrency,omitempty"`
	PaymentID   string              `json:"paymentId,omitempty"`
	Message     string              `json:"message,omitempty"`
	Transaction *models.Transaction `json:"transaction,omitempty"`
}

// ==============================================
// SERVICE
// ==============================================

type PaymentService struct {
	api         PaymentAPI
	journal     Journal
	supportPath string
	log         *logrus.Entry
}

func NewPaymentService(api PaymentAPI, journal Journal, supportPath string) *PaymentService {
	if journal == nil {
		journal = NopJournal{}
	}
	return &PaymentService{
		api:         api,
		journal:     journal,
		supportPath: supportPath,
		log:         logging.For("payment"),
	}
}

// Start resolves the method once and drives its strategy. Unknown methods and
// non-positive amounts fail before any network call.
func (s *PaymentService) Start(ctx context.Context, h *session.Handle, method string, amount decimal.Decimal) (*PaymentOutcome, error) {
	st, err := Resolve(method)
	if err != nil {
		return nil, err
	}
	if !amount.IsPositive() {
		return nil, models.ErrInvalidAmount
	}
	return s.dispatch(ctx, h, strings.ToLower(strings.TrimSpace(method)), st, amount)
}

func (s *PaymentService) dispatch(ctx context.Context, h *session.Handle, method string, st Strategy, amount decimal.Decimal) (*PaymentOutcome, error) {
	switch st := st.(type) {
	case CryptoInvoice:
		return s.createInvoice(ctx, h, method, st, amount)
	case GatewayRedirect:
		return s.createTracker(ctx, h, st, amount)
	case Unsupported:
		return &PaymentOutcome{Kind: OutcomeNotice, Method: method, Amount: amount, Message: st.Message}, nil
	default:
		panic(fmt.Sprintf("unhandled payment strategy %T", st))
	}
}

func (s *PaymentService) createInvoice(ctx context.Context, h *session.Handle, method string, st CryptoInvoice, amount decimal.Decimal) (*PaymentOutcome, error) {
	startTime := time.Now()
	log := s.log.WithFields(logrus.Fields{
		"client_id":    h.ClientID(),
		"method":       method,
		"pay_currency": st.PayCurrency,
		"amount":       amount.String(),
	})
	log.Info("[INVOICE] Started")

	inv, err := s.api.CreateInvoice(ctx, h, models.InvoiceRequest{Amount: amount, PayCurrency: st.PayCurrency})
	if err == nil && inv.InvoiceURL == "" && inv.PayAddress == "" {
		err = models.ErrEmptyInvoice
	}

	entry := &models.JournalEntry{
		ClientID: h.ClientID(),
		Action:   models.JournalActionInvoiceCreated,
		Method:   strPtr(method),
		Amount:   decimal.NewNullDecimal(amount),
		Status:   journalStatus(err),
		Detail:   map[string]any{"pay_currency": st.PayCurrency},
	}
	if inv != nil {
		entry.Reference = strPtr(inv.PaymentID)
	}
	record(ctx, s.journal, log, h, entry)

	if err != nil {
		log.WithError(err).Warn("[INVOICE] Failed")
		return nil, err
	}

	out := &PaymentOutcome{
		Method:      method,
		Amount:      amount,
		PayCurrency: inv.PayCurrency,
		PaymentID:   inv.PaymentID,
	}
	if inv.InvoiceURL != "" {
		out.Kind = OutcomeRedirect
		out.RedirectURL = inv.InvoiceURL
	} else {
		out.Kind = OutcomePayAddress
		out.PayAddress = inv.PayAddress
		if !inv.PayAmount.IsZero() {
			out.PayAmount = decimal.NewNullDecimal(inv.PayAmount)
		}
		if out.PayCurrency == "" {
			out.PayCurrency = st.PayCurrency
		}
	}

	log.WithField("duration", time.Since(startTime)).Info("[INVOICE] Success")
	return out, nil
}

func (s *PaymentService) createTracker(ctx context.Context, h *session.Handle, st GatewayRedirect, amount decimal.Decimal) (*PaymentOutcome, error) {
	startTime := time.Now()
	log := s.log.WithFields(logrus.Fields{
		"client_id": h.ClientID(),
		"method":    st.Method,
		"amount":    amount.String(),
	})
	log.Info("[TRACKER] Started")

	tr, err := s.api.CreateTracker(ctx, h, models.TrackerRequest{Amount: amount, Method: st.Method})
	if err == nil && tr.RedirectURL == "" {
		err = models.ErrMissingRedirect
	}

	entry := &models.JournalEntry{
		ClientID: h.ClientID(),
		Action:   models.JournalActionTrackerCreated,
		Method:   strPtr(st.Method),
		Amount:   decimal.NewNullDecimal(amount),
		Status:   journalStatus(err),
	}
	if tr != nil {
		entry.Reference = strPtr(tr.Token)
	}
	record(ctx, s.journal, log, h, entry)

	if err != nil {
		log.WithError(err).Warn("[TRACKER] Failed")
		return nil, err
	}

	log.WithField("duration", time.Since(startTime)).Info("[TRACKER] Success")
	return &PaymentOutcome{
		Kind:        OutcomeRedirect,
		Method:      st.Method,
		Amount:      amount,
		RedirectURL: tr.RedirectURL,
	}, nil
}

// StartOffline records a pending deposit for a manual method and points the user at
// support chat to send proof of payment. It never contacts a payment processor.
func (s *PaymentService) StartOffline(ctx context.Context, h *session.Handle, method string, amount decimal.Decimal) (*PaymentOutcome, error) {
	key := strings.ToLower(strings.TrimSpace(method))
	if !offlineMethods[key] {
		return nil, fmt.Errorf("%w: %q is not an offline method", models.ErrUnknownMethod, method)
	}
	if !amount.IsPositive() {
		return nil, models.ErrInvalidAmount
	}

	startTime := time.Now()
	log := s.log.WithFields(logrus.Fields{
		"client_id": h.ClientID(),
		"method":    key,
		"amount":    amount.String(),
	})
	log.Info("[DEPOSIT] Started")

	resp, err := s.api.Deposit(ctx, h, models.DepositRequest{Amount: amount, Method: key})

	entry := &models.JournalEntry{
		ClientID: h.ClientID(),
		Action:   models.JournalActionDepositRequested,
		Method:   strPtr(key),
		Amount:   decimal.NewNullDecimal(amount),
		Status:   journalStatus(err),
	}
	if resp != nil && resp.Transaction != nil {
		entry.Reference = strPtr(resp.Transaction.ID)
	}
	record(ctx, s.journal, log, h, entry)

	if err != nil {
		log.WithError(err).Warn("[DEPOSIT] Failed")
		return nil, err
	}

	log.WithField("duration", time.Since(startTime)).Info("[DEPOSIT] Success")
	return &PaymentOutcome{
		Kind:        OutcomeSupport,
		Method:      key,
		Amount:      amount,
		RedirectURL: s.supportPath,
		Message:     resp.Message,
		Transaction: resp.Transaction,
	}, nil
}
