package service

import (
	"context"
	"sync"
	"time"

	"github.com/Brownie44l1/sellerhub/internal/apiclient"
	"github.com/Brownie44l1/sellerhub/internal/logging"
	"github.com/Brownie44l1/sellerhub/internal/models"
	"github.com/Brownie44l1/sellerhub/internal/money"
	"github.com/Brownie44l1/sellerhub/internal/session"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// ViewState is the wallet view's load state.
type ViewState string

const (
	ViewIdle    ViewState = "idle"
	ViewLoading ViewState = "loading"
	ViewLoaded  ViewState = "loaded"
	ViewErrored ViewState = "errored"
)

// WalletSnapshot is what the wallet view currently shows.
type WalletSnapshot struct {
	State        ViewState            `json:"state"`
	Tab          models.Tab           `json:"tab"`
	Transactions []models.Transaction `json:"transactions"`
	CurrentPage  int                  `json:"currentPage"`
	TotalPages   int                  `json:"totalPages"`
	Balances     models.Balances      `json:"balances"`
	Error        string               `json:"error,omitempty"`
}

// ==============================================
// WALLET VIEW
// ==============================================

// WalletView holds one client's wallet page. Every Load takes a new sequence number
// and cancels the load before it, so a slow stale response can never overwrite the
// result of a newer request.
type WalletView struct {
	api TransactionsAPI
	log *logrus.Entry

	mu       sync.Mutex
	seq      uint64
	cancel   context.CancelFunc
	snap     WalletSnapshot
	lastUsed time.Time
}

func NewWalletView(api TransactionsAPI) *WalletView {
	return &WalletView{
		api:      api,
		log:      logging.For("wallet_view"),
		snap:     WalletSnapshot{State: ViewIdle, Tab: models.TabAccount},
		lastUsed: time.Now(),
	}
}

// Load fetches {tab, page} and replaces the transaction list and page metadata
// wholesale. A failed load keeps the previous list and moves to errored. A load
// overtaken by a newer one returns ErrSupersededLoad and changes nothing.
func (v *WalletView) Load(ctx context.Context, h *session.Handle, tab models.Tab, page int) (WalletSnapshot, error) {
	if page < 1 {
		page = 1
	}

	v.mu.Lock()
	v.seq++
	token := v.seq
	if v.cancel != nil {
		v.cancel()
	}
	loadCtx, cancel := context.WithCancel(ctx)
	v.cancel = cancel
	v.snap.State = ViewLoading
	v.lastUsed = time.Now()
	v.mu.Unlock()
	defer cancel()

	start := time.Now()
	result, err := v.api.MyTransactions(loadCtx, h, tab, page)

	v.mu.Lock()
	defer v.mu.Unlock()

	if token != v.seq {
		v.log.WithFields(logrus.Fields{
			"client_id": h.ClientID(),
			"tab":       tab,
			"page":      page,
		}).Debug("discarding superseded wallet load")
		return v.snap.clone(), models.ErrSupersededLoad
	}
	v.cancel = nil

	if err != nil {
		v.snap.State = ViewErrored
		v.snap.Error = apiclient.ServerMessage(err)
		v.log.WithError(err).WithFields(logrus.Fields{
			"client_id": h.ClientID(),
			"tab":       tab,
			"page":      page,
		}).Warn("wallet load failed")
		return v.snap.clone(), err
	}

	v.snap = WalletSnapshot{
		State:        ViewLoaded,
		Tab:          tab,
		Transactions: withFallbackFees(result.Transactions),
		CurrentPage:  result.CurrentPage,
		TotalPages:   result.TotalPages,
		Balances:     result.Balances(),
	}
	if v.snap.CurrentPage == 0 {
		v.snap.CurrentPage = page
	}
	v.log.WithFields(logrus.Fields{
		"client_id": h.ClientID(),
		"tab":       tab,
		"page":      page,
		"rows":      len(result.Transactions),
		"duration":  time.Since(start),
	}).Debug("wallet loaded")
	return v.snap.clone(), nil
}

// Reload repeats the current tab and page, or account page 1 for a fresh view.
func (v *WalletView) Reload(ctx context.Context, h *session.Handle) (WalletSnapshot, error) {
	v.mu.Lock()
	tab, page := v.snap.Tab, v.snap.CurrentPage
	v.mu.Unlock()
	if tab == "" {
		tab = models.TabAccount
	}
	return v.Load(ctx, h, tab, page)
}

// Snapshot returns a copy of the current view.
func (v *WalletView) Snapshot() WalletSnapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.snap.clone()
}

func (s WalletSnapshot) clone() WalletSnapshot {
	out := s
	if s.Transactions != nil {
		out.Transactions = make([]models.Transaction, len(s.Transactions))
		copy(out.Transactions, s.Transactions)
	}
	return out
}

// withFallbackFees fills fee and netAmount on withdrawal rows the server left bare,
// using the same fee rule as the withdraw preview.
func withFallbackFees(rows []models.Transaction) []models.Transaction {
	out := make([]models.Transaction, len(rows))
	copy(out, rows)
	for i := range out {
		t := &out[i]
		if !t.IsWithdrawal() || (t.Fee.Valid && t.NetAmount.Valid) {
			continue
		}
		f := money.WithdrawalFee(t.Amount)
		if !t.Fee.Valid {
			t.Fee = decimal.NewNullDecimal(f.Fee)
		}
		if !t.NetAmount.Valid {
			t.NetAmount = decimal.NewNullDecimal(money.RoundCents(t.Amount.Sub(t.Fee.Decimal)))
		}
	}
	return out
}

// ==============================================
// VIEW REGISTRY
// ==============================================

// WalletViews keeps one WalletView per client.
type WalletViews struct {
	api TransactionsAPI

	mu    sync.Mutex
	views map[string]*WalletView
}

func NewWalletViews(api TransactionsAPI) *WalletViews {
	return &WalletViews{api: api, views: make(map[string]*WalletView)}
}

// For returns the client's view, creating it on first use.
func (r *WalletViews) For(clientID string) *WalletView {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.views[clientID]
	if !ok {
		v = NewWalletView(r.api)
		r.views[clientID] = v
	}
	return v
}

// Load runs a load on the handle's client view.
func (r *WalletViews) Load(ctx context.Context, h *session.Handle, tab models.Tab, page int) (WalletSnapshot, error) {
	return r.For(h.ClientID()).Load(ctx, h, tab, page)
}

// Balances returns the balance snapshot of the client's loaded view. When the view
// is idle, loading or errored it fetches account page 1 directly, leaving the view's
// sequence alone so an in-flight load is not superseded.
func (r *WalletViews) Balances(ctx context.Context, h *session.Handle) (models.Balances, error) {
	if snap := r.For(h.ClientID()).Snapshot(); snap.State == ViewLoaded {
		return snap.Balances, nil
	}
	page, err := r.api.MyTransactions(ctx, h, models.TabAccount, 1)
	if err != nil {
		return models.Balances{}, err
	}
	return page.Balances(), nil
}

// Refresh reloads a view that has shown data, so balances changed by a mutation are
// picked up. An untouched view is left for its first Load.
func (r *WalletViews) Refresh(ctx context.Context, h *session.Handle) (*WalletSnapshot, error) {
	v := r.For(h.ClientID())
	if v.Snapshot().State == ViewIdle {
		return nil, nil
	}
	snap, err := v.Reload(ctx, h)
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

// Forget drops a client's view, e.g. on logout.
func (r *WalletViews) Forget(clientID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.views, clientID)
}

// Prune drops views not loaded for longer than idle. It returns how many were removed.
func (r *WalletViews) Prune(idle time.Duration) int {
	cutoff := time.Now().Add(-idle)
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, v := range r.views {
		v.mu.Lock()
		stale := v.cancel == nil && v.lastUsed.Before(cutoff)
		v.mu.Unlock()
		if stale {
			delete(r.views, id)
			n++
		}
	}
	return n
}
