package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/Brownie44l1/sellerhub/internal/apiclient"
	"github.com/Brownie44l1/sellerhub/internal/logging"
	"github.com/Brownie44l1/sellerhub/internal/models"
	"github.com/Brownie44l1/sellerhub/internal/session"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// ClaimWindow is how long a purchase must age before its profit can be claimed.
const ClaimWindow = 24 * time.Hour

// ClaimState is the client's prediction of whether a claim would be accepted.
type ClaimState string

const (
	ClaimLocked      ClaimState = "locked"
	ClaimClaimable   ClaimState = "claimable"
	ClaimClaimed     ClaimState = "claimed"
	ClaimUnavailable ClaimState = "unavailable"
)

// EscrowState is the label of the escrow transfer control.
type EscrowState string

const (
	EscrowIdle         EscrowState = "Transfer"
	EscrowTransferring EscrowState = "Transferring..."
	EscrowTransferred  EscrowState = "Transferred"
)

// Clock is injected so countdowns can be tested.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the wall clock.
var SystemClock Clock = ClockFunc(time.Now)

// ClaimStateAt evaluates p at now. The countdown is only non-zero while locked.
func ClaimStateAt(p models.Purchase, now time.Time) (ClaimState, int64) {
	switch p.Status {
	case models.PurchaseStatusPaid:
		return ClaimClaimed, 0
	case models.PurchaseStatusToBePaid:
		elapsed := int64(now.Sub(p.CreatedAt) / time.Second)
		if elapsed < 0 {
			elapsed = 0
		}
		window := int64(ClaimWindow / time.Second)
		if elapsed < window {
			return ClaimLocked, window - elapsed
		}
		return ClaimClaimable, 0
	default:
		return ClaimUnavailable, 0
	}
}

// ==============================================
// BOARD
// ==============================================

// OrderCard is one purchase with its derived controls.
type OrderCard struct {
	Purchase         models.Purchase `json:"purchase"`
	ClaimState       ClaimState      `json:"claimState"`
	CountdownSeconds int64           `json:"countdownSeconds"`
	Claiming         bool            `json:"claiming"`
	CanClaim         bool            `json:"canClaim"`
	EscrowState      EscrowState     `json:"escrowState"`
	CanTransfer      bool            `json:"canTransfer"`
}

// Board is the order center at one instant.
type Board struct {
	At     time.Time   `json:"at"`
	Orders []OrderCard `json:"orders"`
}

// ==============================================
// IN-FLIGHT GUARDS
// ==============================================

// inflight tracks running actions, one key per action per purchase.
type inflight struct {
	mu   sync.Mutex
	keys map[string]struct{}
}

func newInflight() *inflight {
	return &inflight{keys: make(map[string]struct{})}
}

func (g *inflight) acquire(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.keys[key]; busy {
		return false
	}
	g.keys[key] = struct{}{}
	return true
}

func (g *inflight) release(key string) {
	g.mu.Lock()
	delete(g.keys, key)
	g.mu.Unlock()
}

func (g *inflight) active(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, busy := g.keys[key]
	return busy
}

func claimKey(purchaseID string) string    { return "claim:" + purchaseID }
func transferKey(purchaseID string) string { return "transfer:" + purchaseID }

// ==============================================
// SERVICE
// ==============================================

// ActionResult is returned after a claim or transfer, with the re-fetched board.
type ActionResult struct {
	Message string `json:"message"`
	Board   Board  `json:"board"`
}

type OrderService struct {
	api      OrderAPI
	views    *WalletViews
	sessions ProfileRefresher
	journal  Journal
	clock    Clock
	guards   *inflight
	log      *logrus.Entry
}

// NewOrderService wires the order center. views and sessions are refreshed after a
// claim or escrow release, since both move the balance; either may be nil.
func NewOrderService(api OrderAPI, views *WalletViews, sessions ProfileRefresher, journal Journal, clock Clock) *OrderService {
	if journal == nil {
		journal = NopJournal{}
	}
	if clock == nil {
		clock = SystemClock
	}
	return &OrderService{
		api:      api,
		views:    views,
		sessions: sessions,
		journal:  journal,
		clock:    clock,
		guards:   newInflight(),
		log:      logging.For("orders"),
	}
}

// BuildBoard derives every card's controls at now.
func (s *OrderService) BuildBoard(purchases []models.Purchase, now time.Time) Board {
	b := Board{At: now, Orders: make([]OrderCard, 0, len(purchases))}
	for _, p := range purchases {
		state, countdown := ClaimStateAt(p, now)
		card := OrderCard{
			Purchase:         p,
			ClaimState:       state,
			CountdownSeconds: countdown,
			Claiming:         s.guards.active(claimKey(p.ID)),
		}
		card.CanClaim = state == ClaimClaimable && !card.Claiming

		switch {
		case p.EscrowReleased():
			card.EscrowState = EscrowTransferred
		case s.guards.active(transferKey(p.ID)):
			card.EscrowState = EscrowTransferring
		default:
			card.EscrowState = EscrowIdle
			card.CanTransfer = p.HasEscrowTransaction()
		}
		b.Orders = append(b.Orders, card)
	}
	return b
}

// List fetches the purchases and derives the board.
func (s *OrderService) List(ctx context.Context, h *session.Handle) (Board, []models.Purchase, error) {
	purchases, err := s.api.MyPurchases(ctx, h)
	if err != nil {
		return Board{}, nil, err
	}
	return s.BuildBoard(purchases, s.clock.Now()), purchases, nil
}

// Watch emits a board right away and then on every tick until ctx ends. It never
// refetches; eligibility is only re-checked by the server on an actual claim.
func (s *OrderService) Watch(ctx context.Context, purchases []models.Purchase, every time.Duration) <-chan Board {
	out := make(chan Board, 1)
	go func() {
		defer close(out)
		ticker := time.NewTicker(every)
		defer ticker.Stop()

		for {
			select {
			case out <- s.BuildBoard(purchases, s.clock.Now()):
			case <-ctx.Done():
				return
			}
			select {
			case <-ticker.C:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

func (s *OrderService) find(ctx context.Context, h *session.Handle, purchaseID string) (models.Purchase, error) {
	purchases, err := s.api.MyPurchases(ctx, h)
	if err != nil {
		return models.Purchase{}, err
	}
	for _, p := range purchases {
		if p.ID == purchaseID {
			return p, nil
		}
	}
	return models.Purchase{}, models.ErrPurchaseNotFound
}

// Claim converts a matured purchase's profit. The local eligibility check is advisory;
// a 4xx from the server is reported as ErrClaimRejected.
func (s *OrderService) Claim(ctx context.Context, h *session.Handle, purchaseID string) (*ActionResult, error) {
	resp, err := s.claim(ctx, h, purchaseID)
	if err != nil {
		return nil, err
	}
	return s.afterAction(ctx, h, resp, "[CLAIM]"), nil
}

func (s *OrderService) claim(ctx context.Context, h *session.Handle, purchaseID string) (*models.MutationResponse, error) {
	if !s.guards.acquire(claimKey(purchaseID)) {
		return nil, models.ErrActionInFlight
	}
	defer s.guards.release(claimKey(purchaseID))

	startTime := time.Now()
	log := s.log.WithFields(logrus.Fields{"client_id": h.ClientID(), "purchase_id": purchaseID})
	log.Info("[CLAIM] Started")

	p, err := s.find(ctx, h, purchaseID)
	if err != nil {
		log.WithError(err).Warn("[CLAIM] Failed - lookup")
		return nil, err
	}
	if state, _ := ClaimStateAt(p, s.clock.Now()); state != ClaimClaimable {
		log.WithField("claim_state", state).Info("[CLAIM] Not eligible")
		return nil, fmt.Errorf("%w: purchase is %s", models.ErrClaimNotEligible, state)
	}

	resp, err := s.api.ClaimProfit(ctx, h, purchaseID)
	if err != nil && isClientError(err) {
		err = fmt.Errorf("%w: %w", models.ErrClaimRejected, err)
	}
	record(ctx, s.journal, log, h, &models.JournalEntry{
		ClientID:  h.ClientID(),
		Action:    models.JournalActionProfitClaimed,
		Amount:    nullAmount(p),
		Reference: strPtr(purchaseID),
		Status:    journalStatus(err),
	})
	if err != nil {
		log.WithError(err).Warn("[CLAIM] Failed")
		return nil, err
	}

	log.WithField("duration", time.Since(startTime)).Info("[CLAIM] Success")
	return resp, nil
}

// Transfer releases a purchase's buyer escrow. Re-entry while a transfer for the same
// purchase is running is refused.
func (s *OrderService) Transfer(ctx context.Context, h *session.Handle, purchaseID string) (*ActionResult, error) {
	resp, err := s.transfer(ctx, h, purchaseID)
	if err != nil {
		return nil, err
	}
	return s.afterAction(ctx, h, resp, "[ESCROW]"), nil
}

func (s *OrderService) transfer(ctx context.Context, h *session.Handle, purchaseID string) (*models.MutationResponse, error) {
	if !s.guards.acquire(transferKey(purchaseID)) {
		return nil, models.ErrActionInFlight
	}
	defer s.guards.release(transferKey(purchaseID))

	startTime := time.Now()
	log := s.log.WithFields(logrus.Fields{"client_id": h.ClientID(), "purchase_id": purchaseID})
	log.Info("[ESCROW] Started")

	p, err := s.find(ctx, h, purchaseID)
	if err != nil {
		log.WithError(err).Warn("[ESCROW] Failed - lookup")
		return nil, err
	}
	if p.EscrowReleased() {
		return nil, models.ErrEscrowAlreadyReleased
	}
	if !p.HasEscrowTransaction() {
		log.Warn("[ESCROW] Aborted - no buyer escrow transaction")
		return nil, models.ErrMissingEscrowTxn
	}

	txnID := *p.BuyerEscrowTransactionID
	resp, err := s.api.ReleaseBuyerEscrow(ctx, h, txnID)
	record(ctx, s.journal, log, h, &models.JournalEntry{
		ClientID:  h.ClientID(),
		Action:    models.JournalActionEscrowReleased,
		Amount:    nullAmount(p),
		Reference: strPtr(txnID),
		Status:    journalStatus(err),
		Detail:    map[string]any{"purchaseId": purchaseID},
	})
	if err != nil {
		log.WithError(err).Warn("[ESCROW] Failed")
		return nil, err
	}

	log.WithField("duration", time.Since(startTime)).Info("[ESCROW] Success")
	return resp, nil
}

// afterAction runs once the guard is released. The profile and wallet view are
// brought up to date so the next withdrawal sees the new balance, then the purchases
// are re-fetched. Refresh failures are logged; the action itself already succeeded.
func (s *OrderService) afterAction(ctx context.Context, h *session.Handle, resp *models.MutationResponse, tag string) *ActionResult {
	log := s.log.WithField("client_id", h.ClientID())
	result := &ActionResult{Message: resp.Message}

	if err := syncProfile(ctx, s.sessions, h, resp.User); err != nil {
		log.WithError(err).Warn(tag + " profile refresh failed")
	}
	if s.views != nil {
		if _, err := s.views.Refresh(ctx, h); err != nil {
			log.WithError(err).Warn(tag + " wallet refresh failed")
		}
	}

	board, _, err := s.List(ctx, h)
	if err != nil {
		log.WithError(err).Warn(tag + " purchase refresh failed")
		return result
	}
	result.Board = board
	return result
}

// isClientError reports a 4xx other than 401, i.e. the server refused the action itself.
func isClientError(err error) bool {
	var apiErr *apiclient.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Status >= http.StatusBadRequest &&
		apiErr.Status < http.StatusInternalServerError &&
		apiErr.Status != http.StatusUnauthorized
}

func nullAmount(p models.Purchase) decimal.NullDecimal {
	return decimal.NewNullDecimal(p.Amount)
}
