package service

import (
	"context"
	"strings"
	"time"

	"github.com/Brownie44l1/sellerhub/internal/logging"
	"github.com/Brownie44l1/sellerhub/internal/models"
	"github.com/Brownie44l1/sellerhub/internal/session"
	"github.com/sirupsen/logrus"
)

// KYCService forwards KYC documents. Verification happens server-side.
type KYCService struct {
	api     KYCAPI
	journal Journal
	log     *logrus.Entry
}

func NewKYCService(api KYCAPI, journal Journal) *KYCService {
	if journal == nil {
		journal = NopJournal{}
	}
	return &KYCService{api: api, journal: journal, log: logging.For("kyc")}
}

func validateKYC(sub models.KYCSubmission) error {
	r := sub.Record
	for _, v := range []string{r.Name, r.Address, r.Phone, r.Email, r.IDType, r.IDNumber} {
		if strings.TrimSpace(v) == "" {
			return models.ErrKYCIncomplete
		}
	}
	if len(sub.IDFront.Data) == 0 || len(sub.IDBack.Data) == 0 {
		return models.ErrKYCIncomplete
	}
	return nil
}

func (s *KYCService) Submit(ctx context.Context, h *session.Handle, sub models.KYCSubmission) (*models.KYCRecord, error) {
	if err := validateKYC(sub); err != nil {
		return nil, err
	}

	startTime := time.Now()
	log := s.log.WithFields(logrus.Fields{"client_id": h.ClientID(), "id_type": sub.Record.IDType})
	log.Info("[KYC] Started")

	rec, err := s.api.SubmitKYC(ctx, h, sub)
	record(ctx, s.journal, log, h, &models.JournalEntry{
		ClientID: h.ClientID(),
		Action:   models.JournalActionKYCSubmitted,
		Status:   journalStatus(err),
		Detail:   map[string]any{"idType": sub.Record.IDType},
	})
	if err != nil {
		log.WithError(err).Warn("[KYC] Failed")
		return nil, err
	}

	log.WithField("duration", time.Since(startTime)).Info("[KYC] Success")
	return rec, nil
}

// Status returns nil when the user has not submitted KYC yet.
func (s *KYCService) Status(ctx context.Context, h *session.Handle) (*models.KYCRecord, error) {
	return s.api.KYCStatus(ctx, h)
}
