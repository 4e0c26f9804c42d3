package handlers

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/Brownie44l1/sellerhub/internal/api/dto"
	"github.com/Brownie44l1/sellerhub/internal/models"
	"github.com/Brownie44l1/sellerhub/internal/session"
	"github.com/gin-gonic/gin"
)

// maxKYCImage caps each uploaded ID image.
const maxKYCImage = 5 << 20

type KYCService interface {
	Submit(ctx context.Context, h *session.Handle, sub models.KYCSubmission) (*models.KYCRecord, error)
	Status(ctx context.Context, h *session.Handle) (*models.KYCRecord, error)
}

type KYCHandler struct {
	service KYCService
}

func NewKYCHandler(service KYCService) *KYCHandler {
	return &KYCHandler{service: service}
}

// Submit handles POST /api/v1/kyc (multipart)
func (h *KYCHandler) Submit(c *gin.Context) {
	var form dto.KYCForm
	if err := c.ShouldBind(&form); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid form", err)
		return
	}

	front, err := readDocument(c, "idFront")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid idFront", err)
		return
	}
	back, err := readDocument(c, "idBack")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid idBack", err)
		return
	}

	rec, err := h.service.Submit(c.Request.Context(), currentSession(c), models.KYCSubmission{
		Record: models.KYCRecord{
			Name:     form.Name,
			Address:  form.Address,
			Phone:    form.Phone,
			Email:    form.Email,
			IDType:   form.IDType,
			IDNumber: form.IDNumber,
		},
		IDFront: front,
		IDBack:  back,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, rec)
}

// Status handles GET /api/v1/kyc
func (h *KYCHandler) Status(c *gin.Context) {
	rec, err := h.service.Status(c.Request.Context(), currentSession(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if rec == nil {
		respondSuccess(c, http.StatusOK, gin.H{"status": nil})
		return
	}
	respondSuccess(c, http.StatusOK, rec)
}

// readDocument returns an empty document when the field is absent; the service
// decides whether that is acceptable.
func readDocument(c *gin.Context, field string) (models.KYCDocument, error) {
	fh, err := c.FormFile(field)
	if err == http.ErrMissingFile {
		return models.KYCDocument{}, nil
	}
	if err != nil {
		return models.KYCDocument{}, err
	}
	if fh.Size > maxKYCImage {
		return models.KYCDocument{}, fmt.Errorf("%s exceeds %d bytes", field, maxKYCImage)
	}
	return readPart(fh)
}

func readPart(fh *multipart.FileHeader) (models.KYCDocument, error) {
	f, err := fh.Open()
	if err != nil {
		return models.KYCDocument{}, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxKYCImage+1))
	if err != nil {
		return models.KYCDocument{}, err
	}
	return models.KYCDocument{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

func (h *KYCHandler) RegisterRoutes(rg *gin.RouterGroup) {
	kyc := rg.Group("/kyc", RequireSession())
	{
		kyc.POST("", h.Submit)
		kyc.GET("", h.Status)
	}
}
