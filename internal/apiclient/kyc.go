package apiclient

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"

	"github.com/Brownie44l1/sellerhub/internal/models"
)

// SubmitKYC uploads the KYC record and both ID images as multipart form data.
func (c *Client) SubmitKYC(ctx context.Context, cred Credentials, sub models.KYCSubmission) (*models.KYCRecord, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := []struct{ name, value string }{
		{"name", sub.Record.Name},
		{"address", sub.Record.Address},
		{"phone", sub.Record.Phone},
		{"email", sub.Record.Email},
		{"idType", sub.Record.IDType},
		{"idNumber", sub.Record.IDNumber},
	}
	for _, f := range fields {
		if err := w.WriteField(f.name, f.value); err != nil {
			return nil, fmt.Errorf("write kyc field %s: %w", f.name, err)
		}
	}
	if err := writeDocument(w, "idFront", sub.IDFront); err != nil {
		return nil, err
	}
	if err := writeDocument(w, "idBack", sub.IDBack); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("close kyc form: %w", err)
	}

	var out struct {
		models.KYCRecord
		KYC *models.KYCRecord `json:"kyc"`
	}
	r := request{method: http.MethodPost, path: "/kyc/submit"}
	if err := c.do(ctx, cred, r, &buf, w.FormDataContentType(), &out); err != nil {
		return nil, err
	}
	if out.KYC != nil {
		return out.KYC, nil
	}
	return &out.KYCRecord, nil
}

func writeDocument(w *multipart.Writer, field string, doc models.KYCDocument) error {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, doc.Filename))
	ct := doc.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	h.Set("Content-Type", ct)
	part, err := w.CreatePart(h)
	if err != nil {
		return fmt.Errorf("create kyc part %s: %w", field, err)
	}
	if _, err := part.Write(doc.Data); err != nil {
		return fmt.Errorf("write kyc part %s: %w", field, err)
	}
	return nil
}

// KYCStatus returns the user's KYC record, or nil when none was submitted yet.
func (c *Client) KYCStatus(ctx context.Context, cred Credentials) (*models.KYCRecord, error) {
	var out struct {
		models.KYCRecord
		KYC *models.KYCRecord `json:"kyc"`
	}
	err := c.doJSON(ctx, cred, request{method: http.MethodGet, path: "/kyc/status"}, &out)
	if IsStatus(err, http.StatusNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if out.KYC != nil {
		return out.KYC, nil
	}
	return &out.KYCRecord, nil
}
