package models

// KYC statuses
const (
	KYCStatusPending  = "pending"
	KYCStatusApproved = "approved"
	KYCStatusRejected = "rejected"
)

// KYCRecord is created once per user; the server enforces a single active record.
type KYCRecord struct {
	Name     string `json:"name"`
	Address  string `json:"address"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	IDType   string `json:"idType"`
	IDNumber string `json:"idNumber"`
	IDFront  string `json:"idFront,omitempty"`
	IDBack   string `json:"idBack,omitempty"`
	Status   string `json:"status,omitempty"`
}

// KYCDocument is one uploaded identity image.
type KYCDocument struct {
	Filename    string
	ContentType string
	Data        []byte
}

// KYCSubmission is the multipart payload of POST /kyc/submit
type KYCSubmission struct {
	Record  KYCRecord
	IDFront KYCDocument
	IDBack  KYCDocument
}
