package dto

// KYCForm - multipart fields of POST /kyc; idFront and idBack are files
type KYCForm struct {
	Name     string `form:"name"`
	Address  string `form:"address"`
	Phone    string `form:"phone"`
	Email    string `form:"email"`
	IDType   string `form:"idType"`
	IDNumber string `form:"idNumber"`
}
