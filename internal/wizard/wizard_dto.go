package wizard

type SubmitEmailRequest struct {
	Email string `json:"email" binding:"required"`
}

type VerifyOTPRequest struct {
	Code string `json:"code" binding:"required"`
}

type DetailsRequest struct {
	Name            string `json:"name"`
	NIM             string `json:"nim"`
	NIP             string `json:"nip"`
	PhoneNumber     string `json:"phoneNumber"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// StateResponse: snapshot WizardState untuk frontend. Password dan kode OTP
// tidak pernah ikut keluar.
type StateResponse struct {
	Step                  int    `json:"step"`
	Complete              bool   `json:"complete"`
	InferredRole          Role   `json:"inferredRole"`
	ResendCooldownSeconds int    `json:"resendCooldownSeconds"`
	Email                 string `json:"email,omitempty"`
	Name                  string `json:"name,omitempty"`
	NIM                   string `json:"nim,omitempty"`
	NIP                   string `json:"nip,omitempty"`
	PhoneNumber           string `json:"phoneNumber,omitempty"`
	HasPicture            bool   `json:"hasPicture"`
	PictureName           string `json:"pictureName,omitempty"`
}

type RoleResponse struct {
	Email        string `json:"email"`
	InferredRole Role   `json:"inferredRole"`
}
