package login

import "github.com/hzqula/portal-gateway/internal/session"

type LoginRequest struct {
	Email          string `json:"email" binding:"required"`
	Password       string `json:"password" binding:"required"`
	RecaptchaToken string `json:"recaptchaToken"`
}

type LoginResponse struct {
	User     *session.User `json:"user"`
	Redirect string        `json:"redirect"`
}
