package login

import (
	"context"
	"net/mail"
	"strings"

	"github.com/hzqula/portal-gateway/internal/backend"
	"github.com/hzqula/portal-gateway/internal/messaging/kafka/producer"
	"github.com/hzqula/portal-gateway/internal/notify"
	"github.com/hzqula/portal-gateway/internal/pkg/validation"
	"github.com/hzqula/portal-gateway/internal/session"

	"go.uber.org/zap"
)

// Login menerima domain fakultas teknik juga, tidak cuma student/lecturer.
var allowedSuffixes = []string{
	"@student.unri.ac.id",
	"@lecturer.unri.ac.id",
	"@eng.unri.ac.id",
}

// landingPath: tujuan navigasi setelah login sukses.
const landingPath = "/dashboard"

type Service interface {
	Login(ctx context.Context, sid string, req LoginRequest) (LoginResponse, error)
}

type Deps struct {
	Backend  backend.Client
	Sessions *session.Store
	Sink     notify.Sink
	Audit    producer.Publisher
	Logger   *zap.Logger
}

type service struct {
	backend  backend.Client
	sessions *session.Store
	sink     notify.Sink
	audit    producer.Publisher
	logger   *zap.Logger
}

func NewService(deps Deps) Service {
	audit := deps.Audit
	if audit == nil {
		audit = producer.NewNoopPublisher()
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.L()
	}

	return &service{
		backend:  deps.Backend,
		sessions: deps.Sessions,
		sink:     deps.Sink,
		audit:    audit,
		logger:   logger.Named("login.service"),
	}
}

func (s *service) Login(ctx context.Context, sid string, req LoginRequest) (LoginResponse, error) {
	req.Email = strings.TrimSpace(req.Email)

	if errs := validate(req); errs != nil {
		return LoginResponse{}, errs
	}

	resp, err := s.backend.Login(ctx, backend.LoginRequest{
		Email:          req.Email,
		Password:       req.Password,
		RecaptchaToken: req.RecaptchaToken,
	})
	if err != nil {
		s.logger.Warn("login failed", zap.String("email", req.Email), zap.Error(err))
		s.sink.Error(ctx, backend.UserMessage(err))
		s.audit.Publish(ctx, producer.Event{
			Type:      producer.EventLoginFailed,
			SessionID: sid,
		})
		return LoginResponse{}, err
	}

	user := &session.User{
		ID:             resp.User.ID,
		Email:          resp.User.Email,
		Role:           resp.User.Role,
		Name:           resp.User.Name,
		ProfilePicture: resp.User.ProfilePicture,
	}

	// Token ikut dipersist ke durable storage supaya selamat reload.
	if err := s.sessions.Set(ctx, sid, session.Session{User: user, Token: resp.Token}); err != nil {
		s.logger.Error("failed to store session after login", zap.Error(err))
		return LoginResponse{}, err
	}

	s.sink.Success(ctx, "Login berhasil")
	s.audit.Publish(ctx, producer.Event{
		Type:      producer.EventLoginSucceeded,
		SessionID: sid,
		Detail:    map[string]any{"role": resp.User.Role},
	})

	return LoginResponse{User: user, Redirect: landingPath}, nil
}

// validate mengecek semua precondition secara independen; token reCAPTCHA
// yang kosong tetap dilaporkan walau email/password valid.
func validate(req LoginRequest) validation.FieldErrors {
	errs := validation.FieldErrors{}

	if !validEmail(req.Email) {
		errs["email"] = "Gunakan email kampus yang valid"
	}
	if len(req.Password) < 6 {
		errs["password"] = "Password minimal 6 karakter"
	}
	if req.RecaptchaToken == "" {
		errs["recaptchaToken"] = "Selesaikan verifikasi reCAPTCHA dulu"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func validEmail(email string) bool {
	if email == "" {
		return false
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return false
	}
	lower := strings.ToLower(email)
	for _, suffix := range allowedSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	return false
}
