package wizard

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/hzqula/portal-gateway/internal/backend"
	"github.com/hzqula/portal-gateway/internal/clock"
	"github.com/hzqula/portal-gateway/internal/messaging/kafka/producer"
	"github.com/hzqula/portal-gateway/internal/notify"
	"github.com/hzqula/portal-gateway/internal/session"
	wizarderrors "github.com/hzqula/portal-gateway/internal/wizard/errors"

	"go.uber.org/zap"
)

const (
	// Loading floor verifikasi OTP: advance ke step 3 ditunda sampai 2 detik
	// sejak call dimulai, walaupun server membalas lebih cepat.
	minVerifyVisible = 2000 * time.Millisecond

	resendCooldown = 60 * time.Second
)

// Satu guard per call site; submit ganda untuk aksi yang sama ditolak.
const (
	actionEmail   = "email"
	actionOTP     = "otp"
	actionResend  = "resend"
	actionDetails = "details"
)

type Service interface {
	SubmitEmail(ctx context.Context, sid, email string) (StateResponse, error)
	VerifyCode(ctx context.Context, sid, code string) (StateResponse, error)
	ResendCode(ctx context.Context, sid string) (StateResponse, error)
	Back(ctx context.Context, sid string) (StateResponse, error)
	AttachPicture(ctx context.Context, sid, filename, mimeType string, data []byte) (StateResponse, error)
	ClearPicture(ctx context.Context, sid string) (StateResponse, error)
	SubmitDetails(ctx context.Context, sid string, req DetailsRequest) (StateResponse, error)
	State(ctx context.Context, sid string) StateResponse
}

type Deps struct {
	Backend  backend.Client
	Sessions *session.Store
	Sink     notify.Sink
	Audit    producer.Publisher
	Clock    clock.Clock
	Logger   *zap.Logger
}

type service struct {
	states   *registry
	backend  backend.Client
	sessions *session.Store
	sink     notify.Sink
	audit    producer.Publisher
	clock    clock.Clock
	logger   *zap.Logger
}

func NewService(deps Deps) Service {
	clk := deps.Clock
	if clk == nil {
		clk = clock.New()
	}
	audit := deps.Audit
	if audit == nil {
		audit = producer.NewNoopPublisher()
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.L()
	}

	return &service{
		states:   newRegistry(clk),
		backend:  deps.Backend,
		sessions: deps.Sessions,
		sink:     deps.Sink,
		audit:    audit,
		clock:    clk,
		logger:   logger.Named("wizard.service"),
	}
}

func (s *service) SubmitEmail(ctx context.Context, sid, email string) (StateResponse, error) {
	email = strings.TrimSpace(email)

	st := s.states.get(sid)

	// Validasi lokal dulu; kalau gagal tidak ada network call sama sekali.
	if errs := validateEmail(email); errs != nil {
		return s.snapshot(st), errs
	}

	st.mu.Lock()
	if st.step != StepEmail {
		defer st.mu.Unlock()
		return s.snapshotLocked(st), wizarderrors.ErrStepOrder
	}
	if st.inFlight[actionEmail] {
		defer st.mu.Unlock()
		return s.snapshotLocked(st), wizarderrors.ErrSubmitInFlight
	}
	st.inFlight[actionEmail] = true
	st.draft.Email = email
	epoch := st.epoch
	st.mu.Unlock()

	_, err := s.backend.RegisterEmail(ctx, email)

	st.mu.Lock()
	defer st.mu.Unlock()
	st.inFlight[actionEmail] = false

	if st.epoch != epoch {
		return s.snapshotLocked(st), wizarderrors.ErrStale
	}
	if err != nil {
		s.logger.Warn("register email failed", zap.Error(err))
		s.sink.Error(ctx, backend.UserMessage(err))
		return s.snapshotLocked(st), err
	}

	st.emailConfirmed = true
	st.step = StepOTP
	st.resendReadyAt = s.clock.Now().Add(resendCooldown)
	return s.snapshotLocked(st), nil
}

func (s *service) VerifyCode(ctx context.Context, sid, code string) (StateResponse, error) {
	st := s.states.get(sid)

	if errs := validateOTP(code); errs != nil {
		return s.snapshot(st), errs
	}

	st.mu.Lock()
	if st.step != StepOTP || !st.emailConfirmed {
		defer st.mu.Unlock()
		return s.snapshotLocked(st), wizarderrors.ErrStepOrder
	}
	if st.inFlight[actionOTP] {
		defer st.mu.Unlock()
		return s.snapshotLocked(st), wizarderrors.ErrSubmitInFlight
	}
	st.inFlight[actionOTP] = true
	st.draft.OTPCode = code
	email := st.draft.Email
	epoch := st.epoch
	st.mu.Unlock()

	codeNum, _ := strconv.Atoi(code) // sudah lolos cek 6 digit

	started := s.clock.Now()
	_, verifyErr := s.backend.VerifyOTP(ctx, email, codeNum)

	cancelled := false
	if verifyErr == nil {
		// Floor dihitung dari saat call dimulai, bukan dari saat response.
		elapsed := s.clock.Now().Sub(started)
		if err := s.clock.Sleep(ctx, minVerifyVisible-elapsed); err != nil {
			cancelled = true
		}
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	st.inFlight[actionOTP] = false

	if st.epoch != epoch || cancelled {
		return s.snapshotLocked(st), wizarderrors.ErrStale
	}
	if verifyErr != nil {
		// Verifikasi gagal: mundur ke step email, bukan retry di tempat.
		st.step = StepEmail
		st.emailConfirmed = false
		st.otpConfirmed = false
		s.sink.Error(ctx, backend.UserMessage(verifyErr))
		return s.snapshotLocked(st), verifyErr
	}

	st.otpConfirmed = true
	st.step = StepDetails
	return s.snapshotLocked(st), nil
}

func (s *service) ResendCode(ctx context.Context, sid string) (StateResponse, error) {
	st := s.states.get(sid)

	st.mu.Lock()
	if st.step != StepOTP {
		defer st.mu.Unlock()
		return s.snapshotLocked(st), wizarderrors.ErrStepOrder
	}
	if st.cooldownRemaining(s.clock.Now()) > 0 {
		defer st.mu.Unlock()
		return s.snapshotLocked(st), wizarderrors.ErrCooldownActive
	}
	if st.inFlight[actionResend] {
		defer st.mu.Unlock()
		return s.snapshotLocked(st), wizarderrors.ErrSubmitInFlight
	}
	st.inFlight[actionResend] = true
	email := st.draft.Email
	epoch := st.epoch
	st.mu.Unlock()

	_, err := s.backend.RegisterEmail(ctx, email)

	st.mu.Lock()
	defer st.mu.Unlock()
	st.inFlight[actionResend] = false

	if st.epoch != epoch {
		return s.snapshotLocked(st), wizarderrors.ErrStale
	}
	if err != nil {
		s.sink.Error(ctx, backend.UserMessage(err))
		return s.snapshotLocked(st), err
	}

	st.resendReadyAt = s.clock.Now().Add(resendCooldown)
	s.sink.Success(ctx, "Kode verifikasi baru sudah dikirim ke email Anda")
	return s.snapshotLocked(st), nil
}

// Back mundur satu step tanpa network call. Field tetap tersimpan; completion
// flag step yang ditinggalkan direset, dan epoch naik supaya response yang
// masih in-flight dibuang.
func (s *service) Back(_ context.Context, sid string) (StateResponse, error) {
	st := s.states.get(sid)

	st.mu.Lock()
	defer st.mu.Unlock()

	switch st.step {
	case StepOTP:
		st.step = StepEmail
		st.emailConfirmed = false
	case StepDetails:
		st.step = StepOTP
		st.otpConfirmed = false
	default:
		return s.snapshotLocked(st), wizarderrors.ErrStepOrder
	}

	st.epoch++
	return s.snapshotLocked(st), nil
}

// AttachPicture memvalidasi file saat dipilih. Penolakan tidak menghapus
// gambar yang sudah diterima sebelumnya.
func (s *service) AttachPicture(_ context.Context, sid, filename, mimeType string, data []byte) (StateResponse, error) {
	st := s.states.get(sid)

	st.mu.Lock()
	defer st.mu.Unlock()

	if st.step != StepDetails {
		return s.snapshotLocked(st), wizarderrors.ErrStepOrder
	}
	if errs := validatePicture(mimeType, len(data)); errs != nil {
		return s.snapshotLocked(st), errs
	}

	st.draft.Picture = &backend.Picture{
		Filename: filename,
		MIMEType: strings.ToLower(mimeType),
		Data:     data,
	}
	return s.snapshotLocked(st), nil
}

func (s *service) ClearPicture(_ context.Context, sid string) (StateResponse, error) {
	st := s.states.get(sid)

	st.mu.Lock()
	defer st.mu.Unlock()

	if st.step != StepDetails {
		return s.snapshotLocked(st), wizarderrors.ErrStepOrder
	}
	st.draft.Picture = nil
	return s.snapshotLocked(st), nil
}

func (s *service) SubmitDetails(ctx context.Context, sid string, req DetailsRequest) (StateResponse, error) {
	st := s.states.get(sid)

	st.mu.Lock()
	if st.step != StepDetails || !st.emailConfirmed || !st.otpConfirmed {
		defer st.mu.Unlock()
		return s.snapshotLocked(st), wizarderrors.ErrStepOrder
	}
	if st.inFlight[actionDetails] {
		defer st.mu.Unlock()
		return s.snapshotLocked(st), wizarderrors.ErrSubmitInFlight
	}

	// Field disimpan dulu walaupun belum tentu valid, supaya navigasi mundur
	// tidak menghapus isian user.
	st.draft.Name = strings.TrimSpace(req.Name)
	st.draft.NIM = strings.TrimSpace(req.NIM)
	st.draft.NIP = strings.TrimSpace(req.NIP)
	st.draft.PhoneNumber = strings.TrimSpace(req.PhoneNumber)
	st.draft.Password = req.Password
	st.draft.ConfirmPassword = req.ConfirmPassword
	draft := st.draft

	if errs := validateDetails(draft); errs != nil {
		defer st.mu.Unlock()
		return s.snapshotLocked(st), errs
	}

	st.inFlight[actionDetails] = true
	epoch := st.epoch
	st.mu.Unlock()

	resp, err := s.backend.RegisterUser(ctx, backend.RegisterUserRequest{
		Email:       draft.Email,
		Name:        draft.Name,
		NIM:         draft.NIM,
		NIP:         draft.NIP,
		PhoneNumber: draft.PhoneNumber,
		Password:    draft.Password,
		Picture:     draft.Picture,
	})

	st.mu.Lock()
	st.inFlight[actionDetails] = false

	if st.epoch != epoch {
		defer st.mu.Unlock()
		return s.snapshotLocked(st), wizarderrors.ErrStale
	}
	if err != nil {
		snap := s.snapshotLocked(st)
		st.mu.Unlock()
		s.logger.Warn("register user failed", zap.Error(err))
		s.sink.Error(ctx, backend.UserMessage(err))
		return snap, err
	}

	st.step = StepComplete
	snap := s.snapshotLocked(st)
	st.mu.Unlock()

	// Registrasi sukses tapi belum login: session dibuat tanpa token.
	user := &session.User{
		ID:             resp.User.ID,
		Email:          resp.User.Email,
		Role:           resp.User.Role,
		Name:           resp.User.Name,
		ProfilePicture: resp.User.ProfilePicture,
	}
	if err := s.sessions.Set(ctx, sid, session.Session{User: user}); err != nil {
		s.logger.Error("failed to store session after registration", zap.Error(err))
	}

	message := resp.Message
	if message == "" {
		message = "Registrasi berhasil. Silakan login."
	}
	s.sink.Success(ctx, message)

	s.audit.Publish(ctx, producer.Event{
		Type:      producer.EventRegistrationCompleted,
		SessionID: sid,
		Detail:    map[string]any{"role": resp.User.Role},
	})

	s.states.drop(sid)
	return snap, nil
}

func (s *service) State(_ context.Context, sid string) StateResponse {
	return s.snapshot(s.states.get(sid))
}

func (s *service) snapshot(st *state) StateResponse {
	st.mu.Lock()
	defer st.mu.Unlock()
	return s.snapshotLocked(st)
}

func (s *service) snapshotLocked(st *state) StateResponse {
	resp := StateResponse{
		Step:                  int(st.step),
		Complete:              st.step == StepComplete,
		InferredRole:          RoleForEmail(st.draft.Email),
		ResendCooldownSeconds: st.cooldownRemaining(s.clock.Now()),
		Email:                 st.draft.Email,
		Name:                  st.draft.Name,
		NIM:                   st.draft.NIM,
		NIP:                   st.draft.NIP,
		PhoneNumber:           st.draft.PhoneNumber,
		HasPicture:            st.draft.Picture != nil,
	}
	if st.draft.Picture != nil {
		resp.PictureName = st.draft.Picture.Filename
	}
	if resp.Complete {
		resp.Step = int(StepDetails)
	}
	return resp
}
