package login_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/hzqula/portal-gateway/internal/backend"
	"github.com/hzqula/portal-gateway/internal/login"
	backendMock "github.com/hzqula/portal-gateway/internal/mock/backend"
	"github.com/hzqula/portal-gateway/internal/notify"
	"github.com/hzqula/portal-gateway/internal/pkg/request"
	"github.com/hzqula/portal-gateway/internal/pkg/validation"
	"github.com/hzqula/portal-gateway/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

const testSID = "sid-login-test"

func validLogin() login.LoginRequest {
	return login.LoginRequest{
		Email:          "budi@student.unri.ac.id",
		Password:       "rahasia123",
		RecaptchaToken: "captcha-tok",
	}
}

func newService(t *testing.T) (login.Service, *backendMock.MockClient, *session.Store, *notify.Feed, context.Context) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	mockBackend := backendMock.NewMockClient(ctrl)
	feed := notify.NewFeed(zap.NewNop())
	sessions := session.NewStore(session.NewMemoryTokenStorage(), time.Hour, zap.NewNop())

	svc := login.NewService(login.Deps{
		Backend:  mockBackend,
		Sessions: sessions,
		Sink:     feed,
		Logger:   zap.NewNop(),
	})

	return svc, mockBackend, sessions, feed, request.WithSessionID(context.Background(), testSID)
}

func TestService_Login(t *testing.T) {
	t.Run("All Preconditions Reported At Once", func(t *testing.T) {
		svc, _, _, _, ctx := newService(t)

		// Tidak ada EXPECT: gagal validasi = tidak ada network call.
		_, err := svc.Login(ctx, testSID, login.LoginRequest{})

		var fieldErrs validation.FieldErrors
		require.ErrorAs(t, err, &fieldErrs)
		assert.Contains(t, fieldErrs, "email")
		assert.Contains(t, fieldErrs, "password")
		assert.Contains(t, fieldErrs, "recaptchaToken")
	})

	t.Run("Missing Recaptcha Blocks Valid Credentials", func(t *testing.T) {
		svc, _, _, _, ctx := newService(t)

		req := validLogin()
		req.RecaptchaToken = ""

		_, err := svc.Login(ctx, testSID, req)

		var fieldErrs validation.FieldErrors
		require.ErrorAs(t, err, &fieldErrs)
		assert.Contains(t, fieldErrs, "recaptchaToken")
		assert.NotContains(t, fieldErrs, "email")
	})

	t.Run("Engineering Domain Accepted", func(t *testing.T) {
		svc, mockBackend, _, _, ctx := newService(t)

		req := validLogin()
		req.Email = "sri@eng.unri.ac.id"

		mockBackend.EXPECT().
			Login(gomock.Any(), gomock.Any()).
			Return(backend.LoginResponse{Token: "tok", User: backend.User{ID: "u-9"}}, nil)

		_, err := svc.Login(ctx, testSID, req)
		require.NoError(t, err)
	})

	t.Run("Non Campus Domain Rejected", func(t *testing.T) {
		svc, _, _, _, ctx := newService(t)

		req := validLogin()
		req.Email = "budi@gmail.com"

		_, err := svc.Login(ctx, testSID, req)

		var fieldErrs validation.FieldErrors
		require.ErrorAs(t, err, &fieldErrs)
		assert.Contains(t, fieldErrs, "email")
	})

	t.Run("Success Persists Session With Token", func(t *testing.T) {
		svc, mockBackend, sessions, feed, ctx := newService(t)

		mockBackend.EXPECT().
			Login(gomock.Any(), backend.LoginRequest{
				Email:          "budi@student.unri.ac.id",
				Password:       "rahasia123",
				RecaptchaToken: "captcha-tok",
			}).
			Return(backend.LoginResponse{
				Token: "jwt-upstream",
				User:  backend.User{ID: "u-1", Email: "budi@student.unri.ac.id", Role: "STUDENT"},
			}, nil)

		resp, err := svc.Login(ctx, testSID, validLogin())

		require.NoError(t, err)
		require.NotNil(t, resp.User)
		assert.Equal(t, "u-1", resp.User.ID)
		assert.Equal(t, "/dashboard", resp.Redirect)

		sess, ok := sessions.Get(ctx, testSID)
		require.True(t, ok)
		assert.Equal(t, "jwt-upstream", sess.Token)
		require.NotNil(t, sess.User)
		assert.Equal(t, "STUDENT", sess.User.Role)

		// Token sampai ke CredentialSource untuk request berikutnya.
		token, ok := sessions.Token(ctx)
		require.True(t, ok)
		assert.Equal(t, "jwt-upstream", token)

		pending := feed.Drain(testSID)
		require.Len(t, pending, 1)
		assert.Equal(t, notify.LevelSuccess, pending[0].Level)
	})

	t.Run("Upstream Rejection Surfaces Message", func(t *testing.T) {
		svc, mockBackend, sessions, feed, ctx := newService(t)

		mockBackend.EXPECT().
			Login(gomock.Any(), gomock.Any()).
			Return(backend.LoginResponse{}, &backend.Error{
				Kind:    backend.KindServer,
				Status:  http.StatusUnauthorized,
				Message: "Email atau password salah",
			})

		_, err := svc.Login(ctx, testSID, validLogin())

		require.Error(t, err)
		assert.True(t, backend.IsUnauthorized(err))

		// Tidak ada session yang tersisa setelah login gagal.
		_, ok := sessions.Get(ctx, testSID)
		assert.False(t, ok)

		pending := feed.Drain(testSID)
		require.Len(t, pending, 1)
		assert.Equal(t, notify.LevelError, pending[0].Level)
		assert.Equal(t, "Email atau password salah", pending[0].Message)
	})

	t.Run("Email Trimmed Before Validation", func(t *testing.T) {
		svc, mockBackend, _, _, ctx := newService(t)

		req := validLogin()
		req.Email = "  budi@student.unri.ac.id  "

		mockBackend.EXPECT().
			Login(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, got backend.LoginRequest) (backend.LoginResponse, error) {
				assert.Equal(t, "budi@student.unri.ac.id", got.Email)
				return backend.LoginResponse{Token: "tok", User: backend.User{ID: "u-1"}}, nil
			})

		_, err := svc.Login(ctx, testSID, req)
		require.NoError(t, err)
	})
}
