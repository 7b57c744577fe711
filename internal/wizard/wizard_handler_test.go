package wizard_test

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/hzqula/portal-gateway/internal/backend"
	"github.com/hzqula/portal-gateway/internal/pkg/request"
	"github.com/hzqula/portal-gateway/internal/pkg/validation"
	"github.com/hzqula/portal-gateway/internal/wizard"
	wizarderrors "github.com/hzqula/portal-gateway/internal/wizard/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// ==================== FAKE SERVICE ====================

type fakeWizardService struct {
	submitEmailFunc   func(ctx context.Context, sid, email string) (wizard.StateResponse, error)
	verifyCodeFunc    func(ctx context.Context, sid, code string) (wizard.StateResponse, error)
	resendCodeFunc    func(ctx context.Context, sid string) (wizard.StateResponse, error)
	backFunc          func(ctx context.Context, sid string) (wizard.StateResponse, error)
	attachPictureFunc func(ctx context.Context, sid, filename, mimeType string, data []byte) (wizard.StateResponse, error)
	clearPictureFunc  func(ctx context.Context, sid string) (wizard.StateResponse, error)
	submitDetailsFunc func(ctx context.Context, sid string, req wizard.DetailsRequest) (wizard.StateResponse, error)
	stateFunc         func(ctx context.Context, sid string) wizard.StateResponse
}

func (f *fakeWizardService) SubmitEmail(ctx context.Context, sid, email string) (wizard.StateResponse, error) {
	if f.submitEmailFunc != nil {
		return f.submitEmailFunc(ctx, sid, email)
	}
	return wizard.StateResponse{}, nil
}
func (f *fakeWizardService) VerifyCode(ctx context.Context, sid, code string) (wizard.StateResponse, error) {
	if f.verifyCodeFunc != nil {
		return f.verifyCodeFunc(ctx, sid, code)
	}
	return wizard.StateResponse{}, nil
}
func (f *fakeWizardService) ResendCode(ctx context.Context, sid string) (wizard.StateResponse, error) {
	if f.resendCodeFunc != nil {
		return f.resendCodeFunc(ctx, sid)
	}
	return wizard.StateResponse{}, nil
}
func (f *fakeWizardService) Back(ctx context.Context, sid string) (wizard.StateResponse, error) {
	if f.backFunc != nil {
		return f.backFunc(ctx, sid)
	}
	return wizard.StateResponse{}, nil
}
func (f *fakeWizardService) AttachPicture(ctx context.Context, sid, filename, mimeType string, data []byte) (wizard.StateResponse, error) {
	if f.attachPictureFunc != nil {
		return f.attachPictureFunc(ctx, sid, filename, mimeType, data)
	}
	return wizard.StateResponse{}, nil
}
func (f *fakeWizardService) ClearPicture(ctx context.Context, sid string) (wizard.StateResponse, error) {
	if f.clearPictureFunc != nil {
		return f.clearPictureFunc(ctx, sid)
	}
	return wizard.StateResponse{}, nil
}
func (f *fakeWizardService) SubmitDetails(ctx context.Context, sid string, req wizard.DetailsRequest) (wizard.StateResponse, error) {
	if f.submitDetailsFunc != nil {
		return f.submitDetailsFunc(ctx, sid, req)
	}
	return wizard.StateResponse{}, nil
}
func (f *fakeWizardService) State(ctx context.Context, sid string) wizard.StateResponse {
	if f.stateFunc != nil {
		return f.stateFunc(ctx, sid)
	}
	return wizard.StateResponse{}
}

// ==================== HELPER FUNCTIONS ====================

func setupWizardRouter(svc wizard.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	handler := wizard.NewHandler(svc, zap.NewNop())
	r.Use(func(c *gin.Context) {
		c.Set(request.GinSessionIDKey, "sid-1")
		c.Next()
	})
	r.POST("/register/email", handler.SubmitEmail)
	r.POST("/register/verify-otp", handler.VerifyOTP)
	r.POST("/register/resend", handler.ResendCode)
	r.POST("/register/back", handler.Back)
	r.POST("/register/picture", handler.AttachPicture)
	r.DELETE("/register/picture", handler.ClearPicture)
	r.POST("/register/details", handler.SubmitDetails)
	r.GET("/register/state", handler.State)
	r.GET("/register/role", handler.Role)
	return r
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestWizardHandler_SubmitEmail(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc := &fakeWizardService{
			submitEmailFunc: func(_ context.Context, sid, email string) (wizard.StateResponse, error) {
				assert.Equal(t, "sid-1", sid)
				assert.Equal(t, "budi@student.unri.ac.id", email)
				return wizard.StateResponse{Step: 2, InferredRole: wizard.RoleStudent, ResendCooldownSeconds: 60}, nil
			},
		}
		r := setupWizardRouter(svc)

		w := postJSON(r, "/register/email", `{"email":"budi@student.unri.ac.id"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"step":2`)
		assert.Contains(t, w.Body.String(), "STUDENT")
	})

	t.Run("Malformed JSON", func(t *testing.T) {
		r := setupWizardRouter(&fakeWizardService{})

		w := postJSON(r, "/register/email", `{invalid}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Field Errors Returned As Details", func(t *testing.T) {
		svc := &fakeWizardService{
			submitEmailFunc: func(context.Context, string, string) (wizard.StateResponse, error) {
				return wizard.StateResponse{Step: 1}, validation.FieldErrors{"email": "Gunakan email kampus"}
			},
		}
		r := setupWizardRouter(svc)

		w := postJSON(r, "/register/email", `{"email":"budi@gmail.com"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
		assert.Contains(t, w.Body.String(), "Gunakan email kampus")
	})

	t.Run("Upstream Error Status Propagated", func(t *testing.T) {
		svc := &fakeWizardService{
			submitEmailFunc: func(context.Context, string, string) (wizard.StateResponse, error) {
				return wizard.StateResponse{}, &backend.Error{
					Kind:    backend.KindServer,
					Status:  http.StatusConflict,
					Message: "Email sudah terdaftar",
				}
			},
		}
		r := setupWizardRouter(svc)

		w := postJSON(r, "/register/email", `{"email":"budi@student.unri.ac.id"}`)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "Email sudah terdaftar")
	})

	t.Run("Network Error Maps To Bad Gateway", func(t *testing.T) {
		svc := &fakeWizardService{
			submitEmailFunc: func(context.Context, string, string) (wizard.StateResponse, error) {
				return wizard.StateResponse{}, &backend.Error{Kind: backend.KindNetwork, Message: "connection refused"}
			},
		}
		r := setupWizardRouter(svc)

		w := postJSON(r, "/register/email", `{"email":"budi@student.unri.ac.id"}`)

		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.NotContains(t, w.Body.String(), "connection refused")
	})
}

func TestWizardHandler_ResendCode(t *testing.T) {
	t.Run("Cooldown Maps To Too Many Requests", func(t *testing.T) {
		svc := &fakeWizardService{
			resendCodeFunc: func(context.Context, string) (wizard.StateResponse, error) {
				return wizard.StateResponse{Step: 2, ResendCooldownSeconds: 42}, wizarderrors.ErrCooldownActive
			},
		}
		r := setupWizardRouter(svc)

		w := postJSON(r, "/register/resend", "")

		assert.Equal(t, http.StatusTooManyRequests, w.Code)
	})
}

func TestWizardHandler_Back(t *testing.T) {
	t.Run("Step Order Violation Maps To Conflict", func(t *testing.T) {
		svc := &fakeWizardService{
			backFunc: func(context.Context, string) (wizard.StateResponse, error) {
				return wizard.StateResponse{Step: 1}, wizarderrors.ErrStepOrder
			},
		}
		r := setupWizardRouter(svc)

		w := postJSON(r, "/register/back", "")

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestWizardHandler_AttachPicture(t *testing.T) {
	buildUpload := func(t *testing.T, field, filename, contentType string, data []byte) (*bytes.Buffer, string) {
		t.Helper()
		buf := &bytes.Buffer{}
		mw := multipart.NewWriter(buf)

		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
		header.Set("Content-Type", contentType)
		part, err := mw.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		return buf, mw.FormDataContentType()
	}

	t.Run("Passes Declared Content Type To Service", func(t *testing.T) {
		var gotMIME, gotName string
		svc := &fakeWizardService{
			attachPictureFunc: func(_ context.Context, _, filename, mimeType string, data []byte) (wizard.StateResponse, error) {
				gotName = filename
				gotMIME = mimeType
				assert.Len(t, data, 4)
				return wizard.StateResponse{Step: 3, HasPicture: true, PictureName: filename}, nil
			},
		}
		r := setupWizardRouter(svc)

		buf, contentType := buildUpload(t, "profilePicture", "foto.png", "image/png", []byte{1, 2, 3, 4})
		req := httptest.NewRequest(http.MethodPost, "/register/picture", buf)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "foto.png", gotName)
		assert.Equal(t, "image/png", gotMIME)
	})

	t.Run("Missing File Field Rejected", func(t *testing.T) {
		r := setupWizardRouter(&fakeWizardService{})

		buf, contentType := buildUpload(t, "lampiran", "foto.png", "image/png", []byte{1})
		req := httptest.NewRequest(http.MethodPost, "/register/picture", buf)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestWizardHandler_State(t *testing.T) {
	svc := &fakeWizardService{
		stateFunc: func(_ context.Context, sid string) wizard.StateResponse {
			assert.Equal(t, "sid-1", sid)
			return wizard.StateResponse{Step: 2, Email: "budi@student.unri.ac.id", ResendCooldownSeconds: 17}
		},
	}
	r := setupWizardRouter(svc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/register/state", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"resendCooldownSeconds":17`)
}

func TestWizardHandler_Role(t *testing.T) {
	r := setupWizardRouter(&fakeWizardService{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/register/role?email=sri@lecturer.unri.ac.id", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "LECTURER")
}
