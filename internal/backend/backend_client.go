package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"go.uber.org/zap"
)

//go:generate mockgen -source=backend_client.go -destination=../mock/backend/backend_client_mock.go -package=mock
type Client interface {
	RegisterEmail(ctx context.Context, email string) (MessageResponse, error)
	VerifyOTP(ctx context.Context, email string, code int) (MessageResponse, error)
	RegisterUser(ctx context.Context, req RegisterUserRequest) (RegisterUserResponse, error)
	Login(ctx context.Context, req LoginRequest) (LoginResponse, error)
}

// CredentialSource menyediakan bearer token milik request yang sedang
// berjalan (dibaca dari durable storage lewat session store).
type CredentialSource interface {
	Token(ctx context.Context) (string, bool)
}

// AuthExpiredFunc dipanggil maksimal sekali per request saat server membalas
// 401: bersihkan credential, kabari user, arahkan ke halaman login.
type AuthExpiredFunc func(ctx context.Context)

type httpClient struct {
	baseURL       string
	http          *http.Client
	creds         CredentialSource
	onAuthExpired AuthExpiredFunc
	logger        *zap.Logger
}

func NewClient(baseURL string, creds CredentialSource, onAuthExpired AuthExpiredFunc, logger ...*zap.Logger) Client {
	l := zap.L().Named("backend.client")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("backend.client")
	}
	return &httpClient{
		baseURL:       strings.TrimRight(baseURL, "/"),
		http:          &http.Client{Timeout: 15 * time.Second},
		creds:         creds,
		onAuthExpired: onAuthExpired,
		logger:        l,
	}
}

func (c *httpClient) RegisterEmail(ctx context.Context, email string) (MessageResponse, error) {
	var out MessageResponse
	body := map[string]string{"email": email}
	err := c.postJSON(ctx, "/auth/register/email", body, &out)
	return out, err
}

func (c *httpClient) VerifyOTP(ctx context.Context, email string, code int) (MessageResponse, error) {
	var out MessageResponse
	// code dikirim sebagai number, bukan string
	body := struct {
		Email string `json:"email"`
		Code  int    `json:"code"`
	}{Email: email, Code: code}
	err := c.postJSON(ctx, "/auth/register/verify-otp", body, &out)
	return out, err
}

func (c *httpClient) RegisterUser(ctx context.Context, req RegisterUserRequest) (RegisterUserResponse, error) {
	var out RegisterUserResponse
	if req.Picture == nil {
		err := c.postJSON(ctx, "/auth/register/user", req, &out)
		return out, err
	}

	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)

	fields := map[string]string{
		"email":       req.Email,
		"name":        req.Name,
		"nim":         req.NIM,
		"nip":         req.NIP,
		"phoneNumber": req.PhoneNumber,
		"password":    req.Password,
	}
	for key, val := range fields {
		if val == "" {
			continue
		}
		if err := mw.WriteField(key, val); err != nil {
			return out, fmt.Errorf("failed to build multipart body: %w", err)
		}
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="profilePicture"; filename=%q`, req.Picture.Filename))
	header.Set("Content-Type", req.Picture.MIMEType)
	part, err := mw.CreatePart(header)
	if err != nil {
		return out, fmt.Errorf("failed to build multipart body: %w", err)
	}
	if _, err := part.Write(req.Picture.Data); err != nil {
		return out, fmt.Errorf("failed to build multipart body: %w", err)
	}
	if err := mw.Close(); err != nil {
		return out, fmt.Errorf("failed to build multipart body: %w", err)
	}

	err = c.do(ctx, http.MethodPost, "/auth/register/user", mw.FormDataContentType(), buf, &out)
	return out, err
}

func (c *httpClient) Login(ctx context.Context, req LoginRequest) (LoginResponse, error) {
	var out LoginResponse
	err := c.postJSON(ctx, "/auth/login", req, &out)
	return out, err
}

func (c *httpClient) postJSON(ctx context.Context, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode request body: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, "application/json", bytes.NewReader(body), out)
}

func (c *httpClient) do(ctx context.Context, method, path, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.creds != nil {
		if token, ok := c.creds.Token(ctx); ok {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("backend request failed", zap.String("path", path), zap.Error(err))
		return &Error{Kind: KindNetwork, Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &Error{Kind: KindUnknown, Status: resp.StatusCode, Message: "unexpected response body"}
		}
		return nil
	}

	berr := c.classify(resp)

	// Recovery satu kali per request instance: tidak mungkin loop karena
	// tidak ada retry setelah hook jalan.
	if resp.StatusCode == http.StatusUnauthorized && c.onAuthExpired != nil {
		c.logger.Info("backend returned 401, triggering auth expiry recovery",
			zap.String("path", path))
		c.onAuthExpired(ctx)
	}

	return berr
}

func (c *httpClient) classify(resp *http.Response) *Error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var envelope MessageResponse
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Message != "" {
		return &Error{Kind: KindServer, Status: resp.StatusCode, Message: envelope.Message}
	}

	return &Error{Kind: KindUnknown, Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
}
