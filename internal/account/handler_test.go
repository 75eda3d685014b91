// AngelaMos | 2026
// handler_test.go

package account

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelamos/referral-service/internal/middleware"
	"github.com/angelamos/referral-service/internal/referral"
)

func injectAccount(accountID string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(
				r.Context(),
				middleware.AccountIDKey,
				accountID,
			)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func newTestRouter(svc *Service, accountID string) chi.Router {
	router := chi.NewRouter()
	NewHandler(svc).RegisterRoutes(router, injectAccount(accountID))
	return router
}

func decodeError(t *testing.T, body []byte) (string, string) {
	t.Helper()

	var envelope struct {
		Success bool `json:"success"`
		Error   struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(body, &envelope))
	require.False(t, envelope.Success)
	return envelope.Error.Code, envelope.Error.Message
}

func registerJSON(t *testing.T, router chi.Router, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(
		http.MethodPost,
		"/register",
		strings.NewReader(body),
	)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandlerRegister(t *testing.T) {
	t.Parallel()

	router := newTestRouter(
		newTestService(newFakeRepo(), &fakeRedeemer{}),
		"",
	)

	rec := registerJSON(
		t,
		router,
		`{"email":"alice@example.com","password":"s3cret"}`,
	)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "token-for-alice@example.com", resp.AccessToken)
	assert.Equal(t, "bearer", resp.TokenType)
}

func TestHandlerRegisterErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		redeemer *fakeRedeemer
		body     string
		wantCode string
		wantMsg  string
	}{
		{
			name:     "malformed json",
			redeemer: &fakeRedeemer{},
			body:     "{not json",
			wantCode: "BAD_REQUEST",
			wantMsg:  "invalid request body",
		},
		{
			name:     "invalid email",
			redeemer: &fakeRedeemer{},
			body:     `{"email":"not-an-email","password":"s3cret"}`,
			wantCode: "BAD_REQUEST",
			wantMsg:  "email must be a valid email address",
		},
		{
			name:     "missing password",
			redeemer: &fakeRedeemer{},
			body:     `{"email":"alice@example.com"}`,
			wantCode: "BAD_REQUEST",
			wantMsg:  "password is required",
		},
		{
			name:     "invalid referral code",
			redeemer: &fakeRedeemer{err: referral.ErrCodeInvalid},
			body:     `{"email":"alice@example.com","password":"s3cret","referral_code":"nope"}`,
			wantCode: "BAD_REQUEST",
			wantMsg:  "invalid referral code",
		},
		{
			name:     "expired referral code",
			redeemer: &fakeRedeemer{err: referral.ErrCodeExpired},
			body:     `{"email":"alice@example.com","password":"s3cret","referral_code":"AbCd1234"}`,
			wantCode: "BAD_REQUEST",
			wantMsg:  "referral code expired",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			router := newTestRouter(
				newTestService(newFakeRepo(), tt.redeemer),
				"",
			)

			rec := registerJSON(t, router, tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)

			code, message := decodeError(t, rec.Body.Bytes())
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantMsg, message)
		})
	}
}

func TestHandlerRegisterDuplicate(t *testing.T) {
	t.Parallel()

	router := newTestRouter(
		newTestService(newFakeRepo(), &fakeRedeemer{}),
		"",
	)

	body := `{"email":"alice@example.com","password":"s3cret"}`
	require.Equal(t, http.StatusCreated, registerJSON(t, router, body).Code)

	rec := registerJSON(t, router, body)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	code, message := decodeError(t, rec.Body.Bytes())
	assert.Equal(t, "DUPLICATE", code)
	assert.Equal(t, "email already registered", message)
}

func loginForm(
	t *testing.T,
	router chi.Router,
	username, password string,
) *httptest.ResponseRecorder {
	t.Helper()

	form := url.Values{}
	if username != "" {
		form.Set("username", username)
	}
	if password != "" {
		form.Set("password", password)
	}

	req := httptest.NewRequest(
		http.MethodPost,
		"/token",
		strings.NewReader(form.Encode()),
	)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandlerLogin(t *testing.T) {
	t.Parallel()

	router := newTestRouter(
		newTestService(newFakeRepo(), &fakeRedeemer{}),
		"",
	)

	body := `{"email":"alice@example.com","password":"s3cret"}`
	require.Equal(t, http.StatusCreated, registerJSON(t, router, body).Code)

	rec := loginForm(t, router, "alice@example.com", "s3cret")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "token-for-alice@example.com", resp.AccessToken)
	assert.Equal(t, "bearer", resp.TokenType)
}

func TestHandlerLoginInvalidCredentials(t *testing.T) {
	t.Parallel()

	router := newTestRouter(
		newTestService(newFakeRepo(), &fakeRedeemer{}),
		"",
	)

	body := `{"email":"alice@example.com","password":"s3cret"}`
	require.Equal(t, http.StatusCreated, registerJSON(t, router, body).Code)

	// Wrong password and unknown email produce the same response.
	for _, creds := range [][2]string{
		{"alice@example.com", "wrong"},
		{"ghost@example.com", "s3cret"},
	} {
		rec := loginForm(t, router, creds[0], creds[1])
		require.Equal(t, http.StatusBadRequest, rec.Code)

		_, message := decodeError(t, rec.Body.Bytes())
		assert.Equal(t, "invalid credentials", message)
	}
}

func TestHandlerLoginMissingFields(t *testing.T) {
	t.Parallel()

	router := newTestRouter(
		newTestService(newFakeRepo(), &fakeRedeemer{}),
		"",
	)

	rec := loginForm(t, router, "alice@example.com", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	_, message := decodeError(t, rec.Body.Bytes())
	assert.Equal(t, "username and password are required", message)
}

func TestHandlerListReferrals(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	svc := newTestService(repo, &fakeRedeemer{ownerID: "referrer-1"})
	router := newTestRouter(svc, "referrer-1")

	_, err := svc.Register(context.Background(), RegisterRequest{
		Email:        "bob@example.com",
		Password:     "s3cret",
		ReferralCode: "AbCd1234",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/referrals", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var referees []RefereeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &referees))
	require.Len(t, referees, 1)
	assert.Equal(t, "bob@example.com", referees[0].Email)
}

func TestHandlerListReferralsExplicitID(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	referrerID := "0a8b52f2-0b0d-44c7-9f1a-1f4bb1c8a111"
	svc := newTestService(repo, &fakeRedeemer{ownerID: referrerID})
	router := newTestRouter(svc, "someone-else")

	_, err := svc.Register(context.Background(), RegisterRequest{
		Email:        "bob@example.com",
		Password:     "s3cret",
		ReferralCode: "AbCd1234",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(
		http.MethodGet,
		"/referrals?referrer_id="+referrerID,
		nil,
	)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var referees []RefereeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &referees))
	require.Len(t, referees, 1)
}

func TestHandlerListReferralsInvalidID(t *testing.T) {
	t.Parallel()

	router := newTestRouter(
		newTestService(newFakeRepo(), &fakeRedeemer{}),
		"referrer-1",
	)

	req := httptest.NewRequest(
		http.MethodGet,
		"/referrals?referrer_id=not-a-uuid",
		nil,
	)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	_, message := decodeError(t, rec.Body.Bytes())
	assert.Equal(t, "invalid referrer_id", message)
}

func TestHandlerListReferralsEmpty(t *testing.T) {
	t.Parallel()

	router := newTestRouter(
		newTestService(newFakeRepo(), &fakeRedeemer{}),
		"referrer-1",
	)

	req := httptest.NewRequest(http.MethodGet, "/referrals", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}
