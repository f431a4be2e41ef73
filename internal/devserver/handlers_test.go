package devserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cdcsn/portal/internal/logging"
	"github.com/cdcsn/portal/internal/portal/models"
)

func newTestServer(t *testing.T, env string) *httptest.Server {
	t.Helper()
	svc := NewService(NewMemoryRepository(), logging.Discard(), Config{
		TokenSecret: "test-secret",
		Env:         env,
		OTPTTL:      5 * time.Minute,
		TokenTTL:    time.Hour,
	})
	srv := httptest.NewServer(NewHandler(svc, logging.Discard()).Router())
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, srv *httptest.Server, path, token string, body, out any) int {
	t.Helper()
	buf, err := json.Marshal(body)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, srv.URL+path, bytes.NewReader(buf))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func testRegistration() models.Registration {
	return models.Registration{
		LastName:             "Diop",
		FirstName:            "Awa",
		Email:                "awa.diop@example.sn",
		Phone:                "+221770000000",
		Password:             "motdepasse",
		PasswordConfirmation: "motdepasse",
		AccountType:          models.AccountIndividual,
	}
}

func TestRegisterLoginVerifyLogoutFlow(t *testing.T) {
	srv := newTestServer(t, "development")

	var regResp models.RegisterResponse
	status := postJSON(t, srv, "/api/auth/register", "", testRegistration(), &regResp)
	require.Equal(t, http.StatusCreated, status)
	require.True(t, regResp.RequiresPhoneVerification)
	require.NotNil(t, regResp.User)
	require.False(t, regResp.User.PhoneVerified)

	login := LoginInput{Email: "awa.diop@example.sn", Password: "motdepasse", DeviceName: "cdc-cli"}
	var loginResp models.AuthResponse
	status = postJSON(t, srv, "/api/auth/login", "", login, &loginResp)
	require.Equal(t, http.StatusOK, status)
	require.True(t, loginResp.RequiresPhoneVerification)
	require.Empty(t, loginResp.Token)
	require.NotEmpty(t, loginResp.OTPPreview, "dev environment should expose the code")

	// Wrong code is rejected without verifying the phone.
	var failure map[string]string
	status = postJSON(t, srv, "/api/auth/phone/verify", "", VerifyInput{
		Code: "000000", Email: login.Email, DeviceName: "cdc-cli",
	}, &failure)
	require.Equal(t, http.StatusUnprocessableEntity, status)
	require.Equal(t, "Code invalide", failure["message"])

	// Logging in again issues a fresh code, the same path the client's
	// resend uses.
	status = postJSON(t, srv, "/api/auth/login", "", login, &loginResp)
	require.Equal(t, http.StatusOK, status)

	var verifyResp models.AuthResponse
	status = postJSON(t, srv, "/api/auth/phone/verify", "", VerifyInput{
		Code: loginResp.OTPPreview, Email: login.Email, DeviceName: "cdc-cli",
	}, &verifyResp)
	require.Equal(t, http.StatusOK, status)
	require.True(t, verifyResp.Authenticated())
	require.True(t, verifyResp.User.PhoneVerified)

	// Subsequent logins go straight to a token.
	status = postJSON(t, srv, "/api/auth/login", "", login, &loginResp)
	require.Equal(t, http.StatusOK, status)
	require.True(t, loginResp.Authenticated())
	require.Equal(t, "Bearer", loginResp.TokenType)

	status = postJSON(t, srv, "/api/auth/logout", loginResp.Token, struct{}{}, nil)
	require.Equal(t, http.StatusOK, status)
}

func TestLoginUnknownAccount(t *testing.T) {
	srv := newTestServer(t, "development")

	var failure map[string]string
	status := postJSON(t, srv, "/api/auth/login", "", LoginInput{
		Email: "nobody@example.sn", Password: "x",
	}, &failure)
	require.Equal(t, http.StatusUnauthorized, status)
	require.Equal(t, "Identifiants invalides", failure["message"])
}

func TestLoginMissingIdentifier(t *testing.T) {
	srv := newTestServer(t, "development")

	var failure map[string]string
	status := postJSON(t, srv, "/api/auth/login", "", LoginInput{Password: "x"}, &failure)
	require.Equal(t, http.StatusUnprocessableEntity, status)
	require.Equal(t, "Email ou téléphone requis", failure["message"])
}

func TestLoginByPhone(t *testing.T) {
	srv := newTestServer(t, "development")

	status := postJSON(t, srv, "/api/auth/register", "", testRegistration(), nil)
	require.Equal(t, http.StatusCreated, status)

	var loginResp models.AuthResponse
	status = postJSON(t, srv, "/api/auth/login", "", LoginInput{
		Telephone: "+221770000000", Password: "motdepasse",
	}, &loginResp)
	require.Equal(t, http.StatusOK, status)
	require.True(t, loginResp.RequiresPhoneVerification)
}

func TestRegisterPasswordMismatch(t *testing.T) {
	srv := newTestServer(t, "development")

	reg := testRegistration()
	reg.PasswordConfirmation = "autre"
	var failure map[string]string
	status := postJSON(t, srv, "/api/auth/register", "", reg, &failure)
	require.Equal(t, http.StatusUnprocessableEntity, status)
	require.Equal(t, "Les mots de passe ne correspondent pas", failure["message"])
}

func TestRegisterDuplicate(t *testing.T) {
	srv := newTestServer(t, "development")

	status := postJSON(t, srv, "/api/auth/register", "", testRegistration(), nil)
	require.Equal(t, http.StatusCreated, status)

	var failure map[string]string
	status = postJSON(t, srv, "/api/auth/register", "", testRegistration(), &failure)
	require.Equal(t, http.StatusUnprocessableEntity, status)
	require.Equal(t, "Un compte existe déjà avec cet email ou ce téléphone", failure["message"])
}

func TestProductionHidesOTPPreview(t *testing.T) {
	srv := newTestServer(t, "production")

	status := postJSON(t, srv, "/api/auth/register", "", testRegistration(), nil)
	require.Equal(t, http.StatusCreated, status)

	var loginResp models.AuthResponse
	status = postJSON(t, srv, "/api/auth/login", "", LoginInput{
		Email: "awa.diop@example.sn", Password: "motdepasse",
	}, &loginResp)
	require.Equal(t, http.StatusOK, status)
	require.True(t, loginResp.RequiresPhoneVerification)
	require.Empty(t, loginResp.OTPPreview)
}

func TestLogoutWithoutToken(t *testing.T) {
	srv := newTestServer(t, "development")

	var failure map[string]string
	status := postJSON(t, srv, "/api/auth/logout", "", struct{}{}, &failure)
	require.Equal(t, http.StatusUnauthorized, status)
	require.Equal(t, "Token manquant", failure["message"])
}
