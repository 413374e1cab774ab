package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/nuliana/getapet/internal/logging"
	"github.com/nuliana/getapet/internal/server/config"
	"github.com/nuliana/getapet/internal/server/repositories/repomanager"
	"github.com/nuliana/getapet/internal/server/services"
)

func newTestServer(t *testing.T) (*echo.Echo, *repomanager.InMemoryRepositoryManager) {
	t.Helper()
	m := repomanager.NewInMemoryRepositoryManager()
	cfg := &config.Config{SecretKey: "test-secret"}
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	svc := services.NewIdentityService(nil, m, cfg, logger)
	return New(logger, svc), m
}

func doJSON(t *testing.T, e *echo.Echo, method, target, body, authHeader string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func registerAna(t *testing.T, e *echo.Echo) (token, userID string) {
	t.Helper()
	rec := doJSON(t, e, http.MethodPost, "/users/register",
		`{"name":"Ana","email":"ana@x.com","phone":"111","password":"secret1","confirmpassword":"secret1"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	return body["token"].(string), body["userId"].(string)
}

func TestRegister_Created(t *testing.T) {
	e, _ := newTestServer(t)

	rec := doJSON(t, e, http.MethodPost, "/users/register",
		`{"name":"Ana","email":"ana@x.com","phone":"111","password":"secret1","confirmpassword":"secret1"}`, "")

	require.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	require.Equal(t, "Voce esta autenticado", body["message"])
	require.NotEmpty(t, body["token"])
	require.NotEmpty(t, body["userId"])
}

func TestRegister_MissingFields(t *testing.T) {
	e, _ := newTestServer(t)

	rec := doJSON(t, e, http.MethodPost, "/users/register",
		`{"email":"ana@x.com","phone":"111","password":"p","confirmpassword":"p"}`, "")

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Equal(t, "O nome é obrigatório", decodeBody(t, rec)["message"])
}

func TestRegister_DuplicateEmail(t *testing.T) {
	e, _ := newTestServer(t)
	registerAna(t, e)

	rec := doJSON(t, e, http.MethodPost, "/users/register",
		`{"name":"Outra","email":"ana@x.com","phone":"222","password":"p2","confirmpassword":"p2"}`, "")

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Equal(t, "Por favor, utilize outro email", decodeBody(t, rec)["message"])
}

func TestLogin_WrongPassword(t *testing.T) {
	e, _ := newTestServer(t)
	registerAna(t, e)

	rec := doJSON(t, e, http.MethodPost, "/users/login",
		`{"email":"ana@x.com","password":"wrong"}`, "")

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Equal(t, "Senha incorreta", decodeBody(t, rec)["message"])
}

func TestLogin_UnknownEmail(t *testing.T) {
	e, _ := newTestServer(t)

	rec := doJSON(t, e, http.MethodPost, "/users/login",
		`{"email":"ghost@x.com","password":"p"}`, "")

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Equal(t, "Nao existe um usuario com esse email", decodeBody(t, rec)["message"])
}

func TestLogin_Success(t *testing.T) {
	e, _ := newTestServer(t)
	_, userID := registerAna(t, e)

	rec := doJSON(t, e, http.MethodPost, "/users/login",
		`{"email":"ana@x.com","password":"secret1"}`, "")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	require.NotEmpty(t, body["token"])
	require.Equal(t, userID, body["userId"])
}

func TestCheckUser_Anonymous(t *testing.T) {
	e, _ := newTestServer(t)

	rec := doJSON(t, e, http.MethodGet, "/users/checkuser", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "null", strings.TrimSpace(rec.Body.String()))
}

func TestCheckUser_Authenticated(t *testing.T) {
	e, _ := newTestServer(t)
	token, userID := registerAna(t, e)

	rec := doJSON(t, e, http.MethodGet, "/users/checkuser", "", "Bearer "+token)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	require.Equal(t, userID, body["id"])
	require.Equal(t, "Ana", body["name"])
	require.NotContains(t, body, "password", "no password field in any response")
	require.NotContains(t, rec.Body.String(), "$2a$", "no bcrypt hash leaks")
}

func TestCheckUser_InvalidToken(t *testing.T) {
	e, _ := newTestServer(t)

	rec := doJSON(t, e, http.MethodGet, "/users/checkuser", "", "Bearer junk")

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "Acesso negado!", decodeBody(t, rec)["message"])
}

func TestGetByID(t *testing.T) {
	e, _ := newTestServer(t)
	_, userID := registerAna(t, e)

	rec := doJSON(t, e, http.MethodGet, "/users/"+userID, "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	user, ok := body["user"].(map[string]any)
	require.True(t, ok, rec.Body.String())
	require.Equal(t, "Ana", user["name"])
	require.NotContains(t, user, "password")
}

func TestGetByID_NotFound(t *testing.T) {
	e, _ := newTestServer(t)

	rec := doJSON(t, e, http.MethodGet, "/users/missing", "", "")

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Equal(t, "Usuario nao encontrado", decodeBody(t, rec)["message"])
}

func TestEdit_PhoneChange(t *testing.T) {
	e, m := newTestServer(t)
	token, userID := registerAna(t, e)

	rec := doJSON(t, e, http.MethodPatch, "/users/edit/"+userID,
		`{"name":"Ana","email":"ana@x.com","phone":"999"}`, "Bearer "+token)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, "Usuario atualizado com sucesso", decodeBody(t, rec)["message"])

	after, err := m.Accounts(nil).GetByID(context.Background(), userID)
	require.NoError(t, err)
	require.Equal(t, "999", after.Phone)
	require.Equal(t, "ana@x.com", after.Email)
}

func TestEdit_PasswordMismatch(t *testing.T) {
	e, _ := newTestServer(t)
	token, userID := registerAna(t, e)

	rec := doJSON(t, e, http.MethodPatch, "/users/edit/"+userID,
		`{"name":"Ana","email":"ana@x.com","phone":"111","password":"a","confirmpassword":"b"}`,
		"Bearer "+token)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Equal(t, "A senha e a confirmacao de senha precisam ser iguais", decodeBody(t, rec)["message"])
}

func TestEdit_EmailTakenByOther(t *testing.T) {
	e, _ := newTestServer(t)
	registerAna(t, e)

	rec := doJSON(t, e, http.MethodPost, "/users/register",
		`{"name":"Bia","email":"bia@x.com","phone":"222","password":"p2","confirmpassword":"p2"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	token := decodeBody(t, rec)["token"].(string)
	userID := decodeBody(t, rec)["userId"].(string)

	rec = doJSON(t, e, http.MethodPatch, "/users/edit/"+userID,
		`{"name":"Bia","email":"ana@x.com","phone":"222"}`, "Bearer "+token)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Equal(t, "Email ja cadastrado!", decodeBody(t, rec)["message"])
}

func TestEdit_RequiresToken(t *testing.T) {
	e, _ := newTestServer(t)
	_, userID := registerAna(t, e)

	rec := doJSON(t, e, http.MethodPatch, "/users/edit/"+userID,
		`{"name":"Ana","email":"ana@x.com","phone":"111"}`, "")

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "Acesso negado!", decodeBody(t, rec)["message"])
}

func TestEdit_MultipartWithImage(t *testing.T) {
	e, m := newTestServer(t)
	token, userID := registerAna(t, e)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("name", "Ana"))
	require.NoError(t, w.WriteField("email", "ana@x.com"))
	require.NoError(t, w.WriteField("phone", "111"))
	fw, err := w.CreateFormFile("image", "avatar.png")
	require.NoError(t, err)
	_, err = fw.Write([]byte("png-bytes"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPatch, "/users/edit/"+userID, &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	after, err := m.Accounts(nil).GetByID(context.Background(), userID)
	require.NoError(t, err)
	require.Equal(t, "avatar.png", after.Image)
}
