package handler

import (
	"net/http"
	"strings"
	"testing"

	"telecare/internal/models"

	"github.com/stretchr/testify/require"
)

func TestRegister_ThenSession(t *testing.T) {
	db := newTestDB(t)
	r := newTestAPI(t, db, "")

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", map[string]string{
		"email":    "pat@example.com",
		"password": testPassword,
		"name":     "Pat Doe",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	body := decodeBody(t, w)
	require.Equal(t, true, body["success"])
	user := body["user"].(map[string]interface{})
	require.Equal(t, "pat@example.com", user["email"])
	require.Equal(t, models.RolePatient, user["role"])
	require.NotContains(t, w.Body.String(), "password")

	// the cookie from registration authenticates the session endpoint
	cookie := authCookie(t, w)
	w2 := doJSON(t, r, http.MethodGet, "/api/auth/session", nil, cookie)
	require.Equal(t, http.StatusOK, w2.Code)
	body2 := decodeBody(t, w2)
	require.Equal(t, "pat@example.com", body2["user"].(map[string]interface{})["email"])
}

func TestRegister_DuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	r := newTestAPI(t, db, "")

	payload := map[string]string{
		"email":    "dup@example.com",
		"password": testPassword,
		"name":     "First",
	}
	require.Equal(t, http.StatusCreated,
		doJSON(t, r, http.MethodPost, "/api/auth/register", payload, nil).Code)

	payload["name"] = "Second"
	w := doJSON(t, r, http.MethodPost, "/api/auth/register", payload, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "email already in use", decodeBody(t, w)["message"])

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestRegister_ValidationErrors(t *testing.T) {
	db := newTestDB(t)
	r := newTestAPI(t, db, "")

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", map[string]string{
		"email":    "not-an-email",
		"password": "weak",
	}, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	body := decodeBody(t, w)
	require.Equal(t, false, body["success"])
	fields := body["errors"].(map[string]interface{})
	require.Contains(t, fields, "email")
	require.Contains(t, fields, "password")
	require.Contains(t, fields, "name")
}

func TestRegister_AdminNotSelfAssignable(t *testing.T) {
	db := newTestDB(t)
	r := newTestAPI(t, db, "")

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", map[string]string{
		"email":    "boss@example.com",
		"password": testPassword,
		"name":     "Boss",
		"role":     models.RoleAdmin,
	}, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, decodeBody(t, w)["errors"], "role")
}

func TestRegister_DoctorLicense(t *testing.T) {
	db := newTestDB(t)
	r := newTestAPI(t, db, "")

	// malformed license number rejected
	w := doJSON(t, r, http.MethodPost, "/api/auth/register", map[string]string{
		"email":          "doc@example.com",
		"password":       testPassword,
		"name":           "Dr Doe",
		"role":           models.RoleDoctor,
		"license_number": "nope",
	}, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, decodeBody(t, w)["errors"], "license_number")

	// well-formed number passes against an unseeded registry
	w = doJSON(t, r, http.MethodPost, "/api/auth/register", map[string]string{
		"email":          "doc@example.com",
		"password":       testPassword,
		"name":           "Dr Doe",
		"role":           models.RoleDoctor,
		"license_number": "MD-12345",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, models.RoleDoctor,
		decodeBody(t, w)["user"].(map[string]interface{})["role"])
}

func TestLogin_GenericFailure(t *testing.T) {
	db := newTestDB(t)
	r := newTestAPI(t, db, "")
	seedUser(t, db, "known@example.com", models.RolePatient)

	wrongPwd := doJSON(t, r, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "known@example.com",
		"password": "WrongPass1",
	}, nil)
	unknownEmail := doJSON(t, r, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "nobody@example.com",
		"password": testPassword,
	}, nil)

	// identical status and body: the response must not reveal which
	// field was wrong
	require.Equal(t, http.StatusUnauthorized, wrongPwd.Code)
	require.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
	require.JSONEq(t, wrongPwd.Body.String(), unknownEmail.Body.String())
	require.Contains(t, wrongPwd.Body.String(), "invalid email or password")
}

func TestLogin_Success(t *testing.T) {
	db := newTestDB(t)
	r := newTestAPI(t, db, "")
	user := seedUser(t, db, "login@example.com", models.RolePatient)

	w := doJSON(t, r, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    user.Email,
		"password": testPassword,
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	cookie := authCookie(t, w)
	require.True(t, cookie.HttpOnly)
	require.Equal(t, "/", cookie.Path)

	w2 := doJSON(t, r, http.MethodGet, "/api/me", nil, cookie)
	require.Equal(t, http.StatusOK, w2.Code)
}

func TestLogout_DeletesCookie(t *testing.T) {
	db := newTestDB(t)
	r := newTestAPI(t, db, "")

	w := doJSON(t, r, http.MethodPost, "/api/auth/logout", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	setCookie := w.Header().Get("Set-Cookie")
	require.True(t, strings.HasPrefix(setCookie, "auth-token=;"),
		"expected cleared cookie, got %q", setCookie)

	// idempotent: a second logout behaves the same
	require.Equal(t, http.StatusOK,
		doJSON(t, r, http.MethodPost, "/api/auth/logout", nil, nil).Code)
}

func TestSession_NoCookie(t *testing.T) {
	db := newTestDB(t)
	r := newTestAPI(t, db, "")

	w := doJSON(t, r, http.MethodGet, "/api/auth/session", nil, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.JSONEq(t, `{"success":false}`, w.Body.String())
}

func TestProtectedRoute_NoCookie(t *testing.T) {
	db := newTestDB(t)
	r := newTestAPI(t, db, "")

	w := doJSON(t, r, http.MethodGet, "/api/me", nil, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, false, decodeBody(t, w)["success"])
}
