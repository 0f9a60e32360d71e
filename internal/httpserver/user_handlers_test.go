package httpserver

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaticano/paroquia-auth/internal/service"
)

func createUserVia(t *testing.T, e *echo.Echo, adminToken, username, role string) service.UserDetail {
	t.Helper()

	rec := doJSON(e, http.MethodPost, "/api/users",
		`{"username":"`+username+`","name":"`+username+`","role":"`+role+`","password":"Secret123"}`,
		adminToken)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var out service.UserDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestUsersEndpoint_AuthGates(t *testing.T) {
	t.Parallel()

	e := newTestServer(t)
	admin := bootstrapAndLogin(t, e)

	// no token at all
	rec := doJSON(e, http.MethodGet, "/api/users", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// authenticated but below super_admin
	createUserVia(t, e, admin.AccessToken, "maria", "secretario")
	rec = doJSON(e, http.MethodPost, "/api/auth/login",
		`{"username":"maria","password":"Secret123"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	maria := decodeLogin(t, rec)

	rec = doJSON(e, http.MethodGet, "/api/users", "", maria.AccessToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = doJSON(e, http.MethodDelete, "/api/users/"+admin.User.UserID, "", maria.AccessToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestUsersEndpoint_CreateListGet(t *testing.T) {
	t.Parallel()

	e := newTestServer(t)
	admin := bootstrapAndLogin(t, e)

	created := createUserVia(t, e, admin.AccessToken, "maria", "secretario")
	assert.Equal(t, "maria", created.Username)
	assert.Equal(t, "secretario", created.Role)
	assert.True(t, created.Active)

	// duplicate username
	rec := doJSON(e, http.MethodPost, "/api/users",
		`{"username":"maria","name":"Other","role":"secretario","password":"Secret123"}`,
		admin.AccessToken)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// invalid role
	rec = doJSON(e, http.MethodPost, "/api/users",
		`{"username":"pedro","name":"Pedro","role":"bishop","password":"Secret123"}`,
		admin.AccessToken)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// missing fields
	rec = doJSON(e, http.MethodPost, "/api/users",
		`{"username":"pedro"}`, admin.AccessToken)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(e, http.MethodGet, "/api/users?search=mar&page=1&size=10", "", admin.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code)
	var list userListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.EqualValues(t, 1, list.Total)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "maria", list.Items[0].Username)
	assert.Equal(t, 1, list.Page)
	assert.Equal(t, 10, list.Size)

	rec = doJSON(e, http.MethodGet, "/api/users/"+created.UserID, "", admin.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(e, http.MethodGet, "/api/users/usr_missing", "", admin.AccessToken)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUsersEndpoint_UpdateAndDeactivate(t *testing.T) {
	t.Parallel()

	e := newTestServer(t)
	admin := bootstrapAndLogin(t, e)
	created := createUserVia(t, e, admin.AccessToken, "maria", "secretario")

	rec := doJSON(e, http.MethodPost, "/api/auth/login",
		`{"username":"maria","password":"Secret123"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	maria := decodeLogin(t, rec)

	rec = doJSON(e, http.MethodPut, "/api/users/"+created.UserID,
		`{"name":"Maria Aparecida","role":"chefe_nucleo","active":false}`,
		admin.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var updated service.UserDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, "Maria Aparecida", updated.Name)
	assert.Equal(t, "chefe_nucleo", updated.Role)
	assert.False(t, updated.Active)

	// deactivation killed the session
	rec = doJSON(e, http.MethodPost, "/api/auth/refresh",
		`{"refresh_token":"`+maria.RefreshToken+`"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = doJSON(e, http.MethodPost, "/api/auth/login",
		`{"username":"maria","password":"Secret123"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "account disabled")
}

func TestUsersEndpoint_DeleteAndResetPassword(t *testing.T) {
	t.Parallel()

	e := newTestServer(t)
	admin := bootstrapAndLogin(t, e)
	maria := createUserVia(t, e, admin.AccessToken, "maria", "secretario")
	pedro := createUserVia(t, e, admin.AccessToken, "pedro", "chefe_nucleo")

	// self-delete is rejected
	rec := doJSON(e, http.MethodDelete, "/api/users/"+admin.User.UserID, "", admin.AccessToken)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(e, http.MethodDelete, "/api/users/"+maria.UserID, "", admin.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(e, http.MethodGet, "/api/users/"+maria.UserID, "", admin.AccessToken)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// reset password: old one stops working, new one logs in
	rec = doJSON(e, http.MethodPost, "/api/users/"+pedro.UserID+"/reset-password",
		`{"new_password":"Fresh456"}`, admin.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(e, http.MethodPost, "/api/auth/login",
		`{"username":"pedro","password":"Secret123"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = doJSON(e, http.MethodPost, "/api/auth/login",
		`{"username":"pedro","password":"Fresh456"}`, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	// reset on a missing id
	rec = doJSON(e, http.MethodPost, "/api/users/usr_missing/reset-password",
		`{"new_password":"Fresh456"}`, admin.AccessToken)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
