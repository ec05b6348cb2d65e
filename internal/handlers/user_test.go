package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/experiencehub/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetProfile(t *testing.T) {
	users := newMemUserRepo(&models.User{ID: 1, UserName: "alice", Email: "alice@example.com"})
	handler := NewUserHandler(users, &fakeUploader{})
	e := newTestEcho()

	c, rec := newTestContext(e, http.MethodGet, "/profile", "", 1)
	require.NoError(t, handler.GetProfile(c))

	var profile models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &profile))
	assert.Equal(t, "alice", profile.UserName)
}

func TestUpdateProfileAppliesFields(t *testing.T) {
	users := newMemUserRepo(&models.User{ID: 1, FirstName: "Alice", LastName: "Doe", UserName: "alice"})
	handler := NewUserHandler(users, &fakeUploader{})
	e := newTestEcho()

	c, rec := newTestContext(e, http.MethodPut, "/profile",
		`{"first_name":"Alicia","username":"alicia"}`, 1)
	require.NoError(t, handler.UpdateProfile(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	stored, err := users.GetUserByID(1)
	require.NoError(t, err)
	assert.Equal(t, "Alicia", stored.FirstName)
	assert.Equal(t, "alicia", stored.UserName)
	// omitted fields stay untouched
	assert.Equal(t, "Doe", stored.LastName)
}

func TestUpdateProfileRejectsInvalidPayload(t *testing.T) {
	users := newMemUserRepo(&models.User{ID: 1, FirstName: "Alice", UserName: "alice"})
	handler := NewUserHandler(users, &fakeUploader{})
	e := newTestEcho()

	// single-character first name fails the min=2 constraint
	c, rec := newTestContext(e, http.MethodPut, "/profile", `{"first_name":"A"}`, 1)
	err := handler.UpdateProfile(c)
	assert.Equal(t, http.StatusBadRequest, httpStatus(t, err, rec))

	stored, lookupErr := users.GetUserByID(1)
	require.NoError(t, lookupErr)
	assert.Equal(t, "Alice", stored.FirstName)
}

func TestUpdateProfileRejectsInvalidEmail(t *testing.T) {
	users := newMemUserRepo(&models.User{ID: 1, Email: "alice@example.com"})
	handler := NewUserHandler(users, &fakeUploader{})
	e := newTestEcho()

	c, rec := newTestContext(e, http.MethodPut, "/profile", `{"email":"not-an-email"}`, 1)
	err := handler.UpdateProfile(c)
	assert.Equal(t, http.StatusBadRequest, httpStatus(t, err, rec))

	stored, lookupErr := users.GetUserByID(1)
	require.NoError(t, lookupErr)
	assert.Equal(t, "alice@example.com", stored.Email)
}

func TestGetUserNotFound(t *testing.T) {
	handler := NewUserHandler(newMemUserRepo(), &fakeUploader{})
	e := newTestEcho()

	c, rec := newTestContext(e, http.MethodGet, "/users/9", "", 1)
	c.SetParamNames("id")
	c.SetParamValues("9")

	err := handler.GetUser(c)
	assert.Equal(t, http.StatusNotFound, httpStatus(t, err, rec))
}
