package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/connectify/backend/internal/models"
	"github.com/connectify/backend/validators"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = validators.NewValidator()
	return e
}

// newTestContext builds an echo context carrying an optional JSON body and
// the claims the auth middleware would have set for userID.
func newTestContext(t *testing.T, e *echo.Echo, method string, body interface{}, userID string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, "/", &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userID != "" {
		c.Set("user", &models.JwtCustomClaims{UserID: userID})
	}
	return c, rec
}

// httpError unwraps an echo.HTTPError and fails the test if err is not one
func httpError(t *testing.T, err error) *echo.HTTPError {
	t.Helper()
	require.Error(t, err)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected *echo.HTTPError, got %T", err)
	return he
}

// decodeBody unmarshals the recorded JSON response into out
func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

// seedUser registers a user directly through the repository
func seedUser(t *testing.T, repo *fakeUserRepo, name, username, email string) *models.User {
	t.Helper()
	user := &models.User{Name: name, Username: username, Email: email, Password: "x"}
	require.NoError(t, repo.CreateUser(context.Background(), user))
	return user
}
