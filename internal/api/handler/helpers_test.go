package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/devforum/qa-board/internal/api/middleware"
	"github.com/devforum/qa-board/internal/core/ports"
)

var alice = &ports.Principal{UserID: "u1", Username: "alice", Role: "user", TokenID: "jti-1"}

// newContext builds an echo context with the validator registered, an
// optional JSON body, an optional caller and path params given as
// name/value pairs.
func newContext(method, target, body string, p *ports.Principal, params ...string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if p != nil {
		c.Set(middleware.ContextKeyPrincipal, p)
		c.Set(middleware.ContextKeyUserID, p.UserID)
		c.Set(middleware.ContextKeyRole, p.Role)
	}

	var names, values []string
	for i := 0; i+1 < len(params); i += 2 {
		names = append(names, params[i])
		values = append(values, params[i+1])
	}
	c.SetParamNames(names...)
	c.SetParamValues(values...)
	return c, rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("invalid json %q: %v", rec.Body.String(), err)
	}
}

func expectKind(t *testing.T, err, kind error) {
	t.Helper()
	if !errors.Is(err, kind) {
		t.Fatalf("expected %v, got %v", kind, err)
	}
}
