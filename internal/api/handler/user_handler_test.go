package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/clublink/usersync/internal/core/domain"
)

type stubUserService struct {
	listFn   func(ctx context.Context) ([]domain.User, error)
	createFn func(ctx context.Context, d domain.Draft) (*domain.User, error)
	updateFn func(ctx context.Context, id string, d domain.Draft) (*domain.User, error)
	deleteFn func(ctx context.Context, id string) (*domain.User, error)
}

func (s *stubUserService) List(ctx context.Context) ([]domain.User, error) {
	return s.listFn(ctx)
}

func (s *stubUserService) Create(ctx context.Context, d domain.Draft) (*domain.User, error) {
	return s.createFn(ctx, d)
}

func (s *stubUserService) Update(ctx context.Context, id string, d domain.Draft) (*domain.User, error) {
	return s.updateFn(ctx, id, d)
}

func (s *stubUserService) Delete(ctx context.Context, id string) (*domain.User, error) {
	return s.deleteFn(ctx, id)
}

func newContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func httpCode(t *testing.T, err error) int {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected *echo.HTTPError, got %v", err)
	}
	return he.Code
}

func TestUserHandler_List(t *testing.T) {
	stub := &stubUserService{
		listFn: func(context.Context) ([]domain.User, error) {
			return []domain.User{{ID: "1", Email: "a@x.com", Role: domain.RoleMember, ClerkID: "c1"}}, nil
		},
	}
	c, rec := newContext(http.MethodGet, "/api/test-db", "")

	if err := NewUserHandler(stub).List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	data, ok := resp["data"].([]any)
	if resp["success"] != true || !ok || len(data) != 1 || resp["count"] != float64(1) {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if first := data[0].(map[string]any); first["clerkId"] != "c1" {
		t.Fatalf("expected clerkId field, got %+v", first)
	}
}

func TestUserHandler_Create_Success(t *testing.T) {
	stub := &stubUserService{
		createFn: func(_ context.Context, d domain.Draft) (*domain.User, error) {
			if d.Email != "a@x.com" || d.ClerkID != "c1" || d.Role != domain.RoleMember {
				t.Fatalf("unexpected draft: %+v", d)
			}
			return &domain.User{ID: "1", Email: d.Email, Role: d.Role, ClerkID: d.ClerkID}, nil
		},
	}
	c, rec := newContext(http.MethodPost, "/api/test-db", `{"email":"a@x.com","clerkId":"c1"}`)

	if err := NewUserHandler(stub).Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestUserHandler_Create_ValidationFailures(t *testing.T) {
	stub := &stubUserService{
		createFn: func(context.Context, domain.Draft) (*domain.User, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	cases := map[string]string{
		"missing email":   `{"clerkId":"c1"}`,
		"bad email":       `{"email":"nope","clerkId":"c1"}`,
		"missing clerkId": `{"email":"a@x.com"}`,
		"bad role":        `{"email":"a@x.com","clerkId":"c1","role":"guest"}`,
		"not json":        `{`,
	}
	for name, body := range cases {
		c, _ := newContext(http.MethodPost, "/api/test-db", body)
		err := NewUserHandler(stub).Create(c)
		if code := httpCode(t, err); code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", name, code)
		}
	}
}

func TestUserHandler_Create_MessageUsesJSONNames(t *testing.T) {
	c, _ := newContext(http.MethodPost, "/api/test-db", `{"email":"a@x.com"}`)

	err := NewUserHandler(&stubUserService{}).Create(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Message != "clerkId is required" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUserHandler_Update_RequiresID(t *testing.T) {
	c, _ := newContext(http.MethodPut, "/api/test-db", `{"email":"a@x.com","clerkId":"c1"}`)

	err := NewUserHandler(&stubUserService{}).Update(c)
	if code := httpCode(t, err); code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
}

func TestUserHandler_Update_PassesServiceError(t *testing.T) {
	stub := &stubUserService{
		updateFn: func(_ context.Context, id string, _ domain.Draft) (*domain.User, error) {
			if id != "42" {
				t.Fatalf("unexpected id %q", id)
			}
			return nil, domain.ErrUserExists
		},
	}
	c, _ := newContext(http.MethodPut, "/api/test-db?id=42", `{"email":"a@x.com","clerkId":"c1","role":"owner"}`)

	err := NewUserHandler(stub).Update(c)
	if !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists to reach the error handler, got %v", err)
	}
}

func TestUserHandler_Delete(t *testing.T) {
	stub := &stubUserService{
		deleteFn: func(_ context.Context, id string) (*domain.User, error) {
			return &domain.User{ID: id}, nil
		},
	}
	c, rec := newContext(http.MethodDelete, "/api/test-db?id=7", "")

	if err := NewUserHandler(stub).Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
