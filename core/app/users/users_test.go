package users

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"intranet/core/app/search"
	"intranet/core/database"
	"intranet/core/emitter"
	"intranet/core/logger"
	"intranet/core/module"
	"intranet/core/router"
	"intranet/core/router/middleware"
)

const testSecret = "test-secret"

func newTestModule(t *testing.T) *Module {
	t.Helper()
	db, err := database.OpenMemory()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	mod := Init(module.Dependencies{DB: db.DB, Emitter: emitter.New(), Logger: logger.NewNop()})
	mod.Service.tokens = TokenConfig{Secret: testSecret, TTL: time.Hour}
	if err := mod.Migrate(); err != nil {
		t.Fatal(err)
	}
	return mod
}

func register(t *testing.T, s *UserService, first, last, email, dept, title string) *User {
	t.Helper()
	u, err := s.Register(&RegisterRequest{FirstName: first, LastName: last, Email: email, Password: "password1", Department: dept, JobTitle: title})
	if err != nil {
		t.Fatal(err)
	}
	return u
}

func TestSeedCreatesAdminOnce(t *testing.T) {
	mod := newTestModule(t)
	if err := mod.SeedDefaultUser(); err != nil {
		t.Fatal(err)
	}
	var count int64
	mod.DB.Model(&User{}).Count(&count)
	if count != 1 {
		t.Fatalf("users = %d, want 1", count)
	}
	if _, err := mod.Service.Login(&LoginRequest{Email: "admin@example.com", Password: "admin123"}); err != nil {
		t.Fatalf("admin login: %v", err)
	}
}

func TestRegisterAndLogin(t *testing.T) {
	mod := newTestModule(t)
	u := register(t, mod.Service, "Ada", "Lovelace", "Ada@Example.com", "Engineering", "Analyst")
	if u.Email != "ada@example.com" {
		t.Fatalf("email not normalized: %s", u.Email)
	}
	if _, err := mod.Service.Register(&RegisterRequest{FirstName: "A", LastName: "L", Email: "ada@example.com", Password: "password1"}); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("duplicate err = %v", err)
	}

	resp, err := mod.Service.Login(&LoginRequest{Email: "ada@example.com", Password: "password1"})
	if err != nil {
		t.Fatal(err)
	}
	claims, err := middleware.ParseToken(testSecret, resp.AccessToken)
	if err != nil || claims.UserId != u.Id {
		t.Fatalf("claims = %+v, err = %v", claims, err)
	}
	if resp.User.LastLogin == "" {
		t.Fatal("last login not recorded")
	}

	if _, err := mod.Service.Login(&LoginRequest{Email: "ada@example.com", Password: "wrong"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password err = %v", err)
	}
	if _, err := mod.Service.Login(&LoginRequest{Email: "nobody@example.com", Password: "x"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email err = %v", err)
	}
}

func TestUpdatePassword(t *testing.T) {
	mod := newTestModule(t)
	u := register(t, mod.Service, "Grace", "Hopper", "grace@example.com", "", "")

	if err := mod.Service.UpdatePassword(u.Id, &UpdatePasswordRequest{OldPassword: "nope", NewPassword: "newpassword"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v", err)
	}
	if err := mod.Service.UpdatePassword(u.Id, &UpdatePasswordRequest{OldPassword: "password1", NewPassword: "newpassword"}); err != nil {
		t.Fatal(err)
	}
	if _, err := mod.Service.Login(&LoginRequest{Email: "grace@example.com", Password: "newpassword"}); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
}

func TestDirectoryFilters(t *testing.T) {
	mod := newTestModule(t)
	register(t, mod.Service, "Ada", "Lovelace", "ada@example.com", "Engineering", "Analyst")
	register(t, mod.Service, "Grace", "Hopper", "grace@example.com", "Engineering", "Rear Admiral")
	register(t, mod.Service, "Katherine", "Johnson", "kj@example.com", "Research", "Mathematician")

	page, limit := 1, 10
	resp, err := mod.Service.Directory(&page, &limit, "", "Engineering")
	if err != nil {
		t.Fatal(err)
	}
	items := resp.Data.([]*UserResponse)
	if len(items) != 2 || items[0].LastName != "Hopper" || items[1].LastName != "Lovelace" {
		t.Fatalf("engineering = %+v", items)
	}

	resp, err = mod.Service.Directory(&page, &limit, "MATH", "")
	if err != nil {
		t.Fatal(err)
	}
	if resp.Pagination.Total != 1 {
		t.Fatalf("query total = %d", resp.Pagination.Total)
	}
}

func TestDisplayNameAndRecipients(t *testing.T) {
	mod := newTestModule(t)
	u := register(t, mod.Service, "Ada", "Lovelace", "ada@example.com", "", "")

	if name, ok := mod.Service.DisplayName(u.Id); !ok || name != "Ada Lovelace" {
		t.Fatalf("DisplayName = %q, %v", name, ok)
	}
	if _, ok := mod.Service.DisplayName(999); ok {
		t.Fatal("unknown user resolved")
	}

	recipients, err := mod.Service.Recipients([]uint{u.Id, 999})
	if err != nil {
		t.Fatal(err)
	}
	if len(recipients) != 1 || recipients[0].Email != "ada@example.com" {
		t.Fatalf("recipients = %+v", recipients)
	}
}

func TestRecordsFindPeopleByDepartment(t *testing.T) {
	mod := newTestModule(t)
	register(t, mod.Service, "Ada", "Lovelace", "ada@example.com", "Engineering", "Analyst")

	registry := search.NewRegistry(logger.NewNop())
	for name, producer := range mod.SearchProducers() {
		registry.Register(name, producer)
	}
	results := registry.Search("lovelace", &search.Filters{Types: []search.RecordType{search.TypePerson}}, 5)
	if len(results) != 1 || results[0].Category != "Engineering" || results[0].Widget != "directory" {
		t.Fatalf("results = %+v", results)
	}
}

func TestProfileEndpoints(t *testing.T) {
	mod := newTestModule(t)
	u := register(t, mod.Service, "Ada", "Lovelace", "ada@example.com", "", "")

	r := router.New()
	r.Use(func(next router.HandlerFunc) router.HandlerFunc {
		return func(c *router.Context) error {
			if c.Request.Header.Get("X-Test-User") != "" {
				middleware.SetUserId(c, u.Id)
			}
			return next(c)
		}
	})
	mod.Routes(r.Group("/api"))

	req := httptest.NewRequest(http.MethodPut, "/api/profile", strings.NewReader(`{"job_title":"Countess"}`))
	req.Header.Set("X-Test-User", "1")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Countess") {
		t.Fatalf("update status = %d body=%s", rec.Code, rec.Body)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/profile", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("anonymous profile status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"email":"ada@example.com","password":"bad"}`)))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad login status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/directory/999", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing user status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/directory?q=ada", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("directory status = %d", rec.Code)
	}
}
