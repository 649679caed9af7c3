package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/salon-scheduler/internal/config"
	"github.com/BruksfildServices01/salon-scheduler/internal/testfixtures"
)

func authConfig() *config.Config {
	return &config.Config{JWTSecret: "test-secret", TokenTTL: time.Hour}
}

// newClientAuthServer expõe cadastro e login do cliente sobre o salão em memória.
func newClientAuthServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	salon := testfixtures.NewSalon()
	h := NewClientAuthHandler(salon.Repo, authConfig())

	r := gin.New()
	r.POST("/client/register", h.Register)
	r.POST("/client/login", h.Login)

	return &testServer{router: r, salon: salon}
}

// ======================================================
// CLIENTE
// ======================================================

func TestClientRegisterDoesNotClaimExistingCustomer(t *testing.T) {
	s := newClientAuthServer(t)
	x := s.salon.CustomerX

	// alguém que só conhece o telefone de quem agendou pela página pública
	w, body := s.do(t, http.MethodPost, "/client/register", map[string]any{
		"name":     "Outra Pessoa",
		"phone":    "(11) 99999-0001",
		"password": "segredo123",
	})
	if w.Code != http.StatusConflict || body["error_code"] != "phone_already_registered" {
		t.Fatalf("expected 409 phone_already_registered, got %d %v", w.Code, body)
	}
	if _, ok := body["token"]; ok {
		t.Fatal("no token may be issued for an existing phone")
	}

	stored, err := s.salon.Repo.GetCustomer(context.Background(), x.ID)
	if err != nil {
		t.Fatalf("GetCustomer failed: %v", err)
	}
	if stored.Name != x.Name || stored.PasswordHash != "" {
		t.Fatalf("existing customer must stay untouched, got %+v", stored)
	}

	w, _ = s.do(t, http.MethodPost, "/client/login", map[string]any{
		"phone":    x.Phone,
		"password": "segredo123",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 on login, got %d", w.Code)
	}
}

func TestClientRegisterNewPhoneThenLogin(t *testing.T) {
	s := newClientAuthServer(t)
	before := s.salon.Repo.CustomerCount()

	w, body := s.do(t, http.MethodPost, "/client/register", map[string]any{
		"name":     " Nova Cliente ",
		"phone":    "(11) 97777-6666",
		"email":    "Nova@Exemplo.com",
		"password": "segredo123",
	})
	if w.Code != http.StatusCreated || body["token"] == nil {
		t.Fatalf("expected 201 with token, got %d %v", w.Code, body)
	}
	customer, _ := body["customer"].(map[string]any)
	if customer["name"] != "Nova Cliente" || customer["email"] != "nova@exemplo.com" {
		t.Fatalf("unexpected customer %v", customer)
	}
	if s.salon.Repo.CustomerCount() != before+1 {
		t.Fatal("expected one new customer")
	}

	w, _ = s.do(t, http.MethodPost, "/client/register", map[string]any{
		"name":     "De Novo",
		"phone":    "11977776666",
		"password": "outrasenha",
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("second register must conflict, got %d", w.Code)
	}

	w, _ = s.do(t, http.MethodPost, "/client/login", map[string]any{
		"phone":    "11977776666",
		"password": "segredo123",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected login 200, got %d", w.Code)
	}

	w, _ = s.do(t, http.MethodPost, "/client/login", map[string]any{
		"phone":    "11977776666",
		"password": "outrasenha",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("wrong password must be 401, got %d", w.Code)
	}
}

func TestClientRegisterInvalidPhone(t *testing.T) {
	s := newClientAuthServer(t)

	w, body := s.do(t, http.MethodPost, "/client/register", map[string]any{
		"name":     "Fulana",
		"phone":    "123",
		"password": "segredo123",
	})
	if w.Code != http.StatusBadRequest || body["error_code"] != "invalid_phone" {
		t.Fatalf("expected invalid_phone, got %d %v", w.Code, body)
	}
}

// ======================================================
// EQUIPE
// ======================================================

type staticResolver struct{}

func (staticResolver) LookupMX(context.Context, string) ([]*net.MX, error) {
	return []*net.MX{{Host: "mx.exemplo.com.", Pref: 10}}, nil
}

func (staticResolver) LookupIPAddr(context.Context, string) ([]net.IPAddr, error) {
	return nil, nil
}

func newStaffAuthServer(t *testing.T) (*testServer, *testfixtures.MemoryUsers) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	users := testfixtures.NewMemoryUsers()
	h := NewAuthHandler(users, authConfig())
	h.resolver = staticResolver{}

	r := gin.New()
	r.POST("/auth/register", h.Register)
	r.POST("/auth/login", h.Login)

	return &testServer{router: r}, users
}

func TestStaffRegisterOnlyFirstUser(t *testing.T) {
	s, users := newStaffAuthServer(t)

	w, body := s.do(t, http.MethodPost, "/auth/register", map[string]any{
		"name":     "Dona",
		"email":    "dona@exemplo.com",
		"password": "segredo123",
	})
	if w.Code != http.StatusCreated || body["token"] == nil {
		t.Fatalf("expected 201 with token, got %d %v", w.Code, body)
	}

	w, body = s.do(t, http.MethodPost, "/auth/register", map[string]any{
		"name":     "Intrusa",
		"email":    "intrusa@exemplo.com",
		"password": "segredo123",
	})
	if w.Code != http.StatusForbidden || body["error_code"] != "registration_closed" {
		t.Fatalf("expected 403 registration_closed, got %d %v", w.Code, body)
	}
	if users.Count() != 1 {
		t.Fatalf("expected 1 user, got %d", users.Count())
	}

	w, _ = s.do(t, http.MethodPost, "/auth/login", map[string]any{
		"email":    "DONA@exemplo.com",
		"password": "segredo123",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected login 200, got %d", w.Code)
	}
}

func TestStaffRegisterConcurrentCreatesOneAdmin(t *testing.T) {
	s, users := newStaffAuthServer(t)

	const n = 8
	codes := make([]int, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			body, _ := json.Marshal(map[string]any{
				"name":     "Admin",
				"email":    "admin" + string(rune('a'+i)) + "@exemplo.com",
				"password": "segredo123",
			})
			req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			s.router.ServeHTTP(w, req)
			codes[i] = w.Code
		}(i)
	}
	wg.Wait()

	created := 0
	for _, code := range codes {
		switch code {
		case http.StatusCreated:
			created++
		case http.StatusForbidden:
		default:
			t.Fatalf("unexpected status %d", code)
		}
	}
	if created != 1 || users.Count() != 1 {
		t.Fatalf("expected exactly one admin, got %d created and %d stored", created, users.Count())
	}
}
