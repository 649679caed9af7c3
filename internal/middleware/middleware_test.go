package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/BruksfildServices01/salon-scheduler/internal/config"
	"github.com/BruksfildServices01/salon-scheduler/internal/logging"
)

func testConfig() *config.Config {
	return &config.Config{JWTSecret: "test-secret", TokenTTL: time.Hour}
}

func newRouter(cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	r.GET("/staff", AuthMiddleware(cfg), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": c.MustGet(ContextUserID), "role": c.GetString(ContextUserRole)})
	})
	r.GET("/customer", CustomerAuthMiddleware(cfg), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"customer": c.MustGet(ContextCustomerID)})
	})
	return r
}

func call(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestAuthAcceptsMatchingKind(t *testing.T) {
	cfg := testConfig()
	r := newRouter(cfg)

	staff, err := IssueToken(cfg, TokenStaff, 7, "admin")
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}
	customer, err := IssueToken(cfg, TokenCustomer, 3, "")
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}

	if rec := call(r, "/staff", staff); rec.Code != http.StatusOK {
		t.Fatalf("staff token on staff route: %d", rec.Code)
	}
	if rec := call(r, "/customer", customer); rec.Code != http.StatusOK {
		t.Fatalf("customer token on customer route: %d", rec.Code)
	}
}

func TestAuthRejects(t *testing.T) {
	cfg := testConfig()
	r := newRouter(cfg)

	customer, _ := IssueToken(cfg, TokenCustomer, 3, "")
	other, _ := IssueToken(&config.Config{JWTSecret: "other"}, TokenStaff, 1, "admin")
	expired, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": 1, "kind": TokenStaff, "exp": time.Now().Add(-time.Hour).Unix(),
	}).SignedString([]byte(cfg.JWTSecret))

	tests := []struct {
		name  string
		token string
		code  int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"garbage", "abc.def.ghi", http.StatusUnauthorized},
		{"wrong secret", other, http.StatusUnauthorized},
		{"expired", expired, http.StatusUnauthorized},
		{"customer on staff route", customer, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec := call(r, "/staff", tt.token); rec.Code != tt.code {
				t.Fatalf("expected %d, got %d", tt.code, rec.Code)
			}
		})
	}
}

func TestRequestLoggerSetsRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestLogger(logging.NewLogger("test", "prod")))

	var sawLogger bool
	r.GET("/ping", func(c *gin.Context) {
		sawLogger = logging.FromContext(c.Request.Context()) != nil
		c.Status(http.StatusNoContent)
	})

	rec := call(r, "/ping", "")
	if rec.Header().Get(RequestIDHeader) == "" || !sawLogger {
		t.Fatal("expected generated request id and context logger")
	}

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Header().Get(RequestIDHeader) != "abc-123" {
		t.Fatalf("expected incoming request id to be kept, got %q", rec.Header().Get(RequestIDHeader))
	}
}

func TestCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name    string
		allowed []string
		origin  string
		want    string
	}{
		{"any origin in dev", nil, "https://salao.example", "https://salao.example"},
		{"allowed origin", []string{"https://salao.example/"}, "https://salao.example", "https://salao.example"},
		{"unknown origin", []string{"https://salao.example"}, "https://outro.example", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(CORSMiddleware(tt.allowed))
			r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

			req := httptest.NewRequest(http.MethodOptions, "/x", nil)
			req.Header.Set("Origin", tt.origin)
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			if rec.Code != http.StatusNoContent {
				t.Fatalf("expected 204, got %d", rec.Code)
			}
			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.want {
				t.Fatalf("expected allow-origin %q, got %q", tt.want, got)
			}
		})
	}
}
