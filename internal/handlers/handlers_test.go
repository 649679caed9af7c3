package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/infra/lock"
	"github.com/BruksfildServices01/salon-scheduler/internal/middleware"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/testfixtures"
	"github.com/BruksfildServices01/salon-scheduler/internal/usecase/appointment"
)

type testServer struct {
	router *gin.Engine
	salon  *testfixtures.Salon
}

// newTestServer monta as rotas de agenda sobre o repositório em memória.
// A autenticação é substituída por ids fixos no contexto.
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	salon := testfixtures.NewSalon()
	clock := testfixtures.NewClock(time.Time{})
	loc := testfixtures.SalonLocation()

	scheduler := appointment.NewScheduler(
		salon.Repo,
		lock.NewLocalLocker(time.Second),
		nil,
		nil,
		appointment.Settings{
			Location:        loc,
			DefaultDuration: 30 * time.Minute,
			Suggest:         domain.DefaultSuggestOptions(),
			Now:             clock.NowFunc(),
		},
	)

	public := NewPublicHandler(nil, scheduler, loc)
	admin := NewAppointmentHandler(
		nil,
		scheduler,
		appointment.NewListAppointmentsByDate(salon.Repo, loc, 30*time.Minute),
		appointment.NewListAppointmentsByMonth(salon.Repo, loc, 30*time.Minute),
		loc,
	)
	portal := NewClientPortalHandler(
		scheduler,
		appointment.NewListCustomerAppointments(salon.Repo, loc, 30*time.Minute, clock.NowFunc()),
		loc,
	)

	r := gin.New()
	r.GET("/public/slots", public.Slots)
	r.GET("/public/suggestions", public.Suggestions)
	r.POST("/public/appointments", public.CreateAppointment)

	staff := r.Group("/admin", func(c *gin.Context) {
		c.Set(middleware.ContextUserID, uint(1))
	})
	staff.POST("/appointments", admin.Create)
	staff.GET("/appointments", admin.ListByDate)
	staff.GET("/appointments/month", admin.ListByMonth)
	staff.PUT("/appointments/:id", admin.Update)
	staff.PATCH("/appointments/:id/status", admin.ChangeStatus)

	client := r.Group("/client", func(c *gin.Context) {
		c.Set(middleware.ContextCustomerID, salon.CustomerX.ID)
	})
	client.GET("/appointments", portal.List)
	client.PATCH("/appointments/:id", portal.Update)
	client.PATCH("/appointments/:id/status", portal.ChangeStatus)

	return &testServer{router: r, salon: salon}
}

func (s *testServer) do(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var out map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w, out
}

func (s *testServer) seed(customer models.Customer, svc models.Service, professional string, start time.Time) models.Appointment {
	return s.salon.Repo.AddAppointment(models.Appointment{
		CustomerID:   customer.ID,
		ServiceID:    svc.ID,
		Date:         start,
		Professional: professional,
	})
}

func tomorrowAt(h, m int) string {
	return testfixtures.At(1, h, m).Format("2006-01-02T15:04")
}

func tomorrowDate() string {
	return testfixtures.At(1, 0, 0).Format("2006-01-02")
}

// ======================================================
// CRIAÇÃO
// ======================================================

func TestPublicCreateReturnsSingleAppointment(t *testing.T) {
	s := newTestServer(t)

	w, body := s.do(t, http.MethodPost, "/public/appointments", gin.H{
		"phone":        "(11) 99999-0001",
		"serviceId":    s.salon.Haircut.ID,
		"date":         tomorrowAt(10, 0),
		"professional": "  Maria ",
	})

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if body["status"] != "agendado" || body["professional"] != "Maria" {
		t.Fatalf("unexpected body %v", body)
	}
	if body["customer_id"] != float64(s.salon.CustomerX.ID) {
		t.Fatalf("phone must resolve to the existing customer, got %v", body["customer_id"])
	}
}

func TestAdminCreateChainReturnsWrapper(t *testing.T) {
	s := newTestServer(t)

	w, body := s.do(t, http.MethodPost, "/admin/appointments", gin.H{
		"customerId": s.salon.CustomerY.ID,
		"serviceIds": []uint{s.salon.Blowdry.ID, s.salon.Coloring.ID},
		"date":       tomorrowAt(10, 0),
	})

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	items, ok := body["appointments"].([]any)
	if !ok || len(items) != 2 {
		t.Fatalf("expected appointments wrapper with 2 items, got %v", body)
	}
}

func TestCreateConflictsAreDistinguished(t *testing.T) {
	s := newTestServer(t)
	s.seed(s.salon.CustomerX, s.salon.Haircut, "Maria", testfixtures.At(1, 14, 0))

	w, body := s.do(t, http.MethodPost, "/public/appointments", gin.H{
		"phone":        "11999990002",
		"serviceId":    s.salon.Blowdry.ID,
		"date":         tomorrowAt(14, 30),
		"professional": "Maria",
	})
	if w.Code != http.StatusConflict || body["error_code"] != "professional_conflict" {
		t.Fatalf("expected 409 professional_conflict, got %d %v", w.Code, body)
	}
	if body["message"] != "Nenhum profissional disponível neste horário." {
		t.Fatalf("unexpected message %v", body["message"])
	}
	details, _ := body["details"].(map[string]any)
	if suggestions, _ := details["suggestions"].([]any); len(suggestions) == 0 {
		t.Fatalf("expected suggestions in details, got %v", details)
	}

	// mesmo cliente, outro profissional
	w, body = s.do(t, http.MethodPost, "/public/appointments", gin.H{
		"phone":        "11999990001",
		"serviceId":    s.salon.Blowdry.ID,
		"date":         tomorrowAt(14, 30),
		"professional": "João",
	})
	if w.Code != http.StatusConflict || body["error_code"] != "customer_conflict" {
		t.Fatalf("expected 409 customer_conflict, got %d %v", w.Code, body)
	}
	if body["message"] != "Você já possui um agendamento neste horário." {
		t.Fatalf("unexpected message %v", body["message"])
	}
}

func TestCreateValidationErrors(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name string
		body gin.H
		code string
	}{
		{"no service", gin.H{"phone": "11999990001", "date": tomorrowAt(10, 0)}, "missing_service"},
		{"no date", gin.H{"phone": "11999990001", "serviceId": s.salon.Haircut.ID}, "missing_date"},
		{"bad date", gin.H{"phone": "11999990001", "serviceId": s.salon.Haircut.ID, "date": "amanhã"}, "invalid_date"},
		{"no customer", gin.H{"serviceId": s.salon.Haircut.ID, "date": tomorrowAt(10, 0)}, "missing_customer"},
		{"customerId ignored", gin.H{"customerId": s.salon.CustomerX.ID, "serviceId": s.salon.Haircut.ID, "date": tomorrowAt(10, 0)}, "missing_customer"},
		{"bad phone", gin.H{"phone": "123", "serviceId": s.salon.Haircut.ID, "date": tomorrowAt(10, 0)}, "invalid_phone"},
		{"past", gin.H{"phone": "11999990001", "serviceId": s.salon.Haircut.ID, "date": testfixtures.At(-1, 10, 0).Format(time.RFC3339)}, "past_date"},
		{"unknown service", gin.H{"phone": "11999990001", "serviceId": 999, "date": tomorrowAt(10, 0)}, "service_not_found"},
		{"inactive professional", gin.H{"phone": "11999990001", "serviceId": s.salon.Haircut.ID, "date": tomorrowAt(10, 0), "professional": "Ana"}, "professional_not_found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := s.do(t, http.MethodPost, "/public/appointments", tt.body)
			if w.Code != http.StatusBadRequest || body["error_code"] != tt.code {
				t.Fatalf("expected 400 %s, got %d %v", tt.code, w.Code, body)
			}
			if msg, _ := body["message"].(string); msg == "" {
				t.Fatal("expected a user-facing message")
			}
		})
	}

	if n := len(s.salon.Repo.Appointments()); n != 0 {
		t.Fatalf("validation failures must not write, got %d appointments", n)
	}
}

// ======================================================
// CONSULTAS
// ======================================================

func TestSlotsQuery(t *testing.T) {
	s := newTestServer(t)
	maria := s.seed(s.salon.CustomerX, s.salon.Haircut, "Maria", testfixtures.At(1, 9, 0))
	s.seed(s.salon.CustomerY, s.salon.Blowdry, "João", testfixtures.At(1, 11, 0))

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"whole day", "?date=" + tomorrowDate(), 2},
		{"professional", "?date=" + tomorrowDate() + "&professional=Maria", 1},
		{"exclude edited", "?date=" + tomorrowDate() + "&professional=Maria&excludeId=" + strconv.Itoa(int(maria.ID)), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/public/slots"+tt.query, nil)
			w := httptest.NewRecorder()
			s.router.ServeHTTP(w, req)

			if w.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
			}
			var blocks []domain.Block
			if err := json.Unmarshal(w.Body.Bytes(), &blocks); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if len(blocks) != tt.want {
				t.Fatalf("expected %d blocks, got %v", tt.want, blocks)
			}
		})
	}

	w, body := s.do(t, http.MethodGet, "/public/slots", nil)
	if w.Code != http.StatusBadRequest || body["error_code"] != "missing_date" {
		t.Fatalf("expected missing_date, got %d %v", w.Code, body)
	}
}

func TestSuggestionsQuery(t *testing.T) {
	s := newTestServer(t)
	s.seed(s.salon.CustomerX, s.salon.Haircut, "Maria", testfixtures.At(1, 9, 0))

	path := "/public/suggestions?date=" + tomorrowDate() + "&time=09:15&professional=Maria&serviceIds=" +
		strconv.Itoa(int(s.salon.Blowdry.ID))
	w, body := s.do(t, http.MethodGet, path, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	got, _ := body["suggestions"].([]any)
	want := []time.Time{
		testfixtures.At(1, 8, 30),
		testfixtures.At(1, 10, 0),
		testfixtures.At(1, 8, 0),
		testfixtures.At(1, 10, 30),
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d suggestions, got %v", len(want), got)
	}
	for i, raw := range got {
		ts, err := time.Parse(time.RFC3339, raw.(string))
		if err != nil || !ts.Equal(want[i]) {
			t.Fatalf("suggestion %d: expected %s, got %v", i, want[i], raw)
		}
	}
}

func TestAdminListByDate(t *testing.T) {
	s := newTestServer(t)
	s.seed(s.salon.CustomerX, s.salon.Haircut, "Maria", testfixtures.At(1, 9, 0))
	s.seed(s.salon.CustomerY, s.salon.Blowdry, "João", testfixtures.At(2, 9, 0))

	w, body := s.do(t, http.MethodGet, "/admin/appointments?date="+tomorrowDate(), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if body["total"] != float64(1) {
		t.Fatalf("expected 1 appointment, got %v", body)
	}

	w, body = s.do(t, http.MethodGet, "/admin/appointments/month?year=2026&month=13", nil)
	if w.Code != http.StatusBadRequest || body["error_code"] != "invalid_month" {
		t.Fatalf("expected invalid_month, got %d %v", w.Code, body)
	}
}

// ======================================================
// ÁREA DO CLIENTE
// ======================================================

func TestClientStatusRules(t *testing.T) {
	s := newTestServer(t)
	own := s.seed(s.salon.CustomerX, s.salon.Haircut, "Maria", testfixtures.At(1, 9, 0))
	other := s.seed(s.salon.CustomerY, s.salon.Haircut, "João", testfixtures.At(1, 9, 0))

	ownPath := "/client/appointments/" + strconv.Itoa(int(own.ID)) + "/status"
	otherPath := "/client/appointments/" + strconv.Itoa(int(other.ID)) + "/status"

	tests := []struct {
		name   string
		path   string
		body   gin.H
		status int
		code   string
	}{
		{"no justification", ownPath, gin.H{"status": "confirmado"}, http.StatusBadRequest, "justification_required"},
		{"short justification", ownPath, gin.H{"status": "cancelado", "justification": " ok "}, http.StatusBadRequest, "justification_required"},
		{"staff-only status", ownPath, gin.H{"status": "concluido", "justification": "já fui atendida"}, http.StatusForbidden, "forbidden_status_transition"},
		{"someone else's", otherPath, gin.H{"status": "cancelado", "justification": "não posso ir"}, http.StatusNotFound, "appointment_not_found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := s.do(t, http.MethodPatch, tt.path, tt.body)
			if w.Code != tt.status || body["error_code"] != tt.code {
				t.Fatalf("expected %d %s, got %d %v", tt.status, tt.code, w.Code, body)
			}
		})
	}

	w, body := s.do(t, http.MethodPatch, ownPath, gin.H{"status": "cancelado", "justification": "imprevisto"})
	if w.Code != http.StatusOK || body["status"] != "cancelado" {
		t.Fatalf("expected cancelled appointment, got %d %v", w.Code, body)
	}
	if body["cancellation_reason"] != "imprevisto" {
		t.Fatalf("expected reason to be recorded, got %v", body["cancellation_reason"])
	}

	// cancelado não volta
	w, body = s.do(t, http.MethodPatch, ownPath, gin.H{"status": "confirmado", "justification": "mudei de ideia"})
	if w.Code != http.StatusForbidden || body["error_code"] != "appointment_locked" {
		t.Fatalf("expected appointment_locked, got %d %v", w.Code, body)
	}
}

func TestClientRescheduleChecksConflicts(t *testing.T) {
	s := newTestServer(t)
	own := s.seed(s.salon.CustomerX, s.salon.Blowdry, "Maria", testfixtures.At(1, 9, 0))
	s.seed(s.salon.CustomerY, s.salon.Haircut, "Maria", testfixtures.At(1, 14, 0))

	path := "/client/appointments/" + strconv.Itoa(int(own.ID))

	w, body := s.do(t, http.MethodPatch, path, gin.H{"date": tomorrowAt(14, 30), "justification": "trabalho"})
	if w.Code != http.StatusConflict || body["error_code"] != "professional_conflict" {
		t.Fatalf("expected professional_conflict, got %d %v", w.Code, body)
	}

	w, body = s.do(t, http.MethodPatch, path, gin.H{"date": tomorrowAt(15, 0), "justification": "trabalho"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d %v", w.Code, body)
	}
	moved, err := time.Parse(time.RFC3339, body["date"].(string))
	if err != nil || !moved.Equal(testfixtures.At(1, 15, 0)) {
		t.Fatalf("expected 15:00, got %v", body["date"])
	}

	w, body = s.do(t, http.MethodGet, "/client/appointments", nil)
	if w.Code != http.StatusOK || body["total"] != float64(1) {
		t.Fatalf("customer must only see own appointments, got %d %v", w.Code, body)
	}
}

func TestInvalidIDParam(t *testing.T) {
	s := newTestServer(t)

	w, body := s.do(t, http.MethodPatch, "/admin/appointments/abc/status", gin.H{"status": "confirmado"})
	if w.Code != http.StatusBadRequest || body["error_code"] != "invalid_id" {
		t.Fatalf("expected invalid_id, got %d %v", w.Code, body)
	}
}

// ======================================================
// ERROS
// ======================================================

func TestWriteErrorHidesInternalErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	writeError(c, errors.New("pq: connection refused"))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if bytes.Contains(w.Body.Bytes(), []byte("connection refused")) {
		t.Fatal("internal error details must not leak")
	}
}
