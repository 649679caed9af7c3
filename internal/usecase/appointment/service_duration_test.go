package appointment

import (
	"context"
	"testing"
	"time"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/testfixtures"
)

func TestChangeServiceDurationRecomputesOpenAppointments(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	next := h.seed(h.salon.CustomerX, h.salon.Haircut, "Maria", tomorrow(10, 0))
	later := h.seed(h.salon.CustomerY, h.salon.Haircut, "João", testfixtures.At(2, 10, 0))
	past := h.seed(h.salon.CustomerY, h.salon.Haircut, "Maria", testfixtures.At(-1, 10, 0))
	cancelled := h.salon.Repo.AddAppointment(models.Appointment{
		CustomerID:   h.salon.CustomerY.ID,
		ServiceID:    h.salon.Haircut.ID,
		Date:         tomorrow(15, 0),
		EndsAt:       tomorrow(16, 0),
		Professional: "Maria",
		Status:       string(domain.StatusCancelled),
	})
	other := h.seed(h.salon.CustomerY, h.salon.Blowdry, "Maria", tomorrow(12, 0))

	svc, err := h.sched.ChangeServiceDuration(ctx, domain.Staff(1), h.salon.Haircut.ID, 45)
	if err != nil {
		t.Fatalf("ChangeServiceDuration failed: %v", err)
	}
	if svc.DurationMin != 45 {
		t.Fatalf("expected 45 minutes, got %d", svc.DurationMin)
	}

	for _, ap := range []models.Appointment{next, later} {
		stored, _ := h.salon.Repo.GetAppointment(ctx, ap.ID)
		if !stored.EndsAt.Equal(ap.Date.Add(45 * time.Minute)) {
			t.Fatalf("appointment %d: expected a 45m block, ends at %s", ap.ID, stored.EndsAt)
		}
	}
	for _, ap := range []models.Appointment{past, cancelled, other} {
		stored, _ := h.salon.Repo.GetAppointment(ctx, ap.ID)
		if !stored.EndsAt.Equal(ap.EndsAt) {
			t.Fatalf("appointment %d must keep its block, ends at %s", ap.ID, stored.EndsAt)
		}
	}

	stored, _ := h.salon.Repo.GetService(ctx, h.salon.Haircut.ID)
	if stored.DurationMin != 45 {
		t.Fatal("service duration not saved")
	}

	// o horário liberado volta a ficar disponível
	if _, err := h.book(h.salon.CustomerY, "Maria", tomorrow(10, 45), h.salon.Blowdry); err != nil {
		t.Fatalf("10:45 should be free after shortening: %v", err)
	}
}

func TestChangeServiceDurationRejectsProfessionalOverlap(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	ap := h.seed(h.salon.CustomerX, h.salon.Haircut, "Maria", tomorrow(10, 0))
	h.seed(h.salon.CustomerY, h.salon.Blowdry, "Maria", tomorrow(11, 0))

	_, err := h.sched.ChangeServiceDuration(ctx, domain.Staff(1), h.salon.Haircut.ID, 90)
	be := expectCode(t, err, "service_duration_conflict")
	if be.Meta["appointmentId"] != ap.ID || be.Meta["with"] != "professional" {
		t.Fatalf("unexpected meta %v", be.Meta)
	}

	stored, _ := h.salon.Repo.GetAppointment(ctx, ap.ID)
	if !stored.EndsAt.Equal(tomorrow(11, 0)) {
		t.Fatalf("rejected change must keep the block, got %s", stored.EndsAt)
	}
	svc, _ := h.salon.Repo.GetService(ctx, h.salon.Haircut.ID)
	if svc.DurationMin != 60 {
		t.Fatalf("rejected change must keep the duration, got %d", svc.DurationMin)
	}
}

func TestChangeServiceDurationRejectsCustomerOverlap(t *testing.T) {
	h := newHarness(t)

	h.seed(h.salon.CustomerX, h.salon.Haircut, "Maria", tomorrow(10, 0))
	h.seed(h.salon.CustomerX, h.salon.Blowdry, "João", tomorrow(11, 0))

	_, err := h.sched.ChangeServiceDuration(context.Background(), domain.Staff(1), h.salon.Haircut.ID, 75)
	be := expectCode(t, err, "service_duration_conflict")
	if be.Meta["with"] != "customer" {
		t.Fatalf("expected customer overlap, got %v", be.Meta)
	}
}

func TestChangeServiceDurationSameServiceNeighbours(t *testing.T) {
	h := newHarness(t)

	// dois cortes seguidos com a mesma profissional: esticar um invade o outro
	h.seed(h.salon.CustomerX, h.salon.Haircut, "Maria", tomorrow(10, 0))
	h.seed(h.salon.CustomerY, h.salon.Haircut, "Maria", tomorrow(11, 0))

	_, err := h.sched.ChangeServiceDuration(context.Background(), domain.Staff(1), h.salon.Haircut.ID, 70)
	expectCode(t, err, "service_duration_conflict")
}

func TestChangeServiceDurationValidation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.sched.ChangeServiceDuration(ctx, domain.Staff(1), h.salon.Haircut.ID, 0)
	expectCode(t, err, "invalid_duration")

	_, err = h.sched.ChangeServiceDuration(ctx, domain.Staff(1), 999, 30)
	expectCode(t, err, "service_not_found")

	_, err = h.sched.ChangeServiceDuration(ctx, domain.Customer(h.salon.CustomerX.ID), h.salon.Haircut.ID, 30)
	expectCode(t, err, "forbidden")
}
