package testfixtures

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

var ErrLockOutsideTransaction = errors.New("row lock outside transaction")

type state struct {
	services      map[uint]models.Service
	professionals map[string]models.Professional
	customers     map[uint]models.Customer
	appointments  map[uint]models.Appointment
	nextID        uint
	locks         int
}

func newState() *state {
	return &state{
		services:      make(map[uint]models.Service),
		professionals: make(map[string]models.Professional),
		customers:     make(map[uint]models.Customer),
		appointments:  make(map[uint]models.Appointment),
		nextID:        1,
	}
}

func (s *state) clone() *state {
	c := newState()
	c.nextID = s.nextID
	c.locks = s.locks
	for k, v := range s.services {
		c.services[k] = v
	}
	for k, v := range s.professionals {
		c.professionals[k] = v
	}
	for k, v := range s.customers {
		c.customers[k] = v
	}
	for k, v := range s.appointments {
		c.appointments[k] = v
	}
	return c
}

func (s *state) id() uint {
	id := s.nextID
	s.nextID++
	return id
}

// MemoryRepository implementa o repositório da agenda em memória. Transações
// trabalham sobre uma cópia do estado e só a publicam se fn não falhar;
// transações concorrentes são executadas uma por vez.
type MemoryRepository struct {
	mu *sync.Mutex
	st **state
	tx *state

	// FailCreate, quando definido, é chamado antes de cada inserção de
	// agendamento e pode abortar a operação.
	FailCreate func(ap *models.Appointment) error
}

func NewMemoryRepository() *MemoryRepository {
	st := newState()
	return &MemoryRepository{
		mu: &sync.Mutex{},
		st: &st,
	}
}

func (r *MemoryRepository) read(fn func(s *state)) {
	if r.tx != nil {
		fn(r.tx)
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(*r.st)
}

func (r *MemoryRepository) Transaction(ctx context.Context, fn func(tx domain.Repository) error) error {
	if r.tx != nil {
		return fn(r)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	work := (*r.st).clone()
	txRepo := &MemoryRepository{mu: r.mu, st: r.st, tx: work, FailCreate: r.FailCreate}
	if err := fn(txRepo); err != nil {
		return err
	}
	*r.st = work
	return nil
}

// --------------------------------------------------
// Seed helpers
// --------------------------------------------------

func (r *MemoryRepository) AddService(svc models.Service) models.Service {
	r.read(func(s *state) {
		if svc.ID == 0 {
			svc.ID = s.id()
		}
		s.services[svc.ID] = svc
	})
	return svc
}

func (r *MemoryRepository) AddProfessional(p models.Professional) models.Professional {
	r.read(func(s *state) {
		if p.ID == 0 {
			p.ID = s.id()
		}
		s.professionals[p.Name] = p
	})
	return p
}

func (r *MemoryRepository) AddCustomer(c models.Customer) models.Customer {
	r.read(func(s *state) {
		if c.ID == 0 {
			c.ID = s.id()
		}
		s.customers[c.ID] = c
	})
	return c
}

func (r *MemoryRepository) AddAppointment(ap models.Appointment) models.Appointment {
	r.read(func(s *state) {
		if ap.ID == 0 {
			ap.ID = s.id()
		}
		if ap.Status == "" {
			ap.Status = string(domain.StatusScheduled)
		}
		s.appointments[ap.ID] = ap
	})
	return ap
}

// Appointments devolve todos os agendamentos gravados, ordenados pelo início.
func (r *MemoryRepository) Appointments() []models.Appointment {
	var out []models.Appointment
	r.read(func(s *state) {
		for _, ap := range s.appointments {
			out = append(out, s.withRelations(ap))
		}
	})
	sortByDate(out)
	return out
}

// LockCount conta as leituras com trava feitas em transações confirmadas.
func (r *MemoryRepository) LockCount() int {
	var n int
	r.read(func(s *state) { n = s.locks })
	return n
}

func (r *MemoryRepository) CustomerCount() int {
	var n int
	r.read(func(s *state) { n = len(s.customers) })
	return n
}

// --------------------------------------------------
// domain.Repository
// --------------------------------------------------

func (r *MemoryRepository) GetService(_ context.Context, id uint) (*models.Service, error) {
	var (
		svc models.Service
		ok  bool
	)
	r.read(func(s *state) { svc, ok = s.services[id] })
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &svc, nil
}

func (r *MemoryRepository) UpdateService(_ context.Context, svc *models.Service) error {
	var ok bool
	r.read(func(s *state) {
		if _, ok = s.services[svc.ID]; ok {
			s.services[svc.ID] = *svc
		}
	})
	if !ok {
		return domain.ErrNotFound
	}
	return nil
}

func (r *MemoryRepository) GetProfessionalByName(_ context.Context, name string) (*models.Professional, error) {
	var (
		p  models.Professional
		ok bool
	)
	r.read(func(s *state) { p, ok = s.professionals[name] })
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

func (r *MemoryRepository) GetCustomer(_ context.Context, id uint) (*models.Customer, error) {
	var (
		c  models.Customer
		ok bool
	)
	r.read(func(s *state) { c, ok = s.customers[id] })
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &c, nil
}

func (r *MemoryRepository) FindCustomerByPhone(_ context.Context, phone string) (*models.Customer, error) {
	var found *models.Customer
	r.read(func(s *state) {
		for _, c := range s.customers {
			if c.Phone == phone {
				c := c
				found = &c
				return
			}
		}
	})
	if found == nil {
		return nil, domain.ErrNotFound
	}
	return found, nil
}

func (r *MemoryRepository) CreateCustomer(_ context.Context, c *models.Customer) error {
	var taken bool
	r.read(func(s *state) {
		for _, other := range s.customers {
			if other.Phone == c.Phone {
				taken = true
				return
			}
		}
		c.ID = s.id()
		s.customers[c.ID] = *c
	})
	if taken {
		return domain.ErrDuplicate
	}
	return nil
}

func (r *MemoryRepository) GetAppointment(_ context.Context, id uint) (*models.Appointment, error) {
	var (
		ap models.Appointment
		ok bool
	)
	r.read(func(s *state) {
		ap, ok = s.appointments[id]
		if ok {
			ap = s.withRelations(ap)
		}
	})
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &ap, nil
}

func (r *MemoryRepository) CreateAppointment(_ context.Context, ap *models.Appointment) error {
	if r.FailCreate != nil {
		if err := r.FailCreate(ap); err != nil {
			return err
		}
	}
	r.read(func(s *state) {
		ap.ID = s.id()
		s.appointments[ap.ID] = *ap
	})
	return nil
}

func (r *MemoryRepository) UpdateAppointment(_ context.Context, ap *models.Appointment) error {
	var ok bool
	r.read(func(s *state) {
		if _, ok = s.appointments[ap.ID]; ok {
			s.appointments[ap.ID] = *ap
		}
	})
	if !ok {
		return domain.ErrNotFound
	}
	return nil
}

func (r *MemoryRepository) ListActiveAppointments(_ context.Context, from, to time.Time) ([]models.Appointment, error) {
	out := r.list(func(ap models.Appointment) bool {
		return ap.Status != string(domain.StatusCancelled) && inRange(ap.Date, from, to)
	})
	return out, nil
}

// LockActiveAppointments só pode ser chamado dentro de Transaction; fora
// dela a chamada falha, como um SELECT ... FOR UPDATE sem transação.
func (r *MemoryRepository) LockActiveAppointments(ctx context.Context, from, to time.Time) ([]models.Appointment, error) {
	if r.tx == nil {
		return nil, ErrLockOutsideTransaction
	}
	r.read(func(s *state) { s.locks++ })
	return r.ListActiveAppointments(ctx, from, to)
}

func (r *MemoryRepository) ListServiceAppointments(_ context.Context, serviceID uint, from time.Time) ([]models.Appointment, error) {
	out := r.list(func(ap models.Appointment) bool {
		return ap.ServiceID == serviceID &&
			ap.Status != string(domain.StatusCancelled) &&
			!ap.Date.Before(from)
	})
	return out, nil
}

func (r *MemoryRepository) ListAppointmentsForPeriod(_ context.Context, from, to time.Time, professional string) ([]models.Appointment, error) {
	out := r.list(func(ap models.Appointment) bool {
		if professional != "" && ap.Professional != professional {
			return false
		}
		return inRange(ap.Date, from, to)
	})
	return out, nil
}

func (r *MemoryRepository) ListCustomerAppointments(_ context.Context, customerID uint, from time.Time) ([]models.Appointment, error) {
	out := r.list(func(ap models.Appointment) bool {
		return ap.CustomerID == customerID && !ap.Date.Before(from)
	})
	return out, nil
}

func (r *MemoryRepository) list(keep func(models.Appointment) bool) []models.Appointment {
	out := []models.Appointment{}
	r.read(func(s *state) {
		for _, ap := range s.appointments {
			if keep(ap) {
				out = append(out, s.withRelations(ap))
			}
		}
	})
	sortByDate(out)
	return out
}

func (s *state) withRelations(ap models.Appointment) models.Appointment {
	if svc, ok := s.services[ap.ServiceID]; ok {
		ap.Service = svc
	}
	if c, ok := s.customers[ap.CustomerID]; ok {
		ap.Customer = c
	}
	return ap
}

func inRange(t, from, to time.Time) bool {
	return !t.Before(from) && t.Before(to)
}

func sortByDate(aps []models.Appointment) {
	sort.SliceStable(aps, func(i, j int) bool {
		if aps[i].Date.Equal(aps[j].Date) {
			return aps[i].ID < aps[j].ID
		}
		return aps[i].Date.Before(aps[j].Date)
	})
}

var _ domain.Repository = (*MemoryRepository)(nil)
