package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/salonsuite/salon-api/internal/model"
	"github.com/salonsuite/salon-api/internal/payment"
	"github.com/salonsuite/salon-api/pkg/metrics"
)

// Shared across the package's tests; prometheus collectors register once
// per process.
var testMetrics = metrics.New("scheduler_test")

type fakeAppointmentRepo struct {
	mu           sync.Mutex
	appointments map[uuid.UUID]*model.Appointment
	findErr      error
	markedAt     map[uuid.UUID]time.Time
}

func newFakeAppointmentRepo(appts ...*model.Appointment) *fakeAppointmentRepo {
	r := &fakeAppointmentRepo{
		appointments: make(map[uuid.UUID]*model.Appointment),
		markedAt:     make(map[uuid.UUID]time.Time),
	}
	for _, a := range appts {
		r.appointments[a.ID] = a
	}
	return r
}

func (r *fakeAppointmentRepo) Create(ctx context.Context, a *model.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.appointments[a.ID] = a
	return nil
}

func (r *fakeAppointmentRepo) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.appointments[id]
	if !ok {
		return nil, fmt.Errorf("appointment not found")
	}
	return a, nil
}

func (r *fakeAppointmentRepo) Update(ctx context.Context, a *model.Appointment) error {
	return r.Create(ctx, a)
}

func (r *fakeAppointmentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.appointments, id)
	return nil
}

func (r *fakeAppointmentRepo) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	return nil, nil
}

func (r *fakeAppointmentRepo) FindDueForReminder(ctx context.Context, from, to time.Time) ([]*model.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	var due []*model.Appointment
	for _, a := range r.appointments {
		if a.Status != model.AppointmentStatusPending || a.Notified {
			continue
		}
		if a.ScheduledAt.Before(from) || a.ScheduledAt.After(to) {
			continue
		}
		due = append(due, a)
	}
	return due, nil
}

func (r *fakeAppointmentRepo) FindBetween(ctx context.Context, from, to time.Time) ([]*model.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Appointment
	for _, a := range r.appointments {
		if !a.ScheduledAt.Before(from) && a.ScheduledAt.Before(to) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeAppointmentRepo) MarkNotified(ctx context.Context, ids []uuid.UUID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		if a, ok := r.appointments[id]; ok {
			a.Notified = true
			notifiedAt := at
			a.NotifiedAt = &notifiedAt
			r.markedAt[id] = at
		}
	}
	return nil
}

type sentEmail struct {
	to      []string
	subject string
	body    string
}

type fakeEmailSender struct {
	mu   sync.Mutex
	sent []sentEmail
	err  error
}

func (f *fakeEmailSender) Send(ctx context.Context, to []string, subject, body string, html bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentEmail{to: to, subject: subject, body: body})
	return nil
}

type sentText struct {
	tenantID uuid.UUID
	phone    string
	body     string
}

type fakeMessenger struct {
	mu   sync.Mutex
	sent []sentText
	err  error
}

func (f *fakeMessenger) SendText(ctx context.Context, tenantID uuid.UUID, phone, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentText{tenantID: tenantID, phone: phone, body: body})
	return nil
}

type fakeTenantRepo struct {
	tenants  map[uuid.UUID]*model.Tenant
	resets   int64
	resetErr error
}

func newFakeTenantRepo(tenants ...*model.Tenant) *fakeTenantRepo {
	r := &fakeTenantRepo{tenants: make(map[uuid.UUID]*model.Tenant)}
	for _, t := range tenants {
		r.tenants[t.ID] = t
	}
	return r
}

func (r *fakeTenantRepo) Create(ctx context.Context, t *model.Tenant) error {
	r.tenants[t.ID] = t
	return nil
}

func (r *fakeTenantRepo) Get(ctx context.Context, id uuid.UUID) (*model.Tenant, error) {
	t, ok := r.tenants[id]
	if !ok {
		return nil, fmt.Errorf("tenant not found")
	}
	return t, nil
}

func (r *fakeTenantRepo) GetBySubdomain(ctx context.Context, subdomain string) (*model.Tenant, error) {
	for _, t := range r.tenants {
		if t.Subdomain == subdomain {
			return t, nil
		}
	}
	return nil, nil
}

func (r *fakeTenantRepo) GetByCustomDomain(ctx context.Context, domain string) (*model.Tenant, error) {
	return nil, nil
}

func (r *fakeTenantRepo) Update(ctx context.Context, t *model.Tenant) error {
	r.tenants[t.ID] = t
	return nil
}

func (r *fakeTenantRepo) List(ctx context.Context) ([]*model.Tenant, error) {
	var out []*model.Tenant
	for _, t := range r.tenants {
		out = append(out, t)
	}
	return out, nil
}

func (r *fakeTenantRepo) ListActiveByStatus(ctx context.Context, status model.TenantStatus) ([]*model.Tenant, error) {
	var out []*model.Tenant
	for _, t := range r.tenants {
		if t.Active && t.Status == status {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *fakeTenantRepo) IncrementUsage(ctx context.Context, id uuid.UUID) (int, error) {
	t := r.tenants[id]
	t.AppointmentsUsed++
	return t.AppointmentsUsed, nil
}

func (r *fakeTenantRepo) ResetUsageCounters(ctx context.Context) (int64, error) {
	if r.resetErr != nil {
		return 0, r.resetErr
	}
	var reset int64
	for _, t := range r.tenants {
		if t.Active && t.AppointmentsUsed != 0 {
			t.AppointmentsUsed = 0
			reset++
		}
	}
	r.resets++
	return reset, nil
}

type fakeInvoiceRepo struct {
	mu       sync.Mutex
	invoices map[uuid.UUID]*model.Invoice
}

func newFakeInvoiceRepo() *fakeInvoiceRepo {
	return &fakeInvoiceRepo{invoices: make(map[uuid.UUID]*model.Invoice)}
}

func (r *fakeInvoiceRepo) Create(ctx context.Context, inv *model.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}
	r.invoices[inv.ID] = inv
	return nil
}

func (r *fakeInvoiceRepo) Get(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.invoices[id]
	if !ok {
		return nil, fmt.Errorf("invoice not found")
	}
	return inv, nil
}

func (r *fakeInvoiceRepo) GetByPeriod(ctx context.Context, tenantID uuid.UUID, month, year int) (*model.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, inv := range r.invoices {
		if inv.TenantID == tenantID && inv.Month == month && inv.Year == year {
			return inv, nil
		}
	}
	return nil, nil
}

func (r *fakeInvoiceRepo) Update(ctx context.Context, inv *model.Invoice) error {
	return r.Create(ctx, inv)
}

func (r *fakeInvoiceRepo) List(ctx context.Context, filters *model.InvoiceFilters) ([]*model.Invoice, error) {
	return nil, nil
}

func (r *fakeInvoiceRepo) all() []*model.Invoice {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Invoice
	for _, inv := range r.invoices {
		out = append(out, inv)
	}
	return out
}

type fakeGateway struct {
	checkouts int
	err       error
}

func (g *fakeGateway) CreateCheckout(ctx context.Context, tenant *model.Tenant, inv *model.Invoice) (*payment.Checkout, error) {
	if g.err != nil {
		return nil, g.err
	}
	g.checkouts++
	return &payment.Checkout{
		Link:       fmt.Sprintf("https://pay.example/%s", inv.TenantID),
		ExternalID: fmt.Sprintf("pref-%d", g.checkouts),
	}, nil
}
