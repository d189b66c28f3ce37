package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/salonsuite/salon-api/internal/model"
	"github.com/salonsuite/salon-api/internal/notify"
	"github.com/salonsuite/salon-api/internal/payment"
	"github.com/salonsuite/salon-api/internal/repository"
	"github.com/salonsuite/salon-api/pkg/messaging"
	"github.com/salonsuite/salon-api/pkg/metrics"
)

// dueDateGraceDays is how long after issuance an invoice remains payable.
const dueDateGraceDays = 5

// CheckoutCreator issues payment links for freshly created invoices.
type CheckoutCreator interface {
	CreateCheckout(ctx context.Context, tenant *model.Tenant, inv *model.Invoice) (*payment.Checkout, error)
}

// BillingDispatcher issues and delivers monthly subscription invoices. Each
// tenant is billed on its own billing day; at most one invoice exists per
// tenant per month, and reruns only retry the channels that have not been
// delivered yet. One tenant failing never blocks the rest of the pass.
type BillingDispatcher struct {
	tenants   repository.TenantRepository
	invoices  repository.InvoiceRepository
	gateway   CheckoutCreator
	email     notify.EmailSender
	messenger notify.Messenger
	broker    messaging.Broker
	metrics   *metrics.Metrics
	logger    zerolog.Logger
	loc       *time.Location

	now func() time.Time
}

func NewBillingDispatcher(
	tenants repository.TenantRepository,
	invoices repository.InvoiceRepository,
	gateway CheckoutCreator,
	email notify.EmailSender,
	messenger notify.Messenger,
	broker messaging.Broker,
	m *metrics.Metrics,
	loc *time.Location,
	logger zerolog.Logger,
) *BillingDispatcher {
	return &BillingDispatcher{
		tenants:   tenants,
		invoices:  invoices,
		gateway:   gateway,
		email:     email,
		messenger: messenger,
		broker:    broker,
		metrics:   m,
		logger:    logger.With().Str("job", "billing").Logger(),
		loc:       loc,
		now:       time.Now,
	}
}

func (d *BillingDispatcher) Name() string { return "billing" }

func (d *BillingDispatcher) RunOnce(ctx context.Context) {
	today := d.now().In(d.loc)

	tenants, err := d.tenants.ListActiveByStatus(ctx, model.TenantStatusActive)
	if err != nil {
		d.logger.Error().Err(err).Msg("failed to list active tenants")
		return
	}

	issued := 0
	for _, tenant := range tenants {
		if !d.billsToday(tenant, today) {
			continue
		}
		if err := d.billTenant(ctx, tenant, today); err != nil {
			d.logger.Error().Err(err).
				Str("tenant_id", tenant.ID.String()).
				Str("subdomain", tenant.Subdomain).
				Msg("failed to bill tenant")
			continue
		}
		issued++
	}

	if issued > 0 {
		d.logger.Info().Int("tenants", issued).Msg("billing pass finished")
		if err := d.broker.Publish(ctx, messaging.ChannelBilling, messaging.Event{
			Type:    "billing.pass_finished",
			Payload: map[string]int{"tenants": issued},
		}); err != nil {
			d.logger.Warn().Err(err).Msg("failed to publish billing event")
		}
	}
}

// billsToday matches the tenant's billing day against today, clamping days
// past the end of short months to the month's last day.
func (d *BillingDispatcher) billsToday(tenant *model.Tenant, today time.Time) bool {
	if tenant.BillingDay == nil || tenant.Plan.PriceCents() == 0 {
		return false
	}
	day := *tenant.BillingDay
	if last := lastDayOfMonth(today); day > last {
		day = last
	}
	return today.Day() == day
}

func (d *BillingDispatcher) billTenant(ctx context.Context, tenant *model.Tenant, today time.Time) error {
	month, year := int(today.Month()), today.Year()

	inv, err := d.invoices.GetByPeriod(ctx, tenant.ID, month, year)
	if err != nil {
		return err
	}

	if inv == nil {
		inv = &model.Invoice{
			TenantID:    tenant.ID,
			AmountCents: tenant.Plan.PriceCents(),
			Month:       month,
			Year:        year,
			Status:      model.InvoiceStatusPending,
			DueDate:     today.AddDate(0, 0, dueDateGraceDays),
		}

		linkErr := d.attachCheckout(ctx, tenant, inv)
		if err := d.invoices.Create(ctx, inv); err != nil {
			return err
		}
		d.metrics.InvoicesIssued.Inc()

		if linkErr != nil {
			// The invoice row is kept; delivery waits until a pass manages
			// to attach a payment link.
			return linkErr
		}
	} else if inv.DeliveredAt != nil {
		// Already issued and fully delivered this month.
		return nil
	} else if inv.PaymentLink == nil && inv.GatewayRef == nil {
		// An earlier pass issued the invoice without a link.
		if err := d.attachCheckout(ctx, tenant, inv); err != nil {
			return err
		}
	}

	return d.deliver(ctx, tenant, inv)
}

// attachCheckout asks the gateway for a payment link and records it on the
// invoice. A disabled gateway succeeds without producing a link.
func (d *BillingDispatcher) attachCheckout(ctx context.Context, tenant *model.Tenant, inv *model.Invoice) error {
	checkout, err := d.gateway.CreateCheckout(ctx, tenant, inv)
	if err != nil {
		return fmt.Errorf("failed to create checkout: %w", err)
	}
	if checkout.Link != "" {
		inv.PaymentLink = &checkout.Link
		inv.GatewayRef = &checkout.ExternalID
	}
	return nil
}

// deliver retries only the channels the tenant asked for that have not yet
// succeeded, then stamps the invoice delivered once none remain.
func (d *BillingDispatcher) deliver(ctx context.Context, tenant *model.Tenant, inv *model.Invoice) error {
	body := notify.InvoiceBody(tenant, inv)

	if tenant.BillByWhatsApp && !inv.SentByWhatsApp && tenant.AdminPhone != nil {
		if err := d.messenger.SendText(ctx, tenant.ID, *tenant.AdminPhone, body); err != nil {
			d.logger.Error().Err(err).Str("tenant_id", tenant.ID.String()).Msg("invoice whatsapp delivery failed")
		} else {
			inv.SentByWhatsApp = true
			d.metrics.InvoiceDeliveries.WithLabelValues(notify.ChannelWhatsApp).Inc()
		}
	}

	if tenant.BillByEmail && !inv.SentByEmail {
		if err := d.email.Send(ctx, []string{tenant.AdminEmail}, notify.InvoiceSubject(inv), body, false); err != nil {
			d.logger.Error().Err(err).Str("tenant_id", tenant.ID.String()).Msg("invoice email delivery failed")
		} else {
			inv.SentByEmail = true
			d.metrics.InvoiceDeliveries.WithLabelValues(notify.ChannelEmail).Inc()
		}
	}

	whatsappDone := !tenant.BillByWhatsApp || inv.SentByWhatsApp
	emailDone := !tenant.BillByEmail || inv.SentByEmail
	if whatsappDone && emailDone && inv.DeliveredAt == nil {
		now := d.now()
		inv.DeliveredAt = &now
	}

	return d.invoices.Update(ctx, inv)
}

func lastDayOfMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location()).
		AddDate(0, 1, -1).Day()
}
