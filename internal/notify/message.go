package notify

import (
	"fmt"
	"strings"
	"time"

	"github.com/salonsuite/salon-api/internal/model"
)

// ReminderSubject is the subject line of an upcoming-appointment email.
const ReminderSubject = "Reminder: your appointment is coming up"

// ReminderBody renders the client-facing reminder for an upcoming
// appointment. Times are formatted in the given location, which is the
// salon's operating time zone, not the server's.
func ReminderBody(appt *model.Appointment, loc *time.Location) string {
	var b strings.Builder

	name := "there"
	if appt.ClientName != nil && *appt.ClientName != "" {
		name = *appt.ClientName
	}
	fmt.Fprintf(&b, "Hi %s!\n\n", name)

	when := appt.ScheduledAt.In(loc)
	if appt.ServiceName != nil && *appt.ServiceName != "" {
		fmt.Fprintf(&b, "This is a reminder of your %s appointment ", *appt.ServiceName)
	} else {
		b.WriteString("This is a reminder of your appointment ")
	}
	fmt.Fprintf(&b, "today at %s.\n\n", when.Format("15:04"))

	b.WriteString("See you soon!")
	return b.String()
}

// DigestSubject renders the subject of the daily schedule summary.
func DigestSubject(day time.Time) string {
	return fmt.Sprintf("Your schedule for %s", day.Format("Jan 2, 2006"))
}

// DigestBody renders the owner-facing daily summary of today's appointments,
// ordered as given (callers pass them sorted by time).
func DigestBody(appts []*model.Appointment, loc *time.Location) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You have %d appointment(s) today:\n\n", len(appts))
	for _, appt := range appts {
		client := "(no client)"
		if appt.ClientName != nil && *appt.ClientName != "" {
			client = *appt.ClientName
		}
		service := ""
		if appt.ServiceName != nil && *appt.ServiceName != "" {
			service = " - " + *appt.ServiceName
		}
		fmt.Fprintf(&b, "  %s  %s%s\n", appt.ScheduledAt.In(loc).Format("15:04"), client, service)
	}

	return b.String()
}

// InvoiceSubject renders the subject of a monthly invoice message.
func InvoiceSubject(inv *model.Invoice) string {
	return fmt.Sprintf("Invoice %02d/%d", inv.Month, inv.Year)
}

// InvoiceBody renders the tenant-facing invoice message with the payment
// link when the gateway issued one.
func InvoiceBody(tenant *model.Tenant, inv *model.Invoice) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Hi %s!\n\n", tenant.BusinessName)
	fmt.Fprintf(&b, "Your %s plan invoice for %02d/%d is ready: $%d.%02d, due %s.\n",
		tenant.Plan, inv.Month, inv.Year,
		inv.AmountCents/100, inv.AmountCents%100,
		inv.DueDate.Format("Jan 2, 2006"))

	if inv.PaymentLink != nil && *inv.PaymentLink != "" {
		fmt.Fprintf(&b, "\nPay online: %s\n", *inv.PaymentLink)
	}

	b.WriteString("\nThank you for being with us!")
	return b.String()
}
