package email

import (
	"context"
	"fmt"
	"time"
)

// BookingDetails is what the booking mails tell the customer.
type BookingDetails struct {
	BookingID       int
	StadiumName     string
	Address         string
	City            string
	PostalCode      string
	Start           time.Time
	End             time.Time
	TotalPriceCents int64
}

func formatCents(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}

func (s *Service) when(d BookingDetails) string {
	start := d.Start.In(s.opts.Location)
	end := d.End.In(s.opts.Location)
	return fmt.Sprintf("%s, %s - %s",
		start.Format("Mon Jan 2, 2006"), start.Format("15:04"), end.Format("15:04"))
}

func (s *Service) SendBookingConfirmation(ctx context.Context, to, name string, d BookingDetails) error {
	subject := "Booking Confirmed - " + d.StadiumName
	body := fmt.Sprintf(`Hi %s,

Your booking #%d is confirmed.

Stadium: %s
Address: %s, %s %s
When: %s
Total: %s

See you on the pitch!

- %s`, name, d.BookingID, d.StadiumName, d.Address, d.City, d.PostalCode,
		s.when(d), formatCents(d.TotalPriceCents), s.opts.FromName)

	return s.Send(ctx, TypeBookingConfirmation, to, name, subject, body)
}

func (s *Service) SendBookingCancellation(ctx context.Context, to, name string, d BookingDetails) error {
	subject := "Booking Cancelled - " + d.StadiumName
	body := fmt.Sprintf(`Hi %s,

Your booking #%d has been cancelled.

Stadium: %s
When: %s

- %s`, name, d.BookingID, d.StadiumName, s.when(d), s.opts.FromName)

	return s.Send(ctx, TypeBookingCancellation, to, name, subject, body)
}
