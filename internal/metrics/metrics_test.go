package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordHTTPRequest(t *testing.T) {
	HTTPRequestsTotal.Reset()
	HTTPRequestDuration.Reset()

	RecordHTTPRequest("POST", "/api/bookings", "201", 0.1)
	RecordHTTPRequest("POST", "/api/bookings", "201", 0.2)
	RecordHTTPRequest("POST", "/api/bookings", "409", 0.05)

	assert.Equal(t, float64(2), testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("POST", "/api/bookings", "201")))
	assert.Equal(t, float64(1), testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("POST", "/api/bookings", "409")))
	assert.Equal(t, 1, testutil.CollectAndCount(HTTPRequestDuration))
}

func TestRecordBooking(t *testing.T) {
	BookingsTotal.Reset()

	RecordBooking("CONFIRMED")
	RecordBooking("CONFIRMED")
	RecordBooking("PENDING")

	assert.Equal(t, float64(2), testutil.ToFloat64(BookingsTotal.WithLabelValues("CONFIRMED")))
	assert.Equal(t, float64(1), testutil.ToFloat64(BookingsTotal.WithLabelValues("PENDING")))
}

func TestRecordBookingConflict(t *testing.T) {
	before := testutil.ToFloat64(BookingConflictsTotal)

	RecordBookingConflict()

	assert.Equal(t, before+1, testutil.ToFloat64(BookingConflictsTotal))
}

func TestRecordBookingCancellation(t *testing.T) {
	BookingCancellationsTotal.Reset()

	RecordBookingCancellation("user")
	RecordBookingCancellation("owner")
	RecordBookingCancellation("user")

	assert.Equal(t, float64(2), testutil.ToFloat64(BookingCancellationsTotal.WithLabelValues("user")))
	assert.Equal(t, float64(1), testutil.ToFloat64(BookingCancellationsTotal.WithLabelValues("owner")))
}

func TestRecordTransition(t *testing.T) {
	BookingTransitionsTotal.Reset()

	RecordTransition("PENDING", "CONFIRMED")

	assert.Equal(t, float64(1), testutil.ToFloat64(BookingTransitionsTotal.WithLabelValues("PENDING", "CONFIRMED")))
}

func TestRecordEmail(t *testing.T) {
	EmailsSentTotal.Reset()

	RecordEmail("booking_confirmation", "sent")
	RecordEmail("booking_confirmation", "failed")

	assert.Equal(t, float64(1), testutil.ToFloat64(EmailsSentTotal.WithLabelValues("booking_confirmation", "sent")))
	assert.Equal(t, float64(1), testutil.ToFloat64(EmailsSentTotal.WithLabelValues("booking_confirmation", "failed")))
}

func TestSetEmailQueueLength(t *testing.T) {
	SetEmailQueueLength(7)
	assert.Equal(t, float64(7), testutil.ToFloat64(EmailQueueLength))
}

func TestRecordAvailabilityLookup(t *testing.T) {
	AvailabilityLookupsTotal.Reset()

	RecordAvailabilityLookup(true)
	RecordAvailabilityLookup(false)
	RecordAvailabilityLookup(false)

	assert.Equal(t, float64(1), testutil.ToFloat64(AvailabilityLookupsTotal.WithLabelValues("open")))
	assert.Equal(t, float64(2), testutil.ToFloat64(AvailabilityLookupsTotal.WithLabelValues("empty")))
}
