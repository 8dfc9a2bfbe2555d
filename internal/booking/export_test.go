package booking

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteXLSX_UsesLocation(t *testing.T) {
	loc, err := time.LoadLocation("Europe/London")
	require.NoError(t, err)

	// 09:00 UTC in July is 10:00 in London.
	start := time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)
	b := *detailed(StatusPending, start)
	b.TotalPriceCents = 12345

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, []BookingWithDetails{b}, loc))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(exportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "2025-07-01", rows[1][2])
	assert.Equal(t, "10:00", rows[1][3])
	assert.Equal(t, "12:00", rows[1][4])
	assert.Equal(t, "123.45", rows[1][7])
}

func TestWriteXLSX_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, nil, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(exportSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Len(t, rows[0], len(exportColumns))
}
