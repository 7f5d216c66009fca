package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

func mondayWindows(start, end string) map[int]domain.AvailabilityWindow {
	return map[int]domain.AvailabilityWindow{
		1: {Weekday: 1, IsAvailable: true, Start: ts(start), End: ts(end)},
	}
}

// 2025-10-13 - понедельник
var monday = time.Date(2025, 10, 13, 0, 0, 0, 0, time.UTC)

func apt(start time.Time, status domain.AppointmentStatus) *domain.Appointment {
	return &domain.Appointment{StartTime: start, DurationMinutes: 60, Status: status}
}

func TestEstimateDemand(t *testing.T) {
	tests := []struct {
		name         string
		windows      map[int]domain.AvailabilityWindow
		appointments []*domain.Appointment
		gapMinutes   int
		wantRatio    float64
	}{
		{
			name:       "no appointments, open day",
			windows:    mondayWindows("09:00", "19:00"),
			gapMinutes: 60,
			wantRatio:  0,
		},
		{
			name:    "partial load",
			windows: mondayWindows("09:00", "19:00"), // 600 минут
			appointments: []*domain.Appointment{
				apt(monday.Add(9*time.Hour), domain.StatusNew),
				apt(monday.Add(10*time.Hour), domain.StatusNew),
				apt(monday.Add(11*time.Hour), domain.StatusCheckedOut),
			},
			gapMinutes: 60,
			wantRatio:  0.3,
		},
		{
			name:    "cancelled appointments are excluded from load",
			windows: mondayWindows("09:00", "19:00"),
			appointments: []*domain.Appointment{
				apt(monday.Add(9*time.Hour), domain.StatusCancelledByClient),
				apt(monday.Add(10*time.Hour), domain.StatusCancelledByStylist),
			},
			gapMinutes: 60,
			wantRatio:  0,
		},
		{
			name:    "no_show still counts toward load",
			windows: mondayWindows("09:00", "19:00"),
			appointments: []*domain.Appointment{
				apt(monday.Add(9*time.Hour), domain.StatusNoShow),
			},
			gapMinutes: 60,
			wantRatio:  0.1,
		},
		{
			name:    "overbooking clamps at 1.0",
			windows: mondayWindows("09:00", "11:00"), // 120 минут
			appointments: []*domain.Appointment{
				apt(monday.Add(9*time.Hour), domain.StatusNew),
				apt(monday.Add(9*time.Hour), domain.StatusNew),
				apt(monday.Add(10*time.Hour), domain.StatusNew),
			},
			gapMinutes: 60,
			wantRatio:  1.0,
		},
		{
			name:       "missing availability window means saturated",
			windows:    map[int]domain.AvailabilityWindow{},
			gapMinutes: 60,
			wantRatio:  1.0,
		},
		{
			name: "unavailable day means saturated",
			windows: map[int]domain.AvailabilityWindow{
				1: {Weekday: 1, IsAvailable: false},
			},
			gapMinutes: 60,
			wantRatio:  1.0,
		},
		{
			name:       "zero-width window means saturated",
			windows:    mondayWindows("10:00", "10:00"),
			gapMinutes: 60,
			wantRatio:  1.0,
		},
		{
			name:    "appointments on other days do not count",
			windows: mondayWindows("09:00", "19:00"),
			appointments: []*domain.Appointment{
				apt(monday.AddDate(0, 0, 1).Add(9*time.Hour), domain.StatusNew),
			},
			gapMinutes: 60,
			wantRatio:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			samples := EstimateDemand(tt.windows, tt.appointments, []time.Time{monday}, tt.gapMinutes)
			require.Len(t, samples, 1)
			assert.Equal(t, monday, samples[0].Date)
			assert.InDelta(t, tt.wantRatio, samples[0].LoadRatio, 1e-9)
			assert.GreaterOrEqual(t, samples[0].LoadRatio, 0.0)
			assert.LessOrEqual(t, samples[0].LoadRatio, 1.0)
		})
	}
}

func TestEstimateDemand_MultipleDatesIndependent(t *testing.T) {
	windows := map[int]domain.AvailabilityWindow{
		1: {Weekday: 1, IsAvailable: true, Start: ts("09:00"), End: ts("19:00")},
		2: {Weekday: 2, IsAvailable: true, Start: ts("09:00"), End: ts("13:00")},
	}
	tuesday := monday.AddDate(0, 0, 1)

	appointments := []*domain.Appointment{
		apt(monday.Add(9*time.Hour), domain.StatusNew),
		apt(tuesday.Add(9*time.Hour), domain.StatusNew),
		apt(tuesday.Add(10*time.Hour), domain.StatusNew),
	}

	samples := EstimateDemand(windows, appointments, []time.Time{monday, tuesday}, 60)
	require.Len(t, samples, 2)

	assert.InDelta(t, 0.1, samples[0].LoadRatio, 1e-9)
	assert.InDelta(t, 0.5, samples[1].LoadRatio, 1e-9)
	assert.False(t, samples[0].IsSaturated())
	assert.False(t, samples[1].IsSaturated())
}
