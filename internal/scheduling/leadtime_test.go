package scheduling

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

var salonTZ = time.FixedZone("UTC+3", 3*60*60)

func fixedHours(h int) domain.BookingPolicy {
	return domain.BookingPolicy{Mode: domain.BookingModeFixedHours, MinHours: h}
}

func nextDayOnly() domain.BookingPolicy {
	return domain.BookingPolicy{Mode: domain.BookingModeNextDayOnly}
}

func TestFilterByLeadTime_FixedHoursBoundary(t *testing.T) {
	now := time.Date(2025, 4, 14, 9, 59, 0, 0, salonTZ)
	today := DateIn(now, salonTZ)

	// threshold = 09:59 + 1m + 2h = 12:00
	got := FilterByLeadTime(LeadTimeInput{
		Date:   today,
		Slots:  ts("11:00", "11:59", "12:00", "12:30"),
		Policy: fixedHours(2),
		Now:    now,
	})

	assert.Equal(t, ts("12:00", "12:30"), got)
}

func TestFilterByLeadTime_OneMinuteEarlierExcluded(t *testing.T) {
	now := time.Date(2025, 4, 14, 10, 0, 0, 0, salonTZ)
	today := DateIn(now, salonTZ)

	// threshold = 10:00 + 1m + 0h = 10:01
	got := FilterByLeadTime(LeadTimeInput{
		Date:   today,
		Slots:  ts("10:00", "10:01", "10:30"),
		Policy: fixedHours(0),
		Now:    now,
	})

	assert.Equal(t, ts("10:01", "10:30"), got)
}

func TestFilterByLeadTime_NegativeHoursTreatedAsZero(t *testing.T) {
	now := time.Date(2025, 4, 14, 10, 0, 0, 0, salonTZ)

	got := FilterByLeadTime(LeadTimeInput{
		Date:   DateIn(now, salonTZ),
		Slots:  ts("09:00", "11:00"),
		Policy: fixedHours(-5),
		Now:    now,
	})

	assert.Equal(t, ts("11:00"), got)
}

func TestFilterByLeadTime_FutureDateUnfiltered(t *testing.T) {
	now := time.Date(2025, 4, 14, 23, 0, 0, 0, salonTZ)
	tomorrow := DateIn(now, salonTZ).AddDate(0, 0, 1)

	got := FilterByLeadTime(LeadTimeInput{
		Date:   tomorrow,
		Slots:  ts("09:00", "10:00"),
		Policy: fixedHours(24),
		Now:    now,
	})

	assert.Equal(t, ts("09:00", "10:00"), got)
}

func TestFilterByLeadTime_PastDateEmpty(t *testing.T) {
	now := time.Date(2025, 4, 14, 8, 0, 0, 0, salonTZ)
	yesterday := DateIn(now, salonTZ).AddDate(0, 0, -1)
	original := time.Date(2025, 4, 13, 10, 0, 0, 0, salonTZ)

	for _, policy := range []domain.BookingPolicy{fixedHours(0), nextDayOnly()} {
		got := FilterByLeadTime(LeadTimeInput{
			Date:          yesterday,
			Slots:         ts("10:00", "11:00"),
			Policy:        policy,
			Now:           now,
			OriginalStart: &original,
		})
		assert.Empty(t, got, string(policy.Mode))
	}
}

func TestFilterByLeadTime_FixedHoursReinstatesOriginalSlot(t *testing.T) {
	now := time.Date(2025, 4, 14, 10, 0, 0, 0, salonTZ)
	original := time.Date(2025, 4, 14, 10, 30, 0, 0, salonTZ)

	got := FilterByLeadTime(LeadTimeInput{
		Date:          DateIn(now, salonTZ),
		Slots:         ts("10:30", "11:00", "13:00"),
		Policy:        fixedHours(2),
		Now:           now,
		OriginalStart: &original,
	})

	assert.Equal(t, ts("10:30", "13:00"), got)
}

func TestFilterByLeadTime_OriginalSlotOnOtherDayNotReinstated(t *testing.T) {
	now := time.Date(2025, 4, 14, 10, 0, 0, 0, salonTZ)
	original := time.Date(2025, 4, 20, 10, 30, 0, 0, salonTZ)

	got := FilterByLeadTime(LeadTimeInput{
		Date:          DateIn(now, salonTZ),
		Slots:         ts("10:30", "13:00"),
		Policy:        fixedHours(2),
		Now:           now,
		OriginalStart: &original,
	})

	assert.Equal(t, ts("13:00"), got)
}

func TestFilterByLeadTime_NextDayOnly(t *testing.T) {
	now := time.Date(2025, 4, 14, 7, 0, 0, 0, salonTZ)
	today := DateIn(now, salonTZ)

	assert.Empty(t, FilterByLeadTime(LeadTimeInput{
		Date: today, Slots: ts("10:00", "11:00"), Policy: nextDayOnly(), Now: now,
	}))

	original := time.Date(2025, 4, 14, 15, 0, 0, 0, salonTZ)
	assert.Equal(t, ts("15:00"), FilterByLeadTime(LeadTimeInput{
		Date: today, Slots: ts("10:00", "11:00"), Policy: nextDayOnly(), Now: now, OriginalStart: &original,
	}))

	assert.Equal(t, ts("10:00", "11:00"), FilterByLeadTime(LeadTimeInput{
		Date: today.AddDate(0, 0, 1), Slots: ts("10:00", "11:00"), Policy: nextDayOnly(), Now: now,
	}))
}

func TestFilterByLeadTime_UsesTenantLocalDay(t *testing.T) {
	// 22:30 UTC is already 01:30 of the next day at UTC+3
	nowUTC := time.Date(2025, 4, 14, 22, 30, 0, 0, time.UTC)
	now := nowUTC.In(salonTZ)
	localToday := DateIn(now, salonTZ)

	got := FilterByLeadTime(LeadTimeInput{
		Date:   localToday,
		Slots:  ts("01:00", "09:00"),
		Policy: fixedHours(0),
		Now:    now,
	})

	assert.Equal(t, 15, localToday.Day())
	assert.Equal(t, ts("09:00"), got)
}

func TestCheckLeadTime(t *testing.T) {
	now := time.Date(2025, 4, 14, 10, 0, 0, 0, salonTZ)

	tests := []struct {
		name    string
		policy  domain.BookingPolicy
		start   time.Time
		wantErr bool
		inPast  bool
	}{
		{name: "past", policy: fixedHours(0), start: now.Add(-time.Minute), wantErr: true, inPast: true},
		{name: "at threshold", policy: fixedHours(2), start: now.Add(2*time.Hour + time.Minute)},
		{name: "before threshold", policy: fixedHours(2), start: now.Add(2 * time.Hour), wantErr: true},
		{name: "tomorrow ignores hours", policy: fixedHours(48), start: now.Add(20 * time.Hour)},
		{name: "next-day-only today", policy: nextDayOnly(), start: now.Add(3 * time.Hour), wantErr: true},
		{name: "next-day-only tomorrow", policy: nextDayOnly(), start: now.Add(15 * time.Hour)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckLeadTime(tt.policy, tt.start, now)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrPastOrTooSoon)

			var lte *LeadTimeError
			require.True(t, errors.As(err, &lte))
			assert.Equal(t, tt.inPast, lte.InPast)
		})
	}
}

func TestCheckLeadTime_ConvertsStartToTenantZone(t *testing.T) {
	now := time.Date(2025, 4, 14, 23, 30, 0, 0, salonTZ)
	// 21:00 UTC on the 14th is 00:00 on the 15th at UTC+3: next day
	start := time.Date(2025, 4, 14, 21, 0, 0, 0, time.UTC)

	assert.NoError(t, CheckLeadTime(nextDayOnly(), start, now))
	assert.Error(t, CheckLeadTime(nextDayOnly(), start.Add(-time.Minute), now.Add(-time.Hour)))
}

func TestFilterByLeadTime_ReinstatesOffGridOriginal(t *testing.T) {
	now := time.Date(2025, 4, 14, 9, 0, 0, 0, salonTZ)
	today := DateIn(now, salonTZ)
	original := time.Date(2025, 4, 14, 9, 30, 0, 0, salonTZ)

	tests := []struct {
		name   string
		date   time.Time
		policy domain.BookingPolicy
		slots  []types.TimeString
		want   []types.TimeString
	}{
		{
			name:   "fixed hours today",
			date:   today,
			policy: fixedHours(3),
			slots:  ts("09:00", "13:00", "14:00"),
			want:   ts("09:30", "13:00", "14:00"),
		},
		{
			name:   "next day only today",
			date:   today,
			policy: nextDayOnly(),
			slots:  ts("09:00", "13:00"),
			want:   ts("09:30"),
		},
		{
			name:   "original already offered is not duplicated",
			date:   today,
			policy: fixedHours(0),
			slots:  ts("09:30", "10:30"),
			want:   ts("09:30", "10:30"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterByLeadTime(LeadTimeInput{
				Date:          tt.date,
				Slots:         tt.slots,
				Policy:        tt.policy,
				Now:           now,
				OriginalStart: &original,
			})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilterByLeadTime_ReinstatesOffGridOriginalOnFutureDate(t *testing.T) {
	now := time.Date(2025, 4, 14, 9, 0, 0, 0, salonTZ)
	original := time.Date(2025, 4, 15, 9, 30, 0, 0, salonTZ)

	got := FilterByLeadTime(LeadTimeInput{
		Date:          DateIn(original, salonTZ),
		Slots:         ts("09:00", "10:00"),
		Policy:        fixedHours(3),
		Now:           now,
		OriginalStart: &original,
	})

	assert.Equal(t, ts("09:30", "09:00", "10:00"), got)
}
