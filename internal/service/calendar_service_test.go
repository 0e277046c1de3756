package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gator-scheduler/schedule-api/internal/models"
)

func fixedNow() time.Time {
	// A Thursday; the containing week runs 2024-08-04 through 2024-08-10.
	return time.Date(2024, 8, 8, 20, 20, 0, 0, time.UTC)
}

func newCalendarFixture(t *testing.T) (*CalendarService, *fakeGateway, *StateCache) {
	t.Helper()
	gateway := newFakeGateway()
	cache := NewStateCache()
	svc := NewCalendarService(cache, gateway, nil, nil)
	svc.now = fixedNow
	return svc, gateway, cache
}

func TestProjectCombinationExpandsMeetings(t *testing.T) {
	combination := []models.Section{
		{
			ClassNumber: "12345",
			CourseCode:  "MAC2311",
			CourseName:  "Calculus 1",
			Color:       "#aabbcc",
			MeetTimes: []models.MeetingTime{{
				MeetDays:      []string{"M", "W", "F"},
				MeetTimeBegin: "07:25",
				MeetTimeEnd:   "08:15",
			}},
		},
		{
			ClassNumber: "custom-1",
			CourseName:  "Gym",
			Color:       "#112233",
			MeetTimes: []models.MeetingTime{{
				MeetDays:      []string{"T"},
				MeetTimeBegin: "18:00",
				MeetTimeEnd:   "19:00",
			}},
		},
	}

	appointments := projectCombination(combination, fixedNow())
	require.Len(t, appointments, 4)

	assert.Equal(t, "2024-08-05T07:25", appointments[0].StartDate)
	assert.Equal(t, "2024-08-05T08:15", appointments[0].EndDate)
	assert.Equal(t, "MAC2311 - Section 12345", appointments[0].Title)
	assert.Equal(t, "#aabbcc", appointments[0].Color)
	assert.Equal(t, "2024-08-07T07:25", appointments[1].StartDate)
	assert.Equal(t, "2024-08-09T07:25", appointments[2].StartDate)

	// Custom appointments are titled by their own name.
	assert.Equal(t, "Gym", appointments[3].Title)
	assert.Equal(t, "2024-08-06T18:00", appointments[3].StartDate)
}

func TestProjectCombinationIsIdempotent(t *testing.T) {
	combination := []models.Section{{
		CourseCode:  "COP3502",
		ClassNumber: "22222",
		MeetTimes: []models.MeetingTime{{
			MeetDays:      []string{"M", "R"},
			MeetTimeBegin: "10:40",
			MeetTimeEnd:   "11:30",
		}},
	}}

	first := projectCombination(combination, fixedNow())
	second := projectCombination(combination, fixedNow())
	assert.Equal(t, first, second)
}

func TestProjectCombinationSkipsUnknownDays(t *testing.T) {
	combination := []models.Section{{
		CourseName: "Weekend thing",
		MeetTimes: []models.MeetingTime{{
			MeetDays:      []string{"S", "M"},
			MeetTimeBegin: "09:00",
			MeetTimeEnd:   "10:00",
		}},
	}}

	appointments := projectCombination(combination, fixedNow())
	require.Len(t, appointments, 1)
	assert.Equal(t, "2024-08-05T09:00", appointments[0].StartDate)
}

func TestCurrentRehydratesStoredSnapshot(t *testing.T) {
	svc, gateway, _ := newCalendarFixture(t)
	ctx := context.Background()

	// Snapshot persisted a week earlier; its dates are stale.
	stored := models.SelectedCalendar{
		Combination: []models.Section{{ClassNumber: "12345"}},
		Appointments: []models.Appointment{{
			StartDate: "2024-08-01T20:20:00Z",
			EndDate:   "2024-08-01T21:20:00Z",
			Title:     "MAC2311 - Section 12345",
		}},
	}
	require.NoError(t, gateway.SaveCalendar(ctx, "alice", stored))

	calendar, err := svc.Current(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, calendar.Appointments, 1)
	assert.Equal(t, "2024-08-08T20:20:00.000Z", calendar.Appointments[0].StartDate)
	assert.Equal(t, "2024-08-08T21:20:00.000Z", calendar.Appointments[0].EndDate)
	assert.Len(t, calendar.Combination, 1)
}

func TestCurrentRebuildsWhenSnapshotMissing(t *testing.T) {
	svc, gateway, _ := newCalendarFixture(t)
	ctx := context.Background()

	course := calculusCourse()
	course.Sections[0].Selected = true
	course.Sections[0].CourseCode = course.Code
	gateway.courses["alice"] = []models.Course{course}

	calendar, err := svc.Current(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, calendar.Combination, 1)
	assert.Len(t, calendar.Appointments, 3)

	// The rebuild also repopulated the snapshot.
	assert.NotEmpty(t, gateway.calendars["alice"])
}

func TestCurrentDiscardsMalformedSnapshot(t *testing.T) {
	svc, gateway, _ := newCalendarFixture(t)
	ctx := context.Background()

	// A snapshot whose combination decays to the string "null" must
	// yield an empty calendar, never an error.
	gateway.calendars["alice"] = []byte(`{"combination":"null","appointments":[]}`)

	calendar, err := svc.Current(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, calendar.Combination)
	assert.Empty(t, calendar.Appointments)

	// The bad snapshot was overwritten with the empty calendar.
	overwritten := gateway.storedCalendar(t, "alice")
	assert.Empty(t, overwritten.Combination)
}

func TestCurrentDiscardsSnapshotWithBadDates(t *testing.T) {
	svc, gateway, _ := newCalendarFixture(t)
	ctx := context.Background()

	gateway.calendars["alice"] = []byte(`{"combination":[],"appointments":[{"startDate":"whenever","endDate":"later","title":"x"}]}`)

	calendar, err := svc.Current(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, calendar.Appointments)
}

func TestCurrentDiscardsNonJSONSnapshot(t *testing.T) {
	svc, gateway, _ := newCalendarFixture(t)

	gateway.calendars["alice"] = []byte(`not json at all`)

	calendar, err := svc.Current(context.Background(), "alice")
	require.NoError(t, err)
	assert.Empty(t, calendar.Combination)
	assert.Empty(t, calendar.Appointments)
}

func TestRehydrateAcceptsNaiveProjectorDates(t *testing.T) {
	svc, _, _ := newCalendarFixture(t)

	raw := []byte(`{"combination":[],"appointments":[{"startDate":"2024-07-18T10:40","endDate":"2024-07-18T11:30","title":"COP3502 - Section 22222"}]}`)
	calendar, ok := svc.rehydrate(raw)
	require.True(t, ok)
	require.Len(t, calendar.Appointments, 1)

	// 2024-07-18 was a Thursday; it re-anchors onto this week's Thursday.
	assert.Equal(t, "2024-08-08T10:40:00.000Z", calendar.Appointments[0].StartDate)
}
