package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gator-scheduler/schedule-api/internal/models"
)

func newExportFixture(t *testing.T) (*ExportService, *fakeGateway) {
	t.Helper()
	gateway := newFakeGateway()
	cache := NewStateCache()
	svc := NewExportService(cache, gateway, nil)
	svc.now = fixedNow
	return svc, gateway
}

func seedExportState(gateway *fakeGateway) {
	course := calculusCourse()
	course.Sections[0].Selected = true
	course.Sections[0].CourseCode = course.Code
	course.Sections[0].CourseName = course.Name
	gateway.courses["alice"] = []models.Course{course}
	gateway.customs["alice"] = []models.Section{{
		ClassNumber: "custom-1",
		CourseName:  "Gym",
		Color:       "#112233",
		MeetTimes: []models.MeetingTime{{
			MeetDays:      []string{"T"},
			MeetTimeBegin: "18:00",
			MeetTimeEnd:   "19:00",
		}},
	}}
}

func TestExportICS(t *testing.T) {
	svc, gateway := newExportFixture(t)
	seedExportState(gateway)

	payload, err := svc.ICS(context.Background(), "alice")
	require.NoError(t, err)

	body := string(payload)
	assert.Contains(t, body, "BEGIN:VCALENDAR")
	assert.Contains(t, body, "SUMMARY:MAC2311 - Section 12345")
	assert.Contains(t, body, "SUMMARY:Gym")
	assert.Contains(t, body, "FREQ=WEEKLY")
	assert.Contains(t, body, "MO")
	assert.Contains(t, body, "LOCATION:LIT 101")
	// Monday 2024-08-05 07:25 anchors the calculus recurrence.
	assert.Contains(t, body, "DTSTART:20240805T072500Z")
}

func TestExportCSV(t *testing.T) {
	svc, gateway := newExportFixture(t)
	seedExportState(gateway)

	payload, err := svc.CSV(context.Background(), "alice")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(payload)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Title,Days,Begin,End,Building,Room,Credits", lines[0])
	assert.Contains(t, lines[1], "MAC2311 - Section 12345")
	assert.Contains(t, lines[1], "MWF")
	assert.Contains(t, lines[1], "07:25 AM")
	assert.Contains(t, lines[2], "Gym")
	assert.Contains(t, lines[2], "06:00 PM")
}

func TestExportPDF(t *testing.T) {
	svc, gateway := newExportFixture(t)
	seedExportState(gateway)

	payload, err := svc.PDF(context.Background(), "alice")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(payload), "%PDF"))
}

func TestExportEmptyPlanner(t *testing.T) {
	svc, _ := newExportFixture(t)

	payload, err := svc.ICS(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Contains(t, string(payload), "BEGIN:VCALENDAR")

	csvPayload, err := svc.CSV(context.Background(), "nobody")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(csvPayload)), "\n")
	assert.Len(t, lines, 1)
}
