package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"
	"go.uber.org/zap"

	"github.com/gator-scheduler/schedule-api/internal/meetingtime"
	"github.com/gator-scheduler/schedule-api/internal/models"
	"github.com/gator-scheduler/schedule-api/pkg/export"
)

var rruleWeekdays = map[string]rrule.Weekday{
	"M": rrule.MO,
	"T": rrule.TU,
	"W": rrule.WE,
	"R": rrule.TH,
	"F": rrule.FR,
}

// ExportService renders the planner's combination into downloadable
// formats. Exports read the same flattened combination the calendar
// projects; they never consult the materialized appointment list.
type ExportService struct {
	cache   *StateCache
	gateway snapshotGateway
	csv     *export.CSVExporter
	pdf     *export.PDFExporter
	logger  *zap.Logger
	now     func() time.Time
}

// NewExportService constructs the exporter.
func NewExportService(cache *StateCache, gateway snapshotGateway, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		cache:   cache,
		gateway: gateway,
		csv:     export.NewCSVExporter(),
		pdf:     export.NewPDFExporter(),
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// ICS renders the combination as an iCalendar feed with one weekly
// recurring VEVENT per meeting time block.
func (s *ExportService) ICS(ctx context.Context, plannerID string) ([]byte, error) {
	combination, err := s.combination(ctx, plannerID)
	if err != nil {
		return nil, err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//Gator Scheduler//Schedule API//EN")

	now := s.now()
	for si, section := range combination {
		title := sectionTitle(section)
		for mi, mt := range section.MeetTimes {
			start, end, ok := firstOccurrence(mt, now)
			if !ok {
				continue
			}

			days := make([]rrule.Weekday, 0, len(mt.MeetDays))
			for _, letter := range mt.MeetDays {
				if wd, known := rruleWeekdays[letter]; known {
					days = append(days, wd)
				}
			}
			rule, err := rrule.NewRRule(rrule.ROption{Freq: rrule.WEEKLY, Byweekday: days})
			if err != nil {
				return nil, fmt.Errorf("build recurrence for %s: %w", title, err)
			}

			event := cal.AddEvent(fmt.Sprintf("%s-%d-%d@gator-scheduler", section.ClassNumber, si, mi))
			event.SetCreatedTime(now)
			event.SetDtStampTime(now)
			event.SetStartAt(start)
			event.SetEndAt(end)
			event.SetSummary(title)
			if location := meetingLocation(mt); location != "" {
				event.SetLocation(location)
			}
			event.AddRrule(rule.String())
		}
	}

	return []byte(cal.Serialize()), nil
}

// CSV renders the combination as a flat schedule table.
func (s *ExportService) CSV(ctx context.Context, plannerID string) ([]byte, error) {
	combination, err := s.combination(ctx, plannerID)
	if err != nil {
		return nil, err
	}
	return s.csv.Render(scheduleDataset(combination))
}

// PDF renders the combination as a printable schedule table.
func (s *ExportService) PDF(ctx context.Context, plannerID string) ([]byte, error) {
	combination, err := s.combination(ctx, plannerID)
	if err != nil {
		return nil, err
	}
	return s.pdf.Render(scheduleDataset(combination), "Weekly Class Schedule")
}

func (s *ExportService) combination(ctx context.Context, plannerID string) ([]models.Section, error) {
	var combination []models.Section
	// Rendering happens outside the cache lock, so detach the sections.
	err := s.cache.With(ctx, plannerID, s.gateway, func(st *plannerState) error {
		combination = cloneSections(buildCombination(st))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return combination, nil
}

func sectionTitle(section models.Section) string {
	if section.CourseCode != "" {
		return fmt.Sprintf("%s - Section %s", section.CourseCode, section.ClassNumber)
	}
	return section.CourseName
}

func meetingLocation(mt models.MeetingTime) string {
	parts := make([]string, 0, 2)
	if mt.MeetBuilding != "" {
		parts = append(parts, mt.MeetBuilding)
	}
	if mt.MeetRoom != "" {
		parts = append(parts, mt.MeetRoom)
	}
	return strings.Join(parts, " ")
}

// firstOccurrence finds the earliest dated start/end pair for a meeting
// time inside the week containing now, which anchors the recurrence.
func firstOccurrence(mt models.MeetingTime, now time.Time) (time.Time, time.Time, bool) {
	dates := make([]string, 0, len(mt.MeetDays))
	for _, letter := range mt.MeetDays {
		if date, ok := meetingtime.DateFor(now, letter); ok {
			dates = append(dates, date)
		}
	}
	if len(dates) == 0 {
		return time.Time{}, time.Time{}, false
	}
	sort.Strings(dates)

	start, err := meetingtime.ParseInstant(dates[0] + "T" + mt.MeetTimeBegin)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	end, err := meetingtime.ParseInstant(dates[0] + "T" + mt.MeetTimeEnd)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	return start.UTC(), end.UTC(), true
}

func scheduleDataset(combination []models.Section) export.Dataset {
	headers := []string{"Title", "Days", "Begin", "End", "Building", "Room", "Credits"}
	rows := make([]map[string]string, 0, len(combination))
	for _, section := range combination {
		for _, mt := range section.MeetTimes {
			rows = append(rows, map[string]string{
				"Title":    sectionTitle(section),
				"Days":     strings.Join(mt.MeetDays, ""),
				"Begin":    meetingtime.To12Hour(mt.MeetTimeBegin),
				"End":      meetingtime.To12Hour(mt.MeetTimeEnd),
				"Building": mt.MeetBuilding,
				"Room":     mt.MeetRoom,
				"Credits":  fmt.Sprintf("%d", section.Credits),
			})
		}
	}
	return export.Dataset{Headers: headers, Rows: rows}
}
