package models

// Instructor identifies who teaches a section.
type Instructor struct {
	Name          string  `json:"name"`
	AvgRating     float64 `json:"avgRating,omitempty"`
	AvgDifficulty float64 `json:"avgDifficulty,omitempty"`
	ProfessorID   int     `json:"professorID,omitempty"`
}

// MeetingTime is a recurring weekly time block belonging to a section.
// Begin and end times are 24-hour HH:MM strings; meet days are letter
// codes M T W R F (no weekend meetings in the catalog).
type MeetingTime struct {
	MeetDays         []string `json:"meetDays"`
	MeetTimeBegin    string   `json:"meetTimeBegin"`
	MeetTimeEnd      string   `json:"meetTimeEnd"`
	MeetBuilding     string   `json:"meetBuilding"`
	MeetBuildingCode string   `json:"meetBldgCode"`
	MeetRoom         string   `json:"meetRoom"`
}

// Waitlist carries catalog waitlist occupancy for a section.
type Waitlist struct {
	Cap   int `json:"cap"`
	Total int `json:"total"`
}

// Section is one specific offering of a course. Custom appointments share
// this shape with catalog-only fields left empty and a synthetic
// ClassNumber assigned at creation.
type Section struct {
	ClassNumber string        `json:"classNumber"`
	Display     string        `json:"display"`
	Credits     int           `json:"credits"`
	Department  string        `json:"deptName"`
	Instructors []Instructor  `json:"instructors"`
	MeetTimes   []MeetingTime `json:"meetTimes"`
	FinalExam   string        `json:"finalExam"`
	Selected    bool          `json:"selected"`
	CourseCode  string        `json:"courseCode"`
	CourseName  string        `json:"courseName"`
	Color       string        `json:"color"`
	Waitlist    Waitlist      `json:"waitList"`
}

// Course is a catalog entry identified by code+name. At most one section
// carries Selected=true at any time.
type Course struct {
	Code          string    `json:"code"`
	Name          string    `json:"name"`
	TermIndicator string    `json:"termInd"`
	Description   string    `json:"description"`
	Prerequisites string    `json:"prerequisites"`
	Sections      []Section `json:"sections"`
}

// Identity returns the registry-free identity the display color is
// hashed from.
func (c Course) Identity() string {
	return c.Code + c.Name
}

// SelectedSection returns the active section, or nil when the course has
// no selection.
func (c *Course) SelectedSection() *Section {
	for i := range c.Sections {
		if c.Sections[i].Selected {
			return &c.Sections[i]
		}
	}
	return nil
}
