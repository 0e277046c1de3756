package models

// Appointment is a display-only, date-stamped projection of one weekly
// meeting occurrence. It is always regenerated from the combination and
// never hand-edited; dates are kept as strings because the projection
// re-stitches the clock-time component onto the current week verbatim.
type Appointment struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Title     string `json:"title"`
	Color     string `json:"color,omitempty"`
}

// SelectedCalendar is the persisted snapshot of the whole engine:
// the flattened list of selected sections plus custom appointments
// (the source of truth) and the materialized projection used for fast
// redraw. Appointments rot once the week rolls over, which is why the
// combination, not the appointment list, carries persistence identity.
type SelectedCalendar struct {
	Combination  []Section     `json:"combination"`
	Appointments []Appointment `json:"appointments"`
}
