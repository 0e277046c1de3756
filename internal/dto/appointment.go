package dto

// CreateCustomAppointmentRequest is the appointment editor contract.
// Times arrive as 24-hour HH:MM strings from the form's time inputs.
// Name, at least one day, both times and a color are mandatory; an
// incomplete appointment never reaches the store.
type CreateCustomAppointmentRequest struct {
	Name          string   `json:"name" validate:"required"`
	MeetDays      []string `json:"meetDays" validate:"required,min=1,dive,oneof=M T W R F"`
	MeetTimeBegin string   `json:"meetTimeBegin" validate:"required,clock24"`
	MeetTimeEnd   string   `json:"meetTimeEnd" validate:"required,clock24"`
	Color         string   `json:"color" validate:"required,hexcolor"`
	MeetBuilding  string   `json:"meetBuilding"`
	MeetRoom      string   `json:"meetRoom"`
	Credits       int      `json:"credits" validate:"min=0"`
}
