package dto

// ToggleSectionRequest selects or deselects one section of a course.
type ToggleSectionRequest struct {
	CourseCode  string `json:"courseCode" validate:"required"`
	ClassNumber string `json:"classNumber" validate:"required"`
}

// CreditSummary reports the planner's credit total.
type CreditSummary struct {
	TotalCredits int `json:"totalCredits"`
}
