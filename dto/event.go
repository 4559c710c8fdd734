package dto

type CreateEventRequest struct {
	Title       string `json:"title" binding:"required,max=255"`
	Type        string `json:"type" binding:"required"`
	Date        string `json:"date" binding:"required"` // YYYY-MM-DD
	Description string `json:"description"`
	SubjectID   string `json:"subjectId" binding:"required,uuid"`
}

type UpdateEventRequest struct {
	Title       *string `json:"title"`
	Type        *string `json:"type"`
	Date        *string `json:"date"`
	Description *string `json:"description"`
	SubjectID   *string `json:"subjectId" binding:"omitempty,uuid"`
}

type EventFilters struct {
	Type      string `form:"type"`
	Date      string `form:"date"`
	SubjectID string `form:"subjectId"`
	From      string `form:"from"`
	To        string `form:"to"`
	Upcoming  bool   `form:"upcoming"`
	Limit     int    `form:"limit"`
}
