package dto

type CreateCourseRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	OrderNumber int    `json:"orderNumber"`
	SubjectID   string `json:"subjectId" binding:"required,uuid"`
}

type UpdateCourseRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	OrderNumber *int    `json:"orderNumber"`
	SubjectID   *string `json:"subjectId" binding:"omitempty,uuid"`
}
