package dto

type CreateSubjectRequest struct {
	Name      string `json:"name" binding:"required"`
	Color     string `json:"color"`
	Semester  string `json:"semester"`
	Professor string `json:"professor"`
}

type UpdateSubjectRequest struct {
	Name      *string `json:"name"`
	Color     *string `json:"color"`
	Semester  *string `json:"semester"`
	Professor *string `json:"professor"`
}
