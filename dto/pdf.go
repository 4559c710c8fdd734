package dto

type CreatePdfRequest struct {
	FileName    string   `json:"fileName" binding:"required"`
	FilePath    string   `json:"filePath" binding:"required"`
	FileSize    int64    `json:"fileSize" binding:"required,min=1"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	CourseID    *string  `json:"courseId" binding:"omitempty,uuid"`
}

type UpdatePdfRequest struct {
	FileName    *string  `json:"fileName"`
	Description *string  `json:"description"`
	Tags        []string `json:"tags"`
}
