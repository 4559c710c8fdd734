package dto

type ChatMessageRequest struct {
	Message   string  `json:"message" binding:"required"`
	SessionID *string `json:"sessionId" binding:"omitempty,uuid"`
	PdfFileID *string `json:"pdfFileId" binding:"omitempty,uuid"`
}

type CreateSessionRequest struct {
	Title string `json:"title"`
}

type RenameSessionRequest struct {
	Title string `json:"title" binding:"required,max=255"`
}
