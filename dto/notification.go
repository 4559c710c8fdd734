package dto

type CreateNotificationRequest struct {
	Title   string  `json:"title" binding:"required,max=255"`
	Message string  `json:"message" binding:"required"`
	Type    string  `json:"type" binding:"required"`
	EventID *string `json:"eventId" binding:"omitempty,uuid"`
}

type NotificationFilters struct {
	UnreadOnly bool   `form:"unreadOnly"`
	Type       string `form:"type"`
	Limit      int    `form:"limit"`
}
