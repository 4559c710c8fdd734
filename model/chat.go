package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChatSession struct {
	SessionID string    `gorm:"column:session_id;type:uuid;primaryKey" json:"id"`
	Title     string    `gorm:"column:title;type:varchar(255);not null" json:"title"`
	UserID    string    `gorm:"column:user_id;type:uuid;not null;index" json:"userId"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`

	// Relations
	User User `gorm:"foreignKey:UserID;references:UserID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE" json:"-"`
}

func (ChatSession) TableName() string {
	return "chat_sessions"
}

func (s *ChatSession) BeforeCreate(tx *gorm.DB) error {
	if s.SessionID == "" {
		s.SessionID = uuid.NewString()
	}
	return nil
}

// ChatMessage is one user message plus the assistant response.
type ChatMessage struct {
	MessageID string    `gorm:"column:message_id;type:uuid;primaryKey" json:"id"`
	SessionID string    `gorm:"column:session_id;type:uuid;not null;index" json:"sessionId"`
	UserID    string    `gorm:"column:user_id;type:uuid;not null;index" json:"userId"`
	Message   string    `gorm:"column:message;type:text;not null" json:"message"`
	Response  string    `gorm:"column:response;type:text;not null" json:"response"`
	PdfFileID *string   `gorm:"column:pdf_file_id;type:uuid" json:"pdfFileId"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`

	// Relations
	Session ChatSession `gorm:"foreignKey:SessionID;references:SessionID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE" json:"-"`
	User    User        `gorm:"foreignKey:UserID;references:UserID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE" json:"-"`
	PdfFile *Pdf        `gorm:"foreignKey:PdfFileID;references:PdfID;constraint:OnDelete:SET NULL,OnUpdate:CASCADE" json:"-"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}

func (m *ChatMessage) BeforeCreate(tx *gorm.DB) error {
	if m.MessageID == "" {
		m.MessageID = uuid.NewString()
	}
	return nil
}
