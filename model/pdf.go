package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Pdf struct {
	PdfID        string     `gorm:"column:pdf_id;type:uuid;primaryKey" json:"id"`
	FileName     string     `gorm:"column:file_name;type:varchar(200);not null" json:"fileName"`
	FilePath     string     `gorm:"column:file_path;type:varchar(500);not null" json:"-"`
	FileSize     int64      `gorm:"column:file_size;not null" json:"fileSize"`
	Description  string     `gorm:"column:description;type:text" json:"description,omitempty"`
	Tags         []string   `gorm:"column:tags;serializer:json" json:"tags"`
	CourseID     *string    `gorm:"column:course_id;type:uuid;index" json:"courseId"`
	UploadDate   time.Time  `gorm:"column:upload_date;autoCreateTime" json:"uploadDate"`
	LastAccessed *time.Time `gorm:"column:last_accessed" json:"lastAccessed"`

	// Relations. PDFs uploaded from the chat have no course.
	Course *Course `gorm:"foreignKey:CourseID;references:CourseID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE" json:"-"`
}

func (Pdf) TableName() string {
	return "pdfs"
}

func (p *Pdf) BeforeCreate(tx *gorm.DB) error {
	if p.PdfID == "" {
		p.PdfID = uuid.NewString()
	}
	return nil
}
