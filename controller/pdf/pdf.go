package pdf

import (
	"errors"
	"net/http"
	"time"

	"studymate/dto"
	"studymate/middleware"
	"studymate/model"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func PdfController(router *gin.Engine, db *gorm.DB) {
	routes := router.Group("/pdfs", middleware.AccessTokenMiddleware())
	{
		routes.POST("", func(c *gin.Context) {
			CreatePdf(c, db)
		})
		routes.GET("/course/:courseId", func(c *gin.Context) {
			ListPdfs(c, db)
		})
		routes.GET("/:id", func(c *gin.Context) {
			GetPdf(c, db)
		})
		routes.PATCH("/:id", func(c *gin.Context) {
			UpdatePdf(c, db)
		})
		routes.DELETE("/:id", func(c *gin.Context) {
			DeletePdf(c, db)
		})
	}
}

// courseOwner checks the course→subject→user chain.
func courseOwner(c *gin.Context, db *gorm.DB, courseID, userID string) bool {
	var course model.Course
	if err := db.Preload("Subject").Where("course_id = ?", courseID).First(&course).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Course not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch course"})
		}
		return false
	}
	if course.Subject.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have access to these PDFs"})
		return false
	}
	return true
}

func CreatePdf(c *gin.Context, db *gorm.DB) {
	userID := c.MustGet("userId").(string)

	var req dto.CreatePdfRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	// Chat uploads carry no course; organized uploads must belong to the caller.
	if req.CourseID != nil && !courseOwner(c, db, *req.CourseID, userID) {
		return
	}

	pdf := model.Pdf{
		FileName:    req.FileName,
		FilePath:    req.FilePath,
		FileSize:    req.FileSize,
		Description: req.Description,
		Tags:        req.Tags,
		CourseID:    req.CourseID,
	}
	if pdf.Tags == nil {
		pdf.Tags = []string{}
	}

	if err := db.Create(&pdf).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create PDF record"})
		return
	}

	c.JSON(http.StatusCreated, pdf)
}

func ListPdfs(c *gin.Context, db *gorm.DB) {
	userID := c.MustGet("userId").(string)
	courseID := c.Param("courseId")

	if !courseOwner(c, db, courseID, userID) {
		return
	}

	var pdfs []model.Pdf
	if err := db.Where("course_id = ?", courseID).Order("upload_date DESC").Find(&pdfs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch PDFs"})
		return
	}

	c.JSON(http.StatusOK, pdfs)
}

// findOwnedPdf loads a PDF and enforces ownership when it has a course.
func findOwnedPdf(c *gin.Context, db *gorm.DB, pdfID, userID string) (*model.Pdf, bool) {
	var pdf model.Pdf
	if err := db.Preload("Course.Subject").Where("pdf_id = ?", pdfID).First(&pdf).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "PDF not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch PDF"})
		}
		return nil, false
	}
	if pdf.Course != nil && pdf.Course.Subject.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not own this PDF"})
		return nil, false
	}
	return &pdf, true
}

func GetPdf(c *gin.Context, db *gorm.DB) {
	userID := c.MustGet("userId").(string)

	pdf, ok := findOwnedPdf(c, db, c.Param("id"), userID)
	if !ok {
		return
	}

	now := time.Now()
	if err := db.Model(pdf).Update("last_accessed", &now).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update PDF"})
		return
	}

	c.JSON(http.StatusOK, pdf)
}

func UpdatePdf(c *gin.Context, db *gorm.DB) {
	userID := c.MustGet("userId").(string)

	pdf, ok := findOwnedPdf(c, db, c.Param("id"), userID)
	if !ok {
		return
	}

	var req dto.UpdatePdfRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	updates := make(map[string]interface{})
	if req.FileName != nil {
		updates["file_name"] = *req.FileName
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Tags != nil {
		pdf.Tags = req.Tags
		if err := db.Save(pdf).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update PDF"})
			return
		}
	}
	if len(updates) > 0 {
		if err := db.Model(pdf).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update PDF"})
			return
		}
	}
	if len(updates) == 0 && req.Tags == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No fields to update"})
		return
	}

	c.JSON(http.StatusOK, pdf)
}

func DeletePdf(c *gin.Context, db *gorm.DB) {
	userID := c.MustGet("userId").(string)

	pdf, ok := findOwnedPdf(c, db, c.Param("id"), userID)
	if !ok {
		return
	}

	if err := db.Delete(pdf).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete PDF"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
