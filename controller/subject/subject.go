package subject

import (
	"errors"
	"net/http"

	"studymate/dto"
	"studymate/middleware"
	"studymate/model"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func SubjectController(router *gin.Engine, db *gorm.DB) {
	routes := router.Group("/subjects", middleware.AccessTokenMiddleware())
	{
		routes.POST("", func(c *gin.Context) {
			CreateSubject(c, db)
		})
		routes.GET("", func(c *gin.Context) {
			ListSubjects(c, db)
		})
		routes.PATCH("/:id", func(c *gin.Context) {
			UpdateSubject(c, db)
		})
		routes.DELETE("/:id", func(c *gin.Context) {
			DeleteSubject(c, db)
		})
	}
}

func CreateSubject(c *gin.Context, db *gorm.DB) {
	userID := c.MustGet("userId").(string)

	var req dto.CreateSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	subject := model.Subject{
		Name:      req.Name,
		Color:     req.Color,
		Semester:  req.Semester,
		Professor: req.Professor,
		UserID:    userID,
	}
	if subject.Color == "" {
		subject.Color = "#3498db"
	}

	if err := db.Create(&subject).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create subject"})
		return
	}

	c.JSON(http.StatusCreated, subject)
}

func ListSubjects(c *gin.Context, db *gorm.DB) {
	userID := c.MustGet("userId").(string)

	var subjects []model.Subject
	if err := db.Where("user_id = ?", userID).Order("created_at DESC").Find(&subjects).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch subjects"})
		return
	}

	c.JSON(http.StatusOK, subjects)
}

// findOwnedSubject loads a subject and enforces ownership.
func findOwnedSubject(c *gin.Context, db *gorm.DB, subjectID, userID string) (*model.Subject, bool) {
	var subject model.Subject
	if err := db.Where("subject_id = ?", subjectID).First(&subject).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Subject not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch subject"})
		}
		return nil, false
	}
	if subject.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not own this subject"})
		return nil, false
	}
	return &subject, true
}

func UpdateSubject(c *gin.Context, db *gorm.DB) {
	userID := c.MustGet("userId").(string)

	subject, ok := findOwnedSubject(c, db, c.Param("id"), userID)
	if !ok {
		return
	}

	var req dto.UpdateSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Color != nil {
		updates["color"] = *req.Color
	}
	if req.Semester != nil {
		updates["semester"] = *req.Semester
	}
	if req.Professor != nil {
		updates["professor"] = *req.Professor
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No fields to update"})
		return
	}

	if err := db.Model(subject).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update subject"})
		return
	}

	c.JSON(http.StatusOK, subject)
}

func DeleteSubject(c *gin.Context, db *gorm.DB) {
	userID := c.MustGet("userId").(string)

	subject, ok := findOwnedSubject(c, db, c.Param("id"), userID)
	if !ok {
		return
	}

	if err := db.Delete(subject).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete subject"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
