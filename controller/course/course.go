package course

import (
	"errors"
	"net/http"

	"studymate/dto"
	"studymate/middleware"
	"studymate/model"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func CourseController(router *gin.Engine, db *gorm.DB) {
	routes := router.Group("/courses", middleware.AccessTokenMiddleware())
	{
		routes.POST("", func(c *gin.Context) {
			CreateCourse(c, db)
		})
		routes.GET("/:subjectId", func(c *gin.Context) {
			ListCourses(c, db)
		})
		routes.PATCH("/:id", func(c *gin.Context) {
			UpdateCourse(c, db)
		})
		routes.DELETE("/:id", func(c *gin.Context) {
			DeleteCourse(c, db)
		})
	}
}

// checkSubjectOwner verifies the subject exists and belongs to the caller.
func checkSubjectOwner(c *gin.Context, db *gorm.DB, subjectID, userID string) bool {
	var subject model.Subject
	if err := db.Where("subject_id = ?", subjectID).First(&subject).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Subject not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch subject"})
		}
		return false
	}
	if subject.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have access to this subject"})
		return false
	}
	return true
}

func CreateCourse(c *gin.Context, db *gorm.DB) {
	userID := c.MustGet("userId").(string)

	var req dto.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	if !checkSubjectOwner(c, db, req.SubjectID, userID) {
		return
	}

	course := model.Course{
		Name:        req.Name,
		Description: req.Description,
		OrderNumber: req.OrderNumber,
		SubjectID:   req.SubjectID,
	}
	if err := db.Create(&course).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create course"})
		return
	}

	c.JSON(http.StatusCreated, course)
}

func ListCourses(c *gin.Context, db *gorm.DB) {
	userID := c.MustGet("userId").(string)
	subjectID := c.Param("subjectId")

	if !checkSubjectOwner(c, db, subjectID, userID) {
		return
	}

	var courses []model.Course
	if err := db.Where("subject_id = ?", subjectID).
		Order("order_number ASC, created_at DESC").
		Find(&courses).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch courses"})
		return
	}

	c.JSON(http.StatusOK, courses)
}

// findOwnedCourse loads a course with its subject and enforces ownership
// through the subject chain.
func findOwnedCourse(c *gin.Context, db *gorm.DB, courseID, userID string) (*model.Course, bool) {
	var course model.Course
	if err := db.Preload("Subject").Where("course_id = ?", courseID).First(&course).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Course not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch course"})
		}
		return nil, false
	}
	if course.Subject.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have access to this course"})
		return nil, false
	}
	return &course, true
}

func UpdateCourse(c *gin.Context, db *gorm.DB) {
	userID := c.MustGet("userId").(string)

	course, ok := findOwnedCourse(c, db, c.Param("id"), userID)
	if !ok {
		return
	}

	var req dto.UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.OrderNumber != nil {
		updates["order_number"] = *req.OrderNumber
	}
	if req.SubjectID != nil && *req.SubjectID != course.SubjectID {
		if !checkSubjectOwner(c, db, *req.SubjectID, userID) {
			return
		}
		updates["subject_id"] = *req.SubjectID
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No fields to update"})
		return
	}

	if err := db.Model(course).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update course"})
		return
	}

	c.JSON(http.StatusOK, course)
}

func DeleteCourse(c *gin.Context, db *gorm.DB) {
	userID := c.MustGet("userId").(string)

	course, ok := findOwnedCourse(c, db, c.Param("id"), userID)
	if !ok {
		return
	}

	if err := db.Delete(course).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete course"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
