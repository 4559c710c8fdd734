package dashboard

import (
	"net/http"
	"strconv"
	"time"

	"studymate/middleware"
	"studymate/model"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func DashboardController(router *gin.Engine, db *gorm.DB) {
	routes := router.Group("/dashboard", middleware.AccessTokenMiddleware())
	{
		routes.GET("", func(c *gin.Context) {
			GetDashboard(c, db)
		})
		routes.GET("/overview", func(c *gin.Context) {
			GetOverview(c, db)
		})
		routes.GET("/upcoming", func(c *gin.Context) {
			GetUpcoming(c, db)
		})
	}
}

// overviewCounts aggregates per-user totals. Courses and PDFs hang off
// the subject chain rather than carrying their own user_id.
func overviewCounts(db *gorm.DB, userID string) gin.H {
	var subjects, courses, pdfs, chatMessages, events, unread int64

	db.Model(&model.Subject{}).Where("user_id = ?", userID).Count(&subjects)
	db.Model(&model.Course{}).
		Joins("JOIN subjects ON subjects.subject_id = courses.subject_id").
		Where("subjects.user_id = ?", userID).
		Count(&courses)
	db.Model(&model.Pdf{}).
		Joins("JOIN courses ON courses.course_id = pdfs.course_id").
		Joins("JOIN subjects ON subjects.subject_id = courses.subject_id").
		Where("subjects.user_id = ?", userID).
		Count(&pdfs)
	db.Model(&model.ChatMessage{}).Where("user_id = ?", userID).Count(&chatMessages)
	db.Model(&model.Event{}).Where("user_id = ?", userID).Count(&events)
	db.Model(&model.Notification{}).Where("user_id = ? AND is_read = ?", userID, false).Count(&unread)

	return gin.H{
		"subjects":            subjects,
		"courses":             courses,
		"pdfs":                pdfs,
		"chatMessages":        chatMessages,
		"events":              events,
		"unreadNotifications": unread,
	}
}

func upcomingEvents(db *gorm.DB, userID string, days int) ([]model.Event, error) {
	now := time.Now()
	from := now.Format("2006-01-02")
	to := now.AddDate(0, 0, days).Format("2006-01-02")

	var events []model.Event
	err := db.Preload("Subject").
		Where("user_id = ? AND date >= ? AND date <= ?", userID, from, to).
		Order("date ASC").
		Find(&events).Error
	return events, err
}

func formatUpcoming(events []model.Event) []gin.H {
	today, _ := time.Parse("2006-01-02", time.Now().Format("2006-01-02"))
	out := make([]gin.H, 0, len(events))
	for _, e := range events {
		days := 0
		if d, err := time.Parse("2006-01-02", e.Date); err == nil {
			days = int(d.Sub(today).Hours() / 24)
		}
		out = append(out, gin.H{
			"id":    e.EventID,
			"title": e.Title,
			"type":  e.Type,
			"date":  e.Date,
			"subject": gin.H{
				"id":    e.Subject.SubjectID,
				"name":  e.Subject.Name,
				"color": e.Subject.Color,
			},
			"daysUntil": days,
		})
	}
	return out
}

func GetDashboard(c *gin.Context, db *gorm.DB) {
	userID := c.MustGet("userId").(string)

	events, err := upcomingEvents(db, userID, 7)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch dashboard"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"overview":       overviewCounts(db, userID),
		"upcomingEvents": formatUpcoming(events),
	})
}

func GetOverview(c *gin.Context, db *gorm.DB) {
	userID := c.MustGet("userId").(string)
	c.JSON(http.StatusOK, overviewCounts(db, userID))
}

func GetUpcoming(c *gin.Context, db *gorm.DB) {
	userID := c.MustGet("userId").(string)

	days := 7
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 365 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid days parameter"})
			return
		}
		days = parsed
	}

	events, err := upcomingEvents(db, userID, days)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch upcoming events"})
		return
	}

	c.JSON(http.StatusOK, formatUpcoming(events))
}
