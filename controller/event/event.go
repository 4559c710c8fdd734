package event

import (
	"errors"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"studymate/dto"
	"studymate/middleware"
	"studymate/model"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var dateFormat = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

func EventController(router *gin.Engine, db *gorm.DB) {
	routes := router.Group("/events", middleware.AccessTokenMiddleware())
	{
		routes.POST("", func(c *gin.Context) {
			CreateEvent(c, db)
		})
		routes.GET("", func(c *gin.Context) {
			ListEvents(c, db)
		})
		// Specific routes before /:id
		routes.GET("/upcoming", func(c *gin.Context) {
			UpcomingEvents(c, db)
		})
		routes.GET("/range", func(c *gin.Context) {
			EventsInRange(c, db)
		})
		routes.GET("/:id", func(c *gin.Context) {
			GetEvent(c, db)
		})
		routes.PATCH("/:id", func(c *gin.Context) {
			UpdateEvent(c, db)
		})
		routes.DELETE("/:id", func(c *gin.Context) {
			DeleteEvent(c, db)
		})
	}
}

// validDate accepts YYYY-MM-DD and nothing else.
func validDate(date string) bool {
	if !dateFormat.MatchString(date) {
		return false
	}
	_, err := time.Parse("2006-01-02", date)
	return err == nil
}

func daysUntil(date string) int {
	eventDate, err := time.Parse("2006-01-02", date)
	if err != nil {
		return 0
	}
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return int(eventDate.Sub(today).Hours() / 24)
}

// formatEvent shapes an event for responses: embedded subject snapshot
// plus daysUntil / isPast.
func formatEvent(event model.Event) gin.H {
	days := daysUntil(event.Date)
	return gin.H{
		"id":          event.EventID,
		"title":       event.Title,
		"type":        event.Type,
		"date":        event.Date,
		"description": event.Description,
		"subject": gin.H{
			"id":    event.Subject.SubjectID,
			"name":  event.Subject.Name,
			"color": event.Subject.Color,
		},
		"daysUntil": days,
		"isPast":    days < 0,
		"createdAt": event.CreatedAt,
		"updatedAt": event.UpdatedAt,
	}
}

func formatEvents(events []model.Event) []gin.H {
	out := make([]gin.H, 0, len(events))
	for _, e := range events {
		out = append(out, formatEvent(e))
	}
	return out
}

// checkSubjectOwner verifies the subject exists and belongs to the caller.
func checkSubjectOwner(c *gin.Context, db *gorm.DB, subjectID, userID string) bool {
	var subject model.Subject
	if err := db.Where("subject_id = ? AND user_id = ?", subjectID, userID).First(&subject).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Subject not found or does not belong to you"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch subject"})
		}
		return false
	}
	return true
}

func CreateEvent(c *gin.Context, db *gorm.DB) {
	userID := c.MustGet("userId").(string)

	var req dto.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	if !model.ValidEventType(req.Type) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event type"})
		return
	}
	if !validDate(req.Date) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format, use YYYY-MM-DD"})
		return
	}
	if !checkSubjectOwner(c, db, req.SubjectID, userID) {
		return
	}

	event := model.Event{
		Title:       req.Title,
		Type:        model.EventType(req.Type),
		Date:        req.Date,
		Description: req.Description,
		SubjectID:   req.SubjectID,
		UserID:      userID,
	}
	if err := db.Create(&event).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create event"})
		return
	}

	if err := db.Preload("Subject").First(&event, "event_id = ?", event.EventID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch event"})
		return
	}

	c.JSON(http.StatusCreated, formatEvent(event))
}

func ListEvents(c *gin.Context, db *gorm.DB) {
	userID := c.MustGet("userId").(string)

	var filters dto.EventFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid filters"})
		return
	}

	query := db.Preload("Subject").Where("user_id = ?", userID)
	if filters.Type != "" {
		query = query.Where("type = ?", filters.Type)
	}
	if filters.SubjectID != "" {
		query = query.Where("subject_id = ?", filters.SubjectID)
	}
	if filters.Date != "" {
		query = query.Where("date = ?", filters.Date)
	}
	if filters.From != "" && filters.To != "" {
		query = query.Where("date BETWEEN ? AND ?", filters.From, filters.To)
	}
	if filters.Upcoming {
		query = query.Where("date >= ?", time.Now().Format("2006-01-02"))
	}
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}

	var events []model.Event
	if err := query.Order("date ASC").Find(&events).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch events"})
		return
	}

	c.JSON(http.StatusOK, formatEvents(events))
}

func UpcomingEvents(c *gin.Context, db *gorm.DB) {
	userID := c.MustGet("userId").(string)

	days := 7
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid days parameter"})
			return
		}
		days = parsed
	}

	now := time.Now()
	from := now.Format("2006-01-02")
	to := now.AddDate(0, 0, days).Format("2006-01-02")

	var events []model.Event
	if err := db.Preload("Subject").
		Where("user_id = ? AND date BETWEEN ? AND ?", userID, from, to).
		Order("date ASC").
		Find(&events).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch events"})
		return
	}

	c.JSON(http.StatusOK, formatEvents(events))
}

func EventsInRange(c *gin.Context, db *gorm.DB) {
	userID := c.MustGet("userId").(string)

	from := c.Query("from")
	to := c.Query("to")
	if !validDate(from) || !validDate(to) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format, use YYYY-MM-DD"})
		return
	}
	if from > to {
		c.JSON(http.StatusBadRequest, gin.H{"error": "\"from\" date must be before \"to\" date"})
		return
	}

	var events []model.Event
	if err := db.Preload("Subject").
		Where("user_id = ? AND date BETWEEN ? AND ?", userID, from, to).
		Order("date ASC").
		Find(&events).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch events"})
		return
	}

	c.JSON(http.StatusOK, formatEvents(events))
}

func findOwnedEvent(c *gin.Context, db *gorm.DB, eventID, userID string) (*model.Event, bool) {
	var event model.Event
	if err := db.Preload("Subject").Where("event_id = ? AND user_id = ?", eventID, userID).First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch event"})
		}
		return nil, false
	}
	return &event, true
}

func GetEvent(c *gin.Context, db *gorm.DB) {
	userID := c.MustGet("userId").(string)

	event, ok := findOwnedEvent(c, db, c.Param("id"), userID)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, formatEvent(*event))
}

func UpdateEvent(c *gin.Context, db *gorm.DB) {
	userID := c.MustGet("userId").(string)

	event, ok := findOwnedEvent(c, db, c.Param("id"), userID)
	if !ok {
		return
	}

	var req dto.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	updates := make(map[string]interface{})
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Type != nil {
		if !model.ValidEventType(*req.Type) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event type"})
			return
		}
		updates["type"] = *req.Type
	}
	if req.Date != nil {
		if !validDate(*req.Date) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format, use YYYY-MM-DD"})
			return
		}
		updates["date"] = *req.Date
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.SubjectID != nil && *req.SubjectID != event.SubjectID {
		if !checkSubjectOwner(c, db, *req.SubjectID, userID) {
			return
		}
		updates["subject_id"] = *req.SubjectID
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No fields to update"})
		return
	}

	if err := db.Model(event).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update event"})
		return
	}

	if err := db.Preload("Subject").First(event, "event_id = ?", event.EventID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch event"})
		return
	}

	c.JSON(http.StatusOK, formatEvent(*event))
}

func DeleteEvent(c *gin.Context, db *gorm.DB) {
	userID := c.MustGet("userId").(string)

	event, ok := findOwnedEvent(c, db, c.Param("id"), userID)
	if !ok {
		return
	}

	if err := db.Delete(event).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete event"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Event deleted successfully"})
}
