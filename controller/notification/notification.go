package notification

import (
	"errors"
	"net/http"

	"studymate/dto"
	"studymate/middleware"
	"studymate/model"
	"studymate/realtime"
	"studymate/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func NotificationController(router *gin.Engine, db *gorm.DB, hub *realtime.Hub) {
	routes := router.Group("/notifications", middleware.AccessTokenMiddleware())
	{
		routes.POST("", func(c *gin.Context) {
			CreateNotification(c, db, hub)
		})
		routes.GET("", func(c *gin.Context) {
			ListNotifications(c, db)
		})
		routes.GET("/unread-count", func(c *gin.Context) {
			UnreadCount(c, db)
		})
		routes.PATCH("/read-all", func(c *gin.Context) {
			MarkAllAsRead(c, db)
		})
		routes.PATCH("/:id/read", func(c *gin.Context) {
			MarkAsRead(c, db)
		})
		routes.DELETE("/:id", func(c *gin.Context) {
			DeleteNotification(c, db)
		})
		routes.DELETE("", func(c *gin.Context) {
			ClearNotifications(c, db)
		})
	}
}

func CreateNotification(c *gin.Context, db *gorm.DB, hub *realtime.Hub) {
	userID := c.MustGet("userId").(string)

	var req dto.CreateNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	if !model.ValidNotificationType(req.Type) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notification type"})
		return
	}

	var event *model.Event
	if req.EventID != nil {
		var found model.Event
		if err := db.Preload("Subject").
			Where("event_id = ? AND user_id = ?", *req.EventID, userID).
			First(&found).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Event not found or does not belong to this user"})
			return
		}
		event = &found
	}

	notification := model.Notification{
		Title:   req.Title,
		Message: req.Message,
		Type:    model.NotificationType(req.Type),
		UserID:  userID,
		EventID: req.EventID,
	}
	if err := db.Create(&notification).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create notification"})
		return
	}

	hub.EmitToUser(userID, "notification:new", services.NotificationPayload(notification, event))

	c.JSON(http.StatusCreated, notification)
}

func ListNotifications(c *gin.Context, db *gorm.DB) {
	userID := c.MustGet("userId").(string)

	var filters dto.NotificationFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid filters"})
		return
	}

	query := db.Preload("Event.Subject").Where("user_id = ?", userID)
	if filters.UnreadOnly {
		query = query.Where("is_read = ?", false)
	}
	if filters.Type != "" {
		query = query.Where("type = ?", filters.Type)
	}
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}

	var notifications []model.Notification
	if err := query.Order("created_at DESC").Find(&notifications).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch notifications"})
		return
	}

	c.JSON(http.StatusOK, notifications)
}

func UnreadCount(c *gin.Context, db *gorm.DB) {
	userID := c.MustGet("userId").(string)

	var count int64
	if err := db.Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}

// findOwnedNotification loads a notification and enforces ownership.
func findOwnedNotification(c *gin.Context, db *gorm.DB, notificationID, userID string) (*model.Notification, bool) {
	var notification model.Notification
	if err := db.Where("notification_id = ?", notificationID).First(&notification).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch notification"})
		}
		return nil, false
	}
	if notification.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not own this notification"})
		return nil, false
	}
	return &notification, true
}

func MarkAsRead(c *gin.Context, db *gorm.DB) {
	userID := c.MustGet("userId").(string)

	notification, ok := findOwnedNotification(c, db, c.Param("id"), userID)
	if !ok {
		return
	}

	if err := db.Model(notification).Update("is_read", true).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notification"})
		return
	}

	c.JSON(http.StatusOK, notification)
}

func MarkAllAsRead(c *gin.Context, db *gorm.DB) {
	userID := c.MustGet("userId").(string)

	if err := db.Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "All notifications marked as read"})
}

func DeleteNotification(c *gin.Context, db *gorm.DB) {
	userID := c.MustGet("userId").(string)

	notification, ok := findOwnedNotification(c, db, c.Param("id"), userID)
	if !ok {
		return
	}

	if err := db.Delete(notification).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete notification"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification deleted successfully"})
}

func ClearNotifications(c *gin.Context, db *gorm.DB) {
	userID := c.MustGet("userId").(string)

	if err := db.Where("user_id = ?", userID).Delete(&model.Notification{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "All notifications cleared"})
}
