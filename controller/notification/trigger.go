package notification

import (
	"net/http"
	"time"

	"studymate/middleware"
	"studymate/services"

	"github.com/gin-gonic/gin"
)

// TriggerController exposes the manual reminder trigger for testing and
// recovery. It runs the same job body as the daily timer, synchronously.
func TriggerController(router *gin.Engine, reminder *services.ReminderService) {
	router.POST("/notifications/cron/trigger", middleware.AccessTokenMiddleware(), func(c *gin.Context) {
		TriggerCron(c, reminder)
	})
}

func TriggerCron(c *gin.Context, reminder *services.ReminderService) {
	if err := reminder.Run(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to run cron job"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Cron job executed manually",
		"timestamp": time.Now(),
	})
}
