package chat

import (
	"errors"
	"net/http"

	"studymate/dto"
	"studymate/middleware"
	"studymate/model"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func SessionController(router *gin.Engine, db *gorm.DB) {
	routes := router.Group("/chat/sessions", middleware.AccessTokenMiddleware())
	{
		routes.POST("", func(c *gin.Context) {
			CreateSession(c, db)
		})
		routes.GET("", func(c *gin.Context) {
			ListSessions(c, db)
		})
		routes.PATCH("/:id", func(c *gin.Context) {
			RenameSession(c, db)
		})
		routes.DELETE("/:id", func(c *gin.Context) {
			DeleteSession(c, db)
		})
	}
}

func CreateSession(c *gin.Context, db *gorm.DB) {
	userID := c.MustGet("userId").(string)

	var req dto.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	title := req.Title
	if title == "" {
		title = "New chat"
	}

	session := model.ChatSession{
		Title:  title,
		UserID: userID,
	}
	if err := db.Create(&session).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
		return
	}

	c.JSON(http.StatusCreated, session)
}

func ListSessions(c *gin.Context, db *gorm.DB) {
	userID := c.MustGet("userId").(string)

	var sessions []model.ChatSession
	if err := db.Where("user_id = ?", userID).Order("updated_at DESC").Find(&sessions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch sessions"})
		return
	}

	c.JSON(http.StatusOK, sessions)
}

// findOwnedSession loads a session and enforces ownership.
func findOwnedSession(c *gin.Context, db *gorm.DB, sessionID, userID string) (*model.ChatSession, bool) {
	var session model.ChatSession
	if err := db.Where("session_id = ?", sessionID).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Chat session not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch session"})
		}
		return nil, false
	}
	if session.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not own this session"})
		return nil, false
	}
	return &session, true
}

func RenameSession(c *gin.Context, db *gorm.DB) {
	userID := c.MustGet("userId").(string)

	session, ok := findOwnedSession(c, db, c.Param("id"), userID)
	if !ok {
		return
	}

	var req dto.RenameSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	if err := db.Model(session).Update("title", req.Title).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to rename session"})
		return
	}

	c.JSON(http.StatusOK, session)
}

func DeleteSession(c *gin.Context, db *gorm.DB) {
	userID := c.MustGet("userId").(string)

	session, ok := findOwnedSession(c, db, c.Param("id"), userID)
	if !ok {
		return
	}

	if err := db.Delete(session).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Chat session deleted successfully"})
}
