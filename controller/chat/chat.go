package chat

import (
	"net/http"
	"strconv"
	"strings"

	"studymate/dto"
	"studymate/middleware"
	"studymate/model"
	"studymate/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func ChatController(router *gin.Engine, db *gorm.DB, ai services.AIClient) {
	routes := router.Group("/chat", middleware.AccessTokenMiddleware())
	{
		routes.POST("", func(c *gin.Context) {
			SendMessage(c, db, ai)
		})
		routes.GET("/history", func(c *gin.Context) {
			GetHistory(c, db)
		})
		routes.DELETE("/history", func(c *gin.Context) {
			ClearHistory(c, db)
		})
		routes.DELETE("/:id", func(c *gin.Context) {
			DeleteMessage(c, db)
		})
	}
}

// recentContext returns the last few exchanges of the session as chat
// turns, oldest first.
func recentContext(db *gorm.DB, userID, sessionID string) []services.ChatTurn {
	var recent []model.ChatMessage
	db.Where("user_id = ? AND session_id = ?", userID, sessionID).
		Order("created_at DESC").
		Limit(5).
		Find(&recent)

	turns := make([]services.ChatTurn, 0, len(recent)*2)
	for i := len(recent) - 1; i >= 0; i-- {
		turns = append(turns, services.ChatTurn{Role: "user", Content: recent[i].Message})
		turns = append(turns, services.ChatTurn{Role: "assistant", Content: recent[i].Response})
	}
	return turns
}

// autoTitle derives a session title from its first message, trimmed at a
// word boundary.
func autoTitle(message string) string {
	title := strings.TrimSpace(message)
	runes := []rune(title)
	if len(runes) <= 60 {
		return title
	}
	title = string(runes[:60])
	if lastSpace := strings.LastIndex(title, " "); lastSpace > 30 {
		title = title[:lastSpace]
	}
	return title + "..."
}

func SendMessage(c *gin.Context, db *gorm.DB, ai services.AIClient) {
	userID := c.MustGet("userId").(string)

	var req dto.ChatMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	// Resolve or create the session.
	var session *model.ChatSession
	if req.SessionID != nil {
		found, ok := findOwnedSession(c, db, *req.SessionID, userID)
		if !ok {
			return
		}
		session = found
	} else {
		session = &model.ChatSession{Title: "New chat", UserID: userID}
		if err := db.Create(session).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
			return
		}
	}

	// A linked PDF must exist; owner checks run through its course chain.
	if req.PdfFileID != nil {
		var pdf model.Pdf
		if err := db.Preload("Course.Subject").Where("pdf_id = ?", *req.PdfFileID).First(&pdf).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "PDF not found"})
			return
		}
		if pdf.Course != nil && pdf.Course.Subject.UserID != userID {
			c.JSON(http.StatusForbidden, gin.H{"error": "You do not own this PDF"})
			return
		}
	}

	var count int64
	db.Model(&model.ChatMessage{}).Where("session_id = ?", session.SessionID).Count(&count)
	isFirstMessage := count == 0

	turns := []services.ChatTurn{{Role: "system", Content: services.SystemPrompt()}}
	turns = append(turns, recentContext(db, userID, session.SessionID)...)
	turns = append(turns, services.ChatTurn{Role: "user", Content: req.Message})

	response, err := ai.Chat(c.Request.Context(), turns)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	message := model.ChatMessage{
		SessionID: session.SessionID,
		UserID:    userID,
		Message:   req.Message,
		Response:  response,
		PdfFileID: req.PdfFileID,
	}
	if err := db.Create(&message).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save message"})
		return
	}

	updates := map[string]interface{}{"updated_at": message.CreatedAt}
	if isFirstMessage && (session.Title == "New chat" || session.Title == "New Chat") {
		updates["title"] = autoTitle(req.Message)
	}
	// Title generation is best-effort; the exchange is already saved.
	db.Model(session).Updates(updates)

	c.JSON(http.StatusCreated, gin.H{
		"id":        message.MessageID,
		"sessionId": session.SessionID,
		"message":   message.Message,
		"response":  message.Response,
		"pdfFileId": message.PdfFileID,
		"createdAt": message.CreatedAt,
	})
}

func GetHistory(c *gin.Context, db *gorm.DB) {
	userID := c.MustGet("userId").(string)

	sessionID := c.Query("sessionId")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sessionId is required"})
		return
	}
	if _, ok := findOwnedSession(c, db, sessionID, userID); !ok {
		return
	}

	query := db.Where("user_id = ? AND session_id = ?", userID, sessionID).Order("created_at ASC")
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit parameter"})
			return
		}
		query = query.Limit(limit)
	}

	var messages []model.ChatMessage
	if err := query.Find(&messages).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch history"})
		return
	}

	c.JSON(http.StatusOK, messages)
}

func ClearHistory(c *gin.Context, db *gorm.DB) {
	userID := c.MustGet("userId").(string)

	if err := db.Where("user_id = ?", userID).Delete(&model.ChatMessage{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Chat history cleared"})
}

func DeleteMessage(c *gin.Context, db *gorm.DB) {
	userID := c.MustGet("userId").(string)

	var message model.ChatMessage
	if err := db.Where("message_id = ?", c.Param("id")).First(&message).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Message not found"})
		return
	}
	if message.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not own this message"})
		return
	}

	if err := db.Delete(&message).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete message"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Message deleted successfully"})
}
