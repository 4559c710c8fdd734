package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
	"unicode/utf8"

	"studymate/model"
	"studymate/services"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// fakeAI echoes a canned answer and records the turns it was given.
type fakeAI struct {
	reply string
	calls [][]services.ChatTurn
}

func (f *fakeAI) Chat(ctx context.Context, turns []services.ChatTurn) (string, error) {
	f.calls = append(f.calls, turns)
	return f.reply, nil
}

func setupRouter(t *testing.T) (*gin.Engine, *gorm.DB, *fakeAI) {
	t.Helper()
	t.Setenv("JWT_SECRET_KEY", "test-secret")

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.User{}, &model.Subject{}, &model.Course{}, &model.Pdf{},
		&model.ChatSession{}, &model.ChatMessage{},
	))
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	gin.SetMode(gin.TestMode)
	router := gin.New()
	ai := &fakeAI{reply: "Here is a study plan."}
	ChatController(router, db, ai)
	SessionController(router, db)
	return router, db, ai
}

func tokenFor(t *testing.T, userID string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID,
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func seedUser(t *testing.T, db *gorm.DB, email string) model.User {
	t.Helper()
	user := model.User{Email: email, Password: "x", FullName: "Student"}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func do(router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)
	return w
}

func TestSendMessageCreatesSessionAndTitle(t *testing.T) {
	router, db, ai := setupRouter(t)
	user := seedUser(t, db, "student@example.com")
	token := tokenFor(t, user.UserID)

	w := do(router, http.MethodPost, "/chat", token, gin.H{
		"message": "How should I prepare for my linear algebra exam?",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		SessionID string `json:"sessionId"`
		Response  string `json:"response"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Here is a study plan.", resp.Response)
	require.NotEmpty(t, resp.SessionID)

	var session model.ChatSession
	require.NoError(t, db.Where("session_id = ?", resp.SessionID).First(&session).Error)
	assert.Equal(t, "How should I prepare for my linear algebra exam?", session.Title)

	// The assistant gets a system prompt plus the user message.
	require.Len(t, ai.calls, 1)
	require.GreaterOrEqual(t, len(ai.calls[0]), 2)
	assert.Equal(t, "system", ai.calls[0][0].Role)
	assert.Equal(t, "user", ai.calls[0][len(ai.calls[0])-1].Role)
}

func TestSendMessageCarriesHistory(t *testing.T) {
	router, db, ai := setupRouter(t)
	user := seedUser(t, db, "student@example.com")
	token := tokenFor(t, user.UserID)

	w := do(router, http.MethodPost, "/chat", token, gin.H{"message": "First question"})
	require.Equal(t, http.StatusCreated, w.Code)
	var first struct {
		SessionID string `json:"sessionId"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &first))

	w = do(router, http.MethodPost, "/chat", token, gin.H{
		"message":   "Second question",
		"sessionId": first.SessionID,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// system + prior exchange (user, assistant) + new message.
	require.Len(t, ai.calls, 2)
	turns := ai.calls[1]
	require.Len(t, turns, 4)
	assert.Equal(t, "First question", turns[1].Content)
	assert.Equal(t, "assistant", turns[2].Role)
	assert.Equal(t, "Second question", turns[3].Content)
}

func TestSendMessageForeignSessionRejected(t *testing.T) {
	router, db, _ := setupRouter(t)
	owner := seedUser(t, db, "owner@example.com")
	intruder := seedUser(t, db, "intruder@example.com")

	session := model.ChatSession{Title: "Private", UserID: owner.UserID}
	require.NoError(t, db.Create(&session).Error)

	w := do(router, http.MethodPost, "/chat", tokenFor(t, intruder.UserID), gin.H{
		"message":   "Let me in",
		"sessionId": session.SessionID,
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestGetHistory(t *testing.T) {
	router, db, _ := setupRouter(t)
	user := seedUser(t, db, "student@example.com")
	token := tokenFor(t, user.UserID)

	w := do(router, http.MethodPost, "/chat", token, gin.H{"message": "Question one"})
	require.Equal(t, http.StatusCreated, w.Code)
	var first struct {
		SessionID string `json:"sessionId"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &first))

	w = do(router, http.MethodPost, "/chat", token, gin.H{"message": "Question two", "sessionId": first.SessionID})
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(router, http.MethodGet, "/chat/history?sessionId="+first.SessionID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var history []model.ChatMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &history))
	require.Len(t, history, 2)
	assert.Equal(t, "Question one", history[0].Message)
	assert.Equal(t, "Question two", history[1].Message)
}

func TestGetHistoryRequiresSessionID(t *testing.T) {
	router, db, _ := setupRouter(t)
	user := seedUser(t, db, "student@example.com")

	w := do(router, http.MethodGet, "/chat/history", tokenFor(t, user.UserID), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestClearHistory(t *testing.T) {
	router, db, _ := setupRouter(t)
	user := seedUser(t, db, "student@example.com")
	token := tokenFor(t, user.UserID)

	require.Equal(t, http.StatusCreated, do(router, http.MethodPost, "/chat", token, gin.H{"message": "Hello"}).Code)

	w := do(router, http.MethodDelete, "/chat/history", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	db.Model(&model.ChatMessage{}).Where("user_id = ?", user.UserID).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestSessionLifecycle(t *testing.T) {
	router, db, _ := setupRouter(t)
	user := seedUser(t, db, "student@example.com")
	token := tokenFor(t, user.UserID)

	w := do(router, http.MethodPost, "/chat/sessions", token, gin.H{})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "New chat", created.Title)

	w = do(router, http.MethodPatch, "/chat/sessions/"+created.ID, token, gin.H{"title": "Exam prep"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Exam prep")

	w = do(router, http.MethodGet, "/chat/sessions", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Exam prep")

	w = do(router, http.MethodDelete, "/chat/sessions/"+created.ID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	db.Model(&model.ChatSession{}).Where("user_id = ?", user.UserID).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestAutoTitleTruncation(t *testing.T) {
	long := "Explain the difference between eigenvalues and eigenvectors in detail please"
	title := autoTitle(long)
	assert.LessOrEqual(t, len(title), 64)
	assert.Contains(t, title, "Explain the difference")
	assert.True(t, len(title) < len(long))

	short := "Quick question"
	assert.Equal(t, short, autoTitle(short))
}

func TestAutoTitleMultibyte(t *testing.T) {
	long := "Объясни разницу между собственными значениями и собственными векторами матрицы"
	title := autoTitle(long)
	assert.True(t, utf8.ValidString(title), "truncation must not split a rune")
	assert.True(t, len([]rune(title)) < len([]rune(long)))
	assert.Contains(t, title, "Объясни")
}
