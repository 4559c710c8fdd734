package connection

import (
	"log"
	"os"

	"studymate/controller/auth"
	"studymate/controller/chat"
	"studymate/controller/course"
	"studymate/controller/dashboard"
	"studymate/controller/event"
	"studymate/controller/notification"
	"studymate/controller/pdf"
	"studymate/controller/subject"
	"studymate/controller/user"
	"studymate/logger"
	"studymate/realtime"
	"studymate/scheduler"
	"studymate/services"
	"studymate/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func StartServer() {
	if err := logger.Init(os.Getenv("DEBUG") == "true"); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	DB, err := DBConnection()
	if err != nil {
		logger.Log.Fatalf("Failed to connect to database: %v", err)
	}

	gatewayLog, _ := logger.Named("gateway")
	hub := realtime.NewHub(gatewayLog)

	reminderLog, _ := logger.Named("reminder")
	reminder := services.NewReminderService(
		store.NewEventStorage(DB),
		store.NewNotificationStorage(DB),
		hub,
		reminderLog,
	)

	schedulerLog, _ := logger.Named("scheduler")
	if _, err := scheduler.StartScheduler(reminder, schedulerLog); err != nil {
		logger.Log.Fatalf("Failed to start scheduler: %v", err)
	}

	aiClient := services.NewGroqClient()

	router := gin.Default()
	router.Use(cors.Default())

	router.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "StudyMate API is running!"})
	})
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	auth.AuthController(router, DB)

	user.UserController(router, DB)

	subject.SubjectController(router, DB)
	course.CourseController(router, DB)
	pdf.PdfController(router, DB)

	event.EventController(router, DB)

	notification.NotificationController(router, DB, hub)
	notification.TriggerController(router, reminder)

	dashboard.DashboardController(router, DB)

	chat.ChatController(router, DB, aiClient)
	chat.SessionController(router, DB)

	realtime.GatewayController(router, hub)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := router.Run(":" + port); err != nil {
		logger.Log.Fatalf("Server stopped: %v", err)
	}
}
