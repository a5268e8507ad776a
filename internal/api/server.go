package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/yizeng/gab/gin/gorm/event-checkin/docs"
	v1 "github.com/yizeng/gab/gin/gorm/event-checkin/internal/api/handler/v1"
	"github.com/yizeng/gab/gin/gorm/event-checkin/internal/api/middleware"
	"github.com/yizeng/gab/gin/gorm/event-checkin/internal/checkin"
	"github.com/yizeng/gab/gin/gorm/event-checkin/internal/config"
	"github.com/yizeng/gab/gin/gorm/event-checkin/internal/repository"
	"github.com/yizeng/gab/gin/gorm/event-checkin/internal/repository/dao"
	"github.com/yizeng/gab/gin/gorm/event-checkin/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
}

func NewServer(conf *config.AppConfig, db *gorm.DB) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()

	eventHandler, checkInHandler := s.initHandlers(db)
	s.MountHandlers(eventHandler, checkInHandler)

	return s
}

func (s *Server) initHandlers(db *gorm.DB) (*v1.EventHandler, *v1.CheckInHandler) {
	eventRepo := repository.NewEventRepository(dao.NewEventDAO(db))
	attendeeRepo := repository.NewAttendeeRepository(dao.NewAttendeeDAO(db))

	tokens := checkin.NewTokenService([]byte(s.Config.API.TokenSigningKey), s.Config.API.TokenTTL)

	eventHandler := v1.NewEventHandler(service.NewEventService(eventRepo))
	checkInHandler := v1.NewCheckInHandler(service.NewCheckInService(eventRepo, attendeeRepo, tokens))

	return eventHandler, checkInHandler
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(eventHandler *v1.EventHandler, checkInHandler *v1.CheckInHandler) {
	const basePath = "/api/v1"

	events := s.Router.Group(basePath)
	{
		events.POST("/events", eventHandler.HandleCreateEvent)
		events.GET("/events/:eventID", eventHandler.HandleGetEvent)

		events.POST("/events/:eventID/attendees", checkInHandler.HandleRegisterAttendee)
		events.GET("/events/:eventID/attendees", checkInHandler.HandleListAttendees)
		events.GET("/events/:eventID/attendees/export", checkInHandler.HandleExportAttendees)

		events.POST("/events/:eventID/token", checkInHandler.HandleIssueToken)
		events.GET("/events/:eventID/token/qr", checkInHandler.HandleTokenQR)

		events.POST("/events/:eventID/check-ins/scan", checkInHandler.HandleTokenCheckIn)
		events.POST("/events/:eventID/check-ins/manual", checkInHandler.HandleManualCheckIn)
		events.POST("/events/:eventID/check-ins/name", checkInHandler.HandleNameCheckIn)
		events.POST("/events/:eventID/check-outs", checkInHandler.HandleCheckOut)

		events.GET("/events/:eventID/attendance", checkInHandler.HandleAttendanceSnapshot)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "API for gin/event-checkin"
	docs.SwaggerInfo.Description = "Event check-in and attendance tracking API."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
