package main

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/careslot/careslot-api/internal/auth"
	"github.com/careslot/careslot-api/internal/config"
	"github.com/careslot/careslot-api/internal/handlers"
	"github.com/careslot/careslot-api/internal/logger"
	"github.com/careslot/careslot-api/internal/middleware"
	"github.com/careslot/careslot-api/internal/models"
	"github.com/careslot/careslot-api/internal/repository"
	"github.com/careslot/careslot-api/internal/services"
	"github.com/careslot/careslot-api/internal/utils"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel)

	tokens, err := utils.NewTokenManager(cfg.JWTSecret)
	if err != nil {
		log.Fatalf("Token manager: %v", err)
	}

	// --- Document store ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(context.Background())
	db := client.Database(cfg.MongoDatabase)

	if err := repository.EnsureIndexes(ctx, db); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}
	log.Info("Connected to MongoDB")

	// --- Revocation store ---
	redisClient, err := auth.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	revocations := auth.NewRevocationList(redisClient)
	log.Info("Connected to Redis")

	// --- Repositories and services ---
	users := repository.NewUserRepository(db)
	doctors := repository.NewDoctorRepository(db)
	appointments := repository.NewAppointmentRepository(db)

	directory := services.NewDirectoryService(users, doctors, tokens, log)
	booking := services.NewBookingService(appointments, doctors, users, log)
	admin := services.NewAdminService(users, doctors, appointments, log)

	h := handlers.NewHandler(directory, booking, admin, revocations, log, func(ctx context.Context) error {
		return client.Ping(ctx, readpref.Primary())
	})

	// --- Router ---
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.CORSOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	authRequired := middleware.AuthRequired(tokens, revocations)

	r.GET("/health", h.Health)

	authRoutes := r.Group("/auth")
	{
		authRoutes.POST("/register", h.Register)
		authRoutes.POST("/login", h.Login)
		authRoutes.POST("/logout", authRequired, h.Logout)
		authRoutes.GET("/me", authRequired, h.Me)
		authRoutes.PUT("/users/me", authRequired, h.UpdateMe)
		authRoutes.PUT("/doctors/me", authRequired, middleware.RoleRequired(models.RoleDoctor), h.UpdateDoctorMe)
	}

	doctorRoutes := r.Group("/doctors")
	{
		doctorRoutes.GET("", h.ListDoctors)
		doctorRoutes.GET("/filter", h.FilterDoctors)
		doctorRoutes.GET("/:id", h.GetDoctor)
		doctorRoutes.POST("", authRequired, middleware.RoleRequired(models.RoleDoctor), h.UpsertDoctorProfile)
	}

	aptRoutes := r.Group("/appointments")
	aptRoutes.Use(authRequired)
	{
		aptRoutes.POST("", middleware.RoleRequired(models.RolePatient), h.CreateAppointment)
		aptRoutes.GET("", h.ListAppointments)
		aptRoutes.PUT("/:id", h.UpdateAppointment)
		aptRoutes.GET("/available/:doctorId/:date", h.AvailableSlots)
	}

	adminRoutes := r.Group("/admin")
	adminRoutes.Use(authRequired, middleware.RoleRequired(models.RoleAdmin))
	{
		adminRoutes.GET("/doctors", h.AdminListDoctors)
		adminRoutes.GET("/users", h.AdminListUsers)
		adminRoutes.GET("/appointments", h.AdminListAppointments)
		adminRoutes.GET("/stats", h.AdminStats)
		adminRoutes.PUT("/doctors/:id/approve", h.AdminApproveDoctor)
		adminRoutes.PUT("/appointments/:id/approve", h.AdminApproveAppointment)
		adminRoutes.PUT("/appointments/:id/reject", h.AdminRejectAppointment)
	}

	log.Infof("Starting server on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
