package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yourusername/classroom-api/internal/config"
	"github.com/yourusername/classroom-api/internal/handler"
	"github.com/yourusername/classroom-api/internal/middleware"
	pgRepo "github.com/yourusername/classroom-api/internal/repository/postgres"
	redisRepo "github.com/yourusername/classroom-api/internal/repository/redis"
	"github.com/yourusername/classroom-api/internal/service"
	ws "github.com/yourusername/classroom-api/internal/websocket"
	"github.com/yourusername/classroom-api/pkg/auth"
	"github.com/yourusername/classroom-api/pkg/database"
)

func main() {
	// Загружаем конфигурацию
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	log.Printf("Загрузка конфигурации из %s", configPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		os.Exit(1)
	}

	// Инициализируем подключение к PostgreSQL
	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString())
	if err != nil {
		log.Printf("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	// Применяем миграции
	if err := database.MigrateDB(db); err != nil {
		log.Printf("Failed to migrate database: %v", err)
		os.Exit(1)
	}

	// Инициализируем подключение к Redis
	redisClient, err := database.NewUniversalRedisClient(cfg.Redis)
	if err != nil {
		log.Printf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	log.Println("Successfully connected to Redis")

	// Инициализируем репозитории
	userRepo := pgRepo.NewUserRepo(db)
	classroomRepo := pgRepo.NewClassroomRepo(db)
	noteRepo := pgRepo.NewNoteRepo(db)
	followRepo := pgRepo.NewFollowRepo(db)
	shortRepo := pgRepo.NewShortRepo(db)
	liveRepo := pgRepo.NewLiveSessionRepo(db)
	refreshTokenRepo := pgRepo.NewRefreshTokenRepo(db)

	cacheRepo, err := redisRepo.NewCacheRepo(redisClient)
	if err != nil {
		log.Printf("Failed to initialize CacheRepo: %v", err)
		os.Exit(1)
	}

	// Инициализируем JWT-сервис
	jwtService, err := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpirationHrs)
	if err != nil {
		log.Printf("Failed to initialize JWTService: %v", err)
		os.Exit(1)
	}

	// WebSocket hub для событий классов
	wsHub := ws.NewHub()
	go wsHub.Run()

	// Почтовый сервис: Resend при наличии ключа, иначе noop
	var emailService service.EmailService
	if cfg.Email.APIKey != "" {
		from := cfg.Email.FromAddress
		if cfg.Email.FromName != "" {
			from = cfg.Email.FromName + " <" + cfg.Email.FromAddress + ">"
		}
		emailService, err = service.NewResendEmailService(cfg.Email.APIKey, from)
		if err != nil {
			log.Printf("Failed to initialize ResendEmailService: %v", err)
			os.Exit(1)
		}
	} else {
		log.Println("RESEND_API_KEY не задан, письма отправляться не будут")
		emailService = &service.NoopEmailService{}
	}

	// Инициализируем сервисы
	authService, err := service.NewAuthService(userRepo, refreshTokenRepo, jwtService, cfg.Auth.RefreshTokenLifetime)
	if err != nil {
		log.Printf("Failed to initialize AuthService: %v", err)
		os.Exit(1)
	}
	userService := service.NewUserService(userRepo, followRepo)
	classroomService := service.NewClassroomService(classroomRepo, userRepo, emailService, wsHub)
	noteService := service.NewNoteService(noteRepo, classroomRepo, followRepo, cacheRepo, wsHub)
	shortService := service.NewShortService(shortRepo, userRepo, classroomRepo, cacheRepo, wsHub)

	// Live-сервис опционален: без секрета провайдера маршруты не регистрируются
	var liveService *service.LiveService
	if cfg.Live.AppSecret != "" {
		liveService, err = service.NewLiveService(liveRepo, classroomRepo, wsHub, cfg.Live.AppID, cfg.Live.AppSecret, cfg.Live.TokenExpirySec)
		if err != nil {
			log.Printf("Failed to initialize LiveService: %v", err)
			os.Exit(1)
		}
	} else {
		log.Println("LIVE_APP_SECRET не задан, живые занятия отключены")
	}

	// Инициализируем обработчики
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	classroomHandler := handler.NewClassroomHandler(classroomService)
	noteHandler := handler.NewNoteHandler(noteService)
	shortHandler := handler.NewShortHandler(shortService)
	wsHandler := handler.NewWSHandler(wsHub, jwtService, classroomService)

	// Инициализируем middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService)
	rateLimiter := middleware.NewRateLimiter(cacheRepo)

	// Периодическая очистка просроченных refresh-токенов
	cleanupCtx, cancelCleanup := context.WithCancel(context.Background())
	go func() {
		ticker := time.NewTicker(6 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if deleted, err := authService.CleanupExpiredTokens(); err != nil {
					log.Printf("Failed to cleanup expired refresh tokens: %v", err)
				} else if deleted > 0 {
					log.Printf("Removed %d expired refresh tokens", deleted)
				}
			case <-cleanupCtx.Done():
				return
			}
		}
	}()

	// Инициализируем роутер Gin
	router := gin.Default()

	isProduction := gin.Mode() == gin.ReleaseMode
	if isProduction {
		// Production: не доверять прокси-заголовкам
		if err := router.SetTrustedProxies(nil); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	} else {
		if err := router.SetTrustedProxies([]string{"127.0.0.1", "::1"}); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	}

	// Настройка CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Настраиваем маршруты API
	api := router.Group("/api")
	{
		// Аутентификация
		authGroup := api.Group("/auth")
		authGroup.Use(rateLimiter.Limit(middleware.DefaultAuthRateLimitConfig()))
		{
			strict := rateLimiter.Limit(middleware.StrictAuthRateLimitConfig())
			authGroup.POST("/register", strict, authHandler.Register)
			authGroup.POST("/login", strict, authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
			authGroup.POST("/logout", authHandler.Logout)

			authedAuth := authGroup.Group("/")
			authedAuth.Use(authMiddleware.RequireAuth())
			{
				authedAuth.POST("/logout-all", authHandler.LogoutAll)
			}
		}

		// Пользователи и соцграф
		users := api.Group("/users")
		users.Use(authMiddleware.RequireAuth())
		{
			users.GET("/me", userHandler.GetMe)
			users.PUT("/me", userHandler.UpdateProfile)
			users.POST("/me/password", userHandler.ChangePassword)

			userWithID := users.Group("/:id")
			userWithID.Use(middleware.ExtractUintParam("id", "userID"))
			{
				userWithID.GET("", userHandler.GetProfile)
				userWithID.POST("/follow", userHandler.Follow)
				userWithID.DELETE("/follow", userHandler.Unfollow)
				userWithID.GET("/followers", userHandler.GetFollowers)
				userWithID.GET("/following", userHandler.GetFollowing)
				userWithID.GET("/notes", noteHandler.ListByAuthor)
			}
		}

		// Лидерборд (публичный маршрут)
		api.GET("/leaderboard", userHandler.GetLeaderboard)

		// Классы
		classrooms := api.Group("/classrooms")
		classrooms.Use(authMiddleware.RequireAuth())
		{
			classrooms.GET("", classroomHandler.List)
			classrooms.GET("/mine", classroomHandler.ListMine)
			classrooms.POST("", authMiddleware.TeacherOnly(), classroomHandler.Create)
			classrooms.POST("/join", classroomHandler.Join)

			classroomWithID := classrooms.Group("/:id")
			classroomWithID.Use(middleware.ExtractUintParam("id", "classroomID"))
			{
				classroomWithID.GET("", classroomHandler.Get)
				classroomWithID.GET("/members", classroomHandler.ListMembers)
				classroomWithID.PUT("/schedule", authMiddleware.TeacherOnly(), classroomHandler.Schedule)
				classroomWithID.POST("/invite", authMiddleware.TeacherOnly(), classroomHandler.Invite)
				classroomWithID.GET("/notes", noteHandler.ListByClassroom)
				classroomWithID.GET("/shorts", shortHandler.ListByClassroom)
			}
		}

		// Заметки и лента
		notes := api.Group("/notes")
		notes.Use(authMiddleware.RequireAuth())
		{
			notes.POST("", noteHandler.Create)
			notes.GET("/feed", noteHandler.GetFeed)

			noteWithID := notes.Group("/:id")
			noteWithID.Use(middleware.ExtractUintParam("id", "noteID"))
			{
				noteWithID.GET("", noteHandler.Get)
				noteWithID.DELETE("", noteHandler.Delete)
				noteWithID.POST("/like", noteHandler.Like)
				noteWithID.DELETE("/like", noteHandler.Unlike)
			}
		}

		// Шорты и попытки
		shorts := api.Group("/shorts")
		shorts.Use(authMiddleware.RequireAuth())
		{
			shorts.POST("", authMiddleware.TeacherOnly(), shortHandler.Create)
			shorts.GET("/mine", shortHandler.ListMine)

			shortWithID := shorts.Group("/:id")
			shortWithID.Use(middleware.ExtractUintParam("id", "shortID"))
			{
				shortWithID.GET("", shortHandler.Get)
				shortWithID.DELETE("", shortHandler.Delete)
				shortWithID.POST("/submit", rateLimiter.Limit(middleware.SubmitRateLimitConfig()), shortHandler.Submit)
				shortWithID.GET("/my-attempt", shortHandler.GetMyAttempt)
				shortWithID.GET("/attempts", shortHandler.ListAttempts)
				shortWithID.GET("/stats", shortHandler.GetStats)
				shortWithID.GET("/export", shortHandler.ExportAttempts)
			}
		}

		// Живые занятия
		if liveService != nil {
			liveHandler := handler.NewLiveHandler(liveService)

			live := api.Group("/classrooms/:id/live")
			live.Use(authMiddleware.RequireAuth(), middleware.ExtractUintParam("id", "classroomID"))
			{
				live.POST("", authMiddleware.TeacherOnly(), liveHandler.Start)
				live.POST("/join", liveHandler.Join)
				live.GET("/history", liveHandler.History)
			}

			sessions := api.Group("/live-sessions/:id")
			sessions.Use(authMiddleware.RequireAuth(), middleware.ExtractUintParam("id", "sessionID"))
			{
				sessions.POST("/end", liveHandler.End)
			}
		}
	}

	// WebSocket маршрут комнаты класса
	router.GET("/ws/classrooms/:id", middleware.ExtractUintParam("id", "classroomID"), wsHandler.HandleConnection)

	// Настраиваем HTTP сервер с тайм-аутами для защиты от slow client attacks
	readTimeout := cfg.Server.ReadTimeout
	if readTimeout <= 0 {
		readTimeout = 15
	}
	writeTimeout := cfg.Server.WriteTimeout
	if writeTimeout <= 0 {
		writeTimeout = 15
	}
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(readTimeout) * time.Second,
		WriteTimeout: time.Duration(writeTimeout) * time.Second,
	}

	// Запускаем сервер в горутине
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	cancelCleanup()
	wsHub.Shutdown()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
		os.Exit(1)
	}

	log.Println("Server exited properly")
}
