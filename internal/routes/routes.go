package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"records-system/internal/controllers"
	"records-system/internal/repositories"
	"records-system/internal/services"
	"records-system/pkg/config"
	"records-system/pkg/middleware"
	"records-system/pkg/service"
)

type Loggers struct {
	Main  *zap.Logger
	Auth  *zap.Logger
	Entry *zap.Logger
	Audit *zap.Logger
}

// InitRouter собирает весь граф зависимостей и вешает маршруты.
// redisClient может быть nil: тогда кеш работает в памяти процесса.
func InitRouter(e *echo.Echo, dbConn *pgxpool.Pool, redisClient *redis.Client, jwtSvc service.JWTService, loggers *Loggers, cfg *config.Config) {
	loggers.Main.Info("InitRouter: начало создания маршрутов")

	api := e.Group("/api")
	authMW := middleware.NewAuthMiddleware(jwtSvc, loggers.Auth)

	// --- РЕПОЗИТОРИИ ---
	userRepo := repositories.NewUserRepository(dbConn)
	sectionRepo := repositories.NewSectionRepository(dbConn)
	officeRepo := repositories.NewOfficeOptionRepository(dbConn)
	forwardOptionRepo := repositories.NewForwardOptionRepository(dbConn)
	entryRepo := repositories.NewEntryRepository(dbConn)
	entryLogRepo := repositories.NewEntryLogRepository(dbConn)
	dashboardRepo := repositories.NewDashboardRepository(dbConn, loggers.Main)
	reportRepo := repositories.NewReportRepository(dbConn)

	var cacheRepo repositories.CacheRepositoryInterface
	if redisClient != nil {
		cacheRepo = repositories.NewRedisCacheRepository(redisClient)
	} else {
		loggers.Main.Warn("Redis не настроен, кеш работает в памяти процесса")
		cacheRepo = repositories.NewMemoryCacheRepository()
	}

	// --- СЕРВИСЫ ---
	recordSectionSvc := services.NewRecordSectionService(sectionRepo, cacheRepo, cfg.RecordSection, cfg.RecordSectionCacheTTL, loggers.Main)
	auditSvc := services.NewAuditService(entryLogRepo, loggers.Audit)
	authSvc := services.NewAuthService(userRepo, jwtSvc, loggers.Auth)
	entrySvc := services.NewEntryService(entryRepo, entryLogRepo, officeRepo, sectionRepo, forwardOptionRepo,
		recordSectionSvc, auditSvc, loggers.Entry)
	dashboardSvc := services.NewDashboardService(dashboardRepo, cfg.Dashboard, loggers.Main)
	reportSvc := services.NewReportService(reportRepo, loggers.Main)

	// --- КОНТРОЛЛЕРЫ ---
	authCtrl := controllers.NewAuthController(authSvc, loggers.Auth)
	entryCtrl := controllers.NewEntryController(entrySvc, loggers.Entry)
	dashboardCtrl := controllers.NewDashboardController(dashboardSvc, loggers.Main)
	reportCtrl := controllers.NewReportController(reportSvc, loggers.Main)
	referenceCtrl := controllers.NewReferenceController(sectionRepo, officeRepo, forwardOptionRepo, loggers.Main)

	// --- МАРШРУТЫ ---
	auth := api.Group("/auth")
	auth.POST("/login", authCtrl.Login)
	auth.POST("/refresh", authCtrl.Refresh)

	entries := api.Group("/entries", authMW.Auth)
	entries.POST("", entryCtrl.CreateEntry)
	entries.GET("", entryCtrl.GetEntries)
	entries.GET("/:id", entryCtrl.GetEntry)
	entries.PUT("/:id", entryCtrl.UpdateEntry)
	entries.POST("/:id/forward", entryCtrl.ForwardEntry)
	entries.POST("/:id/receive", entryCtrl.ReceiveEntry)
	entries.GET("/:id/logs", entryCtrl.GetEntryLogs)

	dashboard := api.Group("/dashboard", authMW.Auth)
	dashboard.GET("/daily-counts", dashboardCtrl.GetDailyCounts)

	reports := api.Group("/reports", authMW.Auth)
	reports.GET("/forwarded-by-date", reportCtrl.GetForwardedByDate)

	references := api.Group("/references", authMW.Auth)
	references.GET("/sections", referenceCtrl.GetSections)
	references.GET("/office-options", referenceCtrl.GetOfficeOptions)
	references.GET("/forward-options", referenceCtrl.GetForwardOptions)

	loggers.Main.Info("InitRouter: маршруты созданы")
}
