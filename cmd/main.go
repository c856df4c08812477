package main

import (
	"charity-donation-backend/config"
	"charity-donation-backend/internal/api/account"
	"charity-donation-backend/internal/api/admin"
	"charity-donation-backend/internal/api/campaign"
	"charity-donation-backend/internal/api/funds"
	"charity-donation-backend/internal/middleware"
	"charity-donation-backend/internal/repository/mysql"
	"charity-donation-backend/internal/service"
	"charity-donation-backend/internal/storage"
	"charity-donation-backend/internal/util"
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			util.Logger.Error("程序发生严重错误", zap.Any("error", r))
		}
	}()

	// 初始化配置
	config.Init()

	// 初始化日志
	util.InitLogger(config.AppConfig.LogLevel)
	defer util.Logger.Sync()

	util.Logger.Info("应用程序启动")

	// 先执行数据库迁移（迁移连接需要 multiStatements）
	migrateURL := fmt.Sprintf("mysql://%s:%s@tcp(%s:%s)/%s?multiStatements=true",
		config.AppConfig.DBUser,
		config.AppConfig.DBPassword,
		config.AppConfig.DBHost,
		config.AppConfig.DBPort,
		config.AppConfig.DBName)
	if err := mysql.Migrate(migrateURL); err != nil {
		util.Logger.Fatal("数据库迁移失败", zap.Error(err))
	}

	// 设置数据库连接字符串
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		config.AppConfig.DBUser,
		config.AppConfig.DBPassword,
		config.AppConfig.DBHost,
		config.AppConfig.DBPort,
		config.AppConfig.DBName)

	// 连接数据库
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		util.Logger.Fatal("连接数据库失败", zap.Error(err))
	}
	defer db.Close()

	// 测试数据库连接
	if err = db.Ping(); err != nil {
		util.Logger.Fatal("数据库连接测试失败", zap.Error(err))
	}
	util.Logger.Info("数据库连接成功")

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	util.Logger.Info("数据库连接池配置完成")

	// 注册自定义验证器
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("account_addr", util.ValidateAccountAddress)
	}

	// 审计快照存储后端
	auditStore := newAuditStorage()

	// 初始化存储库、服务和处理器
	accountRepo := mysql.NewAccountRepository(db)
	campaignRepo := mysql.NewCampaignRepository(db)
	adminRepo := mysql.NewAdminRepository(db)
	donationRepo := mysql.NewDonationRepository(db)
	eventRepo := mysql.NewEventRepository(db)

	emailService := service.NewEmailService()

	accountService := service.NewAccountService(accountRepo)
	accountHandler := account.NewAccountHandler(accountService)

	adminService := service.NewAdminService(adminRepo, campaignRepo, accountRepo, emailService)

	campaignService := service.NewCampaignService(
		campaignRepo,
		donationRepo,
		eventRepo,
		accountRepo,
		adminService,
		emailService,
		db,
	)
	campaignHandler := campaign.NewCampaignHandler(campaignService)

	fundsService := service.NewFundsService(
		donationRepo,
		accountRepo,
		adminService,
		emailService,
		db,
	)
	fundsHandler := funds.NewFundsHandler(fundsService)

	// 初始化错误监控
	errorMonitor := middleware.NewErrorMonitor()

	statsService := service.NewStatsService(accountRepo, campaignRepo, donationRepo)
	auditService := service.NewAuditService(campaignRepo, donationRepo, eventRepo, adminService, auditStore)
	adminHandler := admin.NewAdminHandler(adminService, statsService, auditService, errorMonitor)

	// 启动定时任务检查过期活动
	go func() {
		interval := time.Duration(config.AppConfig.ExpirySweepMinutes) * time.Minute
		ticker := time.NewTicker(interval)
		for range ticker.C {
			util.Logger.Info("开始检查过期活动")
			if err := adminService.CheckExpiredCampaigns(); err != nil {
				util.Logger.Error("检查过期活动失败", zap.Error(err))
			}
		}
	}()

	// 设置 Gin 路由
	r := gin.Default()

	// 添加中间件
	r.Use(middleware.RecoveryMiddleware())
	r.Use(middleware.ErrorMonitorMiddleware(errorMonitor))

	// 配置 CORS
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{config.AppConfig.FrontendURL}
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"}
	corsConfig.AllowHeaders = []string{
		"Origin",
		"Content-Length",
		"Content-Type",
		"Authorization",
	}
	corsConfig.ExposeHeaders = []string{
		"Content-Length",
		"Content-Type",
		"Access-Control-Allow-Origin",
	}
	r.Use(cors.New(corsConfig))

	// 定义 API 路由
	api := r.Group("/api")
	{
		// 账户相关路由
		api.POST("/register", accountHandler.Register)
		api.POST("/login", accountHandler.Login)

		// 需要认证的账户路由
		authorized := api.Group("/")
		authorized.Use(middleware.AuthMiddleware(accountService))
		{
			authorized.POST("/logout", accountHandler.Logout)
			authorized.POST("/refresh-token", accountHandler.RefreshToken)
			authorized.GET("/account", accountHandler.GetAccount)
			authorized.POST("/account/deposit", accountHandler.Deposit)
		}

		// 活动相关路由
		api.POST("/campaigns", middleware.AuthMiddleware(accountService), campaignHandler.CreateCampaign)
		api.GET("/campaigns/:owner", campaignHandler.ViewCampaigns)
		api.GET("/campaigns/:owner/:id", campaignHandler.GetCampaignDetails)
		api.GET("/campaigns/:owner/:id/events", campaignHandler.ListEvents)
		api.POST("/campaigns/:owner/:id/donate", middleware.AuthMiddleware(accountService), campaignHandler.Donate)
		api.POST("/campaigns/:owner/:id/cancel", middleware.AuthMiddleware(accountService), campaignHandler.CancelCampaign)
		api.GET("/donations", middleware.AuthMiddleware(accountService), campaignHandler.ViewDonations)

		// 资金相关路由
		api.POST("/campaigns/:owner/:id/withdraw", middleware.AuthMiddleware(accountService), fundsHandler.Withdraw)
		api.POST("/campaigns/:owner/:id/refund", middleware.AuthMiddleware(accountService), fundsHandler.Refund)
		api.GET("/withdrawals/:owner", fundsHandler.ViewWithdrawals)

		// 管理员路由
		api.POST("/admins", middleware.AuthMiddleware(accountService), adminHandler.AddAdmin)
		api.DELETE("/admins/:address", middleware.AuthMiddleware(accountService), adminHandler.RemoveAdmin)
		api.GET("/admins/:owner", adminHandler.ListAdmins)

		// 审计导出
		api.POST("/campaigns/:owner/:id/audit", middleware.AuthMiddleware(accountService), adminHandler.ExportAudit)

		// 系统统计
		api.GET("/stats", adminHandler.GetSystemStats)
		api.GET("/stats/errors", middleware.AuthMiddleware(accountService), adminHandler.GetErrorStats)
	}

	// 创建一个带有超时的 http.Server
	srv := &http.Server{
		Addr:    ":8080",
		Handler: r,
	}

	// 在一个新的 goroutine 中启动服务器
	go func() {
		util.Logger.Info("服务器正在启动，监听端口 :8080")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			util.Logger.Fatal("启动服务器失败", zap.Error(err))
		}
	}()

	// 等待中断信号以优雅地关闭服务器
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	util.Logger.Info("正在关闭服务器...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		util.Logger.Fatal("服务器强制关闭", zap.Error(err))
	}

	util.Logger.Info("服务器已优雅关闭")
}

// newAuditStorage 按配置选择审计快照存储后端
func newAuditStorage() storage.Storage {
	switch config.AppConfig.AuditStorage {
	case "s3":
		store, err := storage.NewS3Client(config.AppConfig.S3Region, config.AppConfig.S3Bucket)
		if err != nil {
			util.Logger.Fatal("初始化 S3 存储失败", zap.Error(err))
		}
		return store
	case "gcs":
		store, err := storage.NewGCSClient(config.AppConfig.GCSBucketName, config.AppConfig.GCSCredentialsFile)
		if err != nil {
			util.Logger.Fatal("初始化 GCS 存储失败", zap.Error(err))
		}
		return store
	default:
		store, err := storage.NewLocalStorage(config.AppConfig.AuditStoragePath)
		if err != nil {
			util.Logger.Fatal("初始化本地存储失败", zap.Error(err))
		}
		return store
	}
}
