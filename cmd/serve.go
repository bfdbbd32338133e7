package cmd

import (
	"context"
	"net"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/vocali/vocali-backend/app/controller"
	"github.com/vocali/vocali-backend/app/middleware"
	"github.com/vocali/vocali-backend/app/repository"
	"github.com/vocali/vocali-backend/app/service"
	"github.com/vocali/vocali-backend/app/storage"
	"github.com/vocali/vocali-backend/config"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Run:   runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	if err := configureLogging(cfg); err != nil {
		logrus.WithError(err).Fatal("Failed to configure logging")
	}

	db, err := gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to database")
	}

	userRepo := repository.NewUserRepository(db)
	audioRepo := repository.NewAudioFileRepository(db)

	blobStore := newBlobStore(cfg)
	sender := service.NewSender(cfg.Email)

	tokenService := service.NewTokenService(cfg)
	authService := service.NewAuthService(userRepo, tokenService, sender, cfg)
	audioService := service.NewAudioService(audioRepo, blobStore)

	startHTTPServer(cfg, authService, audioService)
}

func newBlobStore(cfg *config.Config) storage.BlobStore {
	if cfg.Storage.Driver == config.StorageDriverMinio {
		store, err := storage.NewMinioStore(cfg.Storage)
		if err != nil {
			logrus.WithError(err).Fatal("Failed to initialize object store")
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := store.EnsureBucket(ctx); err != nil {
			logrus.WithError(err).Fatal("Failed to ensure bucket")
		}
		return store
	}
	return storage.NewDiskStore(cfg.Storage.UploadDir, cfg.PublicBaseURL)
}

func startHTTPServer(cfg *config.Config, authService *service.AuthService, audioService *service.AudioService) {
	e := echo.New()
	defer e.Close()
	e.HideBanner = true

	e.Use(echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogRemoteIP:  true,
		LogLatency:   true,
		LogUserAgent: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			fields := logrus.Fields{
				"remote_ip":  v.RemoteIP,
				"host":       v.Host,
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency":    v.Latency.String(),
				"latency_ns": v.Latency.Nanoseconds(),
				"user_agent": v.UserAgent,
			}
			entry := logrus.WithFields(fields)
			if v.Error != nil {
				entry = entry.WithError(v.Error)
			}
			entry.Info("http_request")
			return nil
		},
	}))
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowCredentials: true,
	}))

	authController := controller.NewAuthController(authService, cfg)
	audioController := controller.NewAudioController(audioService)
	authMiddleware := middleware.NewAuthMiddleware(authService)

	auth := e.Group("/auth")
	auth.POST("/signup", authController.Signup)
	auth.POST("/signin", authController.Signin)
	auth.POST("/confirm-signup", authController.ConfirmSignup)
	auth.POST("/resend-confirmation-code", authController.ResendConfirmation)
	auth.POST("/forgot-password", authController.ForgotPassword)
	auth.POST("/confirm-forgot-password", authController.ConfirmForgotPassword)
	auth.POST("/refresh", authController.Refresh)

	authProtected := auth.Group("")
	authProtected.Use(authMiddleware.RequireAuth)
	authProtected.POST("/logout", authController.Logout)
	authProtected.GET("/me", authController.Me)

	audio := e.Group("/audio")
	audio.Use(authMiddleware.RequireAuth)
	audio.POST("/upload", audioController.Upload)
	audio.GET("/files", audioController.Files)

	if cfg.Storage.Driver == config.StorageDriverDisk {
		e.Static("/uploads", cfg.Storage.UploadDir)
	}

	httpAddr := net.JoinHostPort(cfg.HTTPHost, cfg.HTTPPort)
	logrus.WithField("addr", httpAddr).Info("Starting HTTP server")
	if err := e.Start(httpAddr); err != nil {
		logrus.WithError(err).Fatal("Failed to start HTTP server")
	}
}
