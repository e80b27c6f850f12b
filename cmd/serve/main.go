package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	appLog "github.com/tribeshub/backend/internal/log"
	"github.com/tribeshub/backend/internal/middleware"
	"github.com/tribeshub/backend/internal/server"
	"github.com/tribeshub/backend/pkg/activity"
	"github.com/tribeshub/backend/pkg/chat"
	"github.com/tribeshub/backend/pkg/community"
	"github.com/tribeshub/backend/pkg/config"
	"github.com/tribeshub/backend/pkg/realtime"
	"github.com/tribeshub/backend/pkg/storage"
	"github.com/tribeshub/backend/pkg/streak"
	"github.com/tribeshub/backend/pkg/token"
	"github.com/tribeshub/backend/pkg/user"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	// .env is only present in local development
	_ = godotenv.Load()

	cfg := config.New()

	logger := slog.New(appLog.New(slog.NewJSONHandler(os.Stdout, nil)))
	slog.SetDefault(logger)

	db, err := storage.NewDatabase(logger, cfg.Postgresql)
	if err != nil {
		return err
	}

	redisClient, err := storage.NewRedis(cfg.Redis.Host, cfg.Redis.Port)
	if err != nil {
		return err
	}

	ctx := context.Background()
	uploader, err := storage.NewS3Uploader(ctx, cfg.S3.Region)
	if err != nil {
		return err
	}
	attachmentStore := storage.NewS3AttachmentStore(logger, uploader, cfg)

	activityRepository := activity.NewRepository(db)
	activityService := activity.NewService(logger, activityRepository)

	userRepository := user.NewRepository(db)
	userService := user.NewService(userRepository, activityService)

	tokenRepository := token.NewRepository(redisClient)
	tokenService := token.NewService(
		logger,
		tokenRepository,
		cfg.Authentication.Keys.GetPrivateKey(),
		cfg.Authentication.AccessTokenExpirationSeconds,
		cfg.Authentication.RefreshTokenSecretKey,
		cfg.Authentication.RefreshTokenExpirationSeconds,
	)

	communityRepository := community.NewRepository(db)
	communityService := community.NewService(communityRepository, activityService)

	streakRepository := streak.NewRepository(db)
	streakService := streak.NewService(logger, streakRepository, activityService)

	broker := realtime.NewBroker(logger)

	chatRepository := chat.NewRepository(db)
	chatService := chat.NewService(logger, chatRepository, userService, communityService,
		attachmentStore, streakService, activityService, broker)

	authenticationMiddleware := middleware.NewAuthentication(logger, cfg.Authentication.Keys.GetPublicKey(), userService)
	authorizationMiddleware := middleware.NewAuthorization(logger, userService)

	r, err := server.NewEngine(logger)
	if err != nil {
		return err
	}

	user.Routes(r, authenticationMiddleware, user.NewHandler(cfg, userService, tokenService))
	community.Routes(r, authenticationMiddleware.TokenAuthentication, community.NewHandler(communityService))
	chat.Routes(r, authenticationMiddleware.TokenAuthentication, chat.NewHandler(chatService))
	realtime.Routes(r, authenticationMiddleware.TokenAuthentication, realtime.NewHandler(logger, broker, communityService))
	activity.Routes(r, authenticationMiddleware.TokenAuthentication, authorizationMiddleware.RequireAdministrator, activity.NewHandler(activityService))

	return r.Run(":" + cfg.ServerPort)
}
