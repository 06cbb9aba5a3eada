package main

import (
	"context"
	"log"
	"time"

	adapthttp "eventfeed/internal/adapter/http"
	"eventfeed/internal/adapter/memory"
	"eventfeed/internal/adapter/mongo"
	"eventfeed/internal/adapter/objectstore"
	"eventfeed/internal/app"
	"eventfeed/internal/config"
	"eventfeed/internal/domain"

	"github.com/coreos/go-oidc/v3/oidc"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

func main() {
	cfg, err := config.Read()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := mongo.Open(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
	cancel()
	if err != nil {
		logger.Fatal("mongo open", zap.Error(err))
	}
	defer func() { _ = db.Close(context.Background()) }()

	pubRepo := mongo.NewPublicationRepo(db)
	userRepo := mongo.NewUserRepo(db)

	var media domain.MediaStore
	if cfg.S3.Host != "" {
		store, err := objectstore.New(cfg.S3.Host, cfg.S3.AccessKey, cfg.S3.SecretKey, cfg.S3.Bucket, cfg.S3.UseSSL)
		if err != nil {
			logger.Fatal("object store", zap.Error(err))
		}
		media = store
	} else {
		logger.Warn("S3_HOST not set, media uploads are held in memory")
		media = memory.NewMediaStore()
	}

	pubSvc := app.NewPublicationService(pubRepo, media, logger)
	userSvc := app.NewUserService(userRepo, pubRepo, media, logger)
	authSvc := app.NewAuthService(userRepo, []byte(cfg.Auth.Secret), cfg.Auth.TokenTTL, logger)

	var sso adapthttp.SSOConfig
	if cfg.SSO.Issuer != "" {
		provider, err := oidc.NewProvider(context.Background(), cfg.SSO.Issuer)
		if err != nil {
			logger.Fatal("oidc provider", zap.Error(err))
		}
		sso = adapthttp.SSOConfig{
			Enabled:  true,
			Provider: provider,
			OAuth2Config: oauth2.Config{
				ClientID:     cfg.SSO.ClientID,
				ClientSecret: cfg.SSO.ClientSecret,
				RedirectURL:  cfg.SSO.RedirectURL,
				Endpoint:     provider.Endpoint(),
				Scopes:       []string{oidc.ScopeOpenID, "email", "profile"},
			},
		}
	}

	srv := adapthttp.New(pubSvc, userSvc, authSvc, sso, cfg.HTTP.AllowedOrigins, logger)
	logger.Info("listening", zap.String("port", cfg.HTTP.Port))
	if err := srv.Router().Run(":" + cfg.HTTP.Port); err != nil {
		logger.Fatal("server", zap.Error(err))
	}
}
