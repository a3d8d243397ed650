package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"

	"github.com/AnthoniusHendriyanto/social-core/config"
	"github.com/AnthoniusHendriyanto/social-core/db"
	authhandler "github.com/AnthoniusHendriyanto/social-core/internal/auth/handler"
	"github.com/AnthoniusHendriyanto/social-core/internal/auth/session"
	authservice "github.com/AnthoniusHendriyanto/social-core/internal/auth/service"
	"github.com/AnthoniusHendriyanto/social-core/internal/event"
	"github.com/AnthoniusHendriyanto/social-core/internal/feedcache"
	"github.com/AnthoniusHendriyanto/social-core/internal/middleware"
	notifhandler "github.com/AnthoniusHendriyanto/social-core/internal/notification/handler"
	notifrepo "github.com/AnthoniusHendriyanto/social-core/internal/notification/repository/postgres"
	notifservice "github.com/AnthoniusHendriyanto/social-core/internal/notification/service"
	"github.com/AnthoniusHendriyanto/social-core/internal/outbox"
	posthandler "github.com/AnthoniusHendriyanto/social-core/internal/post/handler"
	postrepo "github.com/AnthoniusHendriyanto/social-core/internal/post/repository/postgres"
	postservice "github.com/AnthoniusHendriyanto/social-core/internal/post/service"
	redisclient "github.com/AnthoniusHendriyanto/social-core/internal/redis"
	userhandler "github.com/AnthoniusHendriyanto/social-core/internal/user/handler"
	userrepo "github.com/AnthoniusHendriyanto/social-core/internal/user/repository/postgres"
	userservice "github.com/AnthoniusHendriyanto/social-core/internal/user/service"
)

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbPool, err := db.NewPostgresPool(ctx, cfg.DBURL)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer dbPool.Close()

	rdb, err := redisclient.New(cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer rdb.Close()

	bus := event.NewStreamBus(rdb)

	graphService := userservice.NewGraphService(userrepo.NewRepository(dbPool))

	tokenService := authservice.NewTokenService(cfg.AccessTokenSecret, cfg.RefreshTokenSecret,
		cfg.AccessTokenExpiry, cfg.RefreshTokenExpiry)
	authService := authservice.NewAuthService(graphService, session.NewRedisStore(rdb), tokenService)

	postService := postservice.NewPostService(postrepo.NewRepository(dbPool), graphService)
	cache := feedcache.New(rdb, cfg.FeedCacheTTL)

	notificationService := notifservice.NewNotificationService(notifrepo.NewRepository(dbPool), graphService)

	relay := outbox.NewRelay(outbox.NewRepository(dbPool), bus, cfg.OutboxPollInterval)
	go relay.Run(ctx)

	mustSubscribe(ctx, bus, event.TopicPostCreated, "feed-cache", cache.HandlePostCreated)
	mustSubscribe(ctx, bus, event.TopicPostCreated, "notifications", notificationService.HandlePostCreated)
	mustSubscribe(ctx, bus, event.TopicUserFollowed, "notifications", notificationService.HandleUserFollowed)

	requireAuth := middleware.RequireAuth(tokenService)

	app := fiber.New()
	authhandler.RegisterRoutes(app, authhandler.NewAuthHandler(authService), requireAuth)
	userhandler.RegisterRoutes(app, userhandler.NewUserHandler(graphService), requireAuth)
	posthandler.RegisterRoutes(app, posthandler.NewPostHandler(postService, cache), requireAuth)
	notifhandler.RegisterRoutes(app, notifhandler.NewNotificationHandler(notificationService), requireAuth)

	go func() {
		<-ctx.Done()
		_ = app.Shutdown()
	}()

	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}

func mustSubscribe(ctx context.Context, bus *event.StreamBus, topic, group string, handler event.Handler) {
	if err := bus.Subscribe(ctx, topic, group, "worker-1", handler); err != nil {
		log.Fatalf("subscribe %s/%s: %v", topic, group, err)
	}
}
