package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/restate/api"
	"github.com/Domenick1991/restate/config"
	"github.com/Domenick1991/restate/internal/auth"
	"github.com/Domenick1991/restate/internal/bootstrap"
	"github.com/Domenick1991/restate/internal/cache"
	"github.com/Domenick1991/restate/internal/kafka"
	"github.com/Domenick1991/restate/internal/push"
	"github.com/Domenick1991/restate/internal/realtime"
	"github.com/Domenick1991/restate/internal/repository"
	"github.com/Domenick1991/restate/internal/service/booking"
	"github.com/Domenick1991/restate/internal/service/favorites"
	"github.com/Domenick1991/restate/internal/service/notifications"
	"github.com/Domenick1991/restate/internal/service/payments"
	"github.com/Domenick1991/restate/internal/service/payouts"
	"github.com/Domenick1991/restate/internal/service/profiles"
	"github.com/Domenick1991/restate/internal/service/properties"
	"github.com/Domenick1991/restate/internal/service/reviews"
	"github.com/Domenick1991/restate/internal/storage"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, cfg.Booking.PropertiesTTL())
	defer redisCache.Close()

	ratingCache := cache.NewRatingCache(redisCache, cfg.Booking.RatingTTL())
	defer ratingCache.Stop()

	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()
	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	if err := producer.CheckConnection(checkCtx); err != nil {
		log.Printf("WARNING: kafka is not reachable, events will be dropped: %v", err)
	}
	cancel()
	events := kafka.NewEmitter(producer, cfg.Kafka.EventsTopic, cfg.Kafka.NotificationsTopic)

	var (
		images  properties.ImageStore
		avatars profiles.FileStore
	)
	if cfg.Storage.Bucket != "" {
		s3, err := storage.NewS3Storage(cfg.Storage)
		if err != nil {
			log.Fatalf("init object storage: %v", err)
		}
		images, avatars = s3, s3
	} else {
		log.Printf("WARNING: storage.bucket is empty, uploads are disabled")
	}

	pusher, err := push.NewFCMSender(ctx, cfg.Push.CredentialsFile)
	if err != nil {
		log.Fatalf("init push: %v", err)
	}

	propertyRepo := repository.NewPropertyRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	paymentRepo := repository.NewPaymentRepository(pool)
	payoutRepo := repository.NewPayoutRepository(pool)
	reviewRepo := repository.NewReviewRepository(pool)
	favoriteRepo := repository.NewFavoriteRepository(pool)
	notificationRepo := repository.NewNotificationRepository(pool)
	profileRepo := repository.NewProfileRepository(pool)

	reviewService := reviews.NewReviewService(reviewRepo, propertyRepo, bookingRepo, ratingCache, events)
	propertyService := properties.NewPropertyService(propertyRepo, bookingRepo, redisCache, reviewService, images)
	bookingService := booking.NewBookingService(
		bookingRepo,
		propertyRepo,
		paymentRepo,
		redisCache,
		events,
		cfg.Booking.LockTTL(),
	)
	paymentService := payments.NewPaymentService(paymentRepo, bookingRepo, payoutRepo, events, cfg.Payouts.Currency)
	payoutService := payouts.NewPayoutService(payoutRepo, paymentRepo, events, cfg.Payouts.Delay(), cfg.Payouts.Currency)
	favoriteService := favorites.NewFavoriteService(favoriteRepo, propertyRepo)
	notificationService := notifications.NewNotificationService(notificationRepo, redisCache, pusher)
	profileService := profiles.NewProfileService(profileRepo, avatars)

	hub := realtime.NewHub(func(ctx context.Context, channel string) realtime.Subscription {
		return redisCache.Subscribe(ctx, channel)
	})

	deps := bootstrap.Dependencies{
		Verifier: auth.NewVerifier(cfg.Auth.JWTSecret),
		Hub:      hub,
		Handlers: []bootstrap.Registrar{
			api.NewPropertyHandler(propertyService),
			api.NewBookingHandler(bookingService),
			api.NewPaymentHandler(paymentService, payoutService),
			api.NewReviewHandler(reviewService),
			api.NewFavoriteHandler(favoriteService),
			api.NewNotificationHandler(notificationService),
			api.NewProfileHandler(profileService),
		},
	}

	log.Printf("listening on %s", cfg.HTTP.Address)
	if err := bootstrap.Run(ctx, cfg, deps); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
