package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/restate/config"
	"github.com/Domenick1991/restate/internal/cache"
	"github.com/Domenick1991/restate/internal/kafka"
	"github.com/Domenick1991/restate/internal/push"
	"github.com/Domenick1991/restate/internal/repository"
	"github.com/Domenick1991/restate/internal/service/booking"
	"github.com/Domenick1991/restate/internal/service/notifications"
	"github.com/Domenick1991/restate/internal/service/payouts"
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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()
	redisCache := cache.NewRedisCache(cfg.Redis, cfg.Booking.PropertiesTTL())
	defer redisCache.Close()

	pusher, err := push.NewFCMSender(ctx, cfg.Push.CredentialsFile)
	if err != nil {
		log.Fatalf("init push: %v", err)
	}

	events := kafka.NewEmitter(producer, cfg.Kafka.EventsTopic, cfg.Kafka.NotificationsTopic)

	bookingRepo := repository.NewBookingRepository(pool)
	paymentRepo := repository.NewPaymentRepository(pool)
	payoutRepo := repository.NewPayoutRepository(pool)

	bookingService := booking.NewBookingService(
		bookingRepo,
		repository.NewPropertyRepository(pool),
		paymentRepo,
		redisCache,
		events,
		cfg.Booking.LockTTL(),
	)
	payoutService := payouts.NewPayoutService(payoutRepo, paymentRepo, events, cfg.Payouts.Delay(), cfg.Payouts.Currency)
	notificationService := notifications.NewNotificationService(repository.NewNotificationRepository(pool), redisCache, pusher)

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic)
	defer consumer.Close()

	go func() {
		if err := consumer.ConsumeEvents(ctx, func(ctx context.Context, event kafka.Event) error {
			return notificationService.HandleEvent(ctx, event)
		}); err != nil {
			log.Printf("consumer stopped: %v", err)
		}
	}()

	completionTicker := time.NewTicker(time.Duration(cfg.Worker.CompletionSweepMinutes) * time.Minute)
	defer completionTicker.Stop()
	payoutTicker := time.NewTicker(time.Duration(cfg.Worker.PayoutSweepMinutes) * time.Minute)
	defer payoutTicker.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-completionTicker.C:
			completed, err := bookingService.CompleteFinishedStays(ctx)
			if err != nil {
				log.Printf("complete stays error: %v", err)
				continue
			}
			if len(completed) > 0 {
				log.Printf("completed %d bookings", len(completed))
			}
		case <-payoutTicker.C:
			scheduled, err := payoutService.ScheduleDue(ctx)
			if err != nil {
				log.Printf("schedule payouts error: %v", err)
			} else if len(scheduled) > 0 {
				log.Printf("scheduled %d payouts", len(scheduled))
			}
			paid, err := payoutService.ProcessDue(ctx)
			if err != nil {
				log.Printf("process payouts error: %v", err)
				continue
			}
			if len(paid) > 0 {
				log.Printf("completed %d payouts", len(paid))
			}
		case s := <-sig:
			log.Printf("received signal %v, shutting down", s)
			return
		}
	}
}
