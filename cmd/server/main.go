package main // Entry point package

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/theatre-backoffice/internal/config"
	"github.com/iliyamo/theatre-backoffice/internal/database"
	"github.com/iliyamo/theatre-backoffice/internal/handler"
	"github.com/iliyamo/theatre-backoffice/internal/middleware"
	"github.com/iliyamo/theatre-backoffice/internal/queue"
	"github.com/iliyamo/theatre-backoffice/internal/repository"
	"github.com/iliyamo/theatre-backoffice/internal/router"
	"github.com/iliyamo/theatre-backoffice/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional; real environment wins

	cfg := config.Load()
	log := config.NewLogger(cfg.LogLevel, cfg.LogFormat)
	decimal.MarshalJSONWithoutQuotes = true // money as JSON numbers

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.WithError(err).Fatal("database connection failed")
	}
	defer db.Close()
	if cfg.DBMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			log.WithError(err).Fatal("schema migration failed")
		}
		log.Info("schema applied")
	}

	// Redis is optional: without it rate limiting, the export cache and the
	// cross-process sync lock are off.
	rdb := config.NewRedisClient(log)
	var locker service.Locker
	if rdb != nil {
		defer rdb.Close()
		locker = service.NewRedisLocker(rdb)
	} else {
		log.Warn("redis unavailable; rate limiting, export cache and sync lock disabled")
	}

	bookings := repository.NewBookingRepo(db)
	income := repository.NewDailyIncomeRepo(db)
	goals := repository.NewRevenueGoalRepo(db)
	notes := repository.NewNotificationRepo(db)
	users := repository.NewUserRepo(db)

	var publisher service.EventPublisher
	if cfg.RabbitMQURL != "" {
		publisher = service.NewPublisher(cfg.RabbitMQURL, log)
	}

	revenue := service.NewRevenueService(cfg.Engine, bookings, goals, nil, log)
	dailyIncome := service.NewDailyIncomeService(cfg.Engine, income, bookings, locker, log)
	notifier := service.NewNotifier(cfg.Engine, revenue, bookings, notes, users, publisher, nil, log)

	if cfg.RabbitMQURL != "" {
		consumer := &queue.RefundConsumer{
			URL:     cfg.RabbitMQURL,
			Handler: refundSync(dailyIncome),
			Log:     log.WithField("module", "refund-consumer"),
		}
		go func() {
			if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.WithError(err).Error("refund consumer stopped")
			}
		}()
	}
	go notifier.RunAlertLoop(ctx, cfg.AlertCheckInterval)

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.Use(echomw.Recover())
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.RequestLogger(log))

	router.RegisterRoutes(e, db, rdb)
	router.RegisterAPI(e, router.API{
		Revenue:       handler.NewRevenueHandler(revenue, log),
		DailyIncome:   handler.NewDailyIncomeHandler(dailyIncome, log),
		Notifications: handler.NewNotificationHandler(notifier, log),
		JWTSecret:     cfg.JWTSecret,
		RateLimit:     config.LoadRateLimitConfig(),
		Cache:         config.LoadCacheConfig(),
		Redis:         rdb,
		Log:           log,
	})

	addr := ":" + cfg.Port
	go func() {
		log.WithFields(logrus.Fields{"addr": addr, "env": cfg.Env}).Info("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("shutdown")
	}
	log.Info("stopped")
}

// refundSync refreshes the adjusted columns of the ledger row for the
// booking date of an approved refund.  A held sync lock means a run is in
// progress; the message is retried later.
func refundSync(s *service.DailyIncomeService) queue.RefundHandler {
	return func(ctx context.Context, ev queue.RefundApprovedEvent) error {
		_, err := s.RefreshAdjusted(ctx, ev.BookingDate)
		if errors.Is(err, service.ErrSyncInProgress) {
			return errors.Join(queue.ErrRetryLater, err)
		}
		return err
	}
}
