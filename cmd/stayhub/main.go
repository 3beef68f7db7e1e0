package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"stayhub/internal/app/commands"
	availabilityapp "stayhub/internal/app/handlers/availability"
	bookingapp "stayhub/internal/app/handlers/booking"
	"stayhub/internal/app/middleware"
	appoutbox "stayhub/internal/app/outbox"
	"stayhub/internal/app/policies"
	"stayhub/internal/app/queries"
	"stayhub/internal/app/uow"
	domainbooking "stayhub/internal/domain/booking"
	domainroom "stayhub/internal/domain/room"
	kafkabroker "stayhub/internal/infra/broker/kafka"
	"stayhub/internal/infra/config"
	mongodb "stayhub/internal/infra/db/mongo"
	ginserver "stayhub/internal/infra/http/gin"
	"stayhub/internal/infra/obs"
	infraoutbox "stayhub/internal/infra/outbox"
	"stayhub/internal/infra/storage/memory"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_ = godotenv.Load()

	env := getenv("APP_ENV", "dev")
	logger := obs.NewLogger(env)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("configuration invalid", "error", err)
		os.Exit(1)
	}

	app, err := buildApplication(ctx, cfg, logger)
	if err != nil {
		logger.Error("application wiring failed", "error", err)
		os.Exit(1)
	}
	defer app.close()

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{
		Checks: app.readiness,
	}, app.handlers)

	fixturesPath := cfg.RoomFixtures
	if fixturesPath == "" {
		fixturesPath = defaultRoomFixturesPath()
	}
	if err := app.loadRoomFixtures(ctx, fixturesPath, logger); err != nil {
		logger.Warn("room fixtures load failed", "error", err, "path", fixturesPath)
	}

	if app.worker != nil {
		go func() {
			if err := app.worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("outbox worker stopped", "error", err)
			}
		}()
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "persistence", cfg.PersistenceMode)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

type application struct {
	handlers  ginserver.Handlers
	readiness map[string]obs.ReadinessCheck
	worker    *infraoutbox.Worker
	seedRoom  func(ctx context.Context, rm *domainroom.Room) error
	closers   []func() error
}

func buildApplication(ctx context.Context, cfg config.Config, logger *slog.Logger) (*application, error) {
	app := &application{readiness: map[string]obs.ReadinessCheck{}}

	var (
		uowFactory  uow.Factory
		outboxStore appoutbox.Outbox
		source      infraoutbox.Source
		loyalty     policies.Loyalty
		idemStore   middleware.IdempotencyStore
	)

	switch cfg.PersistenceMode {
	case "mongo":
		client, err := mongodb.New(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, fmt.Errorf("mongo connect: %w", err)
		}
		app.readiness["mongo"] = client.Ping

		roomRepo := mongodb.NewRoomRepository(client.DB)
		bookingRepo := mongodb.NewBookingRepository(client.DB)
		uowFactory = mongodb.Factory{DB: client.DB, RoomRepo: roomRepo, BookingRepo: bookingRepo}

		store := infraoutbox.NewMongoStore(client.DB)
		outboxStore = store
		source = store
		loyalty = mongodb.NewLoyaltyRepository(client.DB)
		idemStore = memory.NewIdempotencyStore()
		app.seedRoom = func(ctx context.Context, rm *domainroom.Room) error {
			return roomRepo.Save(ctx, rm)
		}
	default:
		store := memory.NewStore()
		uowFactory = memory.Factory{Store: store}
		ob := memory.NewOutboxStore()
		outboxStore = ob
		source = ob
		loyalty = memory.NewLoyaltyStore()
		idemStore = memory.NewIdempotencyStore()
		app.seedRoom = func(_ context.Context, rm *domainroom.Room) error {
			store.SeedRoom(rm)
			return nil
		}
	}

	ledger := domainbooking.NewLedger()
	ledger.TolerancePercent = cfg.PriceTolerancePct
	ledger.MinModifyNoticeHours = float64(cfg.MinModifyNoticeHrs)

	commandBus := commands.NewInMemoryBus()
	commands.RegisterHandler(commandBus, bookingapp.ReserveBookingCommand{}.Key(), &bookingapp.ReserveBookingHandler{
		UoWFactory: uowFactory,
		Ledger:     ledger,
		Outbox:     outboxStore,
		Encoder:    appoutbox.JSONEventEncoder{},
		Loyalty:    loyalty,
		Logger:     logger,
	})
	commands.RegisterHandler(commandBus, bookingapp.CancelBookingCommand{}.Key(), &bookingapp.CancelBookingHandler{
		UoWFactory: uowFactory,
		Ledger:     ledger,
		Outbox:     outboxStore,
		Encoder:    appoutbox.JSONEventEncoder{},
		Loyalty:    loyalty,
		Logger:     logger,
	})
	commands.RegisterHandler(commandBus, bookingapp.ModifyBookingCommand{}.Key(), &bookingapp.ModifyBookingHandler{
		UoWFactory: uowFactory,
		Ledger:     ledger,
		Outbox:     outboxStore,
		Encoder:    appoutbox.JSONEventEncoder{},
	})

	queryBus := queries.NewInMemoryBus()
	queries.RegisterHandler(queryBus, availabilityapp.CheckAvailabilityQuery{}.Key(), &availabilityapp.CheckAvailabilityHandler{
		UoWFactory: uowFactory,
	})
	queries.RegisterHandler(queryBus, bookingapp.ListGuestBookingsQuery{}.Key(), &bookingapp.ListGuestBookingsHandler{
		UoWFactory: uowFactory,
	})

	commandBusWithMiddleware := middleware.ChainCommands(
		commandBus,
		middleware.Validation(),
		middleware.Idempotency(idemStore),
	)

	if len(cfg.KafkaBrokers) > 0 {
		producer, err := kafkabroker.NewProducer(cfg.KafkaBrokers, nil)
		if err != nil {
			return nil, fmt.Errorf("kafka connect: %w", err)
		}
		app.closers = append(app.closers, producer.Close)
		app.worker = &infraoutbox.Worker{
			Source:      source,
			Producer:    producer,
			Logger:      logger,
			Interval:    cfg.OutboxPollInterval,
			TopicPrefix: cfg.KafkaTopicPrefix,
			Backoff:     cfg.RetryBackoff,
		}
	} else {
		logger.Warn("no kafka brokers configured, booking events stay in the outbox")
	}

	app.handlers = ginserver.Handlers{
		Booking: ginserver.BookingHandler{
			Commands: commandBusWithMiddleware,
			Queries:  queryBus,
		},
		Availability: ginserver.AvailabilityHandler{
			Queries: queryBus,
		},
	}
	return app, nil
}

func (a *application) close() {
	for _, fn := range a.closers {
		if err := fn(); err != nil {
			slog.Warn("close failed", "error", err)
		}
	}
}

func (a *application) loadRoomFixtures(ctx context.Context, path string, logger *slog.Logger) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Info("room fixtures file not found, skipping", "path", path)
			return nil
		}
		return fmt.Errorf("read fixtures: %w", err)
	}
	if len(data) == 0 {
		logger.Warn("room fixtures file empty", "path", path)
		return nil
	}

	var fixtures []roomFixture
	if err := json.Unmarshal(data, &fixtures); err != nil {
		return fmt.Errorf("decode fixtures: %w", err)
	}

	now := time.Now().UTC()
	for _, fx := range fixtures {
		rm, err := domainroom.New(domainroom.RoomID(fx.ID), fx.Name, fx.NightlyRate, now)
		if err != nil {
			logger.Error("fixture invalid", "room_id", fx.ID, "error", err)
			continue
		}
		rm.Type = fx.Type
		rm.MaxGuests = fx.MaxGuests
		if err := a.seedRoom(ctx, rm); err != nil {
			logger.Error("cannot store fixture room", "room_id", fx.ID, "error", err)
			continue
		}
		logger.Info("room fixture imported", "room_id", rm.ID)
	}
	return nil
}

type roomFixture struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	NightlyRate int64  `json:"nightly_rate"`
	MaxGuests   int    `json:"max_guests"`
}

func defaultRoomFixturesPath() string {
	candidates := []string{
		filepath.Join("data", "rooms.json"),
		filepath.Join("backend", "data", "rooms.json"),
	}
	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return candidates[0]
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
