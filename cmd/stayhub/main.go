package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"stayhub/internal/app/commands"
	blackoutapp "stayhub/internal/app/handlers/blackout"
	bookingapp "stayhub/internal/app/handlers/booking"
	listingapp "stayhub/internal/app/handlers/listings"
	meapp "stayhub/internal/app/handlers/me"
	"stayhub/internal/app/middleware"
	appoutbox "stayhub/internal/app/outbox"
	"stayhub/internal/app/projection"
	"stayhub/internal/app/queries"
	"stayhub/internal/app/uow"
	"stayhub/internal/infra/broker/kafka"
	"stayhub/internal/infra/config"
	inframongo "stayhub/internal/infra/db/mongo"
	ginserver "stayhub/internal/infra/http/gin"
	"stayhub/internal/infra/obs"
	infraoutbox "stayhub/internal/infra/outbox"
	"stayhub/internal/infra/storage/memory"
	"stayhub/internal/infra/validation"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration invalid", "error", err)
		os.Exit(1)
	}
	logger := obs.NewLogger(cfg.Env)

	app, err := buildApplication(ctx, cfg, logger)
	if err != nil {
		logger.Error("application wiring failed", "error", err)
		os.Exit(1)
	}

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{
		Probes: app.probes,
	}, app.handlers)

	if app.worker != nil {
		go func() {
			if err := app.worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("outbox worker stopped", "error", err)
			}
		}()
	}
	if app.consumer != nil {
		go func() {
			topics := []string{app.bookingsTopic, app.statusTopic}
			if err := app.consumer.Run(ctx, topics); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("trip consumer stopped", "error", err)
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
		if app.consumer != nil {
			_ = app.consumer.Close()
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "storage", cfg.StorageMode)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

type application struct {
	handlers      ginserver.Handlers
	probes        map[string]obs.ReadinessProbe
	worker        *infraoutbox.Worker
	consumer      *kafka.Consumer
	bookingsTopic string
	statusTopic   string
}

func buildApplication(ctx context.Context, cfg config.Config, logger *slog.Logger) (application, error) {
	var (
		uowFactory  uow.UoWFactory
		outboxStore appoutbox.Outbox
		workerStore infraoutbox.Store
		idStore     middleware.IdempotencyStore
		tripStore   projection.Store
		probes      = map[string]obs.ReadinessProbe{}
	)

	switch cfg.StorageMode {
	case "mongo":
		client, err := inframongo.New(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return application{}, err
		}
		if err := client.Ping(ctx); err != nil {
			return application{}, err
		}
		probes["mongo"] = client.Ping

		uowFactory = inframongo.Factory{
			DB:            client.DB,
			ListingsRepo:  inframongo.NewListingRepository(client.DB),
			BlackoutsRepo: inframongo.NewBlackoutRepository(client.DB),
			BookingsRepo:  inframongo.NewBookingRepository(client.DB),
		}
		store := inframongo.NewOutboxStore(client.DB)
		outboxStore = store
		workerStore = store
		mongoIdStore := inframongo.NewIdempotencyStore(client.DB, cfg.IdempotencyTTL)
		if err := mongoIdStore.EnsureIndexes(ctx); err != nil {
			return application{}, err
		}
		idStore = mongoIdStore
		tripStore = inframongo.NewTripStore(client.DB)
	default:
		uowFactory = memory.NewFactory()
		store := memory.NewOutboxStore()
		outboxStore = store
		workerStore = store
		idStore = memory.NewIdempotencyStore()
		tripStore = memory.NewTripStore()
	}

	commandBus := commands.NewInMemoryBus()
	decideHandler := &bookingapp.DecideBookingHandler{UoWFactory: uowFactory, Outbox: outboxStore}
	manageListings := &listingapp.ManageListingHandler{UoWFactory: uowFactory}
	manageBlackouts := &blackoutapp.ManageBlackoutHandler{UoWFactory: uowFactory}
	commands.RegisterHandler(commandBus, bookingapp.RequestBookingCommand{}.Key(),
		&bookingapp.RequestBookingHandler{UoWFactory: uowFactory, Outbox: outboxStore})
	commands.RegisterHandler(commandBus, bookingapp.AcceptBookingCommand{}.Key(), bookingapp.AcceptBookingHandler{DecideBookingHandler: decideHandler})
	commands.RegisterHandler(commandBus, bookingapp.RejectBookingCommand{}.Key(), bookingapp.RejectBookingHandler{DecideBookingHandler: decideHandler})
	commands.RegisterHandler(commandBus, bookingapp.CancelBookingCommand{}.Key(), bookingapp.CancelBookingHandler{DecideBookingHandler: decideHandler})
	commands.RegisterHandler(commandBus, listingapp.CreateListingCommand{}.Key(), listingapp.CreateListingHandler{ManageListingHandler: manageListings})
	commands.RegisterHandler(commandBus, listingapp.UpdateListingCommand{}.Key(), listingapp.UpdateListingHandler{ManageListingHandler: manageListings})
	commands.RegisterHandler(commandBus, listingapp.DeleteListingCommand{}.Key(), listingapp.DeleteListingHandler{ManageListingHandler: manageListings})
	commands.RegisterHandler(commandBus, blackoutapp.AddBlackoutCommand{}.Key(), blackoutapp.AddBlackoutHandler{ManageBlackoutHandler: manageBlackouts})
	commands.RegisterHandler(commandBus, blackoutapp.RemoveBlackoutCommand{}.Key(), blackoutapp.RemoveBlackoutHandler{ManageBlackoutHandler: manageBlackouts})

	queryBus := queries.NewInMemoryBus()
	queries.RegisterHandler(queryBus, listingapp.SearchCatalogQuery{}.Key(),
		&listingapp.SearchCatalogHandler{UoWFactory: uowFactory, Logger: logger})
	queries.RegisterHandler(queryBus, listingapp.GetListingQuery{}.Key(),
		&listingapp.GetListingHandler{UoWFactory: uowFactory})
	queries.RegisterHandler(queryBus, listingapp.ListOwnerListingsQuery{}.Key(),
		&listingapp.ListOwnerListingsHandler{UoWFactory: uowFactory})
	queries.RegisterHandler(queryBus, bookingapp.ListOwnerBookingsQuery{}.Key(),
		&bookingapp.ListOwnerBookingsHandler{UoWFactory: uowFactory, Logger: logger})
	queries.RegisterHandler(queryBus, blackoutapp.ListBlackoutsQuery{}.Key(),
		&blackoutapp.ListBlackoutsHandler{UoWFactory: uowFactory})
	travelerBookings := &meapp.ListTravelerBookingsHandler{UoWFactory: uowFactory, Logger: logger}
	queries.RegisterHandler(queryBus, meapp.ListTravelerBookingsQuery{}.Key(), travelerBookings)
	queries.RegisterHandler(queryBus, meapp.ListTravelerHistoryQuery{}.Key(),
		&meapp.ListTravelerHistoryHandler{ListTravelerBookingsHandler: *travelerBookings})

	locks := middleware.NewKeyedMutex()
	commandBusWithMiddleware := middleware.ChainCommands(
		commandBus,
		middleware.Validation(validation.New()),
		middleware.Idempotency(idStore, nil),
		middleware.Serialization(locks, bookingapp.ListingLockResolver(uowFactory)),
		middleware.Transaction(uowFactory, nil),
		middleware.OutboxFlush(outboxStore),
	)
	queryBusWithMiddleware := middleware.ChainQueries(queryBus)

	app := application{
		handlers: ginserver.Handlers{
			Booking:        ginserver.BookingHandler{Commands: commandBusWithMiddleware},
			OwnerBooking:   ginserver.OwnerBookingHandler{Commands: commandBusWithMiddleware, Queries: queryBusWithMiddleware},
			Listing:        ginserver.ListingHandler{Queries: queryBusWithMiddleware},
			OwnerListing:   ginserver.OwnerListingHandler{Commands: commandBusWithMiddleware, Queries: queryBusWithMiddleware},
			Blackout:       ginserver.BlackoutHandler{Commands: commandBusWithMiddleware, Queries: queryBusWithMiddleware},
			Me:             ginserver.MeHandler{Queries: queryBusWithMiddleware},
			AuthMiddleware: ginserver.GatewayAuthMiddleware(),
		},
		probes:        probes,
		bookingsTopic: cfg.KafkaTopicPrefix + "bookings",
		statusTopic:   cfg.KafkaTopicPrefix + "booking-status",
	}

	if len(cfg.KafkaBrokers) == 0 {
		logger.Warn("no kafka brokers configured, outbox worker and trip consumer disabled")
		return app, nil
	}

	producer, err := kafka.NewProducer(cfg.KafkaBrokers, nil)
	if err != nil {
		return application{}, err
	}
	app.worker = &infraoutbox.Worker{
		Store:       workerStore,
		Producer:    producer,
		Interval:    cfg.OutboxPollInterval,
		TopicPrefix: cfg.KafkaTopicPrefix,
		Backoff:     cfg.RetryBackoff,
	}

	consumer, err := kafka.NewConsumer(cfg.KafkaBrokers, cfg.KafkaGroupID, nil, &kafka.TripProjectionHandler{
		Applier:       &projection.Applier{Store: tripStore, Logger: logger},
		BookingsTopic: app.bookingsTopic,
		StatusTopic:   app.statusTopic,
		Logger:        logger,
	})
	if err != nil {
		return application{}, err
	}
	app.consumer = consumer

	return app, nil
}
