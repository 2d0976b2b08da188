package main

import (
	"os"

	"visitdesk/internal/scheduling/events"
	"visitdesk/internal/scheduling/handler"
	"visitdesk/internal/scheduling/repository"
	"visitdesk/internal/scheduling/service"
	"visitdesk/internal/scheduling/validator"
	"visitdesk/pkg/app"
	"visitdesk/pkg/config"
	"visitdesk/pkg/contracts"
	"visitdesk/pkg/kafka"
	kafka_config "visitdesk/pkg/kafka/config"
	kafka_middleware "visitdesk/pkg/kafka/middleware"
)

func main() {
	cfg := config.Load("scheduling-service")
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	publisher := initPublisher(cfg)
	defer publisher.Close()

	schedulingHandler := initHandlers(cfg, publisher)

	application := &app.Application{}
	application.SetApp(cfg, schedulingHandler)
	application.Run()
}

// initPublisher wires the Kafka producer, or a noop publisher when no broker
// is configured so the engine can run standalone.
func initPublisher(cfg *config.Config) events.Publisher {
	if os.Getenv(kafka_config.EnvKafkaBrokers) == "" {
		cfg.Log.Warn("No Kafka brokers configured, domain events will be discarded")
		return events.NoopPublisher{}
	}

	kafkaCfg := kafka_config.Load()
	producer, err := kafka.NewProducer(kafkaCfg, events.TopicMeetings, events.TopicMeetingsDLQ)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}

	if kafkaCfg.EnableMiddleware {
		producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))
	}

	cfg.Log.Info("Kafka producer initialized",
		"brokers", kafkaCfg.Brokers,
		"topic", events.TopicMeetings,
	)
	return events.NewKafkaPublisher(producer, cfg.Log)
}

func initHandlers(cfg *config.Config, publisher events.Publisher) contracts.Handler {
	meetingRepo := repository.NewMongoMeetingRepository(cfg)
	blockRepo := repository.NewMongoBlockRepository(cfg)
	roomRepo := repository.NewMongoRoomRepository(cfg)
	principalRepo := repository.NewMongoPrincipalRepository(cfg)
	delegationRepo := repository.NewMongoDelegationRepository(cfg)
	overrideRepo := repository.NewMongoOverrideRecordRepository(cfg)
	lockRepo := repository.NewMongoBookingLockRepository(cfg)

	bookingValidator := validator.NewBookingValidator(cfg.Log)

	availabilityService := service.NewAvailabilityService(meetingRepo, blockRepo, cfg)
	slotService := service.NewSlotService(availabilityService, cfg)
	conflictService := service.NewConflictService(meetingRepo, blockRepo, cfg)
	roomService := service.NewRoomService(roomRepo, meetingRepo, cfg)
	delegationService := service.NewDelegationService(
		delegationRepo,
		principalRepo,
		meetingRepo,
		bookingValidator,
		publisher,
		cfg,
	)
	blockService := service.NewBlockService(blockRepo, delegationService, bookingValidator, publisher, cfg)
	bookingService := service.NewBookingService(
		meetingRepo,
		lockRepo,
		overrideRepo,
		conflictService,
		roomService,
		slotService,
		delegationService,
		bookingValidator,
		publisher,
		cfg,
	)

	cfg.Log.Info("Scheduling services initialized")

	return handler.NewSchedulingHandler(
		handler.NewBookingHandler(bookingService, cfg.Log),
		handler.NewAvailabilityHandler(availabilityService, slotService, conflictService, cfg, cfg.Log),
		handler.NewBlockHandler(blockService, cfg.Log),
		handler.NewDelegationHandler(delegationService, cfg.Log),
		handler.NewRoomHandler(roomService, cfg.Log),
	)
}
