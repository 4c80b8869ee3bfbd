package bootstrap

import (
	"errors"
	"log"

	"listening-notes-be/internal/config"
	"listening-notes-be/internal/controller"
	"listening-notes-be/internal/pkg/logger"
	"listening-notes-be/internal/repository/contract"
	"listening-notes-be/internal/service"
	"listening-notes-be/pkg/events"
	pktNats "listening-notes-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type Container struct {
	// Controllers
	NoteController controller.INoteController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	Logger logger.ILogger

	closers []func() error
}

// NewContainer opens the configured note store and wires everything on top of it.
func NewContainer(cfg *config.Config) (*Container, error) {
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())

	noteRepository, closeStore, err := OpenNoteRepository(cfg.Store)
	if err != nil {
		return nil, err
	}
	sysLogger.Info("BOOTSTRAP", "note store ready", map[string]interface{}{"driver": cfg.Store.Driver})

	c := NewContainerWithRepository(cfg, noteRepository, sysLogger)
	c.closers = append(c.closers, closeStore)
	return c, nil
}

// NewContainerWithRepository wires services and controllers around an already open store.
func NewContainerWithRepository(cfg *config.Config, noteRepository contract.NoteRepository, sysLogger logger.ILogger) *Container {
	c := &Container{Logger: sysLogger}

	// Event Bus
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermill.NewStdLogger(false, false),
	)
	c.closers = append(c.closers, pubSub.Close)

	publishers := events.Fanout{service.NewPublisherService(cfg.Events.Topic, pubSub)}

	if cfg.Events.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.Events.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		} else {
			publishers = append(publishers, natsPub)
			c.closers = append(c.closers, func() error { natsPub.Close(); return nil })
		}
	}

	activityLogger := logger.NewIsolatedLogger(cfg.App.ActivityLogPath)
	c.closers = append(c.closers, activityLogger.Sync)
	c.ConsumerService = service.NewConsumerService(pubSub, cfg.Events.Topic, activityLogger)

	// Services
	noteService := service.NewNoteService(noteRepository, publishers, sysLogger)

	// Controllers
	c.NoteController = controller.NewNoteController(noteService, cfg.Auth.JwtSecret)

	return c
}

// Close releases the store, the event bus and log files, newest first.
func (c *Container) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
