package app

import (
	"fmt"

	"github.com/yungbote/bexps-backend/internal/platform/filestore"
	"github.com/yungbote/bexps-backend/internal/platform/logger"
	"github.com/yungbote/bexps-backend/internal/realtime/bus"
)

type Clients struct {
	Files  filestore.Store
	Events bus.Bus
}

func wireClients(log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	files, err := resolveFileStore(log, cfg)
	if err != nil {
		return Clients{}, fmt.Errorf("init file store: %w", err)
	}

	// Redis
	events := bus.NewNoopBus()
	if cfg.RedisAddr != "" {
		b, err := bus.NewRedisBus(log, cfg.RedisAddr, cfg.RedisChannel)
		if err != nil {
			return Clients{}, fmt.Errorf("init redis model bus: %w", err)
		}
		events = b
	} else {
		log.Info("REDIS_ADDR not set; model events are not published")
	}

	return Clients{Files: files, Events: events}, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.Events != nil {
		_ = c.Events.Close()
	}
}
