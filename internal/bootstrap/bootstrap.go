package bootstrap

import (
	"github.com/sanyaade-fintechnology/aiotrade/internal/domain/bus"
	"github.com/sanyaade-fintechnology/aiotrade/pkg/config"
	"github.com/sanyaade-fintechnology/aiotrade/pkg/logger"
	"github.com/sanyaade-fintechnology/aiotrade/pkg/questdb"
)

// Bootstrap wires the market-data cache components together.
type Bootstrap struct {
	Repository Repository
	Core       Core
	Logger     logger.Interface

	QuestDB questdb.Client
	Bus     bus.Bus
	Config  *config.Config
}

// BootstrapConfig is the config for the bootstrap.
type BootstrapConfig struct {
	QuestDB questdb.Client
	Bus     bus.Bus
	Logger  logger.Interface
	Config  *config.Config
}

// Init initializes the bootstrap.
func (b *Bootstrap) Init(config BootstrapConfig) (Bootstrap, error) {
	b.QuestDB = config.QuestDB
	b.Bus = config.Bus
	b.Logger = config.Logger
	b.Config = config.Config

	b.registerRepository()
	if err := b.registerCore(); err != nil {
		return Bootstrap{}, err
	}

	return *b, nil
}
