package bootstrap

import (
	moneyflowInfra "github.com/sanyaade-fintechnology/aiotrade/internal/infrastructure/questdb/moneyflow"
	quoteInfra "github.com/sanyaade-fintechnology/aiotrade/internal/infrastructure/questdb/quote"
	tickInfra "github.com/sanyaade-fintechnology/aiotrade/internal/infrastructure/questdb/tick"
)

// Repository holds the persisted stores.
type Repository struct {
	QuoteStore     quoteInfra.Store
	MoneyFlowStore moneyflowInfra.Store
	TickStore      tickInfra.Store
}

// registerRepository registers the repository.
func (b *Bootstrap) registerRepository() {
	b.Repository.QuoteStore = quoteInfra.NewRepository(b.QuestDB)
	b.Repository.MoneyFlowStore = moneyflowInfra.NewRepository(b.QuestDB)
	b.Repository.TickStore = tickInfra.NewRepository(b.QuestDB)
}
