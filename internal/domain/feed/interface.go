package feed

import (
	"context"
	"time"

	"github.com/sanyaade-fintechnology/aiotrade/internal/domain/market"
	"github.com/sanyaade-fintechnology/aiotrade/internal/domain/series"
)

//go:generate mockgen -source=interface.go -destination=mock/service_mock.go -package=mock

// FinishedLoading is the asynchronous signal a feed service emits when a
// requested history load has been fully delivered into the series.
type FinishedLoading struct {
	Series *series.Series
	Symbol string
	From   time.Time
	To     time.Time
}

// Service is a live upstream feed bound to data-source contracts. A
// subscription binds a contract to the series the feed delivers bars into.
// History requests return once issued; completion arrives later on the
// Finished channel.
type Service interface {
	Subscribe(ctx context.Context, contract *market.DataSourceContract, ser *series.Series) error
	Unsubscribe(ctx context.Context, contract *market.DataSourceContract) error
	IsSubscribed(contract *market.DataSourceContract) bool

	LoadHistory(ctx context.Context, contract *market.DataSourceContract, from time.Time) error

	StartRefresh(interval time.Duration)
	StopRefresh()

	Finished() <-chan FinishedLoading
}
