package errors

// ErrorCode represents a specific error code in the system.
type ErrorCode string

const (
	// GeneralInternalServerError represents a generic internal server error.
	GeneralInternalServerError ErrorCode = "general_internal_server_error"
	// GeneralBadRequestError represents a generic bad request error.
	GeneralBadRequestError ErrorCode = "general_bad_request_error"
	// GeneralNotFoundError represents a generic not found error.
	GeneralNotFoundError ErrorCode = "general_not_found_error"
	// GeneralRepositoryError represents a generic repository error.
	GeneralRepositoryError ErrorCode = "general_repository_error"

	// QuoteReadError represents an error while reading quote bars from the persisted store.
	QuoteReadError ErrorCode = "quote_read_error"
	// QuoteWriteError represents an error while writing quote bars to the persisted store.
	QuoteWriteError ErrorCode = "quote_write_error"
	// MoneyFlowReadError represents an error while reading money-flow bars from the persisted store.
	MoneyFlowReadError ErrorCode = "money_flow_read_error"
	// MoneyFlowWriteError represents an error while writing money-flow bars to the persisted store.
	MoneyFlowWriteError ErrorCode = "money_flow_write_error"
	// TickReadError represents an error while reading ticks from the persisted store.
	TickReadError ErrorCode = "tick_read_error"
	// TickWriteError represents an error while writing ticks to the persisted store.
	TickWriteError ErrorCode = "tick_write_error"

	// FrequencyUnsupportedError represents a frequency that no series or contract can serve.
	FrequencyUnsupportedError ErrorCode = "frequency_unsupported_error"
	// ContractUnresolvedError represents a frequency with no usable data-source contract.
	ContractUnresolvedError ErrorCode = "contract_unresolved_error"

	// FeedSubscribeError represents an error while subscribing a feed service to a contract.
	FeedSubscribeError ErrorCode = "feed_subscribe_error"
	// FeedHistoryError represents an error while requesting history from a feed service.
	FeedHistoryError ErrorCode = "feed_history_error"

	// BusPublishError represents an error while publishing an event to the event bus.
	BusPublishError ErrorCode = "bus_publish_error"

	// ConfigParseError represents an invalid or unparsable configuration.
	ConfigParseError ErrorCode = "config_parse_error"
)
