package observability

// Metric name prefixes
const (
	MetricPrefix = "pointsbot"
)

// Metric names
const (
	// Ledger metrics
	AwardsTotal        = MetricPrefix + ".ledger.awards_total"
	PointsAwardedTotal = MetricPrefix + ".ledger.points_awarded_total"
	RedemptionsTotal   = MetricPrefix + ".ledger.redemptions_total"

	// NATS metrics
	NATSMessagesReceivedTotal  = MetricPrefix + ".nats.messages_received_total"
	NATSMessagesPublishedTotal = MetricPrefix + ".nats.messages_published_total"

	// Chain sync metrics
	HolderSyncRunsTotal = MetricPrefix + ".holder_sync.runs_total"
)

// Label keys
const (
	LabelActionType = "action_type"
	LabelOutcome    = "outcome"
	LabelEventType  = "event_type"
	LabelSubject    = "subject"
)
