package schema

const (
	EventTopic = "assetdiscovery_event"
)

// KafkaEvent is the message value published for every ledger event.
type KafkaEvent struct {
	Event
	Node string `json:"node"`
}
