package publisher

// Publisher announces extracted records to downstream consumers
type Publisher interface {
	// Publish publishes a message under key
	Publish(key string, message []byte) error

	// Close closes the publisher connection
	Close() error
}
