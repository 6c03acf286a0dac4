package credentials

// Storage is the persistent key-value collaborator, shaped after browser
// local storage; any implementation with the same get/set/remove
// semantics will do.
type Storage interface {
	// Get returns the value for key, or false when the key is absent.
	Get(key string) (string, bool)

	// Set stores value under key, replacing any previous value.
	Set(key, value string) error

	// Remove deletes key. Removing an absent key is not an error.
	Remove(key string) error
}
