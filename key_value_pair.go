package doctree

// KeyValuePair is a tuple, used by the in-process caches for bulk Set calls.
type KeyValuePair[TK any, TV any] struct {
	// Key is the key part in the pair.
	Key TK
	// Value is the value part in the pair.
	Value TV
}
