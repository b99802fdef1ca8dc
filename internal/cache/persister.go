package cache

// Persister is the key-value persistence capability supplied by the host
// environment. The engine stores serialized blobs through it (source toggles,
// the aggregated result slot) and never assumes anything about the backing
// store beyond get/set semantics.
type Persister interface {
	GetItem(key string) (string, bool)
	SetItem(key, value string) error
}

// Null is a Persister that stores nothing, for hosts without storage.
type Null struct{}

func (Null) GetItem(string) (string, bool) { return "", false }
func (Null) SetItem(string, string) error  { return nil }
