package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Hash returns the hex SHA-256 of data. Render keys and file cache paths
// are derived from it.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Keyer generates cache keys for the data fontnode persists.
type Keyer interface {
	// HTTPKey returns the key for a decoded HTTP response in namespace.
	HTTPKey(namespace, key string) string

	// RenderKey returns the key for a captured PNG identified by the hash
	// of its resolved render parameters.
	RenderKey(hash string) string
}

// DefaultKeyer produces unscoped keys of the form "http:<namespace>:<key>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default key scheme.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// HTTPKey generates a key for HTTP response caching.
func (DefaultKeyer) HTTPKey(namespace, key string) string {
	return fmt.Sprintf("http:%s:%s", namespace, key)
}

// RenderKey generates a key for rendered bitmaps.
func (DefaultKeyer) RenderKey(hash string) string {
	return "render:" + hash
}
