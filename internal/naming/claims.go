package naming

import "sync"

// Claims records which source file owns each destination path during one
// run. Two sources can map onto the same destination when only their
// extensions differ (kick.wav and kick.flac both become kick.mp3); the
// first claimant wins and later ones must skip rather than overwrite.
// All methods are goroutine-safe.
type Claims struct {
	mu     sync.Mutex
	owners map[string]string // destination path → source path that owns it
}

// NewClaims creates an empty registry.
func NewClaims() *Claims {
	return &Claims{owners: make(map[string]string)}
}

// Claim registers source as the producer of dest. It returns true when dest
// was free or already owned by source. Otherwise it returns false and the
// source that owns dest.
func (c *Claims) Claim(source, dest string) (owner string, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	owner, exists := c.owners[dest]
	if !exists || owner == source {
		c.owners[dest] = source
		return source, true
	}
	return owner, false
}

// Len returns the number of claimed destinations.
func (c *Claims) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.owners)
}
