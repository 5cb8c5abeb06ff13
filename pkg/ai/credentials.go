package ai

import (
	"errors"
	"strings"
)

// ErrNoCredentials is returned when a credential pool would be empty.
// Ingestion refuses to start without at least one usable key.
var ErrNoCredentials = errors.New("ai: credential pool is empty")

// CredentialPool holds an ordered list of provider API keys. Selection is a
// pure function of the batch index, so the pool carries no counter state and
// is safe to share between goroutines.
type CredentialPool struct {
	keys []string
}

// NewCredentialPool builds a pool from the given keys. Blank entries are
// dropped; an effectively empty pool is rejected.
func NewCredentialPool(keys []string) (*CredentialPool, error) {
	usable := make([]string, 0, len(keys))
	for _, key := range keys {
		if strings.TrimSpace(key) == "" {
			continue
		}
		usable = append(usable, key)
	}
	if len(usable) == 0 {
		return nil, ErrNoCredentials
	}
	return &CredentialPool{keys: usable}, nil
}

// At returns the credential for batch index i, rotating round-robin over
// the pool: keys[i mod N].
func (p *CredentialPool) At(i int) string {
	if i < 0 {
		i = -i
	}
	return p.keys[i%len(p.keys)]
}

// Keys returns a copy of the pool's keys in order.
func (p *CredentialPool) Keys() []string {
	out := make([]string, len(p.keys))
	copy(out, p.keys)
	return out
}

// Size returns the number of usable credentials in the pool.
func (p *CredentialPool) Size() int {
	return len(p.keys)
}
