package ports

import (
	"context"
	"strconv"
	"strings"
)

// Key identifies one cached upstream response. Every request parameter that
// affects the payload must be part of Params, so distinct parameter
// combinations never share an entry.
type Key struct {
	Resource string
	Params   []string
}

func NewKey(resource string, params ...string) Key {
	return Key{Resource: resource, Params: params}
}

// String serializes the key deterministically. Each part is quoted before
// joining, so ("1","10") and ("1","1","0") cannot collapse into the same
// string the way naive concatenation would.
func (k Key) String() string {
	var b strings.Builder
	b.WriteString(strconv.Quote(k.Resource))
	for _, p := range k.Params {
		b.WriteByte('|')
		b.WriteString(strconv.Quote(p))
	}
	return b.String()
}

// Cache stores opaque JSON payloads for a fixed freshness window.
// Get returns the payload only while the entry is fresh; a stale entry
// behaves as absent and is superseded by the next Set.
type Cache interface {
	Get(ctx context.Context, key Key) ([]byte, bool)
	Set(ctx context.Context, key Key, payload []byte) error
}
