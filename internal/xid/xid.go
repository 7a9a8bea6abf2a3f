// Package xid mints prefixed ledger entity ids, e.g.
// "txn-1756723200000000000-9f86d081884c7d65". The prefix names the entity
// kind, the timestamp keeps ids roughly sortable, and the random tail keeps
// them unique.
package xid

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// New returns a fresh id carrying the given entity prefix. A failing random
// source degrades to a timestamp-only id rather than erroring.
func New(prefix string) string {
	tail := make([]byte, 8)
	if _, err := rand.Read(tail); err != nil {
		return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
	}
	return fmt.Sprintf("%s-%d-%s", prefix, time.Now().UnixNano(), hex.EncodeToString(tail))
}
