package grid

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"

	"github.com/dshills/keygrid/internal/event"
)

// Fingerprint returns a digest of the rows and columns. Equal content gives
// equal fingerprints; any cell, title, ID or ordering difference changes it.
func (m *Model) Fingerprint() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.fingerprint()
}

func (m *Model) fingerprint() string {
	return digest(m.rows) + digest(m.columns)
}

// digest hashes the JSON encoding of v. Map keys are encoded in sorted order,
// so row digests do not depend on insertion order.
func digest(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		// Rows and columns only hold strings.
		panic("grid: fingerprint encoding failed: " + err.Error())
	}
	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:])
}

// recordFingerprint stores the current fingerprint and reports whether it
// differs from a previously stored one. The first call only stores.
// Callers must hold the write lock.
func (m *Model) recordFingerprint() bool {
	sum := m.fingerprint()
	changed := m.lastSum != "" && sum != m.lastSum
	m.lastSum = sum
	return changed
}

// emitIfChanged publishes TopicChanged when changed is set. It must be called
// without the model lock held.
func (m *Model) emitIfChanged(changed bool) {
	if !changed {
		return
	}
	_ = m.bus.Publish(context.Background(), event.New(TopicChanged, nil, eventSource))
}
