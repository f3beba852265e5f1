package inference

import (
	"sync"
	"time"

	"github.com/docucore/docucore/ai"
)

// Handle is a reference-counted lease on a loaded model instance.
// The instance is shared read-only across concurrent callers and is never
// evicted while its reference count is nonzero. Callers must Release the
// handle when done.
type Handle struct {
	manager *Manager
	model   ai.Model
	info    ai.ModelInfo
	batcher *batcher // nil when the model does not support batching

	// serializes Generate calls for non-batching models to respect
	// hardware exclusivity
	callMu sync.Mutex

	// guarded by manager.mu
	refs     int
	lastUsed time.Time
}

// ModelID returns the identifier the handle was acquired for.
func (h *Handle) ModelID() string {
	return h.info.ID
}

// Info returns the loaded instance's metadata.
func (h *Handle) Info() ai.ModelInfo {
	return h.info
}

// Release returns the lease. After Release the handle must not be used
// for further inference calls.
func (h *Handle) Release() {
	h.manager.release(h)
}
