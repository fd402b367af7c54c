package rest

import (
	"net/http"
	"sync"
)

// Headers is the client's mutable default header collection. Every call
// copies the current contents into its request, so changes affect only
// calls issued afterwards. Headers is safe for concurrent use.
type Headers struct {
	mu sync.RWMutex
	h  http.Header
}

func newHeaders() *Headers {
	return &Headers{h: make(http.Header)}
}

// Set replaces the values of key with value.
func (h *Headers) Set(key, value string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.h.Set(key, value)
}

// Add appends value to the values of key.
func (h *Headers) Add(key, value string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.h.Add(key, value)
}

// Del removes key.
func (h *Headers) Del(key string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.h.Del(key)
}

// Get returns the first value of key, or "".
func (h *Headers) Get(key string) string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.h.Get(key)
}

// Values returns a copy of all values of key.
func (h *Headers) Values(key string) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	v := h.h.Values(key)
	if v == nil {
		return nil
	}
	return append([]string(nil), v...)
}

// Len returns the number of distinct header names.
func (h *Headers) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.h)
}

// Clone returns a snapshot of the collection.
func (h *Headers) Clone() http.Header {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.h.Clone()
}

// applyTo adds every header to dst.
func (h *Headers) applyTo(dst http.Header) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for k, vs := range h.h {
		for _, v := range vs {
			dst.Add(k, v)
		}
	}
}
