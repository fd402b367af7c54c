package rest

import (
	"fmt"
	"net/http"
	"sync"
	"testing"
)

func TestHeaders(t *testing.T) {
	h := newHeaders()
	h.Set("x-api-key", "one")
	h.Add("Accept", "application/json")
	h.Add("Accept", "application/xml")

	if got := h.Get("X-Api-Key"); got != "one" {
		t.Errorf("Get() = %q, want canonicalized lookup", got)
	}
	if h.Len() != 2 {
		t.Errorf("Len() = %d, want 2", h.Len())
	}

	vals := h.Values("Accept")
	if len(vals) != 2 {
		t.Fatalf("Values() = %v", vals)
	}
	vals[0] = "mutated"
	if h.Values("Accept")[0] != "application/json" {
		t.Error("Values() must return a copy")
	}
	if h.Values("Missing") != nil {
		t.Error("Values() for a missing key should be nil")
	}

	clone := h.Clone()
	clone.Set("X-Api-Key", "two")
	if h.Get("X-Api-Key") != "one" {
		t.Error("Clone() must not share storage")
	}

	h.Set("X-Api-Key", "three")
	h.Del("Accept")
	dst := http.Header{"Accept": {"text/plain"}}
	h.applyTo(dst)
	if dst.Get("X-Api-Key") != "three" || dst.Get("Accept") != "text/plain" {
		t.Errorf("applyTo() = %v", dst)
	}
}

func TestHeaders_ConcurrentMutation(t *testing.T) {
	h := newHeaders()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			h.Set(fmt.Sprintf("X-Key-%d", i), "v")
		}(i)
		go func() {
			defer wg.Done()
			h.applyTo(make(http.Header))
		}()
	}
	wg.Wait()
	if h.Len() != 20 {
		t.Errorf("Len() = %d, want 20", h.Len())
	}
}
