package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Playback hooks
	p := NoopPlaybackHooks{}
	p.OnLayoutStart(ctx, 100)
	p.OnLayoutComplete(ctx, 100, time.Second, nil)
	p.OnRunStart(ctx, "request-flow", 100)
	p.OnRunComplete(ctx, "request-flow", 12, time.Second, nil)
	p.OnExportStart(ctx, "svg")
	p.OnExportComplete(ctx, "svg", 1024, time.Second, nil)

	// Cache hooks
	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "layout")
	c.OnCacheMiss(ctx, "run")
	c.OnCacheSet(ctx, "artifact", 1024)

	// HTTP hooks
	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "POST", "/v1/simulate")
	h.OnResponse(ctx, "POST", "/v1/simulate", 200, time.Second)
	h.OnError(ctx, "POST", "/v1/simulate", nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Playback().(NoopPlaybackHooks); !ok {
		t.Error("Playback() should return NoopPlaybackHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	// Set custom hooks
	customPlayback := &testPlaybackHooks{}
	SetPlaybackHooks(customPlayback)
	if Playback() != customPlayback {
		t.Error("SetPlaybackHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	// Reset and verify
	Reset()
	if _, ok := Playback().(NoopPlaybackHooks); !ok {
		t.Error("Reset() should restore NoopPlaybackHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testPlaybackHooks{}
	SetPlaybackHooks(custom)

	// Setting nil should be ignored
	SetPlaybackHooks(nil)

	if Playback() != custom {
		t.Error("SetPlaybackHooks(nil) should be ignored")
	}

	Reset()
}

// Test implementations
type testPlaybackHooks struct{ NoopPlaybackHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
