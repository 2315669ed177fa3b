package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	NoopLayoutHooks{}.OnLayoutStart(ctx, 10, 12)
	NoopLayoutHooks{}.OnLayoutComplete(ctx, 10, time.Millisecond, nil)
	NoopRenderHooks{}.OnRenderStart(ctx, []string{"svg"})
	NoopRenderHooks{}.OnRenderComplete(ctx, []string{"svg"}, time.Millisecond, nil)
	NoopCacheHooks{}.OnCacheHit(ctx, "layout")
	NoopCacheHooks{}.OnCacheMiss(ctx, "artifact")
	NoopCacheHooks{}.OnCacheSet(ctx, "layout", 1024)
	NoopHTTPHooks{}.OnRequest(ctx, "POST", "/api/layout")
	NoopHTTPHooks{}.OnResponse(ctx, "POST", "/api/layout", 200, time.Millisecond)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	if _, ok := Layout().(NoopLayoutHooks); !ok {
		t.Error("Layout() should default to NoopLayoutHooks")
	}
	if _, ok := Render().(NoopRenderHooks); !ok {
		t.Error("Render() should default to NoopRenderHooks")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should default to NoopCacheHooks")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should default to NoopHTTPHooks")
	}

	l, r, c, h := &testLayoutHooks{}, &testRenderHooks{}, &testCacheHooks{}, &testHTTPHooks{}
	SetLayoutHooks(l)
	SetRenderHooks(r)
	SetCacheHooks(c)
	SetHTTPHooks(h)
	if Layout() != l || Render() != r || Cache() != c || HTTP() != h {
		t.Error("Set*Hooks should register custom hooks")
	}

	Reset()
	if _, ok := Layout().(NoopLayoutHooks); !ok {
		t.Error("Reset() should restore NoopLayoutHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	custom := &testLayoutHooks{}
	SetLayoutHooks(custom)
	SetLayoutHooks(nil)
	if Layout() != custom {
		t.Error("SetLayoutHooks(nil) should be ignored")
	}
}

type testLayoutHooks struct{ NoopLayoutHooks }
type testRenderHooks struct{ NoopRenderHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
