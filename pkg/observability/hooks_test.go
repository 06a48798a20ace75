package observability

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	v := NoopViewHooks{}
	v.OnLoad(ctx, "42", 0, 10, time.Second, nil)
	v.OnTransition(ctx, "Idle", "click(1)", "Active{1}")

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "collection")
	c.OnCacheMiss(ctx, "user")
	c.OnCacheSet(ctx, "collection", 1024)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "localhost", "/collections/user/42")
	h.OnResponse(ctx, "GET", "localhost", "/collections/user/42", 200, time.Second)
	h.OnError(ctx, "GET", "localhost", "/collections/user/42", nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := View().(NoopViewHooks); !ok {
		t.Error("View() should return NoopViewHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	h := NewLogHooks(log.New(&bytes.Buffer{}))
	SetViewHooks(h)
	SetCacheHooks(h)
	SetHTTPHooks(h)
	if View() != ViewHooks(h) || Cache() != CacheHooks(h) || HTTP() != HTTPHooks(h) {
		t.Error("Set*Hooks should register custom hooks")
	}

	Reset()
	if _, ok := View().(NoopViewHooks); !ok {
		t.Error("Reset() should restore NoopViewHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := NewLogHooks(log.New(&bytes.Buffer{}))
	SetViewHooks(custom)
	SetViewHooks(nil)

	if View() != ViewHooks(custom) {
		t.Error("SetViewHooks(nil) should be ignored")
	}
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	h := NewLogHooks(logger)
	ctx := context.Background()

	h.OnTransition(ctx, "Idle", "click(2)", "Active{2}")
	h.OnLoad(ctx, "42", 0, 3, 12*time.Millisecond, nil)
	h.OnError(ctx, "GET", "localhost", "/users/42", errors.New("connection refused"))

	out := buf.String()
	for _, want := range []string{"selection", "Active{2}", "collection loaded", "request failed", "connection refused"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestLogHooksRespectLevel(t *testing.T) {
	var buf bytes.Buffer
	h := NewLogHooks(log.NewWithOptions(&buf, log.Options{Level: log.InfoLevel}))

	h.OnCacheHit(context.Background(), "collection")
	if buf.Len() != 0 {
		t.Errorf("debug event logged at info level: %s", buf.String())
	}

	h.OnLoad(context.Background(), "42", 0, 0, 0, errors.New("boom"))
	if buf.Len() == 0 {
		t.Error("load failure should be logged at info level")
	}
}
