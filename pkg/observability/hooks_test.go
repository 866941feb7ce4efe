package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	u := NoopUpdaterHooks{}
	u.OnPassStart(ctx, 12)
	u.OnPassComplete(ctx, PassStats{Rescanned: 12, Built: 2}, time.Second, nil)
	u.OnLadderError(ctx, "Ladder#1 len 3", []string{"strands have parallel bond directions"})

	r := NoopRenderHooks{}
	r.OnRenderStart(ctx, "svg", 4)
	r.OnRenderComplete(ctx, "svg", 2048, time.Second, nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Updater().(NoopUpdaterHooks); !ok {
		t.Error("Updater() should return NoopUpdaterHooks by default")
	}
	if _, ok := Render().(NoopRenderHooks); !ok {
		t.Error("Render() should return NoopRenderHooks by default")
	}

	customUpdater := &testUpdaterHooks{}
	SetUpdaterHooks(customUpdater)
	if Updater() != customUpdater {
		t.Error("SetUpdaterHooks should set custom hooks")
	}

	customRender := &testRenderHooks{}
	SetRenderHooks(customRender)
	if Render() != customRender {
		t.Error("SetRenderHooks should set custom hooks")
	}

	// Reset and verify
	Reset()
	if _, ok := Updater().(NoopUpdaterHooks); !ok {
		t.Error("Reset() should restore NoopUpdaterHooks")
	}
	if _, ok := Render().(NoopRenderHooks); !ok {
		t.Error("Reset() should restore NoopRenderHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testUpdaterHooks{}
	SetUpdaterHooks(custom)
	SetUpdaterHooks(nil)
	if Updater() != custom {
		t.Error("SetUpdaterHooks(nil) should not replace existing hooks")
	}

	SetRenderHooks(nil)
	if _, ok := Render().(NoopRenderHooks); !ok {
		t.Error("SetRenderHooks(nil) should keep the default")
	}
	Reset()
}

func TestCustomHooksReceiveEvents(t *testing.T) {
	Reset()
	defer Reset()

	h := &testUpdaterHooks{}
	SetUpdaterHooks(h)

	ctx := context.Background()
	Updater().OnPassStart(ctx, 5)
	Updater().OnPassComplete(ctx, PassStats{Merges: 3}, time.Millisecond, nil)
	Updater().OnLadderError(ctx, "x", nil)

	if h.starts != 1 || h.completes != 1 || h.errors != 1 {
		t.Errorf("events = %d/%d/%d, want 1/1/1", h.starts, h.completes, h.errors)
	}
	if h.last.Merges != 3 {
		t.Errorf("last stats = %+v, want Merges 3", h.last)
	}
}

type testUpdaterHooks struct {
	starts, completes, errors int
	last                      PassStats
}

func (h *testUpdaterHooks) OnPassStart(context.Context, int) { h.starts++ }
func (h *testUpdaterHooks) OnPassComplete(_ context.Context, s PassStats, _ time.Duration, _ error) {
	h.completes++
	h.last = s
}
func (h *testUpdaterHooks) OnLadderError(context.Context, string, []string) { h.errors++ }

type testRenderHooks struct{}

func (testRenderHooks) OnRenderStart(context.Context, string, int)                          {}
func (testRenderHooks) OnRenderComplete(context.Context, string, int, time.Duration, error) {}
