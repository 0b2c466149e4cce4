package weavetest

import (
	"testing"

	"github.com/iov-one/supersig/errors"
	"github.com/iov-one/supersig/weave"
)

func TestSuccessfulDecorator(t *testing.T) {
	var (
		d Decorator
		h Handler
	)

	_, _ = d.Check(nil, nil, nil, &h)
	assertHCounts(t, &h, 1, 0)

	_, _ = d.Deliver(nil, nil, nil, &h)
	assertHCounts(t, &h, 1, 1)
}

func TestDecoratorWithError(t *testing.T) {
	d := Decorator{
		CheckErr:   errors.ErrUnauthorized,
		DeliverErr: errors.ErrNotFound,
	}

	// When using an error returning decorator, handler is never called.
	// Otherwise using nil would panic.
	var handler weave.Handler

	_, err := d.Check(nil, nil, nil, handler)
	if want := errors.ErrUnauthorized; !want.Is(err) {
		t.Errorf("want %q, got %q", want, err)
	}

	_, err = d.Deliver(nil, nil, nil, handler)
	if want := errors.ErrNotFound; !want.Is(err) {
		t.Errorf("want %q, got %q", want, err)
	}
	if d.CallCount() != 2 {
		t.Fatalf("want 2 calls, got %d", d.CallCount())
	}
}

func TestDecorateHandler(t *testing.T) {
	var (
		d Decorator
		h Handler
	)
	dh := Decorate(&h, &d)

	_, _ = dh.Check(nil, nil, nil)
	_, _ = dh.Deliver(nil, nil, nil)
	_, _ = dh.Deliver(nil, nil, nil)

	assertHCounts(t, &h, 1, 2)
	if d.CheckCallCount() != 1 || d.DeliverCallCount() != 2 {
		t.Fatalf("unexpected decorator counts: %d/%d", d.CheckCallCount(), d.DeliverCallCount())
	}
}

func TestHandlerResults(t *testing.T) {
	h := Handler{
		CheckResult:   weave.CheckResult{GasAllocated: 42},
		DeliverResult: weave.DeliverResult{Data: []byte("ok")},
	}
	cres, err := h.Check(nil, nil, nil)
	if err != nil || cres.GasAllocated != 42 {
		t.Fatalf("unexpected check result: %v, %v", cres, err)
	}
	dres, err := h.Deliver(nil, nil, nil)
	if err != nil || string(dres.Data) != "ok" {
		t.Fatalf("unexpected deliver result: %v, %v", dres, err)
	}

	h.DeliverErr = errors.ErrState
	if _, err := h.Deliver(nil, nil, nil); !errors.ErrState.Is(err) {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.CallCount() != 3 {
		t.Fatalf("want 3 calls, got %d", h.CallCount())
	}
}

func assertHCounts(t testing.TB, h *Handler, wantCheck, wantDeliver int) {
	t.Helper()
	if got := h.CheckCallCount(); got != wantCheck {
		t.Errorf("want %d check calls, got %d", wantCheck, got)
	}
	if got := h.DeliverCallCount(); got != wantDeliver {
		t.Errorf("want %d deliver calls, got %d", wantDeliver, got)
	}
}
