package debounce_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/issueboard/pkg/utils/debounce"
)

func TestDebouncer_LastTriggerWins(t *testing.T) {
	d := debounce.New(20 * time.Millisecond)
	defer d.Stop()

	var calls atomic.Int32
	var last atomic.Int32
	done := make(chan struct{}, 10)

	for i := 1; i <= 5; i++ {
		d.Trigger(func() {
			calls.Add(1)
			last.Store(int32(i))
			done <- struct{}{}
		})
	}

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("debounced function was not called")
	}

	// Give a superseded timer the chance to misfire
	time.Sleep(50 * time.Millisecond)
	gt.Value(t, calls.Load()).Equal(int32(1))
	gt.Value(t, last.Load()).Equal(int32(5))
	gt.Bool(t, d.Pending()).False()
}

func TestDebouncer_Flush(t *testing.T) {
	d := debounce.New(time.Hour)
	defer d.Stop()

	gt.Bool(t, d.Flush()).False()

	var called bool
	d.Trigger(func() { called = true })
	gt.Bool(t, d.Pending()).True()

	gt.Bool(t, d.Flush()).True()
	gt.Bool(t, called).True()
	gt.Bool(t, d.Pending()).False()
}

func TestDebouncer_Stop(t *testing.T) {
	d := debounce.New(10 * time.Millisecond)

	var calls atomic.Int32
	d.Trigger(func() { calls.Add(1) })
	d.Stop()
	d.Trigger(func() { calls.Add(1) })

	time.Sleep(50 * time.Millisecond)
	gt.Value(t, calls.Load()).Equal(int32(0))
	gt.Bool(t, d.Pending()).False()
}
