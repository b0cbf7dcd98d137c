package emitter

import "testing"

func TestEmitDeliversInOrder(t *testing.T) {
	e := New()
	var got []string

	e.On("tasks.moved", func(data any) { got = append(got, "first:"+data.(string)) })
	e.On("tasks.moved", func(data any) { got = append(got, "second:"+data.(string)) })
	e.On("other", func(any) { t.Fatal("unrelated listener called") })

	e.Emit("tasks.moved", "t1")

	if len(got) != 2 || got[0] != "first:t1" || got[1] != "second:t1" {
		t.Fatalf("unexpected delivery: %v", got)
	}
}

func TestUnsubscribe(t *testing.T) {
	e := New()
	calls := 0

	off := e.On("evt", func(any) { calls++ })
	e.Emit("evt", nil)
	off()
	e.Emit("evt", nil)

	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
	if e.ListenerCount("evt") != 0 {
		t.Fatalf("listener not removed")
	}
}

func TestNilEmitter(t *testing.T) {
	var e *Emitter
	e.Emit("anything", 1)
}
