package notify

import "testing"

func TestMulti(t *testing.T) {
	var a, b Recorder
	var calls int
	m := Multi{&a, nil, Func(func(Notification) { calls++ }), &b}

	m.Notify(Notification{Title: "Microphone", Message: "Could not access microphone"})

	if len(a.Sent()) != 1 || len(b.Sent()) != 1 || calls != 1 {
		t.Errorf("got %d, %d, %d deliveries, want 1 each", len(a.Sent()), len(b.Sent()), calls)
	}
	if got := a.Sent()[0].Message; got != "Could not access microphone" {
		t.Errorf("Message = %q", got)
	}
}

func TestDiscard(t *testing.T) {
	Discard.Notify(Notification{Title: "x"})
	Log{}.Notify(Notification{Title: "x"})
}

func TestChan_DropsWhenFull(t *testing.T) {
	c := make(Chan, 1)
	c.Notify(Notification{Message: "first"})
	c.Notify(Notification{Message: "second"})

	if got := (<-c).Message; got != "first" {
		t.Errorf("Message = %q, want first", got)
	}
	select {
	case n := <-c:
		t.Errorf("unexpected %+v", n)
	default:
	}
}
