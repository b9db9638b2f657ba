package giscore

import "testing"

func TestDequeAddLastOrder(t *testing.T) {
	var d Deque
	e1 := &Event{Kind: EventFeature}
	e2 := &Event{Kind: EventRow}
	d.AddLast(e1)
	d.AddLast(e2)

	if !d.HasSaved() {
		t.Fatal("expected HasSaved() true after AddLast")
	}
	if got := d.ReadSaved(); got != e1 {
		t.Errorf("ReadSaved() = %v, want e1 first (FIFO order)", got)
	}
	if got := d.ReadSaved(); got != e2 {
		t.Errorf("ReadSaved() = %v, want e2 second", got)
	}
	if d.HasSaved() {
		t.Error("expected HasSaved() false after draining")
	}
}

func TestDequeAddFirstPriority(t *testing.T) {
	var d Deque
	queued := &Event{Kind: EventFeature}
	urgent := &Event{Kind: EventSchema}
	d.AddLast(queued)
	d.AddFirst(urgent)

	if got := d.ReadSaved(); got != urgent {
		t.Errorf("ReadSaved() = %v, want the AddFirst event ahead of the queued one", got)
	}
	if got := d.ReadSaved(); got != queued {
		t.Errorf("ReadSaved() = %v, want the originally-queued event last", got)
	}
}

func TestStreamBasePushbackAndDrain(t *testing.T) {
	var b StreamBase
	if _, ok := b.DrainSaved(); ok {
		t.Fatal("DrainSaved() on empty StreamBase reported an event available")
	}

	e := &Event{Kind: EventComment, Comment: &Comment{Text: "note"}}
	b.Pushback(e)

	got, ok := b.DrainSaved()
	if !ok || got != e {
		t.Errorf("DrainSaved() = %v, %v; want pushed-back event, true", got, ok)
	}
	if _, ok := b.DrainSaved(); ok {
		t.Error("DrainSaved() after single pushback should be empty")
	}
}

func TestStreamBasePushbackOrdersAheadOfQueued(t *testing.T) {
	var b StreamBase
	b.Queue.AddLast(&Event{Kind: EventFeature})
	pushedBack := &Event{Kind: EventSchema}
	b.Pushback(pushedBack)

	got, ok := b.DrainSaved()
	if !ok || got != pushedBack {
		t.Errorf("DrainSaved() = %v, want pushback to take precedence over previously-queued events", got)
	}
}
