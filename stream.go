package giscore

// Reader is the public surface of every input stream in the core: a single
// read() that returns the next event or nil at end-of-stream, pushback for
// the consumer to return an event for the next Read, and schema enumeration.
type Reader interface {
	// Read returns the next event in document order, or (nil, nil) at
	// end-of-stream. A non-nil error is always fatal; the stream must be
	// closed and not read again.
	Read() (*Event, error)

	// Pushback inserts e to be returned by the next Read call, ahead of any
	// buffered look-ahead events.
	Pushback(e *Event)

	// EnumerateSchemas returns every Schema seen so far, in emission order.
	EnumerateSchemas() []*Schema

	// Close releases the underlying resource. Idempotent.
	Close() error
}

// Writer is the public surface of every output stream: write(event) called
// in emission order, then Close.
type Writer interface {
	Write(e *Event) error
	Close() error
}

// Deque is a double-ended queue of events supporting the stream base's
// look-ahead rule: AddFirst for events that must be emitted before anything
// already queued (earlier), AddLast for events queued behind what is already
// there (later). It has no direct teacher analog — the teacher is fully
// batch/non-streaming — and is built fresh in the vocabulary spec.md itself
// uses (addFirst/addLast/hasSaved/readSaved). Exported so format-specific
// reader packages (shp, kml) can embed StreamBase across package
// boundaries.
type Deque struct {
	items []*Event
}

// AddFirst pushes e to the front of the deque.
func (d *Deque) AddFirst(e *Event) {
	d.items = append([]*Event{e}, d.items...)
}

// AddLast enqueues e at the back of the deque.
func (d *Deque) AddLast(e *Event) {
	d.items = append(d.items, e)
}

// HasSaved reports whether the deque holds any buffered events.
func (d *Deque) HasSaved() bool {
	return len(d.items) > 0
}

// ReadSaved pops and returns the front of the deque. The caller must check
// HasSaved first.
func (d *Deque) ReadSaved() *Event {
	e := d.items[0]
	d.items = d.items[1:]
	return e
}

// StreamBase implements the shared pushback/look-ahead bookkeeping every
// format reader embeds, per the look-ahead deque described in spec §4.1.
// Every Read implementation must drain DrainSaved before pulling new bytes.
type StreamBase struct {
	Queue  Deque
	Closed bool
}

// Pushback is the embeddable implementation of Reader.Pushback.
func (b *StreamBase) Pushback(e *Event) {
	b.Queue.AddFirst(e)
}

// DrainSaved returns a buffered event if one is available.
func (b *StreamBase) DrainSaved() (*Event, bool) {
	if b.Queue.HasSaved() {
		return b.Queue.ReadSaved(), true
	}
	return nil, false
}
