package layout

// queueSize bounds how many events can wait for a hold-tap decision.
const queueSize = 32

type queuedEvent struct {
	event Event
	// since counts the ticks the event has spent in the queue.
	since uint16
}

// eventQueue is a fixed-capacity FIFO of pending events. Pushing onto a
// full queue displaces the oldest entry so the engine can process it
// immediately instead of dropping input.
type eventQueue struct {
	buf  [queueSize]queuedEvent
	head int
	n    int
}

func (q *eventQueue) len() int { return q.n }

func (q *eventQueue) at(i int) *queuedEvent {
	return &q.buf[(q.head+i)%queueSize]
}

// push appends an event. When the queue is full it returns the
// displaced oldest entry and true.
func (q *eventQueue) push(e queuedEvent) (queuedEvent, bool) {
	if q.n == queueSize {
		displaced := q.buf[q.head]
		q.buf[q.head] = e
		q.head = (q.head + 1) % queueSize
		return displaced, true
	}
	q.buf[(q.head+q.n)%queueSize] = e
	q.n++
	return queuedEvent{}, false
}

func (q *eventQueue) popFront() (queuedEvent, bool) {
	if q.n == 0 {
		return queuedEvent{}, false
	}
	e := q.buf[q.head]
	q.head = (q.head + 1) % queueSize
	q.n--
	return e, true
}

// tick ages every queued event by one scan.
func (q *eventQueue) tick() {
	for i := 0; i < q.n; i++ {
		s := q.at(i)
		if s.since < ^uint16(0) {
			s.since++
		}
	}
}
