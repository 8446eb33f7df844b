// Package chording folds simultaneous key presses into a single
// virtual key event.
//
// A chord maps two or more physical coordinates to one coordinate in
// the layout, usually a virtual row set aside for chord results. The
// virtual press fires once every member key is down and the virtual
// release once every member is up; member events that contributed to a
// chord are swallowed. Chording sits between the debouncer and the
// layout, so the debounce period is also the window in which the chord
// members must all be pressed.
package chording

import "github.com/TeXitoi/keyberon/layout"

// Coord addresses one key position in the layout.
type Coord struct {
	Row, Col uint8
}

// ChordDef defines a chord: pressing all Keys together produces events
// for Result.
type ChordDef struct {
	Result Coord
	Keys   []Coord
}

type chordResult uint8

const (
	// chordPass lets the event through unchanged.
	chordPass chordResult = iota
	// chordFired replaces the event with the virtual one.
	chordFired
	// chordSwallow drops the event: its matching press never reached
	// the layout, so the release must not either.
	chordSwallow
)

type chord struct {
	def        ChordDef
	inProgress bool
	down       []bool
	// swallowed marks members whose press was folded into the virtual
	// press; their releases are consumed instead of passed through.
	swallowed []bool
}

func (c *chord) process(e layout.Event) (layout.Event, chordResult) {
	row, col := e.Coord()
	at := Coord{Row: row, Col: col}
	if e.IsPress() {
		if c.inProgress {
			return layout.Event{}, chordPass
		}
		for i, k := range c.def.Keys {
			if k == at {
				c.down[i] = true
			}
		}
		for _, d := range c.down {
			if !d {
				return layout.Event{}, chordPass
			}
		}
		c.inProgress = true
		return layout.Press(c.def.Result.Row, c.def.Result.Col), chordFired
	}
	member := -1
	for i, k := range c.def.Keys {
		if k == at {
			c.down[i] = false
			member = i
		}
	}
	if !c.inProgress || member < 0 {
		return layout.Event{}, chordPass
	}
	for _, d := range c.down {
		if d {
			if c.swallowed[member] {
				c.swallowed[member] = false
				return layout.Event{}, chordSwallow
			}
			return layout.Event{}, chordPass
		}
	}
	c.inProgress = false
	for i := range c.swallowed {
		c.swallowed[i] = false
	}
	return layout.Release(c.def.Result.Row, c.def.Result.Col), chordFired
}

// Chording rewrites event streams according to a fixed chord list.
type Chording struct {
	chords []chord
	out    []layout.Event
	drop   []layout.Event
}

// New creates a chording filter from the given definitions.
func New(defs []ChordDef) *Chording {
	ch := &Chording{chords: make([]chord, len(defs))}
	for i, def := range defs {
		ch.chords[i] = chord{
			def:       def,
			down:      make([]bool, len(def.Keys)),
			swallowed: make([]bool, len(def.Keys)),
		}
	}
	return ch
}

// Tick consumes the events of one scan cycle and returns them with
// completed chords replaced by their virtual events. Member events of a
// completed chord are removed; everything else passes through
// unchanged. The returned slice is reused by the next call.
func (ch *Chording) Tick(events []layout.Event) []layout.Event {
	ch.out = ch.out[:0]
	ch.drop = ch.drop[:0]
	for _, e := range events {
		mapped := e
		consumed := false
		for i := range ch.chords {
			c := &ch.chords[i]
			virtual, res := c.process(e)
			if res == chordSwallow {
				consumed = true
				break
			}
			if res != chordFired {
				continue
			}
			for mi, k := range c.def.Keys {
				if virtual.IsPress() {
					// Only member presses arriving in this same cycle are
					// folded into the virtual press; an earlier press
					// already reached the layout and its release must
					// still pass through.
					member := layout.Press(k.Row, k.Col)
					ch.drop = append(ch.drop, member)
					for _, raw := range events {
						if raw == member {
							c.swallowed[mi] = true
						}
					}
				} else {
					ch.drop = append(ch.drop, layout.Release(k.Row, k.Col))
				}
			}
			mapped = virtual
			break
		}
		if consumed {
			continue
		}
		ch.out = append(ch.out, mapped)
	}
	kept := ch.out[:0]
	for _, e := range ch.out {
		dropped := false
		for _, d := range ch.drop {
			if e == d {
				dropped = true
				break
			}
		}
		if !dropped {
			kept = append(kept, e)
		}
	}
	ch.out = kept
	return ch.out
}
