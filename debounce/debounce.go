// Package debounce filters raw switch samples into stable transitions.
//
// Mechanical switches bounce: a single keypress shows up as a burst of
// make/break transitions before the contact settles. The debouncer
// keeps a counter per switch and validates a state change only after
// the new state has been sampled for a configurable number of
// consecutive scans. At a 1 kHz scan rate, 5 is a good threshold for
// keyboard switches.
package debounce

import "github.com/TeXitoi/keyberon/layout"

// Debouncer tracks the stable state of every switch on the matrix.
type Debouncer struct {
	stable [][]bool
	count  [][]uint16
	// threshold is the number of consecutive disagreeing samples needed
	// to validate a flip. Bounce shorter than threshold scans is
	// absorbed without emitting anything.
	threshold uint16

	events []layout.Event
}

// New creates a debouncer for a rows x cols matrix with the given
// threshold. A threshold of 0 passes samples through unfiltered on the
// next scan.
func New(rows, cols int, threshold uint16) *Debouncer {
	d := &Debouncer{
		stable:    make([][]bool, rows),
		count:     make([][]uint16, rows),
		threshold: threshold,
		events:    make([]layout.Event, 0, rows*cols),
	}
	for i := range d.stable {
		d.stable[i] = make([]bool, cols)
		d.count[i] = make([]uint16, cols)
	}
	return d
}

// Get returns the current stable state of the matrix.
func (d *Debouncer) Get() [][]bool { return d.stable }

// Events feeds one raw scan image through the filter and returns the
// validated transitions, in row-major order. The returned slice is
// reused by the next call.
//
// A sample agreeing with the stable state resets that switch's counter;
// a disagreeing sample advances it. The switch flips only once the
// counter reaches the threshold, so a contact bouncing at the threshold
// boundary never oscillates: it takes threshold consecutive disagreeing
// scans, not a leaky average.
func (d *Debouncer) Events(raw [][]bool) []layout.Event {
	d.events = d.events[:0]
	for r, row := range raw {
		if r >= len(d.stable) {
			break
		}
		for c, sample := range row {
			if c >= len(d.stable[r]) {
				break
			}
			if sample == d.stable[r][c] {
				d.count[r][c] = 0
				continue
			}
			d.count[r][c]++
			if d.count[r][c] >= d.threshold {
				d.stable[r][c] = sample
				d.count[r][c] = 0
				if sample {
					d.events = append(d.events, layout.Press(uint8(r), uint8(c)))
				} else {
					d.events = append(d.events, layout.Release(uint8(r), uint8(c)))
				}
			}
		}
	}
	return d.events
}
