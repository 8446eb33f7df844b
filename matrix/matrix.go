// Package matrix scans a switch matrix through GPIO pin interfaces.
//
// The classic wiring: columns are pull-up inputs, rows are outputs held
// high when idle. To scan, each row in turn is pulled low and every
// column is sampled; a low column means the switch at that (row,
// column) is closed.
package matrix

// InputPin is a GPIO input. Reads must be non-blocking and free of side
// effects so the scanner can sample every coordinate once per cycle.
type InputPin interface {
	IsLow() (bool, error)
}

// OutputPin is a GPIO output used to strobe one row.
type OutputPin interface {
	SetLow() error
	SetHigh() error
}

// Matrix strobes rows and samples columns.
type Matrix struct {
	cols    []InputPin
	rows    []OutputPin
	pressed [][]bool
}

// New creates a matrix scanner and parks all row pins high.
func New(cols []InputPin, rows []OutputPin) (*Matrix, error) {
	m := &Matrix{cols: cols, rows: rows, pressed: make([][]bool, len(rows))}
	for i := range m.pressed {
		m.pressed[i] = make([]bool, len(cols))
	}
	if err := m.clear(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Matrix) clear() error {
	for _, r := range m.rows {
		if err := r.SetHigh(); err != nil {
			return err
		}
	}
	return nil
}

// Get scans the whole matrix once and returns the raw pressed image,
// row-major. The returned slice is reused by the next scan. On error
// the image may be partially updated and must be discarded for the
// cycle; the caller treats the cycle as "no input" and scans again on
// the next tick.
func (m *Matrix) Get() ([][]bool, error) {
	for ri, row := range m.rows {
		if err := row.SetLow(); err != nil {
			return m.pressed, err
		}
		for ci, col := range m.cols {
			low, err := col.IsLow()
			if err != nil {
				_ = row.SetHigh()
				return m.pressed, err
			}
			m.pressed[ri][ci] = low
		}
		if err := row.SetHigh(); err != nil {
			return m.pressed, err
		}
	}
	return m.pressed, nil
}

// Rows returns the number of rows.
func (m *Matrix) Rows() int { return len(m.rows) }

// Cols returns the number of columns.
func (m *Matrix) Cols() int { return len(m.cols) }
