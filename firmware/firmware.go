// Package firmware wires the scan pipeline together and runs it one
// tick at a time.
//
// Each tick: read the raw matrix image, debounce it into events, fold
// chords, feed the layout, then hand the assembled report to the
// transport if it changed. Everything runs synchronously inside Tick;
// the owner guarantees Tick is never re-entered (a fixed-period loop or
// a timer interrupt, never nested).
package firmware

import (
	"errors"
	"fmt"

	"github.com/TeXitoi/keyberon/chording"
	"github.com/TeXitoi/keyberon/debounce"
	"github.com/TeXitoi/keyberon/keyboard"
	"github.com/TeXitoi/keyberon/keycode"
	"github.com/TeXitoi/keyberon/layout"
)

// Source produces the raw electrical matrix image, row-major. It must
// not block; matrix.Matrix implements it, and simulators substitute
// their own.
type Source interface {
	Get() ([][]bool, error)
}

// Transport consumes the report whenever it changes. A transport
// failure never corrupts engine state; the cycle's error is surfaced
// and scanning continues on the next tick.
type Transport interface {
	Send(report *keycode.Report) error
}

// CustomHandler receives Custom action payloads on press and release.
// Called synchronously inside Tick; it must not block indefinitely.
// Delivery is not retried.
type CustomHandler[T any] func(value *T, pressed bool)

// Config assembles a firmware. All fields are fixed for the process
// lifetime.
type Config[T any] struct {
	// Source produces raw matrix images. Required.
	Source Source
	// Layers is the action table. Required. It may have more rows or
	// columns than the physical matrix to leave room for chord results.
	Layers layout.Layers[T]
	// DebounceThreshold is the number of consecutive scans a new switch
	// state must persist before it is validated.
	DebounceThreshold uint16
	// Chords, when non-empty, enables chord folding.
	Chords []chording.ChordDef
	// Transport receives changed reports. Optional.
	Transport Transport
	// OnCustom receives Custom action payloads. Optional.
	OnCustom CustomHandler[T]
	// Leds is the lock-indicator handle. Optional.
	Leds keyboard.Leds
}

// Firmware is the per-tick scheduler owning the whole pipeline.
type Firmware[T any] struct {
	source    Source
	debouncer *debounce.Debouncer
	chords    *chording.Chording
	layout    *layout.Layout[T]
	keyboard  *keyboard.Keyboard
	transport Transport
	onCustom  CustomHandler[T]
	report    *keycode.Report
}

// New builds a firmware from the configuration.
func New[T any](cfg Config[T]) (*Firmware[T], error) {
	if cfg.Source == nil {
		return nil, fmt.Errorf("firmware: no matrix source")
	}
	l, err := layout.New(cfg.Layers)
	if err != nil {
		return nil, fmt.Errorf("firmware: %w", err)
	}
	f := &Firmware[T]{
		source:    cfg.Source,
		debouncer: debounce.New(l.Rows(), l.Cols(), cfg.DebounceThreshold),
		layout:    l,
		keyboard:  keyboard.New(cfg.Leds),
		transport: cfg.Transport,
		onCustom:  cfg.OnCustom,
		report:    keycode.NewReport(16),
	}
	if len(cfg.Chords) > 0 {
		f.chords = chording.New(cfg.Chords)
	}
	return f, nil
}

// Tick runs one scan cycle. It always advances the state machine; the
// returned error reports collaborator failures (a failed matrix read or
// transport send) for this cycle only. On a scan failure the cycle is
// treated as "no input" and the hold-tap timers still advance.
func (f *Firmware[T]) Tick() error {
	var scanErr, sendErr error

	if raw, err := f.source.Get(); err != nil {
		scanErr = fmt.Errorf("matrix scan: %w", err)
	} else {
		events := f.debouncer.Events(raw)
		if f.chords != nil {
			events = f.chords.Tick(events)
		}
		for _, e := range events {
			f.layout.Event(e)
		}
	}

	custom := f.layout.Tick()
	if f.onCustom != nil {
		if v, ok := custom.Pressed(); ok {
			f.onCustom(v, true)
		} else if v, ok := custom.Released(); ok {
			f.onCustom(v, false)
		}
	}

	f.report.Reset()
	for _, k := range f.layout.KeyCodes() {
		f.report.Add(k)
	}
	if f.keyboard.SetKeyboardReport(f.report) && f.transport != nil {
		if err := f.transport.Send(f.keyboard.Report()); err != nil {
			sendErr = fmt.Errorf("transport send: %w", err)
		}
	}
	return errors.Join(scanErr, sendErr)
}

// Report returns the report assembled on the last tick.
func (f *Firmware[T]) Report() *keycode.Report { return f.keyboard.Report() }

// Layout exposes the layout engine, mainly for state inspection.
func (f *Firmware[T]) Layout() *layout.Layout[T] { return f.layout }

// Keyboard exposes the report latch and the LED handle.
func (f *Firmware[T]) Keyboard() *keyboard.Keyboard { return f.keyboard }
