// Package terminal is the interactive simulator frontend: your real
// keyboard drives the virtual switch matrix and the resolved output is
// rendered with tcell.
//
// Terminals report key presses but not releases, so a pressed switch is
// held for a short window and released when its key stops repeating,
// the same trick the usual terminal frontends use for continuous input.
package terminal

import (
	"fmt"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/TeXitoi/keyberon/firmware"
	"github.com/TeXitoi/keyberon/sim"
)

// keyTimeout releases a virtual switch when its terminal key has not
// repeated for this long. Slightly longer than typical key repeat.
const keyTimeout = 150 * time.Millisecond

// physicalRows maps terminal runes onto matrix coordinates, row-major.
var physicalRows = []string{
	"1234567890-=",
	"qwertyuiop[]",
	"asdfghjkl;'\\",
	"zxcvbnm,./",
}

type coord struct {
	row, col uint8
}

// Backend implements sim.Backend on a tcell screen.
type Backend struct {
	screen  tcell.Screen
	config  sim.Config
	leds    sim.Leds
	held    map[coord]time.Time
	status  string
	running bool
}

func New() *Backend {
	return &Backend{held: make(map[coord]time.Time)}
}

// Leds returns the indicator sink to wire into the firmware.
func (t *Backend) Leds() *sim.Leds { return &t.leds }

// HandleCustom surfaces custom actions in the status line.
func (t *Backend) HandleCustom(v *sim.Custom, pressed bool) {
	if pressed {
		t.status = fmt.Sprintf("custom action: %s", v)
	} else {
		t.status = ""
	}
}

func (t *Backend) Init(cfg sim.Config) error {
	t.config = cfg
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to initialize terminal: %v", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal: %v", err)
	}
	t.screen = screen
	t.running = true
	t.screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	t.screen.Clear()
	return nil
}

// Step polls terminal input, advances the firmware by one scan and
// redraws.
func (t *Backend) Step(fw *firmware.Firmware[sim.Custom]) (bool, error) {
	now := time.Now()

	for t.screen.HasPendingEvent() {
		ev := t.screen.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyCtrlC || ev.Key() == tcell.KeyCtrlQ {
				t.running = false
				continue
			}
			if at, ok := lookupKey(ev); ok {
				t.held[at] = now
				t.config.Matrix.Set(at.row, at.col, true)
			}
		case *tcell.EventResize:
			t.screen.Sync()
		}
	}

	for at, since := range t.held {
		if now.Sub(since) > keyTimeout {
			t.config.Matrix.Set(at.row, at.col, false)
			delete(t.held, at)
		}
	}

	err := fw.Tick()
	t.render(fw)
	return t.running, err
}

func (t *Backend) Cleanup() error {
	if t.screen != nil {
		t.screen.Fini()
	}
	return nil
}

func lookupKey(ev *tcell.EventKey) (coord, bool) {
	if ev.Key() != tcell.KeyRune {
		return coord{}, false
	}
	r := ev.Rune()
	for ri, row := range physicalRows {
		for ci, key := range row {
			if key == r {
				return coord{row: uint8(ri), col: uint8(ci)}, true
			}
		}
	}
	return coord{}, false
}

func (t *Backend) render(fw *firmware.Firmware[sim.Custom]) {
	t.screen.Clear()
	style := tcell.StyleDefault
	pressedStyle := style.Foreground(tcell.ColorGreen).Bold(true)

	drawText(t.screen, 0, 0, style.Bold(true), "keyberon simulator  (Ctrl-C to quit)")
	drawText(t.screen, 0, 1, style, fmt.Sprintf("layer: %d  default: %d  %s",
		fw.Layout().CurrentLayer(), fw.Layout().DefaultLayer(), t.ledLine()))

	grid, _ := t.config.Matrix.Get()
	for ri, row := range grid {
		for ci, pressed := range row {
			cell, cellStyle := "·", style
			if pressed {
				cell, cellStyle = "■", pressedStyle
			}
			drawText(t.screen, ci*2, 3+ri, cellStyle, cell)
		}
	}

	codes := fw.Report().Codes()
	names := make([]string, len(codes))
	for i, c := range codes {
		names[i] = c.String()
	}
	drawText(t.screen, 0, 4+len(grid), style, "report: "+strings.Join(names, " "))
	if t.status != "" {
		drawText(t.screen, 0, 6+len(grid), style.Foreground(tcell.ColorYellow), t.status)
	}
	t.screen.Show()
}

func (t *Backend) ledLine() string {
	var on []string
	if t.leds.Num {
		on = append(on, "num")
	}
	if t.leds.Caps {
		on = append(on, "caps")
	}
	if t.leds.Scroll {
		on = append(on, "scroll")
	}
	if len(on) == 0 {
		return ""
	}
	return "leds: " + strings.Join(on, ",")
}

func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) {
	for i, r := range []rune(text) {
		s.SetContent(x+i, y, r, nil, style)
	}
}
