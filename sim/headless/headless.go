// Package headless runs the firmware against a scripted event stream,
// for automated testing and batch runs.
//
// A script is a plain text file with one directive per line:
//
//	100 press 0 1
//	250 release 0 1
//
// meaning: at tick 100 close the switch at row 0 column 1, at tick 250
// open it again. Blank lines and lines starting with '#' are ignored.
package headless

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/TeXitoi/keyberon/firmware"
	"github.com/TeXitoi/keyberon/keycode"
	"github.com/TeXitoi/keyberon/sim"
)

type scriptStep struct {
	tick     int
	row, col uint8
	pressed  bool
}

// Backend implements sim.Backend without any UI.
type Backend struct {
	config sim.Config
	script []scriptStep
	next   int
	tick   int
	last   []keycode.KeyCode
}

func New() *Backend {
	return &Backend{}
}

func (h *Backend) Init(cfg sim.Config) error {
	h.config = cfg
	if cfg.ScriptPath != "" {
		script, err := loadScript(cfg.ScriptPath)
		if err != nil {
			return err
		}
		h.script = script
	}
	slog.Info("Running headless simulation",
		"ticks", cfg.Ticks,
		"script_steps", len(h.script))
	return nil
}

// Step applies due script entries, ticks the firmware and logs report
// changes.
func (h *Backend) Step(fw *firmware.Firmware[sim.Custom]) (bool, error) {
	for h.next < len(h.script) && h.script[h.next].tick <= h.tick {
		s := h.script[h.next]
		h.config.Matrix.Set(s.row, s.col, s.pressed)
		h.next++
	}
	err := fw.Tick()
	h.tick++

	codes := fw.Report().Codes()
	if !sameCodes(h.last, codes) {
		h.last = append(h.last[:0], codes...)
		slog.Info("Report changed", "tick", h.tick, "report", formatCodes(codes))
	}

	done := h.config.Ticks > 0 && h.tick >= h.config.Ticks
	if done {
		slog.Info("Headless simulation completed", "ticks", h.tick)
	}
	return !done, err
}

func (h *Backend) Cleanup() error { return nil }

// HandleCustom logs custom action notifications.
func (h *Backend) HandleCustom(v *sim.Custom, pressed bool) {
	slog.Info("Custom action", "action", v.String(), "pressed", pressed)
}

func sameCodes(a, b []keycode.KeyCode) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func formatCodes(codes []keycode.KeyCode) string {
	if len(codes) == 0 {
		return "(empty)"
	}
	names := make([]string, len(codes))
	for i, c := range codes {
		names[i] = c.String()
	}
	return strings.Join(names, " ")
}

func loadScript(path string) ([]scriptStep, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open script: %w", err)
	}
	defer f.Close()

	var steps []scriptStep
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 4 {
			return nil, fmt.Errorf("script line %d: want 'tick press|release row col'", lineNo)
		}
		tick, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("script line %d: bad tick: %w", lineNo, err)
		}
		var pressed bool
		switch fields[1] {
		case "press":
			pressed = true
		case "release":
		default:
			return nil, fmt.Errorf("script line %d: unknown op %q", lineNo, fields[1])
		}
		row, err := strconv.ParseUint(fields[2], 10, 8)
		if err != nil {
			return nil, fmt.Errorf("script line %d: bad row: %w", lineNo, err)
		}
		col, err := strconv.ParseUint(fields[3], 10, 8)
		if err != nil {
			return nil, fmt.Errorf("script line %d: bad col: %w", lineNo, err)
		}
		if len(steps) > 0 && tick < steps[len(steps)-1].tick {
			return nil, fmt.Errorf("script line %d: ticks must be non-decreasing", lineNo)
		}
		steps = append(steps, scriptStep{
			tick: tick, row: uint8(row), col: uint8(col), pressed: pressed,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return steps, nil
}
