package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli"

	"github.com/TeXitoi/keyberon/firmware"
	"github.com/TeXitoi/keyberon/keymap"
	"github.com/TeXitoi/keyberon/sim"
	"github.com/TeXitoi/keyberon/sim/headless"
	"github.com/TeXitoi/keyberon/sim/terminal"
	"github.com/TeXitoi/keyberon/timing"
)

func main() {
	app := cli.NewApp()
	app.Name = "keyberon"
	app.Description = "Keyboard firmware core simulator"
	app.Usage = "keyberon [options] <keymap file>"
	app.Version = "1.0.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "keymap",
			Usage: "Path to the YAML keymap file",
		},
		cli.BoolFlag{
			Name:  "headless",
			Usage: "Run without a terminal interface",
		},
		cli.IntFlag{
			Name:  "ticks",
			Usage: "Number of scan cycles to run in headless mode (required for headless)",
			Value: 0,
		},
		cli.StringFlag{
			Name:  "script",
			Usage: "Event script to replay in headless mode",
		},
		cli.IntFlag{
			Name:  "rate",
			Usage: "Scan rate in Hz",
			Value: timing.DefaultScanRate,
		},
	}
	app.Action = runSimulator

	err := app.Run(os.Args)
	if err != nil {
		slog.Error("Error running simulator", "error", err)
		os.Exit(1)
	}
}

func runSimulator(c *cli.Context) error {
	keymapPath := c.String("keymap")
	if keymapPath == "" {
		if c.NArg() > 0 {
			keymapPath = c.Args().Get(0)
		} else {
			cli.ShowAppHelp(c)
			return errors.New("no keymap path provided")
		}
	}

	data, err := os.ReadFile(keymapPath)
	if err != nil {
		return fmt.Errorf("read keymap: %w", err)
	}
	km, err := keymap.Parse(data, sim.CustomActions())
	if err != nil {
		return err
	}

	rows := len(km.Layers[0])
	cols := len(km.Layers[0][0])
	vm := sim.NewVirtualMatrix(rows, cols)

	cfg := sim.Config{
		Matrix:     vm,
		Keymap:     km,
		Ticks:      c.Int("ticks"),
		ScriptPath: c.String("script"),
	}

	fwCfg := firmware.Config[sim.Custom]{
		Source:            vm,
		Layers:            km.Layers,
		DebounceThreshold: km.Debounce,
		Chords:            km.Chords,
	}

	var backend sim.Backend
	var limiter timing.Limiter
	if c.Bool("headless") {
		if cfg.Ticks <= 0 {
			return errors.New("headless mode requires --ticks with a positive value")
		}
		h := headless.New()
		fwCfg.OnCustom = h.HandleCustom
		backend = h
		limiter = timing.NewNoOpLimiter()
	} else {
		t := terminal.New()
		fwCfg.OnCustom = t.HandleCustom
		fwCfg.Leds = t.Leds()
		backend = t
		limiter = timing.NewAdaptiveLimiter(c.Int("rate"))
	}

	fw, err := firmware.New(fwCfg)
	if err != nil {
		return err
	}
	fw.Layout().SetDefaultLayer(km.DefaultLayer)

	if err := backend.Init(cfg); err != nil {
		return err
	}
	defer backend.Cleanup()

	for {
		limiter.WaitForNextScan()
		running, err := backend.Step(fw)
		if err != nil {
			slog.Warn("Scan cycle error", "error", err)
		}
		if !running {
			return nil
		}
	}
}
