// This file is part of the program "screenruler".
// Please see the LICENSE file for copyright information.

package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/aarzilli/nucular"
	"github.com/aarzilli/nucular/font"
	"github.com/aarzilli/nucular/style"
	"golang.org/x/sync/errgroup"

	"screenruler/statechart"
)

//go:generate go run scripts/embedversion.go

var appName = "screenruler"

var version = "unknown" // will be changed by build

func main() {
	opt, err := parseCLIOpts(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}

	if opt.doLog {
		log.SetOutput(os.Stdout)
	} else {
		log.SetOutput(io.Discard)
	}
	log.Printf("Application starting. Version: %s\n", version)

	initializeConfigIfNot()
	conf := readConfig()
	start := doCLI(opt, conf)

	colors, err := conf.palette()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid color: %v\n", err)
		os.Exit(1)
	}

	disp, err := connectDisplay(appName, colors.position, conf.AlwaysOnTop)
	if err != nil {
		log.Printf("Couldn't connect to X server: %v\n", err)
		fmt.Fprintf(os.Stderr, "Couldn't connect to X server: %v\n", err)
		os.Exit(1)
	}
	defer disp.Close()

	bus := statechart.NewBus()
	chart := statechart.New(bus,
		statechart.WithName(appName),
		statechart.WithLogger(newLogger(opt.doLog)),
		statechart.WithInitialSize(conf.InitialSize),
	)

	r := newRuler(bus, disp, colors, keymap{step: conf.Step, speedup: conf.SpeedupFactor}, start)
	r.face = font.DefaultFont(9, 1)

	wnd := nucular.NewMasterWindowSize(nucular.WindowNoScrollbar, appName, image.Point{start.Width, start.Height}, r.updatefn)
	wnd.SetStyle(style.FromTheme(style.DarkTheme, 1.0))
	r.window = wnd
	bus.RegisterSurface(r)
	log.Printf("Starting %s\n", r)

	ctx, cancel := context.WithCancel(context.Background())
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := chart.Run(ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			// the window has to go too, or Main never returns
			wnd.Close()
		}
		return err
	})
	g.Go(func() error {
		return disp.watch(ctx, bus)
	})

	// nucular wants the main goroutine
	if err := bus.Surface().Run(); err != nil {
		log.Printf("Surface failed: %v\n", err)
	}
	cancel()

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("Exiting with error: %v\n", err)
		fmt.Fprintf(os.Stderr, "screenruler: %v\n", err)
		disp.Close()
		os.Exit(1)
	}
	log.Printf("Bye\n")
}

// newLogger returns the statechart's logger. Transitions are only worth
// seeing with -log.
func newLogger(doLog bool) *slog.Logger {
	if !doLog {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
