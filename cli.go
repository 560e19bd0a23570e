package main

import (
	"flag"
	"fmt"
	"os"

	"screenruler/geometry"
)

type CLIOpts struct {
	doLog         bool
	background    string
	markColor     string
	positionColor string
	size          int
	geometry      string
	version       bool
}

func parseCLIOpts(args []string) (CLIOpts, error) {
	var opt CLIOpts
	fs := flag.NewFlagSet(appName, flag.ContinueOnError)
	fs.BoolVar(&opt.doLog, "log", false, "Print debugging output to stdout")
	for _, name := range []string{"b", "background"} {
		fs.StringVar(&opt.background, name, "", "Background color of the ruler")
	}
	for _, name := range []string{"m", "mark"} {
		fs.StringVar(&opt.markColor, name, "", "Color of the ticks and labels")
	}
	for _, name := range []string{"p", "position"} {
		fs.StringVar(&opt.positionColor, name, "", "Color of the pointer position marker")
	}
	fs.IntVar(&opt.size, "s", 0, "Initial ruler size (1-3)")
	fs.StringVar(&opt.geometry, "g", "", "Initial window position as <width>x<height>+<x>+<y>")
	fs.BoolVar(&opt.version, "version", false, "Print version and exit")
	err := fs.Parse(args)

	return opt, err
}

// applyCLIOpts overrides conf with the flags given for this run and returns
// where the ruler starts
func applyCLIOpts(opt CLIOpts, conf *config) (geometry.Geometry, error) {
	if opt.background != "" {
		conf.Background = opt.background
	}
	if opt.markColor != "" {
		conf.MarkColor = opt.markColor
	}
	if opt.positionColor != "" {
		conf.PositionColor = opt.positionColor
	}
	if opt.size != 0 {
		if !geometry.ValidSize(opt.size) {
			return geometry.Geometry{}, fmt.Errorf("size %d out of range, expected 1-3", opt.size)
		}
		conf.InitialSize = opt.size
	}

	w, h := geometry.HorizontalSize(conf.InitialSize)
	start := geometry.Geometry{Width: w, Height: h}
	if opt.geometry != "" {
		g, err := geometry.Parse(opt.geometry)
		if err != nil {
			return geometry.Geometry{}, err
		}
		start.X, start.Y = g.Position()
	}
	return start, nil
}

func doCLI(opt CLIOpts, conf *config) geometry.Geometry {
	if opt.version {
		fmt.Println(version)
		os.Exit(0)
	}

	start, err := applyCLIOpts(opt, conf)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid arguments: %v\n", err)
		os.Exit(1)
	}
	return start
}
