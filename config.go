// This file is part of the program "screenruler".
// Please see the LICENSE file for copyright information.

package main

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"screenruler/geometry"
)

type config struct {
	Background    string
	MarkColor     string
	PositionColor string
	InitialSize   int
	Step          int
	SpeedupFactor int
	AlwaysOnTop   bool
}

const configFile = "config.toml"

func defaultConfig() config {
	return config{
		Background:    "red",
		MarkColor:     "black",
		PositionColor: "white",
		InitialSize:   geometry.DefaultSize,
		Step:          1,
		SpeedupFactor: 10,
		AlwaysOnTop:   true,
	}
}

func initializeConfigIfNot() {
	log.Println("Checking if config needs to be initialized")

	conf := defaultConfig()

	configdir := configDir()
	ok, err := exists(configdir)
	if err != nil {
		log.Fatalf("Couldn't check if config directory exists: %v\n", err)
	}
	if !ok {
		err = os.MkdirAll(configdir, 0700)
		if err != nil {
			log.Fatalf("Couldn't create config directory: %v\n", err)
		}
	}
	tomlfile := filepath.Join(configdir, configFile)
	ok, err = exists(tomlfile)
	if err != nil {
		log.Fatalf("Couldn't check if config file exists: %v\n", err)
	}
	if !ok {
		log.Println("Initializing config")
		writeConfig(&conf)
	}
}

func readConfig() *config {
	conf, err := decodeConfig(filepath.Join(configDir(), configFile))
	if err != nil {
		log.Fatalf("Couldn't read config file: %v\n", err)
	}
	return conf
}

// decodeConfig reads f on top of the defaults, so keys missing from older
// config files keep their default value
func decodeConfig(f string) (*config, error) {
	conf := defaultConfig()
	md, err := toml.DecodeFile(f, &conf)
	if err != nil {
		return nil, err
	}
	for _, k := range md.Undecoded() {
		log.Printf("Ignoring unknown config key '%s'\n", k)
	}
	conf.sanitize()
	return &conf, nil
}

func writeConfig(conf *config) {
	f := filepath.Join(configDir(), configFile)
	if err := encodeConfig(f, conf); err != nil {
		log.Fatalf("Couldn't write config file: %v\n", err)
	}
}

func encodeConfig(f string, conf *config) error {
	var buffer bytes.Buffer
	if err := toml.NewEncoder(&buffer).Encode(conf); err != nil {
		return err
	}
	return os.WriteFile(f, buffer.Bytes(), 0644)
}

// sanitize replaces values the ruler can't work with by their default
func (c *config) sanitize() {
	def := defaultConfig()
	if !geometry.ValidSize(c.InitialSize) {
		log.Printf("Invalid InitialSize %d, using %d\n", c.InitialSize, def.InitialSize)
		c.InitialSize = def.InitialSize
	}
	if c.Step <= 0 {
		log.Printf("Invalid Step %d, using %d\n", c.Step, def.Step)
		c.Step = def.Step
	}
	if c.SpeedupFactor <= 0 {
		log.Printf("Invalid SpeedupFactor %d, using %d\n", c.SpeedupFactor, def.SpeedupFactor)
		c.SpeedupFactor = def.SpeedupFactor
	}
}

func (c *config) palette() (palette, error) {
	var p palette
	var err error
	if p.background, err = parseColor(c.Background); err != nil {
		return p, fmt.Errorf("background: %w", err)
	}
	if p.mark, err = parseColor(c.MarkColor); err != nil {
		return p, fmt.Errorf("mark color: %w", err)
	}
	if p.position, err = parseColor(c.PositionColor); err != nil {
		return p, fmt.Errorf("position color: %w", err)
	}
	return p, nil
}

func configDir() string {
	return filepath.Join(xdgOrFallback("XDG_CONFIG_HOME", filepath.Join(os.Getenv("HOME"), ".config")), "screenruler")
}

func exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

func xdgOrFallback(xdg string, fallback string) string {
	dir := os.Getenv(xdg)
	if dir != "" {
		if ok, err := exists(dir); ok && err == nil {
			log.Printf("Resolved $%s to '%s'\n", xdg, dir)
			return dir
		}

	}

	log.Printf("Couldn't resolve $%s falling back to '%s'\n", xdg, fallback)
	return fallback
}
