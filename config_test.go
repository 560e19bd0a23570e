package main

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"
)

func TestConfigInitializedWithDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	initializeConfigIfNot()

	if ok, err := exists(filepath.Join(configDir(), configFile)); !ok || err != nil {
		t.Fatalf("config file not created: %v", err)
	}
	conf := readConfig()
	if *conf != defaultConfig() {
		t.Errorf("expected defaults %+v, got %+v", defaultConfig(), *conf)
	}
}

func TestConfigKeepsExistingFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	if err := os.MkdirAll(configDir(), 0700); err != nil {
		t.Fatal(err)
	}
	f := filepath.Join(configDir(), configFile)
	if err := os.WriteFile(f, []byte("Background = \"blue\"\nInitialSize = 3\n"), 0644); err != nil {
		t.Fatal(err)
	}

	initializeConfigIfNot()

	conf := readConfig()
	if conf.Background != "blue" || conf.InitialSize != 3 {
		t.Errorf("existing config overwritten: %+v", *conf)
	}
	if conf.MarkColor != "black" || conf.SpeedupFactor != 10 || !conf.AlwaysOnTop {
		t.Errorf("missing keys should keep their defaults: %+v", *conf)
	}
}

func TestDecodeConfigSanitizes(t *testing.T) {
	f := filepath.Join(t.TempDir(), configFile)
	if err := os.WriteFile(f, []byte("InitialSize = 9\nStep = 0\nSpeedupFactor = -2\n"), 0644); err != nil {
		t.Fatal(err)
	}

	conf, err := decodeConfig(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if conf.InitialSize != 1 || conf.Step != 1 || conf.SpeedupFactor != 10 {
		t.Errorf("invalid values not replaced: %+v", *conf)
	}
}

func TestDecodeConfigBroken(t *testing.T) {
	f := filepath.Join(t.TempDir(), configFile)
	if err := os.WriteFile(f, []byte("Background = \n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := decodeConfig(f); err == nil {
		t.Errorf("expected a decode error")
	}
}

func TestEncodeConfigRoundTrip(t *testing.T) {
	f := filepath.Join(t.TempDir(), configFile)
	conf := defaultConfig()
	conf.PositionColor = "#00ff00"
	conf.AlwaysOnTop = false

	if err := encodeConfig(f, &conf); err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := decodeConfig(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if *got != conf {
		t.Errorf("expected %+v, got %+v", conf, *got)
	}
}

func TestConfigPalette(t *testing.T) {
	conf := defaultConfig()
	p, err := conf.palette()
	if err != nil {
		t.Fatalf("palette: %v", err)
	}
	want := palette{
		background: color.RGBA{0xff, 0, 0, 0xff},
		mark:       color.RGBA{0, 0, 0, 0xff},
		position:   color.RGBA{0xff, 0xff, 0xff, 0xff},
	}
	if p != want {
		t.Errorf("expected %+v, got %+v", want, p)
	}

	conf.MarkColor = "nope"
	if _, err := conf.palette(); err == nil {
		t.Errorf("expected an error for an unknown mark color")
	}
}
