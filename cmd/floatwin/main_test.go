package main

import (
	"flag"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/1broseidon/floatwin/internal/config"
)

func TestFormatSource(t *testing.T) {
	tests := []struct {
		src  config.Source
		want string
	}{
		{config.Source{Kind: config.SourceDefault}, "default"},
		{config.Source{Kind: config.SourceDefault, Name: "desktop.viewport"}, "default (desktop.viewport)"},
		{config.Source{Kind: config.SourceFile}, "file"},
		{config.Source{Kind: config.SourceFile, File: "/a.yaml"}, "/a.yaml"},
		{config.Source{Kind: config.SourceFile, File: "/a.yaml", Line: 3, Column: 5}, "/a.yaml:3:5"},
	}
	for _, tt := range tests {
		if got := formatSource(tt.src); got != tt.want {
			t.Errorf("formatSource(%+v) = %q, want %q", tt.src, got, tt.want)
		}
	}
}

func TestOptInt(t *testing.T) {
	var x, y optInt
	fs := flag.NewFlagSet("t", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Var(&x, "x", "")
	fs.Var(&y, "y", "")
	if err := fs.Parse([]string{"--x", "-40"}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if p := x.ptr(); p == nil || *p != -40 {
		t.Fatalf("x = %v", p)
	}
	if y.ptr() != nil {
		t.Fatalf("unset flag must yield nil")
	}
	if err := fs.Parse([]string{"--y", "wide"}); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestParseID(t *testing.T) {
	for _, in := range []string{"0", "-1", "x", ""} {
		if _, err := parseID(in); err == nil {
			t.Errorf("parseID(%q) should fail", in)
		}
	}
	if id, err := parseID("7"); err != nil || id != 7 {
		t.Fatalf("parseID(7) = %d, %v", id, err)
	}
}

func TestConfigPath(t *testing.T) {
	if got := configPath("/tmp/x.yaml"); got != "/tmp/x.yaml" {
		t.Fatalf("explicit path = %q", got)
	}
	t.Setenv(config.EnvConfigPath, "/tmp/env.yaml")
	if got := configPath(""); got != "/tmp/env.yaml" {
		t.Fatalf("env path = %q", got)
	}
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	if err := configInit(path, false); err != nil {
		t.Fatalf("init: %v", err)
	}
	res, err := config.LoadFromPath(path)
	if err != nil {
		t.Fatalf("written config should load: %v", err)
	}
	if res.Config.Desktop.Viewport != config.DefaultConfig().Desktop.Viewport {
		t.Fatalf("viewport = %+v", res.Config.Desktop.Viewport)
	}
	if err := configInit(path, false); err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("second init should refuse, got %v", err)
	}
	if err := configInit(path, true); err != nil {
		t.Fatalf("forced init: %v", err)
	}
}
