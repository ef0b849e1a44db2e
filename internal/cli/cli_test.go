package cli

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf, log.InfoLevel)

	if c == nil {
		t.Fatal("New() returned nil")
	}
	if c.Logger == nil {
		t.Fatal("New() returned CLI with nil logger")
	}
	if c.Logger.GetLevel() != log.InfoLevel {
		t.Errorf("logger level = %v, want %v", c.Logger.GetLevel(), log.InfoLevel)
	}
}

func TestSetLogLevel(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf, log.InfoLevel)

	c.SetLogLevel(log.DebugLevel)

	if c.Logger.GetLevel() != log.DebugLevel {
		t.Errorf("logger level = %v, want %v", c.Logger.GetLevel(), log.DebugLevel)
	}
}

func TestRootCommand(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf, log.InfoLevel)

	root := c.RootCommand()

	if root.Use != "pulsegraph" {
		t.Errorf("root.Use = %q, want %q", root.Use, "pulsegraph")
	}
	if root.Version == "" {
		t.Error("root.Version should not be empty")
	}

	want := []string{"play", "layout", "export", "preview", "watch", "serve", "cache", "completion"}
	registered := make(map[string]bool)
	for _, cmd := range root.Commands() {
		registered[cmd.Name()] = true
	}
	for _, name := range want {
		if !registered[name] {
			t.Errorf("root command missing subcommand %q", name)
		}
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty defaults to svg", "", []string{"svg"}},
		{"single format", "png", []string{"png"}},
		{"multiple formats", "json,dot", []string{"json", "dot"}},
		{"all formats", "json,dot,svg,png", []string{"json", "dot", "svg", "png"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseFormats(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
