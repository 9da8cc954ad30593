package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGlobalFlags(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		wantDir    string
		wantConfig string
	}{
		{name: "defaults", args: []string{"report"}, wantDir: "."},
		{name: "before command", args: []string{"--dir", "/data", "report", "--pretty"}, wantDir: "/data"},
		{name: "after command", args: []string{"tasks", "--format", "json", "--config=/etc/ct.toml"}, wantDir: ".", wantConfig: "/etc/ct.toml"},
		{name: "help", args: []string{"--help"}, wantDir: "."},
		{name: "unknown shorthand", args: []string{"tasks", "-f", "yaml", "--dir", "x"}, wantDir: "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir, configPath := globalFlags(tt.args)
			assert.Equal(t, tt.wantDir, dir)
			assert.Equal(t, tt.wantConfig, configPath)
		})
	}
}
