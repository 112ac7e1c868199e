package shared

import (
	"bytes"
	"strings"
	"testing"
)

func TestOpenCommand(t *testing.T) {
	tests := []struct {
		goos    string
		wantBin string
		wantErr bool
	}{
		{"darwin", "open", false},
		{"linux", "xdg-open", false},
		{"windows", "rundll32", false},
		{"plan9", "", true},
	}

	orig := goos
	defer func() { goos = orig }()

	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			goos = func() string { return tt.goos }

			cmd, err := openCommand("report.csv")
			if tt.wantErr {
				if err == nil {
					t.Fatal("openCommand() expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("openCommand() error = %v", err)
			}
			if cmd.Args[0] != tt.wantBin {
				t.Errorf("binary = %q, want %q", cmd.Args[0], tt.wantBin)
			}
			if cmd.Args[len(cmd.Args)-1] != "report.csv" {
				t.Errorf("last arg = %q, want report.csv", cmd.Args[len(cmd.Args)-1])
			}
		})
	}
}

func TestWithRun(t *testing.T) {
	var buf bytes.Buffer
	logger := WithRun(NewLogger(&buf))
	logger.Info("hello")

	if !strings.Contains(buf.String(), "run=") {
		t.Errorf("log output %q missing run id", buf.String())
	}
}

func TestOrDiscard(t *testing.T) {
	if OrDiscard(nil) == nil {
		t.Fatal("OrDiscard(nil) returned nil")
	}
}
