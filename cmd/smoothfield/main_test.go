package main

import (
	"testing"

	"github.com/spf13/cobra"
)

func TestParseRange(t *testing.T) {
	tests := []struct {
		spec   string
		name   string
		values []float64
		err    bool
	}{
		{"epsilon=0.01:0.03:3", "epsilon", []float64{0.01, 0.02, 0.03}, false},
		{"theta1=2:2:1", "theta1", []float64{2}, false},
		{"capacity=64:128:2", "capacity", []float64{64, 128}, false},
		{"epsilon", "", nil, true},
		{"=1:2:3", "", nil, true},
		{"dt=a:1:2", "", nil, true},
		{"dt=0.1:0.2:0", "", nil, true},
		{"dt=0.1:0.2", "", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			name, values, err := parseRange(tt.spec)
			if tt.err {
				if err == nil {
					t.Errorf("expected error for %q", tt.spec)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if name != tt.name || len(values) != len(tt.values) {
				t.Fatalf("got %s %v, want %s %v", name, values, tt.name, tt.values)
			}
			for i := range values {
				if d := values[i] - tt.values[i]; d > 1e-12 || d < -1e-12 {
					t.Errorf("value %d: got %g, want %g", i, values[i], tt.values[i])
				}
			}
		})
	}
}

func newFieldCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	addFieldFlags(cmd)
	cmd.Flags().Int("ticks", 10, "")
	return cmd
}

func TestResolveConfig(t *testing.T) {
	cmd := newFieldCmd()
	if err := cmd.Flags().Set("preset", "small"); err != nil {
		t.Fatal(err)
	}
	if err := cmd.Flags().Set("epsilon", "0.02"); err != nil {
		t.Fatal(err)
	}
	if err := cmd.Flags().Set("ticks", "7"); err != nil {
		t.Fatal(err)
	}

	cfg, name, err := resolveConfig(cmd)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if name != "small" {
		t.Errorf("expected name small, got %s", name)
	}
	if cfg.Capacity != 64 {
		t.Errorf("unchanged flag overrode preset capacity: %d", cfg.Capacity)
	}
	if cfg.Resample.Epsilon != 0.02 || cfg.Ticks != 7 {
		t.Errorf("changed flags not applied: eps %g ticks %d", cfg.Resample.Epsilon, cfg.Ticks)
	}
}

func TestResolveConfig_Errors(t *testing.T) {
	cmd := newFieldCmd()
	if err := cmd.Flags().Set("preset", "nope"); err != nil {
		t.Fatal(err)
	}
	if _, _, err := resolveConfig(cmd); err == nil {
		t.Error("expected error for unknown preset")
	}

	cmd = newFieldCmd()
	if err := cmd.Flags().Set("capacity", "2"); err != nil {
		t.Fatal(err)
	}
	if _, _, err := resolveConfig(cmd); err == nil {
		t.Error("expected error for capacity below the minimum field size")
	}
}
