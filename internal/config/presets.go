package config

import "sort"

func preset(capacity int, theta1, theta2, spread float64) *Config {
	cfg := DefaultConfig()
	cfg.Capacity = capacity
	cfg.InitState.Theta1 = theta1
	cfg.InitState.Theta2 = theta2
	cfg.InitState.Spread = spread
	return cfg
}

var Presets = map[string]*Config{
	"ribbon":   preset(4096, 3.1, 2.9, 0.1),
	"original": preset(32768, 2.9, 1.3, 1e-3),
	"gentle":   preset(1024, 0.6, 0.4, 0.05),
	"small":    preset(64, 2.0, 1.8, 0.05),
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
