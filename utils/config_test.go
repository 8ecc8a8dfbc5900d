package utils

import "testing"

func TestParseArchitecture(t *testing.T) {
	arch, err := ParseArchitecture("784 128 32 10")
	if err != nil {
		t.Fatal(err)
	}
	want := []int{784, 128, 32, 10}
	if len(arch) != len(want) {
		t.Fatalf("got %v, want %v", arch, want)
	}
	for i := range want {
		if arch[i] != want[i] {
			t.Fatalf("got %v, want %v", arch, want)
		}
	}
}

func TestParseArchitectureInvalid(t *testing.T) {
	if _, err := ParseArchitecture("784 abc 10"); err == nil {
		t.Fatal("expected parse error")
	}
}

func validConfig() *Config {
	return &Config{
		Architecture: []int{8, 4, 2},
		Activation:   "relu",
		Epochs:       5,
		LearningRate: 0.01,
		Samples:      100,
	}
}

func TestValidateConfig(t *testing.T) {
	if err := ValidateConfig(validConfig()); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"too few layers", func(c *Config) { c.Architecture = []int{8} }},
		{"non-positive width", func(c *Config) { c.Architecture = []int{8, 0, 2} }},
		{"zero epochs", func(c *Config) { c.Epochs = 0 }},
		{"zero learning rate", func(c *Config) { c.LearningRate = 0 }},
		{"no data source", func(c *Config) { c.DataPath = ""; c.Samples = 0 }},
		{"negative checkpoint interval", func(c *Config) { c.CheckpointEvery = -1 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := validConfig()
			tc.mutate(c)
			if err := ValidateConfig(c); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
