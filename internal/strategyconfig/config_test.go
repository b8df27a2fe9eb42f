package strategyconfig

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const sampleYAML = `
meta:
  strategy_id: sp500_momentum
  version: "1.0.0"
  timezone: America/New_York
universe:
  source: sp500
signals:
  momentum_months: 3
  moving_average_months: 6
portfolio:
  wallet_size: 10
schedule:
  enabled: true
  cron: "30 17 * * 5"
cache:
  retain_on_success: true
`

func TestLoad(t *testing.T) {
	path := "../../config/strategy/ibrx100_dual_momentum.yaml"

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Skip("config file not found")
	}

	cfg, yamlData, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Meta.StrategyID != "ibrx100_dual_momentum" {
		t.Errorf("expected strategy_id=ibrx100_dual_momentum, got %s", cfg.Meta.StrategyID)
	}
	if cfg.Universe.Source != "ibrx100" {
		t.Errorf("expected source=ibrx100, got %s", cfg.Universe.Source)
	}

	hash, err := Hash(cfg)
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if len(hash) != 64 {
		t.Errorf("expected 64 char hash, got %d", len(hash))
	}

	// 동일 설정 → 동일 해시
	hash2, _ := Hash(cfg)
	if hash != hash2 {
		t.Error("hash not deterministic")
	}

	t.Logf("config hash: %s", hash)
	t.Logf("yaml size: %d bytes", len(yamlData))
}

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	sig := cfg.SignalsConfig()
	if sig.MomentumWindow() != 63 || sig.MovingAverageWindow() != 126 {
		t.Errorf("unexpected windows: %d / %d", sig.MomentumWindow(), sig.MovingAverageWindow())
	}
	if cfg.Portfolio.WalletSize != 10 || !cfg.Cache.RetainOnSuccess {
		t.Errorf("unexpected portfolio/cache: %+v %+v", cfg.Portfolio, cfg.Cache)
	}

	loc, err := cfg.Location()
	if err != nil || loc.String() != "America/New_York" {
		t.Errorf("Location() = %v, %v", loc, err)
	}
}

func TestParse_UnknownField(t *testing.T) {
	data := sampleYAML + "extra_field: 1\n"
	if _, err := Parse([]byte(data)); err == nil {
		t.Error("expected unknown field to fail")
	}
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "strategy.yaml")
	if err := os.WriteFile(path, []byte(sampleYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, data, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Meta.StrategyID != "sp500_momentum" || len(data) == 0 {
		t.Errorf("unexpected result: %+v", cfg.Meta)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"default is valid", func(*Config) {}, ""},
		{"missing id", func(c *Config) { c.Meta.StrategyID = "" }, "meta.strategy_id"},
		{"bad timezone", func(c *Config) { c.Meta.Timezone = "Mars/Olympus" }, "meta.timezone"},
		{"unknown source", func(c *Config) { c.Universe.Source = "nasdaq" }, "universe.source"},
		{"zero momentum", func(c *Config) { c.Signals.MomentumMonths = 0 }, "signals.momentum_months"},
		{"too long ma", func(c *Config) { c.Signals.MovingAverageMonths = 13 }, "signals.moving_average_months"},
		{"zero wallet", func(c *Config) { c.Portfolio.WalletSize = 0 }, "portfolio.wallet_size"},
		{"bad cron", func(c *Config) { c.Schedule.Enabled = true; c.Schedule.Cron = "every day" }, "schedule.cron"},
		{"empty cron", func(c *Config) { c.Schedule.Enabled = true; c.Schedule.Cron = "" }, "schedule.cron"},
		{"bad cron ignored when disabled", func(c *Config) { c.Schedule.Cron = "nope" }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := Validate(cfg)

			if tt.field == "" {
				if err != nil {
					t.Errorf("expected valid, got %v", err)
				}
				return
			}

			var verr ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != tt.field {
				t.Errorf("field = %s, want %s", verr.Field, tt.field)
			}
		})
	}
}

func TestWarn(t *testing.T) {
	cfg := Default()
	if len(Warn(cfg)) != 0 {
		t.Errorf("default config should not warn: %v", Warn(cfg))
	}

	cfg.Signals.MomentumMonths = 12
	cfg.Portfolio.WalletSize = 25
	cfg.Schedule.Enabled = true
	cfg.Meta.Timezone = ""

	warnings := Warn(cfg)
	if len(warnings) != 3 {
		t.Errorf("expected 3 warnings, got %d", len(warnings))
	}
}

func TestSnapshot(t *testing.T) {
	cfg := Default()
	yamlData := []byte("test yaml content")

	snapshot, err := NewSnapshot(cfg, yamlData)
	if err != nil {
		t.Fatalf("NewSnapshot failed: %v", err)
	}

	if snapshot.StrategyID != "ibrx100_dual_momentum" {
		t.Errorf("expected strategy_id=ibrx100_dual_momentum, got %s", snapshot.StrategyID)
	}
	if len(snapshot.ConfigHash) != 64 {
		t.Errorf("expected 64 char hash, got %d", len(snapshot.ConfigHash))
	}
	if snapshot.ConfigYAML != "test yaml content" {
		t.Error("yaml content not preserved")
	}

	other := Default()
	other.Portfolio.WalletSize = 10
	otherHash, _ := Hash(other)
	if otherHash == snapshot.ConfigHash {
		t.Error("different configs should hash differently")
	}
}
