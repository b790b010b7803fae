package config

import "testing"

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("AI_PROVIDER", "")
	t.Setenv("REPORT_OUTPUT_DIR", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Server.Port != "8085" {
		t.Errorf("Default port = %q", cfg.Server.Port)
	}
	if cfg.AI.Provider != "gemini" {
		t.Errorf("Default provider = %q", cfg.AI.Provider)
	}
	if cfg.Report.OutputDir != "reports" {
		t.Errorf("Default output dir = %q", cfg.Report.OutputDir)
	}
	if cfg.MongoDB.Port != "27017" || cfg.MongoDB.Database != "reports" {
		t.Errorf("Mongo defaults = %+v", cfg.MongoDB)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("AI_PROVIDER", "openai")
	t.Setenv("AI_TEMPERATURE", "0.7")
	t.Setenv("AI_MAX_TOKENS", "4096")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.AI.Provider != "openai" || cfg.AI.Temperature != 0.7 || cfg.AI.MaxTokens != 4096 {
		t.Errorf("AI config = %+v", cfg.AI)
	}
}

func TestValidateConfigRejectsUnknownProvider(t *testing.T) {
	cfg := &Config{
		AI:     AIConfig{Provider: "claude"},
		Report: ReportConfig{OutputDir: "reports"},
	}
	if err := ValidateConfig(cfg); err == nil {
		t.Error("Expected error for unknown provider")
	}
}
