package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.HTTPAddr == "" {
		t.Error("HTTPAddr default missing")
	}
	if len(cfg.KafkaBrokers) == 0 {
		t.Error("KafkaBrokers default missing")
	}
	if cfg.RateLimitPerMinute <= 0 {
		t.Error("RateLimitPerMinute must be positive")
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("DELIVERY_CHARGE_CENTS", "2500")
	t.Setenv("SMTP_PORT", "notanumber")

	cfg := Load()
	if len(cfg.KafkaBrokers) != 2 || cfg.KafkaBrokers[1] != "k2:9092" {
		t.Errorf("KafkaBrokers = %v", cfg.KafkaBrokers)
	}
	if cfg.DeliveryChargeCents != 2500 {
		t.Errorf("DeliveryChargeCents = %d", cfg.DeliveryChargeCents)
	}
	if cfg.SMTPPort != 587 {
		t.Errorf("SMTPPort = %d, want default on bad value", cfg.SMTPPort)
	}
}
