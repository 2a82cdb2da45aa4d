package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.TickInterval != 5*time.Minute {
		t.Errorf("TickInterval = %v, want 5m", cfg.TickInterval)
	}
	if cfg.BatchSize != 100 {
		t.Errorf("BatchSize = %d, want 100", cfg.BatchSize)
	}
	if cfg.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want 3", cfg.MaxRetries)
	}
	if !cfg.NotifyOnCancel {
		t.Error("NotifyOnCancel should default to true")
	}
	if !cfg.MarkRecipientsDeliveredOnAttempt {
		t.Error("MarkRecipientsDeliveredOnAttempt should default to true")
	}
	if cfg.Addr() != ":9090" {
		t.Errorf("Addr() = %q", cfg.Addr())
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr bool
	}{
		{"zero retries", map[string]string{"NOTIFICATION_MAX_RETRIES": "0"}, true},
		{"zero batch", map[string]string{"NOTIFICATION_BATCH_SIZE": "0"}, true},
		{"zero tick", map[string]string{"NOTIFICATION_TICK_INTERVAL": "0s"}, true},
		{"negative tick", map[string]string{"NOTIFICATION_TICK_INTERVAL": "-1m"}, true},
		{"buffer below half tick", map[string]string{"REMINDER_BUFFER": "2m"}, true},
		{"buffer exactly half tick", map[string]string{"REMINDER_BUFFER": "150s"}, false},
		{"short tick short buffer", map[string]string{"NOTIFICATION_TICK_INTERVAL": "30s", "REMINDER_BUFFER": "15s"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Load() err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
