// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestWriteConfigReadsResearchViperKeys(t *testing.T) {
	viper.Set("research.timeout", 5*time.Second)
	viper.Set("research.user_agent", "custom-agent/1.0")
	viper.Set("research.max_related_topics", 7)
	t.Cleanup(viper.Reset)

	cfg := writeConfig(writeCmd)
	if cfg.Research.Timeout != 5*time.Second {
		t.Errorf("Research.Timeout = %v, want 5s", cfg.Research.Timeout)
	}
	if cfg.Research.UserAgent != "custom-agent/1.0" {
		t.Errorf("Research.UserAgent = %q", cfg.Research.UserAgent)
	}
	if cfg.Research.MaxRelatedTopics != 7 {
		t.Errorf("Research.MaxRelatedTopics = %d, want 7", cfg.Research.MaxRelatedTopics)
	}
}

func TestWriteConfigResearchDefaults(t *testing.T) {
	viper.Reset()

	cfg := writeConfig(writeCmd)
	if cfg.Research.Timeout != 30*time.Second {
		t.Errorf("Research.Timeout = %v, want 30s default", cfg.Research.Timeout)
	}
	if cfg.Research.UserAgent != defaultUserAgent {
		t.Errorf("Research.UserAgent = %q, want %q", cfg.Research.UserAgent, defaultUserAgent)
	}
	if cfg.Research.MaxRelatedTopics != 0 {
		t.Errorf("Research.MaxRelatedTopics = %d, want 0 (stage default applies)", cfg.Research.MaxRelatedTopics)
	}
}
