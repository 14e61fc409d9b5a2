package main

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestLoadSettings(t *testing.T) {
	t.Setenv("DEPOT_ENTITIES", "250")
	t.Setenv("DEPOT_TICKS", "not-a-number")
	t.Setenv("DEPOT_STALL_TIMEOUT", "250ms")
	t.Setenv("DEPOT_LOG_LEVEL", "debug")

	s := loadSettings()
	assert.Equal(t, 250, s.entities)
	assert.Equal(t, 60, s.ticks, "invalid values fall back to defaults")
	assert.Equal(t, 250*time.Millisecond, s.stallTimeout)
	assert.Equal(t, logrus.DebugLevel, s.level)
}
