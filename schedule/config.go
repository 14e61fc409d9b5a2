package schedule

import (
	"time"

	"github.com/sirupsen/logrus"
)

const (
	DefaultStallTimeout = 5 * time.Second
	DefaultMaxSystems   = 4096
)

// Config holds global configuration for new schedulers.
var Config config = config{
	stallTimeout: DefaultStallTimeout,
	maxSystems:   DefaultMaxSystems,
}

type config struct {
	stallTimeout time.Duration
	maxSystems   int
	logger       *logrus.Logger
}

// SetStallTimeout sets how long a tick waits on in-flight systems before logging
// which ones are still running. Zero disables the diagnostic.
func (c *config) SetStallTimeout(d time.Duration) {
	c.stallTimeout = max(d, 0)
}

// SetMaxSystems bounds the number of distinct system names a scheduler interns.
func (c *config) SetMaxSystems(n int) {
	if n <= 0 {
		n = DefaultMaxSystems
	}
	c.maxSystems = n
}

func (c *config) SetLogger(l *logrus.Logger) {
	c.logger = l
}

func (c *config) log() *logrus.Logger {
	if c.logger == nil {
		return logrus.StandardLogger()
	}
	return c.logger
}
