package depot

import "github.com/sirupsen/logrus"

const (
	// DefaultChunkByteBudget is the target size of one chunk's columns.
	DefaultChunkByteBudget = 16 * 1024
	// MaxComponents is the number of component types a registry can hold; one bit
	// of an ArchetypeKey per type.
	MaxComponents = 256
)

// Config holds global configuration for new data managers. Values are read when a
// DataManager is created; changing them later does not affect existing managers.
var Config config = config{
	chunkByteBudget: DefaultChunkByteBudget,
}

type config struct {
	chunkCapacity   int
	chunkByteBudget int
	logger          *logrus.Logger
}

// SetChunkCapacity fixes the number of entities per chunk. Zero derives the
// capacity from the byte budget.
func (c *config) SetChunkCapacity(n int) {
	c.chunkCapacity = max(n, 0)
}

// SetChunkByteBudget sets the byte budget used to derive chunk capacity.
func (c *config) SetChunkByteBudget(n int) {
	if n <= 0 {
		n = DefaultChunkByteBudget
	}
	c.chunkByteBudget = n
}

// SetLogger replaces the logger used by data managers. Nil restores the logrus
// standard logger.
func (c *config) SetLogger(l *logrus.Logger) {
	c.logger = l
}

func (c *config) log() *logrus.Logger {
	if c.logger == nil {
		return logrus.StandardLogger()
	}
	return c.logger
}
