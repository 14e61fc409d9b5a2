package schedule

import (
	"context"

	"github.com/TheBitDrifter/depot"
	"github.com/sirupsen/logrus"
)

// SystemID is the arena index of a system name.
type SystemID uint32

// Mode tells how a handler is run.
type Mode int

const (
	ModeInline Mode = iota
	ModeConcurrent
)

func (m Mode) String() string {
	switch m {
	case ModeInline:
		return "inline"
	case ModeConcurrent:
		return "concurrent"
	}
	return "unknown"
}

// Handler is either Inline or Concurrent.
type Handler interface {
	Mode() Mode
}

// Inline handlers run to completion on the goroutine driving the tick.
type Inline func(tc *TickContext) error

// Concurrent handlers run on the executor. Sub-tasks started through tasks are
// awaited before the system counts as complete.
type Concurrent func(tc *TickContext, tasks *Tasks) error

func (Inline) Mode() Mode     { return ModeInline }
func (Concurrent) Mode() Mode { return ModeConcurrent }

// System is a unit of logic run once per tick.
type System struct {
	Name    string
	Query   *depot.Query
	Handler Handler
}

// TickContext is handed to a handler for one run.
type TickContext struct {
	Context context.Context
	System  string
	// Data holds the locked columns matched by the system's query. It is nil for
	// systems without a query and is released by the scheduler after the handler.
	Data *depot.Accessor
	// Manager is locked for the whole tick; structural changes must go through its
	// Enqueue methods. Get and Set on a column held by Data, or by a system running
	// alongside, fail with depot.ColumnBusyError; use Data for those columns.
	Manager *depot.DataManager
	Log     *logrus.Entry
}

// Executor runs concurrent systems.
type Executor interface {
	Go(fn func())
}

// ExecutorFunc adapts a function to Executor.
type ExecutorFunc func(fn func())

func (f ExecutorFunc) Go(fn func()) {
	f(fn)
}

// Goroutines starts every concurrent system on its own goroutine.
var Goroutines Executor = ExecutorFunc(func(fn func()) { go fn() })

type Arena[T any] interface {
	GetIndex(string) (int, bool)
	GetItem(int) *T
	Register(string, T) (int, error)
	Len() int
}

type factory struct{}

var Factory factory

func (f factory) NewScheduler() *Scheduler {
	return newScheduler()
}

func FactoryNewArena[T any](cap int) Arena[T] {
	return newArena[T](cap)
}
