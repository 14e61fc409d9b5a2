// Command depotdemo runs a small particle simulation on one scene and logs how
// long each tick takes.
package main

import (
	"context"
	"math/rand/v2"
	"os"
	"time"

	"github.com/TheBitDrifter/depot"
	"github.com/TheBitDrifter/depot/scene"
	"github.com/TheBitDrifter/depot/schedule"
	"github.com/sirupsen/logrus"
)

var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)
	log.SetLevel(logrus.InfoLevel)
}

type Position struct{ X, Y float64 }

type Velocity struct{ X, Y float64 }

type Lifetime struct{ Ticks int }

func main() {
	cfg := loadSettings()
	log.SetLevel(cfg.level)
	depot.Config.SetLogger(log)
	depot.Config.SetChunkByteBudget(cfg.chunkBytes)
	schedule.Config.SetLogger(log)
	schedule.Config.SetStallTimeout(cfg.stallTimeout)

	pool := schedule.NewPool(cfg.workers)
	world := scene.NewWorld(pool, log)
	s := world.NewScene()

	if err := populate(s, cfg.entities); err != nil {
		log.WithError(err).Fatal("failed to populate scene")
	}
	if err := registerSystems(s); err != nil {
		log.WithError(err).Fatal("failed to register systems")
	}

	ctx := context.Background()
	for i := 0; i < cfg.ticks; i++ {
		start := time.Now()
		if err := world.Tick(ctx); err != nil {
			log.WithError(err).WithField("tick", i).Error("tick failed")
		}
		log.WithFields(logrus.Fields{
			"tick":     i,
			"entities": s.Data.Len(),
			"elapsed":  time.Since(start),
		}).Info("tick")
	}
	pool.Wait()
}

type components struct {
	position depot.AccessibleComponent[Position]
	velocity depot.AccessibleComponent[Velocity]
	lifetime depot.AccessibleComponent[Lifetime]
}

func componentsOf(s *scene.Scene) components {
	return components{
		position: depot.RegisterComponent[Position](s.Registry),
		velocity: depot.RegisterComponent[Velocity](s.Registry),
		lifetime: depot.RegisterComponent[Lifetime](s.Registry),
	}
}

func populate(s *scene.Scene, n int) error {
	c := componentsOf(s)
	for i := 0; i < n; i++ {
		_, err := s.Data.AddEntity(
			c.position.Value(Position{}),
			c.velocity.Value(Velocity{X: rand.Float64()*2 - 1, Y: rand.Float64()*2 - 1}),
			c.lifetime.Value(Lifetime{Ticks: 10 + rand.IntN(50)}),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func registerSystems(s *scene.Scene) error {
	c := componentsOf(s)

	moving := depot.Factory.NewQuery().
		Require(c.position, depot.ReadWrite).
		Require(c.velocity, depot.ReadOnly)
	aging := depot.Factory.NewQuery().
		Require(c.lifetime, depot.ReadWrite)
	expired := depot.Factory.NewQuery().
		Require(c.lifetime, depot.ReadOnly)

	err := s.Behavior.NewSystem("integrate").Query(moving).Concurrent(func(tc *schedule.TickContext, tasks *schedule.Tasks) error {
		schedule.ForEachChunk(tasks, tc.Data, func(_ context.Context, view *depot.ChunkView) error {
			pos, _ := depot.Write[Position](view, c.position)
			vel, _ := depot.Read[Velocity](view, c.velocity)
			for i := range pos {
				pos[i].X += vel[i].X
				pos[i].Y += vel[i].Y
			}
			return nil
		})
		return nil
	})
	if err != nil {
		return err
	}

	err = s.Behavior.NewSystem("age").Query(aging).Concurrent(func(tc *schedule.TickContext, tasks *schedule.Tasks) error {
		schedule.ForEachChunk(tasks, tc.Data, func(_ context.Context, view *depot.ChunkView) error {
			life, _ := depot.Write[Lifetime](view, c.lifetime)
			for i := range life {
				life[i].Ticks--
			}
			return nil
		})
		return nil
	})
	if err != nil {
		return err
	}

	err = s.Behavior.NewSystem("cull").After("integrate", "age").Query(expired).Inline(func(tc *schedule.TickContext) error {
		cursor := depot.Factory.NewCursor(tc.Data)
		for cursor.Next() {
			life, _ := c.lifetime.ReadFromCursor(cursor)
			if life.Ticks > 0 {
				continue
			}
			if err := tc.Manager.EnqueueRemoveEntity(cursor.Entity()); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	return s.Behavior.NewSystem("spawn").After("cull").Inline(func(tc *schedule.TickContext) error {
		for i := 0; i < 10; i++ {
			err := tc.Manager.EnqueueAddEntity(
				c.position.Value(Position{}),
				c.velocity.Value(Velocity{X: rand.Float64()*2 - 1, Y: rand.Float64()*2 - 1}),
				c.lifetime.Value(Lifetime{Ticks: 10 + rand.IntN(50)}),
			)
			if err != nil {
				return err
			}
		}
		return nil
	})
}
