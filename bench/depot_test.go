package bench

import (
	"context"
	"testing"

	"github.com/TheBitDrifter/depot"
	"github.com/TheBitDrifter/depot/schedule"
)

const (
	nPos    = 9000
	nPosVel = 1000
)

type Position struct {
	X float64
	Y float64
}

type Velocity struct {
	X float64
	Y float64
}

func setup(b *testing.B) (*depot.DataManager, depot.AccessibleComponent[Position], depot.AccessibleComponent[Velocity]) {
	registry := depot.Factory.NewRegistry()
	position := depot.RegisterComponent[Position](registry)
	velocity := depot.RegisterComponent[Velocity](registry)
	data := depot.Factory.NewDataManager(registry)

	for i := 0; i < nPos; i++ {
		if _, err := data.AddEntity(position.Value(Position{})); err != nil {
			b.Fatal(err)
		}
	}
	for i := 0; i < nPosVel; i++ {
		if _, err := data.AddEntity(position.Value(Position{}), velocity.Value(Velocity{X: 1, Y: 1})); err != nil {
			b.Fatal(err)
		}
	}
	return data, position, velocity
}

func BenchmarkIterDepotCursor(b *testing.B) {
	b.StopTimer()
	data, position, velocity := setup(b)
	query := depot.Factory.NewQuery().
		Require(position, depot.ReadWrite).
		Require(velocity, depot.ReadOnly)
	b.StartTimer()

	for i := 0; i < b.N; i++ {
		accessor := data.Resolve(query)
		cursor := depot.Factory.NewCursor(accessor)
		for cursor.Next() {
			pos := position.GetFromCursor(cursor)
			vel, _ := velocity.ReadFromCursor(cursor)
			pos.X += vel.X
			pos.Y += vel.Y
		}
		accessor.Release()
	}
}

func BenchmarkIterDepotColumns(b *testing.B) {
	b.StopTimer()
	data, position, velocity := setup(b)
	query := depot.Factory.NewQuery().
		Require(position, depot.ReadWrite).
		Require(velocity, depot.ReadOnly)
	b.StartTimer()

	for i := 0; i < b.N; i++ {
		accessor := data.Resolve(query)
		for _, view := range accessor.Views() {
			positions, _ := depot.Write[Position](view, position)
			velocities, _ := depot.Read[Velocity](view, velocity)
			for j := range positions {
				positions[j].X += velocities[j].X
				positions[j].Y += velocities[j].Y
			}
		}
		accessor.Release()
	}
}

func BenchmarkTickDepot(b *testing.B) {
	b.StopTimer()
	data, position, velocity := setup(b)
	scheduler := schedule.Factory.NewScheduler()
	err := scheduler.NewSystem("integrate").
		Query(depot.Factory.NewQuery().Require(position, depot.ReadWrite).Require(velocity, depot.ReadOnly)).
		Concurrent(func(tc *schedule.TickContext, tasks *schedule.Tasks) error {
			schedule.ForEachChunk(tasks, tc.Data, func(_ context.Context, view *depot.ChunkView) error {
				positions, _ := depot.Write[Position](view, position)
				velocities, _ := depot.Read[Velocity](view, velocity)
				for j := range positions {
					positions[j].X += velocities[j].X
					positions[j].Y += velocities[j].Y
				}
				return nil
			})
			return nil
		})
	if err != nil {
		b.Fatal(err)
	}
	pool := schedule.NewPool(4)
	ctx := context.Background()
	b.StartTimer()

	for i := 0; i < b.N; i++ {
		if err := scheduler.Tick(ctx, data, pool); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkCreateRemoveDepot(b *testing.B) {
	b.StopTimer()
	registry := depot.Factory.NewRegistry()
	position := depot.RegisterComponent[Position](registry)
	velocity := depot.RegisterComponent[Velocity](registry)
	data := depot.Factory.NewDataManager(registry)
	entities := make([]depot.EntityID, 0, nPosVel)
	b.StartTimer()

	for i := 0; i < b.N; i++ {
		entities = entities[:0]
		for j := 0; j < nPosVel; j++ {
			id, err := data.AddEntity(position.Value(Position{}), velocity.Value(Velocity{}))
			if err != nil {
				b.Fatal(err)
			}
			entities = append(entities, id)
		}
		for _, id := range entities {
			if err := data.RemoveEntity(id); err != nil {
				b.Fatal(err)
			}
		}
	}
}
