package depot

type Position struct {
	X float64
	Y float64
}

type Velocity struct {
	X float64
	Y float64
}

type Health struct {
	Value int
}

type Disabled struct{}

type testComponents struct {
	position AccessibleComponent[Position]
	velocity AccessibleComponent[Velocity]
	health   AccessibleComponent[Health]
	disabled AccessibleComponent[Disabled]
}

// newTestManager builds a data manager whose chunks hold capacity entities.
func newTestManager(capacity int) (*DataManager, testComponents) {
	prev := Config.chunkCapacity
	Config.SetChunkCapacity(capacity)
	registry := Factory.NewRegistry()
	dm := Factory.NewDataManager(registry)
	Config.chunkCapacity = prev

	return dm, testComponents{
		position: RegisterComponent[Position](registry),
		velocity: RegisterComponent[Velocity](registry),
		health:   RegisterComponent[Health](registry),
		disabled: RegisterComponent[Disabled](registry),
	}
}
