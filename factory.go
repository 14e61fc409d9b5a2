package depot

type factory struct{}

var Factory factory

func (f factory) NewRegistry() *Registry {
	return newRegistry()
}

func (f factory) NewDataManager(registry *Registry) *DataManager {
	return newDataManager(registry)
}

func (f factory) NewQuery() *Query {
	return newQuery()
}

func (f factory) NewCursor(accessor *Accessor) *Cursor {
	return newCursor(accessor)
}
