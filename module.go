package modcheck

type (
	// Entry is either a Definition or a nested *Module.
	Entry interface {
		isEntry()
	}

	// Module groups definitions and nested modules.
	//
	// Module names are organizational only: every definition of a module forest belongs to the same
	// flattened scope.
	Module struct {
		name    string
		entries []Entry
	}
)

// NewModule creates a module, an empty name makes it anonymous.
func NewModule(name string, entries ...Entry) *Module {
	m := &Module{name: name}
	return m.Add(entries...)
}

// Add appends entries, keeping declaration order.
func (m *Module) Add(entries ...Entry) *Module {
	for _, e := range entries {
		if e == nil {
			continue
		}
		if sub, ok := e.(*Module); ok && sub == nil {
			continue
		}
		m.entries = append(m.entries, e)
	}
	return m
}

func (m *Module) Name() string {
	return m.name
}

func (m *Module) Entries() []Entry {
	return m.entries
}

// Definitions returns the definitions declared directly in this module.
func (m *Module) Definitions() []Definition {
	var defs []Definition
	for _, e := range m.entries {
		if d, ok := e.(Definition); ok {
			defs = append(defs, d)
		}
	}
	return defs
}

// Submodules returns the modules nested directly in this module.
func (m *Module) Submodules() []*Module {
	var subs []*Module
	for _, e := range m.entries {
		if sub, ok := e.(*Module); ok {
			subs = append(subs, sub)
		}
	}
	return subs
}

func (*Module) isEntry() {}
