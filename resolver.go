package modcheck

// Resolver picks the record serving a key. It never mutates the registry.
type Resolver struct {
	registry *Registry
	strict   bool
}

func NewResolver(registry *Registry, strict bool) *Resolver {
	return &Resolver{registry: registry, strict: strict}
}

// Resolve applies the lookup rules in order:
//   - exact (type, qualifier) match, the last registered definition wins
//   - for an unqualified key, the only definition bound to the type whatever its qualifier
//   - several qualified candidates for an unqualified key is ambiguous
func (r *Resolver) Resolve(key Key) (*Record, error) {
	if exact := r.registry.Lookup(key); len(exact) > 0 {
		if r.strict && len(exact) > 1 {
			return nil, &ConflictingBindingError{Key: key, Candidates: exact}
		}
		return exact[len(exact)-1], nil
	}

	if key.IsQualified() {
		return nil, &MissingBindingError{Key: key}
	}

	candidates := r.registry.ByType(key.Type)
	switch len(candidates) {
	case 0:
		return nil, &MissingBindingError{Key: key}
	case 1:
		return candidates[0], nil
	default:
		return nil, &AmbiguousBindingError{Key: key, Candidates: candidates}
	}
}
