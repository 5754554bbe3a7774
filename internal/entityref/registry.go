package entityref

import "fmt"

// Reference is a weak, type-tagged pointer to another record. It is stored
// alongside a notification or event and resolved by lookup at read time; the
// referenced record owes it nothing and may be deleted at any point.
type Reference struct {
	Type string `json:"type"`
	ID   uint   `json:"id"`
}

// Entity is the resolved form of a Reference: enough to render a short
// human-readable summary of the referenced record.
type Entity struct {
	ID          uint   `json:"id"`
	Type        string `json:"type"`
	DisplayName string `json:"display_name"`
}

// ResolverFunc loads an entity by primary key. Returning (nil, nil) means the
// record does not exist; errors are reserved for infrastructure failures.
type ResolverFunc func(id uint) (*Entity, error)

// Registry maps type tags ("order", "product", ...) to resolver funcs
// supplied by the owning feature. It holds no state of its own.
type Registry struct {
	resolvers map[string]ResolverFunc
}

func NewRegistry() *Registry {
	return &Registry{resolvers: make(map[string]ResolverFunc)}
}

func (r *Registry) Register(typeTag string, resolver ResolverFunc) {
	r.resolvers[typeTag] = resolver
}

func (r *Registry) Registered(typeTag string) bool {
	_, ok := r.resolvers[typeTag]
	return ok
}

// Resolve returns the entity behind (typeTag, id), or nil when the tag is
// unknown or the record is missing. Only a structurally invalid pair is an
// error; a dangling reference is a normal, handleable state.
func (r *Registry) Resolve(typeTag string, id uint) (*Entity, error) {
	if typeTag == "" || id == 0 {
		return nil, fmt.Errorf("invalid entity reference: type=%q id=%d", typeTag, id)
	}

	resolver, ok := r.resolvers[typeTag]

	if !ok {
		return nil, nil
	}

	return resolver(id)
}
