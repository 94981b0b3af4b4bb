package schema

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownRoute is returned when a route has no table in the registry.
var ErrUnknownRoute = errors.New("unknown route")

// Registry maps route names to table schemas.
type Registry struct {
	tables map[string]Table
}

// NewRegistry builds a registry keyed by each table's name.
func NewRegistry(tables ...Table) *Registry {
	r := &Registry{tables: make(map[string]Table, len(tables))}
	for _, t := range tables {
		r.tables[t.Name] = t
	}
	return r
}

// Lookup returns the table bound to route.
func (r *Registry) Lookup(route string) (Table, error) {
	t, ok := r.tables[route]
	if !ok {
		return Table{}, fmt.Errorf("%w: %q", ErrUnknownRoute, route)
	}
	return t, nil
}

// Routes returns the registered route names, sorted.
func (r *Registry) Routes() []string {
	routes := make([]string, 0, len(r.tables))
	for name := range r.tables {
		routes = append(routes, name)
	}
	sort.Strings(routes)
	return routes
}

// Validate checks every route resolves to a table.
func (r *Registry) Validate(routes []string) error {
	var errs []error
	for _, route := range routes {
		if _, err := r.Lookup(route); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
