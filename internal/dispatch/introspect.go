package dispatch

import "fmt"

// ResolveMethod resolves a method name against the object's dispatch table.
// The raw name is passed through unchanged; matching is the object's
// concern.
func ResolveMethod(d Dispatchable, name string) (ID, error) {
	id, err := d.ResolveID(name)
	if err != nil {
		return 0, fmt.Errorf("method %q: %w", name, err)
	}
	return id, nil
}

// ResolveNames resolves a set of property (argument) names against the
// object's dispatch table. Resolution is all-or-nothing: the first name
// the table does not know fails the whole set, so no partial invocation
// can follow. Names are resolved in the order given; callers pass a
// deterministic order for stable error reporting.
func ResolveNames(d Dispatchable, names []string) (map[string]ID, error) {
	ids := make(map[string]ID, len(names))
	for _, name := range names {
		id, err := d.ResolveID(name)
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", name, err)
		}
		ids[name] = id
	}
	return ids, nil
}
