package comauto

import (
	"fmt"

	ole "github.com/go-ole/go-ole"

	"github.com/ecrtools/combridge/internal/dispatch"
)

// object adapts a live IDispatch pointer to the Dispatchable interface.
// The pipeline owns it exclusively and releases it exactly once.
type object struct {
	disp     *ole.IDispatch
	released bool
}

// ResolveID asks the object's own name table for a dispatch identifier.
// The raw name goes through unchanged; matching is case-insensitive and
// locale-neutral on the object's side.
func (o *object) ResolveID(name string) (dispatch.ID, error) {
	ids, err := o.disp.GetIDsOfName([]string{name})
	if err != nil || len(ids) == 0 {
		return 0, fmt.Errorf("%q: %w", name, dispatch.ErrUnknownName)
	}
	return dispatch.ID(ids[0]), nil
}

// Release frees the handle. Idempotent so the deferred release on the
// failure path cannot double-free.
func (o *object) Release() {
	if o.released {
		return
	}
	o.disp.Release()
	o.released = true
}
