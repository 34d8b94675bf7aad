//go:build !windows

package comauto

import (
	"github.com/ecrtools/combridge/internal/bridge"
	"github.com/ecrtools/combridge/internal/dispatch"
	"github.com/ecrtools/combridge/internal/variant"
)

// Off-Windows, Init already fails before any object exists; these stubs
// only satisfy the interface.

func (o *object) Invoke(method dispatch.ID, args []dispatch.NamedArg) (variant.Value, error) {
	return nil, bridge.NewError(bridge.CodeLifecycle, "COM automation requires windows")
}

func (o *object) GetProperty(id dispatch.ID) (variant.Value, error) {
	return nil, bridge.NewError(bridge.CodeLifecycle, "COM automation requires windows")
}
