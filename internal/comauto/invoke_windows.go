//go:build windows

package comauto

import (
	"math"
	"syscall"
	"unsafe"

	ole "github.com/go-ole/go-ole"

	"github.com/ecrtools/combridge/internal/dispatch"
	"github.com/ecrtools/combridge/internal/variant"
)

// dispE_Exception is the status for "the object raised a structured
// exception"; the detail then lives in the EXCEPINFO block.
const dispE_Exception = 0x80020009

// dispParams mirrors the automation DISPPARAMS layout. go-ole keeps its
// own copy unexported, and its high-level Invoke only supports positional
// arguments, so the named-argument call is built here directly.
type dispParams struct {
	args       uintptr // -> [cArgs]VARIANT
	namedIDs   uintptr // -> [cNamedArgs]int32
	cArgs      uint32
	cNamedArgs uint32
}

// excepInfo mirrors the automation EXCEPINFO layout.
type excepInfo struct {
	wCode             uint16
	wReserved         uint16
	source            *uint16
	description       *uint16
	helpFile          *uint16
	helpContext       uint32
	pvReserved        uintptr
	pfnDeferredFillIn uintptr
	scode             int32
}

// Invoke performs a single dispatch call with method semantics, supplying
// every argument by identifier. One attempt, no retries; the call blocks
// for as long as the object's method runs.
func (o *object) Invoke(method dispatch.ID, args []dispatch.NamedArg) (variant.Value, error) {
	vargs := make([]ole.VARIANT, len(args))
	ids := make([]int32, len(args))
	var bstrs []*int16
	defer func() {
		for _, p := range bstrs {
			ole.SysFreeString(p)
		}
	}()

	for i, arg := range args {
		v, bstr := valueToVariant(arg.Value)
		vargs[i] = v
		ids[i] = int32(arg.ID)
		if bstr != nil {
			bstrs = append(bstrs, bstr)
		}
	}

	params := dispParams{cArgs: uint32(len(args)), cNamedArgs: uint32(len(args))}
	if len(args) > 0 {
		params.args = uintptr(unsafe.Pointer(&vargs[0]))
		params.namedIDs = uintptr(unsafe.Pointer(&ids[0]))
	}

	return o.rawInvoke(method, ole.DISPATCH_METHOD, &params)
}

// GetProperty reads one property with property-get semantics.
func (o *object) GetProperty(id dispatch.ID) (variant.Value, error) {
	var params dispParams
	return o.rawInvoke(id, ole.DISPATCH_PROPERTYGET, &params)
}

// rawInvoke calls IDispatch::Invoke through the vtable, capturing either
// the result VARIANT or the structured exception information.
func (o *object) rawInvoke(id dispatch.ID, flags int16, params *dispParams) (variant.Value, error) {
	var result ole.VARIANT
	var excep excepInfo
	var argErr uint32

	hr, _, _ := syscall.Syscall9(
		o.disp.VTable().Invoke,
		9,
		uintptr(unsafe.Pointer(o.disp)),
		uintptr(int32(id)),
		uintptr(unsafe.Pointer(ole.IID_NULL)),
		0, // LOCALE_USER_DEFAULT semantics; name matching is locale-neutral
		uintptr(uint16(flags)),
		uintptr(unsafe.Pointer(params)),
		uintptr(unsafe.Pointer(&result)),
		uintptr(unsafe.Pointer(&excep)),
		uintptr(unsafe.Pointer(&argErr)),
	)
	if hr != 0 {
		if uint32(hr) == dispE_Exception {
			return nil, excep.toError()
		}
		return nil, &dispatch.AutomationError{
			Status:      int32(hr),
			Description: ole.NewError(hr).Error(),
		}
	}

	defer ole.VariantClear(&result)
	return variantToValue(&result)
}

// toError converts the EXCEPINFO block into the structured automation
// error, freeing the object-allocated strings.
func (e *excepInfo) toError() *dispatch.AutomationError {
	ae := &dispatch.AutomationError{
		Status:      e.scode,
		HelpContext: e.helpContext,
	}
	if e.wCode != 0 {
		ae.Status = int32(e.wCode)
	}
	if e.description != nil {
		ae.Description = ole.BstrToString(e.description)
		ole.SysFreeString((*int16)(unsafe.Pointer(e.description)))
	}
	if e.source != nil {
		ae.Source = ole.BstrToString(e.source)
		ole.SysFreeString((*int16)(unsafe.Pointer(e.source)))
	}
	if e.helpFile != nil {
		ole.SysFreeString((*int16)(unsafe.Pointer(e.helpFile)))
	}
	return ae
}

// valueToVariant builds the VARIANT for one argument. The returned BSTR
// pointer, if any, stays owned by the caller until after the call.
func valueToVariant(v variant.Value) (ole.VARIANT, *int16) {
	switch val := v.(type) {
	case variant.Empty:
		return ole.NewVariant(ole.VT_EMPTY, 0), nil
	case variant.Bool:
		if val {
			return ole.NewVariant(ole.VT_BOOL, -1), nil // VARIANT_TRUE
		}
		return ole.NewVariant(ole.VT_BOOL, 0), nil
	case variant.Int:
		return ole.NewVariant(ole.VT_I4, int64(int32(val))), nil
	case variant.Float:
		return ole.NewVariant(ole.VT_R8, int64(math.Float64bits(float64(val)))), nil
	case variant.String:
		bstr := ole.SysAllocStringLen(string(val))
		return ole.NewVariant(ole.VT_BSTR, int64(uintptr(unsafe.Pointer(bstr)))), bstr
	case variant.ErrorCode:
		return ole.NewVariant(ole.VT_ERROR, int64(int32(val))), nil
	default:
		return ole.NewVariant(ole.VT_EMPTY, 0), nil
	}
}
