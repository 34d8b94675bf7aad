package comauto

import (
	"fmt"
	"math"

	ole "github.com/go-ole/go-ole"

	"github.com/ecrtools/combridge/internal/variant"
)

// variantToValue converts a received VARIANT into the bridge's tagged
// union. The conversion is total over the supported tags; anything else
// (object references, arrays, currency, dates) is a declared error, never
// a silent default.
func variantToValue(v *ole.VARIANT) (variant.Value, error) {
	switch v.VT {
	case ole.VT_EMPTY, ole.VT_NULL:
		return variant.Empty{}, nil
	case ole.VT_BOOL:
		return variant.Bool(v.Val != 0), nil
	case ole.VT_I1:
		return variant.Int(int32(int8(v.Val))), nil
	case ole.VT_I2:
		return variant.Int(int32(int16(v.Val))), nil
	case ole.VT_I4, ole.VT_INT:
		return variant.Int(int32(v.Val)), nil
	case ole.VT_UI1:
		return variant.Int(int32(uint8(v.Val))), nil
	case ole.VT_UI2:
		return variant.Int(int32(uint16(v.Val))), nil
	case ole.VT_R4:
		return variant.Float(float64(math.Float32frombits(uint32(v.Val)))), nil
	case ole.VT_R8:
		return variant.Float(math.Float64frombits(uint64(v.Val))), nil
	case ole.VT_BSTR:
		return variant.String(v.ToString()), nil
	case ole.VT_ERROR:
		return variant.ErrorCode(int32(v.Val)), nil
	default:
		return nil, fmt.Errorf("%w: variant type 0x%x", variant.ErrUnsupported, uint16(v.VT))
	}
}
