package diff

import "github.com/dhamidi/ubi/smali"

// Synthetic marker types appended to the parameter list of Kotlin default
// argument constructors. The mock build declares its own marker class,
// so a trailing MockConstructorMarker on the original side matches a
// trailing DefaultConstructorMarker on the comparison side.
const (
	MockConstructorMarker    = "kotlin.jvm.internal.BTTVDefaultConstructorMarker"
	DefaultConstructorMarker = "kotlin.jvm.internal.DefaultConstructorMarker"
)

var (
	mockMarker    = smali.Reference(MockConstructorMarker)
	defaultMarker = smali.Reference(DefaultConstructorMarker)
)

// ParamsEqual compares two parameter sequences element by element.
func ParamsEqual(orig, cmp []smali.Type) bool {
	if len(orig) != len(cmp) {
		return false
	}
	last := len(orig) - 1
	for i := range orig {
		if orig[i] == cmp[i] {
			continue
		}
		if i == last && orig[i] == mockMarker && cmp[i] == defaultMarker {
			continue
		}
		return false
	}
	return true
}
