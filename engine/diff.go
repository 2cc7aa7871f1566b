package engine

import "reflect"

// rawChanged decides, per field, whether a value materially changed
// between the before- and after-image. Raw-identity semantics: two
// different reference ids that resolve to the same display text still
// count as changed, because display resolution is far too expensive to
// run just to decide whether a field is worth reporting.
//
// DeepEqual rather than == so multi-valued fields (slices of reference
// ids) compare correctly.
func rawChanged(oldRaw, newRaw any) bool {
	if newRaw != nil {
		return !reflect.DeepEqual(newRaw, oldRaw)
	}
	return oldRaw != nil
}
