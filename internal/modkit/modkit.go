// Package modkit wires API modules: the Module contract, shared deps and the
// build options every module constructor accepts
package modkit

import (
	"reflect"

	"fishdash/internal/modkit/httpkit"
)

// Module is what api.Mount composes. Keep it tiny so modules stay decoupled
type Module interface {
	Name() string
	// Ports returns the module's port set for cross wiring, nil when it exports none
	Ports() any
	MountRoutes(r httpkit.Router)
}

// PortsOf pulls T out of m's ports, either the value itself or an exported
// field of a ports struct
func PortsOf[T any](m Module) (T, bool) {
	var zero T
	p := m.Ports()
	if p == nil {
		return zero, false
	}
	if v, ok := p.(T); ok {
		return v, true
	}
	rv := reflect.ValueOf(p)
	if rv.Kind() != reflect.Struct {
		return zero, false
	}
	for i := 0; i < rv.NumField(); i++ {
		f := rv.Field(i)
		if !f.CanInterface() {
			continue
		}
		if v, ok := f.Interface().(T); ok {
			return v, true
		}
	}
	return zero, false
}

// MustPortsOf is PortsOf for bootstrap code where a missing port is a wiring bug
func MustPortsOf[T any](m Module) T {
	v, ok := PortsOf[T](m)
	if !ok {
		panic("modkit: requested port not found on module " + m.Name())
	}
	return v
}
