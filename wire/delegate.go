package wire

import (
	"github.com/voodooattack/serialism/value"
	"go.uber.org/zap"
)

// HostWriter is the engine surface available while writing a host object.
type HostWriter interface {
	WriteValue(v any) error
	WriteUint32(v uint32)
	WriteDouble(f float64)
}

// HostReader is the engine surface available while reading a host object.
type HostReader interface {
	ReadValue() (any, error)
	ReadUint32() (uint32, error)
	ReadDouble() (float64, error)
	// Bind publishes the object being read so back-references to it
	// resolve before its properties are complete.
	Bind(o *value.Object) error
}

// Delegate customises the handling of objects the engine cannot describe
// on its own.
type Delegate interface {
	IsHostObject(o *value.Object) (bool, error)
	WriteHostObject(w HostWriter, o *value.Object) error
	ReadHostObject(r HostReader) (*value.Object, error)
}

// Options configures a Serializer or Deserializer.
type Options struct {
	Delegate Delegate
	Logger   *zap.Logger
	// MaxDepth bounds container nesting. Zero means unlimited.
	MaxDepth int
}

func (o Options) logger() *zap.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return Logger()
}
