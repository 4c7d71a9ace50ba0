package serialism

import (
	"io"
	"sync"

	"github.com/voodooattack/serialism/errors"
	"github.com/voodooattack/serialism/frame"
	"github.com/voodooattack/serialism/host"
	"github.com/voodooattack/serialism/registry"
	"github.com/voodooattack/serialism/value"
	"github.com/voodooattack/serialism/wire"
	"go.uber.org/zap"
)

// Serialism serializes values while preserving the classes of registered
// objects. Each instance owns its own registry.
// Thread-safe.
type Serialism struct {
	registry *registry.Registry
	delegate *host.Delegate
	log      *zap.Logger
	options  Options
	mu       sync.RWMutex
}

// New creates a Serialism with an empty registry.
func New(opts ...Option) *Serialism {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return NewWithOptions(o)
}

// NewWithOptions creates a Serialism from an Options value.
func NewWithOptions(o Options) *Serialism {
	reg := registry.New()
	s := &Serialism{
		registry: reg,
		delegate: host.NewDelegate(reg, o.Logger),
		log:      o.Logger,
		options:  o,
	}
	s.delegate.SetSymbolTable(o.Symbols)
	// Without a logger the codecs use wire.Logger.
	if s.log == nil {
		s.log = zap.NewNop()
	}
	return s
}

// Register adds classes to the registry and returns s for chaining.
// Registering a class again under its own name is a no-op. On error,
// classes before the failing one stay registered.
func (s *Serialism) Register(classes ...*value.Class) (*Serialism, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.registry.Register(classes...); err != nil {
		s.log.Debug("register failed", zap.Error(err))
		return s, err
	}
	for _, c := range classes {
		s.log.Debug("registered class", zap.String("name", c.Name()))
	}
	return s, nil
}

// MustRegister is like Register but panics on error.
func (s *Serialism) MustRegister(classes ...*value.Class) *Serialism {
	if _, err := s.Register(classes...); err != nil {
		panic(err)
	}
	return s
}

// Classes returns the registered classes in registration order.
func (s *Serialism) Classes() []registry.Entry {
	return s.registry.Entries()
}

// Options returns the configuration.
func (s *Serialism) Options() Options {
	return s.options
}

func (s *Serialism) wireOptions() wire.Options {
	return wire.Options{
		Delegate: s.delegate,
		Logger:   s.options.Logger,
		MaxDepth: s.options.MaxDepth,
	}
}

// Serialize encodes v. Nothing is returned on failure.
func (s *Serialism) Serialize(v any) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ser := wire.NewSerializer(s.wireOptions())
	ser.WriteHeader()
	if err := ser.WriteValue(v); err != nil {
		return nil, err
	}
	return ser.Release(), nil
}

// Deserialize decodes data produced by Serialize. Bytes after the first
// value are ignored.
func (s *Serialism) Deserialize(data []byte) (any, error) {
	if data == nil {
		return nil, errors.NotHostBuffer()
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	d := wire.NewDeserializer(data, s.wireOptions())
	if err := d.ReadHeader(); err != nil {
		return nil, err
	}
	return d.ReadValue()
}

// SerializeTo encodes v and writes it to w.
func (s *Serialism) SerializeTo(w io.Writer, v any) error {
	if w == nil {
		return errors.ArgumentRequired(errors.PhaseEncode, "writer")
	}
	data, err := s.Serialize(v)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// DeserializeFrom reads all of r and decodes it.
func (s *Serialism) DeserializeFrom(r io.Reader) (any, error) {
	if r == nil {
		return nil, errors.ArgumentRequired(errors.PhaseDecode, "reader")
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if data == nil {
		data = []byte{}
	}
	return s.Deserialize(data)
}

// SerializeFramed encodes v inside a compressed, checksummed frame.
func (s *Serialism) SerializeFramed(v any) ([]byte, error) {
	data, err := s.Serialize(v)
	if err != nil {
		return nil, err
	}
	return frame.Encode(data, s.options.Compression)
}

// DeserializeFramed verifies a frame and decodes its payload.
func (s *Serialism) DeserializeFramed(data []byte) (any, error) {
	if data == nil {
		return nil, errors.NotHostBuffer()
	}
	payload, err := frame.Decode(data)
	if err != nil {
		return nil, err
	}
	return s.Deserialize(payload)
}
