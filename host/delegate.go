package host

import (
	"github.com/voodooattack/serialism/registry"
	"github.com/voodooattack/serialism/value"
	"github.com/voodooattack/serialism/wire"
	"go.uber.org/zap"
)

// Delegate plugs the host-object layer into the wire engine.
type Delegate struct {
	registry *registry.Registry
	encoder  *Encoder
	decoder  *Decoder
	log      *zap.Logger
}

var _ wire.Delegate = (*Delegate)(nil)

// NewDelegate creates a delegate backed by reg. A nil logger uses
// wire.Logger.
func NewDelegate(reg *registry.Registry, log *zap.Logger) *Delegate {
	if log == nil {
		log = wire.Logger()
	}
	return &Delegate{
		registry: reg,
		encoder:  NewEncoder(reg, log),
		decoder:  NewDecoder(reg, log),
		log:      log,
	}
}

// SetSymbolTable chooses where decoded symbols are interned.
// See Decoder.SetSymbolTable.
func (d *Delegate) SetSymbolTable(t *value.SymbolTable) {
	d.decoder.SetSymbolTable(t)
}

// IsHostObject applies the classification rule.
func (d *Delegate) IsHostObject(o *value.Object) (bool, error) {
	c, err := Classify(d.registry, o)
	if err != nil {
		d.log.Debug("classification failed", zap.String("type", value.TypeName(o)), zap.Error(err))
		return false, err
	}
	return c == Host, nil
}

// WriteHostObject writes o's envelope.
func (d *Delegate) WriteHostObject(w wire.HostWriter, o *value.Object) error {
	return d.encoder.Encode(w, o)
}

// ReadHostObject reads an envelope.
func (d *Delegate) ReadHostObject(r wire.HostReader) (*value.Object, error) {
	return d.decoder.Decode(r)
}
