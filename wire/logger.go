package wire

import (
	"sync/atomic"

	"go.uber.org/zap"
)

var (
	logger atomic.Pointer[zap.Logger]
	nop    = zap.NewNop()
)

// Logger returns the logger used when Options carry none. The host-object
// codecs share it. It discards output until SetLogger is called.
func Logger() *zap.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	return nop
}

// SetLogger replaces the fallback logger. A nil logger restores the no-op
// default. Serializers and deserializers pick it up when created.
func SetLogger(l *zap.Logger) {
	logger.Store(l)
}
