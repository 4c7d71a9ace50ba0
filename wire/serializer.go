package wire

import (
	"fmt"
	"math"
	"math/big"
	"reflect"
	"sort"
	"strconv"
	"time"

	"github.com/voodooattack/serialism/errors"
	"github.com/voodooattack/serialism/value"
	"github.com/voodooattack/serialism/wire/internal/binary"
	"go.uber.org/zap"
)

// Serializer writes values into an in-memory buffer.
// A Serializer is used for a single encode and is not safe for concurrent use.
type Serializer struct {
	w        *binary.Writer
	delegate Delegate
	log      *zap.Logger
	ids      map[any]uint32
	active   map[activeKey]bool
	path     []string
	nextID   uint32
	depth    int
	maxDepth int
}

// NewSerializer creates a serializer.
func NewSerializer(opts Options) *Serializer {
	return &Serializer{
		w:        binary.NewWriter(),
		delegate: opts.Delegate,
		log:      opts.logger(),
		ids:      make(map[any]uint32),
		active:   make(map[activeKey]bool),
		maxDepth: opts.MaxDepth,
	}
}

// WriteHeader writes the format marker and version.
func (s *Serializer) WriteHeader() {
	s.w.Byte(headerTag)
	s.w.WriteU32(Version)
}

// WriteUint32 writes a fixed-width little-endian uint32.
func (s *Serializer) WriteUint32(v uint32) {
	s.w.WriteU32LE(v)
}

// WriteDouble writes a fixed-width little-endian float64.
func (s *Serializer) WriteDouble(f float64) {
	s.w.WriteF64LE(f)
}

// Release returns the written bytes. The serializer must not be used
// afterwards.
func (s *Serializer) Release() []byte {
	out := s.w.Bytes()
	s.w = nil
	s.ids = nil
	return out
}

// WriteValue writes a tagged value.
func (s *Serializer) WriteValue(v any) error {
	return s.writeValue(v, s.path)
}

func (s *Serializer) writeValue(v any, path []string) error {
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer && rv.IsNil() {
		s.tag(TagNull)
		return nil
	}

	switch x := v.(type) {
	case nil:
		s.tag(TagNull)
		return nil
	case value.UndefinedType:
		s.tag(TagUndefined)
		return nil
	case bool:
		if x {
			s.tag(TagTrue)
		} else {
			s.tag(TagFalse)
		}
		return nil
	case string:
		s.tag(TagString)
		s.w.WriteString(x)
		return nil
	case float64:
		s.writeDouble(x)
		return nil
	case float32:
		s.writeDouble(float64(x))
		return nil
	case int:
		s.writeInt(int64(x))
		return nil
	case int8:
		s.writeInt(int64(x))
		return nil
	case int16:
		s.writeInt(int64(x))
		return nil
	case int32:
		s.writeInt(int64(x))
		return nil
	case int64:
		s.writeInt(x)
		return nil
	case uint:
		s.writeUint(uint64(x))
		return nil
	case uint8:
		s.writeInt(int64(x))
		return nil
	case uint16:
		s.writeInt(int64(x))
		return nil
	case uint32:
		s.writeInt(int64(x))
		return nil
	case uint64:
		s.writeUint(x)
		return nil
	case *big.Int:
		s.writeBigInt(x)
		return nil
	case time.Time:
		s.tag(TagDate)
		s.w.WriteF64LE(float64(x.UnixMilli()))
		return nil
	case []byte:
		s.tag(TagBytes)
		s.w.WriteU32(uint32(len(x)))
		s.w.WriteBytes(x)
		return nil
	case *value.Symbol:
		return errors.Unsupported(path, "*value.Symbol", x.String())
	case *value.Class:
		return errors.Unsupported(path, "*value.Class", x.String())
	}

	if s.writeRef(v) {
		return nil
	}
	if err := s.enter(path); err != nil {
		return err
	}
	defer func() { s.depth-- }()

	switch x := v.(type) {
	case *value.RegExp:
		s.assignID(x)
		s.tag(TagRegExp)
		s.w.WriteString(x.Source)
		s.w.WriteString(x.Flags)
		return nil
	case *value.Array:
		s.assignID(x)
		return s.writeArray(x.Elements(), path)
	case []any:
		leave, err := s.open(x, len(x), path)
		if err != nil {
			return err
		}
		defer leave()
		s.assignID(nil)
		return s.writeArray(x, path)
	case *value.Map:
		s.assignID(x)
		return s.writeMap(x, path)
	case *value.Set:
		s.assignID(x)
		return s.writeSet(x, path)
	case map[string]any:
		leave, err := s.open(x, len(x), path)
		if err != nil {
			return err
		}
		defer leave()
		s.assignID(nil)
		return s.writeGoMap(x, path)
	case *value.Object:
		s.assignID(x)
		return s.writeObject(x, path)
	}

	return errors.Unsupported(path, fmt.Sprintf("%T", v), describeUnsupported(v))
}

func (s *Serializer) tag(t Tag) {
	s.w.Byte(byte(t))
}

func (s *Serializer) writeDouble(f float64) {
	s.tag(TagDouble)
	s.w.WriteF64LE(f)
}

func (s *Serializer) writeInt(n int64) {
	s.tag(TagInt)
	s.w.WriteS64(n)
}

func (s *Serializer) writeUint(n uint64) {
	if n > math.MaxInt64 {
		s.writeDouble(float64(n))
		return
	}
	s.writeInt(int64(n))
}

func (s *Serializer) writeBigInt(n *big.Int) {
	s.tag(TagBigInt)
	if n.Sign() < 0 {
		s.w.Byte(1)
	} else {
		s.w.Byte(0)
	}
	mag := n.Bytes()
	s.w.WriteU32(uint32(len(mag)))
	s.w.WriteBytes(mag)
}

// writeRef emits a back-reference if v was already written.
func (s *Serializer) writeRef(v any) bool {
	if !isComparable(v) {
		return false
	}
	id, ok := s.ids[v]
	if !ok {
		return false
	}
	s.tag(TagRef)
	s.w.WriteU32(id)
	return true
}

// assignID takes the next object id. Non-comparable values consume an id
// without being recorded, so they are never deduplicated.
func (s *Serializer) assignID(v any) {
	if v != nil {
		s.ids[v] = s.nextID
	}
	s.nextID++
}

// activeKey identifies a Go slice or map that is currently being written.
type activeKey struct {
	ptr uintptr
	n   int
}

// open marks a Go container as in progress. Go containers carry no
// identity on the wire, so one that contains itself is rejected.
func (s *Serializer) open(v any, n int, path []string) (func(), error) {
	if n == 0 {
		return func() {}, nil
	}
	key := activeKey{ptr: reflect.ValueOf(v).Pointer(), n: n}
	if s.active[key] {
		return nil, errors.InvalidData(errors.PhaseEncode, path,
			fmt.Sprintf("%T contains itself", v))
	}
	s.active[key] = true
	return func() { delete(s.active, key) }, nil
}

func (s *Serializer) enter(path []string) error {
	s.depth++
	if s.maxDepth > 0 && s.depth > s.maxDepth {
		s.depth--
		return errors.Overflow(errors.PhaseEncode, path,
			fmt.Sprintf("nesting depth exceeds limit %d", s.maxDepth))
	}
	return nil
}

func (s *Serializer) writeArray(elems []any, path []string) error {
	s.tag(TagArray)
	s.w.WriteU32(uint32(len(elems)))
	for i, e := range elems {
		if err := s.writeValue(e, appendPath(path, strconv.Itoa(i))); err != nil {
			return err
		}
	}
	return nil
}

func (s *Serializer) writeMap(m *value.Map, path []string) error {
	s.tag(TagMap)
	s.w.WriteU32(uint32(m.Len()))
	keys, vals := m.Keys(), m.Values()
	for i := range keys {
		if err := s.writeValue(keys[i], appendPath(path, "<key "+strconv.Itoa(i)+">")); err != nil {
			return err
		}
		if err := s.writeValue(vals[i], appendPath(path, "<value "+strconv.Itoa(i)+">")); err != nil {
			return err
		}
	}
	return nil
}

func (s *Serializer) writeSet(set *value.Set, path []string) error {
	s.tag(TagSet)
	items := set.Values()
	s.w.WriteU32(uint32(len(items)))
	for i, item := range items {
		if err := s.writeValue(item, appendPath(path, strconv.Itoa(i))); err != nil {
			return err
		}
	}
	return nil
}

func (s *Serializer) writeGoMap(m map[string]any, path []string) error {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	s.tag(TagObject)
	s.w.WriteU32(uint32(len(keys)))
	for _, k := range keys {
		s.writeKey(value.StringKey(k))
		if err := s.writeValue(m[k], appendPath(path, k)); err != nil {
			return err
		}
	}
	return nil
}

func (s *Serializer) writeObject(o *value.Object, path []string) error {
	if s.delegate != nil {
		isHost, err := s.delegate.IsHostObject(o)
		if err != nil {
			return err
		}
		if isHost {
			s.tag(TagHost)
			saved := s.path
			s.path = path
			err := s.delegate.WriteHostObject(s, o)
			s.path = saved
			if err != nil {
				s.log.Debug("host object write failed",
					zap.String("type", value.TypeName(o)),
					zap.Strings("path", path),
					zap.Error(err))
			}
			return err
		}
	}

	keys := make([]value.Key, 0, o.Len())
	for _, k := range o.Keys() {
		if !k.IsSymbol() {
			keys = append(keys, k)
		}
	}

	s.tag(TagObject)
	s.w.WriteU32(uint32(len(keys)))
	for _, k := range keys {
		s.writeKey(k)
		v, _ := o.GetOwn(k)
		if err := s.writeValue(v, appendPath(path, k.String())); err != nil {
			return err
		}
	}
	return nil
}

// writeKey writes a plain object key as an int or string value.
func (s *Serializer) writeKey(k value.Key) {
	if n, ok := k.Index(); ok {
		s.writeInt(int64(n))
		return
	}
	s.tag(TagString)
	s.w.WriteString(k.Name())
}

func isComparable(v any) bool {
	switch v.(type) {
	case *value.Object, *value.Array, *value.Map, *value.Set, *value.RegExp:
		return true
	}
	return false
}

func appendPath(path []string, seg string) []string {
	out := make([]string, len(path)+1)
	copy(out, path)
	out[len(path)] = seg
	return out
}

func describeUnsupported(v any) string {
	if reflect.ValueOf(v).Kind() == reflect.Func {
		return "function"
	}
	return fmt.Sprintf("value of type %T", v)
}
