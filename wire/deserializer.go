package wire

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"math"
	"math/big"
	"time"

	"github.com/voodooattack/serialism/errors"
	"github.com/voodooattack/serialism/internal/arena"
	"github.com/voodooattack/serialism/value"
	"github.com/voodooattack/serialism/wire/internal/binary"
	"go.uber.org/zap"
)

// Deserializer reads values written by a Serializer.
// A Deserializer is used for a single decode and is not safe for concurrent use.
type Deserializer struct {
	r        *binary.Reader
	delegate Delegate
	log      *zap.Logger
	objects  *arena.Arena
	pending  arena.Handle
	depth    int
	maxDepth int
}

// NewDeserializer creates a deserializer over data.
func NewDeserializer(data []byte, opts Options) *Deserializer {
	return &Deserializer{
		r:        binary.NewReader(bytes.NewReader(data)),
		delegate: opts.Delegate,
		log:      opts.logger(),
		objects:  arena.New(),
		maxDepth: opts.MaxDepth,
	}
}

// ReadHeader validates the format marker and version.
func (d *Deserializer) ReadHeader() error {
	b, err := d.r.ReadByte()
	if err != nil {
		return errors.CorruptHeader("empty input")
	}
	if b != headerTag {
		return errors.CorruptHeader(fmt.Sprintf("bad format marker 0x%02x", b))
	}
	v, err := d.r.ReadU32()
	if err != nil {
		return errors.CorruptHeader("missing version")
	}
	if v == 0 || v > Version {
		return errors.CorruptHeader(fmt.Sprintf("unsupported version %d", v))
	}
	return nil
}

// ReadUint32 reads a fixed-width little-endian uint32.
func (d *Deserializer) ReadUint32() (uint32, error) {
	v, err := d.r.ReadU32LE()
	if err != nil {
		return 0, d.fail("uint32", err)
	}
	return v, nil
}

// ReadDouble reads a fixed-width little-endian float64.
func (d *Deserializer) ReadDouble() (float64, error) {
	f, err := d.r.ReadF64LE()
	if err != nil {
		return 0, d.fail("double", err)
	}
	return f, nil
}

// Position returns the current read offset.
func (d *Deserializer) Position() int {
	return d.r.Position()
}

// Bind publishes the host object currently being read.
func (d *Deserializer) Bind(o *value.Object) error {
	if d.pending == 0 {
		return errors.InvalidData(errors.PhaseDecode, nil, "no host object is being read")
	}
	if err := d.objects.Fill(d.pending, o); err != nil {
		return errors.Wrap(errors.PhaseDecode, errors.KindInvalidData, err, "bind host object")
	}
	d.pending = 0
	return nil
}

// ReadValue reads a tagged value.
func (d *Deserializer) ReadValue() (any, error) {
	b, err := d.r.ReadByte()
	if err != nil {
		return nil, d.fail("tag", err)
	}
	tag := Tag(b)

	switch tag {
	case TagUndefined:
		return value.Undefined, nil
	case TagNull:
		return nil, nil
	case TagTrue:
		return true, nil
	case TagFalse:
		return false, nil
	case TagInt:
		n, err := d.r.ReadS64()
		if err != nil {
			return nil, d.fail("int", err)
		}
		return n, nil
	case TagDouble:
		f, err := d.r.ReadF64LE()
		if err != nil {
			return nil, d.fail("double", err)
		}
		return f, nil
	case TagBigInt:
		return d.readBigInt()
	case TagString:
		s, err := d.r.ReadString()
		if err != nil {
			return nil, d.fail("string", err)
		}
		return s, nil
	case TagDate:
		ms, err := d.r.ReadF64LE()
		if err != nil {
			return nil, d.fail("date", err)
		}
		if math.IsNaN(ms) || math.IsInf(ms, 0) {
			return nil, errors.InvalidData(errors.PhaseDecode, nil, "invalid date")
		}
		return time.UnixMilli(int64(ms)), nil
	case TagBytes:
		n, err := d.r.ReadU32()
		if err != nil {
			return nil, d.fail("bytes length", err)
		}
		data, err := d.r.ReadBytes(int(n))
		if err != nil {
			return nil, d.fail("bytes", err)
		}
		return data, nil
	case TagRef:
		id, err := d.r.ReadU32()
		if err != nil {
			return nil, d.fail("reference", err)
		}
		v, ok := d.objects.Get(arena.HandleFor(id))
		if !ok {
			return nil, errors.InvalidReference(id)
		}
		return v, nil
	}

	if !tag.assignsID() {
		return nil, errors.InvalidData(errors.PhaseDecode, nil,
			fmt.Sprintf("unknown %s at offset %d", tag, d.r.Position()-1))
	}

	if err := d.enter(); err != nil {
		return nil, err
	}
	defer func() { d.depth-- }()

	h := d.objects.Reserve()
	switch tag {
	case TagRegExp:
		return d.readRegExp(h)
	case TagArray:
		return d.readArray(h)
	case TagObject:
		return d.readObject(h)
	case TagMap:
		return d.readMap(h)
	case TagSet:
		return d.readSet(h)
	default:
		return d.readHost(h)
	}
}

func (d *Deserializer) enter() error {
	d.depth++
	if d.maxDepth > 0 && d.depth > d.maxDepth {
		d.depth--
		return errors.Overflow(errors.PhaseDecode, nil,
			fmt.Sprintf("nesting depth exceeds limit %d", d.maxDepth))
	}
	return nil
}

// readLength reads a count and rejects counts the remaining input cannot
// hold, given each entry takes at least minBytes.
func (d *Deserializer) readLength(minBytes int) (int, error) {
	n, err := d.r.ReadU32()
	if err != nil {
		return 0, d.fail("length", err)
	}
	if rem := d.r.Remaining(); rem >= 0 && uint64(n)*uint64(minBytes) > uint64(rem) {
		return 0, errors.Truncated(errors.PhaseDecode, d.r.Position(),
			fmt.Errorf("count %d exceeds remaining %d bytes", n, rem))
	}
	return int(n), nil
}

func (d *Deserializer) readBigInt() (any, error) {
	sign, err := d.r.ReadByte()
	if err != nil {
		return nil, d.fail("bigint sign", err)
	}
	n, err := d.r.ReadU32()
	if err != nil {
		return nil, d.fail("bigint length", err)
	}
	mag, err := d.r.ReadBytes(int(n))
	if err != nil {
		return nil, d.fail("bigint magnitude", err)
	}
	v := new(big.Int).SetBytes(mag)
	if sign == 1 {
		v.Neg(v)
	}
	return v, nil
}

func (d *Deserializer) readRegExp(h arena.Handle) (any, error) {
	source, err := d.r.ReadString()
	if err != nil {
		return nil, d.fail("regexp source", err)
	}
	flags, err := d.r.ReadString()
	if err != nil {
		return nil, d.fail("regexp flags", err)
	}
	re := value.NewRegExp(source, flags)
	if err := d.objects.Fill(h, re); err != nil {
		return nil, errors.Wrap(errors.PhaseDecode, errors.KindInvalidData, err, "regexp slot")
	}
	return re, nil
}

func (d *Deserializer) readArray(h arena.Handle) (any, error) {
	arr := value.NewArray()
	if err := d.objects.Fill(h, arr); err != nil {
		return nil, errors.Wrap(errors.PhaseDecode, errors.KindInvalidData, err, "array slot")
	}
	n, err := d.readLength(1)
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		v, err := d.ReadValue()
		if err != nil {
			return nil, err
		}
		arr.Append(v)
	}
	return arr, nil
}

func (d *Deserializer) readObject(h arena.Handle) (any, error) {
	obj := value.NewObject()
	if err := d.objects.Fill(h, obj); err != nil {
		return nil, errors.Wrap(errors.PhaseDecode, errors.KindInvalidData, err, "object slot")
	}
	n, err := d.readLength(2)
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		raw, err := d.ReadValue()
		if err != nil {
			return nil, err
		}
		key, err := plainKey(raw)
		if err != nil {
			return nil, err
		}
		v, err := d.ReadValue()
		if err != nil {
			return nil, err
		}
		obj.Set(key, v)
	}
	return obj, nil
}

func (d *Deserializer) readMap(h arena.Handle) (any, error) {
	m := value.NewMap()
	if err := d.objects.Fill(h, m); err != nil {
		return nil, errors.Wrap(errors.PhaseDecode, errors.KindInvalidData, err, "map slot")
	}
	n, err := d.readLength(2)
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		k, err := d.ReadValue()
		if err != nil {
			return nil, err
		}
		v, err := d.ReadValue()
		if err != nil {
			return nil, err
		}
		m.Set(k, v)
	}
	return m, nil
}

func (d *Deserializer) readSet(h arena.Handle) (any, error) {
	s := value.NewSet()
	if err := d.objects.Fill(h, s); err != nil {
		return nil, errors.Wrap(errors.PhaseDecode, errors.KindInvalidData, err, "set slot")
	}
	n, err := d.readLength(1)
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		v, err := d.ReadValue()
		if err != nil {
			return nil, err
		}
		s.Add(v)
	}
	return s, nil
}

func (d *Deserializer) readHost(h arena.Handle) (any, error) {
	if d.delegate == nil {
		return nil, errors.InvalidData(errors.PhaseDecode, nil, "host object without a delegate")
	}

	saved := d.pending
	d.pending = h
	o, err := d.delegate.ReadHostObject(d)
	d.pending = saved
	if err != nil {
		d.log.Debug("host object read failed", zap.Int("offset", d.r.Position()), zap.Error(err))
		return nil, err
	}

	if !d.objects.Filled(h) {
		if err := d.objects.Fill(h, o); err != nil {
			return nil, errors.Wrap(errors.PhaseDecode, errors.KindInvalidData, err, "host slot")
		}
	}
	return o, nil
}

// fail converts a reader error into a structured decode error. The cause
// carries what was being read and where.
func (d *Deserializer) fail(context string, err error) error {
	var se *errors.Error
	if stderrors.As(err, &se) {
		return err
	}
	cause := d.r.WrapError(context, err)
	if binary.IsEOF(err) {
		return errors.Truncated(errors.PhaseDecode, d.r.Position(), cause)
	}
	if stderrors.Is(err, binary.ErrOverflow) {
		return errors.Overflow(errors.PhaseDecode, nil, cause.Error())
	}
	return errors.Wrap(errors.PhaseDecode, errors.KindInvalidData, cause, "read "+context)
}

func plainKey(raw any) (value.Key, error) {
	switch k := raw.(type) {
	case string:
		return value.StringKey(k), nil
	case int64:
		if k >= 0 && k <= value.MaxIndex {
			return value.IndexKey(uint32(k)), nil
		}
		return value.NumberKey(float64(k)), nil
	case float64:
		return value.NumberKey(k), nil
	}
	return value.Key{}, errors.InvalidData(errors.PhaseDecode, nil,
		fmt.Sprintf("object key must be a string or number, got %s", value.TypeName(raw)))
}
