package serialism

import (
	"bytes"
	"math"
	"math/big"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/voodooattack/serialism/errors"
	"github.com/voodooattack/serialism/frame"
	"github.com/voodooattack/serialism/value"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func roundTrip(t *testing.T, s *Serialism, v any) any {
	t.Helper()
	data, err := s.Serialize(v)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	out, err := s.Deserialize(data)
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	return out
}

func mustObject(t *testing.T, v any) *value.Object {
	t.Helper()
	o, ok := v.(*value.Object)
	if !ok {
		t.Fatalf("got %T, want *value.Object", v)
	}
	return o
}

func TestSelfReference(t *testing.T) {
	point := value.NewClass("Point")
	s := New().MustRegister(point)

	p := value.New(point)
	p.SetProp("x", 1.0)
	p.SetProp("y", 2.0)
	p.SetProp("ref", p)

	q := mustObject(t, roundTrip(t, s, p))
	if !q.InstanceOf(point) {
		t.Fatal("decoded object lost its class")
	}
	if ref, _ := q.Prop("ref"); ref != q {
		t.Error("q.ref should be q")
	}
	if x, _ := q.Prop("x"); x != 1.0 {
		t.Errorf("x = %v", x)
	}
}

func TestSharedInstances(t *testing.T) {
	shared := value.NewClass("SharedInstance")
	s := New().MustRegister(shared)

	inst := value.New(shared)
	inst.SetProp("instance", inst)
	arr := value.NewArray(inst)
	inst.SetProp("array", arr)

	root := value.NewObject()
	root.SetProp("sharedInstance", inst)
	root.SetProp("array", arr)

	out := mustObject(t, roundTrip(t, s, root))
	si, _ := out.Prop("sharedInstance")
	got := mustObject(t, si)
	if !got.InstanceOf(shared) {
		t.Fatal("sharedInstance lost its class")
	}
	if self, _ := got.Prop("instance"); self != got {
		t.Error("sharedInstance.instance should be sharedInstance")
	}

	outArr, _ := out.Prop("array")
	a, ok := outArr.(*value.Array)
	if !ok {
		t.Fatalf("array = %T", outArr)
	}
	if a.At(0) != got {
		t.Error("array[0] should be sharedInstance")
	}
	if inner, _ := got.Prop("array"); inner != a {
		t.Error("sharedInstance.array should be array")
	}
}

func TestHostPropertyValues(t *testing.T) {
	box := value.NewClass("Box")
	s := New().MustRegister(box)

	when := time.UnixMilli(1700000000123)
	b := value.New(box)
	b.SetProp("date", when)
	b.SetProp("re", value.NewRegExp("a+b", "gi"))
	b.SetProp("map", func() *value.Map {
		m := value.NewMap()
		m.Set("k", int64(7))
		return m
	}())
	b.SetProp("set", value.NewSet("a", "b"))
	b.SetProp("bytes", []byte{1, 2, 3})
	b.SetProp("negzero", math.Copysign(0, -1))
	b.SetProp("nan", math.NaN())
	b.SetProp("big", new(big.Int).Lsh(big.NewInt(1), 80))
	b.SetProp("undef", value.Undefined)
	b.SetProp("null", nil)

	out := mustObject(t, roundTrip(t, s, b))

	tests := []struct {
		name  string
		check func(any) bool
	}{
		{"date", func(v any) bool { d, ok := v.(time.Time); return ok && d.Equal(when) }},
		{"re", func(v any) bool { r, ok := v.(*value.RegExp); return ok && r.String() == "/a+b/gi" }},
		{"map", func(v any) bool {
			m, ok := v.(*value.Map)
			if !ok {
				return false
			}
			got, _ := m.Get("k")
			return got == int64(7)
		}},
		{"set", func(v any) bool { st, ok := v.(*value.Set); return ok && st.Has("a") && st.Has("b") }},
		{"bytes", func(v any) bool { bs, ok := v.([]byte); return ok && bytes.Equal(bs, []byte{1, 2, 3}) }},
		{"negzero", func(v any) bool { f, ok := v.(float64); return ok && value.IsNegativeZero(f) }},
		{"nan", func(v any) bool { f, ok := v.(float64); return ok && math.IsNaN(f) }},
		{"big", func(v any) bool {
			n, ok := v.(*big.Int)
			return ok && n.Cmp(new(big.Int).Lsh(big.NewInt(1), 80)) == 0
		}},
		{"undef", value.IsUndefined},
		{"null", func(v any) bool { return v == nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := out.Prop(tt.name)
			if !ok {
				t.Fatalf("missing %s", tt.name)
			}
			if !tt.check(v) {
				t.Errorf("%s = %#v", tt.name, v)
			}
		})
	}
}

func TestGlobalSymbols(t *testing.T) {
	s := New()

	key := value.SymbolFor("serialism.key")
	val := value.SymbolFor("serialism.value")

	o := value.NewObject()
	o.Set(value.SymbolKey(key), val)
	o.SetProp("plain", "x")

	out := mustObject(t, roundTrip(t, s, o))
	got, ok := out.Get(value.SymbolKey(key))
	if !ok {
		t.Fatal("symbol key lost")
	}
	if got != val {
		t.Error("global symbol value should keep its identity")
	}
	if p, _ := out.Prop("plain"); p != "x" {
		t.Errorf("plain = %v", p)
	}
}

func TestPrivateSymbolTable(t *testing.T) {
	table := value.NewSymbolTable()
	s := New(WithSymbolTable(table))

	key := value.SymbolFor("serialism.private.key")
	o := value.NewObject()
	o.Set(value.SymbolKey(key), value.SymbolFor("serialism.private.value"))

	first := mustObject(t, roundTrip(t, s, o))
	second := mustObject(t, roundTrip(t, s, o))

	if table.Len() != 2 {
		t.Fatalf("table holds %d symbols, want 2", table.Len())
	}
	local := table.For("serialism.private.key")
	for i, out := range []*value.Object{first, second} {
		if _, ok := out.Get(value.SymbolKey(local)); !ok {
			t.Errorf("decode %d: key not interned in the private table", i)
		}
		if _, ok := out.Get(value.SymbolKey(key)); ok {
			t.Errorf("decode %d: key resolved through the process-wide table", i)
		}
		if got, _ := out.Get(value.SymbolKey(local)); got != table.For("serialism.private.value") {
			t.Errorf("decode %d: value = %v", i, got)
		}
	}
}

func TestSerializeErrors(t *testing.T) {
	hidden := value.NewClass("Hidden")
	unknown := value.NewClass("Unknown")
	s := New().MustRegister(hidden)

	withHidden := value.New(hidden)
	withHidden.Define(value.StringKey("secret"), value.NewFunction("f"), value.Hidden)

	anon := value.NewObject()
	anon.Set(value.StringKey("s"), value.NewAnonymousSymbol())

	tests := []struct {
		name string
		in   any
		kind errors.Kind
	}{
		{"function value", value.NewFunction("f"), errors.KindUnsupportedValue},
		{"class value", hidden, errors.KindUnsupportedValue},
		{"hidden function property", withHidden, errors.KindUnsupportedValue},
		{"unregistered class", value.New(unknown), errors.KindUnknownClassDuringClassification},
		{"unregistered nested", value.NewArray(1, value.New(unknown)), errors.KindUnknownClassDuringClassification},
		{"anonymous symbol", anon, errors.KindNonSerializableSymbol},
		{"channel", make(chan int), errors.KindUnsupportedValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := s.Serialize(tt.in)
			if !errors.IsKind(err, tt.kind) {
				t.Fatalf("err = %v, want %s", err, tt.kind)
			}
			if data != nil {
				t.Errorf("output = %x, want nil", data)
			}
		})
	}
}

func TestUnknownClassMessage(t *testing.T) {
	_, err := New().Serialize(value.New(value.NewClass("Ghost")))
	if err == nil || !strings.Contains(err.Error(), "Ghost") {
		t.Fatalf("err = %v", err)
	}
}

func TestRegister(t *testing.T) {
	a := value.NewClass("A")
	b := value.NewClass("B")
	otherA := value.NewClass("A")

	t.Run("idempotent", func(t *testing.T) {
		s := New()
		if _, err := s.Register(a, a); err != nil {
			t.Fatal(err)
		}
		if _, err := s.Register(a); err != nil {
			t.Fatal(err)
		}
		if n := len(s.Classes()); n != 1 {
			t.Errorf("classes = %d, want 1", n)
		}
	})

	t.Run("duplicate name", func(t *testing.T) {
		s := New()
		_, err := s.Register(a, b, otherA)
		if !errors.IsKind(err, errors.KindDuplicateClassName) {
			t.Fatalf("err = %v", err)
		}
		if n := len(s.Classes()); n != 2 {
			t.Errorf("classes = %d, want 2 kept before the failure", n)
		}
	})

	t.Run("chaining", func(t *testing.T) {
		s := New()
		got, err := s.Register(a)
		if err != nil || got != s {
			t.Fatalf("Register returned %p, %v", got, err)
		}
	})

	t.Run("must register panics", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Error("expected panic")
			}
		}()
		New().MustRegister(value.Proxy(a))
	})
}

func TestDeserializeErrors(t *testing.T) {
	point := value.NewClass("Point")
	s := New().MustRegister(point)

	valid, err := s.Serialize(value.New(point))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		data []byte
		kind errors.Kind
	}{
		{"nil buffer", nil, errors.KindNotHostBuffer},
		{"empty buffer", []byte{}, errors.KindCorruptHeader},
		{"bad marker", []byte{0x01, 0x01}, errors.KindCorruptHeader},
		{"truncated host", valid[:len(valid)-2], errors.KindTruncated},
		{"unknown class", bytes.Replace(valid, []byte("Point"), []byte("Pxint"), 1), errors.KindUnknownRegisteredClass},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Deserialize(tt.data)
			if !errors.IsKind(err, tt.kind) {
				t.Fatalf("err = %v, want %s", err, tt.kind)
			}
		})
	}
}

func TestReaderWriter(t *testing.T) {
	point := value.NewClass("Point")
	s := New().MustRegister(point)

	var buf bytes.Buffer
	if err := s.SerializeTo(&buf, value.New(point)); err != nil {
		t.Fatal(err)
	}
	out, err := s.DeserializeFrom(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if !mustObject(t, out).InstanceOf(point) {
		t.Error("class lost")
	}

	if err := s.SerializeTo(nil, 1); !errors.IsKind(err, errors.KindArgumentRequired) {
		t.Errorf("nil writer err = %v", err)
	}
	if _, err := s.DeserializeFrom(nil); !errors.IsKind(err, errors.KindArgumentRequired) {
		t.Errorf("nil reader err = %v", err)
	}
	if _, err := s.DeserializeFrom(strings.NewReader("")); !errors.IsKind(err, errors.KindCorruptHeader) {
		t.Errorf("empty reader err = %v", err)
	}
}

func TestFramed(t *testing.T) {
	point := value.NewClass("Point")

	for _, c := range []frame.Compression{frame.CompressionNone, frame.CompressionLZ4, frame.CompressionZstd} {
		t.Run(c.String(), func(t *testing.T) {
			s := New(WithCompression(c)).MustRegister(point)

			list := value.NewArray()
			for i := 0; i < 64; i++ {
				p := value.New(point)
				p.SetProp("label", strings.Repeat("point", 8))
				list.Append(p)
			}

			data, err := s.SerializeFramed(list)
			if err != nil {
				t.Fatal(err)
			}
			if !frame.IsFrame(data) {
				t.Fatal("output is not a frame")
			}
			out, err := s.DeserializeFramed(data)
			if err != nil {
				t.Fatal(err)
			}
			arr := out.(*value.Array)
			if arr.Len() != 64 || !mustObject(t, arr.At(63)).InstanceOf(point) {
				t.Error("framed round trip lost data")
			}
		})
	}

	t.Run("corrupted", func(t *testing.T) {
		s := New(WithCompression(frame.CompressionNone))
		data, err := s.SerializeFramed("payload")
		if err != nil {
			t.Fatal(err)
		}
		data[len(data)-1] ^= 0xFF
		if _, err := s.DeserializeFramed(data); !errors.IsKind(err, errors.KindInvalidData) {
			t.Errorf("err = %v", err)
		}
	})
}

func TestMaxDepth(t *testing.T) {
	s := New(WithMaxDepth(4))

	v := any("leaf")
	for i := 0; i < 8; i++ {
		v = value.NewArray(v)
	}
	if _, err := s.Serialize(v); !errors.IsKind(err, errors.KindOverflow) {
		t.Fatalf("err = %v", err)
	}

	deep, err := New().Serialize(v)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Deserialize(deep); !errors.IsKind(err, errors.KindOverflow) {
		t.Fatalf("decode err = %v", err)
	}
}

func TestLogging(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	s := New(WithLogger(zap.New(core)))
	s.MustRegister(value.NewClass("Logged"))

	if logs.FilterMessage("registered class").Len() != 1 {
		t.Errorf("logs = %v", logs.All())
	}
}

func TestConcurrentUse(t *testing.T) {
	point := value.NewClass("Point")
	s := New().MustRegister(point)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p := value.New(point)
			p.SetProp("i", int64(i))
			data, err := s.Serialize(p)
			if err != nil {
				t.Error(err)
				return
			}
			out, err := s.Deserialize(data)
			if err != nil {
				t.Error(err)
				return
			}
			if got, _ := out.(*value.Object).Prop("i"); got != int64(i) {
				t.Errorf("i = %v", got)
			}
		}(i)
		s.Register(value.NewClass("C" + string(rune('a'+i))))
	}
	wg.Wait()
}
