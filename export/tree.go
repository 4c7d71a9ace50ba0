// Package export converts decoded value graphs into plain trees that
// external formats can carry.
//
// Values without a JSON counterpart become single-key marker objects:
//
//	{"$undefined": true}
//	{"$number": "NaN"}            also "Infinity", "-Infinity", "-0"
//	{"$bigint": "123"}
//	{"$date": "2024-01-02T03:04:05.006Z"}
//	{"$bytes": "AQID"}            standard base64
//	{"$regexp": "/a+/g"}
//	{"$symbol": "description"}
//	{"$map": [[key, value], ...]}
//	{"$set": [item, ...]}
//	{"$ref": "/path/to/first"}    repeated or cyclic object
//
// Objects carry "$class" with the class name, or null for objects without
// a prototype. Plain objects have no "$class".
package export

import (
	"encoding/base64"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/voodooattack/serialism/errors"
	"github.com/voodooattack/serialism/value"
)

// ToTree converts v into a tree of nil, bool, int64, float64, string,
// []any and map[string]any.
func ToTree(v any) (any, error) {
	c := &converter{seen: make(map[any]string)}
	return c.convert(v, "")
}

type converter struct {
	seen map[any]string
}

func (c *converter) convert(v any, ptr string) (any, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case value.UndefinedType:
		return marker("$undefined", true), nil
	case bool, string:
		return x, nil
	case int64:
		return x, nil
	case float64:
		return number(x), nil
	case *big.Int:
		return marker("$bigint", x.String()), nil
	case time.Time:
		return marker("$date", x.UTC().Format(time.RFC3339Nano)), nil
	case []byte:
		return marker("$bytes", base64.StdEncoding.EncodeToString(x)), nil
	case *value.Symbol:
		desc, _ := x.Description()
		return marker("$symbol", desc), nil
	}

	if n, ok := value.ToNumber(v); ok {
		return number(n), nil
	}

	switch v.(type) {
	case *value.RegExp, *value.Array, *value.Map, *value.Set, *value.Object:
		if first, ok := c.seen[v]; ok {
			return marker("$ref", refPath(first)), nil
		}
		c.seen[v] = ptr
	}

	switch x := v.(type) {
	case *value.RegExp:
		return marker("$regexp", x.String()), nil
	case *value.Array:
		return c.list(x.Elements(), ptr)
	case []any:
		return c.list(x, ptr)
	case *value.Set:
		items, err := c.list(x.Values(), ptr+"/$set")
		if err != nil {
			return nil, err
		}
		return marker("$set", items), nil
	case *value.Map:
		return c.mapEntries(x, ptr)
	case *value.Object:
		return c.object(x, ptr)
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			cv, err := c.convert(e, ptr+"/"+escape(k))
			if err != nil {
				return nil, err
			}
			out[k] = cv
		}
		return out, nil
	}

	return nil, errors.New(errors.PhaseExport, errors.KindUnsupportedValue).
		Path(strings.Split(strings.TrimPrefix(ptr, "/"), "/")...).
		GoType(fmt.Sprintf("%T", v)).
		Detail("no tree representation").
		Build()
}

func (c *converter) list(elems []any, ptr string) ([]any, error) {
	out := make([]any, len(elems))
	for i, e := range elems {
		cv, err := c.convert(e, ptr+"/"+strconv.Itoa(i))
		if err != nil {
			return nil, err
		}
		out[i] = cv
	}
	return out, nil
}

func (c *converter) mapEntries(m *value.Map, ptr string) (any, error) {
	entries := make([]any, 0, m.Len())
	keys, vals := m.Keys(), m.Values()
	for i := range keys {
		base := ptr + "/$map/" + strconv.Itoa(i)
		k, err := c.convert(keys[i], base+"/0")
		if err != nil {
			return nil, err
		}
		v, err := c.convert(vals[i], base+"/1")
		if err != nil {
			return nil, err
		}
		entries = append(entries, []any{k, v})
	}
	return marker("$map", entries), nil
}

func (c *converter) object(o *value.Object, ptr string) (any, error) {
	out := make(map[string]any, o.Len()+1)
	switch {
	case o.HasNullPrototype():
		out["$class"] = nil
	case o.Constructor() != nil:
		out["$class"] = o.Constructor().Name()
	}

	for _, k := range o.OwnKeys() {
		name := k.String()
		v, _ := o.GetOwn(k)
		cv, err := c.convert(v, ptr+"/"+escape(name))
		if err != nil {
			return nil, err
		}
		out[name] = cv
	}
	return out, nil
}

func number(f float64) any {
	switch {
	case math.IsNaN(f), math.IsInf(f, 0):
		return marker("$number", value.FormatNumber(f))
	case value.IsNegativeZero(f):
		return marker("$number", "-0")
	}
	return f
}

func marker(name string, v any) map[string]any {
	return map[string]any{name: v}
}

func refPath(ptr string) string {
	if ptr == "" {
		return "/"
	}
	return ptr
}

// escape encodes a key as a JSON pointer segment.
func escape(s string) string {
	s = strings.ReplaceAll(s, "~", "~0")
	return strings.ReplaceAll(s, "/", "~1")
}
