// Package value is the dynamic object model that serialism encodes.
//
// Primitive values are plain Go values:
//
//	Undefined           undefined
//	nil                 null
//	bool                boolean
//	float64, int64      number (every Go integer and float kind is accepted)
//	*big.Int            bigint
//	string              string
//	time.Time           date
//	[]byte              binary buffer
//
// Identity-bearing values are pointers: *Object, *Array, *Map, *Set,
// *RegExp and *Symbol. A *Class is a type descriptor. Objects carry a
// prototype that is either the base object prototype, no prototype, or a
// class.
//
//	point := value.NewClass("Point")
//	p := value.New(point)
//	p.SetProp("x", 1.0)
//	p.SetProp("ref", p)
//
// Own keys enumerate integer indices in ascending order, then string keys in
// insertion order, then symbol keys in insertion order.
package value
