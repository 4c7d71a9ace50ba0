package wire

import "fmt"

// Version is the wire format version written in the header.
const Version = 1

const headerTag byte = 0xFF

// Tag identifies the payload that follows it.
type Tag byte

const (
	TagUndefined Tag = '_'
	TagNull      Tag = '0'
	TagTrue      Tag = 'T'
	TagFalse     Tag = 'F'
	TagInt       Tag = 'I'
	TagDouble    Tag = 'N'
	TagBigInt    Tag = 'Z'
	TagString    Tag = 'S'
	TagDate      Tag = 'D'
	TagRegExp    Tag = 'R'
	TagBytes     Tag = 'B'
	TagArray     Tag = 'A'
	TagObject    Tag = 'o'
	TagMap       Tag = ';'
	TagSet       Tag = '\''
	TagRef       Tag = '^'
	TagHost      Tag = '\\'
)

var tagNames = map[Tag]string{
	TagUndefined: "undefined",
	TagNull:      "null",
	TagTrue:      "true",
	TagFalse:     "false",
	TagInt:       "int",
	TagDouble:    "double",
	TagBigInt:    "bigint",
	TagString:    "string",
	TagDate:      "date",
	TagRegExp:    "regexp",
	TagBytes:     "bytes",
	TagArray:     "array",
	TagObject:    "object",
	TagMap:       "map",
	TagSet:       "set",
	TagRef:       "ref",
	TagHost:      "host",
}

func (t Tag) String() string {
	if n, ok := tagNames[t]; ok {
		return n
	}
	return fmt.Sprintf("tag(0x%02x)", byte(t))
}

// assignsID reports whether values with this tag take an object id.
func (t Tag) assignsID() bool {
	switch t {
	case TagRegExp, TagArray, TagObject, TagMap, TagSet, TagHost:
		return true
	}
	return false
}
