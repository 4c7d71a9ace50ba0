package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/voodooattack/serialism/value"
)

var (
	keyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	classStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#98FB98"))

	scalarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA"))

	refStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFB86C"))

	guideStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// node is one entry of a decoded value graph prepared for display.
type node struct {
	key      string
	label    string
	ref      string // path of the first occurrence when this is a repeat
	path     string
	children []*node
	expanded bool
}

func (n *node) container() bool { return n.ref == "" && n.children != nil }

// buildTree converts a decoded value into display nodes. Repeated
// containers are shown once and then as references to their first path.
func buildTree(v any) *node {
	b := &treeBuilder{seen: make(map[any]string)}
	return b.build("", v, "$")
}

type treeBuilder struct {
	seen map[any]string
}

func (b *treeBuilder) build(key string, v any, path string) *node {
	n := &node{key: key, path: path, expanded: true}

	switch x := v.(type) {
	case *value.Object, *value.Array, *value.Map, *value.Set:
		if first, ok := b.seen[x]; ok {
			n.label = describe(v)
			n.ref = first
			return n
		}
		b.seen[x] = path
	}

	n.label = describe(v)

	switch x := v.(type) {
	case *value.Object:
		n.children = []*node{}
		for _, k := range x.OwnKeys() {
			pv, _ := x.GetOwn(k)
			n.children = append(n.children, b.build(k.String(), pv, childPath(path, k.String())))
		}
	case *value.Array:
		n.children = []*node{}
		for i, e := range x.Elements() {
			idx := strconv.Itoa(i)
			n.children = append(n.children, b.build(idx, e, path+"["+idx+"]"))
		}
	case *value.Map:
		n.children = []*node{}
		i := 0
		x.Range(func(k, mv any) bool {
			label := scalar(k) + " =>"
			n.children = append(n.children, b.build(label, mv, path+".get("+strconv.Itoa(i)+")"))
			i++
			return true
		})
	case *value.Set:
		n.children = []*node{}
		for i, e := range x.Values() {
			n.children = append(n.children, b.build("", e, path+".values["+strconv.Itoa(i)+"]"))
		}
	}
	return n
}

func childPath(parent, key string) string {
	if strings.HasPrefix(key, "[") {
		return parent + key
	}
	return parent + "." + key
}

// describe returns the one-line summary shown next to a key.
func describe(v any) string {
	switch x := v.(type) {
	case *value.Object:
		switch {
		case x.HasNullPrototype():
			return "[Object: null prototype]"
		case x.Constructor() != nil:
			return x.Constructor().Name()
		}
		return "Object"
	case *value.Array:
		return fmt.Sprintf("Array(%d)", x.Len())
	case *value.Map:
		return fmt.Sprintf("Map(%d)", x.Len())
	case *value.Set:
		return fmt.Sprintf("Set(%d)", x.Len())
	}
	return scalar(v)
}

func scalar(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case value.UndefinedType:
		return "undefined"
	case bool:
		return strconv.FormatBool(x)
	case string:
		return strconv.Quote(x)
	case float64:
		return value.FormatNumber(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case *big.Int:
		return x.String() + "n"
	case time.Time:
		return "Date(" + x.UTC().Format(time.RFC3339Nano) + ")"
	case []byte:
		preview := x
		suffix := ""
		if len(preview) > 16 {
			preview, suffix = preview[:16], "…"
		}
		return fmt.Sprintf("Bytes(%d) %s%s", len(x), hex.EncodeToString(preview), suffix)
	case *value.RegExp:
		return x.String()
	case *value.Symbol:
		return x.String()
	}
	return value.TypeName(v)
}

// line renders a single node without its children.
func (n *node) line() string {
	var b strings.Builder
	if n.key != "" {
		b.WriteString(keyStyle.Render(n.key))
		b.WriteString(": ")
	}
	switch {
	case n.ref != "":
		b.WriteString(classStyle.Render(n.label))
		b.WriteString(" ")
		b.WriteString(refStyle.Render("<ref " + n.ref + ">"))
	case n.children != nil:
		b.WriteString(classStyle.Render(n.label))
	default:
		b.WriteString(scalarStyle.Render(n.label))
	}
	return b.String()
}

// renderTree writes the whole tree with box-drawing guides.
func renderTree(w io.Writer, root *node) error {
	if _, err := fmt.Fprintln(w, root.line()); err != nil {
		return err
	}
	return renderChildren(w, root, "")
}

func renderChildren(w io.Writer, n *node, prefix string) error {
	for i, c := range n.children {
		last := i == len(n.children)-1
		branch, next := "├── ", "│   "
		if last {
			branch, next = "└── ", "    "
		}
		if _, err := fmt.Fprintln(w, guideStyle.Render(prefix+branch)+c.line()); err != nil {
			return err
		}
		if err := renderChildren(w, c, prefix+next); err != nil {
			return err
		}
	}
	return nil
}
