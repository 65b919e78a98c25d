package xmldoc

import "strings"

// Matcher selects element nodes.
type Matcher func(n *Node) bool

// ByName matches elements whose local name equals one of names exactly.
func ByName(names ...string) Matcher {
	return func(n *Node) bool {
		for _, name := range names {
			if n.Name.Local == name {
				return true
			}
		}
		return false
	}
}

// IsElement reports whether n is an element rather than character data.
func (n *Node) IsElement() bool {
	return n.Name.Local != ""
}

// Text returns the concatenated character data of n and all its descendants,
// in document order.
func (n *Node) Text() string {
	if !n.IsElement() {
		return n.Data
	}

	var sb strings.Builder
	n.appendText(&sb)
	return sb.String()
}

func (n *Node) appendText(sb *strings.Builder) {
	for _, c := range n.Children {
		if c.IsElement() {
			c.appendText(sb)
		} else {
			sb.WriteString(c.Data)
		}
	}
}

// Attribute returns the value of the first attribute with the given local name.
func (n *Node) Attribute(local string) (string, bool) {
	for _, a := range n.Attr {
		if a.Name.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

// Child returns the first direct element child with the given local name.
func (n *Node) Child(local string) *Node {
	for _, c := range n.Children {
		if c.Name.Local == local {
			return c
		}
	}
	return nil
}

// HasAncestor reports whether any ancestor of n has the given local name.
func (n *Node) HasAncestor(local string) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Name.Local == local {
			return true
		}
	}
	return false
}

// Find returns the first element below n (n excluded) accepted by m.
func (n *Node) Find(m Matcher) *Node {
	var found *Node
	n.walk(func(c *Node) bool {
		if m(c) {
			found = c
			return false
		}
		return true
	})
	return found
}

// FindAll returns every element below n (n excluded) accepted by m.
func (n *Node) FindAll(m Matcher) []*Node {
	var out []*Node
	n.walk(func(c *Node) bool {
		if m(c) {
			out = append(out, c)
		}
		return true
	})
	return out
}

// walk visits descendant elements in document order until fn returns false.
func (n *Node) walk(fn func(*Node) bool) bool {
	for _, c := range n.Children {
		if !c.IsElement() {
			continue
		}
		if !fn(c) || !c.walk(fn) {
			return false
		}
	}
	return true
}

// Find returns the first element in document order accepted by m,
// the root included.
func (d *Document) Find(m Matcher) *Node {
	if d == nil || d.Root == nil {
		return nil
	}
	if m(d.Root) {
		return d.Root
	}
	return d.Root.Find(m)
}

// FindAll returns every element in document order accepted by m,
// the root included.
func (d *Document) FindAll(m Matcher) []*Node {
	if d == nil || d.Root == nil {
		return nil
	}

	var out []*Node
	if m(d.Root) {
		out = append(out, d.Root)
	}
	return append(out, d.Root.FindAll(m)...)
}
