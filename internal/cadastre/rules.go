package cadastre

import (
	"strings"

	"github.com/woozymasta/cadxml/internal/xmldoc"
)

type ruleKind int

const (
	// exact local element name
	ruleTag ruleKind = iota
	// local element name that must carry a namespace or prefix
	ruleNamespaced
	// descendant chain of local names, the last one being the target
	rulePath
	// attribute on any element
	ruleAttr
)

// rule is one named way of locating a value in a document of unknown schema.
type rule struct {
	kind ruleKind
	name string
	path []string
}

func tagRule(name string) rule        { return rule{kind: ruleTag, name: name} }
func namespacedRule(name string) rule { return rule{kind: ruleNamespaced, name: name} }
func attrRule(name string) rule       { return rule{kind: ruleAttr, name: name} }

func pathRule(names ...string) rule {
	return rule{kind: rulePath, name: names[len(names)-1], path: names[:len(names)-1]}
}

// Candidate lists are the union of every element name seen in the wild,
// in priority order.
var (
	numberRules = []rule{
		tagRule("CadastralNumber"),
		tagRule("cadastralNumber"),
		namespacedRule("CadastralNumber"),
		tagRule("cadastral_number"),
		tagRule("cad_number"),
		pathRule("Parcels", "Parcel", "CadastralNumber"),
		attrRule("CadastralNumber"),
	}

	areaRules = []rule{
		tagRule("Area"),
		tagRule("area"),
		tagRule("AreaValue"),
		namespacedRule("Area"),
		pathRule("Parcels", "Parcel", "Area"),
	}

	pairRules = []rule{
		tagRule("coordinates"),
		tagRule("pos"),
		tagRule("posList"),
		tagRule("Coordinate"),
	}
)

func (r rule) matcher() xmldoc.Matcher {
	return func(n *xmldoc.Node) bool {
		switch r.kind {
		case ruleTag:
			return n.Name.Local == r.name
		case ruleNamespaced:
			return n.Name.Local == r.name && n.Name.Space != ""
		case rulePath:
			return n.Name.Local == r.name && hasAncestorChain(n, r.path)
		case ruleAttr:
			_, ok := n.Attribute(r.name)
			return ok
		}
		return false
	}
}

// first returns the trimmed value held by the first node the rule matches.
func (r rule) first(doc *xmldoc.Document) (string, bool) {
	n := doc.Find(r.matcher())
	if n == nil {
		return "", false
	}
	if r.kind == ruleAttr {
		v, _ := n.Attribute(r.name)
		return strings.TrimSpace(v), true
	}
	return strings.TrimSpace(n.Text()), true
}

// hasAncestorChain reports whether the ancestors of n contain chain in
// order, outermost first, not necessarily as direct parents.
func hasAncestorChain(n *xmldoc.Node, chain []string) bool {
	i := len(chain) - 1
	for p := n.Parent; p != nil && i >= 0; p = p.Parent {
		if p.Name.Local == chain[i] {
			i--
		}
	}
	return i < 0
}
