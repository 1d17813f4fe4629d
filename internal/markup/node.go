// Package markup holds the simplified element/text tree that article bodies are
// parsed into, together with the walker and entity decoder shared by the
// speech and plain-text renderers.
package markup

// Kind tags a Node as either an element or a text run.
type Kind uint8

const (
	ElementNode Kind = iota + 1
	TextNode
)

// Node is one node of a parsed article body. Element nodes carry a lower-case
// Name and ordered Children; text nodes carry Value. Nodes are treated as
// immutable once built.
type Node struct {
	Kind     Kind
	Name     string
	Value    string
	Children []Node
}

// Element builds an element node.
func Element(name string, children ...Node) Node {
	return Node{Kind: ElementNode, Name: name, Children: children}
}

// Text builds a text node.
func Text(value string) Node {
	return Node{Kind: TextNode, Value: value}
}
