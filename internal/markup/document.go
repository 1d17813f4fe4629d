package markup

import (
	"encoding/json"
	"sync"
)

// Document pairs a serialized article body with the tree derived from it. The
// tree is only ever produced by parsing the source, once, on first use, so the
// two forms cannot drift apart. The zero Document is an empty body.
type Document struct {
	source string
	cache  *treeCache
}

type treeCache struct {
	once sync.Once
	root Node
	err  error
}

// NewDocument wraps an already sanitized HTML fragment.
func NewDocument(source string) Document {
	return Document{source: source, cache: &treeCache{}}
}

// DocumentFromNodes serializes nodes and wraps the result.
func DocumentFromNodes(nodes ...Node) Document {
	return NewDocument(Serialize(nodes...))
}

// Source returns the serialized form.
func (d Document) Source() string { return d.source }

// Tree returns the parsed body. The root is always a "body" element.
func (d Document) Tree() (Node, error) {
	if d.cache == nil {
		return parseFragment(d.source)
	}
	d.cache.once.Do(func() {
		d.cache.root, d.cache.err = parseFragment(d.source)
	})
	return d.cache.root, d.cache.err
}

func (d Document) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.source)
}

func (d *Document) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*d = NewDocument(s)
	return nil
}
