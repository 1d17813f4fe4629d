package markup

// Visitor receives callbacks from Walk. EnterElement and ExitElement only fire
// for structural elements; every other element is transparent.
type Visitor interface {
	EnterElement(name string)
	ExitElement(name string)
	Text(value string)
}

// VisitorFuncs adapts plain functions to a Visitor. Nil fields are skipped.
type VisitorFuncs struct {
	Enter  func(name string)
	Exit   func(name string)
	OnText func(value string)
}

func (f VisitorFuncs) EnterElement(name string) {
	if f.Enter != nil {
		f.Enter(name)
	}
}

func (f VisitorFuncs) ExitElement(name string) {
	if f.Exit != nil {
		f.Exit(name)
	}
}

func (f VisitorFuncs) Text(value string) {
	if f.OnText != nil {
		f.OnText(value)
	}
}

// Walk visits n and its descendants in document order.
func Walk(n Node, v Visitor) {
	switch n.Kind {
	case TextNode:
		v.Text(n.Value)
	case ElementNode:
		structural := IsStructural(n.Name)
		if structural {
			v.EnterElement(n.Name)
		}
		for _, c := range n.Children {
			Walk(c, v)
		}
		if structural {
			v.ExitElement(n.Name)
		}
	}
}

// IsStructural reports whether name is a paragraph or a heading.
func IsStructural(name string) bool {
	return IsParagraph(name) || HeadingLevel(name) > 0
}

func IsParagraph(name string) bool { return name == "p" }

// HeadingLevel returns 1..6 for h1..h6 and 0 for anything else.
func HeadingLevel(name string) int {
	if len(name) == 2 && name[0] == 'h' && name[1] >= '1' && name[1] <= '6' {
		return int(name[1] - '0')
	}
	return 0
}
