package speech

import (
	"strings"

	"github.com/example/morning-report/internal/markup"
)

// Section is a heading and the sentences that follow it up to the next heading.
type Section struct {
	Title     string
	Sentences []string
}

// Segment splits body into sections. The first section is titled with title
// and collects everything that precedes the first heading, so a body without
// headings always yields exactly one section.
func Segment(title string, body markup.Node) []Section {
	s := &segmenter{sections: []Section{{Title: title}}}
	markup.Walk(body, s)
	s.flush()
	return s.sections
}

type segmenter struct {
	buf      strings.Builder
	sections []Section
}

func (s *segmenter) EnterElement(name string) {
	if markup.HeadingLevel(name) > 0 {
		s.flush()
	}
}

func (s *segmenter) ExitElement(name string) {
	switch {
	case markup.IsParagraph(name):
		s.flush()
	case markup.HeadingLevel(name) > 0:
		s.sections = append(s.sections, Section{Title: strings.TrimSpace(s.buf.String())})
		s.buf.Reset()
	}
}

func (s *segmenter) Text(value string) {
	decoded := strings.TrimSpace(markup.DecodeEntities(value))
	if decoded == "" {
		return
	}
	if s.buf.Len() > 0 {
		s.buf.WriteByte(' ')
	}
	s.buf.WriteString(decoded)
}

func (s *segmenter) flush() {
	if s.buf.Len() == 0 {
		return
	}
	last := &s.sections[len(s.sections)-1]
	last.Sentences = append(last.Sentences, s.buf.String())
	s.buf.Reset()
}
