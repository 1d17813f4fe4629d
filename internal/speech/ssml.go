package speech

import (
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

const (
	bullet     = "•"
	speakOpen  = "<speak>"
	speakClose = "</speak>"
)

// Rendering is the result of RenderSSML.
type Rendering struct {
	SSML string
	// Sections is the number of sections segmentation produced; Emitted is
	// how many of them made it under the length budget.
	Sections int
	Emitted  int
}

// Truncated reports whether trailing sections were dropped to fit the budget.
func (r Rendering) Truncated() bool { return r.Emitted < r.Sections }

// SSML renders a as speech markup. See RenderSSML.
func SSML(a Article, opts Options) string {
	return RenderSSML(a, opts).SSML
}

// RenderSSML renders a as speech markup no longer than opts.MaxLength
// characters. Sections are appended in order while they fit; the first one that
// would overflow ends the body and everything after it is dropped. The closing
// sentence is always appended and its length is reserved up front.
func RenderSSML(a Article, opts Options) Rendering {
	opts = opts.withDefaults()
	sections := Segment(a.Title, a.Body)
	closing := closingParagraph(a, opts.MaxLength)

	budget := opts.MaxLength - runes(speakOpen) - runes(speakClose) - runes(closing)
	out := Rendering{Sections: len(sections)}

	var b strings.Builder
	b.WriteString(speakOpen)
	used := 0
	first := true
	for _, sec := range sections {
		frag := renderSection(sec, first, opts)
		if frag == "" {
			out.Emitted++
			continue
		}
		n := runes(frag)
		if used+n > budget {
			break
		}
		b.WriteString(frag)
		used += n
		first = false
		out.Emitted++
	}
	b.WriteString(closing)
	b.WriteString(speakClose)
	out.SSML = b.String()
	return out
}

func renderSection(sec Section, first bool, opts Options) string {
	if sec.Title == "" && len(sec.Sentences) == 0 {
		return ""
	}
	var b strings.Builder
	if sec.Title != "" {
		if !first {
			writeBreak(&b, opts.PreHeadingPause)
		}
		b.WriteString(escape(sec.Title))
		writeBreak(&b, opts.PostHeadingPause)
	}
	for _, sentence := range sec.Sentences {
		trimmed := strings.TrimLeftFunc(sentence, unicode.IsSpace)
		if rest, ok := strings.CutPrefix(trimmed, bullet); ok {
			writeBreak(&b, opts.BulletPause)
			writeRun(&b, rest, opts)
			continue
		}
		b.WriteString("<p>")
		writeRun(&b, sentence, opts)
		b.WriteString("</p>")
	}
	return b.String()
}

// writeRun writes text as one continuous run, turning any bullet glyphs inside
// it into pauses.
func writeRun(b *strings.Builder, text string, opts Options) {
	for i, part := range strings.Split(text, bullet) {
		if i > 0 {
			writeBreak(b, opts.BulletPause)
		}
		b.WriteString(escape(strings.TrimSpace(part)))
	}
}

func writeBreak(b *strings.Builder, d time.Duration) {
	fmt.Fprintf(b, `<break time="%dms"/>`, d.Milliseconds())
}

// closingParagraph drops the author when the full sentence alone would not
// fit in maxLength.
func closingParagraph(a Article, maxLength int) string {
	p := "<p>" + escape(ClosingSentence(a)) + "</p>"
	if a.Author != "" && runes(speakOpen)+runes(p)+runes(speakClose) > maxLength {
		a.Author = ""
		p = "<p>" + escape(ClosingSentence(a)) + "</p>"
	}
	return p
}

// Only the three characters that break SSML text are escaped; quotes stay
// literal so they cost one character of the budget. Line breaks fold to
// spaces.
var ssmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	"\r\n", " ",
	"\n", " ",
	"\r", " ",
	"\t", " ",
)

func escape(s string) string { return ssmlEscaper.Replace(s) }

func runes(s string) int { return utf8.RuneCountInString(s) }
