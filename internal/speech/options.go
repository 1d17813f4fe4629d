// Package speech turns a parsed article into the two spoken-word renderings the
// skill serves: a length-budgeted SSML document and a plain-text transcript.
package speech

import (
	"fmt"
	"time"

	"github.com/example/morning-report/internal/markup"
)

const (
	DefaultPreHeadingPause  = 750 * time.Millisecond
	DefaultPostHeadingPause = 250 * time.Millisecond
	DefaultBulletPause      = 750 * time.Millisecond
	// DefaultMaxLength matches the platform's hard SSML ceiling.
	DefaultMaxLength = 7500
	// MinMaxLength leaves room for the speak element and an author-less
	// closing sentence.
	MinMaxLength = 200
)

var ErrMaxLengthTooSmall = fmt.Errorf("speech: max length must be 0 or at least %d", MinMaxLength)

// Options tunes SSML rendering. Zero fields fall back to the defaults.
type Options struct {
	PreHeadingPause  time.Duration
	PostHeadingPause time.Duration
	BulletPause      time.Duration
	MaxLength        int
}

func DefaultOptions() Options {
	return Options{
		PreHeadingPause:  DefaultPreHeadingPause,
		PostHeadingPause: DefaultPostHeadingPause,
		BulletPause:      DefaultBulletPause,
		MaxLength:        DefaultMaxLength,
	}
}

// Validate rejects a MaxLength too small to hold the closing sentence.
// Zero is valid and selects DefaultMaxLength.
func (o Options) Validate() error {
	if o.MaxLength < 0 || (o.MaxLength > 0 && o.MaxLength < MinMaxLength) {
		return ErrMaxLengthTooSmall
	}
	return nil
}

func (o Options) withDefaults() Options {
	if o.PreHeadingPause <= 0 {
		o.PreHeadingPause = DefaultPreHeadingPause
	}
	if o.PostHeadingPause <= 0 {
		o.PostHeadingPause = DefaultPostHeadingPause
	}
	if o.BulletPause <= 0 {
		o.BulletPause = DefaultBulletPause
	}
	if o.MaxLength <= 0 {
		o.MaxLength = DefaultMaxLength
	}
	return o
}

// Article is the renderer's view of a morning report.
type Article struct {
	Title       string
	Author      string
	PublishedAt time.Time
	Body        markup.Node
}

const dateLayout = "Monday, January 2, 2006"

// ClosingSentence names the author and publish date. It ends every SSML rendering.
func ClosingSentence(a Article) string {
	if a.Author == "" {
		return fmt.Sprintf("This was the morning report, published on %s.", a.PublishedAt.Format(dateLayout))
	}
	return fmt.Sprintf("This was the morning report by %s, published on %s.", a.Author, a.PublishedAt.Format(dateLayout))
}
