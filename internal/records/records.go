// Package records defines the morning report, podcast and playback-position
// records and the repository that persists them as JSON in a kv.Store.
package records

import (
	"time"

	"github.com/example/morning-report/internal/markup"
	"github.com/example/morning-report/internal/speech"
)

// Fixed store keys. Position keys are derived per user, see PositionKey.
const (
	ReportKey   = "morningreport"
	PodcastsKey = "podcasts"
)

// DefaultPodcastLimit bounds the stored podcast collection.
const DefaultPodcastLimit = 5

// Report is the latest morning report. It is replaced wholesale every fetch.
type Report struct {
	Title        string          `json:"title"`
	PublishedAt  time.Time       `json:"published_at"`
	Author       string          `json:"author,omitempty"`
	ArticleURL   string          `json:"article_url,omitempty"`
	MainImageURL string          `json:"main_image_url,omitempty"`
	Body         markup.Document `json:"body"`
}

// Article converts the report into the renderer's input.
func (r Report) Article() (speech.Article, error) {
	tree, err := r.Body.Tree()
	if err != nil {
		return speech.Article{}, err
	}
	return speech.Article{
		Title:       r.Title,
		Author:      r.Author,
		PublishedAt: r.PublishedAt,
		Body:        tree,
	}, nil
}

// Podcast is one episode of the podcast feed. The collection is stored
// newest-first in feed order.
type Podcast struct {
	Title       string    `json:"title"`
	PublishedAt time.Time `json:"published_at"`
	MediaURL    string    `json:"media_url"`
	Token       string    `json:"token"`
}

// FindPodcast returns the episode whose token matches exactly.
func FindPodcast(list []Podcast, token string) (Podcast, bool) {
	for _, p := range list {
		if p.Token == token {
			return p, true
		}
	}
	return Podcast{}, false
}
