package feed

import (
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	xhtml "golang.org/x/net/html"

	"github.com/example/morning-report/internal/markup"
	"github.com/example/morning-report/internal/records"
)

// ToReport maps the newest item of the report feed. It reports false when the
// feed has no item or the item carries no body, in which case nothing should
// be stored.
func ToReport(f *gofeed.Feed, now time.Time) (records.Report, bool) {
	if f == nil || len(f.Items) == 0 || f.Items[0] == nil {
		return records.Report{}, false
	}
	item := f.Items[0]
	body := item.Content
	if strings.TrimSpace(body) == "" {
		return records.Report{}, false
	}
	return records.Report{
		Title:        cleanTitle(item.Title),
		PublishedAt:  publishedAt(item, now),
		Author:       author(item),
		ArticleURL:   strings.TrimSpace(item.Link),
		MainImageURL: imageURL(item),
		Body:         markup.ParseHTML(body),
	}, true
}

// ToPodcasts maps up to limit items of the podcast feed in feed order. Items
// without a playable enclosure are skipped.
func ToPodcasts(f *gofeed.Feed, limit int, now time.Time) []records.Podcast {
	if f == nil {
		return nil
	}
	if limit <= 0 {
		limit = records.DefaultPodcastLimit
	}
	out := make([]records.Podcast, 0, limit)
	for _, item := range f.Items {
		if len(out) == limit {
			break
		}
		if item == nil {
			continue
		}
		media := upgradeScheme(audioURL(item))
		if media == "" {
			continue
		}
		token := strings.TrimSpace(item.GUID)
		if token == "" {
			token = media
		}
		out = append(out, records.Podcast{
			Title:       cleanTitle(item.Title),
			PublishedAt: publishedAt(item, now),
			MediaURL:    media,
			Token:       token,
		})
	}
	return out
}

func cleanTitle(s string) string {
	return strings.TrimSpace(markup.DecodeEntities(s))
}

// publishedAt falls back to the start of today (UTC) when the item has no
// parsable date.
func publishedAt(item *gofeed.Item, now time.Time) time.Time {
	if item.PublishedParsed != nil {
		return item.PublishedParsed.UTC()
	}
	if item.UpdatedParsed != nil {
		return item.UpdatedParsed.UTC()
	}
	y, m, d := now.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// author prefers dc:creator over the generic author fields.
func author(item *gofeed.Item) string {
	if dc := item.DublinCoreExt; dc != nil {
		for _, c := range dc.Creator {
			if c = strings.TrimSpace(c); c != "" {
				return c
			}
		}
	}
	for _, p := range item.Authors {
		if p != nil && strings.TrimSpace(p.Name) != "" {
			return strings.TrimSpace(p.Name)
		}
	}
	return ""
}

// audioURL returns the first audio enclosure, or the first enclosure of any
// type when none is marked as audio.
func audioURL(item *gofeed.Item) string {
	var first string
	for _, enc := range item.Enclosures {
		if enc == nil || strings.TrimSpace(enc.URL) == "" {
			continue
		}
		u := strings.TrimSpace(enc.URL)
		if strings.HasPrefix(enc.Type, "audio/") {
			return u
		}
		if first == "" && !strings.HasPrefix(enc.Type, "image/") {
			first = u
		}
	}
	return first
}

// upgradeScheme rewrites http:// media URLs to https://; audio players refuse
// plain http streams.
func upgradeScheme(u string) string {
	if rest, ok := strings.CutPrefix(u, "http://"); ok {
		return "https://" + rest
	}
	return u
}

// imageURL picks the report's lead image.
// Priority: Item.Image > media:thumbnail > media:content (medium=image) >
// image/* enclosure > first <img> in the body.
func imageURL(item *gofeed.Item) string {
	if item.Image != nil && isHTTPURL(item.Image.URL) {
		return item.Image.URL
	}
	if media, ok := item.Extensions["media"]; ok {
		for _, thumb := range media["thumbnail"] {
			if u := thumb.Attrs["url"]; isHTTPURL(u) {
				return u
			}
		}
		for _, content := range media["content"] {
			if content.Attrs["medium"] == "image" && isHTTPURL(content.Attrs["url"]) {
				return content.Attrs["url"]
			}
		}
	}
	for _, enc := range item.Enclosures {
		if enc != nil && strings.HasPrefix(enc.Type, "image/") && isHTTPURL(enc.URL) {
			return enc.URL
		}
	}
	return firstImg(item.Content)
}

func firstImg(body string) string {
	z := xhtml.NewTokenizer(strings.NewReader(body))
	for {
		switch z.Next() {
		case xhtml.ErrorToken:
			return ""
		case xhtml.StartTagToken, xhtml.SelfClosingTagToken:
			tok := z.Token()
			if tok.Data != "img" {
				continue
			}
			for _, a := range tok.Attr {
				if a.Key == "src" && isHTTPURL(a.Val) {
					return a.Val
				}
			}
		}
	}
}

func isHTTPURL(raw string) bool {
	if raw == "" {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}
