// Package bundle assembles selected articles into a single epub and
// hands it to the delivery collaborator, marking records sent only
// after both collaborators succeed.
package bundle

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vkatariya/readstack/internal/article"
)

// Item is one article prepared for the bundle, in reading order.
type Item struct {
	ID     string
	Title  string
	Author string
	Date   string
	Body   string
}

// Bundle is the ordered content of one export.
type Bundle struct {
	Title string
	Date  string
	Items []Item
}

const bundleDateLayout = "2006-01-02"

// New builds a bundle from the selected records, dated at now.
func New(recs []*article.Record, now time.Time) Bundle {
	date := now.Format(bundleDateLayout)
	b := Bundle{
		Title: "Articles Bundle - " + date,
		Date:  date,
	}
	for _, rec := range recs {
		b.Items = append(b.Items, Item{
			ID:     rec.ID,
			Title:  rec.Title(),
			Author: rec.Author(),
			Date:   rec.DisplayDate(),
			Body:   rec.Body,
		})
	}
	return b
}

// Subtitle summarizes the bundle's size and date range.
func (b Bundle) Subtitle() string {
	var dates []string
	for _, it := range b.Items {
		if it.Date != "" {
			dates = append(dates, it.Date)
		}
	}

	span := "various dates"
	if len(dates) > 0 {
		oldest, newest := dates[0], dates[0]
		for _, d := range dates[1:] {
			if d < oldest {
				oldest = d
			}
			if d > newest {
				newest = d
			}
		}
		span = oldest
		if oldest != newest {
			span = oldest + " to " + newest
		}
	}
	return fmt.Sprintf("Collection of %d articles from %s", len(b.Items), span)
}

// epubMetadata is the frontmatter document pandoc reads for the epub's
// own title page and table of contents.
type epubMetadata struct {
	Title    string `yaml:"title"`
	Subtitle string `yaml:"subtitle"`
	Author   string `yaml:"author"`
	Date     string `yaml:"date"`
	Lang     string `yaml:"lang"`
}

// MetadataDocument renders the bundle-level metadata file handed to the
// conversion collaborator.
func (b Bundle) MetadataDocument() (string, error) {
	data, err := yaml.Marshal(epubMetadata{
		Title:    b.Title,
		Subtitle: b.Subtitle(),
		Author:   "Various Authors",
		Date:     b.Date,
		Lang:     "en",
	})
	if err != nil {
		return "", fmt.Errorf("marshal bundle metadata: %w", err)
	}
	return "---\n" + string(data) + "---\n\n", nil
}

var headingPattern = regexp.MustCompile(`(?m)^(#{1,5}) `)

// ChapterMarkdown renders one item as an epub chapter: an h1 title with
// the body's own headings demoted one level so they cannot collide with
// chapter boundaries.
func ChapterMarkdown(it Item) string {
	body := headingPattern.ReplaceAllString(it.Body, "#$1 ")
	return "# " + it.Title + "\n\n" + body
}

// WordCount sums the item body word counts.
func (b Bundle) WordCount() int {
	total := 0
	for _, it := range b.Items {
		total += len(strings.Fields(it.Body))
	}
	return total
}
