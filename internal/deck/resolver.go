package deck

import (
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/local/deckgen/internal/pptx"
	"github.com/local/deckgen/internal/styles"
)

// contentLayoutNames are the exact (case-insensitive) names recognized as the
// canonical body-content layout across common template families.
var contentLayoutNames = map[string]bool{
	"title and content": true,
	"title & content":   true,
	"title, content":    true,
}

// FindContentLayout picks the layout for body-content slides. The cascade
// runs name matching before structural matching so that template authors'
// intent wins over shape counting, and every step is deterministic: within a
// step the lowest layout index is taken.
//
//  1. exact name match against the canonical content layout names
//  2. name contains "title and content" and ends with "content"
//  3. structural: a non-centered title placeholder plus a body or generic
//     object placeholder
//  4. index 1, the conventional slot for the content layout
func (d *Deck) FindContentLayout() int {
	layouts := d.prs.Layouts()

	for _, l := range layouts {
		if contentLayoutNames[strings.ToLower(l.Name)] {
			return l.Index
		}
	}

	for _, l := range layouts {
		name := strings.ToLower(l.Name)
		if strings.Contains(name, "title and content") && strings.HasSuffix(name, "content") {
			return l.Index
		}
	}

	for _, l := range layouts {
		if hasTitleAndContent(l) {
			return l.Index
		}
	}

	log.Debug().Msg("no content layout matched, falling back to index 1")
	if len(layouts) > styles.LayoutTitleContent {
		return styles.LayoutTitleContent
	}
	return 0
}

func hasTitleAndContent(l *pptx.Layout) bool {
	var title, content bool
	for _, ph := range l.Placeholders {
		if ph.Type.IsTitleish() {
			title = true
		}
		if ph.Type.IsContent() {
			content = true
		}
	}
	return title && content
}

// FindTitleOnlyLayout picks the layout for slides that carry a title and
// free-placed content (tables, charts, images) but no body placeholder.
//
//  1. exact name "title only"
//  2. name contains "title" and its last word is "only"
//  3. structural: a title placeholder and no body or object placeholder
//  4. index 5, the conventional slot for the title-only layout
func (d *Deck) FindTitleOnlyLayout() int {
	layouts := d.prs.Layouts()

	for _, l := range layouts {
		if strings.EqualFold(l.Name, "title only") {
			return l.Index
		}
	}

	for _, l := range layouts {
		name := strings.ToLower(l.Name)
		words := strings.Fields(name)
		if strings.Contains(name, "title") && len(words) > 0 && words[len(words)-1] == "only" {
			return l.Index
		}
	}

	for _, l := range layouts {
		if hasTitleNoContent(l) {
			return l.Index
		}
	}

	if len(layouts) > styles.LayoutTitleOnly {
		return styles.LayoutTitleOnly
	}
	return d.FindContentLayout()
}

func hasTitleNoContent(l *pptx.Layout) bool {
	var title bool
	for _, ph := range l.Placeholders {
		if ph.Type.IsTitleish() {
			title = true
		}
		if ph.Type.IsContent() {
			return false
		}
	}
	return title
}
