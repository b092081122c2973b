// Package deck is the slide-construction engine: it wraps a presentation
// package with layout resolution, role-based slide creation and the fluent
// per-slide content builder.
package deck

import (
	"github.com/rs/zerolog/log"

	"github.com/local/deckgen/internal/pptx"
	"github.com/local/deckgen/internal/styles"
)

// Unset marks an optional geometry value (inches) as not provided. Zero is a
// valid position, so absence needs its own sentinel.
const Unset = -1.0

// Deck wraps a presentation with the construction API.
type Deck struct {
	prs *pptx.Presentation
	pos styles.Positions

	templatePath string
}

// New returns a deck over a blank presentation with the built-in layout set.
func New() *Deck {
	prs := pptx.New()
	log.Debug().Msg("created blank presentation")
	return &Deck{prs: prs, pos: positionsFor(prs)}
}

// Load opens a template file. Missing files and invalid packages surface as
// pptx.TemplateNotFoundError / pptx.InvalidPackageError.
func Load(templatePath string) (*Deck, error) {
	prs, err := pptx.Open(templatePath)
	if err != nil {
		return nil, err
	}
	log.Info().Str("template", templatePath).Int("layouts", prs.LayoutCount()).Msg("loaded template")
	return &Deck{prs: prs, pos: positionsFor(prs), templatePath: templatePath}, nil
}

// LoadBytes opens a template from memory, as uploaded over HTTP.
func LoadBytes(data []byte) (*Deck, error) {
	prs, err := pptx.OpenBytes(data)
	if err != nil {
		return nil, err
	}
	return &Deck{prs: prs, pos: positionsFor(prs)}, nil
}

func positionsFor(prs *pptx.Presentation) styles.Positions {
	return styles.For(prs.Width.Inches(), prs.Height.Inches())
}

// Presentation exposes the underlying document model.
func (d *Deck) Presentation() *pptx.Presentation { return d.prs }

// SlideCount returns the number of slides.
func (d *Deck) SlideCount() int { return d.prs.SlideCount() }

// LayoutCount returns the number of available layouts.
func (d *Deck) LayoutCount() int { return d.prs.LayoutCount() }

// LayoutNames lists layout display names in stable order.
func (d *Deck) LayoutNames() []string {
	names := make([]string, 0, d.prs.LayoutCount())
	for _, l := range d.prs.Layouts() {
		names = append(names, l.Name)
	}
	return names
}

// SetAuthor records the author core property written at save time.
func (d *Deck) SetAuthor(author string) { d.prs.Author = author }

// AddSlide appends a slide on the given layout index and returns its builder.
func (d *Deck) AddSlide(layoutIndex int) (*SlideBuilder, error) {
	s, err := d.prs.AddSlide(layoutIndex)
	if err != nil {
		return nil, err
	}
	return &SlideBuilder{deck: d, slide: s}, nil
}

// AddSlideByName appends a slide on the named layout (case-insensitive).
func (d *Deck) AddSlideByName(name string) (*SlideBuilder, error) {
	s, err := d.prs.AddSlideByName(name)
	if err != nil {
		return nil, err
	}
	return &SlideBuilder{deck: d, slide: s}, nil
}

// ResolveLayout maps a layout reference from a specification (integer index
// or string name, as decoded from YAML/JSON) to a layout index. A nil
// reference resolves to the content layout heuristic.
func (d *Deck) ResolveLayout(ref any) (int, error) {
	switch v := ref.(type) {
	case nil:
		return d.FindContentLayout(), nil
	case int:
		if _, err := d.prs.Layout(v); err != nil {
			return 0, err
		}
		return v, nil
	case float64:
		return d.ResolveLayout(int(v))
	case string:
		l, err := d.prs.LayoutByName(v)
		if err != nil {
			return 0, err
		}
		return l.Index, nil
	default:
		return d.FindContentLayout(), nil
	}
}

// AddTitleSlide creates a slide on the title layout (index 0 by convention)
// with the given title and optional subtitle.
func (d *Deck) AddTitleSlide(title, subtitle string) (*SlideBuilder, error) {
	return d.addTitled(styles.LayoutTitle, title, subtitle)
}

// AddSectionSlide creates a section header slide (layout index 2).
func (d *Deck) AddSectionSlide(title, subtitle string) (*SlideBuilder, error) {
	return d.addTitled(styles.LayoutSection, title, subtitle)
}

func (d *Deck) addTitled(layout int, title, subtitle string) (*SlideBuilder, error) {
	b, err := d.AddSlide(layout)
	if err != nil {
		return nil, err
	}
	b.SetTitle(title)
	if subtitle != "" {
		b.SetSubtitle(subtitle)
	}
	return b, nil
}

// AddContentSlide creates a content slide with optional bullets, using the
// content layout heuristic unless layoutIndex >= 0.
func (d *Deck) AddContentSlide(title string, bullets []string, layoutIndex int) (*SlideBuilder, error) {
	if layoutIndex < 0 {
		layoutIndex = d.FindContentLayout()
	}
	b, err := d.AddSlide(layoutIndex)
	if err != nil {
		return nil, err
	}
	b.SetTitle(title)
	if len(bullets) > 0 {
		b.AddBullets(bullets, nil)
	}
	return b, nil
}

// AddBlankSlide creates a slide on the blank layout (index 6 by convention).
func (d *Deck) AddBlankSlide() (*SlideBuilder, error) {
	return d.AddSlide(styles.LayoutBlank)
}

// RemoveSlide removes the slide at index; following slides shift down.
func (d *Deck) RemoveSlide(index int) error {
	return d.prs.RemoveSlide(index)
}

// ClearSlides removes every slide, typically before generating onto a template.
func (d *Deck) ClearSlides() { d.prs.ClearSlides() }

// ReplacePlaceholders substitutes literal {{KEY}} tokens across all slides.
func (d *Deck) ReplacePlaceholders(replacements map[string]string) {
	pptx.ReplaceText(d.prs, replacements)
}

// Save serializes the deck to a .pptx file, creating parent directories.
func (d *Deck) Save(path string) (string, error) {
	out, err := pptx.Save(d.prs, path)
	if err != nil {
		return "", err
	}
	log.Info().Str("path", out).Int("slides", d.SlideCount()).Msg("saved presentation")
	return out, nil
}

// Bytes serializes the deck to memory.
func (d *Deck) Bytes() ([]byte, error) {
	return pptx.Bytes(d.prs)
}

// PlaceholderInfo is one placeholder entry of the inspection report.
type PlaceholderInfo struct {
	Idx  int    `json:"idx"`
	Type string `json:"type"`
	Name string `json:"name"`
}

// LayoutInfo is one layout entry of the inspection report.
type LayoutInfo struct {
	Index        int               `json:"index"`
	Name         string            `json:"name"`
	Placeholders []PlaceholderInfo `json:"placeholders"`
}

// Info is the template inspection report consumed by authors discovering
// layout names and placeholder idx keys.
type Info struct {
	Template      string       `json:"template,omitempty"`
	SlideCount    int          `json:"slide_count"`
	LayoutCount   int          `json:"layout_count"`
	SlideWidthIn  float64      `json:"slide_width_in"`
	SlideHeightIn float64      `json:"slide_height_in"`
	Layouts       []LayoutInfo `json:"layouts"`
}

// Info builds the inspection report for the current presentation.
func (d *Deck) Info() Info {
	info := Info{
		Template:      d.templatePath,
		SlideCount:    d.prs.SlideCount(),
		LayoutCount:   d.prs.LayoutCount(),
		SlideWidthIn:  d.prs.Width.Inches(),
		SlideHeightIn: d.prs.Height.Inches(),
	}
	for _, l := range d.prs.Layouts() {
		li := LayoutInfo{Index: l.Index, Name: l.Name, Placeholders: []PlaceholderInfo{}}
		for _, ph := range l.Placeholders {
			li.Placeholders = append(li.Placeholders, PlaceholderInfo{
				Idx: ph.Idx, Type: string(ph.Type), Name: ph.Name,
			})
		}
		info.Layouts = append(info.Layouts, li)
	}
	return info
}
