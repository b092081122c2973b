package spec

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/local/deckgen/internal/deck"
	"github.com/local/deckgen/internal/pptx"
)

// Inline images on content slides sit beside the body text by default.
const (
	contentImageLeft  = 7.0
	contentImageTop   = 1.5
	contentImageWidth = 5.0
)

// Build interprets a decoded specification against a deck. A top-level title
// emits a leading title slide before the slide list; an explicit
// `type: title` entry then adds its own, so both together produce two.
func Build(d *deck.Deck, doc *Document) error {
	if doc.Author != "" {
		d.SetAuthor(doc.Author)
	}
	if doc.Title != "" {
		if _, err := d.AddTitleSlide(doc.Title, doc.Subtitle); err != nil {
			return err
		}
	}

	for i, s := range doc.Slides {
		b, err := buildSlide(d, i, &s)
		if err != nil {
			return err
		}
		if b == nil {
			continue
		}
		if s.Note != "" {
			b.AddNote(s.Note)
		}
		fillPlaceholderImages(b, i, &s)
	}

	if len(doc.Replacements) > 0 {
		d.ReplacePlaceholders(doc.Replacements)
	}
	return nil
}

// buildSlide dispatches one slide entry. A nil builder with nil error means
// the entry's type is unknown and was skipped.
func buildSlide(d *deck.Deck, i int, s *Slide) (*deck.SlideBuilder, error) {
	slideType := s.Type
	if slideType == "" {
		slideType = "content"
	}

	switch slideType {
	case "title":
		return d.AddTitleSlide(s.Title, s.Subtitle)

	case "section":
		return d.AddSectionSlide(s.Title, s.Subtitle)

	case "content":
		return buildContentSlide(d, i, s)

	case "table":
		b, err := d.AddSlide(d.FindTitleOnlyLayout())
		if err != nil {
			return nil, err
		}
		b.SetTitle(s.Title)
		rows := make([][]string, len(s.Data))
		for r, row := range s.Data {
			rows[r] = stringifyAll(row)
		}
		b.AddTable(stringifyAll(s.Headers), rows, deck.Box{})
		return b, nil

	case "chart":
		return buildChartSlide(d, i, s)

	case "image":
		return buildImageSlide(d, i, s)

	case "blank":
		return d.AddBlankSlide()

	default:
		log.Warn().Int("slide", i).Str("type", slideType).Msg("unknown slide type, skipping")
		return nil, nil
	}
}

func buildContentSlide(d *deck.Deck, i int, s *Slide) (*deck.SlideBuilder, error) {
	layoutIdx, err := d.ResolveLayout(s.Layout)
	if err != nil {
		return nil, fmt.Errorf("slide %d: %w", i, err)
	}
	b, err := d.AddContentSlide(s.Title, stringifyAll(s.Bullets), layoutIdx)
	if err != nil {
		return nil, fmt.Errorf("slide %d: %w", i, err)
	}

	if s.Image != "" {
		box := deck.Box{Left: contentImageLeft, Top: contentImageTop, Width: contentImageWidth, Height: deck.Unset}
		if box.Left, err = optNumber(i, "image_left", s.ImageLeft, box.Left); err != nil {
			return nil, err
		}
		if box.Top, err = optNumber(i, "image_top", s.ImageTop, box.Top); err != nil {
			return nil, err
		}
		if box.Width, err = optNumber(i, "image_width", s.ImageWidth, box.Width); err != nil {
			return nil, err
		}
		if box.Height, err = optNumber(i, "image_height", s.ImageHeight, box.Height); err != nil {
			return nil, err
		}
		if err := b.AddImage(s.Image, box); err != nil {
			return nil, fmt.Errorf("slide %d: %w", i, err)
		}
	}
	return b, nil
}

func buildChartSlide(d *deck.Deck, i int, s *Slide) (*deck.SlideBuilder, error) {
	b, err := d.AddSlide(d.FindTitleOnlyLayout())
	if err != nil {
		return nil, err
	}
	b.SetTitle(s.Title)

	categories := stringifyAll(s.Categories)
	series, err := orderedSeries(i, s.Series)
	if err != nil {
		return nil, err
	}

	chartType := s.ChartType
	if chartType == "" {
		chartType = "bar"
	}
	switch chartType {
	case "pie":
		var values []float64
		if len(series) > 0 {
			values = series[0].Values
		}
		err = b.AddPieChart(categories, values, deck.ChartOptions{})
	case "line":
		err = b.AddLineChart(categories, series, deck.ChartOptions{})
	default:
		err = b.AddBarChart(categories, series, deck.ChartOptions{})
	}
	if err != nil {
		return nil, fmt.Errorf("slide %d: %w", i, err)
	}
	return b, nil
}

func buildImageSlide(d *deck.Deck, i int, s *Slide) (*deck.SlideBuilder, error) {
	b, err := d.AddSlide(d.FindTitleOnlyLayout())
	if err != nil {
		return nil, err
	}
	if s.Title != "" {
		b.SetTitle(s.Title)
	}

	path := s.Image
	if path == "" {
		path = s.Path
	}
	if path == "" {
		return b, nil
	}

	box := deck.Auto
	if box.Left, err = optNumber(i, "left", s.Left, box.Left); err != nil {
		return nil, err
	}
	if box.Top, err = optNumber(i, "top", s.Top, box.Top); err != nil {
		return nil, err
	}
	if box.Width, err = optNumber(i, "width", s.Width, box.Width); err != nil {
		return nil, err
	}
	if box.Height, err = optNumber(i, "height", s.Height, box.Height); err != nil {
		return nil, err
	}
	if err := b.AddImage(path, box); err != nil {
		return nil, fmt.Errorf("slide %d: %w", i, err)
	}
	return b, nil
}

// orderedSeries converts the series mapping into a deterministic slice,
// sorted by name. Mappings decode without ordering, so name order is the only
// stable choice.
func orderedSeries(i int, m map[string]any) ([]pptx.Series, error) {
	if len(m) == 0 {
		return nil, nil
	}
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]pptx.Series, 0, len(names))
	for _, name := range names {
		values, ok := toFloats(m[name])
		if !ok {
			return nil, &InterpretationError{SlideIndex: i, Field: "series." + name, Reason: "expected a list of numbers"}
		}
		out = append(out, pptx.Series{Name: name, Values: values})
	}
	return out, nil
}

// fillPlaceholderImages applies the placeholder_images mapping after primary
// content, for any slide type. Individual failures are logged and skipped so
// one bad entry does not abort the document.
func fillPlaceholderImages(b *deck.SlideBuilder, i int, s *Slide) {
	if len(s.PlaceholderImages) == 0 {
		return
	}
	keys := make([]string, 0, len(s.PlaceholderImages))
	for k := range s.PlaceholderImages {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		idx, err := strconv.Atoi(key)
		if err != nil {
			log.Warn().Int("slide", i).Str("idx", key).Msg("placeholder key is not an integer, skipping")
			continue
		}
		if err := b.FillPicturePlaceholder(idx, s.PlaceholderImages[key]); err != nil {
			log.Warn().Int("slide", i).Int("idx", idx).Err(err).Msg("could not fill placeholder")
		}
	}
}

// optNumber coerces an optional numeric field, keeping def when absent.
func optNumber(i int, field string, v any, def float64) (float64, error) {
	if v == nil {
		return def, nil
	}
	f, ok := toFloat(v)
	if !ok {
		return 0, &InterpretationError{SlideIndex: i, Field: field, Reason: fmt.Sprintf("expected a number, got %T", v)}
	}
	return f, nil
}
