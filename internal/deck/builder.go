package deck

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/local/deckgen/internal/pptx"
	"github.com/local/deckgen/internal/styles"
)

// SeriesLengthMismatchError reports a chart series whose value count does not
// match the category count. Construction of the chart is rejected entirely.
type SeriesLengthMismatchError struct {
	Series   string
	Expected int
	Actual   int
}

func (e *SeriesLengthMismatchError) Error() string {
	return fmt.Sprintf("series %q has %d values, expected %d to match categories",
		e.Series, e.Actual, e.Expected)
}

// Box is element geometry in inches. The zero value means "all defaults";
// individual fields set to Unset inherit their default.
type Box struct {
	Left, Top, Width, Height float64
}

// Auto is a fully-default Box with every field explicit.
var Auto = Box{Left: Unset, Top: Unset, Width: Unset, Height: Unset}

func (b Box) resolve(def Box) Box {
	if b == (Box{}) {
		return def
	}
	if b.Left < 0 {
		b.Left = def.Left
	}
	if b.Top < 0 {
		b.Top = def.Top
	}
	if b.Width < 0 {
		b.Width = def.Width
	}
	if b.Height < 0 {
		b.Height = def.Height
	}
	return b
}

// TextOptions are run and paragraph properties for free-placed text. Zero
// values inherit theme defaults.
type TextOptions struct {
	SizePt   float64
	FontName string
	Bold     bool
	Italic   bool
	Color    pptx.Color
	Align    pptx.Alignment
	Anchor   pptx.Anchor
}

// ChartOptions adjust chart placement and legend visibility.
type ChartOptions struct {
	Box        Box
	HideLegend bool
}

// ShapeOptions style a free-placed autoshape.
type ShapeOptions struct {
	Fill      pptx.Color
	Line      pptx.Color
	Text      string
	TextColor pptx.Color
	TextPt    float64
}

// SlideBuilder adds content to one slide. Methods that cannot fail return the
// builder for chaining; the builder never creates or removes slides.
type SlideBuilder struct {
	deck  *Deck
	slide *pptx.Slide
}

// Slide exposes the slide under construction.
func (b *SlideBuilder) Slide() *pptx.Slide { return b.slide }

func (b *SlideBuilder) pos() styles.Positions { return b.deck.pos }

// bindPlaceholder returns the slide shape bound to the layout slot, creating
// the binding on first use.
func (b *SlideBuilder) bindPlaceholder(ph pptx.Placeholder) *pptx.Shape {
	if sh := b.slide.BoundPlaceholder(ph.Idx); sh != nil {
		return sh
	}
	p := ph
	sh := &pptx.Shape{Kind: pptx.KindPlaceholder, Ph: &p}
	b.slide.Shapes = append(b.slide.Shapes, sh)
	return sh
}

func (b *SlideBuilder) titlePlaceholder() (pptx.Placeholder, bool) {
	for _, ph := range b.slide.Layout.Placeholders {
		if ph.Type == pptx.PhTitle || ph.Type == pptx.PhCenteredTitle {
			return ph, true
		}
	}
	return pptx.Placeholder{}, false
}

// contentPlaceholder returns the body slot at stable key 1. Layouts whose
// body placeholder carries another idx get the text box fallback instead.
func (b *SlideBuilder) contentPlaceholder() (pptx.Placeholder, bool) {
	ph, ok := b.slide.Layout.Placeholder(1)
	if !ok || !ph.Type.IsContent() {
		return pptx.Placeholder{}, false
	}
	return ph, true
}

// SetTitle writes the slide title. With a title placeholder on the layout the
// text lands there and inherits the layout's formatting; otherwise a text box
// is placed at the default title position.
func (b *SlideBuilder) SetTitle(title string) *SlideBuilder {
	if ph, ok := b.titlePlaceholder(); ok {
		b.bindPlaceholder(ph).SetText(title, pptx.Font{})
		return b
	}
	pos := b.pos()
	return b.AddTextBox(title,
		Box{Left: pos.TitleLeft, Top: pos.TitleTop, Width: pos.TitleWidth, Height: pos.TitleHeight},
		TextOptions{SizePt: styles.FontSlideTitle, Bold: true, Color: styles.Secondary})
}

// SetSubtitle writes the subtitle placeholder (stable idx 1). Layouts without
// one, such as blank layouts, make this a no-op.
func (b *SlideBuilder) SetSubtitle(subtitle string) *SlideBuilder {
	ph, ok := b.slide.Layout.Placeholder(1)
	if !ok {
		log.Debug().Str("layout", b.slide.Layout.Name).Msg("no subtitle placeholder, skipping")
		return b
	}
	b.bindPlaceholder(ph).SetText(subtitle, pptx.Font{})
	return b
}

// AddTextBox places a free text box at the given geometry.
func (b *SlideBuilder) AddTextBox(text string, box Box, opt TextOptions) *SlideBuilder {
	pos := b.pos()
	box = box.resolve(Box{Left: pos.ContentLeft, Top: pos.ContentTop, Width: pos.ContentWidth, Height: 1.0})
	font := pptx.Font{
		SizePt: opt.SizePt,
		Name:   opt.FontName,
		Bold:   opt.Bold,
		Italic: opt.Italic,
		Color:  opt.Color,
	}
	if font.SizePt == 0 {
		font.SizePt = styles.FontBody
	}
	sh := &pptx.Shape{
		Kind:  pptx.KindTextBox,
		Left:  pptx.Inches(box.Left),
		Top:   pptx.Inches(box.Top),
		Width: pptx.Inches(box.Width), Height: pptx.Inches(box.Height),
		Text: &pptx.TextFrame{
			Paragraphs: []pptx.Paragraph{{Text: text, Align: opt.Align, Font: font}},
			WordWrap:   true,
			Anchor:     opt.Anchor,
		},
	}
	b.slide.Shapes = append(b.slide.Shapes, sh)
	return b
}

// AddBullets writes one paragraph per item into the layout's body placeholder,
// replacing whatever was there. Without a body placeholder the bullets land in
// a text box at the default content position. levels gives the 0-based indent
// per item; nil or short slices default remaining items to level 0.
func (b *SlideBuilder) AddBullets(items []string, levels []int) *SlideBuilder {
	paras := make([]pptx.Paragraph, 0, len(items))
	for i, item := range items {
		lvl := 0
		if i < len(levels) && levels[i] > 0 {
			lvl = levels[i]
		}
		paras = append(paras, pptx.Paragraph{
			Text:  item,
			Level: lvl,
			Font:  pptx.Font{SizePt: styles.FontBody, Color: styles.Secondary},
		})
	}
	frame := &pptx.TextFrame{Paragraphs: paras, WordWrap: true, Anchor: pptx.AnchorTop}

	if ph, ok := b.contentPlaceholder(); ok {
		b.bindPlaceholder(ph).Text = frame
		return b
	}
	pos := b.pos()
	sh := &pptx.Shape{
		Kind:  pptx.KindTextBox,
		Left:  pptx.Inches(pos.ContentLeft),
		Top:   pptx.Inches(pos.ContentTop),
		Width: pptx.Inches(pos.ContentWidth), Height: pptx.Inches(pos.ContentHeight),
		Text: frame,
	}
	b.slide.Shapes = append(b.slide.Shapes, sh)
	return b
}

// AddTable places a table with a styled header row. Column count comes from
// headers, or from the first data row when headers is empty; rows longer than
// that are truncated and shorter rows are padded with empty cells. Height
// defaults to 0.4 inches per row including the header.
func (b *SlideBuilder) AddTable(headers []string, rows [][]string, box Box) *SlideBuilder {
	cols := len(headers)
	if cols == 0 && len(rows) > 0 {
		cols = len(rows[0])
	}
	if cols == 0 {
		log.Warn().Msg("table with no columns, skipping")
		return b
	}

	grid := make([][]pptx.TableCell, 0, len(rows)+1)
	if len(headers) > 0 {
		hdr := make([]pptx.TableCell, cols)
		for i, h := range headers {
			hdr[i] = pptx.TableCell{
				Text: h, Bold: true,
				FontPt:    styles.FontCaption,
				FontColor: styles.White,
				Fill:      styles.Primary,
			}
		}
		grid = append(grid, hdr)
	}
	for _, row := range rows {
		cells := make([]pptx.TableCell, cols)
		for i := 0; i < cols; i++ {
			if i < len(row) {
				cells[i] = pptx.TableCell{Text: row[i], FontPt: styles.FontCaption, FontColor: styles.Secondary}
			} else {
				cells[i] = pptx.TableCell{FontPt: styles.FontCaption}
			}
		}
		grid = append(grid, cells)
	}

	pos := b.pos()
	box = box.resolve(Box{
		Left: pos.TableLeft, Top: pos.TableTop,
		Width:  pos.TableWidth,
		Height: 0.4 * float64(len(grid)),
	})
	sh := &pptx.Shape{
		Kind:  pptx.KindTable,
		Left:  pptx.Inches(box.Left),
		Top:   pptx.Inches(box.Top),
		Width: pptx.Inches(box.Width), Height: pptx.Inches(box.Height),
		Table: &pptx.TableData{Rows: grid, Cols: cols},
	}
	b.slide.Shapes = append(b.slide.Shapes, sh)
	return b
}

// AddBarChart places a clustered column chart. Every series must have exactly
// one value per category.
func (b *SlideBuilder) AddBarChart(categories []string, series []pptx.Series, opt ChartOptions) error {
	return b.addAxisChart(pptx.ChartBar, categories, series, opt)
}

// AddLineChart places a line chart with the same series rules as AddBarChart.
func (b *SlideBuilder) AddLineChart(categories []string, series []pptx.Series, opt ChartOptions) error {
	return b.addAxisChart(pptx.ChartLine, categories, series, opt)
}

func (b *SlideBuilder) addAxisChart(kind pptx.ChartType, categories []string, series []pptx.Series, opt ChartOptions) error {
	for _, s := range series {
		if len(s.Values) != len(categories) {
			return &SeriesLengthMismatchError{Series: s.Name, Expected: len(categories), Actual: len(s.Values)}
		}
	}
	legend := pptx.LegendBottom
	if opt.HideLegend {
		legend = pptx.LegendNone
	}
	b.placeChart(&pptx.ChartData{Type: kind, Categories: categories, Series: series, Legend: legend}, opt.Box)
	return nil
}

// AddPieChart places a pie chart over a single value series.
func (b *SlideBuilder) AddPieChart(categories []string, values []float64, opt ChartOptions) error {
	legend := pptx.LegendRight
	if opt.HideLegend {
		legend = pptx.LegendNone
	}
	b.placeChart(&pptx.ChartData{
		Type:       pptx.ChartPie,
		Categories: categories,
		Series:     []pptx.Series{{Name: "Values", Values: values}},
		Legend:     legend,
	}, opt.Box)
	return nil
}

func (b *SlideBuilder) placeChart(data *pptx.ChartData, box Box) {
	pos := b.pos()
	box = box.resolve(Box{Left: pos.ChartLeft, Top: pos.ChartTop, Width: pos.ChartWidth, Height: pos.ChartHeight})
	sh := &pptx.Shape{
		Kind:  pptx.KindChart,
		Left:  pptx.Inches(box.Left),
		Top:   pptx.Inches(box.Top),
		Width: pptx.Inches(box.Width), Height: pptx.Inches(box.Height),
		Chart: data,
	}
	b.slide.Shapes = append(b.slide.Shapes, sh)
}

// defaultImageWidthIn is the display width used when neither image dimension
// is given.
const defaultImageWidthIn = 4.0

// AddImage places an image from disk. Box semantics differ from other
// elements: with no width or height the image is 4 inches wide at its natural
// aspect ratio, with exactly one the other follows the ratio, with both it is
// stretched.
func (b *SlideBuilder) AddImage(path string, box Box) error {
	img, err := pptx.LoadImageFile(path)
	if err != nil {
		return err
	}
	b.placeImage(img, box)
	return nil
}

// AddImageBytes is AddImage over an in-memory buffer.
func (b *SlideBuilder) AddImageBytes(data []byte, box Box) *SlideBuilder {
	b.placeImage(pptx.LoadImageBytes(data), box)
	return b
}

func (b *SlideBuilder) placeImage(img *pptx.ImageRef, box Box) {
	if box == (Box{}) {
		box = Auto
	}
	left, top := 1.0, 1.0
	if box.Left >= 0 {
		left = box.Left
	}
	if box.Top >= 0 {
		top = box.Top
	}
	var w, h pptx.EMU
	if box.Width > 0 {
		w = pptx.Inches(box.Width)
	}
	if box.Height > 0 {
		h = pptx.Inches(box.Height)
	}
	w, h = img.ScaleTo(w, h, pptx.Inches(defaultImageWidthIn))

	sh := &pptx.Shape{
		Kind:  pptx.KindPicture,
		Left:  pptx.Inches(left),
		Top:   pptx.Inches(top),
		Width: w, Height: h,
		Image:     img.Data,
		ImageMime: img.Mime,
		ImageExt:  img.Ext,
	}
	b.slide.Shapes = append(b.slide.Shapes, sh)
}

// AddShape places a preset autoshape with optional centered text. Fill and
// line absent means no fill and no visible border, not a themed default.
func (b *SlideBuilder) AddShape(preset pptx.AutoShapeType, box Box, opt ShapeOptions) *SlideBuilder {
	box = box.resolve(Box{Left: 1.0, Top: 1.0, Width: 2.0, Height: 1.0})
	sh := &pptx.Shape{
		Kind:   pptx.KindAutoShape,
		Preset: preset,
		Left:   pptx.Inches(box.Left),
		Top:    pptx.Inches(box.Top),
		Width:  pptx.Inches(box.Width), Height: pptx.Inches(box.Height),
		FillColor: opt.Fill,
		LineColor: opt.Line,
	}
	if opt.Text != "" {
		textPt := opt.TextPt
		if textPt == 0 {
			textPt = styles.FontCaption
		}
		sh.Text = &pptx.TextFrame{
			Paragraphs: []pptx.Paragraph{{
				Text:  opt.Text,
				Align: pptx.AlignCenter,
				Font:  pptx.Font{SizePt: textPt, Color: opt.TextColor},
			}},
			WordWrap: true,
			Anchor:   pptx.AnchorMiddle,
		}
	}
	b.slide.Shapes = append(b.slide.Shapes, sh)
	return b
}

// AddNote sets the slide's speaker notes, replacing any previous text.
func (b *SlideBuilder) AddNote(text string) *SlideBuilder {
	b.slide.Notes = text
	return b
}

// FillPicturePlaceholder loads an image from disk into the layout picture slot
// with the given stable idx. The image adopts the placeholder's geometry.
func (b *SlideBuilder) FillPicturePlaceholder(idx int, imagePath string) error {
	img, err := pptx.LoadImageFile(imagePath)
	if err != nil {
		return err
	}
	return b.FillPicturePlaceholderBytes(idx, img)
}

// FillPicturePlaceholderBytes is FillPicturePlaceholder over a loaded image.
func (b *SlideBuilder) FillPicturePlaceholderBytes(idx int, img *pptx.ImageRef) error {
	ph, ok := b.slide.Layout.Placeholder(idx)
	if !ok {
		return &pptx.PlaceholderNotFoundError{Idx: idx}
	}
	sh := b.bindPlaceholder(ph)
	sh.Image = img.Data
	sh.ImageMime = img.Mime
	sh.ImageExt = img.Ext
	return nil
}
