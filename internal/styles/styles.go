// Package styles is the fixed registry of brand colors, font sizes and
// default geometry used when content is placed outside template placeholders.
package styles

import "github.com/local/deckgen/internal/pptx"

// Brand color palette.
const (
	Primary   pptx.Color = "0066CC"
	Secondary pptx.Color = "333333"
	Accent    pptx.Color = "FF9900"
	Success   pptx.Color = "009900"
	Danger    pptx.Color = "CC0000"
	LightBG   pptx.Color = "F5F5F5"
	White     pptx.Color = "FFFFFF"
	Black     pptx.Color = "000000"
)

// Font sizes in points.
const (
	FontTitle      = 44.0
	FontSlideTitle = 32.0
	FontSubtitle   = 24.0
	FontBody       = 18.0
	FontCaption    = 14.0
	FontSmall      = 12.0
)

// DefaultFontName is the body typeface.
const DefaultFontName = "Calibri"

// Positions carries the default geometry for slide elements, in inches.
type Positions struct {
	SlideWidth  float64
	SlideHeight float64

	TitleLeft, TitleTop, TitleWidth, TitleHeight         float64
	ContentLeft, ContentTop, ContentWidth, ContentHeight float64
	ChartLeft, ChartTop, ChartWidth, ChartHeight         float64
	TableLeft, TableTop, TableWidth                      float64
}

// For returns positions for the given slide dimensions. Content, chart and
// table areas stay horizontally centered at any aspect ratio.
func For(widthIn, heightIn float64) Positions {
	contentW := widthIn - 2.333
	chartW := widthIn - 3.333
	return Positions{
		SlideWidth:  widthIn,
		SlideHeight: heightIn,

		TitleLeft: 0.5, TitleTop: 0.3, TitleWidth: widthIn - 1.0, TitleHeight: 0.8,
		ContentLeft: (widthIn - contentW) / 2, ContentTop: 1.8,
		ContentWidth: contentW, ContentHeight: heightIn - 2.5,
		ChartLeft: (widthIn - chartW) / 2, ChartTop: 2.0,
		ChartWidth: chartW, ChartHeight: heightIn - 2.5,
		TableLeft: (widthIn - chartW) / 2, TableTop: 2.0, TableWidth: chartW,
	}
}

// Conventional layout indices of the standard built-in deck.
const (
	LayoutTitle          = 0
	LayoutTitleContent   = 1
	LayoutSection        = 2
	LayoutTwoContent     = 3
	LayoutComparison     = 4
	LayoutTitleOnly      = 5
	LayoutBlank          = 6
	LayoutContentCaption = 7
	LayoutPictureCaption = 8
)
