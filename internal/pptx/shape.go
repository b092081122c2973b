package pptx

// Color is an RGB color in RRGGBB hex form (no leading #), e.g. "0066CC".
// The empty string means "unset" (inherit / no fill).
type Color string

// Alignment of a paragraph.
type Alignment string

const (
	AlignLeft   Alignment = "l"
	AlignCenter Alignment = "ctr"
	AlignRight  Alignment = "r"
)

// Anchor is the vertical anchoring of a text frame.
type Anchor string

const (
	AnchorTop    Anchor = "t"
	AnchorMiddle Anchor = "ctr"
	AnchorBottom Anchor = "b"
)

// Font carries run-level character properties. Zero values inherit.
type Font struct {
	SizePt float64
	Name   string
	Bold   bool
	Italic bool
	Color  Color
}

// Paragraph is one paragraph of a text frame. Level is the 0-based indent.
type Paragraph struct {
	Text  string
	Level int
	Align Alignment
	Font  Font
}

// TextFrame is the text content of a shape.
type TextFrame struct {
	Paragraphs []Paragraph
	WordWrap   bool
	Anchor     Anchor
}

// ShapeKind discriminates the Shape union.
type ShapeKind int

const (
	KindTextBox ShapeKind = iota
	KindPlaceholder
	KindTable
	KindChart
	KindPicture
	KindAutoShape
)

// AutoShapeType is the preset geometry of a generic autoshape.
type AutoShapeType string

const (
	ShapeRectangle        AutoShapeType = "rect"
	ShapeRoundedRectangle AutoShapeType = "roundRect"
	ShapeOval             AutoShapeType = "ellipse"
	ShapeDiamond          AutoShapeType = "diamond"
	ShapeArrowRight       AutoShapeType = "rightArrow"
)

// ChartType discriminates the supported chart kinds.
type ChartType string

const (
	ChartBar  ChartType = "bar" // clustered column
	ChartLine ChartType = "line"
	ChartPie  ChartType = "pie"
)

// LegendPosition for charts.
type LegendPosition string

const (
	LegendBottom LegendPosition = "b"
	LegendRight  LegendPosition = "r"
	LegendNone   LegendPosition = ""
)

// Series is one named ordered sequence of numeric values in a chart.
type Series struct {
	Name   string
	Values []float64
}

// ChartData holds the category axis and all series of a chart.
type ChartData struct {
	Type       ChartType
	Categories []string
	Series     []Series
	Legend     LegendPosition
}

// TableCell is one cell of a table shape.
type TableCell struct {
	Text      string
	Bold      bool
	FontPt    float64
	FontColor Color
	Fill      Color
}

// TableData holds the grid of a table shape; Rows includes the header row.
type TableData struct {
	Rows [][]TableCell
	Cols int
}

// Shape is geometric content placed on a slide. Exactly one of the content
// fields matching Kind is populated. Geometry is in EMU; for bound
// placeholders a zero geometry inherits the layout's.
type Shape struct {
	Kind ShapeKind

	Left, Top, Width, Height EMU

	// KindTextBox / KindPlaceholder
	Text *TextFrame

	// KindPlaceholder: the layout slot this shape is bound to.
	Ph *Placeholder

	// KindTable
	Table *TableData

	// KindChart
	Chart *ChartData

	// KindPicture, and KindPlaceholder when filled with an image.
	Image     []byte
	ImageMime string
	ImageExt  string

	// KindAutoShape
	Preset    AutoShapeType
	FillColor Color
	LineColor Color
}

// SetText replaces the shape's text frame with a single plain paragraph.
func (s *Shape) SetText(text string, f Font) {
	s.Text = &TextFrame{
		Paragraphs: []Paragraph{{Text: text, Font: f}},
		WordWrap:   true,
		Anchor:     AnchorTop,
	}
}
