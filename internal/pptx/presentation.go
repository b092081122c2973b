package pptx

// Slide is one slide of a presentation. It is created from exactly one
// layout, fixed at creation time, and owns its shapes and at most one
// speaker-notes text.
type Slide struct {
	Layout *Layout
	Shapes []*Shape
	Notes  string

	// Fields below are only set for slides read from a template package.
	partName   string
	raw        []byte
	rels       []relationship
	shapeCount int
}

// ShapeCount returns the number of shapes on the slide, whether the slide was
// built in memory or read from a package.
func (s *Slide) ShapeCount() int {
	if s.raw != nil {
		return s.shapeCount
	}
	return len(s.Shapes)
}

// BoundPlaceholder returns the slide shape bound to the given layout slot,
// if any content-adding operation has bound it already.
func (s *Slide) BoundPlaceholder(idx int) *Shape {
	for _, sh := range s.Shapes {
		if sh.Kind == KindPlaceholder && sh.Ph != nil && sh.Ph.Idx == idx {
			return sh
		}
	}
	return nil
}

// Presentation is the root container: an ordered slide sequence plus the
// immutable layout collection read from a template or built in. Slide order
// is display order.
type Presentation struct {
	Width  EMU
	Height EMU
	Author string

	layouts []*Layout
	slides  []*Slide

	// pkg retains the template package for saved-through parts; nil when the
	// presentation was created blank.
	pkg *templatePackage
}

// New returns a blank presentation seeded with the built-in default layout
// set (standard 9-layout deck) at 16:9 dimensions.
func New() *Presentation {
	p := &Presentation{
		Width:  Inches(13.333),
		Height: Inches(7.5),
	}
	p.layouts = builtinLayouts(p.Width, p.Height)
	return p
}

// Layouts returns the layout collection in stable order.
func (p *Presentation) Layouts() []*Layout { return p.layouts }

// LayoutCount returns the number of available layouts.
func (p *Presentation) LayoutCount() int { return len(p.layouts) }

// Slides returns the ordered slide sequence.
func (p *Presentation) Slides() []*Slide { return p.slides }

// SlideCount returns the number of slides.
func (p *Presentation) SlideCount() int { return len(p.slides) }

// Layout resolves a layout by bounds-checked integer index.
func (p *Presentation) Layout(index int) (*Layout, error) {
	if index < 0 || index >= len(p.layouts) {
		return nil, &LayoutIndexOutOfRangeError{Index: index, Count: len(p.layouts)}
	}
	return p.layouts[index], nil
}

// LayoutByName resolves a layout by case-insensitive name match.
func (p *Presentation) LayoutByName(name string) (*Layout, error) {
	for _, l := range p.layouts {
		if l.NameEquals(name) {
			return l, nil
		}
	}
	return nil, &LayoutNotFoundError{Name: name}
}

// AddSlide appends a new slide bound to the layout at the given index and
// returns it. The layout reference is fixed for the slide's lifetime.
func (p *Presentation) AddSlide(layoutIndex int) (*Slide, error) {
	l, err := p.Layout(layoutIndex)
	if err != nil {
		return nil, err
	}
	s := &Slide{Layout: l}
	p.slides = append(p.slides, s)
	return s, nil
}

// AddSlideByName is AddSlide with name-based layout resolution.
func (p *Presentation) AddSlideByName(name string) (*Slide, error) {
	l, err := p.LayoutByName(name)
	if err != nil {
		return nil, err
	}
	s := &Slide{Layout: l}
	p.slides = append(p.slides, s)
	return s, nil
}

// RemoveSlide removes the slide at index; all following slides shift down by
// one. The slice update is the single commit point, so observers never see a
// half-removed slide; the package relationship is dropped at save time along
// with the part itself.
func (p *Presentation) RemoveSlide(index int) error {
	if index < 0 || index >= len(p.slides) {
		return &SlideIndexOutOfRangeError{Index: index, Count: len(p.slides)}
	}
	removed := p.slides[index]
	p.slides = append(p.slides[:index], p.slides[index+1:]...)
	if removed.partName != "" && p.pkg != nil {
		p.pkg.dropSlidePart(removed.partName)
	}
	return nil
}

// ClearSlides removes every slide, front to back.
func (p *Presentation) ClearSlides() {
	for len(p.slides) > 0 {
		_ = p.RemoveSlide(0)
	}
}
