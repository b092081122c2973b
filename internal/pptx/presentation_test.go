package pptx

import (
	"errors"
	"testing"
)

func TestNewHasBuiltinLayouts(t *testing.T) {
	p := New()
	if got := p.LayoutCount(); got != 9 {
		t.Fatalf("LayoutCount() = %d, want 9", got)
	}
	if p.Width != Inches(13.333) || p.Height != Inches(7.5) {
		t.Fatalf("unexpected slide size %d x %d", p.Width, p.Height)
	}

	titleLayout := p.Layouts()[0]
	if titleLayout.Name != "Title Slide" {
		t.Errorf("layout 0 name = %q", titleLayout.Name)
	}
	ph, ok := titleLayout.Placeholder(0)
	if !ok || ph.Type != PhCenteredTitle {
		t.Errorf("layout 0 placeholder 0 = %+v, ok=%v", ph, ok)
	}
	sub, ok := titleLayout.Placeholder(1)
	if !ok || sub.Type != PhSubtitle {
		t.Errorf("layout 0 placeholder 1 = %+v, ok=%v", sub, ok)
	}

	if blank := p.Layouts()[6]; blank.Name != "Blank" || len(blank.Placeholders) != 0 {
		t.Errorf("layout 6 = %q with %d placeholders", blank.Name, len(blank.Placeholders))
	}
}

func TestAddSlideBounds(t *testing.T) {
	p := New()

	if _, err := p.AddSlide(0); err != nil {
		t.Fatalf("AddSlide(0): %v", err)
	}
	if p.SlideCount() != 1 {
		t.Fatalf("SlideCount() = %d, want 1", p.SlideCount())
	}

	for _, idx := range []int{-1, 9, 100} {
		_, err := p.AddSlide(idx)
		var oor *LayoutIndexOutOfRangeError
		if !errors.As(err, &oor) {
			t.Errorf("AddSlide(%d) err = %v, want LayoutIndexOutOfRangeError", idx, err)
		}
	}
}

func TestLayoutByName(t *testing.T) {
	p := New()

	l, err := p.LayoutByName("title slide")
	if err != nil {
		t.Fatalf("LayoutByName: %v", err)
	}
	if l.Index != 0 {
		t.Errorf("index = %d, want 0", l.Index)
	}

	if _, err := p.LayoutByName("no such layout"); err == nil {
		t.Fatal("expected error for unknown layout name")
	} else {
		var nf *LayoutNotFoundError
		if !errors.As(err, &nf) || nf.Name != "no such layout" {
			t.Errorf("err = %v, want LayoutNotFoundError with name", err)
		}
	}
}

func TestAddSlideByName(t *testing.T) {
	p := New()

	s, err := p.AddSlideByName("TITLE ONLY")
	if err != nil {
		t.Fatalf("AddSlideByName: %v", err)
	}
	if s.Layout.Index != 5 {
		t.Errorf("layout index = %d, want 5", s.Layout.Index)
	}
	if p.SlideCount() != 1 {
		t.Errorf("slide count = %d, want 1", p.SlideCount())
	}

	if _, err := p.AddSlideByName("no such layout"); err == nil {
		t.Fatal("expected error for unknown layout name")
	}
	if p.SlideCount() != 1 {
		t.Error("failed add changed the slide count")
	}
}

func TestRemoveSlideShiftsFollowing(t *testing.T) {
	p := New()
	for _, layout := range []int{0, 1, 2} {
		if _, err := p.AddSlide(layout); err != nil {
			t.Fatalf("AddSlide(%d): %v", layout, err)
		}
	}

	if err := p.RemoveSlide(1); err != nil {
		t.Fatalf("RemoveSlide(1): %v", err)
	}
	if p.SlideCount() != 2 {
		t.Fatalf("SlideCount() = %d, want 2", p.SlideCount())
	}
	if got := p.Slides()[0].Layout.Index; got != 0 {
		t.Errorf("slide 0 layout = %d, want 0", got)
	}
	if got := p.Slides()[1].Layout.Index; got != 2 {
		t.Errorf("slide 1 layout = %d, want 2 (shifted down)", got)
	}

	var oor *SlideIndexOutOfRangeError
	if err := p.RemoveSlide(2); !errors.As(err, &oor) {
		t.Errorf("RemoveSlide(2) err = %v, want SlideIndexOutOfRangeError", err)
	}
	if err := p.RemoveSlide(-1); !errors.As(err, &oor) {
		t.Errorf("RemoveSlide(-1) err = %v, want SlideIndexOutOfRangeError", err)
	}
}

func TestClearSlides(t *testing.T) {
	p := New()
	for i := 0; i < 4; i++ {
		if _, err := p.AddSlide(6); err != nil {
			t.Fatal(err)
		}
	}
	p.ClearSlides()
	if p.SlideCount() != 0 {
		t.Fatalf("SlideCount() = %d after ClearSlides", p.SlideCount())
	}
}

func TestBoundPlaceholder(t *testing.T) {
	p := New()
	s, err := p.AddSlide(0)
	if err != nil {
		t.Fatal(err)
	}
	if s.BoundPlaceholder(0) != nil {
		t.Fatal("fresh slide should have no bound placeholders")
	}
	ph, _ := s.Layout.Placeholder(0)
	sh := &Shape{Kind: KindPlaceholder, Ph: &ph}
	sh.SetText("hello", Font{})
	s.Shapes = append(s.Shapes, sh)

	if got := s.BoundPlaceholder(0); got != sh {
		t.Fatal("BoundPlaceholder(0) did not return the bound shape")
	}
	if s.BoundPlaceholder(1) != nil {
		t.Fatal("BoundPlaceholder(1) should be nil")
	}
}
