package deck

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/local/deckgen/internal/pptx"
	"github.com/local/deckgen/internal/styles"
)

func TestAddTitleSlide(t *testing.T) {
	d := New()
	b, err := d.AddTitleSlide("Main", "Sub")
	if err != nil {
		t.Fatalf("AddTitleSlide: %v", err)
	}
	if b.slide.Layout.Index != styles.LayoutTitle {
		t.Errorf("layout = %d, want title layout", b.slide.Layout.Index)
	}
	if got := b.slide.BoundPlaceholder(0).Text.Paragraphs[0].Text; got != "Main" {
		t.Errorf("title = %q", got)
	}
	if got := b.slide.BoundPlaceholder(1).Text.Paragraphs[0].Text; got != "Sub" {
		t.Errorf("subtitle = %q", got)
	}
}

func TestAddContentSlideHeuristicAndExplicit(t *testing.T) {
	d := New()
	b, err := d.AddContentSlide("Agenda", []string{"one", "two"}, -1)
	if err != nil {
		t.Fatalf("AddContentSlide: %v", err)
	}
	if b.slide.Layout.Index != styles.LayoutTitleContent {
		t.Errorf("heuristic layout = %d, want title+content", b.slide.Layout.Index)
	}
	body := b.slide.BoundPlaceholder(1)
	if body == nil || len(body.Text.Paragraphs) != 2 {
		t.Fatalf("body = %+v", body)
	}

	b2, err := d.AddContentSlide("Custom", nil, styles.LayoutBlank)
	if err != nil {
		t.Fatalf("explicit layout: %v", err)
	}
	if b2.slide.Layout.Index != styles.LayoutBlank {
		t.Errorf("explicit layout = %d, want %d", b2.slide.Layout.Index, styles.LayoutBlank)
	}
}

func TestAddSlideByName(t *testing.T) {
	d := New()
	b, err := d.AddSlideByName("Section Header")
	if err != nil {
		t.Fatalf("AddSlideByName: %v", err)
	}
	if b.slide.Layout.Index != styles.LayoutSection {
		t.Errorf("layout = %d, want section layout", b.slide.Layout.Index)
	}

	if _, err := d.AddSlideByName("nope"); err == nil {
		t.Fatal("expected error for unknown layout name")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	d := New()
	d.SetAuthor("roundtrip")
	if _, err := d.AddTitleSlide("A", ""); err != nil {
		t.Fatal(err)
	}
	if _, err := d.AddBlankSlide(); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "out", "deck.pptx")
	saved, err := d.Save(path)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	d2, err := Load(saved)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if d2.SlideCount() != 2 {
		t.Errorf("slides = %d, want 2", d2.SlideCount())
	}
	if d2.LayoutCount() != d.LayoutCount() {
		t.Errorf("layouts = %d, want %d", d2.LayoutCount(), d.LayoutCount())
	}
}

func TestLoadMissingTemplate(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.pptx"))
	if err == nil {
		t.Fatal("expected error")
	}
	var notFound *pptx.TemplateNotFoundError
	if !errors.As(err, &notFound) {
		t.Errorf("err = %T, want TemplateNotFoundError", err)
	}
}

func TestClearSlides(t *testing.T) {
	d := New()
	for i := 0; i < 3; i++ {
		if _, err := d.AddBlankSlide(); err != nil {
			t.Fatal(err)
		}
	}
	d.ClearSlides()
	if d.SlideCount() != 0 {
		t.Errorf("slides = %d after clear", d.SlideCount())
	}
	// Layouts survive; the deck stays usable.
	if _, err := d.AddBlankSlide(); err != nil {
		t.Errorf("AddBlankSlide after clear: %v", err)
	}
}

func TestInfoReport(t *testing.T) {
	d := New()
	if _, err := d.AddTitleSlide("T", ""); err != nil {
		t.Fatal(err)
	}
	info := d.Info()
	if info.SlideCount != 1 {
		t.Errorf("slide_count = %d", info.SlideCount)
	}
	if info.LayoutCount != 9 || len(info.Layouts) != 9 {
		t.Fatalf("layout_count = %d / %d", info.LayoutCount, len(info.Layouts))
	}
	if info.Template != "" {
		t.Errorf("template = %q, blank decks have none", info.Template)
	}
	title := info.Layouts[0]
	if title.Name != "Title Slide" {
		t.Errorf("layout 0 name = %q", title.Name)
	}
	if len(title.Placeholders) < 2 {
		t.Fatalf("layout 0 placeholders = %+v", title.Placeholders)
	}
	if title.Placeholders[0].Type != string(pptx.PhCenteredTitle) {
		t.Errorf("placeholder 0 type = %q", title.Placeholders[0].Type)
	}
	// Every layout entry carries a non-nil placeholder list for JSON output.
	for _, l := range info.Layouts {
		if l.Placeholders == nil {
			t.Errorf("layout %d has nil placeholders", l.Index)
		}
	}
}

func TestReplacePlaceholdersOnDeck(t *testing.T) {
	d := New()
	b, err := d.AddBlankSlide()
	if err != nil {
		t.Fatal(err)
	}
	b.AddTextBox("Hello {{NAME}}", Box{Left: 1, Top: 1, Width: 4, Height: 1}, TextOptions{})
	d.ReplacePlaceholders(map[string]string{"{{NAME}}": "World"})

	slide := d.Presentation().Slides()[0]
	got := slide.Shapes[0].Text.Paragraphs[0].Text
	if got != "Hello World" {
		t.Errorf("text = %q", got)
	}
}
