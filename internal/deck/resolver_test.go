package deck

import (
	"errors"
	"testing"

	"github.com/local/deckgen/internal/pptx"
)

// renameLayouts overwrites the built-in layout names so each cascade step can
// be exercised in isolation.
func renameLayouts(d *Deck, names ...string) {
	layouts := d.Presentation().Layouts()
	for i, name := range names {
		if i < len(layouts) {
			layouts[i].Name = name
		}
	}
}

func TestFindContentLayoutExactName(t *testing.T) {
	cases := []string{"Title and Content", "title & content", "TITLE, CONTENT"}
	for _, name := range cases {
		d := New()
		renameLayouts(d, "A", "B", "C", name)
		if got := d.FindContentLayout(); got != 3 {
			t.Errorf("name %q: got layout %d, want 3", name, got)
		}
	}
}

func TestFindContentLayoutSuffixMatch(t *testing.T) {
	d := New()
	renameLayouts(d, "Intro", "Closing", "Custom Title and Content")
	if got := d.FindContentLayout(); got != 2 {
		t.Errorf("got layout %d, want 2", got)
	}

	// contains the phrase but does not end with "content": not a match
	d2 := New()
	renameLayouts(d2, "X", "Y", "Title and Content Special")
	if got := d2.FindContentLayout(); got == 2 {
		t.Error("suffix rule matched a name not ending in content")
	}
}

func TestFindContentLayoutStructural(t *testing.T) {
	d := New()
	// no name matches; layout 4 (Comparison) has title + body so structural
	// matching should pick the lowest such index instead
	for _, l := range d.Presentation().Layouts() {
		l.Name = "X"
	}
	got := d.FindContentLayout()
	// layout 1 has a title and an object placeholder: lowest structural match
	if got != 1 {
		t.Errorf("structural match = %d, want 1", got)
	}
}

func TestFindContentLayoutFallback(t *testing.T) {
	d := New()
	for _, l := range d.Presentation().Layouts() {
		l.Name = "X"
		l.Placeholders = nil
	}
	if got := d.FindContentLayout(); got != 1 {
		t.Errorf("fallback = %d, want 1", got)
	}
}

func TestFindTitleOnlyLayout(t *testing.T) {
	d := New()
	if got := d.FindTitleOnlyLayout(); got != 5 {
		t.Errorf("builtin deck: got %d, want 5 (Title Only)", got)
	}

	// terminal-word rule
	d2 := New()
	renameLayouts(d2, "One", "Two", "Big Title Layout Only")
	for _, l := range d2.Presentation().Layouts() {
		if l.Index > 2 {
			l.Name = "X"
		}
	}
	if got := d2.FindTitleOnlyLayout(); got != 2 {
		t.Errorf("terminal word rule: got %d, want 2", got)
	}
}

func TestFindTitleOnlyLayoutStructural(t *testing.T) {
	d := New()
	for _, l := range d.Presentation().Layouts() {
		l.Name = "X"
	}
	// Title Only (index 5) is the only layout with a title and no content
	// placeholder
	if got := d.FindTitleOnlyLayout(); got != 5 {
		t.Errorf("structural: got %d, want 5", got)
	}
}

func TestResolveLayout(t *testing.T) {
	d := New()

	if idx, err := d.ResolveLayout(nil); err != nil || idx != d.FindContentLayout() {
		t.Errorf("nil ref: idx=%d err=%v", idx, err)
	}
	if idx, err := d.ResolveLayout(6); err != nil || idx != 6 {
		t.Errorf("int ref: idx=%d err=%v", idx, err)
	}
	if idx, err := d.ResolveLayout(float64(2)); err != nil || idx != 2 {
		t.Errorf("float ref: idx=%d err=%v", idx, err)
	}
	if idx, err := d.ResolveLayout("blank"); err != nil || idx != 6 {
		t.Errorf("name ref: idx=%d err=%v", idx, err)
	}
	if _, err := d.ResolveLayout(42); err == nil {
		t.Error("out-of-range index should error")
	}
	if _, err := d.ResolveLayout("nope"); err == nil {
		t.Error("unknown name should error")
	}

	var nf *pptx.LayoutNotFoundError
	_, err := d.ResolveLayout("nope")
	if !errors.As(err, &nf) {
		t.Errorf("err = %v, want LayoutNotFoundError", err)
	}
}
