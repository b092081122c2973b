package pptx

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func readPart(t *testing.T, data []byte, name string) string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("zip open: %v", err)
	}
	for _, f := range zr.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				t.Fatalf("open part %s: %v", name, err)
			}
			defer rc.Close()
			b, err := io.ReadAll(rc)
			if err != nil {
				t.Fatalf("read part %s: %v", name, err)
			}
			return string(b)
		}
	}
	t.Fatalf("part %s not found in package", name)
	return ""
}

func TestBytesBlankRoundTrip(t *testing.T) {
	p := New()
	s, err := p.AddSlide(0)
	if err != nil {
		t.Fatal(err)
	}
	ph, _ := s.Layout.Placeholder(0)
	sp := &Shape{Kind: KindPlaceholder, Ph: &ph}
	sp.SetText("Quarterly Review", Font{})
	s.Shapes = append(s.Shapes, sp)
	if _, err := p.AddSlide(6); err != nil {
		t.Fatal(err)
	}

	data, err := Bytes(p)
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}

	re, err := OpenBytes(data)
	if err != nil {
		t.Fatalf("OpenBytes: %v", err)
	}
	if re.SlideCount() != 2 {
		t.Errorf("reloaded SlideCount = %d, want 2", re.SlideCount())
	}
	if re.LayoutCount() != 9 {
		t.Errorf("reloaded LayoutCount = %d, want 9", re.LayoutCount())
	}
	if re.Width != p.Width || re.Height != p.Height {
		t.Errorf("reloaded size %dx%d, want %dx%d", re.Width, re.Height, p.Width, p.Height)
	}
	if _, err := re.LayoutByName("Title and Content"); err != nil {
		t.Errorf("layout names not preserved: %v", err)
	}

	slideXML := readPart(t, data, "ppt/slides/slide1.xml")
	if !strings.Contains(slideXML, "Quarterly Review") {
		t.Error("slide 1 is missing its title text")
	}
}

func TestSaveCreatesParentDirs(t *testing.T) {
	p := New()
	if _, err := p.AddSlide(6); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(t.TempDir(), "nested", "dir", "deck.pptx")
	path, err := Save(p, out)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("saved file missing: %v", err)
	}
	if _, err := Open(path); err != nil {
		t.Fatalf("reopen saved file: %v", err)
	}
}

func TestSaveAppendsExtension(t *testing.T) {
	p := New()
	if _, err := p.AddSlide(6); err != nil {
		t.Fatal(err)
	}
	path, err := Save(p, filepath.Join(t.TempDir(), "deck"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if filepath.Ext(path) != ".pptx" {
		t.Fatalf("path = %q, want .pptx extension appended", path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("saved file missing: %v", err)
	}
}

func TestOpenMissingTemplate(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.pptx"))
	if _, ok := err.(*TemplateNotFoundError); !ok {
		t.Fatalf("err = %v, want TemplateNotFoundError", err)
	}
}

func TestOpenBytesInvalidPackage(t *testing.T) {
	if _, err := OpenBytes([]byte("definitely not a zip")); err == nil {
		t.Fatal("expected error for junk bytes")
	} else if _, ok := err.(*InvalidPackageError); !ok {
		t.Fatalf("err = %v, want InvalidPackageError", err)
	}
}

func TestTemplateRoundTripRemoveSlide(t *testing.T) {
	// Build a 3-slide package, reload it, remove the middle slide and make
	// sure the re-serialized package reflects the removal.
	p := New()
	for i := 0; i < 3; i++ {
		if _, err := p.AddSlide(1); err != nil {
			t.Fatal(err)
		}
	}
	data, err := Bytes(p)
	if err != nil {
		t.Fatal(err)
	}

	re, err := OpenBytes(data)
	if err != nil {
		t.Fatal(err)
	}
	if err := re.RemoveSlide(1); err != nil {
		t.Fatalf("RemoveSlide: %v", err)
	}

	out, err := Bytes(re)
	if err != nil {
		t.Fatalf("re-serialize: %v", err)
	}
	final, err := OpenBytes(out)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if final.SlideCount() != 2 {
		t.Errorf("final SlideCount = %d, want 2", final.SlideCount())
	}
}

func TestNotesSlideWritten(t *testing.T) {
	p := New()
	s, err := p.AddSlide(6)
	if err != nil {
		t.Fatal(err)
	}
	s.Notes = "remember to pause here"

	data, err := Bytes(p)
	if err != nil {
		t.Fatal(err)
	}
	notes := readPart(t, data, "ppt/notesSlides/notesSlide1.xml")
	if !strings.Contains(notes, "remember to pause here") {
		t.Error("notes slide missing speaker text")
	}
	ctypes := readPart(t, data, "[Content_Types].xml")
	if !strings.Contains(ctypes, "notesSlide") {
		t.Error("content types missing notes slide override")
	}
}

func TestAuthorWrittenToCoreProperties(t *testing.T) {
	p := New()
	p.Author = "Jordan Fields"
	if _, err := p.AddSlide(6); err != nil {
		t.Fatal(err)
	}
	data, err := Bytes(p)
	if err != nil {
		t.Fatal(err)
	}
	core := readPart(t, data, "docProps/core.xml")
	if !strings.Contains(core, "Jordan Fields") {
		t.Error("core properties missing author")
	}
}

func TestChartPartWritten(t *testing.T) {
	p := New()
	s, err := p.AddSlide(5)
	if err != nil {
		t.Fatal(err)
	}
	s.Shapes = append(s.Shapes, &Shape{
		Kind: KindChart,
		Left: Inches(1), Top: Inches(2), Width: Inches(8), Height: Inches(4.5),
		Chart: &ChartData{
			Type:       ChartPie,
			Categories: []string{"Q1", "Q2"},
			Series:     []Series{{Name: "Rev", Values: []float64{10, 20}}},
			Legend:     LegendRight,
		},
	})

	data, err := Bytes(p)
	if err != nil {
		t.Fatal(err)
	}
	chart := readPart(t, data, "ppt/charts/chart1.xml")
	for _, want := range []string{"<c:pieChart>", `<c:legendPos val="r"/>`, "<c:v>Q1</c:v>", "<c:v>20</c:v>"} {
		if !strings.Contains(chart, want) {
			t.Errorf("chart part missing %q", want)
		}
	}
	slideXML := readPart(t, data, "ppt/slides/slide1.xml")
	if !strings.Contains(slideXML, "graphicFrame") {
		t.Error("slide missing chart graphic frame")
	}
}
