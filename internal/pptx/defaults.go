package pptx

// builtinLayouts returns the standard 9-layout deck used when no template is
// supplied: Title, Title and Content, Section Header, Two Content, Comparison,
// Title Only, Blank, Content with Caption, Picture with Caption. Placeholder
// geometry is proportional to the slide size so 4:3 and 16:9 both work.
func builtinLayouts(w, h EMU) []*Layout {
	fw := func(f float64) EMU { return EMU(float64(w) * f) }
	fh := func(f float64) EMU { return EMU(float64(h) * f) }

	title := func(idx int) Placeholder {
		return Placeholder{
			Idx: idx, Type: PhTitle, Name: "Title 1",
			Left: fw(0.05), Top: fh(0.04), Width: fw(0.9), Height: fh(0.15),
		}
	}
	body := func(idx int, name string, left, top, width, height float64) Placeholder {
		return Placeholder{
			Idx: idx, Type: PhBody, Name: name,
			Left: fw(left), Top: fh(top), Width: fw(width), Height: fh(height),
		}
	}

	layouts := []*Layout{
		{Name: "Title Slide", Placeholders: []Placeholder{
			{Idx: 0, Type: PhCenteredTitle, Name: "Title 1",
				Left: fw(0.1), Top: fh(0.3), Width: fw(0.8), Height: fh(0.2)},
			{Idx: 1, Type: PhSubtitle, Name: "Subtitle 2",
				Left: fw(0.15), Top: fh(0.55), Width: fw(0.7), Height: fh(0.15)},
		}},
		{Name: "Title and Content", Placeholders: []Placeholder{
			title(0),
			{Idx: 1, Type: PhObject, Name: "Content Placeholder 2",
				Left: fw(0.05), Top: fh(0.22), Width: fw(0.9), Height: fh(0.7)},
		}},
		{Name: "Section Header", Placeholders: []Placeholder{
			{Idx: 0, Type: PhTitle, Name: "Title 1",
				Left: fw(0.08), Top: fh(0.35), Width: fw(0.84), Height: fh(0.2)},
			body(1, "Text Placeholder 2", 0.08, 0.58, 0.84, 0.15),
		}},
		{Name: "Two Content", Placeholders: []Placeholder{
			title(0),
			{Idx: 1, Type: PhObject, Name: "Content Placeholder 2",
				Left: fw(0.05), Top: fh(0.22), Width: fw(0.44), Height: fh(0.7)},
			{Idx: 2, Type: PhObject, Name: "Content Placeholder 3",
				Left: fw(0.51), Top: fh(0.22), Width: fw(0.44), Height: fh(0.7)},
		}},
		{Name: "Comparison", Placeholders: []Placeholder{
			title(0),
			body(1, "Text Placeholder 2", 0.05, 0.22, 0.44, 0.08),
			{Idx: 2, Type: PhObject, Name: "Content Placeholder 3",
				Left: fw(0.05), Top: fh(0.32), Width: fw(0.44), Height: fh(0.6)},
			body(3, "Text Placeholder 4", 0.51, 0.22, 0.44, 0.08),
			{Idx: 4, Type: PhObject, Name: "Content Placeholder 5",
				Left: fw(0.51), Top: fh(0.32), Width: fw(0.44), Height: fh(0.6)},
		}},
		{Name: "Title Only", Placeholders: []Placeholder{title(0)}},
		{Name: "Blank", Placeholders: nil},
		{Name: "Content with Caption", Placeholders: []Placeholder{
			title(0),
			{Idx: 1, Type: PhObject, Name: "Content Placeholder 2",
				Left: fw(0.37), Top: fh(0.22), Width: fw(0.58), Height: fh(0.7)},
			body(2, "Text Placeholder 3", 0.05, 0.22, 0.28, 0.7),
		}},
		{Name: "Picture with Caption", Placeholders: []Placeholder{
			title(0),
			{Idx: 1, Type: PhPicture, Name: "Picture Placeholder 2",
				Left: fw(0.37), Top: fh(0.22), Width: fw(0.58), Height: fh(0.7)},
			body(2, "Text Placeholder 3", 0.05, 0.22, 0.28, 0.7),
		}},
	}
	for i, l := range layouts {
		l.Index = i
	}
	return layouts
}
