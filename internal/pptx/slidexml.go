package pptx

import (
	"fmt"
	"strings"
)

type resourceKind int

const (
	resImage resourceKind = iota
	resChart
)

// slideResource is a part referenced from a generated slide: an image or a
// chart, with the relationship id the slide XML uses for it.
type slideResource struct {
	rID   string
	kind  resourceKind
	shape *Shape
}

// buildSlideXML serializes an in-memory slide to its part XML. rId1 is
// reserved for the layout relationship; every image/chart gets the next id.
func buildSlideXML(s *Slide) ([]byte, []slideResource) {
	var (
		shapes    strings.Builder
		resources []slideResource
	)
	nextRID := 2
	shapeID := 2

	for _, sh := range s.Shapes {
		switch sh.Kind {
		case KindTextBox:
			writeTextBox(&shapes, sh, shapeID)
		case KindPlaceholder:
			if sh.Image != nil {
				rid := fmt.Sprintf("rId%d", nextRID)
				nextRID++
				resources = append(resources, slideResource{rID: rid, kind: resImage, shape: sh})
				writePlaceholderPicture(&shapes, sh, shapeID, rid)
			} else {
				writePlaceholderText(&shapes, sh, shapeID)
			}
		case KindTable:
			writeTable(&shapes, sh, shapeID)
		case KindChart:
			rid := fmt.Sprintf("rId%d", nextRID)
			nextRID++
			resources = append(resources, slideResource{rID: rid, kind: resChart, shape: sh})
			writeChartFrame(&shapes, sh, shapeID, rid)
		case KindPicture:
			rid := fmt.Sprintf("rId%d", nextRID)
			nextRID++
			resources = append(resources, slideResource{rID: rid, kind: resImage, shape: sh})
			writePicture(&shapes, sh, shapeID, rid)
		case KindAutoShape:
			writeAutoShape(&shapes, sh, shapeID)
		}
		shapeID++
	}

	xml := xmlHeader + fmt.Sprintf(
		`<p:sld xmlns:a="%s" xmlns:r="%s" xmlns:p="%s"><p:cSld><p:spTree>`+
			`<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>`+
			`<p:grpSpPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="0" cy="0"/><a:chOff x="0" y="0"/><a:chExt cx="0" cy="0"/></a:xfrm></p:grpSpPr>`+
			`%s</p:spTree></p:cSld><p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr></p:sld>`,
		nsDrawing, nsRelationship, nsPresentation, shapes.String())
	return []byte(xml), resources
}

func xfrmXML(sh *Shape) string {
	return fmt.Sprintf(`<a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm>`,
		sh.Left, sh.Top, sh.Width, sh.Height)
}

func phXML(ph *Placeholder) string {
	tag := "<p:ph"
	if attr := ph.Type.xmlAttr(); attr != "" {
		tag += fmt.Sprintf(" type=%q", attr)
	}
	if ph.Idx > 0 {
		tag += fmt.Sprintf(` idx="%d"`, ph.Idx)
	}
	return tag + "/>"
}

func runPropsXML(f Font) string {
	var b strings.Builder
	b.WriteString(`<a:rPr lang="en-US"`)
	if f.SizePt > 0 {
		fmt.Fprintf(&b, ` sz="%d"`, Centipoints(f.SizePt))
	}
	if f.Bold {
		b.WriteString(` b="1"`)
	}
	if f.Italic {
		b.WriteString(` i="1"`)
	}
	if f.Color == "" && f.Name == "" {
		b.WriteString("/>")
		return b.String()
	}
	b.WriteString(">")
	if f.Color != "" {
		fmt.Fprintf(&b, `<a:solidFill><a:srgbClr val="%s"/></a:solidFill>`, f.Color)
	}
	if f.Name != "" {
		fmt.Fprintf(&b, `<a:latin typeface="%s"/>`, xmlEscape(f.Name))
	}
	b.WriteString("</a:rPr>")
	return b.String()
}

func paragraphXML(p Paragraph) string {
	var b strings.Builder
	b.WriteString("<a:p>")
	if p.Level > 0 || p.Align != "" {
		b.WriteString("<a:pPr")
		if p.Level > 0 {
			fmt.Fprintf(&b, ` lvl="%d"`, p.Level)
		}
		if p.Align != "" {
			fmt.Fprintf(&b, ` algn="%s"`, p.Align)
		}
		b.WriteString("/>")
	}
	fmt.Fprintf(&b, `<a:r>%s<a:t>%s</a:t></a:r>`, runPropsXML(p.Font), xmlEscape(p.Text))
	b.WriteString("</a:p>")
	return b.String()
}

func txBodyXML(tf *TextFrame) string {
	var b strings.Builder
	b.WriteString("<p:txBody><a:bodyPr")
	if tf.WordWrap {
		b.WriteString(` wrap="square"`)
	}
	if tf.Anchor != "" && tf.Anchor != AnchorTop {
		fmt.Fprintf(&b, ` anchor="%s"`, tf.Anchor)
	}
	b.WriteString("/><a:lstStyle/>")
	if len(tf.Paragraphs) == 0 {
		b.WriteString("<a:p><a:endParaRPr/></a:p>")
	}
	for _, p := range tf.Paragraphs {
		b.WriteString(paragraphXML(p))
	}
	b.WriteString("</p:txBody>")
	return b.String()
}

func writeTextBox(b *strings.Builder, sh *Shape, id int) {
	fmt.Fprintf(b,
		`<p:sp><p:nvSpPr><p:cNvPr id="%d" name="TextBox %d"/><p:cNvSpPr txBox="1"/><p:nvPr/></p:nvSpPr>`+
			`<p:spPr>%s<a:prstGeom prst="rect"><a:avLst/></a:prstGeom><a:noFill/></p:spPr>%s</p:sp>`,
		id, id, xfrmXML(sh), txBodyXML(sh.Text))
}

func writePlaceholderText(b *strings.Builder, sh *Shape, id int) {
	// Geometry is inherited from the layout unless explicitly overridden.
	spPr := "<p:spPr/>"
	if sh.Width > 0 {
		spPr = "<p:spPr>" + xfrmXML(sh) + "</p:spPr>"
	}
	tf := sh.Text
	if tf == nil {
		tf = &TextFrame{}
	}
	fmt.Fprintf(b,
		`<p:sp><p:nvSpPr><p:cNvPr id="%d" name="%s"/><p:cNvSpPr><a:spLocks noGrp="1"/></p:cNvSpPr><p:nvPr>%s</p:nvPr></p:nvSpPr>%s%s</p:sp>`,
		id, xmlEscape(sh.Ph.Name), phXML(sh.Ph), spPr, txBodyXML(tf))
}

func writePlaceholderPicture(b *strings.Builder, sh *Shape, id int, rid string) {
	fmt.Fprintf(b,
		`<p:pic><p:nvPicPr><p:cNvPr id="%d" name="%s"/><p:cNvPicPr><a:picLocks noGrp="1" noChangeAspect="1"/></p:cNvPicPr><p:nvPr>%s</p:nvPr></p:nvPicPr>`+
			`<p:blipFill><a:blip r:embed="%s"/><a:stretch><a:fillRect/></a:stretch></p:blipFill><p:spPr/></p:pic>`,
		id, xmlEscape(sh.Ph.Name), phXML(sh.Ph), rid)
}

func writePicture(b *strings.Builder, sh *Shape, id int, rid string) {
	fmt.Fprintf(b,
		`<p:pic><p:nvPicPr><p:cNvPr id="%d" name="Picture %d"/><p:cNvPicPr><a:picLocks noChangeAspect="1"/></p:cNvPicPr><p:nvPr/></p:nvPicPr>`+
			`<p:blipFill><a:blip r:embed="%s"/><a:stretch><a:fillRect/></a:stretch></p:blipFill>`+
			`<p:spPr>%s<a:prstGeom prst="rect"><a:avLst/></a:prstGeom></p:spPr></p:pic>`,
		id, id, rid, xfrmXML(sh))
}

func writeAutoShape(b *strings.Builder, sh *Shape, id int) {
	fill := "<a:noFill/>"
	if sh.FillColor != "" {
		fill = fmt.Sprintf(`<a:solidFill><a:srgbClr val="%s"/></a:solidFill>`, sh.FillColor)
	}
	line := `<a:ln><a:noFill/></a:ln>`
	if sh.LineColor != "" {
		line = fmt.Sprintf(`<a:ln><a:solidFill><a:srgbClr val="%s"/></a:solidFill></a:ln>`, sh.LineColor)
	}
	body := ""
	if sh.Text != nil {
		body = txBodyXML(sh.Text)
	} else {
		body = `<p:txBody><a:bodyPr/><a:lstStyle/><a:p><a:endParaRPr/></a:p></p:txBody>`
	}
	fmt.Fprintf(b,
		`<p:sp><p:nvSpPr><p:cNvPr id="%d" name="Shape %d"/><p:cNvSpPr/><p:nvPr/></p:nvSpPr>`+
			`<p:spPr>%s<a:prstGeom prst="%s"><a:avLst/></a:prstGeom>%s%s</p:spPr>%s</p:sp>`,
		id, id, xfrmXML(sh), sh.Preset, fill, line, body)
}

func writeChartFrame(b *strings.Builder, sh *Shape, id int, rid string) {
	fmt.Fprintf(b,
		`<p:graphicFrame><p:nvGraphicFramePr><p:cNvPr id="%d" name="Chart %d"/><p:cNvGraphicFramePr/><p:nvPr/></p:nvGraphicFramePr>`+
			`<p:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></p:xfrm>`+
			`<a:graphic><a:graphicData uri="%s"><c:chart xmlns:c="%s" xmlns:r="%s" r:id="%s"/></a:graphicData></a:graphic></p:graphicFrame>`,
		id, id, sh.Left, sh.Top, sh.Width, sh.Height, nsChart, nsChart, nsRelationship, rid)
}

func writeTable(b *strings.Builder, sh *Shape, id int) {
	t := sh.Table
	var tbl strings.Builder
	tbl.WriteString(`<a:tbl><a:tblPr firstRow="1" bandRow="1"/>`)
	tbl.WriteString("<a:tblGrid>")
	colW := int64(sh.Width) / int64(t.Cols)
	for c := 0; c < t.Cols; c++ {
		fmt.Fprintf(&tbl, `<a:gridCol w="%d"/>`, colW)
	}
	tbl.WriteString("</a:tblGrid>")
	rowH := int64(sh.Height) / int64(len(t.Rows))
	for _, row := range t.Rows {
		fmt.Fprintf(&tbl, `<a:tr h="%d">`, rowH)
		for c := 0; c < t.Cols; c++ {
			var cell TableCell
			if c < len(row) {
				cell = row[c]
			}
			tbl.WriteString("<a:tc><a:txBody><a:bodyPr/><a:lstStyle/>")
			tbl.WriteString(paragraphXML(Paragraph{Text: cell.Text, Font: Font{
				SizePt: cell.FontPt, Bold: cell.Bold, Color: cell.FontColor,
			}}))
			tbl.WriteString("</a:txBody>")
			if cell.Fill != "" {
				fmt.Fprintf(&tbl, `<a:tcPr><a:solidFill><a:srgbClr val="%s"/></a:solidFill></a:tcPr>`, cell.Fill)
			} else {
				tbl.WriteString("<a:tcPr/>")
			}
			tbl.WriteString("</a:tc>")
		}
		tbl.WriteString("</a:tr>")
	}
	tbl.WriteString("</a:tbl>")

	fmt.Fprintf(b,
		`<p:graphicFrame><p:nvGraphicFramePr><p:cNvPr id="%d" name="Table %d"/><p:cNvGraphicFramePr><a:graphicFrameLocks noGrp="1"/></p:cNvGraphicFramePr><p:nvPr/></p:nvGraphicFramePr>`+
			`<p:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></p:xfrm>`+
			`<a:graphic><a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/table">%s</a:graphicData></a:graphic></p:graphicFrame>`,
		id, id, sh.Left, sh.Top, sh.Width, sh.Height, tbl.String())
}
