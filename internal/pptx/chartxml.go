package pptx

import (
	"fmt"
	"strconv"
	"strings"
)

// chartXML serializes one chart part. Category and value data are embedded as
// literals (strLit/numLit) so no spreadsheet part is required; presentation
// software renders the cached values directly.
func chartXML(c *ChartData) []byte {
	var plot strings.Builder
	switch c.Type {
	case ChartPie:
		plot.WriteString(`<c:pieChart><c:varyColors val="1"/>`)
		for i, s := range c.Series {
			writeSeries(&plot, i, s, c.Categories)
		}
		plot.WriteString(`<c:firstSliceAng val="0"/></c:pieChart>`)
	case ChartLine:
		plot.WriteString(`<c:lineChart><c:grouping val="standard"/><c:varyColors val="0"/>`)
		for i, s := range c.Series {
			writeSeries(&plot, i, s, c.Categories)
		}
		plot.WriteString(`<c:marker val="1"/>`)
		plot.WriteString(axisRefs())
		plot.WriteString(`</c:lineChart>`)
		plot.WriteString(axesXML())
	default: // clustered column
		plot.WriteString(`<c:barChart><c:barDir val="col"/><c:grouping val="clustered"/><c:varyColors val="0"/>`)
		for i, s := range c.Series {
			writeSeries(&plot, i, s, c.Categories)
		}
		plot.WriteString(axisRefs())
		plot.WriteString(`</c:barChart>`)
		plot.WriteString(axesXML())
	}

	legend := ""
	if c.Legend != LegendNone {
		legend = fmt.Sprintf(`<c:legend><c:legendPos val="%s"/><c:overlay val="0"/></c:legend>`, c.Legend)
	}

	return []byte(xmlHeader + fmt.Sprintf(
		`<c:chartSpace xmlns:c="%s" xmlns:a="%s" xmlns:r="%s">`+
			`<c:chart><c:plotArea><c:layout/>%s</c:plotArea>%s<c:plotVisOnly val="1"/></c:chart>`+
			`</c:chartSpace>`,
		nsChart, nsDrawing, nsRelationship, plot.String(), legend))
}

func axisRefs() string {
	return `<c:axId val="100"/><c:axId val="200"/>`
}

func axesXML() string {
	return `<c:catAx><c:axId val="100"/><c:scaling><c:orientation val="minMax"/></c:scaling><c:delete val="0"/><c:axPos val="b"/><c:crossAx val="200"/></c:catAx>` +
		`<c:valAx><c:axId val="200"/><c:scaling><c:orientation val="minMax"/></c:scaling><c:delete val="0"/><c:axPos val="l"/><c:crossAx val="100"/></c:valAx>`
}

func writeSeries(b *strings.Builder, idx int, s Series, categories []string) {
	fmt.Fprintf(b, `<c:ser><c:idx val="%d"/><c:order val="%d"/><c:tx><c:v>%s</c:v></c:tx>`,
		idx, idx, xmlEscape(s.Name))

	b.WriteString(`<c:cat><c:strLit>`)
	fmt.Fprintf(b, `<c:ptCount val="%d"/>`, len(categories))
	for i, cat := range categories {
		fmt.Fprintf(b, `<c:pt idx="%d"><c:v>%s</c:v></c:pt>`, i, xmlEscape(cat))
	}
	b.WriteString(`</c:strLit></c:cat>`)

	b.WriteString(`<c:val><c:numLit>`)
	fmt.Fprintf(b, `<c:ptCount val="%d"/>`, len(s.Values))
	for i, v := range s.Values {
		fmt.Fprintf(b, `<c:pt idx="%d"><c:v>%s</c:v></c:pt>`, i, strconv.FormatFloat(v, 'g', -1, 64))
	}
	b.WriteString(`</c:numLit></c:val></c:ser>`)
}
