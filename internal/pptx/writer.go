package pptx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// Save serializes the presentation to a packaged .pptx file, creating parent
// directories as needed. A missing .pptx extension is appended. Returns the
// written path.
func Save(p *Presentation, outPath string) (string, error) {
	if !hasPPTXSuffix(outPath) {
		outPath += ".pptx"
	}
	data, err := Bytes(p)
	if err != nil {
		return "", err
	}
	if dir := filepath.Dir(outPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", &IOWriteError{Path: outPath, Err: err}
		}
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return "", &IOWriteError{Path: outPath, Err: err}
	}
	return outPath, nil
}

// Bytes serializes the presentation package to memory.
func Bytes(p *Presentation) ([]byte, error) {
	var parts map[string][]byte
	if p.pkg != nil {
		parts = assembleFromTemplate(p)
	} else {
		parts = assembleBlank(p)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	names := make([]string, 0, len(parts))
	for name := range parts {
		names = append(names, name)
	}
	sort.Strings(names)
	// [Content_Types].xml sorts first already ('[' < '_' < lowercase).
	for _, name := range names {
		w, err := zw.Create(name)
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(parts[name]); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// assembleBlank generates a complete package from scratch: theme, master, the
// built-in layouts and every in-memory slide.
func assembleBlank(p *Presentation) map[string][]byte {
	parts := map[string][]byte{}
	defaults := map[string]string{
		"rels": "application/vnd.openxmlformats-package.relationships+xml",
		"xml":  "application/xml",
	}
	overrides := map[string]string{
		"ppt/presentation.xml": ctPresMain,
		"docProps/core.xml":    ctCoreProps,
		"docProps/app.xml":     ctExtProps,
		"ppt/theme/theme1.xml": ctTheme,
	}

	parts["_rels/.rels"] = rootRelsXML()
	parts["docProps/core.xml"] = corePropsXML(p.Author)
	parts["docProps/app.xml"] = appPropsXML()
	parts["ppt/theme/theme1.xml"] = themeXML()

	// Layouts and master.
	layoutRIDs := make([]string, len(p.layouts))
	masterRels := make([]relationship, 0, len(p.layouts)+1)
	for i, l := range p.layouts {
		part := fmt.Sprintf("ppt/slideLayouts/slideLayout%d.xml", i+1)
		l.partName = part
		parts[part] = slideLayoutXML(l)
		parts[relsPartFor(part)] = relsXML([]relationship{
			{ID: "rId1", Type: relTypeSlideMaster, Target: "../slideMasters/slideMaster1.xml"},
		})
		overrides[part] = ctSlideLayout
		rid := fmt.Sprintf("rId%d", i+1)
		layoutRIDs[i] = rid
		masterRels = append(masterRels, relationship{
			ID: rid, Type: relTypeSlideLayout,
			Target: "../slideLayouts/" + path.Base(part),
		})
	}
	masterRels = append(masterRels, relationship{
		ID: fmt.Sprintf("rId%d", len(p.layouts)+1), Type: relNsID + "/theme",
		Target: "../theme/theme1.xml",
	})
	parts["ppt/slideMasters/slideMaster1.xml"] = slideMasterXML(layoutRIDs, p.Width, p.Height)
	parts["ppt/slideMasters/_rels/slideMaster1.xml.rels"] = relsXML(masterRels)
	overrides["ppt/slideMasters/slideMaster1.xml"] = ctSlideMaster

	presRels := []relationship{
		{ID: "rId1", Type: relTypeSlideMaster, Target: "slideMasters/slideMaster1.xml"},
	}
	nextRID := 2

	hasNotes := false
	var sldEntries []string
	for i, s := range p.slides {
		part := fmt.Sprintf("ppt/slides/slide%d.xml", i+1)
		rid := fmt.Sprintf("rId%d", nextRID)
		nextRID++
		writeBuiltSlide(parts, overrides, defaults, s, part)
		if s.Notes != "" {
			hasNotes = true
		}
		presRels = append(presRels, relationship{ID: rid, Type: relTypeSlide, Target: "slides/" + path.Base(part)})
		sldEntries = append(sldEntries, fmt.Sprintf(`<p:sldId id="%d" r:id="%s"/>`, 256+i, rid))
	}

	notesMasterLst := ""
	if hasNotes {
		parts["ppt/notesMasters/notesMaster1.xml"] = notesMasterXML()
		parts["ppt/notesMasters/_rels/notesMaster1.xml.rels"] = relsXML([]relationship{
			{ID: "rId1", Type: relNsID + "/theme", Target: "../theme/theme1.xml"},
		})
		overrides["ppt/notesMasters/notesMaster1.xml"] = ctNotesMaster
		rid := fmt.Sprintf("rId%d", nextRID)
		presRels = append(presRels, relationship{ID: rid, Type: relTypeNotesMaster, Target: "notesMasters/notesMaster1.xml"})
		notesMasterLst = fmt.Sprintf(`<p:notesMasterIdLst><p:notesMasterId r:id="%s"/></p:notesMasterIdLst>`, rid)
	}

	parts["ppt/presentation.xml"] = []byte(xmlHeader + fmt.Sprintf(
		`<p:presentation xmlns:a="%s" xmlns:r="%s" xmlns:p="%s">`+
			`<p:sldMasterIdLst><p:sldMasterId id="2147483648" r:id="rId1"/></p:sldMasterIdLst>`+
			`%s<p:sldIdLst>%s</p:sldIdLst>`+
			`<p:sldSz cx="%d" cy="%d"/><p:notesSz cx="6858000" cy="9144000"/>`+
			`</p:presentation>`,
		nsDrawing, nsRelationship, nsPresentation,
		notesMasterLst, strings.Join(sldEntries, ""), p.Width, p.Height))
	parts["ppt/_rels/presentation.xml.rels"] = relsXML(presRels)
	parts["[Content_Types].xml"] = contentTypesXML(defaults, overrides)
	return parts
}

// assembleFromTemplate writes the loaded package back, with dropped slides
// removed, built slides appended and the slide id list regenerated. Parts we
// never touched are copied byte for byte.
func assembleFromTemplate(p *Presentation) map[string][]byte {
	pkg := p.pkg
	parts := map[string][]byte{}
	for name, data := range pkg.parts {
		if pkg.dropped[name] {
			continue
		}
		if strings.HasPrefix(name, "ppt/slides/_rels/") {
			base := strings.TrimSuffix(path.Base(name), ".rels")
			if pkg.dropped["ppt/slides/"+base] {
				continue
			}
		}
		parts[name] = data
	}

	defaults, overrides := parseContentTypes(pkg.parts["[Content_Types].xml"])
	for part := range pkg.dropped {
		delete(overrides, part)
	}

	// Carry over every presentation relationship except those pointing at
	// slides; slides are re-added below in current order.
	maxRID := 0
	var presRels []relationship
	for _, r := range pkg.presRel {
		if n := ridNumber(r.ID); n > maxRID {
			maxRID = n
		}
		if r.Type == relTypeSlide {
			continue
		}
		presRels = append(presRels, r)
	}
	ridBySlidePart := map[string]string{}
	for _, r := range pkg.presRel {
		if r.Type == relTypeSlide {
			ridBySlidePart[resolveTarget("ppt", r.Target)] = r.ID
		}
	}

	nextSlideNum := 1
	for name := range pkg.parts {
		var n int
		if _, err := fmt.Sscanf(name, "ppt/slides/slide%d.xml", &n); err == nil && n >= nextSlideNum {
			nextSlideNum = n + 1
		}
	}

	hasNotesMaster := false
	for _, r := range pkg.presRel {
		if r.Type == relTypeNotesMaster {
			hasNotesMaster = true
		}
	}

	needNotesMaster := false
	var sldEntries []string
	for i, s := range p.slides {
		if s.raw != nil {
			// Loaded slide: part already copied; update substituted XML.
			parts[s.partName] = s.raw
			rid := ridBySlidePart[s.partName]
			presRels = append(presRels, relationship{ID: rid, Type: relTypeSlide, Target: strings.TrimPrefix(s.partName, "ppt/")})
			sldEntries = append(sldEntries, fmt.Sprintf(`<p:sldId id="%d" r:id="%s"/>`, 256+i, rid))
			continue
		}
		part := fmt.Sprintf("ppt/slides/slide%d.xml", nextSlideNum)
		nextSlideNum++
		maxRID++
		rid := fmt.Sprintf("rId%d", maxRID)
		writeBuiltSlide(parts, overrides, defaults, s, part)
		if s.Notes != "" {
			needNotesMaster = true
		}
		presRels = append(presRels, relationship{ID: rid, Type: relTypeSlide, Target: strings.TrimPrefix(part, "ppt/")})
		sldEntries = append(sldEntries, fmt.Sprintf(`<p:sldId id="%d" r:id="%s"/>`, 256+i, rid))
	}

	notesMasterLst := ""
	if needNotesMaster && !hasNotesMaster {
		theme := firstThemePart(parts)
		if theme == "" {
			theme = "ppt/theme/theme1.xml"
			parts[theme] = themeXML()
			overrides[theme] = ctTheme
		}
		parts["ppt/notesMasters/notesMaster1.xml"] = notesMasterXML()
		parts["ppt/notesMasters/_rels/notesMaster1.xml.rels"] = relsXML([]relationship{
			{ID: "rId1", Type: relNsID + "/theme", Target: "../" + strings.TrimPrefix(theme, "ppt/")},
		})
		overrides["ppt/notesMasters/notesMaster1.xml"] = ctNotesMaster
		maxRID++
		rid := fmt.Sprintf("rId%d", maxRID)
		presRels = append(presRels, relationship{ID: rid, Type: relTypeNotesMaster, Target: "notesMasters/notesMaster1.xml"})
		notesMasterLst = fmt.Sprintf(`<p:notesMasterIdLst><p:notesMasterId r:id="%s"/></p:notesMasterIdLst>`, rid)
	}

	presXML := replaceListElement(pkg.presXML, "sldIdLst", strings.Join(sldEntries, ""))
	if notesMasterLst != "" {
		presXML = insertBeforeElement(presXML, "sldIdLst", notesMasterLst)
	}
	if p.Author != "" {
		parts["docProps/core.xml"] = corePropsXML(p.Author)
		overrides["docProps/core.xml"] = ctCoreProps
	}
	parts["ppt/presentation.xml"] = presXML
	parts["ppt/_rels/presentation.xml.rels"] = relsXML(presRels)
	parts["[Content_Types].xml"] = contentTypesXML(defaults, overrides)
	return parts
}

// writeBuiltSlide emits the slide part, its relationships, and any media,
// chart and notes parts it references.
func writeBuiltSlide(parts map[string][]byte, overrides, defaults map[string]string, s *Slide, part string) {
	slideXML, resources := buildSlideXML(s)
	parts[part] = slideXML
	overrides[part] = ctSlide

	layoutTarget := "../slideLayouts/" + path.Base(s.Layout.partName)
	rels := []relationship{{ID: "rId1", Type: relTypeSlideLayout, Target: layoutTarget}}

	for _, res := range resources {
		switch res.kind {
		case resImage:
			media := nextFreePart(parts, "ppt/media/image%d."+res.shape.ImageExt)
			parts[media] = res.shape.Image
			defaults[res.shape.ImageExt] = res.shape.ImageMime
			rels = append(rels, relationship{ID: res.rID, Type: relNsID + "/image", Target: "../media/" + path.Base(media)})
		case resChart:
			chart := nextFreePart(parts, "ppt/charts/chart%d.xml")
			parts[chart] = chartXML(res.shape.Chart)
			overrides[chart] = ctChart
			rels = append(rels, relationship{ID: res.rID, Type: relNsID + "/chart", Target: "../charts/" + path.Base(chart)})
		}
	}

	if s.Notes != "" {
		notes := nextFreePart(parts, "ppt/notesSlides/notesSlide%d.xml")
		parts[notes] = notesSlideXML(s.Notes)
		overrides[notes] = ctNotesSlide
		parts[relsPartFor(notes)] = relsXML([]relationship{
			{ID: "rId1", Type: relNsID + "/notesMaster", Target: "../notesMasters/notesMaster1.xml"},
			{ID: "rId2", Type: relTypeSlide, Target: "../slides/" + path.Base(part)},
		})
		rels = append(rels, relationship{
			ID: fmt.Sprintf("rId%d", len(rels)+1), Type: relNsID + "/notesSlide",
			Target: "../notesSlides/" + path.Base(notes),
		})
	}
	parts[relsPartFor(part)] = relsXML(rels)
}

func relsPartFor(part string) string {
	return path.Join(path.Dir(part), "_rels", path.Base(part)+".rels")
}

func nextFreePart(parts map[string][]byte, pattern string) string {
	for n := 1; ; n++ {
		name := fmt.Sprintf(pattern, n)
		if _, ok := parts[name]; !ok {
			return name
		}
	}
}

func firstThemePart(parts map[string][]byte) string {
	var names []string
	for name := range parts {
		if strings.HasPrefix(name, "ppt/theme/") && strings.HasSuffix(name, ".xml") {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return ""
	}
	sort.Strings(names)
	return names[0]
}

func ridNumber(rid string) int {
	n := 0
	for _, c := range strings.TrimPrefix(rid, "rId") {
		if c < '0' || c > '9' {
			return 0
		}
		n = n*10 + int(c-'0')
	}
	return n
}

type ctypesDoc struct {
	XMLName  xml.Name `xml:"Types"`
	Defaults []struct {
		Extension   string `xml:"Extension,attr"`
		ContentType string `xml:"ContentType,attr"`
	} `xml:"Default"`
	Overrides []struct {
		PartName    string `xml:"PartName,attr"`
		ContentType string `xml:"ContentType,attr"`
	} `xml:"Override"`
}

func parseContentTypes(data []byte) (defaults, overrides map[string]string) {
	defaults = map[string]string{
		"rels": "application/vnd.openxmlformats-package.relationships+xml",
		"xml":  "application/xml",
	}
	overrides = map[string]string{}
	var doc ctypesDoc
	if err := xml.Unmarshal(data, &doc); err != nil {
		return defaults, overrides
	}
	for _, d := range doc.Defaults {
		defaults[d.Extension] = d.ContentType
	}
	for _, o := range doc.Overrides {
		overrides[strings.TrimPrefix(o.PartName, "/")] = o.ContentType
	}
	return defaults, overrides
}

// replaceListElement swaps the inner content of <pfx:local>...</pfx:local>,
// handling self-closing and absent elements (absent: inserted before sldSz).
func replaceListElement(doc []byte, local, inner string) []byte {
	s := string(doc)
	start, prefix := findElementStart(s, local)
	if start < 0 {
		full := fmt.Sprintf("<p:%s>%s</p:%s>", local, inner, local)
		return insertBeforeElement(doc, "sldSz", full)
	}
	full := fmt.Sprintf("<%s:%s>%s</%s:%s>", prefix, local, inner, prefix, local)
	openEnd := strings.Index(s[start:], ">") + start
	if s[openEnd-1] == '/' {
		return []byte(s[:start] + full + s[openEnd+1:])
	}
	closeTag := fmt.Sprintf("</%s:%s>", prefix, local)
	end := strings.Index(s[openEnd:], closeTag)
	if end < 0 {
		return doc
	}
	end += openEnd + len(closeTag)
	return []byte(s[:start] + full + s[end:])
}

// insertBeforeElement places the fragment immediately before the named
// element's start tag.
func insertBeforeElement(doc []byte, local, fragment string) []byte {
	s := string(doc)
	start, _ := findElementStart(s, local)
	if start < 0 {
		// Last resort: before the closing root tag.
		start = strings.LastIndex(s, "</")
		if start < 0 {
			return doc
		}
	}
	return []byte(s[:start] + fragment + s[start:])
}

// findElementStart locates "<pfx:local" and returns the index and prefix.
func findElementStart(s, local string) (int, string) {
	for from := 0; ; {
		i := strings.Index(s[from:], ":"+local)
		if i < 0 {
			return -1, ""
		}
		i += from
		// Walk back to the opening '<' to extract the prefix.
		j := strings.LastIndex(s[:i], "<")
		if j >= 0 && !strings.ContainsAny(s[j+1:i], " /><") {
			after := i + 1 + len(local)
			if after < len(s) && (s[after] == ' ' || s[after] == '>' || s[after] == '/') {
				return j, s[j+1 : i]
			}
		}
		from = i + 1
	}
}
