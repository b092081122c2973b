package pptx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"os"
	"path"
	"strings"
)

const (
	relNsID = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"

	relTypeSlide       = relNsID + "/slide"
	relTypeSlideLayout = relNsID + "/slideLayout"
	relTypeSlideMaster = relNsID + "/slideMaster"
	relTypeNotesMaster = relNsID + "/notesMaster"
)

type relationship struct {
	ID     string `xml:"Id,attr"`
	Type   string `xml:"Type,attr"`
	Target string `xml:"Target,attr"`
}

type relationships struct {
	XMLName xml.Name       `xml:"Relationships"`
	Rels    []relationship `xml:"Relationship"`
}

// templatePackage retains the parts of a loaded package so unmodified parts
// are written back byte for byte.
type templatePackage struct {
	parts   map[string][]byte
	presRel []relationship
	presXML []byte
	dropped map[string]bool
}

func (t *templatePackage) dropSlidePart(part string) {
	t.dropped[part] = true
}

func (t *templatePackage) relTarget(rID string) (relationship, bool) {
	for _, r := range t.presRel {
		if r.ID == rID {
			return r, true
		}
	}
	return relationship{}, false
}

// resolveTarget resolves a relationship target against the directory of the
// source part, collapsing any "../" segments.
func resolveTarget(baseDir, target string) string {
	return path.Clean(path.Join(baseDir, target))
}

// Open loads a presentation from a packaged .pptx file. A missing file yields
// TemplateNotFoundError; bytes that are not a valid package of the expected
// shape yield InvalidPackageError.
func Open(p string) (*Presentation, error) {
	if _, err := os.Stat(p); err != nil {
		return nil, &TemplateNotFoundError{Path: p}
	}
	zr, err := zip.OpenReader(p)
	if err != nil {
		return nil, &InvalidPackageError{Path: p, Reason: "not a zip archive"}
	}
	defer zr.Close()

	parts := make(map[string][]byte, len(zr.File))
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return nil, &InvalidPackageError{Path: p, Reason: "unreadable part " + f.Name}
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, &InvalidPackageError{Path: p, Reason: "unreadable part " + f.Name}
		}
		parts[f.Name] = data
	}
	pres, err := fromParts(parts)
	if err != nil {
		if ipe, ok := err.(*InvalidPackageError); ok {
			ipe.Path = p
		}
		return nil, err
	}
	return pres, nil
}

// OpenBytes loads a presentation from an in-memory package, as uploaded
// templates arrive over HTTP.
func OpenBytes(data []byte) (*Presentation, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &InvalidPackageError{Reason: "not a zip archive"}
	}
	parts := make(map[string][]byte, len(zr.File))
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return nil, &InvalidPackageError{Reason: "unreadable part " + f.Name}
		}
		b, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, &InvalidPackageError{Reason: "unreadable part " + f.Name}
		}
		parts[f.Name] = b
	}
	return fromParts(parts)
}

func fromParts(parts map[string][]byte) (*Presentation, error) {
	presXML, ok := parts["ppt/presentation.xml"]
	if !ok {
		return nil, &InvalidPackageError{Reason: "missing ppt/presentation.xml"}
	}
	var relsDoc relationships
	if data, ok := parts["ppt/_rels/presentation.xml.rels"]; ok {
		if err := xml.Unmarshal(data, &relsDoc); err != nil {
			return nil, &InvalidPackageError{Reason: "bad presentation rels"}
		}
	}

	pkg := &templatePackage{
		parts:   parts,
		presRel: relsDoc.Rels,
		presXML: presXML,
		dropped: make(map[string]bool),
	}

	pres := &Presentation{pkg: pkg}

	sldRIDs, cx, cy, err := parsePresentationXML(presXML)
	if err != nil {
		return nil, &InvalidPackageError{Reason: "bad ppt/presentation.xml"}
	}
	pres.Width, pres.Height = EMU(cx), EMU(cy)

	// Layout collection comes from the first slide master's layout id list.
	layoutByPart := map[string]*Layout{}
	for _, r := range relsDoc.Rels {
		if r.Type != relTypeSlideMaster {
			continue
		}
		masterPart := resolveTarget("ppt", r.Target)
		layouts, err := parseMasterLayouts(pkg, masterPart)
		if err != nil {
			return nil, err
		}
		for _, l := range layouts {
			l.Index = len(pres.layouts)
			pres.layouts = append(pres.layouts, l)
			layoutByPart[l.partName] = l
		}
		break
	}
	if len(pres.layouts) == 0 {
		return nil, &InvalidPackageError{Reason: "no slide layouts"}
	}

	for _, rID := range sldRIDs {
		rel, ok := pkg.relTarget(rID)
		if !ok {
			continue
		}
		part := resolveTarget("ppt", rel.Target)
		raw, ok := parts[part]
		if !ok {
			return nil, &InvalidPackageError{Reason: "missing slide part " + part}
		}
		slide := &Slide{
			partName:   part,
			raw:        raw,
			shapeCount: countTopShapes(raw),
			Layout:     pres.layouts[0],
		}
		slide.rels = partRels(parts, part)
		for _, sr := range slide.rels {
			if sr.Type == relTypeSlideLayout {
				lp := resolveTarget(path.Dir(part), sr.Target)
				if l, ok := layoutByPart[lp]; ok {
					slide.Layout = l
				}
			}
		}
		pres.slides = append(pres.slides, slide)
	}
	return pres, nil
}

func partRels(parts map[string][]byte, part string) []relationship {
	relPart := path.Join(path.Dir(part), "_rels", path.Base(part)+".rels")
	data, ok := parts[relPart]
	if !ok {
		return nil
	}
	var doc relationships
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil
	}
	return doc.Rels
}

// parsePresentationXML extracts the ordered slide relationship ids and the
// slide size from ppt/presentation.xml.
func parsePresentationXML(data []byte) (rIDs []string, cx, cy int64, err error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	inSldIdLst := false
	for {
		tok, terr := dec.Token()
		if terr == io.EOF {
			break
		}
		if terr != nil {
			return nil, 0, 0, terr
		}
		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "sldIdLst":
				inSldIdLst = true
			case "sldId":
				if inSldIdLst {
					for _, a := range el.Attr {
						if a.Name.Local == "id" && a.Name.Space == relNsID {
							rIDs = append(rIDs, a.Value)
						}
					}
				}
			case "sldSz":
				for _, a := range el.Attr {
					switch a.Name.Local {
					case "cx":
						cx = parseInt64(a.Value)
					case "cy":
						cy = parseInt64(a.Value)
					}
				}
			}
		case xml.EndElement:
			if el.Name.Local == "sldIdLst" {
				inSldIdLst = false
			}
		}
	}
	return rIDs, cx, cy, nil
}

func parseInt64(s string) int64 {
	var n int64
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0
		}
		n = n*10 + int64(c-'0')
	}
	return n
}

// parseMasterLayouts reads the master's sldLayoutIdLst and parses each layout
// part into a Layout with its placeholder descriptors.
func parseMasterLayouts(pkg *templatePackage, masterPart string) ([]*Layout, error) {
	masterXML, ok := pkg.parts[masterPart]
	if !ok {
		return nil, &InvalidPackageError{Reason: "missing slide master " + masterPart}
	}
	rels := partRels(pkg.parts, masterPart)
	relByID := map[string]relationship{}
	for _, r := range rels {
		relByID[r.ID] = r
	}

	var layouts []*Layout
	dec := xml.NewDecoder(bytes.NewReader(masterXML))
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &InvalidPackageError{Reason: "bad slide master"}
		}
		el, ok := tok.(xml.StartElement)
		if !ok || el.Name.Local != "sldLayoutId" {
			continue
		}
		for _, a := range el.Attr {
			if a.Name.Local != "id" || a.Name.Space != relNsID {
				continue
			}
			rel, ok := relByID[a.Value]
			if !ok {
				continue
			}
			part := resolveTarget(path.Dir(masterPart), rel.Target)
			data, ok := pkg.parts[part]
			if !ok {
				continue
			}
			name, phs := parseLayoutPart(data)
			layouts = append(layouts, &Layout{
				Name:         name,
				Placeholders: phs,
				partName:     part,
			})
		}
	}
	return layouts, nil
}

// parseLayoutPart extracts the layout display name and its placeholder set
// (idx, semantic type, name, geometry when present).
func parseLayoutPart(data []byte) (string, []Placeholder) {
	var (
		name string
		phs  []Placeholder

		inSp   bool
		cur    Placeholder
		hasPh  bool
		inXfrm bool
	)
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "cSld":
				for _, a := range el.Attr {
					if a.Name.Local == "name" {
						name = a.Value
					}
				}
			case "sp":
				inSp = true
				cur = Placeholder{}
				hasPh = false
			case "cNvPr":
				if inSp && cur.Name == "" {
					for _, a := range el.Attr {
						if a.Name.Local == "name" {
							cur.Name = a.Value
						}
					}
				}
			case "ph":
				if inSp {
					hasPh = true
					typeAttr := ""
					for _, a := range el.Attr {
						switch a.Name.Local {
						case "type":
							typeAttr = a.Value
						case "idx":
							cur.Idx = int(parseInt64(a.Value))
						}
					}
					cur.Type = phTypeFromXML(typeAttr)
				}
			case "xfrm":
				inXfrm = inSp
			case "off":
				if inXfrm {
					for _, a := range el.Attr {
						switch a.Name.Local {
						case "x":
							cur.Left = EMU(parseInt64(a.Value))
						case "y":
							cur.Top = EMU(parseInt64(a.Value))
						}
					}
				}
			case "ext":
				if inXfrm {
					for _, a := range el.Attr {
						switch a.Name.Local {
						case "cx":
							cur.Width = EMU(parseInt64(a.Value))
						case "cy":
							cur.Height = EMU(parseInt64(a.Value))
						}
					}
				}
			}
		case xml.EndElement:
			switch el.Name.Local {
			case "xfrm":
				inXfrm = false
			case "sp":
				if inSp && hasPh {
					phs = append(phs, cur)
				}
				inSp = false
			}
		}
	}
	return name, phs
}

// countTopShapes counts the direct shape children of the slide's shape tree:
// sp, pic, graphicFrame, grpSp and cxnSp elements.
func countTopShapes(data []byte) int {
	dec := xml.NewDecoder(bytes.NewReader(data))
	depth := 0
	treeDepth := -1
	count := 0
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		switch el := tok.(type) {
		case xml.StartElement:
			depth++
			if el.Name.Local == "spTree" && treeDepth < 0 {
				treeDepth = depth
				continue
			}
			if treeDepth > 0 && depth == treeDepth+1 {
				switch el.Name.Local {
				case "sp", "pic", "graphicFrame", "grpSp", "cxnSp":
					count++
				}
			}
		case xml.EndElement:
			if el.Name.Local == "spTree" && depth == treeDepth {
				treeDepth = -1
			}
			depth--
		}
	}
	return count
}

// hasPPTXSuffix reports whether a filename looks like a presentation package.
func hasPPTXSuffix(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".pptx")
}
