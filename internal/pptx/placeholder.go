package pptx

import "strings"

// PlaceholderType is the semantic type of a layout-defined content slot.
type PlaceholderType string

const (
	PhTitle         PlaceholderType = "title"
	PhCenteredTitle PlaceholderType = "centered-title"
	PhSubtitle      PlaceholderType = "subtitle"
	PhBody          PlaceholderType = "body"
	PhObject        PlaceholderType = "object"
	PhPicture       PlaceholderType = "picture"
	PhChart         PlaceholderType = "chart"
	PhTable         PlaceholderType = "table"
	PhOther         PlaceholderType = "other"
)

// phTypeFromXML maps the ph type attribute to a semantic type. An absent
// attribute means a generic content placeholder (obj per the schema default).
func phTypeFromXML(attr string) PlaceholderType {
	switch attr {
	case "title":
		return PhTitle
	case "ctrTitle":
		return PhCenteredTitle
	case "subTitle":
		return PhSubtitle
	case "body":
		return PhBody
	case "", "obj":
		return PhObject
	case "pic":
		return PhPicture
	case "chart":
		return PhChart
	case "tbl":
		return PhTable
	default:
		return PhOther
	}
}

func (t PlaceholderType) xmlAttr() string {
	switch t {
	case PhTitle:
		return "title"
	case PhCenteredTitle:
		return "ctrTitle"
	case PhSubtitle:
		return "subTitle"
	case PhBody:
		return "body"
	case PhObject:
		return "" // omitted attribute, schema default
	case PhPicture:
		return "pic"
	case PhChart:
		return "chart"
	case PhTable:
		return "tbl"
	default:
		return ""
	}
}

// IsTitleish reports a title placeholder that is not a centered title.
func (t PlaceholderType) IsTitleish() bool { return t == PhTitle }

// IsContent reports a body or generic object placeholder.
func (t PlaceholderType) IsContent() bool { return t == PhBody || t == PhObject }

// Placeholder describes one content slot of a layout. Idx is the stable
// numeric key used to target placeholder fills; it is distinct from the
// placeholder's position in the layout's list.
type Placeholder struct {
	Idx  int
	Type PlaceholderType
	Name string

	// Geometry from the layout, zero when inherited from the master.
	Left, Top, Width, Height EMU
}

// Layout is an immutable slide template: a named, ordered placeholder set.
// Layouts are read from a template or built in; never created or mutated here.
type Layout struct {
	Index        int
	Name         string
	Placeholders []Placeholder

	partName string // package part, empty for built-in layouts
}

// Placeholder returns the descriptor with the given stable idx.
func (l *Layout) Placeholder(idx int) (Placeholder, bool) {
	for _, ph := range l.Placeholders {
		if ph.Idx == idx {
			return ph, true
		}
	}
	return Placeholder{}, false
}

// NameEquals does a case-insensitive comparison against the layout name.
func (l *Layout) NameEquals(name string) bool {
	return strings.EqualFold(l.Name, name)
}
