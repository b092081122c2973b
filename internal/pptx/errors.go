package pptx

import "fmt"

// TemplateNotFoundError signals a template path that does not exist.
type TemplateNotFoundError struct {
	Path string
}

func (e *TemplateNotFoundError) Error() string {
	return fmt.Sprintf("template not found: %s", e.Path)
}

// InvalidPackageError signals bytes that are not a valid presentation package.
type InvalidPackageError struct {
	Path   string
	Reason string
}

func (e *InvalidPackageError) Error() string {
	return fmt.Sprintf("invalid presentation package %s: %s", e.Path, e.Reason)
}

// LayoutIndexOutOfRangeError signals a layout index outside the layout collection.
type LayoutIndexOutOfRangeError struct {
	Index int
	Count int
}

func (e *LayoutIndexOutOfRangeError) Error() string {
	return fmt.Sprintf("layout index %d out of range (0-%d)", e.Index, e.Count-1)
}

// LayoutNotFoundError signals a layout name with no case-insensitive match.
type LayoutNotFoundError struct {
	Name string
}

func (e *LayoutNotFoundError) Error() string {
	return fmt.Sprintf("layout %q not found", e.Name)
}

// SlideIndexOutOfRangeError signals a slide index outside the slide sequence.
type SlideIndexOutOfRangeError struct {
	Index int
	Count int
}

func (e *SlideIndexOutOfRangeError) Error() string {
	return fmt.Sprintf("slide index %d out of range (0-%d)", e.Index, e.Count-1)
}

// ImageNotFoundError signals an image path that does not exist.
type ImageNotFoundError struct {
	Path string
}

func (e *ImageNotFoundError) Error() string {
	return fmt.Sprintf("image not found: %s", e.Path)
}

// PlaceholderNotFoundError signals a placeholder idx absent from a slide's layout.
type PlaceholderNotFoundError struct {
	Idx int
}

func (e *PlaceholderNotFoundError) Error() string {
	return fmt.Sprintf("placeholder idx %d not found on slide layout", e.Idx)
}

// IOWriteError wraps a filesystem failure while saving a package.
type IOWriteError struct {
	Path string
	Err  error
}

func (e *IOWriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *IOWriteError) Unwrap() error { return e.Err }
