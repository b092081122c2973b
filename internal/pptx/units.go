package pptx

// EMU is the native length unit of the package format (English Metric Unit).
// 914400 EMU = 1 inch. All public APIs in this module take inches; conversion
// to EMU happens at the serialization boundary.
type EMU int64

const emuPerInch = 914400

// Inches converts a length in inches to EMU.
func Inches(in float64) EMU {
	return EMU(in*emuPerInch + 0.5)
}

// Inches converts back to inches.
func (e EMU) Inches() float64 {
	return float64(e) / emuPerInch
}

// Centipoints converts a font size in points to the format's hundredths-of-a-point
// representation used in run properties (sz attribute).
func Centipoints(pt float64) int {
	return int(pt*100 + 0.5)
}
