package termesc

import (
	"strconv"

	"github.com/dpinela/pled/internal/color"
)

type GraphicFlag int

// Constants for non-color graphic attributes.
const (
	StyleNone     GraphicFlag = 0
	StyleBold     GraphicFlag = 1
	StyleInverted GraphicFlag = 7
)

func (c GraphicFlag) forEachSGRCode(f func(int)) { f(int(c)) }

type GraphicAttribute interface {
	forEachSGRCode(func(int))
}

// A trueColor is a 24-bit foreground or background color.
type trueColor struct {
	c    color.Color
	base int
}

func (tc trueColor) forEachSGRCode(f func(int)) {
	f(tc.base)
	f(2)
	f(int(tc.c.R))
	f(int(tc.c.G))
	f(int(tc.c.B))
}

// OutputColor returns an attribute that sets the foreground color to c.
func OutputColor(c color.Color) GraphicAttribute { return trueColor{c: c, base: 38} }

// OutputColorBackground returns an attribute that sets the background color to c.
func OutputColorBackground(c color.Color) GraphicAttribute { return trueColor{c: c, base: 48} }

func SetGraphicAttributes(attrs ...GraphicAttribute) string {
	b := make([]byte, len(csi), 64)
	copy(b, csi)
	for _, attr := range attrs {
		attr.forEachSGRCode(func(x int) {
			if len(b) > len(csi) {
				b = append(b, ';')
			}
			b = strconv.AppendInt(b, int64(x), 10)
		})
	}
	return string(append(b, 'm'))
}
