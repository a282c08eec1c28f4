package prep

import (
	"bytes"
	"encoding/binary"
)

// Density is a pixel density in dots per inch. Zero means unknown.
type Density struct {
	X, Y float64
}

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

// ReadDensity extracts the pixel density from PNG pHYs, JPEG JFIF, BMP info or
// TIFF resolution headers. Other formats, and files that do not declare a
// physical unit, give zero.
func ReadDensity(data []byte) Density {
	switch {
	case bytes.HasPrefix(data, pngSignature):
		return pngDensity(data[len(pngSignature):])
	case len(data) > 2 && data[0] == 0xff && data[1] == 0xd8:
		return jfifDensity(data[2:])
	case bytes.HasPrefix(data, []byte("BM")):
		return bmpDensity(data)
	case bytes.HasPrefix(data, []byte("II*\x00")):
		return tiffDensity(data, binary.LittleEndian)
	case bytes.HasPrefix(data, []byte("MM\x00*")):
		return tiffDensity(data, binary.BigEndian)
	}
	return Density{}
}

func pngDensity(data []byte) Density {
	for len(data) >= 8 {
		length := int(binary.BigEndian.Uint32(data))
		typ := string(data[4:8])
		if length < 0 || len(data) < 12+length {
			break
		}
		body := data[8 : 8+length]
		switch typ {
		case "pHYs":
			// Unit 1 is pixels per meter; unit 0 only gives an aspect ratio.
			if length < 9 || body[8] != 1 {
				return Density{}
			}
			return Density{
				X: float64(binary.BigEndian.Uint32(body[0:4])) * 0.0254,
				Y: float64(binary.BigEndian.Uint32(body[4:8])) * 0.0254,
			}
		case "IDAT", "IEND":
			// pHYs must come before the image data.
			return Density{}
		}
		data = data[12+length:]
	}
	return Density{}
}

func jfifDensity(data []byte) Density {
	for len(data) >= 4 && data[0] == 0xff {
		marker := data[1]
		length := int(binary.BigEndian.Uint16(data[2:4]))
		if length < 2 || len(data) < 2+length {
			break
		}
		body := data[4 : 2+length]
		if marker == 0xe0 && len(body) >= 12 && string(body[:5]) == "JFIF\x00" {
			units := body[7]
			x := float64(binary.BigEndian.Uint16(body[8:10]))
			y := float64(binary.BigEndian.Uint16(body[10:12]))
			switch units {
			case 1:
				return Density{X: x, Y: y}
			case 2:
				return Density{X: x * 2.54, Y: y * 2.54}
			}
			return Density{}
		}
		if marker == 0xda {
			// Start of scan; no more headers.
			break
		}
		data = data[2+length:]
	}
	return Density{}
}

// bmpDensity reads the pixels per meter of a BITMAPINFOHEADER or later.
func bmpDensity(data []byte) Density {
	const (
		infoOffset = 14
		xOffset    = infoOffset + 24
		yOffset    = infoOffset + 28
	)
	if len(data) < yOffset+4 || binary.LittleEndian.Uint32(data[infoOffset:]) < 40 {
		return Density{}
	}
	x := int32(binary.LittleEndian.Uint32(data[xOffset:]))
	y := int32(binary.LittleEndian.Uint32(data[yOffset:]))
	if x <= 0 || y <= 0 {
		return Density{}
	}
	return Density{X: float64(x) * 0.0254, Y: float64(y) * 0.0254}
}

const (
	tiffXResolution    = 282
	tiffYResolution    = 283
	tiffResolutionUnit = 296

	tiffShort    = 3
	tiffRational = 5
)

// tiffDensity reads XResolution, YResolution and ResolutionUnit from the first
// IFD. A missing unit means inches.
func tiffDensity(data []byte, order binary.ByteOrder) Density {
	if len(data) < 8 {
		return Density{}
	}
	ifd := int64(order.Uint32(data[4:8]))
	if ifd+2 > int64(len(data)) {
		return Density{}
	}
	count := int64(order.Uint16(data[ifd:]))
	entries := data[ifd+2:]
	if int64(len(entries)) < count*12 {
		return Density{}
	}

	rational := func(typ uint16, value []byte) float64 {
		if typ != tiffRational {
			return 0
		}
		off := int64(order.Uint32(value))
		if off+8 > int64(len(data)) {
			return 0
		}
		num := order.Uint32(data[off:])
		den := order.Uint32(data[off+4:])
		if den == 0 {
			return 0
		}
		return float64(num) / float64(den)
	}

	var x, y float64
	unit := uint16(2)
	for i := int64(0); i < count; i++ {
		e := entries[i*12 : i*12+12]
		tag, typ, value := order.Uint16(e[0:2]), order.Uint16(e[2:4]), e[8:12]
		switch tag {
		case tiffXResolution:
			x = rational(typ, value)
		case tiffYResolution:
			y = rational(typ, value)
		case tiffResolutionUnit:
			if typ == tiffShort {
				unit = order.Uint16(value)
			}
		}
	}
	if x <= 0 || y <= 0 {
		return Density{}
	}
	switch unit {
	case 2:
		return Density{X: x, Y: y}
	case 3:
		return Density{X: x * 2.54, Y: y * 2.54}
	}
	return Density{}
}
