package shade

import "image/color"

// The six brightness levels pixels are snapped to before vectorizing.
// They are close to the grays of the C64 palette.
const (
	L0 uint8 = 0 // Black
	L1 uint8 = 50
	L2 uint8 = 100
	L3 uint8 = 158
	L4 uint8 = 212
	L5 uint8 = 255 // White
)

// Levels lists the shade levels from darkest to lightest.
var Levels = [6]uint8{L0, L1, L2, L3, L4, L5}

// Thresholds are the lower bounds of each band. A sample belongs to band i when
// Thresholds[i] <= v < Thresholds[i+1]. Anything from 240 up is white
// paper.
var Thresholds = [6]uint8{0, 50, 100, 158, 212, 240}

// Palette maps band index to a gray color, for debugging images of a grid.
var Palette = color.Palette{
	color.Gray{Y: L0},
	color.Gray{Y: L1},
	color.Gray{Y: L2},
	color.Gray{Y: L3},
	color.Gray{Y: L4},
	color.Gray{Y: L5},
}

// Classify snaps a raw grayscale sample to one of the six levels.
func Classify(v uint8) uint8 {
	for i := len(Thresholds) - 1; i > 0; i-- {
		if v >= Thresholds[i] {
			return Levels[i]
		}
	}
	return L0
}

// Band returns the index (0..5) of the level v belongs to.
func Band(v uint8) int {
	for i := len(Thresholds) - 1; i > 0; i-- {
		if v >= Thresholds[i] {
			return i
		}
	}
	return 0
}

// BucketWidth is 256/6 in integer arithmetic.
const BucketWidth = 256 / 6

// MaxBucket is the bucket of pure white. Only 252..255 land there.
const MaxBucket = 255 / BucketWidth

// Bucket quantizes a shade into the equal width buckets used for stroke color and
// laser modulation. It is unrelated to the classifier bands.
func Bucket(v uint8) int {
	return int(v) / BucketWidth
}

// BucketGray maps a bucket back to a gray value.
func BucketGray(b int) uint8 {
	return uint8(b * BucketWidth)
}
