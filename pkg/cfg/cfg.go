package cfg

// TargetDPI is the resolution images are resampled to before vectorizing. One pixel
// becomes one stroke pitch, so this is effectively the hatching density of the plot.
var TargetDPI = 200.0

// DefaultDPI is assumed when the image carries no density information.
var DefaultDPI = 72.0

// Laser power range. Darker shades burn with more power.
var PowerMin = 0.0
var PowerMax = 15.0

// Feed rates in mm/min. In speed mode darker shades move slower.
var FeedSpeed = 300.0
var FeedSpeedMax = 800.0

var TravelFeed = 8000.0

// MinUnit is the smallest physical distance (mm) the motion program distinguishes.
// Coordinates below it are written as 0.
var MinUnit = 0.001

// FlipY flips the image vertically before vectorizing so that image row 0 ends up
// at the machine's Y=0 (bottom).
var FlipY = true

// PixelSize returns the size of one pixel in mm at the given resolution.
func PixelSize(dpi float64) float64 {
	return 25.4 / dpi
}
