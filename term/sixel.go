package term

import "image/color"

// SixelImage is a decoded DEC Sixel image: tightly-packed RGBA pixels plus
// whatever the stream said about its background.
type SixelImage struct {
	Width       uint32
	Height      uint32
	Data        []byte // RGBA pixel data, row-major
	Transparent bool   // background left unset rather than filled with palette color 0
}

// IsEmpty reports whether the stream drew no pixels at all.
func (img *SixelImage) IsEmpty() bool {
	return img.Width == 0 || img.Height == 0
}

// sixelParser walks a Sixel byte stream, building up a sparse pixel map
// keyed by (y, x) — sparse because a Sixel stream is column-major within
// six-row bands and frequently skips around with '$'/'-' before the image's
// extent is known, so a dense grid can't be sized up front.
type sixelParser struct {
	palette     [256]color.RGBA
	colorIndex  int
	x, y        int
	maxX, maxY  int
	pixels      map[int]map[int]color.RGBA
	transparent bool
}

// ParseSixel decodes one Sixel image. params holds the DCS parameters
// (P1;P2;P3) — only P2 (background select) is honored; data is the raw
// Sixel body following 'q'.
func ParseSixel(params []int64, data []byte) (*SixelImage, error) {
	p := &sixelParser{pixels: make(map[int]map[int]color.RGBA)}
	p.initDefaultPalette()

	if len(params) >= 2 && params[1] == 1 {
		p.transparent = true
	}

	p.parse(data)
	return p.toImage(), nil
}

// initDefaultPalette seeds the first 16 palette entries with the standard
// VGA colors (what a stream gets if it never issues a '#' color
// definition) and fills the rest with a grayscale ramp.
func (p *sixelParser) initDefaultPalette() {
	vga := [16]color.RGBA{
		{0, 0, 0, 255}, {0, 0, 205, 255}, {205, 0, 0, 255}, {205, 0, 205, 255},
		{0, 205, 0, 255}, {0, 205, 205, 255}, {205, 205, 0, 255}, {205, 205, 205, 255},
		{0, 0, 0, 255}, {0, 0, 255, 255}, {255, 0, 0, 255}, {255, 0, 255, 255},
		{0, 255, 0, 255}, {0, 255, 255, 255}, {255, 255, 0, 255}, {255, 255, 255, 255},
	}
	copy(p.palette[:], vga[:])

	for i := 16; i < 256; i++ {
		gray := uint8((i - 16) * 255 / 239)
		p.palette[i] = color.RGBA{gray, gray, gray, 255}
	}
}

// parse walks the byte stream, dispatching each control character to its
// handler and drawing runs of sixel data characters directly.
func (p *sixelParser) parse(data []byte) {
	i := 0
	for i < len(data) {
		b := data[i]
		i++

		switch {
		case b == '$':
			p.x = 0
		case b == '-':
			p.x = 0
			p.y += 6
		case b == '!':
			i = p.parseRepeat(data, i)
		case b == '#':
			i = p.parseColor(data, i)
		case b == '"':
			i = skipRasterAttributes(data, i)
		case b >= '?' && b <= '~':
			p.drawSixel(b, 1)
		}
	}
}

// parseRepeat handles "!<count><sixel>": draw one sixel character count times.
func (p *sixelParser) parseRepeat(data []byte, i int) int {
	count, i := parseDecimal(data, i)
	if i >= len(data) {
		return i
	}
	sixel := data[i]
	i++
	if sixel >= '?' && sixel <= '~' {
		p.drawSixel(sixel, int(count))
	}
	return i
}

// parseColor handles "#<index>" (select) and the optional
// "#<index>;<type>;<v1>;<v2>;<v3>" form (define then select).
func (p *sixelParser) parseColor(data []byte, i int) int {
	colorNum, i := parseDecimal(data, i)

	if i < len(data) && data[i] == ';' {
		var colorType, v1, v2, v3 int64
		colorType, i = parseDecimal(data, i+1)
		if i < len(data) && data[i] == ';' {
			v1, i = parseDecimal(data, i+1)
		}
		if i < len(data) && data[i] == ';' {
			v2, i = parseDecimal(data, i+1)
		}
		if i < len(data) && data[i] == ';' {
			v3, i = parseDecimal(data, i+1)
			if colorNum >= 0 && colorNum < 256 {
				p.palette[colorNum] = resolveSixelColor(colorType, v1, v2, v3)
			}
		}
	}

	if colorNum >= 0 && colorNum < 256 {
		p.colorIndex = int(colorNum)
	}
	return i
}

// resolveSixelColor interprets a "#" color definition's type tag: 1 is
// HLS, anything else (2, or an omitted tag) is RGB given as 0-100 percentages.
func resolveSixelColor(colorType, v1, v2, v3 int64) color.RGBA {
	if colorType == 1 {
		return hlsToRGB(int(v1), int(v2), int(v3))
	}
	return color.RGBA{
		R: uint8(v1 * 255 / 100),
		G: uint8(v2 * 255 / 100),
		B: uint8(v3 * 255 / 100),
		A: 255,
	}
}

// skipRasterAttributes consumes "<Pan>;<Pad>;<Ph>;<Pv>" after a raster
// attributes introducer ('"'). The values describe pixel aspect ratio and
// the image's declared size; a headless renderer derives its canvas from
// the pixels actually drawn instead, so they're skipped rather than stored.
func skipRasterAttributes(data []byte, i int) int {
	for i < len(data) && data[i] != '$' && data[i] != '-' &&
		data[i] != '#' && data[i] != '!' &&
		!(data[i] >= '?' && data[i] <= '~') {
		i++
	}
	return i
}

// parseDecimal reads a run of ASCII digits starting at i.
func parseDecimal(data []byte, i int) (int64, int) {
	var n int64
	for i < len(data) && data[i] >= '0' && data[i] <= '9' {
		n = n*10 + int64(data[i]-'0')
		i++
	}
	return n, i
}

// drawSixel plots one sixel character (six stacked vertical pixels, one
// bit each) at the cursor, repeated count times, then advances the cursor.
func (p *sixelParser) drawSixel(b byte, count int) {
	if count <= 0 {
		count = 1
	}

	bits := b - '?'
	c := p.palette[p.colorIndex]

	for r := 0; r < count; r++ {
		for bit := 0; bit < 6; bit++ {
			if bits&(1<<bit) == 0 {
				continue
			}
			py, px := p.y+bit, p.x
			if p.pixels[py] == nil {
				p.pixels[py] = make(map[int]color.RGBA)
			}
			p.pixels[py][px] = c

			if px > p.maxX {
				p.maxX = px
			}
			if py > p.maxY {
				p.maxY = py
			}
		}
		p.x++
	}
}

// toImage flattens the sparse pixel map into a tightly-packed RGBA buffer
// sized to the extent actually drawn.
func (p *sixelParser) toImage() *SixelImage {
	if len(p.pixels) == 0 {
		return &SixelImage{}
	}

	width := uint32(p.maxX + 1)
	height := uint32(p.maxY + 1)
	data := make([]byte, width*height*4)

	if !p.transparent {
		bg := p.palette[0]
		for i := uint32(0); i < width*height; i++ {
			data[i*4+0] = bg.R
			data[i*4+1] = bg.G
			data[i*4+2] = bg.B
			data[i*4+3] = bg.A
		}
	}

	for y, row := range p.pixels {
		for x, c := range row {
			if x >= 0 && x < int(width) && y >= 0 && y < int(height) {
				offset := (uint32(y)*width + uint32(x)) * 4
				data[offset+0] = c.R
				data[offset+1] = c.G
				data[offset+2] = c.B
				data[offset+3] = c.A
			}
		}
	}

	return &SixelImage{Width: width, Height: height, Data: data, Transparent: p.transparent}
}

// hlsToRGB converts Sixel's non-standard HLS (hue 0-360 with blue=0,
// red=120, green=240; lightness and saturation 0-100) to RGB.
func hlsToRGB(h, l, s int) color.RGBA {
	if s == 0 {
		v := uint8(l * 255 / 100)
		return color.RGBA{v, v, v, 255}
	}

	hNorm := float64(h) / 360.0
	lNorm := float64(l) / 100.0
	sNorm := float64(s) / 100.0

	// Rotate back by 120 degrees: Sixel puts blue at 0 and red at 120, the
	// standard color wheel puts red at 0 and blue at 240.
	hNorm -= 1.0 / 3.0
	if hNorm < 0 {
		hNorm += 1.0
	}

	var q float64
	if lNorm < 0.5 {
		q = lNorm * (1 + sNorm)
	} else {
		q = lNorm + sNorm - lNorm*sNorm
	}
	pp := 2*lNorm - q

	return color.RGBA{
		R: uint8(hueToRGB(pp, q, hNorm+1.0/3.0) * 255),
		G: uint8(hueToRGB(pp, q, hNorm) * 255),
		B: uint8(hueToRGB(pp, q, hNorm-1.0/3.0) * 255),
		A: 255,
	}
}

// hueToRGB resolves one RGB channel from an HSL hue fraction t (wrapped
// into [0,1)) given the p/q intermediates hlsToRGB computed.
func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t += 1
	}
	if t > 1 {
		t -= 1
	}
	switch {
	case t < 1.0/6.0:
		return p + (q-p)*6*t
	case t < 1.0/2.0:
		return q
	case t < 2.0/3.0:
		return p + (q-p)*(2.0/3.0-t)*6
	default:
		return p
	}
}
