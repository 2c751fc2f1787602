package font

import (
	"fmt"
	"image"
	"image/draw"
	"sync"

	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/norm"

	"tomgalvin.uk/receiptprint/internal/bitmap"
)

const dpi = 72

// MaxSize is the largest font size a Provider will create a face for.
const MaxSize = 1024

// Provider implements Metrics on top of a regular and a bold OpenType font.
// Faces are created lazily per Spec and reused; opentype faces aren't safe
// for concurrent use so every access goes through mu.
type Provider struct {
	mu      sync.Mutex
	regular *opentype.Font
	bold    *opentype.Font
	faces   map[Spec]xfont.Face
}

var _ Metrics = (*Provider)(nil)

// NewProvider parses the given TTF/OTF data. If boldData is empty the
// regular font is also used for bold text.
func NewProvider(regularData, boldData []byte) (*Provider, error) {
	regular, err := opentype.Parse(regularData)
	if err != nil {
		return nil, fmt.Errorf("Couldn't parse regular font:\n%w", err)
	}
	bold := regular
	if len(boldData) > 0 {
		if bold, err = opentype.Parse(boldData); err != nil {
			return nil, fmt.Errorf("Couldn't parse bold font:\n%w", err)
		}
	}
	return &Provider{
		regular: regular,
		bold:    bold,
		faces:   map[Spec]xfont.Face{},
	}, nil
}

// Builtin returns a provider for one of the bundled Go fonts.
func Builtin(name string) (*Provider, error) {
	switch name {
	case "", "goregular":
		return NewProvider(goregular.TTF, gobold.TTF)
	case "gomono":
		return NewProvider(gomono.TTF, gomonobold.TTF)
	default:
		return nil, fmt.Errorf(`Unrecognised builtin font "%s"`, name)
	}
}

// Close releases every cached face.
func (p *Provider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for s, f := range p.faces {
		f.Close()
		delete(p.faces, s)
	}
	return nil
}

// face must be called with p.mu held.
func (p *Provider) face(s Spec) (xfont.Face, error) {
	if f, ok := p.faces[s]; ok {
		return f, nil
	}
	if !(s.Size > 0 && s.Size <= MaxSize) {
		return nil, fmt.Errorf("%w: size %v", ErrMeasurementFailure, s.Size)
	}

	src := p.regular
	if s.Bold {
		src = p.bold
	}
	f, err := opentype.NewFace(src, &opentype.FaceOptions{
		Size:    s.Size,
		DPI:     dpi,
		Hinting: xfont.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: couldn't create face: %w", ErrMeasurementFailure, err)
	}
	p.faces[s] = f
	return f, nil
}

func (p *Provider) Measure(text string, s Spec) (float64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	f, err := p.face(s)
	if err != nil {
		return 0, err
	}
	return toFloat(xfont.MeasureString(f, norm.NFC.String(text))), nil
}

func (p *Provider) LineHeight(s Spec) (float64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	f, err := p.face(s)
	if err != nil {
		return 0, err
	}
	return toFloat(f.Metrics().Height), nil
}

func (p *Provider) Render(text string, s Spec) (*bitmap.PixelBitmap, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	f, err := p.face(s)
	if err != nil {
		return nil, err
	}
	text = norm.NFC.String(text)
	metrics := f.Metrics()
	width, height := xfont.MeasureString(f, text).Ceil(), metrics.Height.Ceil()
	if width <= 0 || height <= 0 {
		return bitmap.New(max(width, 0), max(height, 0))
	}
	if width > bitmap.MaxPixels/height {
		return nil, fmt.Errorf("%w: %d pixel wide text is too large to draw", ErrMeasurementFailure, width)
	}

	// The canvas is the advance box, so ink a glyph draws outside its advance
	// (a negative left bearing, a trailing italic overhang) is clipped.

	img := image.NewGray(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	d := &xfont.Drawer{
		Dst:  img,
		Src:  image.Black,
		Face: f,
		Dot:  fixed.P(0, metrics.Ascent.Ceil()),
	}
	d.DrawString(text)

	return bitmap.FromGray(img, bitmap.DefaultThreshold), nil
}

func toFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
