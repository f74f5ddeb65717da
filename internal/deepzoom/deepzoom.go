// Package deepzoom describes Deep Zoom Image (DZI) tile pyramids: the
// descriptor document, per-level dimensions, the tile grid and tile URLs,
// plus the options handed to the tile viewer.
package deepzoom

import (
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"math"
	"strings"
)

const Namespace = "http://schemas.microsoft.com/deepzoom/2008"

var (
	ErrLevelRange = errors.New("deepzoom: level out of range")
	ErrTileRange  = errors.New("deepzoom: tile out of range")
	ErrSource     = errors.New("deepzoom: invalid tile source")
)

// TileSource is one DZI image. URL is the tile directory and ends in a
// slash, e.g. ".../duomo_files/".
type TileSource struct {
	URL      string `json:"url" yaml:"url"`
	Format   string `json:"format" yaml:"format"`
	Overlap  int    `json:"overlap" yaml:"overlap"`
	TileSize int    `json:"tileSize" yaml:"tile_size"`
	Width    int    `json:"width" yaml:"width"`
	Height   int    `json:"height" yaml:"height"`
}

// Default is the sample image shown by the viewer page.
func Default() TileSource {
	return TileSource{
		URL:      "https://openseadragon.github.io/example-images/duomo/duomo_files/",
		Format:   "jpg",
		Overlap:  2,
		TileSize: 256,
		Width:    13920,
		Height:   10200,
	}
}

func (s TileSource) Validate() error {
	switch {
	case s.URL == "":
		return fmt.Errorf("%w: empty url", ErrSource)
	case s.Format == "":
		return fmt.Errorf("%w: empty format", ErrSource)
	case s.TileSize <= 0:
		return fmt.Errorf("%w: tile size %d", ErrSource, s.TileSize)
	case s.Overlap < 0 || s.Overlap >= s.TileSize:
		return fmt.Errorf("%w: overlap %d", ErrSource, s.Overlap)
	case s.Width <= 0 || s.Height <= 0:
		return fmt.Errorf("%w: size %dx%d", ErrSource, s.Width, s.Height)
	}
	return nil
}

// MaxLevel is the level at full resolution. Level 0 is a single pixel.
func (s TileSource) MaxLevel() int {
	return int(math.Ceil(math.Log2(float64(max(s.Width, s.Height)))))
}

// Levels is the number of pyramid levels.
func (s TileSource) Levels() int { return s.MaxLevel() + 1 }

// LevelSize returns the image dimensions at a level.
func (s TileSource) LevelSize(level int) (w, h int, err error) {
	maxLevel := s.MaxLevel()
	if level < 0 || level > maxLevel {
		return 0, 0, fmt.Errorf("%w: %d not in [0, %d]", ErrLevelRange, level, maxLevel)
	}
	scale := math.Pow(2, float64(level-maxLevel))
	w = int(math.Ceil(float64(s.Width) * scale))
	h = int(math.Ceil(float64(s.Height) * scale))
	return max(w, 1), max(h, 1), nil
}

// TileCount returns the tile grid dimensions at a level.
func (s TileSource) TileCount(level int) (cols, rows int, err error) {
	w, h, err := s.LevelSize(level)
	if err != nil {
		return 0, 0, err
	}
	return ceilDiv(w, s.TileSize), ceilDiv(h, s.TileSize), nil
}

// TotalTiles counts tiles across every level.
func (s TileSource) TotalTiles() int {
	n := 0
	for l := 0; l <= s.MaxLevel(); l++ {
		c, r, _ := s.TileCount(l)
		n += c * r
	}
	return n
}

// Rect is a pixel rectangle within a level.
type Rect struct {
	X, Y, W, H int
}

// TileBounds returns the pixels covered by a tile, overlap included.
func (s TileSource) TileBounds(level, col, row int) (Rect, error) {
	w, h, err := s.LevelSize(level)
	if err != nil {
		return Rect{}, err
	}
	cols, rows := ceilDiv(w, s.TileSize), ceilDiv(h, s.TileSize)
	if col < 0 || row < 0 || col >= cols || row >= rows {
		return Rect{}, fmt.Errorf("%w: %d_%d at level %d", ErrTileRange, col, row, level)
	}
	span := func(i, total int) (int, int) {
		start := i*s.TileSize - s.Overlap
		if i == 0 {
			start = 0
		}
		end := min((i+1)*s.TileSize+s.Overlap, total)
		return start, end - start
	}
	x, tw := span(col, w)
	y, th := span(row, h)
	return Rect{X: x, Y: y, W: tw, H: th}, nil
}

// TileURL returns the address of one tile: <url><level>/<col>_<row>.<format>.
func (s TileSource) TileURL(level, col, row int) (string, error) {
	if _, err := s.TileBounds(level, col, row); err != nil {
		return "", err
	}
	base := s.URL
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return fmt.Sprintf("%s%d/%d_%d.%s", base, level, col, row, s.Format), nil
}

type xmlImage struct {
	XMLName  xml.Name `xml:"Image"`
	Xmlns    string   `xml:"xmlns,attr"`
	Format   string   `xml:"Format,attr"`
	Overlap  int      `xml:"Overlap,attr"`
	TileSize int      `xml:"TileSize,attr"`
	Size     struct {
		Width  int `xml:"Width,attr"`
		Height int `xml:"Height,attr"`
	} `xml:"Size"`
}

// Descriptor renders the .dzi document for the source.
func (s TileSource) Descriptor() ([]byte, error) {
	img := xmlImage{Xmlns: Namespace, Format: s.Format, Overlap: s.Overlap, TileSize: s.TileSize}
	img.Size.Width, img.Size.Height = s.Width, s.Height
	out, err := xml.MarshalIndent(img, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), out...), nil
}

// ParseDescriptor reads a .dzi document. The tile URL is not part of the
// document and must be supplied by the caller.
func ParseDescriptor(data []byte, url string) (TileSource, error) {
	var img xmlImage
	if err := xml.Unmarshal(data, &img); err != nil {
		return TileSource{}, fmt.Errorf("deepzoom: parse descriptor: %w", err)
	}
	if img.Xmlns != "" && img.Xmlns != Namespace {
		return TileSource{}, fmt.Errorf("%w: namespace %q", ErrSource, img.Xmlns)
	}
	s := TileSource{
		URL:      url,
		Format:   img.Format,
		Overlap:  img.Overlap,
		TileSize: img.TileSize,
		Width:    img.Size.Width,
		Height:   img.Size.Height,
	}
	return s, s.Validate()
}

// Margins are viewport insets in screen pixels.
type Margins struct {
	Top    int `json:"top"`
	Bottom int `json:"bottom"`
	Left   int `json:"left"`
	Right  int `json:"right"`
}

// ViewerOptions configure the pan/zoom widget that displays a source.
type ViewerOptions struct {
	ID                  string  `json:"id"`
	PrefixURL           string  `json:"prefixUrl"`
	ShowNavigator       bool    `json:"showNavigator"`
	NavigatorSizeRatio  float64 `json:"navigatorSizeRatio"`
	NavigatorPosition   string  `json:"navigatorPosition"`
	ViewportMargins     Margins `json:"viewportMargins"`
	ShowZoomControl     bool    `json:"showZoomControl"`
	ShowHomeControl     bool    `json:"showHomeControl"`
	ShowFullPageControl bool    `json:"showFullPageControl"`
}

func DefaultViewer() ViewerOptions {
	return ViewerOptions{
		ID:                  "openseadragon-viewer",
		PrefixURL:           "https://cdnjs.cloudflare.com/ajax/libs/openseadragon/4.1.0/images/",
		ShowNavigator:       true,
		NavigatorSizeRatio:  0.2,
		NavigatorPosition:   "BOTTOM_RIGHT",
		ViewportMargins:     Margins{Top: 20, Bottom: 20, Left: 20, Right: 20},
		ShowZoomControl:     true,
		ShowHomeControl:     true,
		ShowFullPageControl: true,
	}
}

// ViewerConfig renders the options plus an inline tile source as the JSON
// object a viewer is constructed with.
func ViewerConfig(opts ViewerOptions, src TileSource) ([]byte, error) {
	type size struct {
		Width  string
		Height string
	}
	type image struct {
		Xmlns    string `json:"xmlns"`
		Url      string
		Format   string
		Overlap  string
		TileSize string
		Size     size
	}
	doc := struct {
		ViewerOptions
		TileSources struct {
			Image image
		} `json:"tileSources"`
	}{ViewerOptions: opts}
	doc.TileSources.Image = image{
		Xmlns:    Namespace,
		Url:      src.URL,
		Format:   src.Format,
		Overlap:  fmt.Sprint(src.Overlap),
		TileSize: fmt.Sprint(src.TileSize),
		Size:     size{Width: fmt.Sprint(src.Width), Height: fmt.Sprint(src.Height)},
	}
	return json.MarshalIndent(doc, "", "  ")
}

func ceilDiv(a, b int) int { return (a + b - 1) / b }
