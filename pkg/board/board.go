package board

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"

	xdraw "golang.org/x/image/draw"

	"ttmemory/pkg/asm"
	"ttmemory/pkg/compiler"
	"ttmemory/pkg/logger"
)

const logTag = "board"

// CacheDir is where rendered optical code tiles are kept between runs.
const CacheDir = "oid-cache"

// TileSource provides the optical code image of a code.
type TileSource interface {
	Tile(ctx context.Context, code int) (image.Image, error)
}

// ToolTiles renders tiles with tttool and caches them on disk.
type ToolTiles struct {
	Tool   *asm.Tool
	Params asm.OIDParams
	Dir    string
}

// NewToolTiles returns a tile source for the given resolution.
func NewToolTiles(tool *asm.Tool, dpi, pixelSize int) *ToolTiles {
	return &ToolTiles{
		Tool:   tool,
		Params: asm.OIDParams{DPI: dpi, PixelSize: pixelSize, CodeDim: MaxCardSize},
		Dir:    CacheDir,
	}
}

// Tile implements TileSource.
func (t *ToolTiles) Tile(ctx context.Context, code int) (image.Image, error) {
	path, err := t.Tool.OIDCode(ctx, code, t.Params, t.Dir)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("tile %s: %w", path, err)
	}
	return img, nil
}

// Info is the printed content of a board.
type Info struct {
	Title     string
	ProductID int
	PixelSize int
	Codes     compiler.Codes
}

// Subtitle is the line printed under the title.
func (i Info) Subtitle(dpi int) string {
	return fmt.Sprintf("Id: %d, %ddpi, %dmm", i.ProductID, dpi, i.PixelSize)
}

type composer struct {
	ctx   context.Context
	img   *image.RGBA
	tiles TileSource
}

// tile draws the optical code for code into r, cut to a disc when round.
func (c *composer) tile(code int, r image.Rectangle, round bool) error {
	src, err := c.tiles.Tile(c.ctx, code)
	if err != nil {
		return err
	}
	sp := src.Bounds().Min
	if round {
		xdraw.DrawMask(c.img, r, src, sp, discMask(r), image.Point{}, xdraw.Over)
	} else {
		xdraw.Draw(c.img, r, src, sp, xdraw.Over)
	}
	return nil
}

func (c *composer) script(codes compiler.Codes, name string, r image.Rectangle, round bool) error {
	code, ok := codes[name]
	if !ok {
		return fmt.Errorf("no code for script %s", name)
	}
	return c.tile(code, r, round)
}

// Compose draws the board.
func Compose(ctx context.Context, l Layout, info Info, tiles TileSource) (*image.RGBA, error) {
	c := &composer{
		ctx:   ctx,
		img:   image.NewRGBA(image.Rect(0, 0, l.Width, l.Height)),
		tiles: tiles,
	}
	fillRect(c.img, c.img.Bounds(), image.White.C)

	dpi := l.DPI
	centerText(c.img, l.Width/2, l.YTitle, dpi/2, info.Title, black)
	centerText(c.img, l.Width/2, l.YSubtitle, dpi/8, info.Subtitle(dpi), lightGray)

	lineWidth := max(1, dpi/20)
	ring := max(1, dpi/60)
	for i := 0; i < l.Fields(); i++ {
		r := l.Circle(i)
		arc(c.img, r, 0, 360, ring, lightGray)
		cx := (r.Min.X + r.Max.X) / 2
		cy := (r.Min.Y + r.Max.Y) / 2
		d := l.CircleSize / 5

		var err error
		switch {
		case i == 0:
			inner := image.Rect(r.Min.X+d, r.Min.Y+d, r.Max.X-d, r.Max.Y-d)
			arc(c.img, inner, -30, 210, lineWidth, lightGray)
			fillRect(c.img, image.Rect(cx-lineWidth/2, r.Min.Y+l.CircleSize/4, cx+lineWidth/2+1, r.Min.Y+l.CircleSize*3/5), lightGray)
			err = c.tile(info.ProductID, r, true)
		case i <= l.Players:
			centerText(c.img, cx, cy, dpi*3/4, fmt.Sprint(i), lightGray)
			err = c.script(info.Codes, compiler.PlayerScript(i), r, true)
		case i == l.Players+1:
			centerText(c.img, cx, cy, dpi*3/4, "?", lightGray)
			err = c.script(info.Codes, compiler.QueryScript, r, true)
		default:
			inner := image.Rect(r.Min.X+d, r.Min.Y+d, r.Max.X-d, r.Max.Y-d)
			arc(c.img, inner, 0, 270, lineWidth, lightGray)
			top := r.Min.Y + d/2 + lineWidth/2
			triangle(c.img,
				image.Pt(cx, top),
				image.Pt(cx+d*2/3, top+d/2),
				image.Pt(cx, top+d),
				lightGray)
			err = c.script(info.Codes, compiler.RepeatScript, r, true)
		}
		if err != nil {
			return nil, err
		}
	}

	for i := 0; i < l.Cards; i++ {
		r := l.Card(i)
		outline(c.img, r, max(1, dpi/60), black)
		if err := c.script(info.Codes, compiler.CardScript(i), r, false); err != nil {
			return nil, err
		}
	}

	logger.Logf(logTag, "%d cards in %dx%d, %.1fmm each", l.Cards, l.Cols, l.Rows, l.CardSizeMM())
	return c.img, nil
}

// Save writes the board as a PNG file.
func Save(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	logger.Logf(logTag, "generated file: %s", path)
	return nil
}
