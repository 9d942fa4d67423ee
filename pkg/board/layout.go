// Package board lays out and draws the printable game board: a title, a
// header row of round fields (start, one per player, query, repeat) and the
// card squares, each carrying its optical code.
package board

import (
	"errors"
	"fmt"
	"image"
	"math"

	"ttmemory/pkg/grid"
)

// MaxCardSize is the largest card edge in mm.
const MaxCardSize = 50.0

// MaxCircleSize is the largest header field diameter in mm.
const MaxCircleSize = 25.0

// ErrNoLayout is returned when the cards do not fit on the page.
var ErrNoLayout = errors.New("cards do not fit on the page")

// Page describes the paper and what goes on it.
type Page struct {
	// page size in mm
	Width  float64
	Height float64

	DPI     int
	Cards   int
	Players int
}

// MM2Px converts mm into pixels.
func MM2Px(mm float64, dpi int) int {
	return int(mm * float64(dpi) / 25.4)
}

// Layout holds the pixel geometry of a board.
type Layout struct {
	Page

	Width  int
	Height int
	Margin float64

	YTitle    int
	YSubtitle int
	YHeader   int
	YCards    int

	CircleSize int
	circleGap  float64

	Rows     int
	Cols     int
	CardSize int
	cardLeft float64
}

// NewLayout chooses the number of rows and columns giving the largest cards.
func NewLayout(s Page) (Layout, error) {
	if s.DPI <= 0 || s.Cards <= 0 {
		return Layout{}, fmt.Errorf("%w: %d cards at %d dpi", ErrNoLayout, s.Cards, s.DPI)
	}

	l := Layout{
		Page:   s,
		Width:  MM2Px(s.Width, s.DPI),
		Height: MM2Px(s.Height, s.DPI),
		Margin: float64(s.DPI) / 6,
	}
	l.YTitle = MM2Px(10, s.DPI)
	l.YSubtitle = l.YTitle + MM2Px(10, s.DPI)
	l.YHeader = l.YSubtitle + MM2Px(10, s.DPI)
	l.YCards = l.YHeader + MM2Px(30, s.DPI)

	fields := s.Players + 3
	l.CircleSize = min(MM2Px(MaxCircleSize, s.DPI), int(float64(l.Width)/float64(fields)*0.95))
	l.circleGap = float64(l.Width-fields*l.CircleSize) / float64(fields-1)

	w := float64(l.Width)
	h := float64(l.Height - l.YCards)
	for c := 1; c <= s.Cards; c++ {
		r := (s.Cards + c - 1) / c

		// fill horizontally
		size := int((w - float64(c-1)*l.Margin) / float64(c))
		if float64(r*size)+float64(r-1)*l.Margin <= h && size >= l.CardSize {
			l.CardSize, l.Rows, l.Cols = size, r, c
		}

		// fill vertically
		size = int((h - float64(r-1)*l.Margin) / float64(r))
		if float64(c*size)+float64(c-1)*l.Margin <= w && size >= l.CardSize {
			l.CardSize, l.Rows, l.Cols = size, r, c
		}
	}
	if l.CardSize <= 0 {
		return Layout{}, fmt.Errorf("%w: %d cards on %.0fx%.0fmm", ErrNoLayout, s.Cards, s.Width, s.Height)
	}

	l.CardSize = min(l.CardSize, MM2Px(MaxCardSize, s.DPI))
	l.cardLeft = (w - float64(l.Cols*l.CardSize) - float64(l.Cols-1)*l.Margin) / 2
	return l, nil
}

// Fields is the number of round header fields.
func (l Layout) Fields() int {
	return l.Players + 3
}

// Circle returns the bounds of header field i. Field 0 is start, fields
// 1..Players the players, then query and repeat.
func (l Layout) Circle(i int) image.Rectangle {
	x := int(float64(i) * (float64(l.CircleSize) + l.circleGap))
	return image.Rect(x, l.YHeader, x+l.CircleSize+1, l.YHeader+l.CircleSize+1)
}

// Card returns the bounds of the square of card i.
func (l Layout) Card(i int) image.Rectangle {
	col, row := grid.GetGridCoords(i, l.Cols)
	x := int(float64(col)*(float64(l.CardSize)+l.Margin) + l.cardLeft)
	y := int(float64(row)*(float64(l.CardSize)+l.Margin)) + l.YCards
	return image.Rect(x, y, x+l.CardSize+1, y+l.CardSize+1)
}

// CardSizeMM is the printed card edge in mm.
func (l Layout) CardSizeMM() float64 {
	return math.Round(float64(l.CardSize)*25.4/float64(l.DPI)*10) / 10
}
