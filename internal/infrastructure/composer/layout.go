package composer

import (
	"image"
	"strings"
)

const maxAccessories = 3

// Доли холста S в процентах.
const (
	leftColumnPct   = 60
	outerRegionPct  = 45 // верх правой колонки
	footRegionPct   = 32 // низ правой колонки
	largeBoxPct     = 46
	footBoxPct      = 32
	accessoryBoxPct = 22
)

func pct(size, p int) int {
	return size * p / 100
}

type bucket int

const (
	bucketUpper bucket = iota
	bucketBottom
	bucketFootwear
	bucketOuter
	bucketAccessories
)

// bucketOf раскладывает группу по подстроке в нижнем регистре. Всё нераспознанное уходит в аксессуары.
func bucketOf(group string) bucket {
	g := strings.ToLower(group)
	switch {
	case strings.Contains(g, "upper"):
		return bucketUpper
	case strings.Contains(g, "bottom"):
		return bucketBottom
	case strings.Contains(g, "foot"):
		return bucketFootwear
	case strings.Contains(g, "outer"):
		return bucketOuter
	default:
		return bucketAccessories
	}
}

// slot - область холста и предельный размер картинки в ней.
type slot struct {
	region image.Rectangle
	boxW   int
	boxH   int
}

func newSlot(region image.Rectangle, box int) slot {
	return slot{
		region: region,
		boxW:   min(box, region.Dx()),
		boxH:   min(box, region.Dy()),
	}
}

// place вписывает картинку w×h в бокс с сохранением пропорций (и вверх, и вниз) и центрирует в области.
func (s slot) place(w, h int) image.Rectangle {
	if w <= 0 || h <= 0 {
		return image.Rectangle{}
	}

	var nw, nh int
	if w*s.boxH >= h*s.boxW {
		nw, nh = s.boxW, max(h*s.boxW/w, 1)
	} else {
		nw, nh = max(w*s.boxH/h, 1), s.boxH
	}

	x := s.region.Min.X + (s.region.Dx()-nw)/2
	y := s.region.Min.Y + (s.region.Dy()-nh)/2
	return image.Rect(x, y, x+nw, y+nh)
}

// layout - раскладка холста size×size.
type layout struct {
	size        int
	upper       slot
	bottom      slot
	outer       slot
	footwear    slot
	accessories []slot
}

func newLayout(size, accessories int) layout {
	leftW := pct(size, leftColumnPct)
	halfH := size / 2
	outerBottom := pct(size, outerRegionPct)
	footTop := size - pct(size, footRegionPct)

	large := pct(size, largeBoxPct)

	l := layout{
		size:     size,
		upper:    newSlot(image.Rect(0, 0, leftW, halfH), large),
		bottom:   newSlot(image.Rect(0, halfH, leftW, size), large),
		outer:    newSlot(image.Rect(leftW, 0, size, outerBottom), large),
		footwear: newSlot(image.Rect(leftW, footTop, size, size), pct(size, footBoxPct)),
	}

	n := min(accessories, maxAccessories)
	if n > 0 {
		band := footTop - outerBottom
		accBox := pct(size, accessoryBoxPct)
		l.accessories = make([]slot, n)
		for i := range n {
			top := outerBottom + band*i/n
			bottom := outerBottom + band*(i+1)/n
			l.accessories[i] = newSlot(image.Rect(leftW, top, size, bottom), accBox)
		}
	}

	return l
}
