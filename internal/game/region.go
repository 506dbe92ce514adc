package game

import (
	"github.com/google/uuid"

	"github.com/Garsondee/Ball-Drop/internal/physics"
)

// RegionKind enumerates the functional zones a ball can pass through.
type RegionKind int

const (
	KindMultiplier RegionKind = iota
	KindCash
	KindLevelUp
	KindPortal
	KindPermanentCash
)

func (k RegionKind) String() string {
	switch k {
	case KindMultiplier:
		return "multiplier"
	case KindCash:
		return "cash"
	case KindLevelUp:
		return "level_up"
	case KindPortal:
		return "portal"
	case KindPermanentCash:
		return "permanent_cash"
	default:
		return "unknown"
	}
}

// PortalColor distinguishes entry (blue) from exit (orange) portals.
type PortalColor int

const (
	PortalBlue PortalColor = iota
	PortalOrange
)

func (c PortalColor) String() string {
	if c == PortalOrange {
		return "orange"
	}
	return "blue"
}

// Region is a static sensor zone. Its AABB is taken before rotation; the
// rotation only shapes the sensor body and the drawing.
type Region struct {
	ID       uuid.UUID
	Kind     RegionKind
	Center   Vec
	Width    float64
	Height   float64
	Rotation float64

	Level  int         // cash, level-up, multiplier
	Factor int         // multiplier only: clones spawned = Factor-1
	Color  PortalColor // portal only

	body *physics.Body
}

// Bounds returns the unrotated bounding box.
func (r *Region) Bounds() Rect { return RectAround(r.Center, r.Width, r.Height) }

// Contains reports whether p is inside the region's bounding box.
func (r *Region) Contains(p Vec) bool { return r.Bounds().Contains(p) }

// Body returns the sensor body owned by the region.
func (r *Region) Body() *physics.Body { return r.body }

// WallShape enumerates solid obstacles.
type WallShape int

const (
	WallSegment WallShape = iota // drawn with the wall tool
	WallSquare
	WallCircle
	WallTriangle
	WallHexagon
	WallBar
	WallTank // tank sides, roof and floor; never removable
)

func (s WallShape) String() string {
	switch s {
	case WallSegment:
		return "segment"
	case WallSquare:
		return "square"
	case WallCircle:
		return "circle"
	case WallTriangle:
		return "triangle"
	case WallHexagon:
		return "hexagon"
	case WallBar:
		return "bar"
	case WallTank:
		return "tank"
	default:
		return "unknown"
	}
}

// Stock wall item sizes.
const (
	wallSquareSize   = 80
	wallCircleRadius = 50
	wallTriangleSize = 120
	wallHexagonSize  = 100
	wallBarLength    = 200
	wallBarThickness = 20
)

// Wall is a static solid body.
type Wall struct {
	Shape    WallShape
	Center   Vec
	Size     float64
	Rotation float64

	body *physics.Body
}

// Body returns the solid body owned by the wall.
func (w *Wall) Body() *physics.Body { return w.body }

// Contains reports whether p lies inside the wall's shape.
func (w *Wall) Contains(p Vec) bool { return w.body.ContainsPoint(p) }

// Removable reports whether the remover tool may delete this wall.
func (w *Wall) Removable() bool { return w.Shape != WallTank }
