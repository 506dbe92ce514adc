package game

import (
	"math"
	"math/rand"
)

// ItemKind enumerates the per-turn items a player can be offered.
type ItemKind int

const (
	ItemWallSquare ItemKind = iota
	ItemWallCircle
	ItemWallTriangle
	ItemWallHexagon
	ItemWallBar
	ItemCash
	ItemMultiplier
	ItemLevelUp
	ItemBallLevel
	ItemBallCount
)

var itemNames = map[ItemKind]string{
	ItemWallSquare:   "wall_square",
	ItemWallCircle:   "wall_circle",
	ItemWallTriangle: "wall_triangle",
	ItemWallHexagon:  "wall_hexagon",
	ItemWallBar:      "wall_bar",
	ItemCash:         "cash",
	ItemMultiplier:   "multiplier",
	ItemLevelUp:      "level_up",
	ItemBallLevel:    "ball_level",
	ItemBallCount:    "ball_count",
}

func (k ItemKind) String() string {
	if s, ok := itemNames[k]; ok {
		return s
	}
	return "unknown"
}

var (
	wallItems   = []ItemKind{ItemWallSquare, ItemWallCircle, ItemWallTriangle, ItemWallHexagon, ItemWallBar}
	regionItems = []ItemKind{ItemCash, ItemMultiplier, ItemLevelUp}
)

// WallShape returns the wall an item places, if it is a wall item.
func (k ItemKind) WallShape() (WallShape, bool) {
	switch k {
	case ItemWallSquare:
		return WallSquare, true
	case ItemWallCircle:
		return WallCircle, true
	case ItemWallTriangle:
		return WallTriangle, true
	case ItemWallHexagon:
		return WallHexagon, true
	case ItemWallBar:
		return WallBar, true
	}
	return 0, false
}

// RegionKind returns the region an item places, if it is a region item.
func (k ItemKind) RegionKind() (RegionKind, bool) {
	switch k {
	case ItemCash:
		return KindCash, true
	case ItemMultiplier:
		return KindMultiplier, true
	case ItemLevelUp:
		return KindLevelUp, true
	}
	return 0, false
}

// Immediate reports whether choosing the item applies it at once instead of
// entering placement mode.
func (k ItemKind) Immediate() bool { return k == ItemBallLevel || k == ItemBallCount }

// defaultRotation is the rotation an item starts with in placement mode.
func (k ItemKind) defaultRotation() float64 {
	if k == ItemWallSquare {
		return math.Pi / 4
	}
	return 0
}

const rotationStep = 0.1

// ItemState tracks the turn's item offer and placement mode.
type ItemState struct {
	Offer     []ItemKind
	OfferOpen bool
	Used      bool

	Placing  ItemKind
	placing  bool
	Rotation float64
}

// IsPlacing reports whether an item is waiting to be placed.
func (is ItemState) IsPlacing() bool { return is.placing }

// Offered reports whether k is part of the current offer and still usable.
func (is *ItemState) Offered(k ItemKind) bool {
	if is.Used {
		return false
	}
	for _, o := range is.Offer {
		if o == k {
			return true
		}
	}
	return false
}

// reset makes every item available again for a new turn.
func (is *ItemState) reset() {
	is.Offer = nil
	is.OfferOpen = false
	is.Used = false
	is.placing = false
	is.Rotation = 0
}

// rollOffer picks two distinct wall items, one region item, and ball count.
func (is *ItemState) rollOffer(rng *rand.Rand) {
	walls := append([]ItemKind(nil), wallItems...)
	rng.Shuffle(len(walls), func(i, j int) { walls[i], walls[j] = walls[j], walls[i] })
	is.Offer = []ItemKind{
		walls[0],
		walls[1],
		regionItems[rng.Intn(len(regionItems))],
		ItemBallCount,
	}
	is.OfferOpen = true
}

// beginPlacing enters placement mode for k.
func (is *ItemState) beginPlacing(k ItemKind) {
	is.Placing = k
	is.placing = true
	is.Rotation = k.defaultRotation()
	is.OfferOpen = false
}

// consume marks every item of the turn as used and leaves placement mode.
func (is *ItemState) consume() {
	is.Used = true
	is.placing = false
	is.OfferOpen = false
}

// rotate turns the pending item by steps×0.1 rad, wrapped into [0, 2π).
func (is *ItemState) rotate(steps int) {
	is.Rotation = normalizeAngle(is.Rotation + float64(steps)*rotationStep)
}
