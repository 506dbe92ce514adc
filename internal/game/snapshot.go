package game

import (
	"fmt"
	"image/color"
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

// RegionView is the renderer's read-only view of a region.
type RegionView struct {
	ID       string  `msgpack:"id"`
	Kind     string  `msgpack:"kind"`
	X        float64 `msgpack:"x"`
	Y        float64 `msgpack:"y"`
	Width    float64 `msgpack:"w"`
	Height   float64 `msgpack:"h"`
	Rotation float64 `msgpack:"rot"`
	Level    int     `msgpack:"level"`
	Factor   int     `msgpack:"factor,omitempty"`
	Portal   string  `msgpack:"portal,omitempty"`

	Hovered        bool `msgpack:"hovered,omitempty"`         // the remover would delete it
	UpgradePreview bool `msgpack:"upgrade_preview,omitempty"` // the pending placement would upgrade it
}

// BallView is the renderer's view of a ball.
type BallView struct {
	X      float64  `msgpack:"x"`
	Y      float64  `msgpack:"y"`
	Radius float64  `msgpack:"r"`
	Level  int      `msgpack:"level"`
	Test   bool     `msgpack:"test,omitempty"`
	Color  [4]uint8 `msgpack:"color"`
}

// WallView is the renderer's view of a wall. Circles carry a radius,
// everything else its world-space outline.
type WallView struct {
	Shape    string       `msgpack:"shape"`
	X        float64      `msgpack:"x"`
	Y        float64      `msgpack:"y"`
	Radius   float64      `msgpack:"radius,omitempty"`
	Outline  [][2]float64 `msgpack:"outline,omitempty"`
	Hovered  bool         `msgpack:"hovered,omitempty"`
	Tank     bool         `msgpack:"tank,omitempty"`
	Rotation float64      `msgpack:"rot"`
}

// PlacementView previews what a click at the cursor would do.
type PlacementView struct {
	X        float64 `msgpack:"x"`
	Y        float64 `msgpack:"y"`
	Kind     string  `msgpack:"kind"`
	Rotation float64 `msgpack:"rot"`
	CanPlace bool    `msgpack:"can_place"`
	Upgrade  bool    `msgpack:"upgrade"`
}

// Snapshot is everything the renderer and the UI read in one frame.
type Snapshot struct {
	Tick      int            `msgpack:"tick"`
	Turn      int            `msgpack:"turn"`
	State     string         `msgpack:"state"`
	Wallet    Wallet         `msgpack:"wallet"`
	Loadout   Loadout        `msgpack:"loadout"`
	SpawnX    float64        `msgpack:"spawn_x"`
	DropReady bool           `msgpack:"drop_ready"`
	Floor     bool           `msgpack:"floor"`
	Paused    bool           `msgpack:"paused"`
	TestBalls int            `msgpack:"test_balls"`
	Offer     []string       `msgpack:"offer,omitempty"`
	Regions   []RegionView   `msgpack:"regions"`
	Balls     []BallView     `msgpack:"balls"`
	Walls     []WallView     `msgpack:"walls"`
	Placement *PlacementView `msgpack:"placement,omitempty"`
}

func rgba(c color.RGBA) [4]uint8 { return [4]uint8{c.R, c.G, c.B, c.A} }

// Snapshot captures the session for drawing. cursor, when non-nil, drives
// the hover and upgrade-preview flags.
func (s *Session) Snapshot(cursor *Vec) Snapshot {
	snap := Snapshot{
		Tick:      s.tick,
		Turn:      s.turn.Turn,
		State:     s.turn.State().String(),
		Wallet:    s.wallet,
		Loadout:   s.loadout,
		SpawnX:    s.SpawnX(),
		DropReady: s.DropReady(),
		Floor:     s.reg.HasFloor(),
		Paused:    s.paused,
		TestBalls: s.testBallCount,
	}
	if s.items.OfferOpen {
		for _, k := range s.items.Offer {
			snap.Offer = append(snap.Offer, k.String())
		}
	}

	var hovered *Region
	var hoveredWall *Wall
	var preview *Region
	if cursor != nil {
		if s.tool == ToolRemove && !s.items.IsPlacing() {
			hovered = s.reg.RegionAt(*cursor)
			if hovered == nil {
				hoveredWall = s.reg.WallAt(*cursor)
			}
		}
		snap.Placement = s.previewAt(*cursor)
		if snap.Placement != nil && snap.Placement.Upgrade {
			kind, _ := s.pendingRegionKind()
			preview = s.reg.ValidatePlacement(*cursor, kind).Upgrade
		}
	}

	for _, r := range s.reg.All() {
		v := RegionView{
			ID:       r.ID.String(),
			Kind:     r.Kind.String(),
			X:        r.Center.X,
			Y:        r.Center.Y,
			Width:    r.Width,
			Height:   r.Height,
			Rotation: r.Rotation,
			Level:    r.Level,
			Factor:   r.Factor,
		}
		if r.Kind == KindPortal {
			v.Portal = r.Color.String()
		}
		v.Hovered = r == hovered
		v.UpgradePreview = r == preview
		snap.Regions = append(snap.Regions, v)
	}
	for _, b := range s.balls {
		p := b.Position()
		snap.Balls = append(snap.Balls, BallView{
			X: p.X, Y: p.Y, Radius: s.cfg.BallRadius,
			Level: b.Level, Test: b.IsTest, Color: rgba(b.Color),
		})
	}
	for _, w := range s.reg.Walls() {
		v := WallView{
			Shape:    w.Shape.String(),
			X:        w.Center.X,
			Y:        w.Center.Y,
			Rotation: w.Rotation,
			Hovered:  w == hoveredWall,
			Tank:     !w.Removable(),
		}
		if w.body.IsCircle() {
			v.Radius = w.body.Radius()
		} else {
			for _, p := range w.body.Vertices() {
				v.Outline = append(v.Outline, [2]float64{p.X, p.Y})
			}
		}
		snap.Walls = append(snap.Walls, v)
	}
	return snap
}

// pendingRegionKind is the region kind a click would place, if any.
func (s *Session) pendingRegionKind() (RegionKind, bool) {
	if s.items.IsPlacing() {
		return s.items.Placing.RegionKind()
	}
	if s.tool == ToolPortal {
		return KindPortal, true
	}
	return s.tool.regionKind()
}

// previewAt describes the placement a click at p would make, or nil when
// the current tool does not place anything.
func (s *Session) previewAt(p Vec) *PlacementView {
	if s.items.IsPlacing() {
		if shape, ok := s.items.Placing.WallShape(); ok {
			return &PlacementView{X: p.X, Y: p.Y, Kind: shape.String(), Rotation: s.items.Rotation, CanPlace: true}
		}
	}
	kind, ok := s.pendingRegionKind()
	if !ok {
		return nil
	}
	pl := s.reg.ValidatePlacement(p, kind)
	v := &PlacementView{X: p.X, Y: p.Y, Kind: kind.String(), CanPlace: pl.CanPlace, Upgrade: pl.Upgrade != nil}
	if s.items.IsPlacing() {
		v.Rotation = s.items.Rotation
	}
	return v
}

// EncodeSnapshot writes snap as MessagePack.
func EncodeSnapshot(w io.Writer, snap Snapshot) error {
	if err := msgpack.NewEncoder(w).Encode(&snap); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return nil
}

// DecodeSnapshot reads a MessagePack snapshot written by EncodeSnapshot.
func DecodeSnapshot(r io.Reader) (Snapshot, error) {
	var snap Snapshot
	if err := msgpack.NewDecoder(r).Decode(&snap); err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return snap, nil
}
