package game

import (
	"image/color"
	"strconv"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/Ball-Drop/internal/physics"
)

var (
	bgColor       = color.RGBA{R: 18, G: 18, B: 24, A: 255}
	tankColor     = color.RGBA{R: 30, G: 32, B: 42, A: 255}
	wallColor     = color.RGBA{R: 110, G: 110, B: 125, A: 255}
	tankWallColor = color.RGBA{R: 70, G: 70, B: 85, A: 255}
	hoverColor    = color.RGBA{R: 255, G: 80, B: 80, A: 255}
	upgradeColor  = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

var regionColors = map[string]color.RGBA{
	KindMultiplier.String():    {R: 155, G: 89, B: 182, A: 170},
	KindCash.String():          {R: 46, G: 204, B: 113, A: 170},
	KindLevelUp.String():       {R: 241, G: 196, B: 15, A: 170},
	KindPermanentCash.String(): {R: 39, G: 174, B: 96, A: 200},
	"blue":                     {R: 52, G: 152, B: 219, A: 190},
	"orange":                   {R: 230, G: 126, B: 34, A: 190},
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(bgColor)
	snap := g.session.Snapshot(g.cursorPtr())

	ox, oy := float32(g.offX), float32(g.offY)
	cfg := g.session.Config()
	vector.FillRect(screen, ox, oy, float32(cfg.TankWidth), float32(cfg.TankHeight), tankColor, false)

	for _, r := range snap.Regions {
		g.drawRegion(screen, r)
	}
	for _, w := range snap.Walls {
		g.drawWall(screen, w)
	}
	for _, b := range snap.Balls {
		c := color.RGBA{R: b.Color[0], G: b.Color[1], B: b.Color[2], A: b.Color[3]}
		vector.FillCircle(screen, ox+float32(b.X), oy+float32(b.Y), float32(b.Radius), c, true)
	}
	g.drawFeedback(screen)
	if snap.DropReady {
		g.drawSpawnIndicator(screen, snap.SpawnX)
	}
	if snap.Placement != nil && g.cursorIn {
		g.drawPlacementPreview(screen, *snap.Placement)
	}
	if g.wallStart != nil {
		vector.StrokeLine(screen, ox+float32(g.wallStart.X), oy+float32(g.wallStart.Y),
			ox+float32(g.cursor.X), oy+float32(g.cursor.Y), float32(cfg.WallThickness), color.RGBA{R: 110, G: 110, B: 125, A: 140}, false)
	}

	g.drawHUD(screen, snap)
	g.events.Draw(screen, g.width-logPanelWidth, g.height)
	if len(snap.Offer) > 0 {
		g.drawOffer(screen, snap.Offer)
	}
}

func (g *Game) cursorPtr() *Vec {
	if !g.cursorIn {
		return nil
	}
	c := g.cursor
	return &c
}

// fillRotatedRect fills a w×h rectangle centred on (cx,cy) in tank space.
func (g *Game) fillRotatedRect(screen *ebiten.Image, cx, cy, w, h, rot float64, c color.RGBA) {
	g.fillPolygon(screen, cx, cy, physics.RectVertices(w, h, rot), c)
}

func (g *Game) strokeOutline(screen *ebiten.Image, pts []Vec, width float32, c color.RGBA) {
	ox, oy := float32(g.offX), float32(g.offY)
	for i := range pts {
		a, b := pts[i], pts[(i+1)%len(pts)]
		vector.StrokeLine(screen, ox+float32(a.X), oy+float32(a.Y), ox+float32(b.X), oy+float32(b.Y), width, c, true)
	}
}

func (g *Game) drawRegion(screen *ebiten.Image, r RegionView) {
	key := r.Kind
	if r.Portal != "" {
		key = r.Portal
	}
	c, ok := regionColors[key]
	if !ok {
		c = color.RGBA{R: 128, G: 128, B: 128, A: 160}
	}
	g.fillRotatedRect(screen, r.X, r.Y, r.Width, r.Height, r.Rotation, c)

	label := regionLabelText(r)
	drawTextCentered(screen, label, g.offX+int(r.X), g.offY+int(r.Y)+4, color.White)

	switch {
	case r.Hovered:
		g.strokeOutline(screen, rotatedCorners(r), 2, hoverColor)
	case r.UpgradePreview:
		g.strokeOutline(screen, rotatedCorners(r), 2, upgradeColor)
	}
}

func rotatedCorners(r RegionView) []Vec {
	vs := physics.RectVertices(r.Width, r.Height, r.Rotation)
	for i := range vs {
		vs[i] = vs[i].Add(Vec{X: r.X, Y: r.Y})
	}
	return vs
}

func regionLabelText(r RegionView) string {
	switch r.Kind {
	case KindMultiplier.String():
		return "x" + strconv.Itoa(r.Factor)
	case KindCash.String(), KindPermanentCash.String():
		return "$" + strconv.Itoa(r.Level)
	case KindLevelUp.String():
		return "+" + strconv.Itoa(r.Level)
	case KindPortal.String():
		if r.Portal == PortalBlue.String() {
			return "IN"
		}
		return "OUT"
	}
	return ""
}

func (g *Game) drawWall(screen *ebiten.Image, w WallView) {
	c := wallColor
	if w.Tank {
		c = tankWallColor
	}
	if w.Hovered {
		c = hoverColor
	}
	ox, oy := float32(g.offX), float32(g.offY)
	if w.Radius > 0 {
		vector.FillCircle(screen, ox+float32(w.X), oy+float32(w.Y), float32(w.Radius), c, true)
		return
	}
	var path vector.Path
	for i, p := range w.Outline {
		if i == 0 {
			path.MoveTo(ox+float32(p[0]), oy+float32(p[1]))
		} else {
			path.LineTo(ox+float32(p[0]), oy+float32(p[1]))
		}
	}
	path.Close()
	opts := &vector.DrawPathOptions{AntiAlias: true}
	opts.ColorScale.ScaleWithColor(c)
	vector.FillPath(screen, &path, &vector.FillOptions{}, opts)
}

// drawFeedback draws the floating "+$" markers left by payouts.
func (g *Game) drawFeedback(screen *ebiten.Image) {
	for _, f := range g.session.Feedback() {
		a := uint8(255 * f.Alpha())
		c := color.RGBA{R: 80, G: 230, B: 120, A: a}
		x := g.offX + int(f.Pos.X)
		y := g.offY + int(f.Pos.Y-10-f.Rise())
		drawTextCentered(screen, "+$"+strconv.Itoa(int(f.Amount)), x, y, c)
	}
}

// drawSpawnIndicator draws the DROP chevron over the turn's spawn x.
func (g *Game) drawSpawnIndicator(screen *ebiten.Image, spawnX float64) {
	cfg := g.session.Config()
	x := float32(g.offX) + float32(spawnX)
	y := float32(g.offY) + float32(cfg.spawnY())
	c := color.RGBA{R: 255, G: 255, B: 255, A: 220}
	const size = 10
	vector.StrokeLine(screen, x-size, y-size, x, y, 2, c, true)
	vector.StrokeLine(screen, x+size, y-size, x, y, 2, c, true)
	drawTextCentered(screen, "DROP", int(x), int(y)-size-4, c)
}

// drawPlacementPreview ghosts the pending placement under the cursor: green
// when it can go there, red when it conflicts, white when it upgrades.
func (g *Game) drawPlacementPreview(screen *ebiten.Image, p PlacementView) {
	c := color.RGBA{R: 80, G: 220, B: 120, A: 90}
	switch {
	case p.Upgrade:
		c = color.RGBA{R: 255, G: 255, B: 255, A: 90}
	case !p.CanPlace:
		c = color.RGBA{R: 230, G: 60, B: 60, A: 90}
	}
	cfg := g.session.Config()
	switch p.Kind {
	case WallSquare.String():
		g.fillRotatedRect(screen, p.X, p.Y, wallSquareSize, wallSquareSize, p.Rotation, c)
	case WallBar.String():
		g.fillRotatedRect(screen, p.X, p.Y, wallBarLength, wallBarThickness, p.Rotation, c)
	case WallCircle.String():
		vector.FillCircle(screen, float32(g.offX)+float32(p.X), float32(g.offY)+float32(p.Y), wallCircleRadius, c, true)
	case WallTriangle.String():
		g.fillPolygon(screen, p.X, p.Y, trianglePolygon(wallTriangleSize, p.Rotation), c)
	case WallHexagon.String():
		g.fillPolygon(screen, p.X, p.Y, regularPolygon(6, wallHexagonSize/2, p.Rotation), c)
	default:
		g.fillRotatedRect(screen, p.X, p.Y, cfg.RegionWidth, cfg.RegionHeight, p.Rotation, c)
		vector.StrokeCircle(screen, float32(g.offX)+float32(p.X), float32(g.offY)+float32(p.Y), float32(cfg.MinDistance), 1, c, true)
	}
}

func (g *Game) fillPolygon(screen *ebiten.Image, cx, cy float64, local []Vec, c color.RGBA) {
	var path vector.Path
	for i, v := range local {
		x := float32(g.offX) + float32(cx+v.X)
		y := float32(g.offY) + float32(cy+v.Y)
		if i == 0 {
			path.MoveTo(x, y)
		} else {
			path.LineTo(x, y)
		}
	}
	path.Close()
	opts := &vector.DrawPathOptions{AntiAlias: true}
	opts.ColorScale.ScaleWithColor(c)
	vector.FillPath(screen, &path, &vector.FillOptions{}, opts)
}
