package game

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// hudFace is the bitmap face used for all in-tank and HUD text.
var hudFace = basicfont.Face7x13

func drawText(screen *ebiten.Image, s string, x, y int, c color.Color) {
	text.Draw(screen, s, hudFace, x, y, c)
}

func drawTextCentered(screen *ebiten.Image, s string, x, y int, c color.Color) {
	w := font.MeasureString(hudFace, s).Ceil()
	text.Draw(screen, s, hudFace, x-w/2, y, c)
}

// drawHUD renders the status strip above the tank.
func (g *Game) drawHUD(screen *ebiten.Image, snap Snapshot) {
	x := g.offX
	white := color.RGBA{R: 235, G: 235, B: 235, A: 255}
	gold := color.RGBA{R: 255, G: 215, B: 0, A: 255}

	drawText(screen, fmt.Sprintf("TURN %d", snap.Turn), x, 18, white)
	drawText(screen, fmt.Sprintf("$ %d", snap.Wallet.Money), x+90, 18, gold)
	drawText(screen, fmt.Sprintf("gems %d  keys %d", snap.Wallet.Diamonds, snap.Wallet.Keys), x+180, 18, white)

	lc := LevelColor(snap.Loadout.Level)
	vector.FillCircle(screen, float32(x+300), 14, 5, lc, true)
	drawText(screen, fmt.Sprintf("Drop %d  L%d", snap.Loadout.Count, snap.Loadout.Level), x+312, 18, white)
	drawText(screen, fmt.Sprintf("balls %d  test %d", len(snap.Balls), snap.TestBalls), x+440, 18, white)

	state := snap.State
	switch {
	case snap.Paused:
		state = "PAUSED"
	case snap.State == TurnStuck.String():
		state = "STUCK - X to clear"
	case snap.DropReady:
		state = "ready - SPACE drop, T test"
	}
	drawText(screen, state, x+580, 18, white)

	tool := g.session.Tool().String()
	if it := g.session.Items(); it.IsPlacing() {
		tool = fmt.Sprintf("item %s  rot %.1f", it.Placing, it.Rotation)
	}
	floor := "dropped"
	if snap.Floor {
		floor = "in"
	}
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("tool: %s   floor: %s   [1-6] tools [0] none [F] floor [BKSP] clear [P] pause [C] copy", tool, floor), x, 28)

	if g.statusLeft > 0 {
		drawText(screen, g.status, x, 58, g.statusColor)
	}
}

// offerCardRect is the screen rectangle of card i of n in the item offer.
func (g *Game) offerCardRect(i, n int) (x, y, w, h int) {
	const cardW, cardH, gap = 150, 90, 16
	cfg := g.session.Config()
	total := n*cardW + (n-1)*gap
	x0 := g.offX + (int(cfg.TankWidth)-total)/2
	y = g.offY + int(cfg.TankHeight)/2 - cardH/2
	return x0 + i*(cardW+gap), y, cardW, cardH
}

// drawOffer renders the item choice panel over the tank.
func (g *Game) drawOffer(screen *ebiten.Image, offer []string) {
	cfg := g.session.Config()
	vector.FillRect(screen, float32(g.offX), float32(g.offY), float32(cfg.TankWidth), float32(cfg.TankHeight), color.RGBA{A: 150}, false)
	drawTextCentered(screen, "CHOOSE AN ITEM", g.offX+int(cfg.TankWidth)/2, g.offY+int(cfg.TankHeight)/2-70, color.White)

	for i, name := range offer {
		x, y, w, h := g.offerCardRect(i, len(offer))
		vector.FillRect(screen, float32(x), float32(y), float32(w), float32(h), color.RGBA{R: 40, G: 44, B: 60, A: 240}, false)
		vector.StrokeRect(screen, float32(x), float32(y), float32(w), float32(h), 1, color.RGBA{R: 120, G: 130, B: 170, A: 255}, false)
		drawTextCentered(screen, fmt.Sprintf("[%d]", i+1), x+w/2, y+24, color.RGBA{R: 180, G: 180, B: 200, A: 255})
		drawTextCentered(screen, name, x+w/2, y+52, color.White)
	}
	drawTextCentered(screen, "Esc to skip", g.offX+int(cfg.TankWidth)/2, g.offY+int(cfg.TankHeight)/2+70, color.RGBA{R: 160, G: 160, B: 160, A: 255})
}
