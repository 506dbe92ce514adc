package game

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// borderWidth is the pixel gap between the window edge and the tank.
const borderWidth = 24

// hudHeight is the status strip above the tank.
const hudHeight = 64

// statusTicks is how long a status message stays on screen.
const statusTicks = 180

// toolKeys binds the number row to sandbox tools.
var toolKeys = []struct {
	key  ebiten.Key
	tool Tool
}{
	{ebiten.Key1, ToolMultiplier},
	{ebiten.Key2, ToolCash},
	{ebiten.Key3, ToolLevelUp},
	{ebiten.Key4, ToolPortal},
	{ebiten.Key5, ToolRemove},
	{ebiten.Key6, ToolWall},
	{ebiten.Key0, ToolNone},
}

// Game is the Ebiten front end: it feeds input into a Session, ticks it
// once per Update and draws its snapshot.
type Game struct {
	session  *Session
	events   *EventLog
	reporter *SimReporter

	width  int
	height int
	offX   int // pixel offset from window left to tank left
	offY   int // pixel offset from window top to tank top

	prevKeys map[ebiten.Key]bool

	cursor    Vec
	cursorIn  bool
	wallStart *Vec // wall tool drag origin

	status      string
	statusColor color.RGBA
	statusLeft  int
}

// New builds a game around a fresh session.
func New(cfg Config, opts ...SessionOption) (*Game, error) {
	events := NewEventLog()
	sl := NewSimLog(false)
	sl.OnAdd(events.Mirror)
	opts = append([]SessionOption{WithSimLog(sl)}, opts...)

	s, err := NewSession(cfg, opts...)
	if err != nil {
		return nil, err
	}
	g := &Game{
		session:  s,
		events:   events,
		reporter: NewSimReporter(reportWindowTicks),
		width:    borderWidth + int(cfg.TankWidth) + borderWidth + logPanelWidth,
		height:   hudHeight + int(cfg.TankHeight) + borderWidth,
		offX:     borderWidth,
		offY:     hudHeight,
		prevKeys: make(map[ebiten.Key]bool),
	}
	return g, nil
}

// Session exposes the running session.
func (g *Game) Session() *Session { return g.session }

// WindowSize is the window size the game lays itself out for.
func (g *Game) WindowSize() (int, int) { return g.width, g.height }

func (g *Game) Update() error {
	g.handleInput()
	g.session.Tick()
	if g.session.TickCount()%60 == 0 && !g.session.Paused() {
		g.reporter.Collect(g.session)
	}
	if g.statusLeft > 0 {
		g.statusLeft--
	}
	return nil
}

func (g *Game) Layout(_, _ int) (int, int) {
	return g.width, g.height
}

// setStatus shows msg in the HUD for a few seconds.
func (g *Game) setStatus(msg string, c color.RGBA) {
	g.status = msg
	g.statusColor = c
	g.statusLeft = statusTicks
}

var (
	statusInfo  = color.RGBA{R: 200, G: 220, B: 255, A: 255}
	statusWarn  = color.RGBA{R: 255, G: 190, B: 80, A: 255}
	statusError = color.RGBA{R: 255, G: 90, B: 90, A: 255}
)

// report surfaces a command error in the HUD. Nil errors are ignored.
func (g *Game) report(err error) {
	if err == nil {
		return
	}
	c := statusError
	if errors.Is(err, ErrDropNotReady) || errors.Is(err, ErrPaused) {
		c = statusWarn
	}
	g.setStatus(err.Error(), c)
}

// keyPressed reports a key edge and records it in next.
func (g *Game) keyPressed(next map[ebiten.Key]bool, k ebiten.Key) bool {
	next[k] = ebiten.IsKeyPressed(k)
	return next[k] && !g.prevKeys[k]
}

// handleInput processes keyboard and mouse input (edge-triggered).
func (g *Game) handleInput() {
	s := g.session
	currentKeys := map[ebiten.Key]bool{}

	// P: pause works even while paused.
	if g.keyPressed(currentKeys, ebiten.KeyP) {
		if s.TogglePause() {
			g.setStatus("paused", statusWarn)
		} else {
			g.setStatus("resumed", statusInfo)
		}
	}

	mx, my := ebiten.CursorPosition()
	g.cursor = Vec{X: float64(mx - g.offX), Y: float64(my - g.offY)}
	g.cursorIn = g.cursor.X >= 0 && g.cursor.Y >= 0 &&
		g.cursor.X <= s.cfg.TankWidth && g.cursor.Y <= s.cfg.TankHeight

	if s.Items().OfferOpen {
		g.handleOfferInput(currentKeys, mx, my)
		g.prevKeys = currentKeys
		return
	}

	for _, tk := range toolKeys {
		if g.keyPressed(currentKeys, tk.key) {
			s.SelectTool(tk.tool)
			g.wallStart = nil
			g.setStatus("tool: "+tk.tool.String(), statusInfo)
		}
	}
	if g.keyPressed(currentKeys, ebiten.KeyEscape) {
		s.CancelPlacement()
		g.wallStart = nil
	}
	if g.keyPressed(currentKeys, ebiten.KeySpace) {
		g.report(s.Drop())
	}
	if g.keyPressed(currentKeys, ebiten.KeyT) {
		g.report(s.DropTest())
	}
	if g.keyPressed(currentKeys, ebiten.KeyX) {
		n, err := s.ForceClear()
		if err == nil {
			g.setStatus(fmt.Sprintf("cleared %d balls", n), statusInfo)
		}
		g.report(err)
	}
	if g.keyPressed(currentKeys, ebiten.KeyBackspace) {
		g.report(s.ClearAll())
	}
	if g.keyPressed(currentKeys, ebiten.KeyF) {
		_, err := s.ToggleFloor()
		g.report(err)
	}
	if g.keyPressed(currentKeys, ebiten.KeyQ) {
		s.RotateItem(-1)
	}
	if g.keyPressed(currentKeys, ebiten.KeyE) {
		s.RotateItem(1)
	}
	if _, wy := ebiten.Wheel(); wy != 0 && s.Items().IsPlacing() {
		if wy > 0 {
			s.RotateItem(1)
		} else {
			s.RotateItem(-1)
		}
	}
	if g.keyPressed(currentKeys, ebiten.KeyI) {
		g.reopenOffer()
	}
	if g.keyPressed(currentKeys, ebiten.KeyC) {
		g.copyReport()
	}

	g.handleMouse()
	g.prevKeys = currentKeys
}

func (g *Game) handleMouse() {
	s := g.session
	if !g.cursorIn {
		g.wallStart = nil
		return
	}
	if s.Tool() == ToolWall && !s.Items().IsPlacing() {
		if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
			start := g.cursor
			g.wallStart = &start
		}
		if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) && g.wallStart != nil {
			g.report(s.DrawWall(*g.wallStart, g.cursor))
			g.wallStart = nil
		}
		return
	}

	primary := inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
	secondary := inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight)
	if !primary && !secondary {
		return
	}
	out, err := s.PlaceAt(g.cursor, secondary)
	if err != nil {
		g.report(err)
		return
	}
	if out == PlaceRejected && (s.Tool() != ToolNone || s.Items().IsPlacing()) {
		g.setStatus("can't place there", statusWarn)
	}
}

// handleOfferInput picks an item with 1–4 or a click on its card; Escape
// closes the offer.
func (g *Game) handleOfferInput(currentKeys map[ebiten.Key]bool, mx, my int) {
	s := g.session
	offer := s.Items().Offer
	for i := range offer {
		if g.keyPressed(currentKeys, ebiten.Key1+ebiten.Key(i)) {
			g.chooseItem(offer[i])
			return
		}
	}
	if g.keyPressed(currentKeys, ebiten.KeyEscape) {
		s.DismissOffer()
		g.setStatus("items skipped (I to reopen)", statusInfo)
		return
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		for i := range offer {
			x, y, w, h := g.offerCardRect(i, len(offer))
			if mx >= x && mx < x+w && my >= y && my < y+h {
				g.chooseItem(offer[i])
				return
			}
		}
	}
}

func (g *Game) chooseItem(k ItemKind) {
	if err := g.session.ChooseItem(k); err != nil {
		g.report(err)
		return
	}
	if k.Immediate() {
		g.setStatus("used "+k.String(), statusInfo)
		return
	}
	g.setStatus("place "+k.String()+" (Q/E rotate, Esc cancel)", statusInfo)
}

// reopenOffer shows the turn's offer again if nothing was used yet.
func (g *Game) reopenOffer() {
	s := g.session
	if len(s.items.Offer) == 0 || s.items.Used || s.items.IsPlacing() {
		return
	}
	s.items.OfferOpen = true
}

// copyReport puts the session report on the system clipboard.
func (g *Game) copyReport() {
	text := FormatSessionReport(g.session) + "\n" + g.reporter.WindowSummary().Format()
	if err := clipboard.WriteAll(text); err != nil {
		g.session.Log().Add(g.session.TickCount(), "--", catUI, "clipboard_failed", err.Error(), 0)
		g.setStatus("clipboard unavailable", statusError)
		return
	}
	g.setStatus("report copied", statusInfo)
}
