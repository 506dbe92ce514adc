package game

import (
	"testing"

	"github.com/Garsondee/Ball-Drop/internal/physics"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	cfg := DefaultConfig()
	w := physics.NewWorld(cfg.TankWidth, cfg.TankHeight+cfg.FallenBuffer, cfg.CellSize)
	return NewRegistry(cfg, w)
}

var placeableKinds = []RegionKind{KindMultiplier, KindCash, KindLevelUp, KindPortal}

func TestValidatePlacement_NoConflictOutsideBuffer(t *testing.T) {
	for _, existing := range placeableKinds {
		rg := newTestRegistry(t)
		r := rg.Create(existing, Vec{X: 400, Y: 400}, 0)
		for _, kind := range placeableKinds {
			if kind == existing {
				continue
			}
			for x := 100.0; x <= 700; x += 25 {
				for y := 250.0; y <= 550; y += 25 {
					p := Vec{X: x, Y: y}
					if withinBuffer(rg.footprint(p, kind), r.Center, rg.cfg.MinDistance) {
						continue
					}
					if pl := rg.ValidatePlacement(p, kind); pl.Conflict || !pl.CanPlace {
						t.Fatalf("%s at %+v next to %s: unexpected %+v", kind, p, existing, pl)
					}
				}
			}
		}
	}
}

func TestValidatePlacement_UpgradeWinsOverConflict(t *testing.T) {
	rg := newTestRegistry(t)
	cash := rg.Create(KindCash, Vec{X: 400, Y: 300}, 0)
	rg.Create(KindMultiplier, Vec{X: 430, Y: 320}, 0)
	rg.Create(KindLevelUp, Vec{X: 380, Y: 280}, 0)

	pl := rg.ValidatePlacement(Vec{X: 410, Y: 300}, KindCash)
	if !pl.CanPlace || pl.Conflict {
		t.Fatalf("expected an accepted upgrade, got %+v", pl)
	}
	if pl.Upgrade != cash {
		t.Fatalf("expected upgrade target %v, got %v", cash, pl.Upgrade)
	}
}

func TestValidatePlacement_CashNeverOverlapsPermanentBand(t *testing.T) {
	rg := newTestRegistry(t)
	perm := rg.CreatePermanentCash()
	b := perm.Bounds()
	for x := b.X1; x <= b.X2; x += 20 {
		for y := b.Y1; y <= b.Y2; y += 5 {
			p := Vec{X: x, Y: y}
			pl := rg.ValidatePlacement(p, KindCash)
			if pl.CanPlace || !pl.Conflict {
				t.Fatalf("cash at %+v inside the band: got %+v", p, pl)
			}
			if out, _ := rg.Place(KindCash, p, 0); out != PlaceRejected {
				t.Fatalf("cash at %+v inside the band: placement %s", p, out)
			}
		}
	}
	if rg.Count(KindCash) != 0 {
		t.Fatalf("no cash region should exist, got %d", rg.Count(KindCash))
	}
	if perm.Level != 1 {
		t.Fatalf("permanent band must never upgrade, level %d", perm.Level)
	}
}

func TestValidatePlacement_PermanentBandOnlyBlocksCash(t *testing.T) {
	rg := newTestRegistry(t)
	perm := rg.CreatePermanentCash()
	// Just above the band: overlap-free, inside the proximity buffer.
	p := Vec{X: perm.Center.X, Y: perm.Bounds().Y1 - 20}
	if pl := rg.ValidatePlacement(p, KindCash); !pl.CanPlace {
		t.Fatalf("cash just above the band should be allowed, got %+v", pl)
	}
	if pl := rg.ValidatePlacement(p, KindMultiplier); pl.CanPlace {
		t.Fatalf("multiplier within the band's buffer should conflict, got %+v", pl)
	}
}

func TestValidatePlacement_CashNextToPortal(t *testing.T) {
	rg := newTestRegistry(t)
	rg.CreatePortal(Vec{X: 400, Y: 300}, PortalBlue)
	pl := rg.ValidatePlacement(Vec{X: 420, Y: 300}, KindCash)
	if pl.CanPlace || !pl.Conflict || pl.Upgrade != nil {
		t.Fatalf("cash next to a portal: got %+v", pl)
	}
}

func TestValidatePlacement_PortalUsesFallbackBox(t *testing.T) {
	rg := newTestRegistry(t)
	rg.Create(KindMultiplier, Vec{X: 400, Y: 400}, 0)
	p := Vec{X: 400, Y: 480}
	// A 90x20 box here stays outside the buffer; the 100x50 portal box does not.
	if pl := rg.ValidatePlacement(p, KindLevelUp); !pl.CanPlace {
		t.Fatalf("level-up below the multiplier should fit, got %+v", pl)
	}
	if pl := rg.ValidatePlacement(p, KindPortal); pl.CanPlace || !pl.Conflict {
		t.Fatalf("portal below the multiplier should conflict, got %+v", pl)
	}
}

func TestValidatePlacement_BandClickUpgradesCashNeighbour(t *testing.T) {
	rg := newTestRegistry(t)
	perm := rg.CreatePermanentCash()
	band := perm.Bounds()
	above := rg.Create(KindCash, Vec{X: perm.Center.X, Y: band.Y1 - 20}, 0)
	before := above.Bounds()
	if before.Overlaps(band) {
		t.Fatalf("neighbour %+v already overlaps the band %+v", before, band)
	}

	p := Vec{X: perm.Center.X, Y: band.Y1 + 5}
	pl := rg.ValidatePlacement(p, KindCash)
	if !pl.CanPlace || pl.Upgrade != above {
		t.Fatalf("click inside the band next to cash: got %+v", pl)
	}
	out, r := rg.Place(KindCash, p, 0)
	if out != PlaceUpgraded || r != above {
		t.Fatalf("expected the neighbour upgraded, got %s", out)
	}
	if rg.Count(KindCash) != 1 || above.Level != 2 || perm.Level != 1 {
		t.Fatalf("cash=%d neighbour L%d band L%d", rg.Count(KindCash), above.Level, perm.Level)
	}
	if above.Bounds() != before || above.Bounds().Overlaps(band) {
		t.Fatalf("upgrade moved the neighbour to %+v", above.Bounds())
	}
}

func TestValidatePlacement_DifferentKindConflicts(t *testing.T) {
	rg := newTestRegistry(t)
	rg.Create(KindMultiplier, Vec{X: 400, Y: 300}, 0)
	pl := rg.ValidatePlacement(Vec{X: 440, Y: 300}, KindLevelUp)
	if pl.CanPlace || !pl.Conflict {
		t.Fatalf("level-up next to a multiplier: got %+v", pl)
	}
}

func TestValidatePlacement_PortalsNeverUpgrade(t *testing.T) {
	rg := newTestRegistry(t)
	first := rg.CreatePortal(Vec{X: 400, Y: 300}, PortalBlue)
	pl := rg.ValidatePlacement(Vec{X: 410, Y: 300}, KindPortal)
	if pl.Upgrade != nil || !pl.CanPlace {
		t.Fatalf("portal near portal: got %+v", pl)
	}
	out, second := rg.PlacePortal(Vec{X: 410, Y: 300}, PortalBlue)
	if out != PlaceCreated {
		t.Fatalf("expected created, got %s", out)
	}
	if rg.Count(KindPortal) != 1 || rg.Portal(PortalBlue) != second {
		t.Fatalf("same-colour portal should replace the old one, have %d", rg.Count(KindPortal))
	}
	if _, ok := rg.Lookup(first.Body()); ok {
		t.Fatal("retired portal sensor still registered")
	}
	if first.Level != 1 {
		t.Fatalf("retired portal level changed to %d", first.Level)
	}
}
