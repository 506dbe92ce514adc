package game

// Placement is the verdict of ValidatePlacement. A rejected placement is a
// normal result shown to the player, not an error.
type Placement struct {
	CanPlace bool
	Upgrade  *Region // same-kind region to level up instead of creating one
	Conflict bool
}

// footprint returns the box a new region of kind is checked with at p.
// Portals use the fallback box, which is larger than the drawn portal.
func (rg *Registry) footprint(p Vec, kind RegionKind) Rect {
	switch kind {
	case KindMultiplier, KindCash, KindLevelUp:
		return RectAround(p, rg.cfg.RegionWidth, rg.cfg.RegionHeight)
	}
	return RectAround(p, rg.cfg.FallbackRegionWidth, rg.cfg.FallbackRegionHeight)
}

// ValidatePlacement decides whether a region of kind may go at p.
//
// Same-kind regions within MinDistance turn the placement into an upgrade
// and win over any conflict. Portals never upgrade. The permanent cash band
// is never upgraded; cash placements that overlap it at all are rejected.
// Cash next to a portal is rejected outright; any other nearby region of a
// different kind is a conflict.
func (rg *Registry) ValidatePlacement(p Vec, kind RegionKind) Placement {
	fp := rg.footprint(p, kind)
	all := rg.All()

	if kind != KindPortal {
		for _, r := range all {
			if r.Kind != kind {
				continue
			}
			if withinBuffer(fp, r.Center, rg.cfg.MinDistance) {
				return Placement{CanPlace: true, Upgrade: r}
			}
		}
	}

	res := Placement{CanPlace: true}
	for _, r := range all {
		if r.Kind == kind {
			continue
		}
		if r.Kind == KindPermanentCash && kind == KindCash {
			if fp.Overlaps(r.Bounds()) {
				return Placement{Conflict: true}
			}
			continue
		}
		if !withinBuffer(fp, r.Center, rg.cfg.MinDistance) {
			continue
		}
		if kind == KindCash && r.Kind == KindPortal {
			return Placement{Conflict: true}
		}
		res.CanPlace = false
		res.Conflict = true
	}
	return res
}
