package refresh

import (
	"math"
	"time"
)

// Sample is one raw drag observation. Translation is the cumulative
// translation since the gesture began, positive downwards. ContainerOffset
// is the scroll offset of the pulled container and is ignored in plain mode.
type Sample struct {
	Elapsed         time.Duration
	Translation     float64
	ContainerOffset float64
}

// Reading is the normalized result of a Sample.
type Reading struct {
	// Distance is the overlay displacement, always within [0, MaxPull].
	Distance float64
	// Delta is the change of Distance caused by the sample.
	Delta float64
	// ContainerOffset is the scroll offset the host must apply to the
	// container. In plain mode it echoes the sample.
	ContainerOffset float64
}

// Normalizer converts raw drag samples into a bounded pull distance.
type Normalizer struct {
	cfg          Config
	displacement float64

	// plain mode: displacement when the gesture began
	origin float64

	// scrollable mode
	lastTranslation float64
	baseline        float64
}

// NewNormalizer creates a Normalizer for the given configuration.
func NewNormalizer(cfg Config) *Normalizer {
	return &Normalizer{cfg: cfg}
}

// Begin starts a gesture from the displacement currently shown on screen.
func (n *Normalizer) Begin(displacement float64) {
	n.displacement = n.cfg.clamp(displacement)
	n.origin = n.displacement
	n.lastTranslation = 0
}

// End finishes the current gesture. The displacement is kept so the next
// gesture can continue from it after Begin.
func (n *Normalizer) End() {
	n.origin = n.displacement
	n.lastTranslation = 0
}

// Calibrate records the container offset at which the content is at rest
// and clears any displacement.
func (n *Normalizer) Calibrate(containerOffset float64) {
	n.baseline = containerOffset
	n.displacement = 0
	n.End()
}

// Distance returns the current displacement.
func (n *Normalizer) Distance() float64 {
	return n.displacement
}

// Update consumes a sample.
func (n *Normalizer) Update(s Sample) Reading {
	if n.cfg.Mode == ModeScrollable {
		return n.updateScrollable(s)
	}
	return n.updatePlain(s)
}

func (n *Normalizer) updatePlain(s Sample) Reading {
	shift := math.Max(s.Translation, 0)
	if n.cfg.Easing {
		shift = ShiftForDelta(shift)
	}

	before := n.displacement
	n.displacement = n.cfg.clamp(n.origin + shift)

	return Reading{
		Distance:        n.displacement,
		Delta:           n.displacement - before,
		ContainerOffset: s.ContainerOffset,
	}
}

// updateScrollable splits each raw delta between the container's own
// offset and the overlay displacement. Pulling down scrolls the container
// back to its baseline before the overlay moves; pushing up collapses the
// overlay, holding the container at its baseline, before the container
// scrolls.
func (n *Normalizer) updateScrollable(s Sample) Reading {
	raw := s.Translation - n.lastTranslation
	n.lastTranslation = s.Translation

	offset := math.Max(s.ContainerOffset-n.baseline, 0)
	before := n.displacement

	if raw > 0 {
		consumed := math.Min(raw, offset)
		offset -= consumed
		n.displacement += raw - consumed
	} else if raw < 0 {
		up := -raw
		if n.displacement > 0 {
			consumed := math.Min(up, n.displacement)
			n.displacement -= consumed
			up -= consumed
			offset = 0
		}
		offset += up
	}

	n.displacement = n.cfg.clamp(n.displacement)

	return Reading{
		Distance:        n.displacement,
		Delta:           n.displacement - before,
		ContainerOffset: n.baseline + offset,
	}
}
