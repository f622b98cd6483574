package physics

import (
	"github.com/Mefin-SR/FlowtrixGame/core"
	"github.com/Mefin-SR/FlowtrixGame/engine"
	"github.com/Mefin-SR/FlowtrixGame/parameter"
	"github.com/Mefin-SR/FlowtrixGame/scene"
)

// Candidate is a volume the subject may enter
type Candidate struct {
	Node   *scene.Node
	Volume Volume
}

// Source enumerates current candidates
type Source func(visit func(Candidate))

// Detector tracks which candidates overlap the subject and reports each entry once
// A candidate that leaves and comes back, or is recycled and reissued, reports again
type Detector struct {
	subject *scene.Node
	volume  func() Volume
	target  engine.Triggerable
	sources []Source

	inside  map[core.Handle]bool
	current map[core.Handle]bool
	entered []*scene.Node
}

// NewDetector watches subject, whose volume may change per tick (sliding)
func NewDetector(subject *scene.Node, volume func() Volume, target engine.Triggerable) *Detector {
	return &Detector{
		subject: subject,
		volume:  volume,
		target:  target,
		inside:  make(map[core.Handle]bool),
		current: make(map[core.Handle]bool),
	}
}

// AddSource registers a candidate source
func (d *Detector) AddSource(src Source) {
	d.sources = append(d.sources, src)
}

func (d *Detector) Name() string {
	return "collision"
}

func (d *Detector) Priority() int {
	return parameter.PriorityCollision
}

func (d *Detector) Tick(dt float64) {
	d.Check()
}

// Check recomputes overlaps and dispatches entries after the scan completes
// Dispatch may release candidates without disturbing the scan
func (d *Detector) Check() int {
	if !d.subject.ActiveInHierarchy() {
		return 0
	}
	pos := d.subject.WorldPosition()
	vol := d.volume()

	clear(d.current)
	d.entered = d.entered[:0]
	for _, src := range d.sources {
		src(func(c Candidate) {
			if c.Node == nil || !c.Node.ActiveInHierarchy() {
				return
			}
			if !Overlaps(pos, vol, c.Node.WorldPosition(), c.Volume) {
				return
			}
			h := c.Node.Handle()
			d.current[h] = true
			if !d.inside[h] {
				d.entered = append(d.entered, c.Node)
			}
		})
	}
	d.inside, d.current = d.current, d.inside

	for _, n := range d.entered {
		d.target.OverlapEnter(n)
	}
	return len(d.entered)
}

// Reset forgets every contact
func (d *Detector) Reset() {
	clear(d.inside)
	clear(d.current)
	d.entered = d.entered[:0]
}
