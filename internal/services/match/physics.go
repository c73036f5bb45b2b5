package match

import (
	"math"
	"time"

	"github.com/taggamecreator/tag-echobound-servers/internal/model"
)

// Simulation constants. These must match the deployed client exactly;
// changing any of them breaks interoperability.
const (
	// TickRate is the authoritative simulation rate in Hz
	TickRate = 20
	// SnapshotRate is the broadcast rate in Hz
	SnapshotRate = 10

	// TickInterval is the fixed duration of one simulation step
	TickInterval = time.Second / TickRate

	tickSeconds = 1.0 / float64(TickRate)

	// inputAccel is the horizontal acceleration while a direction is held
	inputAccel = 200.0
	// jumpVelocity is the vertical velocity set by a jump impulse
	jumpVelocity = -600.0
	// gravityAccel pulls players toward the floor (y grows downward)
	gravityAccel = 1200.0
	// floorY is the position players are clamped to
	floorY = 1000.0
	// dampingFactor is applied to horizontal velocity once per tick
	dampingFactor = 0.98
	// jumpEpsilon gates the jump impulse to players with ~zero vertical
	// speed, preventing mid-air re-jumps
	jumpEpsilon = 0.01

	spawnBaseX        = 100.0
	spawnSpacingX     = 80.0
	spawnY            = floorY
	defaultPlayerSize = 32.0
)

// snapshotEveryTicks returns how many ticks elapse between snapshots:
// round(tick rate / snapshot rate), clamped to at least one.
func snapshotEveryTicks() uint64 {
	n := uint64(math.Round(float64(TickRate) / float64(SnapshotRate)))
	if n < 1 {
		n = 1
	}
	return n
}

// spawnFor returns the deterministic spawn position for a slot index
func spawnFor(slot int) (x, y float64) {
	return spawnBaseX + float64(slot)*spawnSpacingX, spawnY
}

// stepPlayer advances one player by one fixed tick. Input is treated as
// currently held state: it is read but never cleared here, persisting
// until overwritten by a newer input message.
func stepPlayer(p *model.MatchPlayer) {
	if in := p.Input; in != nil {
		if in.Left {
			p.VX -= inputAccel * tickSeconds
		}
		if in.Right {
			p.VX += inputAccel * tickSeconds
		}
		if in.Jump && math.Abs(p.VY) < jumpEpsilon {
			p.VY = jumpVelocity
		}
	}

	p.VY += gravityAccel * tickSeconds
	p.X += p.VX * tickSeconds
	p.Y += p.VY * tickSeconds

	if p.Y > floorY {
		p.Y = floorY
		p.VY = 0
	}

	p.VX *= dampingFactor
}
