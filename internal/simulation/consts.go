package simulation

import "time"

const (
	Gravity = 9.81 // m/s^2

	// SubSteps is the number of equal sub-steps each tick is split into.
	SubSteps = 100

	// TickDuration is the reference wall-clock frame interval.
	TickDuration = 100 * time.Millisecond

	GroundDragFactor = 0.75 // fraction of gravity applied as ground drag
	BrakeFactor      = 10.0 // brake deceleration multiplier on driveForce/mass
	RestSpeed        = 0.1  // below this speed a vehicle snaps to rest

	// EliminationDepth is the depth below which a vehicle is inert:
	// no longer integrated, collided or counted as alive.
	EliminationDepth = -20.0

	AIAlignCross    = 0.5 // |cross| below which the target counts as ahead
	AITurnDeadZone  = 0.1 // |cross| at or below which the AI goes straight
	CrowdedCPUCount = 50
	CrowdedMinSize  = 100.0
)
