package types

import "time"

// ControlInput is the per-frame control state for one vehicle.
// turnLeft and turnRight are independent and may both be set.
type ControlInput struct {
	Accelerate bool `json:"accelerate"`
	Brake      bool `json:"brake"`
	TurnLeft   bool `json:"turn_left"`
	TurnRight  bool `json:"turn_right"`
}

// Profile is the wire form of a vehicle archetype.
type Profile struct {
	Key         string  `json:"key"`
	DriveForce  float64 `json:"drive_force"`
	TopSpeed    float64 `json:"top_speed"`
	TurnRate    float64 `json:"turn_rate"`
	Mass        float64 `json:"mass"`
	Radius      float64 `json:"radius"`
	Restitution float64 `json:"restitution"`
}

// VehicleSnapshot is what the render collaborator draws for one slot.
type VehicleSnapshot struct {
	Slot      int     `json:"slot"`
	Name      string  `json:"name"`
	IsCPU     bool    `json:"is_cpu"`
	Position  Vec3    `json:"position"`
	Velocity  Vec3    `json:"velocity"`
	Direction Vec3    `json:"direction"`
	Radius    float64 `json:"radius"`
	Profile   string  `json:"profile"`
	Fallen    bool    `json:"fallen"`
	Active    bool    `json:"active"`
}

// MatchSnapshot is replicated to render clients after every frame.
type MatchSnapshot struct {
	MatchID            string            `json:"match_id"`
	Frame              uint64            `json:"frame"`
	CreatedAt          time.Time         `json:"created_at"`
	PlatformHalfExtent float64           `json:"platform_half_extent"`
	HumanCount         int               `json:"human_count"`
	Vehicles           []VehicleSnapshot `json:"vehicles"`
	Outcome            string            `json:"outcome"` // in_progress|victory|draw
	Survivor           int               `json:"survivor"`
	Events             []GameplayEvent   `json:"events"`
}

// GameplayEvent tracks state changes worth UI/audio feedback.
type GameplayEvent struct {
	Type       string `json:"type"` // start|elimination|victory|draw
	Slot       int    `json:"slot"`
	Name       string `json:"name,omitempty"`
	Frame      uint64 `json:"frame"`
	OccurredMS int64  `json:"occurred_ms"`
}

// RosterEntry describes one participant in a finished match.
type RosterEntry struct {
	Slot    int    `json:"slot"`
	Name    string `json:"name"`
	IsCPU   bool   `json:"is_cpu"`
	Profile string `json:"profile"`
}

// MatchResult is handed to result sinks once a match is decided.
type MatchResult struct {
	MatchID       string        `json:"match_id"`
	StartedAt     time.Time     `json:"started_at"`
	EndedAt       time.Time     `json:"ended_at"`
	Frames        uint64        `json:"frames"`
	PlatformSize  float64       `json:"platform_size"`
	Humans        int           `json:"humans"`
	CPUs          int           `json:"cpus"`
	Outcome       string        `json:"outcome"`
	WinnerSlot    int           `json:"winner_slot"` // -1 unless victory
	WinnerName    string        `json:"winner_name,omitempty"`
	WinnerProfile string        `json:"winner_profile,omitempty"`
	Roster        []RosterEntry `json:"roster"`
}

// ClientEnvelope is sent from client to server.
type ClientEnvelope struct {
	Type  string        `json:"type"` // input|ping
	Slot  int           `json:"slot"`
	Input *ControlInput `json:"input,omitempty"`
}

// ServerEnvelope is sent from server to client.
type ServerEnvelope struct {
	Type     string         `json:"type"` // welcome|state|pong|error
	Frame    uint64         `json:"frame,omitempty"`
	State    *MatchSnapshot `json:"state,omitempty"`
	ServerMS int64          `json:"server_ms,omitempty"`
	Message  string         `json:"message,omitempty"`
}
