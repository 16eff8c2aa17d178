package domain

import (
	"errors"
	"fmt"
	"time"
)

// TransportMode is the main carriage mode of a shipment.
type TransportMode string

const (
	ModeAir   TransportMode = "air"
	ModeSea   TransportMode = "sea"
	ModeTruck TransportMode = "truck"
)

// Direction distinguishes export and import handling.
type Direction string

const (
	DirectionExport Direction = "export"
	DirectionImport Direction = "import"
)

// StatusCode is the coarse shipment status shown in overviews and sent to
// downstream systems. It is derived from the milestone pointer, never set
// directly.
type StatusCode string

const (
	StatusNew            StatusCode = "new"
	StatusBooked         StatusCode = "booked"
	StatusPickedUp       StatusCode = "picked_up"
	StatusInTransit      StatusCode = "in_transit"
	StatusOutForDelivery StatusCode = "out_for_delivery"
	StatusDelivered      StatusCode = "delivered"
)

// ErrShipmentNotFound indicates no progress record exists for a shipment.
var ErrShipmentNotFound = errors.New("shipment progress not found")

// ErrShipmentExists indicates a progress record was already created for a
// shipment.
var ErrShipmentExists = errors.New("shipment progress already exists")

// ErrUnknownSequence indicates no milestone sequence exists for a
// mode/direction combination.
var ErrUnknownSequence = errors.New("no milestone sequence for transport mode and direction")

// MilestoneDefinition is one step of a sequence. Ids are dense starting at 1.
type MilestoneDefinition struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
}

// SequenceKey identifies one of the fixed milestone sequences.
type SequenceKey struct {
	Mode      TransportMode
	Direction Direction
}

func (k SequenceKey) String() string {
	return string(k.Mode) + "-" + string(k.Direction)
}

// Sequence is one fixed milestone chain with its status mapping. Each
// sequence carries its own id-to-status table because sequence lengths
// differ; a shared numeric threshold would leave short sequences unable to
// ever reach the delivered status.
type Sequence struct {
	Key        SequenceKey
	Milestones []MilestoneDefinition
	statuses   map[int]StatusCode
}

// MaxID returns the highest milestone id of the sequence.
func (s Sequence) MaxID() int {
	return len(s.Milestones)
}

// Definition returns the milestone with the given id, or false when the id
// has no definition in this sequence.
func (s Sequence) Definition(id int) (MilestoneDefinition, bool) {
	if id < 1 || id > len(s.Milestones) {
		return MilestoneDefinition{}, false
	}
	return s.Milestones[id-1], true
}

// RenderedText returns the milestone text for history entries. Ids without a
// definition render as "Unknown" rather than failing.
func (s Sequence) RenderedText(id int) string {
	def, ok := s.Definition(id)
	if !ok {
		return "Unknown"
	}
	return def.Text
}

// StatusFor returns the status a shipment carries once the given milestone
// is its current one.
func (s Sequence) StatusFor(id int) StatusCode {
	if status, ok := s.statuses[id]; ok {
		return status
	}
	return StatusInTransit
}

// truck shipments run the same short chain in both directions.
var sequences = map[SequenceKey]Sequence{
	{ModeAir, DirectionExport}: {
		Key: SequenceKey{ModeAir, DirectionExport},
		Milestones: []MilestoneDefinition{
			{1, "Shipment order received"},
			{2, "Booking confirmed"},
			{3, "Picked up at shipper"},
			{4, "Received at export warehouse"},
			{5, "Export customs cleared"},
			{6, "Departed origin airport"},
			{7, "Arrived at destination airport"},
			{8, "Import customs cleared"},
			{9, "Out for delivery"},
			{10, "Delivered to consignee"},
		},
		statuses: map[int]StatusCode{
			1: StatusNew, 2: StatusBooked, 3: StatusPickedUp,
			9: StatusOutForDelivery, 10: StatusDelivered,
		},
	},
	{ModeAir, DirectionImport}: {
		Key: SequenceKey{ModeAir, DirectionImport},
		Milestones: []MilestoneDefinition{
			{1, "Pre-alert received"},
			{2, "Booking confirmed"},
			{3, "Departed origin airport"},
			{4, "Arrived at destination airport"},
			{5, "Import customs started"},
			{6, "Import customs cleared"},
			{7, "Received at import warehouse"},
			{8, "Out for delivery"},
			{9, "Delivered to consignee"},
		},
		statuses: map[int]StatusCode{
			1: StatusNew, 2: StatusBooked,
			8: StatusOutForDelivery, 9: StatusDelivered,
		},
	},
	{ModeSea, DirectionExport}: {
		Key: SequenceKey{ModeSea, DirectionExport},
		Milestones: []MilestoneDefinition{
			{1, "Shipment order received"},
			{2, "Booking confirmed with carrier"},
			{3, "Container picked up at shipper"},
			{4, "Export customs cleared"},
			{5, "Vessel departed origin port"},
			{6, "Vessel arrived at destination port"},
			{7, "Container out for delivery"},
			{8, "Delivered to consignee"},
		},
		statuses: map[int]StatusCode{
			1: StatusNew, 2: StatusBooked, 3: StatusPickedUp,
			7: StatusOutForDelivery, 8: StatusDelivered,
		},
	},
	{ModeSea, DirectionImport}: {
		Key: SequenceKey{ModeSea, DirectionImport},
		Milestones: []MilestoneDefinition{
			{1, "Pre-alert received"},
			{2, "Booking confirmed"},
			{3, "Vessel departed origin port"},
			{4, "Transshipment at hub port"},
			{5, "Vessel arrived at destination port"},
			{6, "Container discharged"},
			{7, "Import customs started"},
			{8, "Import customs cleared"},
			{9, "Container released from terminal"},
			{10, "Container out for delivery"},
			{11, "Delivered to consignee"},
		},
		statuses: map[int]StatusCode{
			1: StatusNew, 2: StatusBooked,
			10: StatusOutForDelivery, 11: StatusDelivered,
		},
	},
	{ModeTruck, DirectionExport}: truckSequence(DirectionExport),
	{ModeTruck, DirectionImport}: truckSequence(DirectionImport),
}

func truckSequence(direction Direction) Sequence {
	return Sequence{
		Key: SequenceKey{ModeTruck, direction},
		Milestones: []MilestoneDefinition{
			{1, "Transport order received"},
			{2, "Picked up at shipper"},
			{3, "In transit"},
			{4, "Delivered to consignee"},
		},
		statuses: map[int]StatusCode{
			1: StatusNew, 2: StatusPickedUp, 4: StatusDelivered,
		},
	}
}

// SequenceFor returns the milestone sequence for a mode/direction pair.
func SequenceFor(mode TransportMode, direction Direction) (Sequence, error) {
	seq, ok := sequences[SequenceKey{mode, direction}]
	if !ok {
		return Sequence{}, fmt.Errorf("%w: %s/%s", ErrUnknownSequence, mode, direction)
	}
	return seq, nil
}

// ShipmentProgress is the mutable milestone state of one shipment. The
// milestone pointer is the single source of truth; StatusCode is denormalized
// from it on every advance.
type ShipmentProgress struct {
	ShipmentID         string        `json:"shipment_id"`
	TransportMode      TransportMode `json:"transport_mode"`
	Direction          Direction     `json:"direction"`
	CurrentMilestoneID int           `json:"current_milestone_id"`
	StatusCode         StatusCode    `json:"status_code"`
}

// HistoryEntry is one immutable record of a milestone advance. Entries are
// append-only and never edited after creation.
type HistoryEntry struct {
	ID           string    `json:"id"`
	ShipmentID   string    `json:"shipment_id"`
	MilestoneID  int       `json:"milestone_id"`
	Timestamp    time.Time `json:"timestamp"`
	Actor        string    `json:"actor"`
	RenderedText string    `json:"rendered_text"`
}

// MilestoneState is the completion status of one milestone relative to the
// current pointer.
type MilestoneState string

const (
	StateCompleted MilestoneState = "completed"
	StatePending   MilestoneState = "pending"
	StateFuture    MilestoneState = "future"
)

// CompletionEntry is one milestone of the completion view, enriched with the
// latest matching history record when the milestone is completed.
type CompletionEntry struct {
	MilestoneDefinition
	State       MilestoneState `json:"state"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
	CompletedBy string         `json:"completed_by,omitempty"`
}

// CompletionView is the per-request read model of a shipment's milestones.
// It is always recomputed from the milestone pointer and never persisted.
type CompletionView struct {
	ShipmentID         string            `json:"shipment_id"`
	TransportMode      TransportMode     `json:"transport_mode"`
	Direction          Direction         `json:"direction"`
	CurrentMilestoneID int               `json:"current_milestone_id"`
	StatusCode         StatusCode        `json:"status_code"`
	Milestones         []CompletionEntry `json:"milestones"`
}

// StatusChangedEvent is published after every successful milestone advance.
type StatusChangedEvent struct {
	ShipmentID   string     `json:"shipment_id"`
	MilestoneID  int        `json:"milestone_id"`
	StatusCode   StatusCode `json:"status_code"`
	RenderedText string     `json:"rendered_text"`
	Actor        string     `json:"actor"`
	OccurredAt   time.Time  `json:"occurred_at"`
}

// InvalidMilestoneError indicates a milestone id outside the active
// sequence's range. It carries the lookup context so the caller can spot a
// wrong transport-mode/direction assumption.
type InvalidMilestoneError struct {
	ShipmentID  string `json:"shipment_id"`
	MilestoneID int    `json:"milestone_id"`
	Sequence    string `json:"sequence"`
	MaxID       int    `json:"max_id"`
}

// Error implements the error interface.
func (e *InvalidMilestoneError) Error() string {
	return fmt.Sprintf("milestone %d outside range [1, %d] of sequence %s for shipment %s",
		e.MilestoneID, e.MaxID, e.Sequence, e.ShipmentID)
}
