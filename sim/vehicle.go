package sim

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/looplab/fsm"
)

// Station is one sequential processing stage a vehicle passes through.
type Station int

const (
	StationWelding Station = iota
	StationAssembly
	StationPainting
	StationInspection
	StationTesting
	StationPackaging
)

// Stations returns all stations in processing order.
func Stations() []Station {
	return []Station{
		StationWelding,
		StationAssembly,
		StationPainting,
		StationInspection,
		StationTesting,
		StationPackaging,
	}
}

func (s Station) String() string {
	switch s {
	case StationWelding:
		return "welding"
	case StationAssembly:
		return "assembly"
	case StationPainting:
		return "painting"
	case StationInspection:
		return "inspection"
	case StationTesting:
		return "testing"
	case StationPackaging:
		return "packaging"
	}
	return fmt.Sprintf("station(%d)", int(s))
}

// Title returns the display name used in production history entries.
func (s Station) Title() string {
	switch s {
	case StationWelding:
		return "Welding"
	case StationAssembly:
		return "Assembly"
	case StationPainting:
		return "Painting"
	case StationInspection:
		return "Inspection"
	case StationTesting:
		return "Testing"
	case StationPackaging:
		return "Packaging"
	}
	return s.String()
}

// Status represents the lifecycle state of a vehicle.
type Status string

const (
	StatusCreated    Status = "created"
	StatusWelding    Status = "welding"
	StatusAssembly   Status = "assembly"
	StatusPainting   Status = "painting"
	StatusInspection Status = "inspection"
	StatusTesting    Status = "testing"
	StatusPackaging  Status = "packaging"
	StatusCompleted  Status = "completed"
)

// Status returns the in-progress status a vehicle holds while at this station.
func (s Station) Status() Status {
	switch s {
	case StationWelding:
		return StatusWelding
	case StationAssembly:
		return StatusAssembly
	case StationPainting:
		return StatusPainting
	case StationInspection:
		return StatusInspection
	case StationTesting:
		return StatusTesting
	case StationPackaging:
		return StatusPackaging
	}
	panic(fmt.Sprintf("unknown station %d", s))
}

// statusSequence is the only legal status progression. The vehicle FSM is
// built from consecutive pairs, so no station can be skipped or repeated.
var statusSequence = []Status{
	StatusCreated,
	StatusWelding,
	StatusAssembly,
	StatusPainting,
	StatusInspection,
	StatusTesting,
	StatusPackaging,
	StatusCompleted,
}

var (
	creationPalette = []string{"Red", "Blue", "Green", "Black", "White"}
	paintPalette    = []string{"Red", "Blue", "Green", "Black", "White", "Silver"}
	engineTypes     = []string{"Electric", "Hybrid", "Internal Combustion"}
	qualityGrades   = []string{"A", "B", "C"}
)

// HistoryEntry is one append-only production log record.
type HistoryEntry struct {
	Step string  `json:"step"`
	Time float64 `json:"time"`
	Note string  `json:"note,omitempty"`
}

// ComponentDetails holds the attributes of one installed component.
type ComponentDetails map[string]any

// QualityCheckResult is the full score vector and verdict of one inspection.
type QualityCheckResult struct {
	Time             float64 `json:"time"`
	AssemblyScore    float64 `json:"assembly_score"`
	PaintScore       float64 `json:"paint_score"`
	PerformanceScore float64 `json:"performance_score"`
	OverallScore     float64 `json:"overall_score"`
	Result           string  `json:"result"`
}

// Vehicle is one unit moving through the production line. Its status only
// advances forward through the station sequence (enforced by the FSM) and
// both history logs are append-only.
type Vehicle struct {
	ID           int
	LineID       int
	CreationTime float64

	Color      string
	EngineType string

	Components        map[string]ComponentDetails
	ProductionHistory []HistoryEntry
	QualityHistory    []QualityCheckResult
	MaintenanceNeeded bool

	machine *fsm.FSM
}

// NewVehicle creates a vehicle in the "created" state with randomly drawn
// color and engine type.
func NewVehicle(id, lineID int, now float64, rng *rand.Rand) *Vehicle {
	v := &Vehicle{
		ID:           id,
		LineID:       lineID,
		CreationTime: now,
		Color:        creationPalette[rng.Intn(len(creationPalette))],
		EngineType:   engineTypes[rng.Intn(len(engineTypes))],
		Components:   make(map[string]ComponentDetails),
	}

	events := make(fsm.Events, 0, len(statusSequence)-1)
	for i := 1; i < len(statusSequence); i++ {
		events = append(events, fsm.EventDesc{
			Name: "to_" + string(statusSequence[i]),
			Src:  []string{string(statusSequence[i-1])},
			Dst:  string(statusSequence[i]),
		})
	}
	v.machine = fsm.NewFSM(
		string(StatusCreated),
		events,
		fsm.Callbacks{
			"enter_state": func(ctx context.Context, e *fsm.Event) {
				at, _ := e.Args[0].(float64)
				v.AddStep("Status updated to "+e.Dst, at, "")
			},
		},
	)
	return v
}

// Status returns the vehicle's current lifecycle state.
func (v *Vehicle) Status() Status {
	return Status(v.machine.Current())
}

// advanceTo moves the vehicle to the next status. The FSM rejects any
// transition that is not the immediate successor of the current state.
func (v *Vehicle) advanceTo(status Status, now float64) error {
	if err := v.machine.Event(context.Background(), "to_"+string(status), now); err != nil {
		return fmt.Errorf("vehicle %d: invalid transition %s -> %s: %w",
			v.ID, v.machine.Current(), status, err)
	}
	return nil
}

// AddStep appends a production history entry.
func (v *Vehicle) AddStep(step string, now float64, note string) {
	v.ProductionHistory = append(v.ProductionHistory, HistoryEntry{
		Step: step,
		Time: now,
		Note: note,
	})
}

// AddComponent installs a component and records the installation step.
func (v *Vehicle) AddComponent(name string, details ComponentDetails, now float64) {
	v.Components[name] = details
	v.AddStep("Installed "+name, now, "Component installation completed.")
}

// AddQualityCheck appends an inspection result to the quality history.
func (v *Vehicle) AddQualityCheck(res QualityCheckResult) {
	v.QualityHistory = append(v.QualityHistory, res)
}

// MarkForMaintenance flags the vehicle after a failed test.
func (v *Vehicle) MarkForMaintenance(now float64) {
	v.MaintenanceNeeded = true
	v.AddStep("Marked for maintenance", now, "Quality issues detected.")
}
