package sim

// VehicleSummary is a read-only copy of one vehicle's full state, consumed
// by the web and persistence layers.
type VehicleSummary struct {
	ID                int                         `json:"id"`
	LineID            int                         `json:"line_id"`
	CreationTime      float64                     `json:"creation_time"`
	Status            Status                      `json:"status"`
	Color             string                      `json:"color"`
	EngineType        string                      `json:"engine_type"`
	Components        map[string]ComponentDetails `json:"components"`
	ProductionHistory []HistoryEntry              `json:"production_history"`
	QualityHistory    []QualityCheckResult        `json:"quality_history"`
	MaintenanceNeeded bool                        `json:"maintenance_needed"`
}

// Summary returns a deep copy of the vehicle's state. Mutating the copy
// never touches simulation state.
func (v *Vehicle) Summary() VehicleSummary {
	components := make(map[string]ComponentDetails, len(v.Components))
	for name, details := range v.Components {
		copied := make(ComponentDetails, len(details))
		for k, val := range details {
			copied[k] = val
		}
		components[name] = copied
	}
	return VehicleSummary{
		ID:                v.ID,
		LineID:            v.LineID,
		CreationTime:      v.CreationTime,
		Status:            v.Status(),
		Color:             v.Color,
		EngineType:        v.EngineType,
		Components:        components,
		ProductionHistory: append([]HistoryEntry(nil), v.ProductionHistory...),
		QualityHistory:    append([]QualityCheckResult(nil), v.QualityHistory...),
		MaintenanceNeeded: v.MaintenanceNeeded,
	}
}

// Snapshot is a point-in-time, read-only view of the whole factory.
type Snapshot struct {
	Clock          float64             `json:"clock"`
	Vehicles       []VehicleSummary    `json:"vehicles"`
	MaintenanceLog []MaintenanceRecord `json:"maintenance_log"`
	Stock          int                 `json:"stock"`
}

// Snapshot copies the current factory state. It is meant to be called
// between runs; Run is synchronous, so no snapshot can observe a run
// half-way. Two snapshots taken with no run in between are identical.
func (s *Simulator) Snapshot() *Snapshot {
	snap := &Snapshot{
		Clock:          s.Clock,
		Vehicles:       make([]VehicleSummary, 0),
		MaintenanceLog: append([]MaintenanceRecord(nil), s.MaintenanceLog...),
		Stock:          s.Stock.Level(),
	}
	for _, l := range s.Lines {
		for _, v := range l.Vehicles {
			snap.Vehicles = append(snap.Vehicles, v.Summary())
		}
	}
	return snap
}

// FindVehicle returns the vehicle with the given id on the given line.
func (s *Simulator) FindVehicle(lineID, vehicleID int) (*Vehicle, bool) {
	for _, l := range s.Lines {
		if l.ID != lineID {
			continue
		}
		if v := l.VehicleByID(vehicleID); v != nil {
			return v, true
		}
	}
	return nil, false
}
