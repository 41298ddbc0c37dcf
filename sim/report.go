package sim

import (
	"fmt"
	"time"
)

// LineReport summarizes one production line at the end of a run.
type LineReport struct {
	LineID    int `json:"line_id"`
	Produced  int `json:"produced"`
	Completed int `json:"completed"`
}

// Report is the final result of a simulation run.
type Report struct {
	Horizon        float64             `json:"horizon"`
	Seed           int64               `json:"seed"`
	Lines          []LineReport        `json:"lines"`
	TotalProduced  int                 `json:"total_produced"`
	TotalCompleted int                 `json:"total_completed"`
	MaintenanceLog []MaintenanceRecord `json:"maintenance_log"`
	FinalStock     int                 `json:"final_stock"`
	Errors         []ProcessError      `json:"errors"`
	Elapsed        time.Duration       `json:"-"`
}

func (s *Simulator) report(elapsed time.Duration) *Report {
	r := &Report{
		Horizon:        s.Horizon,
		Seed:           s.RNG.Seed(),
		MaintenanceLog: append([]MaintenanceRecord(nil), s.MaintenanceLog...),
		FinalStock:     s.Stock.Level(),
		Errors:         append([]ProcessError(nil), s.Errors...),
		Elapsed:        elapsed,
	}
	for _, l := range s.Lines {
		lr := LineReport{LineID: l.ID, Produced: l.ProducedCount(), Completed: l.CompletedCount()}
		r.Lines = append(r.Lines, lr)
		r.TotalProduced += lr.Produced
		r.TotalCompleted += lr.Completed
	}
	return r
}

// Print writes a human-readable summary to stdout.
func (r *Report) Print() {
	fmt.Println("=== Simulation Report ===")
	fmt.Printf("Horizon              : %.2f time units\n", r.Horizon)
	fmt.Printf("Seed                 : %d\n", r.Seed)
	for _, l := range r.Lines {
		fmt.Printf("Line %-2d              : %d produced, %d completed\n", l.LineID, l.Produced, l.Completed)
	}
	fmt.Printf("Total Produced       : %d\n", r.TotalProduced)
	fmt.Printf("Total Completed      : %d\n", r.TotalCompleted)
	fmt.Printf("Maintenance Events   : %d\n", len(r.MaintenanceLog))
	fmt.Printf("Final Stock          : %d\n", r.FinalStock)
	if len(r.Errors) > 0 {
		fmt.Printf("Process Faults       : %d\n", len(r.Errors))
		for _, e := range r.Errors {
			fmt.Printf("  - %s at %.2f: %s\n", e.Process, e.Time, e.Message)
		}
	}
	fmt.Printf("Elapsed (wall clock) : %s\n", r.Elapsed)
}
