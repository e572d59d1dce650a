package sim

// Stats accumulates per-run counters across steps.
type Stats struct {
	// Steps is the number of Step calls since Initialize.
	Steps int
	// NoFireSteps counts steps in which no discrete transition fired.
	NoFireSteps int
	// Firings counts discrete firings per transition index.
	Firings      []int
	TotalFirings int
	// FlowVolume is the integrated continuous flow in firings-worth.
	FlowVolume float64
	// Time is the simulation clock after the last step.
	Time float64
}

func (s *Stats) record(res Result) {
	s.Steps++
	if res.NoFire {
		s.NoFireSteps++
	}
	for _, f := range res.Fired {
		if f.Transition >= 0 && f.Transition < len(s.Firings) {
			s.Firings[f.Transition] += f.Count
		}
		s.TotalFirings += f.Count
	}
	for _, f := range res.Flows {
		s.FlowVolume += f.Amount
	}
	s.Time = res.Time
}

func (s Stats) clone() Stats {
	c := s
	c.Firings = append([]int(nil), s.Firings...)
	return c
}
