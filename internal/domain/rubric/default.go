package rubric

// Default returns the built-in rubrics used when no rubric file is configured.
func Default() *Set {
	s, err := NewSet(season2025(), season2026())
	if err != nil {
		panic(err)
	}
	return s
}

func season2026() *Rubric {
	return &Rubric{
		Season: "2026",
		Auto: PhaseRules{
			Categories: map[string]map[string]float64{
				"Auto Climb": {"Yes": 15, "No": 0},
			},
		},
		Teleop: PhaseRules{
			Weights: map[string]float64{"Fuel": 1},
		},
		Endgame: PhaseRules{
			Categories: map[string]map[string]float64{
				"Endgame": {"L3 Climb": 30, "L2 Climb": 20, "L1 Climb": 10, "Nothing": 0},
			},
		},
	}
}

func season2025() *Rubric {
	return &Rubric{
		Season: "2025",
		Auto: PhaseRules{
			Categories: map[string]map[string]float64{
				"Auto Leave": {"Yes": 3, "No": 0},
			},
			Weights: map[string]float64{
				"Auto Coral L1": 3,
				"Auto Coral L2": 4,
				"Auto Coral L3": 6,
				"Auto Coral L4": 7,
			},
		},
		Teleop: PhaseRules{
			Weights: map[string]float64{
				"Teleop Coral L1":        2,
				"Teleop Coral L2":        3,
				"Teleop Coral L3":        4,
				"Teleop Coral L4":        5,
				"Teleop Net Algae":       4,
				"Teleop Processor Algae": 6,
			},
		},
		Endgame: PhaseRules{
			Categories: map[string]map[string]float64{
				"Barge": {"Deep Climb": 12, "Shallow Climb": 6, "Park": 2, "None": 0},
			},
		},
	}
}
