package agents

// JobProfile describes how a job shapes skills and activity choices.
type JobProfile struct {
	// PrimarySkills start higher for holders of the job.
	PrimarySkills []Skill

	// Modifiers scale the score of activities this job favors or avoids.
	Modifiers map[ActivityKind]float64
}

var jobProfiles = [NumJobs]JobProfile{
	JobAreologist: {
		PrimarySkills: []Skill{SkillAreology, SkillEVA},
		Modifiers: map[ActivityKind]float64{
			ActivityLeadFieldStudy: 2.0,
			ActivityFieldWork:      1.5,
			ActivityResearch:       1.5,
		},
	},
	JobAstronomer: {
		PrimarySkills: []Skill{SkillAstronomy},
		Modifiers: map[ActivityKind]float64{
			ActivityObserveAstronomy: 2.0,
			ActivityResearch:         1.2,
		},
	},
	JobBotanist: {
		PrimarySkills: []Skill{SkillBotany},
		Modifiers: map[ActivityKind]float64{
			ActivityResearch: 1.2,
			ActivityCook:     1.1,
		},
	},
	JobChef: {
		PrimarySkills: []Skill{SkillCooking},
		Modifiers: map[ActivityKind]float64{
			ActivityCook: 2.0,
		},
	},
	JobDoctor: {
		PrimarySkills: []Skill{SkillMedicine},
		Modifiers: map[ActivityKind]float64{
			ActivityResearch: 1.2,
			ActivityRelax:    1.1,
		},
	},
	JobDriver: {
		PrimarySkills: []Skill{SkillDriving, SkillMechanics},
		Modifiers: map[ActivityKind]float64{
			ActivityLoadVehicleGarage:   1.5,
			ActivityLoadVehicleEVA:      1.5,
			ActivityUnloadVehicleGarage: 1.5,
			ActivityUnloadVehicleEVA:    1.5,
			ActivityLeadFieldStudy:      0.5,
		},
	},
	JobEngineer: {
		PrimarySkills: []Skill{SkillMechanics, SkillEVA},
		Modifiers: map[ActivityKind]float64{
			ActivityLoadVehicleGarage: 1.2,
			ActivityLoadVehicleEVA:    1.2,
		},
	},
	JobTechnician: {
		PrimarySkills: []Skill{SkillMechanics},
		Modifiers: map[ActivityKind]float64{
			ActivityUnloadVehicleGarage: 1.2,
			ActivityUnloadVehicleEVA:    1.2,
		},
	},
	JobTrader: {
		PrimarySkills: []Skill{SkillTrading, SkillDriving},
		Modifiers: map[ActivityKind]float64{
			ActivityLeadTrade:        2.0,
			ActivityNegotiateTrade:   2.0,
			ActivityObserveAstronomy: 0.5,
		},
	},
}

// Profile returns the profile for j.
func Profile(j Job) JobProfile {
	if int(j) < len(jobProfiles) {
		return jobProfiles[j]
	}
	return JobProfile{}
}

// JobModifier returns the multiplier a job applies to kind (1 when neutral).
func JobModifier(j Job, kind ActivityKind) float64 {
	if m, ok := Profile(j).Modifiers[kind]; ok {
		return m
	}
	return 1.0
}
