package model

import (
	"errors"
	"fmt"
	"strings"
)

// Level is the study complexity level (1 to 3).
type Level int

const (
	Level1 Level = 1
	Level2 Level = 2
	Level3 Level = 3
)

// Valid reports whether l is one of the three known levels.
func (l Level) Valid() bool {
	return l >= Level1 && l <= Level3
}

func (l Level) String() string {
	return fmt.Sprintf("%d", int(l))
}

// CenterType is the site role in the study.
type CenterType string

const (
	Coordinating CenterType = "Coordonnateur"
	Associate    CenterType = "Associé"
)

// ParseCenterType accepts the French template labels and their English names.
func ParseCenterType(s string) (CenterType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "coordonnateur", "coordinateur", "coordinating":
		return Coordinating, true
	case "associé", "associe", "associate":
		return Associate, true
	}
	return "", false
}

// QuestionnaireFormat is the medium of patient self-questionnaires.
type QuestionnaireFormat string

const (
	Paper      QuestionnaireFormat = "papier"
	Electronic QuestionnaireFormat = "électronique"
)

// ParseQuestionnaireFormat accepts "papier"/"paper" and "électronique"/"electronic".
// An empty string selects the electronic format.
func ParseQuestionnaireFormat(s string) (QuestionnaireFormat, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "électronique", "electronique", "electronic":
		return Electronic, true
	case "papier", "paper":
		return Paper, true
	}
	return "", false
}

// NurseTask identifies one of the optional nursing-time counts.
type NurseTask int

const (
	BloodDraws NurseTask = iota
	UrineSamples
	VitalSigns
	Injections
	InfusionLines
	Catheters
	PKPDPoints
)

var nurseTaskNames = [...]string{
	BloodDraws:    "blood_draws",
	UrineSamples:  "urine_samples",
	VitalSigns:    "vital_signs",
	Injections:    "injections",
	InfusionLines: "infusion_lines",
	Catheters:     "catheters",
	PKPDPoints:    "pkpd_points",
}

func (t NurseTask) String() string {
	if t < 0 || int(t) >= len(nurseTaskNames) {
		return fmt.Sprintf("nurse_task(%d)", int(t))
	}
	return nurseTaskNames[t]
}

// ParseNurseTask maps a task name such as "blood_draws" to its NurseTask.
func ParseNurseTask(s string) (NurseTask, bool) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range nurseTaskNames {
		if n == name {
			return NurseTask(i), true
		}
	}
	return 0, false
}

// Input is the unvalidated form of the study parameters, as collected from
// a parameters file or flags. Nil pointers mean "not provided".
type Input struct {
	Level               *int
	Patients            *int
	Visits              *int
	Center              string
	DurationYears       *int
	Amendments          *int
	MonitoringVisits    *int
	CRFPages            *int
	AutoQuestionnaires  *int
	QuestionnaireFormat string
	ExternalPersonnel   bool
	NurseTasks          map[NurseTask]int
}

// StudyParameters drive every rule of a single run. Build them with
// NewStudyParameters; the zero value is not valid.
type StudyParameters struct {
	Level               Level
	Patients            int
	Visits              int
	Center              CenterType
	DurationYears       int
	Amendments          int
	MonitoringVisits    int
	CRFPages            int
	AutoQuestionnaires  int
	QuestionnaireFormat QuestionnaireFormat
	ExternalPersonnel   bool

	nurseTasks map[NurseTask]int
}

// MinVisits is one screening visit plus one final visit.
const MinVisits = 2

// NewStudyParameters validates in and returns the immutable parameters.
// All problems are reported at once, each as a *ValidationError.
func NewStudyParameters(in Input) (StudyParameters, error) {
	var errs []error
	fail := func(field, msg string, value any) {
		errs = append(errs, NewValidationError(field, msg, value))
	}

	p := StudyParameters{ExternalPersonnel: in.ExternalPersonnel}

	switch {
	case in.Level == nil:
		fail("level", "study level is required", nil)
	case !Level(*in.Level).Valid():
		fail("level", "study level must be 1, 2 or 3", *in.Level)
	default:
		p.Level = Level(*in.Level)
	}

	switch {
	case in.Patients == nil:
		fail("patients", "number of patients is required", nil)
	case *in.Patients <= 0:
		fail("patients", "number of patients must be > 0", *in.Patients)
	default:
		p.Patients = *in.Patients
	}

	switch {
	case in.Visits == nil:
		fail("visits", "number of visits is required", nil)
	case *in.Visits < MinVisits:
		fail("visits", fmt.Sprintf("total visits per patient must be at least %d (1 screening + 1 final)", MinVisits), *in.Visits)
	default:
		p.Visits = *in.Visits
	}

	if in.Center == "" {
		fail("center", "center type is required", nil)
	} else if ct, ok := ParseCenterType(in.Center); !ok {
		fail("center", "center type must be Coordonnateur or Associé", in.Center)
	} else {
		p.Center = ct
	}

	switch {
	case in.DurationYears == nil:
		fail("duration_years", "study duration is required", nil)
	case *in.DurationYears <= 0:
		fail("duration_years", "study duration must be > 0", *in.DurationYears)
	default:
		p.DurationYears = *in.DurationYears
	}

	p.Amendments = nonNegative(in.Amendments, "amendments", fail)
	p.MonitoringVisits = nonNegative(in.MonitoringVisits, "monitoring_visits", fail)
	p.CRFPages = nonNegative(in.CRFPages, "crf_pages", fail)
	p.AutoQuestionnaires = nonNegative(in.AutoQuestionnaires, "auto_questionnaires", fail)

	if f, ok := ParseQuestionnaireFormat(in.QuestionnaireFormat); ok {
		p.QuestionnaireFormat = f
	} else {
		fail("questionnaire_format", "questionnaire format must be papier or électronique", in.QuestionnaireFormat)
	}

	if len(in.NurseTasks) > 0 {
		p.nurseTasks = make(map[NurseTask]int, len(in.NurseTasks))
		for task, n := range in.NurseTasks {
			if n < 0 {
				fail(task.String(), "nurse task count must be >= 0", n)
				continue
			}
			p.nurseTasks[task] = n
		}
	}

	if len(errs) > 0 {
		return StudyParameters{}, errors.Join(errs...)
	}
	return p, nil
}

func nonNegative(v *int, field string, fail func(string, string, any)) int {
	if v == nil {
		return 0
	}
	if *v < 0 {
		fail(field, field+" must be >= 0", *v)
		return 0
	}
	return *v
}

// OnSiteVisits is the number of visits between screening and the final visit.
func (p StudyParameters) OnSiteVisits() int {
	return max(0, p.Visits-MinVisits)
}

// NurseTaskCount returns the explicit count for task, or the visit count
// when none was provided.
func (p StudyParameters) NurseTaskCount(task NurseTask) int {
	if n, ok := p.nurseTasks[task]; ok {
		return n
	}
	return p.Visits
}
