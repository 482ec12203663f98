package rules

import (
	"regexp"

	"github.com/gyeh/trialcost/internal/model"
)

// Rates written into the rules rather than read from the template.
const (
	rateTechnicianHour = 57.50
	rateNurseAct       = 13.00
	rateNurseLine      = 26.00
	rateRadiographer   = 28.75
	rateIVRSCall       = 11.24
	rateRefundHigh     = 47.92
	rateRefundLow      = 19.17
)

func constant(v float64) Quantity {
	return Quantity{Kind: QtyConstant, Value: v}
}

func literal(v float64) Rate {
	return Rate{Kind: RateLiteral, Literal: v}
}

func nurse(task model.NurseTask) Quantity {
	return Quantity{Kind: QtyNurseTask, Task: task}
}

// Table returns the row rules in declaration order.
//
// Order is part of the contract: several designations match more than one
// predicate and the first rule wins. In particular the "temps tec
// formation" rule precedes, and therefore captures, "temps tec formation
// initiale du patient à l'auto-questionnaire".
func Table() []Rule {
	return []Rule{
		{
			Name:           "frais_administratifs",
			Contains:       []string{"frais administratifs"},
			Quantity:       constant(1),
			Rate:           Rate{Kind: RateCenter},
			FixedCost:      true,
			CenterSpecific: true,
		},
		{
			Name:               "elaboration_avenant",
			Contains:           []string{"frais supplémentaires pour l'élaboration d'un avenant"},
			Quantity:           Quantity{Kind: QtyAmendments},
			Rate:               Rate{Kind: RateCenter},
			FixedCost:          true,
			CenterSpecific:     true,
			RequiresAmendments: true,
		},
		{
			Name:          "mise_en_place",
			Contains:      []string{"mise en place de la recherche"},
			Quantity:      constant(1),
			Rate:          Rate{Kind: RateLevel},
			FixedCost:     true,
			LevelSpecific: true,
		},
		{
			Name:                    "forfait_logistique",
			Contains:                []string{"forfait de frais logistique"},
			Quantity:                Quantity{Kind: QtyVisits},
			Rate:                    Rate{Kind: RateLevel},
			LevelSpecific:           true,
			ExternalPersonnelPhrase: "personnels extérieurs",
		},
		{
			Name:      "maintenance_appareils",
			Contains:  []string{"forfait maintenance des appareils"},
			Quantity:  Quantity{Kind: QtyDurationYears},
			Rate:      Rate{Kind: RateCell},
			FixedCost: true,
		},
		{
			Name:          "consultation_inclusion",
			Contains:      []string{"consultation d'inclusion"},
			Quantity:      constant(1),
			Rate:          Rate{Kind: RateLevel},
			LevelSpecific: true,
		},
		{
			Name:               "prise_connaissance_amendement",
			Contains:           []string{"prise de connaissance de l'amendement", "prise de connaissance de l'addendum"},
			Quantity:           Quantity{Kind: QtyAmendmentHours, DefaultHours: 0.5},
			Rate:               Rate{Kind: RateCell},
			FixedCost:          true,
			RequiresAmendments: true,
		},
		{
			Name:               "consultation_amendement",
			Contains:           []string{"consultation pour addendum", "consultation pour amendement"},
			Quantity:           Quantity{Kind: QtyAmendmentHours, DefaultHours: 1.0},
			Rate:               Rate{Kind: RateCell},
			FixedCost:          true,
			RequiresAmendments: true,
		},
		{
			Name:     "tec_formation",
			Contains: []string{"temps tec formation"},
			Excludes: []string{"questionnaires"},
			Quantity: Quantity{Kind: QtyLevelTable, PerLevel: map[model.Level]float64{
				model.Level1: 5, model.Level2: 6, model.Level3: 8,
			}},
			Rate:          Rate{Kind: RateLevel},
			FixedCost:     true,
			LevelSpecific: true,
		},
		{
			Name:     "tec_monitoring",
			Contains: []string{"temps tec monitoring avec promoteur/cro"},
			Quantity: Quantity{Kind: QtyMonitoringHours, PerLevel: map[model.Level]float64{
				model.Level1: 2.5, model.Level2: 4, model.Level3: 5,
			}},
			Rate:          Rate{Kind: RateLevel},
			FixedCost:     true,
			LevelSpecific: true,
		},
		{
			Name:          "tec_screening",
			Contains:      []string{"temps tec visite de screening patient"},
			Quantity:      constant(1),
			Rate:          Rate{Kind: RateSpecialTime},
			LevelSpecific: true,
			Category:      model.CategoryScreening,
		},
		{
			Name:          "tec_visite_site",
			Contains:      []string{"temps tec visite sur site, de suivi patient ou téléphonique"},
			Quantity:      Quantity{Kind: QtyOnSiteVisits},
			Rate:          Rate{Kind: RateSpecialTime},
			LevelSpecific: true,
			Category:      model.CategoryOnsiteVisit,
		},
		{
			Name:          "tec_visite_finale",
			Contains:      []string{"temps tec visite finale ou arrêt prématuré"},
			Quantity:      constant(1),
			Rate:          Rate{Kind: RateSpecialTime},
			LevelSpecific: true,
			Category:      model.CategoryFinalVisit,
		},
		{
			Name:      "tec_formation_questionnaires",
			Contains:  []string{"temps tec formation aux questionnaires et carnets patient"},
			Quantity:  constant(1),
			Rate:      literal(rateTechnicianHour),
			FixedCost: true,
		},
		{
			Name:     "tec_gestion_auto_questionnaire",
			Contains: []string{"temps tec gestion auto-questionnaire"},
			Quantity: Quantity{Kind: QtyAutoQuestionnaires},
			Rate:     Rate{Kind: RateAutoQuestionnaire},
		},
		{
			Name:     "tec_formation_patient_auto_questionnaire",
			Contains: []string{"temps tec formation initiale du patient à l'auto-questionnaire"},
			Quantity: constant(1),
			Rate:     Rate{Kind: RatePatientTraining},
		},
		{
			Name:     "tec_kits_prelevement",
			Contains: []string{"temps tec pour la gestion des kits de prélèvement"},
			Quantity: Quantity{Kind: QtyVisits},
			Rate:     literal(rateTechnicianHour),
		},
		{
			Name:     "tec_ivrs",
			Contains: []string{"temps tec appel ivrs/iwrs"},
			Quantity: Quantity{Kind: QtyVisits},
			Rate:     literal(rateIVRSCall),
		},
		{
			Name:     "tec_remboursements",
			Contains: []string{"temps tec pour la gestion des remboursements des frais patients"},
			Quantity: Quantity{Kind: QtyVisits},
			Rate: Rate{
				Kind:       RateCellLiteralSwitch,
				Literal:    rateRefundHigh,
				Alternate:  rateRefundLow,
				SwitchText: "47,92",
			},
		},
		{
			Name:          "ide_formation_protocole",
			Pattern:       regexp.MustCompile(`temps\s+ide\s*:\s*formation\s+au\s+protocole\s+initial`),
			Quantity:      constant(1),
			Rate:          Rate{Kind: RateLevel},
			FixedCost:     true,
			LevelSpecific: true,
		},
		{
			Name:     "infirmier_prelevements_sanguins",
			Contains: []string{"temps infirmier pour prélèvements sanguins"},
			Quantity: nurse(model.BloodDraws),
			Rate:     literal(rateNurseAct),
		},
		{
			Name:     "infirmier_prelevements_urine",
			Contains: []string{"temps infirmier pour prélèvements d'urine"},
			Quantity: nurse(model.UrineSamples),
			Rate:     literal(rateNurseAct),
		},
		{
			Name:     "infirmier_signes_vitaux",
			Contains: []string{"temps infirmier pour la mesure des signes vitaux"},
			Quantity: nurse(model.VitalSigns),
			Rate:     literal(rateNurseAct),
		},
		{
			Name:     "infirmier_injection",
			Pattern:  regexp.MustCompile(`temps\s+infirmier.*injection.*traitement`),
			Quantity: nurse(model.Injections),
			Rate:     literal(rateNurseAct),
		},
		{
			Name:     "infirmier_perfusion",
			Pattern:  regexp.MustCompile(`temps\s+infirmier.*pose.*retrait.*perfusion`),
			Quantity: nurse(model.InfusionLines),
			Rate:     literal(rateNurseLine),
		},
		{
			Name:     "infirmier_catheter",
			Pattern:  regexp.MustCompile(`temps\s+infirmier.*pose.*retrait.*cathéter`),
			Quantity: nurse(model.Catheters),
			Rate:     literal(rateNurseLine),
		},
		{
			Name:     "infirmier_aide_medecin",
			Pattern:  regexp.MustCompile(`temps\s+infirmier.*aide\s+au\s+médecin`),
			Quantity: Quantity{Kind: QtyVisits},
			Rate:     Rate{Kind: RateCell},
		},
		{
			Name:     "infirmier_pkpd",
			Pattern:  regexp.MustCompile(`temps\s+infirmier.*point\s+de\s+pk/pd`),
			Quantity: nurse(model.PKPDPoints),
			Rate:     literal(rateNurseAct),
		},
		{
			Name:     "manipulateur_radio",
			Pattern:  regexp.MustCompile(`temps\s+manipulateur\s+radio.*administration`),
			Quantity: Quantity{Kind: QtyVisits},
			Rate:     literal(rateRadiographer),
		},
	}
}
