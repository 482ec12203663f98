// Package template builds a sample cost-estimation workbook with the layout
// the fill pipeline expects.
package template

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/gyeh/trialcost/internal/model"
	"github.com/gyeh/trialcost/internal/sheet"
)

// Row is one data row of the sample template. UnitRate is written as a
// number when it is a float64 and as text otherwise.
type Row struct {
	Designation  string
	UnitRate     any
	Instructions string
}

const (
	levelRates = "Niveau 1 : 57,50 ; Niveau 2 : 57,50 ; Niveau 3 : 57,50"
	grid       = "Voir grille temps TEC"
)

// SampleRows returns the data rows of the sample template, one per priced
// act plus a few rows no rule prices.
func SampleRows() []Row {
	return []Row{
		{"Frais administratifs", "Coordonnateur : 1500 ; Associé : 1000", ""},
		{"Frais supplémentaires pour l'élaboration d'un avenant", "Coordonnateur : 500 ; Associé : 300", "Par avenant"},
		{"Mise en place de la recherche", "Niveau 1 : 400 ; Niveau 2 : 600 ; Niveau 3 : 800", ""},
		{"Forfait de frais logistique (personnels extérieurs)", "Niveau 1 : 30 ; Niveau 2 : 45 ; Niveau 3 : 60", "Par visite"},
		{"Forfait maintenance des appareils", 250.0, "Par année"},
		{"Consultation d'inclusion", "Niveau 1 : 80 ; Niveau 2 : 120 ; Niveau 3 : 160", ""},
		{"Prise de connaissance de l'amendement", 57.5, "30 min par amendement"},
		{"Consultation pour amendement", 80.0, "1 h"},
		{"Temps TEC formation niveau 1", levelRates, ""},
		{"Temps TEC formation niveau 2", levelRates, ""},
		{"Temps TEC formation niveau 3", levelRates, ""},
		{"Temps TEC monitoring avec promoteur/CRO niveau 1", levelRates, "Par visite de monitoring"},
		{"Temps TEC monitoring avec promoteur/CRO niveau 2", levelRates, "Par visite de monitoring"},
		{"Temps TEC monitoring avec promoteur/CRO niveau 3", levelRates, "Par visite de monitoring"},
		{"Temps TEC visite de screening patient", grid, ""},
		{"Temps TEC visite sur site, de suivi patient ou téléphonique", grid, ""},
		{"Temps TEC visite finale ou arrêt prématuré", grid, ""},
		{"Temps TEC formation aux questionnaires et carnets patient", 57.5, ""},
		{"Temps TEC gestion auto-questionnaire", "14,37 / 28,75", "Par questionnaire"},
		{"Temps TEC formation initiale du patient à l'auto-questionnaire", "28,75 / 57,50", ""},
		{"Temps TEC pour la gestion des kits de prélèvement", 57.5, "Par visite"},
		{"Temps TEC appel IVRS/IWRS", 11.24, "Par visite"},
		{"Temps TEC pour la gestion des remboursements des frais patients", "47,92 €", "Par visite"},
		{"Examen d'imagerie", "Selon tarif", "Non facturé par la recherche"},
		{"Temps IDE : formation au protocole initial", "Niveau 1 : 30 ; Niveau 2 : 45 ; Niveau 3 : 60", ""},
		{"Temps infirmier pour prélèvements sanguins", 13.0, "Par prélèvement"},
		{"Temps infirmier pour prélèvements d'urine", 13.0, ""},
		{"Temps infirmier pour la mesure des signes vitaux", 13.0, ""},
		{"Temps infirmier : injection du traitement", 13.0, ""},
		{"Temps infirmier pose et retrait de perfusion", 26.0, ""},
		{"Temps infirmier pose / retrait cathéter", 26.0, ""},
		{"Temps infirmier d'aide au médecin", 20.0, "Par visite"},
		{"Temps infirmier par point de PK/PD", 13.0, ""},
		{"Temps manipulateur radio pour administration", 28.75, ""},
	}
}

var headers = map[sheet.Column]string{
	sheet.ColDesignation:     "Désignation",
	sheet.ColOccurrenceLimit: "Limite d'occurrence",
	sheet.ColCostType:        "Type de coût",
	sheet.ColUnitRate:        "Tarif unitaire",
	sheet.ColItemCount:       "Nombre d'items",
	sheet.ColLineTotal:       "Total par ligne",
	sheet.ColCenterTotal:     "Total centre",
	sheet.ColInstructions:    "Consignes",
}

// Build writes a sample workbook to path: the patient-count label, column
// headers on the row above layout.HeaderRow, the rows starting at
// layout.HeaderRow, a blank row and the end marker on the grand-total row.
// It returns the data range the fill pipeline should find.
func Build(path string, layout sheet.Layout, rows []Row) (rng model.DataRange, err error) {
	if layout.HeaderRow < 2 {
		return rng, fmt.Errorf("header row %d leaves no room for column headers", layout.HeaderRow)
	}

	f := excelize.NewFile()
	defer f.Close()

	name := layout.SheetName
	if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
		return rng, fmt.Errorf("set sheet name: %w", err)
	}

	set := func(row int, col sheet.Column, v any) {
		if err != nil {
			return
		}
		var cell string
		if cell, err = excelize.CoordinatesToCellName(int(col), row); err != nil {
			return
		}
		err = f.SetCellValue(name, cell, v)
	}

	set(1, sheet.ColDesignation, "Annexe 2.1 : grille des surcoûts de la recherche")
	set(layout.PatientRow, sheet.ColDesignation, "Nombre de patients prévus")
	if err != nil {
		return rng, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#333333"},
			Pattern: 1,
		},
	})
	if err != nil {
		return rng, fmt.Errorf("create header style: %w", err)
	}
	headerRow := layout.HeaderRow - 1
	for col, label := range headers {
		set(headerRow, col, label)
	}
	if err != nil {
		return rng, err
	}
	if err := f.SetCellStyle(name, fmt.Sprintf("A%d", headerRow), fmt.Sprintf("H%d", headerRow), headerStyle); err != nil {
		return rng, fmt.Errorf("style headers: %w", err)
	}
	if err := f.SetColWidth(name, "A", "A", 60); err != nil {
		return rng, fmt.Errorf("set col width: %w", err)
	}

	for i, r := range rows {
		row := layout.HeaderRow + i
		set(row, sheet.ColDesignation, r.Designation)
		set(row, sheet.ColUnitRate, r.UnitRate)
		if r.Instructions != "" {
			set(row, sheet.ColInstructions, r.Instructions)
		}
	}
	rng = model.DataRange{
		FirstRow: layout.HeaderRow,
		LastRow:  layout.HeaderRow + len(rows),
		TotalRow: layout.HeaderRow + len(rows) + 1,
	}
	set(rng.TotalRow, sheet.ColDesignation, layout.EndMarker)
	if err != nil {
		return model.DataRange{}, err
	}

	if err := f.SaveAs(path); err != nil {
		return model.DataRange{}, fmt.Errorf("save %s: %w", path, err)
	}
	return rng, nil
}
