// mktemplate writes a small cost-annex workbook with representative rows.
// Usage: go run ./cmd/mktemplate --out testdata/matrice.xlsx
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gyeh/trialcost/internal/sheet"
	"github.com/gyeh/trialcost/internal/template"
)

func main() {
	out := flag.String("out", "testdata/matrice.xlsx", "output workbook")
	sheetName := flag.String("sheet", "", "worksheet name (default: the reference annex sheet)")
	limit := flag.Int("rows", 0, "write only the first N sample rows (0 = all)")
	flag.Parse()

	layout := sheet.DefaultLayout()
	if *sheetName != "" {
		layout.SheetName = *sheetName
	}

	rows := template.SampleRows()
	if *limit > 0 && *limit < len(rows) {
		rows = rows[:*limit]
	}

	rng, err := template.Build(*out, layout, rows)
	if err != nil {
		fmt.Fprintf(os.Stderr, "build template: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Wrote %s\n", *out)
	fmt.Printf("  sheet:     %s\n", layout.SheetName)
	fmt.Printf("  data rows: %d..%d (%d rows)\n", rng.FirstRow, rng.LastRow, len(rows))
	fmt.Printf("  total row: %d\n", rng.TotalRow)
}
