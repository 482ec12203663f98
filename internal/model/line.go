package model

// Category tags the technician-time rows priced by the special-time formula.
type Category string

const (
	CategoryNone        Category = ""
	CategoryScreening   Category = "screening"
	CategoryOnsiteVisit Category = "onsite_visit"
	CategoryFinalVisit  Category = "final_visit"
)

// HighlightClass is the two-way highlight applied to written rows.
type HighlightClass string

const (
	HighlightGeneric           HighlightClass = "generic"
	HighlightParameterSpecific HighlightClass = "parameter-specific"
)

// Color returns the fill color used for the class in the workbook.
func (h HighlightClass) Color() string {
	if h == HighlightParameterSpecific {
		return "#FFC7CE"
	}
	return "#ADD8E6"
}

// TemplateRow is the read-only input of one data row.
type TemplateRow struct {
	Index           int
	Designation     string
	RawUnitRate     string
	RawInstructions string
}

// LineResult is the priced outcome of one matched row.
type LineResult struct {
	Row         int
	Designation string
	Rule        string
	Category    Category
	Quantity    float64
	UnitRate    float64
	LineTotal   float64
	CenterTotal float64
	FixedCost   bool
	Highlight   HighlightClass
}

// CategoryCounts tallies priced rows per special-time category.
type CategoryCounts struct {
	Screening   int `json:"screening"`
	OnsiteVisit int `json:"onsite_visit"`
	FinalVisit  int `json:"final_visit"`
}

// Inc increments the counter for c; other categories are ignored.
func (c *CategoryCounts) Inc(cat Category) {
	switch cat {
	case CategoryScreening:
		c.Screening++
	case CategoryOnsiteVisit:
		c.OnsiteVisit++
	case CategoryFinalVisit:
		c.FinalVisit++
	}
}

// Get returns the counter for cat.
func (c CategoryCounts) Get(cat Category) int {
	switch cat {
	case CategoryScreening:
		return c.Screening
	case CategoryOnsiteVisit:
		return c.OnsiteVisit
	case CategoryFinalVisit:
		return c.FinalVisit
	}
	return 0
}
