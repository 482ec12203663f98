package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/gyeh/trialcost/internal/model"

	"gopkg.in/yaml.v3"
)

// Config holds all runtime configuration for a matrice run.
type Config struct {
	DSN          string
	TemplatePath string
	OutputPath   string
	ParamsPath   string
	ReportPath   string // optional Parquet export of the priced lines
	SheetName    string
	LogFormat    string // "text" or "json"
	LogLevel     string
	Workers      int
	StrictTotal  bool // a template without a grand-total row is an error
	Yes          bool // confirm in-place modification for clear
}

// Validate checks the fields a fill needs.
func (c *Config) Validate() error {
	if err := c.validateTemplate(); err != nil {
		return err
	}
	if c.ParamsPath == "" {
		return fmt.Errorf("--params is required")
	}
	if _, err := os.Stat(c.ParamsPath); err != nil {
		return fmt.Errorf("params file not accessible: %w", err)
	}
	if c.OutputPath == "" {
		c.OutputPath = DefaultOutputPath(c.TemplatePath)
	}
	if samePath(c.OutputPath, c.TemplatePath) {
		return fmt.Errorf("--out must differ from --template (use clear to modify a file in place)")
	}
	if c.Workers < 0 {
		return fmt.Errorf("--workers must be >= 0")
	}
	return nil
}

// ValidateClear checks the fields a clear needs.
func (c *Config) ValidateClear() error {
	if err := c.validateTemplate(); err != nil {
		return err
	}
	if !c.Yes {
		return fmt.Errorf("clear modifies %s in place; pass --yes to confirm", filepath.Base(c.TemplatePath))
	}
	return nil
}

// ValidateWithDSN checks that a database is configured.
func (c *Config) ValidateWithDSN() error {
	if c.DSN == "" {
		return fmt.Errorf("--dsn or TRIALCOST_DB_URL is required")
	}
	return nil
}

func (c *Config) validateTemplate() error {
	if c.TemplatePath == "" {
		return fmt.Errorf("--template is required")
	}
	if _, err := os.Stat(c.TemplatePath); err != nil {
		return fmt.Errorf("template not accessible: %w", err)
	}
	return nil
}

// DefaultOutputPath derives the filled workbook name from the template:
// "matrice.xlsm" becomes "matrice_remplie.xlsm".
func DefaultOutputPath(template string) string {
	ext := filepath.Ext(template)
	return strings.TrimSuffix(template, ext) + "_remplie" + ext
}

func samePath(a, b string) bool {
	aa, errA := filepath.Abs(a)
	bb, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return a == b
	}
	return aa == bb
}

// yamlParams is the on-disk YAML structure of a study parameters file.
type yamlParams struct {
	Level               *int           `yaml:"level"`
	Patients            *int           `yaml:"patients"`
	Visits              *int           `yaml:"visits"`
	Center              string         `yaml:"center"`
	DurationYears       *int           `yaml:"duration_years"`
	Amendments          *int           `yaml:"amendments"`
	MonitoringVisits    *int           `yaml:"monitoring_visits"`
	CRFPages            *int           `yaml:"crf_pages"`
	AutoQuestionnaires  *int           `yaml:"auto_questionnaires"`
	QuestionnaireFormat string         `yaml:"questionnaire_format"`
	ExternalPersonnel   bool           `yaml:"external_personnel"`
	NurseTasks          map[string]int `yaml:"nurse_tasks"`
}

// LoadParams reads a YAML study parameters file into an unvalidated
// model.Input. Unknown keys and unknown nurse tasks are rejected.
func LoadParams(path string) (model.Input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Input{}, fmt.Errorf("read params file: %w", err)
	}

	var yp yamlParams
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&yp); err != nil && !errors.Is(err, io.EOF) {
		var te *yaml.TypeError
		if errors.As(err, &te) {
			return model.Input{}, typeErrors(data, te)
		}
		return model.Input{}, fmt.Errorf("parse params file: %w", err)
	}

	in := model.Input{
		Level:               yp.Level,
		Patients:            yp.Patients,
		Visits:              yp.Visits,
		Center:              yp.Center,
		DurationYears:       yp.DurationYears,
		Amendments:          yp.Amendments,
		MonitoringVisits:    yp.MonitoringVisits,
		CRFPages:            yp.CRFPages,
		AutoQuestionnaires:  yp.AutoQuestionnaires,
		QuestionnaireFormat: yp.QuestionnaireFormat,
		ExternalPersonnel:   yp.ExternalPersonnel,
	}
	if len(yp.NurseTasks) > 0 {
		in.NurseTasks = make(map[model.NurseTask]int, len(yp.NurseTasks))
		var errs []error
		for name, n := range yp.NurseTasks {
			task, ok := model.ParseNurseTask(name)
			if !ok {
				errs = append(errs, model.NewValidationError("nurse_tasks", "unknown nurse task", name))
				continue
			}
			in.NurseTasks[task] = n
		}
		if len(errs) > 0 {
			return model.Input{}, errors.Join(errs...)
		}
	}
	return in, nil
}

var yamlLine = regexp.MustCompile(`^line (\d+): `)

// typeErrors turns the per-field decode failures of te (non-numeric counts,
// unknown keys) into ValidationErrors named after the offending key.
func typeErrors(data []byte, te *yaml.TypeError) error {
	keys := make(map[int]string)
	var doc yaml.Node
	if yaml.Unmarshal(data, &doc) == nil {
		collectKeys(&doc, "", keys)
	}

	errs := make([]error, 0, len(te.Errors))
	for _, msg := range te.Errors {
		var field string
		if m := yamlLine.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			field = keys[line]
		}
		errs = append(errs, model.NewValidationError(field, msg, nil))
	}
	return errors.Join(errs...)
}

// collectKeys maps each source line of a mapping entry to its dotted key.
func collectKeys(n *yaml.Node, prefix string, keys map[int]string) {
	if n.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			name := k.Value
			if prefix != "" {
				name = prefix + "." + name
			}
			keys[k.Line] = name
			if v.Line != k.Line {
				keys[v.Line] = name
			}
			collectKeys(v, name, keys)
		}
		return
	}
	for _, c := range n.Content {
		collectKeys(c, prefix, keys)
	}
}

// LoadStudyParameters reads and validates a study parameters file.
func LoadStudyParameters(path string) (model.StudyParameters, error) {
	in, err := LoadParams(path)
	if err != nil {
		return model.StudyParameters{}, err
	}
	return model.NewStudyParameters(in)
}
