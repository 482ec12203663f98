package main

import (
	"errors"

	"github.com/gyeh/trialcost/internal/exitcode"
	"github.com/gyeh/trialcost/internal/fill"
	"github.com/gyeh/trialcost/internal/model"
	"github.com/gyeh/trialcost/internal/pricing"
	"github.com/gyeh/trialcost/internal/sheet"
)

// exitCodeFor maps a pipeline failure to the process exit code.
func exitCodeFor(err error) int {
	var (
		ve *model.ValidationError
		le *sheet.LookupError
		ce *pricing.ComputationError
		pe *fill.PipelineError
	)
	switch {
	case errors.As(err, &ve):
		return exitcode.ValidationError
	case errors.As(err, &le):
		return exitcode.LookupError
	case errors.As(err, &ce):
		return exitcode.ComputationError
	case errors.As(err, &pe):
		switch pe.Phase {
		case fill.PhaseValidate:
			return exitcode.UsageError
		case fill.PhaseOpen:
			return exitcode.LookupError
		case fill.PhaseReport, fill.PhaseSave, fill.PhaseClear:
			return exitcode.WriteError
		}
	}
	return exitcode.ComputationError
}

func phaseOf(err error) string {
	var pe *fill.PipelineError
	if errors.As(err, &pe) {
		return pe.Phase
	}
	return ""
}
