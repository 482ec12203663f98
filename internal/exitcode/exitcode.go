package exitcode

const (
	Success          = 0
	UsageError       = 1
	ValidationError  = 2
	LookupError      = 3
	ComputationError = 4
	WriteError       = 5
	DBConnError      = 6
)
