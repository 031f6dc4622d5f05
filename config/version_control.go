package config

// Version system:
// vMAJOR.MINOR.PATCH

// Centralized version control
const (
	// Executable
	MainVersion = "v1.1.0"

	// Modular tools
	OrganiseTaxa  = "v1.1.0"
	ExtractString = "v1.0.0"
	ParseAcc      = "v1.0.1" // gained -expand
	Homopolymers  = "v1.1.0" // gained the HTML report
	SanityCheck   = "v1.0.0"
	Benchmark     = "v1.0.0"
)
