package ir

// Version constants for the IR schema and the lowering stage.
const (
	// IRVersion is the IR schema version. Bump on any change to the
	// canonical text form, since fingerprints depend on it.
	IRVersion = "1"

	// StageVersion is the lowering stage version.
	StageVersion = "0.1.0"
)
