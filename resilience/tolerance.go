package resilience

// ConfigErrorKind categorizes errors produced one layer above resolution,
// while validating and shaping an already-resolved map.
type ConfigErrorKind string

const (
	ConfigErrorValidation     ConfigErrorKind = "validation"
	ConfigErrorParsing        ConfigErrorKind = "parsing"
	ConfigErrorTransformation ConfigErrorKind = "transformation"
)

// Tolerance describes how a configuration-level error is absorbed.
type Tolerance struct {
	// Tolerated errors never abort consumption of the resolved map.
	Tolerated bool

	// SubstituteDefault replaces the affected field with its default. When
	// false for a tolerated error, the field is treated as missing.
	SubstituteDefault bool
}

// ToleranceFor returns the handling policy for a configuration-level error.
// Validation and parsing failures substitute a default value; transformation
// failures are tolerated without one, signaling the field is effectively
// missing.
func ToleranceFor(kind ConfigErrorKind) Tolerance {
	switch kind {
	case ConfigErrorValidation, ConfigErrorParsing:
		return Tolerance{Tolerated: true, SubstituteDefault: true}
	case ConfigErrorTransformation:
		return Tolerance{Tolerated: true, SubstituteDefault: false}
	default:
		return Tolerance{}
	}
}
