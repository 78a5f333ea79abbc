package constants

const (
	AppName            = "wellannot"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/wellannot/wellannot.db"
	Version            = "v0.3.0"

	// TimestampFormat is the timestamp format stored on annotation records (RFC3339)
	TimestampFormat = "2006-01-02T15:04:05Z07:00"

	// Plate geometry. Panoramic plates are a fixed 10x12 grid of wells,
	// numbered 1..120 row-major.
	GridRows   = 10
	GridCols   = 12
	TotalHoles = GridRows * GridCols

	// FirstHole / LastHole bound valid hole numbers.
	FirstHole = 1
	LastHole  = TotalHoles

	// DefaultStartHole is where a fresh annotation session begins. Holes 1-24
	// are typically control/gradient wells on this plate format.
	DefaultStartHole = 25

	// Default pixel layout for a 3088x2064 panoramic image. Overridable per
	// dataset through layout parameters.
	DefaultFirstHoleX        = 750
	DefaultFirstHoleY        = 392
	DefaultHorizontalSpacing = 145
	DefaultVerticalSpacing   = 145
	DefaultHoleDiameter      = 90

	// DefaultConfidence applies to manual annotations without an explicit
	// confidence override.
	DefaultConfidence = 1.0
)
