// Package options contains the program options.
package options

// Parameters contains file path options.
type Parameters struct {
	Input  string
	Output string
}

// Flags contains behavior options.
type Flags struct {
	Chip     string
	Load     string
	Init     string
	Tick     string
	TickRate int
	Seconds  int
	Rows     int
	Song     int
	Debug    bool
	Quiet    bool
}

// Program options of the extractor.
type Program struct {
	Parameters
	Flags
}

// Extraction defines one replay run against a raw code image. Addresses
// are already resolved, the code bytes are provided by the caller.
type Extraction struct {
	Code     []byte
	LoadAddr uint16
	InitAddr uint16
	TickAddr uint16

	// Chip selects the tracker: apu, sid, pokey or ay.
	Chip string

	// TickRate is the native tick frequency in Hz, 50 when zero.
	TickRate int

	// Ticks to replay. Derived from Seconds and TickRate when zero.
	Ticks int

	// TargetRows bounds the reduced output length, 256 when zero.
	TargetRows int

	// Song selects the subsong passed to the init routine.
	Song byte

	// Trace enables per-instruction debug logging.
	Trace bool
}
