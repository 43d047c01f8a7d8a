// Package format holds DjVu container constants shared by the page
// assembler and the document coordinator: INFO layout, DIRM flag bits,
// and configuration defaults/bounds. Adapted from
// github.com/deepteams/webp/internal/container's FourCC/format-constant
// table, generalised from WebP's chunk IDs to DjVu's.
package format

// INFOSize is the fixed size in bytes of the INFO chunk payload.
const INFOSize = 10

// DIRM flags_version byte: bit 7 is the bundled flag, bits 6..0 the
// directory format version.
const (
	DIRMBundledBit = 1 << 7
	DIRMVersion    = 1
	DIRMFlagsByte  = DIRMBundledBit | DIRMVersion
)

// DIRM per-component flags (low 6 bits of the flags byte), plus the two
// high bits marking presence of an optional name/title string.
const (
	ComponentDJVI     = 0
	ComponentDJVU     = 1
	ComponentTHUM     = 2
	ComponentHasName  = 1 << 6
	ComponentHasTitle = 1 << 7
)

// Configuration bounds and defaults (spec §6 "Configuration options").
const (
	DPIMin     = 72
	DPIMax     = 4800
	DPIDefault = 300

	GammaMin     = 1.0
	GammaMax     = 5.0
	GammaDefault = 2.2

	QualityMin     = 0
	QualityMax     = 100
	QualityDefault = 75

	VersionDefault = 26
)

// BZZBlockSize is the maximum BZZ block size in bytes.
const BZZBlockSize = 4096
