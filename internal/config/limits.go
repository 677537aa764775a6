package config

// Input and output limits applied by the query pipeline.
const (
	// MaxQueryRunes rejects pathological inputs before matching.
	MaxQueryRunes = 2000

	// MaxSectionPreviewRunes is the preview length in section listings.
	MaxSectionPreviewRunes = 160

	// MaxPolicyContextSections caps excerpts attached to the fallback preamble.
	MaxPolicyContextSections = 3

	// MaxPolicyContextRunes caps each attached excerpt.
	MaxPolicyContextRunes = 1200

	// DefaultCompanyName appears in the assistant persona.
	DefaultCompanyName = "Capital Partners Group"
)
