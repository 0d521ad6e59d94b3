package store

// Key prefixes keep the stores disjoint inside a shared provider.
const (
	PrefixAccount   = "acc:"
	PrefixNote      = "note:"
	PrefixNullifier = "nul:"
	PrefixMeta      = "meta:"
)
