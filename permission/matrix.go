package permission

// Matrix maps a feature to the grant level of each requester class.
// It is generic over the feature and class key types; projects supply
// their own identifiers (typically strings or small enumerations).
//
// A Matrix is treated as a read-only snapshot for the duration of one
// authorization decision. The engine never mutates it.
type Matrix[F comparable, C comparable] map[F]map[C]Level

// Lookup resolves the nominal grant level for a (feature, class) pair.
// A feature absent from the matrix, or a class absent for that feature,
// resolves to NONE via an explicit presence check — deny by default for
// malformed or partially configured matrices, never an error. A stored
// NONE resolves to NONE through the present-key path; both outcomes are
// intentional and distinct.
func (m Matrix[F, C]) Lookup(feature F, class C) Level {
	classes, ok := m[feature]
	if !ok {
		return LevelNone
	}
	level, ok := classes[class]
	if !ok {
		return LevelNone
	}
	return level
}

// Features returns the features present in the matrix, in no particular
// order. Bulk permission loaders use this to enumerate the known feature
// set for one user.
func (m Matrix[F, C]) Features() []F {
	out := make([]F, 0, len(m))
	for f := range m {
		out = append(out, f)
	}
	return out
}
