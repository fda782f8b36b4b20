package permission

import "testing"

func TestMatrixLookup(t *testing.T) {
	matrix := Matrix[string, string]{
		"resourceA": {
			"ADMIN":         LevelAdmin,
			"AUTHENTICATED": LevelView,
		},
		"adminPanel": {
			"GUEST": LevelNone,
		},
	}

	tests := []struct {
		name    string
		feature string
		class   string
		want    Level
	}{
		{"known pair", "resourceA", "ADMIN", LevelAdmin},
		{"known pair lower grant", "resourceA", "AUTHENTICATED", LevelView},
		{"unknown class", "resourceA", "GUEST", LevelNone},
		{"unknown feature", "resourceB", "ADMIN", LevelNone},
		{"explicitly stored NONE", "adminPanel", "GUEST", LevelNone},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := matrix.Lookup(tc.feature, tc.class); got != tc.want {
				t.Errorf("Lookup(%q, %q) = %q, want %q", tc.feature, tc.class, got, tc.want)
			}
		})
	}
}

func TestEmptyMatrixLookup(t *testing.T) {
	var matrix Matrix[string, string]
	if got := matrix.Lookup("anything", "anyone"); got != LevelNone {
		t.Errorf("nil matrix lookup = %q, want NONE", got)
	}
}

func TestMatrixFeatures(t *testing.T) {
	matrix := Matrix[string, string]{
		"a": {"x": LevelView},
		"b": {"x": LevelEdit},
	}
	features := matrix.Features()
	if len(features) != 2 {
		t.Fatalf("expected 2 features, got %d", len(features))
	}
	seen := map[string]bool{}
	for _, f := range features {
		seen[f] = true
	}
	if !seen["a"] || !seen["b"] {
		t.Errorf("expected features a and b, got %v", features)
	}
}
