package errors

import (
	"math"
	"testing"
)

func TestValidatePositive(t *testing.T) {
	tests := []struct {
		name    string
		value   float64
		wantErr bool
	}{
		{"positive", 140, false},
		{"small positive", 0.5, false},

		{"zero", 0, true},
		{"negative", -36, true},
		{"NaN", math.NaN(), true},
		{"positive infinity", math.Inf(1), true},
		{"negative infinity", math.Inf(-1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePositive("wall thickness", tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePositive(%g) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
			if err != nil && GetCode(err) != ErrCodeInvalidConfig {
				t.Errorf("ValidatePositive(%g) code = %v, want %v", tt.value, GetCode(err), ErrCodeInvalidConfig)
			}
		})
	}
}

func TestValidateNonNegative(t *testing.T) {
	tests := []struct {
		name    string
		value   float64
		wantErr bool
	}{
		{"positive", 25, false},
		{"zero", 0, false},

		{"negative", -1, true},
		{"NaN", math.NaN(), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNonNegative("sill height", tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateNonNegative(%g) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
		})
	}
}

func TestValidateRange(t *testing.T) {
	if err := ValidateRange("post spacing", 300, 900); err != nil {
		t.Errorf("Valid range should pass: %v", err)
	}
	if err := ValidateRange("post spacing", 900, 300); err == nil {
		t.Error("Inverted range should fail")
	}
	// Degenerate but legal: min == max
	if err := ValidateRange("post spacing", 600, 600); err != nil {
		t.Errorf("Equal bounds should pass: %v", err)
	}
}

func TestValidateID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "strawbale", false},
		{"valid with dash", "straw-bale-36", false},
		{"valid with underscore", "ring_beam", false},
		{"valid with dot", "timber.kvh", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 300)), true},
		{"path traversal ..", "foo..bar", true},
		{"path separator", "foo/bar", true},
		{"null byte", "foo\x00bar", true},
		{"backslash", "foo\\bar", true},
		{"control char", "foo\x01bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateID("assembly", tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateProjectFilename(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid toml", "house.toml", false},
		{"valid json", "model.json", false},

		{"empty", "", true},
		{"with path /", "path/to/file", true},
		{"with path \\", "path\\to\\file", true},
		{"hidden file", ".hidden", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateProjectFilename(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateProjectFilename(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateMaterialID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid", "spruce-kvh", false},
		{"valid numeric prefix", "8x8-post", false},

		{"leading dash", "-spruce", true},
		{"space", "clay plaster", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateMaterialID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateMaterialID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateAssemblyID(t *testing.T) {
	if err := ValidateAssemblyID("strawbale-36"); err != nil {
		t.Errorf("Valid assembly id should pass: %v", err)
	}
	if err := ValidateAssemblyID("straw bale"); err == nil {
		t.Error("Assembly id with space should fail")
	}
}
