package errors

import (
	"math"
	"testing"
)

func TestValidateFloats(t *testing.T) {
	tests := []struct {
		name        string
		v           float64
		finite      bool
		positive    bool
		nonNegative bool
	}{
		{"positive", 1.5, true, true, true},
		{"zero", 0, true, false, true},
		{"negative", -2, true, false, false},
		{"nan", math.NaN(), false, false, false},
		{"+inf", math.Inf(1), false, false, false},
		{"-inf", math.Inf(-1), false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateFinite("v", tt.v); (err == nil) != tt.finite {
				t.Errorf("ValidateFinite(%v) error = %v, want ok %v", tt.v, err, tt.finite)
			}
			if err := ValidatePositive("v", tt.v); (err == nil) != tt.positive {
				t.Errorf("ValidatePositive(%v) error = %v, want ok %v", tt.v, err, tt.positive)
			}
			if err := ValidateNonNegative("v", tt.v); (err == nil) != tt.nonNegative {
				t.Errorf("ValidateNonNegative(%v) error = %v, want ok %v", tt.v, err, tt.nonNegative)
			}
		})
	}
}

func TestValidateFloatCode(t *testing.T) {
	err := ValidatePositive("ptmin", -1)
	if !Is(err, ErrCodeInvalidInput) {
		t.Errorf("ValidatePositive() code = %v, want %v", GetCode(err), ErrCodeInvalidInput)
	}
	if got := UserMessage(err); got != "ptmin must be positive, got -1" {
		t.Errorf("UserMessage() = %q", got)
	}
}

func TestValidateMinHits(t *testing.T) {
	tests := []struct {
		n       int
		wantErr bool
	}{
		{-1, true},
		{0, true},
		{2, true},
		{3, false},
		{4, false},
		{10, false},
	}

	for _, tt := range tests {
		err := ValidateMinHits(tt.n)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateMinHits(%d) error = %v, wantErr %v", tt.n, err, tt.wantErr)
		}
	}
}

func TestValidateRunID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"canonical", "6ba7b810-9dad-11d1-80b4-00c04fd430c8", false},
		{"upper case", "6BA7B810-9DAD-11D1-80B4-00C04FD430C8", false},

		{"empty", "", true},
		{"garbage", "not-a-uuid", true},
		{"urn form", "urn:uuid:6ba7b810-9dad-11d1-80b4-00c04fd430c8", true},
		{"braced", "{6ba7b810-9dad-11d1-80b4-00c04fd430c8}", true},
		{"path traversal", "../etc/passwd", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRunID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRunID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		schemes []string
		wantErr bool
	}{
		{"redis", "redis://localhost:6379/0", []string{"redis", "rediss"}, false},
		{"rediss", "rediss://cache:6380", []string{"redis", "rediss"}, false},
		{"mongodb", "mongodb://localhost:27017", []string{"mongodb", "mongodb+srv"}, false},
		{"mongodb srv", "mongodb+srv://cluster.example.net", []string{"mongodb", "mongodb+srv"}, false},

		{"empty", "", []string{"redis"}, true},
		{"wrong scheme", "http://localhost:6379", []string{"redis", "rediss"}, true},
		{"no scheme", "localhost:6379", []string{"redis"}, true},
		{"no schemes allowed", "redis://localhost", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.input, tt.schemes...)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
