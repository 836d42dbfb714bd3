package errors

import "testing"

func TestValidateColor(t *testing.T) {
	tests := []struct {
		name    string
		color   string
		wantErr bool
	}{
		{"named", "steelblue", false},
		{"hex", "#08306b", false},
		{"rgba", "rgba(0,0,0,0)", false},
		{"empty", "", true},
		{"quote", `red" onload="x`, true},
		{"tag", "<script>", true},
		{"control", "red\n", true},
		{"too long", string(make([]byte, 100)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateColor(tt.color)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateColor(%q) error = %v, wantErr %v", tt.color, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidColor) {
				t.Errorf("ValidateColor(%q) code = %v, want %v", tt.color, GetCode(err), ErrCodeInvalidColor)
			}
		})
	}
}

func TestValidatePlateFilename(t *testing.T) {
	tests := []struct {
		path    string
		wantErr bool
	}{
		{"plate.json", false},
		{"dir/plate.TOML", false},
		{"plate.csv", true},
		{"plate", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			err := ValidatePlateFilename(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePlateFilename(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
		})
	}
}

func TestValidateOutputPath(t *testing.T) {
	tests := []struct {
		path    string
		wantErr bool
	}{
		{"out.svg", false},
		{"/tmp/plates/out.png", false},
		{"", true},
		{".", true},
		{"..", true},
		{"out/", true},
		{"a\x00b", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			err := ValidateOutputPath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateOutputPath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
		})
	}
}
