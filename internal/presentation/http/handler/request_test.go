package handler

import (
	"strings"
	"testing"
)

func TestParseBool(t *testing.T) {
	tests := []struct {
		in      string
		def     bool
		want    bool
		wantErr bool
	}{
		{"", true, true, false},
		{"", false, false, false},
		{"1", false, true, false},
		{"true", false, true, false},
		{"on", false, true, false},
		{"YES", false, true, false},
		{"0", true, false, false},
		{"false", true, false, false},
		{"off", true, false, false},
		{"maybe", true, false, true},
	}
	for _, tt := range tests {
		got, err := ParseBool(tt.in, tt.def)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseBool(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseBool(%q, %v) = %v, want %v", tt.in, tt.def, got, tt.want)
		}
	}
}

func TestValidateLength(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"正常系", "hello", false},
		{"境界値: 1文字", "a", false},
		{"境界値: 上限ちょうど", strings.Repeat("あ", 10), false},
		{"境界値: 上限超過", strings.Repeat("あ", 11), true},
		{"異常系: 空", "", true},
		{"異常系: 空白のみ", "   ", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLength("text", tt.value, 1, 10)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateLength(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
		})
	}
}
