package util

import (
	"bytes"
	"testing"
)

var pngHeader = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0}

func TestValidateMimeType(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
		allowed []string
		wantErr bool
	}{
		{"PNG 头通过图片校验", pngHeader, []string{"image/"}, false},
		{"文本不是图片", []byte("hello world"), []string{"image/"}, true},
		{"文本匹配 text 前缀", []byte("hello world"), []string{"text/"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateMimeType(bytes.NewReader(tt.content), tt.allowed)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateMimeType() err = %v, wantErr = %v", err, tt.wantErr)
			}
		})
	}
}

func TestIsImage(t *testing.T) {
	if !IsImage("image/png") {
		t.Error("image/png not detected as image")
	}
	if IsImage("application/pdf") {
		t.Error("application/pdf detected as image")
	}
}
