package entity_test

import (
	"strings"
	"testing"

	"vidbrief/internal/domain/entity"
)

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"valid https", "https://www.youtube.com/watch?v=abc123", false},
		{"valid http", "http://example.com/video", false},
		{"empty", "", true},
		{"no scheme", "www.youtube.com/watch?v=abc123", true},
		{"ftp scheme", "ftp://example.com/video", true},
		{"no host", "https://", true},
		{"too long", "https://example.com/" + strings.Repeat("a", 2100), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := entity.ValidateURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateURL(%q) err=%v, wantErr=%v", tt.url, err, tt.wantErr)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{"valid", "user@example.com", false},
		{"empty", "", true},
		{"no at", "userexample.com", true},
		{"display name form", "User <user@example.com>", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := entity.ValidateEmail(tt.email)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateEmail(%q) err=%v, wantErr=%v", tt.email, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	if err := entity.ValidatePassword("longenough1"); err != nil {
		t.Fatalf("valid password rejected: %v", err)
	}
	if err := entity.ValidatePassword("short"); err == nil {
		t.Fatal("short password accepted")
	}
	if err := entity.ValidatePassword(""); err == nil {
		t.Fatal("empty password accepted")
	}
}
