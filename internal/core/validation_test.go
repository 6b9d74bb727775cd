// AngelaMos | 2026
// validation_test.go

package core

import (
	"errors"
	"testing"
	"time"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"a@b.co", true},
		{"kevin.casey+crm@startup.io", true},
		{"not-an-email", false},
		{"a@b", false},
		{"a@b.c", false},
		{"", false},
		{"two@@signs.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			if got := ValidateEmail(tt.email); got != tt.want {
				t.Errorf("ValidateEmail(%q) = %v, want %v", tt.email, got, tt.want)
			}
		})
	}
}

func TestValidatePositiveInt(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr error
	}{
		{"42", 42, nil},
		{" 7 ", 7, nil},
		{"0", 0, ErrNotPositive},
		{"-3", 0, ErrNotPositive},
		{"abc", 0, ErrNotAnInteger},
		{"1.5", 0, ErrNotAnInteger},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ValidatePositiveInt(tt.input)
			if !errors.Is(err, tt.wantErr) && err != tt.wantErr {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2026-06-04")
	if err != nil {
		t.Fatalf("date only: %v", err)
	}
	if got.Hour() != 0 || got.Day() != 4 || got.Month() != time.June {
		t.Errorf("date only = %v", got)
	}

	got, err = ParseDate("2026-06-04 13:30:00")
	if err != nil {
		t.Fatalf("date time: %v", err)
	}
	if got.Hour() != 13 || got.Minute() != 30 {
		t.Errorf("date time = %v", got)
	}
	if got.Location() != time.UTC {
		t.Errorf("location = %v, want UTC", got.Location())
	}

	for _, bad := range []string{"04/06/2026", "2026-13-01", "tomorrow", ""} {
		if _, err := ParseDate(bad); err != ErrInvalidDate {
			t.Errorf("ParseDate(%q) err = %v, want ErrInvalidDate", bad, err)
		}
	}
}

type contactForm struct {
	Name  string `json:"name"  validate:"required"`
	Email string `json:"email" validate:"crmemail"`
}

func TestValidateStruct(t *testing.T) {
	v := NewValidator()

	if err := ValidateStruct(v, contactForm{Name: "Kevin", Email: "kevin@startup.io"}); err != nil {
		t.Fatalf("valid form: %v", err)
	}

	if err := ValidateStruct(v, contactForm{Name: "Kevin", Email: "a@b"}); err != ErrInvalidEmail {
		t.Errorf("bad email err = %v, want ErrInvalidEmail", err)
	}

	err := ValidateStruct(v, contactForm{Email: "kevin@startup.io"})
	var appErr *AppError
	if !errors.As(err, &appErr) || appErr.Code != "invalid_request" || appErr.Message != "name is required" {
		t.Errorf("missing name err = %v", err)
	}
}
