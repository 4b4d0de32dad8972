package router

import (
	"errors"
	"strconv"
	"testing"
)

func TestParseIP(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{input: "192.168.1.1"},
		{input: "0.0.0.0"},
		{input: "255.255.255.255"},
		{input: "10.0.0.255"},
		{input: "256.1.1.1", wantErr: true},
		{input: "1.1.1.300", wantErr: true},
		{input: "1.1.1", wantErr: true},
		{input: "1.1.1.1.1", wantErr: true},
		{input: "a.b.c.d", wantErr: true},
		{input: "1234.1.1.1", wantErr: true},
		{input: "", wantErr: true},
		{input: "::1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			ip, err := ParseIP(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseIP(%q) = %v, want error", tt.input, ip)
				}
				if !errors.Is(err, ErrInvalidValue) {
					t.Errorf("error %v does not wrap ErrInvalidValue", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseIP(%q) error = %v", tt.input, err)
			}
			if ip.String() != tt.input {
				t.Errorf("String() = %q, want %q", ip.String(), tt.input)
			}
		})
	}
}

func TestParseIP_AllOctetValues(t *testing.T) {
	for i := 0; i <= 255; i++ {
		s := "10.0.0." + strconv.Itoa(i)
		if _, err := ParseIP(s); err != nil {
			t.Fatalf("ParseIP(%q) error = %v", s, err)
		}
	}
	for _, bad := range []int{256, 300, 999} {
		s := "10.0.0." + strconv.Itoa(bad)
		if _, err := ParseIP(s); err == nil {
			t.Errorf("ParseIP(%q) should fail", s)
		}
	}
}

func TestParseNetmask(t *testing.T) {
	for _, s := range []string{"255.255.255.0", "255.0.255.0", "0.0.0.0"} {
		if _, err := ParseNetmask(s); err != nil {
			t.Errorf("ParseNetmask(%q) error = %v", s, err)
		}
	}
	if _, err := ParseNetmask("255.255.255.256"); err == nil {
		t.Error("ParseNetmask should reject octet 256")
	}
}
