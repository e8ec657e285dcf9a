package ledger

import (
	"encoding/base64"
	"errors"
	"testing"
)

func TestGenerateSignature(t *testing.T) {
	testCases := []struct {
		name     string
		ledger   string
		password string
		want     string
		wantErr  error
	}{
		{
			name:   "Name only",
			ledger: "household",
			want:   base64.StdEncoding.EncodeToString([]byte("household")),
		},
		{
			name:     "Name and password",
			ledger:   "household",
			password: "s3cret",
			want:     base64.StdEncoding.EncodeToString([]byte("household:s3cret")),
		},
		{
			name:    "Empty name",
			ledger:  "",
			wantErr: ErrEmptyName,
		},
		{
			name:    "Whitespace name",
			ledger:  "   ",
			wantErr: ErrEmptyName,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := GenerateSignature(tc.ledger, tc.password)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("GenerateSignature() error = %v, want %v", err, tc.wantErr)
			}
			if got != tc.want {
				t.Errorf("GenerateSignature() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestGenerateSignature_Deterministic(t *testing.T) {
	a, err := GenerateSignature("household", "s3cret")
	if err != nil {
		t.Fatalf("GenerateSignature() error = %v", err)
	}
	b, err := GenerateSignature("household", "s3cret")
	if err != nil {
		t.Fatalf("GenerateSignature() error = %v", err)
	}
	if a != b {
		t.Errorf("same inputs produced different signatures: %q vs %q", a, b)
	}
}

func TestHashRow(t *testing.T) {
	row := []string{"a", "b", "c"}

	if got, again := HashRow(row, "sig"), HashRow(row, "sig"); got != again {
		t.Errorf("HashRow() not deterministic: %q vs %q", got, again)
	}
	if HashRow(row, "sig") == HashRow(row, "other") {
		t.Error("HashRow() ignored the signature")
	}
	if HashRow([]string{"ab", "c"}, "sig") == HashRow([]string{"a", "bc"}, "sig") {
		t.Error("HashRow() collides across value boundaries")
	}
	if HashRow([]string{"a", "b", "x"}, "sig") == HashRow(row, "sig") {
		t.Error("HashRow() ignored a changed value")
	}
}
