package analyze

import (
	"errors"
	"testing"

	"github.com/ppiankov/verinews/internal/model"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr error
	}{
		{
			name: "fenced block wins over surrounding braces",
			raw:  "Here {not this}\n```json\n{\"a\": 1}\n```\ntrailing }",
			want: `{"a": 1}`,
		},
		{
			name: "greedy first to last brace",
			raw:  `Sure! {"a": {"b": 2}} hope that helps`,
			want: `{"a": {"b": 2}}`,
		},
		{
			name:    "no braces",
			raw:     "I cannot evaluate this article.",
			wantErr: ErrNoJSONInResponse,
		},
		{
			name:    "closing before opening",
			raw:     "} oops {",
			wantErr: ErrNoJSONInResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSON(tt.raw)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ExtractJSON() = %q, %v; want %q", got, err, tt.want)
			}
		})
	}
}

func TestParseJudgment_Coercion(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Parsed
		auth *bool
	}{
		{
			name: "well formed",
			raw:  `{"relevant": true, "support": "True", "confidence": 85, "reason": " Confirms it. ", "authoritative": true}`,
			want: Parsed{Relevant: true, Support: model.SupportTrue, Confidence: 85, Reason: "Confirms it."},
			auth: ptr(true),
		},
		{
			name: "lower-case support and string confidence",
			raw:  `{"relevant": "yes", "support": "partial", "confidence": "70"}`,
			want: Parsed{Relevant: true, Support: model.SupportPartial, Confidence: 70},
		},
		{
			name: "confidence clamped high",
			raw:  `{"relevant": true, "support": "FALSE", "confidence": 140}`,
			want: Parsed{Relevant: true, Support: model.SupportFalse, Confidence: 100},
		},
		{
			name: "confidence clamped low",
			raw:  `{"relevant": true, "support": "True", "confidence": -5}`,
			want: Parsed{Relevant: true, Support: model.SupportTrue, Confidence: 0},
		},
		{
			name: "missing fields take defaults",
			raw:  `{}`,
			want: Parsed{Support: model.SupportUnknown},
		},
		{
			name: "unrecognised support",
			raw:  `{"relevant": true, "support": "Mostly", "confidence": 50}`,
			want: Parsed{Relevant: true, Support: model.SupportUnknown, Confidence: 50},
		},
		{
			name: "explicit false authority",
			raw:  `{"authoritative": false}`,
			want: Parsed{Support: model.SupportUnknown},
			auth: ptr(false),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseJudgment(tt.raw)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Relevant != tt.want.Relevant || got.Support != tt.want.Support ||
				got.Confidence != tt.want.Confidence || got.Reason != tt.want.Reason {
				t.Errorf("ParseJudgment() = %+v, want %+v", got, tt.want)
			}
			switch {
			case tt.auth == nil && got.Authoritative != nil:
				t.Errorf("expected authoritative unset, got %v", *got.Authoritative)
			case tt.auth != nil && (got.Authoritative == nil || *got.Authoritative != *tt.auth):
				t.Errorf("expected authoritative %v, got %v", *tt.auth, got.Authoritative)
			}
		})
	}
}

func TestParseJudgment_Malformed(t *testing.T) {
	_, err := ParseJudgment(`{"relevant": true, "support": }`)
	if !errors.Is(err, ErrMalformedJSON) || !errors.Is(err, ErrUnparsableOutput) {
		t.Errorf("expected ErrMalformedJSON wrapping ErrUnparsableOutput, got %v", err)
	}
}

func ptr(b bool) *bool { return &b }
