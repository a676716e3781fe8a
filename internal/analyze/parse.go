package analyze

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/ppiankov/verinews/internal/model"
)

var (
	// ErrUnparsableOutput means the model reply could not be read as a judgment
	ErrUnparsableOutput = errors.New("unparsable model output")

	// ErrNoJSONInResponse means the reply contained no JSON object at all
	ErrNoJSONInResponse = fmt.Errorf("%w: no JSON object in response", ErrUnparsableOutput)

	// ErrMalformedJSON means a JSON candidate was found but did not decode
	ErrMalformedJSON = fmt.Errorf("%w: malformed JSON", ErrUnparsableOutput)
)

var fencedJSON = regexp.MustCompile("(?s)```json\\s*(\\{.*?\\})\\s*```")

// rawJudgment accepts whatever types the model chooses to emit
type rawJudgment struct {
	Relevant      any `json:"relevant"`
	Support       any `json:"support"`
	Confidence    any `json:"confidence"`
	Reason        any `json:"reason"`
	Authoritative any `json:"authoritative"`
}

// Parsed is a decoded judgment before authority backfill. Authoritative is
// nil when the model omitted the field.
type Parsed struct {
	Relevant      bool
	Support       model.Support
	Confidence    float64
	Reason        string
	Authoritative *bool
}

// ExtractJSON locates the JSON object in a model reply: a ```json fenced
// block first, otherwise the span from the first '{' to the last '}'.
func ExtractJSON(raw string) (string, error) {
	if m := fencedJSON.FindStringSubmatch(raw); m != nil {
		return m[1], nil
	}
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return "", ErrNoJSONInResponse
	}
	return raw[start : end+1], nil
}

// ParseJudgment decodes and coerces a model reply. Missing or mistyped fields
// take defaults: relevant false, support Unknown, confidence 0, reason "".
func ParseJudgment(raw string) (Parsed, error) {
	candidate, err := ExtractJSON(raw)
	if err != nil {
		return Parsed{}, err
	}

	var r rawJudgment
	if err := json.Unmarshal([]byte(candidate), &r); err != nil {
		return Parsed{}, fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}

	p := Parsed{
		Relevant:   coerceBool(r.Relevant),
		Support:    model.SupportUnknown,
		Confidence: model.ClampConfidence(coerceNumber(r.Confidence)),
	}
	if s, ok := r.Support.(string); ok {
		p.Support = model.ParseSupport(s)
	} else if b, ok := r.Support.(bool); ok {
		p.Support = model.ParseSupport(strconv.FormatBool(b))
	}
	if s, ok := r.Reason.(string); ok {
		p.Reason = strings.TrimSpace(s)
	}
	if r.Authoritative != nil {
		a := coerceBool(r.Authoritative)
		p.Authoritative = &a
	}
	return p, nil
}

func coerceBool(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "yes", "1":
			return true
		}
	case float64:
		return t != 0
	}
	return false
}

func coerceNumber(v any) float64 {
	switch t := v.(type) {
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return 0
		}
		return t
	case string:
		f, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(t), "%"), 64)
		if err == nil {
			return f
		}
	}
	return 0
}
