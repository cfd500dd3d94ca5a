package query

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"strings"
	"unicode/utf8"

	perr "fishdash/internal/platform/errors"
)

// wireState mirrors State with pointer fields so a missing key is detectable
type wireState struct {
	Water      *string `json:"water"`
	Species    *string `json:"species"`
	Region     *string `json:"region"`
	Protocol   *string `json:"protocol"`
	DateFrom   *string `json:"dateFrom"`
	DateTo     *string `json:"dateTo"`
	ExcludeYOY *bool   `json:"excludeYOY"`
	Unit       *string `json:"unit"`
}

// Encode serializes st into a compact URL safe token
// the token uses the base64 URL alphabet without padding so it never needs escaping
func Encode(st State) string {
	// State holds only strings and a bool so Marshal cannot fail
	b, _ := json.Marshal(st)
	return base64.RawURLEncoding.EncodeToString(b)
}

// Decode is the total form of Parse: ok is false for any malformed token
func Decode(token string) (State, bool) {
	st, err := Parse(token)
	if err != nil {
		return State{}, false
	}
	return st, true
}

// Parse reverses Encode. It only checks structure: every field must be present with
// the right JSON type. Unknown selector values are accepted as is
func Parse(token string) (State, error) {
	raw := strings.TrimSpace(token)
	// tolerate padded tokens and the standard alphabet
	raw = strings.TrimRight(raw, "=")
	raw = strings.NewReplacer("+", "-", "/", "_").Replace(raw)
	if raw == "" {
		return State{}, perr.InvalidArgf("empty query token")
	}

	b, derr := base64.RawURLEncoding.DecodeString(raw)
	if derr != nil {
		return State{}, perr.Wrap(derr, perr.ErrorCodeInvalidArgument, "query token is not valid base64")
	}
	if !utf8.Valid(b) {
		return State{}, perr.InvalidArgf("query token is not valid text")
	}

	var w wireState
	dec := json.NewDecoder(bytes.NewReader(b))
	if jerr := dec.Decode(&w); jerr != nil {
		return State{}, perr.Wrap(jerr, perr.ErrorCodeInvalidArgument, "query token does not hold a query state")
	}
	if dec.More() {
		return State{}, perr.InvalidArgf("query token has trailing data")
	}

	missing := w.missing()
	if missing != "" {
		return State{}, perr.WithField(perr.InvalidArgf("query token is missing %s", missing), missing)
	}

	return State{
		Water:      *w.Water,
		Species:    *w.Species,
		Region:     *w.Region,
		Protocol:   *w.Protocol,
		DateFrom:   *w.DateFrom,
		DateTo:     *w.DateTo,
		ExcludeYOY: *w.ExcludeYOY,
		Unit:       *w.Unit,
	}, nil
}

// missing returns the json name of the first absent field
func (w wireState) missing() string {
	switch {
	case w.Water == nil:
		return "water"
	case w.Species == nil:
		return "species"
	case w.Region == nil:
		return "region"
	case w.Protocol == nil:
		return "protocol"
	case w.DateFrom == nil:
		return "dateFrom"
	case w.DateTo == nil:
		return "dateTo"
	case w.ExcludeYOY == nil:
		return "excludeYOY"
	case w.Unit == nil:
		return "unit"
	}
	return ""
}
