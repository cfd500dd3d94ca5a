package catalog

import (
	"fishdash/internal/core/survey"
)

// ApplyStatusOverrides merges reviewer status overrides into a survey pool.
// It returns a new slice; surveys is left untouched. Overrides for unknown
// survey ids and StatusUnknown values are ignored
func ApplyStatusOverrides(surveys []survey.Survey, overrides map[string]survey.Status) []survey.Survey {
	out := make([]survey.Survey, len(surveys))
	copy(out, surveys)
	if len(overrides) == 0 {
		return out
	}
	for i := range out {
		if st, ok := overrides[out[i].ID]; ok && st != survey.StatusUnknown {
			out[i].Status = st
		}
	}
	return out
}

// ParseOverrides resolves wire labels into statuses, rejecting unknown labels
func ParseOverrides(raw map[string]string) (map[string]survey.Status, error) {
	out := make(map[string]survey.Status, len(raw))
	for id, label := range raw {
		st, err := survey.ParseStatus(label)
		if err != nil {
			return nil, err
		}
		out[id] = st
	}
	return out, nil
}
