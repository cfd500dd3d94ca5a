package survey

import (
	"fmt"
	"strings"
)

// Region is the closed set of administrative regions a water belongs to
type Region uint8

// Regions. RegionUnknown is the fallback for labels or keys we do not recognize
const (
	RegionUnknown Region = iota
	RegionNortheast
	RegionNorthwest
	RegionSouthwest
	RegionSoutheast
)

var regionLabels = [...]string{
	RegionUnknown:   "Unknown",
	RegionNortheast: "Northeast",
	RegionNorthwest: "Northwest",
	RegionSouthwest: "Southwest",
	RegionSoutheast: "Southeast",
}

// region selector keys used by query state
var regionKeys = map[string]Region{
	"ne": RegionNortheast,
	"nw": RegionNorthwest,
	"sw": RegionSouthwest,
	"se": RegionSoutheast,
}

// Regions lists the known regions in display order
func Regions() []Region {
	return []Region{RegionNortheast, RegionNorthwest, RegionSouthwest, RegionSoutheast}
}

// String returns the display label
func (r Region) String() string {
	if int(r) < len(regionLabels) {
		return regionLabels[r]
	}
	return regionLabels[RegionUnknown]
}

// Known reports whether r is one of the four real regions
func (r Region) Known() bool { return r != RegionUnknown && int(r) < len(regionLabels) }

// Key returns the two letter selector key, empty for unknown
func (r Region) Key() string {
	for k, v := range regionKeys {
		if v == r {
			return k
		}
	}
	return ""
}

// RegionFromKey resolves a selector key like "ne" to a Region. Keys match
// exactly; anything else, "NE" included, resolves to RegionUnknown
func RegionFromKey(key string) Region {
	if r, ok := regionKeys[key]; ok {
		return r
	}
	return RegionUnknown
}

// ParseRegion resolves a display label like "Northeast"
func ParseRegion(label string) Region {
	l := strings.TrimSpace(label)
	for i, s := range regionLabels {
		if i != int(RegionUnknown) && strings.EqualFold(s, l) {
			return Region(i)
		}
	}
	return RegionUnknown
}

// MarshalText encodes the display label
func (r Region) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

// UnmarshalText accepts a display label or a selector key
func (r *Region) UnmarshalText(b []byte) error {
	v := ParseRegion(string(b))
	if v == RegionUnknown {
		v = RegionFromKey(strings.TrimSpace(string(b)))
	}
	*r = v
	return nil
}

// Protocol is the closed set of sampling protocols
type Protocol uint8

// Protocols. ProtocolUnknown is the fallback for anything unrecognized
const (
	ProtocolUnknown Protocol = iota
	ProtocolTwoPassRemoval
	ProtocolSinglePassCPUE
	ProtocolMarkRecapture
	ProtocolElectrofishingCPUE
)

var protocolLabels = [...]string{
	ProtocolUnknown:            "Unknown",
	ProtocolTwoPassRemoval:     "Two-Pass Removal",
	ProtocolSinglePassCPUE:     "Single-Pass CPUE",
	ProtocolMarkRecapture:      "Mark-Recapture",
	ProtocolElectrofishingCPUE: "Electrofishing CPUE",
}

var protocolKeys = map[string]Protocol{
	"two-pass":       ProtocolTwoPassRemoval,
	"single-pass":    ProtocolSinglePassCPUE,
	"mark-recapture": ProtocolMarkRecapture,
	"electrofishing": ProtocolElectrofishingCPUE,
}

// Protocols lists the known protocols in display order
func Protocols() []Protocol {
	return []Protocol{
		ProtocolTwoPassRemoval,
		ProtocolSinglePassCPUE,
		ProtocolMarkRecapture,
		ProtocolElectrofishingCPUE,
	}
}

// String returns the canonical protocol label
func (p Protocol) String() string {
	if int(p) < len(protocolLabels) {
		return protocolLabels[p]
	}
	return protocolLabels[ProtocolUnknown]
}

// Known reports whether p is a real protocol
func (p Protocol) Known() bool { return p != ProtocolUnknown && int(p) < len(protocolLabels) }

// Key returns the selector key, empty for unknown
func (p Protocol) Key() string {
	for k, v := range protocolKeys {
		if v == p {
			return k
		}
	}
	return ""
}

// ProtocolFromKey resolves a selector key like "two-pass", matched exactly
func ProtocolFromKey(key string) Protocol {
	if p, ok := protocolKeys[key]; ok {
		return p
	}
	return ProtocolUnknown
}

// ParseProtocol resolves a canonical label like "Two-Pass Removal"
func ParseProtocol(label string) Protocol {
	l := strings.TrimSpace(label)
	for i, s := range protocolLabels {
		if i != int(ProtocolUnknown) && strings.EqualFold(s, l) {
			return Protocol(i)
		}
	}
	return ProtocolUnknown
}

// MarshalText encodes the canonical label
func (p Protocol) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// UnmarshalText accepts a canonical label or a selector key
func (p *Protocol) UnmarshalText(b []byte) error {
	v := ParseProtocol(string(b))
	if v == ProtocolUnknown {
		v = ProtocolFromKey(strings.TrimSpace(string(b)))
	}
	*p = v
	return nil
}

// Status is the survey workflow state
type Status uint8

// Workflow states
const (
	StatusUnknown Status = iota
	StatusSubmitted
	StatusInReview
	StatusFlagged
	StatusApproved
	StatusRejected
)

var statusLabels = [...]string{
	StatusUnknown:   "unknown",
	StatusSubmitted: "submitted",
	StatusInReview:  "in_review",
	StatusFlagged:   "flagged",
	StatusApproved:  "approved",
	StatusRejected:  "rejected",
}

// String returns the wire label
func (s Status) String() string {
	if int(s) < len(statusLabels) {
		return statusLabels[s]
	}
	return statusLabels[StatusUnknown]
}

// ParseStatus resolves a wire label; unrecognized labels are an error
func ParseStatus(label string) (Status, error) {
	l := strings.ToLower(strings.TrimSpace(label))
	for i, s := range statusLabels {
		if i != int(StatusUnknown) && s == l {
			return Status(i), nil
		}
	}
	return StatusUnknown, fmt.Errorf("unknown survey status %q", label)
}

// MarshalText encodes the wire label
func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText decodes a wire label, unknown labels map to StatusUnknown
func (s *Status) UnmarshalText(b []byte) error {
	v, err := ParseStatus(string(b))
	if err != nil {
		v = StatusUnknown
	}
	*s = v
	return nil
}
