package dataset

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/MOTRoundTables/google-control-sub000/pkg/util"
)

// Observation is one input row: a single recorded attempt to traverse a
// reference link, possibly one of several route alternatives returned for the
// same request. Immutable after ingestion; validation results are attached
// separately and never rewrite these fields.
type Observation struct {
	Index            int       // original row index, preserved across parallel dispatch
	Name             string    // raw link name, e.g. "s_123-456"
	Timestamp        time.Time // wall-clock recording moment
	RequestedTime    time.Time // scheduled slot; zero when the column is absent
	RouteAlternative int       // >= 1
	Polyline         string    // encoded polyline
}

func (o Observation) HasRequestedTime() bool {
	return !o.RequestedTime.IsZero()
}

// ParseLinkName splits a link name of the form "s_{From}-{To}" into its node
// identifiers.
func ParseLinkName(name string) (int64, int64, error) {
	trimmed := strings.TrimSpace(name)
	if !strings.HasPrefix(trimmed, "s_") {
		return 0, 0, util.WrapErrorf(nil, util.ErrBadParamInput, "link name %q missing s_ prefix", name)
	}
	body := strings.TrimPrefix(trimmed, "s_")
	parts := strings.SplitN(body, "-", 2)
	if len(parts) != 2 {
		return 0, 0, util.WrapErrorf(nil, util.ErrBadParamInput, "link name %q missing from-to separator", name)
	}
	from, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return 0, 0, util.WrapErrorf(err, util.ErrBadParamInput, "link name %q has non-numeric from node", name)
	}
	to, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return 0, 0, util.WrapErrorf(err, util.ErrBadParamInput, "link name %q has non-numeric to node", name)
	}
	return from, to, nil
}

// LinkKey derives the join key shared by observations and reference links.
func LinkKey(from, to int64) string {
	return fmt.Sprintf("s_%d-%d", from, to)
}

var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
}

// ParseTimestamp accepts the timestamp layouts the upstream recorders emit.
// Empty input is a legal zero time, not an error.
func ParseTimestamp(raw string) (time.Time, error) {
	return parseTimestamp(raw)
}

func parseTimestamp(raw string) (time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return time.Time{}, nil
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, trimmed); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, util.WrapErrorf(nil, util.ErrBadParamInput, "unrecognized timestamp %q", raw)
}
