package constant

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownResolution = errors.New("unknown resolution")

// Resolution indexes the fixed rendition ladder. The zero value is not a
// valid resolution.
type Resolution int

const (
	Resolution180p Resolution = iota + 1
	Resolution360p
	Resolution720p
	Resolution1080p
)

type resolutionInfo struct {
	label  string
	height int
}

var ladder = [...]resolutionInfo{
	Resolution180p:  {label: "180p", height: 180},
	Resolution360p:  {label: "360p", height: 360},
	Resolution720p:  {label: "720p", height: 720},
	Resolution1080p: {label: "1080p", height: 1080},
}

// Ladder returns every resolution in encode order, lowest first.
func Ladder() []Resolution {
	return []Resolution{Resolution180p, Resolution360p, Resolution720p, Resolution1080p}
}

func (r Resolution) Valid() bool {
	return r >= Resolution180p && r <= Resolution1080p
}

func (r Resolution) String() string {
	if !r.Valid() {
		return fmt.Sprintf("Resolution(%d)", int(r))
	}
	return ladder[r].label
}

// Height is the target frame height in pixels.
func (r Resolution) Height() int {
	if !r.Valid() {
		return 0
	}
	return ladder[r].height
}

// ParseResolution accepts a ladder label such as "720p". A bare height
// ("720") is accepted as well.
func ParseResolution(label string) (Resolution, error) {
	label = strings.ToLower(strings.TrimSpace(label))
	for _, r := range Ladder() {
		info := ladder[r]
		if label == info.label || label == strings.TrimSuffix(info.label, "p") {
			return r, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownResolution, label)
}

func (r Resolution) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownResolution, int(r))
	}
	return []byte(r.String()), nil
}

func (r *Resolution) UnmarshalText(text []byte) error {
	parsed, err := ParseResolution(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Value stores the resolution as its label.
func (r Resolution) Value() (driver.Value, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownResolution, int(r))
	}
	return r.String(), nil
}

func (r *Resolution) Scan(src any) error {
	switch v := src.(type) {
	case string:
		return r.UnmarshalText([]byte(v))
	case []byte:
		return r.UnmarshalText(v)
	default:
		return fmt.Errorf("scan resolution: unsupported type %T", src)
	}
}
