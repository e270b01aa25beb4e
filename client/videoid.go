package client

import (
	"regexp"
	"strings"
)

// VideoID is a validated video identifier: exactly 11 characters, each
// ASCII alphanumeric, '-' or '_'. Construct via ParseVideoID.
type VideoID string

var (
	videoIDPattern  = regexp.MustCompile(`^[0-9A-Za-z_-]{11}$`)
	watchURLPattern = regexp.MustCompile(`(?:v=|/shorts/|/embed/|/live/|/v/|youtu\.be/)([0-9A-Za-z_-]{11})`)
)

// ParseVideoID validates a raw identifier. Rejection happens before any
// network activity.
func ParseVideoID(s string) (VideoID, error) {
	if !videoIDPattern.MatchString(s) {
		return "", ErrInvalidVideoID
	}
	return VideoID(s), nil
}

// ExtractVideoID accepts either a raw id or common watch/short/embed URL
// shapes and returns the embedded id.
func ExtractVideoID(input string) (VideoID, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return "", ErrInvalidVideoID
	}
	if id, err := ParseVideoID(s); err == nil {
		return id, nil
	}
	if m := watchURLPattern.FindStringSubmatch(s); len(m) == 2 {
		return VideoID(m[1]), nil
	}
	return "", ErrInvalidVideoID
}

func (v VideoID) String() string { return string(v) }
