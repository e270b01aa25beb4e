package playerjs

import (
	"regexp"
	"strconv"
)

var signatureTimestampPattern = regexp.MustCompile(`(?i)(?:signatureTimestamp|sts)\s*:\s*(\d{5})`)

// SignatureTimestamp extracts the signature timestamp baked into a player
// script. Returns 0 when the script carries none.
func SignatureTimestamp(script string) int {
	m := signatureTimestampPattern.FindStringSubmatch(script)
	if len(m) < 2 {
		return 0
	}
	sts, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return sts
}
