package bootstrap

import (
	"strings"

	"github.com/tidwall/gjson"
)

// TextFromPaths resolves the first candidate path in node that carries a
// renderer text object, reading either its simpleText value or the
// concatenation of up to maxRuns run segments. maxRuns <= 0 means all runs.
func TextFromPaths(node gjson.Result, paths []string, maxRuns int) string {
	for _, path := range paths {
		candidate := node.Get(path)
		if !candidate.Exists() {
			continue
		}
		if simple := candidate.Get("simpleText"); simple.Exists() {
			if text := simple.String(); text != "" {
				return text
			}
			continue
		}
		runs := candidate.Get("runs")
		if !runs.IsArray() {
			continue
		}
		var parts []string
		for i, run := range runs.Array() {
			if maxRuns > 0 && i >= maxRuns {
				break
			}
			parts = append(parts, run.Get("text").String())
		}
		if text := strings.Join(parts, ""); text != "" {
			return text
		}
	}
	return ""
}
