// Package bootstrap pulls the embedded JSON configuration and initial-data
// documents out of raw watch-page HTML. Extraction is pattern-based and
// intentionally shallow; the page markup drifts and failure to match is an
// expected outcome, not a panic.
package bootstrap

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/famomatic/ytx/internal/innertube"
)

// ErrInitialDataNotFound is returned when the page carries no initial-data
// assignment. Unlike the config, initial data has no safe default.
var ErrInitialDataNotFound = errors.New("bootstrap: initial data not found in page")

var (
	configSetPattern   = regexp.MustCompile(`ytcfg\.set\s*\(\s*\{`)
	initialDataPattern = regexp.MustCompile(`(?:window\s*\[\s*["']ytInitialData["']\s*\]|ytInitialData)\s*=\s*\{`)
)

// ExtractConfig returns the first ytcfg.set({...}) object literal from the
// page. An absent or unbalanced match yields an empty document, never an
// error; callers fall back to persona defaults.
func ExtractConfig(html string) gjson.Result {
	loc := configSetPattern.FindStringIndex(html)
	if loc == nil {
		return gjson.Parse("{}")
	}
	obj, ok := balancedObject(html, loc[1]-1)
	if !ok || !gjson.Valid(obj) {
		return gjson.Parse("{}")
	}
	return gjson.Parse(obj)
}

// ExtractInitialData returns the ytInitialData assignment from the page,
// whether bracket- or dot-accessed. Failing to find one is an error.
func ExtractInitialData(html string) (gjson.Result, error) {
	loc := initialDataPattern.FindStringIndex(html)
	if loc == nil {
		return gjson.Result{}, ErrInitialDataNotFound
	}
	obj, ok := balancedObject(html, loc[1]-1)
	if !ok || !gjson.Valid(obj) {
		return gjson.Result{}, ErrInitialDataNotFound
	}
	if rest := strings.TrimLeft(html[loc[1]-1+len(obj):], " \t\r\n"); rest != "" {
		if !strings.HasPrefix(rest, ";") && !strings.HasPrefix(rest, "</script>") {
			return gjson.Result{}, ErrInitialDataNotFound
		}
	}
	return gjson.Parse(obj), nil
}

// balancedObject scans a brace-balanced object literal starting at the '{'
// at index start, skipping braces inside string literals.
func balancedObject(s string, start int) (string, bool) {
	if start >= len(s) || s[start] != '{' {
		return "", false
	}
	depth := 0
	var strChar byte
	for i := start; i < len(s); i++ {
		c := s[i]
		if strChar != 0 {
			switch c {
			case '\\':
				i++
			case strChar:
				strChar = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			strChar = c
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

// APIKey returns the InnerTube API key from the config, if present.
func APIKey(cfg gjson.Result) string {
	return strings.TrimSpace(cfg.Get("INNERTUBE_API_KEY").String())
}

// PlayerJSURL returns the player script URL advertised by the config.
func PlayerJSURL(cfg gjson.Result) string {
	raw := strings.TrimSpace(cfg.Get("PLAYER_JS_URL").String())
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(raw, "//") {
		return "https:" + raw
	}
	return raw
}

// Session derives the per-attempt session values from the extracted
// config. Missing fields stay zero; cookie authentication is decided by
// the caller, not here.
func Session(cfg gjson.Result) innertube.SessionState {
	state := innertube.SessionState{
		DelegatedSessionID: strings.TrimSpace(cfg.Get("DELEGATED_SESSION_ID").String()),
		UserSessionID:      strings.TrimSpace(cfg.Get("USER_SESSION_ID").String()),
		VisitorData:        strings.TrimSpace(cfg.Get("VISITOR_DATA").String()),
	}
	if state.VisitorData == "" {
		state.VisitorData = strings.TrimSpace(cfg.Get("INNERTUBE_CONTEXT.client.visitorData").String())
	}
	if idx := cfg.Get("SESSION_INDEX"); idx.Exists() {
		if parsed, err := strconv.Atoi(strings.TrimSpace(idx.String())); err == nil {
			state.SessionIndex = &parsed
		}
	}
	if delegated, user := splitDataSyncID(cfg.Get("DATASYNC_ID").String()); delegated != "" || user != "" {
		if state.DelegatedSessionID == "" {
			state.DelegatedSessionID = delegated
		}
		if state.UserSessionID == "" {
			state.UserSessionID = user
		}
	}
	return state
}

// splitDataSyncID separates a "delegated||user" datasync value; a single
// value is the user session id.
func splitDataSyncID(dataSyncID string) (string, string) {
	dataSyncID = strings.TrimSpace(dataSyncID)
	if dataSyncID == "" {
		return "", ""
	}
	if delegated, user, found := strings.Cut(dataSyncID, "||"); found {
		if strings.TrimSpace(user) != "" {
			return strings.TrimSpace(delegated), strings.TrimSpace(user)
		}
		return "", strings.TrimSpace(delegated)
	}
	return "", dataSyncID
}
