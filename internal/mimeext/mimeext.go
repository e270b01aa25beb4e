// Package mimeext maps MIME types to file extensions.
package mimeext

import "strings"

// DefaultExt is the extension used when the MIME type is unknown or empty.
const DefaultExt = "unknown_video"

var extByMime = map[string]string{
	// Video
	"3gpp":             "3gp",
	"mp2t":             "ts",
	"mp4":              "mp4",
	"mpeg":             "mpeg",
	"mpegurl":          "m3u8",
	"quicktime":        "mov",
	"webm":             "webm",
	"vp9":              "vp9",
	"video/ogg":        "ogv",
	"x-flv":            "flv",
	"x-m4v":            "m4v",
	"x-matroska":       "mkv",
	"x-mng":            "mng",
	"x-mp4-fragmented": "mp4",
	"x-ms-asf":         "asf",
	"x-ms-wmv":         "wmv",
	"x-msvideo":        "avi",
	"vnd.dlna.mpeg-tts": "mpeg",
	// Application (streaming playlists)
	"dash+xml":          "mpd",
	"f4m+xml":           "f4m",
	"hds+xml":           "f4m",
	"vnd.apple.mpegurl": "m3u8",
	"vnd.ms-sstr+xml":   "ism",
	"x-mpegurl":         "m3u8",
	// Audio
	"audio/mp4": "m4a",
	// Per RFC 3003, audio/mpeg can be .mp1, .mp2 or .mp3.
	// Using .mp3 as it's the most popular one.
	"audio/mpeg":       "mp3",
	"audio/webm":       "webm",
	"audio/x-matroska": "mka",
	"audio/x-mpegurl":  "m3u",
	"aacp":             "aac",
	"flac":             "flac",
	"midi":             "mid",
	"ogg":              "ogg",
	"wav":              "wav",
	"wave":             "wav",
	"x-aac":            "aac",
	"x-flac":           "flac",
	"x-m4a":            "m4a",
	"x-realaudio":      "ra",
	"x-wav":            "wav",
	// Image
	"avif":         "avif",
	"bmp":          "bmp",
	"gif":          "gif",
	"jpeg":         "jpg",
	"png":          "png",
	"svg+xml":      "svg",
	"tiff":         "tif",
	"vnd.wap.wbmp": "wbmp",
	"webp":         "webp",
	"x-icon":       "ico",
	"x-jng":        "jng",
	"x-ms-bmp":     "bmp",
	// Caption
	"filmstrip+json": "fs",
	"smptett+xml":    "tt",
	"ttaf+xml":       "dfxp",
	"ttml+xml":       "ttml",
	"x-ms-sami":      "sami",
	// Misc
	"gzip": "gz",
	"json": "json",
	"xml":  "xml",
	"zip":  "zip",
}

// ExtFromMime returns the file extension (without dot) for the given MIME
// type. Lookup order is full type, subtype, then subtype after a '+'
// (e.g. "xml" for "text/unregistered+xml"). Codec parameters after ';'
// are ignored.
func ExtFromMime(mimeType string) string {
	mime := mimeType
	if i := strings.Index(mime, ";"); i >= 0 {
		mime = mime[:i]
	}
	mime = strings.ToLower(strings.TrimSpace(mime))
	if mime == "" {
		return DefaultExt
	}

	if ext, ok := extByMime[mime]; ok {
		return ext
	}
	subtype := mime
	if i := strings.LastIndex(mime, "/"); i >= 0 {
		subtype = mime[i+1:]
	}
	if ext, ok := extByMime[subtype]; ok {
		return ext
	}
	if i := strings.LastIndex(subtype, "+"); i >= 0 {
		if ext, ok := extByMime[subtype[i+1:]]; ok {
			return ext
		}
	}
	return DefaultExt
}
