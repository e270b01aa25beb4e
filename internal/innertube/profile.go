package innertube

import "strings"

// StreamingProtocol identifies how format media is delivered.
type StreamingProtocol string

const (
	ProtocolHTTPS StreamingProtocol = "https"
	ProtocolDASH  StreamingProtocol = "dash"
	ProtocolHLS   StreamingProtocol = "hls"
)

// Protocols lists every streaming protocol a player response can carry.
var Protocols = []StreamingProtocol{ProtocolHTTPS, ProtocolDASH, ProtocolHLS}

// TokenPolicy is the per-protocol proof-of-origin token policy for media
// (GVS) requests.
type TokenPolicy struct {
	Required                   bool
	Recommended                bool
	NotRequiredForPremium      bool
	NotRequiredWithPlayerToken bool
}

// PlayerTokenPolicy governs tokens for the player endpoint request itself.
// It is evaluated independently of the per-protocol media policies.
type PlayerTokenPolicy struct {
	Required              bool
	Recommended           bool
	NotRequiredForPremium bool
}

// SubsTokenPolicy governs tokens for subtitle track requests.
type SubsTokenPolicy struct {
	Required    bool
	Recommended bool
}

// ClientContext is the "client" node of the InnerTube context payload.
type ClientContext struct {
	ClientName        string `json:"clientName"`
	ClientVersion     string `json:"clientVersion"`
	DeviceMake        string `json:"deviceMake,omitempty"`
	DeviceModel       string `json:"deviceModel,omitempty"`
	UserAgent         string `json:"userAgent,omitempty"`
	OsName            string `json:"osName,omitempty"`
	OsVersion         string `json:"osVersion,omitempty"`
	AndroidSDKVersion int    `json:"androidSdkVersion,omitempty"`
	Hl                string `json:"hl"`
}

// ThirdParty carries the embed origin for embedded-player personas.
type ThirdParty struct {
	EmbedURL string `json:"embedUrl"`
}

// Context is the request-context document sent as the API call body root.
type Context struct {
	Client     ClientContext `json:"client"`
	ThirdParty *ThirdParty   `json:"thirdParty,omitempty"`
}

// ClientProfile describes one emulated device/application identity, its
// capabilities and its token obligations.
type ClientProfile struct {
	// ID is the registry alias, e.g. "web_embedded". The base family and
	// variant derive from it by splitting on the first underscore.
	ID string

	Context           Context
	Host              string
	ContextClientName int

	SupportsCookies bool
	RequireJSPlayer bool
	RequireAuth     bool

	// AuthenticatedUserAgent, when set, is forced on watch-page scrapes
	// only, never on API calls.
	AuthenticatedUserAgent string

	GVSTokenPolicy    map[StreamingProtocol]TokenPolicy
	PlayerTokenPolicy PlayerTokenPolicy
	SubsTokenPolicy   SubsTokenPolicy

	// Priority orders fallback attempts; lower values are tried first.
	// Derived once at init from the base family and embedded-ness.
	Priority int
}

// Base returns the persona's base family name ("web_embedded" -> "web").
func (p ClientProfile) Base() string {
	if base, _, found := strings.Cut(p.ID, "_"); found {
		return base
	}
	return p.ID
}

// Variant returns the persona's variant name ("web_embedded" -> "embedded").
// Personas without a variant return their full ID.
func (p ClientProfile) Variant() string {
	if _, variant, found := strings.Cut(p.ID, "_"); found {
		return variant
	}
	return p.ID
}

// IsEmbedded reports whether the persona is an embedded-player variant.
func (p ClientProfile) IsEmbedded() bool {
	return p.Variant() == "embedded"
}
