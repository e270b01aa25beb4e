package innertube

const (
	defaultHost    = "www.youtube.com"
	preferredHl    = "en"
	chromeOnMacUA  = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/15.5 Safari/605.1.15,gzip(gfe)"
	androidAppUA   = "com.google.android.youtube/20.10.38 (Linux; U; Android 11) gzip"
	androidVROsUA  = "com.google.android.apps.youtube.vr.oculus/1.65.10 (Linux; U; Android 12L; eureka-user Build/SQ3A.220605.009.A1) gzip"
	iosAppUA       = "com.google.ios.youtube/20.10.4 (iPhone16,2; U; CPU iOS 18_3_2 like Mac OS X;)"
	mwebIpadUA     = "Mozilla/5.0 (iPad; CPU OS 16_7_10 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.6 Mobile/15E148 Safari/604.1,gzip(gfe)"
	tvCobaltUA     = "Mozilla/5.0 (ChromiumStylePlatform) Cobalt/Version"
	tvCobaltAuthUA = "Mozilla/5.0 (ChromiumStylePlatform) Cobalt/25.lts.30.1034943-gold (unlike Gecko), Unknown_TV_Unknown_0/Unknown (Unknown, Unknown)"
)

// baseFamilies is the canonical fallback ordering of persona families;
// earlier families are tried first.
var baseFamilies = []string{"android", "mweb", "tv", "web", "ios"}

// webGVSTokenPolicy applies to browser-shaped personas: media tokens are
// required unless the account is premium.
var webGVSTokenPolicy = map[StreamingProtocol]TokenPolicy{
	ProtocolHTTPS: {Required: true, Recommended: true, NotRequiredForPremium: true},
	ProtocolDASH:  {Required: true, Recommended: true, NotRequiredForPremium: true},
	ProtocolHLS:   {Required: false, Recommended: true},
}

func defaultGVSTokenPolicy() map[StreamingProtocol]TokenPolicy {
	return map[StreamingProtocol]TokenPolicy{
		ProtocolHTTPS: {},
		ProtocolDASH:  {},
		ProtocolHLS:   {},
	}
}

var clientProfiles = []ClientProfile{
	{
		ID: "web",
		Context: Context{Client: ClientContext{
			ClientName:    "WEB",
			ClientVersion: "2.20250925.01.00",
			Hl:            preferredHl,
		}},
		Host:              defaultHost,
		ContextClientName: 1,
		SupportsCookies:   true,
		RequireJSPlayer:   true,
		GVSTokenPolicy:    webGVSTokenPolicy,
		PlayerTokenPolicy: PlayerTokenPolicy{Recommended: true},
		SubsTokenPolicy:   SubsTokenPolicy{Required: true, Recommended: true},
	},
	{
		// Safari UA returns pre-merged video+audio HLS formats.
		ID: "web_safari",
		Context: Context{Client: ClientContext{
			ClientName:    "WEB",
			ClientVersion: "2.20250925.01.00",
			UserAgent:     chromeOnMacUA,
			Hl:            preferredHl,
		}},
		Host:              defaultHost,
		ContextClientName: 1,
		SupportsCookies:   true,
		RequireJSPlayer:   true,
		GVSTokenPolicy:    webGVSTokenPolicy,
		PlayerTokenPolicy: PlayerTokenPolicy{Recommended: true},
		SubsTokenPolicy:   SubsTokenPolicy{Required: true, Recommended: true},
	},
	{
		ID: "web_embedded",
		Context: Context{Client: ClientContext{
			ClientName:    "WEB_EMBEDDED_PLAYER",
			ClientVersion: "1.20250923.21.00",
			Hl:            preferredHl,
		}},
		Host:              defaultHost,
		ContextClientName: 56,
		SupportsCookies:   true,
		RequireJSPlayer:   true,
		GVSTokenPolicy:    webGVSTokenPolicy,
	},
	{
		ID: "web_music",
		Context: Context{Client: ClientContext{
			ClientName:    "WEB_REMIX",
			ClientVersion: "1.20250922.03.00",
			Hl:            preferredHl,
		}},
		Host:              "music.youtube.com",
		ContextClientName: 67,
		SupportsCookies:   true,
		RequireJSPlayer:   true,
		GVSTokenPolicy:    webGVSTokenPolicy,
	},
	{
		// Requires sign-in for every video.
		ID: "web_creator",
		Context: Context{Client: ClientContext{
			ClientName:    "WEB_CREATOR",
			ClientVersion: "1.20250922.03.00",
			Hl:            preferredHl,
		}},
		Host:              defaultHost,
		ContextClientName: 62,
		SupportsCookies:   true,
		RequireJSPlayer:   true,
		RequireAuth:       true,
		GVSTokenPolicy:    webGVSTokenPolicy,
	},
	{
		ID: "android",
		Context: Context{Client: ClientContext{
			ClientName:        "ANDROID",
			ClientVersion:     "20.10.38",
			AndroidSDKVersion: 30,
			UserAgent:         androidAppUA,
			OsName:            "Android",
			OsVersion:         "11",
			Hl:                preferredHl,
		}},
		Host:              defaultHost,
		ContextClientName: 3,
		GVSTokenPolicy: map[StreamingProtocol]TokenPolicy{
			ProtocolHTTPS: {Required: true, Recommended: true, NotRequiredWithPlayerToken: true},
			ProtocolDASH:  {Required: true, Recommended: true, NotRequiredWithPlayerToken: true},
			ProtocolHLS:   {Required: false, Recommended: true, NotRequiredWithPlayerToken: true},
		},
		PlayerTokenPolicy: PlayerTokenPolicy{Recommended: true},
	},
	{
		// Doesn't require a media token.
		ID: "android_sdkless",
		Context: Context{Client: ClientContext{
			ClientName:    "ANDROID",
			ClientVersion: "20.10.38",
			UserAgent:     androidAppUA,
			OsName:        "Android",
			OsVersion:     "11",
			Hl:            preferredHl,
		}},
		Host:              defaultHost,
		ContextClientName: 3,
		GVSTokenPolicy:    defaultGVSTokenPolicy(),
	},
	{
		// YouTube Kids videos aren't returned on this client.
		ID: "android_vr",
		Context: Context{Client: ClientContext{
			ClientName:        "ANDROID_VR",
			ClientVersion:     "1.65.10",
			DeviceMake:        "Oculus",
			DeviceModel:       "Quest 3",
			AndroidSDKVersion: 32,
			UserAgent:         androidVROsUA,
			OsName:            "Android",
			OsVersion:         "12L",
			Hl:                preferredHl,
		}},
		Host:              defaultHost,
		ContextClientName: 28,
		GVSTokenPolicy:    defaultGVSTokenPolicy(),
	},
	{
		// iOS has HLS live streams. Device model set to get 60fps formats.
		ID: "ios",
		Context: Context{Client: ClientContext{
			ClientName:    "IOS",
			ClientVersion: "20.10.4",
			DeviceMake:    "Apple",
			DeviceModel:   "iPhone16,2",
			UserAgent:     iosAppUA,
			OsName:        "iPhone",
			OsVersion:     "18.3.2.22D82",
			Hl:            preferredHl,
		}},
		Host:              defaultHost,
		ContextClientName: 5,
		GVSTokenPolicy: map[StreamingProtocol]TokenPolicy{
			ProtocolHTTPS: {Required: true, Recommended: true, NotRequiredWithPlayerToken: true},
			// HLS livestreams require a token 30 seconds in.
			ProtocolHLS: {Required: true, Recommended: true, NotRequiredWithPlayerToken: true},
		},
		PlayerTokenPolicy: PlayerTokenPolicy{Recommended: true},
	},
	{
		// mweb has 'ultralow' formats.
		ID: "mweb",
		Context: Context{Client: ClientContext{
			ClientName:    "MWEB",
			ClientVersion: "2.20250925.01.00",
			UserAgent:     mwebIpadUA,
			Hl:            preferredHl,
		}},
		Host:              defaultHost,
		ContextClientName: 2,
		SupportsCookies:   true,
		RequireJSPlayer:   true,
		GVSTokenPolicy:    webGVSTokenPolicy,
	},
	{
		ID: "tv",
		Context: Context{Client: ClientContext{
			ClientName:    "TVHTML5",
			ClientVersion: "7.20250923.13.00",
			UserAgent:     tvCobaltUA,
			Hl:            preferredHl,
		}},
		Host:                   defaultHost,
		ContextClientName:      7,
		SupportsCookies:        true,
		RequireJSPlayer:        true,
		AuthenticatedUserAgent: tvCobaltAuthUA,
		GVSTokenPolicy:         webGVSTokenPolicy,
	},
	{
		ID: "tv_simply",
		Context: Context{Client: ClientContext{
			ClientName:    "TVHTML5_SIMPLY",
			ClientVersion: "1.0",
			Hl:            preferredHl,
		}},
		Host:              defaultHost,
		ContextClientName: 75,
		RequireJSPlayer:   true,
		GVSTokenPolicy: map[StreamingProtocol]TokenPolicy{
			ProtocolHTTPS: {Required: true, Recommended: true},
			ProtocolDASH:  {Required: true, Recommended: true},
			ProtocolHLS:   {Required: false, Recommended: true},
		},
	},
	{
		// Was an age-gate workaround for embeddable videos; now requires
		// sign-in for every video.
		ID: "tv_embedded",
		Context: Context{Client: ClientContext{
			ClientName:    "TVHTML5_SIMPLY_EMBEDDED_PLAYER",
			ClientVersion: "2.0",
			Hl:            preferredHl,
		}},
		Host:              defaultHost,
		ContextClientName: 85,
		SupportsCookies:   true,
		RequireJSPlayer:   true,
		RequireAuth:       true,
		GVSTokenPolicy:    defaultGVSTokenPolicy(),
	},
}

func init() {
	familyIndex := make(map[string]int, len(baseFamilies))
	for i, name := range baseFamilies {
		familyIndex[name] = i
	}
	for i := range clientProfiles {
		p := &clientProfiles[i]
		idx, known := familyIndex[p.Base()]
		if !known {
			idx = -1
		}
		if p.IsEmbedded() {
			// Any valid URL is accepted as the embed origin.
			p.Context.ThirdParty = &ThirdParty{EmbedURL: "https://www.youtube.com/"}
			p.Priority = 10*idx - 2
		} else {
			p.Priority = 10*idx - 3
		}
	}
}
