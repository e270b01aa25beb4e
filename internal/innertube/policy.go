package innertube

// TokenNeed is the outcome of evaluating a token policy for one request.
type TokenNeed int

const (
	TokenNotNeeded TokenNeed = iota
	TokenRecommended
	TokenRequired
)

func (n TokenNeed) String() string {
	switch n {
	case TokenNotNeeded:
		return "not_needed"
	case TokenRecommended:
		return "recommended"
	case TokenRequired:
		return "required"
	default:
		return "unknown"
	}
}

// NeedsToken evaluates the persona's media token policy for one streaming
// protocol. A persona with no entry for the protocol fails closed to
// TokenRequired. Premium and player-token waivers only apply when the
// policy marks the token required in the first place.
func NeedsToken(profile ClientProfile, protocol StreamingProtocol, isPremiumSubscriber, hasPlayerToken bool) TokenNeed {
	policy, ok := profile.GVSTokenPolicy[protocol]
	if !ok {
		return TokenRequired
	}
	if !policy.Required {
		if policy.Recommended {
			return TokenRecommended
		}
		return TokenNotNeeded
	}
	if policy.NotRequiredForPremium && isPremiumSubscriber {
		return TokenNotNeeded
	}
	if policy.NotRequiredWithPlayerToken && hasPlayerToken {
		return TokenNotNeeded
	}
	return TokenRequired
}

// NeedsPlayerToken evaluates the persona's player-endpoint token policy.
// The premium waiver here is the player policy's own flag; the media
// policies' waivers never leak into this decision.
func NeedsPlayerToken(profile ClientProfile, isPremiumSubscriber bool) TokenNeed {
	policy := profile.PlayerTokenPolicy
	if !policy.Required {
		if policy.Recommended {
			return TokenRecommended
		}
		return TokenNotNeeded
	}
	if policy.NotRequiredForPremium && isPremiumSubscriber {
		return TokenNotNeeded
	}
	return TokenRequired
}

// NeedsSubsToken evaluates the persona's subtitle token policy.
func NeedsSubsToken(profile ClientProfile) TokenNeed {
	policy := profile.SubsTokenPolicy
	if policy.Required {
		return TokenRequired
	}
	if policy.Recommended {
		return TokenRecommended
	}
	return TokenNotNeeded
}
