package bootstrap

import (
	"strings"

	"github.com/tidwall/gjson"
)

const premiumLogoIconType = "YOUTUBE_PREMIUM_LOGO"

var premiumTooltipPaths = []string{
	"tooltipText",
	"overrideEntityKey.tooltipText",
}

// IsPremiumSubscriber inspects the initial-data topbar logo for a premium
// badge. Only meaningful for cookie-authenticated sessions; anonymous
// pages never carry the badge.
func IsPremiumSubscriber(initialData gjson.Result) bool {
	logo := initialData.Get("topbar.desktopTopbarRenderer.logo.topbarLogoRenderer")
	if !logo.Exists() {
		logo = initialData.Get("topbar.mobileTopbarRenderer.logo.topbarLogoRenderer")
	}
	if !logo.Exists() {
		return false
	}
	if logo.Get("iconImage.iconType").String() == premiumLogoIconType {
		return true
	}
	tooltip := TextFromPaths(logo, premiumTooltipPaths, 0)
	return strings.Contains(strings.ToLower(tooltip), "premium")
}
