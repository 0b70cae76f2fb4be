package extract

import (
	"regexp"
	"slices"
	"strings"

	"github.com/jonesrussell/north-cloud/leadharvest/internal/lead"
)

var (
	instagramURL    = regexp.MustCompile(`(?i)instagram\.com/([A-Za-z0-9_.]+)`)
	instagramHandle = regexp.MustCompile(`(?:^|[\s(,;:])@([A-Za-z0-9_][A-Za-z0-9_.]{1,29})\b`)
	facebookURL     = regexp.MustCompile(`(?i)facebook\.com/([A-Za-z0-9_.\-]+)`)

	reservedInstagramPaths = []string{"p", "reel", "reels", "explore", "stories", "accounts", "tv"}
	reservedFacebookPaths  = []string{"sharer", "sharer.php", "share", "plugins", "tr", "dialog", "profile.php", "pages"}
)

var instagramRules = []Rule{
	{Name: "instagram-url", Apply: func(text string) (string, bool) {
		for _, m := range instagramURL.FindAllStringSubmatch(text, -1) {
			handle := strings.TrimRight(m[1], ".")
			if handle == "" || slices.Contains(reservedInstagramPaths, strings.ToLower(handle)) {
				continue
			}
			return "@" + handle, true
		}
		return "", false
	}},
	{Name: "bare-handle", Apply: func(text string) (string, bool) {
		m := instagramHandle.FindStringSubmatch(text)
		if m == nil {
			return "", false
		}
		return "@" + strings.TrimRight(m[1], "."), true
	}},
}

var facebookRules = []Rule{
	{Name: "facebook-url", Apply: func(text string) (string, bool) {
		for _, m := range facebookURL.FindAllStringSubmatch(text, -1) {
			handle := strings.TrimRight(m[1], ".")
			if handle == "" || slices.Contains(reservedFacebookPaths, strings.ToLower(handle)) {
				continue
			}
			return "https://www.facebook.com/" + handle, true
		}
		return "", false
	}},
}

// Instagram returns the handle as "@name".
func Instagram(text string) lead.Field {
	return field(firstMatch(instagramRules, text))
}

// Facebook returns the canonical profile URL.
func Facebook(text string) lead.Field {
	return field(firstMatch(facebookRules, text))
}
