package fetcher

import "strings"

// Block kinds reported by DetectBlock.
const (
	BlockRobotCheck = "robot_check"
	BlockReCaptcha  = "recaptcha"
	BlockHCaptcha   = "hcaptcha"
	BlockTurnstile  = "turnstile"
)

// DetectBlock checks a page for captcha and robot-check indicators. It
// returns the block kind and, for widget captchas, the site key.
func DetectBlock(html string) (kind, siteKey string) {
	htmlLower := strings.ToLower(html)

	// Amazon serves a plain form instead of results when it suspects automation.
	if strings.Contains(htmlLower, "/errors/validatecaptcha") ||
		strings.Contains(htmlLower, "<title>robot check</title>") ||
		strings.Contains(htmlLower, "enter the characters you see below") {
		return BlockRobotCheck, ""
	}

	// reCAPTCHA v2/v3
	if strings.Contains(htmlLower, "g-recaptcha") || strings.Contains(htmlLower, "recaptcha/api.js") {
		return BlockReCaptcha, extractBetween(html, `data-sitekey="`, `"`)
	}

	// hCaptcha
	if strings.Contains(htmlLower, "h-captcha") || strings.Contains(htmlLower, "hcaptcha.com/1/api.js") {
		return BlockHCaptcha, extractBetween(html, `data-sitekey="`, `"`)
	}

	// Cloudflare Turnstile
	if strings.Contains(htmlLower, "cf-turnstile") {
		return BlockTurnstile, extractBetween(html, `data-sitekey="`, `"`)
	}

	return "", ""
}

// extractBetween extracts a substring between two delimiters.
func extractBetween(s, start, end string) string {
	idx := strings.Index(s, start)
	if idx < 0 {
		return ""
	}
	s = s[idx+len(start):]
	idx = strings.Index(s, end)
	if idx < 0 {
		return ""
	}
	return s[:idx]
}
