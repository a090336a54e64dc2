package websocket

import (
	"regexp"
	"strings"
)

// BotPolicy decides whether a connection attempt is an automated agent
// that must be rejected before the upgrade. Injectable so tests and
// deployments can swap the heuristic.
type BotPolicy func(userAgent string) bool

// Substring match on purpose: crawler agents embed these tokens inside
// compound names like "Googlebot" or "HeadlessChrome".
var botSignature = regexp.MustCompile(`(?i)(bot|crawler|spider|slurp|preview|scraper|headless|curl|wget|python-requests|facebookexternalhit|whatsapp|telegram|slack|discord)`)

// DefaultBotPolicy flags the common crawler and link-preview agents.
// An empty user agent is treated as human: some corporate proxies
// strip the header.
func DefaultBotPolicy(userAgent string) bool {
	if strings.TrimSpace(userAgent) == "" {
		return false
	}
	return botSignature.MatchString(userAgent)
}
