package subscription

import (
	"strings"

	"github.com/ManuelReschke/LocalPros/app/models"
)

const DefaultCurrency = "CAD"

func normalizeTier(tier string) (string, bool) {
	switch t := strings.ToLower(strings.TrimSpace(tier)); t {
	case models.SubscriptionTierBasic, models.SubscriptionTierFeatured, models.SubscriptionTierPremium:
		return t, true
	default:
		return "", false
	}
}

func tierRank(tier string) int {
	t, _ := normalizeTier(tier)
	switch t {
	case models.SubscriptionTierPremium:
		return 2
	case models.SubscriptionTierFeatured:
		return 1
	default:
		return 0
	}
}

func normalizeInterval(interval string) (string, bool) {
	switch i := strings.ToLower(strings.TrimSpace(interval)); i {
	case models.SubscriptionIntervalMonth, models.SubscriptionIntervalYear:
		return i, true
	case "":
		return models.SubscriptionIntervalMonth, true
	default:
		return "", false
	}
}

func normalizeStatus(status string) (string, bool) {
	switch s := strings.ToLower(strings.TrimSpace(status)); s {
	case models.SubscriptionStatusActive,
		models.SubscriptionStatusTrialing,
		models.SubscriptionStatusPastDue,
		models.SubscriptionStatusPaused,
		models.SubscriptionStatusCanceled:
		return s, true
	case "":
		return models.SubscriptionStatusActive, true
	default:
		return "", false
	}
}

func normalizeCurrency(currency string) (string, bool) {
	c := strings.ToUpper(strings.TrimSpace(currency))
	if c == "" {
		return DefaultCurrency, true
	}
	if len(c) != 3 {
		return "", false
	}
	for _, r := range c {
		if r < 'A' || r > 'Z' {
			return "", false
		}
	}
	return c, true
}

// IsLiveStatus reports whether a subscription in this status counts as
// paying for its tier.
func IsLiveStatus(status string) bool {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case models.SubscriptionStatusActive, models.SubscriptionStatusTrialing, models.SubscriptionStatusPastDue:
		return true
	default:
		return false
	}
}

// OutranksTier reports whether tier a sits above tier b.
func OutranksTier(a, b string) bool {
	return tierRank(a) > tierRank(b)
}
