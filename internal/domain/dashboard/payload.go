package dashboard

import (
	"encoding/json"
	"fmt"
)

// Decode maps a raw backend payload into the typed value for kind. The
// returned value has the same dynamic type as Fallback(kind).
func Decode(kind ResourceKind, raw []byte) (any, error) {
	switch kind {
	case ResourceStats:
		return decodeInto[Stats](raw)
	case ResourceUsers:
		return decodeInto[[]User](raw)
	case ResourceCoaches:
		return decodeInto[[]Coach](raw)
	case ResourceAnalyses:
		return decodeInto[[]Analysis](raw)
	case ResourceAnalytics:
		return decodeInto[Analytics](raw)
	case ResourcePricingB2C:
		return decodeInto[PricingB2C](raw)
	case ResourcePricingCoach:
		return decodeInto[PricingCoach](raw)
	case ResourceRevenue:
		return decodeInto[Revenue](raw)
	case ResourceSupport:
		return decodeInto[Support](raw)
	case ResourceGDPR:
		return decodeInto[GDPR](raw)
	case ResourceAudit:
		return decodeInto[Audit](raw)
	case ResourceSettings:
		return decodeInto[Settings](raw)
	case ResourceRoles:
		return decodeInto[Roles](raw)
	default:
		return nil, fmt.Errorf("unknown resource kind %q", kind)
	}
}

func decodeInto[T any](raw []byte) (any, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	return v, nil
}
