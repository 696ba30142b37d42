package service

import "github.com/karlgroves/openai-content-moderator/internal/domain/entity"

// EvaluateThresholds flags every category whose score is strictly greater than
// its threshold. Categories without a threshold are informational only and are
// left out of the result.
func EvaluateThresholds(scores entity.CategoryScore, thresholds map[string]float64) entity.CategoryFlags {
	flags := make(entity.CategoryFlags, len(scores))
	for category, score := range scores {
		threshold, ok := thresholds[category]
		if !ok {
			continue
		}
		flags[category] = score > threshold
	}
	return flags
}

// ResolveFlags picks the flags for a normalized response. Configured thresholds
// always win; without them the provider's own flags are used, restricted to the
// categories it actually scored.
func ResolveFlags(n *Normalized, thresholds map[string]float64) entity.CategoryFlags {
	if len(thresholds) > 0 || n.NativeFlags == nil {
		return EvaluateThresholds(n.Scores, thresholds)
	}

	flags := make(entity.CategoryFlags, len(n.Scores))
	for category := range n.Scores {
		if flagged, ok := n.NativeFlags[category]; ok {
			flags[category] = flagged
		}
	}
	return flags
}

// ResolveStatus reports Degraded when fewer categories came back than were requested
func ResolveStatus(n *Normalized) entity.ProviderStatus {
	if n.Expected > 0 && len(n.Scores) < n.Expected {
		return entity.ProviderStatusDegraded
	}
	return entity.ProviderStatusOK
}
