package diagnose

import "math"

// Recommendation names a candidate process and why it was suggested.
// Process may name a model this module does not simulate (GARCH, Heston).
type Recommendation struct {
	Process    string `json:"process"`
	Confidence string `json:"confidence"`
	Reason     string `json:"reason"`
}

const (
	skewLimit = 0.5
	kurtLimit = 1.0
)

// Recommend turns diagnostic results into model suggestions. It always
// returns at least one recommendation.
func Recommend(res Results, s Stats) []Recommendation {
	var out []Recommendation

	if res.JarqueBera.Conclusion == Normal && res.ArchLM.Conclusion == Absent && res.Jumps.Conclusion == Minimal {
		out = append(out, Recommendation{"GBM", "high", "normal returns, constant volatility, no jumps"})
	}
	if res.ArchLM.Conclusion == Present {
		out = append(out, Recommendation{"GARCH", "high", "significant volatility clustering detected"})
	}
	if res.Jumps.Conclusion == Significant {
		out = append(out, Recommendation{"JDP", "medium", "significant jump frequency"})
	}
	if res.MeanReversion.Conclusion == MeanReverting {
		out = append(out, Recommendation{"OU", "medium", "evidence of mean reversion in returns"})
	}
	if math.Abs(s.Skewness) > skewLimit || s.Kurtosis > kurtLimit {
		out = append(out, Recommendation{"Heston", "medium", "non-normal distribution with fat tails or skew"})
	}

	if len(out) == 0 {
		out = append(out, Recommendation{"GBM", "low", "no strong signal; consider richer models"})
	}
	return out
}
