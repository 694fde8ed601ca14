package diagnostics

// leverageRatio is the threshold above which the asymmetry between squared
// returns following down moves and up moves counts as a leverage effect.
// The comparison is strictly greater-than: a ratio of exactly 1.2 does not
// trigger.
const leverageRatio = 1.2

// CheckLeverageEffect reports whether squared returns following negative
// returns are materially larger than those following positive returns, the
// signature that favors the asymmetric EGARCH/GJR variants.
func CheckLeverageEffect(returns []float64) bool {
	var downSum, upSum float64
	var downN, upN int
	for i := 1; i < len(returns); i++ {
		sq := returns[i] * returns[i]
		switch {
		case returns[i-1] < 0:
			downSum += sq
			downN++
		case returns[i-1] > 0:
			upSum += sq
			upN++
		}
	}
	if downN == 0 || upN == 0 || upSum == 0 {
		return false
	}
	ratio := (downSum / float64(downN)) / (upSum / float64(upN))
	return ratio > leverageRatio
}
