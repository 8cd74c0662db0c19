package search

// Decision is the outcome of the confidence gate for a ranked result list.
type Decision struct {
	Accepted bool
	Final    float64
	Margin   float64
}

// Gate decides whether the top result is trustworthy enough to answer with.
// The top score must clear the threshold, and when a runner-up exists it
// must trail by at least the configured margin. The margin is relaxed for
// entries backed by a decent keyword match, and waived entirely when either
// the vector or keyword signal is independently convincing.
func Gate(top Result, runnerUp *Result, threshold, margin float64, t Tuning) Decision {
	d := Decision{Final: top.Final}
	if top.Final < threshold {
		return d
	}
	if runnerUp != nil {
		d.Margin = top.Final - runnerUp.Final
		highConfidence := top.Scores.Vector >= t.HighVector || top.Scores.Keyword >= t.MidKeyword
		required := margin
		if top.Scores.Keyword >= t.MidKeyword {
			required = margin * t.MarginRelax
		}
		if !highConfidence && d.Margin < required {
			return d
		}
	}
	d.Accepted = true
	return d
}
