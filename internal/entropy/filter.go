package entropy

import "fmt"

// Filter keeps the candidates consistent with every observation, applied in
// order. The input set is not modified; survivors keep their relative order.
// With no observations the input is returned as is. Every observation is
// validated before any filtering happens.
func Filter(candidates CandidateSet, history ...Observation) (CandidateSet, error) {
	for i, o := range history {
		if err := o.Validate(); err != nil {
			return CandidateSet{}, fmt.Errorf("observation %d: %w", i, err)
		}
	}
	out := candidates
	for _, o := range history {
		out = out.narrow(o)
		if out.Len() == 0 {
			break
		}
	}
	return out, nil
}

// narrow returns a fresh set holding the candidates that give o.Code to o.Guess.
func (c CandidateSet) narrow(o Observation) CandidateSet {
	kept := make([]Word, 0, len(c.words))
	for _, answer := range c.words {
		if encode(o.Guess, answer) == o.Code {
			kept = append(kept, answer)
		}
	}
	return CandidateSet{words: kept}
}

// Consistent reports whether answer could have produced every observation.
func Consistent(answer Word, history ...Observation) bool {
	if !answer.Valid() {
		return false
	}
	for _, o := range history {
		if !o.Guess.Valid() || encode(o.Guess, answer) != o.Code {
			return false
		}
	}
	return true
}
