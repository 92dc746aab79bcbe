package sampler

// Finalize subsamples every chain's step axis at the given stride, keeping
// the first recorded step. A stride of 0 or 1 leaves the result untouched.
// This is a stateless post-processing pass with no feedback into sampling.
func Finalize(res *Result, stride int) {
	if stride <= 1 || res == nil {
		return
	}

	kept := (res.Steps + stride - 1) / stride
	for _, ch := range res.Chains {
		states := make([]State, 0, kept)
		grads := make([]State, 0, kept)
		for k := 0; k < len(ch.States); k += stride {
			states = append(states, ch.States[k])
			grads = append(grads, ch.Grads[k])
		}
		ch.States = states
		ch.Grads = grads
	}
	res.Steps = kept
}
