package model

import "math"

// forward runs the dense stack: ReLU between layers, raw logits out.
func forward(layers []Layer, features []float64) []float64 {
	activations := features

	for i, layer := range layers {
		next := make([]float64, len(layer.Biases))

		for row, weights := range layer.Weights {
			sum := layer.Biases[row]
			for col, w := range weights {
				sum += w * activations[col]
			}

			next[row] = sum
		}

		if i < len(layers)-1 {
			for j, v := range next {
				if v < 0 {
					next[j] = 0
				}
			}
		}

		activations = next
	}

	return activations
}

// softmax is numerically stabilized by shifting with the max logit.
func softmax(logits []float64) []float64 {
	maxLogit := logits[0]
	for _, v := range logits[1:] {
		if v > maxLogit {
			maxLogit = v
		}
	}

	probs := make([]float64, len(logits))

	var total float64

	for i, v := range logits {
		probs[i] = math.Exp(v - maxLogit)
		total += probs[i]
	}

	for i := range probs {
		probs[i] /= total
	}

	return probs
}
