// internal/matching/scorer.go
package matching

const (
	// EvenProductVowelWeight multiplies the customer's vowels when the product
	// name has an even letter count.
	EvenProductVowelWeight = 1.5

	// SharedDivisorBonus is applied when product and customer letter counts
	// share a proper divisor.
	SharedDivisorBonus = 1.5
)

// Compatibility returns the suitability score of offering product to customer.
func Compatibility(product, customer Profile) float64 {
	var score float64
	if product.IsEven() {
		score = float64(customer.VowelCount) * EvenProductVowelWeight
	} else {
		score = float64(customer.ConsonantCount)
	}

	if product.SharesDivisor(customer) {
		score *= SharedDivisorBonus
	}
	return score
}
