package services

// Evaluation is the outcome of comparing an asking price against the
// predicted fair price.
type Evaluation struct {
	IsDeal bool
	Profit int
}

// Evaluate applies the profit threshold. Profit exactly equal to the
// threshold is not a deal.
func Evaluate(askingPrice, predictedPrice, threshold int) Evaluation {
	profit := predictedPrice - askingPrice
	return Evaluation{
		IsDeal: profit > threshold,
		Profit: profit,
	}
}
