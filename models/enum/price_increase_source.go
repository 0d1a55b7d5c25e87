package enum

type PriceIncreaseSource string

const (
	PriceIncreaseSourceLetterParsed PriceIncreaseSource = "LETTER_PARSED"
	PriceIncreaseSourceManualUpdate PriceIncreaseSource = "MANUAL_UPDATE"
	PriceIncreaseSourceSystem       PriceIncreaseSource = "SYSTEM"
)

func (s PriceIncreaseSource) Valid() bool {
	switch s {
	case PriceIncreaseSourceLetterParsed, PriceIncreaseSourceManualUpdate, PriceIncreaseSourceSystem:
		return true
	}
	return false
}
