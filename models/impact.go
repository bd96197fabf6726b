package models

import "github.com/shopspring/decimal"

var (
	usdPerLife       = decimal.NewFromInt(100)
	usdPerMeal       = decimal.NewFromInt(5)
	usdPerMedicalKit = decimal.NewFromInt(50)
	usdPerShelterDay = decimal.NewFromInt(20)
)

// Impact is derived from a donation's USD value and is never stored on its own.
type Impact struct {
	USDValue        decimal.Decimal `json:"usd_value"`
	LivesImpacted   int64           `json:"lives_impacted"`
	MealsProvided   int64           `json:"meals_provided"`
	MedicalSupplies int64           `json:"medical_supplies"`
	ShelterDays     int64           `json:"shelter_days"`
}

func NewImpact(usdValue decimal.Decimal) Impact {
	if usdValue.IsNegative() {
		usdValue = decimal.Zero
	}
	per := func(unit decimal.Decimal) int64 {
		return usdValue.Div(unit).Floor().IntPart()
	}
	return Impact{
		USDValue:        usdValue,
		LivesImpacted:   per(usdPerLife),
		MealsProvided:   per(usdPerMeal),
		MedicalSupplies: per(usdPerMedicalKit),
		ShelterDays:     per(usdPerShelterDay),
	}
}
