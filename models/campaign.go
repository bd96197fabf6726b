package models

import "github.com/shopspring/decimal"

type Urgency string

const (
	UrgencyMedium   Urgency = "medium"
	UrgencyHigh     Urgency = "high"
	UrgencyCritical Urgency = "critical"
)

type Campaign struct {
	ID            string          `json:"id"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Target        decimal.Decimal `json:"target"`
	Raised        decimal.Decimal `json:"raised"`
	Urgency       Urgency         `json:"urgency"`
	Location      string          `json:"location"`
	TaxDeductible bool            `json:"tax_deductible"`
}

// Progress is the fraction of the target raised so far, in percent.
func (c Campaign) Progress() decimal.Decimal {
	if c.Target.IsZero() {
		return decimal.Zero
	}
	return c.Raised.Div(c.Target).Mul(decimal.NewFromInt(100)).Round(2)
}

var Campaigns = []Campaign{
	{
		ID:            "hurricane-relief-2024",
		Title:         "Hurricane Relief Fund 2024",
		Description:   "Emergency aid for communities affected by recent hurricanes",
		Target:        decimal.NewFromInt(50000),
		Raised:        decimal.NewFromInt(12500),
		Urgency:       UrgencyHigh,
		Location:      "Caribbean & Gulf Coast",
		TaxDeductible: true,
	},
	{
		ID:            "earthquake-response-asia",
		Title:         "Asia Earthquake Response",
		Description:   "Immediate medical aid and shelter for earthquake victims",
		Target:        decimal.NewFromInt(75000),
		Raised:        decimal.NewFromInt(32000),
		Urgency:       UrgencyCritical,
		Location:      "Southeast Asia",
		TaxDeductible: true,
	},
	{
		ID:            "flood-relief-europe",
		Title:         "European Flood Relief",
		Description:   "Supporting communities affected by severe flooding",
		Target:        decimal.NewFromInt(30000),
		Raised:        decimal.NewFromInt(18000),
		Urgency:       UrgencyMedium,
		Location:      "Central Europe",
		TaxDeductible: true,
	},
}
