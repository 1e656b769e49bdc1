package calc

// AllInPrice converts a raw spot price into the price a consumer actually
// pays per kWh: fixed per-unit charges are added, then VAT is applied on
// the whole amount. Inputs are not validated here, the planner owns that.
func AllInPrice(basePrice, vatPercent, energyTax, gridFee float64) float64 {
	return (basePrice + energyTax + gridFee) * (1 + vatPercent/100)
}
