package model

// CardNetwork identifies the card network a purchase was made on.
type CardNetwork string

const (
	// NetworkMastercard is the Mastercard network.
	NetworkMastercard CardNetwork = "mastercard"
	// NetworkVisa is the Visa network.
	NetworkVisa CardNetwork = "visa"
)

// MileFactors holds miles-per-dollar conversion factors, configurable per
// card network and currency independently.
type MileFactors struct {
	MastercardBRL float64
	MastercardUSD float64
	VisaBRL       float64
	VisaUSD       float64
}

// FinancialConfig is the per-household configuration snapshot consumed by the
// classifier, the projection engine, and the aggregators. Zero-valued fields
// are filled from DefaultFinancialConfig by MergeDefaults.
type FinancialConfig struct {
	CategoryLimits map[string]float64
	MileFactors    MileFactors
	Salary         float64
	SafetyFloor    float64
	SavingsGoal    float64
	MilesGoal      int
	DollarRate     float64
	IOFRate        float64
}

// DefaultFinancialConfig returns the documented defaults merged over any
// partial stored config.
func DefaultFinancialConfig() FinancialConfig {
	return FinancialConfig{
		Salary:      10000,
		SafetyFloor: 2000,
		SavingsGoal: 50000,
		MilesGoal:   100000,
		DollarRate:  5.0,
		IOFRate:     0.0438,
		MileFactors: MileFactors{
			MastercardBRL: 0.4,
			MastercardUSD: 2.0,
			VisaBRL:       0.4,
			VisaUSD:       2.0,
		},
		CategoryLimits: map[string]float64{
			CategoryLazer:   800,
			CategoryCompras: 1000,
		},
	}
}

// MergeDefaults fills any unset field of c from the default table and returns
// the result. Stored partial configs always pass through here before use.
func (c FinancialConfig) MergeDefaults() FinancialConfig {
	def := DefaultFinancialConfig()
	if c.Salary == 0 {
		c.Salary = def.Salary
	}
	if c.SafetyFloor == 0 {
		c.SafetyFloor = def.SafetyFloor
	}
	if c.SavingsGoal == 0 {
		c.SavingsGoal = def.SavingsGoal
	}
	if c.MilesGoal == 0 {
		c.MilesGoal = def.MilesGoal
	}
	if c.DollarRate == 0 {
		c.DollarRate = def.DollarRate
	}
	if c.IOFRate == 0 {
		c.IOFRate = def.IOFRate
	}
	if c.MileFactors.MastercardBRL == 0 {
		c.MileFactors.MastercardBRL = def.MileFactors.MastercardBRL
	}
	if c.MileFactors.MastercardUSD == 0 {
		c.MileFactors.MastercardUSD = def.MileFactors.MastercardUSD
	}
	if c.MileFactors.VisaBRL == 0 {
		c.MileFactors.VisaBRL = def.MileFactors.VisaBRL
	}
	if c.MileFactors.VisaUSD == 0 {
		c.MileFactors.VisaUSD = def.MileFactors.VisaUSD
	}
	if c.CategoryLimits == nil {
		c.CategoryLimits = def.CategoryLimits
	}
	return c
}

// Factor returns the miles-per-dollar factor for a network/currency pair.
func (f MileFactors) Factor(network CardNetwork, international bool) float64 {
	switch network {
	case NetworkVisa:
		if international {
			return f.VisaUSD
		}
		return f.VisaBRL
	default:
		if international {
			return f.MastercardUSD
		}
		return f.MastercardBRL
	}
}
