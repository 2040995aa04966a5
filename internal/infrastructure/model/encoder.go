package model

import (
	"strings"

	"creditdesk/internal/domain/entity"
)

// Ratio features are capped so tiny incomes do not explode them, and missing
// or zero income fills with the cap itself so the model sees it as extreme.
const (
	ratioCap = 10.0

	// Multiplier applied to the occupation risk weight before scaling, so
	// the feature carries usable variance.
	occupationFeatureGain = 2.5

	loanFlagPrefix = "loan_"

	unknownCategory = "UNKNOWN"
)

// Encode builds the feature vector in the artifact-declared order: scaled
// numerics first, then the one-hot blocks. Numeric features the bundle names
// but the view cannot supply encode as zero before scaling, same as the
// training pipeline's column alignment.
func (c *Classifier) Encode(view entity.ApplicantView) []float64 {
	features := make([]float64, 0, c.artifacts.InputDim())

	for i, name := range c.artifacts.NumericFeatures {
		v := numericValue(name, view)

		scale := c.artifacts.Scaler.Scale[i]
		if scale == 0 {
			scale = 1
		}

		features = append(features, (v-c.artifacts.Scaler.Mean[i])/scale)
	}

	for _, cat := range c.artifacts.Categorical {
		value := categoricalValue(cat.Name, view)

		for _, candidate := range cat.Values {
			if candidate == value {
				features = append(features, 1)
			} else {
				features = append(features, 0)
			}
		}
	}

	return features
}

func numericValue(name string, view entity.ApplicantView) float64 {
	if category, ok := strings.CutPrefix(name, loanFlagPrefix); ok {
		if view.Loans.Contains(entity.LoanCategory(category)) {
			return 1
		}

		return 0
	}

	income := orZero(view.Income)
	emi := orZero(view.EMI)
	invested := orZero(view.Invested)

	switch name {
	case "Age":
		return orZero(view.Age)
	case "Monthly_Inhand_Salary":
		return income
	case "Annual_Income":
		return income * 12
	case "Total_EMI_per_month":
		return emi
	case "Amount_invested_monthly":
		return invested
	case "Outstanding_Debt":
		return orZero(view.Debt)
	case "Credit_Utilization_Ratio", "eng_utilization":
		return max(orZero(view.Utilization), 0)
	case "Num_Bank_Accounts":
		return countOrZero(view.NumBankAccounts)
	case "Num_Credit_Card":
		return countOrZero(view.NumCreditCards)
	case "Num_of_Loan":
		return countOrZero(view.NumLoans)
	case "eng_occ_risk":
		return view.OccupationRisk * occupationFeatureGain
	case "eng_cash_flow":
		return income - (emi + invested)
	case "eng_burden":
		return cappedRatio(emi, income)
	case "eng_dti_monthly":
		return cappedRatio(emi+invested, income)
	default:
		return 0
	}
}

func categoricalValue(name string, view entity.ApplicantView) string {
	var value string

	switch name {
	case "Month":
		value = view.Month
	case "Occupation":
		value = view.Occupation
	case "Credit_Mix":
		value = view.CreditMix
	case "Payment_Behaviour":
		value = view.Behaviour
	case "Payment_of_Min_Amount":
		value = "No"
	}

	if value == "" {
		return unknownCategory
	}

	return value
}

func cappedRatio(numerator, income float64) float64 {
	if income <= 0 {
		return ratioCap
	}

	return min(numerator/income, ratioCap)
}

func orZero(v *float64) float64 {
	if v == nil {
		return 0
	}

	return *v
}

func countOrZero(v *int) float64 {
	if v == nil {
		return 0
	}

	return float64(*v)
}
