package model_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"creditdesk/internal/domain/entity"
	"creditdesk/internal/infrastructure/model"
)

func fp(v float64) *float64 { return &v }

// testArtifacts is a hand-written single-layer bundle: the adverse logit is
// driven by payment burden, the payday flag and a Poor credit mix, which
// keeps every expectation below computable by eye.
const testArtifacts = `{
	"model_version": "test-1",
	"class_names": ["Poor", "Standard", "Good"],
	"numeric_features": ["eng_burden", "eng_cash_flow", "eng_occ_risk", "loan_Payday Loan"],
	"scaler": {
		"mean": [0, 0, 0, 0],
		"scale": [1, 1, 1, 1]
	},
	"categorical": [
		{"name": "Credit_Mix", "values": ["Poor", "Standard", "Good", "UNKNOWN"]}
	],
	"layers": [
		{
			"weights": [
				[2, 0, 0, 3, 1, 0, 0, 0],
				[0, 0, 0, 0, 0, 0, 0, 0],
				[-1, 0, 0, 0, 0, 0, 1, 0]
			],
			"biases": [0, 0, 0]
		}
	]
}`

func writeArtifacts(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "classifier.json")

	err := os.WriteFile(path, []byte(body), 0o600)
	require.NoError(t, err)

	return path
}

func TestLoad(t *testing.T) {
	rq := require.New(t)

	classifier, err := model.Load(writeArtifacts(t, testArtifacts))
	rq.NoError(err)
	rq.Equal("test-1", classifier.Version())
	rq.Equal([]string{entity.ClassPoor, entity.ClassStandard, entity.ClassGood}, classifier.Classes())
}

func TestLoadRejectsBadBundles(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name string
		body string
	}{
		{name: "not json", body: `{{`},
		{
			name: "scaler mismatch",
			body: `{"class_names":["Poor"],"numeric_features":["a","b"],
				"scaler":{"mean":[0],"scale":[1]},
				"layers":[{"weights":[[0,0]],"biases":[0]}]}`,
		},
		{
			name: "layer width mismatch",
			body: `{"class_names":["Poor"],"numeric_features":["a"],
				"scaler":{"mean":[0],"scale":[1]},
				"layers":[{"weights":[[0,0,0]],"biases":[0]}]}`,
		},
		{
			name: "output does not match classes",
			body: `{"class_names":["Poor","Standard"],"numeric_features":["a"],
				"scaler":{"mean":[0],"scale":[1]},
				"layers":[{"weights":[[0]],"biases":[0]}]}`,
		},
	}

	for _, tc := range testCases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			_, err := model.Load(writeArtifacts(t, tc.body))
			rq.Error(err)
		})
	}
}

func TestEncode(t *testing.T) {
	rq := require.New(t)

	classifier, err := model.Load(writeArtifacts(t, testArtifacts))
	rq.NoError(err)

	view := entity.ApplicantView{
		Income:         fp(2000),
		EMI:            fp(1000),
		OccupationRisk: 0.1,
		CreditMix:      entity.ClassPoor,
		Loans: entity.CanonicalLoanSet{
			Matched: []entity.LoanCategory{entity.LoanPayday},
		},
	}

	features := classifier.Encode(view)

	rq.Equal([]float64{
		0.5,  // burden 1000/2000
		1000, // cash flow, invested treated as 0
		0.25, // occupation risk amplified by the feature gain
		1,    // payday flag
		1, 0, 0, 0, // Credit_Mix one-hot
	}, features)
}

func TestEncodeMissingIncome(t *testing.T) {
	rq := require.New(t)

	classifier, err := model.Load(writeArtifacts(t, testArtifacts))
	rq.NoError(err)

	features := classifier.Encode(entity.ApplicantView{EMI: fp(1000)})

	// Missing income fills the ratio with the cap so the model reads it as
	// extreme, and the unknown credit mix lands in the UNKNOWN bucket.
	rq.InDelta(10.0, features[0], 1e-9)
	rq.Equal([]float64{0, 0, 0, 1}, features[4:])
}

func TestPredict(t *testing.T) {
	rq := require.New(t)

	classifier, err := model.Load(writeArtifacts(t, testArtifacts))
	rq.NoError(err)

	view := entity.ApplicantView{
		Income:    fp(2000),
		EMI:       fp(1800),
		CreditMix: entity.ClassPoor,
		Loans: entity.CanonicalLoanSet{
			Matched: []entity.LoanCategory{entity.LoanPayday},
		},
	}

	probs, err := classifier.Predict(context.Background(), classifier.Encode(view))
	rq.NoError(err)
	rq.Len(probs, 3)

	var total float64
	for _, p := range probs {
		rq.GreaterOrEqual(p, 0.0)
		total += p
	}

	rq.InDelta(1.0, total, 1e-9)
	rq.Greater(probs[0], probs[1], "adverse class must dominate this profile")
	rq.Greater(probs[0], probs[2])
}

func TestAttributionSource(t *testing.T) {
	rq := require.New(t)

	classifier, err := model.Load(writeArtifacts(t, testArtifacts))
	rq.NoError(err)

	source := model.NewAttributionSource(classifier)

	candidates := source.Candidates(entity.ApplicantView{
		Income: fp(2000),
		EMI:    fp(1800),
		Loans: entity.CanonicalLoanSet{
			Matched: []entity.LoanCategory{entity.LoanPayday},
		},
	})

	rq.NotEmpty(candidates)

	texts := make([]string, 0, len(candidates))
	for _, c := range candidates {
		rq.Greater(c.Severity, 0.0)
		rq.LessOrEqual(c.Severity, 0.6)
		texts = append(texts, c.Text)
	}

	rq.Contains(texts, "High monthly payment burden relative to income (EMI/income).")
	rq.Contains(texts, "Loan portfolio includes higher-risk products: Payday Loan.")
}
