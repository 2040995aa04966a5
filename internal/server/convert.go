package server

import (
	"creditdesk/internal/domain/entity"
	"creditdesk/internal/infrastructure/anchor"
	"creditdesk/pkg/rest"
)

func newDomainApplicant(request rest.ScoreRequest) entity.ApplicantRecord {
	return entity.ApplicantRecord{
		MonthlyIncome:    request.IncomeMonthly,
		HousingCost:      request.HousingCostMonthly,
		OtherExpenses:    request.OtherExpensesMonthly,
		InvestedMonthly:  request.Invested,
		OutstandingDebt:  request.Obligations,
		Utilization:      request.CreditUtilization,
		Age:              request.Age,
		EmploymentRole:   request.EmploymentRole,
		ApplicationMonth: request.ApplicationMonth,
		LoanDescriptions: request.Loans,
		SpendingHint:     request.SpendingPatternHint,
		StatusHint:       request.StatusHint,
		NumBankAccounts:  request.NumBankAccounts,
		NumCreditCards:   request.NumCreditCards,
		NumLoans:         request.NumLoans,
	}
}

func newRESTEvaluation(evaluation entity.Evaluation) rest.ScoreResponse {
	return rest.ScoreResponse{
		Decision:        evaluation.Decision.String(),
		Confidence:      evaluation.Confidence,
		Probabilities:   evaluation.Probabilities,
		RiskProbability: evaluation.RiskProbability,
		CreditScore:     evaluation.CreditScore,
		Band:            evaluation.Band.String(),
		Message:         evaluation.Message,
		Reasons:         evaluation.Reasons,
	}
}

func newDomainLoanRequest(request rest.CreateLoanRequest) *entity.LoanRequest {
	loanRequest := &entity.LoanRequest{
		BorrowerName:  request.BorrowerName,
		BorrowerEmail: request.BorrowerEmail,
		LoanType:      request.LoanType,
		LoanPurpose:   request.LoanPurpose,
		CreditScore:   request.CreditScore,
		CreditBand:    request.CreditBand,
		Reasons:       request.Reasons,
	}

	if request.LoanAmount != nil {
		loanRequest.LoanAmount = *request.LoanAmount
	}

	if request.LoanTerm != nil {
		loanRequest.LoanTerm = *request.LoanTerm
	}

	return loanRequest
}

func newRESTLoanRequest(request *entity.LoanRequest) rest.LoanRequest {
	reasons := request.Reasons
	if reasons == nil {
		reasons = []string{}
	}

	return rest.LoanRequest{
		ID:           request.ID,
		BorrowerName: request.BorrowerName,
		Email:        request.BorrowerEmail,
		LoanType:     request.LoanType,
		LoanAmount:   request.LoanAmount,
		LoanTerm:     request.LoanTerm,
		LoanPurpose:  request.LoanPurpose,
		CreditScore:  request.CreditScore,
		CreditBand:   request.CreditBand,
		Reasons:      reasons,
		RequestDate:  request.RequestDate.Format("2006-01-02"),
		Status:       request.Status.String(),
	}
}

func newRESTBlock(block anchor.Block) rest.Block {
	return rest.Block{
		Index:     block.Index,
		Timestamp: block.Timestamp,
		PrevHash:  block.PrevHash,
		Data:      block.Data,
		Nonce:     block.Nonce,
		Hash:      block.Hash,
	}
}
