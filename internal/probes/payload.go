package probes

import "github.com/cheqprint/cheqprint-test-api/internal/cheqprint"

// Static values of the write probes. They are recognisable in the print history so test
// cheques can be told apart from real ones.
const (
	TestBeneficiary = "TEST API NODEJS"
	TestAmount      = "234567"
	TestPlace       = "ABIDJAN"
)

// BatchCheques is the fixed content of the batch print.
var BatchCheques = []cheqprint.BatchCheque{
	{Beneficiary: "BATCH JS 1", Amount: "60000"},
	{Beneficiary: "BATCH JS 2", Amount: "85000"},
}

// NewPrintChequeRequest builds the single-cheque payload for the given book owner.
func NewPrintChequeRequest(companyName, bankName string) cheqprint.PrintChequeRequest {
	return cheqprint.PrintChequeRequest{
		Beneficiary: TestBeneficiary,
		Amount:      TestAmount,
		Bank:        bankName,
		Company:     companyName,
		Place:       TestPlace,
	}
}

// NewPrintBatchRequest builds the two-cheque batch payload for the given book owner.
func NewPrintBatchRequest(companyName, bankName string) cheqprint.PrintBatchRequest {
	cheques := make([]cheqprint.BatchCheque, len(BatchCheques))
	copy(cheques, BatchCheques)
	return cheqprint.PrintBatchRequest{
		Bank:    bankName,
		Company: companyName,
		Cheques: cheques,
	}
}
