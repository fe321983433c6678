package probes

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/cheqprint/cheqprint-test-api/internal/cheqprint"
)

// PrintCheque prints one test cheque from the given company/bank book. This consumes a
// real cheque number on the server.
func (r *Runner) PrintCheque(ctx context.Context, companyName, bankName string) bool {
	r.out.Info("POST /print-cheque - Imprimer un chèque")

	req := NewPrintChequeRequest(companyName, bankName)
	if pretty, err := json.MarshalIndent(req, "", "  "); err != nil {
		slog.Warn("failed to render request payload", "probe", ProbePrintCheque, "error", err)
		r.out.Line("Données: %+v", req)
	} else {
		r.out.Line("Données: %s", pretty)
	}

	res := r.api.Post(ctx, "print-cheque", req)
	if !res.Success {
		r.fail(ProbePrintCheque, res)
		return false
	}

	cheque := decode[cheqprint.PrintedCheque](ProbePrintCheque, res)
	r.out.Success("Chèque imprimé avec succès!")
	r.out.Line("Numéro: %s", cheque.ChequeNumber)
	r.out.Line("Montant en lettres: %s", cheque.AmountInWords)
	r.pass(ProbePrintCheque)
	return true
}

// PrintBatch prints the two-cheque test batch from the given company/bank book.
func (r *Runner) PrintBatch(ctx context.Context, companyName, bankName string) bool {
	r.out.Info("POST /print-batch - Imprimer plusieurs chèques")

	req := NewPrintBatchRequest(companyName, bankName)
	r.out.Line("Nombre de chèques: %d", len(req.Cheques))

	res := r.api.Post(ctx, "print-batch", req)
	if !res.Success {
		r.fail(ProbePrintBatch, res)
		return false
	}

	batch := decode[cheqprint.BatchResult](ProbePrintBatch, res)
	r.out.Success("Lot imprimé: %s chèques", batch.TotalProcessed)
	r.out.Line("Montant total: %s FCFA", batch.TotalAmount)
	for _, cheque := range batch.Cheques {
		r.out.Line("- #%s: %s - %s FCFA", cheque.ChequeNumber, cheque.Beneficiary, cheque.Amount)
	}
	r.pass(ProbePrintBatch)
	return true
}
