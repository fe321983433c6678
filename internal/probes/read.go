package probes

import (
	"context"

	"github.com/cheqprint/cheqprint-test-api/internal/cheqprint"
)

// Banks lists the banks known to the service. It is the only anonymous call.
func (r *Runner) Banks(ctx context.Context) bool {
	r.out.Info("GET /banks - Liste des banques disponibles")

	res := r.api.Get(ctx, "banks", false)
	if !res.Success {
		r.fail(ProbeBanks, res)
		return false
	}

	banks := decode[[]cheqprint.Bank](ProbeBanks, res)
	r.out.Success("Trouvé %d banque(s)", len(banks))
	for _, bank := range preview(banks) {
		r.out.Line("- %s", bank.DisplayName())
	}
	r.pass(ProbeBanks)
	return true
}

// Templates counts the cheque templates available to the key's account.
func (r *Runner) Templates(ctx context.Context) bool {
	r.out.Info("GET /templates - Templates de chèques")

	res := r.api.Get(ctx, "templates", true)
	if !res.Success {
		r.fail(ProbeTemplates, res)
		return false
	}

	templates := decode[[]cheqprint.Template](ProbeTemplates, res)
	r.out.Success("Trouvé %d template(s)", len(templates))
	r.pass(ProbeTemplates)
	return true
}

// Companies lists the account's companies. It returns nil on failure.
func (r *Runner) Companies(ctx context.Context) []cheqprint.Company {
	r.out.Info("GET /companies - Vos sociétés")

	res := r.api.Get(ctx, "companies", true)
	if !res.Success {
		r.fail(ProbeCompanies, res)
		return nil
	}

	companies := decode[[]cheqprint.Company](ProbeCompanies, res)
	r.out.Success("Trouvé %d société(s)", len(companies))
	for _, company := range preview(companies) {
		r.out.Line("- %s", company.DisplayName())
	}
	r.pass(ProbeCompanies)
	return companies
}

// ChequeBooks lists the account's cheque books with their remaining capacity. The full
// list is returned for active-book selection; nil on failure.
func (r *Runner) ChequeBooks(ctx context.Context) []cheqprint.ChequeBook {
	r.out.Info("GET /cheque-books - Vos carnets de chèques")

	res := r.api.Get(ctx, "cheque-books", true)
	if !res.Success {
		r.fail(ProbeChequeBooks, res)
		return nil
	}

	books := decode[[]cheqprint.ChequeBook](ProbeChequeBooks, res)
	r.out.Success("Trouvé %d carnet(s)", len(books))
	for _, book := range preview(books) {
		status := "inactif"
		if book.IsActive {
			status = "actif"
		}
		r.out.Line("- %s / %s (%d restants, %s)", book.CompanyName, book.BankName, book.Remaining(), status)
	}
	r.pass(ProbeChequeBooks)
	return books
}

// PrintHistory shows the total number of printed cheques and the latest records.
func (r *Runner) PrintHistory(ctx context.Context) bool {
	r.out.Info("GET /print-history - Historique des impressions")

	res := r.api.Get(ctx, "print-history?limit=5", true)
	if !res.Success {
		r.fail(ProbePrintHistory, res)
		return false
	}

	page := decode[cheqprint.PrintHistoryPage](ProbePrintHistory, res)
	r.out.Success("Total: %d impression(s)", page.Total)
	for _, rec := range preview(page.Records) {
		r.out.Line("- Chèque #%s : %s - %s FCFA", rec.ChequeNumber, rec.Beneficiary, rec.Amount)
	}
	r.pass(ProbePrintHistory)
	return true
}
