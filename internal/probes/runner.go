// Package probes runs the fixed sequence of CheqPrint API checks and narrates the
// results on the console. Probes run strictly one after another so the report reads
// top to bottom in call order; a failing probe is reported and the run continues.
package probes

import (
	"context"
	"io"
	"log/slog"

	"github.com/cheqprint/cheqprint-test-api/internal/cheqprint"
	"github.com/cheqprint/cheqprint-test-api/internal/config"
	"github.com/cheqprint/cheqprint-test-api/internal/console"
	"github.com/cheqprint/cheqprint-test-api/internal/telemetry"
)

// Probe names, used in the summary and as metric labels.
const (
	ProbeBanks        = "banks"
	ProbeTemplates    = "templates"
	ProbeCompanies    = "companies"
	ProbeChequeBooks  = "cheque-books"
	ProbePrintHistory = "print-history"
	ProbePrintCheque  = "print-cheque"
	ProbePrintBatch   = "print-batch"
)

// Title is printed in the opening banner.
const Title = "CheqPrint API - Tests Go"

const confirmQuestion = "\n⚠️  Ces tests vont consommer des numéros de chèques. Continuer? (o/N): "

// API is the subset of the CheqPrint client the probes need.
type API interface {
	Get(ctx context.Context, endpoint string, auth bool) *cheqprint.Result
	Post(ctx context.Context, endpoint string, body any) *cheqprint.Result
}

// ProbeResult is the outcome of one probe.
type ProbeResult struct {
	Probe  string
	Result string // telemetry.ProbePass, ProbeFail or ProbeSkipped
}

// Summary lists probe outcomes in execution order.
type Summary struct {
	KeyMissing bool
	Results    []ProbeResult
}

// Count returns how many probes ended with the given result.
func (s Summary) Count(result string) int {
	n := 0
	for _, r := range s.Results {
		if r.Result == result {
			n++
		}
	}
	return n
}

// Runner executes the probe sequence.
type Runner struct {
	api     API
	out     *console.Printer
	in      io.Reader
	cfg     config.APIConfig
	summary Summary
}

// NewRunner creates a Runner. in is read once, for the write-test confirmation.
func NewRunner(api API, out *console.Printer, in io.Reader, cfg config.APIConfig) *Runner {
	return &Runner{api: api, out: out, in: in, cfg: cfg}
}

// Run executes the whole sequence and returns the per-probe summary. A missing API key
// stops the run before any network call.
func (r *Runner) Run(ctx context.Context) Summary {
	r.summary = Summary{}
	r.out.Header(Title)

	if err := r.cfg.RequireKey(); err != nil {
		r.out.Error("Clé API non configurée!")
		r.out.Info("Créez un fichier .env avec: API_KEY=sk_live_VOTRE_CLE")
		r.out.Info("Ou définissez la variable d'environnement API_KEY")
		slog.Warn("run aborted", "error", err)
		r.summary.KeyMissing = true
		return r.summary
	}

	r.out.Info("Clé API: %s", r.cfg.MaskedKey())
	r.out.Info("URL: %s", r.cfg.BaseURL)

	r.out.Header("Tests de lecture")

	r.Banks(ctx)
	r.Templates(ctx)
	r.Companies(ctx)
	books := r.ChequeBooks(ctx)
	r.PrintHistory(ctx)

	r.out.Header("Tests d'écriture")
	active := SelectActiveBook(books)
	if active == nil {
		r.out.Error("Aucun carnet actif avec assez de chèques trouvé")
		r.out.Info("Créez un carnet de chèques dans l'app CheqPrint")
		r.skipWrites("no active book")
	} else {
		r.out.Info("Utilisation du carnet: %s / %s", active.CompanyName, active.BankName)
		if console.Confirm(r.in, r.out.Writer(), confirmQuestion) {
			r.PrintCheque(ctx, active.CompanyName, active.BankName)
			r.PrintBatch(ctx, active.CompanyName, active.BankName)
		} else {
			r.out.Info("Tests d'écriture ignorés")
			r.skipWrites("declined by operator")
		}
	}

	r.out.Header("Tests terminés")

	slog.Info("run finished",
		"passed", r.summary.Count(telemetry.ProbePass),
		"failed", r.summary.Count(telemetry.ProbeFail),
		"skipped", r.summary.Count(telemetry.ProbeSkipped),
	)
	return r.summary
}

func (r *Runner) skipWrites(reason string) {
	slog.Info("write probes skipped", "reason", reason)
	r.record(ProbePrintCheque, telemetry.ProbeSkipped)
	r.record(ProbePrintBatch, telemetry.ProbeSkipped)
}

func (r *Runner) record(probe, result string) {
	r.summary.Results = append(r.summary.Results, ProbeResult{Probe: probe, Result: result})
	telemetry.RecordProbe(probe, result)
}

func (r *Runner) pass(probe string) {
	r.record(probe, telemetry.ProbePass)
}

// fail reports a failed call and records it.
func (r *Runner) fail(probe string, res *cheqprint.Result) {
	r.out.Error("Erreur: %s", res.Payload())
	slog.Debug("probe failed", "probe", probe, "status", res.Status, "request_id", res.RequestID, "error", res.Err)
	r.record(probe, telemetry.ProbeFail)
}

// decode unwraps the response data into a T. A payload of an unexpected shape is
// reported as the zero value, the way an absent payload is.
func decode[T any](probe string, res *cheqprint.Result) T {
	var v T
	if err := res.Decode(&v); err != nil {
		slog.Warn("unexpected response shape", "probe", probe, "request_id", res.RequestID, "error", err)
		var zero T
		return zero
	}
	return v
}

// PreviewLimit bounds how many items of a list are printed.
const PreviewLimit = 5

func preview[T any](items []T) []T {
	if len(items) > PreviewLimit {
		return items[:PreviewLimit]
	}
	return items
}
