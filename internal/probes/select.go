package probes

import "github.com/cheqprint/cheqprint-test-api/internal/cheqprint"

// MinRemainingCheques is the capacity a book needs for the write probes: one single
// cheque plus a two-cheque batch.
const MinRemainingCheques = 3

// SelectActiveBook returns the first book, in input order, that is active and has at
// least MinRemainingCheques unused cheques. It returns nil when none qualifies.
func SelectActiveBook(books []cheqprint.ChequeBook) *cheqprint.ChequeBook {
	for i := range books {
		if books[i].IsActive && books[i].Remaining() >= MinRemainingCheques {
			book := books[i]
			return &book
		}
	}
	return nil
}
