package cheqprint

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Envelope is the wrapper every CheqPrint endpoint puts around its payload.
type Envelope[T any] struct {
	Data T `json:"data"`
}

// Text is a display value the API sends either as a JSON string or as a number.
// null and missing both decode to the empty string.
type Text string

// UnmarshalJSON accepts strings, numbers, booleans and null.
func (t *Text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*t = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}
	*t = Text(b)
	return nil
}

// String returns the value, or "N/A" when empty.
func (t Text) String() string {
	if t == "" {
		return "N/A"
	}
	return string(t)
}

// Count is a counter the API sends as a number, a numeric string or null. Anything it
// cannot read as a number decodes to 0 instead of failing the enclosing record.
type Count int

// UnmarshalJSON never returns an error; fractional values are truncated.
func (c *Count) UnmarshalJSON(b []byte) error {
	*c = 0
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return nil
		}
		b = []byte(strings.TrimSpace(s))
	}
	f, err := strconv.ParseFloat(string(b), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	*c = Count(f)
	return nil
}

// Bank is one entry of GET /banks.
type Bank struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// DisplayName returns the name, else the code, else "N/A".
func (b Bank) DisplayName() string {
	return firstNonEmpty(b.Name, b.Code, "N/A")
}

// Template is one entry of GET /templates. Only the count is reported, so the
// record is kept opaque.
type Template = json.RawMessage

// Company is one entry of GET /companies.
type Company struct {
	Name string `json:"name"`
}

// DisplayName returns the name or "N/A".
func (c Company) DisplayName() string {
	return firstNonEmpty(c.Name, "N/A")
}

// ChequeBook is a read-only view of one entry of GET /cheque-books.
type ChequeBook struct {
	CompanyName  string `json:"companyName"`
	BankName     string `json:"bankName"`
	TotalCheques Count  `json:"totalCheques"`
	UsedCheques  Count  `json:"usedCheques"`
	IsActive     bool   `json:"isActive"`
}

// Remaining returns the number of unused cheques in the book.
func (b ChequeBook) Remaining() int {
	return int(b.TotalCheques - b.UsedCheques)
}

// PrintRecord is one entry of the print history.
type PrintRecord struct {
	ChequeNumber Text `json:"chequeNumber"`
	Beneficiary  Text `json:"beneficiary"`
	Amount       Text `json:"amount"`
}

// PrintHistoryPage is the data payload of GET /print-history.
type PrintHistoryPage struct {
	Records []PrintRecord `json:"records"`
	Total   Count         `json:"total"`
}

// PrintChequeRequest is the body of POST /print-cheque. Wire names are the ones the
// CheqPrint backend expects.
type PrintChequeRequest struct {
	Beneficiary string `json:"beneficiaire"`
	Amount      string `json:"montant"`
	Bank        string `json:"selectedBank"`
	Company     string `json:"companyName"`
	Place       string `json:"lieu"`
}

// BatchCheque is one cheque of a batch print.
type BatchCheque struct {
	Beneficiary string `json:"beneficiaire"`
	Amount      string `json:"montant"`
}

// PrintBatchRequest is the body of POST /print-batch.
type PrintBatchRequest struct {
	Bank    string        `json:"selectedBank"`
	Company string        `json:"companyName"`
	Cheques []BatchCheque `json:"cheques"`
}

// PrintedCheque describes a cheque issued by the server.
type PrintedCheque struct {
	ChequeNumber  Text `json:"chequeNumber"`
	AmountInWords Text `json:"montantEnLettres"`
	Beneficiary   Text `json:"beneficiaire"`
	Amount        Text `json:"montant"`
}

// BatchResult is the data payload of POST /print-batch.
type BatchResult struct {
	TotalProcessed Text            `json:"totalProcessed"`
	TotalAmount    Text            `json:"totalAmount"`
	Cheques        []PrintedCheque `json:"cheques"`
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
