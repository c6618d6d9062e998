package tabular

import (
	"fmt"
	"os"

	"github.com/parquet-go/parquet-go"

	"github.com/nateginn/ART-Performance/internal/model"
	"github.com/nateginn/ART-Performance/internal/normalize"
)

// DeidentifiedVisit is the columnar schema for the PHI-free AMD extract.
// Money fields are parsed to plain decimals so downstream tooling never sees
// currency formatting.
type DeidentifiedVisit struct {
	PatientAccountNumber string  `parquet:"patient_account_number"`
	ServiceDate          string  `parquet:"service_date"`
	Charges              float64 `parquet:"charges"`
	InsurancePayments    float64 `parquet:"insurance_payments"`
	PatientPayments      float64 `parquet:"patient_payments"`
	CurrentBalance       float64 `parquet:"current_balance"`
}

// VisitColumns names the source columns feeding the Parquet export.
type VisitColumns struct {
	AccountNumber     string
	ServiceDate       string
	Charges           string
	InsurancePayments string
	PatientPayments   string
	CurrentBalance    string
}

// WriteParquet exports the de-identified table to a Parquet file using the
// fixed DeidentifiedVisit schema.
func WriteParquet(path string, t *model.Table, cols VisitColumns) (int, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create parquet: %w", err)
	}
	defer f.Close()

	w := parquet.NewGenericWriter[DeidentifiedVisit](f)
	buf := make([]DeidentifiedVisit, 0, len(t.Rows))
	for _, row := range t.Rows {
		buf = append(buf, DeidentifiedVisit{
			PatientAccountNumber: row[cols.AccountNumber],
			ServiceDate:          normalize.ServiceDate(row[cols.ServiceDate]),
			Charges:              normalize.Money(row[cols.Charges]),
			InsurancePayments:    normalize.Money(row[cols.InsurancePayments]),
			PatientPayments:      normalize.Money(row[cols.PatientPayments]),
			CurrentBalance:       normalize.Money(row[cols.CurrentBalance]),
		})
	}
	n, err := w.Write(buf)
	if err != nil {
		return n, fmt.Errorf("write parquet rows: %w", err)
	}
	if err := w.Close(); err != nil {
		return n, fmt.Errorf("close parquet writer: %w", err)
	}
	return n, f.Close()
}
