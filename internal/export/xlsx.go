package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

const (
	ContentType        = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	AffiliatesFilename = "Afiliados.xlsx"
	sheetName          = "Sheet1"
	dateLayout         = "2006-01-02"
)

var header = []any{
	"COD.JCF", "NUM.CENSO", "SU.REF.", "INF/MAY", "APELLIDOS", "NOMBRE", "DIRECCION", "POBLACION",
	"C.POSTAL", "TELEF1", "TELEF2", "F.NAC.", "SEXO", "DNI", "CARGO", "RECOMPENSA",
}

// Row is one affiliate line of the federation census sheet.
type Row struct {
	JCFNumber    *int
	CensusNumber *int
	Commission   string
	Surnames     string
	Name         string
	Address      string
	City         string
	PostalCode   string
	Phone        string
	Birthday     time.Time
	Gender       string
	DocumentID   string
	Position     string
	Reward       string
}

// Filename is the download name used for the census of year.
func Filename(year int) string {
	return fmt.Sprintf("Censo_%d.xlsx", year)
}

// GenderCode maps a stored gender to the sheet nomenclature: H for men and M
// for women.
func GenderCode(gender string) string {
	if strings.EqualFold(gender, "F") {
		return "M"
	}
	return "H"
}

// WriteCensus renders rows as a single sheet workbook into w.
func WriteCensus(w io.Writer, rows []Row) error {
	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	lastHeader, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetName, "A1", lastHeader, bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []any{
			optionalInt(row.JCFNumber),
			optionalInt(row.CensusNumber),
			"",
			row.Commission,
			strings.ToUpper(row.Surnames),
			strings.ToUpper(row.Name),
			strings.ToUpper(row.Address),
			strings.ToUpper(row.City),
			row.PostalCode,
			row.Phone,
			"",
			row.Birthday.Format(dateLayout),
			GenderCode(row.Gender),
			strings.ToUpper(row.DocumentID),
			strings.ToUpper(row.Position),
			row.Reward,
		}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func optionalInt(v *int) any {
	if v == nil {
		return ""
	}
	return *v
}
