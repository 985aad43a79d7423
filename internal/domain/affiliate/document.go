package affiliate

import (
	"regexp"
	"strconv"
	"strings"

	"cendra-go/internal/domain"
)

const documentControlLetters = "TRWAGMYFPDXBNJZSQVHLCKE"

var (
	dniPattern      = regexp.MustCompile(`^\d{8}[A-Z]$`)
	niePattern      = regexp.MustCompile(`^[XYZ]\d{7}[A-Z]$`)
	passportPattern = regexp.MustCompile(`^[A-Z0-9]{3,9}$`)
)

// NormalizeDocumentID upper-cases id and drops separators clients often type.
func NormalizeDocumentID(id string) string {
	id = strings.ToUpper(strings.TrimSpace(id))
	return strings.NewReplacer(" ", "", "-", "", ".", "").Replace(id)
}

// ValidateDocument checks the format of id for the given document type,
// including the control letter of DNI and NIE numbers.
func ValidateDocument(docType DocumentType, id string) error {
	switch docType {
	case DocumentDNI:
		if !dniPattern.MatchString(id) {
			return domain.NewValidationError("document_id", "DNI must be 8 digits followed by a letter")
		}
		if !hasControlLetter(id[:8], id[8]) {
			return domain.NewValidationError("document_id", "DNI control letter does not match")
		}
	case DocumentNIE:
		if !niePattern.MatchString(id) {
			return domain.NewValidationError("document_id", "NIE must be X, Y or Z, 7 digits and a letter")
		}
		digits := strings.NewReplacer("X", "0", "Y", "1", "Z", "2").Replace(id[:1]) + id[1:8]
		if !hasControlLetter(digits, id[8]) {
			return domain.NewValidationError("document_id", "NIE control letter does not match")
		}
	case DocumentPassport:
		if !passportPattern.MatchString(id) {
			return domain.NewValidationError("document_id", "passport must be 3 to 9 letters or digits")
		}
	default:
		return domain.NewValidationError("document_type", "must be one of 1 2 3")
	}
	return nil
}

func hasControlLetter(digits string, letter byte) bool {
	number, err := strconv.Atoi(digits)
	if err != nil {
		return false
	}
	return documentControlLetters[number%len(documentControlLetters)] == letter
}
