// Package banks identifies which bank produced a statement by matching
// header fingerprints, and carries per-bank header synonym tables used by
// the field mapper. Profiles are data: supporting a new bank means adding
// an entry to Profiles, not writing code.
package banks

import "bankrecon/internal/models"

// Profile describes one known bank export format.
type Profile struct {
	// ID is a stable identifier for the profile.
	ID string `json:"id"`
	// Name is the display name of the bank.
	Name string `json:"name"`
	// Fingerprints are normalized header tokens unique enough to identify
	// this bank. A profile scores one point per fingerprint found as a
	// substring of any normalized header.
	Fingerprints []string `json:"fingerprints"`
	// Synonyms lists normalized header names per semantic field.
	Synonyms map[models.Field][]string `json:"synonyms"`
	// Delimiter is the delimiter this bank's exports normally use.
	Delimiter rune `json:"-"`
	// DateFormat is the bank's usual date layout, for display hints.
	DateFormat string `json:"dateFormat"`
}

// Profiles is the table of known bank formats, in detection tie-break
// order. Header tokens are stored pre-normalized (see NormalizeHeader).
var Profiles = []*Profile{
	{
		ID:           "nordea",
		Name:         "Nordea",
		Fingerprints: []string{"bokforingsdag", "rubrik"},
		Synonyms: map[models.Field][]string{
			models.FieldDate:         {"bokforingsdag", "datum"},
			models.FieldDescription:  {"rubrik", "meddelande"},
			models.FieldAmount:       {"belopp"},
			models.FieldCounterparty: {"avsandare", "mottagare", "namn"},
			models.FieldReference:    {"referens"},
			models.FieldOCR:          {"ocr", "ocrnummer"},
			models.FieldCurrency:     {"valuta"},
			models.FieldAccount:      {"egetkontonummer", "konto"},
		},
		Delimiter:  ';',
		DateFormat: "2006-01-02",
	},
	{
		ID:           "seb",
		Name:         "SEB",
		Fingerprints: []string{"verifikationsnummer", "valutadatum"},
		Synonyms: map[models.Field][]string{
			models.FieldDate:         {"bokforingsdatum", "valutadatum"},
			models.FieldDescription:  {"text"},
			models.FieldAmount:       {"belopp"},
			models.FieldReference:    {"verifikationsnummer"},
			models.FieldOCR:          {"ocr"},
			models.FieldCurrency:     {"valuta"},
			models.FieldAccount:      {"konto", "kontonummer"},
		},
		Delimiter:  ';',
		DateFormat: "2006-01-02",
	},
	{
		ID:           "swedbank",
		Name:         "Swedbank",
		Fingerprints: []string{"clearingnummer", "transaktionsdag"},
		Synonyms: map[models.Field][]string{
			models.FieldDate:         {"bokforingsdag", "transaktionsdag"},
			models.FieldDescription:  {"beskrivning"},
			models.FieldAmount:       {"belopp"},
			models.FieldInflow:       {"insattning"},
			models.FieldOutflow:      {"uttag"},
			models.FieldReference:    {"referens"},
			models.FieldOCR:          {"ocr"},
			models.FieldCurrency:     {"valuta"},
			models.FieldAccount:      {"kontonummer"},
		},
		Delimiter:  ',',
		DateFormat: "2006-01-02",
	},
	{
		ID:           "handelsbanken",
		Name:         "Handelsbanken",
		Fingerprints: []string{"reskontradatum"},
		Synonyms: map[models.Field][]string{
			models.FieldDate:        {"reskontradatum", "transaktionsdatum"},
			models.FieldDescription: {"text"},
			models.FieldAmount:      {"belopp"},
			models.FieldOCR:         {"ocr"},
			models.FieldCurrency:    {"valuta"},
			models.FieldAccount:     {"konto"},
		},
		Delimiter:  ';',
		DateFormat: "2006-01-02",
	},
}

// genericSynonyms are bank-agnostic header names, mostly English exports
// and common Swedish variants not claimed by a specific profile.
var genericSynonyms = map[models.Field][]string{
	models.FieldDate:         {"date", "transactiondate", "bookingdate", "datum", "transaktionsdatum"},
	models.FieldDescription:  {"description", "text", "narrative", "details", "beskrivning", "meddelande"},
	models.FieldAmount:       {"amount", "belopp", "summa"},
	models.FieldInflow:       {"credit", "deposit", "inflow", "insattning"},
	models.FieldOutflow:      {"debit", "withdrawal", "outflow", "uttag"},
	models.FieldCounterparty: {"counterparty", "payee", "merchant", "mottagare", "betalningsmottagare"},
	models.FieldReference:    {"reference", "referens", "verifikationsnummer"},
	models.FieldOCR:          {"ocr", "ocrnummer", "ocrreferens"},
	models.FieldCurrency:     {"currency", "valuta"},
	models.FieldAccount:      {"account", "accountnumber", "konto", "kontonummer"},
}

// MergedSynonyms returns the union of every profile's synonyms plus the
// generic set, per field. Used when no profile is detected.
func MergedSynonyms() map[models.Field][]string {
	merged := make(map[models.Field][]string, len(models.AllFields))
	seen := make(map[models.Field]map[string]bool, len(models.AllFields))

	add := func(field models.Field, synonyms []string) {
		if seen[field] == nil {
			seen[field] = make(map[string]bool)
		}
		for _, s := range synonyms {
			if !seen[field][s] {
				seen[field][s] = true
				merged[field] = append(merged[field], s)
			}
		}
	}

	add2 := func(table map[models.Field][]string) {
		for _, field := range models.AllFields {
			if synonyms, ok := table[field]; ok {
				add(field, synonyms)
			}
		}
	}

	add2(genericSynonyms)
	for _, profile := range Profiles {
		add2(profile.Synonyms)
	}

	return merged
}

// FieldSynonyms returns the synonym table for the detected profile, or the
// merged table when profile is nil.
func FieldSynonyms(profile *Profile) map[models.Field][]string {
	if profile == nil {
		return MergedSynonyms()
	}
	return profile.Synonyms
}
