// Package feeschedule holds the Schedule A fee table: the default rates, the
// canonical row order and the rules for merging partner-specific overrides.
package feeschedule

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/01moynul/lumino-partner-portal/internal/jsonfix"
)

// Row is one fee category with its four pricing options.
type Row struct {
	Category string `json:"category"`
	Option1  string `json:"option1"`
	Option2  string `json:"option2"`
	Option3  string `json:"option3"`
	Option4  string `json:"option4"`
}

// Schedule maps a fee key (see Keys) to its row.
type Schedule map[string]Row

var keys = []string{
	"equipment",
	"associationFees",
	"visaMcFee",
	"otherTransactionFee",
	"binSponsorship",
	"amexOptBlue",
	"monthlySupportFee",
	"monthlyMinimum",
	"chargebackFee",
	"retrievalRequest",
	"bonusProgram",
	"saasFees",
	"equipmentCost",
	"sbaLoans",
	"creditCards",
	"bridgeLoans",
	"equipmentFinancing",
	"creditOptimization",
}

var defaults = map[string]Row{
	"equipment": {
		Category: "Equipment & Software",
		Option1:  "SkyTab, SumUp, Clover POS",
		Option2:  "Lumino Terminals, Pax, Dejavoo, Valor, Verifone",
		Option3:  "Lumino Invoicing, E-Commerce Integrations",
		Option4:  "Financial Services",
	},
	"associationFees": {
		Category: "Association Fees (Interchange, dues, assessments from Card Associations)",
		Option1:  "Pass-through 60%",
		Option2:  "Pass-through 75%",
		Option3:  "Pass-through 50%",
		Option4:  "Pass-through 60%",
	},
	"visaMcFee":           {"Visa/MC Transaction Fee", "$0.05", "$0.03", "$0.05", "-"},
	"otherTransactionFee": {"Other Transaction Fee (AMEX, Discover, EBT, etc.)", "$0.05", "$0.03", "$0.05", "-"},
	"binSponsorship":      {"BIN Sponsorship", "5 bps", "3 bps", "15 bps", "-"},
	"amexOptBlue":         {"AMEX OptBlue / Processor Access", "25 bps", "25 bps", "25 bps", "-"},
	"monthlySupportFee":   {"Monthly Program Support Fee", "$4.75", "$4.75", "$4.75", "-"},
	"monthlyMinimum":      {"Monthly Minimum", "$0.00", "$0.00", "$0.00", "-"},
	"chargebackFee":       {"Chargeback Fee", "$15.00", "$15.00", "$15.00", "-"},
	"retrievalRequest":    {"Retrieval Request", "$5.00", "$5.00", "$5.00", "-"},
	"bonusProgram":        {"Bonus Program Upfront", "18x Monthly Residual", "1x Monthly Residual", "-", "-"},
	"saasFees":            {"SaaS Fees", "See RDR/Fraud Schedule", "See RDR/Fraud Schedule", "See RDR/Fraud Schedule", "-"},
	"equipmentCost":       {"Monthly Equipment Cost", "See Equipment Schedule", "See Equipment Schedule", "See Equipment Schedule", "-"},
	"sbaLoans":            {"SBA Loans (SBA Acquisition Loan Funding)", "-", "-", "-", "5% Fee"},
	"creditCards":         {"0% Interest Credit Cards", "-", "-", "-", "5% Fee"},
	"bridgeLoans":         {"Bank Statement Bridge Loans", "-", "-", "-", "3% Fee"},
	"equipmentFinancing":  {"Equipment Financing", "-", "-", "-", "3% Fee"},
	"creditOptimization":  {"Credit Optimization", "-", "-", "-", "25% Fee"},
}

// Keys returns the fee keys in the order rows are displayed.
func Keys() []string {
	out := make([]string, len(keys))
	copy(out, keys)
	return out
}

// Default returns a fresh copy of the standard schedule.
func Default() Schedule {
	s := make(Schedule, len(defaults))
	for k, row := range defaults {
		s[k] = row
	}
	return s
}

// Rows returns the schedule's rows in canonical order, skipping unknown keys.
func (s Schedule) Rows() []Row {
	rows := make([]Row, 0, len(keys))
	for _, k := range keys {
		if row, ok := s[k]; ok {
			rows = append(rows, row)
		}
	}
	return rows
}

// Merge overlays raw on the default schedule. raw may be an object, a JSON
// string holding an object, or several layers of that. For every known key
// whose value is an object, its string or number fields replace the default
// ones; anything else keeps the default. Unusable input yields Default().
func Merge(raw []byte) Schedule {
	out := Default()

	var data map[string]json.RawMessage
	if err := jsonfix.Decode(raw, &data); err != nil {
		return out
	}

	for _, k := range keys {
		patch, ok := data[k]
		if !ok {
			continue
		}
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(patch, &fields); err != nil || fields == nil {
			continue
		}
		row := out[k]
		overlay(&row.Category, fields["category"])
		overlay(&row.Option1, fields["option1"])
		overlay(&row.Option2, fields["option2"])
		overlay(&row.Option3, fields["option3"])
		overlay(&row.Option4, fields["option4"])
		out[k] = row
	}
	return out
}

func overlay(dst *string, raw json.RawMessage) {
	if len(raw) == 0 || string(raw) == "null" {
		return
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		*dst = s
		return
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		*dst = n.String()
	}
}

// MarshalCanonical encodes the schedule as a JSON object containing every known key.
func (s Schedule) MarshalCanonical() (json.RawMessage, error) {
	full := make(map[string]Row, len(keys))
	for _, k := range keys {
		row, ok := s[k]
		if !ok {
			row = defaults[k]
		}
		full[k] = row
	}
	b, err := json.Marshal(full)
	if err != nil {
		return nil, fmt.Errorf("failed to encode schedule: %w", err)
	}
	return b, nil
}

const tableHeader = "Fee Category                                    Option 1              Option 2              Option 3              Option 4"

// Table renders the schedule as the fixed-width plain text table used in the agreement.
func (s Schedule) Table() string {
	lines := []string{tableHeader, strings.Repeat("-", 120)}
	for _, row := range s.Rows() {
		lines = append(lines, fmt.Sprintf("%-48s %-22s %-22s %-22s %s",
			row.Category, row.Option1, row.Option2, row.Option3, row.Option4))
	}
	return strings.Join(lines, "\n")
}
