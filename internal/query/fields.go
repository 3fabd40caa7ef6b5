package query

import (
	"github.com/01moynul/lumino-partner-portal/internal/jsonfix"
	"github.com/01moynul/lumino-partner-portal/internal/models"
)

type app = models.Application

// textFilter matches when any of the field's values contains the search value.
type textFilter struct {
	values        func(a *app) []string
	caseSensitive bool
	exact         bool
}

func one(get func(a *app) string) func(a *app) []string {
	return func(a *app) []string { return []string{get(a)} }
}

var (
	partnerName   = one(func(a *app) string { return a.PartnerFullName })
	partnerEmail  = one(func(a *app) string { return a.PartnerEmail })
	partnerPhone  = one(func(a *app) string { return a.PartnerPhone })
	businessName  = one(func(a *app) string { return a.BusinessName })
	principalName = one(func(a *app) string { return a.PrincipalName })
	federalTaxID  = one(func(a *app) string { return a.FederalTaxID })
	websiteURL    = one(func(a *app) string { return a.WebsiteURL })
	w9Business    = one(func(a *app) string { return a.W9BusinessName })
	w9Class       = one(func(a *app) string { return a.W9TaxClassification })
	w9TIN         = one(func(a *app) string { return a.W9TIN })
	bankAccount   = one(func(a *app) string { return a.BankAccountNumber })
	routingNumber = one(func(a *app) string { return a.BankRoutingNumber })
)

var textFilters = map[string]textFilter{
	"name":               {values: partnerName},
	"partner_name":       {values: partnerName},
	"email":              {values: partnerEmail},
	"partner_email":      {values: partnerEmail},
	"phone":              {values: partnerPhone},
	"partner_phone":      {values: partnerPhone},
	"business":           {values: businessName},
	"business_name":      {values: businessName},
	"business_type":      {values: one(func(a *app) string { return a.BusinessType })},
	"principal":          {values: principalName},
	"principal_name":     {values: principalName},
	"status":             {values: one(func(a *app) string { return a.Status })},
	"agent":              {values: one(func(a *app) string { return a.AgentOrDefault() })},
	"id":                 {values: one(func(a *app) string { return a.ID }), exact: true},
	"federal_tax_id":     {values: federalTaxID},
	"tax_id":             {values: federalTaxID},
	"website":            {values: websiteURL},
	"website_url":        {values: websiteURL},
	"w9_name":            {values: one(func(a *app) string { return a.W9Name })},
	"w9_business":        {values: w9Business},
	"w9_business_name":   {values: w9Business},
	"w9_classification":  {values: w9Class},
	"tax_classification": {values: w9Class},
	"w9_tin":             {values: w9TIN},
	"tin":                {values: w9TIN},
	"signature_name":     {values: one(func(a *app) string { return a.SignatureFullName })},
	"bank_account":       {values: bankAccount, caseSensitive: true},
	"account_number":     {values: bankAccount, caseSensitive: true},
	"routing":            {values: routingNumber},
	"routing_number":     {values: routingNumber},
	"address": {values: func(a *app) []string {
		return []string{
			a.PartnerAddress,
			a.BusinessAddress,
			a.W9Address,
			a.PartnerCity + " " + a.PartnerState,
			a.BusinessCity + " " + a.BusinessState,
		}
	}},
	"city":  {values: func(a *app) []string { return []string{a.PartnerCity, a.BusinessCity} }},
	"state": {values: func(a *app) []string { return []string{a.PartnerState, a.BusinessState} }},
	"zip":   {values: func(a *app) []string { return []string{a.PartnerZip, a.BusinessZip} }},
}

func createdAt(a *app) string {
	if a.CreatedAt.IsZero() {
		return ""
	}
	return a.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00")
}

var dateFields = map[string]func(a *app) string{
	"dob":            func(a *app) string { return a.DateOfBirth },
	"date_of_birth":  func(a *app) string { return a.DateOfBirth },
	"created":        createdAt,
	"submitted":      createdAt,
	"signature_date": func(a *app) string { return a.SignatureDate },
	"conduct_date":   func(a *app) string { return a.CodeOfConductDate },
}

func hasCustomSchedule(a *app) bool { return jsonfix.IsPresent(a.CustomScheduleA) }
func hasW9(a *app) bool             { return a.W9Name != "" || a.W9TIN != "" }
func hasBankInfo(a *app) bool       { return a.BankAccountNumber != "" && a.BankRoutingNumber != "" }

var hasFlags = map[string]func(a *app) bool{
	"custom_schedule": hasCustomSchedule,
	"drivers_license": func(a *app) bool { return a.DriversLicenseURL != "" },
	"voided_check":    func(a *app) bool { return a.VoidedCheckURL != "" },
	"w9":              hasW9,
	"signature":       func(a *app) bool { return a.CodeOfConductSignature != "" },
	"bank_info":       hasBankInfo,
	"dob":             func(a *app) bool { return a.DateOfBirth != "" },
	"principal":       func(a *app) bool { return a.PrincipalName != "" },
	"website":         func(a *app) bool { return a.WebsiteURL != "" },
}

var missingComposite = map[string]func(a *app) bool{
	"custom_schedule": func(a *app) bool { return !hasCustomSchedule(a) },
	"agent":           func(a *app) bool { return a.Agent == "" || a.Agent == models.DefaultAgent },
	"bank_info":       func(a *app) bool { return !hasBankInfo(a) },
	"w9":              func(a *app) bool { return !hasW9(a) },
}

var missingColumns = map[string]string{
	"name":            "partner_full_name",
	"email":           "partner_email",
	"phone":           "partner_phone",
	"business":        "business_name",
	"principal":       "principal_name",
	"address":         "partner_address",
	"city":            "partner_city",
	"state":           "partner_state",
	"zip":             "partner_zip",
	"tax_id":          "federal_tax_id",
	"website":         "website_url",
	"agent":           "agent",
	"signature":       "code_of_conduct_signature",
	"drivers_license": "drivers_license_url",
	"voided_check":    "voided_check_url",
	"bank_account":    "bank_account_number",
	"routing":         "bank_routing_number",
	"dob":             "date_of_birth",
	"w9_name":         "w9_name",
	"w9_tin":          "w9_tin",
}

func generalValues(a *app) []string {
	return []string{
		a.PartnerFullName,
		a.PartnerEmail,
		a.BusinessName,
		a.PrincipalName,
		a.AgentOrDefault(),
		a.Status,
		a.BusinessType,
		a.PartnerCity,
		a.PartnerState,
		a.BusinessCity,
		a.BusinessState,
	}
}
