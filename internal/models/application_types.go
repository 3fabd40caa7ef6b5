package models

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/01moynul/lumino-partner-portal/internal/jsonfix"
)

// Application statuses.
const (
	StatusInvited   = "invited"
	StatusSubmitted = "submitted"
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
)

// DefaultAgent is reported when an application has no referring agent.
const DefaultAgent = "direct"

// Application is one row of partner_applications. It starts life as an invite
// and is filled in when the partner submits the wizard.
type Application struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Status    string    `json:"status"`
	Agent     string    `json:"agent"`

	// --- Partner ---
	PartnerFullName string `json:"partner_full_name"`
	PartnerEmail    string `json:"partner_email"`
	PartnerPhone    string `json:"partner_phone"`
	PartnerAddress  string `json:"partner_address"`
	PartnerCity     string `json:"partner_city"`
	PartnerState    string `json:"partner_state"`
	PartnerZip      string `json:"partner_zip"`
	DateOfBirth     string `json:"date_of_birth"`

	// --- Bank ---
	BankAccountNumber string `json:"bank_account_number"`
	BankRoutingNumber string `json:"bank_routing_number"`

	// --- Business ---
	BusinessName    string `json:"business_name"`
	PrincipalName   string `json:"principal_name"`
	BusinessAddress string `json:"business_address"`
	BusinessCity    string `json:"business_city"`
	BusinessState   string `json:"business_state"`
	BusinessZip     string `json:"business_zip"`
	BusinessPhone   string `json:"business_phone"`
	FederalTaxID    string `json:"federal_tax_id"`
	BusinessType    string `json:"business_type"`
	WebsiteURL      string `json:"website_url"`

	// --- W-9 ---
	W9Name                string `json:"w9_name"`
	W9BusinessName        string `json:"w9_business_name"`
	W9TaxClassification   string `json:"w9_tax_classification"`
	W9LLCClassification   string `json:"w9_llc_classification"`
	W9OtherClassification string `json:"w9_other_classification"`
	W9ExemptPayeeCode     string `json:"w9_exempt_payee_code"`
	W9FatcaCode           string `json:"w9_fatca_code"`
	W9Address             string `json:"w9_address"`
	W9CityStateZip        string `json:"w9_city_state_zip"`
	W9TINType             string `json:"w9_tin_type"`
	W9TIN                 string `json:"w9_tin"`

	// --- Uploads ---
	DriversLicenseURL string `json:"drivers_license_url"`
	VoidedCheckURL    string `json:"voided_check_url"`

	// --- Agreement ---
	CodeOfConductSignature string `json:"code_of_conduct_signature"`
	CodeOfConductDate      string `json:"code_of_conduct_date"`
	SignatureFullName      string `json:"signature_full_name"`
	SignatureDate          string `json:"signature_date"`
	AgreementText          string `json:"agreement_text"`

	// Overrides stay exactly as stored; they may be double-encoded.
	CustomScheduleA     json.RawMessage `json:"custom_schedule_a"`
	CustomMessage       json.RawMessage `json:"custom_message"`
	CustomCodeOfConduct json.RawMessage `json:"custom_code_of_conduct"`
	CustomTerms         json.RawMessage `json:"custom_terms"`
}

// AgentOrDefault returns the agent, or DefaultAgent when none is set.
func (a *Application) AgentOrDefault() string {
	if strings.TrimSpace(a.Agent) == "" {
		return DefaultAgent
	}
	return a.Agent
}

// StringField is a text column of partner_applications bound to its struct field.
type StringField struct {
	Column string
	Header string
	Ptr    func(a *Application) *string
}

var stringFields = []StringField{
	{"status", "Status", func(a *Application) *string { return &a.Status }},
	{"agent", "Agent", func(a *Application) *string { return &a.Agent }},
	{"partner_full_name", "Partner Name", func(a *Application) *string { return &a.PartnerFullName }},
	{"partner_email", "Partner Email", func(a *Application) *string { return &a.PartnerEmail }},
	{"partner_phone", "Partner Phone", func(a *Application) *string { return &a.PartnerPhone }},
	{"partner_address", "Partner Address", func(a *Application) *string { return &a.PartnerAddress }},
	{"partner_city", "Partner City", func(a *Application) *string { return &a.PartnerCity }},
	{"partner_state", "Partner State", func(a *Application) *string { return &a.PartnerState }},
	{"partner_zip", "Partner ZIP", func(a *Application) *string { return &a.PartnerZip }},
	{"date_of_birth", "Date of Birth", func(a *Application) *string { return &a.DateOfBirth }},
	{"bank_account_number", "Bank Account", func(a *Application) *string { return &a.BankAccountNumber }},
	{"bank_routing_number", "Routing Number", func(a *Application) *string { return &a.BankRoutingNumber }},
	{"business_name", "Business Name", func(a *Application) *string { return &a.BusinessName }},
	{"principal_name", "Principal Name", func(a *Application) *string { return &a.PrincipalName }},
	{"business_address", "Business Address", func(a *Application) *string { return &a.BusinessAddress }},
	{"business_city", "Business City", func(a *Application) *string { return &a.BusinessCity }},
	{"business_state", "Business State", func(a *Application) *string { return &a.BusinessState }},
	{"business_zip", "Business ZIP", func(a *Application) *string { return &a.BusinessZip }},
	{"business_phone", "Business Phone", func(a *Application) *string { return &a.BusinessPhone }},
	{"federal_tax_id", "Federal Tax ID", func(a *Application) *string { return &a.FederalTaxID }},
	{"business_type", "Business Type", func(a *Application) *string { return &a.BusinessType }},
	{"website_url", "Website", func(a *Application) *string { return &a.WebsiteURL }},
	{"w9_name", "W-9 Name", func(a *Application) *string { return &a.W9Name }},
	{"w9_business_name", "W-9 Business Name", func(a *Application) *string { return &a.W9BusinessName }},
	{"w9_tax_classification", "W-9 Tax Classification", func(a *Application) *string { return &a.W9TaxClassification }},
	{"w9_llc_classification", "W-9 LLC Classification", func(a *Application) *string { return &a.W9LLCClassification }},
	{"w9_other_classification", "W-9 Other Classification", func(a *Application) *string { return &a.W9OtherClassification }},
	{"w9_exempt_payee_code", "W-9 Exempt Payee Code", func(a *Application) *string { return &a.W9ExemptPayeeCode }},
	{"w9_fatca_code", "W-9 FATCA Code", func(a *Application) *string { return &a.W9FatcaCode }},
	{"w9_address", "W-9 Address", func(a *Application) *string { return &a.W9Address }},
	{"w9_city_state_zip", "W-9 City/State/ZIP", func(a *Application) *string { return &a.W9CityStateZip }},
	{"w9_tin_type", "W-9 TIN Type", func(a *Application) *string { return &a.W9TINType }},
	{"w9_tin", "W-9 TIN", func(a *Application) *string { return &a.W9TIN }},
	{"drivers_license_url", "Driver's License", func(a *Application) *string { return &a.DriversLicenseURL }},
	{"voided_check_url", "Voided Check", func(a *Application) *string { return &a.VoidedCheckURL }},
	{"code_of_conduct_signature", "Code of Conduct Signature", func(a *Application) *string { return &a.CodeOfConductSignature }},
	{"code_of_conduct_date", "Code of Conduct Date", func(a *Application) *string { return &a.CodeOfConductDate }},
	{"signature_full_name", "Signature Name", func(a *Application) *string { return &a.SignatureFullName }},
	{"signature_date", "Signature Date", func(a *Application) *string { return &a.SignatureDate }},
	{"agreement_text", "Agreement Text", func(a *Application) *string { return &a.AgreementText }},
}

// JSONField is an override column holding raw JSON.
type JSONField struct {
	Column string
	Ptr    func(a *Application) *json.RawMessage
}

var jsonFields = []JSONField{
	{"custom_schedule_a", func(a *Application) *json.RawMessage { return &a.CustomScheduleA }},
	{"custom_message", func(a *Application) *json.RawMessage { return &a.CustomMessage }},
	{"custom_code_of_conduct", func(a *Application) *json.RawMessage { return &a.CustomCodeOfConduct }},
	{"custom_terms", func(a *Application) *json.RawMessage { return &a.CustomTerms }},
}

// StringFields lists the text columns in table order.
func StringFields() []StringField {
	out := make([]StringField, len(stringFields))
	copy(out, stringFields)
	return out
}

// JSONFields lists the override columns in table order.
func JSONFields() []JSONField {
	out := make([]JSONField, len(jsonFields))
	copy(out, jsonFields)
	return out
}

// Field returns the display value of the named column. Override columns
// render as their stored JSON text.
func (a *Application) Field(column string) (string, bool) {
	switch column {
	case "id":
		return a.ID, true
	case "created_at":
		return a.CreatedAt.UTC().Format(time.RFC3339), true
	case "updated_at":
		return a.UpdatedAt.UTC().Format(time.RFC3339), true
	}
	for _, f := range stringFields {
		if f.Column == column {
			return *f.Ptr(a), true
		}
	}
	for _, f := range jsonFields {
		if f.Column == column {
			raw := *f.Ptr(a)
			if !jsonfix.IsPresent(raw) {
				return "", true
			}
			return string(raw), true
		}
	}
	return "", false
}

// FormData converts the stored row into the wizard's form shape.
func (a *Application) FormData() FormData {
	return FormData{
		PartnerFullName:        a.PartnerFullName,
		PartnerEmail:           a.PartnerEmail,
		PartnerPhone:           a.PartnerPhone,
		PartnerAddress:         a.PartnerAddress,
		PartnerCity:            a.PartnerCity,
		PartnerState:           a.PartnerState,
		PartnerZip:             a.PartnerZip,
		DateOfBirth:            a.DateOfBirth,
		BankAccountNumber:      a.BankAccountNumber,
		BankRoutingNumber:      a.BankRoutingNumber,
		BusinessName:           a.BusinessName,
		PrincipalName:          a.PrincipalName,
		BusinessAddress:        a.BusinessAddress,
		BusinessCity:           a.BusinessCity,
		BusinessState:          a.BusinessState,
		BusinessZip:            a.BusinessZip,
		BusinessPhone:          a.BusinessPhone,
		FederalTaxID:           a.FederalTaxID,
		BusinessType:           a.BusinessType,
		WebsiteURL:             a.WebsiteURL,
		W9Name:                 a.W9Name,
		W9BusinessName:         a.W9BusinessName,
		W9TaxClassification:    a.W9TaxClassification,
		W9LLCClassification:    a.W9LLCClassification,
		W9OtherClassification:  a.W9OtherClassification,
		W9ExemptPayeeCode:      a.W9ExemptPayeeCode,
		W9FatcaCode:            a.W9FatcaCode,
		W9Address:              a.W9Address,
		W9CityStateZip:         a.W9CityStateZip,
		W9TINType:              a.W9TINType,
		W9TIN:                  a.W9TIN,
		DriversLicenseURL:      a.DriversLicenseURL,
		VoidedCheckURL:         a.VoidedCheckURL,
		CodeOfConductSignature: a.CodeOfConductSignature,
		CodeOfConductDate:      a.CodeOfConductDate,
		SignatureFullName:      a.SignatureFullName,
		SignatureDate:          a.SignatureDate,
		AgreementText:          a.AgreementText,
	}
}
