package models

import "strings"

// FormData is the partner wizard payload, keyed the way the browser sends it.
type FormData struct {
	PartnerFullName string `json:"partnerFullName"`
	PartnerEmail    string `json:"partnerEmail"`
	PartnerPhone    string `json:"partnerPhone"`
	PartnerAddress  string `json:"partnerAddress"`
	PartnerCity     string `json:"partnerCity"`
	PartnerState    string `json:"partnerState"`
	PartnerZip      string `json:"partnerZip"`
	DateOfBirth     string `json:"dateOfBirth"`

	BankAccountNumber string `json:"bankAccountNumber"`
	BankRoutingNumber string `json:"bankRoutingNumber"`

	BusinessName    string `json:"businessName"`
	PrincipalName   string `json:"principalName"`
	BusinessAddress string `json:"businessAddress"`
	BusinessCity    string `json:"businessCity"`
	BusinessState   string `json:"businessState"`
	BusinessZip     string `json:"businessZip"`
	BusinessPhone   string `json:"businessPhone"`
	FederalTaxID    string `json:"federalTaxId"`
	BusinessType    string `json:"businessType"`
	WebsiteURL      string `json:"websiteUrl"`

	W9Name                string `json:"w9Name"`
	W9BusinessName        string `json:"w9BusinessName"`
	W9TaxClassification   string `json:"w9TaxClassification"`
	W9LLCClassification   string `json:"w9LlcClassification"`
	W9OtherClassification string `json:"w9OtherClassification"`
	W9ExemptPayeeCode     string `json:"w9ExemptPayeeCode"`
	W9FatcaCode           string `json:"w9FatcaCode"`
	W9Address             string `json:"w9Address"`
	W9CityStateZip        string `json:"w9CityStateZip"`
	W9TINType             string `json:"w9TINType"`
	W9TIN                 string `json:"w9TIN"`

	DriversLicenseURL string `json:"driversLicenseUrl"`
	VoidedCheckURL    string `json:"voidedCheckUrl"`

	CodeOfConductSignature string `json:"codeOfConductSignature"`
	CodeOfConductDate      string `json:"codeOfConductDate"`
	SignatureFullName      string `json:"signatureFullName"`
	SignatureDate          string `json:"signatureDate"`
	AgreementText          string `json:"agreementText"`
}

// Apply copies the submitted form onto the application row.
func (f FormData) Apply(a *Application) {
	a.PartnerFullName = f.PartnerFullName
	a.PartnerEmail = f.PartnerEmail
	a.PartnerPhone = f.PartnerPhone
	a.PartnerAddress = f.PartnerAddress
	a.PartnerCity = f.PartnerCity
	a.PartnerState = f.PartnerState
	a.PartnerZip = f.PartnerZip
	a.DateOfBirth = f.DateOfBirth
	a.BankAccountNumber = f.BankAccountNumber
	a.BankRoutingNumber = f.BankRoutingNumber
	a.BusinessName = f.BusinessName
	a.PrincipalName = f.PrincipalName
	a.BusinessAddress = f.BusinessAddress
	a.BusinessCity = f.BusinessCity
	a.BusinessState = f.BusinessState
	a.BusinessZip = f.BusinessZip
	a.BusinessPhone = f.BusinessPhone
	a.FederalTaxID = f.FederalTaxID
	a.BusinessType = f.BusinessType
	a.WebsiteURL = f.WebsiteURL
	a.W9Name = f.W9Name
	a.W9BusinessName = f.W9BusinessName
	a.W9TaxClassification = f.W9TaxClassification
	a.W9LLCClassification = f.W9LLCClassification
	a.W9OtherClassification = f.W9OtherClassification
	a.W9ExemptPayeeCode = f.W9ExemptPayeeCode
	a.W9FatcaCode = f.W9FatcaCode
	a.W9Address = f.W9Address
	a.W9CityStateZip = f.W9CityStateZip
	a.W9TINType = f.W9TINType
	a.W9TIN = f.W9TIN
	a.DriversLicenseURL = f.DriversLicenseURL
	a.VoidedCheckURL = f.VoidedCheckURL
	a.CodeOfConductSignature = f.CodeOfConductSignature
	a.CodeOfConductDate = f.CodeOfConductDate
	a.SignatureFullName = f.SignatureFullName
	a.SignatureDate = f.SignatureDate
	a.AgreementText = f.AgreementText
}

// MissingRequired returns the JSON names of required wizard fields left blank.
func (f FormData) MissingRequired() []string {
	required := []struct {
		name  string
		value string
	}{
		{"partnerFullName", f.PartnerFullName},
		{"partnerEmail", f.PartnerEmail},
		{"businessName", f.BusinessName},
		{"federalTaxId", f.FederalTaxID},
		{"dateOfBirth", f.DateOfBirth},
		{"bankAccountNumber", f.BankAccountNumber},
		{"bankRoutingNumber", f.BankRoutingNumber},
		{"w9Name", f.W9Name},
		{"w9TaxClassification", f.W9TaxClassification},
		{"w9Address", f.W9Address},
		{"w9CityStateZip", f.W9CityStateZip},
		{"w9TIN", f.W9TIN},
		{"codeOfConductSignature", f.CodeOfConductSignature},
		{"codeOfConductDate", f.CodeOfConductDate},
		{"signatureFullName", f.SignatureFullName},
		{"signatureDate", f.SignatureDate},
	}

	var missing []string
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			missing = append(missing, r.name)
		}
	}
	if f.W9TaxClassification == "llc" && strings.TrimSpace(f.W9LLCClassification) == "" {
		missing = append(missing, "w9LlcClassification")
	}
	return missing
}
