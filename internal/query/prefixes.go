package query

// Prefix documents one search key for console autocomplete.
type Prefix struct {
	Prefix      string `json:"prefix"`
	Description string `json:"description"`
}

var prefixes = []Prefix{
	{"name:", "Partner Full Name"},
	{"partner_name:", "Partner Full Name (alias)"},
	{"email:", "Partner Email"},
	{"partner_email:", "Partner Email (alias)"},
	{"phone:", "Partner Phone"},
	{"partner_phone:", "Partner Phone (alias)"},
	{"business:", "Business Name"},
	{"business_name:", "Business Name (alias)"},
	{"business_type:", "Business Type (LLC, Corp, etc.)"},
	{"principal:", "Principal Name"},
	{"principal_name:", "Principal Name (alias)"},
	{"address:", "Any address (Partner, Business, W9)"},
	{"city:", "Any city (Partner or Business)"},
	{"state:", "Any state (Partner or Business)"},
	{"zip:", "Any ZIP code (Partner or Business)"},
	{"status:", "Application status"},
	{"agent:", "Account Manager/Agent name"},
	{"id:", "Application UUID"},
	{"federal_tax_id:", "Federal Tax ID"},
	{"tax_id:", "Federal Tax ID (alias)"},
	{"website:", "Website URL"},
	{"website_url:", "Website URL (alias)"},
	{"w9_name:", "W9 Form Name"},
	{"w9_business:", "W9 Business Name"},
	{"w9_business_name:", "W9 Business Name (alias)"},
	{"w9_classification:", "W9 Tax Classification"},
	{"tax_classification:", "W9 Tax Classification (alias)"},
	{"w9_tin:", "W9 TIN Number"},
	{"tin:", "W9 TIN Number (alias)"},
	{"signature_name:", "Signature Full Name"},
	{"bank_account:", "Bank Account Number"},
	{"account_number:", "Bank Account Number (alias)"},
	{"routing:", "Bank Routing Number"},
	{"routing_number:", "Bank Routing Number (alias)"},
	{"dob:", "Date of Birth (YYYY-MM-DD, >date, <date)"},
	{"date_of_birth:", "Date of Birth (alias)"},
	{"created:", "Application date (today, last7days, >date)"},
	{"submitted:", "Application date (alias)"},
	{"signature_date:", "Signature Date"},
	{"conduct_date:", "Code of Conduct Date"},
	{"custom:", "Custom Schedule A (true/false or search content)"},
	{"schedule_a:", "Custom Schedule A (alias)"},
	{"has:", "Has field (custom_schedule, drivers_license, voided_check, w9, signature, bank_info, dob, principal, website)"},
	{"missing:", "Missing field (name, email, phone, business, principal, address, tax_id, website, agent, signature, drivers_license, voided_check, bank_info, w9, custom_schedule)"},
}

// Prefixes returns the searchable keys with their descriptions.
func Prefixes() []Prefix {
	out := make([]Prefix, len(prefixes))
	copy(out, prefixes)
	return out
}

// Suggest returns the prefixes that start with the last word of input.
func Suggest(input string) []Prefix {
	word := input
	for i := len(input) - 1; i >= 0; i-- {
		if input[i] == ' ' {
			word = input[i+1:]
			break
		}
	}
	if len(word) > 0 && word[0] == '!' {
		word = word[1:]
	}
	if word == "" {
		return nil
	}

	var out []Prefix
	for _, p := range prefixes {
		if len(p.Prefix) >= len(word) && p.Prefix[:len(word)] == word {
			out = append(out, p)
		}
	}
	return out
}
