// Package submission maps a completed application onto the AutoConvert
// wire format and delivers it. The payload shapes mirror the AutoConvert
// submission API exactly, PascalCase field names included.
package submission

// Payload is the top-level AutoConvert submission body.
type Payload struct {
	VehicleType     string        `json:"VehicleType"`
	CampaignCode1   string        `json:"CampaignCode1"`
	CampaignCode2   string        `json:"CampaignCode2,omitempty"`
	CampaignCode3   string        `json:"CampaignCode3,omitempty"`
	CampaignCode4   string        `json:"CampaignCode4,omitempty"`
	CampaignCode5   string        `json:"CampaignCode5,omitempty"`
	SourceReference string        `json:"SourceReference"`
	AmountToBorrow  string        `json:"AmountToBorrow"`
	Term            int           `json:"Term"`
	Products        []any         `json:"Products"`
	Consent         []any         `json:"Consent"`
	Affordability   struct{}      `json:"Affordability"`
	FinanceDetails  struct{}      `json:"FinanceDetails"`
	CustomFields    []CustomField `json:"CustomFields"`
	Vehicles        []any         `json:"Vehicles"`
	Applicants      []Applicant   `json:"Applicants"`
}

// CustomField carries one tracking parameter through to AutoConvert.
type CustomField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Applicant is the single applicant on the submission.
type Applicant struct {
	Title              string              `json:"Title"`
	Forename           string              `json:"Forename"`
	Surname            string              `json:"Surname"`
	Email              string              `json:"Email"`
	Mobile             string              `json:"Mobile"`
	DateOfBirth        string              `json:"DateOfBirth"`
	MaritalStatus      string              `json:"MaritalStatus"`
	DrivingLicenceType string              `json:"DrivingLicenceType"`
	Addresses          []ApplicantAddress  `json:"Addresses"`
	Employments        []ApplicantEmployed `json:"Employments"`
}

// ApplicantAddress is one address-history entry on the wire.
// TimeAtAddressMonths is a pointer: AutoConvert distinguishes "0 months"
// from "months not stated".
type ApplicantAddress struct {
	Building            string `json:"Building,omitempty"`
	BuildingNumber      string `json:"BuildingNumber"`
	SubBuildingName     string `json:"SubBuildingName"`
	Postcode            string `json:"Postcode"`
	Street              string `json:"Street"`
	Town                string `json:"Town"`
	County              string `json:"County"`
	TimeAtAddressYears  int    `json:"TimeAtAddressYears"`
	TimeAtAddressMonths *int   `json:"TimeAtAddressMonths"`
	ResidentialStatus   string `json:"ResidentialStatus"`
}

// ApplicantEmployed is the employment record. Durations and income travel
// as strings on this API.
type ApplicantEmployed struct {
	JobTitle               string `json:"JobTitle"`
	CompanyName            string `json:"CompanyName"`
	EmploymentStatus       string `json:"EmploymentStatus"`
	TimeInEmploymentYears  string `json:"TimeInEmploymentYears"`
	TimeInEmploymentMonths string `json:"TimeInEmploymentMonths"`
	MonthlyIncome          string `json:"MonthlyIncome"`
}
