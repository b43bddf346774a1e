package submission

import (
	"strconv"
	"strings"

	"leadgate/internal/wizard/models"
	dErrors "leadgate/pkg/domainerrors"
)

// SourceReference identifies this lead source to AutoConvert.
const SourceReference = "Leadly applications"

// Term is the finance term in months quoted on every submission.
const Term = 60

// campaignCodeMax is AutoConvert's campaign code length limit.
const campaignCodeMax = 32

// Each vocabulary maps the wizard's kebab-case values onto AutoConvert's
// display vocabulary. Unmapped values pass through unchanged so a vocabulary
// drift upstream degrades to a readable value instead of an error.
var vehicleTypes = map[models.VehicleType]string{
	models.VehicleCar:  "Car",
	models.VehicleVan:  "Van",
	models.VehicleBike: "Motorcycle",
}

var maritalStatuses = map[models.MaritalStatus]string{
	models.MaritalMarried:          "Married",
	models.MaritalSingle:           "Single",
	models.MaritalCohabiting:       "Living Together",
	models.MaritalDivorced:         "Divorced",
	models.MaritalSeparated:        "Separated",
	models.MaritalWidowed:          "Widowed",
	models.MaritalCivilPartnership: "Civil Partnership",
}

var licenceTypes = map[models.LicenceType]string{
	models.LicenceProvisionalUK: "Provisional UK",
	models.LicenceEU:            "EU",
	models.LicenceInternational: "International",
	models.LicenceNone:          "None",
}

var housingSituations = map[models.HousingSituation]string{
	models.HousingPrivateTenant:     "Tenant - Private",
	models.HousingHomeOwner:         "Homeowner",
	models.HousingCouncilTenant:     "Tenant - Council",
	models.HousingLivingWithParents: "Living With Family",
}

var employmentStatuses = map[models.EmploymentStatus]string{
	models.EmploymentFullTime:     "Full-Time Employment",
	models.EmploymentPartTime:     "Part-Time Employment",
	models.EmploymentSelfEmployed: "Self-Employed",
	models.EmploymentRetired:      "Retired",
	models.EmploymentOther:        "Other",
}

func mapVehicleType(v models.VehicleType) string {
	if s, ok := vehicleTypes[v]; ok {
		return s
	}
	return string(v)
}

func mapMaritalStatus(v models.MaritalStatus) string {
	if s, ok := maritalStatuses[v]; ok {
		return s
	}
	return string(v)
}

func mapLicenceType(hasFull *bool, v models.LicenceType) string {
	if hasFull == nil {
		return "None"
	}
	if *hasFull {
		return "Full UK"
	}
	if s, ok := licenceTypes[v]; ok {
		return s
	}
	return "None"
}

func mapHousingSituation(v models.HousingSituation) string {
	if s, ok := housingSituations[v]; ok {
		return s
	}
	return string(v)
}

func mapEmploymentStatus(v models.EmploymentStatus) string {
	if s, ok := employmentStatuses[v]; ok {
		return s
	}
	return string(v)
}

// MissingFieldsError lists every required field that was empty at mapping
// time; it collects all of them in one pass rather than failing on the first.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}

// Mapper turns wizard state into an AutoConvert payload.
type Mapper struct {
	// PlaceholderFallback substitutes marker records when the address or
	// employment sections could not be built, instead of rejecting the
	// submission.
	PlaceholderFallback bool
}

// Map builds the submission payload. A *MissingFieldsError wrapped in a
// validation error reports incomplete state; with PlaceholderFallback off an
// empty address or employment section is a validation error too.
func (m Mapper) Map(st *models.State, utm models.UTMParams) (*Payload, error) {
	missing := requiredMissing(st)
	if len(missing) > 0 {
		return nil, dErrors.Wrap(&MissingFieldsError{Fields: missing},
			dErrors.CodeValidation, "application is incomplete")
	}

	addresses := buildAddresses(st)
	employments := buildEmployments(st)

	if len(addresses) == 0 {
		if !m.PlaceholderFallback {
			return nil, dErrors.New(dErrors.CodeValidation, "no usable address on the application")
		}
		addresses = append(addresses, placeholderAddress())
	}
	if len(employments) == 0 {
		if !m.PlaceholderFallback {
			return nil, dErrors.New(dErrors.CodeValidation, "no usable employment on the application")
		}
		employments = append(employments, placeholderEmployment())
	}

	p := &Payload{
		VehicleType:     mapVehicleType(st.VehicleType),
		CampaignCode1:   campaignCode(utm["utm_source"], "default_source"),
		CampaignCode2:   campaignCode(utm["utm_medium"], "default_medium"),
		CampaignCode3:   campaignCode(utm["utm_campaign"], "default_campaign"),
		CampaignCode4:   campaignCode(utm["utm_term"], "default_term"),
		CampaignCode5:   campaignCode(utm["utm_content"], "default_content"),
		SourceReference: SourceReference,
		AmountToBorrow:  st.LoanAmount,
		Term:            Term,
		Products:        []any{},
		Consent:         []any{},
		CustomFields:    customFields(utm),
		Vehicles:        []any{},
		Applicants: []Applicant{{
			Title:              st.Title,
			Forename:           st.FirstName,
			Surname:            st.LastName,
			Email:              st.Email,
			Mobile:             st.PhoneNumber,
			DateOfBirth:        st.DateOfBirth,
			MaritalStatus:      mapMaritalStatus(st.MaritalStatus),
			DrivingLicenceType: mapLicenceType(st.HasFullLicence, st.LicenceType),
			Addresses:          addresses,
			Employments:        employments,
		}},
	}
	return p, nil
}

// requiredMissing reports empty required fields by their state names.
func requiredMissing(st *models.State) []string {
	var missing []string
	for _, f := range []struct {
		name  string
		value string
	}{
		{"vehicleType", string(st.VehicleType)},
		{"dateOfBirth", st.DateOfBirth},
		{"maritalStatus", string(st.MaritalStatus)},
		{"title", st.Title},
		{"firstName", st.FirstName},
		{"lastName", st.LastName},
		{"email", st.Email},
		{"phoneNumber", st.PhoneNumber},
		{"loanAmount", st.LoanAmount},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// buildAddresses assembles the history list, current address first. The
// current address requires the structured lookup result; previous addresses
// are free text split on ", " with the last part taken as the postcode and
// the one before it as the town.
func buildAddresses(st *models.State) []ApplicantAddress {
	var addresses []ApplicantAddress

	full := st.FullAddress
	if full.Line1 != "" && full.City != "" && full.Postcode != "" {
		addresses = append(addresses, ApplicantAddress{
			Building:            full.Line1,
			SubBuildingName:     full.Line2,
			Postcode:            full.Postcode,
			Street:              full.Line1,
			Town:                full.City,
			TimeAtAddressYears:  atoiOrZero(st.AddressDurationYears),
			TimeAtAddressMonths: optionalMonths(st.AddressDurationMonths),
			ResidentialStatus:   mapHousingSituation(st.HousingSituation),
		})
	}

	for _, prev := range st.PreviousAddresses {
		if prev.Address == "" {
			continue
		}
		parts := strings.Split(prev.Address, ", ")
		building := parts[0]
		postcode := parts[len(parts)-1]
		town := ""
		if len(parts) > 1 {
			town = parts[len(parts)-2]
		}
		addresses = append(addresses, ApplicantAddress{
			Building:            building,
			Postcode:            postcode,
			Street:              building,
			Town:                town,
			TimeAtAddressYears:  atoiOrZero(prev.DurationYears),
			TimeAtAddressMonths: optionalMonths(prev.DurationMonths),
			ResidentialStatus:   mapHousingSituation(prev.HousingSituation),
		})
	}
	return addresses
}

func buildEmployments(st *models.State) []ApplicantEmployed {
	if st.EmploymentStatus == "" || st.JobTitle == "" || st.CompanyName == "" {
		return nil
	}
	return []ApplicantEmployed{{
		JobTitle:               st.JobTitle,
		CompanyName:            st.CompanyName,
		EmploymentStatus:       mapEmploymentStatus(st.EmploymentStatus),
		TimeInEmploymentYears:  orZero(st.EmploymentDurationYears),
		TimeInEmploymentMonths: orZero(st.EmploymentDurationMonths),
		MonthlyIncome:          orZero(st.MonthlyIncome),
	}}
}

// customFields emits one entry per present tracking parameter. Absent
// parameters are omitted entirely rather than sent empty. gclid is tracked
// on the session but has no custom-field slot on this API.
func customFields(utm models.UTMParams) []CustomField {
	fields := []CustomField{}
	for _, name := range []string{
		"utm_source", "utm_medium", "utm_campaign", "utm_term", "utm_content", "fbclid",
	} {
		if v := utm[name]; v != "" {
			fields = append(fields, CustomField{Name: name, Value: v})
		}
	}
	return fields
}

func campaignCode(v, fallback string) string {
	if v == "" {
		return fallback
	}
	if len(v) > campaignCodeMax {
		return v[:campaignCodeMax]
	}
	return v
}

func placeholderAddress() ApplicantAddress {
	months := 0
	return ApplicantAddress{
		Building:            "Test Building",
		Postcode:            "BT11BT",
		Street:              "Test Street",
		Town:                "Test Town",
		County:              "Test County",
		TimeAtAddressYears:  1,
		TimeAtAddressMonths: &months,
		ResidentialStatus:   "Homeowner",
	}
}

func placeholderEmployment() ApplicantEmployed {
	return ApplicantEmployed{
		JobTitle:               "Test Job",
		CompanyName:            "Test Company",
		EmploymentStatus:       "Full-Time Employment",
		TimeInEmploymentYears:  "1",
		TimeInEmploymentMonths: "0",
		MonthlyIncome:          "2000",
	}
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func orZero(s string) string {
	if s == "" {
		return "0"
	}
	return s
}

func optionalMonths(s string) *int {
	if s == "" {
		return nil
	}
	n := atoiOrZero(s)
	return &n
}
