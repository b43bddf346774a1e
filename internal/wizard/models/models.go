// Package models defines the wizard's single mutable aggregate and its
// closed enumerations. Field names and JSON tags mirror the step screens'
// contract; empty string is the unset sentinel throughout.
package models

import (
	"time"

	dErrors "leadgate/pkg/domainerrors"
)

type VehicleType string

const (
	VehicleCar  VehicleType = "car"
	VehicleVan  VehicleType = "van"
	VehicleBike VehicleType = "bike"
)

type LicenceType string

const (
	LicenceNone          LicenceType = "none"
	LicenceProvisionalUK LicenceType = "provisional-uk"
	LicenceEU            LicenceType = "eu"
	LicenceInternational LicenceType = "international"
)

type MaritalStatus string

const (
	MaritalMarried          MaritalStatus = "married"
	MaritalSingle           MaritalStatus = "single"
	MaritalCohabiting       MaritalStatus = "cohabiting"
	MaritalDivorced         MaritalStatus = "divorced"
	MaritalSeparated        MaritalStatus = "separated"
	MaritalWidowed          MaritalStatus = "widowed"
	MaritalCivilPartnership MaritalStatus = "civil-partnership"
)

type HousingSituation string

const (
	HousingPrivateTenant     HousingSituation = "private-tenant"
	HousingHomeOwner         HousingSituation = "home-owner"
	HousingCouncilTenant     HousingSituation = "council-tenant"
	HousingLivingWithParents HousingSituation = "living-with-parents"
)

type EmploymentStatus string

const (
	EmploymentFullTime      EmploymentStatus = "full-time"
	EmploymentPartTime      EmploymentStatus = "part-time"
	EmploymentSelfEmployed  EmploymentStatus = "self-employed"
	EmploymentRetired       EmploymentStatus = "retired"
	EmploymentEducation     EmploymentStatus = "education"
	EmploymentCareer        EmploymentStatus = "career"
	EmploymentBenefits      EmploymentStatus = "benefits"
	EmploymentTemporary     EmploymentStatus = "temporary"
	EmploymentHomemaker     EmploymentStatus = "homemaker"
	EmploymentArmedServices EmploymentStatus = "armed-services"
	EmploymentOther         EmploymentStatus = "other"
)

// Address is the structured current address populated from the lookup
// provider's details endpoint.
type Address struct {
	Line1    string `json:"line1"`
	Line2    string `json:"line2,omitempty"`
	City     string `json:"city"`
	Postcode string `json:"postcode"`
}

// PreviousAddress is one entry of the variable-length address-history phase.
// The address is free text: previous addresses are captured from the
// suggestion display string, not the details endpoint.
type PreviousAddress struct {
	Address          string           `json:"address"`
	HousingSituation HousingSituation `json:"housingSituation"`
	DurationYears    string           `json:"durationYears"`
	DurationMonths   string           `json:"durationMonths"`
}

// State is the wizard aggregate for one in-progress application. Durations
// are non-negative integers encoded as strings; empty string means unset.
type State struct {
	VehicleType    VehicleType   `json:"vehicleType"`
	HasFullLicence *bool         `json:"hasFullLicence"`
	LicenceType    LicenceType   `json:"licenceType"`
	MaritalStatus  MaritalStatus `json:"maritalStatus"`
	DateOfBirth    string        `json:"dateOfBirth"`

	Address               string           `json:"address"`
	FullAddress           Address          `json:"fullAddress"`
	HousingSituation      HousingSituation `json:"housingSituation"`
	AddressDurationYears  string           `json:"addressDurationYears"`
	AddressDurationMonths string           `json:"addressDurationMonths"`

	PreviousAddresses []PreviousAddress `json:"previousAddresses"`

	EmploymentStatus         EmploymentStatus `json:"employmentStatus"`
	JobTitle                 string           `json:"jobTitle"`
	CompanyName              string           `json:"companyName"`
	EmploymentDurationYears  string           `json:"employmentDurationYears"`
	EmploymentDurationMonths string           `json:"employmentDurationMonths"`
	MonthlyIncome            string           `json:"monthlyIncome"`
	LoanAmount               string           `json:"loanAmount"`

	Title       string `json:"title"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`

	TermsAccepted bool `json:"termsAccepted"`
}

// AppendPreviousAddress grows the address-history phase by one empty entry.
// This is the only way entries are added; they are never removed.
func (s *State) AppendPreviousAddress() {
	s.PreviousAddresses = append(s.PreviousAddresses, PreviousAddress{})
}

// Clone returns a deep copy so stores never alias handler-owned state.
func (s *State) Clone() *State {
	cp := *s
	if s.HasFullLicence != nil {
		v := *s.HasFullLicence
		cp.HasFullLicence = &v
	}
	if s.PreviousAddresses != nil {
		cp.PreviousAddresses = make([]PreviousAddress, len(s.PreviousAddresses))
		copy(cp.PreviousAddresses, s.PreviousAddresses)
	}
	return &cp
}

// Session wraps the aggregate with identity, navigation position, and the
// captured tracking context.
type Session struct {
	ID          string    `json:"id"`
	State       State     `json:"state"`
	CurrentStep int       `json:"currentStep"`
	UTM         UTMParams `json:"utm,omitempty"`
	Referrer    string    `json:"referrer,omitempty"`
	Device      string    `json:"device,omitempty"`
	Bot         bool      `json:"bot,omitempty"`
	Submitted   bool      `json:"submitted"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Clone deep-copies the session.
func (s *Session) Clone() *Session {
	cp := *s
	cp.State = *s.State.Clone()
	if s.UTM != nil {
		cp.UTM = make(UTMParams, len(s.UTM))
		for k, v := range s.UTM {
			cp.UTM[k] = v
		}
	}
	return &cp
}

// Patch is the single mutation operation: a shallow merge of set fields onto
// the aggregate. Previous-address entries are patched in place by index; the
// patch can never add or remove entries (the sequencer owns list growth).
type Patch struct {
	VehicleType    *VehicleType   `json:"vehicleType,omitempty"`
	HasFullLicence *bool          `json:"hasFullLicence,omitempty"`
	LicenceType    *LicenceType   `json:"licenceType,omitempty"`
	MaritalStatus  *MaritalStatus `json:"maritalStatus,omitempty"`
	DateOfBirth    *string        `json:"dateOfBirth,omitempty"`

	Address               *string           `json:"address,omitempty"`
	FullAddress           *Address          `json:"fullAddress,omitempty"`
	HousingSituation      *HousingSituation `json:"housingSituation,omitempty"`
	AddressDurationYears  *string           `json:"addressDurationYears,omitempty"`
	AddressDurationMonths *string           `json:"addressDurationMonths,omitempty"`

	PreviousAddresses []PreviousAddressPatch `json:"previousAddresses,omitempty"`

	EmploymentStatus         *EmploymentStatus `json:"employmentStatus,omitempty"`
	JobTitle                 *string           `json:"jobTitle,omitempty"`
	CompanyName              *string           `json:"companyName,omitempty"`
	EmploymentDurationYears  *string           `json:"employmentDurationYears,omitempty"`
	EmploymentDurationMonths *string           `json:"employmentDurationMonths,omitempty"`
	MonthlyIncome            *string           `json:"monthlyIncome,omitempty"`
	LoanAmount               *string           `json:"loanAmount,omitempty"`

	Title       *string `json:"title,omitempty"`
	FirstName   *string `json:"firstName,omitempty"`
	LastName    *string `json:"lastName,omitempty"`
	Email       *string `json:"email,omitempty"`
	PhoneNumber *string `json:"phoneNumber,omitempty"`

	TermsAccepted *bool `json:"termsAccepted,omitempty"`
}

// PreviousAddressPatch updates one existing previous-address entry.
type PreviousAddressPatch struct {
	Index            int               `json:"index"`
	Address          *string           `json:"address,omitempty"`
	HousingSituation *HousingSituation `json:"housingSituation,omitempty"`
	DurationYears    *string           `json:"durationYears,omitempty"`
	DurationMonths   *string           `json:"durationMonths,omitempty"`
}

// Apply merges the patch onto the state. Out-of-range previous-address
// indexes fail the whole patch without partial application.
func (p *Patch) Apply(s *State) error {
	for _, pa := range p.PreviousAddresses {
		if pa.Index < 0 || pa.Index >= len(s.PreviousAddresses) {
			return dErrors.New(dErrors.CodeBadRequest, "no previous address at that position")
		}
	}

	if p.VehicleType != nil {
		s.VehicleType = *p.VehicleType
	}
	if p.HasFullLicence != nil {
		v := *p.HasFullLicence
		s.HasFullLicence = &v
		if v {
			// A full licence makes the sub-selection irrelevant.
			s.LicenceType = ""
		}
	}
	if p.LicenceType != nil {
		s.LicenceType = *p.LicenceType
	}
	if p.MaritalStatus != nil {
		s.MaritalStatus = *p.MaritalStatus
	}
	if p.DateOfBirth != nil {
		s.DateOfBirth = *p.DateOfBirth
	}
	if p.Address != nil {
		s.Address = *p.Address
	}
	if p.FullAddress != nil {
		s.FullAddress = *p.FullAddress
	}
	if p.HousingSituation != nil {
		s.HousingSituation = *p.HousingSituation
	}
	if p.AddressDurationYears != nil {
		s.AddressDurationYears = *p.AddressDurationYears
	}
	if p.AddressDurationMonths != nil {
		s.AddressDurationMonths = *p.AddressDurationMonths
	}
	for _, pa := range p.PreviousAddresses {
		entry := &s.PreviousAddresses[pa.Index]
		if pa.Address != nil {
			entry.Address = *pa.Address
		}
		if pa.HousingSituation != nil {
			entry.HousingSituation = *pa.HousingSituation
		}
		if pa.DurationYears != nil {
			entry.DurationYears = *pa.DurationYears
		}
		if pa.DurationMonths != nil {
			entry.DurationMonths = *pa.DurationMonths
		}
	}
	if p.EmploymentStatus != nil {
		s.EmploymentStatus = *p.EmploymentStatus
	}
	if p.JobTitle != nil {
		s.JobTitle = *p.JobTitle
	}
	if p.CompanyName != nil {
		s.CompanyName = *p.CompanyName
	}
	if p.EmploymentDurationYears != nil {
		s.EmploymentDurationYears = *p.EmploymentDurationYears
	}
	if p.EmploymentDurationMonths != nil {
		s.EmploymentDurationMonths = *p.EmploymentDurationMonths
	}
	if p.MonthlyIncome != nil {
		s.MonthlyIncome = *p.MonthlyIncome
	}
	if p.LoanAmount != nil {
		s.LoanAmount = *p.LoanAmount
	}
	if p.Title != nil {
		s.Title = *p.Title
	}
	if p.FirstName != nil {
		s.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		s.LastName = *p.LastName
	}
	if p.Email != nil {
		s.Email = *p.Email
	}
	if p.PhoneNumber != nil {
		s.PhoneNumber = *p.PhoneNumber
	}
	if p.TermsAccepted != nil {
		s.TermsAccepted = *p.TermsAccepted
	}
	return nil
}
