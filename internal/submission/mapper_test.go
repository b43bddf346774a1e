package submission

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadgate/internal/wizard/models"
	dErrors "leadgate/pkg/domainerrors"
)

func completeApplication() *models.State {
	yes := true
	return &models.State{
		VehicleType:    models.VehicleBike,
		HasFullLicence: &yes,
		MaritalStatus:  models.MaritalCohabiting,
		DateOfBirth:    "1992-03-10",
		Address:        "12 High Street, Leeds, LS1 4AB",
		FullAddress: models.Address{
			Line1:    "12 High Street",
			Line2:    "Flat 3",
			City:     "Leeds",
			Postcode: "LS1 4AB",
		},
		HousingSituation:         models.HousingPrivateTenant,
		AddressDurationYears:     "2",
		AddressDurationMonths:    "6",
		EmploymentStatus:         models.EmploymentSelfEmployed,
		JobTitle:                 "Plumber",
		CompanyName:              "Own Trade Ltd",
		EmploymentDurationYears:  "5",
		EmploymentDurationMonths: "",
		MonthlyIncome:            "3100",
		LoanAmount:               "15000",
		Title:                    "Ms",
		FirstName:                "Alex",
		LastName:                 "Morgan",
		Email:                    "alex@example.com",
		PhoneNumber:              "07700900123",
		TermsAccepted:            true,
	}
}

func TestMap(t *testing.T) {
	m := Mapper{}

	t.Run("complete application", func(t *testing.T) {
		p, err := m.Map(completeApplication(), models.UTMParams{"utm_source": "google"})
		require.NoError(t, err)

		assert.Equal(t, "Motorcycle", p.VehicleType)
		assert.Equal(t, "Leadly applications", p.SourceReference)
		assert.Equal(t, 60, p.Term)
		assert.Equal(t, "15000", p.AmountToBorrow)
		assert.Empty(t, p.Products)
		assert.Empty(t, p.Vehicles)

		require.Len(t, p.Applicants, 1)
		a := p.Applicants[0]
		assert.Equal(t, "Ms", a.Title)
		assert.Equal(t, "Alex", a.Forename)
		assert.Equal(t, "Morgan", a.Surname)
		assert.Equal(t, "Living Together", a.MaritalStatus)
		assert.Equal(t, "Full UK", a.DrivingLicenceType)

		require.Len(t, a.Addresses, 1)
		addr := a.Addresses[0]
		assert.Equal(t, "12 High Street", addr.Building)
		assert.Equal(t, "12 High Street", addr.Street)
		assert.Equal(t, "Flat 3", addr.SubBuildingName)
		assert.Equal(t, "Leeds", addr.Town)
		assert.Equal(t, "LS1 4AB", addr.Postcode)
		assert.Equal(t, 2, addr.TimeAtAddressYears)
		require.NotNil(t, addr.TimeAtAddressMonths)
		assert.Equal(t, 6, *addr.TimeAtAddressMonths)
		assert.Equal(t, "Tenant - Private", addr.ResidentialStatus)

		require.Len(t, a.Employments, 1)
		emp := a.Employments[0]
		assert.Equal(t, "Self-Employed", emp.EmploymentStatus)
		assert.Equal(t, "5", emp.TimeInEmploymentYears)
		assert.Equal(t, "0", emp.TimeInEmploymentMonths)
		assert.Equal(t, "3100", emp.MonthlyIncome)
	})

	t.Run("previous addresses parsed from free text", func(t *testing.T) {
		st := completeApplication()
		st.PreviousAddresses = []models.PreviousAddress{{
			Address:          "7 Low Lane, York, YO1 7HT",
			HousingSituation: models.HousingLivingWithParents,
			DurationYears:    "1",
			DurationMonths:   "",
		}}
		p, err := m.Map(st, nil)
		require.NoError(t, err)

		require.Len(t, p.Applicants[0].Addresses, 2)
		prev := p.Applicants[0].Addresses[1]
		assert.Equal(t, "7 Low Lane", prev.Building)
		assert.Equal(t, "7 Low Lane", prev.Street)
		assert.Equal(t, "York", prev.Town)
		assert.Equal(t, "YO1 7HT", prev.Postcode)
		assert.Equal(t, 1, prev.TimeAtAddressYears)
		assert.Nil(t, prev.TimeAtAddressMonths)
		assert.Equal(t, "Living With Family", prev.ResidentialStatus)
	})

	t.Run("previous address without commas fills building and postcode", func(t *testing.T) {
		st := completeApplication()
		st.PreviousAddresses = []models.PreviousAddress{{
			Address:       "somewhere",
			DurationYears: "1",
		}}
		p, err := m.Map(st, nil)
		require.NoError(t, err)

		prev := p.Applicants[0].Addresses[1]
		assert.Equal(t, "somewhere", prev.Building)
		assert.Empty(t, prev.Town)
		assert.Equal(t, "somewhere", prev.Postcode)
	})

	t.Run("two segment previous address uses first as town", func(t *testing.T) {
		st := completeApplication()
		st.PreviousAddresses = []models.PreviousAddress{{
			Address:       "12 Hill Road, LS1 4AP",
			DurationYears: "2",
		}}
		p, err := m.Map(st, nil)
		require.NoError(t, err)

		prev := p.Applicants[0].Addresses[1]
		assert.Equal(t, "12 Hill Road", prev.Building)
		assert.Equal(t, "12 Hill Road", prev.Town)
		assert.Equal(t, "LS1 4AP", prev.Postcode)
	})

	t.Run("missing fields collected in one error", func(t *testing.T) {
		st := completeApplication()
		st.Title = ""
		st.Email = ""
		st.LoanAmount = ""
		_, err := m.Map(st, nil)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))

		var mf *MissingFieldsError
		require.True(t, errors.As(err, &mf))
		assert.Equal(t, []string{"title", "email", "loanAmount"}, mf.Fields)
	})

	t.Run("incomplete current address is a validation error", func(t *testing.T) {
		st := completeApplication()
		st.FullAddress.Postcode = ""
		_, err := m.Map(st, nil)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("placeholder fallback substitutes marker records", func(t *testing.T) {
		st := completeApplication()
		st.FullAddress = models.Address{}
		st.JobTitle = ""
		p, err := Mapper{PlaceholderFallback: true}.Map(st, nil)
		require.NoError(t, err)
		assert.Equal(t, "Test Building", p.Applicants[0].Addresses[0].Building)
		assert.Equal(t, "Test Job", p.Applicants[0].Employments[0].JobTitle)
	})
}

func TestMapCampaignCodes(t *testing.T) {
	m := Mapper{}

	t.Run("defaults when tracking is absent", func(t *testing.T) {
		p, err := m.Map(completeApplication(), nil)
		require.NoError(t, err)
		assert.Equal(t, "default_source", p.CampaignCode1)
		assert.Equal(t, "default_medium", p.CampaignCode2)
		assert.Equal(t, "default_campaign", p.CampaignCode3)
		assert.Equal(t, "default_term", p.CampaignCode4)
		assert.Equal(t, "default_content", p.CampaignCode5)
		assert.Empty(t, p.CustomFields)
	})

	t.Run("values truncated to thirty-two characters", func(t *testing.T) {
		long := strings.Repeat("x", 40)
		p, err := m.Map(completeApplication(), models.UTMParams{"utm_campaign": long})
		require.NoError(t, err)
		assert.Equal(t, long[:32], p.CampaignCode3)
	})

	t.Run("custom fields only for present parameters", func(t *testing.T) {
		p, err := m.Map(completeApplication(), models.UTMParams{
			"utm_source": "facebook",
			"fbclid":     "fb123",
			"gclid":      "g456",
		})
		require.NoError(t, err)
		assert.Equal(t, []CustomField{
			{Name: "utm_source", Value: "facebook"},
			{Name: "fbclid", Value: "fb123"},
		}, p.CustomFields)
	})
}

func TestMapLicenceVariants(t *testing.T) {
	m := Mapper{}
	no := false

	cases := []struct {
		name    string
		licence models.LicenceType
		want    string
	}{
		{"provisional", models.LicenceProvisionalUK, "Provisional UK"},
		{"eu", models.LicenceEU, "EU"},
		{"international", models.LicenceInternational, "International"},
		{"none", models.LicenceNone, "None"},
		{"unset", "", "None"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			st := completeApplication()
			st.HasFullLicence = &no
			st.LicenceType = tc.licence
			p, err := m.Map(st, nil)
			require.NoError(t, err)
			assert.Equal(t, tc.want, p.Applicants[0].DrivingLicenceType)
		})
	}

	t.Run("unanswered licence question maps to none", func(t *testing.T) {
		st := completeApplication()
		st.HasFullLicence = nil
		p, err := m.Map(st, nil)
		require.NoError(t, err)
		assert.Equal(t, "None", p.Applicants[0].DrivingLicenceType)
	})
}

func TestMapVocabularyPassThrough(t *testing.T) {
	st := completeApplication()
	st.EmploymentStatus = models.EmploymentArmedServices
	p, err := Mapper{}.Map(st, nil)
	require.NoError(t, err)
	assert.Equal(t, "armed-services", p.Applicants[0].Employments[0].EmploymentStatus)
}
