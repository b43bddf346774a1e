package flow

import (
	"time"

	"leadgate/internal/wizard/models"
	dErrors "leadgate/pkg/domainerrors"
)

// MinAge is the youngest an applicant may be.
const MinAge = 18

// validators maps each step kind to its gate. A nil entry means the step has
// no forward gate (the terminal step, which is never advanced from).
var validators = map[Kind]func(st *models.State, addressIndex int, now time.Time) error{
	KindVehicleType: func(st *models.State, _ int, _ time.Time) error {
		if st.VehicleType == "" {
			return invalid("please select a vehicle type")
		}
		return nil
	},
	KindDrivingLicence: func(st *models.State, _ int, _ time.Time) error {
		if st.HasFullLicence == nil {
			return invalid("please answer the licence question")
		}
		if !*st.HasFullLicence && st.LicenceType == "" {
			return invalid("please select your licence type")
		}
		return nil
	},
	KindMaritalStatus: func(st *models.State, _ int, _ time.Time) error {
		if st.MaritalStatus == "" {
			return invalid("please select your marital status")
		}
		return nil
	},
	KindDateOfBirth: func(st *models.State, _ int, now time.Time) error {
		if st.DateOfBirth == "" {
			return invalid("please enter your date of birth")
		}
		dob, err := time.Parse("2006-01-02", st.DateOfBirth)
		if err != nil {
			return invalid("please enter a valid date of birth")
		}
		if ageAt(dob, now) < MinAge {
			return invalid("you must be 18 or older to apply for vehicle finance")
		}
		return nil
	},
	KindAddress: func(st *models.State, _ int, _ time.Time) error {
		if st.Address == "" {
			return invalid("please enter your address")
		}
		return nil
	},
	KindHousingSituation: func(st *models.State, _ int, _ time.Time) error {
		if st.HousingSituation == "" {
			return invalid("please select your housing situation")
		}
		return nil
	},
	KindAddressDuration: func(st *models.State, _ int, _ time.Time) error {
		// Years required, months optional: the binding rule for every
		// address-duration step.
		if st.AddressDurationYears == "" {
			return invalid("please enter how long you've lived at this address")
		}
		return nil
	},
	KindPreviousAddress: func(st *models.State, idx int, _ time.Time) error {
		entry, err := previousEntry(st, idx)
		if err != nil {
			return err
		}
		if entry.Address == "" {
			return invalid("please enter your previous address")
		}
		return nil
	},
	KindPreviousHousing: func(st *models.State, idx int, _ time.Time) error {
		entry, err := previousEntry(st, idx)
		if err != nil {
			return err
		}
		if entry.HousingSituation == "" {
			return invalid("please select your previous housing situation")
		}
		return nil
	},
	KindPreviousDuration: func(st *models.State, idx int, _ time.Time) error {
		entry, err := previousEntry(st, idx)
		if err != nil {
			return err
		}
		if entry.DurationYears == "" {
			return invalid("please enter how long you lived at your previous address")
		}
		return nil
	},
	KindEmploymentStatus: func(st *models.State, _ int, _ time.Time) error {
		if st.EmploymentStatus == "" {
			return invalid("please select your employment status")
		}
		return nil
	},
	KindJobDetails: func(st *models.State, _ int, _ time.Time) error {
		if st.JobTitle == "" || st.CompanyName == "" {
			return invalid("please enter your job title and company name")
		}
		return nil
	},
	KindEmploymentDuration: func(st *models.State, _ int, _ time.Time) error {
		// Either field suffices here, unlike address durations.
		if st.EmploymentDurationYears == "" && st.EmploymentDurationMonths == "" {
			return invalid("please enter how long you've worked at this company")
		}
		return nil
	},
	KindMonthlyIncome: func(st *models.State, _ int, _ time.Time) error {
		if st.MonthlyIncome == "" {
			return invalid("please enter your monthly income")
		}
		return nil
	},
	KindLoanAmount: func(st *models.State, _ int, _ time.Time) error {
		if st.LoanAmount == "" {
			return invalid("please enter how much you'd like to borrow")
		}
		return nil
	},
	KindPersonalDetails: func(st *models.State, _ int, _ time.Time) error {
		if st.Title == "" || st.FirstName == "" || st.LastName == "" {
			return invalid("please enter your personal details")
		}
		return nil
	},
	KindContactDetails: func(st *models.State, _ int, _ time.Time) error {
		if st.Email == "" || st.PhoneNumber == "" || !st.TermsAccepted {
			return invalid("please complete all contact details and accept terms")
		}
		return nil
	},
}

// Validate runs the current step's gate. Failures are validation errors,
// never panics or internal errors: the gate blocks the transition and the
// message is surfaced inline.
func (f Flow) Validate(st *models.State, step int, now time.Time) error {
	ref := f.Resolve(st, step)
	check, ok := validators[ref.Kind]
	if !ok {
		return dErrors.New(dErrors.CodeBadRequest, "unknown step")
	}
	return check(st, ref.AddressIndex, now)
}

// ageAt implements the source's age rule: whole 365.25-day years elapsed.
func ageAt(dob, now time.Time) int {
	return int(now.Sub(dob).Hours() / (365.25 * 24))
}

func previousEntry(st *models.State, idx int) (*models.PreviousAddress, error) {
	if idx < 0 || idx >= len(st.PreviousAddresses) {
		return nil, dErrors.New(dErrors.CodeBadRequest, "no previous address at this step")
	}
	return &st.PreviousAddresses[idx], nil
}

func invalid(msg string) error {
	return dErrors.New(dErrors.CodeValidation, msg)
}
