// Package flow is the step sequencer: the single source of truth for what
// step a session is on, what comes next, and how many steps there are. The
// step layout is never stored; every derived value is recomputed from the
// wizard state so the layout cannot desynchronize from the data that
// produced it.
//
// Step layout:
//
//	1–4   intro          vehicle type → licence → marital status → date of birth
//	5–7   current address search → housing situation → duration
//	8…    previous addresses, 3 steps per entry, 0 to maxPrevious entries
//	then  7 employment/close steps starting at EmploymentStart
//	then  the terminal submitted step
package flow

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"leadgate/internal/wizard/history"
	"leadgate/internal/wizard/models"
)

const (
	baseSteps         = 7 // steps 1-7: intro + current address
	firstPreviousStep = 8
	closeSteps        = 6 // employment start + 6 more to contact details
)

// Kind is the tagged identity of a step. Numeric step positions shift as the
// previous-address phase grows; kinds do not.
type Kind int

const (
	KindUnknown Kind = iota
	KindVehicleType
	KindDrivingLicence
	KindMaritalStatus
	KindDateOfBirth
	KindAddress
	KindHousingSituation
	KindAddressDuration
	KindPreviousAddress
	KindPreviousHousing
	KindPreviousDuration
	KindEmploymentStatus
	KindJobDetails
	KindEmploymentDuration
	KindMonthlyIncome
	KindLoanAmount
	KindPersonalDetails
	KindContactDetails
	KindSubmitted
)

// Ref resolves a numeric step to its kind. AddressIndex is the zero-based
// previous-address entry the step belongs to, meaningful only for the three
// previous-address kinds.
type Ref struct {
	Number       int
	Kind         Kind
	AddressIndex int
}

// Flow computes the step layout for a wizard state. The zero value is not
// usable; construct with New.
type Flow struct {
	maxPrevious int
}

// New builds a Flow with the given previous-address cap. Non-positive caps
// fall back to 4.
func New(maxPrevious int) Flow {
	if maxPrevious <= 0 {
		maxPrevious = 4
	}
	return Flow{maxPrevious: maxPrevious}
}

// MaxPrevious exposes the configured cap for callers that gate on it.
func (f Flow) MaxPrevious() int { return f.maxPrevious }

// EmploymentStart returns the step at which the employment phase begins.
// When the accumulator is satisfied it is 8 + 3×min(previous, cap). While
// more history is still needed the value is a projection assuming one more
// address will be added; callers must gate on history.NeedsMore first.
func (f Flow) EmploymentStart(st *models.State) int {
	prev := len(st.PreviousAddresses)
	if !history.NeedsMore(st, f.maxPrevious) {
		if prev > f.maxPrevious {
			prev = f.maxPrevious
		}
		return firstPreviousStep + 3*prev
	}
	return firstPreviousStep + 3*(prev+1)
}

// TotalSteps is the final form step (contact details). The terminal
// submitted step sits one past it.
func (f Flow) TotalSteps(st *models.State) int {
	return f.EmploymentStart(st) + closeSteps
}

// Resolve maps a step number onto its kind for the given state.
func (f Flow) Resolve(st *models.State, step int) Ref {
	ref := Ref{Number: step, Kind: KindUnknown}
	if step < 1 {
		return ref
	}
	if step <= baseSteps {
		ref.Kind = [...]Kind{
			KindVehicleType, KindDrivingLicence, KindMaritalStatus, KindDateOfBirth,
			KindAddress, KindHousingSituation, KindAddressDuration,
		}[step-1]
		return ref
	}
	start := f.EmploymentStart(st)
	if step >= start {
		switch step - start {
		case 0:
			ref.Kind = KindEmploymentStatus
		case 1:
			ref.Kind = KindJobDetails
		case 2:
			ref.Kind = KindEmploymentDuration
		case 3:
			ref.Kind = KindMonthlyIncome
		case 4:
			ref.Kind = KindLoanAmount
		case 5:
			ref.Kind = KindPersonalDetails
		case 6:
			ref.Kind = KindContactDetails
		case 7:
			ref.Kind = KindSubmitted
		}
		return ref
	}
	ref.AddressIndex = (step - firstPreviousStep) / 3
	switch (step - firstPreviousStep) % 3 {
	case 0:
		ref.Kind = KindPreviousAddress
	case 1:
		ref.Kind = KindPreviousHousing
	case 2:
		ref.Kind = KindPreviousDuration
	}
	return ref
}

var baseSlugs = map[int]string{
	1: "vehicle-type",
	2: "driving-licence",
	3: "marital-status",
	4: "date-of-birth",
	5: "address1",
	6: "housing-situation1",
	7: "address-duration1",
}

var baseSlugSteps = map[string]int{
	"vehicle-type":       1,
	"driving-licence":    2,
	"marital-status":     3,
	"date-of-birth":      4,
	"address1":           5,
	"housing-situation1": 6,
	"address-duration1":  7,
}

var employmentSlugs = [...]string{
	"employment", "job-details", "employment-duration",
	"monthly-income", "loan-amount", "personal-details", "contact-details",
}

// TerminalSlug is the slug of the implicit submitted step.
const TerminalSlug = "thankyou"

var previousSlugPattern = regexp.MustCompile(`^(address|housing-situation|address-duration)(\d+)$`)

var previousSlugOffsets = map[string]int{
	"address":           0,
	"housing-situation": 1,
	"address-duration":  2,
}

// SlugForStep maps a step number to its deep-link slug. Previous-address
// slugs are numbered from the applicant's perspective: the current address is
// 1, so the first previous address is address2.
func (f Flow) SlugForStep(st *models.State, step int) string {
	if slug, ok := baseSlugs[step]; ok {
		return slug
	}
	start := f.EmploymentStart(st)
	if step >= start {
		off := step - start
		if off < len(employmentSlugs) {
			return employmentSlugs[off]
		}
		if off == len(employmentSlugs) {
			return TerminalSlug
		}
		return fmt.Sprintf("step-%d", step)
	}
	if step > baseSteps {
		addressNumber := (step-firstPreviousStep)/3 + 2
		kind := [...]string{"address", "housing-situation", "address-duration"}[(step-firstPreviousStep)%3]
		return fmt.Sprintf("%s%d", kind, addressNumber)
	}
	return fmt.Sprintf("step-%d", step)
}

// StepForSlug is the exact inverse of SlugForStep for the same state. The
// employment slugs are checked before the base ones because their positions
// depend on the current state; previous-address slugs are pattern-matched
// last. Returns false for unrecognized slugs.
func (f Flow) StepForSlug(st *models.State, slug string) (int, bool) {
	start := f.EmploymentStart(st)
	for off, s := range employmentSlugs {
		if s == slug {
			return start + off, true
		}
	}
	if slug == TerminalSlug {
		return start + len(employmentSlugs), true
	}
	if step, ok := baseSlugSteps[slug]; ok {
		return step, true
	}
	m := previousSlugPattern.FindStringSubmatch(slug)
	if m == nil {
		return 0, false
	}
	addressNumber, err := strconv.Atoi(m[2])
	if err != nil || addressNumber < 1 {
		return 0, false
	}
	offset := previousSlugOffsets[m[1]]
	if addressNumber == 1 {
		// Covered by the base slugs above; kept for symmetry with lenient
		// deep links like "address1".
		return 5 + offset, true
	}
	return firstPreviousStep + (addressNumber-2)*3 + offset, true
}

// Decision is the outcome of a forward transition.
type Decision struct {
	// NextStep is the step to move to. Zero when Submit is set.
	NextStep int
	// AppendAddress directs the caller to grow the previous-address list by
	// one empty entry before moving. Never set together with Submit.
	AppendAddress bool
	// Submit means the current step was the final form step: perform the
	// submission instead of a step transition.
	Submit bool
}

// Next validates the current step and computes the transition per the
// branching rules: after any address-duration step the accumulator decides
// whether to open another previous-address sub-flow or jump to employment.
// A validation failure returns a domain error and no decision.
func (f Flow) Next(st *models.State, current int, now time.Time) (Decision, error) {
	if err := f.Validate(st, current, now); err != nil {
		return Decision{}, err
	}

	if current >= f.TotalSteps(st) {
		return Decision{Submit: true}, nil
	}

	start := f.EmploymentStart(st)
	isDurationStep := current == baseSteps ||
		(current > baseSteps && current < start && (current-baseSteps)%3 == 0)

	if isDurationStep && (current == baseSteps || len(st.PreviousAddresses) > 0) {
		if history.NeedsMore(st, f.maxPrevious) {
			// Guard against double-submit: only append when no entry exists
			// for the sub-flow this step would open.
			appendNeeded := len(st.PreviousAddresses) == (current-baseSteps)/3
			return Decision{NextStep: current + 1, AppendAddress: appendNeeded}, nil
		}
		// Enough history (or cap reached): skip any unused slots.
		return Decision{NextStep: f.EmploymentStart(st)}, nil
	}

	return Decision{NextStep: current + 1}, nil
}

// Prev computes the backward transition. Going back from the employment
// start with previous addresses present lands on the last previous-address
// duration step, because the linear predecessor does not exist in the layout.
// Already at step 1 stays at step 1.
func (f Flow) Prev(st *models.State, current int) int {
	if current <= 1 {
		return 1
	}
	if current == f.EmploymentStart(st) && len(st.PreviousAddresses) > 0 {
		return baseSteps + 3*len(st.PreviousAddresses)
	}
	return current - 1
}
