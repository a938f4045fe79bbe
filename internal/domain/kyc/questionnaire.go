package kyc

import (
	"fmt"
	"strings"
	"time"
)

// Question is one level 1 questionnaire entry and how its answer lands on the profile.
type Question struct {
	Text  string
	apply func(p *Profile, answer string) error
}

var Questions = []Question{
	{Text: "What is your full name?", apply: func(p *Profile, a string) error { p.FullName = a; return nil }},
	{Text: "What is your date of birth (YYYY-MM-DD)?", apply: func(p *Profile, a string) error {
		dob, err := time.Parse("2006-01-02", a)
		if err != nil {
			return fmt.Errorf("%w: date of birth must be YYYY-MM-DD", ErrInvalidAnswer)
		}
		p.DateOfBirth = &dob
		return nil
	}},
	{Text: "Which city do you live in?", apply: func(p *Profile, a string) error { p.City = a; return nil }},
	{Text: "What is your mobile money number?", apply: func(p *Profile, a string) error { p.MobileMoneyNumber = a; return nil }},
	{Text: "What type of ID do you have?", apply: func(p *Profile, a string) error { p.IDType = a; return nil }},
	{Text: "What is your ID number?", apply: func(p *Profile, a string) error { p.IDNumber = a; return nil }},
	{Text: "Do you own a business?", apply: func(p *Profile, a string) error { return setYesNo(&p.HasBusiness, a) }},
	{Text: "Are you the only owner of the business?", apply: func(p *Profile, a string) error { return setYesNo(&p.IsOnlyOwner, a) }},
	{Text: "Describe your business.", apply: func(p *Profile, a string) error { p.BusinessDescription = a; return nil }},
	{Text: "What will you use the loan for?", apply: func(p *Profile, a string) error { p.LoanPurpose = a; return nil }},
}

// Apply validates answer for question idx and copies it onto the profile.
func Apply(p *Profile, idx int, answer string) (string, error) {
	if idx < 0 || idx >= len(Questions) {
		return "", ErrInvalidQuestion
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return "", fmt.Errorf("%w: answer is required", ErrInvalidAnswer)
	}
	q := Questions[idx]
	if err := q.apply(p, answer); err != nil {
		return "", err
	}
	return q.Text, nil
}

func setYesNo(dst **bool, a string) error {
	var v bool
	switch strings.ToLower(a) {
	case "yes", "y", "true", "1":
		v = true
	case "no", "n", "false", "0":
		v = false
	default:
		return fmt.Errorf("%w: expected yes or no", ErrInvalidAnswer)
	}
	*dst = &v
	return nil
}
