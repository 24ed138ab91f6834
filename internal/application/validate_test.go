package application

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kingrea/jobboard/internal/catalog"
)

var testQuestions = []catalog.Question{
	{ID: 1, Text: "What experience do you have?", Required: true},
	{ID: 2, Text: "Describe a challenging project.", Required: true},
	{ID: 3, Text: "Why us?", Required: false},
}

func validPersonal() PersonalInfo {
	return PersonalInfo{FullName: "Jane Doe", Email: "jane@x.com", Phone: "+1 555 123 4567"}
}

func TestValidateStepOneWellFormed(t *testing.T) {
	errs := ValidateStep(StepPersonal, Draft{Personal: validPersonal()}, nil)
	assert.True(t, errs.Empty(), "unexpected errors: %v", errs)
}

func TestValidateStepOneReportsExactlyMissingFields(t *testing.T) {
	cases := []struct {
		name     string
		personal PersonalInfo
		want     []string
	}{
		{name: "all missing", personal: PersonalInfo{}, want: []string{"email", "fullName", "phone"}},
		{name: "name missing", personal: PersonalInfo{Email: "jane@x.com", Phone: "+1 555 123 4567"}, want: []string{"fullName"}},
		{name: "blank name", personal: PersonalInfo{FullName: "   ", Email: "jane@x.com", Phone: "5551234567"}, want: []string{"fullName"}},
		{name: "email missing", personal: PersonalInfo{FullName: "Jane", Phone: "(555) 123-4567"}, want: []string{"email"}},
		{name: "phone missing", personal: PersonalInfo{FullName: "Jane", Email: "jane@x.com"}, want: []string{"phone"}},
		{name: "phone too short", personal: PersonalInfo{FullName: "Jane", Email: "jane@x.com", Phone: "555-1234"}, want: []string{"phone"}},
		{name: "phone letters", personal: PersonalInfo{FullName: "Jane", Email: "jane@x.com", Phone: "555-CALL-NOW-1"}, want: []string{"phone"}},
		{name: "phone punctuation only", personal: PersonalInfo{FullName: "Jane", Email: "jane@x.com", Phone: "(((---)))   "}, want: []string{"phone"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			errs := ValidateStep(StepPersonal, Draft{Personal: tc.personal}, nil)
			assert.Equal(t, tc.want, errs.Keys())
		})
	}
}

func TestInvalidEmailAlwaysFails(t *testing.T) {
	for _, personal := range []PersonalInfo{
		{Email: "not-an-email"},
		{FullName: "Jane Doe", Email: "not-an-email", Phone: "+1 555 123 4567"},
		{FullName: "Jane Doe", Email: "not-an-email", Phone: "+1 555 123 4567", LinkedInURL: "https://linkedin.com/in/jane"},
	} {
		errs := ValidateStep(StepPersonal, Draft{Personal: personal}, nil)
		assert.Equal(t, "Please enter a valid email address", errs.Get("email"))
	}
}

func TestRequiredMessageWinsOverFormat(t *testing.T) {
	errs := ValidateStep(StepPersonal, Draft{Personal: PersonalInfo{FullName: "Jane", Email: "  ", Phone: "   "}}, nil)
	assert.Equal(t, "Email is required", errs.Get("email"))
	assert.Equal(t, "Phone number is required", errs.Get("phone"))

	errs = ValidateStep(StepPersonal, Draft{Personal: PersonalInfo{FullName: "Jane", Email: "jane@", Phone: "12345"}}, nil)
	assert.Equal(t, "Please enter a valid email address", errs.Get("email"))
	assert.Equal(t, "Please enter a valid phone number", errs.Get("phone"))
}

func TestLinkedInIsOptionalButChecked(t *testing.T) {
	personal := validPersonal()
	for _, url := range []string{"https://linkedin.com/in/jane", "http://www.linkedin.com/in/jane"} {
		personal.LinkedInURL = url
		assert.True(t, ValidateStep(StepPersonal, Draft{Personal: personal}, nil).Empty(), url)
	}
	personal.LinkedInURL = "https://example.com/jane"
	errs := ValidateStep(StepPersonal, Draft{Personal: personal}, nil)
	assert.Equal(t, []string{"linkedinUrl"}, errs.Keys())
	assert.Equal(t, "Please enter a valid LinkedIn URL", errs.Get("linkedinUrl"))
}

func TestValidateStepTwoRequiresResume(t *testing.T) {
	errs := ValidateStep(StepResume, Draft{}, nil)
	assert.Equal(t, "Resume upload is required", errs.Get(KeyResume))

	errs = ValidateStep(StepResume, Draft{Resume: &FileRef{Name: "cv.pdf", Type: TypePDF, Size: 10}}, nil)
	assert.True(t, errs.Empty())
}

func TestValidateStepThreeRequiredQuestions(t *testing.T) {
	draft := Draft{Answers: map[int]string{1: "plenty", 2: "  "}}
	errs := ValidateStep(StepQuestions, draft, testQuestions)
	assert.Equal(t, []string{"question_2"}, errs.Keys())
	assert.Equal(t, "This question is required", errs.Get(QuestionKey(2)))

	draft.Answers[2] = "a migration"
	assert.True(t, ValidateStep(StepQuestions, draft, testQuestions).Empty())
}

func TestValidateField(t *testing.T) {
	draft := Draft{Personal: PersonalInfo{Email: "jane@"}}
	assert.Equal(t, "Please enter a valid email address", ValidateField(FieldEmail, draft))
	assert.Equal(t, "Full name is required", ValidateField(FieldFullName, draft))
	assert.Equal(t, "", ValidateField(FieldCoverLetter, draft))
	assert.Equal(t, "", ValidateField(FieldLinkedIn, draft))
}
