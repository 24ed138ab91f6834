package application

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/kingrea/jobboard/internal/catalog"
)

// Error keys outside the personal info fields.
const (
	KeyResume = "resume"
	KeySubmit = "submit"
)

const (
	msgFullNameRequired = "Full name is required"
	msgEmailRequired    = "Email is required"
	msgEmailInvalid     = "Please enter a valid email address"
	msgPhoneRequired    = "Phone number is required"
	msgPhoneInvalid     = "Please enter a valid phone number"
	msgLinkedInInvalid  = "Please enter a valid LinkedIn URL"
	msgResumeRequired   = "Resume upload is required"
	msgQuestionRequired = "This question is required"
	msgSubmitFailed     = "Failed to submit application. Please try again."
)

const minPhoneDigits = 10

var (
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern    = regexp.MustCompile(`^\+?[\d\s\-\(\)]{10,}$`)
	linkedInPattern = regexp.MustCompile(`^https?://(www\.)?linkedin\.com/`)
)

// personalRules holds the validate tag for each personal info field.
var personalRules = map[Field]string{
	FieldFullName: "nonblank",
	FieldEmail:    "nonblank,contact_email",
	FieldPhone:    "nonblank,phone_number",
	FieldLinkedIn: "omitempty,linkedin_url",
}

// personalMessages maps a field and the tag it failed to the message shown.
var personalMessages = map[Field]map[string]string{
	FieldFullName: {"nonblank": msgFullNameRequired},
	FieldEmail:    {"nonblank": msgEmailRequired, "contact_email": msgEmailInvalid},
	FieldPhone:    {"nonblank": msgPhoneRequired, "phone_number": msgPhoneInvalid},
	FieldLinkedIn: {"linkedin_url": msgLinkedInInvalid},
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	rules := map[string]func(string) bool{
		"nonblank":      func(s string) bool { return strings.TrimSpace(s) != "" },
		"contact_email": emailPattern.MatchString,
		"phone_number": func(s string) bool {
			return phonePattern.MatchString(s) && countDigits(s) >= minPhoneDigits
		},
		"linkedin_url": linkedInPattern.MatchString,
	}
	for tag, rule := range rules {
		rule := rule
		if err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return rule(fl.Field().String())
		}); err != nil {
			panic(fmt.Sprintf("application: register %s: %v", tag, err))
		}
	}
	return v
}

// QuestionKey is the error key of a screening question.
func QuestionKey(id int) string {
	return fmt.Sprintf("question_%d", id)
}

// Errors maps a field key to its message. Only failing fields are present.
type Errors map[string]string

// Empty reports whether there are no errors.
func (e Errors) Empty() bool { return len(e) == 0 }

// Get returns the message for key, or "".
func (e Errors) Get(key string) string { return e[key] }

// Keys returns the failing keys in sorted order.
func (e Errors) Keys() []string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a copy that never aliases e.
func (e Errors) Clone() Errors {
	out := make(Errors, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

// merge replaces every key owned by a validation run with its fresh result.
func (e Errors) merge(owned []string, fresh Errors) {
	for _, k := range owned {
		delete(e, k)
	}
	for k, v := range fresh {
		e[k] = v
	}
}

// StepKeys lists the error keys a step's validation owns.
func StepKeys(step Step, questions []catalog.Question) []string {
	switch step {
	case StepPersonal:
		return []string{string(FieldFullName), string(FieldEmail), string(FieldPhone), string(FieldLinkedIn)}
	case StepResume:
		return []string{KeyResume}
	case StepQuestions:
		keys := make([]string, 0, len(questions))
		for _, q := range questions {
			keys = append(keys, QuestionKey(q.ID))
		}
		return keys
	}
	return nil
}

// ValidateStep checks the section of draft that step covers. The result
// holds only failing fields; an empty result means the step passes.
func ValidateStep(step Step, draft Draft, questions []catalog.Question) Errors {
	errs := Errors{}
	switch step {
	case StepPersonal:
		for _, field := range []Field{FieldFullName, FieldEmail, FieldPhone, FieldLinkedIn} {
			if msg := validatePersonal(field, draft.Personal.Get(field)); msg != "" {
				errs[string(field)] = msg
			}
		}
	case StepResume:
		if draft.Resume == nil {
			errs[KeyResume] = msgResumeRequired
		}
	case StepQuestions:
		for _, q := range questions {
			if msg := validateAnswer(q, draft.Answer(q.ID)); msg != "" {
				errs[QuestionKey(q.ID)] = msg
			}
		}
	}
	return errs
}

// ValidateField checks a single personal info field. It returns "" when
// the value is acceptable.
func ValidateField(field Field, draft Draft) string {
	return validatePersonal(field, draft.Personal.Get(field))
}

// ValidateAnswer checks a single screening answer.
func ValidateAnswer(q catalog.Question, draft Draft) string {
	return validateAnswer(q, draft.Answer(q.ID))
}

// validatePersonal runs the field's rule and returns the message for the
// first tag that fails, or "".
func validatePersonal(field Field, value string) string {
	rule, ok := personalRules[field]
	if !ok {
		return ""
	}
	err := validate.Var(value, rule)
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return ""
	}
	return personalMessages[field][fieldErrs[0].Tag()]
}

func validateAnswer(q catalog.Question, answer string) string {
	if q.Required && strings.TrimSpace(answer) == "" {
		return msgQuestionRequired
	}
	return ""
}

func countDigits(value string) int {
	n := 0
	for _, r := range value {
		if unicode.IsDigit(r) {
			n++
		}
	}
	return n
}
