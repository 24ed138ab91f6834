// Package application implements the three-step job application wizard:
// the draft being filled in, per-step validation, resume checks, the
// navigation state machine and the simulated submission.
package application

import (
	"github.com/kingrea/jobboard/internal/catalog"
)

// Step is the wizard position. Steps 1 through 3 are form pages;
// StepSubmitted is the terminal confirmation state.
type Step int

const (
	StepPersonal  Step = 1
	StepResume    Step = 2
	StepQuestions Step = 3
	StepSubmitted Step = 4
)

// LastStep is the final form page; Next from here submits.
const LastStep = StepQuestions

// StepDescriptor is the static label shown in the step indicator.
type StepDescriptor struct {
	Number      Step
	Title       string
	Description string
}

var steps = []StepDescriptor{
	{Number: StepPersonal, Title: "Personal Info", Description: "Basic information"},
	{Number: StepResume, Title: "Resume Upload", Description: "Upload your resume"},
	{Number: StepQuestions, Title: "Additional Questions", Description: "Job-specific questions"},
}

// Steps returns the step sequence.
func Steps() []StepDescriptor {
	out := make([]StepDescriptor, len(steps))
	copy(out, steps)
	return out
}

// Field names a personal info input.
type Field string

const (
	FieldFullName    Field = "fullName"
	FieldEmail       Field = "email"
	FieldPhone       Field = "phone"
	FieldLinkedIn    Field = "linkedinUrl"
	FieldCoverLetter Field = "coverLetter"
)

// PersonalFields lists the step one inputs in display order.
var PersonalFields = []Field{FieldFullName, FieldEmail, FieldPhone, FieldLinkedIn, FieldCoverLetter}

// MaxCoverLetter caps the cover letter length in characters.
const MaxCoverLetter = 500

// PersonalInfo is the step one section of a draft.
type PersonalInfo struct {
	FullName    string
	Email       string
	Phone       string
	LinkedInURL string
	CoverLetter string
}

// Get returns the value of field.
func (p PersonalInfo) Get(field Field) string {
	switch field {
	case FieldFullName:
		return p.FullName
	case FieldEmail:
		return p.Email
	case FieldPhone:
		return p.Phone
	case FieldLinkedIn:
		return p.LinkedInURL
	case FieldCoverLetter:
		return p.CoverLetter
	}
	return ""
}

func (p *PersonalInfo) set(field Field, value string) {
	switch field {
	case FieldFullName:
		p.FullName = value
	case FieldEmail:
		p.Email = value
	case FieldPhone:
		p.Phone = value
	case FieldLinkedIn:
		p.LinkedInURL = value
	case FieldCoverLetter:
		if r := []rune(value); len(r) > MaxCoverLetter {
			value = string(r[:MaxCoverLetter])
		}
		p.CoverLetter = value
	}
}

// Draft is the in-progress application.
type Draft struct {
	Personal PersonalInfo
	Resume   *FileRef
	Answers  map[int]string
}

// Answer returns the answer recorded for a question id.
func (d Draft) Answer(questionID int) string {
	return d.Answers[questionID]
}

// Clone returns a deep copy.
func (d Draft) Clone() Draft {
	out := Draft{Personal: d.Personal}
	if d.Resume != nil {
		ref := *d.Resume
		out.Resume = &ref
	}
	if d.Answers != nil {
		out.Answers = make(map[int]string, len(d.Answers))
		for k, v := range d.Answers {
			out.Answers[k] = v
		}
	}
	return out
}

// Posting is the display-only context of the job being applied to.
type Posting struct {
	JobID     int
	Title     string
	Company   string
	Location  string
	Questions []catalog.Question
}

// PostingFor builds the wizard context for a catalog job.
func PostingFor(c *catalog.Catalog, job catalog.Job) Posting {
	return Posting{
		JobID:     job.ID,
		Title:     job.Title,
		Company:   job.Company.Name,
		Location:  job.Location,
		Questions: c.Questions(job),
	}
}

// SubmissionResult is what a successful submission hands the confirmation view.
type SubmissionResult struct {
	ApplicationRef string
}
