package application

import (
	"errors"

	"github.com/google/uuid"

	"github.com/kingrea/jobboard/internal/catalog"
)

// Command is a user action consumed by Controller.Dispatch.
type Command interface {
	command()
}

// SetField records a personal info value as it is typed.
type SetField struct {
	Field Field
	Value string
}

// BlurField re-validates a personal info field when it loses focus.
type BlurField struct {
	Field Field
}

// SetAnswer records a screening answer.
type SetAnswer struct {
	QuestionID int
	Value      string
}

// BlurAnswer re-validates a screening answer when it loses focus.
type BlurAnswer struct {
	QuestionID int
}

// AttachResume offers a file to the uploader. Invalid files are rejected
// without touching the draft.
type AttachResume struct {
	File FileRef
}

// RejectResume reports a file that could not even be inspected, such as a
// pasted path that does not exist.
type RejectResume struct {
	Reason string
}

// RemoveResume clears the accepted resume.
type RemoveResume struct{}

// Next validates the current step and advances, or submits from the last step.
type Next struct{}

// Previous goes back one step.
type Previous struct{}

// Close discards the draft and ends the session.
type Close struct{}

func (SetField) command()     {}
func (BlurField) command()    {}
func (SetAnswer) command()    {}
func (BlurAnswer) command()   {}
func (AttachResume) command() {}
func (RejectResume) command() {}
func (RemoveResume) command() {}
func (Next) command()         {}
func (Previous) command()     {}
func (Close) command()        {}

// Effect is work the caller must perform on the controller's behalf.
type Effect interface {
	effect()
}

// SubmitRequest asks the caller to run a Submitter and report back through
// Complete with the Outcome built by Outcome.
type SubmitRequest struct {
	Session string
	Token   uint64
	Draft   Draft
}

func (SubmitRequest) effect() {}

// Outcome pairs a submission result with the session and token it answers.
func (r SubmitRequest) Outcome(result SubmissionResult, err error) Outcome {
	return Outcome{Session: r.Session, Token: r.Token, Result: result, Err: err}
}

// Outcome is the result of a SubmitRequest.
type Outcome struct {
	Session string
	Token   uint64
	Result  SubmissionResult
	Err     error
}

// Snapshot is an immutable view of the wizard. Mutating it never affects
// the controller.
type Snapshot struct {
	SessionID   string
	Posting     Posting
	Step        Step
	Draft       Draft
	Errors      Errors
	UploadError string
	Submitting  bool
	Result      *SubmissionResult
	Closed      bool
}

// Submitted reports whether the confirmation view is showing.
func (s Snapshot) Submitted() bool { return s.Step == StepSubmitted }

// FirstStep reports whether Previous would be a no-op.
func (s Snapshot) FirstStep() bool { return s.Step == StepPersonal }

// LastStep reports whether Next would submit.
func (s Snapshot) LastStep() bool { return s.Step == LastStep }

// Controller owns every piece of wizard state for one application session.
// It is not safe for concurrent use; callers serialize Dispatch and Complete.
type Controller struct {
	sessionID string
	posting   Posting

	step       Step
	draft      Draft
	errors     Errors
	uploadErr  string
	submitting bool
	token      uint64
	result     *SubmissionResult
	closed     bool
}

// ControllerOption customizes a Controller.
type ControllerOption func(*Controller)

// WithSessionID fixes the session id (primarily for tests).
func WithSessionID(id string) ControllerOption {
	return func(c *Controller) {
		if id != "" {
			c.sessionID = id
		}
	}
}

// NewController starts a session at step one with an empty draft.
func NewController(posting Posting, opts ...ControllerOption) *Controller {
	c := &Controller{
		sessionID: uuid.NewString(),
		posting:   posting,
		step:      StepPersonal,
		draft:     Draft{Answers: map[int]string{}},
		errors:    Errors{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SessionID identifies this session in the journal.
func (c *Controller) SessionID() string {
	return c.sessionID
}

// Snapshot returns a deep copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	snap := Snapshot{
		SessionID:   c.sessionID,
		Posting:     c.posting,
		Step:        c.step,
		Draft:       c.draft.Clone(),
		Errors:      c.errors.Clone(),
		UploadError: c.uploadErr,
		Submitting:  c.submitting,
		Closed:      c.closed,
	}
	snap.Posting.Questions = append(snap.Posting.Questions[:0:0], c.posting.Questions...)
	if c.result != nil {
		res := *c.result
		snap.Result = &res
	}
	return snap
}

// Dispatch applies cmd and returns the new state plus an Effect, which is
// non-nil only when a submission must start. Commands aimed at a step other
// than the current one are ignored, as is everything after Close.
func (c *Controller) Dispatch(cmd Command) (Snapshot, Effect) {
	if c.closed {
		return c.Snapshot(), nil
	}
	if _, ok := cmd.(Close); ok {
		c.close()
		return c.Snapshot(), nil
	}
	if c.step == StepSubmitted {
		return c.Snapshot(), nil
	}
	var effect Effect
	switch cmd := cmd.(type) {
	case SetField:
		if c.step == StepPersonal {
			c.draft.Personal.set(cmd.Field, cmd.Value)
		}
	case BlurField:
		if c.step == StepPersonal {
			c.setError(string(cmd.Field), ValidateField(cmd.Field, c.draft))
		}
	case SetAnswer:
		if c.step == StepQuestions {
			c.draft.Answers[cmd.QuestionID] = cmd.Value
		}
	case BlurAnswer:
		if c.step == StepQuestions {
			if q, ok := c.question(cmd.QuestionID); ok {
				c.setError(QuestionKey(q.ID), ValidateAnswer(q, c.draft))
			}
		}
	case AttachResume:
		if c.step == StepResume {
			c.attach(cmd.File)
		}
	case RejectResume:
		if c.step == StepResume {
			c.uploadErr = cmd.Reason
		}
	case RemoveResume:
		if c.step == StepResume {
			c.draft.Resume = nil
			c.uploadErr = ""
			delete(c.errors, KeyResume)
		}
	case Next:
		effect = c.next()
	case Previous:
		c.previous()
	}
	return c.Snapshot(), effect
}

// Complete records the outcome of a SubmitRequest. Outcomes from another
// session, or whose token no longer matches the in-flight submission, are
// dropped.
func (c *Controller) Complete(out Outcome) Snapshot {
	if c.closed || !c.submitting || out.Session != c.sessionID || out.Token != c.token {
		return c.Snapshot()
	}
	c.submitting = false
	if out.Err != nil {
		c.errors[KeySubmit] = msgSubmitFailed
		return c.Snapshot()
	}
	res := out.Result
	c.result = &res
	c.step = StepSubmitted
	c.draft = Draft{Answers: map[int]string{}}
	c.errors = Errors{}
	c.uploadErr = ""
	return c.Snapshot()
}

func (c *Controller) next() Effect {
	if c.submitting {
		return nil
	}
	fresh := ValidateStep(c.step, c.draft, c.posting.Questions)
	delete(c.errors, KeySubmit)
	c.errors.merge(StepKeys(c.step, c.posting.Questions), fresh)
	if !fresh.Empty() {
		return nil
	}
	if c.step < LastStep {
		c.step++
		c.uploadErr = ""
		return nil
	}
	c.submitting = true
	c.token++
	return SubmitRequest{Session: c.sessionID, Token: c.token, Draft: c.draft.Clone()}
}

func (c *Controller) previous() {
	if c.submitting || c.step <= StepPersonal {
		return
	}
	c.step--
	c.errors = Errors{}
	c.uploadErr = ""
}

func (c *Controller) close() {
	c.closed = true
	c.submitting = false
	c.token++
	c.draft = Draft{Answers: map[int]string{}}
	c.errors = Errors{}
	c.uploadErr = ""
}

func (c *Controller) attach(ref FileRef) {
	if err := CheckResume(ref); err != nil {
		var fe *FileError
		if errors.As(err, &fe) {
			c.uploadErr = fe.Message
		} else {
			c.uploadErr = err.Error()
		}
		return
	}
	c.draft.Resume = &ref
	c.uploadErr = ""
	delete(c.errors, KeyResume)
}

func (c *Controller) setError(key, msg string) {
	if msg == "" {
		delete(c.errors, key)
		return
	}
	c.errors[key] = msg
}

func (c *Controller) question(id int) (catalog.Question, bool) {
	for _, q := range c.posting.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return catalog.Question{}, false
}
