package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/jobboard/internal/application"
	"github.com/kingrea/jobboard/internal/catalog"
)

const (
	modalInner      = modalWidth - 6
	pickerHeight    = 8
	unreadableFile  = "Could not read that file. Check the path and try again."
	personalInputs  = 4
	coverLetterRows = 4
)

var fieldLabels = map[application.Field]string{
	application.FieldFullName:    "Full Name *",
	application.FieldEmail:       "Email Address *",
	application.FieldPhone:       "Phone Number *",
	application.FieldLinkedIn:    "LinkedIn Profile",
	application.FieldCoverLetter: "Cover Letter",
}

var fieldPlaceholders = map[application.Field]string{
	application.FieldFullName:    "John Doe",
	application.FieldEmail:       "john@example.com",
	application.FieldPhone:       "+1 (555) 123-4567",
	application.FieldLinkedIn:    "https://linkedin.com/in/johndoe",
	application.FieldCoverLetter: "Tell us why you're interested in this position...",
}

// applyView is the application wizard modal. All wizard state lives in the
// controller; the widgets only mirror it.
type applyView struct {
	app  *App
	ctrl *application.Controller
	snap application.Snapshot

	personal []textinput.Model
	cover    textarea.Model
	path     textinput.Model
	picker   filepicker.Model
	picking  bool
	answers  []textarea.Model
	focus    int
}

func newApplyView(app *App, job catalog.Job) (*applyView, tea.Cmd) {
	ctrl := application.NewController(application.PostingFor(app.catalog, job))
	v := &applyView{
		app:  app,
		ctrl: ctrl,
		snap: ctrl.Snapshot(),
	}
	for _, field := range application.PersonalFields[:personalInputs] {
		input := textinput.New()
		input.Prompt = ""
		input.Placeholder = fieldPlaceholders[field]
		input.Width = modalInner - 4
		input.Cursor.SetMode(app.cursorMode)
		v.personal = append(v.personal, input)
	}
	v.cover = newAnswerArea(app, fieldPlaceholders[application.FieldCoverLetter])
	v.cover.CharLimit = application.MaxCoverLetter

	v.path = textinput.New()
	v.path.Prompt = "📎 "
	v.path.Placeholder = "Paste or drop a file path, then press enter"
	v.path.Width = modalInner - 6
	v.path.Cursor.SetMode(app.cursorMode)

	v.picker = filepicker.New()
	v.picker.AllowedTypes = application.ResumeExtensions
	v.picker.CurrentDirectory = app.config.UploadStartDir()
	v.picker.Height = pickerHeight

	for range v.snap.Posting.Questions {
		v.answers = append(v.answers, newAnswerArea(app, "Your answer"))
	}
	return v, v.focusCurrent()
}

func newAnswerArea(app *App, placeholder string) textarea.Model {
	area := textarea.New()
	area.Placeholder = placeholder
	area.ShowLineNumbers = false
	area.SetWidth(modalInner - 2)
	area.SetHeight(coverLetterRows)
	area.Cursor.SetMode(app.cursorMode)
	return area
}

// focusables is the number of tab stops on the current step.
func (v *applyView) focusables() int {
	switch v.snap.Step {
	case application.StepPersonal:
		return len(application.PersonalFields)
	case application.StepResume:
		return 1
	case application.StepQuestions:
		return len(v.answers)
	}
	return 0
}

func (v *applyView) blurAll() {
	for i := range v.personal {
		v.personal[i].Blur()
	}
	v.cover.Blur()
	v.path.Blur()
	for i := range v.answers {
		v.answers[i].Blur()
	}
}

func (v *applyView) focusCurrent() tea.Cmd {
	v.blurAll()
	switch v.snap.Step {
	case application.StepPersonal:
		if v.focus < personalInputs {
			return v.personal[v.focus].Focus()
		}
		return v.cover.Focus()
	case application.StepResume:
		return v.path.Focus()
	case application.StepQuestions:
		if v.focus < len(v.answers) {
			return v.answers[v.focus].Focus()
		}
	}
	return nil
}

func (v *applyView) dispatch(cmd application.Command) application.Effect {
	snap, effect := v.ctrl.Dispatch(cmd)
	v.snap = snap
	return effect
}

// blurCurrent validates the field being left.
func (v *applyView) blurCurrent() {
	switch v.snap.Step {
	case application.StepPersonal:
		v.dispatch(application.BlurField{Field: application.PersonalFields[v.focus]})
	case application.StepQuestions:
		if v.focus < len(v.answers) {
			v.dispatch(application.BlurAnswer{QuestionID: v.snap.Posting.Questions[v.focus].ID})
		}
	}
}

func (v *applyView) moveFocus(delta int) tea.Cmd {
	n := v.focusables()
	if n == 0 {
		return nil
	}
	v.blurCurrent()
	v.focus = (v.focus + delta + n) % n
	return v.focusCurrent()
}

func (v *applyView) complete(out application.Outcome) {
	v.snap = v.ctrl.Complete(out)
	if v.snap.Submitted() {
		v.blurAll()
	}
}

func (v *applyView) busy() bool {
	return v.snap.Submitting
}

func (v *applyView) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		v.picker, cmd = v.picker.Update(msg)
		return tea.Batch(cmd, v.updateFocused(msg))
	}
	if v.snap.Submitted() {
		if key.Matches(keyMsg, keys.Back) || keyMsg.Type == tea.KeyEnter {
			return v.app.closeApply()
		}
		return nil
	}
	if v.picking {
		return v.updatePicker(keyMsg)
	}
	switch {
	case key.Matches(keyMsg, keys.Back):
		return v.app.closeApply()
	case key.Matches(keyMsg, keys.Submit):
		return v.next()
	case key.Matches(keyMsg, keys.Previous):
		if v.snap.Submitting || v.snap.FirstStep() {
			return nil
		}
		v.dispatch(application.Previous{})
		v.focus = 0
		v.app.logInfo("Application back to step %d", v.snap.Step)
		return v.focusCurrent()
	}
	if v.snap.Submitting {
		return nil
	}
	switch {
	case key.Matches(keyMsg, keys.Next):
		return v.moveFocus(1)
	case key.Matches(keyMsg, keys.Prev):
		return v.moveFocus(-1)
	}
	if v.snap.Step == application.StepResume {
		switch {
		case key.Matches(keyMsg, keys.Browse):
			v.picking = true
			return v.picker.Init()
		case key.Matches(keyMsg, keys.Remove):
			v.dispatch(application.RemoveResume{})
			v.app.logInfo("Resume removed")
			return nil
		case keyMsg.Type == tea.KeyEnter:
			v.attach(v.path.Value())
			return nil
		}
	}
	return v.updateFocused(msg)
}

func (v *applyView) next() tea.Cmd {
	from := v.snap.Step
	effect := v.dispatch(application.Next{})
	if req, ok := effect.(application.SubmitRequest); ok {
		v.blurAll()
		v.app.logInfo("Submitting application for job %d (session %s)", v.snap.Posting.JobID, v.snap.SessionID)
		return v.app.submit(req)
	}
	if v.snap.Step == from {
		v.app.logWarn("Step %d has %d validation error(s)", from, len(v.snap.Errors))
		return nil
	}
	v.focus = 0
	v.app.logInfo("Application advanced to step %d", v.snap.Step)
	return v.focusCurrent()
}

// updateFocused feeds msg to the focused widget and mirrors any change into
// the controller.
func (v *applyView) updateFocused(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch v.snap.Step {
	case application.StepPersonal:
		field := application.PersonalFields[v.focus]
		if v.focus < personalInputs {
			v.personal[v.focus], cmd = v.personal[v.focus].Update(msg)
			if value := v.personal[v.focus].Value(); value != v.snap.Draft.Personal.Get(field) {
				v.dispatch(application.SetField{Field: field, Value: value})
			}
		} else {
			v.cover, cmd = v.cover.Update(msg)
			if value := v.cover.Value(); value != v.snap.Draft.Personal.Get(field) {
				v.dispatch(application.SetField{Field: field, Value: value})
			}
		}
	case application.StepResume:
		v.path, cmd = v.path.Update(msg)
	case application.StepQuestions:
		if v.focus < len(v.answers) {
			id := v.snap.Posting.Questions[v.focus].ID
			v.answers[v.focus], cmd = v.answers[v.focus].Update(msg)
			if value := v.answers[v.focus].Value(); value != v.snap.Draft.Answer(id) {
				v.dispatch(application.SetAnswer{QuestionID: id, Value: value})
			}
		}
	}
	return cmd
}

func (v *applyView) updatePicker(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, keys.Back) {
		v.picking = false
		return nil
	}
	var cmd tea.Cmd
	v.picker, cmd = v.picker.Update(msg)
	if ok, path := v.picker.DidSelectFile(msg); ok {
		v.picking = false
		v.attach(path)
	} else if ok, path := v.picker.DidSelectDisabledFile(msg); ok {
		v.picking = false
		v.attach(path)
	}
	return cmd
}

// attach offers the file at path to the uploader and clears the path input.
// Unreadable paths are reported without touching an accepted resume.
func (v *applyView) attach(path string) {
	if strings.TrimSpace(path) == "" {
		return
	}
	v.path.SetValue("")
	ref, err := application.FileRefFromPath(path)
	if err != nil {
		v.app.logWarn("Resume rejected: %v", err)
		v.dispatch(application.RejectResume{Reason: unreadableFile})
		return
	}
	v.dispatch(application.AttachResume{File: ref})
	if v.snap.UploadError != "" {
		v.app.logWarn("Resume %s rejected: %s", ref.Name, v.snap.UploadError)
		return
	}
	v.app.logInfo("Resume attached: %s (%s)", ref.Name, application.FormatFileSize(ref.Size))
}

func (v *applyView) View() string {
	header := titleStyle.Render("Apply for "+v.snap.Posting.Title) + "\n" +
		mutedStyle.Render(strings.Join(nonEmpty([]string{v.snap.Posting.Company, v.snap.Posting.Location}), " · "))
	if v.snap.Submitted() {
		return modalStyle.Render(header + "\n\n" + v.renderConfirmation())
	}
	sections := []string{header, "", v.renderSteps(), ""}
	switch v.snap.Step {
	case application.StepPersonal:
		sections = append(sections, v.renderPersonal())
	case application.StepResume:
		sections = append(sections, v.renderResume())
	case application.StepQuestions:
		sections = append(sections, v.renderQuestions())
	}
	if msg := v.snap.Errors.Get(application.KeySubmit); msg != "" {
		sections = append(sections, "", errorStyle.Render("⚠ "+msg))
	}
	sections = append(sections, "", v.renderActions())
	return modalStyle.Render(strings.Join(sections, "\n"))
}

func (v *applyView) renderSteps() string {
	var parts []string
	for _, step := range application.Steps() {
		var marker string
		switch {
		case step.Number < v.snap.Step:
			marker = successStyle.Render("✓ " + step.Title)
		case step.Number == v.snap.Step:
			marker = accentStyle.Render(fmt.Sprintf("%d %s", step.Number, step.Title))
		default:
			marker = mutedStyle.Render(fmt.Sprintf("%d %s", step.Number, step.Title))
		}
		parts = append(parts, marker)
	}
	return strings.Join(parts, mutedStyle.Render(" ── "))
}

func (v *applyView) fieldError(key string) string {
	if msg := v.snap.Errors.Get(key); msg != "" {
		return "\n" + errorStyle.Render(msg)
	}
	return ""
}

func (v *applyView) renderPersonal() string {
	var blocks []string
	for i, field := range application.PersonalFields[:personalInputs] {
		style := panelStyle
		if v.focus == i {
			style = focusedPanelStyle
		}
		blocks = append(blocks,
			hintStyle.Render(fieldLabels[field])+"\n"+
				style.Width(modalInner-2).Render(v.personal[i].View())+
				v.fieldError(string(field)))
	}
	count := mutedStyle.Render(fmt.Sprintf("%d/%d characters", len([]rune(v.cover.Value())), application.MaxCoverLetter))
	blocks = append(blocks, hintStyle.Render(fieldLabels[application.FieldCoverLetter])+"\n"+v.cover.View()+"\n"+count)
	return strings.Join(blocks, "\n")
}

func (v *applyView) renderResume() string {
	lines := []string{
		hintStyle.Render("Resume/CV *"),
		mutedStyle.Render("PDF, DOC, or DOCX up to 5MB"),
		"",
	}
	if resume := v.snap.Draft.Resume; resume != nil {
		lines = append(lines,
			successStyle.Render("📄 "+resume.Name)+" "+mutedStyle.Render(application.FormatFileSize(resume.Size)),
			hintStyle.Render("ctrl+x remove · paste another path to replace"),
			"",
		)
	}
	if v.picking {
		lines = append(lines,
			accentStyle.Render("Browse: "+truncate(v.picker.CurrentDirectory, modalInner-8)),
			v.picker.View(),
			hintStyle.Render("enter select · esc close browser"),
		)
	} else {
		lines = append(lines,
			focusedPanelStyle.Width(modalInner-2).Render(v.path.View()),
			hintStyle.Render("ctrl+o browse files"),
		)
	}
	if v.snap.UploadError != "" {
		lines = append(lines, errorStyle.Render(v.snap.UploadError))
	}
	if msg := v.snap.Errors.Get(application.KeyResume); msg != "" {
		lines = append(lines, errorStyle.Render(msg))
	}
	return strings.Join(lines, "\n")
}

func (v *applyView) renderQuestions() string {
	if len(v.answers) == 0 {
		return mutedStyle.Render("No additional questions for this position.")
	}
	var blocks []string
	for i, q := range v.snap.Posting.Questions {
		label := q.Text
		if q.Required {
			label += " *"
		}
		area := v.answers[i].View()
		if v.focus == i {
			area = lipgloss.NewStyle().BorderLeft(true).BorderStyle(lipgloss.NormalBorder()).BorderForeground(colorAccent).Render(area)
		}
		blocks = append(blocks, hintStyle.Render(label)+"\n"+area+v.fieldError(application.QuestionKey(q.ID)))
	}
	return strings.Join(blocks, "\n\n")
}

func (v *applyView) renderActions() string {
	back := buttonStyle.Render("‹ Back (ctrl+p)")
	if v.snap.FirstStep() || v.snap.Submitting {
		back = disabledButtonStyle.Render("‹ Back (ctrl+p)")
	}
	var next string
	switch {
	case v.snap.Submitting:
		next = disabledButtonStyle.Render(v.app.spinner.View() + " Submitting...")
	case v.snap.LastStep():
		next = primaryButtonStyle.Render("Submit Application (ctrl+n)")
	default:
		next = primaryButtonStyle.Render("Next › (ctrl+n)")
	}
	cancel := buttonStyle.Render("Cancel (esc)")
	return lipgloss.JoinHorizontal(lipgloss.Top, back, " ", cancel, " ", next)
}

func (v *applyView) renderConfirmation() string {
	ref := ""
	if v.snap.Result != nil {
		ref = v.snap.Result.ApplicationRef
	}
	lines := []string{
		successStyle.Render("✓ Application Submitted Successfully!"),
		"",
		mutedStyle.Render(fmt.Sprintf("Thank you for applying to %s at %s. We've received your application and will review it shortly.", v.snap.Posting.Title, v.snap.Posting.Company)),
		"",
		hintStyle.Render("Application reference: ") + accentStyle.Render(ref),
		"",
		titleStyle.Render("What happens next?"),
		"  " + bullet + " You'll receive a confirmation email shortly",
		"  " + bullet + " The hiring team will review your application",
		"  " + bullet + " If selected, you'll be contacted for an interview",
		"",
		primaryButtonStyle.Render("Close (enter)"),
	}
	return lipgloss.NewStyle().Width(modalInner).Render(strings.Join(lines, "\n"))
}
