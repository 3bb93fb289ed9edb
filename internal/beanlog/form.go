package beanlog

import "time"

// DateLayout is the date-only layout used by form date fields.
const DateLayout = "2006-01-02"

// SaveFailedMessage is shown when the store rejects a submit.
const SaveFailedMessage = "failed to save, please try again"

// Mode selects between creating a new record and editing an existing one.
type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "create"
}

// State is the full state of an open create/edit form.
//
// Pending is non-nil only while Saving: it is the normalized record the
// caller must write. Completed is set after a successful save, at which point
// the form has already been reset to fresh create-mode defaults.
type State struct {
	Mode      Mode
	Form      Record
	Errors    ValidationResult
	Saving    bool
	Pending   *Record
	SaveError string
	Completed bool
	SavedID   string

	today string
}

// Event is an input to Transition.
type Event interface{ event() }

// SetText edits a text or date field.
type SetText struct {
	Field string
	Value string
}

// SetNumber edits price or volume from raw user input.
type SetNumber struct {
	Field string
	Raw   string
}

// SetBlend toggles the blend flag.
type SetBlend struct{ Value bool }

// Submit requests validation and, when valid, a write.
type Submit struct{}

// SaveSucceeded reports that the pending write was confirmed by the store.
type SaveSucceeded struct{ ID string }

// SaveFailed reports that the pending write was rejected.
type SaveFailed struct{ Err error }

func (SetText) event()       {}
func (SetNumber) event()     {}
func (SetBlend) event()      {}
func (Submit) event()        {}
func (SaveSucceeded) event() {}
func (SaveFailed) event()    {}

// NewCreateState returns an empty form owned by owner with the purchase date
// defaulted to today.
func NewCreateState(owner string, today time.Time) State {
	day := today.Format(DateLayout)
	return State{
		Mode: ModeCreate,
		Form: Record{
			Owner:        owner,
			PurchaseDate: day,
		},
		today: day,
	}
}

// NewEditState returns a form pre-filled from an existing record. ID and
// CreatedAt are kept verbatim; date fields are cut to their date part.
func NewEditState(r Record, today time.Time) State {
	day := today.Format(DateLayout)
	r.PurchaseDate = DateOnly(r.PurchaseDate)
	if r.PurchaseDate == "" {
		r.PurchaseDate = day
	}
	r.RoastDate = DateOnly(r.RoastDate)
	r.ExpDate = DateOnly(r.ExpDate)
	return State{Mode: ModeEdit, Form: r, today: day}
}

// DateOnly returns the YYYY-MM-DD prefix of an ISO-8601 value.
func DateOnly(v string) string {
	if len(v) > len(DateLayout) {
		return v[:len(DateLayout)]
	}
	return v
}

// Transition applies e to s and returns the resulting state. It never
// performs I/O.
func Transition(s State, e Event) State {
	switch ev := e.(type) {
	case SetText:
		p := s.Form.textField(ev.Field)
		if p == nil {
			return s
		}
		*p = Clip(ev.Field, ev.Value)
		if s.Errors.Has(ev.Field) && !fieldMissing(s.Form, ev.Field) {
			s.Errors = s.Errors.without(ev.Field)
		}
	case SetNumber:
		n := SanitizeDigits(ev.Raw)
		switch ev.Field {
		case FieldPrice:
			s.Form.Price = n
		case FieldVolume:
			s.Form.Volume = n
		}
	case SetBlend:
		s.Form.IsBlend = ev.Value
	case Submit:
		if s.Saving {
			return s
		}
		s.Completed = false
		s.SaveError = ""
		s.Errors = Validate(s.Form)
		if !s.Errors.OK() {
			s.Pending = nil
			return s
		}
		p := Normalize(s.Form)
		s.Pending = &p
		s.Saving = true
	case SaveSucceeded:
		if !s.Saving {
			return s
		}
		next := State{
			Mode:      ModeCreate,
			Form:      Record{Owner: s.Form.Owner, PurchaseDate: s.today},
			Completed: true,
			SavedID:   ev.ID,
			today:     s.today,
		}
		return next
	case SaveFailed:
		if !s.Saving {
			return s
		}
		s.Saving = false
		s.Pending = nil
		s.SaveError = SaveFailedMessage
	}
	return s
}

// without returns a copy of v with field removed.
func (v ValidationResult) without(field string) ValidationResult {
	out := ValidationResult{}
	for _, f := range v.failed {
		if f != field {
			out.failed = append(out.failed, f)
		}
	}
	return out
}
