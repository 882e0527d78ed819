package client

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/revathy-s/student-records-api/internal/types"
)

// Severity classifies a notification for rendering.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// notificationTTL is how long a notification stays visible before it is
// dismissed automatically.
const notificationTTL = 3 * time.Second

// Notification is a transient user-facing message.
type Notification struct {
	Message  string
	Severity Severity
}

// Draft is the in-progress create/edit form state. Fields are strings
// because that is what form inputs produce; Year is parsed at submit.
// A non-nil ID means the draft edits an existing record; nil means it
// creates a new one.
type Draft struct {
	ID    *int64
	Name  string
	RegNo string
	Dept  string
	Year  string
	Mail  string
}

// ConfirmFunc asks the user to confirm deleting the record with the
// given id. Returning false aborts the delete.
type ConfirmFunc func(id int64) bool

// Controller owns the client-side state: the authoritative copy of the
// last fetched record list, the filtered view derived from it, and the
// transient modal/draft/loading/notification state. All store mutations
// go through the Service, and every mutation is followed by a full
// Refresh — there are no optimistic or incremental updates.
//
// Safe for concurrent use; a renderer may read state from one goroutine
// while another drives operations.
type Controller struct {
	svc     Service
	confirm ConfirmFunc

	// dismissAfter is overridable in tests; defaults to notificationTTL.
	dismissAfter time.Duration

	mu        sync.Mutex
	all       []types.Record
	visible   []types.Record
	draft     Draft
	modalOpen bool
	loading   bool
	note      *Notification
	noteSeq   int
	noteTimer *time.Timer
}

// NewController builds a controller driving svc. confirm guards
// RequestDelete; a nil confirm denies every delete.
func NewController(svc Service, confirm ConfirmFunc) *Controller {
	return &Controller{
		svc:          svc,
		confirm:      confirm,
		dismissAfter: notificationTTL,
	}
}

// Refresh re-fetches the full record list. On success both the
// authoritative list and the visible view are replaced, clearing any
// active filter. On failure prior state is left untouched apart from
// the loading flag, and a failure notification is shown.
func (c *Controller) Refresh(ctx context.Context) {
	c.mu.Lock()
	c.loading = true
	c.mu.Unlock()

	records, err := c.svc.ListAll(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
	if err != nil {
		c.notifyLocked("Failed to fetch records", SeverityError)
		return
	}
	c.all = records
	c.visible = records
}

// ApplyFilter recomputes the visible view: records whose name, reg_no,
// dept, or mail contains query, case-insensitively. The authoritative
// list and the store are never touched.
func (c *Controller) ApplyFilter(query string) {
	q := strings.ToLower(query)

	c.mu.Lock()
	defer c.mu.Unlock()

	filtered := make([]types.Record, 0, len(c.all))
	for _, rec := range c.all {
		if strings.Contains(strings.ToLower(rec.Name), q) ||
			strings.Contains(strings.ToLower(rec.RegNo), q) ||
			strings.Contains(strings.ToLower(rec.Dept), q) ||
			strings.Contains(strings.ToLower(rec.Mail), q) {
			filtered = append(filtered, rec)
		}
	}
	c.visible = filtered
}

// BeginCreate resets the draft to empty values with no id and opens the
// modal.
func (c *Controller) BeginCreate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = Draft{}
	c.modalOpen = true
}

// BeginEdit copies rec, including its id, into the draft and opens the
// modal.
func (c *Controller) BeginEdit(rec types.Record) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := rec.ID
	c.draft = Draft{
		ID:    &id,
		Name:  rec.Name,
		RegNo: rec.RegNo,
		Dept:  rec.Dept,
		Year:  strconv.Itoa(rec.Year),
		Mail:  rec.Mail,
	}
	c.modalOpen = true
}

// CloseModal closes the modal without submitting. The draft is kept so
// reopening via BeginEdit/BeginCreate decides what to show next.
func (c *Controller) CloseModal() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.modalOpen = false
}

// UpdateDraftField merges one form field into the draft by its wire
// name. No validation happens here — that waits until Submit.
func (c *Controller) UpdateDraftField(field, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch field {
	case "name":
		c.draft.Name = value
	case "reg_no":
		c.draft.RegNo = value
	case "dept":
		c.draft.Dept = value
	case "year":
		c.draft.Year = value
	case "mail":
		c.draft.Mail = value
	}
}

// Submit validates the draft and sends it: Update when the draft has an
// id, Create otherwise. On success the draft is cleared, the modal
// closed, a success notification shown, and the list refreshed. On
// failure the modal stays open with the draft intact so the user can
// correct and retry.
func (c *Controller) Submit(ctx context.Context) {
	c.mu.Lock()
	draft := c.draft
	c.mu.Unlock()

	rec, msg := draft.toRecord()
	if msg != "" {
		c.notify(msg, SeverityError)
		return
	}

	var err error
	if draft.ID != nil {
		err = c.svc.Update(ctx, *draft.ID, rec)
	} else {
		_, err = c.svc.Create(ctx, rec)
	}
	if err != nil {
		c.notify("Failed to submit record", SeverityError)
		return
	}

	c.mu.Lock()
	c.draft = Draft{}
	c.modalOpen = false
	c.mu.Unlock()

	if draft.ID != nil {
		c.notify("Record updated", SeveritySuccess)
	} else {
		c.notify("Record added", SeveritySuccess)
	}
	c.Refresh(ctx)
}

// RequestDelete asks for confirmation, then deletes the record and
// refreshes the list. Denial does nothing. On failure only a
// notification is shown — the list is assumed unchanged and is not
// re-fetched.
func (c *Controller) RequestDelete(ctx context.Context, id int64) {
	if c.confirm == nil || !c.confirm(id) {
		return
	}

	if err := c.svc.Delete(ctx, id); err != nil {
		c.notify("Failed to delete record", SeverityError)
		return
	}

	c.notify("Record deleted", SeveritySuccess)
	c.Refresh(ctx)
}

// Records returns the filtered view the table renders from.
func (c *Controller) Records() []types.Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.visible
}

// All returns the authoritative last-fetched list.
func (c *Controller) All() []types.Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.all
}

// Draft returns the current form state.
func (c *Controller) Draft() Draft {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

// IsModalOpen reports whether the create/edit modal is showing.
func (c *Controller) IsModalOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.modalOpen
}

// IsLoading reports whether a Refresh is in flight.
func (c *Controller) IsLoading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Notification returns the active notification, or nil once dismissed.
func (c *Controller) Notification() *Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.note
}

func (c *Controller) notify(message string, severity Severity) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notifyLocked(message, severity)
}

// notifyLocked replaces the active notification and arms its dismiss
// timer. The sequence number guards against a stale timer clearing a
// newer notification.
func (c *Controller) notifyLocked(message string, severity Severity) {
	if c.noteTimer != nil {
		c.noteTimer.Stop()
	}
	c.note = &Notification{Message: message, Severity: severity}
	c.noteSeq++
	seq := c.noteSeq
	c.noteTimer = time.AfterFunc(c.dismissAfter, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.noteSeq == seq {
			c.note = nil
		}
	})
}

// draftValidate checks the email shape client-side; the service only
// re-checks presence, never format.
var draftValidate = validator.New()

// toRecord converts the draft into a wire record. The second return is
// a user-facing message when the draft is not submittable, empty when
// it is.
func (d Draft) toRecord() (types.Record, string) {
	if d.Name == "" || d.RegNo == "" || d.Dept == "" || d.Year == "" || d.Mail == "" {
		return types.Record{}, "All fields are required"
	}

	year, err := strconv.Atoi(d.Year)
	if err != nil || year < 1 || year > 4 {
		return types.Record{}, "Year must be a number between 1 and 4"
	}

	if err := draftValidate.Var(d.Mail, "required,email"); err != nil {
		return types.Record{}, "Mail must be a valid email address"
	}

	return types.Record{
		Name:  d.Name,
		RegNo: d.RegNo,
		Dept:  d.Dept,
		Year:  year,
		Mail:  d.Mail,
	}, ""
}
