package client

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revathy-s/student-records-api/internal/types"
)

// fakeService is an in-memory Service with injectable failures.
type fakeService struct {
	records []types.Record
	nextID  int64

	listErr   error
	createErr error
	updateErr error
	deleteErr error

	listCalls int
}

func (f *fakeService) ListAll(context.Context) ([]types.Record, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]types.Record, len(f.records))
	copy(out, f.records)
	return out, nil
}

func (f *fakeService) Create(_ context.Context, rec types.Record) (int64, error) {
	if f.createErr != nil {
		return 0, f.createErr
	}
	f.nextID++
	rec.ID = f.nextID
	f.records = append(f.records, rec)
	return rec.ID, nil
}

func (f *fakeService) Update(_ context.Context, id int64, rec types.Record) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	for i := range f.records {
		if f.records[i].ID == id {
			rec.ID = id
			f.records[i] = rec
		}
	}
	return nil
}

func (f *fakeService) Delete(_ context.Context, id int64) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	kept := f.records[:0]
	for _, rec := range f.records {
		if rec.ID != id {
			kept = append(kept, rec)
		}
	}
	f.records = kept
	return nil
}

func confirmAlways(int64) bool { return true }
func confirmNever(int64) bool  { return false }

func newTestController(svc Service, confirm ConfirmFunc) *Controller {
	c := NewController(svc, confirm)
	c.dismissAfter = 20 * time.Millisecond
	return c
}

func seedRecords() []types.Record {
	return []types.Record{
		{ID: 1, Name: "Asha", RegNo: "R100", Dept: "Engineering", Year: 2, Mail: "a@x.com"},
		{ID: 2, Name: "Binu", RegNo: "R200", Dept: "Arts", Year: 3, Mail: "b@y.com"},
	}
}

func TestRefreshReplacesBothListsAndClearsFilter(t *testing.T) {
	assert := assert.New(t)
	svc := &fakeService{records: seedRecords(), nextID: 2}
	c := newTestController(svc, confirmAlways)

	c.Refresh(context.Background())
	assert.Len(c.All(), 2)
	assert.Len(c.Records(), 2)
	assert.False(c.IsLoading())

	c.ApplyFilter("arts")
	assert.Len(c.Records(), 1)

	// A refresh drops the active filter.
	c.Refresh(context.Background())
	assert.Len(c.Records(), 2)
}

func TestRefreshFailureLeavesStateAndNotifies(t *testing.T) {
	assert := assert.New(t)
	svc := &fakeService{records: seedRecords(), nextID: 2}
	c := newTestController(svc, confirmAlways)

	c.Refresh(context.Background())
	require.Len(t, c.All(), 2)

	svc.listErr = errors.New("boom")
	c.Refresh(context.Background())

	assert.Len(c.All(), 2, "prior list must survive a failed refresh")
	assert.False(c.IsLoading())
	note := c.Notification()
	require.NotNil(t, note)
	assert.Equal(SeverityError, note.Severity)
}

func TestApplyFilterMatchesAnyFieldCaseInsensitively(t *testing.T) {
	svc := &fakeService{records: seedRecords(), nextID: 2}
	c := newTestController(svc, confirmAlways)
	c.Refresh(context.Background())

	cases := []struct {
		name  string
		query string
		want  []int64
	}{
		{"dept substring", "eng", []int64{1}},
		{"dept other", "arts", []int64{2}},
		{"name", "ASHA", []int64{1}},
		{"reg_no", "r200", []int64{2}},
		{"mail", "b@y", []int64{2}},
		{"no match", "zzz", []int64{}},
		{"empty query matches all", "", []int64{1, 2}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			c.ApplyFilter(tc.query)

			got := make([]int64, 0)
			for _, rec := range c.Records() {
				got = append(got, rec.ID)
			}
			assert.Equal(tc.want, got)

			// The authoritative list is never touched by filtering.
			assert.Len(c.All(), 2)
		})
	}
}

func TestBeginCreateResetsDraft(t *testing.T) {
	assert := assert.New(t)
	c := newTestController(&fakeService{}, confirmAlways)

	c.UpdateDraftField("name", "leftover")
	c.BeginCreate()

	assert.True(c.IsModalOpen())
	assert.Equal(Draft{}, c.Draft())
}

func TestBeginEditCopiesRecordIntoDraft(t *testing.T) {
	assert := assert.New(t)
	c := newTestController(&fakeService{}, confirmAlways)

	c.BeginEdit(types.Record{ID: 7, Name: "Asha", RegNo: "R100", Dept: "CS", Year: 2, Mail: "a@x.com"})

	assert.True(c.IsModalOpen())
	draft := c.Draft()
	require.NotNil(t, draft.ID)
	assert.Equal(int64(7), *draft.ID)
	assert.Equal("Asha", draft.Name)
	assert.Equal("R100", draft.RegNo)
	assert.Equal("CS", draft.Dept)
	assert.Equal("2", draft.Year)
	assert.Equal("a@x.com", draft.Mail)
}

func TestUpdateDraftFieldMergesSingleField(t *testing.T) {
	assert := assert.New(t)
	c := newTestController(&fakeService{}, confirmAlways)

	c.BeginCreate()
	c.UpdateDraftField("name", "Asha")
	c.UpdateDraftField("year", "2")

	draft := c.Draft()
	assert.Equal("Asha", draft.Name)
	assert.Equal("2", draft.Year)
	assert.Empty(draft.Dept)
}

func fillDraft(c *Controller) {
	c.UpdateDraftField("name", "Asha")
	c.UpdateDraftField("reg_no", "R100")
	c.UpdateDraftField("dept", "CS")
	c.UpdateDraftField("year", "2")
	c.UpdateDraftField("mail", "a@x.com")
}

func TestSubmitCreatesWhenDraftHasNoID(t *testing.T) {
	assert := assert.New(t)
	svc := &fakeService{}
	c := newTestController(svc, confirmAlways)

	c.BeginCreate()
	fillDraft(c)
	c.Submit(context.Background())

	assert.False(c.IsModalOpen())
	assert.Equal(Draft{}, c.Draft())
	require.Len(t, svc.records, 1)
	assert.Equal("Asha", svc.records[0].Name)
	// Every successful mutation triggers a full refresh.
	assert.Len(c.All(), 1)
	note := c.Notification()
	require.NotNil(t, note)
	assert.Equal(SeveritySuccess, note.Severity)
}

func TestSubmitUpdatesWhenDraftHasID(t *testing.T) {
	assert := assert.New(t)
	svc := &fakeService{records: seedRecords(), nextID: 2}
	c := newTestController(svc, confirmAlways)
	c.Refresh(context.Background())

	c.BeginEdit(svc.records[0])
	c.UpdateDraftField("dept", "ECE")
	c.Submit(context.Background())

	assert.False(c.IsModalOpen())
	assert.Equal("ECE", svc.records[0].Dept)
	assert.Equal("Asha", svc.records[0].Name)
}

func TestSubmitValidationFailuresKeepModalOpen(t *testing.T) {
	cases := []struct {
		name  string
		field string
		value string
	}{
		{"empty field", "name", ""},
		{"year not a number", "year", "two"},
		{"year out of range", "year", "9"},
		{"mail not an email", "mail", "not-an-email"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			svc := &fakeService{}
			c := newTestController(svc, confirmAlways)

			c.BeginCreate()
			fillDraft(c)
			c.UpdateDraftField(tc.field, tc.value)
			c.Submit(context.Background())

			assert.True(c.IsModalOpen(), "modal must stay open for correction")
			assert.Empty(svc.records, "nothing may reach the service")
			note := c.Notification()
			require.NotNil(t, note)
			assert.Equal(SeverityError, note.Severity)
		})
	}
}

func TestSubmitServiceFailureKeepsDraft(t *testing.T) {
	assert := assert.New(t)
	svc := &fakeService{createErr: errors.New("boom")}
	c := newTestController(svc, confirmAlways)

	c.BeginCreate()
	fillDraft(c)
	c.Submit(context.Background())

	assert.True(c.IsModalOpen())
	assert.Equal("Asha", c.Draft().Name, "draft must survive for retry")
	note := c.Notification()
	require.NotNil(t, note)
	assert.Equal(SeverityError, note.Severity)
}

func TestRequestDeleteHonoursConfirmation(t *testing.T) {
	assert := assert.New(t)
	svc := &fakeService{records: seedRecords(), nextID: 2}
	c := newTestController(svc, confirmNever)

	c.RequestDelete(context.Background(), 1)
	assert.Len(svc.records, 2, "denied confirmation must do nothing")
	assert.Nil(c.Notification())
}

func TestRequestDeleteRefreshesOnSuccess(t *testing.T) {
	assert := assert.New(t)
	svc := &fakeService{records: seedRecords(), nextID: 2}
	c := newTestController(svc, confirmAlways)
	c.Refresh(context.Background())

	c.RequestDelete(context.Background(), 1)

	assert.Len(svc.records, 1)
	assert.Len(c.All(), 1)
	note := c.Notification()
	require.NotNil(t, note)
	assert.Equal(SeveritySuccess, note.Severity)
}

func TestRequestDeleteFailureDoesNotRefresh(t *testing.T) {
	assert := assert.New(t)
	svc := &fakeService{records: seedRecords(), nextID: 2}
	c := newTestController(svc, confirmAlways)
	c.Refresh(context.Background())
	listCallsBefore := svc.listCalls

	svc.deleteErr = errors.New("boom")
	c.RequestDelete(context.Background(), 1)

	assert.Equal(listCallsBefore, svc.listCalls, "failed delete must not re-fetch")
	note := c.Notification()
	require.NotNil(t, note)
	assert.Equal(SeverityError, note.Severity)
}

func TestNotificationAutoDismisses(t *testing.T) {
	assert := assert.New(t)
	svc := &fakeService{listErr: errors.New("boom")}
	c := newTestController(svc, confirmAlways)

	c.Refresh(context.Background())
	require.NotNil(t, c.Notification())

	assert.Eventually(func() bool {
		return c.Notification() == nil
	}, time.Second, 5*time.Millisecond)
}

func TestNewNotificationOutlivesStaleDismissTimer(t *testing.T) {
	assert := assert.New(t)
	svc := &fakeService{listErr: errors.New("boom")}
	c := newTestController(svc, confirmAlways)
	c.dismissAfter = 60 * time.Millisecond

	c.Refresh(context.Background())
	first := c.Notification()
	require.NotNil(t, first)

	// Replace the notification just before the first timer fires; the
	// stale timer must not clear the replacement early.
	time.Sleep(40 * time.Millisecond)
	c.notify("second", SeverityError)

	time.Sleep(25 * time.Millisecond)
	note := c.Notification()
	require.NotNil(t, note)
	assert.Equal("second", note.Message)
}
