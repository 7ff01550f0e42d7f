package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"eventpass/internal/domain"

	"github.com/google/uuid"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeRegistrationRepo implements domain.RegistrationRepository in memory.
type fakeRegistrationRepo struct {
	mu         sync.Mutex
	byID       map[string]*domain.Registration
	createErrs []error
	deleteErrs map[string]error
	listErr    error
	setQRErr   error
	// markCheckedIn, when set, replaces the conditional update.
	markCheckedIn func(id string, at time.Time) (bool, error)
	writes        int
	creates       int
}

func newFakeRegistrationRepo(regs ...*domain.Registration) *fakeRegistrationRepo {
	f := &fakeRegistrationRepo{byID: map[string]*domain.Registration{}, deleteErrs: map[string]error{}}
	for _, r := range regs {
		if r.ID == "" {
			r.ID = uuid.NewString()
		}
		f.byID[r.ID] = r
	}
	return f
}

func (f *fakeRegistrationRepo) Create(ctx context.Context, r *domain.Registration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates++
	if len(f.createErrs) > 0 {
		err := f.createErrs[0]
		f.createErrs = f.createErrs[1:]
		if err != nil {
			return err
		}
	}
	for _, existing := range f.byID {
		if strings.EqualFold(existing.Email, r.Email) {
			return domain.ErrDuplicateEmail
		}
	}
	f.writes++
	r.ID = uuid.NewString()
	cp := *r
	f.byID[r.ID] = &cp
	return nil
}

func (f *fakeRegistrationRepo) SetQRCodeURL(ctx context.Context, id, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setQRErr != nil {
		return f.setQRErr
	}
	r, ok := f.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	f.writes++
	r.QRCodeURL = url
	return nil
}

func (f *fakeRegistrationRepo) GetByID(ctx context.Context, id string) (*domain.Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeRegistrationRepo) find(match func(r *domain.Registration) bool) (*domain.Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.byID {
		if match(r) {
			cp := *r
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeRegistrationRepo) GetByAttendeeCode(ctx context.Context, code string) (*domain.Registration, error) {
	return f.find(func(r *domain.Registration) bool { return r.AttendeeCode == code })
}

func (f *fakeRegistrationRepo) GetByEmail(ctx context.Context, email string) (*domain.Registration, error) {
	return f.find(func(r *domain.Registration) bool { return strings.EqualFold(r.Email, email) })
}

func (f *fakeRegistrationRepo) ListAll(ctx context.Context) ([]*domain.Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	list := make([]*domain.Registration, 0, len(f.byID))
	for _, r := range f.byID {
		cp := *r
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}

func (f *fakeRegistrationRepo) MarkCheckedIn(ctx context.Context, id string, at time.Time) (bool, error) {
	if f.markCheckedIn != nil {
		return f.markCheckedIn(id, at)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.byID[id]
	if !ok || r.CheckedIn {
		return false, nil
	}
	f.writes++
	r.CheckedIn = true
	t := at
	r.CheckInTime = &t
	return true, nil
}

func (f *fakeRegistrationRepo) MarkCardPrinted(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	f.writes++
	r.CardPrinted = true
	return nil
}

func (f *fakeRegistrationRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.deleteErrs[id]; err != nil {
		return err
	}
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	f.writes++
	delete(f.byID, id)
	return nil
}

// fakeNotificationRepo implements domain.NotificationRepository in memory.
type fakeNotificationRepo struct {
	mu        sync.Mutex
	list      []*domain.Notification
	createErr error
	deleteErr error
	nextID    int
}

func (f *fakeNotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	n.ID = fmt.Sprintf("n-%d", f.nextID)
	f.list = append(f.list, n)
	return nil
}

func (f *fakeNotificationRepo) ListLatest(ctx context.Context, limit int) ([]*domain.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*domain.Notification, len(f.list))
	copy(out, f.list)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeNotificationRepo) MarkRead(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range f.list {
		if n.ID == id {
			n.IsRead = true
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeNotificationRepo) MarkAllRead(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, item := range f.list {
		if !item.IsRead {
			item.IsRead = true
			n++
		}
	}
	return n, nil
}

func (f *fakeNotificationRepo) DeleteByAttendee(ctx context.Context, registrationID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return 0, f.deleteErr
	}
	kept := f.list[:0]
	var removed int64
	for _, n := range f.list {
		if n.Metadata["attendeeId"] == registrationID {
			removed++
			continue
		}
		kept = append(kept, n)
	}
	f.list = kept
	return removed, nil
}

// fakeDocumentRepo implements domain.DocumentRepository in memory.
type fakeDocumentRepo struct {
	mu     sync.Mutex
	docs   map[string]domain.Document
	getErr error
	sets   int
}

func newFakeDocumentRepo() *fakeDocumentRepo {
	return &fakeDocumentRepo{docs: map[string]domain.Document{}}
}

func (f *fakeDocumentRepo) Get(ctx context.Context, collection, id string) (domain.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	doc, ok := f.docs[collection+"/"+id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := domain.Document{}
	for k, v := range doc {
		out[k] = v
	}
	return out, nil
}

func (f *fakeDocumentRepo) Set(ctx context.Context, collection, id string, doc domain.Document, merge bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sets++
	key := collection + "/" + id
	if merge {
		if cur, ok := f.docs[key]; ok {
			for k, v := range doc {
				cur[k] = v
			}
			return nil
		}
	}
	stored := domain.Document{}
	for k, v := range doc {
		stored[k] = v
	}
	f.docs[key] = stored
	return nil
}

// fakeSettings implements domain.SettingsReader.
type fakeSettings struct {
	general   *domain.GeneralSettings
	interests []string
	err       error
}

func (f *fakeSettings) GetGeneralSettings(ctx context.Context) (*domain.GeneralSettings, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.general == nil {
		return &domain.GeneralSettings{}, nil
	}
	return f.general, nil
}

func (f *fakeSettings) GetInterests(ctx context.Context) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.interests, nil
}

// fakeCodes hands out codes from a fixed list, then a counter.
type fakeCodes struct {
	mu    sync.Mutex
	codes []string
	n     int
}

func (f *fakeCodes) Generate() (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.codes) > 0 {
		c := f.codes[0]
		f.codes = f.codes[1:]
		return c, nil
	}
	f.n++
	return fmt.Sprintf("NEPDENT-%05d", f.n), nil
}

func (f *fakeCodes) Pattern() string { return `^NEPDENT-\d{5}$` }

// fakeQR implements domain.QRCodeGenerator.
type fakeQR struct {
	lastContent string
	lastSize    int
}

func (f *fakeQR) PNG(content string, size int) ([]byte, error) {
	if content == "" {
		return nil, domain.ErrInvalidInput
	}
	f.lastContent = content
	f.lastSize = size
	return []byte("png:" + content), nil
}

// fakeDispatcher implements domain.ConfirmationDispatcher.
type fakeDispatcher struct {
	mu         sync.Mutex
	dispatched []string
	err        error
}

func (f *fakeDispatcher) Dispatch(ctx context.Context, r *domain.Registration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.dispatched = append(f.dispatched, r.ID)
	return nil
}

// fakePublisher implements domain.ChangePublisher and records topics.
type fakePublisher struct {
	mu     sync.Mutex
	topics []string
	events []any
	err    error
}

func (f *fakePublisher) Publish(ctx context.Context, topic string, event any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.topics = append(f.topics, topic)
	f.events = append(f.events, event)
	return nil
}

func (f *fakePublisher) count(topic string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, t := range f.topics {
		if t == topic {
			n++
		}
	}
	return n
}

var errBoom = errors.New("boom")
