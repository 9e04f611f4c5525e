package usecases

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"clairity-server/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type fakeSensorRepo struct {
	mu       sync.Mutex
	readings []entities.SensorReading
}

func (f *fakeSensorRepo) Create(r *entities.SensorReading) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.Timestamp == "" {
		r.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}
	f.readings = append(f.readings, *r)
	return nil
}

func (f *fakeSensorRepo) Latest(limit int) ([]entities.SensorReading, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sorted := append([]entities.SensorReading(nil), f.readings...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Timestamp > sorted[j].Timestamp })
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted, nil
}

func (f *fakeSensorRepo) LatestOne() (*entities.SensorReading, error) {
	latest, err := f.Latest(1)
	if err != nil {
		return nil, err
	}
	if len(latest) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &latest[0], nil
}

func (f *fakeSensorRepo) Range(start, end time.Time, limit int) ([]entities.SensorReading, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entities.SensorReading
	for _, r := range f.readings {
		ts, err := time.Parse(time.RFC3339, r.Timestamp)
		if err != nil {
			continue
		}
		if !ts.Before(start) && !ts.After(end) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp < out[j].Timestamp })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeSensorRepo) MarkAlertSent(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.readings {
		if f.readings[i].ID == id {
			f.readings[i].AlertSent = true
		}
	}
	return nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*entities.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*entities.User)}
}

func (f *fakeUserRepo) Create(u *entities.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	if u.Role == "" {
		u.Role = entities.RoleUser
	}
	if u.Session == "" {
		u.Session = entities.SessionInactive
	}
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeUserRepo) GetByID(id string) (*entities.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) GetByEmail(email string) (*entities.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) GetAll() ([]entities.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]entities.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, nil
}

func (f *fakeUserRepo) Search(query string) ([]entities.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	q := strings.ToLower(query)
	var out []entities.User
	for _, u := range f.users {
		if strings.Contains(strings.ToLower(u.Name), q) || strings.Contains(strings.ToLower(u.Email), q) {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) Count() (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.users)), nil
}

func (f *fakeUserRepo) GetSubscribed() ([]entities.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entities.User
	for _, u := range f.users {
		if u.Alerts {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) Update(u *entities.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[u.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeUserRepo) Delete(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.users, id)
	return nil
}

type sentMail struct {
	To      string
	Subject string
	Body    string
	HTML    bool
}

type fakeTransport struct {
	mu   sync.Mutex
	sent []sentMail
	fail bool
}

func (f *fakeTransport) Send(to, subject, body string, html bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errSendFailed
	}
	f.sent = append(f.sent, sentMail{To: to, Subject: subject, Body: body, HTML: html})
	return nil
}

var errSendFailed = errors.New("smtp unavailable")
