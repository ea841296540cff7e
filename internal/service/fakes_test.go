package service

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/training/practice/internal/model"
	"github.com/training/practice/internal/pagination"
	"github.com/training/practice/internal/repository"
)

type fakeTx struct {
	writes, reads int
}

func (f *fakeTx) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	f.writes++
	return fn(ctx)
}

func (f *fakeTx) WithReadOnlyTx(ctx context.Context, fn func(ctx context.Context) error) error {
	f.reads++
	return fn(ctx)
}

type fakeUserStore struct {
	mu       sync.Mutex
	users    map[string]model.User
	lastPage pagination.Request
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[string]model.User{}}
}

func (f *fakeUserStore) Create(_ context.Context, u *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return repository.ErrDuplicateEmail
		}
	}
	f.users[u.ID] = *u
	return nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	u.Subjects = append([]model.Subject{}, u.Subjects...)
	return &u, nil
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := f.GetByEmail(ctx, email)
	return err == nil, nil
}

func (f *fakeUserStore) ExistsByID(_ context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.users[id]
	return ok, nil
}

func (f *fakeUserStore) sorted() []model.User {
	out := make([]model.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *fakeUserStore) ListPaged(_ context.Context, page pagination.Request) ([]model.User, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastPage = page
	all := f.sorted()
	start := min(page.Offset(), len(all))
	end := min(start+page.Size, len(all))
	return all[start:end], int64(len(all)), nil
}

func (f *fakeUserStore) List(_ context.Context, filter repository.UserFilter) ([]model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.User
	for _, u := range f.sorted() {
		if filter.Department != nil && (u.Department == nil || *u.Department != *filter.Department) {
			continue
		}
		if filter.Status != nil && u.Status != *filter.Status {
			continue
		}
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeUserStore) SearchByName(_ context.Context, q string, limit int) ([]model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.User
	for _, u := range f.sorted() {
		if strings.Contains(strings.ToLower(u.Name), strings.ToLower(q)) {
			out = append(out, u)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeUserStore) Update(_ context.Context, u *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[u.ID]; !ok {
		return repository.ErrNotFound
	}
	f.users[u.ID] = *u
	return nil
}

func (f *fakeUserStore) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.users, id)
	return nil
}

func (f *fakeUserStore) CountByStatus(_ context.Context, status model.UserStatus) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, u := range f.users {
		if u.Status == status {
			n++
		}
	}
	return n, nil
}

func (f *fakeUserStore) AddSubject(_ context.Context, userID string, s *model.Subject) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	s.Position = len(u.Subjects)
	u.Subjects = append(u.Subjects, *s)
	f.users[userID] = u
	return nil
}

type fakeSubjectStore struct {
	subjects map[string]model.Subject
	lastPage pagination.Request
}

func newFakeSubjectStore(seed ...model.Subject) *fakeSubjectStore {
	f := &fakeSubjectStore{subjects: map[string]model.Subject{}}
	for _, s := range seed {
		f.subjects[s.ID] = s
	}
	return f
}

func (f *fakeSubjectStore) GetByID(_ context.Context, id string) (*model.Subject, error) {
	s, ok := f.subjects[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &s, nil
}

func (f *fakeSubjectStore) sorted() []model.Subject {
	out := make([]model.Subject, 0, len(f.subjects))
	for _, s := range f.subjects {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *fakeSubjectStore) ListPaged(_ context.Context, page pagination.Request) ([]model.Subject, int64, error) {
	f.lastPage = page
	all := f.sorted()
	start := min(page.Offset(), len(all))
	end := min(start+page.Size, len(all))
	return all[start:end], int64(len(all)), nil
}

func (f *fakeSubjectStore) SearchByName(_ context.Context, q string, limit int) ([]model.Subject, error) {
	var out []model.Subject
	for _, s := range f.sorted() {
		if strings.Contains(strings.ToLower(s.Name), strings.ToLower(q)) {
			out = append(out, s)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeSubjectStore) ListByCode(_ context.Context, code string) ([]model.Subject, error) {
	var out []model.Subject
	for _, s := range f.sorted() {
		if s.Code == code {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSubjectStore) Update(_ context.Context, s *model.Subject) error {
	if _, ok := f.subjects[s.ID]; !ok {
		return repository.ErrNotFound
	}
	f.subjects[s.ID] = *s
	return nil
}

func (f *fakeSubjectStore) Delete(_ context.Context, id string) error {
	if _, ok := f.subjects[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.subjects, id)
	return nil
}

type fakeCache struct {
	entries map[string]model.UserDTO
	deletes []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string]model.UserDTO{}}
}

func (f *fakeCache) Get(_ context.Context, id string) (*model.UserDTO, error) {
	dto, ok := f.entries[id]
	if !ok {
		return nil, nil
	}
	return &dto, nil
}

func (f *fakeCache) Set(_ context.Context, dto *model.UserDTO) error {
	f.entries[dto.ID] = *dto
	return nil
}

func (f *fakeCache) Delete(_ context.Context, id string) error {
	delete(f.entries, id)
	f.deletes = append(f.deletes, id)
	return nil
}

type fakePostmanAPI struct {
	users       map[model.PostmanID]model.PostmanWireUser
	lastBody    model.PostmanWireUser
	lastRole    string
	permissions []string
}

func (f *fakePostmanAPI) ListUsers(context.Context) ([]model.PostmanWireUser, error) {
	var out []model.PostmanWireUser
	for _, u := range f.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakePostmanAPI) GetUser(_ context.Context, id model.PostmanID) (*model.PostmanWireUser, error) {
	u := f.users[id]
	return &u, nil
}

func (f *fakePostmanAPI) ListUsersByRole(ctx context.Context, role string) ([]model.PostmanWireUser, error) {
	f.lastRole = role
	return f.ListUsers(ctx)
}

func (f *fakePostmanAPI) CreateUser(_ context.Context, body model.PostmanWireUser) (*model.PostmanWireUser, error) {
	f.lastBody = body
	body.ID = 99
	return &body, nil
}

func (f *fakePostmanAPI) UpdateUser(_ context.Context, id model.PostmanID, body model.PostmanWireUser) (*model.PostmanWireUser, error) {
	f.lastBody = body
	body.ID = id
	return &body, nil
}

func (f *fakePostmanAPI) PatchUser(_ context.Context, id model.PostmanID, body model.PostmanWireUser) (*model.PostmanWireUser, error) {
	f.lastBody = body
	body.ID = id
	return &body, nil
}

func (f *fakePostmanAPI) DeleteUser(_ context.Context, id model.PostmanID) error {
	delete(f.users, id)
	return nil
}

func (f *fakePostmanAPI) GetUserPermissions(context.Context, model.PostmanID) ([]string, error) {
	return f.permissions, nil
}

func (f *fakePostmanAPI) AssignRole(_ context.Context, id model.PostmanID, role string) (*model.PostmanWireUser, error) {
	f.lastRole = role
	u := f.users[id]
	return &u, nil
}
