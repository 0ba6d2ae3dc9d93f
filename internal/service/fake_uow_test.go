package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"asset-management-be/internal/entity"
	"asset-management-be/internal/repository/contract"
	"asset-management-be/internal/repository/specification"
	"asset-management-be/internal/repository/unitofwork"
	"asset-management-be/pkg/events"
	"asset-management-be/pkg/fieldschema"

	"github.com/google/uuid"
)

var errInjected = errors.New("injected failure")

// fakeStore is an in-memory stand-in for postgres. Begin snapshots every
// table and Rollback without Commit restores the snapshot.
type fakeStore struct {
	mu sync.Mutex

	users       map[uuid.UUID]entity.User
	tokens      map[uuid.UUID]entity.UserRefreshToken
	categories  map[uuid.UUID]entity.Category
	formFields  map[uuid.UUID]entity.FormField
	assets      map[uuid.UUID]entity.Asset
	assetFields map[uuid.UUID]entity.AssetField

	// failOn makes the named repository operation return errInjected.
	failOn map[string]bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:       map[uuid.UUID]entity.User{},
		tokens:      map[uuid.UUID]entity.UserRefreshToken{},
		categories:  map[uuid.UUID]entity.Category{},
		formFields:  map[uuid.UUID]entity.FormField{},
		assets:      map[uuid.UUID]entity.Asset{},
		assetFields: map[uuid.UUID]entity.AssetField{},
		failOn:      map[string]bool{},
	}
}

type fakeSnapshot struct {
	users       map[uuid.UUID]entity.User
	tokens      map[uuid.UUID]entity.UserRefreshToken
	categories  map[uuid.UUID]entity.Category
	formFields  map[uuid.UUID]entity.FormField
	assets      map[uuid.UUID]entity.Asset
	assetFields map[uuid.UUID]entity.AssetField
}

func copyMap[K comparable, V any](in map[K]V) map[K]V {
	out := make(map[K]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func (s *fakeStore) snapshot() *fakeSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &fakeSnapshot{
		users:       copyMap(s.users),
		tokens:      copyMap(s.tokens),
		categories:  copyMap(s.categories),
		formFields:  copyMap(s.formFields),
		assets:      copyMap(s.assets),
		assetFields: copyMap(s.assetFields),
	}
}

func (s *fakeStore) restore(snap *fakeSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = snap.users
	s.tokens = snap.tokens
	s.categories = snap.categories
	s.formFields = snap.formFields
	s.assets = snap.assets
	s.assetFields = snap.assetFields
}

func (s *fakeStore) fail(op string) error {
	if s.failOn[op] {
		return errInjected
	}
	return nil
}

// Seeding helpers

func (s *fakeStore) addUser(username string, role entity.UserRole) *entity.User {
	u := entity.User{Id: uuid.New(), Username: username, Role: role, CreatedAt: time.Now()}
	s.users[u.Id] = u
	return &u
}

func (s *fakeStore) addCategory(name string, specs ...fieldschema.FieldSpec) *entity.Category {
	c := entity.Category{Id: uuid.New(), Name: name, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	s.categories[c.Id] = c
	for _, f := range fieldschema.BuildFields(c.Id, specs) {
		s.formFields[f.Id] = *f
	}
	return s.loadCategory(c.Id)
}

func (s *fakeStore) liveFields(categoryId uuid.UUID) []*entity.FormField {
	var fields []*entity.FormField
	for _, f := range s.formFields {
		if f.CategoryId == categoryId && !f.IsRetired() {
			f := f
			fields = append(fields, &f)
		}
	}
	fieldschema.SortFields(fields)
	return fields
}

func (s *fakeStore) loadCategory(id uuid.UUID) *entity.Category {
	c, ok := s.categories[id]
	if !ok {
		return nil
	}
	c.Fields = s.liveFields(id)
	return &c
}

func (s *fakeStore) loadAsset(id uuid.UUID) *entity.Asset {
	a, ok := s.assets[id]
	if !ok {
		return nil
	}
	a.Category = s.loadCategory(a.CategoryId)
	if u, ok := s.users[a.VendorId]; ok {
		a.Vendor = &u
	}
	a.Fields = nil
	for _, f := range s.assetFields {
		if f.AssetId != id {
			continue
		}
		f := f
		if ff, ok := s.formFields[f.FormFieldId]; ok {
			f.FormField = &ff
		}
		a.Fields = append(a.Fields, &f)
	}
	return &a
}

func (s *fakeStore) assetFieldCount(assetId uuid.UUID) int {
	n := 0
	for _, f := range s.assetFields {
		if f.AssetId == assetId {
			n++
		}
	}
	return n
}

// Unit of work

type fakeFactory struct {
	store *fakeStore
}

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &fakeUnitOfWork{store: f.store}
}

type fakeUnitOfWork struct {
	store     *fakeStore
	snap      *fakeSnapshot
	committed bool
}

func (u *fakeUnitOfWork) Begin(ctx context.Context) error {
	u.snap = u.store.snapshot()
	return nil
}

func (u *fakeUnitOfWork) Commit() error {
	if err := u.store.fail("commit"); err != nil {
		return err
	}
	u.committed = true
	return nil
}

func (u *fakeUnitOfWork) Rollback() error {
	if u.snap != nil && !u.committed {
		u.store.restore(u.snap)
	}
	return nil
}

func (u *fakeUnitOfWork) UserRepository() contract.UserRepository {
	return &fakeUserRepo{store: u.store}
}

func (u *fakeUnitOfWork) CategoryRepository() contract.CategoryRepository {
	return &fakeCategoryRepo{store: u.store}
}

func (u *fakeUnitOfWork) AssetRepository() contract.AssetRepository {
	return &fakeAssetRepo{store: u.store}
}

// Specification matching. Ordering and paging specs are ignored.

func matchUser(u *entity.User, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch sp := spec.(type) {
		case specification.ByID:
			if u.Id != sp.ID {
				return false
			}
		case specification.ByUsername:
			if u.Username != sp.Username {
				return false
			}
		}
	}
	return true
}

func matchCategory(c *entity.Category, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch sp := spec.(type) {
		case specification.ByID:
			if c.Id != sp.ID {
				return false
			}
		case specification.ByName:
			if c.Name != sp.Name {
				return false
			}
		}
	}
	return true
}

func matchAsset(a *entity.Asset, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch sp := spec.(type) {
		case specification.ByID:
			if a.Id != sp.ID {
				return false
			}
		case specification.OwnedByVendor:
			if a.VendorId != sp.VendorID {
				return false
			}
		case specification.ByCategoryID:
			if a.CategoryId != sp.CategoryID {
				return false
			}
		case specification.FilterBy:
			if sp.Field == "assets.category_id" && a.CategoryId != sp.Value.(uuid.UUID) {
				return false
			}
		}
	}
	return true
}

// Users

type fakeUserRepo struct {
	store *fakeStore
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.store.users[user.Id] = *user
	return nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *entity.User) error {
	r.store.users[user.Id] = *user
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.store.users, id)
	return nil
}

func (r *fakeUserRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	for _, u := range r.store.users {
		u := u
		if matchUser(&u, specs) {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error) {
	var out []*entity.User
	for _, u := range r.store.users {
		u := u
		if matchUser(&u, specs) {
			out = append(out, &u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

func (r *fakeUserRepo) CreateRefreshToken(ctx context.Context, token *entity.UserRefreshToken) error {
	r.store.tokens[token.Id] = *token
	return nil
}

func (r *fakeUserRepo) FindRefreshToken(ctx context.Context, specs ...specification.Specification) (*entity.UserRefreshToken, error) {
	for _, t := range r.store.tokens {
		t := t
		ok := true
		for _, spec := range specs {
			switch sp := spec.(type) {
			case specification.ByTokenHash:
				ok = ok && t.TokenHash == sp.Hash
			case specification.NotRevoked:
				ok = ok && !t.Revoked
			}
		}
		if ok {
			return &t, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) RevokeRefreshToken(ctx context.Context, tokenHash string) error {
	for id, t := range r.store.tokens {
		if t.TokenHash == tokenHash {
			t.Revoked = true
			r.store.tokens[id] = t
		}
	}
	return nil
}

func (r *fakeUserRepo) RevokeAllRefreshTokens(ctx context.Context, userId uuid.UUID) error {
	for id, t := range r.store.tokens {
		if t.UserId == userId {
			t.Revoked = true
			r.store.tokens[id] = t
		}
	}
	return nil
}

// Categories

type fakeCategoryRepo struct {
	store *fakeStore
}

func (r *fakeCategoryRepo) Create(ctx context.Context, category *entity.Category) error {
	row := *category
	row.Fields = nil
	r.store.categories[row.Id] = row
	for _, f := range category.Fields {
		if err := r.CreateField(ctx, f); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeCategoryRepo) Update(ctx context.Context, category *entity.Category) error {
	row := *category
	row.Fields = nil
	r.store.categories[row.Id] = row
	return nil
}

func (r *fakeCategoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.store.categories, id)
	return nil
}

func (r *fakeCategoryRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Category, error) {
	for id, c := range r.store.categories {
		c := c
		if matchCategory(&c, specs) {
			return r.store.loadCategory(id), nil
		}
	}
	return nil, nil
}

func (r *fakeCategoryRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Category, error) {
	var out []*entity.Category
	for id, c := range r.store.categories {
		c := c
		if matchCategory(&c, specs) {
			out = append(out, r.store.loadCategory(id))
		}
	}
	return out, nil
}

func (r *fakeCategoryRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

func (r *fakeCategoryRepo) CreateField(ctx context.Context, field *entity.FormField) error {
	if err := r.store.fail("CreateField"); err != nil {
		return err
	}
	r.store.formFields[field.Id] = *field
	return nil
}

func (r *fakeCategoryRepo) UpdateField(ctx context.Context, field *entity.FormField) error {
	r.store.formFields[field.Id] = *field
	return nil
}

func (r *fakeCategoryRepo) DeleteField(ctx context.Context, id uuid.UUID) error {
	delete(r.store.formFields, id)
	return nil
}

func (r *fakeCategoryRepo) RetireField(ctx context.Context, id uuid.UUID) error {
	f := r.store.formFields[id]
	now := time.Now()
	f.RetiredAt = &now
	r.store.formFields[id] = f
	return nil
}

func (r *fakeCategoryRepo) DeleteFieldsByCategory(ctx context.Context, categoryId uuid.UUID) error {
	for id, f := range r.store.formFields {
		if f.CategoryId == categoryId {
			delete(r.store.formFields, id)
		}
	}
	return nil
}

// Assets

type fakeAssetRepo struct {
	store *fakeStore
}

func (r *fakeAssetRepo) Create(ctx context.Context, asset *entity.Asset) error {
	row := *asset
	row.Category, row.Vendor, row.Fields = nil, nil, nil
	r.store.assets[row.Id] = row
	return nil
}

func (r *fakeAssetRepo) Update(ctx context.Context, asset *entity.Asset) error {
	return r.Create(ctx, asset)
}

func (r *fakeAssetRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.store.assets, id)
	return nil
}

func (r *fakeAssetRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Asset, error) {
	for id, a := range r.store.assets {
		a := a
		if matchAsset(&a, specs) {
			return r.store.loadAsset(id), nil
		}
	}
	return nil, nil
}

func (r *fakeAssetRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Asset, error) {
	var out []*entity.Asset
	for id, a := range r.store.assets {
		a := a
		if matchAsset(&a, specs) {
			out = append(out, r.store.loadAsset(id))
		}
	}
	return out, nil
}

func (r *fakeAssetRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

func (r *fakeAssetRepo) CreateFields(ctx context.Context, fields []*entity.AssetField) error {
	if err := r.store.fail("CreateFields"); err != nil {
		return err
	}
	for _, f := range fields {
		row := *f
		row.FormField = nil
		r.store.assetFields[row.Id] = row
	}
	return nil
}

func (r *fakeAssetRepo) DeleteFieldsByAsset(ctx context.Context, assetId uuid.UUID) error {
	for id, f := range r.store.assetFields {
		if f.AssetId == assetId {
			delete(r.store.assetFields, id)
		}
	}
	return nil
}

func (r *fakeAssetRepo) CountFieldsByFormField(ctx context.Context, formFieldId uuid.UUID) (int64, error) {
	var n int64
	for _, f := range r.store.assetFields {
		if f.FormFieldId == formFieldId {
			n++
		}
	}
	return n, nil
}

// recordingPublisher keeps every published event type.
type recordingPublisher struct {
	mu    sync.Mutex
	types []string
}

func (p *recordingPublisher) Publish(ctx context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.types = append(p.types, event.EventType())
	return nil
}

func (p *recordingPublisher) published() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.types...)
}
