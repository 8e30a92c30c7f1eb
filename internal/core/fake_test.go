package core

import (
	"cmp"
	"context"
	"io"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/inovacc/pollo/internal/model"
)

// memStore is an in-memory store.Store with injectable failures.
type memStore struct {
	mu        sync.Mutex
	nextID    int64
	apps      map[int64]model.Application
	products  map[int64]model.Product
	users     map[int64]model.User
	producers map[int64]model.Producer

	// failSave makes SaveApplication fail for the listed ids
	failSave      map[int64]error
	failDelete    error
	failCreate    error
	failFind      error
	failSaveProd  error
	saveCallCount int
}

func newMemStore() *memStore {
	return &memStore{
		apps:      make(map[int64]model.Application),
		products:  make(map[int64]model.Product),
		users:     make(map[int64]model.User),
		producers: make(map[int64]model.Producer),
		failSave:  make(map[int64]error),
	}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memStore) CreateApplication(_ context.Context, app *model.Application) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failCreate != nil {
		return m.failCreate
	}

	app.ID = m.id()
	m.apps[app.ID] = *app

	return nil
}

func (m *memStore) FindApplication(_ context.Context, id int64) (*model.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failFind != nil {
		return nil, m.failFind
	}

	app, ok := m.apps[id]
	if !ok {
		return nil, model.NotFound("application", id)
	}

	return &app, nil
}

func (m *memStore) SaveApplication(_ context.Context, app *model.Application) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.saveCallCount++

	if err := m.failSave[app.ID]; err != nil {
		return err
	}

	if _, ok := m.apps[app.ID]; !ok {
		return model.NotFound("application", app.ID)
	}

	m.apps[app.ID] = *app

	return nil
}

func (m *memStore) DeleteApplication(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failDelete != nil {
		return m.failDelete
	}

	if _, ok := m.apps[id]; !ok {
		return model.NotFound("application", id)
	}

	delete(m.apps, id)

	return nil
}

func (m *memStore) filter(keep func(model.Application) bool) []model.Application {
	var out []model.Application

	for _, a := range m.apps {
		if keep(a) {
			out = append(out, a)
		}
	}

	slices.SortFunc(out, func(a, b model.Application) int { return cmp.Compare(a.ID, b.ID) })

	return out
}

func (m *memStore) ListApplicationsByProduct(_ context.Context, productID int64) ([]model.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.filter(func(a model.Application) bool { return a.ProductID == productID }), nil
}

func (m *memStore) ListApplicationsByReceiver(_ context.Context, receiverID int64) ([]model.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := m.filter(func(a model.Application) bool { return a.ReceiverID == receiverID })
	slices.Reverse(out)

	return out, nil
}

func (m *memStore) ListOpenApplications(_ context.Context) ([]model.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := m.filter(func(a model.Application) bool { return a.Status == model.StatusOpen })
	slices.Reverse(out)

	return out, nil
}

func (m *memStore) CreateProduct(_ context.Context, p *model.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p.ID = m.id()
	m.products[p.ID] = *p

	return nil
}

func (m *memStore) FindProduct(_ context.Context, id int64) (*model.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.products[id]
	if !ok {
		return nil, model.NotFound("product", id)
	}

	return &p, nil
}

func (m *memStore) SaveProduct(_ context.Context, p *model.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failSaveProd != nil {
		return m.failSaveProd
	}

	stored := *p
	stored.Applications = nil
	m.products[p.ID] = stored

	return nil
}

func (m *memStore) FindProductWithApplications(_ context.Context, id int64) (*model.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.products[id]
	if !ok {
		return nil, model.NotFound("product", id)
	}

	p.Applications = m.filter(func(a model.Application) bool { return a.ProductID == id })

	return &p, nil
}

func (m *memStore) ListProductsWithApplications(_ context.Context, filter model.ProductFilter) ([]model.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []model.Product

	for _, p := range m.products {
		if filter.ProducerID != 0 && p.ProducerID != filter.ProducerID {
			continue
		}

		if filter.AvailableOnly && !p.Available {
			continue
		}

		p.Applications = m.filter(func(a model.Application) bool { return a.ProductID == p.ID })
		out = append(out, p)
	}

	slices.SortFunc(out, func(a, b model.Product) int { return cmp.Compare(b.Rank, a.Rank) })

	return out, nil
}

func (m *memStore) CreateUser(_ context.Context, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u.ID = m.id()
	m.users[u.ID] = *u

	return nil
}

func (m *memStore) FindUser(_ context.Context, id int64) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return nil, model.NotFound("user", id)
	}

	return &u, nil
}

func (m *memStore) SaveProducer(_ context.Context, p *model.Producer) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[p.UserID]; !ok {
		return model.NotFound("user", p.UserID)
	}

	m.producers[p.UserID] = *p

	return nil
}

func (m *memStore) FindProducer(_ context.Context, userID int64) (*model.Producer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.producers[userID]
	if !ok {
		return nil, model.NotFound("producer", userID)
	}

	return &p, nil
}

func (m *memStore) Ping() error  { return nil }
func (m *memStore) Close() error { return nil }

// seed helpers

func (m *memStore) addUser(email string, role model.Role) int64 {
	u := &model.User{Email: email, FirstName: "Test", Surname: "User", Role: role}
	_ = m.CreateUser(context.Background(), u)

	return u.ID
}

func (m *memStore) addProducer() int64 {
	id := m.addUser("producer@example.org", model.RoleProducer)
	_ = m.SaveProducer(context.Background(), &model.Producer{
		UserID: id, Street: "Calle Sol", StreetNumber: "12", Zipcode: "8000", City: "Arequipa", WalletAddress: "WALLET", DeviceAddress: "DEVICE",
	})

	return id
}

func (m *memStore) addProduct(producerID int64, title string, available bool) int64 {
	p := &model.Product{ProducerID: producerID, Title: title, Price: 20, Available: available}
	_ = m.CreateProduct(context.Background(), p)

	return p.ID
}

func (m *memStore) addApplication(receiverID, productID int64, status model.ApplicationStatus) int64 {
	app := &model.Application{ReceiverID: receiverID, ProductID: productID, Motivation: "please", Status: status}
	if status.HoldsDonation() {
		app.MarkDonated(time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC))
	}

	_ = m.CreateApplication(context.Background(), app)

	return app.ID
}

func (m *memStore) app(id int64) model.Application {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.apps[id]
}

// recorder is a notify.Notifier that records calls and answers from a script.
type recorder struct {
	mu      sync.Mutex
	calls   []notice
	results []bool // per call; missing entries default to ok
}

type notice struct {
	To, Subject, Body string
}

func (r *recorder) Notify(_ context.Context, to, subject, body string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	ok := true
	if n := len(r.calls); n < len(r.results) {
		ok = r.results[n]
	}

	r.calls = append(r.calls, notice{To: to, Subject: subject, Body: body})

	return ok
}

var fixedNow = time.Date(2026, 10, 18, 23, 30, 0, 0, time.FixedZone("UTC-2", -2*60*60))

func testOptions() []Option {
	return []Option{
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithClock(func() time.Time { return fixedNow }),
	}
}
