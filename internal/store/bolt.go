package store

import (
	"cmp"
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/inovacc/pollo/internal/model"
	"go.etcd.io/bbolt"
)

const (
	boltBucketApplications = "applications" // key: id -> Application JSON
	boltBucketProducts     = "products"     // key: id -> Product JSON (without applications)
	boltBucketUsers        = "users"        // key: id -> User JSON
	boltBucketProducers    = "producers"    // key: user id -> Producer JSON
)

var boltBuckets = []string{
	boltBucketApplications,
	boltBucketProducts,
	boltBucketUsers,
	boltBucketProducers,
}

// Bolt is a Store backed by a single bbolt file.
type Bolt struct {
	storage *bbolt.DB
}

var _ Store = (*Bolt)(nil)

// NewBolt opens or creates a Bolt database at path.
func NewBolt(path string) (*Bolt, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	instance, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}

	if err := instance.Update(func(tx *bbolt.Tx) error {
		for _, name := range boltBuckets {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return err
			}
		}

		return nil
	}); err != nil {
		_ = instance.Close()

		return nil, err
	}

	return &Bolt{storage: instance}, nil
}

// Ping checks the database is open and its buckets are present.
func (b *Bolt) Ping() error {
	return b.storage.View(func(tx *bbolt.Tx) error {
		for _, name := range boltBuckets {
			if tx.Bucket([]byte(name)) == nil {
				return fmt.Errorf("bucket %s missing", name)
			}
		}

		return nil
	})
}

// Close closes the database.
func (b *Bolt) Close() error {
	return b.storage.Close()
}

// Applications

func (b *Bolt) CreateApplication(_ context.Context, app *model.Application) error {
	if app == nil {
		return errors.New("application is required")
	}

	return b.storage.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(boltBucketApplications))

		seq, err := bucket.NextSequence()
		if err != nil {
			return err
		}

		app.ID = int64(seq)

		return putJSON(bucket, app.ID, app)
	})
}

func (b *Bolt) FindApplication(_ context.Context, id int64) (*model.Application, error) {
	var app model.Application

	err := b.storage.View(func(tx *bbolt.Tx) error {
		return getJSON(tx.Bucket([]byte(boltBucketApplications)), "application", id, &app)
	})
	if err != nil {
		return nil, err
	}

	return &app, nil
}

func (b *Bolt) SaveApplication(_ context.Context, app *model.Application) error {
	if app == nil {
		return errors.New("application is required")
	}

	return b.storage.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(boltBucketApplications))

		if bucket.Get(itob(app.ID)) == nil {
			return model.NotFound("application", app.ID)
		}

		return putJSON(bucket, app.ID, app)
	})
}

func (b *Bolt) DeleteApplication(_ context.Context, id int64) error {
	return b.storage.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(boltBucketApplications))

		if bucket.Get(itob(id)) == nil {
			return model.NotFound("application", id)
		}

		return bucket.Delete(itob(id))
	})
}

// ListApplicationsByProduct returns the product's applications in id order.
func (b *Bolt) ListApplicationsByProduct(_ context.Context, productID int64) ([]model.Application, error) {
	return b.filterApplications(func(a *model.Application) bool {
		return a.ProductID == productID
	})
}

// ListApplicationsByReceiver returns the receiver's applications, newest first.
func (b *Bolt) ListApplicationsByReceiver(_ context.Context, receiverID int64) ([]model.Application, error) {
	out, err := b.filterApplications(func(a *model.Application) bool {
		return a.ReceiverID == receiverID
	})
	if err != nil {
		return nil, err
	}

	sortNewestFirst(out)

	return out, nil
}

// ListOpenApplications returns every Open application, newest first.
func (b *Bolt) ListOpenApplications(_ context.Context) ([]model.Application, error) {
	out, err := b.filterApplications(func(a *model.Application) bool {
		return a.Status == model.StatusOpen
	})
	if err != nil {
		return nil, err
	}

	sortNewestFirst(out)

	return out, nil
}

// filterApplications walks the bucket in key order, which is id order.
func (b *Bolt) filterApplications(keep func(*model.Application) bool) ([]model.Application, error) {
	var out []model.Application

	err := b.storage.View(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(boltBucketApplications)).ForEach(func(_, v []byte) error {
			var a model.Application

			if err := json.Unmarshal(v, &a); err != nil {
				return err
			}

			if keep(&a) {
				out = append(out, a)
			}

			return nil
		})
	})

	return out, err
}

// Products

func (b *Bolt) CreateProduct(_ context.Context, p *model.Product) error {
	if p == nil {
		return errors.New("product is required")
	}

	return b.storage.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(boltBucketProducts))

		seq, err := bucket.NextSequence()
		if err != nil {
			return err
		}

		p.ID = int64(seq)

		return putProduct(bucket, p)
	})
}

func (b *Bolt) FindProduct(_ context.Context, id int64) (*model.Product, error) {
	var p model.Product

	err := b.storage.View(func(tx *bbolt.Tx) error {
		return getJSON(tx.Bucket([]byte(boltBucketProducts)), "product", id, &p)
	})
	if err != nil {
		return nil, err
	}

	return &p, nil
}

func (b *Bolt) SaveProduct(_ context.Context, p *model.Product) error {
	if p == nil {
		return errors.New("product is required")
	}

	return b.storage.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(boltBucketProducts))

		if bucket.Get(itob(p.ID)) == nil {
			return model.NotFound("product", p.ID)
		}

		return putProduct(bucket, p)
	})
}

func (b *Bolt) FindProductWithApplications(_ context.Context, id int64) (*model.Product, error) {
	var p model.Product

	err := b.storage.View(func(tx *bbolt.Tx) error {
		if err := getJSON(tx.Bucket([]byte(boltBucketProducts)), "product", id, &p); err != nil {
			return err
		}

		byProduct, err := applicationsByProduct(tx)
		if err != nil {
			return err
		}

		p.Applications = byProduct[id]

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &p, nil
}

// ListProductsWithApplications returns matching products ordered by rank,
// then newest first, each with its applications in id order.
func (b *Bolt) ListProductsWithApplications(_ context.Context, filter model.ProductFilter) ([]model.Product, error) {
	var out []model.Product

	err := b.storage.View(func(tx *bbolt.Tx) error {
		byProduct, err := applicationsByProduct(tx)
		if err != nil {
			return err
		}

		return tx.Bucket([]byte(boltBucketProducts)).ForEach(func(_, v []byte) error {
			var p model.Product

			if err := json.Unmarshal(v, &p); err != nil {
				return err
			}

			if filter.ProducerID != 0 && p.ProducerID != filter.ProducerID {
				return nil
			}

			if filter.AvailableOnly && !p.Available {
				return nil
			}

			p.Applications = byProduct[p.ID]
			out = append(out, p)

			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	slices.SortStableFunc(out, func(a, b model.Product) int {
		if c := cmp.Compare(b.Rank, a.Rank); c != 0 {
			return c
		}

		return b.CreatedAt.Compare(a.CreatedAt)
	})

	return paginate(out, filter.Offset, filter.Limit), nil
}

func applicationsByProduct(tx *bbolt.Tx) (map[int64][]model.Application, error) {
	out := make(map[int64][]model.Application)

	err := tx.Bucket([]byte(boltBucketApplications)).ForEach(func(_, v []byte) error {
		var a model.Application

		if err := json.Unmarshal(v, &a); err != nil {
			return err
		}

		out[a.ProductID] = append(out[a.ProductID], a)

		return nil
	})

	return out, err
}

// putProduct stores p without its eager-loaded applications.
func putProduct(bucket *bbolt.Bucket, p *model.Product) error {
	stored := *p
	stored.Applications = nil

	return putJSON(bucket, p.ID, &stored)
}

// Users

func (b *Bolt) CreateUser(_ context.Context, u *model.User) error {
	if u == nil {
		return errors.New("user is required")
	}

	return b.storage.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(boltBucketUsers))

		seq, err := bucket.NextSequence()
		if err != nil {
			return err
		}

		u.ID = int64(seq)

		return putJSON(bucket, u.ID, u)
	})
}

func (b *Bolt) FindUser(_ context.Context, id int64) (*model.User, error) {
	var u model.User

	err := b.storage.View(func(tx *bbolt.Tx) error {
		return getJSON(tx.Bucket([]byte(boltBucketUsers)), "user", id, &u)
	})
	if err != nil {
		return nil, err
	}

	return &u, nil
}

// SaveProducer inserts or replaces the producer details of an existing user.
func (b *Bolt) SaveProducer(_ context.Context, p *model.Producer) error {
	if p == nil {
		return errors.New("producer is required")
	}

	return b.storage.Update(func(tx *bbolt.Tx) error {
		if tx.Bucket([]byte(boltBucketUsers)).Get(itob(p.UserID)) == nil {
			return model.NotFound("user", p.UserID)
		}

		return putJSON(tx.Bucket([]byte(boltBucketProducers)), p.UserID, p)
	})
}

func (b *Bolt) FindProducer(_ context.Context, userID int64) (*model.Producer, error) {
	var p model.Producer

	err := b.storage.View(func(tx *bbolt.Tx) error {
		return getJSON(tx.Bucket([]byte(boltBucketProducers)), "producer", userID, &p)
	})
	if err != nil {
		return nil, err
	}

	return &p, nil
}

// helpers

// itob encodes id big-endian so bucket key order matches id order.
func itob(id int64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(id))

	return buf
}

func putJSON(bucket *bbolt.Bucket, id int64, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	return bucket.Put(itob(id), data)
}

func getJSON(bucket *bbolt.Bucket, kind string, id int64, v any) error {
	data := bucket.Get(itob(id))
	if data == nil {
		return model.NotFound(kind, id)
	}

	return json.Unmarshal(data, v)
}

func sortNewestFirst(apps []model.Application) {
	slices.SortStableFunc(apps, func(a, b model.Application) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}

		return cmp.Compare(b.ID, a.ID)
	})
}

func paginate[T any](items []T, offset, limit int) []T {
	if offset < 0 {
		offset = 0
	}

	if offset >= len(items) {
		return nil
	}

	items = items[offset:]

	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}

	return items
}
