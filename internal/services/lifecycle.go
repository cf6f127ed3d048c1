package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"novastock/internal/domain"
)

// CatalogStore is the persisted product collection. ListAll returns creation order.
type CatalogStore interface {
	Insert(p domain.Product) error
	Update(p domain.Product) error
	Delete(id string) error
	Get(id string) (domain.Product, error)
	ListAll() ([]domain.Product, error)
}

type State int

const (
	Creating State = iota
	Viewing
	Editing
)

func (s State) String() string {
	switch s {
	case Creating:
		return "creating"
	case Viewing:
		return "viewing"
	case Editing:
		return "editing"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Lifecycle drives one product screen. The working copy is a value snapshot and
// never aliases the stored record; it reaches the store only through Create or Save.
type Lifecycle struct {
	store  CatalogStore
	events Publisher

	state   State
	product domain.Product
	draft   domain.ProductFields

	now   func() time.Time
	newID func() string
}

// NewCreating starts an unsaved product pre-filled with barcode.
func NewCreating(store CatalogStore, events Publisher, barcode string) *Lifecycle {
	return &Lifecycle{
		store:  store,
		events: events,
		state:  Creating,
		draft:  domain.DefaultFields(barcode),
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// Open shows an existing product read-only.
func Open(store CatalogStore, events Publisher, p domain.Product) *Lifecycle {
	return &Lifecycle{
		store:   store,
		events:  events,
		state:   Viewing,
		product: p,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

func (l *Lifecycle) State() State { return l.state }

// Product is the last committed record. Empty while Creating.
func (l *Lifecycle) Product() domain.Product { return l.product }

// Draft returns a copy of the working copy.
func (l *Lifecycle) Draft() domain.ProductFields { return l.draft.Clone() }

func (l *Lifecycle) SetDraft(f domain.ProductFields) error {
	if l.state != Creating && l.state != Editing {
		return domain.ErrInvalidTransition
	}
	l.draft = f.Clone()
	return nil
}

// BeginEdit snapshots the current record into the working copy.
func (l *Lifecycle) BeginEdit() error {
	if l.state != Viewing {
		return domain.ErrInvalidTransition
	}
	l.draft = l.product.ProductFields.Clone()
	l.state = Editing
	return nil
}

// Cancel drops the working copy without touching the store.
func (l *Lifecycle) Cancel() error {
	if l.state != Editing {
		return domain.ErrInvalidTransition
	}
	l.draft = domain.ProductFields{}
	l.state = Viewing
	return nil
}

// Save validates the working copy with the same rules as Create (name, buy
// price, sell price), not only the name, and writes every field except id and
// created_at back to the store. On any error the lifecycle stays Editing and
// the committed record is unchanged.
func (l *Lifecycle) Save() (domain.Product, error) {
	if l.state != Editing {
		return domain.Product{}, domain.ErrInvalidTransition
	}
	if err := domain.Validate(l.draft); err != nil {
		return domain.Product{}, err
	}
	updated := l.product
	updated.ProductFields = l.draft.Clone()
	if err := l.store.Update(updated); err != nil {
		return domain.Product{}, &domain.PersistenceError{Op: "save", Err: err}
	}
	l.product = updated
	l.draft = domain.ProductFields{}
	l.state = Viewing
	publish(l.events, TopicProductUpdated, updated.ID, updated.Name, updated.Barcode)
	return updated, nil
}

// Create validates name, buy price and sell price in that order and inserts a
// new product with a fresh id. Nothing is written when it fails.
func (l *Lifecycle) Create() (domain.Product, error) {
	if l.state != Creating {
		return domain.Product{}, domain.ErrInvalidTransition
	}
	if err := domain.Validate(l.draft); err != nil {
		return domain.Product{}, err
	}
	p := domain.Product{
		ID:            l.newID(),
		ProductFields: l.draft.Clone(),
		CreatedAt:     l.now().UTC(),
	}
	if err := l.store.Insert(p); err != nil {
		return domain.Product{}, &domain.PersistenceError{Op: "save", Err: err}
	}
	l.product = p
	l.draft = domain.ProductFields{}
	l.state = Viewing
	publish(l.events, TopicProductCreated, p.ID, p.Name, p.Barcode)
	return p, nil
}
