package scim

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/tkoster/scimgate/pkg/scimgate/models"
)

// ErrUserNameRequired rejects create requests without a usable userName.
var ErrUserNameRequired = errors.New("userName is required")

// IDGenerator produces a unique scim_id for a new record. Injected so
// tests can pin identifiers.
type IDGenerator func() string

// Engine implements the SCIM user lifecycle: upsert-by-username
// creation, merge updates, filtered queries and activation patches.
// It holds no state between calls; everything durable lives in the
// store.
type Engine struct {
	store UserStore
	newID IDGenerator
}

// NewEngine creates an engine over the given store. A nil generator
// defaults to random UUIDs.
func NewEngine(store UserStore, newID IDGenerator) *Engine {
	if newID == nil {
		newID = uuid.NewString
	}
	return &Engine{store: store, newID: newID}
}

// CreateOrReactivate creates a record for an unseen userName, or
// reactivates the existing record and merges the input into it. The
// returned flag is true only for genuinely new records; persisted
// records always carry a scim_id by the time this returns, so callers
// cannot infer newness from the record itself.
func (e *Engine) CreateOrReactivate(in *UserInput) (*models.User, bool, error) {
	userName := strings.TrimSpace(in.UserName)
	if userName == "" {
		return nil, false, ErrUserNameRequired
	}

	existing, err := e.store.FindByUserName(userName)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		existing.Active = true
		MergeInto(in, existing)
		saved, err := e.store.Save(existing)
		return saved, false, err
	}

	rec := ToRecord(in)
	rec.ScimID = e.newID()
	saved, err := e.store.Save(rec)
	return saved, true, err
}

// UpdateByID merges an update into the record whose userName matches
// the request body, creating a fresh record when none does. The path
// identifier is accepted as a routing hint only and never selects the
// record being mutated.
func (e *Engine) UpdateByID(scimID string, in *UserInput) (*models.User, bool, error) {
	found, err := e.store.FindByUserName(in.UserName)
	if err != nil {
		return nil, false, err
	}
	if found == nil {
		rec := ToRecord(in)
		rec.ScimID = e.newID()
		saved, err := e.store.Save(rec)
		return saved, true, err
	}

	MergeInto(in, found)
	saved, err := e.store.Save(found)
	return saved, false, err
}

// Query resolves an optional filter expression. A recognized filter
// returns at most one record, and only when it exists and is active;
// anything else falls through to the full active listing in store
// iteration order.
func (e *Engine) Query(filter string) ([]*models.User, error) {
	f := ParseFilter(filter)
	if f.Recognized {
		var (
			rec *models.User
			err error
		)
		switch f.Attribute {
		case AttrExternalID:
			rec, err = e.store.FindByExternalID(f.Value)
		case AttrUserName:
			rec, err = e.store.FindByUserName(f.Value)
		}
		if err != nil {
			return nil, err
		}
		if rec == nil || !rec.Active {
			return nil, nil
		}
		return []*models.User{rec}, nil
	}

	all, err := e.store.FindAll()
	if err != nil {
		return nil, err
	}
	active := make([]*models.User, 0, len(all))
	for _, u := range all {
		if u.Active {
			active = append(active, u)
		}
	}
	return active, nil
}

// GetByScimID looks up a single record. Absence is (nil, nil).
func (e *Engine) GetByScimID(scimID string) (*models.User, error) {
	return e.store.FindByScimID(scimID)
}

// Patch applies a list of patch operations to the record with the
// given scim_id. Only `replace` operations whose value is an object
// carrying an `active` key are interpreted; all other operations are
// ignored without error. The record is persisted even when no
// operation matched. A missing record is (nil, nil), not an error.
func (e *Engine) Patch(scimID string, ops []PatchOperation) (*models.User, error) {
	existing, err := e.store.FindByScimID(scimID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}

	for _, op := range ops {
		if !strings.EqualFold(op.Op, "replace") {
			continue
		}
		values, ok := op.Value.(map[string]interface{})
		if !ok {
			continue
		}
		active, ok := values["active"]
		if !ok {
			continue
		}
		// Coerced through the string form: true and "True" activate,
		// anything else deactivates.
		existing.Active = strings.EqualFold(fmt.Sprint(active), "true")
	}

	return e.store.Save(existing)
}
