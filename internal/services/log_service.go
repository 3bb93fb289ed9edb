// Package services – LogService
//
// LogService is the entry point the HTTP handlers use for bean logs. Creates
// and edits are expressed as a sequence of form events applied to a fresh
// create form or to an edit form loaded from the store, then submitted
// through the FormController. Reads go through the ListCoordinator.
package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-beanlog-backend/internal/beanlog"

	// OpenTelemetry
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// LogService coordinates bean log reads and writes for one process.
type LogService struct {
	DB    *gorm.DB
	Store LogStore
	Form  *FormController
	Lists *ListCoordinator

	// Now supplies "today" for new forms. Defaults to time.Now.
	Now func() time.Time
}

// NewLogService wires a form controller and list coordinator over store, with
// successful saves triggering a list refresh.
func NewLogService(db *gorm.DB, store LogStore) *LogService {
	lists := NewListCoordinator(db, store)
	form := &FormController{
		DB:    db,
		Store: store,
		OnSaved: func(ctx context.Context, owner string) {
			_ = lists.Refresh(ctx, owner)
		},
	}
	return &LogService{DB: db, Store: store, Form: form, Lists: lists, Now: time.Now}
}

// List returns owner's whole list with the stats it was read at.
func (s *LogService) List(ctx context.Context, owner string) (ListSnapshot, error) {
	return s.Lists.Snapshot(ctx, owner)
}

// Get returns one bean log of owner.
func (s *LogService) Get(ctx context.Context, owner, id string) (beanlog.Record, error) {
	rec, err := s.Store.Get(ctx, s.DB, owner, id)
	if observeStore("get", err) != nil {
		return beanlog.Record{}, persistErr("fetch", err)
	}
	return rec, nil
}

// Create fills a new form for owner with edits and submits it.
func (s *LogService) Create(ctx context.Context, owner string, edits []beanlog.Event) (beanlog.Record, error) {
	st := beanlog.NewCreateState(owner, s.now())
	_, rec, err := s.Form.Submit(ctx, apply(st, edits))
	return rec, err
}

// Edit loads bean log id, applies edits on top of the stored values and
// submits the result. Fields without an edit keep their stored value.
func (s *LogService) Edit(ctx context.Context, owner, id string, edits []beanlog.Event) (beanlog.Record, error) {
	cur, err := s.Get(ctx, owner, id)
	if err != nil {
		return beanlog.Record{}, err
	}
	st := beanlog.NewEditState(cur, s.now())
	_, rec, err := s.Form.Submit(ctx, apply(st, edits))
	return rec, err
}

// Delete removes one bean log of owner and refreshes owner's list.
func (s *LogService) Delete(ctx context.Context, owner, id string) error {
	tr := otel.Tracer("services/LogService")
	ctx, span := tr.Start(ctx, "Delete",
		trace.WithAttributes(attribute.String("owner", owner), attribute.String("beanlog.id", id)))
	defer span.End()

	err := s.Store.Delete(context.WithoutCancel(ctx), s.DB, owner, id)
	if observeStore("delete", err) != nil {
		span.RecordError(err)
		return persistErr("delete", err)
	}
	if err := s.Lists.Refresh(ctx, owner); err != nil {
		span.RecordError(err)
	}
	return nil
}

func (s *LogService) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func apply(st beanlog.State, edits []beanlog.Event) beanlog.State {
	for _, e := range edits {
		st = beanlog.Transition(st, e)
	}
	return st
}
