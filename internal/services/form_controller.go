// Package services – FormController
//
// This file implements the submit side of the create/edit bean log form. The
// form itself is the pure state machine in package beanlog; FormController
// drives it through a Submit, performs the single store write the machine asks
// for, and feeds the outcome back as SaveSucceeded or SaveFailed.
//
// The store write runs on a context detached from the caller's cancellation,
// so a client that goes away mid-request does not abort a write that has
// already been issued.
//
// Observability: Submit is OpenTelemetry-instrumented and every store call is
// counted in beanlog_store_ops_total.
package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/tbourn/go-beanlog-backend/internal/beanlog"
	"github.com/tbourn/go-beanlog-backend/internal/repo"

	// OpenTelemetry
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// FormController submits create/edit forms to a LogStore.
type FormController struct {
	DB    *gorm.DB
	Store LogStore

	// OnSaved, when set, runs after every successful write with the owner of
	// the saved record. It is how the list coordinator learns to re-fetch.
	OnSaved func(ctx context.Context, owner string)
}

// Submit validates st and, when valid, writes the normalized record: a create
// when the form has no id, an update otherwise.
//
// It returns the next form state together with the stored record. On a
// validation failure the error is a *ValidationError and no write happens. On
// a store failure the form keeps its values with SaveError set, and the error
// is a *PersistenceError (or ErrLogNotFound when the edited record is gone).
func (f *FormController) Submit(ctx context.Context, st beanlog.State) (beanlog.State, beanlog.Record, error) {
	tr := otel.Tracer("services/FormController")
	ctx, span := tr.Start(ctx, "Submit",
		trace.WithAttributes(
			attribute.String("form.mode", st.Mode.String()),
			attribute.String("owner", st.Form.Owner),
		),
	)
	defer span.End()

	if st.Saving {
		return st, beanlog.Record{}, ErrSaveInProgress
	}

	next := beanlog.Transition(st, beanlog.Submit{})
	if !next.Errors.OK() {
		span.SetAttributes(attribute.StringSlice("validation.fields", next.Errors.Fields()))
		return next, beanlog.Record{}, &ValidationError{Fields: next.Errors.Fields()}
	}

	rec := *next.Pending
	owner := rec.Owner

	storeCtx := context.WithoutCancel(ctx)
	var (
		saved beanlog.Record
		err   error
		op    string
	)
	if rec.ID == "" {
		op = "create"
		saved, err = f.Store.Create(storeCtx, f.DB, owner, rec)
	} else {
		op = "update"
		saved, err = f.Store.Update(storeCtx, f.DB, owner, rec.ID, rec)
	}
	observeStore(op, err)

	if err != nil {
		failed := beanlog.Transition(next, beanlog.SaveFailed{Err: err})
		var de *repo.DateError
		if errors.As(err, &de) {
			return failed, beanlog.Record{}, &ValidationError{Fields: []string{de.Field}}
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, op+" failed")
		return failed, beanlog.Record{}, persistErr(op, err)
	}

	span.SetAttributes(attribute.String("beanlog.id", saved.ID))
	done := beanlog.Transition(next, beanlog.SaveSucceeded{ID: saved.ID})
	if f.OnSaved != nil {
		f.OnSaved(storeCtx, owner)
	}
	return done, saved, nil
}
