// Package listedit implements the inline add, rename and delete flow shared by
// the category and brand lists.
package listedit

import (
	"context"
	"errors"
	"reflect"
	"strings"

	"storefront/internal/locale"
)

var (
	ErrEmptyName     = errors.New("name is required")
	ErrNotEditing    = errors.New("no row is being edited")
	ErrNotConfirming = errors.New("no deletion is pending")
	ErrUnknownID     = errors.New("unknown row")
	ErrBackend       = errors.New("backend rejected the change")
)

// Kind selects the wording of prompts.
type Kind int

const (
	KindCategory Kind = iota
	KindBrand
)

type Mode int

const (
	Viewing Mode = iota
	Editing
	ConfirmingDelete
)

// State is the editor's tagged state. ID and Draft are set while editing,
// ID and Name while a deletion awaits confirmation.
type State struct {
	Mode  Mode
	ID    string
	Draft string
	Name  string
}

// Backend writes one entity type.
type Backend[T Record] interface {
	Create(ctx context.Context, name string) T
	Update(ctx context.Context, id, name string) T
	Delete(ctx context.Context, id string) bool
}

// Funcs adapts plain functions to Backend.
type Funcs[T Record] struct {
	CreateFn func(ctx context.Context, name string) T
	UpdateFn func(ctx context.Context, id, name string) T
	DeleteFn func(ctx context.Context, id string) bool
}

func (f Funcs[T]) Create(ctx context.Context, name string) T     { return f.CreateFn(ctx, name) }
func (f Funcs[T]) Update(ctx context.Context, id, name string) T { return f.UpdateFn(ctx, id, name) }
func (f Funcs[T]) Delete(ctx context.Context, id string) bool    { return f.DeleteFn(ctx, id) }

// Editor holds one list and at most one row in edit or delete-confirm state.
// It is not safe for concurrent use.
type Editor[T Record] struct {
	kind    Kind
	items   []T
	backend Backend[T]
	tr      locale.Translator
	state   State
}

func NewEditor[T Record](kind Kind, items []T, backend Backend[T], tr locale.Translator) *Editor[T] {
	if tr == nil {
		tr = locale.Default()
	}
	return &Editor[T]{
		kind:    kind,
		items:   append([]T{}, items...),
		backend: backend,
		tr:      tr,
	}
}

func (e *Editor[T]) Items() []T   { return append([]T{}, e.items...) }
func (e *Editor[T]) State() State { return e.state }

func (e *Editor[T]) find(id string) (T, bool) {
	for _, item := range e.items {
		if item.RecordID() == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Add creates a row and appends it. Blank names never reach the backend.
func (e *Editor[T]) Add(ctx context.Context, name string) (T, error) {
	var zero T
	name = strings.TrimSpace(name)
	if name == "" {
		return zero, ErrEmptyName
	}
	rec := e.backend.Create(ctx, name)
	if isNil(rec) {
		return zero, ErrBackend
	}
	e.items = ApplyCreate(e.items, rec)
	return rec, nil
}

// StartEdit enters edit mode for id, seeding the draft with its name. Any
// other row's pending edit is abandoned.
func (e *Editor[T]) StartEdit(id string) error {
	item, ok := e.find(id)
	if !ok {
		return ErrUnknownID
	}
	e.state = State{Mode: Editing, ID: id, Draft: item.RecordName()}
	return nil
}

func (e *Editor[T]) SetDraft(s string) {
	if e.state.Mode == Editing {
		e.state.Draft = s
	}
}

func (e *Editor[T]) CancelEdit() {
	if e.state.Mode == Editing {
		e.state = State{}
	}
}

// Save writes the draft. A blank draft is rejected without a backend call and
// the row stays in edit mode. Otherwise edit mode ends whatever the outcome.
func (e *Editor[T]) Save(ctx context.Context) (T, error) {
	var zero T
	if e.state.Mode != Editing {
		return zero, ErrNotEditing
	}
	draft := strings.TrimSpace(e.state.Draft)
	if draft == "" {
		return zero, ErrEmptyName
	}

	rec := e.backend.Update(ctx, e.state.ID, draft)
	e.state = State{}
	if isNil(rec) {
		return zero, ErrBackend
	}
	e.items = ApplyUpdate(e.items, rec)
	return rec, nil
}

// HandleKey maps Enter to Save and Escape to CancelEdit.
func (e *Editor[T]) HandleKey(ctx context.Context, key string) error {
	switch key {
	case "Enter":
		_, err := e.Save(ctx)
		return err
	case "Escape":
		e.CancelEdit()
	}
	return nil
}

// RequestDelete opens the confirmation for id and returns its wording.
func (e *Editor[T]) RequestDelete(id string) (locale.Prompt, error) {
	item, ok := e.find(id)
	if !ok {
		return locale.Prompt{}, ErrUnknownID
	}
	e.state = State{Mode: ConfirmingDelete, ID: id, Name: item.RecordName()}
	return e.prompt(item.RecordName()), nil
}

func (e *Editor[T]) prompt(name string) locale.Prompt {
	data := map[string]any{"Name": name}
	if e.kind == KindCategory {
		return locale.Prompt{
			Title:   e.tr.T(locale.CategoryDeleteTitle),
			Message: e.tr.T(locale.CategoryDeleteAsk, data),
			Warning: e.tr.T(locale.CategoryDeleteWarn),
		}
	}
	return locale.Prompt{
		Title:   e.tr.T(locale.BrandDeleteTitle),
		Message: e.tr.T(locale.BrandDeleteAsk, data),
	}
}

func (e *Editor[T]) CancelDelete() {
	if e.state.Mode == ConfirmingDelete {
		e.state = State{}
	}
}

// ConfirmDelete deletes the pending row and removes exactly that row on success.
func (e *Editor[T]) ConfirmDelete(ctx context.Context) error {
	if e.state.Mode != ConfirmingDelete {
		return ErrNotConfirming
	}
	id := e.state.ID
	e.state = State{}
	if !e.backend.Delete(ctx, id) {
		return ErrBackend
	}
	e.items = ApplyDelete(e.items, id)
	return nil
}

// isNil reports whether a record returned by the backend is the nil sentinel.
func isNil[T Record](rec T) bool {
	v := reflect.ValueOf(rec)
	switch {
	case !v.IsValid():
		return true
	case v.Kind() == reflect.Pointer && v.IsNil():
		return true
	}
	return rec.RecordID() == ""
}
