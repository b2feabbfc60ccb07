package productform

import (
	"context"
	"strings"

	"storefront/internal/domain/products"
	"storefront/internal/locale"

	"github.com/google/uuid"
)

// AddVariable appends the staged name/value pair. Blank input is ignored.
// In edit mode the row is written immediately; in create mode it is kept
// locally under a temporary id until Submit.
func (f *Form) AddVariable(ctx context.Context) error {
	if !f.editable() {
		return ErrNotReady
	}
	name, value := strings.TrimSpace(f.stagingName), strings.TrimSpace(f.stagingValue)
	if name == "" || value == "" {
		return nil
	}
	f.stagingName, f.stagingValue = "", ""

	if f.mode == ModeCreate {
		f.variables = append(f.variables, &products.Variable{ID: uuid.NewString(), Name: name, Value: value})
		return nil
	}

	v := f.deps.Backend.CreateVariable(ctx, products.VariableInput{ProductID: f.productID, Name: name, Value: value})
	if v == nil {
		f.state.Message = f.deps.Locale.T(locale.VariableAddFailed)
		return ErrSaveFailed
	}
	f.variables = append(f.variables, v)
	return nil
}

// RemoveVariable removes a row locally (create mode) or on the backend (edit
// mode, list updated only on success).
func (f *Form) RemoveVariable(ctx context.Context, id string) error {
	if !f.editable() {
		return ErrNotReady
	}
	idx := -1
	for i, v := range f.variables {
		if v.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrUnknownRow
	}

	if f.mode == ModeEdit && !f.deps.Backend.DeleteVariable(ctx, id) {
		f.state.Message = f.deps.Locale.T(locale.VariableRemoveFail)
		return ErrSaveFailed
	}
	f.variables = append(f.variables[:idx], f.variables[idx+1:]...)
	return nil
}
