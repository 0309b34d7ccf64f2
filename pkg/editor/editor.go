// Package editor applies staging-view edits to the pending update set.
//
// Each operation addresses a row of the current staging view by index. If
// an update for that row's id is pending it is copied and changed;
// otherwise a new update is seeded from the row's status, description,
// date and evidence list and appended. Inputs are never modified: every
// operation returns a fresh update set.
package editor

import (
	"fmt"
	"slices"

	"github.com/oskars/refinerywatch/pkg/errors"
	"github.com/oskars/refinerywatch/pkg/reconciler"
	"github.com/oskars/refinerywatch/pkg/refineries"
)

// Field names an editable update field.
type Field string

// Editable fields.
const (
	FieldStatus            Field = "status"
	FieldDescription       Field = "description"
	FieldLastIncidentDate  Field = "lastIncidentDate"
	FieldIncidentVideoURLs Field = "incidentVideoUrls"
)

// Fields lists the editable fields.
func Fields() []Field {
	return []Field{FieldStatus, FieldDescription, FieldLastIncidentDate, FieldIncidentVideoURLs}
}

// ParseField validates a field name.
func ParseField(s string) (Field, error) {
	f := Field(s)
	if !slices.Contains(Fields(), f) {
		return "", errors.NewValidationError("field", s, fmt.Sprintf("field %q is not editable", s))
	}
	return f, nil
}

// SetField sets one field of the update for rows[index].
//
// value must be a refineries.Status or string for status, a string for
// description, a string or *string for lastIncidentDate (nil clears it to "") and a
// []string for incidentVideoUrls.
func SetField(rows []reconciler.Row, updates []refineries.Update, index int, field Field, value any) ([]refineries.Update, error) {
	row, err := rowAt(rows, index)
	if err != nil {
		return nil, err
	}

	return modify(row, updates, func(u *refineries.Update) error {
		return assign(u, field, value)
	})
}

// AddVideoURL appends an empty evidence URL to rows[index].
func AddVideoURL(rows []reconciler.Row, updates []refineries.Update, index int) ([]refineries.Update, error) {
	row, err := rowAt(rows, index)
	if err != nil {
		return nil, err
	}

	return modifyURLs(row, updates, func(urls []string) ([]string, error) {
		return append(urls, ""), nil
	})
}

// SetVideoURL replaces evidence URL urlIndex of rows[index].
func SetVideoURL(rows []reconciler.Row, updates []refineries.Update, index, urlIndex int, value string) ([]refineries.Update, error) {
	row, err := rowAt(rows, index)
	if err != nil {
		return nil, err
	}

	return modifyURLs(row, updates, func(urls []string) ([]string, error) {
		if urlIndex < 0 || urlIndex >= len(urls) {
			return nil, urlIndexError(urlIndex, len(urls))
		}
		urls[urlIndex] = value
		return urls, nil
	})
}

// RemoveVideoURL deletes evidence URL urlIndex of rows[index].
func RemoveVideoURL(rows []reconciler.Row, updates []refineries.Update, index, urlIndex int) ([]refineries.Update, error) {
	row, err := rowAt(rows, index)
	if err != nil {
		return nil, err
	}

	return modifyURLs(row, updates, func(urls []string) ([]string, error) {
		if urlIndex < 0 || urlIndex >= len(urls) {
			return nil, urlIndexError(urlIndex, len(urls))
		}
		return slices.Delete(urls, urlIndex, urlIndex+1), nil
	})
}

// modify finds or seeds the update for row, lets fn change it and returns
// the new update set.
func modify(row reconciler.Row, updates []refineries.Update, fn func(u *refineries.Update) error) ([]refineries.Update, error) {
	out := slices.Clone(updates)
	if i := refineries.FindUpdate(out, row.ID); i >= 0 {
		u := out[i]
		if err := fn(&u); err != nil {
			return nil, err
		}
		out[i] = u
		return out, nil
	}

	u := row.Update()
	if err := fn(&u); err != nil {
		return nil, err
	}
	return append(out, u), nil
}

// modifyURLs edits a copy of the effective evidence list: the pending
// update's list when one exists, otherwise the row's.
func modifyURLs(row reconciler.Row, updates []refineries.Update, fn func([]string) ([]string, error)) ([]refineries.Update, error) {
	return modify(row, updates, func(u *refineries.Update) error {
		urls := slices.Clone(u.IncidentVideoURLs)
		if urls == nil {
			urls = []string{}
		}
		next, err := fn(urls)
		if err != nil {
			return err
		}
		u.IncidentVideoURLs = next
		return nil
	})
}

func assign(u *refineries.Update, field Field, value any) error {
	switch field {
	case FieldStatus:
		switch v := value.(type) {
		case refineries.Status:
			u.Status = v
		case string:
			u.Status = refineries.Status(v)
		default:
			return typeError(field, value)
		}
		if !u.Status.Valid() {
			return errors.NewValidationError(string(field), value, fmt.Sprintf("unknown status %q", u.Status))
		}
	case FieldDescription:
		v, ok := value.(string)
		if !ok {
			return typeError(field, value)
		}
		u.Description = v
	case FieldLastIncidentDate:
		switch v := value.(type) {
		case string:
			u.LastIncidentDate = refineries.StringPtr(v)
		case *string:
			if v == nil {
				u.LastIncidentDate = refineries.StringPtr("")
			} else {
				u.LastIncidentDate = refineries.StringPtr(*v)
			}
		case nil:
			// cleared, not absent
			u.LastIncidentDate = refineries.StringPtr("")
		default:
			return typeError(field, value)
		}
	case FieldIncidentVideoURLs:
		v, ok := value.([]string)
		if !ok {
			return typeError(field, value)
		}
		u.IncidentVideoURLs = slices.Clone(v)
		if u.IncidentVideoURLs == nil {
			u.IncidentVideoURLs = []string{}
		}
	default:
		return errors.NewValidationError("field", field, fmt.Sprintf("field %q is not editable", field))
	}
	return nil
}

func rowAt(rows []reconciler.Row, index int) (reconciler.Row, error) {
	if index < 0 || index >= len(rows) {
		return reconciler.Row{}, errors.NewValidationError("index", index, fmt.Sprintf("row index out of range [0,%d)", len(rows)))
	}
	return rows[index], nil
}

func urlIndexError(i, n int) error {
	return errors.NewValidationError("urlIndex", i, fmt.Sprintf("evidence URL index out of range [0,%d)", n))
}

func typeError(field Field, value any) error {
	return errors.NewValidationError(string(field), value, fmt.Sprintf("unexpected value type %T", value))
}
