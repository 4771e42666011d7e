// Package fields implements displayed-field layouts: ordered lists of field names, each shown or hidden,
// such as the fields of the book details panel or the quickview columns.
package fields

import (
	"encoding/json"
	"io"
	"os"

	"github.com/fine-structures/ringorder/goring"
	"github.com/muhammadmuzzammil1998/jsonc"
	"github.com/pkg/errors"
)

// Field is a single entry of a Layout.  It is stored as a [name, visible] pair.
type Field struct {
	Name    string
	Visible bool
}

func (f Field) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{f.Name, f.Visible})
}

func (f *Field) UnmarshalJSON(buf []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(buf, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return errors.Errorf("field entry has %d elements, expected 2", len(pair))
	}
	if err := json.Unmarshal(pair[0], &f.Name); err != nil {
		return err
	}
	return json.Unmarshal(pair[1], &f.Visible)
}

// Spec names the store key of a layout and its default fields.
type Spec struct {
	Key      string
	Defaults []Field
}

// Layout is an editable field layout bound to a store key.
// A Layout is not safe for concurrent use.
type Layout struct {
	store   goring.PrefsStore
	spec    Spec
	fields  []Field
	changed bool
}

// OpenLayout registers the spec's defaults with store and loads the stored layout.
func OpenLayout(store goring.PrefsStore, spec Spec) (*Layout, error) {
	if err := validateFields(spec.Defaults); err != nil {
		return nil, errors.Wrapf(err, "defaults for %q", spec.Key)
	}
	if err := store.SetDefault(spec.Key, spec.Defaults); err != nil {
		return nil, err
	}
	lay := &Layout{
		store: store,
		spec:  spec,
	}
	if err := lay.Load(); err != nil {
		return nil, err
	}
	return lay, nil
}

func validateFields(fields []Field) error {
	seen := make(map[string]struct{}, len(fields))
	for i, f := range fields {
		if f.Name == "" {
			return errors.Wrapf(goring.ErrInvalidArgument, "field %d has no name", i)
		}
		if _, dupe := seen[f.Name]; dupe {
			return errors.Wrapf(goring.ErrInvalidArgument, "field %q appears more than once", f.Name)
		}
		seen[f.Name] = struct{}{}
	}
	return nil
}

// Load discards any edits and reads the stored layout.
func (lay *Layout) Load() error {
	var fields []Field
	if err := lay.store.Get(lay.spec.Key, &fields); err != nil {
		return err
	}
	if err := validateFields(fields); err != nil {
		return errors.Wrapf(goring.ErrCorruptConfig, "%q: %v", lay.spec.Key, err)
	}
	lay.fields = lay.reconcile(fields)
	lay.changed = false
	return nil
}

// reconcile drops fields the defaults do not know and appends known fields that are missing.
// A layout without defaults accepts any fields.
func (lay *Layout) reconcile(fields []Field) []Field {
	if len(lay.spec.Defaults) == 0 {
		return fields
	}
	known := make(map[string]bool, len(lay.spec.Defaults))
	for _, f := range lay.spec.Defaults {
		known[f.Name] = false
	}

	out := make([]Field, 0, len(lay.spec.Defaults))
	for _, f := range fields {
		if placed, ok := known[f.Name]; ok && !placed {
			known[f.Name] = true
			out = append(out, f)
		}
	}
	for _, f := range lay.spec.Defaults {
		if !known[f.Name] {
			out = append(out, f)
		}
	}
	return out
}

func (lay *Layout) Key() string {
	return lay.spec.Key
}

// Fields returns a copy of the current layout.
func (lay *Layout) Fields() []Field {
	out := make([]Field, len(lay.fields))
	copy(out, lay.fields)
	return out
}

func (lay *Layout) Len() int {
	return len(lay.fields)
}

func (lay *Layout) Changed() bool {
	return lay.changed
}

// Move swaps the field at idx with the one delta rows away.
// Returns the field's new index, or false if either row is out of range.
func (lay *Layout) Move(idx, delta int) (int, bool) {
	row := idx + delta
	if idx < 0 || idx >= len(lay.fields) || row < 0 || row >= len(lay.fields) || delta == 0 {
		return idx, false
	}
	lay.fields[row], lay.fields[idx] = lay.fields[idx], lay.fields[row]
	lay.changed = true
	return row, true
}

func (lay *Layout) MoveUp(idx int) (int, bool) {
	return lay.Move(idx, int(goring.Up))
}

func (lay *Layout) MoveDown(idx int) (int, bool) {
	return lay.Move(idx, int(goring.Down))
}

// SetVisible shows or hides the field at idx.
func (lay *Layout) SetVisible(idx int, visible bool) bool {
	if idx < 0 || idx >= len(lay.fields) {
		return false
	}
	lay.fields[idx].Visible = visible
	lay.changed = true
	return true
}

func (lay *Layout) ToggleAll(show bool) {
	for i := range lay.fields {
		lay.fields[i].Visible = show
	}
	lay.changed = true
}

// RestoreDefaults replaces the layout with its defaults.  The store is not written until Commit.
func (lay *Layout) RestoreDefaults() error {
	var fields []Field
	if err := lay.store.GetDefault(lay.spec.Key, &fields); err != nil {
		return err
	}
	lay.fields = fields
	lay.changed = true
	return nil
}

// Commit stores the layout if it changed.
func (lay *Layout) Commit() error {
	if !lay.changed {
		return nil
	}
	if err := lay.store.Set(lay.spec.Key, lay.fields); err != nil {
		return err
	}
	lay.changed = false
	return nil
}

// ExportTo writes the layout as an indented JSON list of [name, visible] pairs.
func (lay *Layout) ExportTo(w io.Writer) error {
	buf, err := json.MarshalIndent(lay.fields, "", " ")
	if err != nil {
		return err
	}
	_, err = w.Write(append(buf, '\n'))
	return err
}

// ImportFrom replaces the layout with one read by ExportTo.  Comments in the input are ignored.
func (lay *Layout) ImportFrom(r io.Reader) error {
	buf, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	var fields []Field
	if err = json.Unmarshal(jsonc.ToJSON(buf), &fields); err != nil {
		return errors.Wrapf(goring.ErrInvalidArgument, "bad field list: %v", err)
	}
	if err = validateFields(fields); err != nil {
		return err
	}
	lay.fields = lay.reconcile(fields)
	lay.changed = true
	return nil
}

// Export writes the layout to the given file.
func (lay *Layout) Export(pathname string) error {
	f, err := os.Create(pathname)
	if err != nil {
		return err
	}
	err = lay.ExportTo(f)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	return err
}

// Import reads a layout from the given file.
func (lay *Layout) Import(pathname string) error {
	f, err := os.Open(pathname)
	if err != nil {
		return err
	}
	defer f.Close()
	return lay.ImportFrom(f)
}
