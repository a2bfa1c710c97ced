package editor

import "fmt"

// Operation is one edit sent by the admin UI.
//
//	{"op":"set","fields":{...}}              singleton sections
//	{"op":"append","fields":{...}}
//	{"op":"edit","index":2,"fields":{...}}
//	{"op":"remove","index":2}
//	{"op":"move","from":3,"to":0}
type Operation struct {
	Op     string         `json:"op"`
	Index  int            `json:"index"`
	From   int            `json:"from"`
	To     int            `json:"to"`
	Fields map[string]any `json:"fields"`
}

// Apply runs one operation against the draft.
func (d *Draft) Apply(op Operation) error {
	switch op.Op {
	case "set":
		return d.Set(op.Fields)
	case "append":
		return d.Append(op.Fields)
	case "edit":
		return d.Edit(op.Index, op.Fields)
	case "remove":
		return d.Remove(op.Index)
	case "move":
		return d.Move(op.From, op.To)
	}
	return fmt.Errorf("%w: %q", ErrInvalidOperation, op.Op)
}

// ApplyAll runs ops in order and stops at the first failure, reporting its
// position.
func (d *Draft) ApplyAll(ops []Operation) error {
	for i, op := range ops {
		if err := d.Apply(op); err != nil {
			return fmt.Errorf("edit %d: %w", i, err)
		}
	}
	return nil
}
