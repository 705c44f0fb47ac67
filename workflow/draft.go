// ABOUTME: Editable automation draft: trigger plus an ordered list of steps
// ABOUTME: Step insertion, deletion, reordering, config merging and save validation
package workflow

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/oklog/ulid/v2"
)

// newStepID generates step ids. ULIDs sort by creation time, which keeps ids
// readable in stored drafts.
var newStepID = func() string {
	return ulid.Make().String()
}

// Step is one action in an automation. The id is unique within its draft and
// survives reorders. Values holds the configuration exactly as it was set.
type Step struct {
	ID         string
	ActionType ActionType
	Values     map[string]any
}

// Fields returns a copy of the step's flat key/value configuration.
func (s Step) Fields() map[string]any {
	fields := make(map[string]any, len(s.Values))
	maps.Copy(fields, s.Values)
	return fields
}

// Config returns the typed view of the step's configuration. Values that do
// not fit the variant are left at zero in the view and kept untouched in Values.
func (s Step) Config() Config {
	sc, ok := schemas[s.ActionType]
	if !ok {
		return nil
	}
	return sc.decode(s.Values)
}

type stepJSON struct {
	ID         string         `json:"id"`
	ActionType ActionType     `json:"action_type"`
	Config     map[string]any `json:"config"`
}

func (s Step) MarshalJSON() ([]byte, error) {
	return json.Marshal(stepJSON{ID: s.ID, ActionType: s.ActionType, Config: s.Fields()})
}

func (s *Step) UnmarshalJSON(data []byte) error {
	var raw stepJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if !raw.ActionType.Valid() {
		return fmt.Errorf("%w: %s", ErrUnknownActionType, raw.ActionType)
	}
	if raw.Config == nil {
		raw.Config = map[string]any{}
	}
	*s = Step{ID: raw.ID, ActionType: raw.ActionType, Values: raw.Config}
	return nil
}

// Draft is the editable form of an automation before it is persisted.
type Draft struct {
	Name          string         `json:"name"`
	Description   string         `json:"description"`
	TriggerType   TriggerType    `json:"trigger_type"`
	TriggerConfig map[string]any `json:"trigger_config"`
	Steps         []Step         `json:"steps"`
}

// SetTrigger sets the trigger type and its configuration.
func (d *Draft) SetTrigger(t TriggerType, cfg map[string]any) error {
	if t != "" && !t.Valid() {
		return fmt.Errorf("%w: %s", ErrUnknownTrigger, t)
	}
	d.TriggerType = t
	d.TriggerConfig = cfg
	return nil
}

// InsertStep creates a step with an empty config and splices it in at
// position at. 0 inserts at the head; out of range positions are clamped.
// Edits never write into a Steps slice shared with a copy of the draft.
func (d *Draft) InsertStep(actionType ActionType, at int) (Step, error) {
	if !actionType.Valid() {
		return Step{}, fmt.Errorf("%w: %s", ErrUnknownActionType, actionType)
	}

	step := Step{
		ID:         newStepID(),
		ActionType: actionType,
		Values:     map[string]any{},
	}

	at = max(0, min(at, len(d.Steps)))
	d.Steps = slices.Insert(slices.Clone(d.Steps), at, step)

	return step, nil
}

// AppendStep inserts a step at the end of the sequence.
func (d *Draft) AppendStep(actionType ActionType) (Step, error) {
	return d.InsertStep(actionType, len(d.Steps))
}

// IndexOf returns the position of the step with the given id, or -1.
func (d *Draft) IndexOf(id string) int {
	for i, s := range d.Steps {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// Step returns the step with the given id.
func (d *Draft) Step(id string) (Step, bool) {
	i := d.IndexOf(id)
	if i < 0 {
		return Step{}, false
	}
	return d.Steps[i], true
}

// DeleteStep removes the step with the given id. Missing ids are a no-op.
func (d *Draft) DeleteStep(id string) bool {
	i := d.IndexOf(id)
	if i < 0 {
		return false
	}
	d.Steps = slices.Delete(slices.Clone(d.Steps), i, i+1)
	return true
}

// ReorderStep moves the step fromID to the position currently held by toID,
// shifting the steps in between by one. Missing or equal ids are a no-op.
func (d *Draft) ReorderStep(fromID, toID string) bool {
	if fromID == toID {
		return false
	}
	from, to := d.IndexOf(fromID), d.IndexOf(toID)
	if from < 0 || to < 0 {
		return false
	}

	steps := slices.Clone(d.Steps)
	moved := steps[from]
	steps = slices.Delete(steps, from, from+1)
	d.Steps = slices.Insert(steps, to, moved)
	return true
}

// UpdateStepConfig shallow-merges patch into the step's config: every patch
// key overwrites, nil and zero values included, and values are stored as
// given. Reports false when no step has the id.
func (d *Draft) UpdateStepConfig(id string, patch map[string]any) bool {
	i := d.IndexOf(id)
	if i < 0 {
		return false
	}

	step := d.Steps[i]
	step.Values = step.Fields()
	maps.Copy(step.Values, patch)

	d.Steps = slices.Clone(d.Steps)
	d.Steps[i] = step
	return true
}

// RemoveStepConfigKeys deletes keys from the step's config. Reports false
// when no step has the id.
func (d *Draft) RemoveStepConfigKeys(id string, keys ...string) bool {
	i := d.IndexOf(id)
	if i < 0 {
		return false
	}

	step := d.Steps[i]
	step.Values = step.Fields()
	for _, k := range keys {
		delete(step.Values, k)
	}

	d.Steps = slices.Clone(d.Steps)
	d.Steps[i] = step
	return true
}

// Validate reports whether the draft can be saved. Only the name is required;
// an automation without trigger or steps is allowed.
func (d *Draft) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return ErrNameRequired
	}
	return nil
}

// Issue is an advisory note about a step's configuration.
type Issue struct {
	StepID      string     `json:"step_id"`
	Position    int        `json:"position"`
	ActionType  ActionType `json:"action_type"`
	MissingKeys []string   `json:"missing_keys"`
}

func (i Issue) String() string {
	return fmt.Sprintf("step %d (%s): missing %s", i.Position+1, i.ActionType, strings.Join(i.MissingKeys, ", "))
}

// Lint lists steps whose meaningful config keys are absent. A key that is
// present counts as set whatever its value. It never blocks saving.
func (d *Draft) Lint() []Issue {
	var issues []Issue
	for i, step := range d.Steps {
		fields := step.Fields()
		var missing []string
		for _, key := range ConfigKeys(step.ActionType) {
			if _, ok := fields[key]; !ok {
				missing = append(missing, key)
			}
		}
		if len(missing) > 0 {
			issues = append(issues, Issue{
				StepID:      step.ID,
				Position:    i,
				ActionType:  step.ActionType,
				MissingKeys: missing,
			})
		}
	}
	return issues
}
