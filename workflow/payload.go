// ABOUTME: Serialization boundary between drafts and automation executors
// ABOUTME: Flattens steps into {type, ...config} actions and parses them back
package workflow

import (
	"fmt"
	"maps"
)

// Payload is the form an automation is handed to persistence and execution.
type Payload struct {
	Name          string           `json:"name"`
	Description   string           `json:"description"`
	TriggerType   TriggerType      `json:"trigger_type"`
	TriggerConfig map[string]any   `json:"trigger_config"`
	Conditions    []any            `json:"conditions"`
	Actions       []map[string]any `json:"actions"`
}

// Payload flattens the draft. Each step becomes {type: action_type} merged
// with its config; config keys are applied after type and win on collision.
func (d *Draft) Payload() Payload {
	trigger := map[string]any{}
	maps.Copy(trigger, d.TriggerConfig)

	actions := make([]map[string]any, 0, len(d.Steps))
	for _, step := range d.Steps {
		action := map[string]any{"type": string(step.ActionType)}
		maps.Copy(action, step.Fields())
		actions = append(actions, action)
	}

	return Payload{
		Name:          d.Name,
		Description:   d.Description,
		TriggerType:   d.TriggerType,
		TriggerConfig: trigger,
		Conditions:    []any{},
		Actions:       actions,
	}
}

// ParsePayload rebuilds an editable draft from a payload. Steps receive fresh
// ids and keep their config values verbatim. Only an unknown trigger or action
// type is an error.
func ParsePayload(p Payload) (Draft, error) {
	d := Draft{
		Name:          p.Name,
		Description:   p.Description,
		TriggerConfig: p.TriggerConfig,
	}
	if err := d.SetTrigger(p.TriggerType, p.TriggerConfig); err != nil {
		return Draft{}, err
	}

	for i, action := range p.Actions {
		actionType, _ := action["type"].(string)
		rest := maps.Clone(action)
		delete(rest, "type")

		step, err := d.AppendStep(ActionType(actionType))
		if err != nil {
			return Draft{}, fmt.Errorf("action %d: %w", i, err)
		}
		d.UpdateStepConfig(step.ID, rest)
	}

	return d, nil
}
