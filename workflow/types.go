// ABOUTME: Trigger and action type enumerations for automations
// ABOUTME: Defines the fixed sets of triggers and step action types
package workflow

import "errors"

type TriggerType string

const (
	TriggerContactCreated   TriggerType = "contact_created"
	TriggerDealStageChanged TriggerType = "deal_stage_changed"
	TriggerActivityDue      TriggerType = "activity_due"
	TriggerContactBirthday  TriggerType = "contact_birthday"
	TriggerManual           TriggerType = "manual"
	TriggerScheduled        TriggerType = "scheduled"
)

var TriggerTypes = []TriggerType{
	TriggerContactCreated,
	TriggerDealStageChanged,
	TriggerActivityDue,
	TriggerContactBirthday,
	TriggerManual,
	TriggerScheduled,
}

func (t TriggerType) Valid() bool {
	for _, v := range TriggerTypes {
		if v == t {
			return true
		}
	}
	return false
}

type ActionType string

const (
	ActionSendEmail        ActionType = "send_email"
	ActionSendNotification ActionType = "send_notification"
	ActionCreateActivity   ActionType = "create_activity"
	ActionUpdateField      ActionType = "update_field"
	ActionSendWhatsApp     ActionType = "send_whatsapp"
	ActionAddTag           ActionType = "add_tag"
	ActionMoveStage        ActionType = "move_stage"
	ActionDelay            ActionType = "delay"
	ActionCondition        ActionType = "condition"
)

var ActionTypes = []ActionType{
	ActionSendEmail,
	ActionSendNotification,
	ActionCreateActivity,
	ActionUpdateField,
	ActionSendWhatsApp,
	ActionAddTag,
	ActionMoveStage,
	ActionDelay,
	ActionCondition,
}

func (a ActionType) Valid() bool {
	_, ok := schemas[a]
	return ok
}

var (
	ErrNameRequired      = errors.New("automation name is required")
	ErrUnknownTrigger    = errors.New("unknown trigger type")
	ErrUnknownActionType = errors.New("unknown action type")
)
