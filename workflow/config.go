// ABOUTME: Per-action step configuration variants
// ABOUTME: Typed read-only views keyed by action type, decoded from a step's key/value config
package workflow

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

// Config is the typed view of one step's configuration. Each action type has
// its own variant. The step's key/value map stays the source of truth; a
// variant only reads it.
type Config interface {
	ActionType() ActionType
	Summary() string
}

type SendEmail struct {
	Template string `mapstructure:"template"`
	Subject  string `mapstructure:"subject"`
	Body     string `mapstructure:"body"`
}

type SendNotification struct {
	Title   string `mapstructure:"title"`
	Message string `mapstructure:"message"`
	Channel string `mapstructure:"channel"`
}

// Delay keeps Duration untyped: executors accept counts ("2", 1.5) as well as
// Go-style durations ("5m").
type Delay struct {
	Duration any    `mapstructure:"duration"`
	Unit     string `mapstructure:"unit"`
}

type Condition struct {
	Field    string `mapstructure:"field"`
	Operator string `mapstructure:"operator"`
	Value    any    `mapstructure:"value"`
}

type UpdateField struct {
	Field string `mapstructure:"field"`
	Value any    `mapstructure:"value"`
}

type CreateActivity struct {
	Title        string `mapstructure:"title"`
	ActivityType string `mapstructure:"activity_type"`
	Description  string `mapstructure:"description"`
}

type AddTag struct {
	Tag string `mapstructure:"tag"`
}

type SendWhatsApp struct {
	Message string `mapstructure:"message"`
}

type MoveStage struct {
	Stage string `mapstructure:"stage"`
}

func (SendEmail) ActionType() ActionType        { return ActionSendEmail }
func (SendNotification) ActionType() ActionType { return ActionSendNotification }
func (Delay) ActionType() ActionType            { return ActionDelay }
func (Condition) ActionType() ActionType        { return ActionCondition }
func (UpdateField) ActionType() ActionType      { return ActionUpdateField }
func (CreateActivity) ActionType() ActionType   { return ActionCreateActivity }
func (AddTag) ActionType() ActionType           { return ActionAddTag }
func (SendWhatsApp) ActionType() ActionType     { return ActionSendWhatsApp }
func (MoveStage) ActionType() ActionType        { return ActionMoveStage }

func (c SendEmail) Summary() string {
	if c.Subject != "" {
		return "email: " + c.Subject
	}
	return "email " + orUnset(c.Template)
}

func (c SendNotification) Summary() string {
	return fmt.Sprintf("notify %s: %s", orUnset(c.Channel), c.Title)
}

func (c Delay) Summary() string {
	if c.Duration == nil {
		return "wait ?"
	}
	return strings.TrimSpace(fmt.Sprintf("wait %v %s", c.Duration, c.Unit))
}

func (c Condition) Summary() string {
	return fmt.Sprintf("if %s %s %v", orUnset(c.Field), orUnset(c.Operator), c.Value)
}

func (c UpdateField) Summary() string {
	return fmt.Sprintf("set %s = %v", orUnset(c.Field), c.Value)
}

func (c CreateActivity) Summary() string {
	return fmt.Sprintf("%s: %s", orUnset(c.ActivityType), c.Title)
}

func (c AddTag) Summary() string      { return "tag " + orUnset(c.Tag) }
func (c SendWhatsApp) Summary() string { return "whatsapp: " + c.Message }
func (c MoveStage) Summary() string    { return "move to " + orUnset(c.Stage) }

func orUnset(s string) string {
	if s == "" {
		return "?"
	}
	return s
}

type schema struct {
	keys   []string
	decode func(raw map[string]any) Config
}

var schemas = map[ActionType]schema{
	ActionSendEmail:        variant[SendEmail]("template", "subject", "body"),
	ActionSendNotification: variant[SendNotification]("title", "message", "channel"),
	ActionDelay:            variant[Delay]("duration", "unit"),
	ActionCondition:        variant[Condition]("field", "operator", "value"),
	ActionUpdateField:      variant[UpdateField]("field", "value"),
	ActionCreateActivity:   variant[CreateActivity]("title", "activity_type", "description"),
	ActionAddTag:           variant[AddTag]("tag"),
	ActionSendWhatsApp:     variant[SendWhatsApp]("message"),
	ActionMoveStage:        variant[MoveStage]("stage"),
}

// variant decodes best effort: when the whole map does not fit T, keys are
// decoded one at a time and the ones that do not fit are left at zero.
func variant[T Config](keys ...string) schema {
	return schema{
		keys: keys,
		decode: func(raw map[string]any) Config {
			var out T
			if err := decodeInto(&out, raw); err == nil {
				return out
			}

			out = *new(T)
			names := make([]string, 0, len(raw))
			for k := range raw {
				names = append(names, k)
			}
			sort.Strings(names)
			for _, k := range names {
				_ = decodeInto(&out, map[string]any{k: raw[k]})
			}
			return out
		},
	}
}

func decodeInto(out any, raw map[string]any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(raw)
}

// ConfigKeys lists the meaningful configuration keys of an action type.
func ConfigKeys(actionType ActionType) []string {
	s, ok := schemas[actionType]
	if !ok {
		return nil
	}
	keys := make([]string, len(s.keys))
	copy(keys, s.keys)
	return keys
}
