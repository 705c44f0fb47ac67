// ABOUTME: Tests for automation draft editing and serialization
// ABOUTME: Covers insert/delete/reorder identity rules, config merging and payload flattening
package workflow

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sequentialIDs swaps the id generator for a predictable one for the test's duration.
func sequentialIDs(t *testing.T) {
	t.Helper()
	orig := newStepID
	n := 0
	newStepID = func() string {
		n++
		return fmt.Sprintf("step-%d", n)
	}
	t.Cleanup(func() { newStepID = orig })
}

func stepIDs(d *Draft) []string {
	out := make([]string, len(d.Steps))
	for i, s := range d.Steps {
		out[i] = s.ID
	}
	return out
}

func TestInsertStepPositions(t *testing.T) {
	sequentialIDs(t)
	d := &Draft{Name: "Welcome"}

	s1, err := d.InsertStep(ActionSendEmail, 0)
	require.NoError(t, err)
	_, err = d.InsertStep(ActionDelay, 1)
	require.NoError(t, err)
	_, err = d.InsertStep(ActionAddTag, 0)
	require.NoError(t, err)
	_, err = d.InsertStep(ActionMoveStage, 99)
	require.NoError(t, err)
	_, err = d.InsertStep(ActionCondition, -5)
	require.NoError(t, err)

	assert.Equal(t, []string{"step-5", "step-3", "step-1", "step-2", "step-4"}, stepIDs(d))
	assert.Equal(t, SendEmail{}, s1.Config())
	assert.Empty(t, s1.Fields())
}

func TestInsertStepUnknownType(t *testing.T) {
	d := &Draft{}
	_, err := d.InsertStep("send_fax", 0)
	assert.ErrorIs(t, err, ErrUnknownActionType)
	assert.Empty(t, d.Steps)
}

func TestInsertStepGeneratesUniqueIDs(t *testing.T) {
	d := &Draft{}
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		s, err := d.AppendStep(ActionAddTag)
		require.NoError(t, err)
		assert.False(t, seen[s.ID], "duplicate id %s", s.ID)
		seen[s.ID] = true
	}
}

func TestReorderThenDeleteRoundTrip(t *testing.T) {
	sequentialIDs(t)
	d := &Draft{Name: "Round trip"}
	s1, _ := d.AppendStep(ActionSendEmail)
	s2, _ := d.AppendStep(ActionDelay)
	s3, _ := d.AppendStep(ActionAddTag)

	require.True(t, d.ReorderStep(s3.ID, s1.ID))
	assert.Equal(t, []string{s3.ID, s1.ID, s2.ID}, stepIDs(d))

	require.True(t, d.DeleteStep(d.Steps[0].ID))
	assert.Equal(t, []string{s1.ID, s2.ID}, stepIDs(d))
	assert.Equal(t, ActionSendEmail, d.Steps[0].ActionType)
	assert.Equal(t, ActionDelay, d.Steps[1].ActionType)
}

func TestReorderForward(t *testing.T) {
	sequentialIDs(t)
	d := &Draft{}
	for i := 0; i < 4; i++ {
		_, _ = d.AppendStep(ActionAddTag)
	}

	require.True(t, d.ReorderStep("step-1", "step-3"))
	assert.Equal(t, []string{"step-2", "step-3", "step-1", "step-4"}, stepIDs(d))
}

func TestReorderNoOps(t *testing.T) {
	sequentialIDs(t)
	d := &Draft{}
	_, _ = d.AppendStep(ActionSendEmail)
	_, _ = d.AppendStep(ActionDelay)
	before := append([]Step(nil), d.Steps...)

	assert.False(t, d.ReorderStep("step-1", "step-1"))
	assert.False(t, d.ReorderStep("step-1", "missing"))
	assert.False(t, d.ReorderStep("missing", "step-2"))
	assert.Equal(t, before, d.Steps)
}

func TestDeleteMissingIsNoOp(t *testing.T) {
	sequentialIDs(t)
	d := &Draft{}
	_, _ = d.AppendStep(ActionSendEmail)

	assert.False(t, d.DeleteStep("nope"))
	assert.Len(t, d.Steps, 1)
}

func TestUpdateStepConfigMerges(t *testing.T) {
	sequentialIDs(t)
	d := &Draft{}
	s, _ := d.AppendStep(ActionSendEmail)

	require.True(t, d.UpdateStepConfig(s.ID, map[string]any{"subject": "Hola", "template": "welcome"}))
	require.True(t, d.UpdateStepConfig(s.ID, map[string]any{"subject": "Bienvenido", "cc": "sales@acme.com"}))

	step, _ := d.Step(s.ID)
	assert.Equal(t, SendEmail{Template: "welcome", Subject: "Bienvenido"}, step.Config())
	assert.Equal(t, map[string]any{
		"template": "welcome",
		"subject":  "Bienvenido",
		"cc":       "sales@acme.com",
	}, step.Fields())
}

func TestUpdateStepConfigNilOverwrites(t *testing.T) {
	sequentialIDs(t)
	d := &Draft{}
	s, _ := d.AppendStep(ActionMoveStage)
	d.UpdateStepConfig(s.ID, map[string]any{"stage": "proposal"})

	require.True(t, d.UpdateStepConfig(s.ID, map[string]any{"stage": nil}))

	step, _ := d.Step(s.ID)
	assert.Equal(t, map[string]any{"stage": nil}, step.Fields())
	assert.Empty(t, d.Lint(), "a nil value is still a set key")
}

func TestUpdateStepConfigKeepsValuesVerbatim(t *testing.T) {
	cases := []struct {
		name   string
		action ActionType
		patch  map[string]any
	}{
		{"zero value", ActionCondition, map[string]any{"value": 0}},
		{"empty tag", ActionAddTag, map[string]any{"tag": ""}},
		{"fractional duration", ActionDelay, map[string]any{"duration": 1.5}},
		{"duration string", ActionDelay, map[string]any{"duration": "5m"}},
		{"numeric string", ActionDelay, map[string]any{"duration": "2"}},
		{"false flag", ActionUpdateField, map[string]any{"field": "opted_in", "value": false}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := &Draft{Name: "x"}
			s, err := d.AppendStep(tc.action)
			require.NoError(t, err)

			require.True(t, d.UpdateStepConfig(s.ID, tc.patch))

			action := d.Payload().Actions[0]
			for k, want := range tc.patch {
				assert.Equal(t, want, action[k], k)
			}
		})
	}
}

func TestUpdateStepConfigSurvivesJSON(t *testing.T) {
	sequentialIDs(t)
	d := &Draft{Name: "x"}
	wait, _ := d.AppendStep(ActionDelay)
	cond, _ := d.AppendStep(ActionCondition)
	d.UpdateStepConfig(wait.ID, map[string]any{"duration": "5m", "unit": ""})
	d.UpdateStepConfig(cond.ID, map[string]any{"field": "score", "operator": "gt", "value": 0})

	data, err := json.Marshal(d)
	require.NoError(t, err)
	var restored Draft
	require.NoError(t, json.Unmarshal(data, &restored))

	actions := restored.Payload().Actions
	assert.Equal(t, map[string]any{"type": "delay", "duration": "5m", "unit": ""}, actions[0])
	assert.Equal(t, float64(0), actions[1]["value"])
}

func TestConfigViewIsBestEffort(t *testing.T) {
	sequentialIDs(t)
	d := &Draft{}
	wait, _ := d.AppendStep(ActionDelay)
	tag, _ := d.AppendStep(ActionAddTag)
	d.UpdateStepConfig(wait.ID, map[string]any{"duration": "5m", "unit": []string{"bad"}})
	d.UpdateStepConfig(tag.ID, map[string]any{"tag": map[string]any{"nested": true}})

	step, _ := d.Step(wait.ID)
	assert.Equal(t, Delay{Duration: "5m"}, step.Config())
	assert.Equal(t, "wait 5m", step.Config().Summary())

	step, _ = d.Step(tag.ID)
	assert.Equal(t, AddTag{}, step.Config())
	assert.Equal(t, "tag ?", step.Config().Summary())
	assert.Equal(t, map[string]any{"nested": true}, step.Fields()["tag"], "raw value untouched")
}

func TestRemoveStepConfigKeys(t *testing.T) {
	sequentialIDs(t)
	d := &Draft{}
	s, _ := d.AppendStep(ActionSendEmail)
	d.UpdateStepConfig(s.ID, map[string]any{"template": "t1", "subject": "Hi", "cc": "x"})

	require.True(t, d.RemoveStepConfigKeys(s.ID, "subject", "cc", "absent"))
	assert.False(t, d.RemoveStepConfigKeys("nope", "template"))

	step, _ := d.Step(s.ID)
	assert.Equal(t, map[string]any{"template": "t1"}, step.Fields())
}

func TestUpdateStepConfigMissingID(t *testing.T) {
	d := &Draft{}
	assert.False(t, d.UpdateStepConfig("nope", map[string]any{"tag": "x"}))
	assert.Empty(t, d.Steps)
}

func TestEditsLeaveCopiesUntouched(t *testing.T) {
	sequentialIDs(t)
	d := Draft{Name: "x", Steps: make([]Step, 0, 8)}
	s1, _ := d.AppendStep(ActionSendEmail)
	s2, _ := d.AppendStep(ActionDelay)
	s3, _ := d.AppendStep(ActionAddTag)
	d.UpdateStepConfig(s3.ID, map[string]any{"tag": "VIP"})

	snapshot := d
	want := []string{s1.ID, s2.ID, s3.ID}

	require.True(t, d.DeleteStep(s1.ID))
	assert.Equal(t, want, stepIDs(&snapshot))

	_, err := d.InsertStep(ActionMoveStage, 0)
	require.NoError(t, err)
	assert.Equal(t, want, stepIDs(&snapshot))

	require.True(t, d.ReorderStep(s3.ID, s2.ID))
	assert.Equal(t, want, stepIDs(&snapshot))

	require.True(t, d.UpdateStepConfig(s3.ID, map[string]any{"tag": "Gold"}))
	require.True(t, d.RemoveStepConfigKeys(s3.ID, "tag"))
	step, _ := snapshot.Step(s3.ID)
	assert.Equal(t, map[string]any{"tag": "VIP"}, step.Fields())
}

func TestValidate(t *testing.T) {
	assert.ErrorIs(t, (&Draft{}).Validate(), ErrNameRequired)
	assert.ErrorIs(t, (&Draft{Name: "   "}).Validate(), ErrNameRequired)
	assert.NoError(t, (&Draft{Name: "Empty but named"}).Validate())
}

func TestSetTrigger(t *testing.T) {
	d := &Draft{}
	require.NoError(t, d.SetTrigger(TriggerContactCreated, map[string]any{"source": "web"}))
	assert.Equal(t, TriggerContactCreated, d.TriggerType)

	assert.ErrorIs(t, d.SetTrigger("on_full_moon", nil), ErrUnknownTrigger)
	assert.Equal(t, TriggerContactCreated, d.TriggerType)
}

func TestLint(t *testing.T) {
	sequentialIDs(t)
	d := &Draft{Name: "Lint"}
	tag, _ := d.AppendStep(ActionAddTag)
	email, _ := d.AppendStep(ActionSendEmail)
	d.UpdateStepConfig(tag.ID, map[string]any{"tag": "VIP"})
	d.UpdateStepConfig(email.ID, map[string]any{"subject": "Hi"})

	issues := d.Lint()

	require.Len(t, issues, 1)
	assert.Equal(t, email.ID, issues[0].StepID)
	assert.Equal(t, []string{"template", "body"}, issues[0].MissingKeys)
	assert.Equal(t, "step 2 (send_email): missing template, body", issues[0].String())
	assert.NoError(t, d.Validate(), "lint issues never block save")
}

func TestLintCountsEmptyValuesAsSet(t *testing.T) {
	sequentialIDs(t)
	d := &Draft{Name: "Lint"}
	tag, _ := d.AppendStep(ActionAddTag)
	cond, _ := d.AppendStep(ActionCondition)
	d.UpdateStepConfig(tag.ID, map[string]any{"tag": ""})
	d.UpdateStepConfig(cond.ID, map[string]any{"field": "score", "value": 0})

	issues := d.Lint()

	require.Len(t, issues, 1)
	assert.Equal(t, cond.ID, issues[0].StepID)
	assert.Equal(t, []string{"operator"}, issues[0].MissingKeys)
}

func TestConfigKeys(t *testing.T) {
	assert.Equal(t, []string{"template", "subject", "body"}, ConfigKeys(ActionSendEmail))
	assert.Equal(t, []string{"tag"}, ConfigKeys(ActionAddTag))
	assert.Nil(t, ConfigKeys("unknown"))
	for _, a := range ActionTypes {
		assert.NotEmpty(t, ConfigKeys(a), a)
	}
}

func TestPayloadFlattensSteps(t *testing.T) {
	sequentialIDs(t)
	d := &Draft{Name: "VIP", Description: "Tag big customers"}
	require.NoError(t, d.SetTrigger(TriggerManual, nil))
	s, _ := d.AppendStep(ActionAddTag)
	d.UpdateStepConfig(s.ID, map[string]any{"tag": "VIP"})

	p := d.Payload()

	require.Len(t, p.Actions, 1)
	assert.Equal(t, map[string]any{"type": "add_tag", "tag": "VIP"}, p.Actions[0])

	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"name": "VIP",
		"description": "Tag big customers",
		"trigger_type": "manual",
		"trigger_config": {},
		"conditions": [],
		"actions": [{"type": "add_tag", "tag": "VIP"}]
	}`, string(data))
}

func TestPayloadEmptyDraft(t *testing.T) {
	data, err := json.Marshal((&Draft{Name: "x"}).Payload())
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"x","description":"","trigger_type":"","trigger_config":{},"conditions":[],"actions":[]}`, string(data))
}

func TestPayloadConfigTypeKeyWins(t *testing.T) {
	sequentialIDs(t)
	d := &Draft{Name: "x"}
	s, _ := d.AppendStep(ActionSendNotification)
	d.UpdateStepConfig(s.ID, map[string]any{"type": "legacy"})

	assert.Equal(t, "legacy", d.Payload().Actions[0]["type"])
}

func TestParsePayloadRoundTrip(t *testing.T) {
	sequentialIDs(t)
	src := &Draft{Name: "Nurture"}
	require.NoError(t, src.SetTrigger(TriggerScheduled, map[string]any{"cron": "0 9 * * 1"}))
	email, _ := src.AppendStep(ActionSendEmail)
	src.UpdateStepConfig(email.ID, map[string]any{"template": "t1", "subject": "s", "body": "b"})
	wait, _ := src.AppendStep(ActionDelay)
	src.UpdateStepConfig(wait.ID, map[string]any{"duration": 2, "unit": "days"})

	parsed, err := ParsePayload(src.Payload())
	require.NoError(t, err)

	assert.Equal(t, src.Payload(), parsed.Payload())
	assert.NotEqual(t, stepIDs(src), stepIDs(&parsed), "parsed steps get fresh ids")
}

func TestParsePayloadKeepsLooseValues(t *testing.T) {
	p := Payload{
		Name:        "Loose",
		TriggerType: TriggerManual,
		Actions: []map[string]any{
			{"type": "delay", "duration": "5m"},
			{"type": "add_tag", "tag": ""},
			{"type": "condition", "field": "score", "operator": "gt", "value": 0},
		},
	}

	parsed, err := ParsePayload(p)
	require.NoError(t, err)

	assert.Equal(t, p.Actions, parsed.Payload().Actions)
}

func TestParsePayloadUnknownAction(t *testing.T) {
	_, err := ParsePayload(Payload{Name: "x", Actions: []map[string]any{{"type": "teleport"}}})
	assert.ErrorIs(t, err, ErrUnknownActionType)
}

func TestDraftJSONKeepsStepIdentity(t *testing.T) {
	sequentialIDs(t)
	d := &Draft{Name: "Persisted"}
	s, _ := d.AppendStep(ActionCondition)
	d.UpdateStepConfig(s.ID, map[string]any{"field": "status", "operator": "equals", "value": "cliente"})

	data, err := json.Marshal(d)
	require.NoError(t, err)

	var restored Draft
	require.NoError(t, json.Unmarshal(data, &restored))

	require.Len(t, restored.Steps, 1)
	assert.Equal(t, s.ID, restored.Steps[0].ID)
	assert.Equal(t, Condition{Field: "status", Operator: "equals", Value: "cliente"}, restored.Steps[0].Config())
}
