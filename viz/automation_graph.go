// ABOUTME: Automation flow graph generation
// ABOUTME: Draws a draft's trigger followed by its steps in execution order
package viz

import (
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz/cgraph"
	"github.com/harperreed/leadflow/workflow"
)

// AutomationGraph renders the draft as a left-to-right chain: the trigger,
// then one node per step labelled with its action type and set config keys.
func AutomationGraph(ctx context.Context, draft *workflow.Draft) (string, error) {
	return render(ctx, func(graph *cgraph.Graph) error {
		graph.SetRankDir(cgraph.LRRank)
		graph.SetLabel(draft.Name)

		trigger, err := graph.CreateNodeByName("trigger")
		if err != nil {
			return fmt.Errorf("failed to create trigger node: %w", err)
		}
		triggerLabel := string(draft.TriggerType)
		if triggerLabel == "" {
			triggerLabel = "no trigger"
		}
		trigger.SetLabel("when: " + triggerLabel)
		trigger.SetShape("oval")
		trigger.SetStyle("filled")
		trigger.SetFillColor("lightblue")

		prev := trigger
		for i, step := range draft.Steps {
			node, err := graph.CreateNodeByName("step_" + step.ID)
			if err != nil {
				return fmt.Errorf("failed to create step node: %w", err)
			}
			node.SetLabel(stepLabel(i, step))
			node.SetShape(stepShape(step.ActionType))
			node.SetStyle("filled")
			node.SetFillColor(stepColor(step.ActionType))

			if _, err := graph.CreateEdgeByName("", prev, node); err != nil {
				return fmt.Errorf("failed to create edge: %w", err)
			}
			prev = node
		}
		return nil
	})
}

func stepLabel(i int, step workflow.Step) string {
	lines := []string{fmt.Sprintf("%d. %s", i+1, step.ActionType)}
	if cfg := step.Config(); cfg != nil {
		lines = append(lines, cfg.Summary())
	}
	fields := step.Fields()
	for _, key := range workflow.ConfigKeys(step.ActionType) {
		if v, ok := fields[key]; ok {
			lines = append(lines, fmt.Sprintf("%s: %v", key, v))
		}
	}
	return strings.Join(lines, `\n`)
}

func stepShape(t workflow.ActionType) cgraph.Shape {
	switch t {
	case workflow.ActionCondition:
		return cgraph.DiamondShape
	case workflow.ActionDelay:
		return cgraph.OctagonShape
	default:
		return cgraph.BoxShape
	}
}

func stepColor(t workflow.ActionType) string {
	switch t {
	case workflow.ActionCondition:
		return "lightyellow"
	case workflow.ActionDelay:
		return "lightgrey"
	default:
		return "palegreen"
	}
}
