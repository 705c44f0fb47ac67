// ABOUTME: Single-contact graph generation
// ABOUTME: Shows a contact with its company, opportunities and activity counts
package viz

import (
	"context"
	"fmt"

	"github.com/goccy/go-graphviz/cgraph"
	"github.com/google/uuid"
	"github.com/harperreed/leadflow/db"
	"github.com/harperreed/leadflow/models"
)

func (g *GraphGenerator) GenerateContactGraph(ctx context.Context, contactID uuid.UUID) (string, error) {
	contact, err := db.GetContact(g.db, contactID)
	if err != nil {
		return "", fmt.Errorf("failed to fetch contact: %w", err)
	}
	if contact == nil {
		return "", fmt.Errorf("contact not found: %s", contactID)
	}

	var company *models.Company
	if contact.CompanyID != nil {
		company, err = db.GetCompany(g.db, *contact.CompanyID)
		if err != nil {
			return "", fmt.Errorf("failed to fetch company: %w", err)
		}
	}

	opps, err := db.ListContactOpportunities(g.db, contactID)
	if err != nil {
		return "", fmt.Errorf("failed to fetch opportunities: %w", err)
	}

	activities, err := db.ListContactActivities(g.db, contactID, 0)
	if err != nil {
		return "", fmt.Errorf("failed to fetch activities: %w", err)
	}
	counts := make(map[string]int)
	for _, a := range activities {
		counts[a.Type]++
	}

	return render(ctx, func(graph *cgraph.Graph) error {
		graph.SetLayout("neato")

		center, err := graph.CreateNodeByName("contact")
		if err != nil {
			return fmt.Errorf("failed to create contact node: %w", err)
		}
		center.SetLabel(fmt.Sprintf("%s\n(%s)", contact.Name, contact.Status))
		center.SetShape("ellipse")
		center.SetStyle("filled")
		center.SetFillColor("lightgreen")

		if company != nil {
			node, err := graph.CreateNodeByName("company")
			if err != nil {
				return fmt.Errorf("failed to create company node: %w", err)
			}
			node.SetLabel(company.Name)
			node.SetShape("box")
			edge, err := graph.CreateEdgeByName("", center, node)
			if err != nil {
				return fmt.Errorf("failed to create edge: %w", err)
			}
			edge.SetLabel("works at")
			edge.SetStyle("dashed")
		}

		for _, opp := range opps {
			node, err := graph.CreateNodeByName("opp_" + shortID(opp.ID))
			if err != nil {
				return fmt.Errorf("failed to create opportunity node: %w", err)
			}
			node.SetLabel(fmt.Sprintf("%s\n(%s)", opp.Title, opp.Status))
			node.SetShape("diamond")
			if _, err := graph.CreateEdgeByName("", center, node); err != nil {
				return fmt.Errorf("failed to create edge: %w", err)
			}
		}

		// One node per activity type present, in the fixed type order
		for _, t := range models.ActivityTypes {
			n, ok := counts[t]
			if !ok {
				continue
			}
			node, err := graph.CreateNodeByName("activity_" + t)
			if err != nil {
				return fmt.Errorf("failed to create activity node: %w", err)
			}
			node.SetLabel(fmt.Sprintf("%s x%d", t, n))
			node.SetShape("note")
			if _, err := graph.CreateEdgeByName("", center, node); err != nil {
				return fmt.Errorf("failed to create edge: %w", err)
			}
		}
		return nil
	})
}
