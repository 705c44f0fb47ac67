// ABOUTME: Pipeline graph generation across companies, contacts and opportunities
// ABOUTME: Opportunities are coloured by status and linked to their company and contact
package viz

import (
	"context"
	"fmt"

	"github.com/goccy/go-graphviz/cgraph"
	"github.com/harperreed/leadflow/db"
	"github.com/harperreed/leadflow/models"
)

var statusColors = map[string]string{
	models.OpportunityStatusOpen:      "lightyellow",
	models.OpportunityStatusWon:       "palegreen",
	models.OpportunityStatusLost:      "lightcoral",
	models.OpportunityStatusDiscarded: "lightgrey",
}

// GeneratePipelineGraph draws every company and opportunity, with the
// contacts attached to an opportunity.
func (g *GraphGenerator) GeneratePipelineGraph(ctx context.Context) (string, error) {
	companies, err := db.FindCompanies(g.db, "", 10000)
	if err != nil {
		return "", fmt.Errorf("failed to fetch companies: %w", err)
	}

	opps, err := db.FindOpportunities(g.db, db.OpportunityFilter{Limit: 10000})
	if err != nil {
		return "", fmt.Errorf("failed to fetch opportunities: %w", err)
	}

	return render(ctx, func(graph *cgraph.Graph) error {
		graph.SetLabel("Pipeline")
		graph.SetRankDir(cgraph.LRRank)

		companyNodes := make(map[string]*cgraph.Node)
		for _, company := range companies {
			node, err := graph.CreateNodeByName("company_" + shortID(company.ID))
			if err != nil {
				return fmt.Errorf("failed to create company node: %w", err)
			}
			node.SetLabel(fmt.Sprintf("%s\n(Company)", company.Name))
			node.SetShape("box")
			node.SetStyle("filled")
			node.SetFillColor("lightblue")
			companyNodes[company.ID.String()] = node
		}

		contactNodes := make(map[string]*cgraph.Node)
		for _, opp := range opps {
			node, err := graph.CreateNodeByName("opp_" + shortID(opp.ID))
			if err != nil {
				return fmt.Errorf("failed to create opportunity node: %w", err)
			}
			node.SetLabel(fmt.Sprintf("%s\n%s %.2f\n(%s)", opp.Title, opp.Currency, float64(opp.Amount)/100, opp.Status))
			node.SetShape("diamond")
			node.SetStyle("filled")
			color, ok := statusColors[opp.Status]
			if !ok {
				color = "white"
			}
			node.SetFillColor(color)

			if opp.CompanyID != nil {
				if companyNode, ok := companyNodes[opp.CompanyID.String()]; ok {
					edge, err := graph.CreateEdgeByName("", companyNode, node)
					if err != nil {
						return fmt.Errorf("failed to create edge: %w", err)
					}
					edge.SetLabel("opportunity")
				}
			}

			if opp.ContactID != nil {
				key := opp.ContactID.String()
				contactNode, ok := contactNodes[key]
				if !ok {
					contact, err := db.GetContact(g.db, *opp.ContactID)
					if err != nil {
						return fmt.Errorf("failed to fetch contact: %w", err)
					}
					if contact == nil {
						continue
					}
					contactNode, err = graph.CreateNodeByName("contact_" + shortID(contact.ID))
					if err != nil {
						return fmt.Errorf("failed to create contact node: %w", err)
					}
					contactNode.SetLabel(contact.Name)
					contactNode.SetShape("ellipse")
					contactNode.SetStyle("filled")
					contactNode.SetFillColor("lightgreen")
					contactNodes[key] = contactNode
				}
				edge, err := graph.CreateEdgeByName("", contactNode, node)
				if err != nil {
					return fmt.Errorf("failed to create edge: %w", err)
				}
				edge.SetStyle("dotted")
			}
		}
		return nil
	})
}
