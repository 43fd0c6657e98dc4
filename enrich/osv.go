package enrich

import (
	"context"

	"github.com/google/osv-scanner/pkg/models"
	"github.com/nuxtcare/nuxtcare-backend/model"
	"github.com/nuxtcare/nuxtcare-backend/util"
)

type osvQuery struct {
	Package osvPackage `json:"package"`
}

type osvPackage struct {
	Name      string `json:"name"`
	Ecosystem string `json:"ecosystem"`
}

type osvResponse struct {
	Vulns []models.Vulnerability `json:"vulns"`
}

// Vulnerabilities queries the vulnerability database for the npm package.
// Severity tiers come from the highest CVSS base score when a vector is
// present, falling back to the database-provided severity label. The detail
// list is truncated to ten entries but the per-tier counts cover every
// advisory returned.
func (c *Client) Vulnerabilities(ctx context.Context, pkg string) *model.VulnerabilityInfo {
	query := osvQuery{Package: osvPackage{Name: pkg, Ecosystem: "npm"}}

	var res osvResponse
	if err := c.postJSON(ctx, c.OSVAPI+"/v1/query", query, &res); err != nil {
		return nil
	}

	info := &model.VulnerabilityInfo{
		Count:           len(res.Vulns),
		Vulnerabilities: []model.VulnerabilitySummary{},
	}

	for _, vuln := range res.Vulns {
		severity := advisorySeverity(vuln)
		switch severity {
		case "CRITICAL":
			info.Critical++
		case "HIGH":
			info.High++
		case "MEDIUM":
			info.Medium++
		case "LOW":
			info.Low++
		}

		if len(info.Vulnerabilities) < 10 {
			summary := vuln.Summary
			if summary == "" {
				summary = vuln.ID
			}
			info.Vulnerabilities = append(info.Vulnerabilities, model.VulnerabilitySummary{
				ID:       vuln.ID,
				Summary:  summary,
				Severity: severity,
			})
		}
	}

	return info
}

// advisorySeverity resolves one advisory to a tier name.
func advisorySeverity(vuln models.Vulnerability) string {
	highest := 0.0
	for _, sev := range vuln.Severity {
		if sev.Type != models.SeverityCVSSV3 && sev.Type != models.SeverityCVSSV4 {
			continue
		}
		if score := util.CalculateCVSSScore(sev.Score); score > highest {
			highest = score
		}
	}
	if highest > 0 {
		return util.GetSeverityRating(highest)
	}

	if label, ok := vuln.DatabaseSpecific["severity"].(string); ok {
		return util.NormalizeSeverityLabel(label)
	}
	return "UNKNOWN"
}
