package enrich

import (
	"context"

	"github.com/nuxtcare/nuxtcare-backend/model"
	"github.com/nuxtcare/nuxtcare-backend/util"
	"golang.org/x/sync/errgroup"
)

// BuildModuleRecord pulls every enrichment source for one registry module and
// assembles the record. The independent sources are fetched concurrently;
// each failed source leaves its section nil without affecting the others. The
// CI and pending-commit fetches run second because they need the default
// branch and the last release date. The returned record carries no health
// score; callers compute it.
func (c *Client) BuildModuleRecord(ctx context.Context, reg RegistryModule) (*model.ModuleRecord, error) {
	rec := &model.ModuleRecord{
		Name:          reg.Name,
		NpmPackage:    reg.Npm,
		Repo:          reg.Repo,
		Description:   reg.Description,
		Category:      reg.Category,
		Type:          reg.Type,
		Icon:          reg.Icon,
		Maintainers:   maintainerNames(reg.Maintainers),
		RegistryStats: reg.Stats,
	}
	if reg.Compatibility != nil {
		rec.Compat = AnalyzeCompat(reg.Compatibility.Nuxt)
	}

	repoPath := util.CleanRepoPath(reg.Repo)

	g, gctx := errgroup.WithContext(ctx)
	if repoPath != "" {
		g.Go(func() error {
			rec.Repository = c.RepoInfo(gctx, repoPath)
			return nil
		})
		g.Go(func() error {
			rec.Release = c.Releases(gctx, repoPath)
			return nil
		})
		g.Go(func() error {
			rec.Contributors = c.Contributors(gctx, repoPath)
			return nil
		})
	}
	if reg.Npm != "" {
		g.Go(func() error {
			rec.Npm = c.PackageInfo(gctx, reg.Npm)
			return nil
		})
		g.Go(func() error {
			rec.Vulns = c.Vulnerabilities(gctx, reg.Npm)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if rec.Repository != nil {
		rec.Topics = AnalyzeTopics(rec.Repository.Topics)
	}
	if rec.Npm != nil {
		rec.Keywords = AnalyzeKeywords(rec.Npm.Keywords)
	}

	// Second wave: needs results from the first.
	g, gctx = errgroup.WithContext(ctx)
	if rec.Repository != nil {
		branch := rec.Repository.DefaultBranch
		g.Go(func() error {
			rec.CI = c.CIStatus(gctx, repoPath, branch)
			return nil
		})
	}
	if repoPath != "" && rec.Release != nil {
		releaseDate := rec.Release.Date
		g.Go(func() error {
			rec.Pending = c.PendingCommits(gctx, repoPath, releaseDate)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return rec, nil
}

func maintainerNames(maintainers []RegistryMaintainer) []string {
	names := make([]string, 0, len(maintainers))
	for _, m := range maintainers {
		if m.Name != "" {
			names = append(names, m.Name)
		}
	}
	return names
}
