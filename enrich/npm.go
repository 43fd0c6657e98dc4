package enrich

import (
	"context"
	"fmt"
	"net/url"
	"time"

	npm "github.com/aquasecurity/go-npm-version/pkg"
	"github.com/nuxtcare/nuxtcare-backend/model"
	"github.com/nuxtcare/nuxtcare-backend/util"
)

type npmVersionDoc struct {
	PeerDependencies map[string]string `json:"peerDependencies"`
	DevDependencies  map[string]string `json:"devDependencies"`
	Keywords         []string          `json:"keywords"`
	Types            string            `json:"types"`
	Typings          string            `json:"typings"`
	Scripts          map[string]string `json:"scripts"`
	Deprecated       string            `json:"deprecated"`
	Dist             struct {
		UnpackedSize int64 `json:"unpackedSize"`
	} `json:"dist"`
}

type npmRegistryDoc struct {
	Name       string                   `json:"name"`
	DistTags   map[string]string        `json:"dist-tags"`
	Versions   map[string]npmVersionDoc `json:"versions"`
	Time       map[string]string        `json:"time"`
	Deprecated string                   `json:"deprecated"`
}

type npmDownloadsDoc struct {
	Downloads int `json:"downloads"`
}

const placeholderTestScript = `echo "Error: no test specified" && exit 1`

// PackageInfo fetches package metadata and the weekly download count in
// parallel. Metadata failure voids the whole section; a failed download count
// only leaves Downloads nil.
func (c *Client) PackageInfo(ctx context.Context, pkg string) *model.PackageInfo {
	escaped := url.PathEscape(pkg)

	docCh := make(chan *npmRegistryDoc, 1)
	dlCh := make(chan *int, 1)

	go func() {
		var doc npmRegistryDoc
		if err := c.getJSON(ctx, c.NpmRegistry+"/"+escaped, &doc); err != nil {
			docCh <- nil
			return
		}
		docCh <- &doc
	}()
	go func() {
		var dl npmDownloadsDoc
		if err := c.getJSON(ctx, fmt.Sprintf("%s/downloads/point/last-week/%s", c.NpmAPI, escaped), &dl); err != nil {
			dlCh <- nil
			return
		}
		dlCh <- &dl.Downloads
	}()

	doc := <-docCh
	downloads := <-dlCh
	if doc == nil {
		return nil
	}

	latest := doc.DistTags["latest"]
	if latest == "" {
		latest = highestVersion(doc.Versions)
	}

	info := &model.PackageInfo{
		Name:          doc.Name,
		LatestVersion: latest,
		Deprecated:    doc.Deprecated,
		Downloads:     downloads,
	}

	if publish := doc.Time[latest]; publish != "" {
		info.LastPublish = publish
		if days, ok := util.DaysSince(publish, time.Now()); ok {
			info.DaysSincePublish = &days
		}
	} else if modified := doc.Time["modified"]; modified != "" {
		info.LastPublish = modified
	}

	if latestDoc, ok := doc.Versions[latest]; ok {
		info.PeerDeps = latestDoc.PeerDependencies
		info.Keywords = latestDoc.Keywords
		info.UnpackedSize = latestDoc.Dist.UnpackedSize
		if info.Deprecated == "" {
			info.Deprecated = latestDoc.Deprecated
		}

		// types/typings field = ships type declarations; typescript in devDeps
		// = written in TypeScript, common for modules using module-builder.
		devDeps := latestDoc.DevDependencies
		info.HasTypes = latestDoc.Types != "" || latestDoc.Typings != "" ||
			devDeps["typescript"] != "" || devDeps["@types/node"] != ""

		test := latestDoc.Scripts["test"]
		info.HasTests = test != "" && test != placeholderTestScript
	}

	return info
}

// highestVersion picks the newest version by npm ordering, used when the
// registry document carries no latest dist-tag.
func highestVersion(versions map[string]npmVersionDoc) string {
	var best string
	var bestVer npm.Version
	for raw := range versions {
		v, err := npm.NewVersion(raw)
		if err != nil {
			continue
		}
		if best == "" || v.GreaterThan(bestVer) {
			best = raw
			bestVer = v
		}
	}
	return best
}
