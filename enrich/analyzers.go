// Package enrich implements the typed clients and pure analyzers that turn
// raw upstream payloads into the normalized module record sections.
package enrich

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/nuxtcare/nuxtcare-backend/model"
)

// Probe versions used to test what a legacy constraint string admits.
var (
	probe3Low  = semver.MustParse("3.0.0")
	probe3High = semver.MustParse("3.99.99")
	probe4Low  = semver.MustParse("4.0.0")
	probe4High = semver.MustParse("4.99.99")
)

// AnalyzeCompat derives Nuxt version support from the registry compatibility
// declaration. An explicit major-version list is authoritative; a legacy
// semver range string is interpreted with constraint checks: a caret range
// pinned to 3 admits no 4.x, an open-ended ">=3" admits both, a wildcard
// admits both. Empty input yields nil.
func AnalyzeCompat(raw json.RawMessage) *model.CompatAnalysis {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}

	if majors, ok := parseMajorList(raw); ok {
		out := &model.CompatAnalysis{Explicit: true}
		labels := make([]string, 0, len(majors))
		for _, m := range majors {
			if m == 4 {
				out.Supports4 = true
			}
			if m == 3 {
				out.Supports3 = true
			}
			labels = append(labels, strconv.Itoa(m))
		}
		out.Raw = strings.Join(labels, ", ")
		return out
	}

	var rng string
	if err := json.Unmarshal(raw, &rng); err != nil || rng == "" {
		return nil
	}
	return analyzeRange(rng)
}

func parseMajorList(raw json.RawMessage) ([]int, bool) {
	var ints []int
	if err := json.Unmarshal(raw, &ints); err == nil {
		return ints, true
	}
	var strs []string
	if err := json.Unmarshal(raw, &strs); err != nil {
		return nil, false
	}
	ints = ints[:0]
	for _, s := range strs {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return nil, false
		}
		ints = append(ints, n)
	}
	return ints, true
}

func analyzeRange(rng string) *model.CompatAnalysis {
	c, err := semver.NewConstraint(rng)
	if err != nil {
		// Unparsable legacy range: fall back to substring heuristics.
		return &model.CompatAnalysis{
			Supports4: strings.Contains(rng, "^4") || strings.Contains(rng, ">=4") || strings.Contains(rng, "*"),
			Supports3: strings.Contains(rng, "3") || strings.Contains(rng, "*"),
			Raw:       rng,
		}
	}
	return &model.CompatAnalysis{
		Supports4: c.Check(probe4Low) || c.Check(probe4High),
		Supports3: c.Check(probe3Low) || c.Check(probe3High),
		Raw:       rng,
	}
}

// AnalyzeTopics derives Nuxt version tags from repository topics. Nil input
// or an empty list yields nil.
func AnalyzeTopics(topics []string) *model.TopicsAnalysis {
	if len(topics) == 0 {
		return nil
	}
	lower := lowered(topics)
	return &model.TopicsAnalysis{
		HasNuxt4:     lower["nuxt4"] || lower["nuxt-4"],
		HasNuxt3:     lower["nuxt3"] || lower["nuxt-3"],
		HasNuxt2:     lower["nuxt2"] || lower["nuxt-2"],
		IsNuxtModule: lower["nuxt-module"] || lower["nuxtjs"],
		All:          topics,
	}
}

// AnalyzeKeywords derives Nuxt version tags from package keywords. Nil input
// or an empty list yields nil.
func AnalyzeKeywords(keywords []string) *model.KeywordsAnalysis {
	if len(keywords) == 0 {
		return nil
	}
	lower := lowered(keywords)
	return &model.KeywordsAnalysis{
		HasNuxt4: lower["nuxt4"] || lower["nuxt-4"],
		HasNuxt3: lower["nuxt3"] || lower["nuxt-3"],
		All:      keywords,
	}
}

func lowered(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[strings.ToLower(v)] = true
	}
	return set
}
