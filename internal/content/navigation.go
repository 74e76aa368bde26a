package content

import "strings"

// ArticlePath locates an article in the /{pillar}/{cluster}/{slug}/ tree.
type ArticlePath struct {
	Pillar  PillarSlug `json:"pillar"`
	Cluster string     `json:"cluster"`
	Slug    string     `json:"slug"`
}

// URL returns the site-relative URL of the article.
func (p ArticlePath) URL() string {
	return "/" + string(p.Pillar) + "/" + p.Cluster + "/" + p.Slug + "/"
}

// PillarURL returns the site-relative URL of a pillar landing page.
func PillarURL(pillar PillarSlug) string {
	return "/" + string(pillar) + "/"
}

// ClusterURL returns the site-relative URL of a cluster hub.
func ClusterURL(pillar PillarSlug, cluster string) string {
	return "/" + string(pillar) + "/" + cluster + "/"
}

// RiskURL is the risk-management hub every article should point to.
const RiskURL = "/tactics/risk/"

// HomeLabel is the breadcrumb label of the home page.
const HomeLabel = "الرئيسية"

// Breadcrumb is one entry in a breadcrumb trail.
type Breadcrumb struct {
	Label   string `json:"label"`
	Href    string `json:"href"`
	Current bool   `json:"current,omitempty"`
}

// Breadcrumbs builds the trail home > pillar > cluster > article. Empty
// cluster or title shortens the trail; the last entry is marked current.
func Breadcrumbs(pillar PillarSlug, cluster, title string) []Breadcrumb {
	crumbs := []Breadcrumb{
		{Label: HomeLabel, Href: "/"},
		{
			Label:   PillarName(string(pillar)),
			Href:    PillarURL(pillar),
			Current: cluster == "" && title == "",
		},
	}

	if cluster != "" {
		crumbs = append(crumbs, Breadcrumb{
			Label:   ClusterName(cluster),
			Href:    ClusterURL(pillar, cluster),
			Current: title == "",
		})
	}

	if title != "" {
		crumbs = append(crumbs, Breadcrumb{Label: title, Href: "#", Current: true})
	}

	return crumbs
}

// LinkType classifies an editorial internal link.
type LinkType string

const (
	LinkPillar  LinkType = "pillar"
	LinkCluster LinkType = "cluster"
	LinkSibling LinkType = "sibling"
	LinkChild   LinkType = "child"
)

// Link is an outgoing link as declared by the editor or found in content.
type Link struct {
	URL  string
	Type LinkType
}

// LinkReport lists the mandatory links an article is missing.
type LinkReport struct {
	Valid   bool
	Missing []string
}

// Messages reported by ValidateInternalLinks.
const (
	MissingPillarLink  = "رابط صفحة الركيزة"
	MissingClusterLink = "رابط صفحة المجموعة"
	MissingRiskLink    = "رابط إلى قسم إدارة المخاطر"
)

// ValidateInternalLinks checks the linking rules: every article links to its
// pillar page and its cluster hub, and every article outside the risk cluster
// links to the risk-management section.
func ValidateInternalLinks(path ArticlePath, links []Link) LinkReport {
	var missing []string

	pillarURL := PillarURL(path.Pillar)
	clusterURL := ClusterURL(path.Pillar, path.Cluster)

	hasPillar, hasCluster, hasRisk := false, false, false
	for _, l := range links {
		if l.URL == pillarURL || l.Type == LinkPillar {
			hasPillar = true
		}
		if l.URL == clusterURL || l.Type == LinkCluster {
			hasCluster = true
		}
		if strings.Contains(l.URL, RiskURL) {
			hasRisk = true
		}
	}

	if !hasPillar {
		missing = append(missing, MissingPillarLink)
	}
	if !hasCluster {
		missing = append(missing, MissingClusterLink)
	}
	if path.Cluster != "risk" && !hasRisk {
		missing = append(missing, MissingRiskLink)
	}

	return LinkReport{Valid: len(missing) == 0, Missing: missing}
}
