// Package content describes the editorial structure of the site: the four
// pillars, their clusters, the WordPress category ids behind them and the
// navigation derived from that hierarchy.
//
// URLs follow /{pillar}/{cluster}/{slug}/.
package content

// PillarSlug names one of the top-level content categories.
type PillarSlug string

const (
	Basics     PillarSlug = "basics"
	Indicators PillarSlug = "indicators"
	Tools      PillarSlug = "tools"
	Tactics    PillarSlug = "tactics"

	// LegacyPillar is assigned to posts whose categories match no pillar.
	LegacyPillar PillarSlug = "learn"
	// GeneralCluster is assigned to posts whose categories match no cluster.
	GeneralCluster = "general"
)

// Pillar is a top-level content category.
type Pillar struct {
	Slug        PillarSlug
	NameAr      string
	NameEn      string
	Description string
	Color       string
	Icon        string
}

// Cluster is a sub-category within a pillar.
type Cluster struct {
	Slug   string
	NameAr string
	Pillar PillarSlug
}

// PillarOrder lists the pillars in navigation order.
var PillarOrder = []PillarSlug{Basics, Indicators, Tools, Tactics}

// Pillars indexes pillar metadata by slug.
var Pillars = map[PillarSlug]Pillar{
	Basics: {
		Slug:        Basics,
		NameAr:      "أساسيات التحليل الفني",
		NameEn:      "Basics",
		Description: "المعرفة الأساسية والمفاهيم التأسيسية للتحليل الفني",
		Color:       "#3B82F6",
		Icon:        "academic-cap",
	},
	Indicators: {
		Slug:        Indicators,
		NameAr:      "المؤشرات الفنية",
		NameEn:      "Indicators",
		Description: "الأدوات الفنية والمؤشرات المستخدمة في التحليل",
		Color:       "#F97316",
		Icon:        "chart-bar",
	},
	Tools: {
		Slug:        Tools,
		NameAr:      "الأدوات والحاسبات",
		NameEn:      "Tools",
		Description: "الحاسبات والأدوات العملية للمتداولين",
		Color:       "#10B981",
		Icon:        "calculator",
	},
	Tactics: {
		Slug:        Tactics,
		NameAr:      "الاستراتيجيات وإدارة المخاطر",
		NameEn:      "Tactics",
		Description: "استراتيجيات التداول وإدارة المخاطر",
		Color:       "#8B5CF6",
		Icon:        "light-bulb",
	},
}

// Clusters lists every cluster grouped by pillar, in navigation order.
var Clusters = []Cluster{
	{Slug: "intro", NameAr: "مقدمة في التحليل الفني", Pillar: Basics},
	{Slug: "patterns", NameAr: "أنماط الشموع والرسوم", Pillar: Basics},
	{Slug: "action", NameAr: "حركة السعر", Pillar: Basics},
	{Slug: "methods", NameAr: "طرق التحليل", Pillar: Basics},

	{Slug: "momentum", NameAr: "مؤشرات الزخم", Pillar: Indicators},
	{Slug: "trend", NameAr: "مؤشرات الاتجاه", Pillar: Indicators},
	{Slug: "volatility", NameAr: "مؤشرات التذبذب", Pillar: Indicators},
	{Slug: "volume", NameAr: "مؤشرات الحجم", Pillar: Indicators},

	{Slug: "calc", NameAr: "الحاسبات", Pillar: Tools},
	{Slug: "charts", NameAr: "الرسوم البيانية", Pillar: Tools},
	{Slug: "data", NameAr: "البيانات والمصادر", Pillar: Tools},

	{Slug: "trend-tactics", NameAr: "استراتيجيات الاتجاه", Pillar: Tactics},
	{Slug: "reversion", NameAr: "استراتيجيات الارتداد", Pillar: Tactics},
	{Slug: "intraday", NameAr: "التداول اليومي", Pillar: Tactics},
	{Slug: "risk", NameAr: "إدارة المخاطر", Pillar: Tactics},
}

// PillarCategoryIDs maps pillars to their parent WordPress category ids.
var PillarCategoryIDs = map[PillarSlug]int{
	Basics:     2,
	Indicators: 3,
	Tools:      4,
	Tactics:    5,
}

// ClusterCategoryIDs maps clusters to their child WordPress category ids.
var ClusterCategoryIDs = map[string]int{
	"intro":    6,
	"patterns": 7,
	"action":   8,
	"methods":  9,

	"momentum":   10,
	"trend":      11,
	"volatility": 12,
	"volume":     13,

	"calc":   14,
	"charts": 15,
	"data":   16,

	"trend-tactics": 17,
	"reversion":     18,
	"intraday":      19,
	"risk":          20,
}

// CategoryIDToSlug is the reverse of PillarCategoryIDs and ClusterCategoryIDs.
var CategoryIDToSlug = buildCategoryIndex()

func buildCategoryIndex() map[int]string {
	index := make(map[int]string, len(PillarCategoryIDs)+len(ClusterCategoryIDs))
	for slug, id := range ClusterCategoryIDs {
		index[id] = slug
	}
	for slug, id := range PillarCategoryIDs {
		index[id] = string(slug)
	}
	return index
}

// PillarNamesAr holds Arabic display names, including legacy pillars.
var PillarNamesAr = map[string]string{
	"basics":     "أساسيات التحليل الفني",
	"indicators": "المؤشرات الفنية",
	"tools":      "الأدوات والحاسبات",
	"tactics":    "الاستراتيجيات وإدارة المخاطر",
	"learn":      "تعلم",
	"accounts":   "حسابات",
	"trust":      "ثقة",
}

// ClusterNamesAr holds Arabic display names for clusters.
var ClusterNamesAr = buildClusterNames()

func buildClusterNames() map[string]string {
	names := make(map[string]string, len(Clusters))
	for _, c := range Clusters {
		names[c.Slug] = c.NameAr
	}
	return names
}

// ClustersByPillar returns the cluster slugs of a pillar in navigation order.
func ClustersByPillar(pillar PillarSlug) []string {
	var slugs []string
	for _, c := range Clusters {
		if c.Pillar == pillar {
			slugs = append(slugs, c.Slug)
		}
	}
	return slugs
}

// ClusterInfo looks up a cluster by slug.
func ClusterInfo(slug string) (Cluster, bool) {
	for _, c := range Clusters {
		if c.Slug == slug {
			return c, true
		}
	}
	return Cluster{}, false
}

// PillarForCluster returns the pillar owning a cluster.
func PillarForCluster(slug string) (PillarSlug, bool) {
	c, ok := ClusterInfo(slug)
	if !ok {
		return "", false
	}
	return c.Pillar, true
}

// IsValidPillar reports whether s names one of the four pillars.
func IsValidPillar(s string) bool {
	_, ok := Pillars[PillarSlug(s)]
	return ok
}

// IsValidCluster reports whether cluster belongs to pillar.
func IsValidCluster(pillar PillarSlug, cluster string) bool {
	c, ok := ClusterInfo(cluster)
	return ok && c.Pillar == pillar
}

// IsPillarCategory reports whether a WordPress category id is a pillar parent.
func IsPillarCategory(id int) bool {
	for _, pid := range PillarCategoryIDs {
		if pid == id {
			return true
		}
	}
	return false
}

// ClusterCategoryIDsForPillar returns the category ids of a pillar's clusters.
func ClusterCategoryIDsForPillar(pillar PillarSlug) []int {
	var ids []int
	for _, slug := range ClustersByPillar(pillar) {
		if id, ok := ClusterCategoryIDs[slug]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// CategoryIDs returns the WordPress category ids for a pillar/cluster pair.
func CategoryIDs(pillar PillarSlug, cluster string) []int {
	var ids []int
	if id, ok := PillarCategoryIDs[pillar]; ok {
		ids = append(ids, id)
	}
	if id, ok := ClusterCategoryIDs[cluster]; ok {
		ids = append(ids, id)
	}
	return ids
}

// PillarName returns the Arabic pillar name, or the slug when unknown.
func PillarName(pillar string) string {
	if name, ok := PillarNamesAr[pillar]; ok {
		return name
	}
	return pillar
}

// ClusterName returns the Arabic cluster name, or the slug when unknown.
func ClusterName(cluster string) string {
	if name, ok := ClusterNamesAr[cluster]; ok {
		return name
	}
	return cluster
}
