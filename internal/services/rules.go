package services

// Shared keyword rule tables. Every heuristic that matches text against a
// fixed vocabulary reads from here so each concern has a single source of
// truth (the normalizer, risk scorers, classifier and planner all used to
// disagree about what counted as "payments-related" in earlier drafts).

// Stopwords is tuned to the tracker domain: generic nouns that appear in
// nearly every ticket ("issue", "bug", "app", "report") are filtered so
// domain-specific terms surface in keyword rankings.
var Stopwords = map[string]bool{
	"the": true, "and": true, "for": true, "are": true, "but": true,
	"not": true, "you": true, "all": true, "can": true, "had": true,
	"her": true, "was": true, "one": true, "our": true, "out": true,
	"has": true, "have": true, "been": true, "this": true, "that": true,
	"with": true, "from": true, "they": true, "will": true, "when": true,
	"what": true, "there": true, "their": true, "then": true, "them": true,
	"should": true, "would": true, "could": true, "does": true, "done": true,
	"also": true, "some": true, "such": true, "only": true, "other": true,
	"into": true, "after": true, "before": true, "while": true, "where": true,
	"which": true, "same": true, "need": true, "needs": true, "please": true,
	"issue": true, "issues": true, "bug": true, "bugs": true, "app": true,
	"report": true, "reports": true, "user": true, "users": true,
	"client": true, "clients": true, "system": true, "page": true,
	"showing": true, "shows": true, "show": true, "working": true,
	"added": true, "using": true, "still": true, "getting": true,
}

// moduleRule maps a substring of the raw module field to its canonical
// label. Order is significant: first match wins.
type moduleRule struct {
	Match string
	Label string
}

var moduleRules = []moduleRule{
	{"checklist", "Checklist"},
	{"journal", "Journal"},
	{"logbook", "Journal"},
	{"report", "Reporting"},
	{"mobile", "Mobile App"},
	{"app", "Mobile App"},
	{"employee", "Employee"},
	{"role", "Roles"},
	{"location", "Locations"},
	{"reference", "Reference Material"},
}

// statusPhrases are the canonical status labels matched by substring
// against the raw status field.
var statusPhrases = []string{
	"resolved",
	"rejected",
	"on stage",
	"under development",
	"on hold",
	"tested on staging",
	"not started",
}

// closedMarkers classify a normalized status as closed.
var closedMarkers = []string{"resolved", "rejected", "completed"}

// bonusKeywords feed the bounded risk score: each distinct phrase found
// in the lowercased title+description adds one point. The list is
// additive and deliberately uncapped.
var bonusKeywords = []string{
	"crash", "timeout", "data loss", "login", "cannot", "can't",
	"fail", "failed", "error", "urgent", "blocker", "blocked",
	"security", "breach", "corrupt", "down", "outage", "payment",
	"sync", "duplicate", "missing", "wrong time", "timezone",
	"not working", "broken", "freeze",
}

// moduleWeights is the bounded scorer's exposure bump per canonical
// module. Reporting and Checklist carry the most operational traffic.
var moduleWeights = map[string]float64{
	"Reporting":  1.5,
	"Checklist":  1.5,
	"Mobile App": 1.0,
	"Employee":   0.5,
	"Roles":      0.5,
	"Locations":  0.5,
}

// dimensionRule bumps the weighted-dimension scorer when any of its
// terms appears in the issue text. Bumps cap each dimension at 6.
type dimensionRule struct {
	Terms       []string
	Severity    int
	Impact      int
	Urgency     int
	Technical   int
	Business    int
	Operational int
	Time        int
	Reason      string
}

var dimensionRules = []dimensionRule{
	{
		Terms:    []string{"critical", "outage", "down", "crash", "data loss", "security", "breach"},
		Severity: 2, Impact: 1,
		Reason: "critical/outage language",
	},
	{
		Terms:    []string{"payment", "billing", "invoice", "pos", "checkout"},
		Business: 2, Impact: 2,
		Reason: "payments or POS affected",
	},
	{
		Terms:     []string{"slow", "performance", "latency", "timeout", "lag"},
		Technical: 2, Severity: 1,
		Reason: "performance degradation",
	},
	{
		Terms:    []string{"login", "auth", "password", "sso", "session"},
		Severity: 1, Technical: 1, Impact: 1,
		Reason: "authentication affected",
	},
	{
		Terms:   []string{"rush", "peak", "weekend", "month end", "end of month"},
		Urgency: 2, Time: 2,
		Reason: "peak period exposure",
	},
	{
		Terms:       []string{"release", "deploy", "blocker", "regression", "rollback"},
		Operational: 2, Urgency: 1,
		Reason: "deployment blocker",
	},
}

// categoryRule is an ordered first-match-wins topic rule.
type categoryRule struct {
	Terms []string
	Label string
}

var categoryRules = []categoryRule{
	{[]string{"timezone", "time zone", "utc", "gmt", "locale"}, "Timezone / locale"},
	{[]string{"arabic", "rtl", "encoding", "unicode", "non-ascii"}, "i18n / encoding"},
	{[]string{"export", "excel", "pdf"}, "Exports & reporting output"},
	{[]string{"schedule", "on-demand", "on demand", "display time"}, "Scheduling & instances"},
	{[]string{"notification", "push", "email"}, "Notifications"},
	{[]string{"roles", "access"}, "Access control / roles"},
	{[]string{"employee"}, "Employee management"},
	{[]string{"journal", "logbook"}, "Journal / logbook"},
	{[]string{"geofence", "geofencing", "geo-fence", "geo fence"}, "Geofencing"},
	{[]string{"camera", "photo", "video"}, "Media / attachments"},
}

// CategoryFallback is assigned when no category rule matches.
const CategoryFallback = "General"

// bucketRule defines one thematic dashboard bucket. Unlike categories,
// an issue may land in several buckets.
type bucketRule struct {
	Name  string
	Terms []string
}

var bucketRules = []bucketRule{
	{"Time & scheduling", []string{"timezone", "time zone", "schedule", "display time", "instance"}},
	{"Exports & reports", []string{"export", "excel", "pdf", "print"}},
	{"Notifications", []string{"notification", "push", "email", "reminder"}},
	{"Access & roles", []string{"role", "permission", "access", "login"}},
	{"Mobile experience", []string{"mobile", "android", "ios", "offline"}},
	{"Data & sync", []string{"sync", "duplicate", "missing", "data"}},
	{"Geofencing", []string{"geofence", "geofencing", "geo-fence", "gps"}},
	{"Media & attachments", []string{"camera", "photo", "video", "attachment", "upload"}},
}

// bucketDisplayCap limits how many representative issues a bucket keeps
// (first encountered in input order).
const bucketDisplayCap = 7

// labelRule is the ranked multi-label scheme used by the analytics
// path; every label with at least one hit is returned, ordered by hits.
type labelRule struct {
	Label string
	Terms []string
}

var labelRules = []labelRule{
	{"Authentication/Login", []string{"login", "auth", "password", "sso", "session"}},
	{"Payments/Billing", []string{"payment", "billing", "invoice", "pos", "checkout"}},
	{"Performance/Latency", []string{"slow", "performance", "latency", "timeout", "lag"}},
	{"Reliability/Errors", []string{"error", "crash", "fail", "exception", "outage"}},
	{"UI/UX", []string{"button", "screen", "layout", "display", "scroll"}},
	{"Data/Sync", []string{"sync", "duplicate", "missing", "export", "import"}},
}

// plannerRiskyTerms penalize a release description that touches the
// historically fragile areas of the product.
var plannerRiskyTerms = []string{"schedule", "report", "export", "timezone", "geofence", "filter"}

// triageRegressionMarker flags possible regressions in triage rule (b).
const triageRegressionMarker = "after release"
