package schema

// Department identifies one organizational role category a query can be
// routed to. Values are only meaningful relative to the Registry the
// process was configured with.
type Department string

// DepartmentInfo describes one department: its label, the human-readable
// scope bullets used to build prompts, and the key used to filter the
// vector store.
type DepartmentInfo struct {
	Name         Department `json:"name" yaml:"name"`
	Scope        []string   `json:"scope" yaml:"scope"`
	RetrievalKey string     `json:"retrieval_key,omitempty" yaml:"retrieval_key,omitempty"`
}

// Key returns the metadata filter key for this department, defaulting to
// the department name.
func (d DepartmentInfo) Key() string {
	if d.RetrievalKey != "" {
		return d.RetrievalKey
	}
	return string(d.Name)
}

// Document is one indexed text fragment. Seq preserves ingestion order so
// equal-score results sort stably.
type Document struct {
	ID         string `json:"id"`
	Content    string `json:"content"`
	Department string `json:"department"`
	Seq        int    `json:"seq"`
}

// SearchResult pairs a document with its similarity score.
type SearchResult struct {
	Document Document `json:"document"`
	Score    float64  `json:"score"`
}

// SearchOptions bounds a vector store search.
type SearchOptions struct {
	TopK       int
	Department string
	Threshold  float64
}

// AnswerKind tags a department answer so downstream validation never has
// to match on model output text.
type AnswerKind int

const (
	// AnswerSubstantive is a grounded in-scope answer.
	AnswerSubstantive AnswerKind = iota
	// AnswerNoRecords means the department is in scope but the index held
	// nothing for the query. Treated as substantive during validation.
	AnswerNoRecords
	// AnswerRefusal means the department judged the query out of scope.
	AnswerRefusal
)

// String returns the string representation of AnswerKind.
func (k AnswerKind) String() string {
	switch k {
	case AnswerSubstantive:
		return "substantive"
	case AnswerNoRecords:
		return "no_records"
	case AnswerRefusal:
		return "refusal"
	default:
		return "unknown"
	}
}

// Answer is the result of answering a query for one department.
type Answer struct {
	Department Department `json:"department"`
	Kind       AnswerKind `json:"kind"`
	Text       string     `json:"text"`
}

// Refused reports whether the department declined the query as out of scope.
func (a Answer) Refused() bool { return a.Kind == AnswerRefusal }

// RouteState is the terminal state of a routing decision.
type RouteState int

const (
	// StateRouted means the classifier selected one or more departments.
	StateRouted RouteState = iota
	// StateEmpty means classification succeeded but selected nothing; the
	// pipeline answers with a clarification request.
	StateEmpty
	// StateFallbackAll means classification itself was unavailable and the
	// query is routed to every configured department.
	StateFallbackAll
)

// String returns the string representation of RouteState.
func (s RouteState) String() string {
	switch s {
	case StateRouted:
		return "routed"
	case StateEmpty:
		return "empty"
	case StateFallbackAll:
		return "fallback_all"
	default:
		return "unknown"
	}
}

// RoutingDecision is the ordered department set selected for a query.
// Departments is always a subset of the registry, deduplicated and in
// canonical registry order.
type RoutingDecision struct {
	State       RouteState   `json:"state"`
	Departments []Department `json:"departments"`
}

// PipelineResult is the value returned to the caller for one query.
type PipelineResult struct {
	Query             string       `json:"query"`
	DepartmentsRouted []Department `json:"departments_routed"`
	Answer            string       `json:"answer"`
}
