package router

import (
	"context"

	"github.com/novatech-ai/deskrouter/classifier"
	"github.com/novatech-ai/deskrouter/common/logger"
	"github.com/novatech-ai/deskrouter/metrics"
	"github.com/novatech-ai/deskrouter/schema"
)

// Classifier is the gateway contract the router consumes.
type Classifier interface {
	Classify(ctx context.Context, query string) (classifier.Result, error)
}

// Router turns raw classification output into a routing decision. Route is
// total: a failed classification never fails the request, it degrades to
// routing the query to every configured department.
type Router struct {
	Classifier Classifier
	Registry   *schema.Registry
}

// Route classifies query and resolves one of three terminal states:
//
//   - ROUTED: one or more known departments, deduplicated, in canonical
//     registry order so downstream merge output is deterministic
//   - EMPTY: classification succeeded but selected nothing (including the
//     malformed-output case); the controller answers with a clarification
//   - FALLBACK_ALL: the classification call itself failed; every
//     department is routed so the query still gets an answer
func (r *Router) Route(ctx context.Context, query string) schema.RoutingDecision {
	res, err := r.Classifier.Classify(ctx, query)
	if err != nil {
		logger.Warnf("router: classification unavailable, routing to all departments: %v", err)
		decision := schema.RoutingDecision{
			State:       schema.StateFallbackAll,
			Departments: r.Registry.All(),
		}
		metrics.ObserveRouting(decision.State.String(), len(decision.Departments))
		return decision
	}

	departments := r.Registry.Canonicalize(res.Departments)
	decision := schema.RoutingDecision{Departments: departments}
	if len(departments) == 0 {
		decision.State = schema.StateEmpty
	} else {
		decision.State = schema.StateRouted
	}
	logger.Infof("router: state=%s departments=%v malformed=%v", decision.State, decision.Departments, res.Malformed)
	metrics.ObserveRouting(decision.State.String(), len(decision.Departments))
	return decision
}
