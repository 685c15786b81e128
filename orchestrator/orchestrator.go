package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/novatech-ai/deskrouter/common/logger"
	"github.com/novatech-ai/deskrouter/metrics"
	"github.com/novatech-ai/deskrouter/retriever"
	"github.com/novatech-ai/deskrouter/schema"
)

// Router resolves a query to a routing decision.
type Router interface {
	Route(ctx context.Context, query string) schema.RoutingDecision
}

// Responder produces one department's answer.
type Responder interface {
	Answer(ctx context.Context, query string, dept schema.Department, fragments []string) (schema.Answer, error)
}

// Merger combines two or more answers into one reply.
type Merger interface {
	Merge(ctx context.Context, query string, answers []schema.Answer) (string, error)
}

// Orchestrator sequences the pipeline: route, fan out per department,
// validate, merge. It performs no retries of its own.
type Orchestrator struct {
	Router    Router
	Retriever retriever.Retriever
	Responder Responder
	Merger    Merger
	Registry  *schema.Registry

	// TopK fragments retrieved per department.
	TopK int
	// PerDepartmentTimeout bounds each fan-out leg. Zero disables it.
	PerDepartmentTimeout time.Duration

	clarification string
	clarifyOnce   sync.Once
}

// Clarification returns the fixed clarification-request answer, built once
// from the registry's department names.
func (o *Orchestrator) Clarification() string {
	o.clarifyOnce.Do(func() {
		names := make([]string, 0, o.Registry.Len())
		for _, d := range o.Registry.All() {
			names = append(names, string(d))
		}
		o.clarification = fmt.Sprintf(
			"Could you clarify whether this relates to %s?",
			joinNames(names),
		)
	})
	return o.clarification
}

// Run executes the full pipeline for one query. Only generation or
// retrieval backend failures surface as errors; classification ambiguity
// degrades to a clarification request and keeps the contract total.
func (o *Orchestrator) Run(ctx context.Context, query string) (schema.PipelineResult, error) {
	decision := o.Router.Route(ctx, query)
	if decision.State == schema.StateEmpty {
		metrics.IncOutcome("clarification")
		return schema.PipelineResult{
			Query:             query,
			DepartmentsRouted: decision.Departments,
			Answer:            o.Clarification(),
		}, nil
	}

	answers, err := o.fanOut(ctx, query, decision.Departments)
	if err != nil {
		metrics.IncOutcome("error")
		return schema.PipelineResult{}, err
	}

	// Validation: drop refusals; an all-refusal outcome means the routed
	// departments all judged the query out of scope.
	substantive := answers[:0:0]
	for _, a := range answers {
		if !a.Refused() {
			substantive = append(substantive, a)
		}
	}
	if len(substantive) == 0 {
		logger.Infof("pipeline: all %d routed departments refused", len(answers))
		metrics.IncOutcome("clarification")
		return schema.PipelineResult{
			Query:             query,
			DepartmentsRouted: decision.Departments,
			Answer:            o.Clarification(),
		}, nil
	}

	var final string
	if len(substantive) == 1 {
		final = substantive[0].Text
	} else {
		metrics.IncMerge()
		final, err = o.Merger.Merge(ctx, query, substantive)
		if err != nil {
			metrics.IncOutcome("error")
			return schema.PipelineResult{}, err
		}
	}
	metrics.IncOutcome("answered")
	return schema.PipelineResult{
		Query:             query,
		DepartmentsRouted: decision.Departments,
		Answer:            final,
	}, nil
}

// fanOut runs the retrieve+answer leg for every department concurrently.
// Each leg writes to its own slot so output order stays canonical no
// matter which leg finishes first; the join waits for all of them.
func (o *Orchestrator) fanOut(ctx context.Context, query string, departments []schema.Department) ([]schema.Answer, error) {
	answers := make([]schema.Answer, len(departments))
	errs := make([]error, len(departments))

	var wg sync.WaitGroup
	for i, dept := range departments {
		wg.Add(1)
		go func(slot int, dept schema.Department) {
			defer wg.Done()
			legCtx := ctx
			if o.PerDepartmentTimeout > 0 {
				var cancel context.CancelFunc
				legCtx, cancel = context.WithTimeout(ctx, o.PerDepartmentTimeout)
				defer cancel()
			}
			answers[slot], errs[slot] = o.leg(legCtx, query, dept)
		}(i, dept)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return answers, nil
}

func (o *Orchestrator) leg(ctx context.Context, query string, dept schema.Department) (schema.Answer, error) {
	info, ok := o.Registry.Info(dept)
	if !ok {
		return schema.Answer{}, fmt.Errorf("pipeline: unknown department %q", dept)
	}
	start := time.Now()
	results, err := o.Retriever.Retrieve(ctx, query, info, o.TopK)
	if err != nil {
		return schema.Answer{}, err
	}
	metrics.ObserveRetriever(string(dept), start, len(results))

	answerStart := time.Now()
	answer, err := o.Responder.Answer(ctx, query, dept, retriever.Fragments(results))
	if err != nil {
		return schema.Answer{}, err
	}
	metrics.ObserveResponder(string(dept), answerStart, answer.Kind.String())
	return answer, nil
}

func joinNames(names []string) string {
	switch len(names) {
	case 0:
		return "one of our departments"
	case 1:
		return names[0]
	default:
		return strings.Join(names[:len(names)-1], ", ") + " or " + names[len(names)-1]
	}
}
