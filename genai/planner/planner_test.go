package planner

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/groundedquery/core/genai/llmadapter"
	"github.com/groundedquery/core/genai/plan"
)

type fakeAdapter struct {
	plans []*plan.Plan
	errs  []error
	calls int
}

func (f *fakeAdapter) GeneratePlan(ctx context.Context, req llmadapter.PlanRequest) (*plan.Plan, error) {
	i := f.calls
	f.calls++
	var p *plan.Plan
	var err error
	if i < len(f.plans) {
		p = f.plans[i]
	}
	if i < len(f.errs) {
		err = f.errs[i]
	}
	return p, err
}
func (f *fakeAdapter) GenerateAnswer(ctx context.Context, req llmadapter.AnswerRequest) (*llmadapter.RawAnswer, error) {
	return nil, nil
}
func (f *fakeAdapter) StreamAnswer(ctx context.Context, req llmadapter.AnswerRequest) (<-chan llmadapter.AnswerFragment, error) {
	return nil, nil
}

func validPlan() *plan.Plan {
	return &plan.Plan{Intent: "count rows", Actions: []*plan.Action{{Tool: "sql.query", Args: map[string]interface{}{"sql": "SELECT 1"}}}}
}

func TestPlan_SucceedsFirstTry(t *testing.T) {
	a := &fakeAdapter{plans: []*plan.Plan{validPlan()}}
	p := &Planner{Adapter: a}

	got, err := p.Plan(context.Background(), "how many rows?", "", []string{"sql.query"})
	require.NoError(t, err)
	assert.Equal(t, "count rows", got.Intent)
	assert.Equal(t, 1, a.calls)
}

func TestPlan_RetriesOnInvalidPlanThenSucceeds(t *testing.T) {
	invalid := &plan.Plan{} // needsClarification=false, actions empty: invariant violation
	a := &fakeAdapter{plans: []*plan.Plan{invalid, validPlan()}}
	p := &Planner{Adapter: a, MaxRetries: 2}

	got, err := p.Plan(context.Background(), "q", "", nil)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Equal(t, 2, a.calls)
}

func TestPlan_ExhaustsRetriesAndRaisesPlannerError(t *testing.T) {
	invalid := &plan.Plan{}
	a := &fakeAdapter{plans: []*plan.Plan{invalid, invalid, invalid}}
	p := &Planner{Adapter: a, MaxRetries: 2}

	_, err := p.Plan(context.Background(), "q", "", nil)
	require.Error(t, err)
}

func TestPlan_AdapterErrorIsRetried(t *testing.T) {
	a := &fakeAdapter{errs: []error{errors.New("upstream timeout")}, plans: []*plan.Plan{nil, validPlan()}}
	p := &Planner{Adapter: a, MaxRetries: 1}

	got, err := p.Plan(context.Background(), "q", "", nil)
	require.NoError(t, err)
	assert.NotNil(t, got)
}
