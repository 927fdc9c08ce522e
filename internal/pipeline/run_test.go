package pipeline

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theronnieguidry/teachers-assistant/internal/credits"
	"github.com/theronnieguidry/teachers-assistant/internal/db"
	"github.com/theronnieguidry/teachers-assistant/internal/llm"
	"github.com/theronnieguidry/teachers-assistant/internal/quality"
	"github.com/theronnieguidry/teachers-assistant/internal/types"
)

// fakeStore records project status transitions and persisted versions.
type fakeStore struct {
	mu           sync.Mutex
	generating   []uuid.UUID
	completed    []uuid.UUID
	failed       map[uuid.UUID]string
	versions     []*db.VersionInput
	snapshots    int
	insertPanics bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{failed: make(map[uuid.UUID]string)}
}

func (s *fakeStore) MarkGenerating(ctx context.Context, projectID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generating = append(s.generating, projectID)
	return nil
}

func (s *fakeStore) MarkCompleted(ctx context.Context, projectID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.completed = append(s.completed, projectID)
	return nil
}

func (s *fakeStore) MarkFailed(ctx context.Context, projectID uuid.UUID, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failed[projectID] = message
	return nil
}

func (s *fakeStore) InsertVersion(ctx context.Context, input *db.VersionInput) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.insertPanics {
		panic("version store corrupted")
	}
	s.versions = append(s.versions, input)
	return len(s.versions), nil
}

func (s *fakeStore) SavePlanSnapshot(ctx context.Context, projectID uuid.UUID, plan *types.ContentPlan, wasRepaired bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots++
	return nil
}

// fakeCreditStore is an in-memory balance with a reserve/refund audit trail.
type fakeCreditStore struct {
	balance  int
	reserves []int
	refunds  []int
}

func (s *fakeCreditStore) ReserveCredits(ctx context.Context, userID uuid.UUID, amount int, projectID uuid.UUID, reason string) (bool, error) {
	if s.balance < amount {
		return false, nil
	}
	s.balance -= amount
	s.reserves = append(s.reserves, amount)
	return true, nil
}

func (s *fakeCreditStore) RefundCredits(ctx context.Context, userID uuid.UUID, amount int, projectID uuid.UUID, reason string) error {
	s.balance += amount
	s.refunds = append(s.refunds, amount)
	return nil
}

// fakeClient is a scriptable capability backend that records the prompts it
// receives.
type fakeClient struct {
	requiresPayment bool
	cost            int
	completeErr     error
	content         string
	jsonResponses   []string
	jsonCalls       int
	jsonPrompts     []string
}

func (c *fakeClient) Complete(ctx context.Context, prompt string, tier llm.ModelTier) (*llm.Completion, error) {
	if c.completeErr != nil {
		return nil, c.completeErr
	}
	content := c.content
	if content == "" {
		content = "<h1>Sample Pack</h1><p>Generated content.</p>"
	}
	return &llm.Completion{Content: content, Usage: types.TokenUsage{Input: 100, Output: 200}}, nil
}

func (c *fakeClient) CompleteJSON(ctx context.Context, prompt string, tier llm.ModelTier) (*llm.Completion, error) {
	c.jsonPrompts = append(c.jsonPrompts, prompt)
	if c.completeErr != nil {
		return nil, c.completeErr
	}
	idx := c.jsonCalls
	if idx >= len(c.jsonResponses) {
		idx = len(c.jsonResponses) - 1
	}
	c.jsonCalls++
	return &llm.Completion{Content: c.jsonResponses[idx], Usage: types.TokenUsage{Input: 50, Output: 150}}, nil
}

func (c *fakeClient) CompleteImage(ctx context.Context, req llm.ImageRequest) ([]byte, error) {
	return nil, errors.New("images not supported")
}

func (c *fakeClient) CostCredits(usage types.TokenUsage) int { return c.cost }
func (c *fakeClient) RequiresPayment() bool                  { return c.requiresPayment }
func (c *fakeClient) SupportsImages() bool                   { return false }
func (c *fakeClient) IsAvailable(ctx context.Context) bool   { return true }
func (c *fakeClient) Close() error                           { return nil }

func standardRequest() *types.GenerationRequest {
	return &types.GenerationRequest{
		ProjectID:      uuid.New(),
		Prompt:         "Comparing fractions with pizza slices",
		PromptPolished: true,
		Grade:          "3rd",
		Subject:        "Math",
		QuestionCount:  10,
		Format:         types.FormatWorksheet,
		Mode:           types.PipelineStandard,
	}
}

func newDeps(store *fakeStore, creditStore *fakeCreditStore, client llm.Client) *Deps {
	return &Deps{
		Store:  store,
		Ledger: credits.NewLedger(creditStore),
		Client: client,
	}
}

func TestGenerate_StandardRunChargesActualCost(t *testing.T) {
	store := newFakeStore()
	creditStore := &fakeCreditStore{balance: 100}
	client := &fakeClient{requiresPayment: true, cost: 7}
	req := standardRequest()

	var events []ProgressEvent
	result, err := Generate(context.Background(), newDeps(store, creditStore, client), req, uuid.New(), func(e ProgressEvent) {
		events = append(events, e)
	})

	require.NoError(t, err)
	assert.Equal(t, types.PipelineStandard, result.Kind)
	assert.Equal(t, 7, result.CreditsCharged)
	assert.NotEmpty(t, result.Documents.WorksheetHTML)
	assert.Empty(t, result.Documents.LessonPlanHTML)
	assert.Equal(t, 1, result.VersionNumber)

	// 20 held, 7 used, 13 back.
	assert.Equal(t, []int{20}, creditStore.reserves)
	assert.Equal(t, []int{13}, creditStore.refunds)
	assert.Equal(t, 93, creditStore.balance)

	assert.Equal(t, []uuid.UUID{req.ProjectID}, store.generating)
	assert.Equal(t, []uuid.UUID{req.ProjectID}, store.completed)
	assert.Empty(t, store.failed)
	require.Len(t, store.versions, 1)
	assert.Equal(t, 7, store.versions[0].CreditsCharged)

	require.NotEmpty(t, events)
	last := 0
	for _, e := range events {
		assert.Greater(t, e.Percent, last, "progress must be strictly monotonic")
		last = e.Percent
	}
	assert.Equal(t, 100, last)
}

func TestGenerate_FreeVariantNeverTouchesTheLedger(t *testing.T) {
	store := newFakeStore()
	creditStore := &fakeCreditStore{balance: 0}
	client := &fakeClient{requiresPayment: false, cost: 7}
	req := standardRequest()

	result, err := Generate(context.Background(), newDeps(store, creditStore, client), req, uuid.New(), nil)

	require.NoError(t, err)
	assert.Equal(t, 0, result.CreditsCharged)
	assert.Empty(t, creditStore.reserves)
	assert.Empty(t, creditStore.refunds)
}

func TestGenerate_InsufficientCreditsLeavesProjectPending(t *testing.T) {
	store := newFakeStore()
	creditStore := &fakeCreditStore{balance: 5}
	client := &fakeClient{requiresPayment: true}
	req := standardRequest()

	_, err := Generate(context.Background(), newDeps(store, creditStore, client), req, uuid.New(), nil)

	var insufficient *credits.InsufficientCreditsError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 20, insufficient.Required)

	// No side effects at all: no status writes, no ledger movement.
	assert.Empty(t, store.generating)
	assert.Empty(t, store.failed)
	assert.Equal(t, 5, creditStore.balance)
}

func TestGenerate_ProviderFailureRefundsAndMarksFailed(t *testing.T) {
	store := newFakeStore()
	creditStore := &fakeCreditStore{balance: 100}
	client := &fakeClient{
		requiresPayment: true,
		completeErr:     &llm.ProviderError{Message: "backend unreachable"},
	}
	req := standardRequest()

	_, err := Generate(context.Background(), newDeps(store, creditStore, client), req, uuid.New(), nil)

	require.Error(t, err)
	var provider *llm.ProviderError
	assert.ErrorAs(t, err, &provider)

	assert.Equal(t, []int{20}, creditStore.refunds)
	assert.Equal(t, 100, creditStore.balance)

	assert.Empty(t, store.completed)
	assert.Contains(t, store.failed[req.ProjectID], "temporarily unavailable")
	assert.Empty(t, store.versions)
}

func TestGenerate_QualityRejectionRefundsInFull(t *testing.T) {
	// A schema-valid plan with one question against a request for twenty: the
	// single repair pass returns the same plan, so the shortfall reaches the
	// quality gate and the run is rejected without a charge.
	thinPlan := `{
		"title": "Fractions",
		"objective": "Compare simple fractions",
		"grade": "3rd",
		"subject": "Math",
		"sections": [
			{"kind": "questions", "title": "Questions", "items": [
				{"number": 1, "prompt": "Name a fraction smaller than one", "answer": "one half"}
			]}
		]
	}`

	store := newFakeStore()
	creditStore := &fakeCreditStore{balance: 100}
	client := &fakeClient{
		requiresPayment: true,
		cost:            9,
		jsonResponses:   []string{thinPlan, thinPlan},
	}
	req := standardRequest()
	req.Mode = types.PipelineWorksheet
	req.QuestionCount = 20

	_, err := Generate(context.Background(), newDeps(store, creditStore, client), req, uuid.New(), nil)

	var rejection *quality.RejectionError
	require.ErrorAs(t, err, &rejection)
	require.NotNil(t, rejection.Report)
	assert.NotEmpty(t, rejection.Report.Issues)

	// Full refund: the run is financially invisible.
	assert.Equal(t, []int{35}, creditStore.reserves)
	assert.Equal(t, []int{35}, creditStore.refunds)
	assert.Equal(t, 100, creditStore.balance)

	assert.Empty(t, store.versions)
	assert.Empty(t, store.completed)
	assert.Contains(t, store.failed[req.ProjectID], "not charged")
}

func TestGenerate_PhasePanicRefundsAndMarksFailed(t *testing.T) {
	store := newFakeStore()
	store.insertPanics = true
	creditStore := &fakeCreditStore{balance: 100}
	client := &fakeClient{requiresPayment: true, cost: 7}
	req := standardRequest()

	result, err := Generate(context.Background(), newDeps(store, creditStore, client), req, uuid.New(), nil)

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "panicked")

	// A crash mid-run is financially invisible and reaches a terminal status.
	assert.Equal(t, []int{20}, creditStore.refunds)
	assert.Equal(t, 100, creditStore.balance)
	assert.Empty(t, store.completed)
	assert.Contains(t, store.failed[req.ProjectID], "unexpectedly")
}

func TestGenerate_InvalidRequestFailsBeforeAnySideEffect(t *testing.T) {
	store := newFakeStore()
	creditStore := &fakeCreditStore{balance: 100}
	req := standardRequest()
	req.Prompt = ""

	_, err := Generate(context.Background(), newDeps(store, creditStore, &fakeClient{requiresPayment: true}), req, uuid.New(), nil)

	require.Error(t, err)
	assert.Empty(t, store.generating)
	assert.Empty(t, creditStore.reserves)
}

func TestUserMessage_TranslatesInternalErrors(t *testing.T) {
	assert.Contains(t, UserMessage(&credits.InsufficientCreditsError{Required: 35}), "enough credits")
	assert.Contains(t, UserMessage(&llm.ProviderError{Message: "x"}), "temporarily unavailable")
	assert.Contains(t, UserMessage(&PersistenceError{Message: "x"}), "save your teacher pack")
	assert.Contains(t, UserMessage(errors.New("internal detail")), "unexpectedly")
	assert.NotContains(t, UserMessage(errors.New("internal detail")), "internal detail")
}
