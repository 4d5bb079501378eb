package extract

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/cvlens/cvlens/internal/llm"
	"github.com/cvlens/cvlens/internal/normalize"
)

const validCompletion = `{"personal_info": {"name": "Rahim Uddin"}, "skills": ["Go"]}`

// stubProvider scripts a sequence of responses for the orchestrator.
type stubProvider struct {
	responses []stubResponse
	calls     int
	prompts   []string
}

type stubResponse struct {
	content string
	err     error
}

func (s *stubProvider) Complete(ctx context.Context, req llm.CompletionRequest) (llm.CompletionResponse, error) {
	if err := ctx.Err(); err != nil {
		return llm.CompletionResponse{}, err
	}
	s.prompts = append(s.prompts, req.Prompt)
	i := s.calls
	s.calls++
	if i >= len(s.responses) {
		i = len(s.responses) - 1
	}
	r := s.responses[i]
	return llm.CompletionResponse{Content: r.content}, r.err
}

func (s *stubProvider) Name() string { return "stub" }

func rateLimitErr() error {
	return &llm.ProviderError{Provider: "stub", Kind: llm.KindRateLimit, Err: errors.New("429")}
}

func newTestExtractor(p llm.Provider, attempts int) *Extractor {
	return New(p,
		WithMaxAttempts(attempts),
		WithRetryBackoff(time.Millisecond),
	)
}

func TestExtract_Success(t *testing.T) {
	stub := &stubProvider{responses: []stubResponse{{content: validCompletion}}}
	result, err := newTestExtractor(stub, 3).Extract(context.Background(), "resume text")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if result.Record.PersonalInfo.Name != "Rahim Uddin" {
		t.Errorf("name = %q", result.Record.PersonalInfo.Name)
	}
	if result.Attempts != 1 || stub.calls != 1 {
		t.Errorf("attempts = %d, calls = %d, want 1/1", result.Attempts, stub.calls)
	}
}

func TestExtract_EmptyDocumentNoNetworkCall(t *testing.T) {
	stub := &stubProvider{responses: []stubResponse{{content: validCompletion}}}
	_, err := newTestExtractor(stub, 3).Extract(context.Background(), "   \n ")
	if !errors.Is(err, ErrEmptyDocument) {
		t.Fatalf("Extract() = %v, want ErrEmptyDocument", err)
	}
	if stub.calls != 0 {
		t.Errorf("provider called %d times, want 0", stub.calls)
	}
}

func TestExtract_RateLimitRetriesWithinBudget(t *testing.T) {
	// Two rate-limit failures then success: needs max attempts >= 3.
	stub := &stubProvider{responses: []stubResponse{
		{err: rateLimitErr()},
		{err: rateLimitErr()},
		{content: validCompletion},
	}}
	result, err := newTestExtractor(stub, 3).Extract(context.Background(), "resume text")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if stub.calls != 3 || result.Attempts != 3 {
		t.Errorf("calls = %d, attempts = %d, want 3/3", stub.calls, result.Attempts)
	}
}

func TestExtract_RateLimitExhaustsBudget(t *testing.T) {
	stub := &stubProvider{responses: []stubResponse{
		{err: rateLimitErr()},
		{err: rateLimitErr()},
		{content: validCompletion},
	}}
	_, err := newTestExtractor(stub, 2).Extract(context.Background(), "resume text")

	var perr *llm.ProviderError
	if !errors.As(err, &perr) || perr.Kind != llm.KindRateLimit {
		t.Fatalf("Extract() = %v, want rate limit error", err)
	}
	if stub.calls != 2 {
		t.Errorf("calls = %d, want 2", stub.calls)
	}
}

func TestExtract_UnavailableRetries(t *testing.T) {
	stub := &stubProvider{responses: []stubResponse{
		{err: &llm.ProviderError{Provider: "stub", Kind: llm.KindUnavailable, Err: errors.New("connection refused")}},
		{content: validCompletion},
	}}
	_, err := newTestExtractor(stub, 3).Extract(context.Background(), "resume text")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if stub.calls != 2 {
		t.Errorf("calls = %d, want 2", stub.calls)
	}
}

func TestExtract_AuthErrorNotRetried(t *testing.T) {
	stub := &stubProvider{responses: []stubResponse{
		{err: &llm.ProviderError{Provider: "stub", Kind: llm.KindAuth, Err: errors.New("401")}},
		{content: validCompletion},
	}}
	_, err := newTestExtractor(stub, 3).Extract(context.Background(), "resume text")

	var perr *llm.ProviderError
	if !errors.As(err, &perr) || perr.Kind != llm.KindAuth {
		t.Fatalf("Extract() = %v, want auth error", err)
	}
	if stub.calls != 1 {
		t.Errorf("calls = %d, want 1 (auth errors do not retry)", stub.calls)
	}
}

func TestExtract_MalformedJSONRepairedOnce(t *testing.T) {
	stub := &stubProvider{responses: []stubResponse{
		{content: `{"skills": ["Go",`},
		{content: validCompletion},
	}}
	result, err := newTestExtractor(stub, 3).Extract(context.Background(), "resume text")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if stub.calls != 2 {
		t.Fatalf("calls = %d, want 2", stub.calls)
	}
	if strings.Contains(stub.prompts[0], "not valid JSON") {
		t.Error("first prompt should be the base prompt")
	}
	if !strings.Contains(stub.prompts[1], "not valid JSON") {
		t.Error("second prompt should be the repair prompt")
	}
	if result.Record == nil {
		t.Error("expected a record after repair")
	}
}

func TestExtract_MalformedJSONOnlyOneRepair(t *testing.T) {
	stub := &stubProvider{responses: []stubResponse{
		{content: `{"skills": ["Go",`},
		{content: `{"skills": ["Go",`},
		{content: validCompletion},
	}}
	_, err := newTestExtractor(stub, 5).Extract(context.Background(), "resume text")

	var merr *normalize.MalformedJSONError
	if !errors.As(err, &merr) {
		t.Fatalf("Extract() = %v, want *MalformedJSONError", err)
	}
	if stub.calls != 2 {
		t.Errorf("calls = %d, want exactly 2 (one repair attempt)", stub.calls)
	}
}

func TestExtract_StructuralFailureNotRetried(t *testing.T) {
	stub := &stubProvider{responses: []stubResponse{
		{content: "I cannot help with that."},
		{content: validCompletion},
	}}
	_, err := newTestExtractor(stub, 3).Extract(context.Background(), "resume text")

	var serr *normalize.SchemaError
	if !errors.As(err, &serr) {
		t.Fatalf("Extract() = %v, want *SchemaError", err)
	}
	if stub.calls != 1 {
		t.Errorf("calls = %d, want 1 (structural failures do not retry)", stub.calls)
	}
}

func TestExtract_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stub := &stubProvider{responses: []stubResponse{{content: validCompletion}}}
	_, err := newTestExtractor(stub, 3).Extract(ctx, "resume text")
	if !errors.Is(err, ErrCancelled) {
		t.Fatalf("Extract() = %v, want ErrCancelled", err)
	}
}

func TestExtract_CancelledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	stub := &stubProvider{responses: []stubResponse{{err: rateLimitErr()}}}
	ext := New(stub, WithMaxAttempts(3), WithRetryBackoff(time.Hour))

	done := make(chan error, 1)
	go func() {
		_, err := ext.Extract(ctx, "resume text")
		done <- err
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, ErrCancelled) {
			t.Fatalf("Extract() = %v, want ErrCancelled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("extract did not abort on cancellation")
	}
}
