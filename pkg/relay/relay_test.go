package relay_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/aretw0/stepwise/internal/logging"
	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/relay"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOracle struct {
	mock.Mock
}

func (m *MockOracle) Complete(ctx context.Context, req domain.Completion) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func newService(oracle *MockOracle, opts ...relay.Option) *relay.Service {
	return relay.New(oracle, append([]relay.Option{relay.WithLogger(logging.NewNop())}, opts...)...)
}

func TestSimplify_AttachesInstruction(t *testing.T) {
	oracle := new(MockOracle)
	oracle.On("Complete", mock.Anything, domain.Completion{
		System:      relay.SimplifyInstruction,
		Prompt:      "Find the maximum subarray sum",
		Temperature: 0.3,
		MaxTokens:   300,
	}).Return("Find the largest sum of adjacent numbers.", nil).Once()

	out, err := newService(oracle).Simplify(context.Background(), "Find the maximum subarray sum")

	require.NoError(t, err)
	assert.Equal(t, "Find the largest sum of adjacent numbers.", out)
	oracle.AssertExpectations(t)
}

func TestSimplify_OracleFailure(t *testing.T) {
	oracle := new(MockOracle)
	oracle.On("Complete", mock.Anything, mock.Anything).Return("", errors.New("HTTP error! status: 503")).Once()

	_, err := newService(oracle).Simplify(context.Background(), "anything")

	var relayErr *relay.Error
	require.ErrorAs(t, err, &relayErr)
	assert.Equal(t, http.StatusInternalServerError, relayErr.Status)
	assert.Equal(t, "Failed to simplify question", relayErr.Message)
	assert.Equal(t, "HTTP error! status: 503", relayErr.Details)
	oracle.AssertNumberOfCalls(t, "Complete", 1)
}

func TestSimplify_RejectsOversizedPrompt(t *testing.T) {
	oracle := new(MockOracle)

	_, err := newService(oracle, relay.WithMaxPromptSize(8)).Simplify(context.Background(), "this is too long")

	var relayErr *relay.Error
	require.ErrorAs(t, err, &relayErr)
	assert.Equal(t, http.StatusBadRequest, relayErr.Status)
	assert.ErrorIs(t, err, relay.ErrPromptTooLarge)
	oracle.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}

func TestGenerateTitle(t *testing.T) {
	t.Run("Trims Oracle Output", func(t *testing.T) {
		oracle := new(MockOracle)
		oracle.On("Complete", mock.Anything, mock.MatchedBy(func(c domain.Completion) bool {
			return c.System == "" && strings.HasSuffix(c.Prompt, `Problem: "Two sum"`)
		})).Return("  Pair Sum \n", nil)

		assert.Equal(t, "Pair Sum", newService(oracle).GenerateTitle(context.Background(), "Two sum"))
	})

	t.Run("Falls Back On Failure", func(t *testing.T) {
		oracle := new(MockOracle)
		oracle.On("Complete", mock.Anything, mock.Anything).Return("", errors.New("boom"))

		title := newService(oracle).GenerateTitle(context.Background(), "Find the maximum subarray sum in an array of integers")
		assert.Equal(t, "Find the maximum...", title)
	})

	t.Run("Falls Back On Rejected Prompt", func(t *testing.T) {
		oracle := new(MockOracle)

		title := newService(oracle, relay.WithMaxPromptSize(4)).GenerateTitle(context.Background(), "one two three four")
		assert.Equal(t, "one two three...", title)
		oracle.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
	})
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := relay.NewMetrics(reg)

	oracle := new(MockOracle)
	oracle.On("Complete", mock.Anything, mock.MatchedBy(func(c domain.Completion) bool { return c.System != "" })).Return("ok", nil)
	oracle.On("Complete", mock.Anything, mock.Anything).Return("", errors.New("down"))

	svc := newService(oracle, relay.WithMetrics(metrics))
	_, _ = svc.Simplify(context.Background(), "a")
	_ = svc.GenerateTitle(context.Background(), "b")

	families, err := reg.Gather()
	require.NoError(t, err)

	counts := map[string]float64{}
	for _, mf := range families {
		if mf.GetName() != "stepwise_oracle_requests_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			labels := map[string]string{}
			for _, lp := range m.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			counts[labels["operation"]+"/"+labels["outcome"]] = m.GetCounter().GetValue()
		}
	}

	assert.Equal(t, map[string]float64{
		"simplify/success":     1,
		"generate_title/error": 1,
	}, counts)
}

func TestLocalAssistant(t *testing.T) {
	oracle := new(MockOracle)
	oracle.On("Complete", mock.Anything, mock.Anything).Return("", errors.New("down"))

	a := relay.NewLocalAssistant(newService(oracle))

	title, err := a.GenerateTitle(context.Background(), "Reverse a linked list quickly")
	require.NoError(t, err, "titles never fail")
	assert.Equal(t, "Reverse a linked...", title)

	_, err = a.Simplify(context.Background(), "Reverse a linked list")
	assert.Error(t, err)
}
