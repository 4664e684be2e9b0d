package service_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/Buchara777/AI-Adventure/relay-service/internal/mocks"
	"github.com/Buchara777/AI-Adventure/relay-service/internal/service"
	"github.com/Buchara777/AI-Adventure/shared/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSystemInstruction = "You are a terse game master."

func newRelay(t *testing.T, opts ...service.RelayOption) (*service.RelayService, *mocks.MockAIClient) {
	t.Helper()
	mockAI := mocks.NewMockAIClient(t)
	return service.NewRelayService(mockAI, zap.NewNop(), opts...), mockAI
}

func TestRelayService_Continue(t *testing.T) {
	t.Run("Successful continuation", func(t *testing.T) {
		relay, mockAI := newRelay(t)
		history := models.History{{Sequence: 0, Action: "Wake up", Story: "The cell is cold."}}

		mockAI.On("GenerateText",
			mock.Anything,
			testSystemInstruction,
			mock.MatchedBy(func(prompt string) bool {
				return strings.Contains(prompt, "Previous action: Wake up\nResult: The cell is cold.") &&
					strings.Contains(prompt, "Current player action: Knock on the door\n")
			}),
			mock.MatchedBy(func(p service.GenerationParams) bool {
				return p.Operation == service.OperationContinuation &&
					p.Temperature != nil && *p.Temperature == 0.8 &&
					p.TopP != nil && *p.TopP == 0.95 &&
					p.Schema != nil
			}),
		).Return(`{"story":"A guard answers.","choices":["Talk","Hide","Wait","Run"]}`, service.UsageInfo{TotalTokens: 10}, nil).Once()

		result, err := relay.Continue(context.Background(), models.ContinuationRequest{
			History:           history,
			Action:            "  Knock on the door  ",
			SystemInstruction: testSystemInstruction,
		})

		require.NoError(t, err)
		assert.Equal(t, "A guard answers.", result.Story)
		assert.Equal(t, []string{"Talk", "Hide", "Wait"}, result.Choices)
	})

	t.Run("Blank system instruction falls back to default", func(t *testing.T) {
		relay, mockAI := newRelay(t)
		mockAI.On("GenerateText", mock.Anything, models.DefaultSystemInstruction, mock.Anything, mock.Anything).
			Return(`{"story":"S","choices":[]}`, service.UsageInfo{}, nil).Once()

		_, err := relay.Continue(context.Background(), models.ContinuationRequest{Action: "look"})
		assert.NoError(t, err)
	})

	t.Run("Blank action is an input error and the model is not called", func(t *testing.T) {
		relay, _ := newRelay(t)
		_, err := relay.Continue(context.Background(), models.ContinuationRequest{Action: "   "})
		assert.ErrorIs(t, err, models.ErrInput)
	})

	t.Run("Oversize action is an input error", func(t *testing.T) {
		relay, _ := newRelay(t, service.WithMaxInputBytes(16))
		_, err := relay.Continue(context.Background(), models.ContinuationRequest{Action: strings.Repeat("x", 17)})
		assert.ErrorIs(t, err, models.ErrInput)
	})

	t.Run("System instruction gets a larger limit", func(t *testing.T) {
		relay, mockAI := newRelay(t, service.WithMaxInputBytes(16))
		mockAI.On("GenerateText", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(`{"story":"S"}`, service.UsageInfo{}, nil).Once()

		_, err := relay.Continue(context.Background(), models.ContinuationRequest{
			Action:            "look",
			SystemInstruction: strings.Repeat("s", 40),
		})
		assert.NoError(t, err)

		_, err = relay.Continue(context.Background(), models.ContinuationRequest{
			Action:            "look",
			SystemInstruction: strings.Repeat("s", 65),
		})
		assert.ErrorIs(t, err, models.ErrInput)
	})

	t.Run("Model failure is an upstream error", func(t *testing.T) {
		relay, mockAI := newRelay(t)
		mockAI.On("GenerateText", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return("", service.UsageInfo{}, fmt.Errorf("%w: 401 invalid key sk-secret", service.ErrAIGenerationFailed)).Once()

		_, err := relay.Continue(context.Background(), models.ContinuationRequest{Action: "look"})
		require.Error(t, err)
		assert.ErrorIs(t, err, models.ErrUpstream)

		var turnErr *models.TurnError
		require.ErrorAs(t, err, &turnErr)
		assert.NotContains(t, turnErr.Message, "sk-secret")
		assert.False(t, turnErr.Timeout())
	})

	t.Run("Expired deadline is an upstream timeout", func(t *testing.T) {
		relay, mockAI := newRelay(t, service.WithTimeout(10*time.Millisecond))
		mockAI.On("GenerateText", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(func(ctx context.Context, _ string, _ string, _ service.GenerationParams) string {
				<-ctx.Done()
				return ""
			}, service.UsageInfo{}, errors.New("request canceled")).Once()

		_, err := relay.Continue(context.Background(), models.ContinuationRequest{Action: "look"})
		var turnErr *models.TurnError
		require.ErrorAs(t, err, &turnErr)
		assert.Equal(t, models.KindUpstream, turnErr.Kind)
		assert.True(t, turnErr.Timeout())
		assert.Equal(t, "model call timed out", turnErr.Message)
	})

	t.Run("Reply without JSON is a parse error", func(t *testing.T) {
		relay, mockAI := newRelay(t)
		mockAI.On("GenerateText", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return("I cannot do that.", service.UsageInfo{}, nil).Once()

		_, err := relay.Continue(context.Background(), models.ContinuationRequest{Action: "look"})
		assert.ErrorIs(t, err, models.ErrParse)
	})

	t.Run("Reply without story is a schema error", func(t *testing.T) {
		relay, mockAI := newRelay(t)
		mockAI.On("GenerateText", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(`{"choices":["x","y","z"]}`, service.UsageInfo{}, nil).Once()

		_, err := relay.Continue(context.Background(), models.ContinuationRequest{Action: "look"})
		assert.ErrorIs(t, err, models.ErrSchema)
	})
}

func TestRelayService_Seed(t *testing.T) {
	t.Run("With hint", func(t *testing.T) {
		relay, mockAI := newRelay(t)
		mockAI.On("GenerateText",
			mock.Anything,
			"",
			mock.MatchedBy(func(prompt string) bool { return strings.Contains(prompt, `based on this: "a sunken city"`) }),
			mock.MatchedBy(func(p service.GenerationParams) bool {
				return p.Operation == service.OperationSeed && *p.Temperature == 0.9 && p.Schema == nil
			}),
		).Return("  You surface in a drowned plaza.\n", service.UsageInfo{}, nil).Once()

		result, err := relay.Seed(context.Background(), models.SeedRequest{Hint: "a sunken city"})
		require.NoError(t, err)
		assert.Equal(t, "You surface in a drowned plaza.", result.StartCondition)
	})

	t.Run("Without hint", func(t *testing.T) {
		relay, mockAI := newRelay(t)
		mockAI.On("GenerateText", mock.Anything, "",
			mock.MatchedBy(func(prompt string) bool { return strings.Contains(prompt, "random, interesting") }),
			mock.Anything,
		).Return("A storm.", service.UsageInfo{}, nil).Once()

		result, err := relay.Seed(context.Background(), models.SeedRequest{})
		require.NoError(t, err)
		assert.Equal(t, "A storm.", result.StartCondition)
	})

	t.Run("Hint with control characters is rejected", func(t *testing.T) {
		relay, _ := newRelay(t)
		_, err := relay.Seed(context.Background(), models.SeedRequest{Hint: "a\x00b"})
		assert.ErrorIs(t, err, models.ErrInput)
	})

	t.Run("Model failure is an upstream error", func(t *testing.T) {
		relay, mockAI := newRelay(t)
		mockAI.On("GenerateText", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return("", service.UsageInfo{}, service.ErrAIGenerationFailed).Once()

		_, err := relay.Seed(context.Background(), models.SeedRequest{})
		assert.ErrorIs(t, err, models.ErrUpstream)
	})
}
