package worker

import (
	"context"
	"log/slog"

	"github.com/hibiken/asynq"
	jsoniter "github.com/json-iterator/go"

	"creditdesk/internal/infrastructure/anchor"
	"creditdesk/pkg/contextx"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals

// TypeAnchorDecision is the asynq task pattern for anchoring decision hashes.
const TypeAnchorDecision = "anchor:decision"

// AnchorPayload is the task body: just the digest and the model that made it.
type AnchorPayload struct {
	DecisionHash string `json:"decision_hash"`
	ModelVersion string `json:"model_version"`
}

// NewAnchorTask builds the anchoring task for a decision digest.
func NewAnchorTask(decisionHash, modelVersion string) (*asynq.Task, error) {
	payload, err := json.Marshal(AnchorPayload{
		DecisionHash: decisionHash,
		ModelVersion: modelVersion,
	})
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(TypeAnchorDecision, payload), nil
}

// Anchorer mines anchor blocks off the request path. Mining is cheap with the
// demo difficulty, but it still has no place in a scoring request's latency.
type Anchorer struct {
	chain *anchor.Chain
}

func NewAnchorer(chain *anchor.Chain) *Anchorer {
	return &Anchorer{chain: chain}
}

func (a *Anchorer) HandleAnchorDecision(ctx context.Context, task *asynq.Task) error {
	var payload AnchorPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return err
	}

	block, err := a.chain.Append(payload.DecisionHash, payload.ModelVersion)
	if err != nil {
		return err
	}

	contextx.LoggerFromContextOrDefault(ctx).Info("decision anchored",
		slog.Int("block-index", block.Index),
		slog.String("decision-hash", payload.DecisionHash),
	)

	return nil
}
