package server

import (
	"fmt"
	"net/http"

	"creditdesk/internal/infrastructure/anchor"
	"creditdesk/pkg/httpx/reply"
	"creditdesk/pkg/httpx/req"
	"creditdesk/pkg/lox"
	"creditdesk/pkg/rest"
)

type AnchorServer struct {
	chain        *anchor.Chain
	modelVersion string
}

func NewAnchorServer(chain *anchor.Chain, modelVersion string) AnchorServer {
	return AnchorServer{
		chain:        chain,
		modelVersion: modelVersion,
	}
}

// postV1Anchors commits a caller-supplied decision digest synchronously.
// Scoring responses are anchored in the background instead; this endpoint
// exists for external digests and demos.
func (s AnchorServer) postV1Anchors(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.AnchorRequest

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	modelVersion := request.ModelVersion
	if modelVersion == "" {
		modelVersion = s.modelVersion
	}

	block, err := s.chain.Append(request.DecisionHash, modelVersion)
	if err != nil {
		return fmt.Errorf("chain.Append: %w", err)
	}

	reply.JSON(ctx, w, http.StatusCreated, newRESTBlock(block))

	return nil
}

func (s AnchorServer) getV1Chain(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	blocks := s.chain.Blocks()

	reply.JSON(ctx, w, http.StatusOK, rest.ChainResponse{
		Length: len(blocks),
		Blocks: lox.Map(blocks, newRESTBlock),
	})

	return nil
}

func (s AnchorServer) getV1ChainVerify(w http.ResponseWriter, r *http.Request) error {
	reply.JSON(r.Context(), w, http.StatusOK, rest.VerifyResponse{Valid: s.chain.Verify()})

	return nil
}
