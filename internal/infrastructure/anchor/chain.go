package anchor

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"

	"creditdesk/internal/domain"
	"creditdesk/pkg/errcodes"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals

const (
	powPrefix   = "0000"
	genesisHash = "0000000000000000000000000000000000000000000000000000000000000000"
)

// Block is one entry of the demo anchor chain. The proof-of-work nonce is
// searched over a preimage with a null timestamp; the real timestamp is bound
// afterwards into Hash, so Hash itself carries no prefix guarantee.
type Block struct {
	Index     int               `json:"index"`
	Timestamp float64           `json:"timestamp"`
	PrevHash  string            `json:"prev_hash"`
	Data      map[string]string `json:"data"`
	Nonce     int               `json:"nonce"`
	Hash      string            `json:"hash"`
}

// Chain is an in-memory append-only hash chain used to anchor decision
// hashes. It is a teaching aid, not tamper-proof storage: a restart starts a
// fresh chain from genesis.
type Chain struct {
	mu     sync.RWMutex
	blocks []Block
}

func NewChain() *Chain {
	c := &Chain{}
	c.blocks = append(c.blocks, mine(0, genesisHash, map[string]string{"message": "genesis"}))

	return c
}

// Append mines a block committing to the decision hash and returns it.
func (c *Chain) Append(decisionHash, modelVersion string) (Block, error) {
	if decisionHash == "" {
		return Block{}, domain.NewError(errcodes.InvalidAnchorPayload, "empty decision hash")
	}

	data := map[string]string{
		"decision_hash": decisionHash,
		"model_version": modelVersion,
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	block := mine(len(c.blocks), c.blocks[len(c.blocks)-1].Hash, data)
	c.blocks = append(c.blocks, block)

	return block, nil
}

// Blocks returns a snapshot copy of the chain.
func (c *Chain) Blocks() []Block {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Block, len(c.blocks))
	copy(out, c.blocks)

	return out
}

// Verify re-checks linkage, the proof-of-work prefix on each block's nonce
// preimage, and the final timestamp-bound hash.
func (c *Chain) Verify() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for i, b := range c.blocks {
		if i == 0 {
			if b.PrevHash != genesisHash {
				return false
			}
		} else if b.PrevHash != c.blocks[i-1].Hash {
			return false
		}

		if !strings.HasPrefix(hashPreimage(b.Index, nil, b.PrevHash, b.Data, b.Nonce), powPrefix) {
			return false
		}

		ts := b.Timestamp
		if hashPreimage(b.Index, &ts, b.PrevHash, b.Data, b.Nonce) != b.Hash {
			return false
		}
	}

	return true
}

func mine(index int, prevHash string, data map[string]string) Block {
	for nonce := 0; ; nonce++ {
		if !strings.HasPrefix(hashPreimage(index, nil, prevHash, data, nonce), powPrefix) {
			continue
		}

		ts := float64(time.Now().UnixNano()) / float64(time.Second)

		return Block{
			Index:     index,
			Timestamp: ts,
			PrevHash:  prevHash,
			Data:      data,
			Nonce:     nonce,
			Hash:      hashPreimage(index, &ts, prevHash, data, nonce),
		}
	}
}

// hashPreimage hashes the canonical JSON of the block fields. Map keys are
// marshalled sorted, which keeps the preimage deterministic.
func hashPreimage(index int, timestamp *float64, prevHash string, data map[string]string, nonce int) string {
	payload, _ := json.Marshal(map[string]any{
		"index":     index,
		"timestamp": timestamp,
		"prev_hash": prevHash,
		"data":      data,
		"nonce":     nonce,
	})

	sum := sha256.Sum256(payload)

	return hex.EncodeToString(sum[:])
}

// HashDecision produces the canonical digest of a scoring response, suitable
// for anchoring without revealing the response itself.
func HashDecision(decision any) (string, error) {
	payload, err := json.Marshal(decision)
	if err != nil {
		return "", domain.WrapError(err, errcodes.InvalidAnchorPayload, "marshal decision")
	}

	sum := sha256.Sum256(payload)

	return hex.EncodeToString(sum[:]), nil
}
