package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/ppiankov/doubt/internal/model"
)

// Key generates a cache key for a top-level analysis. The key covers every
// engine setting that can change the result.
func Key(text string, depth int, cfg model.EngineConfig) string {
	h := sha256.New()
	fmt.Fprintf(h, "%d|%d|%d|%d|%d|%s|", depth, cfg.MaxDepth, cfg.FanOut, cfg.MaxInputRunes, cfg.FingerprintPrefix, cfg.ScorePolicy)
	h.Write([]byte(text))
	return "doubt:v1:" + hex.EncodeToString(h.Sum(nil))
}
