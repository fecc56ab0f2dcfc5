package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event to a logger at debug level. The CLI registers
// it for --verbose runs.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks logging to logger, or to log.Default() if nil.
func NewLogHooks(logger *log.Logger) *LogHooks {
	if logger == nil {
		logger = log.Default()
	}
	return &LogHooks{logger: logger}
}

func (h *LogHooks) OnStageStart(_ context.Context, stage Stage, items int) {
	h.logger.Debug("stage started", "stage", stage, "items", items)
}

func (h *LogHooks) OnStageComplete(_ context.Context, stage Stage, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("stage failed", "stage", stage, "duration", d, "err", err)
		return
	}
	h.logger.Debug("stage done", "stage", stage, "duration", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnAnalyse(_ context.Context, attributes, width int, d time.Duration) {
	h.logger.Debug("translation learned", "attributes", attributes, "columns", width, "duration", d)
}

func (h *LogHooks) OnTransform(_ context.Context, rows int, d time.Duration) {
	h.logger.Debug("examples translated", "rows", rows, "duration", d)
}

var (
	_ PipelineHooks    = (*LogHooks)(nil)
	_ CacheHooks       = (*LogHooks)(nil)
	_ TranslationHooks = (*LogHooks)(nil)
)
