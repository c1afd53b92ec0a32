package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"fablelens.app/analyzer/internal/model"
	"fablelens.app/analyzer/internal/queue"
	"fablelens.app/analyzer/internal/service"
	"fablelens.app/analyzer/internal/store"
)

const sseBlock = 25 * time.Second

// EventsHandler streams analysis progress events over SSE. It replays
// the progress stream from the beginning so a client that connects
// late still sees every stage, then tails for new events until a
// terminal stage arrives.
type EventsHandler struct {
	redis    *redis.Client
	analyses service.AnalysisService
}

func NewEventsHandler(redisClient *redis.Client, analyses service.AnalysisService) *EventsHandler {
	return &EventsHandler{redis: redisClient, analyses: analyses}
}

func (h *EventsHandler) Stream(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := parseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid analysis id"})
		return
	}

	analysis, err := h.analyses.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "analysis not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get analysis"})
		return
	}

	setSSEHeaders(c.Writer)

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "streaming not supported"})
		return
	}

	sseWrite(c.Writer, "ping", "ready")
	flusher.Flush()

	stream := queue.ProgressStreamName(id)
	lastID := "0"

	// The progress stream expires after a terminal stage, so an already
	// finished analysis may have nothing left to replay. Synthesize the
	// terminal event from the stored row instead of blocking forever.
	if analysis.Terminal() {
		terminal := h.replayFinished(c, flusher, stream)
		if !terminal {
			h.writeStoredTerminal(c, flusher, analysis.Status == model.AnalysisStatusFailed, analysis.FailReason)
		}
		return
	}

	clientClosed := ctx.Done()

	for {
		select {
		case <-clientClosed:
			return
		default:
		}

		res, err := h.redis.XRead(ctx, &redis.XReadArgs{
			Streams: []string{stream, lastID},
			Block:   sseBlock,
			Count:   100,
		}).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				sseWrite(c.Writer, "ping", time.Now().UTC().Format(time.RFC3339Nano))
				flusher.Flush()
				continue
			}
			if ctx.Err() != nil {
				return
			}
			sseWrite(c.Writer, "error", map[string]string{"error": err.Error()})
			flusher.Flush()
			continue
		}

		for _, streamRes := range res {
			for _, msg := range streamRes.Messages {
				lastID = msg.ID
				sseWrite(c.Writer, "progress", msg.Values)
				flusher.Flush()

				if isTerminalStage(msg.Values) {
					return
				}
			}
		}
	}
}

// replayFinished drains whatever is left of the stream without
// blocking. Reports whether a terminal event was among the replayed
// messages.
func (h *EventsHandler) replayFinished(c *gin.Context, flusher http.Flusher, stream string) bool {
	msgs, err := h.redis.XRange(c.Request.Context(), stream, "-", "+").Result()
	if err != nil {
		return false
	}

	terminal := false
	for _, msg := range msgs {
		sseWrite(c.Writer, "progress", msg.Values)
		flusher.Flush()
		if isTerminalStage(msg.Values) {
			terminal = true
		}
	}
	return terminal
}

func (h *EventsHandler) writeStoredTerminal(c *gin.Context, flusher http.Flusher, failed bool, failReason *string) {
	stage := queue.StageCompleted
	detail := "분석이 완료되었습니다."
	if failed {
		stage = queue.StageFailed
		detail = ""
		if failReason != nil {
			detail = *failReason
		}
	}

	sseWrite(c.Writer, "progress", map[string]string{
		"stage":  stage,
		"detail": detail,
		"at":     time.Now().UTC().Format(time.RFC3339Nano),
	})
	flusher.Flush()
}

func isTerminalStage(values map[string]any) bool {
	stage := fmt.Sprint(values["stage"])
	return stage == queue.StageCompleted || stage == queue.StageFailed
}

func setSSEHeaders(w http.ResponseWriter) {
	headers := w.Header()
	headers.Set("Content-Type", "text/event-stream")
	headers.Set("Cache-Control", "no-cache")
	headers.Set("Connection", "keep-alive")
	headers.Set("X-Accel-Buffering", "no")
}

func sseWrite(w http.ResponseWriter, event string, data any) {
	payload := marshalPayload(data)
	if event != "" {
		_, _ = fmt.Fprintf(w, "event: %s\n", event)
	}
	for _, line := range strings.Split(payload, "\n") {
		_, _ = fmt.Fprintf(w, "data: %s\n", line)
	}
	_, _ = fmt.Fprint(w, "\n")
}

func marshalPayload(data any) string {
	switch payload := data.(type) {
	case string:
		return payload
	case []byte:
		return string(payload)
	default:
		bytes, err := json.Marshal(payload)
		if err != nil {
			return fmt.Sprintf("%v", data)
		}
		return string(bytes)
	}
}
