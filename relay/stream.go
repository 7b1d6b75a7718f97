package relay

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/planora/planora/pkg/eventstream"
	"github.com/planora/planora/pkg/llm"
	"github.com/planora/planora/pkg/metrics"
	"github.com/planora/planora/relay/worker"
)

const pipeBufferSize = 32 * 1024

// streamMeta is request state carried into the pipe goroutine.
type streamMeta struct {
	startedAt   time.Time
	turns       int
	catalogSize int
}

// pipeUpstream copies the upstream body to the pipe writer unmodified,
// chunk by chunk. It stops when the upstream ends or fails, or when the
// client goes away and fasthttp closes the pipe reader; either way the
// upstream request is cancelled and its body closed.
func (r *Relay) pipeUpstream(httpResp *http.Response, pw *io.PipeWriter, cancel context.CancelFunc, meta streamMeta) {
	defer cancel()
	defer httpResp.Body.Close()

	obs := newObserver()
	buf := make([]byte, pipeBufferSize)

	var streamErr error
	clientGone := false
	for {
		n, err := httpResp.Body.Read(buf)
		if n > 0 {
			chunk := buf[:n]
			obs.observe(chunk)
			if _, werr := pw.Write(chunk); werr != nil {
				clientGone = true
				streamErr = werr
				break
			}
			r.metrics.Streamed(n)
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			streamErr = err
			break
		}
	}
	obs.finish()

	if streamErr != nil && !clientGone {
		r.logger.Error("error reading upstream stream", "error", streamErr)
	}
	if clientGone {
		r.logger.Debug("client disconnected mid-stream", "bytes", obs.bytes)
	}
	_ = pw.CloseWithError(streamErr)

	r.metrics.RelayRequest(metrics.OutcomeStreamed)
	r.publish(meta, obs, streamErr == nil)
}

// publish enqueues the telemetry event for the finished stream.
func (r *Relay) publish(meta streamMeta, obs *observer, completed bool) {
	completedAt := time.Now()
	outcome := eventstream.OutcomeCompleted
	if !completed {
		outcome = eventstream.OutcomeAborted
	}

	r.logger.Debug("streaming complete",
		"outcome", outcome,
		"deltas", obs.deltas,
		"bytes", obs.bytes,
		"done", obs.done(),
		"duration", completedAt.Sub(meta.startedAt),
	)

	if r.workerPool == nil {
		return
	}

	event := eventstream.NewChatRelayedEvent(
		eventstream.RequestMeta{
			Path:         llm.ChatPath,
			Model:        r.config.Model,
			Turns:        meta.turns,
			CatalogSize:  meta.catalogSize,
			StartedAt:    meta.startedAt,
			CompletedAt:  completedAt,
			HTTPStatus:   http.StatusOK,
			StreamedSize: obs.bytes,
		},
		eventstream.AnswerMeta{
			Outcome:       outcome,
			Deltas:        obs.deltas,
			Characters:    obs.characters(),
			ReferencedIDs: obs.referencedIDs(),
		},
	)
	r.workerPool.Enqueue(worker.Job{Event: event})
}
