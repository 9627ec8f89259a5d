package worker

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"homeboard/offlinegate/internal/bus"
	"homeboard/offlinegate/internal/fetch"
)

const defaultClipMimeType = "audio/webm"

var uploadOfflineBody = []byte(`{"detail":"Offline: voice clip not uploaded."}`)

// handleUpload forwards the voice-clip POST exactly once. This path
// carries no caching. On transport failure every open application
// instance is notified so the UI can keep the clip for a manual retry,
// and a JSON 503 is synthesized.
func (w *Worker) handleUpload(ctx context.Context, req *fetch.Request) *fetch.Response {
	// The attempt runs on a copy; the original body stays replayable
	// should the caller retry.
	resp, err := w.fetcher.Do(ctx, req.Clone())
	if err == nil {
		return resp
	}

	mimeType := req.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = defaultClipMimeType
	}
	msg := bus.Message{
		Type: bus.MessageVoiceUploadOffline,
		Meta: map[string]string{"mimeType": mimeType},
	}
	if pubErr := w.bus.Publish(ctx, msg); pubErr != nil {
		// Best-effort broadcast; the synthesized response still goes out.
		w.logger.Warn("voice upload broadcast failed", zap.Error(pubErr))
	}
	w.logger.Info("voice upload failed offline",
		zap.String("mime_type", mimeType), zap.Error(err))

	return &fetch.Response{
		Status: http.StatusServiceUnavailable,
		Header: http.Header{"Content-Type": []string{"application/json"}},
		Body:   append([]byte(nil), uploadOfflineBody...),
	}
}
