package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"homeboard/offlinegate/internal/fetch"
	"homeboard/offlinegate/internal/worker"
)

type ProxyHandler struct {
	worker *worker.Worker
	logger *zap.Logger
}

func NewProxyHandler(w *worker.Worker, logger *zap.Logger) *ProxyHandler {
	return &ProxyHandler{worker: w, logger: logger}
}

// Handle buffers the incoming request, hands it to the worker's fetch
// dispatch, and writes whichever response came back: proxied, cached, or
// synthesized.
func (h *ProxyHandler) Handle(c *gin.Context) {
	var body []byte
	if c.Request.Body != nil {
		var err error
		body, err = io.ReadAll(c.Request.Body)
		if err != nil {
			h.logger.Warn("read request body failed", zap.Error(err))
			c.String(http.StatusBadRequest, "bad request")
			return
		}
	}

	req := &fetch.Request{
		Method: c.Request.Method,
		URL:    c.Request.URL.RequestURI(),
		Header: c.Request.Header.Clone(),
		Body:   body,
	}

	resp, err := h.worker.OnFetch(c.Request.Context(), req)
	if err != nil {
		// Pass-through classes have no offline fallback; a transport
		// failure is a plain proxy error.
		h.logger.Warn("upstream unreachable",
			zap.String("method", req.Method),
			zap.String("url", req.URL),
			zap.Error(err))
		c.String(http.StatusBadGateway, "bad gateway")
		return
	}

	fetch.CopyHeader(c.Writer.Header(), resp.Header)
	c.Status(resp.Status)
	if len(resp.Body) > 0 {
		if _, err := c.Writer.Write(resp.Body); err != nil {
			h.logger.Debug("write response failed", zap.Error(err))
		}
	}
}
