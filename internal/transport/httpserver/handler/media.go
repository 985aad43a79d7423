package handler

import (
	"context"
	"strings"
)

// mediaURL turns a stored photo or logo reference into something a client can
// fetch. Bundled assets and absolute URLs pass through; bucket keys are
// presigned.
func (h *Handlers) mediaURL(ctx context.Context, ref *string) *string {
	if ref == nil || *ref == "" {
		return ref
	}
	value := *ref
	if strings.HasPrefix(value, "/") || strings.HasPrefix(value, "http://") || strings.HasPrefix(value, "https://") {
		return &value
	}

	url, err := h.files.PresignDownload(ctx, value)
	if err != nil {
		h.log.BusinessError("media.presign: download url unavailable", err, "key", value)
		return &value
	}
	return &url
}

func (h *Handlers) mediaURLValue(ctx context.Context, ref string) string {
	if url := h.mediaURL(ctx, &ref); url != nil {
		return *url
	}
	return ref
}
