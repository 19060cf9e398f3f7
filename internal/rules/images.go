package rules

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/fumiama/imgsz"

	"github.com/helpforge/helpaudit/internal/findings"
	"github.com/helpforge/helpaudit/internal/htmldoc"
)

// Image decode failures are a pass/fail oracle: a download that does not
// decode as a known raster format is reported corrupt, with no deeper
// pixel-level analysis.
const maxImageBytes = 16 << 20

// ImageRule verifies embedded images. Remote images must be reachable and
// decodable; images referenced by local path cannot be verified without a
// base directory and are reported for manual review.
type ImageRule struct {
	Client *http.Client
}

func (*ImageRule) Name() string { return "image-verification" }

func (r *ImageRule) Evaluate(ctx context.Context, doc *htmldoc.Document, file string) []findings.Finding {
	var out []findings.Finding
	seen := make(map[string]bool)

	for _, img := range doc.Elements("img") {
		src := htmldoc.Attr(img, "src")
		if seen[src] {
			continue
		}
		seen[src] = true

		switch {
		case src == "":
			out = append(out, findings.ImageFinding{
				File: file, Src: "MISSING",
				Reason:    "image tag without src attribute",
				Validated: true,
			})
		case strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://"):
			if reason := r.checkRemote(ctx, src); reason != "" {
				out = append(out, findings.ImageFinding{
					File: file, Src: src, Reason: reason, Validated: true,
				})
			}
		default:
			out = append(out, findings.ImageFinding{
				File: file, Src: src,
				Reason:    "local image cannot be verified without a base directory",
				Validated: false,
			})
		}
	}
	return out
}

// checkRemote fetches the image and decodes its header. Returns "" when the
// image is healthy.
func (r *ImageRule) checkRemote(ctx context.Context, src string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return "image URL not reachable: " + err.Error()
	}
	resp, err := r.Client.Do(req)
	if err != nil {
		return "image URL not reachable: " + err.Error()
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return fmt.Sprintf("image URL not reachable (status %d)", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return "image URL not reachable: " + err.Error()
	}
	if _, _, err := imgsz.DecodeSize(bytes.NewReader(data)); err != nil {
		return "unreadable or corrupt image: " + err.Error()
	}
	return ""
}
