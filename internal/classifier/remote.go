package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"cam-screen/internal/logger"
	"cam-screen/internal/surface"
)

// Remote 把位图 POST 给远端推理服务
type Remote struct {
	URL  string
	HTTP *http.Client
}

type remoteReq struct {
	Pixels []int `json:"pixels"`
}

type remoteResp struct {
	Label string `json:"label"`
	Error string `json:"error,omitempty"`
}

// NewRemote 创建远端分类器；timeout <= 0 时默认 5s
func NewRemote(url string, timeout time.Duration) *Remote {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Remote{
		URL:  strings.TrimSpace(url),
		HTTP: &http.Client{Timeout: timeout},
	}
}

// Classify 失败时返回 "Error: ..." 作为结果文本
func (r *Remote) Classify(pixels *surface.CaptureBuffer) string {
	label, err := r.classify(context.Background(), pixels)
	if err != nil {
		logger.Warn("远端推理失败: %v", err)
		return "Error: " + err.Error()
	}
	return label
}

func (r *Remote) classify(ctx context.Context, pixels *surface.CaptureBuffer) (string, error) {
	body := remoteReq{Pixels: make([]int, len(pixels))}
	for i, v := range pixels {
		body.Pixels[i] = int(v)
	}
	b, err := json.Marshal(body)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.URL, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.HTTP.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var out remoteResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		if resp.StatusCode/100 != 2 {
			return "", fmt.Errorf("status=%s", resp.Status)
		}
		return "", fmt.Errorf("解析响应失败: %w", err)
	}
	if resp.StatusCode/100 != 2 {
		if out.Error != "" {
			return "", fmt.Errorf("status=%s: %s", resp.Status, out.Error)
		}
		return "", fmt.Errorf("status=%s", resp.Status)
	}
	return out.Label, nil
}
