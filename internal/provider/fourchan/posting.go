package fourchan

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chandesk/chandesk/internal/provider"
)

// SupportsPosting reports that 4chan accepts submissions.
func (p *Provider) SupportsPosting() bool { return true }

// checkCooldown returns the remaining wait before the next post is
// allowed, or zero.
func (p *Provider) checkCooldown() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.lastPost.IsZero() {
		return 0
	}
	elapsed := time.Since(p.lastPost)
	if elapsed >= postCooldown {
		return 0
	}
	return postCooldown - elapsed
}

func (p *Provider) recordPost() {
	p.mu.Lock()
	p.lastPost = time.Now()
	p.mu.Unlock()
}

// Cooldown returns the seconds until the next post is allowed.
func (p *Provider) Cooldown() int {
	return int(p.checkCooldown().Seconds())
}

// SubmitPost submits a reply or new thread. The upstream responds with
// HTML, so success and failure are classified from known response
// fragments. A structured result is always returned; the error return
// is reserved for local problems (cooldown, unreadable file).
func (p *Provider) SubmitPost(ctx context.Context, req provider.PostRequest) (provider.PostResult, error) {
	if wait := p.checkCooldown(); wait > 0 {
		return provider.PostResult{}, fmt.Errorf("please wait %d seconds before posting again", int(wait.Seconds()))
	}

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	form.WriteField("mode", "regist")
	form.WriteField("resto", itoa(req.ReplyTo))
	form.WriteField("com", req.Comment)
	if req.Name != "" {
		form.WriteField("name", req.Name)
	}
	if req.Email != "" {
		form.WriteField("email", req.Email)
	}
	if req.Subject != "" {
		form.WriteField("subject", req.Subject)
	}

	if req.FilePath != "" {
		data, err := os.ReadFile(req.FilePath)
		if err != nil {
			return provider.PostResult{}, fmt.Errorf("failed to read attachment: %w", err)
		}
		name := req.FileName
		if name == "" {
			name = filepath.Base(req.FilePath)
		}
		part, err := form.CreateFormFile("upfile", name)
		if err != nil {
			return provider.PostResult{}, fmt.Errorf("failed to build attachment: %w", err)
		}
		part.Write(data)
	}

	if err := form.Close(); err != nil {
		return provider.PostResult{}, fmt.Errorf("failed to finalize form: %w", err)
	}

	url := p.sysBase + "/" + req.Board + "/post"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return provider.PostResult{}, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", form.FormDataContentType())
	if req.PassToken != "" {
		httpReq.Header.Set("Cookie", "pass_id="+req.PassToken)
	}

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return provider.PostResult{Success: false, Error: "network error: " + err.Error()}, nil
	}
	defer resp.Body.Close()

	p.recordPost()

	body, _ := io.ReadAll(resp.Body)
	return classifyPostResponse(resp.StatusCode, string(body)), nil
}

// classifyPostResponse maps the upstream HTML response to a result.
func classifyPostResponse(status int, text string) provider.PostResult {
	if strings.Contains(text, "Post successful") || strings.Contains(text, "Thread posted") {
		return provider.PostResult{Success: true}
	}

	var msg string
	switch {
	case strings.Contains(text, "banned"):
		msg = "You are banned from posting"
	case strings.Contains(text, "flood detected"):
		msg = "Flood detected. Please wait before posting again."
	case strings.Contains(text, "CAPTCHA") || strings.Contains(text, "Verification"):
		msg = "CAPTCHA verification failed or expired. Please try again."
	case strings.Contains(text, "file too large"):
		msg = "File is too large"
	case strings.Contains(text, "duplicate file"):
		msg = "Duplicate file entry detected"
	case strings.Contains(text, "Error") || status < 200 || status > 299:
		msg = fmt.Sprintf("Post failed: HTTP %d", status)
	default:
		msg = "Unknown response from server"
	}
	return provider.PostResult{Success: false, Error: msg}
}

// ValidatePass checks a pass token against the auth endpoint.
func (p *Provider) ValidatePass(ctx context.Context, token string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.sysBase+"/auth", nil)
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Cookie", "pass_id="+token)

	resp, err := p.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("pass validation request failed: %w", err)
	}
	defer resp.Body.Close()

	return resp.StatusCode >= 200 && resp.StatusCode <= 299, nil
}
