// Package analyzer talks to the remote resume analysis service.
package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/okian/resumatch/internal/domain/model"
	"github.com/okian/resumatch/pkg/logger"
	"github.com/okian/resumatch/pkg/metrics"
)

// Multipart field names expected by the analysis service.
const (
	FieldResume         = "resume_file"
	FieldJobDescription = "job_description"
)

// RequestIDHeader carries a per-call identifier for log correlation.
const RequestIDHeader = "X-Request-ID"

// DefaultEndpoint is used when no endpoint option is given.
const DefaultEndpoint = "http://127.0.0.1:8000/analyze/"

// maxErrorBody bounds how much of an error response is read.
const maxErrorBody = 1 << 20

// Client posts one resume and job description per call.
type Client struct {
	endpoint  string
	http      *http.Client
	timeout   time.Duration
	logger    logger.Logger
	requestID func() string
}

// New constructs a Client. Without options it posts to DefaultEndpoint
// using a fresh http.Client with no timeout.
func New(opts ...Option) *Client {
	c := &Client{
		endpoint:  DefaultEndpoint,
		http:      &http.Client{},
		logger:    logger.Nop(),
		requestID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the configured analysis URL.
func (c *Client) Endpoint() string { return c.endpoint }

// Analyze sends req as a multipart POST and decodes the result.
//
// A non-2xx response yields *StatusError. Failures to reach the service wrap
// ErrTransport; a 2xx body that is not a valid result wraps ErrDecode.
func (c *Client) Analyze(ctx context.Context, req model.AnalysisRequest) (model.AnalysisResult, error) {
	const op = "analyzer.analyze"

	body, contentType, err := encodeForm(req)
	if err != nil {
		return model.AnalysisResult{}, fmt.Errorf("%s: %w: %w", op, ErrTransport, err)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		return model.AnalysisResult{}, fmt.Errorf("%s: %w: %w", op, ErrTransport, err)
	}
	reqID := c.requestID()
	httpReq.Header.Set("Content-Type", contentType)
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set(RequestIDHeader, reqID)

	log := c.logger.With(logger.String("request_id", reqID))
	log.Debug(ctx, "posting analysis request",
		logger.String("endpoint", c.endpoint),
		logger.String("resume", req.ResumeName),
		logger.Int("resume_bytes", len(req.Resume)),
	)

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	metrics.ObserveAnalyzeLatency(float64(time.Since(start).Milliseconds()))
	if err != nil {
		log.Warn(ctx, "analysis request failed", logger.Error(err))
		return model.AnalysisResult{}, fmt.Errorf("%s: %w: %w", op, ErrTransport, err)
	}
	defer func() { _ = resp.Body.Close() }()
	metrics.RecordAnalyzeStatus(strconv.Itoa(resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		serr := statusError(resp)
		log.Warn(ctx, "analysis service returned an error",
			logger.Int("status", resp.StatusCode),
			logger.String("message", serr.Error()),
		)
		return model.AnalysisResult{}, serr
	}

	var result model.AnalysisResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		log.Warn(ctx, "analysis response did not decode", logger.Error(err))
		return model.AnalysisResult{}, fmt.Errorf("%s: %w: %w", op, ErrDecode, err)
	}
	log.Debug(ctx, "analysis completed",
		logger.Float64("match_score", result.MatchScore),
		logger.Duration("took", time.Since(start)),
	)
	return result, nil
}

// encodeForm builds the multipart body. The resume part keeps its file name
// and gets a content type guessed from the extension.
func encodeForm(req model.AnalysisRequest) (io.Reader, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, FieldResume, escapeQuotes(req.ResumeName)))
	h.Set("Content-Type", contentTypeFor(req.ResumeName))
	part, err := mw.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(req.Resume); err != nil {
		return nil, "", err
	}
	if err := mw.WriteField(FieldJobDescription, req.JobDescription); err != nil {
		return nil, "", err
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return &buf, mw.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string { return quoteEscaper.Replace(s) }

func contentTypeFor(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return "application/pdf"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	}
	if t := mime.TypeByExtension(filepath.Ext(name)); t != "" {
		return t
	}
	return "application/octet-stream"
}

// errorBody is the error shape returned by the service. detail is usually a
// string; request validation failures send a list of {loc, msg, type}.
type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

type validationIssue struct {
	Msg string `json:"msg"`
}

// statusError builds a StatusError. An unreadable or non-JSON body is not an
// error of its own: the generic message is used instead.
func statusError(resp *http.Response) *StatusError {
	serr := &StatusError{StatusCode: resp.StatusCode, StatusText: statusText(resp)}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return serr
	}
	var eb errorBody
	if err := json.Unmarshal(raw, &eb); err != nil {
		return serr
	}
	serr.Detail = detailMessage(eb.Detail)
	return serr
}

func detailMessage(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var issues []validationIssue
	if err := json.Unmarshal(raw, &issues); err == nil {
		msgs := make([]string, 0, len(issues))
		for _, is := range issues {
			if is.Msg != "" {
				msgs = append(msgs, is.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return string(raw)
}

// statusText prefers the reason phrase the server sent over the canonical one.
func statusText(resp *http.Response) string {
	if text, ok := strings.CutPrefix(resp.Status, strconv.Itoa(resp.StatusCode)+" "); ok && text != "" {
		return text
	}
	return http.StatusText(resp.StatusCode)
}
