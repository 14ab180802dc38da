// Package judge0 talks to a Judge0-compatible submissions API.
package judge0

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"ojide/internal/ide/codec"
	"ojide/internal/ide/judge"
	"ojide/internal/ide/transport"
	appErr "ojide/pkg/errors"
	"ojide/pkg/utils/logger"

	"go.uber.org/zap"
)

const Name = "judge0"

// Config describes one Judge0 endpoint.
type Config struct {
	BaseURL string
	// Base64 sends source and stdin base64-encoded and asks for encoded output.
	Base64 bool
	// Wait asks the server to answer with the finished result instead of a token.
	Wait    bool
	Headers map[string]string
	Timeout time.Duration
}

// Backend implements judge.Backend against Judge0.
type Backend struct {
	client *transport.Client
	base64 bool
	wait   bool
}

func New(cfg Config) *Backend {
	return NewWithClient(transport.New(cfg.BaseURL, cfg.Timeout, cfg.Headers), cfg.Base64, cfg.Wait)
}

func NewWithClient(client *transport.Client, base64, wait bool) *Backend {
	return &Backend{client: client, base64: base64, wait: wait}
}

func (b *Backend) Name() string {
	return Name
}

// Client exposes the underlying HTTP client so front-ends can retarget it.
func (b *Backend) Client() *transport.Client {
	return b.client
}

type submissionBody struct {
	SourceCode           string `json:"source_code"`
	LanguageID           int    `json:"language_id"`
	Stdin                string `json:"stdin"`
	CompilerOptions      string `json:"compiler_options,omitempty"`
	CommandLineArguments string `json:"command_line_arguments,omitempty"`
}

type statusBody struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
}

type submissionResponse struct {
	Token         string      `json:"token"`
	Status        *statusBody `json:"status"`
	Stdout        *string     `json:"stdout"`
	Stderr        *string     `json:"stderr"`
	CompileOutput *string     `json:"compile_output"`
	Message       *string     `json:"message"`
	Time          flexNumber  `json:"time"`
	Memory        flexNumber  `json:"memory"`
	ExitCode      *int        `json:"exit_code"`
	ExitSignal    *int        `json:"exit_signal"`
}

// Submit creates a submission. Depending on Wait the result is either inline
// or has to be fetched with the returned handle.
func (b *Backend) Submit(ctx context.Context, req judge.Request) (judge.Submission, error) {
	if err := req.Validate(); err != nil {
		return judge.Submission{}, err
	}
	languageID, err := strconv.Atoi(strings.TrimSpace(req.LanguageID))
	if err != nil {
		return judge.Submission{}, appErr.Newf(appErr.LanguageNotSupported, "invalid judge0 language id %q", req.LanguageID)
	}

	body := submissionBody{
		SourceCode:           b.encode(req.SourceCode),
		LanguageID:           languageID,
		Stdin:                b.encode(req.Stdin),
		CompilerOptions:      req.CompilerOptions,
		CommandLineArguments: req.CommandLineArguments,
	}
	query := b.query()
	query.Set("wait", strconv.FormatBool(b.wait))

	var resp submissionResponse
	info, err := b.client.JSON(ctx, http.MethodPost, "/submissions", query, body, &resp)
	if err != nil {
		logger.Warn(ctx, "judge0 create submission failed", zap.Int("status", info.StatusCode), zap.Error(err))
		return judge.Submission{}, err
	}
	logger.Debug(ctx, "judge0 submission created",
		zap.String("token", resp.Token),
		zap.Bool("inline", resp.Status != nil),
		zap.Duration("duration", info.Duration),
	)

	// A server with wait disabled answers with a token even when asked to wait.
	if resp.Status == nil {
		if resp.Token == "" {
			return judge.Submission{}, appErr.New(appErr.InvalidFormat).WithMessage("judge0 response carries neither status nor token")
		}
		return judge.Submission{Handle: judge.Handle(resp.Token)}, nil
	}
	return judge.Submission{Handle: judge.Handle(resp.Token), Result: b.toResult(resp)}, nil
}

// Fetch reads the current state of a submission.
func (b *Backend) Fetch(ctx context.Context, handle judge.Handle) (*judge.Result, error) {
	if handle == "" {
		return nil, appErr.BadRequest("submission token is required")
	}
	var resp submissionResponse
	info, err := b.client.JSON(ctx, http.MethodGet, "/submissions/"+url.PathEscape(string(handle)), b.query(), nil, &resp)
	if err != nil {
		logger.Warn(ctx, "judge0 fetch submission failed", zap.Int("status", info.StatusCode), zap.Error(err))
		return nil, err
	}
	if resp.Status == nil {
		return nil, appErr.New(appErr.InvalidFormat).WithMessage("judge0 response carries no status")
	}
	return b.toResult(resp), nil
}

func (b *Backend) query() url.Values {
	return url.Values{
		"base64_encoded": {strconv.FormatBool(b.base64)},
		"fields":         {"*"},
	}
}

func (b *Backend) encode(text string) string {
	if b.base64 {
		return codec.Encode(text)
	}
	return text
}

func (b *Backend) decode(text *string) string {
	if text == nil {
		return ""
	}
	if b.base64 {
		return codec.Decode(*text)
	}
	return *text
}

func (b *Backend) toResult(resp submissionResponse) *judge.Result {
	id := resp.Status.ID
	desc := resp.Status.Description
	if desc == "" {
		desc = judge.Judge0Description(id)
	}
	res := &judge.Result{
		Status:        judge.Status{ID: id, Description: desc},
		Kind:          judge.Judge0Kind(id),
		Stdout:        b.decode(resp.Stdout),
		Stderr:        b.decode(resp.Stderr),
		CompileOutput: b.decode(resp.CompileOutput),
		Message:       b.decode(resp.Message),
		ExitCode:      resp.ExitCode,
		Signal:        resp.ExitSignal,
		Units:         judge.UnitsSecondsKB,
	}
	if resp.Time.Valid {
		seconds := resp.Time.Value
		res.Time = &seconds
		res.TimeText = resp.Time.Text
	}
	if resp.Memory.Valid {
		kb := int64(resp.Memory.Value)
		res.Memory = &kb
	}
	return res
}
