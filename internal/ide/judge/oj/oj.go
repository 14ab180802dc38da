// Package oj talks to the custom online-judge debug endpoint, which runs a
// submission synchronously and answers with plain-text output.
package oj

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"ojide/internal/ide/judge"
	"ojide/internal/ide/transport"
	appErr "ojide/pkg/errors"
	"ojide/pkg/utils/logger"

	"go.uber.org/zap"
)

const (
	Name = "oj"

	debugSubmissionPath = "/api/debug_submission"
	// resultSuccessAlias is reported by some judger versions for a clean run.
	resultSuccessAlias = -1
)

// Config describes one OJ endpoint.
type Config struct {
	BaseURL string
	Headers map[string]string
	Timeout time.Duration
}

// Backend implements judge.Backend against the OJ debug endpoint.
type Backend struct {
	client *transport.Client
}

func New(cfg Config) *Backend {
	return NewWithClient(transport.New(cfg.BaseURL, cfg.Timeout, cfg.Headers))
}

func NewWithClient(client *transport.Client) *Backend {
	return &Backend{client: client}
}

func (b *Backend) Name() string {
	return Name
}

// Client exposes the underlying HTTP client so front-ends can retarget it.
func (b *Backend) Client() *transport.Client {
	return b.client
}

type debugRequest struct {
	Src      string `json:"src"`
	Language string `json:"language"`
	Stdin    string `json:"stdin"`
}

type debugResponse struct {
	Data struct {
		Err  interface{}     `json:"err"`
		Data json.RawMessage `json:"data"`
	} `json:"data"`
}

type runResult struct {
	Result   int    `json:"result"`
	Error    int    `json:"error"`
	RealTime *int64 `json:"real_time"`
	Memory   *int64 `json:"memory"`
	Output   string `json:"output"`
	ExitCode *int   `json:"exit_code"`
	Signal   *int   `json:"signal"`
}

// Submit runs the request and always returns a finished result.
func (b *Backend) Submit(ctx context.Context, req judge.Request) (judge.Submission, error) {
	if err := req.Validate(); err != nil {
		return judge.Submission{}, err
	}
	body := debugRequest{
		Src:      req.SourceCode,
		Language: req.LanguageID,
		Stdin:    req.Stdin,
	}

	var resp debugResponse
	info, err := b.client.JSON(ctx, http.MethodPost, debugSubmissionPath, nil, body, &resp)
	if err != nil {
		logger.Warn(ctx, "oj debug submission failed", zap.Int("status", info.StatusCode), zap.Error(err))
		return judge.Submission{}, err
	}
	logger.Debug(ctx, "oj debug submission finished", zap.Duration("duration", info.Duration))

	res, err := parseResult(resp)
	if err != nil {
		return judge.Submission{}, err
	}
	return judge.Submission{Result: res}, nil
}

// Fetch is not available: the debug endpoint has no asynchronous mode.
func (b *Backend) Fetch(ctx context.Context, handle judge.Handle) (*judge.Result, error) {
	return nil, appErr.New(appErr.Unsupported).WithMessage("oj backend runs submissions synchronously")
}

func parseResult(resp debugResponse) (*judge.Result, error) {
	if isSet(resp.Data.Err) {
		var compileOutput string
		if err := json.Unmarshal(resp.Data.Data, &compileOutput); err != nil {
			compileOutput = string(resp.Data.Data)
		}
		return &judge.Result{
			Status:        judge.Status{ID: judge.OJCompileError, Description: judge.OJDescription(judge.OJCompileError)},
			Kind:          judge.KindCompileError,
			CompileOutput: compileOutput,
			Units:         judge.UnitsMillisMB,
		}, nil
	}

	var runs []runResult
	if err := json.Unmarshal(resp.Data.Data, &runs); err != nil {
		return nil, appErr.Wrapf(err, appErr.InvalidFormat, "decode oj run result failed")
	}
	if len(runs) == 0 {
		return nil, appErr.New(appErr.InvalidFormat).WithMessage("oj response has no run result")
	}
	run := runs[0]

	code := run.Result
	if run.Error != 0 {
		code = judge.OJSystemError
	}
	if code == resultSuccessAlias {
		code = judge.OJSuccess
	}

	res := &judge.Result{
		Status:   judge.Status{ID: code, Description: judge.OJDescription(code)},
		Kind:     judge.OJKind(code),
		Stdout:   run.Output,
		ExitCode: run.ExitCode,
		Signal:   run.Signal,
		Units:    judge.UnitsMillisMB,
	}
	if run.Error != 0 {
		res.Message = fmt.Sprintf("judger error %d", run.Error)
		if run.Output != "" {
			res.Message += "\n" + run.Output
		}
	}
	if run.RealTime != nil {
		seconds := float64(*run.RealTime) / 1000
		res.Time = &seconds
	}
	if run.Memory != nil {
		kb := *run.Memory / 1024
		res.Memory = &kb
	}
	return res, nil
}

// isSet mirrors the loose truthiness of the err field, which is a string, a
// number or a boolean depending on the judger version.
func isSet(v interface{}) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case float64:
		return x != 0
	default:
		return true
	}
}
