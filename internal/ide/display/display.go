// Package display turns judge results and failures into the status line and
// output text shown to the user.
package display

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"ojide/internal/ide/judge"
	"ojide/internal/ide/transport"
	appErr "ojide/pkg/errors"
)

// Placeholder is shown in place of an empty output.
const Placeholder = "暂无"

// AdminNote follows the message of a judge-internal failure.
const AdminNote = "Please contact the administrator."

// KindTransportError and friends extend judge kinds for failures that never
// produced a judge result.
const (
	KindTransportError judge.Kind = "transport_error"
	KindTimeout        judge.Kind = "timeout"
	KindCanceled       judge.Kind = "canceled"
	KindError          judge.Kind = "error"
)

// sandboxPath matches the judger's per-run working directory.
var sandboxPath = regexp.MustCompile(`/judger/run/\S+/`)

// Result is what the front-end renders.
type Result struct {
	StatusLine string     `json:"status_line"`
	Body       string     `json:"body"`
	Kind       judge.Kind `json:"kind"`
	StatusID   int        `json:"status_id"`
}

// Empty reports whether there is no output to show.
func (r Result) Empty() bool {
	return r.Body == ""
}

// Map formats a terminal judge result. It does no I/O.
func Map(res *judge.Result) Result {
	return Result{
		StatusLine: statusLine(res),
		Body:       body(res),
		Kind:       res.Kind,
		StatusID:   res.Status.ID,
	}
}

func statusLine(res *judge.Result) string {
	desc := res.Status.Description
	// the OJ reports neither time nor memory for a failed compile
	if res.Kind == judge.KindCompileError && res.Units == judge.UnitsMillisMB && res.Time == nil && res.Memory == nil {
		return desc
	}
	return fmt.Sprintf("%s, %s, %s", desc, formatTime(res), formatMemory(res))
}

func formatTime(res *judge.Result) string {
	if res.Time == nil {
		return "-"
	}
	if res.Units == judge.UnitsMillisMB {
		return strconv.FormatInt(int64(math.Round(*res.Time*1000)), 10) + "ms"
	}
	if res.TimeText != "" {
		return res.TimeText + "s"
	}
	return strconv.FormatFloat(*res.Time, 'f', -1, 64) + "s"
}

func formatMemory(res *judge.Result) string {
	if res.Memory == nil {
		return "-"
	}
	if res.Units == judge.UnitsMillisMB {
		return strconv.FormatInt(*res.Memory/1024, 10) + "MB"
	}
	return strconv.FormatInt(*res.Memory, 10) + "KB"
}

func body(res *judge.Result) string {
	var out string
	switch res.Kind {
	case judge.KindCompileError:
		out = StripSandboxPaths(res.CompileOutput)
	case judge.KindSystemError:
		out = appendLine(res.Message, AdminNote)
	default:
		out = res.Stdout
		if res.Kind != judge.KindAccepted && res.Stderr != "" {
			out = appendLine(out, res.Stderr)
		}
	}

	if res.ExitCode != nil && *res.ExitCode != 0 {
		out = appendLine(out, fmt.Sprintf("[WARN] Exited with code %d.", *res.ExitCode))
	}
	if res.Signal != nil && *res.Signal != 0 {
		out = appendLine(out, fmt.Sprintf("[WARN] Killed by signal %d.", *res.Signal))
	}
	return out
}

// StripSandboxPaths removes judger working-directory prefixes from compiler
// diagnostics.
func StripSandboxPaths(s string) string {
	return sandboxPath.ReplaceAllString(s, "")
}

func appendLine(body, line string) string {
	if body == "" {
		return line
	}
	return body + "\n" + line
}

func dumpJSON(v interface{}) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(v); err != nil {
		return err.Error()
	}
	return strings.TrimRight(buf.String(), "\n")
}

type diagnostic struct {
	Status       int    `json:"status"`
	StatusText   string `json:"statusText"`
	ResponseText string `json:"responseText"`
	Error        string `json:"error,omitempty"`
}

// FromError formats a failure that prevented a judge result.
func FromError(err error) Result {
	if errors.Is(err, context.Canceled) || appErr.Is(err, appErr.Canceled) {
		return Result{
			StatusLine: "Canceled",
			Body:       appErr.Canceled.Message(),
			Kind:       KindCanceled,
		}
	}
	if te, ok := transport.AsTransportError(err); ok {
		diag := diagnostic{
			Status:       te.StatusCode,
			StatusText:   te.StatusText(),
			ResponseText: string(te.Body),
		}
		if te.Err != nil {
			diag.Error = te.Err.Error()
		}
		return Result{
			StatusLine: fmt.Sprintf("%s (%d)", te.StatusText(), te.StatusCode),
			Body:       dumpJSON(diag),
			Kind:       KindTransportError,
		}
	}
	if appErr.Is(err, appErr.Timeout) {
		return Result{
			StatusLine: "Timeout",
			Body:       appErr.GetError(err).Error(),
			Kind:       KindTimeout,
		}
	}
	msg := ""
	if err != nil {
		msg = strings.TrimSpace(err.Error())
	}
	return Result{
		StatusLine: "Error",
		Body:       msg,
		Kind:       KindError,
	}
}
