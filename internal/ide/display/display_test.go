package display_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"ojide/internal/ide/display"
	"ojide/internal/ide/judge"
	"ojide/internal/ide/transport"
	"ojide/internal/testutil"
	appErr "ojide/pkg/errors"
)

func f64(v float64) *float64 { return &v }
func i64(v int64) *int64 { return &v }
func intp(v int) *int { return &v }

func judge0Result(id int) *judge.Result {
	return &judge.Result{
		Status: judge.Status{ID: id, Description: judge.Judge0Description(id)},
		Kind:   judge.Judge0Kind(id),
	}
}

func ojResult(code int) *judge.Result {
	return &judge.Result{
		Status: judge.Status{ID: code, Description: judge.OJDescription(code)},
		Kind:   judge.OJKind(code),
		Units:  judge.UnitsMillisMB,
	}
}

func TestMapAccepted(t *testing.T) {
	res := judge0Result(judge.Judge0Accepted)
	res.Stdout = "1"
	res.Time = f64(0.01)
	res.Memory = i64(1234)

	out := display.Map(res)
	testutil.AssertEqual(t, out.StatusLine, "Accepted, 0.01s, 1234KB")
	testutil.AssertEqual(t, out.Body, "1")
	testutil.AssertEqual(t, out.Kind, judge.KindAccepted)
	testutil.AssertEqual(t, out.StatusID, judge.Judge0Accepted)
	testutil.AssertFalse(t, out.Empty(), "body should not be empty")
}

func TestMapStatusLineUnits(t *testing.T) {
	tests := []struct {
		name string
		res  *judge.Result
		want string
	}{
		{
			name: "missing values",
			res:  judge0Result(judge.Judge0Accepted),
			want: "Accepted, -, -",
		},
		{
			name: "seconds and kilobytes",
			res: func() *judge.Result {
				r := judge0Result(judge.Judge0TimeLimit)
				r.Time = f64(2.5)
				r.Memory = i64(65536)
				return r
			}(),
			want: "Time Limit Exceeded, 2.5s, 65536KB",
		},
		{
			name: "milliseconds and megabytes",
			res: func() *judge.Result {
				r := ojResult(judge.OJSuccess)
				r.Time = f64(0.012)
				r.Memory = i64(3 * 1024)
				return r
			}(),
			want: "运行成功 - Success, 12ms, 3MB",
		},
		{
			name: "megabytes are floored",
			res: func() *judge.Result {
				r := ojResult(judge.OJMemoryLimit)
				r.Time = f64(0)
				r.Memory = i64(2047)
				return r
			}(),
			want: "内存超限 - Memory Limit Exceeded, 0ms, 1MB",
		},
		{
			name: "compile error without measurements",
			res:  ojResult(judge.OJCompileError),
			want: "编译错误 - Compile Error",
		},
		{
			name: "judge0 compile error keeps the dashes",
			res:  judge0Result(judge.Judge0CompilationError),
			want: "Compilation Error, -, -",
		},
		{
			name: "reported time text wins",
			res: func() *judge.Result {
				r := judge0Result(judge.Judge0Accepted)
				r.Time = f64(0.1)
				r.TimeText = "0.100"
				r.Memory = i64(800)
				return r
			}(),
			want: "Accepted, 0.100s, 800KB",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testutil.AssertEqual(t, display.Map(tt.res).StatusLine, tt.want)
		})
	}
}

func TestMapBody(t *testing.T) {
	tests := []struct {
		name string
		res  func() *judge.Result
		want string
	}{
		{
			name: "compile output with sandbox paths removed",
			res: func() *judge.Result {
				r := ojResult(judge.OJCompileError)
				r.CompileOutput = "/judger/run/7f3a9c/main.c:1:1: error: expected ';'"
				return r
			},
			want: "main.c:1:1: error: expected ';'",
		},
		{
			name: "judge0 compile output",
			res: func() *judge.Result {
				r := judge0Result(judge.Judge0CompilationError)
				r.CompileOutput = "main.cpp:3: error"
				r.Stdout = "ignored"
				return r
			},
			want: "main.cpp:3: error",
		},
		{
			name: "system error asks for the administrator",
			res: func() *judge.Result {
				r := judge0Result(judge.Judge0InternalError)
				r.Message = "sandbox crashed"
				return r
			},
			want: "sandbox crashed\nPlease contact the administrator.",
		},
		{
			name: "system error without message",
			res: func() *judge.Result {
				return judge0Result(judge.Judge0InternalError)
			},
			want: "Please contact the administrator.",
		},
		{
			name: "accepted hides stderr",
			res: func() *judge.Result {
				r := judge0Result(judge.Judge0Accepted)
				r.Stdout = "ok"
				r.Stderr = "debug noise"
				return r
			},
			want: "ok",
		},
		{
			name: "failure appends stderr",
			res: func() *judge.Result {
				r := judge0Result(judge.Judge0RuntimeNZEC)
				r.Stdout = "partial"
				r.Stderr = "Traceback"
				return r
			},
			want: "partial\nTraceback",
		},
		{
			name: "failure with stderr only",
			res: func() *judge.Result {
				r := judge0Result(judge.Judge0RuntimeNZEC)
				r.Stderr = "Traceback"
				return r
			},
			want: "Traceback",
		},
		{
			name: "exit code on empty output",
			res: func() *judge.Result {
				r := ojResult(judge.OJRuntimeError)
				r.ExitCode = intp(1)
				r.Signal = intp(0)
				return r
			},
			want: "[WARN] Exited with code 1.",
		},
		{
			name: "exit code and signal after output",
			res: func() *judge.Result {
				r := ojResult(judge.OJRuntimeError)
				r.Stdout = "out"
				r.ExitCode = intp(139)
				r.Signal = intp(11)
				return r
			},
			want: "out\n[WARN] Exited with code 139.\n[WARN] Killed by signal 11.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testutil.AssertEqual(t, display.Map(tt.res()).Body, tt.want)
		})
	}
}

func TestMapEmptyOutput(t *testing.T) {
	res := ojResult(judge.OJSuccess)
	res.ExitCode = intp(0)
	res.Signal = intp(0)

	out := display.Map(res)
	testutil.AssertTrue(t, out.Empty(), "body should be empty")
	testutil.AssertEqual(t, display.Placeholder, "暂无")
}

func TestStripSandboxPaths(t *testing.T) {
	in := "/judger/run/abc/main.cpp: In function 'int main()':\n/judger/run/abc/main.cpp:4:5: error"
	want := "main.cpp: In function 'int main()':\nmain.cpp:4:5: error"
	testutil.AssertEqual(t, display.StripSandboxPaths(in), want)
}

func TestFromTransportError(t *testing.T) {
	err := fmt.Errorf("submit: %w", &transport.TransportError{
		StatusCode: 422,
		Status:     "Unprocessable Entity",
		Body:       []byte(`{"error":"language <x> missing"}`),
	})

	out := display.FromError(err)
	testutil.AssertEqual(t, out.StatusLine, "Unprocessable Entity (422)")
	testutil.AssertEqual(t, out.Kind, display.KindTransportError)
	testutil.AssertContains(t, out.Body, "\n    \"status\": 422")

	var diag map[string]interface{}
	testutil.MustUnmarshalJSON(t, []byte(out.Body), &diag)
	testutil.AssertEqual(t, diag["statusText"], "Unprocessable Entity")
	testutil.AssertEqual(t, diag["responseText"], `{"error":"language <x> missing"}`)
}

func TestFromNetworkError(t *testing.T) {
	out := display.FromError(&transport.TransportError{Err: errors.New("connection refused")})

	testutil.AssertEqual(t, out.StatusLine, "error (0)")
	var diag struct {
		Status int    `json:"status"`
		Error  string `json:"error"`
	}
	if err := json.Unmarshal([]byte(out.Body), &diag); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	testutil.AssertEqual(t, diag.Status, 0)
	testutil.AssertEqual(t, diag.Error, "connection refused")
}

func TestFromTimeoutAndOtherErrors(t *testing.T) {
	out := display.FromError(appErr.New(appErr.Timeout))
	testutil.AssertEqual(t, out.StatusLine, "Timeout")
	testutil.AssertEqual(t, out.Kind, display.KindTimeout)
	testutil.AssertEqual(t, out.Body, appErr.Timeout.Message())

	out = display.FromError(errors.New("unexpected EOF"))
	testutil.AssertEqual(t, out.StatusLine, "Error")
	testutil.AssertEqual(t, out.Body, "unexpected EOF")
	testutil.AssertEqual(t, out.Kind, display.KindError)
}

func TestFromCanceled(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"context", context.Canceled},
		{"wrapped by transport", &transport.TransportError{Err: fmt.Errorf("post: %w", context.Canceled)}},
		{"error code", appErr.New(appErr.Canceled)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := display.FromError(tt.err)
			testutil.AssertEqual(t, out.StatusLine, "Canceled")
			testutil.AssertEqual(t, out.Body, appErr.Canceled.Message())
			testutil.AssertEqual(t, out.Kind, display.KindCanceled)
		})
	}
}
