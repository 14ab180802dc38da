package oj_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"ojide/internal/ide/display"
	"ojide/internal/ide/judge"
	"ojide/internal/ide/judge/oj"
	"ojide/internal/testutil"
	appErr "ojide/pkg/errors"
)

func newServer(t *testing.T, reply string, seen *map[string]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		testutil.AssertEqual(t, r.URL.Path, "/api/debug_submission")
		if seen != nil {
			body, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(body, seen)
		}
		_, _ = w.Write([]byte(reply))
	}))
}

func TestSubmitSendsPlainText(t *testing.T) {
	seen := map[string]string{}
	srv := newServer(t, `{"data":{"err":null,"data":[{"result":0,"error":0,"real_time":12,"memory":3145728,"output":"hi","exit_code":0,"signal":0}]}}`, &seen)
	defer srv.Close()

	backend := oj.New(oj.Config{BaseURL: srv.URL})
	sub, err := backend.Submit(context.Background(), judge.Request{SourceCode: "int main(){}", LanguageID: "C++", Stdin: "1 2"})
	testutil.MustNoError(t, err)
	testutil.AssertEqual(t, seen["src"], "int main(){}")
	testutil.AssertEqual(t, seen["language"], "C++")
	testutil.AssertEqual(t, seen["stdin"], "1 2")

	res := sub.Result
	testutil.AssertEqual(t, res.Kind, judge.KindAccepted)
	testutil.AssertEqual(t, res.Status.Description, "运行成功 - Success")
	testutil.AssertEqual(t, res.Stdout, "hi")
	testutil.AssertEqual(t, *res.Time, 0.012)
	testutil.AssertEqual(t, *res.Memory, int64(3072))
	testutil.AssertEqual(t, res.Units, judge.UnitsMillisMB)
}

func TestSubmitCompileError(t *testing.T) {
	srv := newServer(t, `{"data":{"err":"CompileError","data":"/judger/run/abc123/main.cpp:1:1: error: x"}}`, nil)
	defer srv.Close()

	sub, err := oj.New(oj.Config{BaseURL: srv.URL}).Submit(context.Background(), judge.Request{SourceCode: "x", LanguageID: "C++"})
	testutil.MustNoError(t, err)
	testutil.AssertEqual(t, sub.Result.Kind, judge.KindCompileError)
	testutil.AssertEqual(t, sub.Result.CompileOutput, "/judger/run/abc123/main.cpp:1:1: error: x")
}

func TestSubmitResultCodes(t *testing.T) {
	cases := []struct {
		name     string
		reply    string
		wantID   int
		wantKind judge.Kind
	}{
		{
			name:     "minus one is success",
			reply:    `{"data":{"err":null,"data":[{"result":-1,"error":0,"real_time":1,"memory":1,"output":"","exit_code":0,"signal":0}]}}`,
			wantID:   judge.OJSuccess,
			wantKind: judge.KindAccepted,
		},
		{
			name:     "error forces system error",
			reply:    `{"data":{"err":null,"data":[{"result":0,"error":4,"real_time":null,"memory":null,"output":"","exit_code":0,"signal":0}]}}`,
			wantID:   judge.OJSystemError,
			wantKind: judge.KindSystemError,
		},
		{
			name:     "memory limit",
			reply:    `{"data":{"err":null,"data":[{"result":3,"error":0,"real_time":5,"memory":1,"output":"","exit_code":0,"signal":9}]}}`,
			wantID:   judge.OJMemoryLimit,
			wantKind: judge.KindRuntimeFailure,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := newServer(t, tc.reply, nil)
			defer srv.Close()
			sub, err := oj.New(oj.Config{BaseURL: srv.URL}).Submit(context.Background(), judge.Request{SourceCode: "x", LanguageID: "C"})
			testutil.MustNoError(t, err)
			testutil.AssertEqual(t, sub.Result.Status.ID, tc.wantID)
			testutil.AssertEqual(t, sub.Result.Kind, tc.wantKind)
		})
	}
}

func TestSubmitSystemErrorKeepsOutput(t *testing.T) {
	srv := newServer(t, `{"data":{"err":null,"data":[{"result":0,"error":4,"real_time":3,"memory":2048,"output":"partial","exit_code":1,"signal":0}]}}`, nil)
	defer srv.Close()

	sub, err := oj.New(oj.Config{BaseURL: srv.URL}).Submit(context.Background(), judge.Request{SourceCode: "x", LanguageID: "C"})
	testutil.MustNoError(t, err)
	testutil.AssertEqual(t, sub.Result.Kind, judge.KindSystemError)
	testutil.AssertEqual(t, sub.Result.Message, "judger error 4\npartial")

	out := display.Map(sub.Result)
	testutil.AssertEqual(t, out.Body, "judger error 4\npartial\nPlease contact the administrator.\n[WARN] Exited with code 1.")
}

func TestSubmitEmptyRunList(t *testing.T) {
	srv := newServer(t, `{"data":{"err":null,"data":[]}}`, nil)
	defer srv.Close()
	_, err := oj.New(oj.Config{BaseURL: srv.URL}).Submit(context.Background(), judge.Request{SourceCode: "x", LanguageID: "C"})
	testutil.AssertTrue(t, appErr.Is(err, appErr.InvalidFormat), "empty run list should be an invalid format error")
}

func TestFetchUnsupported(t *testing.T) {
	_, err := oj.New(oj.Config{BaseURL: "http://127.0.0.1:1"}).Fetch(context.Background(), "abc")
	testutil.AssertTrue(t, appErr.Is(err, appErr.Unsupported), "oj has no async mode")
}
