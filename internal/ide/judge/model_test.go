package judge_test

import (
	"testing"

	"ojide/internal/ide/judge"
	"ojide/internal/testutil"
	appErr "ojide/pkg/errors"
)

func TestJudge0Kind(t *testing.T) {
	cases := map[int]judge.Kind{
		judge.Judge0InQueue:          judge.KindPending,
		judge.Judge0Processing:       judge.KindPending,
		judge.Judge0Accepted:         judge.KindAccepted,
		judge.Judge0WrongAnswer:      judge.KindWrongAnswer,
		judge.Judge0TimeLimit:        judge.KindRuntimeFailure,
		judge.Judge0CompilationError: judge.KindCompileError,
		judge.Judge0RuntimeSIGSEGV:   judge.KindRuntimeFailure,
		judge.Judge0RuntimeOther:     judge.KindRuntimeFailure,
		judge.Judge0InternalError:    judge.KindSystemError,
		judge.Judge0ExecFormatError:  judge.KindRuntimeFailure,
		99:                           judge.KindSystemError,
	}
	for id, want := range cases {
		testutil.AssertEqual(t, judge.Judge0Kind(id), want)
	}
}

func TestOJKind(t *testing.T) {
	testutil.AssertEqual(t, judge.OJKind(judge.OJSuccess), judge.KindAccepted)
	testutil.AssertEqual(t, judge.OJKind(judge.OJRealTimeLimit), judge.KindRuntimeFailure)
	testutil.AssertEqual(t, judge.OJKind(judge.OJCompileError), judge.KindCompileError)
	testutil.AssertEqual(t, judge.OJKind(judge.OJSystemError), judge.KindSystemError)
	testutil.AssertEqual(t, judge.OJDescription(judge.OJCPUTimeLimit), "时间超限 - Time Limit Exceeded")
	testutil.AssertEqual(t, judge.OJDescription(42), judge.OJDescription(judge.OJSystemError))
}

func TestTerminal(t *testing.T) {
	var nilResult *judge.Result
	testutil.AssertFalse(t, nilResult.Terminal(), "nil result is not terminal")
	testutil.AssertFalse(t, (&judge.Result{Kind: judge.KindPending}).Terminal(), "pending is not terminal")
	testutil.AssertTrue(t, (&judge.Result{Kind: judge.KindSystemError}).Terminal(), "system error is terminal")
}

func TestRequestValidate(t *testing.T) {
	err := judge.Request{SourceCode: "\t\n", LanguageID: "71"}.Validate()
	testutil.AssertTrue(t, appErr.Is(err, appErr.SourceCodeEmpty), "blank source")
	err = judge.Request{SourceCode: "x"}.Validate()
	testutil.AssertTrue(t, appErr.Is(err, appErr.LanguageNotSupported), "missing language")
	testutil.MustNoError(t, judge.Request{SourceCode: "x", LanguageID: "71"}.Validate())
}
