package codec_test

import (
	"testing"
	"testing/quick"
	"unicode/utf8"

	"ojide/internal/ide/codec"
	"ojide/internal/testutil"
)

func TestEncodeKnownValues(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{name: "ascii", in: "1", want: "MQ=="},
		{name: "empty", in: "", want: ""},
		{name: "cjk", in: "暂无", want: "5pqC5peg"},
		{name: "astral", in: "😀", want: "8J+YgA=="},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			testutil.AssertEqual(t, codec.Encode(tc.in), tc.want)
		})
	}
}

func TestRoundTrip(t *testing.T) {
	inputs := []string{
		"print(1)",
		"#include <stdio.h>\nint main() {\n\tprintf(\"hello, world\\n\");\n}\n",
		"héllo wörld",
		"运行成功 - Success",
		"𝔘𝔫𝔦𝔠𝔬𝔡𝔢 😀 \u0000 tail",
	}
	for _, in := range inputs {
		testutil.AssertEqual(t, codec.Decode(codec.Encode(in)), in)
	}
}

func TestRoundTripProperty(t *testing.T) {
	roundTrip := func(s string) bool {
		if !utf8.ValidString(s) {
			return true
		}
		return codec.Decode(codec.Encode(s)) == s
	}
	if err := quick.Check(roundTrip, nil); err != nil {
		t.Fatalf("round trip failed: %v", err)
	}
}

func TestDecodeToleratesLineBreaks(t *testing.T) {
	// Judge0 emits MIME-style wrapped base64.
	testutil.AssertEqual(t, codec.Decode("aGVsbG8s\nIHdvcmxk\n"), "hello, world")
}

func TestDecodeInvalidUTF8FallsBackToLatin1(t *testing.T) {
	// 0xE9 alone is "é" in Latin-1 and a truncated sequence in UTF-8.
	encoded := "YWLp" // "ab\xe9"
	testutil.AssertEqual(t, codec.Decode(encoded), "abé")
	testutil.AssertEqual(t, codec.DecodeBytes([]byte{0xff, 0x41}), "ÿA")
}

func TestDecodeNotBase64ReturnsText(t *testing.T) {
	testutil.AssertEqual(t, codec.Decode("not base64!"), "not base64!")
}

func TestDecodeNeverFails(t *testing.T) {
	neverPanics := func(raw []byte) bool {
		out := codec.DecodeBytes(raw)
		out2 := codec.Decode(string(raw))
		return utf8.ValidString(out) && utf8.ValidString(out2)
	}
	if err := quick.Check(neverPanics, nil); err != nil {
		t.Fatalf("decode produced invalid text: %v", err)
	}
}

func FuzzDecode(f *testing.F) {
	f.Add("MQ==")
	f.Add("YWLp")
	f.Add("%%%")
	f.Fuzz(func(t *testing.T, s string) {
		_ = codec.Decode(s)
	})
}
