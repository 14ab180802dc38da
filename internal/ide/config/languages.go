package config

import "ojide/internal/ide/judge/oj"

// Judge0 CE language ids.
var judge0Languages = []Language{
	{ID: "50", Name: "C", Mode: "text/x-csrc"},
	{ID: "54", Name: "C++", Mode: "text/x-c++src"},
	{ID: "62", Name: "Java", Mode: "text/x-java"},
	{ID: "71", Name: "Python3", Mode: "text/x-python"},
	{ID: "63", Name: "JavaScript", Mode: "text/javascript"},
	{ID: "78", Name: "Kotlin", Mode: "text/x-kotlin"},
	{ID: "81", Name: "Scala", Mode: "text/x-scala"},
}

// The OJ debug endpoint takes the language name itself.
var ojLanguages = []Language{
	{ID: "C", Name: "C", Mode: "text/x-csrc"},
	{ID: "C++", Name: "C++", Mode: "text/x-c++src"},
	{ID: "Java", Name: "Java", Mode: "text/x-java"},
	{ID: "Python3", Name: "Python3", Mode: "text/x-python"},
	{ID: "Python2", Name: "Python2", Mode: "text/x-python"},
	{ID: "JavaScript", Name: "JavaScript", Mode: "text/javascript"},
	{ID: "Kotlin", Name: "Kotlin", Mode: "text/x-kotlin"},
	{ID: "Scala", Name: "Scala", Mode: "text/x-scala"},
}

// DefaultLanguages returns a copy of the built-in language list for backend.
func DefaultLanguages(backend string) []Language {
	src := judge0Languages
	if backend == oj.Name {
		src = ojLanguages
	}
	out := make([]Language, len(src))
	copy(out, src)
	return out
}
