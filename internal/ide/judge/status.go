package judge

// Judge0 status ids.
const (
	Judge0InQueue          = 1
	Judge0Processing       = 2
	Judge0Accepted         = 3
	Judge0WrongAnswer      = 4
	Judge0TimeLimit        = 5
	Judge0CompilationError = 6
	Judge0RuntimeSIGSEGV   = 7
	Judge0RuntimeSIGXFSZ   = 8
	Judge0RuntimeSIGFPE    = 9
	Judge0RuntimeSIGABRT   = 10
	Judge0RuntimeNZEC      = 11
	Judge0RuntimeOther     = 12
	Judge0InternalError    = 13
	Judge0ExecFormatError  = 14
)

var judge0Descriptions = map[int]string{
	Judge0InQueue:          "In Queue",
	Judge0Processing:       "Processing",
	Judge0Accepted:         "Accepted",
	Judge0WrongAnswer:      "Wrong Answer",
	Judge0TimeLimit:        "Time Limit Exceeded",
	Judge0CompilationError: "Compilation Error",
	Judge0RuntimeSIGSEGV:   "Runtime Error (SIGSEGV)",
	Judge0RuntimeSIGXFSZ:   "Runtime Error (SIGXFSZ)",
	Judge0RuntimeSIGFPE:    "Runtime Error (SIGFPE)",
	Judge0RuntimeSIGABRT:   "Runtime Error (SIGABRT)",
	Judge0RuntimeNZEC:      "Runtime Error (NZEC)",
	Judge0RuntimeOther:     "Runtime Error (Other)",
	Judge0InternalError:    "Internal Error",
	Judge0ExecFormatError:  "Exec Format Error",
}

// Judge0Kind classifies a Judge0 status id.
func Judge0Kind(id int) Kind {
	switch {
	case id == Judge0InQueue, id == Judge0Processing:
		return KindPending
	case id == Judge0Accepted:
		return KindAccepted
	case id == Judge0WrongAnswer:
		return KindWrongAnswer
	case id == Judge0CompilationError:
		return KindCompileError
	case id == Judge0TimeLimit, id >= Judge0RuntimeSIGSEGV && id <= Judge0RuntimeOther, id == Judge0ExecFormatError:
		return KindRuntimeFailure
	default:
		return KindSystemError
	}
}

// Judge0Description returns the fixed description of a Judge0 status id.
func Judge0Description(id int) string {
	if desc, ok := judge0Descriptions[id]; ok {
		return desc
	}
	return judge0Descriptions[Judge0InternalError]
}

// OJ result codes. OJCompileError never comes from the server: the OJ signals
// a compile failure with a separate flag and the client assigns this code.
const (
	OJCompileError  = -2
	OJSuccess       = 0
	OJCPUTimeLimit  = 1
	OJRealTimeLimit = 2
	OJMemoryLimit   = 3
	OJRuntimeError  = 4
	OJSystemError   = 5
)

var ojDescriptions = map[int]string{
	OJCompileError:  "编译错误 - Compile Error",
	OJSuccess:       "运行成功 - Success",
	OJCPUTimeLimit:  "时间超限 - Time Limit Exceeded",
	OJRealTimeLimit: "时间超限 - Time Limit Exceeded",
	OJMemoryLimit:   "内存超限 - Memory Limit Exceeded",
	OJRuntimeError:  "运行错误 - Runtime Error",
	OJSystemError:   "系统错误(请联系管理员) - System Error",
}

// OJKind classifies an OJ result code.
func OJKind(code int) Kind {
	switch code {
	case OJSuccess:
		return KindAccepted
	case OJCompileError:
		return KindCompileError
	case OJCPUTimeLimit, OJRealTimeLimit, OJMemoryLimit, OJRuntimeError:
		return KindRuntimeFailure
	default:
		return KindSystemError
	}
}

// OJDescription returns the fixed description of an OJ result code.
func OJDescription(code int) string {
	if desc, ok := ojDescriptions[code]; ok {
		return desc
	}
	return ojDescriptions[OJSystemError]
}
