package server

import (
	"context"
	"errors"

	"ojide/internal/ide/judge"
	"ojide/internal/ide/transport"
	appErr "ojide/pkg/errors"
	"ojide/pkg/utils/response"

	"github.com/gin-gonic/gin"
)

// RunRequest is the body of a run call.
type RunRequest struct {
	Src      string `json:"src"`
	Language string `json:"language" binding:"required"`
	Stdin    string `json:"stdin"`
}

// Languages lists the configured languages.
func (s *Server) Languages(c *gin.Context) {
	response.Success(c, s.languages)
}

// Run executes one submission and answers with the rendered result.
func (s *Server) Run(c *gin.Context) {
	var req RunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request parameters")
		return
	}
	judgeReq, err := s.buildRequest(req)
	if err != nil {
		response.Error(c, err)
		return
	}

	if !s.acquire() {
		response.ErrorWithCode(c, appErr.TooManyRequests, "")
		return
	}
	defer s.release()

	res, err := s.runner.Execute(c.Request.Context(), judgeReq)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			err = appErr.Wrap(err, appErr.Canceled)
		} else if _, ok := transport.AsTransportError(err); ok {
			err = appErr.Wrap(err, appErr.TransportFailed)
		}
		response.ErrorWithData(c, err, res)
		return
	}
	response.Success(c, res)
}

func (s *Server) buildRequest(req RunRequest) (judge.Request, error) {
	lang, err := s.language(req.Language)
	if err != nil {
		return judge.Request{}, err
	}
	judgeReq := judge.Request{
		SourceCode: req.Src,
		LanguageID: lang.ID,
		Stdin:      req.Stdin,
	}
	if err := judgeReq.Validate(); err != nil {
		return judge.Request{}, err
	}
	return judgeReq, nil
}
