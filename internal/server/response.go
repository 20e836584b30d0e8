package server

import (
	"encoding/json"
	"net/http"
)

// Response is the envelope for every JSON reply.
type Response struct {
	Code   int         `json:"code,omitempty"`
	Status string      `json:"status,omitempty"`
	Result interface{} `json:"result,omitempty"`
	Errors []*ApiError `json:"errors,omitempty"`
}

type ApiError struct {
	Code            string `json:"code,omitempty"`
	InternalMessage string `json:"internalMessage,omitempty"`
	UserMessage     string `json:"userMessage,omitempty"`
}

func (s *Server) writeJsonResp(w http.ResponseWriter, err error, respBody interface{}, status int) {
	response := Response{Code: status, Status: http.StatusText(status)}
	if err == nil {
		response.Result = respBody
	} else {
		apiErr := &ApiError{Code: errorCode(status), InternalMessage: err.Error()}
		if msg, ok := respBody.(string); ok {
			apiErr.UserMessage = msg
		}
		response.Errors = []*ApiError{apiErr}
	}
	b, err := json.Marshal(response)
	if err != nil {
		s.log.Errorw("error in marshaling response", "err", err)
		status = http.StatusInternalServerError
		b = []byte(`{"code":500}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(b)
}

func errorCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "bad_request"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusRequestEntityTooLarge:
		return "too_large"
	case http.StatusUnsupportedMediaType:
		return "unsupported_format"
	case http.StatusUnprocessableEntity:
		return "no_metadata"
	default:
		return "internal"
	}
}
