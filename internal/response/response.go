// Package response writes the JSON bodies shared by every handler.
package response

import (
	"encoding/json"
	"net/http"
)

// ErrorBody is the body of every failed request.
type ErrorBody struct {
	Error string `json:"error"`
}

// DataBody wraps a successful payload.
type DataBody struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}

// MessageBody is a success confirmation without a payload.
type MessageBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// JSON writes payload with the given status code.
func JSON(w http.ResponseWriter, status int, payload interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(payload)
}

func OK(w http.ResponseWriter, data interface{}) error {
	return JSON(w, http.StatusOK, DataBody{Success: true, Data: data})
}

func Message(w http.ResponseWriter, message string) error {
	return JSON(w, http.StatusOK, MessageBody{Success: true, Message: message})
}

func Error(w http.ResponseWriter, status int, message string) error {
	return JSON(w, status, ErrorBody{Error: message})
}

func BadRequest(w http.ResponseWriter, message string) error {
	return Error(w, http.StatusBadRequest, message)
}

func NotFound(w http.ResponseWriter, message string) error {
	return Error(w, http.StatusNotFound, message)
}

func InternalError(w http.ResponseWriter, message string) error {
	return Error(w, http.StatusInternalServerError, message)
}
