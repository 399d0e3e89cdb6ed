package models

import "time"

// Chat is one stored exchange: the user's message and the model's reply.
// Title is a display convenience derived from the message prefix.
type Chat struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Response  string    `json:"response"`
	Timestamp time.Time `json:"timestamp"`
}

// ChatRequest is the payload sent to the chat endpoint.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse is the reply from the model.
type ChatResponse struct {
	Reply string `json:"reply"`
}

type StatusResponse struct {
	Status string `json:"status"`
}
