package model

// WebSocket message types
type WSMessageType string

const (
	WSMessageTypeSceneUpdate WSMessageType = "scene_update"
	WSMessageTypeLog         WSMessageType = "log"
	WSMessageTypeProgress    WSMessageType = "progress"
	WSMessageTypeComplete    WSMessageType = "complete"
	WSMessageTypeError       WSMessageType = "error"
	WSMessageTypePing        WSMessageType = "ping"
	WSMessageTypePong        WSMessageType = "pong"
)

// WSMessage is the minimal message envelope (ping/pong).
type WSMessage struct {
	Type WSMessageType `json:"type"`
}

// WSSceneUpdateMessage pushes the full ordered shot list of a scene after
// any underlying document change.
type WSSceneUpdateMessage struct {
	Type  WSMessageType `json:"type"`
	Topic string        `json:"topic"`
	Shots []Shot        `json:"shots"`
}

// WSLogMessage is a textual progress line (auto-direct drafting).
type WSLogMessage struct {
	Type  WSMessageType `json:"type"`
	Topic string        `json:"topic"`
	Line  string        `json:"line"`
}

// WSProgressMessage reports job progress to topic subscribers.
type WSProgressMessage struct {
	Type        WSMessageType `json:"type"`
	Topic       string        `json:"topic"`
	Progress    int           `json:"progress"`
	Status      JobStatus     `json:"status"`
	CurrentStep string        `json:"currentStep,omitempty"`
}

// WSCompleteMessage reports job completion.
type WSCompleteMessage struct {
	Type   WSMessageType `json:"type"`
	Topic  string        `json:"topic"`
	Result interface{}   `json:"result,omitempty"`
}

// WSErrorMessage reports a job failure.
type WSErrorMessage struct {
	Type  WSMessageType `json:"type"`
	Topic string        `json:"topic"`
	Error WSError       `json:"error"`
}

// WSError carries an error code and message.
type WSError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
