package payloads

import "time"

// ExerciseAddedPayload событие о добавленном упражнении, передается через RabbitMQ.
type ExerciseAddedPayload struct {
	AppID       string    `json:"app_id"`
	UserID      string    `json:"user_id"`
	Username    string    `json:"username"`
	Description string    `json:"description"`
	Duration    int       `json:"duration"`
	Date        string    `json:"date"`
	AddedAt     time.Time `json:"added_at"`
}
