package user

import (
	"fmt"

	"github.com/kbukum/kafkasample/kafka"
)

// User is the record streamed from the producer to the consumer. ID doubles
// as the message key. Any non-empty id is accepted on the wire; the Generator
// issues 11-digit CPFs.
type User struct {
	ID   string `json:"id" validate:"required"`
	Name string `json:"name" validate:"required"`
}

// Key returns the message key of u.
func Key(u User) string { return u.ID }

// Describe renders u the way the consumer prints it.
func Describe(u User) string {
	return fmt.Sprintf("User id: %s, user name: %s", u.ID, u.Name)
}

// Fields returns u as logger fields.
func Fields(u User) map[string]interface{} {
	return map[string]interface{}{"user_id": u.ID, "user_name": u.Name}
}

// NewCodec returns the JSON codec for users.
func NewCodec() kafka.JSONCodec[User] {
	return kafka.NewJSONCodec[User]()
}
