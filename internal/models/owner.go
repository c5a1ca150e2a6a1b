package models

import "github.com/go-playground/validator/v10"

// Owner is the authenticated identity a session acts on behalf of.
// It is always passed explicitly, never read from ambient state.
type Owner struct {
	ID             string `json:"id" validate:"required"`
	Email          string `json:"email" validate:"required,email"`
	TelegramChatID *int64 `json:"telegram_chat_id"`
}

func (o *Owner) Validate() error {
	return validator.New().Struct(o)
}

func (o *Owner) NotifyParams() NotifyParams {
	return NotifyParams{
		Email:          o.Email,
		TelegramChatID: o.TelegramChatID,
	}
}
