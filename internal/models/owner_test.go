package models_test

import (
	"testing"

	"github.com/dealdrop/dealdrop/internal/models"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
)

func TestOwnerValidate(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		owner := models.Owner{ID: "owner-1", Email: "buyer@example.com"}
		assert.NoError(t, owner.Validate())
	})

	t.Run("MissingID", func(t *testing.T) {
		owner := models.Owner{Email: "buyer@example.com"}
		assert.Error(t, owner.Validate())
	})

	t.Run("BadEmail", func(t *testing.T) {
		owner := models.Owner{ID: "owner-1", Email: "not-an-email"}
		assert.Error(t, owner.Validate())
	})
}

func TestOwnerNotifyParams(t *testing.T) {
	owner := models.Owner{
		ID:             "owner-1",
		Email:          "buyer@example.com",
		TelegramChatID: lo.ToPtr(int64(100500)),
	}

	notify := owner.NotifyParams()

	assert.Equal(t, owner.Email, notify.Email)
	assert.Equal(t, owner.TelegramChatID, notify.TelegramChatID)
}
