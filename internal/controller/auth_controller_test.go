package controller

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"umuhuza_backend/internal/model"
	"umuhuza_backend/pkg/sms"
)

type recordingSender struct {
	to      string
	message string
}

func (r *recordingSender) Send(to, message string) error {
	r.to = to
	r.message = message
	return nil
}

func TestIssueVerificationCodeDeliversPhoneCode(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.VerificationCode{}))

	user := model.User{
		Email:       "buyer@test.bi",
		PhoneNumber: "+25779000002",
		Password:    "hashed",
		FirstName:   "Test",
		LastName:    "Buyer",
	}
	require.NoError(t, db.Create(&user).Error)

	recorder := &recordingSender{}
	previous := sms.Default
	sms.Default = recorder
	defer func() { sms.Default = previous }()

	issueVerificationCode(db, &user, model.CodeTypePhone)

	var code model.VerificationCode
	require.NoError(t, db.Where("user_id = ? AND code_type = ?", user.ID, model.CodeTypePhone).
		First(&code).Error)
	assert.Len(t, code.Code, 6)

	assert.Equal(t, user.PhoneNumber, recorder.to)
	assert.Contains(t, recorder.message, code.Code)
}
