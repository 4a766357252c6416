package errorx

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapKeepsCause(t *testing.T) {
	base := errors.New("record not found")
	err := Wrapf(base, CodeNotFound, "查询宠物 uuid=%s", "p1")

	assert.Equal(t, "查询宠物 uuid=p1: record not found", err.Error())
	assert.ErrorIs(t, err, base)
	assert.True(t, IsNotFound(err))
	assert.Equal(t, CodeNotFound, GetCode(fmt.Errorf("outer: %w", err)))
}

func TestGetCodeDefaultsToServerBusy(t *testing.T) {
	assert.Equal(t, CodeServerBusy, GetCode(errors.New("boom")))
	assert.False(t, HasCode(nil, CodeConflict))
}

func TestIsMatchesByCode(t *testing.T) {
	err := fmt.Errorf("approve: %w", New(CodeForbidden, "无权执行该操作"))
	assert.ErrorIs(t, err, ErrForbidden)
	assert.NotErrorIs(t, err, ErrUnauthorized)
	assert.ErrorIs(t, New(CodeConflict, "任意消息"), &CodeError{Code: CodeConflict})
}
