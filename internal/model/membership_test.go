package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRole_Valid(t *testing.T) {
	assert.True(t, RoleAdmin.Valid())
	assert.True(t, RoleProjectAdmin.Valid())
	assert.True(t, RoleMember.Valid())
	assert.False(t, Role("owner").Valid())
	assert.False(t, Role("").Valid())
}

func TestRole_Level(t *testing.T) {
	assert.Greater(t, RoleAdmin.Level(), RoleProjectAdmin.Level())
	assert.Greater(t, RoleProjectAdmin.Level(), RoleMember.Level())
	assert.Equal(t, 0, Role("owner").Level())
}
