package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectAccess(t *testing.T) {
	p := &Project{ManagerID: "m", Team: []string{"a", "b"}}

	assert.True(t, p.IsManager("m"))
	assert.False(t, p.IsManager("a"))
	assert.False(t, p.IsManager(""))

	assert.True(t, p.HasMember("b"))
	assert.False(t, p.HasMember("m"))

	assert.True(t, p.CanAccess("m"))
	assert.True(t, p.CanAccess("a"))
	assert.False(t, p.CanAccess("stranger"))
}

func TestTaskStatusValid(t *testing.T) {
	for _, s := range TaskStatuses {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, TaskStatus("done").Valid())
	assert.False(t, TaskStatus("").Valid())
}

func TestTeamChangeAllows(t *testing.T) {
	tc := TeamChange{ManagerID: "m", Members: []UserSummary{{ID: "a"}}}

	assert.True(t, tc.Allows("m"))
	assert.True(t, tc.Allows("a"))
	assert.False(t, tc.Allows("b"))
	assert.False(t, TeamChange{}.Allows(""))
}

func TestUserJSONHidesPassword(t *testing.T) {
	u := User{ID: "1", Name: "Ana", Email: "ana@example.com", PasswordHash: "$2a$10$secret"}

	b, err := json.Marshal(u)
	require.NoError(t, err)

	assert.NotContains(t, string(b), "secret")
	assert.NotContains(t, string(b), "password")
	assert.Equal(t, UserSummary{ID: "1", Name: "Ana", Email: "ana@example.com"}, u.Summary())
}
