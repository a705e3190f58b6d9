package common

import (
	"testing"

	"pms/src/models"
	"pms/src/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEffectiveAdmin(t *testing.T) {
	adminID := uint(7)

	admin := &models.User{ID: 7, Role: types.ROLE_ADMIN}
	got, ok := EffectiveAdmin(admin)
	assert.True(t, ok)
	assert.Equal(t, uint(7), got)

	employee := &models.User{ID: 12, Role: types.ROLE_EMPLOYEE, AdminID: &adminID}
	got, ok = EffectiveAdmin(employee)
	assert.True(t, ok)
	assert.Equal(t, uint(7), got)

	orphan := &models.User{ID: 13, Role: types.ROLE_EMPLOYEE}
	_, ok = EffectiveAdmin(orphan)
	assert.False(t, ok)

	unknown := &models.User{ID: 14, Role: "intruder"}
	_, ok = EffectiveAdmin(unknown)
	assert.False(t, ok)
}

func TestVisibleAdminIDs(t *testing.T) {
	gdb := newTestDB(t)
	admin := seedAdmin(t, gdb, "ana")
	e1 := seedEmployee(t, gdb, "edu", &admin.ID)
	e2 := seedEmployee(t, gdb, "eva", &admin.ID)
	other := seedAdmin(t, gdb, "bia")
	seedEmployee(t, gdb, "omar", &other.ID)

	ids, err := VisibleAdminIDs(gdb, admin)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{admin.ID, e1.ID, e2.ID}, ids)

	ids, err = VisibleAdminIDs(gdb, e1)
	require.NoError(t, err)
	assert.Equal(t, []uint{admin.ID}, ids)

	orphan := seedEmployee(t, gdb, "zoe", nil)
	ids, err = VisibleAdminIDs(gdb, orphan)
	require.NoError(t, err)
	assert.Empty(t, ids)

	_, err = VisibleAdminIDs(gdb, &models.User{ID: 99, Role: "intruder"})
	assert.True(t, IsKind(err, KindForbidden))
}

func TestCheckOwnership(t *testing.T) {
	adminID := uint(7)
	admin := &models.User{ID: 7, Role: types.ROLE_ADMIN}
	employee := &models.User{ID: 12, Role: types.ROLE_EMPLOYEE, AdminID: &adminID}

	assert.NoError(t, CheckOwnership(admin, 7))
	assert.NoError(t, CheckOwnership(employee, 7))
	assert.Error(t, CheckOwnership(admin, 8))

	orphan := &models.User{ID: 13, Role: types.ROLE_EMPLOYEE}
	assert.Error(t, CheckOwnership(orphan, 7))
}
