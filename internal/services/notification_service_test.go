package services_test

import (
	"testing"

	"feedinneed_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedNotification(t *testing.T, env *testEnv, userID, title string) *models.Notification {
	t.Helper()
	n := &models.Notification{UserID: userID, Type: "donation_approved", Title: title}
	require.NoError(t, env.db.Create(n).Error)
	return n
}

func TestNotificationInbox(t *testing.T) {
	env := setupEnv(t)
	user := createUser(t, env.db, models.UserRoleDonor, true, false)
	other := createUser(t, env.db, models.UserRoleDonor, true, false)

	first := seedNotification(t, env, user.ID, "first")
	seedNotification(t, env, user.ID, "second")
	seedNotification(t, env, other.ID, "not yours")

	resp, err := env.notifications.List(user.ID, false, 1, 20)
	require.NoError(t, err)
	assert.Len(t, resp.Notifications, 2)
	assert.Equal(t, int64(2), resp.UnreadCount)

	require.NoError(t, env.notifications.MarkAsRead(user.ID, first.ID))

	unread, err := env.notifications.UnreadCount(user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread)

	onlyUnread, err := env.notifications.List(user.ID, true, 1, 20)
	require.NoError(t, err)
	require.Len(t, onlyUnread.Notifications, 1)
	assert.Equal(t, "second", onlyUnread.Notifications[0].Title)
}

func TestMarkAsRead_ScopedToOwner(t *testing.T) {
	env := setupEnv(t)
	owner := createUser(t, env.db, models.UserRoleDonor, true, false)
	intruder := createUser(t, env.db, models.UserRoleDonor, true, false)

	n := seedNotification(t, env, owner.ID, "private")

	assert.Error(t, env.notifications.MarkAsRead(intruder.ID, n.ID))

	unread, err := env.notifications.UnreadCount(owner.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread)
}

func TestMarkAllAsRead(t *testing.T) {
	env := setupEnv(t)
	user := createUser(t, env.db, models.UserRoleDonor, true, false)

	seedNotification(t, env, user.ID, "a")
	seedNotification(t, env, user.ID, "b")
	seedNotification(t, env, user.ID, "c")

	require.NoError(t, env.notifications.MarkAllAsRead(user.ID))

	unread, err := env.notifications.UnreadCount(user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), unread)
}
