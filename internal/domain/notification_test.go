package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestBuildAudience(t *testing.T) {
	uid := "u1"
	pid := "p1"
	empty := ""

	a, err := BuildAudience(KindPersonal, &uid, nil)
	require.NoError(t, err)
	assert.Equal(t, PersonalAudience{UserID: "u1"}, a)

	_, err = BuildAudience(KindPersonal, nil, nil)
	assert.ErrorIs(t, err, ErrTargetUserRequired)
	_, err = BuildAudience(KindPersonal, &empty, nil)
	assert.ErrorIs(t, err, ErrTargetUserRequired)

	a, err = BuildAudience(KindGlobal, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, GlobalAudience{}, a)

	a, err = BuildAudience(KindProductAlert, nil, &pid)
	require.NoError(t, err)
	assert.Equal(t, ProductAudience{ProductID: "p1"}, a)

	_, err = BuildAudience(KindProductAlert, nil, nil)
	assert.ErrorIs(t, err, ErrRelatedProductRequired)

	_, err = BuildAudience(Kind("urgent"), nil, nil)
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestAudienceRoundTrip(t *testing.T) {
	uid := "u1"
	n := Notification{Kind: KindPersonal, TargetUserID: &uid}
	assert.Equal(t, PersonalAudience{UserID: "u1"}, n.Audience())

	pid := "p1"
	n = Notification{Kind: KindProductAlert, RelatedProductID: &pid}
	assert.Equal(t, ProductAudience{ProductID: "p1"}, n.Audience())

	n = Notification{Kind: KindGlobal}
	assert.Equal(t, GlobalAudience{}, n.Audience())
}

func TestDueAndExpired(t *testing.T) {
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	n := Notification{}
	assert.True(t, n.Due(now), "nil publishAt is due immediately")
	assert.False(t, n.Expired(now), "nil expiresAt never expires")

	n.PublishAt = &future
	assert.False(t, n.Due(now))
	n.PublishAt = &past
	assert.True(t, n.Due(now))
	n.PublishAt = &now
	assert.True(t, n.Due(now), "boundary instant counts as due")

	n.ExpiresAt = &future
	assert.False(t, n.Expired(now))
	n.ExpiresAt = &now
	assert.True(t, n.Expired(now), "boundary instant counts as expired")
}

func TestVisibleTo(t *testing.T) {
	uid := "u1"
	pid := "p1"
	wishlist := map[string]struct{}{"p1": {}}

	personal := Notification{Kind: KindPersonal, TargetUserID: &uid}
	assert.True(t, personal.VisibleTo("u1", nil))
	assert.False(t, personal.VisibleTo("u2", nil))

	global := Notification{Kind: KindGlobal}
	assert.True(t, global.VisibleTo("anyone", nil))

	alert := Notification{Kind: KindProductAlert, RelatedProductID: &pid}
	assert.True(t, alert.VisibleTo("u1", wishlist))
	assert.False(t, alert.VisibleTo("u1", nil))
}
