package localization_test

import (
	"testing"
	"testing/fstest"

	"skillswap/backend/internal/localization"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_LoadsBundledLocales(t *testing.T) {
	l, err := localization.Default()
	require.NoError(t, err)

	assert.Equal(t, "New Skill Swap Request", l.GetString("en", "notification.swap_request.title"))
	assert.Equal(t, "Swap Request Declined", l.GetString("en", "notification.swap_rejected.title"))
	assert.True(t, l.Has("uk"))
	assert.False(t, l.Has("fr"))
}

func TestGetString_Fallbacks(t *testing.T) {
	fsys := fstest.MapFS{
		"en.json":    {Data: []byte(`{"greeting":"Hello","only_en":"English"}`)},
		"uk.json":    {Data: []byte(`{"greeting":"Привіт"}`)},
		"README.txt": {Data: []byte("ignored")},
	}
	l, err := localization.NewLocalizer(fsys)
	require.NoError(t, err)

	assert.Equal(t, "Привіт", l.GetString("uk", "greeting"))
	assert.Equal(t, "English", l.GetString("uk", "only_en"), "missing key falls back to en")
	assert.Equal(t, "Hello", l.GetString("fr", "greeting"), "unknown language falls back to en")
	assert.Equal(t, "missing.key", l.GetString("en", "missing.key"))
}

func TestNewLocalizer_InvalidJSON(t *testing.T) {
	_, err := localization.NewLocalizer(fstest.MapFS{"en.json": {Data: []byte("{")}})
	assert.Error(t, err)
}

func TestFormat(t *testing.T) {
	l := localization.MustDefault()

	assert.Equal(t, "Ada wants to swap skills with you!",
		l.Format("en", "notification.swap_request.body", map[string]string{"name": "Ada"}))
	assert.Equal(t, "Bob accepted your skill swap request!",
		l.Format("en", "notification.swap_accepted.body", map[string]string{"name": "Bob"}))
	assert.Equal(t, "Carol left you a review!",
		l.Format("en", "notification.new_review.body", map[string]string{"name": "Carol"}))
	assert.Equal(t, "{name} declined your skill swap request.",
		l.Format("en", "notification.swap_rejected.body", nil))
}
