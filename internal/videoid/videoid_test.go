package videoid

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestNormalize_BareID(t *testing.T) {
	id, err := Normalize("ggLajT7aMMk")
	require.NoError(t, err)
	require.Equal(t, "ggLajT7aMMk", id)
}

func TestNormalize_WatchURL(t *testing.T) {
	id, err := Normalize("https://www.youtube.com/watch?v=ggLajT7aMMk&t=123s&si=abc")
	require.NoError(t, err)
	require.Equal(t, "ggLajT7aMMk", id)
}

func TestNormalize_ShortlinkAndShorts(t *testing.T) {
	id, err := Normalize("youtu.be/ggLajT7aMMk?t=120")
	require.NoError(t, err)
	require.Equal(t, "ggLajT7aMMk", id)

	id, err = Normalize("https://youtube.com/shorts/ggLajT7aMMk?feature=share")
	require.NoError(t, err)
	require.Equal(t, "ggLajT7aMMk", id)

	id, err = Normalize("https://m.youtube.com/live/ggLajT7aMMk")
	require.NoError(t, err)
	require.Equal(t, "ggLajT7aMMk", id)
}

func TestNormalize_RejectsNonYouTube(t *testing.T) {
	_, err := Normalize("https://vimeo.com/123456")
	require.ErrorIs(t, err, ErrNotVideo)

	_, err = Normalize("https://youtube.com/@somechannel")
	require.ErrorIs(t, err, ErrNotVideo)

	_, err = Normalize("")
	require.Error(t, err)
}

func TestWatchURL(t *testing.T) {
	require.Equal(t, "https://youtube.com/watch?v=ggLajT7aMMk", WatchURL("ggLajT7aMMk"))
}

func TestVideoUUID_Deterministic(t *testing.T) {
	require.Equal(t, VideoUUID("ggLajT7aMMk"), VideoUUID("ggLajT7aMMk"))
	require.NotEqual(t, VideoUUID("ggLajT7aMMk"), VideoUUID("other_id_00"))
	require.Equal(t, uuid.MustParse("ac236969-fc24-5d7d-92b9-ef5e30e26a63"), VideoUUID("ggLajT7aMMk"))
}
