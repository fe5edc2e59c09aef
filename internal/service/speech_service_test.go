package service

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio-chat/internal/pkg/storage/local"
)

type fakeTranscriber struct {
	calls    int
	filename string
	body     string
	// seenFiles 调用时暂存目录中的文件
	seenFiles []string
	dir       string
	text      string
	err       error
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error) {
	f.calls++
	f.filename = filename
	data, err := io.ReadAll(audio)
	if err != nil {
		return "", err
	}
	f.body = string(data)
	f.seenFiles = listFiles(f.dir)
	return f.text, f.err
}

type fakeSynthesizer struct {
	calls int
	text  string
	audio []byte
	err   error
}

func (f *fakeSynthesizer) Synthesize(ctx context.Context, text string) ([]byte, error) {
	f.calls++
	f.text = text
	return f.audio, f.err
}

func listFiles(dir string) []string {
	var files []string
	_ = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err == nil && !d.IsDir() {
			files = append(files, path)
		}
		return nil
	})
	return files
}

func newSpeechService(t *testing.T) (*SpeechService, *fakeTranscriber, *fakeSynthesizer, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := local.NewLocalStorage(dir)
	require.NoError(t, err)

	tr := &fakeTranscriber{dir: dir, text: "hello world"}
	syn := &fakeSynthesizer{audio: []byte("ID3mp3")}
	return NewSpeechService(tr, syn, store), tr, syn, dir
}

func TestSpeechService_Transcribe(t *testing.T) {
	ctx := context.Background()

	t.Run("success removes artifact", func(t *testing.T) {
		svc, tr, _, dir := newSpeechService(t)

		text, err := svc.Transcribe(ctx, "recording.webm", strings.NewReader("audio-bytes"))
		require.NoError(t, err)
		assert.Equal(t, "hello world", text)
		assert.Equal(t, 1, tr.calls)
		assert.Equal(t, "audio-bytes", tr.body)
		assert.Equal(t, "audio.webm", tr.filename)
		assert.Len(t, tr.seenFiles, 1)
		assert.Empty(t, listFiles(dir))
	})

	t.Run("upstream failure removes artifact", func(t *testing.T) {
		svc, tr, _, dir := newSpeechService(t)
		tr.err = errors.New("whisper unavailable")

		_, err := svc.Transcribe(ctx, "a.mp3", strings.NewReader("audio"))
		assert.EqualError(t, err, "whisper unavailable")
		assert.Empty(t, listFiles(dir))
	})

	t.Run("empty audio is rejected before upstream", func(t *testing.T) {
		svc, tr, _, dir := newSpeechService(t)

		_, err := svc.Transcribe(ctx, "a.mp3", strings.NewReader(""))
		assert.ErrorIs(t, err, ErrEmptyAudio)
		assert.Equal(t, 0, tr.calls)
		assert.Empty(t, listFiles(dir))
	})

	t.Run("missing extension defaults to mp3", func(t *testing.T) {
		svc, tr, _, _ := newSpeechService(t)

		_, err := svc.Transcribe(ctx, "blob", strings.NewReader("audio"))
		require.NoError(t, err)
		assert.Equal(t, "audio.mp3", tr.filename)
	})

	t.Run("concurrent uploads use distinct artifacts", func(t *testing.T) {
		svc, tr, _, dir := newSpeechService(t)

		// 模拟另一个请求的暂存文件仍在目录中
		other := filepath.Join(dir, transcribeKeyPrefix, "other.mp3")
		require.NoError(t, os.MkdirAll(filepath.Dir(other), 0o700))
		require.NoError(t, os.WriteFile(other, []byte("other"), 0o600))

		_, err := svc.Transcribe(ctx, "a.mp3", strings.NewReader("mine"))
		require.NoError(t, err)
		assert.Equal(t, "mine", tr.body)
		assert.Len(t, tr.seenFiles, 2)

		_, statErr := os.Stat(other)
		assert.NoError(t, statErr)
	})

	t.Run("canceled context still cleans up", func(t *testing.T) {
		svc, tr, _, dir := newSpeechService(t)
		tr.err = context.Canceled

		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := svc.Transcribe(cctx, "a.mp3", strings.NewReader("audio"))
		assert.Error(t, err)
		assert.Empty(t, listFiles(dir))
	})
}

func TestSpeechService_Synthesize(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		svc, _, syn, _ := newSpeechService(t)

		audio, err := svc.Synthesize(ctx, "Hello")
		require.NoError(t, err)
		assert.Equal(t, []byte("ID3mp3"), audio)
		assert.Equal(t, "Hello", syn.text)
	})

	t.Run("empty text is rejected", func(t *testing.T) {
		svc, _, syn, _ := newSpeechService(t)

		_, err := svc.Synthesize(ctx, "")
		assert.ErrorIs(t, err, ErrEmptyText)
		assert.Equal(t, 0, syn.calls)
	})

	t.Run("whitespace text is forwarded", func(t *testing.T) {
		svc, _, syn, _ := newSpeechService(t)

		_, err := svc.Synthesize(ctx, " \n")
		require.NoError(t, err)
		assert.Equal(t, 1, syn.calls)
		assert.Equal(t, " \n", syn.text)
	})

	t.Run("upstream error", func(t *testing.T) {
		svc, _, syn, _ := newSpeechService(t)
		syn.err = errors.New("quota exceeded")

		_, err := svc.Synthesize(ctx, "Hello")
		assert.EqualError(t, err, "quota exceeded")
	})
}

func TestAudioExt(t *testing.T) {
	tests := map[string]string{
		"a.MP3":         ".mp3",
		"voice.webm":    ".webm",
		"noext":         ".mp3",
		"":              ".mp3",
		"x.verylongext": ".mp3",
	}
	for in, want := range tests {
		assert.Equal(t, want, audioExt(in), in)
	}
}
