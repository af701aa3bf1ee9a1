package transcoder

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeCommand(t *testing.T, mode string, captured *[]string) {
	original := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		if captured != nil {
			*captured = append([]string(nil), args...)
		}
		cmd := exec.CommandContext(ctx, os.Args[0], "-test.run=TestHelperProcess", "--")
		cmd.Args = append(cmd.Args, args...)
		cmd.Env = append(os.Environ(), "GO_WANT_HELPER_PROCESS=1", "FFMPEG_HELPER_MODE="+mode)
		return cmd
	}
	t.Cleanup(func() { commandContext = original })
}

func inputs(t *testing.T, n int) ([]string, string) {
	dir := t.TempDir()
	var paths []string
	for i := 0; i < n; i++ {
		p := filepath.Join(dir, fmt.Sprintf("%d.mp3", i))
		require.NoError(t, os.WriteFile(p, []byte("audio"), 0o600))
		paths = append(paths, p)
	}
	return paths, filepath.Join(dir, "merged.mp3")
}

func TestConcatenate(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		var args []string
		fakeCommand(t, "success", &args)
		in, out := inputs(t, 3)

		err := NewFFmpeg(WithBitrate("192k")).Concatenate(context.Background(), in, out)
		require.NoError(t, err)

		assert.Contains(t, args, "concat")
		assert.Contains(t, args, "192k")
		assert.Equal(t, out, args[len(args)-1])
		_, err = os.Stat(filepath.Join(filepath.Dir(out), "concat.txt"))
		assert.True(t, os.IsNotExist(err), "concat list is removed")
	})

	t.Run("failure carries output", func(t *testing.T) {
		fakeCommand(t, "failure", nil)
		in, out := inputs(t, 2)

		err := NewFFmpeg().Concatenate(context.Background(), in, out)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Invalid data found")
	})

	t.Run("timeout", func(t *testing.T) {
		fakeCommand(t, "hang", nil)
		in, out := inputs(t, 2)

		err := NewFFmpeg(WithTimeout(50*time.Millisecond)).Concatenate(context.Background(), in, out)
		assert.True(t, errors.Is(err, ErrTimeout))
	})

	t.Run("needs two inputs", func(t *testing.T) {
		in, out := inputs(t, 1)
		assert.ErrorIs(t, NewFFmpeg().Concatenate(context.Background(), in, out), ErrTooFewInputs)
	})
}

func TestWriteConcatList(t *testing.T) {
	dir := t.TempDir()
	list := filepath.Join(dir, "list.txt")
	require.NoError(t, writeConcatList(list, []string{"/tmp/it's.mp3", "/tmp/b.mp3"}))

	data, err := os.ReadFile(list)
	require.NoError(t, err)
	assert.Equal(t, "file '/tmp/it'\\''s.mp3'\nfile '/tmp/b.mp3'\n", string(data))
}

func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}

	args := os.Args
	for i, a := range args {
		if a == "--" {
			args = args[i+1:]
			break
		}
	}

	switch os.Getenv("FFMPEG_HELPER_MODE") {
	case "success":
		output := args[len(args)-1]
		if err := os.WriteFile(output, []byte("merged"), 0o600); err != nil {
			os.Exit(2)
		}
		os.Exit(0)
	case "failure":
		fmt.Fprintln(os.Stderr, "concat.txt: Invalid data found when processing input")
		os.Exit(1)
	case "hang":
		time.Sleep(10 * time.Second)
		os.Exit(0)
	default:
		os.Exit(0)
	}
}
