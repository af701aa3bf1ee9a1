// Package transcoder concatenates audio files with ffmpeg.
package transcoder

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

var commandContext = exec.CommandContext

var (
	ErrTooFewInputs = errors.New("at least two inputs are required")
	ErrTimeout      = errors.New("transcoder timed out")
)

// Transcoder turns an ordered list of local audio files into one file.
type Transcoder interface {
	Concatenate(ctx context.Context, inputs []string, output string) error
}

type Option func(*FFmpeg)

func WithBinary(binary string) Option {
	return func(f *FFmpeg) {
		if binary != "" {
			f.binary = binary
		}
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(f *FFmpeg) {
		if timeout > 0 {
			f.timeout = timeout
		}
	}
}

func WithBitrate(bitrate string) Option {
	return func(f *FFmpeg) {
		if bitrate != "" {
			f.bitrate = bitrate
		}
	}
}

// FFmpeg re-encodes the concatenation to MP3 at a fixed bitrate.
type FFmpeg struct {
	binary  string
	timeout time.Duration
	bitrate string
}

func NewFFmpeg(opts ...Option) *FFmpeg {
	f := &FFmpeg{binary: "ffmpeg", timeout: 5 * time.Minute, bitrate: "128k"}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Available reports whether the binary can be found on PATH.
func (f *FFmpeg) Available() error {
	if _, err := exec.LookPath(f.binary); err != nil {
		return fmt.Errorf("%s not found: %w", f.binary, err)
	}
	return nil
}

func (f *FFmpeg) Concatenate(ctx context.Context, inputs []string, output string) error {
	if len(inputs) < 2 {
		return ErrTooFewInputs
	}
	if output == "" {
		return errors.New("output path required")
	}

	listPath := filepath.Join(filepath.Dir(output), "concat.txt")
	if err := writeConcatList(listPath, inputs); err != nil {
		return err
	}
	defer os.Remove(listPath)

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	cmd := commandContext(ctx, f.binary, f.args(listPath, output)...)
	out, err := cmd.CombinedOutput()
	if ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("%w after %s", ErrTimeout, f.timeout)
	}
	if err != nil {
		return fmt.Errorf("%w: %s", err, strings.TrimSpace(string(out)))
	}

	if info, err := os.Stat(output); err != nil || info.Size() == 0 {
		return fmt.Errorf("transcoder produced no output")
	}
	return nil
}

func (f *FFmpeg) args(listPath, output string) []string {
	return []string{
		"-hide_banner",
		"-loglevel", "error",
		"-y",
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
		"-vn",
		"-c:a", "libmp3lame",
		"-b:a", f.bitrate,
		output,
	}
}

// writeConcatList writes the concat demuxer input, one quoted path per line.
func writeConcatList(path string, inputs []string) error {
	var b strings.Builder
	for _, in := range inputs {
		abs, err := filepath.Abs(in)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", in, err)
		}
		fmt.Fprintf(&b, "file '%s'\n", strings.ReplaceAll(abs, "'", `'\''`))
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o600); err != nil {
		return fmt.Errorf("write concat list: %w", err)
	}
	return nil
}
