package voice

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"layeh.com/gopus"

	"github.com/latoulicious/Yotei/pkg/logging"
	"github.com/latoulicious/Yotei/pkg/player"
)

const (
	sampleRate = 48000
	channels   = 2
	frameSize  = 960                          // 20ms at 48kHz
	frameBytes = frameSize * channels * 2     // s16le
	pcmSamples = frameSize * channels
)

// Builder constructs ffmpeg-backed streams for prepared songs.
type Builder struct {
	log logging.Logger
}

func NewBuilder(log logging.Logger) *Builder {
	if log == nil {
		log = logging.Default()
	}
	return &Builder{log: log.With(logging.String("component", "stream"))}
}

// Build creates a stream for the song's resolved stream URL. The stream
// does not touch the network until the connection starts playing it.
func (b *Builder) Build(song *player.Song, opts player.StreamOptions) (player.Stream, error) {
	if song.StreamURL == "" {
		return nil, fmt.Errorf("song %q has no stream url", song.Name)
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Stream{
		url:    song.StreamURL,
		seek:   opts.Seek,
		filter: strings.Join(opts.FilterArgs, ","),
		log:    b.log,
		ctx:    ctx,
		cancel: cancel,
	}, nil
}

// Stream is one live ffmpeg-decoded audio stream. Exactly one of the finish
// or error handlers fires, at most once, unless Release tears the stream
// down first.
type Stream struct {
	url    string
	seek   int
	filter string
	log    logging.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	onFinish func()
	onError  func(error)
	paused   bool
	unpause  chan struct{}
	released bool
	cmd      *exec.Cmd

	done sync.Once
}

func (s *Stream) OnFinish(fn func()) {
	s.mu.Lock()
	s.onFinish = fn
	s.mu.Unlock()
}

func (s *Stream) OnError(fn func(error)) {
	s.mu.Lock()
	s.onError = fn
	s.mu.Unlock()
}

// start launches ffmpeg and the encode/send pump. connErr reports transport
// send stalls separately from stream decode errors.
func (s *Stream) start(vc *discordgo.VoiceConnection, volume int, connErr func(error)) error {
	args := []string{
		"-reconnect", "1",
		"-reconnect_streamed", "1",
		"-reconnect_delay_max", "5",
	}
	if s.seek > 0 {
		args = append(args, "-ss", strconv.Itoa(s.seek))
	}
	args = append(args, "-i", s.url)
	if s.filter != "" {
		args = append(args, "-af", s.filter)
	}
	args = append(args,
		"-f", "s16le",
		"-acodec", "pcm_s16le",
		"-ar", strconv.Itoa(sampleRate),
		"-ac", strconv.Itoa(channels),
		"-bufsize", "64k",
		"-")

	cmd := exec.CommandContext(s.ctx, "ffmpeg", args...)

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("creating stderr pipe: %w", err)
	}
	go drain(stderr)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("creating stdout pipe: %w", err)
	}

	encoder, err := gopus.NewEncoder(sampleRate, channels, gopus.Audio)
	if err != nil {
		return fmt.Errorf("creating opus encoder: %w", err)
	}
	encoder.SetBitrate(128000)

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting ffmpeg: %w", err)
	}
	s.mu.Lock()
	s.cmd = cmd
	s.mu.Unlock()

	go s.pump(vc, stdout, encoder, volume, connErr)
	return nil
}

// pump reads PCM frames from ffmpeg, applies volume, encodes to opus, and
// sends to the transport until EOF, error, or teardown.
func (s *Stream) pump(vc *discordgo.VoiceConnection, reader io.ReadCloser, encoder *gopus.Encoder, volume int, connErr func(error)) {
	defer func() {
		s.mu.Lock()
		cmd := s.cmd
		s.mu.Unlock()
		if cmd != nil && cmd.Process != nil {
			cmd.Process.Kill()
		}
		if cmd != nil {
			cmd.Wait()
		}
	}()

	vc.Speaking(true)
	defer vc.Speaking(false)

	buffer := make([]byte, frameBytes)
	for {
		select {
		case <-s.ctx.Done():
			s.finish(nil)
			return
		default:
		}

		s.mu.Lock()
		for s.paused {
			ch := s.unpause
			s.mu.Unlock()
			select {
			case <-ch:
			case <-s.ctx.Done():
				s.finish(nil)
				return
			}
			s.mu.Lock()
		}
		s.mu.Unlock()

		_, err := io.ReadFull(reader, buffer)
		if err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				s.finish(nil)
			} else {
				s.finish(fmt.Errorf("reading pcm data: %w", err))
			}
			return
		}

		samples := scaleSamples(bytesToInt16(buffer), volume)
		opusData, err := encoder.Encode(samples, frameSize, frameBytes)
		if err != nil {
			s.log.Warn("opus encoding error", logging.Error(err))
			continue
		}

		select {
		case vc.OpusSend <- opusData:
		case <-s.ctx.Done():
			s.finish(nil)
			return
		case <-time.After(5 * time.Second):
			if connErr != nil {
				connErr(fmt.Errorf("voice send stalled"))
			}
			s.finish(nil)
			return
		}
	}
}

// finish runs the terminal handler exactly once. A released stream runs
// neither handler.
func (s *Stream) finish(err error) {
	s.done.Do(func() {
		s.mu.Lock()
		released := s.released
		onFinish := s.onFinish
		onError := s.onError
		s.mu.Unlock()
		if released {
			return
		}
		if err != nil && onError != nil {
			onError(err)
			return
		}
		if onFinish != nil {
			onFinish()
		}
	})
}

func (s *Stream) Pause() {
	s.mu.Lock()
	if !s.paused {
		s.paused = true
		s.unpause = make(chan struct{})
	}
	s.mu.Unlock()
}

func (s *Stream) Resume() {
	s.mu.Lock()
	if s.paused {
		s.paused = false
		close(s.unpause)
	}
	s.mu.Unlock()
}

// Stop ends playback; the finish handler fires as if the song completed.
func (s *Stream) Stop() {
	s.cancel()
	s.finish(nil)
}

// Release tears the stream down without firing any handler.
func (s *Stream) Release() {
	s.mu.Lock()
	s.released = true
	s.mu.Unlock()
	s.cancel()
	s.done.Do(func() {})
}

func drain(r io.ReadCloser) {
	defer r.Close()
	buf := make([]byte, 1024)
	for {
		if _, err := r.Read(buf); err != nil {
			return
		}
	}
}

func bytesToInt16(data []byte) []int16 {
	samples := make([]int16, len(data)/2)
	for i := range samples {
		samples[i] = int16(data[i*2]) | int16(data[i*2+1])<<8
	}
	return samples
}

// scaleSamples applies a 0-100 volume to raw PCM. 100 is unity gain.
func scaleSamples(samples []int16, volume int) []int16 {
	if volume >= 100 || volume < 0 {
		return samples
	}
	for i, sample := range samples {
		samples[i] = int16(int(sample) * volume / 100)
	}
	return samples
}
