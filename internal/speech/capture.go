package speech

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const defaultChunkSize = 3200 // 100ms of 16kHz mono s16le

// ErrSourceEnded is reported when the audio source stops before Close.
var ErrSourceEnded = errors.New("audio source ended")

// SourceFunc opens a raw PCM audio source.
type SourceFunc func(ctx context.Context) (io.ReadCloser, error)

// StreamCapture reads PCM from Source and, when RecognizerURL is set,
// streams it to a websocket recognizer that answers with JSON Results.
type StreamCapture struct {
	Source        SourceFunc
	RecognizerURL string
	Dialer        *websocket.Dialer
	ChunkSize     int
	Logger        *zap.Logger
}

// Open acquires the source and recognizer. Anything acquired before a
// failure is released before Open returns.
func (c *StreamCapture) Open(ctx context.Context, sink Sink) (Stream, error) {
	if c.Source == nil {
		return nil, ErrUnavailable
	}
	logger := c.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	src, err := c.Source(ctx)
	if err != nil {
		return nil, fmt.Errorf("open audio source: %w", err)
	}

	var conn *websocket.Conn
	if c.RecognizerURL != "" {
		dialer := c.Dialer
		if dialer == nil {
			dialer = websocket.DefaultDialer
		}
		ws, resp, err := dialer.DialContext(ctx, c.RecognizerURL, nil)
		if err != nil {
			_ = src.Close()
			if resp != nil {
				err = fmt.Errorf("[status=%s] %w", resp.Status, err)
			}
			return nil, fmt.Errorf("dial recognizer: %w", err)
		}
		conn = ws
	}
	return c.start(src, conn, sink, logger), nil
}

func (c *StreamCapture) start(src io.ReadCloser, conn *websocket.Conn, sink Sink, logger *zap.Logger) *stream {
	size := c.ChunkSize
	if size <= 0 {
		size = defaultChunkSize
	}
	s := &stream{
		src:    src,
		conn:   conn,
		sink:   sink,
		logger: logger,
		done:   make(chan struct{}),
	}
	s.wg.Add(1)
	go s.pump(size)
	if conn != nil {
		s.wg.Add(1)
		go s.receive()
	}
	return s
}

type stream struct {
	src    io.ReadCloser
	conn   *websocket.Conn
	sink   Sink
	logger *zap.Logger

	writeMu sync.Mutex
	done    chan struct{}
	once    sync.Once
	wg      sync.WaitGroup
	err     error
}

func (s *stream) closing() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

func (s *stream) fail(err error) {
	if s.closing() || s.sink.OnError == nil {
		return
	}
	s.sink.OnError(err)
}

// pump copies audio chunks to the sink and the recognizer.
func (s *stream) pump(size int) {
	defer s.wg.Done()
	buf := make([]byte, size)
	for {
		n, err := s.src.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			if s.sink.OnAudio != nil && !s.closing() {
				s.sink.OnAudio(chunk)
			}
			if s.conn != nil {
				s.writeMu.Lock()
				werr := s.conn.WriteMessage(websocket.BinaryMessage, chunk)
				s.writeMu.Unlock()
				if werr != nil {
					s.fail(fmt.Errorf("send audio: %w", werr))
					return
				}
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				s.fail(ErrSourceEnded)
			} else {
				s.fail(fmt.Errorf("read audio: %w", err))
			}
			return
		}
	}
}

// receive reads recognition results until the connection closes.
func (s *stream) receive() {
	defer s.wg.Done()
	for {
		mt, data, err := s.conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				s.fail(fmt.Errorf("receive result: %w", err))
			}
			return
		}
		if mt != websocket.TextMessage {
			continue
		}
		var r Result
		if err := json.Unmarshal(data, &r); err != nil {
			s.logger.Warn("malformed recognizer message", zap.ByteString("data", data), zap.Error(err))
			continue
		}
		if s.sink.OnResult != nil && !s.closing() {
			s.sink.OnResult(r)
		}
	}
}

func (s *stream) Close() error {
	s.once.Do(func() {
		close(s.done)
		if err := s.src.Close(); err != nil {
			s.err = fmt.Errorf("close audio source: %w", err)
		}
		if s.conn != nil {
			s.writeMu.Lock()
			_ = s.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			s.writeMu.Unlock()
			if err := s.conn.Close(); err != nil && s.err == nil {
				s.err = fmt.Errorf("close recognizer: %w", err)
			}
		}
		s.wg.Wait()
	})
	return s.err
}

// CommandSource runs argv and reads raw PCM from its stdout.
func CommandSource(argv []string) SourceFunc {
	return func(context.Context) (io.ReadCloser, error) {
		if len(argv) == 0 {
			return nil, ErrUnavailable
		}
		if _, err := exec.LookPath(argv[0]); err != nil {
			return nil, fmt.Errorf("%w: %s not found", ErrUnavailable, argv[0])
		}
		cmd := exec.Command(argv[0], argv[1:]...)
		out, err := cmd.StdoutPipe()
		if err != nil {
			return nil, err
		}
		if err := cmd.Start(); err != nil {
			return nil, fmt.Errorf("start %s: %w", argv[0], err)
		}
		return &commandReader{cmd: cmd, out: out}, nil
	}
}

type commandReader struct {
	cmd  *exec.Cmd
	out  io.ReadCloser
	once sync.Once
}

func (r *commandReader) Read(p []byte) (int, error) { return r.out.Read(p) }

// Close kills the capture process and reaps it.
func (r *commandReader) Close() error {
	r.once.Do(func() {
		if r.cmd.Process != nil {
			_ = r.cmd.Process.Kill()
		}
		_ = r.cmd.Wait()
	})
	return nil
}
