package transport

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/muurk/av2bridge/internal/logging"
	"github.com/muurk/av2bridge/internal/metrics"
	"github.com/muurk/av2bridge/internal/protocol"
)

// StatusSink receives decoded status records in frame order. The device
// state store implements this.
type StatusSink interface {
	Apply(status protocol.Status)
}

// Reader consumes the inbound byte stream, splits it into 0xFF-delimited
// frames and applies every successfully decoded status to the sink.
// Responses arrive independently of the outbound queue; the channel is
// full duplex at the byte level even though commands are serialised.
type Reader struct {
	r    io.Reader
	sink StatusSink
}

// NewReader creates a frame reader over the channel's read side.
func NewReader(r io.Reader, sink StatusSink) *Reader {
	return &Reader{r: r, sink: sink}
}

// Run reads frames until the underlying reader fails or is closed. A
// malformed frame is logged and dropped without touching device state; the
// loop keeps running after any single frame's failure.
func (r *Reader) Run() error {
	scanner := bufio.NewScanner(r.r)
	scanner.Split(scanFrames)

	for scanner.Scan() {
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		r.handleFrame(raw)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("serial read failed: %w", err)
	}
	return nil
}

func (r *Reader) handleFrame(raw []byte) {
	payload, err := protocol.Decode(raw)
	if err != nil {
		metrics.FramesDropped.Inc()
		if errors.Is(err, protocol.ErrInvalidHeader) {
			logging.Warn("Dropping frame with bad header", zap.String("raw", logging.Hex(raw)))
		} else {
			logging.Warn("Dropping undecodable frame",
				zap.String("raw", logging.Hex(raw)),
				zap.Error(err),
			)
		}
		return
	}

	status, err := protocol.ParseStatus(payload)
	if err != nil {
		metrics.FramesDropped.Inc()
		logging.Warn("Dropping malformed status payload",
			zap.String("payload", logging.Hex(payload)),
			zap.Error(err),
		)
		return
	}

	// Codes this build does not know about are ignored, not errors: newer
	// firmware is free to add response types.
	if unknown, ok := status.(protocol.UnknownStatus); ok {
		logging.Debug("Ignoring unknown response code",
			zap.Uint8("code", unknown.RespCode),
			zap.Int("data_len", len(unknown.Data)),
		)
		return
	}

	metrics.FramesDecoded.WithLabelValues(fmt.Sprintf("0x%02x", status.Code())).Inc()
	logging.Debug("Status decoded", zap.String("status", status.String()))
	r.sink.Apply(status)
}

// scanFrames is a bufio.SplitFunc yielding one frame per 0xFF delimiter,
// delimiter excluded.
func scanFrames(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if i := bytes.IndexByte(data, protocol.EOL); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF && len(data) > 0 {
		return len(data), data, nil
	}
	return 0, nil, nil
}
