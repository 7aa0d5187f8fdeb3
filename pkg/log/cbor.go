package log

import (
	"errors"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
)

// ErrCorruptEvent is returned when a log record decodes but is not a valid
// scheduler event, or does not decode at all.
var ErrCorruptEvent = errors.New("corrupt event record")

// Events are small flat maps; anything larger is not one of ours.
const maxEventPairs = 16

var (
	eventEnc cbor.EncMode
	eventDec cbor.DecMode
)

func init() {
	var err error

	// Canonical key order and RFC 3339 times keep records byte-stable and
	// readable by generic CBOR tools.
	eventEnc, err = cbor.EncOptions{
		Sort:        cbor.SortCanonical,
		IndefLength: cbor.IndefLengthForbidden,
		Time:        cbor.TimeRFC3339Nano,
	}.EncMode()
	if err != nil {
		panic(fmt.Sprintf("log: event encoder: %v", err))
	}

	// A repeated key means two records were spliced together.
	eventDec, err = cbor.DecOptions{
		DupMapKey:   cbor.DupMapKeyEnforcedAPF,
		IndefLength: cbor.IndefLengthForbidden,
		MaxMapPairs: maxEventPairs,
	}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("log: event decoder: %v", err))
	}
}

// EncodeEvent encodes one event record.
func EncodeEvent(event Event) ([]byte, error) {
	if err := checkEvent(event); err != nil {
		return nil, err
	}
	return eventEnc.Marshal(event)
}

// DecodeEvent decodes and checks one event record.
func DecodeEvent(data []byte) (Event, error) {
	var event Event
	if err := eventDec.Unmarshal(data, &event); err != nil {
		return Event{}, fmt.Errorf("%w: %v", ErrCorruptEvent, err)
	}
	if err := checkEvent(event); err != nil {
		return Event{}, err
	}
	return event, nil
}

// eventStream reads consecutive records from an .olog stream.
type eventStream struct {
	dec *cbor.Decoder
}

func newEventStream(r io.Reader) *eventStream {
	return &eventStream{dec: eventDec.NewDecoder(r)}
}

// next returns io.EOF at a clean end of stream.
func (s *eventStream) next() (Event, error) {
	var event Event
	if err := s.dec.Decode(&event); err != nil {
		if errors.Is(err, io.EOF) {
			return Event{}, io.EOF
		}
		return Event{}, fmt.Errorf("%w: %v", ErrCorruptEvent, err)
	}
	if err := checkEvent(event); err != nil {
		return Event{}, err
	}
	return event, nil
}

// checkEvent rejects records no scheduler could have produced.
func checkEvent(event Event) error {
	if event.Kind > KindFail {
		return fmt.Errorf("%w: unknown kind %d", ErrCorruptEvent, event.Kind)
	}
	if event.Timestamp.IsZero() {
		return fmt.Errorf("%w: %s without timestamp", ErrCorruptEvent, event.Kind)
	}
	if event.Kind == KindTick && event.Remaining == nil {
		return fmt.Errorf("%w: tick without remaining seconds", ErrCorruptEvent)
	}
	return nil
}
