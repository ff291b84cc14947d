// Package midi builds the three-byte short messages that can be injected
// into the host's MIDI input queues from the audio thread.
package midi

import (
	"fmt"
)

// EventType is the status nibble of a channel message.
type EventType uint8

const (
	EventTypeNoteOff       EventType = 0x80
	EventTypeNoteOn        EventType = 0x90
	EventTypeControlChange EventType = 0xB0
)

func (t EventType) String() string {
	switch t {
	case EventTypeNoteOff:
		return "NoteOff"
	case EventTypeNoteOn:
		return "NoteOn"
	case EventTypeControlChange:
		return "ControlChange"
	default:
		return fmt.Sprintf("EventType(0x%02X)", uint8(t))
	}
}

// Message is a short channel message. It is a plain value so building one
// never allocates.
type Message struct {
	Status byte
	Data1  byte
	Data2  byte
}

func channelStatus(t EventType, channel uint8) byte {
	return byte(t) | channel&0x0F
}

// NoteOn creates a note-on message. channel is 0-15.
func NoteOn(channel, note, velocity uint8) Message {
	return Message{channelStatus(EventTypeNoteOn, channel), note & 0x7F, velocity & 0x7F}
}

func NoteOff(channel, note, velocity uint8) Message {
	return Message{channelStatus(EventTypeNoteOff, channel), note & 0x7F, velocity & 0x7F}
}

func ControlChange(channel, controller, value uint8) Message {
	return Message{channelStatus(EventTypeControlChange, channel), controller & 0x7F, value & 0x7F}
}

// Type returns the message type.
func (m Message) Type() EventType {
	return EventType(m.Status & 0xF0)
}

// Channel returns the 0-based channel.
func (m Message) Channel() uint8 {
	return m.Status & 0x0F
}

func (m Message) String() string {
	return fmt.Sprintf("%s{ch:%d, %d, %d}", m.Type(), m.Channel(), m.Data1, m.Data2)
}

