package core

// DebugWriter is a function type for writing debug messages
type DebugWriter func(string)

// TickEvent captures one control tick for post-mortem analysis
type TickEvent struct {
	EventType uint8  // Event type code
	Action    uint8  // Requested action this tick
	Tick      uint32 // Control tick counter
	A, B      uint8  // Persisted motor commands
	EmitA     uint8  // Emitted motor A byte
	EmitB     uint8  // Emitted motor B byte
}

// Event type codes
const (
	EvtTick     = 1 // Normal tick, packet sent
	EvtEStop    = 2 // Emergency stop applied
	EvtSendFail = 3 // Packet write failed
	EvtBoot     = 4 // Centered packet sent at boot
)

const (
	TickRingSize = 32 // Keep last 32 ticks for post-mortem
)

var (
	// debugPrintln is the global debug print function (can be set by platform code)
	debugPrintln DebugWriter = func(s string) {} // No-op by default

	// debugEnabled controls whether debug output is active
	debugEnabled bool = false

	tickRing     [TickRingSize]TickEvent
	tickRingHead uint8

	// Async debug output channel
	debugChan chan string
)

// SetDebugWriter sets the platform-specific debug output function
// This allows platforms to redirect debug output to UART, USB, a host logger, etc.
func SetDebugWriter(writer DebugWriter) {
	if writer == nil {
		writer = func(string) {}
	}
	debugPrintln = writer
}

// SetDebugEnabled enables or disables debug output
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

// IsDebugEnabled returns whether debug output is enabled
func IsDebugEnabled() bool {
	return debugEnabled
}

// InitAsyncDebug starts the async debug output goroutine
// Call this from main() after SetDebugWriter
func InitAsyncDebug() {
	debugChan = make(chan string, 16)
	go debugOutputWorker()
}

func debugOutputWorker() {
	for msg := range debugChan {
		debugPrintln(msg)
	}
}

// DebugPrintln writes a debug message using the platform-specific writer.
// With async output running the message is queued instead, and dropped if
// the queue is full so the control loop never waits on a slow link.
func DebugPrintln(msg string) {
	if !debugEnabled {
		return
	}
	if debugChan != nil {
		select {
		case debugChan <- msg:
		default:
		}
		return
	}
	debugPrintln(msg)
}

// RecordTick captures a tick in the ring buffer. Never blocks.
func RecordTick(evt TickEvent) {
	idx := tickRingHead
	tickRing[idx] = evt
	tickRingHead = (idx + 1) % TickRingSize
}

// TickHistory returns the recorded events, oldest first
func TickHistory() []TickEvent {
	out := make([]TickEvent, 0, TickRingSize)
	start := tickRingHead
	for i := uint8(0); i < TickRingSize; i++ {
		evt := tickRing[(start+i)%TickRingSize]
		if evt.EventType == 0 {
			continue // Empty slot
		}
		out = append(out, evt)
	}
	return out
}

// DumpTickRing writes the tick ring through the debug writer, regardless of
// the debug enable flag (call on shutdown/fault)
func DumpTickRing() {
	debugPrintln("[TICK] === Tick Ring Dump ===")
	for _, evt := range TickHistory() {
		var name string
		switch evt.EventType {
		case EvtTick:
			name = "TICK"
		case EvtEStop:
			name = "ESTOP"
		case EvtSendFail:
			name = "SEND_FAIL!"
		case EvtBoot:
			name = "BOOT"
		default:
			name = "UNKNOWN"
		}

		debugPrintln("[TICK] " + name +
			" n=" + utoa(evt.Tick) +
			" act=" + itoa(int(evt.Action)) +
			" a=" + itoa(int(evt.A)) +
			" b=" + itoa(int(evt.B)) +
			" out=" + itoa(int(evt.EmitA)) + "/" + itoa(int(evt.EmitB)))
	}
	debugPrintln("[TICK] === End Dump ===")
}

// ClearTickRing clears the tick buffer
func ClearTickRing() {
	for i := range tickRing {
		tickRing[i] = TickEvent{}
	}
	tickRingHead = 0
}
